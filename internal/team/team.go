// Package team holds the fixed roster and the device-local current-member
// selection. There is no authentication: the selection is a convenience
// cached on disk, and different devices may act as different members at the
// same time.
package team

import (
	"fmt"
	"os"
	"strings"

	"github.com/tastcoffee/contentops/internal/localstate"
)

// Member is a team member who can own items and author comments.
type Member struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Initials string `json:"initials"`
	Color    string `json:"color"`
}

// Members is the fixed roster.
var Members = []Member{
	{ID: "obi", Name: "Obi", Initials: "O", Color: "#F05881"},
	{ID: "reggie", Name: "Reggie", Initials: "R", Color: "#a12f52"},
	{ID: "maggie", Name: "Maggie", Initials: "M", Color: "#ef4056"},
	{ID: "jason", Name: "Jason", Initials: "J", Color: "#757575"},
}

// Get returns the member with the given id.
func Get(id string) (Member, bool) {
	for _, m := range Members {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}

// Current returns the cached member selection for this device, or false when
// none has been made yet.
func Current() (Member, bool) {
	path, err := localstate.MemberPath()
	if err != nil {
		return Member{}, false
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Member{}, false
	}
	return Get(strings.TrimSpace(string(raw)))
}

// Select caches id as this device's member selection.
func Select(id string) (Member, error) {
	m, ok := Get(id)
	if !ok {
		return Member{}, fmt.Errorf("unknown team member %q", id)
	}
	path, err := localstate.MemberPath()
	if err != nil {
		return Member{}, err
	}
	if err := os.WriteFile(path, []byte(m.ID+"\n"), 0o600); err != nil {
		return Member{}, err
	}
	return m, nil
}
