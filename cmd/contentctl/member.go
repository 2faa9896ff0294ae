package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tastcoffee/contentops/internal/team"
)

func init() {
	memberCmd := &cobra.Command{Use: "member", Short: "Team member selection"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the team roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, m := range team.Members {
				fmt.Fprintf(os.Stdout, "%-8s %s\n", m.ID, m.Name)
			}
			return nil
		},
	}
	memberCmd.AddCommand(listCmd)

	selectCmd := &cobra.Command{
		Use:   "select MEMBER_ID",
		Short: "Act as the given team member on this device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := team.Select(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "acting as %s (%s)\n", m.Name, m.ID)
			return nil
		},
	}
	memberCmd.AddCommand(selectCmd)

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current member selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, ok := team.Current()
			if !ok {
				return fmt.Errorf("no member selected; run: contentctl member select MEMBER_ID")
			}
			fmt.Fprintf(os.Stdout, "%s (%s)\n", m.Name, m.ID)
			return nil
		},
	}
	memberCmd.AddCommand(showCmd)

	rootCmd.AddCommand(memberCmd)
}

// currentMember resolves the device's member selection, required for
// authored actions such as commenting.
func currentMember() (team.Member, error) {
	m, ok := team.Current()
	if !ok {
		return team.Member{}, fmt.Errorf("no member selected; run: contentctl member select MEMBER_ID")
	}
	return m, nil
}
