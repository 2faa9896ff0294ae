package model

import "time"

// Stage is a pipeline state a content item moves through.
type Stage string

const (
	StageIdea         Stage = "Idea"
	StageInCampaign   Stage = "In Campaign"
	StageInProduction Stage = "In Production"
	StageReady        Stage = "Ready"
	StagePublished    Stage = "Published"
)

// PipelineStages lists the stages in board order.
var PipelineStages = []Stage{StageIdea, StageInCampaign, StageInProduction, StageReady, StagePublished}

// ValidStage reports whether s is one of the five pipeline stages.
func ValidStage(s Stage) bool {
	for _, v := range PipelineStages {
		if s == v {
			return true
		}
	}
	return false
}

// ChannelOptions lists the publishing channels content can target.
var ChannelOptions = []string{"Instagram", "Email", "Website", "TikTok", "LinkedIn"}

// TypeOptions lists the content types; the first is the default for new items.
var TypeOptions = []string{"Brewing Guide", "Product Launch", "Origin Story", "Processing Method", "Campaign", "Community", "Other"}

// CampaignStatuses lists the states a campaign moves through.
var CampaignStatuses = []string{"Planning", "Active", "Live", "Complete"}

// RoastType classifies a product in the catalog.
type RoastType struct {
	Label  string `json:"label"`
	Color  string `json:"color"`
	Border string `json:"border,omitempty"`
}

// RoastTypes is the fixed roast classification set.
var RoastTypes = []RoastType{
	{Label: "Light Roast", Color: "#fa8f9c"},
	{Label: "Medium Roast", Color: "#F05881"},
	{Label: "Dark Roast", Color: "#a12f52"},
	{Label: "Blend", Color: "#ef4056"},
	{Label: "Decaf", Color: "#fbf9f3", Border: "#e0ded8"},
	{Label: "Special Release", Color: "#0000ff"},
}

// ContentItem is a unit of planned content moving through the pipeline.
//
// CampaignID is a weak reference: deleting the campaign leaves it dangling.
// Product references a catalog entry by name, not id; renaming a product
// orphans the reference.
type ContentItem struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Stage      Stage     `json:"stage"`
	Channels   []string  `json:"channels,omitempty"`
	Type       string    `json:"type"`
	CampaignID string    `json:"campaignId,omitempty"`
	Date       string    `json:"date,omitempty"` // YYYY-MM-DD; empty means unscheduled
	Seq        int       `json:"seq"`            // positional order within the owning campaign only
	DraftCopy  string    `json:"draftCopy,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	Owner      string    `json:"owner,omitempty"`
	Product    string    `json:"product,omitempty"`
	DriveURL   string    `json:"driveUrl,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitzero"`
	UpdatedAt  time.Time `json:"updated_at,omitzero"`
}

// Campaign groups content items by back-reference and carries the brief.
type Campaign struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	Channels   []string  `json:"channels,omitempty"`
	DropDate   string    `json:"dropDate,omitempty"`
	Goal       string    `json:"goal,omitempty"`
	Pillars    string    `json:"pillars,omitempty"`
	BigThink   string    `json:"bigThink,omitempty"`
	KeyMessage string    `json:"keyMessage,omitempty"`
	Tone       string    `json:"tone,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitzero"`
	UpdatedAt  time.Time `json:"updated_at,omitzero"`
}

// Comment is an append-only remark on a content item. Comments are never
// edited in place; deletion is allowed only to the author.
type Comment struct {
	ID            string    `json:"id"`
	ContentItemID string    `json:"content_item_id"`
	Text          string    `json:"text"`
	AuthorID      string    `json:"author_id"`
	AuthorName    string    `json:"author_name"`
	CreatedAt     time.Time `json:"created_at,omitzero"`
}

// Product is a catalog entry shown as an option on content items.
type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Roast     string    `json:"roast"`
	Color     string    `json:"color"`
	Border    string    `json:"border,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// ContentItemPatch carries the fields of a partial content item update.
// Nil pointers leave the stored value untouched.
type ContentItemPatch struct {
	Title      *string   `json:"title,omitempty"`
	Stage      *Stage    `json:"stage,omitempty"`
	Channels   *[]string `json:"channels,omitempty"`
	Type       *string   `json:"type,omitempty"`
	CampaignID *string   `json:"campaignId,omitempty"`
	Date       *string   `json:"date,omitempty"`
	Seq        *int      `json:"seq,omitempty"`
	DraftCopy  *string   `json:"draftCopy,omitempty"`
	Notes      *string   `json:"notes,omitempty"`
	Owner      *string   `json:"owner,omitempty"`
	Product    *string   `json:"product,omitempty"`
	DriveURL   *string   `json:"driveUrl,omitempty"`
}

// CampaignPatch carries the fields of a partial campaign update.
type CampaignPatch struct {
	Name       *string   `json:"name,omitempty"`
	Status     *string   `json:"status,omitempty"`
	Channels   *[]string `json:"channels,omitempty"`
	DropDate   *string   `json:"dropDate,omitempty"`
	Goal       *string   `json:"goal,omitempty"`
	Pillars    *string   `json:"pillars,omitempty"`
	BigThink   *string   `json:"bigThink,omitempty"`
	KeyMessage *string   `json:"keyMessage,omitempty"`
	Tone       *string   `json:"tone,omitempty"`
}
