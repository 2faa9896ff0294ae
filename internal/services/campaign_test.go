package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tastcoffee/contentops/internal/model"
	"github.com/tastcoffee/contentops/internal/store/memory"
)

func TestCampaignCreateDefaults(t *testing.T) {
	st := memory.New()
	svc := NewCampaignService(st, zerolog.Nop())
	ctx := context.Background()

	c, err := svc.Create(ctx, &model.Campaign{Name: "  Summer Series  "})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.Name != "Summer Series" {
		t.Fatalf("name not trimmed: %q", c.Name)
	}
	if c.Status != model.CampaignStatuses[0] {
		t.Fatalf("default status: %q", c.Status)
	}

	if _, err := svc.Create(ctx, &model.Campaign{Name: ""}); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("blank name: want ErrValidation, got %v", err)
	}
	if _, err := svc.Create(ctx, &model.Campaign{Name: "x", Status: "Paused"}); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("bad status: want ErrValidation, got %v", err)
	}
}

// Deleting a campaign leaves linked items on the board with a dangling
// campaignId. Nothing cascades.
func TestCampaignDeleteLeavesItemsDangling(t *testing.T) {
	st := memory.New()
	svc := NewCampaignService(st, zerolog.Nop())
	ctx := context.Background()

	c, err := svc.Create(ctx, &model.Campaign{Name: "Doomed"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	item, err := st.ContentItems().Insert(ctx, &model.ContentItem{
		Title: "linked", Stage: model.StageInCampaign, Type: "Campaign", CampaignID: c.ID,
	})
	if err != nil {
		t.Fatalf("seed item: %v", err)
	}

	if err := svc.Delete(ctx, c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	got, err := st.ContentItems().Get(ctx, item.ID)
	if err != nil {
		t.Fatalf("Get item: %v", err)
	}
	if got.CampaignID != c.ID {
		t.Fatalf("campaignId rewritten on delete: %q", got.CampaignID)
	}
	if _, err := st.Campaigns().Get(ctx, c.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("campaign still present: %v", err)
	}
}
