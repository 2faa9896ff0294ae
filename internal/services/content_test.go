package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tastcoffee/contentops/internal/model"
	"github.com/tastcoffee/contentops/internal/store/memory"
)

func TestCreateDefaults(t *testing.T) {
	st := memory.New()
	svc := NewContentService(st, zerolog.Nop())
	ctx := context.Background()

	item, err := svc.Create(ctx, &model.ContentItem{Title: "  Chemex guide  "})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if item.Title != "Chemex guide" {
		t.Fatalf("title not trimmed: %q", item.Title)
	}
	if item.Stage != model.StageIdea {
		t.Fatalf("default stage: %q", item.Stage)
	}
	if item.Type != model.TypeOptions[0] {
		t.Fatalf("default type: %q", item.Type)
	}
}

func TestCreateValidation(t *testing.T) {
	st := memory.New()
	svc := NewContentService(st, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.Create(ctx, &model.ContentItem{Title: "   "}); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("blank title: want ErrValidation, got %v", err)
	}
	if _, err := svc.Create(ctx, &model.ContentItem{Title: "x", Stage: "Shipped"}); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("bad stage: want ErrValidation, got %v", err)
	}
	if items, _ := st.ContentItems().List(ctx); len(items) != 0 {
		t.Fatalf("rejected submissions reached the store: %d", len(items))
	}

	title := " "
	if _, err := svc.Update(ctx, "any", model.ContentItemPatch{Title: &title}); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("blank title update: want ErrValidation, got %v", err)
	}
}

// Items created or edited from a campaign's detail view always end up linked
// to that campaign, no matter what campaignId the submission carried.
func TestCampaignLock(t *testing.T) {
	st := memory.New()
	svc := NewContentService(st, zerolog.Nop())
	ctx := context.Background()

	camp, err := st.Campaigns().Insert(ctx, &model.Campaign{Name: "Spring Drop", Status: "Planning"})
	if err != nil {
		t.Fatalf("seed campaign: %v", err)
	}
	other, err := st.Campaigns().Insert(ctx, &model.Campaign{Name: "Other", Status: "Planning"})
	if err != nil {
		t.Fatalf("seed other: %v", err)
	}

	item, err := svc.CreateInCampaign(ctx, camp.ID, &model.ContentItem{Title: "teaser", CampaignID: other.ID})
	if err != nil {
		t.Fatalf("CreateInCampaign: %v", err)
	}
	if item.CampaignID != camp.ID {
		t.Fatalf("create: campaign link not locked: %q", item.CampaignID)
	}
	if item.Stage != model.StageInCampaign {
		t.Fatalf("create in campaign default stage: %q", item.Stage)
	}

	updated, err := svc.UpdateInCampaign(ctx, camp.ID, item.ID, model.ContentItemPatch{CampaignID: &other.ID})
	if err != nil {
		t.Fatalf("UpdateInCampaign: %v", err)
	}
	if updated.CampaignID != camp.ID {
		t.Fatalf("update: campaign link not locked: %q", updated.CampaignID)
	}

	// Unknown campaign refuses the create outright.
	if _, err := svc.CreateInCampaign(ctx, "no-such-campaign", &model.ContentItem{Title: "x"}); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("unknown campaign: want ErrNotFound, got %v", err)
	}
}

func TestResequence(t *testing.T) {
	st := memory.New()
	svc := NewContentService(st, zerolog.Nop())
	ctx := context.Background()

	camp, err := st.Campaigns().Insert(ctx, &model.Campaign{Name: "Launch", Status: "Planning"})
	if err != nil {
		t.Fatalf("seed campaign: %v", err)
	}

	ids := make([]string, 4)
	for i := range ids {
		seq := i
		it, err := st.ContentItems().Insert(ctx, &model.ContentItem{
			Title: "post", Stage: model.StageInCampaign, Type: "Campaign", CampaignID: camp.ID, Seq: seq,
		})
		if err != nil {
			t.Fatalf("seed item %d: %v", i, err)
		}
		ids[i] = it.ID
	}
	// An unlinked item with a colliding seq must not move.
	loose, err := st.ContentItems().Insert(ctx, &model.ContentItem{Title: "loose", Stage: model.StageIdea, Type: "Other", Seq: 2})
	if err != nil {
		t.Fatalf("seed loose: %v", err)
	}

	if err := svc.Resequence(ctx, camp.ID, 3, 1); err != nil {
		t.Fatalf("Resequence: %v", err)
	}

	// [0 1 2 3] with 3 moved to position 1 reads [0 3 1 2].
	wantOrder := []string{ids[0], ids[3], ids[1], ids[2]}
	for wantSeq, id := range wantOrder {
		got, err := st.ContentItems().Get(ctx, id)
		if err != nil {
			t.Fatalf("Get %s: %v", id, err)
		}
		if got.Seq != wantSeq {
			t.Fatalf("item %s: seq=%d want %d", id, got.Seq, wantSeq)
		}
	}

	if got, err := st.ContentItems().Get(ctx, loose.ID); err != nil || got.Seq != 2 {
		t.Fatalf("unlinked item touched: seq=%d err=%v", got.Seq, err)
	}

	if err := svc.Resequence(ctx, camp.ID, 0, 9); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("out of range: want ErrValidation, got %v", err)
	}
}

func TestDeleteKeepsComments(t *testing.T) {
	st := memory.New()
	svc := NewContentService(st, zerolog.Nop())
	ctx := context.Background()

	item, err := svc.Create(ctx, &model.ContentItem{Title: "doomed"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := st.Comments().Insert(ctx, &model.Comment{ContentItemID: item.ID, Text: "note", AuthorID: "obi", AuthorName: "Obi"}); err != nil {
		t.Fatalf("comment: %v", err)
	}

	if err := svc.Delete(ctx, item.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if left, err := st.Comments().ListByItem(ctx, item.ID); err != nil || len(left) != 1 {
		t.Fatalf("comments after delete: n=%d err=%v", len(left), err)
	}
}
