package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tastcoffee/contentops/internal/model"
	"github.com/tastcoffee/contentops/internal/store"
)

// Run exercises a compliance suite against a store.Store implementation.
// Implementations should provide a clean, isolated store and return it from
// makeStore.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	// Content items
	a, err := s.ContentItems().Insert(ctx, &model.ContentItem{Title: "Ethiopia drop teaser", Stage: model.StageIdea, Type: "Product Launch"})
	if err != nil {
		t.Fatalf("InsertItem a: %v", err)
	}
	if a.ID == "" || a.CreatedAt.IsZero() || a.UpdatedAt.IsZero() {
		t.Fatalf("InsertItem a: id/timestamps not assigned: %+v", a)
	}
	b, err := s.ContentItems().Insert(ctx, &model.ContentItem{Title: "V60 brewing guide", Stage: model.StageIdea, Type: "Brewing Guide"})
	if err != nil {
		t.Fatalf("InsertItem b: %v", err)
	}

	// Newest first
	items, err := s.ContentItems().List(ctx)
	if err != nil || len(items) != 2 {
		t.Fatalf("ListItems: n=%d err=%v", len(items), err)
	}
	if items[0].ID != b.ID || items[1].ID != a.ID {
		t.Fatalf("ListItems: want newest first [%s %s], got [%s %s]", b.ID, a.ID, items[0].ID, items[1].ID)
	}

	// Listing twice in a row yields the same result
	again, err := s.ContentItems().List(ctx)
	if err != nil || len(again) != len(items) {
		t.Fatalf("ListItems again: n=%d err=%v", len(again), err)
	}
	for i := range items {
		if again[i].ID != items[i].ID {
			t.Fatalf("ListItems again: order changed at %d", i)
		}
	}

	if got, err := s.ContentItems().Get(ctx, a.ID); err != nil || got.Title != "Ethiopia drop teaser" {
		t.Fatalf("GetItem: got=%+v err=%v", got, err)
	}

	// Partial update touches only named fields
	stage := model.StageReady
	updated, err := s.ContentItems().Update(ctx, a.ID, model.ContentItemPatch{Stage: &stage})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if updated.Stage != model.StageReady || updated.Title != "Ethiopia drop teaser" {
		t.Fatalf("UpdateItem: stage=%q title=%q", updated.Stage, updated.Title)
	}
	if !updated.UpdatedAt.After(a.UpdatedAt) {
		t.Fatalf("UpdateItem: updated_at did not advance: %v <= %v", updated.UpdatedAt, a.UpdatedAt)
	}

	// Missing ids map to model.ErrNotFound
	if _, err := s.ContentItems().Get(ctx, "no-such-id"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetItem missing: want ErrNotFound, got %v", err)
	}
	if _, err := s.ContentItems().Update(ctx, "no-such-id", model.ContentItemPatch{Stage: &stage}); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("UpdateItem missing: want ErrNotFound, got %v", err)
	}
	if err := s.ContentItems().Remove(ctx, "no-such-id"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("RemoveItem missing: want ErrNotFound, got %v", err)
	}

	// Campaigns
	camp, err := s.Campaigns().Insert(ctx, &model.Campaign{Name: "Holiday Drop", Status: "Planning"})
	if err != nil {
		t.Fatalf("InsertCampaign: %v", err)
	}
	name := "Holiday Drop 2026"
	if got, err := s.Campaigns().Update(ctx, camp.ID, model.CampaignPatch{Name: &name}); err != nil || got.Name != name {
		t.Fatalf("UpdateCampaign: got=%+v err=%v", got, err)
	}
	if cs, err := s.Campaigns().List(ctx); err != nil || len(cs) != 1 {
		t.Fatalf("ListCampaigns: n=%d err=%v", len(cs), err)
	}

	// Comments are scoped to their item, oldest first
	c1, err := s.Comments().Insert(ctx, &model.Comment{ContentItemID: a.ID, Text: "first pass", AuthorID: "obi", AuthorName: "Obi"})
	if err != nil {
		t.Fatalf("InsertComment c1: %v", err)
	}
	c2, err := s.Comments().Insert(ctx, &model.Comment{ContentItemID: a.ID, Text: "second pass", AuthorID: "maggie", AuthorName: "Maggie"})
	if err != nil {
		t.Fatalf("InsertComment c2: %v", err)
	}
	if _, err := s.Comments().Insert(ctx, &model.Comment{ContentItemID: b.ID, Text: "other item", AuthorID: "obi", AuthorName: "Obi"}); err != nil {
		t.Fatalf("InsertComment other: %v", err)
	}
	cs, err := s.Comments().ListByItem(ctx, a.ID)
	if err != nil || len(cs) != 2 {
		t.Fatalf("ListByItem: n=%d err=%v", len(cs), err)
	}
	if cs[0].ID != c1.ID || cs[1].ID != c2.ID {
		t.Fatalf("ListByItem: want oldest first [%s %s], got [%s %s]", c1.ID, c2.ID, cs[0].ID, cs[1].ID)
	}
	if err := s.Comments().Remove(ctx, c2.ID); err != nil {
		t.Fatalf("RemoveComment: %v", err)
	}

	// Deleting an item leaves its comments behind
	if err := s.ContentItems().Remove(ctx, a.ID); err != nil {
		t.Fatalf("RemoveItem a: %v", err)
	}
	if left, err := s.Comments().ListByItem(ctx, a.ID); err != nil || len(left) != 1 {
		t.Fatalf("ListByItem after item delete: n=%d err=%v", len(left), err)
	}

	// Products
	p, err := s.Products().Insert(ctx, &model.Product{Name: "Yirgacheffe", Roast: "Light Roast", Color: "#fa8f9c"})
	if err != nil {
		t.Fatalf("InsertProduct: %v", err)
	}
	if ps, err := s.Products().List(ctx); err != nil || len(ps) != 1 || ps[0].ID != p.ID {
		t.Fatalf("ListProducts: n=%d err=%v", len(ps), err)
	}
	if err := s.Products().Remove(ctx, p.ID); err != nil {
		t.Fatalf("RemoveProduct: %v", err)
	}

	// Brand voice starts with the default document and round-trips a Set
	doc, err := s.Voice().Get(ctx)
	if err != nil {
		t.Fatalf("GetVoice: %v", err)
	}
	if doc != model.DefaultBrandVoice {
		t.Fatalf("GetVoice: want default document, got %d bytes", len(doc))
	}
	if err := s.Voice().Set(ctx, "short and punchy"); err != nil {
		t.Fatalf("SetVoice: %v", err)
	}
	if doc, err := s.Voice().Get(ctx); err != nil || doc != "short and punchy" {
		t.Fatalf("GetVoice after Set: doc=%q err=%v", doc, err)
	}

	// Watch delivers an event for a mutation on the watched collection
	sub, err := s.Watch(ctx, store.KindContentItems, nil)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer sub.Close()

	ins, err := s.ContentItems().Insert(ctx, &model.ContentItem{Title: "Cold brew recipe", Stage: model.StageIdea, Type: "Brewing Guide"})
	if err != nil {
		t.Fatalf("InsertItem watched: %v", err)
	}
	waitForEvent(t, sub, store.KindContentItems, ins.ID)

	// Filtered comment watch sees only its item's comments
	csub, err := s.Watch(ctx, store.KindComments, &store.Filter{Field: "content_item_id", Value: b.ID})
	if err != nil {
		t.Fatalf("Watch comments: %v", err)
	}
	defer csub.Close()

	if _, err := s.Comments().Insert(ctx, &model.Comment{ContentItemID: ins.ID, Text: "off-topic", AuthorID: "reggie", AuthorName: "Reggie"}); err != nil {
		t.Fatalf("InsertComment off-topic: %v", err)
	}
	onTopic, err := s.Comments().Insert(ctx, &model.Comment{ContentItemID: b.ID, Text: "on-topic", AuthorID: "reggie", AuthorName: "Reggie"})
	if err != nil {
		t.Fatalf("InsertComment on-topic: %v", err)
	}
	waitForEvent(t, csub, store.KindComments, onTopic.ID)

	if err := s.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

// waitForEvent drains sub until an event for wantID arrives. The feed may
// deliver events for other writers first; resync events also count because
// a consumer would reload and observe the mutation.
func waitForEvent(t *testing.T, sub *store.Subscription, kind store.Kind, wantID string) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev := <-sub.C:
			if ev.Op == store.OpResync {
				return
			}
			if ev.Kind == kind && ev.ID == wantID {
				return
			}
		case <-deadline:
			t.Fatalf("no change event for %s/%s within deadline", kind, wantID)
		}
	}
}
