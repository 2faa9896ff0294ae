package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tastcoffee/contentops/internal/model"
	"github.com/tastcoffee/contentops/internal/store"
)

// ContentService owns content item rules: creation defaults, validation,
// campaign lock, and publish-sequence reordering.
type ContentService struct {
	store store.Store
	log   zerolog.Logger
}

func NewContentService(s store.Store, log zerolog.Logger) *ContentService {
	return &ContentService{store: s, log: log}
}

func (s *ContentService) List(ctx context.Context) ([]*model.ContentItem, error) {
	return s.store.ContentItems().List(ctx)
}

func (s *ContentService) Get(ctx context.Context, id string) (*model.ContentItem, error) {
	return s.store.ContentItems().Get(ctx, id)
}

// Create validates and persists a new item. An empty title refuses the
// submission before any store call.
func (s *ContentService) Create(ctx context.Context, item *model.ContentItem) (*model.ContentItem, error) {
	in := *item
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", model.ErrValidation)
	}
	if in.Stage == "" {
		in.Stage = model.StageIdea
	}
	if !model.ValidStage(in.Stage) {
		return nil, fmt.Errorf("%w: unknown stage %q", model.ErrValidation, in.Stage)
	}
	if in.Type == "" {
		in.Type = model.TypeOptions[0]
	}
	return s.store.ContentItems().Insert(ctx, &in)
}

// CreateInCampaign creates an item from a campaign's detail view. The
// campaign link is locked: whatever campaignId the submitted record carries
// is overwritten with the scoping campaign's id.
func (s *ContentService) CreateInCampaign(ctx context.Context, campaignID string, item *model.ContentItem) (*model.ContentItem, error) {
	if _, err := s.store.Campaigns().Get(ctx, campaignID); err != nil {
		return nil, err
	}
	in := *item
	in.CampaignID = campaignID
	if in.Stage == "" {
		in.Stage = model.StageInCampaign
	}
	return s.Create(ctx, &in)
}

func (s *ContentService) Update(ctx context.Context, id string, p model.ContentItemPatch) (*model.ContentItem, error) {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", model.ErrValidation)
	}
	if p.Stage != nil && !model.ValidStage(*p.Stage) {
		return nil, fmt.Errorf("%w: unknown stage %q", model.ErrValidation, *p.Stage)
	}
	return s.store.ContentItems().Update(ctx, id, p)
}

// UpdateInCampaign edits an item from a campaign's detail view, with the
// same campaign lock as CreateInCampaign.
func (s *ContentService) UpdateInCampaign(ctx context.Context, campaignID, id string, p model.ContentItemPatch) (*model.ContentItem, error) {
	p.CampaignID = &campaignID
	return s.Update(ctx, id, p)
}

// Delete removes the item. Its comments stay in the store; the thread is
// only reachable through the item, so the orphans are invisible.
func (s *ContentService) Delete(ctx context.Context, id string) error {
	return s.store.ContentItems().Remove(ctx, id)
}

// Resequence moves the campaign-linked item at position from to position to
// within the campaign's publish sequence and reassigns seq for every linked
// item as its zero-based position after the move. Items outside the campaign
// are untouched. The assignment is a full rewrite, not a delta, so seq values
// stay gapless and duplicate-free.
func (s *ContentService) Resequence(ctx context.Context, campaignID string, from, to int) error {
	items, err := s.store.ContentItems().List(ctx)
	if err != nil {
		return err
	}
	var linked []*model.ContentItem
	for _, it := range items {
		if it.CampaignID == campaignID {
			linked = append(linked, it)
		}
	}
	sort.SliceStable(linked, func(i, j int) bool { return linked[i].Seq < linked[j].Seq })

	reordered, err := reorder(linked, from, to)
	if err != nil {
		return err
	}
	for idx, it := range reordered {
		if it.Seq == idx {
			continue
		}
		seq := idx
		if _, err := s.store.ContentItems().Update(ctx, it.ID, model.ContentItemPatch{Seq: &seq}); err != nil {
			return err
		}
	}
	return nil
}

func reorder[T any](list []T, from, to int) ([]T, error) {
	if from < 0 || from >= len(list) || to < 0 || to >= len(list) {
		return nil, fmt.Errorf("%w: reorder positions out of range", model.ErrValidation)
	}
	out := append([]T(nil), list...)
	moved := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]T{moved}, out[to:]...)...)
	return out, nil
}
