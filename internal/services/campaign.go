package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tastcoffee/contentops/internal/model"
	"github.com/tastcoffee/contentops/internal/store"
)

// CampaignService owns campaign rules.
type CampaignService struct {
	store store.Store
	log   zerolog.Logger
}

func NewCampaignService(s store.Store, log zerolog.Logger) *CampaignService {
	return &CampaignService{store: s, log: log}
}

func (s *CampaignService) List(ctx context.Context) ([]*model.Campaign, error) {
	return s.store.Campaigns().List(ctx)
}

func (s *CampaignService) Get(ctx context.Context, id string) (*model.Campaign, error) {
	return s.store.Campaigns().Get(ctx, id)
}

func (s *CampaignService) Create(ctx context.Context, c *model.Campaign) (*model.Campaign, error) {
	in := *c
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", model.ErrValidation)
	}
	if in.Status == "" {
		in.Status = model.CampaignStatuses[0]
	}
	if !validCampaignStatus(in.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", model.ErrValidation, in.Status)
	}
	return s.store.Campaigns().Insert(ctx, &in)
}

func (s *CampaignService) Update(ctx context.Context, id string, p model.CampaignPatch) (*model.Campaign, error) {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", model.ErrValidation)
	}
	if p.Status != nil && !validCampaignStatus(*p.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", model.ErrValidation, *p.Status)
	}
	return s.store.Campaigns().Update(ctx, id, p)
}

// Delete removes the campaign without touching linked content items: their
// campaignId is a weak reference and dangles afterwards. Linked items are
// counted and logged so the gap is at least visible operationally.
func (s *CampaignService) Delete(ctx context.Context, id string) error {
	if items, err := s.store.ContentItems().List(ctx); err == nil {
		dangling := 0
		for _, it := range items {
			if it.CampaignID == id {
				dangling++
			}
		}
		if dangling > 0 {
			s.log.Warn().Str("campaign_id", id).Int("items", dangling).
				Msg("deleting campaign with linked content items; references will dangle")
		}
	}
	return s.store.Campaigns().Remove(ctx, id)
}

func validCampaignStatus(status string) bool {
	for _, v := range model.CampaignStatuses {
		if status == v {
			return true
		}
	}
	return false
}
