package services

import (
	"context"

	"github.com/tastcoffee/contentops/internal/store"
)

// VoiceService reads and writes the brand-voice document. The store serves a
// shipped default until the team saves its own version.
type VoiceService struct {
	store store.Store
}

func NewVoiceService(s store.Store) *VoiceService {
	return &VoiceService{store: s}
}

func (s *VoiceService) Get(ctx context.Context) (string, error) {
	return s.store.Voice().Get(ctx)
}

func (s *VoiceService) Set(ctx context.Context, doc string) error {
	return s.store.Voice().Set(ctx, doc)
}
