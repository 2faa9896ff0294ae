// Package memory provides an in-process store used by tests and as a
// throwaway backend. Mutations are synchronous; change events are synthesized
// on the store's hub so watchers in the same process observe every write.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tastcoffee/contentops/internal/model"
	"github.com/tastcoffee/contentops/internal/store"
)

// Store is an in-memory store.Store implementation.
type Store struct {
	mu        sync.Mutex
	hub       *store.Hub
	items     []*model.ContentItem // insertion order, oldest first
	campaigns []*model.Campaign
	comments  []*model.Comment
	products  []*model.Product
	voice     string
	voiceSet  bool

	failNext error
	now      func() time.Time
	tick     time.Duration
}

// New returns an empty store.
func New() *Store {
	return &Store{hub: store.NewHub(), now: time.Now}
}

// FailNext makes the next mutation fail with err. Used by tests to exercise
// optimistic rollback paths.
func (s *Store) FailNext(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = err
}

func (s *Store) takeFailure() error {
	err := s.failNext
	s.failNext = nil
	return err
}

// timestamps are strictly increasing so list ordering is deterministic even
// when inserts land within one clock tick.
func (s *Store) stamp() time.Time {
	t := s.now().Add(s.tick)
	s.tick += time.Microsecond
	return t
}

func (s *Store) ContentItems() store.ContentItems { return (*contentItems)(s) }
func (s *Store) Campaigns() store.Campaigns       { return (*campaigns)(s) }
func (s *Store) Comments() store.Comments         { return (*comments)(s) }
func (s *Store) Products() store.Products         { return (*products)(s) }
func (s *Store) Voice() store.Voice               { return (*voice)(s) }

func (s *Store) Watch(_ context.Context, kind store.Kind, filter *store.Filter) (*store.Subscription, error) {
	return s.hub.Subscribe(kind, filter), nil
}

func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close() error               { return nil }

// --- ContentItems ---

type contentItems Store

func (c *contentItems) List(context.Context) ([]*model.ContentItem, error) {
	s := (*Store)(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.ContentItem, 0, len(s.items))
	for i := len(s.items) - 1; i >= 0; i-- { // newest first
		cp := *s.items[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (c *contentItems) Get(_ context.Context, id string) (*model.ContentItem, error) {
	s := (*Store)(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ID == id {
			cp := *it
			return &cp, nil
		}
	}
	return nil, model.ErrNotFound
}

func (c *contentItems) Insert(_ context.Context, item *model.ContentItem) (*model.ContentItem, error) {
	s := (*Store)(c)
	s.mu.Lock()
	if err := s.takeFailure(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	cp := *item
	if cp.ID == "" {
		cp.ID = uuid.New().String()
	}
	cp.CreatedAt = s.stamp()
	cp.UpdatedAt = cp.CreatedAt
	s.items = append(s.items, &cp)
	out := cp
	s.mu.Unlock()

	s.hub.Publish(store.ChangeEvent{Op: store.OpInserted, Kind: store.KindContentItems, ID: cp.ID})
	return &out, nil
}

func (c *contentItems) Update(_ context.Context, id string, p model.ContentItemPatch) (*model.ContentItem, error) {
	s := (*Store)(c)
	s.mu.Lock()
	if err := s.takeFailure(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	var updated *model.ContentItem
	for _, it := range s.items {
		if it.ID == id {
			p.Apply(it)
			it.UpdatedAt = s.stamp()
			cp := *it
			updated = &cp
			break
		}
	}
	s.mu.Unlock()
	if updated == nil {
		return nil, model.ErrNotFound
	}
	s.hub.Publish(store.ChangeEvent{Op: store.OpUpdated, Kind: store.KindContentItems, ID: id})
	return updated, nil
}

func (c *contentItems) Remove(_ context.Context, id string) error {
	s := (*Store)(c)
	s.mu.Lock()
	if err := s.takeFailure(); err != nil {
		s.mu.Unlock()
		return err
	}
	found := false
	for i, it := range s.items {
		if it.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			found = true
			break
		}
	}
	s.mu.Unlock()
	if !found {
		return model.ErrNotFound
	}
	s.hub.Publish(store.ChangeEvent{Op: store.OpDeleted, Kind: store.KindContentItems, ID: id})
	return nil
}

// --- Campaigns ---

type campaigns Store

func (c *campaigns) List(context.Context) ([]*model.Campaign, error) {
	s := (*Store)(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Campaign, 0, len(s.campaigns))
	for i := len(s.campaigns) - 1; i >= 0; i-- {
		cp := *s.campaigns[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (c *campaigns) Get(_ context.Context, id string) (*model.Campaign, error) {
	s := (*Store)(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cm := range s.campaigns {
		if cm.ID == id {
			cp := *cm
			return &cp, nil
		}
	}
	return nil, model.ErrNotFound
}

func (c *campaigns) Insert(_ context.Context, cm *model.Campaign) (*model.Campaign, error) {
	s := (*Store)(c)
	s.mu.Lock()
	if err := s.takeFailure(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	cp := *cm
	if cp.ID == "" {
		cp.ID = uuid.New().String()
	}
	cp.CreatedAt = s.stamp()
	cp.UpdatedAt = cp.CreatedAt
	s.campaigns = append(s.campaigns, &cp)
	out := cp
	s.mu.Unlock()

	s.hub.Publish(store.ChangeEvent{Op: store.OpInserted, Kind: store.KindCampaigns, ID: cp.ID})
	return &out, nil
}

func (c *campaigns) Update(_ context.Context, id string, p model.CampaignPatch) (*model.Campaign, error) {
	s := (*Store)(c)
	s.mu.Lock()
	if err := s.takeFailure(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	var updated *model.Campaign
	for _, cm := range s.campaigns {
		if cm.ID == id {
			p.Apply(cm)
			cm.UpdatedAt = s.stamp()
			cp := *cm
			updated = &cp
			break
		}
	}
	s.mu.Unlock()
	if updated == nil {
		return nil, model.ErrNotFound
	}
	s.hub.Publish(store.ChangeEvent{Op: store.OpUpdated, Kind: store.KindCampaigns, ID: id})
	return updated, nil
}

func (c *campaigns) Remove(_ context.Context, id string) error {
	s := (*Store)(c)
	s.mu.Lock()
	if err := s.takeFailure(); err != nil {
		s.mu.Unlock()
		return err
	}
	found := false
	for i, cm := range s.campaigns {
		if cm.ID == id {
			s.campaigns = append(s.campaigns[:i], s.campaigns[i+1:]...)
			found = true
			break
		}
	}
	s.mu.Unlock()
	if !found {
		return model.ErrNotFound
	}
	s.hub.Publish(store.ChangeEvent{Op: store.OpDeleted, Kind: store.KindCampaigns, ID: id})
	return nil
}

// --- Comments ---

type comments Store

func (c *comments) ListByItem(_ context.Context, contentItemID string) ([]*model.Comment, error) {
	s := (*Store)(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Comment
	for _, cm := range s.comments { // oldest first
		if cm.ContentItemID == contentItemID {
			cp := *cm
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (c *comments) Get(_ context.Context, id string) (*model.Comment, error) {
	s := (*Store)(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cm := range s.comments {
		if cm.ID == id {
			cp := *cm
			return &cp, nil
		}
	}
	return nil, model.ErrNotFound
}

func (c *comments) Insert(_ context.Context, cm *model.Comment) (*model.Comment, error) {
	s := (*Store)(c)
	s.mu.Lock()
	if err := s.takeFailure(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	cp := *cm
	if cp.ID == "" {
		cp.ID = uuid.New().String()
	}
	cp.CreatedAt = s.stamp()
	s.comments = append(s.comments, &cp)
	out := cp
	s.mu.Unlock()

	s.hub.Publish(store.ChangeEvent{
		Op: store.OpInserted, Kind: store.KindComments, ID: cp.ID, ContentItemID: cp.ContentItemID,
	})
	return &out, nil
}

func (c *comments) Remove(_ context.Context, id string) error {
	s := (*Store)(c)
	s.mu.Lock()
	if err := s.takeFailure(); err != nil {
		s.mu.Unlock()
		return err
	}
	var removed *model.Comment
	for i, cm := range s.comments {
		if cm.ID == id {
			removed = cm
			s.comments = append(s.comments[:i], s.comments[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	if removed == nil {
		return model.ErrNotFound
	}
	s.hub.Publish(store.ChangeEvent{
		Op: store.OpDeleted, Kind: store.KindComments, ID: id, ContentItemID: removed.ContentItemID,
	})
	return nil
}

// --- Products ---

type products Store

func (c *products) List(context.Context) ([]*model.Product, error) {
	s := (*Store)(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Product, 0, len(s.products))
	for _, p := range s.products { // oldest first
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (c *products) Get(_ context.Context, id string) (*model.Product, error) {
	s := (*Store)(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, model.ErrNotFound
}

func (c *products) Insert(_ context.Context, p *model.Product) (*model.Product, error) {
	s := (*Store)(c)
	s.mu.Lock()
	if err := s.takeFailure(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	cp := *p
	if cp.ID == "" {
		cp.ID = uuid.New().String()
	}
	cp.CreatedAt = s.stamp()
	s.products = append(s.products, &cp)
	out := cp
	s.mu.Unlock()

	s.hub.Publish(store.ChangeEvent{Op: store.OpInserted, Kind: store.KindProducts, ID: cp.ID})
	return &out, nil
}

func (c *products) Remove(_ context.Context, id string) error {
	s := (*Store)(c)
	s.mu.Lock()
	if err := s.takeFailure(); err != nil {
		s.mu.Unlock()
		return err
	}
	found := false
	for i, p := range s.products {
		if p.ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			found = true
			break
		}
	}
	s.mu.Unlock()
	if !found {
		return model.ErrNotFound
	}
	s.hub.Publish(store.ChangeEvent{Op: store.OpDeleted, Kind: store.KindProducts, ID: id})
	return nil
}

// --- Voice ---

type voice Store

func (v *voice) Get(context.Context) (string, error) {
	s := (*Store)(v)
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.voiceSet {
		return model.DefaultBrandVoice, nil
	}
	return s.voice, nil
}

func (v *voice) Set(_ context.Context, doc string) error {
	s := (*Store)(v)
	s.mu.Lock()
	if err := s.takeFailure(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.voice = doc
	s.voiceSet = true
	s.mu.Unlock()

	s.hub.Publish(store.ChangeEvent{Op: store.OpUpdated, Kind: store.KindVoice})
	return nil
}
