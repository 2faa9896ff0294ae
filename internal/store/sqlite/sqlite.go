// Package sqlite implements the local single-writer store. Each collection is
// one JSON document in a key-value table, read fully at open and rewritten
// after every mutation.
//
// There is no cross-process change feed: Watch only observes writes made
// through the same Store. A second process on the same database file diverges
// silently until it reopens. That gap is part of local mode's contract, not a
// defect to paper over.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tastcoffee/contentops/internal/model"
	"github.com/tastcoffee/contentops/internal/store"
)

const (
	keyItems     = "tast_items"
	keyCampaigns = "tast_campaigns"
	keyComments  = "tast_comments"
	keyProducts  = "tast_products"
	keyVoice     = "tast_voice"
)

const schema = `CREATE TABLE IF NOT EXISTS collections (
    key   TEXT PRIMARY KEY,
    doc   TEXT NOT NULL
);`

// Store is the local store.Store implementation.
type Store struct {
	db  *sql.DB
	hub *store.Hub

	mu        sync.Mutex
	items     []*model.ContentItem // oldest first
	campaigns []*model.Campaign
	comments  []*model.Comment
	products  []*model.Product
	voice     string
	voiceSet  bool

	tick time.Duration
}

// New loads every collection from db into memory and returns the store.
func New(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("sqlite: create schema: %w", err)
	}
	s := &Store{db: db, hub: store.NewHub()}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	if err := s.readDoc(keyItems, &s.items); err != nil {
		return err
	}
	if err := s.readDoc(keyCampaigns, &s.campaigns); err != nil {
		return err
	}
	if err := s.readDoc(keyComments, &s.comments); err != nil {
		return err
	}
	if err := s.readDoc(keyProducts, &s.products); err != nil {
		return err
	}
	var doc string
	switch err := s.db.QueryRow(`SELECT doc FROM collections WHERE key=?`, keyVoice).Scan(&doc); err {
	case nil:
		s.voice = doc
		s.voiceSet = true
	case sql.ErrNoRows:
	default:
		return fmt.Errorf("sqlite: load %s: %w", keyVoice, err)
	}
	return nil
}

func (s *Store) readDoc(key string, dst any) error {
	var doc string
	switch err := s.db.QueryRow(`SELECT doc FROM collections WHERE key=?`, key).Scan(&doc); err {
	case nil:
		if err := json.Unmarshal([]byte(doc), dst); err != nil {
			return fmt.Errorf("sqlite: decode %s: %w", key, err)
		}
		return nil
	case sql.ErrNoRows:
		return nil
	default:
		return fmt.Errorf("sqlite: load %s: %w", key, err)
	}
}

// persist must be called with s.mu held.
func (s *Store) persist(key string, v any) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("sqlite: encode %s: %w", key, err)
	}
	return s.writeDoc(key, string(doc))
}

func (s *Store) writeDoc(key, doc string) error {
	_, err := s.db.Exec(
		`INSERT INTO collections (key, doc) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET doc=excluded.doc`,
		key, doc,
	)
	if err != nil {
		return fmt.Errorf("sqlite: write %s: %w", key, err)
	}
	return nil
}

func (s *Store) stamp() time.Time {
	t := time.Now().Add(s.tick)
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

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }
func (s *Store) Close() error                   { return s.db.Close() }

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
	cp := *item
	if cp.ID == "" {
		cp.ID = uuid.New().String()
	}
	cp.CreatedAt = s.stamp()
	cp.UpdatedAt = cp.CreatedAt
	s.items = append(s.items, &cp)
	if err := s.persist(keyItems, s.items); err != nil {
		s.items = s.items[:len(s.items)-1]
		s.mu.Unlock()
		return nil, err
	}
	out := cp
	s.mu.Unlock()

	s.hub.Publish(store.ChangeEvent{Op: store.OpInserted, Kind: store.KindContentItems, ID: cp.ID})
	return &out, nil
}

func (c *contentItems) Update(_ context.Context, id string, p model.ContentItemPatch) (*model.ContentItem, error) {
	s := (*Store)(c)
	s.mu.Lock()
	var updated *model.ContentItem
	for _, it := range s.items {
		if it.ID == id {
			prev := *it
			p.Apply(it)
			it.UpdatedAt = s.stamp()
			if err := s.persist(keyItems, s.items); err != nil {
				*it = prev
				s.mu.Unlock()
				return nil, err
			}
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
	found := false
	for i, it := range s.items {
		if it.ID == id {
			removed := s.items[i]
			s.items = append(s.items[:i], s.items[i+1:]...)
			if err := s.persist(keyItems, s.items); err != nil {
				s.items = append(s.items[:i], append([]*model.ContentItem{removed}, s.items[i:]...)...)
				s.mu.Unlock()
				return err
			}
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
	cp := *cm
	if cp.ID == "" {
		cp.ID = uuid.New().String()
	}
	cp.CreatedAt = s.stamp()
	cp.UpdatedAt = cp.CreatedAt
	s.campaigns = append(s.campaigns, &cp)
	if err := s.persist(keyCampaigns, s.campaigns); err != nil {
		s.campaigns = s.campaigns[:len(s.campaigns)-1]
		s.mu.Unlock()
		return nil, err
	}
	out := cp
	s.mu.Unlock()

	s.hub.Publish(store.ChangeEvent{Op: store.OpInserted, Kind: store.KindCampaigns, ID: cp.ID})
	return &out, nil
}

func (c *campaigns) Update(_ context.Context, id string, p model.CampaignPatch) (*model.Campaign, error) {
	s := (*Store)(c)
	s.mu.Lock()
	var updated *model.Campaign
	for _, cm := range s.campaigns {
		if cm.ID == id {
			prev := *cm
			p.Apply(cm)
			cm.UpdatedAt = s.stamp()
			if err := s.persist(keyCampaigns, s.campaigns); err != nil {
				*cm = prev
				s.mu.Unlock()
				return nil, err
			}
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
	found := false
	for i, cm := range s.campaigns {
		if cm.ID == id {
			removed := s.campaigns[i]
			s.campaigns = append(s.campaigns[:i], s.campaigns[i+1:]...)
			if err := s.persist(keyCampaigns, s.campaigns); err != nil {
				s.campaigns = append(s.campaigns[:i], append([]*model.Campaign{removed}, s.campaigns[i:]...)...)
				s.mu.Unlock()
				return err
			}
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
	cp := *cm
	if cp.ID == "" {
		cp.ID = uuid.New().String()
	}
	cp.CreatedAt = s.stamp()
	s.comments = append(s.comments, &cp)
	if err := s.persist(keyComments, s.comments); err != nil {
		s.comments = s.comments[:len(s.comments)-1]
		s.mu.Unlock()
		return nil, err
	}
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
	var removed *model.Comment
	for i, cm := range s.comments {
		if cm.ID == id {
			removed = s.comments[i]
			s.comments = append(s.comments[:i], s.comments[i+1:]...)
			if err := s.persist(keyComments, s.comments); err != nil {
				s.comments = append(s.comments[:i], append([]*model.Comment{removed}, s.comments[i:]...)...)
				s.mu.Unlock()
				return err
			}
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
	cp := *p
	if cp.ID == "" {
		cp.ID = uuid.New().String()
	}
	cp.CreatedAt = s.stamp()
	s.products = append(s.products, &cp)
	if err := s.persist(keyProducts, s.products); err != nil {
		s.products = s.products[:len(s.products)-1]
		s.mu.Unlock()
		return nil, err
	}
	out := cp
	s.mu.Unlock()

	s.hub.Publish(store.ChangeEvent{Op: store.OpInserted, Kind: store.KindProducts, ID: cp.ID})
	return &out, nil
}

func (c *products) Remove(_ context.Context, id string) error {
	s := (*Store)(c)
	s.mu.Lock()
	found := false
	for i, p := range s.products {
		if p.ID == id {
			removed := s.products[i]
			s.products = append(s.products[:i], s.products[i+1:]...)
			if err := s.persist(keyProducts, s.products); err != nil {
				s.products = append(s.products[:i], append([]*model.Product{removed}, s.products[i:]...)...)
				s.mu.Unlock()
				return err
			}
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
	if err := s.writeDoc(keyVoice, doc); err != nil {
		s.mu.Unlock()
		return err
	}
	s.voice = doc
	s.voiceSet = true
	s.mu.Unlock()

	s.hub.Publish(store.ChangeEvent{Op: store.OpUpdated, Kind: store.KindVoice})
	return nil
}
