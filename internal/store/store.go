package store

import (
	"context"

	"github.com/tastcoffee/contentops/internal/model"
)

// Store exposes the collection operations required by services and live
// views. Implementations live under internal/store/<driver>/ (postgres,
// sqlite, memory).
//
// Mutation errors map to the model sentinels: model.ErrNotFound,
// model.ErrValidation, model.ErrUnauthorized, model.ErrTransient. Callers
// never retry automatically; a failed user action is re-issued by the user.
type Store interface {
	ContentItems() ContentItems
	Campaigns() Campaigns
	Comments() Comments
	Products() Products
	Voice() Voice

	// Watch returns a change feed for one collection, optionally narrowed by
	// an equality filter (e.g. comments of one content item). Events are
	// emitted for mutations by ANY writer visible to the backend; consumers
	// must tolerate duplicate and coalesced delivery.
	Watch(ctx context.Context, kind Kind, filter *Filter) (*Subscription, error)

	// Ping reports backend health.
	Ping(ctx context.Context) error

	Close() error
}

// ContentItems is the content_items collection, listed newest first.
type ContentItems interface {
	List(ctx context.Context) ([]*model.ContentItem, error)
	Get(ctx context.Context, id string) (*model.ContentItem, error)
	Insert(ctx context.Context, item *model.ContentItem) (*model.ContentItem, error)
	Update(ctx context.Context, id string, p model.ContentItemPatch) (*model.ContentItem, error)
	Remove(ctx context.Context, id string) error
}

// Campaigns is the campaigns collection, listed newest first.
type Campaigns interface {
	List(ctx context.Context) ([]*model.Campaign, error)
	Get(ctx context.Context, id string) (*model.Campaign, error)
	Insert(ctx context.Context, c *model.Campaign) (*model.Campaign, error)
	Update(ctx context.Context, id string, p model.CampaignPatch) (*model.Campaign, error)
	Remove(ctx context.Context, id string) error
}

// Comments is the comments collection. Comments are append-only: there is no
// update operation. ListByItem returns oldest first.
type Comments interface {
	ListByItem(ctx context.Context, contentItemID string) ([]*model.Comment, error)
	Get(ctx context.Context, id string) (*model.Comment, error)
	Insert(ctx context.Context, c *model.Comment) (*model.Comment, error)
	Remove(ctx context.Context, id string) error
}

// Products is the product catalog, listed oldest first.
type Products interface {
	List(ctx context.Context) ([]*model.Product, error)
	Get(ctx context.Context, id string) (*model.Product, error)
	Insert(ctx context.Context, p *model.Product) (*model.Product, error)
	Remove(ctx context.Context, id string) error
}

// Voice is the single brand-voice document.
type Voice interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, doc string) error
}
