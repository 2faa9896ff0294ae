package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tastcoffee/contentops/internal/model"
	"github.com/tastcoffee/contentops/internal/store"
)

// ProductService owns the product catalog. Products are referenced from
// content items by name; there is deliberately no rename operation, which
// keeps those name references from silently orphaning.
type ProductService struct {
	store store.Store
	log   zerolog.Logger
}

func NewProductService(s store.Store, log zerolog.Logger) *ProductService {
	return &ProductService{store: s, log: log}
}

func (s *ProductService) List(ctx context.Context) ([]*model.Product, error) {
	return s.store.Products().List(ctx)
}

// Add creates a catalog entry, resolving the display color from the roast
// classification.
func (s *ProductService) Add(ctx context.Context, name, roast string) (*model.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", model.ErrValidation)
	}
	rt, ok := roastType(roast)
	if !ok {
		return nil, fmt.Errorf("%w: unknown roast type %q", model.ErrValidation, roast)
	}
	return s.store.Products().Insert(ctx, &model.Product{
		Name:   name,
		Roast:  rt.Label,
		Color:  rt.Color,
		Border: rt.Border,
	})
}

func (s *ProductService) Remove(ctx context.Context, id string) error {
	return s.store.Products().Remove(ctx, id)
}

func roastType(label string) (model.RoastType, bool) {
	for _, rt := range model.RoastTypes {
		if rt.Label == label {
			return rt, true
		}
	}
	return model.RoastType{}, false
}
