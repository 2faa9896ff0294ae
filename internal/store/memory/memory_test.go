package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/tastcoffee/contentops/internal/model"
	"github.com/tastcoffee/contentops/internal/store"
	"github.com/tastcoffee/contentops/internal/store/storetest"
)

func TestCompliance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return New() })
}

func TestFailNext(t *testing.T) {
	s := New()
	ctx := context.Background()

	injected := errors.New("backend down")
	s.FailNext(injected)

	if _, err := s.ContentItems().Insert(ctx, &model.ContentItem{Title: "x"}); !errors.Is(err, injected) {
		t.Fatalf("want injected error, got %v", err)
	}

	// The failure is consumed; the next mutation succeeds.
	if _, err := s.ContentItems().Insert(ctx, &model.ContentItem{Title: "x"}); err != nil {
		t.Fatalf("second insert: %v", err)
	}
}

func TestNoEventOnFailedMutation(t *testing.T) {
	s := New()
	ctx := context.Background()

	sub, err := s.Watch(ctx, store.KindContentItems, nil)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer sub.Close()

	s.FailNext(errors.New("backend down"))
	if _, err := s.ContentItems().Insert(ctx, &model.ContentItem{Title: "x"}); err == nil {
		t.Fatal("insert should have failed")
	}

	select {
	case ev := <-sub.C:
		t.Fatalf("unexpected event after failed mutation: %+v", ev)
	default:
	}
}
