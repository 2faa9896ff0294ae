package live

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tastcoffee/contentops/internal/model"
	"github.com/tastcoffee/contentops/internal/store"
	"github.com/tastcoffee/contentops/internal/store/memory"
)

func itemLister(st store.Store) Lister[*model.ContentItem] {
	return func(ctx context.Context) ([]*model.ContentItem, error) {
		return st.ContentItems().List(ctx)
	}
}

func waitSnapshotLen(t *testing.T, col *Collection[*model.ContentItem], n int) []*model.ContentItem {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		snap := col.Snapshot()
		if len(snap) == n {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("view never reached %d items (have %d)", n, len(col.Snapshot()))
	return nil
}

func TestInitialLoad(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	if _, err := st.ContentItems().Insert(ctx, &model.ContentItem{Title: "one"}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	col, err := Open(ctx, st, store.KindContentItems, nil, itemLister(st))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer col.Close()

	snap := col.Snapshot()
	if len(snap) != 1 || snap[0].Title != "one" {
		t.Fatalf("initial snapshot: %+v", snap)
	}
}

func TestReloadOnChangeEvent(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	col, err := Open(ctx, st, store.KindContentItems, nil, itemLister(st))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer col.Close()

	if _, err := st.ContentItems().Insert(ctx, &model.ContentItem{Title: "appeared"}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	snap := waitSnapshotLen(t, col, 1)
	if snap[0].Title != "appeared" {
		t.Fatalf("snapshot after event: %+v", snap)
	}

	if err := st.ContentItems().Remove(ctx, snap[0].ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	waitSnapshotLen(t, col, 0)
}

func TestFailedReloadKeepsStaleView(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	first, err := st.ContentItems().Insert(ctx, &model.ContentItem{Title: "keep me"})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	// The initial list succeeds; every reload after it fails.
	calls := 0
	failing := func(ctx context.Context) ([]*model.ContentItem, error) {
		calls++
		if calls == 1 {
			return st.ContentItems().List(ctx)
		}
		return nil, errors.New("list failed")
	}
	col, err := Open(ctx, st, store.KindContentItems, nil, failing)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer col.Close()

	if _, err := st.ContentItems().Insert(ctx, &model.ContentItem{Title: "never seen"}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	// The reload fails; the view stays on the initial single-item list.
	time.Sleep(50 * time.Millisecond)
	snap := col.Snapshot()
	if len(snap) != 1 || snap[0].ID != first.ID {
		t.Fatalf("stale view lost: %+v", snap)
	}
}

func TestCloseStopsUpdates(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	col, err := Open(ctx, st, store.KindContentItems, nil, itemLister(st))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	col.Close()
	col.Close() // idempotent

	if _, err := st.ContentItems().Insert(ctx, &model.ContentItem{Title: "after close"}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if snap := col.Snapshot(); len(snap) != 0 {
		t.Fatalf("view updated after Close: %+v", snap)
	}
}

func TestManualReload(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	col, err := Open(ctx, st, store.KindContentItems, nil, itemLister(st))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer col.Close()

	if _, err := st.ContentItems().Insert(ctx, &model.ContentItem{Title: "fresh"}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := col.Reload(ctx); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if snap := col.Snapshot(); len(snap) != 1 {
		t.Fatalf("snapshot after manual reload: %+v", snap)
	}
}
