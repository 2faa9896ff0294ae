package optimistic

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tastcoffee/contentops/internal/model"
	"github.com/tastcoffee/contentops/internal/store"
	"github.com/tastcoffee/contentops/internal/store/memory"
)

func itemConfig(st *memory.Store) Config[*model.ContentItem] {
	return Config[*model.ContentItem]{
		Store:  st,
		Kind:   store.KindContentItems,
		List:   func(ctx context.Context) ([]*model.ContentItem, error) { return st.ContentItems().List(ctx) },
		ID:     func(it *model.ContentItem) string { return it.ID },
		WithID: func(it *model.ContentItem, id string) *model.ContentItem { cp := *it; cp.ID = id; return &cp },
		Logger: zerolog.Nop(),
	}
}

func insertVia(t *testing.T, ctx context.Context, st *memory.Store, c *Coordinator[*model.ContentItem], title string) *model.ContentItem {
	t.Helper()
	shown := c.Insert(ctx, &model.ContentItem{Title: title, Stage: model.StageIdea, Type: "Other"},
		func(runCtx context.Context, it *model.ContentItem) (*model.ContentItem, error) {
			return st.ContentItems().Insert(runCtx, it)
		}, nil)
	return shown
}

// waitView polls the snapshot until cond holds.
func waitView(t *testing.T, c *Coordinator[*model.ContentItem], cond func([]*model.ContentItem) bool) []*model.ContentItem {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		snap := c.Snapshot()
		if cond(snap) {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("view never converged: %+v", c.Snapshot())
	return nil
}

func TestInsertIsVisibleImmediately(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	c, err := New(ctx, itemConfig(st))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	shown := insertVia(t, ctx, st, c, "instant")
	if !strings.HasPrefix(shown.ID, "tmp-") {
		t.Fatalf("optimistic insert should carry a temp id, got %q", shown.ID)
	}

	snap := c.Snapshot()
	if len(snap) != 1 || snap[0].ID != shown.ID || snap[0].Title != "instant" {
		t.Fatalf("insert not visible before store confirm: %+v", snap)
	}
}

func TestTempIDReconciliation(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	c, err := New(ctx, itemConfig(st))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	insertVia(t, ctx, st, c, "settles")
	if err := c.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	// After the confirm and the reload it triggers, the record appears
	// exactly once under its real id. At no point is it duplicated.
	snap := waitView(t, c, func(snap []*model.ContentItem) bool {
		return len(snap) == 1 && !strings.HasPrefix(snap[0].ID, "tmp-")
	})
	if snap[0].Title != "settles" {
		t.Fatalf("reconciled record: %+v", snap[0])
	}

	for range [20]int{} {
		if n := len(c.Snapshot()); n != 1 {
			t.Fatalf("record duplicated during reconciliation: n=%d", n)
		}
		time.Sleep(time.Millisecond)
	}
}

// The change feed can push the stored record into the base while the insert's
// store call is still in flight. The overlay entry must retire as soon as the
// op resolves; waiting for another reload leaves the record doubled on a quiet
// feed.
func TestReloadDuringInsertDoesNotDuplicate(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	c, err := New(ctx, itemConfig(st))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	resolved := make(chan error, 1)
	c.Insert(ctx, &model.ContentItem{Title: "overtaken", Stage: model.StageIdea, Type: "Other"},
		func(runCtx context.Context, it *model.ContentItem) (*model.ContentItem, error) {
			stored, err := st.ContentItems().Insert(runCtx, it)
			if err != nil {
				return nil, err
			}
			// Hold the confirm until the insert's own change event has
			// refreshed the base, so the push beats the round trip home.
			deadline := time.Now().Add(5 * time.Second)
			for {
				c.mu.Lock()
				landed := c.contains(c.base, stored.ID)
				c.mu.Unlock()
				if landed {
					return stored, nil
				}
				if time.Now().After(deadline) {
					return nil, errors.New("base never picked up the insert")
				}
				time.Sleep(2 * time.Millisecond)
			}
		},
		func(err error) { resolved <- err },
	)
	if err := <-resolved; err != nil {
		t.Fatalf("insert: %v", err)
	}

	for range [20]int{} {
		snap := c.Snapshot()
		if len(snap) != 1 {
			ids := make([]string, len(snap))
			for i, it := range snap {
				ids[i] = it.ID
			}
			t.Fatalf("item duplicated after reconciliation: n=%d ids=%v", len(snap), ids)
		}
		if strings.HasPrefix(snap[0].ID, "tmp-") {
			t.Fatalf("temp id survived reconciliation: %q", snap[0].ID)
		}
		time.Sleep(time.Millisecond)
	}

	c.mu.Lock()
	left := len(c.pending)
	c.mu.Unlock()
	if left != 0 {
		t.Fatalf("resolved overlay entries lingering: %d", left)
	}
}

func TestFailedMutationRollsBackByteEqual(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	c, err := New(ctx, itemConfig(st))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	insertVia(t, ctx, st, c, "survivor")
	if err := c.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	waitView(t, c, func(snap []*model.ContentItem) bool {
		return len(snap) == 1 && !strings.HasPrefix(snap[0].ID, "tmp-")
	})

	before, _ := json.Marshal(c.Snapshot())

	st.FailNext(errors.New("backend down"))
	resolved := make(chan error, 1)
	c.Insert(ctx, &model.ContentItem{Title: "doomed", Stage: model.StageIdea, Type: "Other"},
		func(runCtx context.Context, it *model.ContentItem) (*model.ContentItem, error) {
			return st.ContentItems().Insert(runCtx, it)
		},
		func(err error) { resolved <- err },
	)

	if err := <-resolved; err == nil {
		t.Fatal("mutation should have failed")
	}

	after, _ := json.Marshal(c.Snapshot())
	if string(before) != string(after) {
		t.Fatalf("rollback not byte-equal:\nbefore %s\nafter  %s", before, after)
	}
}

func TestMutationsApplyInIssuanceOrder(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	base, err := st.ContentItems().Insert(ctx, &model.ContentItem{Title: "v0", Stage: model.StageIdea, Type: "Other"})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	c, err := New(ctx, itemConfig(st))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	var mu sync.Mutex
	var order []string
	title := func(v string) func(*model.ContentItem) *model.ContentItem {
		return func(it *model.ContentItem) *model.ContentItem { cp := *it; cp.Title = v; return &cp }
	}
	exec := func(v string) func(context.Context) error {
		return func(runCtx context.Context) error {
			mu.Lock()
			order = append(order, v)
			mu.Unlock()
			p := model.ContentItemPatch{Title: &v}
			_, err := st.ContentItems().Update(runCtx, base.ID, p)
			return err
		}
	}

	c.Update(ctx, base.ID, title("v1"), exec("v1"), nil)
	c.Update(ctx, base.ID, title("v2"), exec("v2"), nil)
	c.Update(ctx, base.ID, title("v3"), exec("v3"), nil)

	// The overlay shows the last write immediately, before any confirm.
	if snap := c.Snapshot(); snap[0].Title != "v3" {
		t.Fatalf("overlay title: %q", snap[0].Title)
	}

	if err := c.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 3 || order[0] != "v1" || order[1] != "v2" || order[2] != "v3" {
		t.Fatalf("store calls out of issuance order: %v", order)
	}

	got, err := st.ContentItems().Get(ctx, base.ID)
	if err != nil || got.Title != "v3" {
		t.Fatalf("final stored title: got=%+v err=%v", got, err)
	}
}

func TestRemoveIsVisibleImmediately(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	seeded, err := st.ContentItems().Insert(ctx, &model.ContentItem{Title: "goner", Stage: model.StageIdea, Type: "Other"})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	c, err := New(ctx, itemConfig(st))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	block := make(chan struct{})
	c.Remove(ctx, seeded.ID,
		func(runCtx context.Context) error {
			<-block
			return st.ContentItems().Remove(runCtx, seeded.ID)
		}, nil)

	if snap := c.Snapshot(); len(snap) != 0 {
		t.Fatalf("remove not visible before store confirm: %+v", snap)
	}
	close(block)
	if err := c.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	waitView(t, c, func(snap []*model.ContentItem) bool { return len(snap) == 0 })
}

func TestClosedCoordinatorRejectsMutations(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	c, err := New(ctx, itemConfig(st))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Close()

	resolved := make(chan error, 1)
	c.Insert(ctx, &model.ContentItem{Title: "late"},
		func(runCtx context.Context, it *model.ContentItem) (*model.ContentItem, error) {
			return st.ContentItems().Insert(runCtx, it)
		},
		func(err error) { resolved <- err },
	)
	if err := <-resolved; !errors.Is(err, ErrClosed) {
		t.Fatalf("want ErrClosed, got %v", err)
	}
	if err := c.Flush(ctx); !errors.Is(err, ErrClosed) {
		t.Fatalf("Flush after Close: want ErrClosed, got %v", err)
	}
}

// End to end: create, comment, move across stages, delete. The view matches
// the store after every flush and the item's comments survive its deletion.
func TestItemLifecycle(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	c, err := New(ctx, itemConfig(st))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	insertVia(t, ctx, st, c, "launch teaser")
	if err := c.Flush(ctx); err != nil {
		t.Fatalf("Flush insert: %v", err)
	}
	snap := waitView(t, c, func(snap []*model.ContentItem) bool {
		return len(snap) == 1 && !strings.HasPrefix(snap[0].ID, "tmp-")
	})
	id := snap[0].ID

	if _, err := st.Comments().Insert(ctx, &model.Comment{ContentItemID: id, Text: "tighten the hook", AuthorID: "maggie", AuthorName: "Maggie"}); err != nil {
		t.Fatalf("comment: %v", err)
	}

	for _, stage := range []model.Stage{model.StageInProduction, model.StageReady, model.StagePublished} {
		stage := stage
		c.Update(ctx, id,
			func(it *model.ContentItem) *model.ContentItem { cp := *it; cp.Stage = stage; return &cp },
			func(runCtx context.Context) error {
				_, err := st.ContentItems().Update(runCtx, id, model.ContentItemPatch{Stage: &stage})
				return err
			}, nil)
	}
	if err := c.Flush(ctx); err != nil {
		t.Fatalf("Flush moves: %v", err)
	}
	waitView(t, c, func(snap []*model.ContentItem) bool {
		return len(snap) == 1 && snap[0].Stage == model.StagePublished
	})

	c.Remove(ctx, id, func(runCtx context.Context) error {
		return st.ContentItems().Remove(runCtx, id)
	}, nil)
	if err := c.Flush(ctx); err != nil {
		t.Fatalf("Flush remove: %v", err)
	}
	waitView(t, c, func(snap []*model.ContentItem) bool { return len(snap) == 0 })

	// The comment outlives its item.
	left, err := st.Comments().ListByItem(ctx, id)
	if err != nil || len(left) != 1 {
		t.Fatalf("comments after delete: n=%d err=%v", len(left), err)
	}
}
