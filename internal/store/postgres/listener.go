package postgres

import (
	"context"
	"encoding/json"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"

	"github.com/tastcoffee/contentops/internal/store"
)

const notifyChannel = "contentops_changes"

// notifyPayload is the JSON produced by the contentops_notify trigger.
type notifyPayload struct {
	Table         string `json:"table"`
	Op            string `json:"op"`
	ID            string `json:"id"`
	ContentItemID string `json:"content_item_id"`
}

// runListener holds a dedicated connection on LISTEN and fans notifications
// out to watchers. On any connection failure it reconnects with exponential
// backoff and broadcasts a resync event, since notifications sent while
// disconnected are lost. Watchers reload on every event, so a resync costs
// one extra list per collection and nothing more.
func (s *Store) runListener(ctx context.Context) {
	defer close(s.listenerDone)

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 250 * time.Millisecond
	bo.MaxInterval = 30 * time.Second
	bo.MaxElapsedTime = 0 // keep trying for the life of the store

	for ctx.Err() == nil {
		conn, err := pgx.Connect(ctx, s.dsn)
		if err != nil {
			s.log.Warn().Err(err).Msg("change feed connect failed")
			s.sleep(ctx, bo.NextBackOff())
			continue
		}
		if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
			s.log.Warn().Err(err).Msg("change feed LISTEN failed")
			_ = conn.Close(ctx)
			s.sleep(ctx, bo.NextBackOff())
			continue
		}

		bo.Reset()
		// Events may have been missed while disconnected.
		s.hub.Broadcast(store.OpResync)
		s.log.Info().Msg("change feed listening")

		for {
			n, err := conn.WaitForNotification(ctx)
			if err != nil {
				_ = conn.Close(context.Background())
				if ctx.Err() == nil {
					s.log.Warn().Err(err).Msg("change feed dropped, reconnecting")
				}
				break
			}
			s.dispatch(n.Payload)
		}
	}
}

func (s *Store) dispatch(payload string) {
	var p notifyPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		s.log.Warn().Str("payload", payload).Err(err).Msg("bad change notification")
		return
	}
	var op store.Op
	switch p.Op {
	case "insert":
		op = store.OpInserted
	case "update":
		op = store.OpUpdated
	case "delete":
		op = store.OpDeleted
	default:
		return
	}
	s.hub.Publish(store.ChangeEvent{
		Op:            op,
		Kind:          store.Kind(p.Table),
		ID:            p.ID,
		ContentItemID: p.ContentItemID,
	})
}

func (s *Store) sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
