package store

import "testing"

func TestHubKindRouting(t *testing.T) {
	h := NewHub()
	items := h.Subscribe(KindContentItems, nil)
	defer items.Close()
	camps := h.Subscribe(KindCampaigns, nil)
	defer camps.Close()

	h.Publish(ChangeEvent{Op: OpInserted, Kind: KindContentItems, ID: "a"})

	select {
	case ev := <-items.C:
		if ev.ID != "a" {
			t.Fatalf("event: %+v", ev)
		}
	default:
		t.Fatal("item watcher got nothing")
	}
	select {
	case ev := <-camps.C:
		t.Fatalf("campaign watcher leaked event: %+v", ev)
	default:
	}
}

func TestHubFilter(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe(KindComments, &Filter{Field: "content_item_id", Value: "item-1"})
	defer sub.Close()

	h.Publish(ChangeEvent{Op: OpInserted, Kind: KindComments, ID: "c1", ContentItemID: "item-2"})
	select {
	case ev := <-sub.C:
		t.Fatalf("filter leaked event: %+v", ev)
	default:
	}

	h.Publish(ChangeEvent{Op: OpInserted, Kind: KindComments, ID: "c2", ContentItemID: "item-1"})
	select {
	case ev := <-sub.C:
		if ev.ID != "c2" {
			t.Fatalf("event: %+v", ev)
		}
	default:
		t.Fatal("matching event not delivered")
	}

	// Resync passes every filter.
	h.Publish(ChangeEvent{Op: OpResync, Kind: KindComments})
	select {
	case ev := <-sub.C:
		if ev.Op != OpResync {
			t.Fatalf("event: %+v", ev)
		}
	default:
		t.Fatal("resync not delivered")
	}
}

func TestHubBroadcast(t *testing.T) {
	h := NewHub()
	a := h.Subscribe(KindContentItems, nil)
	defer a.Close()
	b := h.Subscribe(KindVoice, nil)
	defer b.Close()

	h.Broadcast(OpResync)
	for _, sub := range []*Subscription{a, b} {
		select {
		case ev := <-sub.C:
			if ev.Op != OpResync {
				t.Fatalf("event: %+v", ev)
			}
		default:
			t.Fatal("broadcast missed a watcher")
		}
	}
}

// A full buffer drops events instead of blocking the publisher.
func TestHubNonBlockingDelivery(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe(KindContentItems, nil)
	defer sub.Close()

	for i := 0; i < 100; i++ {
		h.Publish(ChangeEvent{Op: OpInserted, Kind: KindContentItems, ID: "x"})
	}
	// Delivery above must not have deadlocked; drain what fit.
	n := 0
	for {
		select {
		case <-sub.C:
			n++
		default:
			if n == 0 {
				t.Fatal("no events delivered at all")
			}
			return
		}
	}
}

func TestSubscriptionCloseIdempotent(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe(KindProducts, nil)
	sub.Close()
	sub.Close()

	h.Publish(ChangeEvent{Op: OpInserted, Kind: KindProducts, ID: "p"})
	select {
	case ev := <-sub.C:
		t.Fatalf("closed subscription got event: %+v", ev)
	default:
	}
}
