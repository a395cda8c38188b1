package eventbus

import (
	"context"
	"testing"
)

type ping struct{ n int }
type pong struct{ n int }

func TestPublishReachesMatchingSubscribersOnly(t *testing.T) {
	Use(New())
	defer Use(nil)

	var pings, pongs []int
	defer Subscribe(func(_ context.Context, e ping) { pings = append(pings, e.n) })()
	defer Subscribe(func(_ context.Context, e pong) { pongs = append(pongs, e.n) })()

	Publish(context.Background(), ping{1})
	Publish(context.Background(), ping{2})
	Publish(context.Background(), pong{3})

	if len(pings) != 2 || pings[0] != 1 || pings[1] != 2 {
		t.Fatalf("ping handler saw %v", pings)
	}
	if len(pongs) != 1 || pongs[0] != 3 {
		t.Fatalf("pong handler saw %v", pongs)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	Use(New())
	defer Use(nil)

	var seen int
	unsubscribe := Subscribe(func(_ context.Context, e ping) { seen++ })
	Publish(context.Background(), ping{1})
	unsubscribe()
	Publish(context.Background(), ping{2})

	if seen != 1 {
		t.Fatalf("expected 1 delivery, got %d", seen)
	}
}

func TestNoBusInstalled(t *testing.T) {
	Use(nil)
	// Both must be safe no-ops.
	unsubscribe := Subscribe(func(_ context.Context, e ping) { t.Fatal("unexpected delivery") })
	Publish(context.Background(), ping{1})
	unsubscribe()
}
