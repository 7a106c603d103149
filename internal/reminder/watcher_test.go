package reminder

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arleipolo/storefront-backend/internal/cart"
	"github.com/arleipolo/storefront-backend/pkg/metrics"
)

type stubDispatcher struct {
	mu    sync.Mutex
	calls []dispatchCall
	err   error
}

type dispatchCall struct {
	to    Recipient
	items []cart.LineItem
}

func (d *stubDispatcher) Dispatch(_ context.Context, to Recipient, items []cart.LineItem) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, dispatchCall{to: to, items: items})
	return d.err
}

func (d *stubDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}

func knownIdentity(email, name string) Identity {
	return IdentityFunc(func(context.Context) (Recipient, bool) {
		return Recipient{Email: email, Name: name}, true
	})
}

func anonymousIdentity() Identity {
	return IdentityFunc(func(context.Context) (Recipient, bool) {
		return Recipient{}, false
	})
}

type watcherFixture struct {
	store      *cart.Store
	dispatcher *stubDispatcher
	watcher    *Watcher
	now        *time.Time
}

func newWatcherFixture(t *testing.T, identity Identity, dispatchErr error) *watcherFixture {
	t.Helper()

	t0 := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	now := t0
	clock := func() time.Time { return now }

	store := cart.NewStore(cart.StoreParams{Medium: cart.NewMemoryMedium(), Now: clock})
	dispatcher := &stubDispatcher{err: dispatchErr}

	watcher, err := NewWatcher(WatcherParams{
		Store:      store,
		Identity:   identity,
		Dispatcher: dispatcher,
		Threshold:  60 * time.Second,
		Now:        clock,
	})
	if err != nil {
		t.Fatal(err)
	}

	f := &watcherFixture{store: store, dispatcher: dispatcher, watcher: watcher}
	f.now = &now
	return f
}

func (f *watcherFixture) advance(d time.Duration) {
	*f.now = f.now.Add(d)
}

func TestWatcherFiresOnceAfterThreshold(t *testing.T) {
	t.Parallel()

	f := newWatcherFixture(t, knownIdentity("ana@example.com", "Ana"), nil)
	ctx := context.Background()

	f.store.Add(ctx, cart.LineItem{ID: "p1", Name: "Widget", Price: 9.99})

	// Below the threshold nothing fires.
	f.advance(59 * time.Second)
	if f.watcher.CheckNow(ctx) {
		t.Fatal("expected no dispatch at 59s")
	}

	f.advance(2 * time.Second)
	if !f.watcher.CheckNow(ctx) {
		t.Fatal("expected dispatch at 61s")
	}

	// The episode is consumed; later checks stay silent while the cart is untouched.
	f.advance(time.Minute)
	if f.watcher.CheckNow(ctx) {
		t.Fatal("expected no second dispatch for the same episode")
	}
	if got := f.dispatcher.count(); got != 1 {
		t.Fatalf("expected exactly one dispatch, got %d", got)
	}

	call := f.dispatcher.calls[0]
	if call.to.Email != "ana@example.com" || call.to.Name != "Ana" {
		t.Fatalf("unexpected recipient %+v", call.to)
	}
	if len(call.items) != 1 || call.items[0].ID != "p1" {
		t.Fatalf("unexpected snapshot %+v", call.items)
	}
}

func TestWatcherCartActivityResetsEpisode(t *testing.T) {
	t.Parallel()

	f := newWatcherFixture(t, knownIdentity("ana@example.com", "Ana"), nil)
	ctx := context.Background()

	f.store.Add(ctx, cart.LineItem{ID: "p1", Name: "Widget"})
	f.advance(30 * time.Second)

	// Emptying the cart closes the episode before the threshold.
	f.store.Remove(ctx, "p1")
	f.advance(time.Hour)
	if f.watcher.CheckNow(ctx) {
		t.Fatal("expected no dispatch after cart emptied")
	}

	// A re-add opens a fresh episode measured from the new instant.
	f.store.Add(ctx, cart.LineItem{ID: "p1", Name: "Widget"})
	f.advance(59 * time.Second)
	if f.watcher.CheckNow(ctx) {
		t.Fatal("expected fresh episode not yet due")
	}
	f.advance(2 * time.Second)
	if !f.watcher.CheckNow(ctx) {
		t.Fatal("expected fresh episode to fire after its own threshold")
	}
	if got := f.dispatcher.count(); got != 1 {
		t.Fatalf("expected one dispatch total, got %d", got)
	}
}

func TestWatcherClearsStaleMarkerOverEmptyCart(t *testing.T) {
	t.Parallel()

	medium := cart.NewMemoryMedium()
	t0 := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	store := cart.NewStore(cart.StoreParams{Medium: medium})
	ctx := context.Background()

	// Marker without a cart, as left behind by an interrupted session.
	store.Episodes().StartIfAbsent(ctx, t0)

	dispatcher := &stubDispatcher{}
	watcher, err := NewWatcher(WatcherParams{
		Store:      store,
		Identity:   knownIdentity("ana@example.com", "Ana"),
		Dispatcher: dispatcher,
		Now:        func() time.Time { return t0.Add(time.Hour) },
	})
	if err != nil {
		t.Fatal(err)
	}

	if watcher.CheckNow(ctx) {
		t.Fatal("expected no dispatch over an empty cart")
	}
	if _, open := store.Episodes().StartedAt(ctx); open {
		t.Fatal("expected stale marker cleared")
	}
	if dispatcher.count() != 0 {
		t.Fatalf("expected no dispatches, got %d", dispatcher.count())
	}
}

func TestWatcherNoRecipientKeepsEpisodeOpen(t *testing.T) {
	t.Parallel()

	f := newWatcherFixture(t, anonymousIdentity(), nil)
	ctx := context.Background()

	f.store.Add(ctx, cart.LineItem{ID: "p1", Name: "Widget"})
	f.advance(2 * time.Minute)

	if f.watcher.CheckNow(ctx) {
		t.Fatal("expected no dispatch without a recipient")
	}
	if _, open := f.store.Episodes().StartedAt(ctx); !open {
		t.Fatal("expected episode to stay open until an identity shows up")
	}
}

func TestWatcherDispatchFailureConsumesEpisode(t *testing.T) {
	t.Parallel()

	f := newWatcherFixture(t, knownIdentity("ana@example.com", "Ana"), errors.New("smtp down"))
	ctx := context.Background()

	f.store.Add(ctx, cart.LineItem{ID: "p1", Name: "Widget"})
	f.advance(2 * time.Minute)

	if f.watcher.CheckNow(ctx) {
		t.Fatal("expected CheckNow to report failure")
	}
	if got := f.dispatcher.count(); got != 1 {
		t.Fatalf("expected one attempt, got %d", got)
	}

	// No retry: the claim consumed the episode.
	f.advance(time.Minute)
	if f.watcher.CheckNow(ctx) {
		t.Fatal("expected no retry after a failed dispatch")
	}
	if got := f.dispatcher.count(); got != 1 {
		t.Fatalf("expected still one attempt, got %d", got)
	}
}

func TestWatcherOverlappingChecksFireOnce(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return t0.Add(2 * time.Minute) }

	medium := cart.NewMemoryMedium()
	dispatcher := &stubDispatcher{}

	// Two watchers over the same medium, as with overlapping schedulers.
	var watchers []*Watcher
	for i := 0; i < 2; i++ {
		store := cart.NewStore(cart.StoreParams{Medium: medium, Now: func() time.Time { return t0 }})
		w, err := NewWatcher(WatcherParams{
			Store:      store,
			Identity:   knownIdentity("ana@example.com", "Ana"),
			Dispatcher: dispatcher,
			Now:        clock,
		})
		if err != nil {
			t.Fatal(err)
		}
		watchers = append(watchers, w)
	}

	seed := cart.NewStore(cart.StoreParams{Medium: medium, Now: func() time.Time { return t0 }})
	seed.Add(context.Background(), cart.LineItem{ID: "p1", Name: "Widget"})

	var wg sync.WaitGroup
	for _, w := range watchers {
		wg.Add(1)
		go func(w *Watcher) {
			defer wg.Done()
			w.CheckNow(context.Background())
		}(w)
	}
	wg.Wait()

	if got := dispatcher.count(); got != 1 {
		t.Fatalf("expected exactly one dispatch across overlapping checks, got %d", got)
	}
}

func gatherCounter(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, family := range families {
		if family.GetName() == name {
			return family.GetMetric()[0].GetCounter().GetValue()
		}
	}
	return 0
}

func TestWatcherRecordsMetrics(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	now := t0
	clock := func() time.Time { return now }

	reg := prometheus.NewRegistry()
	store := cart.NewStore(cart.StoreParams{Medium: cart.NewMemoryMedium(), Now: clock})
	dispatcher := &stubDispatcher{}

	watcher, err := NewWatcher(WatcherParams{
		Store:      store,
		Identity:   knownIdentity("ana@example.com", "Ana"),
		Dispatcher: dispatcher,
		Metrics:    metrics.NewReminderMetrics(reg),
		Threshold:  60 * time.Second,
		Now:        clock,
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	store.Add(ctx, cart.LineItem{ID: "p1", Name: "Widget"})

	watcher.CheckNow(ctx)
	now = now.Add(2 * time.Minute)
	watcher.CheckNow(ctx)

	if got := gatherCounter(t, reg, "cart_reminder_checks_total"); got != 2 {
		t.Fatalf("expected 2 checks recorded, got %v", got)
	}
	if got := gatherCounter(t, reg, "cart_reminder_dispatched_total"); got != 1 {
		t.Fatalf("expected 1 dispatch recorded, got %v", got)
	}
	if got := gatherCounter(t, reg, "cart_reminder_failed_total"); got != 0 {
		t.Fatalf("expected no failures recorded, got %v", got)
	}

	// A failing dispatch on a fresh episode lands in the failure counter.
	dispatcher.err = errors.New("smtp down")
	store.Clear(ctx)
	store.Add(ctx, cart.LineItem{ID: "p2", Name: "Gadget"})
	now = now.Add(2 * time.Minute)
	watcher.CheckNow(ctx)

	if got := gatherCounter(t, reg, "cart_reminder_failed_total"); got != 1 {
		t.Fatalf("expected 1 failure recorded, got %v", got)
	}
}

func TestWatcherRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	f := newWatcherFixture(t, anonymousIdentity(), nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- f.watcher.Run(ctx)
	}()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}
