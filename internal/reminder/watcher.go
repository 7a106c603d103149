package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/arleipolo/storefront-backend/internal/cart"
	"github.com/arleipolo/storefront-backend/pkg/logger"
	"github.com/arleipolo/storefront-backend/pkg/metrics"
)

const (
	// DefaultThreshold is the inactivity span after which a reminder may fire.
	DefaultThreshold = 60 * time.Second
	// DefaultPollInterval is the cadence at which the threshold is re-evaluated.
	DefaultPollInterval = 10 * time.Second
)

// Recipient identifies where a reminder goes.
type Recipient struct {
	Email string
	Name  string
}

// Identity resolves the authenticated recipient, if any, at check time.
type Identity interface {
	Recipient(ctx context.Context) (Recipient, bool)
}

// IdentityFunc adapts a function to the Identity interface.
type IdentityFunc func(ctx context.Context) (Recipient, bool)

func (f IdentityFunc) Recipient(ctx context.Context) (Recipient, bool) {
	return f(ctx)
}

// Dispatcher delivers a composed reminder for the given snapshot.
type Dispatcher interface {
	Dispatch(ctx context.Context, to Recipient, items []cart.LineItem) error
}

// Watcher polls a cart session and fires at most one reminder per
// abandonment episode. The marker is claimed atomically before dispatch, so
// overlapping checks cannot double-fire; once claimed, the episode is over
// whether or not delivery succeeds.
type Watcher struct {
	store      *cart.Store
	identity   Identity
	dispatcher Dispatcher
	logg       *logger.Logger
	metrics    *metrics.ReminderMetrics
	threshold  time.Duration
	interval   time.Duration
	now        func() time.Time
}

// WatcherParams configure a watcher.
type WatcherParams struct {
	Store      *cart.Store
	Identity   Identity
	Dispatcher Dispatcher
	Logger     *logger.Logger
	Metrics    *metrics.ReminderMetrics
	Threshold  time.Duration
	Interval   time.Duration
	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time
}

// NewWatcher builds a watcher over the given cart store.
func NewWatcher(params WatcherParams) (*Watcher, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if params.Identity == nil {
		return nil, fmt.Errorf("identity resolver required")
	}
	if params.Dispatcher == nil {
		return nil, fmt.Errorf("dispatcher required")
	}
	threshold := params.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	interval := params.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Watcher{
		store:      params.Store,
		identity:   params.Identity,
		dispatcher: params.Dispatcher,
		logg:       params.Logger,
		metrics:    params.Metrics,
		threshold:  threshold,
		interval:   interval,
		now:        now,
	}, nil
}

// Run polls until the context is canceled. A check already underway when the
// context is canceled completes its transition; no new check starts after.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if w.logg != nil {
				w.logg.Info(ctx, "abandonment watcher stopped")
			}
			return ctx.Err()
		case <-ticker.C:
			w.CheckNow(ctx)
		}
	}
}

// CheckNow runs a single threshold evaluation and reports whether a reminder
// was dispatched. Exported so a deferred-check scheduler (or a test) can
// drive evaluations without the poll loop.
func (w *Watcher) CheckNow(ctx context.Context) bool {
	w.metrics.IncCheck()

	episodes := w.store.Episodes()
	items := w.store.Items(ctx)
	if len(items) == 0 {
		// A marker over an empty cart is stale; the episode closed without us.
		episodes.Clear(ctx)
		return false
	}

	startedAt, open := episodes.StartedAt(ctx)
	if !open {
		return false
	}
	if w.now().Sub(startedAt) < w.threshold {
		return false
	}

	recipient, known := w.identity.Recipient(ctx)
	if !known {
		// Episode stays open; every later tick re-checks until the cart
		// empties or an identity shows up.
		if w.logg != nil {
			w.logg.Debug(ctx, "reminder due but no recipient identity, episode stays open")
		}
		return false
	}

	if _, claimed := episodes.Claim(ctx); !claimed {
		// Another check claimed this episode first.
		return false
	}

	if err := w.dispatcher.Dispatch(ctx, recipient, items); err != nil {
		w.metrics.IncFailed()
		if w.logg != nil {
			w.logg.Error(ctx, "reminder dispatch failed", err)
		}
		// No retry: the episode was consumed by the claim.
		return false
	}

	w.metrics.IncDispatched()
	if w.logg != nil {
		w.logg.Info(w.logg.WithField(ctx, "recipient", recipient.Email), "abandonment reminder dispatched")
	}
	return true
}
