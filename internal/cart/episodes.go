package cart

import (
	"context"
	"strconv"
	"time"

	"github.com/arleipolo/storefront-backend/pkg/logger"
)

// MarkerKey is the fixed key the abandonment marker is persisted under.
const MarkerKey = "cart_timestamp"

// Episodes owns the abandonment marker: the epoch-millis instant the cart
// first became non-empty. At most one episode is open at a time.
type Episodes struct {
	medium Medium
	key    string
	logg   *logger.Logger
}

// NewEpisodes binds episode tracking to a medium.
func NewEpisodes(medium Medium, logg *logger.Logger) *Episodes {
	return &Episodes{medium: medium, key: MarkerKey, logg: logg}
}

// StartIfAbsent opens an episode at the given instant unless one is already
// open. The write is atomic, so racing sessions keep the earliest marker.
func (e *Episodes) StartIfAbsent(ctx context.Context, at time.Time) {
	if e == nil || e.medium == nil {
		return
	}
	value := strconv.FormatInt(at.UnixMilli(), 10)
	if _, err := e.medium.WriteIfAbsent(ctx, e.key, value); err != nil {
		e.warn(ctx, "episode marker write failed", err)
	}
}

// StartedAt returns the open episode's start instant, if any.
func (e *Episodes) StartedAt(ctx context.Context) (time.Time, bool) {
	if e == nil || e.medium == nil {
		return time.Time{}, false
	}
	value, ok, err := e.medium.Read(ctx, e.key)
	if err != nil {
		e.warn(ctx, "episode marker read failed", err)
		return time.Time{}, false
	}
	if !ok {
		return time.Time{}, false
	}
	return parseMarker(value)
}

// Clear discards the open episode without firing anything.
func (e *Episodes) Clear(ctx context.Context) {
	if e == nil || e.medium == nil {
		return
	}
	if err := e.medium.Delete(ctx, e.key); err != nil {
		e.warn(ctx, "episode marker delete failed", err)
	}
}

// Claim atomically reads and removes the marker. Only the caller that
// receives ok=true may dispatch a reminder for this episode.
func (e *Episodes) Claim(ctx context.Context) (time.Time, bool) {
	if e == nil || e.medium == nil {
		return time.Time{}, false
	}
	value, ok, err := e.medium.Take(ctx, e.key)
	if err != nil {
		e.warn(ctx, "episode marker claim failed", err)
		return time.Time{}, false
	}
	if !ok {
		return time.Time{}, false
	}
	return parseMarker(value)
}

func (e *Episodes) warn(ctx context.Context, msg string, err error) {
	if e.logg != nil {
		e.logg.Warn(ctx, msg+": "+err.Error())
	}
}

func parseMarker(value string) (time.Time, bool) {
	millis, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(millis), true
}
