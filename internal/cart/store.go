package cart

import (
	"context"
	"encoding/json"
	"time"

	"github.com/arleipolo/storefront-backend/pkg/logger"
)

// CartKey is the fixed key the serialized cart is persisted under.
const CartKey = "ecommerce_cart"

// Store maintains the cart as a single persisted value and keeps the
// abandonment episode marker in step with cart transitions.
//
// Mutations persist the full snapshot before returning. When the medium is
// unavailable or failing, reads degrade to an empty cart and writes are
// skipped without surfacing an error to the caller.
type Store struct {
	medium   Medium
	key      string
	episodes *Episodes
	logg     *logger.Logger
	now      func() time.Time
}

// StoreParams configure a cart store.
type StoreParams struct {
	Medium Medium
	Logger *logger.Logger
	// Now overrides the clock used to stamp new episodes. Defaults to time.Now.
	Now func() time.Time
}

// NewStore builds a cart store over the given medium.
func NewStore(params StoreParams) *Store {
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Store{
		medium:   params.Medium,
		key:      CartKey,
		episodes: NewEpisodes(params.Medium, params.Logger),
		logg:     params.Logger,
		now:      now,
	}
}

// Episodes exposes the abandonment marker owned by this store.
func (s *Store) Episodes() *Episodes {
	return s.episodes
}

// Items returns the currently persisted cart, or an empty sequence when no
// cart exists or the medium is unavailable. Never fails.
func (s *Store) Items(ctx context.Context) []LineItem {
	if s.medium == nil {
		return nil
	}
	blob, ok, err := s.medium.Read(ctx, s.key)
	if err != nil {
		s.warn(ctx, "cart read failed", err)
		return nil
	}
	if !ok {
		return nil
	}
	var items []LineItem
	if err := json.Unmarshal([]byte(blob), &items); err != nil {
		s.warn(ctx, "cart blob undecodable", err)
		return nil
	}
	return items
}

// Add puts one unit of the product into the cart. A product already present
// has its quantity incremented; the input's quantity field is ignored.
// Adding to an empty cart opens an abandonment episode.
func (s *Store) Add(ctx context.Context, item LineItem) []LineItem {
	items := s.Items(ctx)
	wasEmpty := len(items) == 0

	found := false
	for i := range items {
		if items[i].ID == item.ID {
			items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		item.Quantity = 1
		items = append(items, item)
	}

	s.persist(ctx, items)
	if wasEmpty {
		s.episodes.StartIfAbsent(ctx, s.now())
	}
	return items
}

// Remove drops the matching line item; absent products are a no-op.
// Emptying the cart closes the abandonment episode.
func (s *Store) Remove(ctx context.Context, productID string) []LineItem {
	items := s.Items(ctx)
	filtered := items[:0:0]
	for _, item := range items {
		if item.ID != productID {
			filtered = append(filtered, item)
		}
	}
	if len(filtered) == len(items) {
		return items
	}
	s.persist(ctx, filtered)
	if len(filtered) == 0 {
		s.episodes.Clear(ctx)
	}
	return filtered
}

// SetQuantity replaces the line item's quantity. Non-positive quantities
// remove the item; products not in the cart are a no-op.
func (s *Store) SetQuantity(ctx context.Context, productID string, quantity int) []LineItem {
	if quantity <= 0 {
		return s.Remove(ctx, productID)
	}
	items := s.Items(ctx)
	for i := range items {
		if items[i].ID == productID {
			items[i].Quantity = quantity
			s.persist(ctx, items)
			return items
		}
	}
	return items
}

// Clear removes all persisted cart state and the episode marker.
func (s *Store) Clear(ctx context.Context) {
	if s.medium != nil {
		if err := s.medium.Delete(ctx, s.key); err != nil {
			s.warn(ctx, "cart delete failed", err)
		}
	}
	s.episodes.Clear(ctx)
}

func (s *Store) persist(ctx context.Context, items []LineItem) {
	if s.medium == nil {
		return
	}
	blob, err := json.Marshal(items)
	if err != nil {
		s.warn(ctx, "cart encode failed", err)
		return
	}
	if err := s.medium.Write(ctx, s.key, string(blob)); err != nil {
		s.warn(ctx, "cart write failed", err)
	}
}

func (s *Store) warn(ctx context.Context, msg string, err error) {
	if s.logg != nil {
		s.logg.Warn(ctx, msg+": "+err.Error())
	}
}
