package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	redisclient "github.com/ajdelacruz/saristore-backend/pkg/redis"
)

// cartCache is the slice of the redis client the store depends on.
type cartCache interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CartKey(storeID, cartSessionID string) string
}

// Store persists guest carts in Redis as JSON blobs. Every save resets
// the TTL so an active shopper never loses their cart mid-visit.
type Store struct {
	cache cartCache
	ttl   time.Duration
}

// NewStore wires the cart store against a redis client.
func NewStore(cache cartCache, ttl time.Duration) (*Store, error) {
	if cache == nil {
		return nil, fmt.Errorf("cart store requires a redis client")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cart store requires a positive ttl")
	}
	return &Store{cache: cache, ttl: ttl}, nil
}

// Load returns the cart for the session, or an empty cart when none is stored.
func (s *Store) Load(ctx context.Context, storeID uuid.UUID, sessionID string) (*Cart, error) {
	key := s.cache.CartKey(storeID.String(), sessionID)
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redisclient.Nil) {
			return &Cart{StoreID: storeID, SessionID: sessionID}, nil
		}
		return nil, fmt.Errorf("loading cart: %w", err)
	}
	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, fmt.Errorf("decoding cart: %w", err)
	}
	return &cart, nil
}

// Save writes the cart back and refreshes its TTL.
func (s *Store) Save(ctx context.Context, cart *Cart) error {
	cart.UpdatedAt = time.Now().UTC()
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encoding cart: %w", err)
	}
	key := s.cache.CartKey(cart.StoreID.String(), cart.SessionID)
	if err := s.cache.Set(ctx, key, string(raw), s.ttl); err != nil {
		return fmt.Errorf("saving cart: %w", err)
	}
	return nil
}

// Delete drops the cart for the session.
func (s *Store) Delete(ctx context.Context, storeID uuid.UUID, sessionID string) error {
	key := s.cache.CartKey(storeID.String(), sessionID)
	if err := s.cache.Del(ctx, key); err != nil {
		return fmt.Errorf("deleting cart: %w", err)
	}
	return nil
}
