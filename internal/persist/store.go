// Package persist mirrors in-process collections into the KV store.
//
// Records are whole JSON documents. Reads fall back to a default on absence
// or on any parse failure (no field-by-field recovery); writes re-serialize
// the full collection every time.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

// Keys of the persisted collections.
const (
	KeyConfig   = "config"
	KeyProducts = "products"
	KeyOrders   = "orders"
	KeyActivity = "activity"
	KeyUsers    = "users"
	KeySessions = "sessions"
)

type Store struct {
	kv     interfaces.KVStore
	prefix string
	logger logger.Logger
}

func New(kv interfaces.KVStore, prefix string, logger logger.Logger) *Store {
	return &Store{kv: kv, prefix: prefix, logger: logger}
}

func (s *Store) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return s.prefix + "." + name
}

// Load decodes the record stored under name into T. Anything short of a
// clean decode yields def.
func Load[T any](ctx context.Context, s *Store, name string, def T) T {
	raw, err := s.kv.Get(ctx, s.key(name))
	if err != nil {
		if !errors.Is(err, interfaces.ErrKeyNotFound) {
			s.logger.Error("store_read_failed", "Falling back to defaults", "", map[string]interface{}{
				"key": s.key(name),
			}, err)
		}
		return def
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		s.logger.Debug("store_record_corrupt", "Falling back to defaults", "", map[string]interface{}{
			"key":   s.key(name),
			"error": err.Error(),
		})
		return def
	}

	return out
}

// Save writes the full value under name.
func (s *Store) Save(ctx context.Context, name string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	if err := s.kv.Set(ctx, s.key(name), data); err != nil {
		return fmt.Errorf("failed to persist %s: %w", name, err)
	}

	return nil
}
