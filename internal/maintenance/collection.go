package maintenance

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/stwalsh4118/plotpilot/api/internal/kvstore"
	"github.com/stwalsh4118/plotpilot/api/internal/logger"
)

// PersistenceError reports a failed write of one maintenance list. The
// in-memory change has already been applied.
type PersistenceError struct {
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist %s: %v", e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// collection is a JSON array persisted under a single key.
type collection[T any] struct {
	kv  kvstore.Store
	key string
	log *logger.Logger

	mu    sync.RWMutex
	items []T
}

func newCollection[T any](kv kvstore.Store, key string, log *logger.Logger) *collection[T] {
	return &collection[T]{kv: kv, key: key, log: log, items: []T{}}
}

func (c *collection[T]) load(ctx context.Context) {
	items := []T{}

	raw, ok, err := c.kv.Get(ctx, c.key)
	switch {
	case err != nil:
		c.log.Error("failed to read maintenance records", err, map[string]interface{}{"key": c.key})
	case ok && raw != "":
		var decoded []T
		if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
			c.log.Warn("ignoring malformed maintenance records", map[string]interface{}{
				"key":   c.key,
				"error": err.Error(),
			})
		} else if decoded != nil {
			items = decoded
		}
	}

	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
}

func (c *collection[T]) list() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// update replaces the items with fn's result and persists them. fn runs
// under the write lock and receives a copy it may modify.
func (c *collection[T]) update(ctx context.Context, fn func([]T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := make([]T, len(c.items))
	copy(current, c.items)

	next, err := fn(current)
	if err != nil {
		return err
	}
	c.items = next

	data, err := json.Marshal(next)
	if err != nil {
		return &PersistenceError{Key: c.key, Err: err}
	}
	if err := c.kv.Set(ctx, c.key, string(data)); err != nil {
		c.log.Error("failed to persist maintenance records", err, map[string]interface{}{"key": c.key})
		return &PersistenceError{Key: c.key, Err: err}
	}
	return nil
}
