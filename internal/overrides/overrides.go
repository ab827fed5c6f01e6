// Package overrides persists user edits to plot properties as a sparse map
// from legacy plot id to property patch.
package overrides

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/stwalsh4118/plotpilot/api/internal/kvstore"
	"github.com/stwalsh4118/plotpilot/api/internal/models"
)

// StorageKey is the key the override map is persisted under.
const StorageKey = "plotPilotData"

// Patches maps a decimal plot id to the fields that replace the base values.
type Patches map[string]models.Properties

// For returns the patch stored for id, or nil.
func (p Patches) For(id int) models.Properties {
	return p[Key(id)]
}

// Key renders a plot id the way it is stored.
func Key(id int) string {
	return strconv.Itoa(id)
}

// MalformedOverrideError reports a stored value that could not be decoded.
// Callers treat it as an empty map.
type MalformedOverrideError struct {
	Err error
}

func (e *MalformedOverrideError) Error() string {
	return fmt.Sprintf("malformed override data under %s: %v", StorageKey, e.Err)
}

func (e *MalformedOverrideError) Unwrap() error { return e.Err }

// PersistenceError reports a failed write to the backing store.
type PersistenceError struct {
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist %s: %v", e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Store reads and writes the override map.
type Store struct {
	kv kvstore.Store
	// mu serialises read-modify-write cycles.
	mu sync.Mutex
}

// NewStore creates an override store backed by kv.
func NewStore(kv kvstore.Store) *Store {
	return &Store{kv: kv}
}

// Load returns the stored patches. A missing key yields an empty map. A value
// that does not decode yields an empty map together with a
// *MalformedOverrideError so the caller can log it.
func (s *Store) Load(ctx context.Context) (Patches, error) {
	raw, ok, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		return Patches{}, fmt.Errorf("read %s: %w", StorageKey, err)
	}
	if !ok || raw == "" {
		return Patches{}, nil
	}
	return decode(raw)
}

// Merge accumulates patch into the entry for id and writes the whole map
// back. Later values win per field; fields not named in patch are kept.
func (s *Store) Merge(ctx context.Context, id int, patch models.Properties) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	patches, err := s.Load(ctx)
	if err != nil && !isMalformed(err) {
		return &PersistenceError{Key: StorageKey, Err: err}
	}

	key := Key(id)
	patches[key] = patches[key].Merge(patch)

	data, err := json.Marshal(patches)
	if err != nil {
		return &PersistenceError{Key: StorageKey, Err: err}
	}
	if err := s.kv.Set(ctx, StorageKey, string(data)); err != nil {
		return &PersistenceError{Key: StorageKey, Err: err}
	}
	return nil
}

// Clear removes every stored patch.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Remove(ctx, StorageKey); err != nil {
		return &PersistenceError{Key: StorageKey, Err: err}
	}
	return nil
}

func decode(raw string) (Patches, error) {
	var patches Patches
	if err := json.Unmarshal([]byte(raw), &patches); err != nil {
		return Patches{}, &MalformedOverrideError{Err: err}
	}
	if patches == nil {
		patches = Patches{}
	}
	for k, v := range patches {
		if v == nil {
			delete(patches, k)
		}
	}
	return patches, nil
}

func isMalformed(err error) bool {
	var malformed *MalformedOverrideError
	return errors.As(err, &malformed)
}
