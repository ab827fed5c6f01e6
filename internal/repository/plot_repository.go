package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/stwalsh4118/plotpilot/api/internal/logger"
	"github.com/stwalsh4118/plotpilot/api/internal/models"
	"github.com/stwalsh4118/plotpilot/api/internal/overrides"
	"github.com/stwalsh4118/plotpilot/api/internal/resolver"
)

// ErrNotLoaded is returned by mutations issued before the first successful load.
var ErrNotLoaded = errors.New("dataset not loaded")

// DatasetLoader fetches the unmodified base collections.
type DatasetLoader interface {
	Load(ctx context.Context) (*models.Dataset, error)
}

// OverrideStore persists per-plot property patches.
type OverrideStore interface {
	Load(ctx context.Context) (overrides.Patches, error)
	Merge(ctx context.Context, id int, patch models.Properties) error
	Clear(ctx context.Context) error
}

// PlotRepository owns the effective plot, section and block collections.
type PlotRepository interface {
	// Load fetches the base collections and applies every stored patch.
	// On failure the previous snapshot, if any, is kept and the error is a
	// *dataset.DataLoadError.
	Load(ctx context.Context) (*models.Dataset, error)

	// UpdateProperties merges patch into every plot whose OBJECTID equals id
	// and accumulates it into the stored patch for id. It returns false and
	// changes nothing when no plot matches. A *overrides.PersistenceError is
	// returned after the in-memory edit has been applied.
	UpdateProperties(ctx context.Context, id int, patch models.Properties) (bool, error)

	// Reset clears all stored patches and reloads the base collections.
	Reset(ctx context.Context) (*models.Dataset, error)

	// Snapshot returns the current effective dataset. ok is false before the
	// first successful load. The returned dataset must not be modified.
	Snapshot() (ds *models.Dataset, ok bool)

	// FindByID returns the plot whose canonical id or OBJECTID equals id.
	FindByID(id string) (models.Feature, bool)

	// Version increases on every change to the effective dataset.
	Version() uint64
}

// plotRepository is the concrete implementation of PlotRepository.
type plotRepository struct {
	loader DatasetLoader
	store  OverrideStore
	log    *logger.Logger

	// writeMu serialises Load, UpdateProperties and Reset.
	writeMu sync.Mutex

	mu      sync.RWMutex
	current *models.Dataset
	version uint64
}

// NewPlotRepository creates a new instance of PlotRepository.
func NewPlotRepository(loader DatasetLoader, store OverrideStore, log *logger.Logger) PlotRepository {
	return &plotRepository{
		loader: loader,
		store:  store,
		log:    log.WithComponent("repository"),
	}
}

func (r *plotRepository) Load(ctx context.Context) (*models.Dataset, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	base, err := r.loader.Load(ctx)
	if err != nil {
		r.log.Error("failed to load base dataset", err, nil)
		return nil, err
	}

	patches := r.readPatches(ctx)
	effective := applyPatches(base, patches)
	r.publish(effective)

	r.log.Info("dataset loaded", map[string]interface{}{
		"plots":     len(effective.Plots.Features),
		"sections":  len(effective.Sections.Features),
		"blocks":    len(effective.Blocks.Features),
		"overrides": len(patches),
	})
	return effective, nil
}

func (r *plotRepository) UpdateProperties(ctx context.Context, id int, patch models.Properties) (bool, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	r.mu.RLock()
	current := r.current
	r.mu.RUnlock()
	if current == nil {
		return false, ErrNotLoaded
	}

	plots := make([]models.Feature, len(current.Plots.Features))
	matched := 0
	for i, f := range current.Plots.Features {
		if legacy, ok := resolver.LegacyID(f.Properties); ok && legacy == id {
			plots[i] = f.WithProperties(patch)
			matched++
			continue
		}
		plots[i] = f
	}
	if matched == 0 {
		return false, nil
	}

	r.publish(&models.Dataset{
		Plots:    models.NewFeatureCollection(plots),
		Sections: current.Sections,
		Blocks:   current.Blocks,
	})

	if err := r.store.Merge(ctx, id, patch); err != nil {
		r.log.Error("failed to persist plot override", err, map[string]interface{}{
			"plot_id": id,
		})
		return true, err
	}
	return true, nil
}

func (r *plotRepository) Reset(ctx context.Context) (*models.Dataset, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	clearErr := r.store.Clear(ctx)
	if clearErr != nil {
		r.log.Error("failed to clear plot overrides", clearErr, nil)
	}

	base, err := r.loader.Load(ctx)
	if err != nil {
		r.log.Error("failed to reload base dataset", err, nil)
		return nil, err
	}
	r.publish(base)

	r.log.Info("dataset reset", map[string]interface{}{
		"plots": len(base.Plots.Features),
	})
	return base, clearErr
}

func (r *plotRepository) Snapshot() (*models.Dataset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current, r.current != nil
}

func (r *plotRepository) FindByID(id string) (models.Feature, bool) {
	ds, ok := r.Snapshot()
	if !ok {
		return models.Feature{}, false
	}
	for _, f := range ds.Plots.Features {
		if resolver.MatchesID(f.Properties, id) {
			return f, true
		}
	}
	return models.Feature{}, false
}

func (r *plotRepository) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

func (r *plotRepository) publish(ds *models.Dataset) {
	r.mu.Lock()
	r.current = ds
	r.version++
	r.mu.Unlock()
}

// readPatches loads stored patches, downgrading every failure to "no
// patches". A malformed value is discarded so the next write starts clean.
func (r *plotRepository) readPatches(ctx context.Context) overrides.Patches {
	patches, err := r.store.Load(ctx)
	if err == nil {
		return patches
	}

	var malformed *overrides.MalformedOverrideError
	if errors.As(err, &malformed) {
		r.log.Warn("discarding malformed plot overrides", map[string]interface{}{
			"key":   overrides.StorageKey,
			"error": err.Error(),
		})
		if clearErr := r.store.Clear(ctx); clearErr != nil {
			r.log.Error("failed to discard malformed plot overrides", clearErr, nil)
		}
	} else {
		r.log.Error("failed to read plot overrides", err, nil)
	}
	return overrides.Patches{}
}

// applyPatches returns base with each patch shallow-merged into the plots
// whose OBJECTID matches its key. base is not modified.
func applyPatches(base *models.Dataset, patches overrides.Patches) *models.Dataset {
	if len(patches) == 0 {
		return base
	}

	plots := make([]models.Feature, len(base.Plots.Features))
	for i, f := range base.Plots.Features {
		plots[i] = f
		legacy, ok := resolver.LegacyID(f.Properties)
		if !ok {
			continue
		}
		if patch := patches.For(legacy); patch != nil {
			plots[i] = f.WithProperties(patch)
		}
	}
	return &models.Dataset{
		Plots:    models.NewFeatureCollection(plots),
		Sections: base.Sections,
		Blocks:   base.Blocks,
	}
}
