package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stwalsh4118/plotpilot/api/internal/config"
	"github.com/stwalsh4118/plotpilot/api/internal/models"
	"golang.org/x/sync/errgroup"
)

// Collection names used in errors and logs.
const (
	CollectionPlots    = "plots"
	CollectionSections = "sections"
	CollectionBlocks   = "blocks"
)

// Files names the three dataset files within a source.
type Files struct {
	Plots    string
	Sections string
	Blocks   string
}

// DefaultFiles returns the file names the datasets are published under.
func DefaultFiles() Files {
	return Files{
		Plots:    "Lots.geojson",
		Sections: "Cemetery_Sections.geojson",
		Blocks:   "Cemetery_Blocks.geojson",
	}
}

// FilesFromConfig returns the file names configured in cfg.
func FilesFromConfig(cfg config.DataConfig) Files {
	return Files{Plots: cfg.PlotsFile, Sections: cfg.SectionsFile, Blocks: cfg.BlocksFile}
}

// DataLoadError reports that a base collection could not be fetched or
// parsed. No partial dataset is ever produced alongside it.
type DataLoadError struct {
	Collection string
	File       string
	Err        error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("failed to load %s (%s): %v", e.Collection, e.File, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// Loader fetches the base collections from a Source.
type Loader struct {
	source  Source
	files   Files
	timeout time.Duration
}

// NewLoader creates a loader. A zero timeout means only ctx bounds the load.
func NewLoader(source Source, files Files, timeout time.Duration) *Loader {
	return &Loader{source: source, files: files, timeout: timeout}
}

// Load fetches plots, sections and blocks concurrently. The first failure
// cancels the other fetches and is returned as a *DataLoadError.
func (l *Loader) Load(ctx context.Context) (*models.Dataset, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	var ds models.Dataset
	g, gctx := errgroup.WithContext(ctx)

	targets := []struct {
		collection string
		file       string
		dst        *models.FeatureCollection
	}{
		{CollectionPlots, l.files.Plots, &ds.Plots},
		{CollectionSections, l.files.Sections, &ds.Sections},
		{CollectionBlocks, l.files.Blocks, &ds.Blocks},
	}
	for _, t := range targets {
		g.Go(func() error {
			fc, err := l.fetch(gctx, t.file)
			if err != nil {
				return &DataLoadError{Collection: t.collection, File: t.file, Err: err}
			}
			*t.dst = fc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &ds, nil
}

func (l *Loader) fetch(ctx context.Context, name string) (models.FeatureCollection, error) {
	rc, err := l.source.Open(ctx, name)
	if err != nil {
		return models.FeatureCollection{}, err
	}
	defer rc.Close()

	var fc models.FeatureCollection
	if err := json.NewDecoder(rc).Decode(&fc); err != nil {
		return models.FeatureCollection{}, fmt.Errorf("decode geojson: %w", err)
	}
	return models.NewFeatureCollection(fc.Features), nil
}
