// Package dataset fetches the three base GeoJSON collections (plots,
// sections, blocks) from a configurable source.
package dataset

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/stwalsh4118/plotpilot/api/internal/config"
)

// Source opens a named dataset file.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// NewSource builds the source selected by cfg.Source.
func NewSource(ctx context.Context, cfg config.DataConfig) (Source, error) {
	switch cfg.Source {
	case config.SourceFile:
		return NewFileSource(cfg.Dir), nil
	case config.SourceHTTP:
		return NewHTTPSource(cfg.BaseURL, nil), nil
	case config.SourceS3:
		return NewS3Source(ctx, S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			Prefix:    cfg.S3Prefix,
			PathStyle: cfg.S3PathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.Source)
	}
}

// FileSource reads datasets from a local directory.
type FileSource struct {
	Dir string
}

// NewFileSource creates a source rooted at dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{Dir: dir}
}

func (s *FileSource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.Dir, filepath.Base(name)))
	if err != nil {
		return nil, err
	}
	return f, nil
}

// StaticSource serves datasets held in memory. The CLI and tests use it.
type StaticSource struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewStaticSource creates a source over files, keyed by name.
func NewStaticSource(files map[string][]byte) *StaticSource {
	cp := make(map[string][]byte, len(files))
	for k, v := range files {
		cp[k] = v
	}
	return &StaticSource{files: cp}
}

// Put replaces the contents served for name.
func (s *StaticSource) Put(name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[name] = data
}

func (s *StaticSource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.files[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, os.ErrNotExist)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
