package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/plotpilot/api/internal/aggregate"
	"github.com/stwalsh4118/plotpilot/api/internal/dataset"
	"github.com/stwalsh4118/plotpilot/api/internal/kvstore"
	"github.com/stwalsh4118/plotpilot/api/internal/logger"
	"github.com/stwalsh4118/plotpilot/api/internal/metrics"
	"github.com/stwalsh4118/plotpilot/api/internal/overrides"
	"github.com/stwalsh4118/plotpilot/api/internal/repository"
	"github.com/stwalsh4118/plotpilot/api/internal/services"
	"github.com/stwalsh4118/plotpilot/api/internal/style"
)

const lots = `{"type":"FeatureCollection","features":[
	{"type":"Feature","geometry":{"type":"Point","coordinates":[-95.50,30.20]},"properties":{"OBJECTID":1,"LOTSTATUS":"Has Burial","F_NAME":"Ada","L_NAME":"Lane","Section":"A"}},
	{"type":"Feature","geometry":{"type":"Point","coordinates":[-95.49,30.21]},"properties":{"OBJECTID":2,"LOTSTATUS":"Available","Section":"A"}},
	{"type":"Feature","geometry":{"type":"Point","coordinates":[-95.48,30.22]},"properties":{"OBJECTID":3,"LOTSTATUS":"Available","Section":"B"}}
]}`

const empty = `{"type":"FeatureCollection","features":[]}`

func testOpener(t *testing.T) opener {
	t.Helper()
	return func(ctx context.Context, verbose bool) (*app, error) {
		source := dataset.NewStaticSource(map[string][]byte{
			"Lots.geojson":              []byte(lots),
			"Cemetery_Sections.geojson": []byte(empty),
			"Cemetery_Blocks.geojson":   []byte(empty),
		})
		loader := dataset.NewLoader(source, dataset.DefaultFiles(), 0)
		repo := repository.NewPlotRepository(loader, overrides.NewStore(kvstore.NewMemory()), logger.Nop())
		if _, err := repo.Load(ctx); err != nil {
			return nil, err
		}
		return &app{
			plots: services.NewPlotService(repo, metrics.New(), logger.Nop()),
			maps:  services.NewMapService(repo, nil, logger.Nop()),
		}, nil
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCommandWith(&out, testOpener(t))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestStatsCommand(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		out, err := execute(t, "stats")
		require.NoError(t, err)
		assert.Contains(t, strings.ToUpper(out), "STATUS")
		assert.Contains(t, out, "Occupied")
		assert.Contains(t, out, "Reserved")
	})

	t.Run("json", func(t *testing.T) {
		out, err := execute(t, "stats", "--json")
		require.NoError(t, err)

		var stats aggregate.Stats
		require.NoError(t, json.Unmarshal([]byte(out), &stats))
		assert.Equal(t, 3, stats.Total)
		assert.Equal(t, 1, stats.Occupied)
		assert.Equal(t, 2, stats.Available)
	})
}

func TestSectionsCommand(t *testing.T) {
	t.Run("highest rate first", func(t *testing.T) {
		out, err := execute(t, "sections", "--json")
		require.NoError(t, err)

		var rows []aggregate.SectionStat
		require.NoError(t, json.Unmarshal([]byte(out), &rows))
		require.Len(t, rows, 2)
		assert.Equal(t, "A", rows[0].Key)
		assert.InDelta(t, 0.5, rows[0].Rate, 1e-9)
	})

	t.Run("by name ascending", func(t *testing.T) {
		out, err := execute(t, "sections", "--sort", "name", "--asc", "--json")
		require.NoError(t, err)

		var rows []aggregate.SectionStat
		require.NoError(t, json.Unmarshal([]byte(out), &rows))
		require.Len(t, rows, 2)
		assert.Equal(t, "A", rows[0].DisplayName)
		assert.Equal(t, "B", rows[1].DisplayName)
	})

	t.Run("table", func(t *testing.T) {
		out, err := execute(t, "sections")
		require.NoError(t, err)
		assert.Contains(t, out, "50.0%")
		assert.Contains(t, out, "0.0%")
	})

	t.Run("unknown sort field", func(t *testing.T) {
		_, err := execute(t, "sections", "--sort", "color")
		assert.ErrorIs(t, err, services.ErrInvalidSortField)
	})
}

func TestStylesCommand(t *testing.T) {
	t.Run("availability", func(t *testing.T) {
		out, err := execute(t, "styles", "--mode", "availability", "--json")
		require.NoError(t, err)

		var styles services.MapStyles
		require.NoError(t, json.Unmarshal([]byte(out), &styles))
		assert.Equal(t, style.ModeAvailability, styles.Mode)
		assert.Len(t, styles.Styles, 3)
	})

	t.Run("table", func(t *testing.T) {
		out, err := execute(t, "styles")
		require.NoError(t, err)
		assert.Contains(t, out, "mode standard")
		assert.Contains(t, out, style.ColorOccupied)
	})

	t.Run("unknown mode", func(t *testing.T) {
		_, err := execute(t, "styles", "--mode", "heatmap")
		assert.ErrorIs(t, err, services.ErrInvalidViewMode)
	})
}
