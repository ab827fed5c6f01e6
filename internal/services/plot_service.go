package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/stwalsh4118/plotpilot/api/internal/aggregate"
	"github.com/stwalsh4118/plotpilot/api/internal/logger"
	"github.com/stwalsh4118/plotpilot/api/internal/metrics"
	"github.com/stwalsh4118/plotpilot/api/internal/models"
	"github.com/stwalsh4118/plotpilot/api/internal/overrides"
	"github.com/stwalsh4118/plotpilot/api/internal/repository"
	"github.com/stwalsh4118/plotpilot/api/internal/resolver"
)

// PlotEdit is an administrator's edit of a single plot. A nil name or date
// leaves the stored value untouched.
type PlotEdit struct {
	Status     models.Status
	FirstName  *string
	LastName   *string
	BurialDate *string
}

// Patch returns the property patch for the edit. LOTSTATUS is rewritten to
// agree with the chosen status.
func (e PlotEdit) Patch() models.Properties {
	lot := models.LotStatusAvailable
	switch e.Status {
	case models.StatusOccupied:
		lot = models.LotStatusHasBurial
	case models.StatusReserved:
		lot = models.LotStatusReserved
	}
	patch := models.Properties{
		models.PropStatus:    string(e.Status),
		models.PropLotStatus: lot,
	}
	if e.FirstName != nil {
		patch[models.PropFirstName] = *e.FirstName
	}
	if e.LastName != nil {
		patch[models.PropLastName] = *e.LastName
	}
	if e.BurialDate != nil {
		patch[models.PropBurialDate] = *e.BurialDate
	}
	return patch
}

// PlotDetail pairs a plot feature with its resolved detail card.
type PlotDetail struct {
	Feature models.Feature       `json:"feature"`
	Details resolver.PlotDetails `json:"details"`
}

// PlotUpdate is the outcome of an edit. Persisted is false when the edit is
// live in memory but could not be written to the store.
type PlotUpdate struct {
	Plot      PlotDetail `json:"plot"`
	Persisted bool       `json:"persisted"`
}

// SectionQuery filters and orders the section table.
type SectionQuery struct {
	Search     string
	SortField  string
	Descending bool
}

// PlotService defines the plot use cases.
type PlotService interface {
	// ListPlots returns the effective plots with the given status, or every
	// plot for "" and "All".
	ListPlots(ctx context.Context, status string) ([]models.Feature, error)

	// SearchPlots matches query against plot id, display name and purchasers,
	// case-insensitively. At most MaxSearchResults details are returned.
	SearchPlots(ctx context.Context, query string) ([]resolver.PlotDetails, error)

	// GetPlot returns the plot whose id or OBJECTID equals id.
	GetPlot(ctx context.Context, id string) (*PlotDetail, error)

	// UpdatePlot applies edit to the plot with the given OBJECTID.
	UpdatePlot(ctx context.Context, id string, edit PlotEdit) (*PlotUpdate, error)

	// Reset discards every stored override and reloads the base dataset.
	Reset(ctx context.Context) (*aggregate.Stats, error)

	// Stats returns the occupancy statistics of the effective plots.
	Stats(ctx context.Context) (*aggregate.Stats, error)

	// Sections returns the filtered and sorted section table.
	Sections(ctx context.Context, q SectionQuery) ([]aggregate.SectionStat, error)
}

// plotService is the concrete implementation of PlotService.
type plotService struct {
	repo    repository.PlotRepository
	metrics *metrics.Metrics
	log     *logger.Logger
	cache   aggregate.Cache
}

// NewPlotService creates a new instance of PlotService.
func NewPlotService(repo repository.PlotRepository, m *metrics.Metrics, log *logger.Logger) PlotService {
	return &plotService{
		repo:    repo,
		metrics: m,
		log:     log.WithComponent("plot_service"),
	}
}

func (s *plotService) snapshot() (*models.Dataset, error) {
	ds, ok := s.repo.Snapshot()
	if !ok {
		return nil, ErrDataNotLoaded
	}
	return ds, nil
}

func (s *plotService) ListPlots(ctx context.Context, status string) ([]models.Feature, error) {
	var want models.Status
	if status != "" && status != StatusAll {
		parsed, ok := resolver.ParseStatus(status)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
		}
		want = parsed
	}

	ds, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return aggregate.FilterByStatus(ds.Plots.Features, want), nil
}

func (s *plotService) SearchPlots(ctx context.Context, query string) ([]resolver.PlotDetails, error) {
	ds, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	results := []resolver.PlotDetails{}
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return results, nil
	}

	for _, f := range ds.Plots.Features {
		if !matchesSearch(f.Properties, term) {
			continue
		}
		results = append(results, resolver.Details(f.Properties))
		if len(results) == MaxSearchResults {
			break
		}
	}

	s.log.Debug("Plot search", map[string]interface{}{
		"query":   query,
		"results": len(results),
	})
	return results, nil
}

func matchesSearch(props models.Properties, term string) bool {
	for _, field := range []string{
		resolver.PlotID(props),
		resolver.DisplayName(props),
		resolver.Text(props, models.PropPurchasers),
	} {
		if field != "" && strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func (s *plotService) GetPlot(ctx context.Context, id string) (*PlotDetail, error) {
	if _, err := s.snapshot(); err != nil {
		return nil, err
	}

	f, ok := s.repo.FindByID(strings.TrimSpace(id))
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPlotNotFound, id)
	}
	return &PlotDetail{Feature: f, Details: resolver.Details(f.Properties)}, nil
}

func (s *plotService) UpdatePlot(ctx context.Context, id string, edit PlotEdit) (*PlotUpdate, error) {
	objectID, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil {
		s.log.Warn("Invalid plot id provided", map[string]interface{}{"plot_id": id})
		return nil, fmt.Errorf("%w: got %q", ErrInvalidPlotID, id)
	}
	if _, ok := resolver.ParseStatus(string(edit.Status)); !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, edit.Status)
	}

	updated, err := s.repo.UpdateProperties(ctx, objectID, edit.Patch())
	persisted := true
	switch {
	case errors.Is(err, repository.ErrNotLoaded):
		return nil, ErrDataNotLoaded
	case isOverridePersistenceError(err):
		persisted = false
		s.metrics.PersistenceFailure(metrics.StoreOverrides)
		s.log.Warn("Plot edit applied but not persisted", map[string]interface{}{
			"plot_id": objectID,
			"error":   err.Error(),
		})
	case err != nil:
		s.log.Error("Failed to update plot", err, map[string]interface{}{"plot_id": objectID})
		return nil, fmt.Errorf("failed to update plot: %w", err)
	}

	if !updated {
		s.metrics.PlotUpdate("not_found")
		return nil, fmt.Errorf("%w: %d", ErrPlotNotFound, objectID)
	}
	s.metrics.PlotUpdate("updated")

	f, ok := s.repo.FindByID(strconv.Itoa(objectID))
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrPlotNotFound, objectID)
	}

	s.log.Info("Plot updated", map[string]interface{}{
		"plot_id":   objectID,
		"status":    string(edit.Status),
		"persisted": persisted,
	})
	return &PlotUpdate{
		Plot:      PlotDetail{Feature: f, Details: resolver.Details(f.Properties)},
		Persisted: persisted,
	}, nil
}

func isOverridePersistenceError(err error) bool {
	var pe *overrides.PersistenceError
	return errors.As(err, &pe)
}

func (s *plotService) Reset(ctx context.Context) (*aggregate.Stats, error) {
	ds, err := s.repo.Reset(ctx)
	switch {
	case ds == nil && err != nil:
		s.metrics.DatasetLoad(false)
		return nil, fmt.Errorf("%w: %v", ErrDataNotLoaded, err)
	case isOverridePersistenceError(err):
		s.metrics.PersistenceFailure(metrics.StoreOverrides)
		s.log.Warn("Overrides could not be cleared", map[string]interface{}{"error": err.Error()})
	}
	s.metrics.DatasetLoad(true)

	s.log.Info("Plot data reset", map[string]interface{}{"plots": len(ds.Plots.Features)})
	stats := s.cache.Get(s.repo.Version(), ds.Plots.Features)
	return &stats, nil
}

func (s *plotService) Stats(ctx context.Context) (*aggregate.Stats, error) {
	version := s.repo.Version()
	ds, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	stats := s.cache.Get(version, ds.Plots.Features)
	return &stats, nil
}

func (s *plotService) Sections(ctx context.Context, q SectionQuery) ([]aggregate.SectionStat, error) {
	field, err := aggregate.ParseSortField(q.SortField)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSortField, err)
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return aggregate.Sort(aggregate.Filter(stats.Sections, q.Search), field, q.Descending), nil
}
