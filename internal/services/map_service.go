package services

import (
	"context"
	"fmt"
	"time"

	"github.com/stwalsh4118/plotpilot/api/internal/logger"
	"github.com/stwalsh4118/plotpilot/api/internal/maintenance"
	"github.com/stwalsh4118/plotpilot/api/internal/models"
	"github.com/stwalsh4118/plotpilot/api/internal/repository"
	"github.com/stwalsh4118/plotpilot/api/internal/style"
)

// WorkOrderIndex supplies the plots with open work orders.
type WorkOrderIndex interface {
	OpenWorkOrders() maintenance.OpenIndex
}

// StyleQuery selects a view mode, a timeline range and a highlighted plot.
// A nil bound defaults to the dataset's year bounds.
type StyleQuery struct {
	Mode     string
	From     *int
	To       *int
	Selected string
}

// MapStyles is the style of every plot for one view.
type MapStyles struct {
	Mode   style.Mode           `json:"mode"`
	Range  style.Range          `json:"range"`
	Bounds style.Range          `json:"yearBounds"`
	Styles []style.FeatureStyle `json:"styles"`
}

// MapService defines the map rendering use cases.
type MapService interface {
	// Styles computes the style, tooltip and visibility of every plot.
	Styles(ctx context.Context, q StyleQuery) (*MapStyles, error)

	// Bounds returns the bounding box of all loaded features. ok is false
	// when no feature has usable geometry.
	Bounds(ctx context.Context) (bbox models.BBox, ok bool, err error)

	// Overlays returns section and block outline styles and section labels.
	Overlays(ctx context.Context) (*style.Overlays, error)
}

// mapService is the concrete implementation of MapService.
type mapService struct {
	repo       repository.PlotRepository
	workOrders WorkOrderIndex
	log        *logger.Logger
	now        func() time.Time
}

// NewMapService creates a new instance of MapService. workOrders may be nil,
// in which case maintenance mode flags nothing.
func NewMapService(repo repository.PlotRepository, workOrders WorkOrderIndex, log *logger.Logger) MapService {
	return &mapService{
		repo:       repo,
		workOrders: workOrders,
		log:        log.WithComponent("map_service"),
		now:        time.Now,
	}
}

func (s *mapService) Styles(ctx context.Context, q StyleQuery) (*MapStyles, error) {
	mode, err := style.ParseMode(q.Mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidViewMode, err)
	}

	ds, ok := s.repo.Snapshot()
	if !ok {
		return nil, ErrDataNotLoaded
	}

	bounds := style.YearBounds(ds.Plots.Features, s.now())
	r, err := style.Requested(bounds, q.From, q.To)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYearRange, err)
	}

	engine := style.Engine{
		Mode:       mode,
		Range:      r,
		SelectedID: q.Selected,
	}
	if s.workOrders != nil {
		engine.WorkOrders = s.workOrders.OpenWorkOrders()
	}

	return &MapStyles{
		Mode:   mode,
		Range:  engine.Range,
		Bounds: bounds,
		Styles: engine.Restyle(ds.Plots.Features),
	}, nil
}

func (s *mapService) Bounds(ctx context.Context) (models.BBox, bool, error) {
	ds, ok := s.repo.Snapshot()
	if !ok {
		return models.BBox{}, false, ErrDataNotLoaded
	}
	bbox := ds.Bounds()
	return bbox, bbox.Valid(), nil
}

func (s *mapService) Overlays(ctx context.Context) (*style.Overlays, error) {
	ds, ok := s.repo.Snapshot()
	if !ok {
		return nil, ErrDataNotLoaded
	}
	overlays := style.BuildOverlays(ds.Sections)
	return &overlays, nil
}
