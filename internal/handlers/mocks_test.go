package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stwalsh4118/plotpilot/api/internal/aggregate"
	"github.com/stwalsh4118/plotpilot/api/internal/logger"
	"github.com/stwalsh4118/plotpilot/api/internal/middleware"
	"github.com/stwalsh4118/plotpilot/api/internal/models"
	"github.com/stwalsh4118/plotpilot/api/internal/resolver"
	"github.com/stwalsh4118/plotpilot/api/internal/services"
	"github.com/stwalsh4118/plotpilot/api/internal/style"
)

type MockPlotService struct {
	mock.Mock
}

func (m *MockPlotService) ListPlots(ctx context.Context, status string) ([]models.Feature, error) {
	args := m.Called(ctx, status)
	plots, _ := args.Get(0).([]models.Feature)
	return plots, args.Error(1)
}

func (m *MockPlotService) SearchPlots(ctx context.Context, query string) ([]resolver.PlotDetails, error) {
	args := m.Called(ctx, query)
	results, _ := args.Get(0).([]resolver.PlotDetails)
	return results, args.Error(1)
}

func (m *MockPlotService) GetPlot(ctx context.Context, id string) (*services.PlotDetail, error) {
	args := m.Called(ctx, id)
	detail, _ := args.Get(0).(*services.PlotDetail)
	return detail, args.Error(1)
}

func (m *MockPlotService) UpdatePlot(ctx context.Context, id string, edit services.PlotEdit) (*services.PlotUpdate, error) {
	args := m.Called(ctx, id, edit)
	update, _ := args.Get(0).(*services.PlotUpdate)
	return update, args.Error(1)
}

func (m *MockPlotService) Reset(ctx context.Context) (*aggregate.Stats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*aggregate.Stats)
	return stats, args.Error(1)
}

func (m *MockPlotService) Stats(ctx context.Context) (*aggregate.Stats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*aggregate.Stats)
	return stats, args.Error(1)
}

func (m *MockPlotService) Sections(ctx context.Context, q services.SectionQuery) ([]aggregate.SectionStat, error) {
	args := m.Called(ctx, q)
	sections, _ := args.Get(0).([]aggregate.SectionStat)
	return sections, args.Error(1)
}

type MockMapService struct {
	mock.Mock
}

func (m *MockMapService) Styles(ctx context.Context, q services.StyleQuery) (*services.MapStyles, error) {
	args := m.Called(ctx, q)
	styles, _ := args.Get(0).(*services.MapStyles)
	return styles, args.Error(1)
}

func (m *MockMapService) Bounds(ctx context.Context) (models.BBox, bool, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.BBox), args.Bool(1), args.Error(2)
}

func (m *MockMapService) Overlays(ctx context.Context) (*style.Overlays, error) {
	args := m.Called(ctx)
	overlays, _ := args.Get(0).(*style.Overlays)
	return overlays, args.Error(1)
}

type MockRequestService struct {
	mock.Mock
}

func (m *MockRequestService) ListRequests(ctx context.Context) []models.Request {
	args := m.Called(ctx)
	requests, _ := args.Get(0).([]models.Request)
	return requests
}

func (m *MockRequestService) SubmitRequest(ctx context.Context, req models.Request) (models.Request, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.Request), args.Error(1)
}

func (m *MockRequestService) ApproveRequest(ctx context.Context, id string) (*services.RequestDecision, error) {
	args := m.Called(ctx, id)
	decision, _ := args.Get(0).(*services.RequestDecision)
	return decision, args.Error(1)
}

func (m *MockRequestService) RejectRequest(ctx context.Context, id string) (*services.RequestDecision, error) {
	args := m.Called(ctx, id)
	decision, _ := args.Get(0).(*services.RequestDecision)
	return decision, args.Error(1)
}

// setupTestRouter mounts every route with mocked services behind the
// request id and logging middleware.
func setupTestRouter(plots services.PlotService, maps services.MapService, requests services.RequestService, maintenance services.MaintenanceService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger.Nop()))

	RegisterRoutes(router, Handlers{
		Health:      NewHealthHandler(stubPinger{}, stubData{}, "test", "memory"),
		Plots:       NewPlotHandler(plots),
		Map:         NewMapHandler(maps),
		Requests:    NewRequestHandler(requests),
		Maintenance: NewMaintenanceHandler(maintenance),
	})
	return router
}
