package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/stwalsh4118/plotpilot/api/internal/logger"
	"github.com/stwalsh4118/plotpilot/api/internal/maintenance"
	"github.com/stwalsh4118/plotpilot/api/internal/metrics"
	"github.com/stwalsh4118/plotpilot/api/internal/models"
)

// MaintenanceStore is the work order, issue and burial store used by
// MaintenanceService.
type MaintenanceStore interface {
	WorkOrders() []models.WorkOrder
	AddWorkOrder(ctx context.Context, wo models.WorkOrder) (models.WorkOrder, error)
	UpdateWorkOrder(ctx context.Context, wo models.WorkOrder) (models.WorkOrder, error)
	Issues() []models.IssueReport
	ReportIssue(ctx context.Context, issue models.IssueReport) (models.IssueReport, error)
	ResolveIssue(ctx context.Context, id string) (models.IssueReport, error)
	Burials() []models.BurialEvent
	ScheduleBurial(ctx context.Context, ev models.BurialEvent) (models.BurialEvent, error)
}

// MaintenanceService defines the grounds maintenance use cases. Writes that
// reach memory but not the store are logged and counted, never returned.
type MaintenanceService interface {
	ListWorkOrders(ctx context.Context) []models.WorkOrder
	CreateWorkOrder(ctx context.Context, wo models.WorkOrder) (models.WorkOrder, error)
	UpdateWorkOrder(ctx context.Context, wo models.WorkOrder) (models.WorkOrder, error)
	ListIssues(ctx context.Context) []models.IssueReport
	ReportIssue(ctx context.Context, issue models.IssueReport) (models.IssueReport, error)
	ResolveIssue(ctx context.Context, id string) (models.IssueReport, error)
	ListBurials(ctx context.Context) []models.BurialEvent
	ScheduleBurial(ctx context.Context, ev models.BurialEvent) (models.BurialEvent, error)
}

// maintenanceService is the concrete implementation of MaintenanceService.
type maintenanceService struct {
	store   MaintenanceStore
	metrics *metrics.Metrics
	log     *logger.Logger
}

// NewMaintenanceService creates a new instance of MaintenanceService.
func NewMaintenanceService(store MaintenanceStore, m *metrics.Metrics, log *logger.Logger) MaintenanceService {
	return &maintenanceService{
		store:   store,
		metrics: m,
		log:     log.WithComponent("maintenance_service"),
	}
}

func (s *maintenanceService) ListWorkOrders(ctx context.Context) []models.WorkOrder {
	return s.store.WorkOrders()
}

func (s *maintenanceService) CreateWorkOrder(ctx context.Context, wo models.WorkOrder) (models.WorkOrder, error) {
	created, err := s.store.AddWorkOrder(ctx, wo)
	if err := s.check(err, "work_order", created.ID); err != nil {
		return models.WorkOrder{}, err
	}
	s.log.Info("Work order created", map[string]interface{}{
		"work_order_id": created.ID,
		"plot_id":       created.PlotID,
		"priority":      string(created.Priority),
	})
	return created, nil
}

func (s *maintenanceService) UpdateWorkOrder(ctx context.Context, wo models.WorkOrder) (models.WorkOrder, error) {
	updated, err := s.store.UpdateWorkOrder(ctx, wo)
	if errors.Is(err, maintenance.ErrWorkOrderNotFound) {
		return models.WorkOrder{}, fmt.Errorf("%w: %s", ErrWorkOrderNotFound, wo.ID)
	}
	if err := s.check(err, "work_order", wo.ID); err != nil {
		return models.WorkOrder{}, err
	}
	return updated, nil
}

func (s *maintenanceService) ListIssues(ctx context.Context) []models.IssueReport {
	return s.store.Issues()
}

func (s *maintenanceService) ReportIssue(ctx context.Context, issue models.IssueReport) (models.IssueReport, error) {
	reported, err := s.store.ReportIssue(ctx, issue)
	if err := s.check(err, "issue", reported.ID); err != nil {
		return models.IssueReport{}, err
	}
	return reported, nil
}

func (s *maintenanceService) ResolveIssue(ctx context.Context, id string) (models.IssueReport, error) {
	resolved, err := s.store.ResolveIssue(ctx, id)
	if errors.Is(err, maintenance.ErrIssueNotFound) {
		return models.IssueReport{}, fmt.Errorf("%w: %s", ErrIssueNotFound, id)
	}
	if err := s.check(err, "issue", id); err != nil {
		return models.IssueReport{}, err
	}
	return resolved, nil
}

func (s *maintenanceService) ListBurials(ctx context.Context) []models.BurialEvent {
	return s.store.Burials()
}

func (s *maintenanceService) ScheduleBurial(ctx context.Context, ev models.BurialEvent) (models.BurialEvent, error) {
	scheduled, err := s.store.ScheduleBurial(ctx, ev)
	if err := s.check(err, "burial", scheduled.ID); err != nil {
		return models.BurialEvent{}, err
	}
	return scheduled, nil
}

// check swallows persistence failures and returns any other error wrapped.
func (s *maintenanceService) check(err error, kind, id string) error {
	if err == nil {
		return nil
	}
	var pe *maintenance.PersistenceError
	if errors.As(err, &pe) {
		s.metrics.PersistenceFailure(metrics.StoreMaintenance)
		s.log.Warn("Maintenance change applied but not persisted", map[string]interface{}{
			"kind":  kind,
			"id":    id,
			"key":   pe.Key,
			"error": err.Error(),
		})
		return nil
	}
	return fmt.Errorf("failed to save %s: %w", kind, err)
}
