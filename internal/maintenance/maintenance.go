// Package maintenance records grounds work orders, field issue reports and
// scheduled burials, and answers whether a plot has open work.
package maintenance

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/plotpilot/api/internal/kvstore"
	"github.com/stwalsh4118/plotpilot/api/internal/logger"
	"github.com/stwalsh4118/plotpilot/api/internal/models"
)

// Storage keys.
const (
	WorkOrdersKey = "plot_pilot_work_orders"
	IssuesKey     = "plot_pilot_issues"
	BurialsKey    = "plot_pilot_burials"
)

var (
	// ErrWorkOrderNotFound is returned when no work order has the given id.
	ErrWorkOrderNotFound = errors.New("work order not found")

	// ErrIssueNotFound is returned when no issue report has the given id.
	ErrIssueNotFound = errors.New("issue not found")
)

// Store holds the three maintenance lists.
type Store struct {
	workOrders *collection[models.WorkOrder]
	issues     *collection[models.IssueReport]
	burials    *collection[models.BurialEvent]
	log        *logger.Logger

	now   func() time.Time
	newID func() string
}

// NewStore creates an empty store. Call Load to read persisted records.
func NewStore(kv kvstore.Store, log *logger.Logger) *Store {
	log = log.WithComponent("maintenance")
	return &Store{
		workOrders: newCollection[models.WorkOrder](kv, WorkOrdersKey, log),
		issues:     newCollection[models.IssueReport](kv, IssuesKey, log),
		burials:    newCollection[models.BurialEvent](kv, BurialsKey, log),
		log:        log,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// Load reads all three lists. Unreadable or malformed lists load empty.
func (s *Store) Load(ctx context.Context) {
	s.workOrders.load(ctx)
	s.issues.load(ctx)
	s.burials.load(ctx)
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

// WorkOrders returns all work orders, newest first.
func (s *Store) WorkOrders() []models.WorkOrder {
	return s.workOrders.list()
}

// AddWorkOrder assigns an id and timestamps to wo and puts it first.
func (s *Store) AddWorkOrder(ctx context.Context, wo models.WorkOrder) (models.WorkOrder, error) {
	if wo.ID == "" {
		wo.ID = s.newID()
	}
	if wo.Status == "" {
		wo.Status = models.WorkOrderOpen
	}
	if wo.Priority == "" {
		wo.Priority = models.PriorityMedium
	}
	wo.CreatedAt = s.timestamp()
	wo.UpdatedAt = wo.CreatedAt

	err := s.workOrders.update(ctx, func(items []models.WorkOrder) ([]models.WorkOrder, error) {
		return append([]models.WorkOrder{wo}, items...), nil
	})
	return wo, err
}

// UpdateWorkOrder replaces the work order with wo.ID. CreatedAt is kept.
func (s *Store) UpdateWorkOrder(ctx context.Context, wo models.WorkOrder) (models.WorkOrder, error) {
	err := s.workOrders.update(ctx, func(items []models.WorkOrder) ([]models.WorkOrder, error) {
		for i := range items {
			if items[i].ID == wo.ID {
				wo.CreatedAt = items[i].CreatedAt
				wo.UpdatedAt = s.timestamp()
				items[i] = wo
				return items, nil
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrWorkOrderNotFound, wo.ID)
	})
	return wo, err
}

// OpenWorkOrders returns the set of plot ids referenced by work orders that
// are neither resolved nor closed.
func (s *Store) OpenWorkOrders() OpenIndex {
	index := OpenIndex{}
	for _, wo := range s.workOrders.list() {
		if id := strings.TrimSpace(wo.PlotID); id != "" && wo.Status.IsOpen() {
			index[id] = struct{}{}
		}
	}
	return index
}

// HasOpenWorkOrder reports whether any open work order references one of ids.
func (s *Store) HasOpenWorkOrder(ids ...string) bool {
	return s.OpenWorkOrders().HasOpenWorkOrder(ids...)
}

// OpenIndex is a point-in-time set of plot ids with open work orders.
type OpenIndex map[string]struct{}

// HasOpenWorkOrder reports whether any of ids is in the index.
func (ix OpenIndex) HasOpenWorkOrder(ids ...string) bool {
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := ix[id]; ok {
			return true
		}
	}
	return false
}

// Issues returns all issue reports, newest first.
func (s *Store) Issues() []models.IssueReport {
	return s.issues.list()
}

// ReportIssue records a new issue.
func (s *Store) ReportIssue(ctx context.Context, issue models.IssueReport) (models.IssueReport, error) {
	if issue.ID == "" {
		issue.ID = s.newID()
	}
	issue.Status = models.IssueNew
	issue.ReportedAt = s.timestamp()

	err := s.issues.update(ctx, func(items []models.IssueReport) ([]models.IssueReport, error) {
		return append([]models.IssueReport{issue}, items...), nil
	})
	return issue, err
}

// ResolveIssue marks the issue resolved.
func (s *Store) ResolveIssue(ctx context.Context, id string) (models.IssueReport, error) {
	var resolved models.IssueReport
	err := s.issues.update(ctx, func(items []models.IssueReport) ([]models.IssueReport, error) {
		for i := range items {
			if items[i].ID == id {
				items[i].Status = models.IssueResolved
				resolved = items[i]
				return items, nil
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrIssueNotFound, id)
	})
	return resolved, err
}

// Burials returns scheduled burials ordered by scheduled date.
func (s *Store) Burials() []models.BurialEvent {
	return s.burials.list()
}

// ScheduleBurial records a burial and keeps the list ordered by date.
func (s *Store) ScheduleBurial(ctx context.Context, ev models.BurialEvent) (models.BurialEvent, error) {
	if ev.ID == "" {
		ev.ID = s.newID()
	}
	if ev.Status == "" {
		ev.Status = models.BurialScheduled
	}

	err := s.burials.update(ctx, func(items []models.BurialEvent) ([]models.BurialEvent, error) {
		items = append([]models.BurialEvent{ev}, items...)
		sortByScheduledDate(items)
		return items, nil
	})
	return ev, err
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

func parseScheduledDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// sortByScheduledDate orders burials by date. Unparseable dates sort last.
func sortByScheduledDate(items []models.BurialEvent) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, okI := parseScheduledDate(items[i].ScheduledDate)
		tj, okJ := parseScheduledDate(items[j].ScheduledDate)
		if okI != okJ {
			return okI
		}
		return okI && ti.Before(tj)
	})
}
