// Package ledger keeps the queue of pending purchase and burial requests.
// Approving a request updates the referenced plot and removes the request;
// rejecting only removes it.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/plotpilot/api/internal/kvstore"
	"github.com/stwalsh4118/plotpilot/api/internal/logger"
	"github.com/stwalsh4118/plotpilot/api/internal/models"
)

// StorageKey is the key the request list is persisted under.
const StorageKey = "plotRequests"

// timestampLayout matches the ISO-8601 form written by browsers.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// ErrRequestNotFound is returned when no pending request has the given id.
var ErrRequestNotFound = errors.New("request not found")

// PersistenceError reports a failed write of the request list. The
// in-memory change it accompanies has already been applied.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist %s: %v", StorageKey, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// PlotUpdater applies a property patch to the plot with the given OBJECTID.
type PlotUpdater interface {
	UpdateProperties(ctx context.Context, id int, patch models.Properties) (bool, error)
}

// Approval describes what approving a request did.
type Approval struct {
	Request models.Request
	// Patch is the property patch sent to the plot, nil when the request
	// names no plot.
	Patch models.Properties
	// PlotUpdated is true when a plot matched the request's plot id.
	PlotUpdated bool
	// PlotErr holds a failure from the plot update. It never blocks removal.
	PlotErr error
}

// Ledger is the persisted request queue, newest first.
type Ledger struct {
	kv    kvstore.Store
	plots PlotUpdater
	log   *logger.Logger

	now   func() time.Time
	newID func() string

	mu       sync.RWMutex
	requests []models.Request
}

// New creates an empty ledger. Call Load to read persisted requests.
func New(kv kvstore.Store, plots PlotUpdater, log *logger.Logger) *Ledger {
	return &Ledger{
		kv:    kv,
		plots: plots,
		log:   log.WithComponent("ledger"),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Load replaces the in-memory queue with the persisted one. A missing,
// unreadable or malformed value leaves an empty queue; only the log records
// why.
func (l *Ledger) Load(ctx context.Context) {
	requests := l.read(ctx)

	l.mu.Lock()
	l.requests = requests
	l.mu.Unlock()

	l.log.Debug("request ledger loaded", map[string]interface{}{"pending": len(requests)})
}

func (l *Ledger) read(ctx context.Context) []models.Request {
	raw, ok, err := l.kv.Get(ctx, StorageKey)
	if err != nil {
		l.log.Error("failed to read request ledger", err, nil)
		return []models.Request{}
	}
	if !ok || raw == "" {
		return []models.Request{}
	}

	var requests []models.Request
	if err := json.Unmarshal([]byte(raw), &requests); err != nil {
		l.log.Warn("ignoring malformed request ledger", map[string]interface{}{
			"key":   StorageKey,
			"error": err.Error(),
		})
		return []models.Request{}
	}
	if requests == nil {
		requests = []models.Request{}
	}
	return requests
}

// List returns the pending requests, newest first.
func (l *Ledger) List() []models.Request {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.Request, len(l.requests))
	copy(out, l.requests)
	return out
}

// Get returns the pending request with the given id.
func (l *Ledger) Get(id string) (models.Request, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, r := range l.requests {
		if r.ID == id {
			return r, true
		}
	}
	return models.Request{}, false
}

// Submit stamps req with a fresh id, the current time and Pending status and
// puts it at the head of the queue. A *PersistenceError is returned after the
// request has been queued in memory.
func (l *Ledger) Submit(ctx context.Context, req models.Request) (models.Request, error) {
	req.ID = l.newID()
	req.Timestamp = l.now().UTC().Format(timestampLayout)
	req.Status = models.RequestStatusPending

	l.mu.Lock()
	defer l.mu.Unlock()

	l.requests = append([]models.Request{req}, l.requests...)
	l.log.Info("request submitted", map[string]interface{}{
		"request_id":   req.ID,
		"request_type": string(req.RequestType),
		"plot_id":      req.PlotID,
	})
	return req, l.persistLocked(ctx)
}

// Approve applies the request to its plot, if it names one, and removes it.
// A plot that cannot be found or updated does not prevent removal.
func (l *Ledger) Approve(ctx context.Context, id string) (Approval, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	req, ok := l.findLocked(id)
	if !ok {
		return Approval{}, fmt.Errorf("%w: %s", ErrRequestNotFound, id)
	}

	approval := Approval{Request: req}
	if strings.TrimSpace(req.PlotID) != "" {
		approval.Patch = ApprovalPatch(req)
		approval.PlotUpdated, approval.PlotErr = l.applyToPlot(ctx, req, approval.Patch)
	}

	l.removeLocked(id)
	l.log.Info("request approved", map[string]interface{}{
		"request_id":   id,
		"plot_id":      req.PlotID,
		"plot_updated": approval.PlotUpdated,
	})
	return approval, l.persistLocked(ctx)
}

// Reject removes the request without touching any plot.
func (l *Ledger) Reject(ctx context.Context, id string) (models.Request, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	req, ok := l.findLocked(id)
	if !ok {
		return models.Request{}, fmt.Errorf("%w: %s", ErrRequestNotFound, id)
	}

	l.removeLocked(id)
	l.log.Info("request rejected", map[string]interface{}{"request_id": id})
	return req, l.persistLocked(ctx)
}

// ApprovalPatch returns the plot properties an approval writes. At-Need
// requests occupy the plot and may carry the deceased's name and date of
// death; every other request reserves it.
func ApprovalPatch(req models.Request) models.Properties {
	if req.RequestType != models.RequestAtNeed {
		return models.Properties{models.PropStatus: string(models.StatusReserved)}
	}

	patch := models.Properties{models.PropStatus: string(models.StatusOccupied)}
	if name := strings.TrimSpace(req.DeceasedName); name != "" {
		parts := strings.Fields(name)
		patch[models.PropFirstName] = parts[0]
		if len(parts) > 1 {
			patch[models.PropLastName] = strings.Join(parts[1:], " ")
		}
		if req.DeathDate != "" {
			patch[models.PropDOD] = req.DeathDate
		}
	}
	return patch
}

func (l *Ledger) applyToPlot(ctx context.Context, req models.Request, patch models.Properties) (bool, error) {
	plotID, err := strconv.Atoi(strings.TrimSpace(req.PlotID))
	if err != nil {
		l.log.Warn("approved request names an unknown plot", map[string]interface{}{
			"request_id": req.ID,
			"plot_id":    req.PlotID,
		})
		return false, nil
	}

	updated, err := l.plots.UpdateProperties(ctx, plotID, patch)
	if err != nil {
		l.log.Error("failed to apply approved request to plot", err, map[string]interface{}{
			"request_id": req.ID,
			"plot_id":    plotID,
		})
	} else if !updated {
		l.log.Warn("approved request names an unknown plot", map[string]interface{}{
			"request_id": req.ID,
			"plot_id":    plotID,
		})
	}
	return updated, err
}

func (l *Ledger) findLocked(id string) (models.Request, bool) {
	for _, r := range l.requests {
		if r.ID == id {
			return r, true
		}
	}
	return models.Request{}, false
}

func (l *Ledger) removeLocked(id string) {
	kept := make([]models.Request, 0, len(l.requests))
	for _, r := range l.requests {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	l.requests = kept
}

func (l *Ledger) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(l.requests)
	if err != nil {
		return &PersistenceError{Err: err}
	}
	if err := l.kv.Set(ctx, StorageKey, string(data)); err != nil {
		l.log.Error("failed to persist request ledger", err, nil)
		return &PersistenceError{Err: err}
	}
	return nil
}
