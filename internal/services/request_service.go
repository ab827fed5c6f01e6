package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/stwalsh4118/plotpilot/api/internal/ledger"
	"github.com/stwalsh4118/plotpilot/api/internal/logger"
	"github.com/stwalsh4118/plotpilot/api/internal/metrics"
	"github.com/stwalsh4118/plotpilot/api/internal/models"
	"github.com/stwalsh4118/plotpilot/api/internal/repository"
)

// RequestLedger is the request queue used by RequestService.
type RequestLedger interface {
	List() []models.Request
	Submit(ctx context.Context, req models.Request) (models.Request, error)
	Approve(ctx context.Context, id string) (ledger.Approval, error)
	Reject(ctx context.Context, id string) (models.Request, error)
}

// RequestDecision is the outcome of approving or rejecting a request.
type RequestDecision struct {
	Request models.Request    `json:"request"`
	Patch   models.Properties `json:"patch,omitempty"`
	// PlotUpdated is true when an approval changed a plot.
	PlotUpdated bool `json:"plotUpdated"`
	Persisted   bool `json:"persisted"`
}

// RequestService defines the request queue use cases.
type RequestService interface {
	// ListRequests returns pending requests, newest first.
	ListRequests(ctx context.Context) []models.Request

	// SubmitRequest queues a new request.
	SubmitRequest(ctx context.Context, req models.Request) (models.Request, error)

	// ApproveRequest applies a request to its plot and removes it.
	ApproveRequest(ctx context.Context, id string) (*RequestDecision, error)

	// RejectRequest removes a request without touching any plot.
	RejectRequest(ctx context.Context, id string) (*RequestDecision, error)
}

// requestService is the concrete implementation of RequestService.
type requestService struct {
	ledger  RequestLedger
	metrics *metrics.Metrics
	log     *logger.Logger
}

// NewRequestService creates a new instance of RequestService.
func NewRequestService(l RequestLedger, m *metrics.Metrics, log *logger.Logger) RequestService {
	return &requestService{
		ledger:  l,
		metrics: m,
		log:     log.WithComponent("request_service"),
	}
}

func (s *requestService) ListRequests(ctx context.Context) []models.Request {
	return s.ledger.List()
}

func (s *requestService) SubmitRequest(ctx context.Context, req models.Request) (models.Request, error) {
	queued, err := s.ledger.Submit(ctx, req)
	if err != nil && !s.ledgerWriteFailed(err, queued.ID) {
		return models.Request{}, fmt.Errorf("failed to submit request: %w", err)
	}
	return queued, nil
}

func (s *requestService) ApproveRequest(ctx context.Context, id string) (*RequestDecision, error) {
	approval, err := s.ledger.Approve(ctx, id)
	if errors.Is(err, ledger.ErrRequestNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRequestNotFound, id)
	}
	persisted := err == nil
	if err != nil && !s.ledgerWriteFailed(err, id) {
		return nil, fmt.Errorf("failed to approve request: %w", err)
	}

	switch {
	case isOverridePersistenceError(approval.PlotErr):
		s.metrics.PersistenceFailure(metrics.StoreOverrides)
	case errors.Is(approval.PlotErr, repository.ErrNotLoaded):
		s.log.Warn("Request approved while plot data is not loaded", map[string]interface{}{
			"request_id": id,
			"plot_id":    approval.Request.PlotID,
		})
	}

	s.metrics.RequestDecision("approved")
	return &RequestDecision{
		Request:     approval.Request,
		Patch:       approval.Patch,
		PlotUpdated: approval.PlotUpdated,
		Persisted:   persisted,
	}, nil
}

func (s *requestService) RejectRequest(ctx context.Context, id string) (*RequestDecision, error) {
	req, err := s.ledger.Reject(ctx, id)
	if errors.Is(err, ledger.ErrRequestNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRequestNotFound, id)
	}
	persisted := err == nil
	if err != nil && !s.ledgerWriteFailed(err, id) {
		return nil, fmt.Errorf("failed to reject request: %w", err)
	}

	s.metrics.RequestDecision("rejected")
	return &RequestDecision{Request: req, Persisted: persisted}, nil
}

// ledgerWriteFailed reports whether err is a ledger write failure, counting
// and logging it if so.
func (s *requestService) ledgerWriteFailed(err error, id string) bool {
	var pe *ledger.PersistenceError
	if !errors.As(err, &pe) {
		return false
	}
	s.metrics.PersistenceFailure(metrics.StoreLedger)
	s.log.Warn("Request ledger change applied but not persisted", map[string]interface{}{
		"request_id": id,
		"error":      err.Error(),
	})
	return true
}
