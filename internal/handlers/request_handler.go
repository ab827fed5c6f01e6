package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/plotpilot/api/internal/models"
	"github.com/stwalsh4118/plotpilot/api/internal/services"
)

// RequestHandler handles the purchase and burial request queue.
type RequestHandler struct {
	service services.RequestService
}

// NewRequestHandler creates a new RequestHandler instance.
func NewRequestHandler(service services.RequestService) *RequestHandler {
	return &RequestHandler{service: service}
}

// SubmitRequest is the body of POST /api/v1/requests. Exactly the fields a
// visitor fills in; id, timestamp and status are assigned on submission.
type SubmitRequest struct {
	RequestType      string `json:"requestType" binding:"required,oneof=Pre-Need At-Need"`
	FirstName        string `json:"firstName" binding:"required,max=100"`
	LastName         string `json:"lastName" binding:"required,max=100"`
	Email            string `json:"email" binding:"required,email"`
	Phone            string `json:"phone" binding:"max=40"`
	PlotID           string `json:"plotId" binding:"max=64"`
	PreferredSection string `json:"preferredSection" binding:"max=100"`
	Block            string `json:"block" binding:"max=40"`
	Lot              string `json:"lot" binding:"max=40"`
	DeceasedName     string `json:"deceasedName" binding:"max=200"`
	DeathDate        string `json:"deathDate" binding:"omitempty,datetime=2006-01-02"`
	Notes            string `json:"notes" binding:"max=2000"`
}

// RequestsResponse lists pending requests, newest first.
type RequestsResponse struct {
	Requests []models.Request `json:"requests"`
	Count    int              `json:"count"`
}

// List handles GET /api/v1/requests.
func (h *RequestHandler) List(c *gin.Context) {
	requests := h.service.ListRequests(c.Request.Context())
	if requests == nil {
		requests = []models.Request{}
	}
	c.JSON(http.StatusOK, RequestsResponse{Requests: requests, Count: len(requests)})
}

// Submit handles POST /api/v1/requests.
func (h *RequestHandler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingFailed(c, err, "Invalid request body")
		return
	}

	queued, err := h.service.SubmitRequest(c.Request.Context(), models.Request{
		RequestType:      models.RequestType(req.RequestType),
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Phone:            req.Phone,
		PlotID:           req.PlotID,
		PreferredSection: req.PreferredSection,
		Block:            req.Block,
		Lot:              req.Lot,
		DeceasedName:     req.DeceasedName,
		DeathDate:        req.DeathDate,
		Notes:            req.Notes,
	})
	if err != nil {
		serviceFailed(c, err, "Failed to submit request")
		return
	}
	c.JSON(http.StatusCreated, queued)
}

// Approve handles POST /api/v1/requests/:id/approve.
func (h *RequestHandler) Approve(c *gin.Context) {
	decision, err := h.service.ApproveRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceFailed(c, err, "Failed to approve request")
		return
	}
	c.JSON(http.StatusOK, decision)
}

// Reject handles POST /api/v1/requests/:id/reject.
func (h *RequestHandler) Reject(c *gin.Context) {
	decision, err := h.service.RejectRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceFailed(c, err, "Failed to reject request")
		return
	}
	c.JSON(http.StatusOK, decision)
}
