package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/plotpilot/api/internal/models"
	"github.com/stwalsh4118/plotpilot/api/internal/services"
)

// MaintenanceHandler handles work orders, issue reports and burial events.
type MaintenanceHandler struct {
	service services.MaintenanceService
}

// NewMaintenanceHandler creates a new MaintenanceHandler instance.
func NewMaintenanceHandler(service services.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{service: service}
}

// WorkOrderRequest is the body for creating or replacing a work order.
type WorkOrderRequest struct {
	PlotID      string `json:"plotId" binding:"max=64"`
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"max=2000"`
	Status      string `json:"status" binding:"omitempty,oneof=Open 'In Progress' Resolved Closed"`
	Priority    string `json:"priority" binding:"omitempty,oneof=Low Medium High Critical"`
	AssignedTo  string `json:"assignedTo" binding:"max=100"`
	DueDate     string `json:"dueDate" binding:"omitempty,datetime=2006-01-02"`
}

func (r WorkOrderRequest) toModel(id string) models.WorkOrder {
	return models.WorkOrder{
		ID:          id,
		PlotID:      r.PlotID,
		Title:       r.Title,
		Description: r.Description,
		Status:      models.WorkOrderStatus(r.Status),
		Priority:    models.Priority(r.Priority),
		AssignedTo:  r.AssignedTo,
		DueDate:     r.DueDate,
	}
}

// IssueRequest is the body for reporting a field issue.
type IssueRequest struct {
	Lat         float64 `json:"lat" binding:"min=-90,max=90"`
	Lng         float64 `json:"lng" binding:"min=-180,max=180"`
	Description string  `json:"description" binding:"required,max=2000"`
	PhotoURL    string  `json:"photoUrl" binding:"omitempty,url"`
	ReportedBy  string  `json:"reportedBy" binding:"max=100"`
}

// BurialRequest is the body for scheduling a burial.
type BurialRequest struct {
	PlotID        string `json:"plotId" binding:"required,max=64"`
	DeceasedName  string `json:"deceasedName" binding:"required,max=200"`
	ScheduledDate string `json:"scheduledDate" binding:"required,datetime=2006-01-02"`
	StartTime     string `json:"startTime" binding:"omitempty,datetime=15:04"`
	FuneralHome   string `json:"funeralHome" binding:"max=200"`
	ContactName   string `json:"contactName" binding:"max=100"`
	ContactPhone  string `json:"contactPhone" binding:"max=40"`
	Notes         string `json:"notes" binding:"max=2000"`
}

// ListWorkOrders handles GET /api/v1/work-orders.
func (h *MaintenanceHandler) ListWorkOrders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"workOrders": h.service.ListWorkOrders(c.Request.Context())})
}

// CreateWorkOrder handles POST /api/v1/work-orders.
func (h *MaintenanceHandler) CreateWorkOrder(c *gin.Context) {
	var req WorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingFailed(c, err, "Invalid request body")
		return
	}

	created, err := h.service.CreateWorkOrder(c.Request.Context(), req.toModel(""))
	if err != nil {
		serviceFailed(c, err, "Failed to create work order")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateWorkOrder handles PUT /api/v1/work-orders/:id.
func (h *MaintenanceHandler) UpdateWorkOrder(c *gin.Context) {
	var req WorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingFailed(c, err, "Invalid request body")
		return
	}

	wo := req.toModel(c.Param("id"))
	if wo.Status == "" {
		wo.Status = models.WorkOrderOpen
	}
	if wo.Priority == "" {
		wo.Priority = models.PriorityMedium
	}

	updated, err := h.service.UpdateWorkOrder(c.Request.Context(), wo)
	if err != nil {
		serviceFailed(c, err, "Failed to update work order")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// ListIssues handles GET /api/v1/issues.
func (h *MaintenanceHandler) ListIssues(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"issues": h.service.ListIssues(c.Request.Context())})
}

// ReportIssue handles POST /api/v1/issues.
func (h *MaintenanceHandler) ReportIssue(c *gin.Context) {
	var req IssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingFailed(c, err, "Invalid request body")
		return
	}

	issue, err := h.service.ReportIssue(c.Request.Context(), models.IssueReport{
		Location:    models.LatLng{Lat: req.Lat, Lng: req.Lng},
		Description: req.Description,
		PhotoURL:    req.PhotoURL,
		ReportedBy:  req.ReportedBy,
	})
	if err != nil {
		serviceFailed(c, err, "Failed to report issue")
		return
	}
	c.JSON(http.StatusCreated, issue)
}

// ResolveIssue handles POST /api/v1/issues/:id/resolve.
func (h *MaintenanceHandler) ResolveIssue(c *gin.Context) {
	issue, err := h.service.ResolveIssue(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceFailed(c, err, "Failed to resolve issue")
		return
	}
	c.JSON(http.StatusOK, issue)
}

// ListBurials handles GET /api/v1/burials.
func (h *MaintenanceHandler) ListBurials(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"burials": h.service.ListBurials(c.Request.Context())})
}

// ScheduleBurial handles POST /api/v1/burials.
func (h *MaintenanceHandler) ScheduleBurial(c *gin.Context) {
	var req BurialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingFailed(c, err, "Invalid request body")
		return
	}

	ev, err := h.service.ScheduleBurial(c.Request.Context(), models.BurialEvent{
		PlotID:        req.PlotID,
		DeceasedName:  req.DeceasedName,
		ScheduledDate: req.ScheduledDate,
		StartTime:     req.StartTime,
		FuneralHome:   req.FuneralHome,
		ContactName:   req.ContactName,
		ContactPhone:  req.ContactPhone,
		Notes:         req.Notes,
	})
	if err != nil {
		serviceFailed(c, err, "Failed to schedule burial")
		return
	}
	c.JSON(http.StatusCreated, ev)
}
