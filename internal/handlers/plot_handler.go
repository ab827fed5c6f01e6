package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/plotpilot/api/internal/aggregate"
	"github.com/stwalsh4118/plotpilot/api/internal/middleware"
	"github.com/stwalsh4118/plotpilot/api/internal/models"
	"github.com/stwalsh4118/plotpilot/api/internal/resolver"
	"github.com/stwalsh4118/plotpilot/api/internal/services"
)

// PlotHandler handles plot, section and statistics requests.
type PlotHandler struct {
	service services.PlotService
}

// NewPlotHandler creates a new PlotHandler instance.
func NewPlotHandler(service services.PlotService) *PlotHandler {
	return &PlotHandler{service: service}
}

// ListPlotsRequest represents the query parameters for listing plots.
type ListPlotsRequest struct {
	Status string `form:"status"`
}

// SearchRequest represents the query parameters for plot search.
type SearchRequest struct {
	Query string `form:"q" binding:"max=100"`
}

// SectionsRequest represents the query parameters for the section table.
type SectionsRequest struct {
	Query string `form:"q" binding:"max=100"`
	Sort  string `form:"sort"`
	Dir   string `form:"dir" binding:"omitempty,oneof=asc desc"`
}

// UpdatePlotRequest is the body of PATCH /api/v1/plots/:id. Omitted name
// and date fields keep their current values.
type UpdatePlotRequest struct {
	Status     string  `json:"status" binding:"required,oneof=Available Occupied Reserved"`
	FirstName  *string `json:"firstName" binding:"omitempty,max=100"`
	LastName   *string `json:"lastName" binding:"omitempty,max=100"`
	BurialDate *string `json:"burialDate" binding:"omitempty,max=40"`
}

// PlotsResponse is a GeoJSON FeatureCollection of plots.
type PlotsResponse struct {
	models.FeatureCollection
	Count int `json:"count"`
}

// SearchResponse lists plot search results.
type SearchResponse struct {
	Results []resolver.PlotDetails `json:"results"`
	Count   int                    `json:"count"`
}

// SectionsResponse lists section occupancy rows.
type SectionsResponse struct {
	Sections []aggregate.SectionStat `json:"sections"`
	Count    int                     `json:"count"`
}

// List handles GET /api/v1/plots.
func (h *PlotHandler) List(c *gin.Context) {
	var req ListPlotsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindingFailed(c, err, "Invalid query parameters")
		return
	}

	plots, err := h.service.ListPlots(c.Request.Context(), req.Status)
	if err != nil {
		serviceFailed(c, err, "Failed to list plots")
		return
	}

	c.JSON(http.StatusOK, PlotsResponse{
		FeatureCollection: models.NewFeatureCollection(plots),
		Count:             len(plots),
	})
}

// Search handles GET /api/v1/plots/search.
func (h *PlotHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindingFailed(c, err, "Invalid query parameters")
		return
	}

	results, err := h.service.SearchPlots(c.Request.Context(), req.Query)
	if err != nil {
		serviceFailed(c, err, "Failed to search plots")
		return
	}
	c.JSON(http.StatusOK, SearchResponse{Results: results, Count: len(results)})
}

// Get handles GET /api/v1/plots/:id.
func (h *PlotHandler) Get(c *gin.Context) {
	detail, err := h.service.GetPlot(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceFailed(c, err, "Failed to load plot")
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Update handles PATCH /api/v1/plots/:id.
func (h *PlotHandler) Update(c *gin.Context) {
	var req UpdatePlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingFailed(c, err, "Invalid request body")
		return
	}

	if log := middleware.GetLogger(c); log != nil {
		log.Info("Processing plot update", map[string]interface{}{
			"plot_id": c.Param("id"),
			"status":  req.Status,
		})
	}

	result, err := h.service.UpdatePlot(c.Request.Context(), c.Param("id"), services.PlotEdit{
		Status:     models.Status(req.Status),
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		BurialDate: req.BurialDate,
	})
	if err != nil {
		serviceFailed(c, err, "Failed to update plot")
		return
	}
	c.JSON(http.StatusOK, result)
}

// Reset handles POST /api/v1/plots/reset. It discards every local edit.
func (h *PlotHandler) Reset(c *gin.Context) {
	stats, err := h.service.Reset(c.Request.Context())
	if err != nil {
		serviceFailed(c, err, "Failed to reset plot data")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Stats handles GET /api/v1/stats.
func (h *PlotHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		serviceFailed(c, err, "Failed to compute statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Sections handles GET /api/v1/sections.
func (h *PlotHandler) Sections(c *gin.Context) {
	var req SectionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindingFailed(c, err, "Invalid query parameters")
		return
	}

	sections, err := h.service.Sections(c.Request.Context(), services.SectionQuery{
		Search:     req.Query,
		SortField:  req.Sort,
		Descending: req.Dir != "asc",
	})
	if err != nil {
		serviceFailed(c, err, "Failed to list sections")
		return
	}
	c.JSON(http.StatusOK, SectionsResponse{Sections: sections, Count: len(sections)})
}
