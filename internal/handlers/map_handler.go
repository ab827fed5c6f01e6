package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/plotpilot/api/internal/models"
	"github.com/stwalsh4118/plotpilot/api/internal/services"
)

// MapHandler serves render styles and camera framing for the map.
type MapHandler struct {
	service services.MapService
}

// NewMapHandler creates a new MapHandler instance.
func NewMapHandler(service services.MapService) *MapHandler {
	return &MapHandler{service: service}
}

// StylesRequest represents the query parameters for the styles endpoint.
type StylesRequest struct {
	From     *int   `form:"from" binding:"omitempty,gte=1000,lte=9999"`
	To       *int   `form:"to" binding:"omitempty,gte=1000,lte=9999"`
	Mode     string `form:"mode"`
	Selected string `form:"selected" binding:"max=64"`
}

// BoundsResponse frames every loaded feature. Bounds is null when nothing
// has usable geometry.
type BoundsResponse struct {
	Bounds *models.BBox   `json:"bounds"`
	Center *models.LatLng `json:"center"`
}

// Styles handles GET /api/v1/map/styles.
func (h *MapHandler) Styles(c *gin.Context) {
	var req StylesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindingFailed(c, err, "Invalid query parameters")
		return
	}

	styles, err := h.service.Styles(c.Request.Context(), services.StyleQuery{
		Mode:     req.Mode,
		From:     req.From,
		To:       req.To,
		Selected: req.Selected,
	})
	if err != nil {
		serviceFailed(c, err, "Failed to compute map styles")
		return
	}
	c.JSON(http.StatusOK, styles)
}

// Bounds handles GET /api/v1/map/bounds.
func (h *MapHandler) Bounds(c *gin.Context) {
	bbox, ok, err := h.service.Bounds(c.Request.Context())
	if err != nil {
		serviceFailed(c, err, "Failed to compute map bounds")
		return
	}

	var resp BoundsResponse
	if ok {
		resp.Bounds = &bbox
		if center, hasCenter := bbox.Center(); hasCenter {
			resp.Center = &center
		}
	}
	c.JSON(http.StatusOK, resp)
}

// Overlays handles GET /api/v1/map/overlays.
func (h *MapHandler) Overlays(c *gin.Context) {
	overlays, err := h.service.Overlays(c.Request.Context())
	if err != nil {
		serviceFailed(c, err, "Failed to build map overlays")
		return
	}
	c.JSON(http.StatusOK, overlays)
}
