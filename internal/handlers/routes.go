package handlers

import (
	"github.com/gin-gonic/gin"
)

// Handlers groups every API handler for route registration.
type Handlers struct {
	Health      *HealthHandler
	Plots       *PlotHandler
	Map         *MapHandler
	Requests    *RequestHandler
	Maintenance *MaintenanceHandler
}

// RegisterRoutes mounts the health endpoints and the /api/v1 group.
func RegisterRoutes(router gin.IRouter, h Handlers) {
	router.GET("/health", h.Health.Health)
	router.GET("/health/ready", h.Health.Ready)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/info", h.Health.Info)
		v1.GET("/stats", h.Plots.Stats)
		v1.GET("/sections", h.Plots.Sections)

		plots := v1.Group("/plots")
		{
			plots.GET("", h.Plots.List)
			plots.GET("/search", h.Plots.Search)
			plots.POST("/reset", h.Plots.Reset)
			plots.GET("/:id", h.Plots.Get)
			plots.PATCH("/:id", h.Plots.Update)
		}

		mapGroup := v1.Group("/map")
		{
			mapGroup.GET("/styles", h.Map.Styles)
			mapGroup.GET("/bounds", h.Map.Bounds)
			mapGroup.GET("/overlays", h.Map.Overlays)
		}

		requests := v1.Group("/requests")
		{
			requests.GET("", h.Requests.List)
			requests.POST("", h.Requests.Submit)
			requests.POST("/:id/approve", h.Requests.Approve)
			requests.POST("/:id/reject", h.Requests.Reject)
		}

		v1.GET("/work-orders", h.Maintenance.ListWorkOrders)
		v1.POST("/work-orders", h.Maintenance.CreateWorkOrder)
		v1.PUT("/work-orders/:id", h.Maintenance.UpdateWorkOrder)
		v1.GET("/issues", h.Maintenance.ListIssues)
		v1.POST("/issues", h.Maintenance.ReportIssue)
		v1.POST("/issues/:id/resolve", h.Maintenance.ResolveIssue)
		v1.GET("/burials", h.Maintenance.ListBurials)
		v1.POST("/burials", h.Maintenance.ScheduleBurial)
	}
}
