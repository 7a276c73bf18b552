package router

import (
	"social-calendar-api/core/middleware"
	"social-calendar-api/modules/availability/controller"

	"github.com/labstack/echo/v4"
)

// AvailabilityRouter handles availability routes
type AvailabilityRouter struct {
	AvailabilityController *controller.AvailabilityController
}

// NewAvailabilityRouter creates a new router
func NewAvailabilityRouter(ctrl *controller.AvailabilityController) *AvailabilityRouter {
	return &AvailabilityRouter{AvailabilityController: ctrl}
}

// Setup registers availability routes
func (r *AvailabilityRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	routes := privateRoutes.Group("/availability", mw.AuthMiddleware())

	routes.GET("/work-schedule", r.AvailabilityController.GetWorkSchedule)
	routes.PUT("/work-schedule", r.AvailabilityController.SaveWorkSchedule)

	routes.GET("/preset", r.AvailabilityController.GetPreset)
	routes.PUT("/preset", r.AvailabilityController.SavePreset)
	routes.GET("/presets", r.AvailabilityController.ListPresets)

	routes.POST("/schedule", r.AvailabilityController.ComputeSchedule)
	routes.GET("/schedule/latest", r.AvailabilityController.LatestSchedule)
	routes.POST("/schedule/warm", r.AvailabilityController.WarmSchedule)
}
