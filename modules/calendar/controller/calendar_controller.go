package controller

import (
	"social-calendar-api/core/constants"
	"social-calendar-api/core/controller"
	"social-calendar-api/core/errors"
	"social-calendar-api/core/utils"
	"social-calendar-api/modules/calendar/dto"
	"social-calendar-api/modules/calendar/service"

	"github.com/labstack/echo/v4"
)

type CalendarController struct {
	controller.BaseController
	service service.CalendarService
}

func NewCalendarController(service service.CalendarService) *CalendarController {
	return &CalendarController{
		BaseController: controller.NewBaseController(),
		service:        service,
	}
}

// GetConnections returns all calendar connections for the current user
// GET /api/v1/private/calendar/connections
func (c *CalendarController) GetConnections(ctx echo.Context) error {
	claims, ok := ctx.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if !ok || claims == nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Invalid user")
	}

	connections, err := c.service.GetConnections(ctx.Request().Context(), claims.UserID)
	if err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrGetFailed, "Failed to get connections", err))
	}

	return c.SuccessResponse(ctx, dto.CalendarConnectionListResponse{Connections: connections}, "Connections retrieved successfully")
}
