package controller

import (
	"social-calendar-api/core/constants"
	"social-calendar-api/core/controller"
	"social-calendar-api/core/errors"
	"social-calendar-api/core/utils"
	"social-calendar-api/modules/availability/dto"
	"social-calendar-api/modules/availability/entity"
	"social-calendar-api/modules/availability/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AvailabilityController handles availability HTTP requests
type AvailabilityController struct {
	controller.BaseController
	AvailabilityService service.AvailabilityService
}

// NewAvailabilityController creates a new controller
func NewAvailabilityController(svc service.AvailabilityService) *AvailabilityController {
	return &AvailabilityController{
		BaseController:      controller.NewBaseController(),
		AvailabilityService: svc,
	}
}

// getUserIDFromContext extracts user ID from JWT context
func (c *AvailabilityController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, bool) {
	claims, ok := ctx.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if !ok || claims == nil || claims.UserID == uuid.Nil {
		return uuid.Nil, false
	}
	return claims.UserID, true
}

// GetWorkSchedule handles GET /availability/work-schedule
func (c *AvailabilityController) GetWorkSchedule(ctx echo.Context) error {
	userID, ok := c.getUserIDFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	days, appErr := c.AvailabilityService.GetWorkSchedule(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, dto.WorkScheduleResponse{Days: days}, "Work schedule retrieved successfully")
}

// SaveWorkSchedule handles PUT /availability/work-schedule
func (c *AvailabilityController) SaveWorkSchedule(ctx echo.Context) error {
	userID, ok := c.getUserIDFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.SaveWorkScheduleRequest
	if err := c.BindAndValidate(ctx, &req); err != nil {
		return err
	}

	days, appErr := c.AvailabilityService.SaveWorkSchedule(ctx.Request().Context(), userID, dto.ToWorkScheduleDays(req.Days))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, dto.WorkScheduleResponse{Days: days}, "Work schedule saved successfully")
}

// GetPreset handles GET /availability/preset
func (c *AvailabilityController) GetPreset(ctx echo.Context) error {
	userID, ok := c.getUserIDFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	preset, appErr := c.AvailabilityService.GetPreset(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, dto.ToPresetResponse(preset), "Preset retrieved successfully")
}

// SavePreset handles PUT /availability/preset
func (c *AvailabilityController) SavePreset(ctx echo.Context) error {
	userID, ok := c.getUserIDFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.SavePresetRequest
	if err := c.BindAndValidate(ctx, &req); err != nil {
		return err
	}

	preset, appErr := c.AvailabilityService.SavePreset(ctx.Request().Context(), userID, req.Preset)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, dto.ToPresetResponse(preset), "Preset saved successfully")
}

// ListPresets handles GET /availability/presets
func (c *AvailabilityController) ListPresets(ctx echo.Context) error {
	presets := entity.Presets()
	out := make([]dto.PresetResponse, 0, len(presets))
	for _, p := range presets {
		out = append(out, dto.ToPresetResponse(p))
	}
	return c.SuccessResponse(ctx, out, "Presets retrieved successfully")
}

// ComputeSchedule handles POST /availability/schedule
func (c *AvailabilityController) ComputeSchedule(ctx echo.Context) error {
	userID, ok := c.getUserIDFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.ScheduleRequest
	if err := c.BindAndValidate(ctx, &req); err != nil {
		return err
	}

	resp, appErr := c.AvailabilityService.ComputeGroupSchedule(ctx.Request().Context(), userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, resp, "Schedule computed successfully")
}

// LatestSchedule handles GET /availability/schedule/latest
func (c *AvailabilityController) LatestSchedule(ctx echo.Context) error {
	userID, ok := c.getUserIDFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	resp, appErr := c.AvailabilityService.LatestSchedule(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, resp, "Latest schedule retrieved successfully")
}

// WarmSchedule handles POST /availability/schedule/warm
func (c *AvailabilityController) WarmSchedule(ctx echo.Context) error {
	userID, ok := c.getUserIDFromContext(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.ScheduleRequest
	if err := c.BindAndValidate(ctx, &req); err != nil {
		return err
	}

	resp, appErr := c.AvailabilityService.EnqueueWarmUp(ctx.Request().Context(), userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, resp, "Schedule warm-up enqueued")
}
