package calendar

import (
	"social-calendar-api/core/config"
	"social-calendar-api/core/database"
	"social-calendar-api/core/middleware"
	"social-calendar-api/modules/calendar/controller"
	"social-calendar-api/modules/calendar/repository"
	"social-calendar-api/modules/calendar/router"
	"social-calendar-api/modules/calendar/service"

	"github.com/labstack/echo/v4"
)

// Init registers calendar routes and returns the service, which also serves
// as the busy-time importer for the availability module.
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware, cfg config.GoogleAPIConfig) service.CalendarService {
	repo := repository.NewCalendarRepository(db)
	calendarService := service.NewCalendarService(repo, cfg)
	router.NewCalendarRouter(controller.NewCalendarController(calendarService)).Setup(e, mw)
	return calendarService
}
