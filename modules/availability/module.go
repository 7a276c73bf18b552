package availability

import (
	"time"

	"social-calendar-api/core/cache"
	"social-calendar-api/core/config"
	"social-calendar-api/core/database"
	"social-calendar-api/core/middleware"
	"social-calendar-api/modules/availability/controller"
	"social-calendar-api/modules/availability/repository"
	"social-calendar-api/modules/availability/router"
	"social-calendar-api/modules/availability/service"
	"social-calendar-api/modules/availability/task"

	"github.com/labstack/echo/v4"
)

// Options carries what the availability module needs from the server.
// Importer and Tasks may be nil.
type Options struct {
	DB       database.IDatabase
	Cache    cache.Cache
	Importer service.BusyImporter
	Tasks    task.TaskClient
	Config   config.SchedulingConfig
	Location *time.Location
}

// Init initializes the availability module, registers routes and returns the
// warm-up task handler for the worker.
func Init(e *echo.Echo, mw *middleware.Middleware, opt Options) *task.Handler {
	deps := service.Dependencies{
		Schedules: repository.NewWorkScheduleRepository(opt.DB),
		Events:    repository.NewEventBusyRepository(opt.DB),
		Prefs:     repository.NewPreferenceRepository(opt.Cache),
		Snapshots: repository.NewSnapshotRepository(opt.Cache),
		Importer:  opt.Importer,
	}
	if opt.Tasks != nil {
		deps.Enqueuer = task.NewEnqueuer(opt.Tasks)
	}

	svc := service.NewAvailabilityService(deps, opt.Config, opt.Location)
	ctrl := controller.NewAvailabilityController(svc)
	router.NewAvailabilityRouter(ctrl).Setup(e, mw)

	return task.NewHandler(svc)
}
