package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/chorushq/chorus-api/internal/config"
	"github.com/chorushq/chorus-api/internal/handler"
	"github.com/chorushq/chorus-api/internal/middleware"
	"github.com/chorushq/chorus-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	MemberHandler       *handler.MemberHandler
	FormHandler         *handler.FormHandler
	EventHandler        *handler.EventHandler
	SongHandler         *handler.SongHandler
	ProductionHandler   *handler.ProductionHandler
	AuditionHandler     *handler.AuditionHandler
	TaskHandler         *handler.TaskHandler
	AnnouncementHandler *handler.AnnouncementHandler
	NotificationHandler *handler.NotificationHandler
	JWTMiddleware       fiber.Handler
	SubmitRatePerMin    int
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.MemberHandler != nil {
		members := app.Group("/api/v1/members", jwtMiddleware)
		deps.MemberHandler.Register(members)
	}

	if deps.FormHandler != nil {
		forms := app.Group("/api/v1/forms", jwtMiddleware)
		if deps.SubmitRatePerMin > 0 {
			forms.Use("/:id/responses", middleware.RateLimit("form-submit", deps.SubmitRatePerMin, time.Minute))
		}
		deps.FormHandler.Register(forms)
	}

	if deps.EventHandler != nil {
		events := app.Group("/api/v1/events", jwtMiddleware)
		deps.EventHandler.Register(events)
	}

	if deps.SongHandler != nil {
		songs := app.Group("/api/v1/songs", jwtMiddleware)
		deps.SongHandler.Register(songs)
	}

	if deps.ProductionHandler != nil {
		productions := app.Group("/api/v1/productions", jwtMiddleware)
		deps.ProductionHandler.Register(productions)
	}

	if deps.AuditionHandler != nil {
		auditions := app.Group("/api/v1/auditions", jwtMiddleware)
		deps.AuditionHandler.Register(auditions)

		casting := app.Group("/api/v1/cast-roles", jwtMiddleware)
		deps.AuditionHandler.RegisterCasting(casting)
	}

	if deps.TaskHandler != nil {
		tasks := app.Group("/api/v1/tasks", jwtMiddleware)
		deps.TaskHandler.Register(tasks)

		notes := app.Group("/api/v1/meeting-notes", jwtMiddleware)
		deps.TaskHandler.RegisterNotes(notes)
	}

	if deps.AnnouncementHandler != nil {
		announcements := app.Group("/api/v1/announcements", jwtMiddleware)
		deps.AnnouncementHandler.Register(announcements)
	}

	if deps.NotificationHandler != nil {
		notifications := app.Group("/api/v1/notifications", jwtMiddleware)
		deps.NotificationHandler.Register(notifications)
	}
}
