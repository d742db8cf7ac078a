package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/amani-care/report-backend/internal/auth"
	"github.com/amani-care/report-backend/internal/report"
	"github.com/amani-care/report-backend/internal/schedule"
)

type RouterConfig struct {
	Schedule     *schedule.Service
	Auth         *auth.Service
	Reports      *report.Service
	Places       PlacesClient
	Instructions InstructionsGenerator
	Logger       *zap.Logger
	PgPool       *pgxpool.Pool
	Redis        *redis.Client
	Env          string
	Version      string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Route("/api", func(r chi.Router) {
		// Public surface
		r.Post("/login", loginHandler(cfg.Auth))
		r.Post("/reports", submitReportHandler(cfg.Reports))
		r.Post("/contact", submitContactHandler(cfg.Reports))

		r.Group(func(r chi.Router) {
			r.Use(OptionalAuthMiddleware(cfg.Auth))
			r.Get("/support", listSupportHandler(cfg.Reports))
			r.Get("/updates", listUpdatesHandler(cfg.Reports))
			r.Get("/events", listEventsHandler(cfg.Reports))
			r.Post("/psychologists/{userID}/bookings", claimBookingHandler(cfg.Schedule))
		})

		r.Get("/psychologists", listPsychologistsHandler(cfg.Schedule))
		r.Get("/psychologists/{userID}", psychologistDetailHandler(cfg.Schedule))

		if cfg.Places != nil {
			r.Get("/nearest-services", nearestServicesHandler(cfg.Places))
		}
		if cfg.Instructions != nil {
			r.Post("/instructions", instructionsHandler(cfg.Instructions))
		}

		// Admin surface
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(cfg.Auth), RequireRole(auth.RoleAdmin))

			r.Get("/admin/details", adminDetailsHandler())
			r.Get("/reports/list", listReportsHandler(cfg.Reports))
			r.Get("/reports/count", countReportsHandler(cfg.Reports))
			r.Patch("/reports/{id}", patchReportHandler(cfg.Reports))
			r.Get("/contact/list", listContactHandler(cfg.Reports))
			r.Post("/support", createSupportHandler(cfg.Reports))
			r.Post("/updates", createUpdateHandler(cfg.Reports))
			r.Patch("/updates/{id}", patchUpdateHandler(cfg.Reports))
			r.Delete("/updates/{id}", deleteUpdateHandler(cfg.Reports))
			r.Post("/events", createEventHandler(cfg.Reports))
			r.Patch("/events/{id}", patchEventHandler(cfg.Reports))
			r.Delete("/events/{id}", deleteEventHandler(cfg.Reports))
		})

		// Psychologist surface
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(cfg.Auth), RequireRole(auth.RolePsychologist))

			r.Get("/availabilities", listAvailabilitiesHandler(cfg.Schedule))
			r.Post("/availabilities", createAvailabilityHandler(cfg.Schedule))
			r.Post("/availabilities/bulk", bulkReplaceAvailabilitiesHandler(cfg.Schedule))
			r.Get("/availabilities/{id}", getAvailabilityHandler(cfg.Schedule))
			r.Patch("/availabilities/{id}", patchAvailabilityHandler(cfg.Schedule))
			r.Delete("/availabilities/{id}", deleteAvailabilityHandler(cfg.Schedule))

			r.Get("/bookings", listBookingsHandler(cfg.Schedule))
			r.Get("/bookings/past", pastBookingsHandler(cfg.Schedule))
			r.Get("/bookings/upcoming", upcomingBookingsHandler(cfg.Schedule))
			r.Get("/bookings/{id}", getBookingHandler(cfg.Schedule))
			r.Patch("/bookings/{id}", patchBookingHandler(cfg.Schedule))
			r.Delete("/bookings/{id}", deleteBookingHandler(cfg.Schedule))

			r.Get("/profile", myProfileHandler(cfg.Schedule))
			r.Put("/profile", updateMyProfileHandler(cfg.Schedule))
		})
	})

	return r
}
