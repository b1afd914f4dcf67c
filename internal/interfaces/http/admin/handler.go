package admin

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	adminapp "github.com/prbeaches/directory/api/internal/admin/application"
	"github.com/prbeaches/directory/api/internal/logging"
)

const requestTimeout = 5 * time.Second

// Handler wires admin HTTP endpoints to application services.
type Handler struct {
	logger        zerolog.Logger
	beachService  adminapp.BeachService
	reviewService adminapp.ReviewService
	location      *time.Location
}

// Config provides dependencies for Handler.
type Config struct {
	Logger        zerolog.Logger
	BeachService  adminapp.BeachService
	ReviewService adminapp.ReviewService
	Location      *time.Location
}

// NewHandler constructs an admin HTTP handler set.
func NewHandler(cfg Config) *Handler {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		logger:        cfg.Logger,
		beachService:  cfg.BeachService,
		reviewService: cfg.ReviewService,
		location:      loc,
	}
}

// Register mounts admin routes onto router. Authentication and the subject allowlist are
// applied by the caller.
func (h *Handler) Register(r chi.Router) {
	r.Get("/beaches", h.beachListHandler())
	r.Get("/beaches/{id}", h.beachDetailHandler())
	r.Patch("/beaches/{id}/status", h.beachStatusHandler())
	r.Get("/reviews", h.reviewListHandler())
	r.Patch("/reviews/{id}", h.reviewModerateHandler())
}

func (h *Handler) log(ctx context.Context) zerolog.Logger {
	if id := logging.RequestIDFromContext(ctx); id != "" {
		return h.logger.With().Str("request_id", id).Logger()
	}
	return h.logger
}
