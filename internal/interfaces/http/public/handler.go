package public

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/prbeaches/directory/api/internal/logging"
	publicapp "github.com/prbeaches/directory/api/internal/public/application"
	"github.com/prbeaches/directory/api/internal/public/domain"
)

const defaultRequestTimeout = 5 * time.Second

// Handler wires public HTTP endpoints to application services.
type Handler struct {
	logger          zerolog.Logger
	discovery       publicapp.DiscoveryService
	weather         *publicapp.WeatherService
	leads           *publicapp.LeadService
	reviews         publicapp.ReviewCommandService
	estimator       domain.CrowdEstimator
	location        *time.Location
	now             func() time.Time
	requestTimeout  time.Duration
	maxCrowdHorizon int
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger          zerolog.Logger
	Discovery       publicapp.DiscoveryService
	Weather         *publicapp.WeatherService
	Leads           *publicapp.LeadService
	Reviews         publicapp.ReviewCommandService
	Estimator       domain.CrowdEstimator
	Location        *time.Location
	Clock           func() time.Time
	RequestTimeout  time.Duration
	MaxCrowdHorizon int
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	horizon := cfg.MaxCrowdHorizon
	if horizon <= 0 || horizon > domain.MaxCrowdHorizon {
		horizon = domain.MaxCrowdHorizon
	}
	return &Handler{
		logger:          cfg.Logger,
		discovery:       cfg.Discovery,
		weather:         cfg.Weather,
		leads:           cfg.Leads,
		reviews:         cfg.Reviews,
		estimator:       cfg.Estimator,
		location:        loc,
		now:             clock,
		requestTimeout:  timeout,
		maxCrowdHorizon: horizon,
	}
}

// Register mounts all public routes onto the router.
func (h *Handler) Register(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Get("/beaches", h.beachListHandler(publicapp.ViewList))
	r.Get("/beaches/map", h.beachListHandler(publicapp.ViewMap))
	r.Get("/beaches/{idOrSlug}", h.beachDetailHandler())
	r.Get("/beaches/{idOrSlug}/weather", h.beachWeatherHandler())
	r.Get("/collections", h.collectionIndexHandler())
	r.Get("/collections/{key}", h.collectionHandler())
	r.Get("/crowd", h.crowdHandler())
	r.Get("/vocabulary", h.vocabularyHandler())
	r.Post("/leads/list", h.beachListLeadHandler())
	r.With(authMiddleware).Post("/beaches/{idOrSlug}/reviews", h.reviewCreateHandler())
	r.With(authMiddleware).Get("/auth/verify", h.authVerifyHandler())
}

func (h *Handler) withTimeout(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.requestTimeout)
}

// log returns the handler logger tagged with the request id.
func (h *Handler) log(ctx context.Context) zerolog.Logger {
	if id := logging.RequestIDFromContext(ctx); id != "" {
		return h.logger.With().Str("request_id", id).Logger()
	}
	return h.logger
}
