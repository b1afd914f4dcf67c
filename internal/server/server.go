package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	adminapp "github.com/prbeaches/directory/api/internal/admin/application"
	"github.com/prbeaches/directory/api/internal/config"
	"github.com/prbeaches/directory/api/internal/infrastructure/mailer"
	"github.com/prbeaches/directory/api/internal/infrastructure/redisstore"
	"github.com/prbeaches/directory/api/internal/infrastructure/weather"
	adminhttp "github.com/prbeaches/directory/api/internal/interfaces/http/admin"
	publichttp "github.com/prbeaches/directory/api/internal/interfaces/http/public"
	"github.com/prbeaches/directory/api/internal/logging"
	publicapp "github.com/prbeaches/directory/api/internal/public/application"
	"github.com/prbeaches/directory/api/internal/public/domain"
)

const limiterPrefix = "beaches:ratelimit"

// Server owns the HTTP lifecycle and is the composition root: it opens infrastructure, builds
// application services and mounts the public and admin handlers.
type Server struct {
	cfg      *config.Config
	logger   zerolog.Logger
	location *time.Location
	store    *Datastore
	redis    *redis.Client
	auth     *authenticator
	handler  http.Handler
}

// New connects every configured backend and assembles the router. The caller must call Close
// (Run does so on return).
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	logger := logging.Logger()

	loc, err := time.LoadLocation(cfg.Server.Timezone)
	if err != nil {
		logger.Warn().Err(err).Str("timezone", cfg.Server.Timezone).Msg("failed to load timezone, using UTC")
		loc = time.UTC
	}

	store, err := OpenDatastore(ctx, cfg.Datastore)
	if err != nil {
		return nil, fmt.Errorf("open datastore: %w", err)
	}
	logger.Info().Str("driver", store.Driver).Msg("datastore ready")

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		location: loc,
		store:    store,
		auth:     newAuthenticator(cfg.Auth),
	}

	if cfg.Redis.Enabled {
		client, err := redisstore.Connect(ctx, redisstore.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			_ = store.Close(context.Background())
			return nil, err
		}
		s.redis = client
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("redis ready")
	}

	s.handler = s.routes(s.buildHandlers())
	return s, nil
}

type handlers struct {
	public *publichttp.Handler
	admin  *adminhttp.Handler
}

func (s *Server) buildHandlers() handlers {
	cfg := s.cfg
	estimator := domain.NewCrowdEstimator(s.location)

	discovery := publicapp.NewDiscoveryService(publicapp.DiscoveryConfig{
		Beaches:     s.store.Beaches,
		Reviews:     s.store.Reviews,
		Collections: publicapp.MustCollectionRegistry(publicapp.DefaultCollections()...),
		Estimator:   estimator,
		Limits:      publicapp.Limits{ListCap: cfg.Discovery.ListCap, MapCap: cfg.Discovery.MapCap},
	})

	leads := publicapp.NewLeadService(discovery, s.store.Beaches, s.rateLimiter(), s.mailer(), publicapp.LeadPolicy{
		PerRequester: cfg.Leads.PerRequester,
		PerEmail:     cfg.Leads.PerEmail,
		Window:       cfg.Leads.Window,
		MaxBeaches:   cfg.Leads.MaxBeaches,
	})

	public := publichttp.NewHandler(publichttp.Config{
		Logger:          s.logger,
		Discovery:       discovery,
		Weather:         publicapp.NewWeatherService(discovery, s.weatherProvider()),
		Leads:           leads,
		Reviews:         publicapp.NewReviewCommandService(s.store.Beaches, s.store.Reviews),
		Estimator:       estimator,
		Location:        s.location,
		RequestTimeout:  cfg.Server.RequestTimeout,
		MaxCrowdHorizon: cfg.Discovery.MaxCrowdHorizon,
	})

	admin := adminhttp.NewHandler(adminhttp.Config{
		Logger:        s.logger,
		BeachService:  adminapp.NewBeachService(s.store.AdminBeaches),
		ReviewService: adminapp.NewReviewService(s.store.AdminReviews, s.store.AdminBeaches),
		Location:      s.location,
	})

	return handlers{public: public, admin: admin}
}

func (s *Server) rateLimiter() publicapp.RateLimiter {
	if s.redis != nil {
		return redisstore.NewLimiter(s.redis, limiterPrefix)
	}
	s.logger.Info().Msg("redis disabled, lead limits are kept in process memory")
	return redisstore.NewMemoryLimiter()
}

func (s *Server) mailer() publicapp.Mailer {
	if s.cfg.Mailer.Endpoint == "" {
		s.logger.Info().Msg("mailer endpoint not configured, lead emails are only logged")
		return mailer.LogMailer{}
	}
	return mailer.NewGateway(mailer.Config{
		Endpoint:   s.cfg.Mailer.Endpoint,
		From:       s.cfg.Mailer.From,
		APIKey:     s.cfg.Mailer.APIKey,
		Timeout:    s.cfg.Mailer.Timeout,
		Attempts:   s.cfg.Mailer.Attempts,
		RetryDelay: s.cfg.Mailer.RetryDelay,
	})
}

// weatherProvider returns nil when weather is disabled; the weather endpoint then reports no
// forecast instead of failing.
func (s *Server) weatherProvider() publicapp.WeatherProvider {
	if !s.cfg.Weather.Enabled {
		return nil
	}
	var provider publicapp.WeatherProvider = weather.NewClient(weather.Config{
		BaseURL:      s.cfg.Weather.BaseURL,
		Timeout:      s.cfg.Weather.Timeout,
		ForecastDays: s.cfg.Weather.ForecastDays,
		Timezone:     s.location.String(),
	})
	if s.redis != nil && s.cfg.Weather.CacheTTL > 0 {
		provider = redisstore.NewWeatherCache(s.redis, provider, s.cfg.Weather.CacheTTL)
	}
	return provider
}

// Handler exposes the assembled router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves HTTP until ctx is cancelled or the listener fails, then drains in-flight requests
// within the shutdown timeout and releases every backend.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.cfg.Server.Addr).Msg("http server listening")
		errChan <- httpServer.ListenAndServe()
	}()

	var runErr error
	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		s.logger.Info().Msg("shutdown requested, draining connections")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout())
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error().Err(err).Msg("http server shutdown")
		}
	}

	s.Close()
	return runErr
}

func (s *Server) shutdownTimeout() time.Duration {
	if s.cfg.Server.ShutdownTimeout > 0 {
		return s.cfg.Server.ShutdownTimeout
	}
	return 10 * time.Second
}

// Close releases the datastore and redis connections.
func (s *Server) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.store.Close(ctx); err != nil {
		s.logger.Error().Err(err).Msg("datastore close")
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error().Err(err).Msg("redis close")
		}
	}
}
