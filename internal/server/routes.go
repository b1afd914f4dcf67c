package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	commonhttp "github.com/prbeaches/directory/api/internal/interfaces/http/common"
	"github.com/prbeaches/directory/api/internal/logging"
	"github.com/prbeaches/directory/api/internal/metrics"
)

func (s *Server) routes(h handlers) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logging.RequestID)
	router.Use(logging.RequestLogger)
	router.Use(middleware.Recoverer)
	router.Use(recordMetrics)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Accept"},
		ExposedHeaders:   []string{middleware.RequestIDHeader, "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", s.healthHandler())
	router.Handle("/metrics", promhttp.Handler())

	router.Group(func(r chi.Router) {
		if s.cfg.Server.RateLimitRequests > 0 && s.cfg.Server.RateLimitWindow > 0 {
			r.Use(httprate.Limit(
				s.cfg.Server.RateLimitRequests,
				s.cfg.Server.RateLimitWindow,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
					logger := logging.Ctx(r.Context())
					commonhttp.WriteMessage(*logger, w, http.StatusTooManyRequests, commonhttp.CodeRateLimited, "too many requests, try again later")
				}),
			))
		}
		h.public.Register(r, s.auth.middleware)
	})

	router.Route("/admin", func(r chi.Router) {
		r.Use(s.auth.middleware)
		r.Use(s.auth.adminOnly)
		h.admin.Register(r)
	})

	return router
}

// recordMetrics labels requests by route pattern so path parameters do not explode cardinality.
func recordMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.RecordHTTPRequest(r.Method, route, status, time.Since(start))
	})
}

type healthResponse struct {
	Status    string            `json:"status"`
	Datastore string            `json:"datastore"`
	Checks    map[string]string `json:"checks"`
	Time      string            `json:"time"`
}

// healthHandler reports infrastructure reachability only.
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{
			Status:    "ok",
			Datastore: s.store.Driver,
			Checks:    map[string]string{},
			Time:      time.Now().In(s.location).Format(time.RFC3339),
		}
		status := http.StatusOK

		if err := s.store.Ping(ctx); err != nil {
			resp.Checks["datastore"] = err.Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
		} else {
			resp.Checks["datastore"] = "ok"
		}
		if s.redis != nil {
			if err := s.redis.Ping(ctx).Err(); err != nil {
				resp.Checks["redis"] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
			} else {
				resp.Checks["redis"] = "ok"
			}
		}

		commonhttp.WriteJSON(*logging.Ctx(r.Context()), w, status, resp)
	}
}
