package public

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prbeaches/directory/api/internal/interfaces/http/common"
)

// beachWeatherHandler scores current conditions for a beach. Provider outages degrade to
// {"available": false} instead of an error status.
func (h *Handler) beachWeatherHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := h.withTimeout(r)
		defer cancel()

		report, err := h.weather.ForBeach(ctx, chi.URLParam(r, "idOrSlug"))
		if err != nil {
			common.WriteError(h.log(ctx), w, err)
			return
		}
		if report.ProviderErr != nil {
			logger := h.log(ctx)
			logger.Warn().Err(report.ProviderErr).Str("beach", chi.URLParam(r, "idOrSlug")).Msg("weather provider unavailable")
		}

		common.WriteJSON(h.log(ctx), w, http.StatusOK, buildWeather(chi.URLParam(r, "idOrSlug"), report, h.location))
	}
}
