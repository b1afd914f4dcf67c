package admin

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	adminapp "github.com/prbeaches/directory/api/internal/admin/application"
	admindomain "github.com/prbeaches/directory/api/internal/admin/domain"
	"github.com/prbeaches/directory/api/internal/interfaces/http/common"
	"github.com/prbeaches/directory/api/internal/metrics"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

func (h *Handler) beachListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		query := r.URL.Query()
		status, err := admindomain.NewStatusFilter(query.Get("status"))
		if err != nil {
			common.WriteError(h.log(ctx), w, err)
			return
		}
		paging := parsePaging(query.Get("page"), query.Get("limit"))

		beaches, err := h.beachService.List(ctx, adminapp.BeachFilter{
			Status:  status,
			Keyword: strings.TrimSpace(query.Get("q")),
		}, paging)
		if err != nil {
			common.WriteError(h.log(ctx), w, err)
			return
		}

		items := make([]adminBeachResponse, 0, len(beaches))
		for _, b := range beaches {
			items = append(items, buildBeach(b, h.location))
		}
		common.WriteJSON(h.log(ctx), w, http.StatusOK, listResponse[adminBeachResponse]{Items: items, Page: paging.Page, Limit: paging.Limit})
	}
}

func (h *Handler) beachDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		beach, err := h.beachService.Detail(ctx, strings.TrimSpace(chi.URLParam(r, "id")))
		if err != nil {
			common.WriteError(h.log(ctx), w, err)
			return
		}
		common.WriteJSON(h.log(ctx), w, http.StatusOK, buildBeach(*beach, h.location))
	}
}

// beachStatusHandler publishes or unpublishes a beach. Publishing validates the full record.
func (h *Handler) beachStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		var req statusRequest
		if err := common.DecodeJSON(w, r, &req); err != nil {
			common.WriteError(h.log(ctx), w, err)
			return
		}

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		change, err := h.beachService.SetStatus(ctx, id, adminapp.SetStatusCommand{
			Status: strings.ToLower(strings.TrimSpace(req.Status)),
			Actor:  actorFrom(ctx),
		})
		if err != nil {
			common.WriteError(h.log(ctx), w, err)
			return
		}

		if !change.Noop() {
			metrics.AdminActions.WithLabelValues("beach_status", string(change.To)).Inc()
			logger := h.log(ctx)
			logger.Info().
				Str("beach_id", change.BeachID).
				Str("from", string(change.From)).
				Str("to", string(change.To)).
				Str("actor", change.ChangedBy.String()).
				Msg("beach status changed")
		}
		common.WriteJSON(h.log(ctx), w, http.StatusOK, buildStatusChange(change, h.location))
	}
}

func parsePaging(rawPage, rawLimit string) adminapp.Paging {
	page, _ := common.ParsePositiveInt(rawPage, 1)
	limit, _ := common.ParsePositiveInt(rawLimit, defaultLimit)
	return adminapp.Paging{Page: page, Limit: min(limit, maxLimit)}
}

func actorFrom(ctx context.Context) string {
	user, ok := common.UserFromContext(ctx)
	if !ok {
		return ""
	}
	return user.ID
}
