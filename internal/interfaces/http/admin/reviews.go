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

// reviewListHandler serves the moderation queue, oldest first.
func (h *Handler) reviewListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		query := r.URL.Query()
		status, err := admindomain.NewReviewStatusFilter(query.Get("status"))
		if err != nil {
			common.WriteError(h.log(ctx), w, err)
			return
		}
		paging := parsePaging(query.Get("page"), query.Get("limit"))

		reviews, err := h.reviewService.List(ctx, adminapp.ReviewFilter{
			Status:  status,
			BeachID: strings.TrimSpace(query.Get("beach_id")),
		}, paging)
		if err != nil {
			common.WriteError(h.log(ctx), w, err)
			return
		}

		items := make([]adminReviewResponse, 0, len(reviews))
		for _, rv := range reviews {
			items = append(items, buildReview(rv, h.location))
		}
		common.WriteJSON(h.log(ctx), w, http.StatusOK, listResponse[adminReviewResponse]{Items: items, Page: paging.Page, Limit: paging.Limit})
	}
}

// reviewModerateHandler approves or rejects a review and returns the beach's recomputed
// community rating.
func (h *Handler) reviewModerateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		var req statusRequest
		if err := common.DecodeJSON(w, r, &req); err != nil {
			common.WriteError(h.log(ctx), w, err)
			return
		}

		result, err := h.reviewService.Moderate(ctx, strings.TrimSpace(chi.URLParam(r, "id")), adminapp.ModerateReviewCommand{
			Status: strings.ToLower(strings.TrimSpace(req.Status)),
			Actor:  actorFrom(ctx),
		})
		if err != nil {
			common.WriteError(h.log(ctx), w, err)
			return
		}

		metrics.AdminActions.WithLabelValues("review_moderation", string(result.Review.Status)).Inc()
		logger := h.log(ctx)
		logger.Info().
			Str("review_id", result.Review.ID).
			Str("beach_id", result.Review.BeachID).
			Str("status", string(result.Review.Status)).
			Int("community_count", result.Community.Count).
			Str("actor", result.DecidedBy.String()).
			Msg("review moderated")

		common.WriteJSON(h.log(ctx), w, http.StatusOK, moderationResponse{
			Review:    buildReview(result.Review, h.location),
			Community: buildFacet(result.Community),
			DecidedBy: result.DecidedBy.String(),
		})
	}
}
