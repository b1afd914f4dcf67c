package public

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/prbeaches/directory/api/internal/interfaces/http/common"
	publicapp "github.com/prbeaches/directory/api/internal/public/application"
)

type reviewCreateRequest struct {
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
	AuthorName string `json:"author_name"`
}

// reviewCreateHandler stores a pending community review for the authenticated visitor.
func (h *Handler) reviewCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := h.withTimeout(r)
		defer cancel()

		user, ok := common.UserFromContext(ctx)
		if !ok {
			common.WriteMessage(h.log(ctx), w, http.StatusUnauthorized, common.CodeUnauthorized, "authentication required")
			return
		}

		var req reviewCreateRequest
		if err := common.DecodeJSON(w, r, &req); err != nil {
			common.WriteError(h.log(ctx), w, err)
			return
		}

		authorName := strings.TrimSpace(req.AuthorName)
		if authorName == "" {
			authorName = user.DisplayName()
		}
		review, err := h.reviews.Submit(ctx, publicapp.SubmitReviewCommand{
			BeachID:    chi.URLParam(r, "idOrSlug"),
			AuthorID:   user.ID,
			AuthorName: authorName,
			Rating:     req.Rating,
			Comment:    req.Comment,
		})
		if err != nil {
			common.WriteError(h.log(ctx), w, err)
			return
		}

		common.WriteJSON(h.log(ctx), w, http.StatusCreated, buildReview(*review, h.location))
	}
}
