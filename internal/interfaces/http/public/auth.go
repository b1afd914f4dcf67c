package public

import (
	"net/http"

	"github.com/prbeaches/directory/api/internal/interfaces/http/common"
)

func (h *Handler) authVerifyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteMessage(h.log(r.Context()), w, http.StatusUnauthorized, common.CodeUnauthorized, "authentication required")
			return
		}

		common.WriteJSON(h.log(r.Context()), w, http.StatusOK, map[string]any{
			"status": "ok",
			"user":   user,
		})
	}
}
