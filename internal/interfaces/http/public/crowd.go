package public

import (
	"net/http"
	"strings"

	"github.com/prbeaches/directory/api/internal/interfaces/http/common"
)

// maxCrowdIDs bounds one batch estimate request.
const maxCrowdIDs = 100

type crowdBatchResponse struct {
	Items map[string]*crowdResponse `json:"items"`
	Hours int                       `json:"hours"`
}

func (h *Handler) crowdHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		ids := splitIDs(query["ids"])
		if len(ids) == 0 {
			common.WriteMessage(h.log(r.Context()), w, http.StatusBadRequest, common.CodeBadRequest, "ids is required")
			return
		}
		if len(ids) > maxCrowdIDs {
			common.WriteMessage(h.log(r.Context()), w, http.StatusBadRequest, common.CodeBadRequest, "too many ids")
			return
		}

		hours := h.crowdHorizon(query.Get("hours"))
		estimates := h.estimator.EstimateBatch(ids, h.now(), hours)

		items := make(map[string]*crowdResponse, len(estimates))
		for id, est := range estimates {
			items[id] = buildCrowd(&est, h.location)
		}
		common.WriteJSON(h.log(r.Context()), w, http.StatusOK, crowdBatchResponse{Items: items, Hours: hours})
	}
}

// splitIDs accepts both repeated and comma separated values, dropping blanks and duplicates.
func splitIDs(raw []string) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, value := range raw {
		for _, part := range strings.Split(value, ",") {
			id := strings.TrimSpace(part)
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}
