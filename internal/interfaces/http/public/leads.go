package public

import (
	"net/http"

	"github.com/prbeaches/directory/api/internal/interfaces/http/common"
	publicapp "github.com/prbeaches/directory/api/internal/public/application"
)

func (h *Handler) beachListLeadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := h.withTimeout(r)
		defer cancel()

		var lead publicapp.BeachListLead
		if err := common.DecodeJSON(w, r, &lead); err != nil {
			common.WriteError(h.log(ctx), w, err)
			return
		}
		lead.RequesterID = common.ClientIP(r)

		receipt, err := h.leads.SendBeachList(ctx, lead)
		if err != nil {
			common.WriteError(h.log(ctx), w, err)
			return
		}

		common.WriteJSON(h.log(ctx), w, http.StatusAccepted, leadReceiptResponse{
			ID:         receipt.ID,
			BeachCount: receipt.BeachCount,
			SentAt:     receipt.SentAt.In(h.location),
		})
	}
}
