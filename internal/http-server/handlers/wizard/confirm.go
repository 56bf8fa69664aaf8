package wizard

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"servihogar/internal/lib/api/cont"
	"servihogar/internal/lib/api/response"
	"servihogar/internal/lib/sl"
	"servihogar/internal/wizard"
)

// Confirm submits the job immediately, preempting the auto-confirm
// countdown. A store failure leaves the summary retryable.
func Confirm(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := handler.Get(chi.URLParam(r, "sessionID"))
		if !ok {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("Session not found"))
			return
		}

		jobID, err := session.Confirm(r.Context(), cont.GetIdentity(r.Context()))
		if errors.Is(err, wizard.ErrAuthRequired) {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("auth_required"))
			return
		}
		if err != nil {
			log.Error("confirming submission", sl.Err(err))
			render.Status(r, http.StatusBadGateway)
			render.JSON(w, r, response.Error("Failed to submit job"))
			return
		}

		render.JSON(w, r, response.Data(map[string]string{"job_id": jobID}))
	}
}

type VisitFeeRequest struct {
	Accepted bool `json:"accepted"`
}

// VisitFee records the post-submission visit-fee decision. Accepting and
// skipping both land on the success screen.
func VisitFee(_ *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := handler.Get(chi.URLParam(r, "sessionID"))
		if !ok {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("Session not found"))
			return
		}

		var req VisitFeeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}

		if err := session.VisitFee(req.Accepted); err != nil {
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}

		render.JSON(w, r, response.Data(session.State()))
	}
}
