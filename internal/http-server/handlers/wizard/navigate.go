package wizard

import (
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

// Next advances the session one step. Reaching the summary without a
// signed-in identity suspends the wizard and returns 401 with the
// auth_required marker; the client re-mounts after sign-in and resumes at
// the summary.
func Next(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := handler.Get(chi.URLParam(r, "sessionID"))
		if !ok {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("Session not found"))
			return
		}

		err := session.Next(r.Context(), cont.GetIdentity(r.Context()))
		if errors.Is(err, wizard.ErrAuthRequired) {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("auth_required"))
			return
		}
		if err != nil {
			log.Error("advancing wizard", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to advance"))
			return
		}

		render.JSON(w, r, response.Data(session.State()))
	}
}

// Back retreats one step, or collapses the summary back into the last step.
func Back(_ *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := handler.Get(chi.URLParam(r, "sessionID"))
		if !ok {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("Session not found"))
			return
		}

		session.Back(r.Context())
		render.JSON(w, r, response.Data(session.State()))
	}
}
