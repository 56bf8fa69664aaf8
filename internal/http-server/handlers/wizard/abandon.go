package wizard

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"servihogar/internal/lib/api/response"
)

// Abandon discards a session and its persisted draft.
func Abandon(_ *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handler.Abandon(r.Context(), chi.URLParam(r, "sessionID"))
		render.JSON(w, r, response.Ok("Session abandoned"))
	}
}
