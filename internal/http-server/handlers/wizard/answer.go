package wizard

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"servihogar/internal/lib/api/response"
)

type AnswerRequest struct {
	Field string          `json:"field"`
	Value json.RawMessage `json:"value"`
}

// Answer replaces a single-value answer. Multi-select fields use Toggle.
func Answer(_ *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := handler.Get(chi.URLParam(r, "sessionID"))
		if !ok {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("Session not found"))
			return
		}

		var req AnswerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Field == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}

		var value any
		if len(req.Value) > 0 {
			if err := json.Unmarshal(req.Value, &value); err != nil {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("Invalid field value"))
				return
			}
		}

		session.SetField(r.Context(), req.Field, value)
		render.JSON(w, r, response.Data(session.State()))
	}
}

type ToggleRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// Toggle flips one value in a multi-select answer.
func Toggle(_ *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := handler.Get(chi.URLParam(r, "sessionID"))
		if !ok {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("Session not found"))
			return
		}

		var req ToggleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Field == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}

		session.ToggleInSet(r.Context(), req.Field, req.Value)
		render.JSON(w, r, response.Data(session.State()))
	}
}
