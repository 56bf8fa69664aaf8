package wizard

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"servihogar/internal/lib/api/response"
)

// Geocoder resolves coordinates into a display address.
type Geocoder interface {
	Reverse(ctx context.Context, lat, lon float64) string
}

type LocationRequest struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Location reverse-geocodes device coordinates and writes the resulting
// address into the session's location answer. Geocoder failures degrade to
// the raw coordinate pair, never an error.
func Location(_ *slog.Logger, handler Core, geocoder Geocoder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := handler.Get(chi.URLParam(r, "sessionID"))
		if !ok {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("Session not found"))
			return
		}

		var req LocationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}

		address := geocoder.Reverse(r.Context(), req.Lat, req.Lon)
		session.SetLocation(r.Context(), address)

		render.JSON(w, r, response.Data(map[string]string{"address": address}))
	}
}
