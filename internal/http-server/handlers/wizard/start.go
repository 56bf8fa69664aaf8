package wizard

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"servihogar/internal/lib/api/cont"
	"servihogar/internal/lib/api/response"
	"servihogar/internal/lib/sl"
)

type StartRequest struct {
	Vertical string `json:"vertical"`
}

// Start mounts a wizard session for one vertical, resuming a pending
// continuation or draft when one exists for the caller's device.
func Start(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StartRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}

		deviceID := cont.GetDeviceID(r.Context())
		if deviceID == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("X-Device-ID header required"))
			return
		}

		session, err := handler.Start(r.Context(), req.Vertical, deviceID, cont.GetIdentity(r.Context()))
		if err != nil {
			log.Error("starting wizard", slog.String("vertical", req.Vertical), sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}

		render.JSON(w, r, response.Data(session.State()))
	}
}
