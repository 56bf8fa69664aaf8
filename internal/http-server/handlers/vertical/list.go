package vertical

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"servihogar/internal/lib/api/response"
)

type Core interface {
	Verticals() []string
}

// List returns the service verticals available for the wizard.
func List(_ *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, response.Data(map[string]any{
			"verticals": handler.Verticals(),
		}))
	}
}
