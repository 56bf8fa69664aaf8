package identity

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"servihogar/entity"
	"servihogar/internal/lib/api/response"
	"servihogar/internal/lib/sl"
)

type Core interface {
	GetCurrentUser(token string) (*entity.Identity, error)
}

// Verify exchanges a freshly issued token for the identity snapshot the
// client shows on the review screen after the sign-in interruption.
func Verify(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := &entity.IdentityRequest{}
		if err := render.Bind(r, req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}

		identity, err := handler.GetCurrentUser(req.Token)
		if err != nil {
			log.Warn("verifying token", sl.Err(err))
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("Invalid token"))
			return
		}

		render.JSON(w, r, response.Data(identity))
	}
}
