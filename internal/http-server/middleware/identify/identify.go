package identify

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"servihogar/entity"
	"servihogar/internal/lib/api/cont"
	"servihogar/internal/lib/sl"
)

// Resolver turns a bearer token into an identity.
type Resolver interface {
	GetCurrentUser(token string) (*entity.Identity, error)
}

// New builds the identification middleware. Unlike a classic auth gate it
// never rejects: the wizard is open to anonymous requesters and only the
// final submission checks for an identity. A bad or missing token simply
// leaves the request anonymous. The middleware also lifts the device
// identifier out of the X-Device-ID header and logs every request.
func New(log *slog.Logger, resolver Resolver) func(next http.Handler) http.Handler {
	mod := sl.Module("middleware.identify")
	log.With(mod).Info("identify middleware initialized")

	return func(next http.Handler) http.Handler {

		fn := func(w http.ResponseWriter, r *http.Request) {
			id := middleware.GetReqID(r.Context())
			remote := r.RemoteAddr
			// if the request is coming from a proxy, use the X-Forwarded-For header
			xRemote := r.Header.Get("X-Forwarded-For")
			if xRemote != "" {
				remote = xRemote
			}
			logger := log.With(
				mod,
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", remote),
				slog.String("request_id", id),
			)
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			t1 := time.Now()
			loggerPtr := &logger
			defer func() {
				(*loggerPtr).With(
					slog.Int("status", ww.Status()),
					slog.Int("size", ww.BytesWritten()),
					slog.Float64("duration", time.Since(t1).Seconds()),
				).Info("incoming request")
			}()

			ctx := r.Context()

			if deviceID := r.Header.Get("X-Device-ID"); deviceID != "" {
				ctx = cont.PutDeviceID(ctx, deviceID)
				*loggerPtr = (*loggerPtr).With(slog.String("device_id", deviceID))
			}

			if header := r.Header.Get("Authorization"); header != "" && resolver != nil {
				*loggerPtr = (*loggerPtr).With(sl.Secret("token", header))
				identity, err := resolver.GetCurrentUser(header)
				if err != nil {
					*loggerPtr = (*loggerPtr).With(sl.Err(err))
				} else {
					ctx = cont.PutIdentity(ctx, identity)
					*loggerPtr = (*loggerPtr).With(slog.String("user", identity.ID))
				}
			}

			ww.Header().Set("X-Request-ID", id)
			next.ServeHTTP(ww, r.WithContext(ctx))
		}

		return http.HandlerFunc(fn)
	}
}
