package api

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/spf13/afero"

	"servihogar/internal/config"
	"servihogar/internal/http-server/handlers/errors"
	"servihogar/internal/http-server/handlers/files"
	"servihogar/internal/http-server/handlers/identity"
	"servihogar/internal/http-server/handlers/vertical"
	"servihogar/internal/http-server/handlers/wizard"
	"servihogar/internal/http-server/middleware/identify"
	"servihogar/internal/http-server/middleware/timeout"
	"servihogar/internal/lib/sl"
	"servihogar/internal/ws"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	wizard.Core
	vertical.Core
	ws.SessionChecker
}

// New builds the router and serves it. Blocks until the listener fails.
func New(conf *config.Config, log *slog.Logger, handler Handler, fileCore files.Core, resolver identify.Resolver, geocoder wizard.Geocoder, hub *ws.Hub, staging afero.Fs) error {

	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(identify.New(log, resolver))

	router.NotFound(errors.NotFound(log))
	router.MethodNotAllowed(errors.NotAllowed(log))

	router.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(timeout.Timeout(30))
		v1.Use(render.SetContentType(render.ContentTypeJSON))

		v1.Get("/verticals", vertical.List(log, handler))
		v1.Post("/auth/verify", identity.Verify(log, resolver))

		v1.Route("/wizard", func(r chi.Router) {
			r.Post("/start", wizard.Start(log, handler))
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", wizard.State(log, handler))
				r.Delete("/", wizard.Abandon(log, handler))
				r.Post("/answer", wizard.Answer(log, handler))
				r.Post("/toggle", wizard.Toggle(log, handler))
				r.Post("/next", wizard.Next(log, handler))
				r.Post("/location", wizard.Location(log, handler, geocoder))
				r.Post("/back", wizard.Back(log, handler))
				r.Get("/summary", wizard.Summary(log, handler))
				r.Post("/confirm", wizard.Confirm(log, handler))
				r.Post("/visit-fee", wizard.VisitFee(log, handler))
				r.Post("/photos", wizard.UploadPhotos(log, handler))
				r.Delete("/photos/{index}", wizard.RemovePhoto(log, handler))
			})
		})
	})

	router.Get("/files/*", files.Download(log, fileCore))
	router.Get("/staging/{name}", files.Staging(log, staging))

	router.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWs(hub, handler, log, w, r)
	})

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:  router,
		ErrorLog: httpLog,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIP, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	return server.httpServer.Serve(listener)
}
