package wizard

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"servihogar/entity"
	"servihogar/internal/lib/api/cont"
	"servihogar/internal/lib/api/response"
	"servihogar/internal/lib/sl"
	"servihogar/internal/wizard"
)

// maxUploadMemory bounds the multipart parse buffer; larger parts spill to
// temp files.
const maxUploadMemory = 16 << 20

// UploadPhotos stages the multipart files and launches their uploads. The
// response returns as soon as staging completes; upload results arrive on
// the event feed.
func UploadPhotos(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := handler.Get(chi.URLParam(r, "sessionID"))
		if !ok {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("Session not found"))
			return
		}

		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid multipart body"))
			return
		}

		var files []wizard.IncomingFile
		var closers []func() error
		for _, header := range r.MultipartForm.File["photos"] {
			f, err := header.Open()
			if err != nil {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("Unreadable file part"))
				return
			}
			closers = append(closers, f.Close)
			files = append(files, wizard.IncomingFile{
				Filename: header.Filename,
				MIMEType: header.Header.Get("Content-Type"),
				Size:     header.Size,
				Data:     f,
			})
		}
		defer func() {
			for _, c := range closers {
				_ = c()
			}
		}()

		if len(files) == 0 {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("No photos in request"))
			return
		}

		ids, err := session.AddPhotos(files, cont.GetIdentity(r.Context()))
		if err != nil {
			if errors.Is(err, entity.ErrFileTooLarge) {
				render.Status(r, http.StatusRequestEntityTooLarge)
				render.JSON(w, r, response.Error(err.Error()))
				return
			}
			log.Error("staging photos", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to stage photos"))
			return
		}

		render.JSON(w, r, response.Data(map[string]any{
			"photo_ids": ids,
			"state":     session.State(),
		}))
	}
}

// RemovePhoto splices one photo out by its list position.
func RemovePhoto(_ *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := handler.Get(chi.URLParam(r, "sessionID"))
		if !ok {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("Session not found"))
			return
		}

		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid photo index"))
			return
		}

		if !session.RemovePhoto(index) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("Photo not found"))
			return
		}

		render.JSON(w, r, response.Data(session.State()))
	}
}
