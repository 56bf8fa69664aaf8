package files

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/afero"

	"servihogar/entity"
	"servihogar/internal/lib/sl"
)

type Core interface {
	Open(path string) (entity.FileMetadata, io.ReadCloser, error)
	VerifySignature(path, expires, sig string) bool
}

// Download streams a stored photo after verifying the HMAC signature and
// expiry minted into its durable URL.
func Download(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := chi.URLParam(r, "*")
		expires := r.URL.Query().Get("expires")
		sig := r.URL.Query().Get("sig")

		if !handler.VerifySignature(path, expires, sig) {
			http.Error(w, "Invalid or expired link", http.StatusForbidden)
			return
		}

		meta, reader, err := handler.Open(path)
		if err != nil {
			log.Warn("opening file", slog.String("path", path), sl.Err(err))
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		defer reader.Close()

		if meta.MIMEType != "" {
			w.Header().Set("Content-Type", meta.MIMEType)
		}
		w.Header().Set("Cache-Control", "private, max-age=3600")
		if _, err := io.Copy(w, reader); err != nil {
			log.Warn("streaming file", slog.String("path", path), sl.Err(err))
		}
	}
}

// Staging serves just-selected photos from the local staging area so the
// client can render previews before uploads land. Paths are ULID-derived
// file names with no directory components.
func Staging(log *slog.Logger, staging afero.Fs) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")

		f, err := staging.Open(name)
		if err != nil {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		defer f.Close()

		w.Header().Set("Cache-Control", "no-store")
		if _, err := io.Copy(w, f); err != nil {
			log.Warn("streaming staged file", slog.String("name", name), sl.Err(err))
		}
	}
}
