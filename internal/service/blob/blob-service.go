package blob

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"servihogar/entity"
	"servihogar/internal/lib/fileurl"
	"servihogar/internal/lib/sl"
)

// Repository is the durable binary store behind photo uploads.
type Repository interface {
	UploadFile(ctx context.Context, path string, reader io.Reader, meta entity.FileMetadata) error
	DownloadFileByPath(path string) (entity.FileMetadata, io.ReadCloser, error)
}

// Service stores photo binaries and mints signed time-limited download URLs
// for them.
type Service struct {
	repository Repository
	signSecret string
	log        *slog.Logger
}

func NewBlobService(repository Repository, signSecret string, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		signSecret: signSecret,
		log:        logger.With(sl.Module("blob-service")),
	}
}

func (s *Service) Store(ctx context.Context, path string, reader io.Reader, meta entity.FileMetadata) error {
	if err := s.repository.UploadFile(ctx, path, reader, meta); err != nil {
		return fmt.Errorf("storing %s: %w", path, err)
	}
	s.log.Debug("file stored", slog.String("path", path), slog.String("mime", meta.MIMEType))
	return nil
}

func (s *Service) DurableURL(path string, ttl time.Duration) (string, error) {
	return fileurl.SignURL(path, s.signSecret, ttl), nil
}

// Open fetches a stored photo for the signed download handler.
func (s *Service) Open(path string) (entity.FileMetadata, io.ReadCloser, error) {
	return s.repository.DownloadFileByPath(path)
}

// VerifySignature checks a signed download path against its query parameters.
func (s *Service) VerifySignature(path, expires, sig string) bool {
	return fileurl.Verify(path, expires, sig, s.signSecret)
}
