package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"

	"github.com/spf13/afero"

	"servihogar/entity"
)

// FileBlob is an afero-backed photo store used when Mongo is disabled.
// Binaries land under their namespaced path; metadata sits in a sidecar
// JSON file next to each binary.
type FileBlob struct {
	fs afero.Fs
}

func NewFileBlob(fs afero.Fs) *FileBlob {
	return &FileBlob{fs: fs}
}

func (b *FileBlob) UploadFile(_ context.Context, p string, reader io.Reader, meta entity.FileMetadata) error {
	if err := b.fs.MkdirAll(path.Dir(p), 0o755); err != nil {
		return fmt.Errorf("creating blob dir: %w", err)
	}

	dst, err := b.fs.Create(p)
	if err != nil {
		return fmt.Errorf("creating blob %s: %w", p, err)
	}
	if _, err := io.Copy(dst, reader); err != nil {
		dst.Close()
		return fmt.Errorf("writing blob %s: %w", p, err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("closing blob %s: %w", p, err)
	}

	raw, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshaling blob metadata: %w", err)
	}
	if err := afero.WriteFile(b.fs, p+".meta.json", raw, 0o644); err != nil {
		return fmt.Errorf("writing blob metadata: %w", err)
	}
	return nil
}

func (b *FileBlob) DownloadFileByPath(p string) (entity.FileMetadata, io.ReadCloser, error) {
	var meta entity.FileMetadata
	if raw, err := afero.ReadFile(b.fs, p+".meta.json"); err == nil {
		_ = json.Unmarshal(raw, &meta)
	}

	f, err := b.fs.Open(p)
	if err != nil {
		return entity.FileMetadata{}, nil, fmt.Errorf("opening blob %s: %w", p, err)
	}
	return meta, f, nil
}
