package repository

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/afero"
)

// FileSlot is an afero-backed keyed string store used when Mongo is
// disabled (local development and tests). Keys are hex-encoded into file
// names so arbitrary key characters stay filesystem-safe.
type FileSlot struct {
	fs afero.Fs
}

func NewFileSlot(fs afero.Fs) *FileSlot {
	return &FileSlot{fs: fs}
}

func (s *FileSlot) path(key string) string {
	return hex.EncodeToString([]byte(key)) + ".json"
}

func (s *FileSlot) Set(_ context.Context, key, value string) error {
	if err := afero.WriteFile(s.fs, s.path(key), []byte(value), 0o644); err != nil {
		return fmt.Errorf("writing slot %s: %w", key, err)
	}
	return nil
}

func (s *FileSlot) Get(_ context.Context, key string) (string, bool, error) {
	raw, err := afero.ReadFile(s.fs, s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading slot %s: %w", key, err)
	}
	return string(raw), true, nil
}

func (s *FileSlot) Delete(_ context.Context, key string) error {
	err := s.fs.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing slot %s: %w", key, err)
	}
	return nil
}
