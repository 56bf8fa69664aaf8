package entity

import (
	"errors"
	"fmt"
)

// MaxFileSize is the maximum allowed file size for photo uploads (8 MB).
const MaxFileSize = 8 << 20

// ErrFileTooLarge is returned when an uploaded file exceeds MaxFileSize.
var ErrFileTooLarge = errors.New("file too large")

// FileTooLargeError wraps ErrFileTooLarge with details about the offending file.
func FileTooLargeError(filename string, size int64) error {
	return fmt.Errorf("%w: %q is %d bytes, limit is %d MB", ErrFileTooLarge, filename, size, MaxFileSize>>20)
}

// PhotoEntry tracks one selected photo through its upload lifecycle.
// DisplayURL is always renderable: a staging URL from the moment of
// selection, swapped for a signed durable URL once the upload lands.
type PhotoEntry struct {
	ID          string `json:"id" bson:"id"` // ULID, assigned at selection
	Filename    string `json:"filename" bson:"filename"`
	MIMEType    string `json:"mime_type" bson:"mime_type"`
	Size        int64  `json:"size" bson:"size"`
	StagingPath string `json:"-" bson:"-"` // local binary, present until upload starts
	DisplayURL  string `json:"display_url" bson:"display_url"`
	Uploaded    bool   `json:"uploaded" bson:"uploaded"`
}

// FileMetadata holds GridFS metadata for an uploaded photo.
type FileMetadata struct {
	MIMEType string `bson:"mime_type"`
	Vertical string `bson:"vertical"`
	UserID   string `bson:"user_id"`
	Path     string `bson:"path"` // namespaced storage path
}
