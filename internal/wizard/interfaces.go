package wizard

import (
	"context"
	"errors"
	"io"
	"time"

	"servihogar/entity"
)

// ErrAuthRequired signals that the wizard suspended for authentication. The
// session state survives the interruption and resumes where it left off.
var ErrAuthRequired = errors.New("authentication required")

// Slot is the durable keyed string store behind draft persistence and
// continuation tokens. Per-device, last-write-wins, survives reloads.
type Slot interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// BlobStore holds photo binaries under namespaced paths and hands out
// long-lived retrieval URLs.
type BlobStore interface {
	Store(ctx context.Context, path string, r io.Reader, meta entity.FileMetadata) error
	DurableURL(path string, ttl time.Duration) (string, error)
}

// JobStore creates the submitted job record and returns its identifier.
type JobStore interface {
	Create(ctx context.Context, job *entity.Job) (string, error)
}

// Notifier delivers transient, dismissible notifications to the session's
// client. Delivery is best effort; a lost notification never blocks the
// wizard.
type Notifier interface {
	Notify(sessionID, event string, data any)
}

// NopNotifier drops all notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(string, string, any) {}
