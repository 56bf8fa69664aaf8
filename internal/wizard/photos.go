package wizard

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"path"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/afero"

	"servihogar/entity"
	"servihogar/internal/lib/sl"
)

// IncomingFile is one user-selected binary before staging.
type IncomingFile struct {
	Filename string
	MIMEType string
	Size     int64
	Data     io.Reader
}

// PhotoManager drives selected photos through the upload pipeline. Entries
// materialize synchronously at selection with a staging preview URL, then
// each runs an independent store-then-sign pipeline against the blob store.
// Completions are matched back by the entry's ULID, never by list position:
// concurrent batches and interleaved removals shift positions, identities
// don't.
type PhotoManager struct {
	sessionID string
	staging   afero.Fs
	blob      BlobStore
	notify    Notifier
	urlTTL    time.Duration
	log       *slog.Logger

	mu      sync.Mutex
	entries []entity.PhotoEntry
	pending int
	entropy *ulid.MonotonicEntropy
	wg      sync.WaitGroup

	// onChange fires after every entry mutation, outside the manager lock.
	onChange func()
}

func NewPhotoManager(sessionID string, staging afero.Fs, blob BlobStore, notify Notifier, urlTTL time.Duration, log *slog.Logger) *PhotoManager {
	if notify == nil {
		notify = NopNotifier{}
	}
	return &PhotoManager{
		sessionID: sessionID,
		staging:   staging,
		blob:      blob,
		notify:    notify,
		urlTTL:    urlTTL,
		log:       log.With(sl.Module("wizard.photos"), slog.String("session_id", sessionID)),
		entropy:   ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

// SetOnChange registers a callback invoked after every entry mutation.
func (m *PhotoManager) SetOnChange(fn func()) {
	m.onChange = fn
}

// SelectFiles stages every file and appends pending entries in one batch,
// before any network I/O, so the client sees every selected photo
// immediately regardless of upload outcome. Files exceeding the size limit
// are rejected up front. Returns the IDs of the new entries.
func (m *PhotoManager) SelectFiles(files []IncomingFile) ([]string, error) {
	batch := make([]entity.PhotoEntry, 0, len(files))
	for _, f := range files {
		if f.Size > entity.MaxFileSize {
			return nil, entity.FileTooLargeError(f.Filename, f.Size)
		}
		id := ulid.MustNew(ulid.Timestamp(time.Now()), m.entropy).String()
		stagingPath := id + path.Ext(f.Filename)

		dst, err := m.staging.Create(stagingPath)
		if err != nil {
			return nil, fmt.Errorf("staging %s: %w", f.Filename, err)
		}
		size, err := io.Copy(dst, f.Data)
		dst.Close()
		if err != nil {
			_ = m.staging.Remove(stagingPath)
			return nil, fmt.Errorf("staging %s: %w", f.Filename, err)
		}

		batch = append(batch, entity.PhotoEntry{
			ID:          id,
			Filename:    f.Filename,
			MIMEType:    f.MIMEType,
			Size:        size,
			StagingPath: stagingPath,
			DisplayURL:  "/staging/" + stagingPath,
			Uploaded:    false,
		})
	}

	ids := make([]string, len(batch))
	m.mu.Lock()
	m.entries = append(m.entries, batch...)
	m.pending += len(batch)
	for i, e := range batch {
		ids[i] = e.ID
	}
	m.mu.Unlock()

	m.changed()
	return ids, nil
}

// UploadAll launches the upload pipeline for the given batch. Pipelines are
// issued in selection order but resolve independently; one failure neither
// halts the rest of the batch nor removes the failed entry.
func (m *PhotoManager) UploadAll(ctx context.Context, namespace string, ids []string) {
	for _, id := range ids {
		entry, ok := m.takeForUpload(id)
		if !ok {
			m.settle()
			continue
		}
		m.wg.Add(1)
		go m.pipeline(ctx, namespace, entry)
	}
}

// takeForUpload claims the entry's staging handle; the handle is released
// the moment upload starts.
func (m *PhotoManager) takeForUpload(id string) (entity.PhotoEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.entries {
		if m.entries[i].ID == id {
			entry := m.entries[i]
			m.entries[i].StagingPath = ""
			return entry, entry.StagingPath != ""
		}
	}
	return entity.PhotoEntry{}, false
}

func (m *PhotoManager) pipeline(ctx context.Context, namespace string, entry entity.PhotoEntry) {
	defer m.wg.Done()
	defer m.settle()

	blobPath := namespace + "/" + entry.StagingPath

	src, err := m.staging.Open(entry.StagingPath)
	if err != nil {
		m.fail(entry, fmt.Errorf("opening staged file: %w", err))
		return
	}
	meta := entity.FileMetadata{
		MIMEType: entry.MIMEType,
		UserID:   namespace,
		Path:     blobPath,
	}
	err = m.blob.Store(ctx, blobPath, src, meta)
	src.Close()
	if err != nil {
		m.fail(entry, fmt.Errorf("storing photo: %w", err))
		return
	}

	url, err := m.blob.DurableURL(blobPath, m.urlTTL)
	if err != nil {
		m.fail(entry, fmt.Errorf("signing photo url: %w", err))
		return
	}

	m.mu.Lock()
	updated := false
	for i := range m.entries {
		// Entry may have been removed mid-flight; a resolved upload for an
		// absent entry must not touch the list.
		if m.entries[i].ID == entry.ID {
			m.entries[i].DisplayURL = url
			m.entries[i].Uploaded = true
			updated = true
			break
		}
	}
	m.mu.Unlock()

	if updated {
		m.changed()
		m.notify.Notify(m.sessionID, "photo_uploaded", map[string]string{
			"photo_id": entry.ID,
			"url":      url,
		})
	}
}

// fail leaves the entry permanently pending: the user keeps a never-uploaded,
// still-removable thumbnail, and the rest of the batch carries on.
func (m *PhotoManager) fail(entry entity.PhotoEntry, err error) {
	m.log.Warn("photo upload failed", slog.String("photo_id", entry.ID), sl.Err(err))
	m.notify.Notify(m.sessionID, "photo_failed", map[string]string{
		"photo_id": entry.ID,
		"filename": entry.Filename,
		"detail":   err.Error(),
	})
}

func (m *PhotoManager) settle() {
	m.mu.Lock()
	if m.pending > 0 {
		m.pending--
	}
	m.mu.Unlock()
}

// Remove splices one entry out by position, regardless of upload state.
// In-flight uploads are not cancelled: the design tolerates orphaned partial
// uploads server-side, and their completions miss by identity lookup.
func (m *PhotoManager) Remove(index int) bool {
	m.mu.Lock()
	if index < 0 || index >= len(m.entries) {
		m.mu.Unlock()
		return false
	}
	removed := m.entries[index]
	m.entries = append(m.entries[:index], m.entries[index+1:]...)
	m.mu.Unlock()

	if removed.StagingPath != "" {
		_ = m.staging.Remove(removed.StagingPath)
	}
	m.changed()
	return true
}

// Entries returns a snapshot of the photo list in selection order.
func (m *PhotoManager) Entries() []entity.PhotoEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entity.PhotoEntry{}, m.entries...)
}

// Uploaded returns the durable URLs of successfully uploaded entries only.
func (m *PhotoManager) Uploaded() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	urls := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		if e.Uploaded {
			urls = append(urls, e.DisplayURL)
		}
	}
	return urls
}

// IsUploading reports whether any batch still has unresolved pipelines. The
// flag is batch-level, not per-entry; clients use it to disable the file
// input control.
func (m *PhotoManager) IsUploading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending > 0
}

// Wait blocks until every launched pipeline has resolved.
func (m *PhotoManager) Wait() {
	m.wg.Wait()
}

func (m *PhotoManager) changed() {
	if m.onChange != nil {
		m.onChange()
	}
}
