package wizard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"servihogar/entity"
	"servihogar/internal/lib/sl"
)

// Options are the engine's tunable knobs.
type Options struct {
	CountdownSeconds int
	EmergencyOffset  time.Duration
	DefaultOffset    time.Duration
	URLTTL           time.Duration
}

// Engine is the composition root of the wizard core: it wires schemas,
// draft persistence, photo uploads and submission into per-session wizards.
type Engine struct {
	registry *Registry
	slot     Slot
	blob     BlobStore
	store    JobStore
	staging  afero.Fs
	notifier Notifier
	opts     Options
	log      *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewEngine(registry *Registry, slot Slot, blob BlobStore, store JobStore, staging afero.Fs, notifier Notifier, opts Options, log *slog.Logger) *Engine {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if opts.CountdownSeconds <= 0 {
		opts.CountdownSeconds = 15
	}
	if opts.EmergencyOffset <= 0 {
		opts.EmergencyOffset = 2 * time.Hour
	}
	if opts.DefaultOffset <= 0 {
		opts.DefaultOffset = 24 * time.Hour
	}
	if opts.URLTTL <= 0 {
		opts.URLTTL = 30 * 24 * time.Hour
	}
	return &Engine{
		registry: registry,
		slot:     slot,
		blob:     blob,
		store:    store,
		staging:  staging,
		notifier: notifier,
		opts:     opts,
		log:      log.With(sl.Module("wizard.engine")),
		sessions: make(map[string]*Session),
	}
}

// Registry exposes the loaded vertical schemas.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Verticals lists the loaded vertical names.
func (e *Engine) Verticals() []string {
	return e.registry.Verticals()
}

// Start mounts a wizard for one vertical and device. A pending continuation
// token is consumed first (resuming at the summary after an authentication
// interruption); otherwise a usable draft restores answers and position, and
// failing both the session starts fresh at step 1. Photos always start
// empty.
func (e *Engine) Start(ctx context.Context, vertical, deviceID string, identity *entity.Identity) (*Session, error) {
	schema, ok := e.registry.Get(vertical)
	if !ok {
		return nil, fmt.Errorf("unknown vertical %q", vertical)
	}
	if deviceID == "" {
		return nil, fmt.Errorf("device id required")
	}

	walletKey := WalletKey(deviceID, vertical)
	log := e.log.With(slog.String("vertical", vertical))

	s := &Session{
		ID:               uuid.NewString(),
		Vertical:         vertical,
		DeviceID:         deviceID,
		walletKey:        walletKey,
		schema:           schema,
		navigator:        NewNavigator(schema),
		drafts:           NewDraftAdapter(e.slot, schema, log),
		controller:       NewController(schema, e.store, e.opts.EmergencyOffset, e.opts.DefaultOffset, log),
		countdown:        NewCountdown(),
		slot:             e.slot,
		notifier:         e.notifier,
		countdownSeconds: e.opts.CountdownSeconds,
		postSubmit:       PhaseNone,
		identity:         identity,
	}
	s.log = log.With(slog.String("session_id", s.ID))
	s.photos = NewPhotoManager(s.ID, e.staging, e.blob, e.notifier, e.opts.URLTTL, log)
	s.photos.SetOnChange(s.syncPhotos)

	s.answers = NewAnswerSet(schema)
	s.stepIndex = 1

	if cont, ok := consumeContinuation(ctx, e.slot, s.log, walletKey); ok {
		restored := NewAnswerSet(schema)
		for key, value := range cont.Answers {
			restored = restored.SetField(key, value)
		}
		s.answers = restored
		if cont.StepIndex >= 1 && cont.StepIndex <= schema.TotalSteps() {
			s.stepIndex = cont.StepIndex
		}
		if identity != nil && cont.Target == continuationTarget && s.navigator.Complete(s.answers) {
			s.viewingSummary = true
			s.startCountdown()
		}
	} else if answers, step, ok := s.drafts.Load(ctx, walletKey); ok {
		s.answers = answers
		s.stepIndex = step
	}

	e.mu.Lock()
	e.sessions[s.ID] = s
	e.mu.Unlock()

	s.log.Info("wizard mounted",
		slog.String("device_id", deviceID),
		slog.Int("step", s.stepIndex),
		slog.Bool("resumed_at_summary", s.viewingSummary),
	)
	return s, nil
}

// Get returns a running session.
func (e *Engine) Get(id string) (*Session, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s, ok := e.sessions[id]
	return s, ok
}

// Has reports whether a session is live. Used by the event feed to vet
// subscriptions.
func (e *Engine) Has(id string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.sessions[id]
	return ok
}

// Abandon discards a session and its draft.
func (e *Engine) Abandon(ctx context.Context, id string) {
	e.mu.Lock()
	s, ok := e.sessions[id]
	delete(e.sessions, id)
	e.mu.Unlock()
	if ok {
		s.Abandon(ctx)
	}
}
