package wizard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"servihogar/entity"
	"servihogar/internal/lib/sl"
)

// PostSubmitPhase is the branch after a successful submission.
type PostSubmitPhase string

const (
	PhaseNone            PostSubmitPhase = "none"
	PhaseAwaitingVisitFee PostSubmitPhase = "awaiting_visit_fee"
	PhaseSuccess         PostSubmitPhase = "success"
)

// Session is one running wizard: the answer set, the current position, the
// photo manager and the submission controller of a single browsing session.
// It is owned exclusively by that session; all methods serialize on one
// mutex.
type Session struct {
	ID        string
	Vertical  string
	DeviceID  string
	walletKey string

	schema     *Schema
	navigator  *Navigator
	drafts     *DraftAdapter
	photos     *PhotoManager
	controller *Controller
	countdown  *Countdown
	slot       Slot
	notifier   Notifier
	log        *slog.Logger

	countdownSeconds int

	mu               sync.Mutex
	answers          AnswerSet
	stepIndex        int
	viewingSummary   bool
	postSubmit       PostSubmitPhase
	jobID            string
	visitFeeAccepted bool
	identity         *entity.Identity
}

// SessionState is the read model handlers return to clients.
type SessionState struct {
	ID               string              `json:"id"`
	Vertical         string              `json:"vertical"`
	StepIndex        int                 `json:"step_index"`
	TotalSteps       int                 `json:"total_steps"`
	CanAdvance       bool                `json:"can_advance"`
	ViewingSummary   bool                `json:"viewing_summary"`
	PostSubmit       PostSubmitPhase     `json:"post_submit"`
	JobID            string              `json:"job_id,omitempty"`
	VisitFeeAccepted bool                `json:"visit_fee_accepted"`
	SubmitState      SubmitState         `json:"submit_state"`
	IsUploading      bool                `json:"is_uploading"`
	Photos           []entity.PhotoEntry `json:"photos"`
	Answers          map[string]any      `json:"answers"`
}

// State snapshots the session for the API.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionState{
		ID:               s.ID,
		Vertical:         s.Vertical,
		StepIndex:        s.stepIndex,
		TotalSteps:       s.schema.TotalSteps(),
		CanAdvance:       s.navigator.CanAdvance(s.stepIndex, s.answers),
		ViewingSummary:   s.viewingSummary,
		PostSubmit:       s.postSubmit,
		JobID:            s.jobID,
		VisitFeeAccepted: s.visitFeeAccepted,
		SubmitState:      s.controller.State(),
		IsUploading:      s.photos.IsUploading(),
		Photos:           s.photos.Entries(),
		Answers:          s.answers.Map(),
	}
}

// SetField replaces one answer and persists the draft. Unknown fields are
// absorbed without error.
func (s *Session) SetField(ctx context.Context, key string, value any) {
	s.mu.Lock()
	s.answers = s.answers.SetField(key, value)
	s.drafts.Save(ctx, s.walletKey, s.answers, s.stepIndex)
	s.mu.Unlock()
}

// SetLocation writes a resolved address into the schema's location field.
func (s *Session) SetLocation(ctx context.Context, address string) {
	if s.schema.LocationField == "" {
		return
	}
	s.SetField(ctx, s.schema.LocationField, address)
}

// ToggleInSet toggles one value of a multi-select answer.
func (s *Session) ToggleInSet(ctx context.Context, key, value string) {
	s.mu.Lock()
	s.answers = s.answers.ToggleInSet(key, value)
	s.drafts.Save(ctx, s.walletKey, s.answers, s.stepIndex)
	s.mu.Unlock()
}

// Next advances one step when the current step's predicate holds; at the
// last step it transitions to the summary, gated on authentication. An
// incomplete step absorbs the call silently.
func (s *Session) Next(ctx context.Context, identity *entity.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.viewingSummary || s.postSubmit != PhaseNone {
		return nil
	}

	next, reachedSummary := s.navigator.Advance(s.stepIndex, s.answers)
	if reachedSummary {
		if identity == nil {
			s.suspendForAuth(ctx)
			return ErrAuthRequired
		}
		s.identity = identity
		s.viewingSummary = true
		s.startCountdown()
		return nil
	}
	if next != s.stepIndex {
		s.stepIndex = next
		s.drafts.Save(ctx, s.walletKey, s.answers, s.stepIndex)
	}
	return nil
}

// Back retreats unconditionally: from the summary to the last step (stopping
// the auto-confirm countdown), from any step to the previous one, and is a
// no-op at step 1.
func (s *Session) Back(ctx context.Context) {
	s.countdown.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.viewingSummary {
		s.viewingSummary = false
		return
	}
	prev := s.navigator.Retreat(s.stepIndex, false)
	if prev != s.stepIndex {
		s.stepIndex = prev
		s.drafts.Save(ctx, s.walletKey, s.answers, s.stepIndex)
	}
}

// Summary returns the synthesized description preview. Only reachable once
// the summary is being viewed.
func (s *Session) Summary() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.viewingSummary && s.postSubmit == PhaseNone {
		return "", fmt.Errorf("summary not reached")
	}
	return Synthesize(s.schema, s.answers), nil
}

// Confirm submits the job. Manual confirmation and countdown expiry share
// this path; both stop the countdown first so it can never fire again.
func (s *Session) Confirm(ctx context.Context, identity *entity.Identity) (string, error) {
	s.countdown.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.postSubmit != PhaseNone {
		return s.jobID, nil
	}
	if !s.viewingSummary {
		return "", fmt.Errorf("summary not reached")
	}
	if identity == nil {
		identity = s.identity
	}
	if identity == nil {
		s.suspendForAuth(ctx)
		return "", ErrAuthRequired
	}

	jobID, err := s.controller.Submit(ctx, s.answers, identity, s.photos.Uploaded(), "")
	if err != nil {
		s.notifier.Notify(s.ID, "submit_failed", map[string]string{"detail": err.Error()})
		return "", err
	}

	s.jobID = jobID
	s.postSubmit = PhaseAwaitingVisitFee
	s.drafts.Clear(ctx, s.walletKey)
	s.notifier.Notify(s.ID, "submitted", map[string]string{"job_id": jobID})
	return jobID, nil
}

// VisitFee records the post-submission branch: visit-fee authorization
// accepted or skipped. Both branches converge on the success phase.
func (s *Session) VisitFee(accepted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.postSubmit != PhaseAwaitingVisitFee {
		return fmt.Errorf("no submission awaiting visit fee")
	}
	s.visitFeeAccepted = accepted
	s.postSubmit = PhaseSuccess
	return nil
}

// AddPhotos stages the files synchronously and launches their uploads.
func (s *Session) AddPhotos(files []IncomingFile, identity *entity.Identity) ([]string, error) {
	ids, err := s.photos.SelectFiles(files)
	if err != nil {
		return nil, err
	}
	// Uploads outlive the request; they resolve against the session,
	// not the request context.
	s.photos.UploadAll(context.Background(), s.blobNamespace(identity), ids)
	return ids, nil
}

// RemovePhoto splices one entry out by position.
func (s *Session) RemovePhoto(index int) bool {
	return s.photos.Remove(index)
}

// Photos exposes the manager for read access.
func (s *Session) Photos() *PhotoManager {
	return s.photos
}

// Abandon discards the session's draft explicitly.
func (s *Session) Abandon(ctx context.Context) {
	s.countdown.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts.Clear(ctx, s.walletKey)
}

func (s *Session) blobNamespace(identity *entity.Identity) string {
	if identity != nil {
		return "users/" + identity.ID
	}
	return "tmp/" + s.DeviceID
}

// suspendForAuth persists the continuation token so authentication never
// discards wizard state. Caller holds s.mu.
func (s *Session) suspendForAuth(ctx context.Context) {
	s.drafts.Save(ctx, s.walletKey, s.answers, s.stepIndex)
	saveContinuation(ctx, s.slot, s.log, Continuation{
		WalletKey: s.walletKey,
		Vertical:  s.Vertical,
		Answers:   s.answers.Map(),
		StepIndex: s.stepIndex,
		Target:    continuationTarget,
	})
}

// startCountdown arms the auto-confirm timer. Caller holds s.mu.
func (s *Session) startCountdown() {
	s.countdown.Start(s.countdownSeconds,
		func(remaining int) {
			s.notifier.Notify(s.ID, "countdown", map[string]int{"remaining": remaining})
		},
		func() {
			if _, err := s.Confirm(context.Background(), nil); err != nil {
				s.log.Warn("auto-confirm", sl.Err(err))
			}
		},
	)
}

// syncPhotos mirrors the photo manager's entries into the answer set so the
// photos field stays a faithful part of the snapshot.
func (s *Session) syncPhotos() {
	key := s.schema.PhotoField()
	if key == "" {
		return
	}
	s.mu.Lock()
	s.answers = s.answers.SetField(key, s.photos.Entries())
	s.mu.Unlock()
}
