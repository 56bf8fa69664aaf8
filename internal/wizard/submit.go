package wizard

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"servihogar/entity"
	"servihogar/internal/lib/sl"
)

// SubmitState is the submission controller's phase.
type SubmitState string

const (
	StateIdle           SubmitState = "idle"
	StateValidating     SubmitState = "validating"
	StateAuthenticating SubmitState = "authenticating"
	StateSubmitting     SubmitState = "submitting"
	StateSuccess        SubmitState = "success"
	StateFailed         SubmitState = "failed"
)

// Controller orchestrates final validation, the authentication gate, record
// construction and the job store create call. Submissions are deliberately
// non-idempotent: no de-duplication key is attached, a retry after a
// transient failure may create a duplicate record.
type Controller struct {
	schema          *Schema
	navigator       *Navigator
	store           JobStore
	emergencyOffset time.Duration
	defaultOffset   time.Duration
	now             func() time.Time
	log             *slog.Logger

	state SubmitState
}

func NewController(schema *Schema, store JobStore, emergencyOffset, defaultOffset time.Duration, log *slog.Logger) *Controller {
	return &Controller{
		schema:          schema,
		navigator:       NewNavigator(schema),
		store:           store,
		emergencyOffset: emergencyOffset,
		defaultOffset:   defaultOffset,
		now:             time.Now,
		log:             log.With(sl.Module("wizard.submit"), slog.String("vertical", schema.Vertical)),
		state:           StateIdle,
	}
}

// State returns the controller's current phase.
func (c *Controller) State() SubmitState {
	return c.state
}

// Submit runs the full validate-authenticate-create sequence. A nil identity
// halts at the authentication gate with ErrAuthRequired; wizard state is
// untouched and the caller resumes the submission after sign-in. Store
// failures return the controller to idle so the summary stays retryable.
func (c *Controller) Submit(ctx context.Context, answers AnswerSet, identity *entity.Identity, photos []string, location string) (string, error) {
	c.state = StateValidating
	if !c.navigator.Complete(answers) {
		c.state = StateIdle
		return "", fmt.Errorf("answers incomplete")
	}

	if identity == nil {
		c.state = StateAuthenticating
		return "", ErrAuthRequired
	}

	c.state = StateSubmitting
	job := c.BuildJob(answers, identity, photos, location)

	id, err := c.store.Create(ctx, job)
	if err != nil {
		c.state = StateFailed
		c.log.Error("job store create", sl.Err(err))
		c.state = StateIdle
		return "", fmt.Errorf("creating job: %w", err)
	}

	c.state = StateSuccess
	c.log.Info("job created", slog.String("job_id", id), slog.Bool("urgent", job.Urgent))
	return id, nil
}

// BuildJob constructs the record the job store expects. Enum answers are
// stored verbatim; the narrative description is the synthesized text and has
// no other rendering path.
func (c *Controller) BuildJob(answers AnswerSet, identity *entity.Identity, photos []string, location string) *entity.Job {
	description := Synthesize(c.schema, answers)
	urgent := c.Urgent(answers)
	if location == "" && c.schema.LocationField != "" {
		location = answers.String(c.schema.LocationField)
	}

	return &entity.Job{
		RequesterID:    identity.ID,
		AssigneeID:     nil,
		Title:          entity.TruncateTitle(c.title(answers, description)),
		Description:    description,
		Category:       c.schema.Category,
		Subtype:        answers.String(c.schema.LeadField),
		Problem:        description,
		Location:       location,
		PhotoURLs:      photos,
		BaseRate:       entity.NominalBaseRate,
		Status:         entity.JobStatusActive,
		ScheduledAt:    c.ScheduledAt(answers, urgent),
		TimePreference: c.timePreference(answers),
		Urgent:         urgent,
		PhotoCount:     len(photos),
	}
}

// title derives from the lead field's answer label, falling back to the
// synthesized text when the lead answer somehow resolves empty.
func (c *Controller) title(answers AnswerSet, description string) string {
	lead, _ := c.schema.FieldByKey(c.schema.LeadField)
	value := answers.String(c.schema.LeadField)
	if value == "" {
		return description
	}
	label := lead.OptionLabel(value)
	if lead.OtherValue != "" && value == lead.OtherValue {
		if text := strings.TrimSpace(answers.String(lead.OtherField)); text != "" {
			label = text
		}
	}
	return c.schema.Category + ": " + label
}

// Urgent evaluates the schema's urgency rules over the answer set.
func (c *Controller) Urgent(answers AnswerSet) bool {
	env := answers.Map()
	for i := range c.schema.Urgency {
		if evalCondition(c.schema.Urgency[i].prog, env) {
			return true
		}
	}
	return false
}

// ScheduledAt computes the scheduled timestamp: an explicit user-chosen date
// wins, then the emergency offset for urgent requests, then "now" for
// immediate selections, then the general default offset.
func (c *Controller) ScheduledAt(answers AnswerSet, urgent bool) time.Time {
	if c.schema.Schedule.DateField != "" {
		if raw := answers.String(c.schema.Schedule.DateField); raw != "" {
			if t, err := time.Parse(time.RFC3339, raw); err == nil {
				return t
			}
			if t, err := time.Parse("2006-01-02", raw); err == nil {
				return t
			}
		}
	}
	if urgent {
		return c.now().Add(c.emergencyOffset)
	}
	if c.schema.Schedule.Field != "" {
		value := answers.String(c.schema.Schedule.Field)
		for _, imm := range c.schema.Schedule.Immediate {
			if value == imm {
				return c.now()
			}
		}
	}
	return c.now().Add(c.defaultOffset)
}

// timePreference is the free-text rendering of the schedule answer.
func (c *Controller) timePreference(answers AnswerSet) string {
	if c.schema.Schedule.Field == "" {
		return ""
	}
	field, ok := c.schema.FieldByKey(c.schema.Schedule.Field)
	if !ok {
		return ""
	}
	value := answers.String(field.Key)
	if value == "" {
		return ""
	}
	return field.OptionLabel(value)
}
