package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"servihogar/internal/lib/sl"
)

// Draft is the persisted snapshot of an in-progress wizard. Photo fields are
// stripped before saving: binaries and ephemeral preview handles are not
// durable across reloads.
type Draft struct {
	WalletKey string         `json:"wallet_key"`
	Vertical  string         `json:"vertical"`
	Answers   map[string]any `json:"answers"`
	StepIndex int            `json:"step_index"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// DraftAdapter serializes wizard state into a Slot. Every failure is
// non-fatal: a failed save never blocks the mutation that triggered it and a
// failed load falls back to a fresh session.
type DraftAdapter struct {
	slot   Slot
	schema *Schema
	log    *slog.Logger
}

func NewDraftAdapter(slot Slot, schema *Schema, log *slog.Logger) *DraftAdapter {
	return &DraftAdapter{
		slot:   slot,
		schema: schema,
		log:    log.With(sl.Module("wizard.draft")),
	}
}

// Save persists the current answers and step index, but only once the anchor
// field (the first required selection of step 1) is set; genuinely empty
// sessions are not worth a slot write.
func (d *DraftAdapter) Save(ctx context.Context, walletKey string, answers AnswerSet, stepIndex int) {
	if !answers.Answered(d.schema.LeadField) {
		return
	}
	draft := Draft{
		WalletKey: walletKey,
		Vertical:  d.schema.Vertical,
		Answers:   answers.Map(),
		StepIndex: stepIndex,
		UpdatedAt: time.Now(),
	}
	raw, err := json.Marshal(draft)
	if err != nil {
		d.log.Warn("marshalling draft", sl.Err(err))
		return
	}
	if err := d.slot.Set(ctx, walletKey, string(raw)); err != nil {
		d.log.Warn("saving draft", slog.String("wallet_key", walletKey), sl.Err(err))
	}
}

// Load reads the draft once at mount. Saved answers are merged over the
// schema's defaults so that fields added since the draft was written degrade
// gracefully; photo fields always reset to empty. Returns ok=false when no
// usable draft exists.
func (d *DraftAdapter) Load(ctx context.Context, walletKey string) (AnswerSet, int, bool) {
	fresh := NewAnswerSet(d.schema)

	raw, found, err := d.slot.Get(ctx, walletKey)
	if err != nil {
		d.log.Warn("loading draft", slog.String("wallet_key", walletKey), sl.Err(err))
		return fresh, 1, false
	}
	if !found {
		return fresh, 1, false
	}

	var draft Draft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		d.log.Warn("decoding draft", slog.String("wallet_key", walletKey), sl.Err(err))
		return fresh, 1, false
	}

	answers := fresh
	for key, value := range draft.Answers {
		field, ok := d.schema.FieldByKey(key)
		if !ok || field.Kind == FieldPhotos {
			continue
		}
		answers = answers.SetField(key, value)
	}
	if !answers.Answered(d.schema.LeadField) {
		return fresh, 1, false
	}

	step := draft.StepIndex
	if step < 1 || step > d.schema.TotalSteps() {
		step = 1
	}
	return answers, step, true
}

// Clear removes the draft; called exactly once after a successful submission.
func (d *DraftAdapter) Clear(ctx context.Context, walletKey string) {
	if err := d.slot.Delete(ctx, walletKey); err != nil {
		d.log.Warn("clearing draft", slog.String("wallet_key", walletKey), sl.Err(err))
	}
}

// WalletKey derives the per-device, per-vertical slot key.
func WalletKey(deviceID, vertical string) string {
	return fmt.Sprintf("draft:%s:%s", deviceID, vertical)
}
