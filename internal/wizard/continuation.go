package wizard

import (
	"context"
	"encoding/json"
	"log/slog"

	"servihogar/internal/lib/sl"
)

// Continuation is the value object saved once before the wizard suspends for
// authentication and consumed exactly once on resume. It replaces ambient
// shared-storage state with an explicit token.
type Continuation struct {
	WalletKey string         `json:"wallet_key"`
	Vertical  string         `json:"vertical"`
	Answers   map[string]any `json:"answers"`
	StepIndex int            `json:"step_index"`
	Target    string         `json:"target"` // route to resume at, e.g. "summary"
}

const continuationTarget = "summary"

func continuationKey(walletKey string) string {
	return "cont:" + walletKey
}

// saveContinuation writes the token; failures are logged and swallowed, a
// lost token degrades to a normal draft restore.
func saveContinuation(ctx context.Context, slot Slot, log *slog.Logger, c Continuation) {
	raw, err := json.Marshal(c)
	if err != nil {
		log.Warn("marshalling continuation", sl.Err(err))
		return
	}
	if err := slot.Set(ctx, continuationKey(c.WalletKey), string(raw)); err != nil {
		log.Warn("saving continuation", sl.Err(err))
	}
}

// consumeContinuation reads and deletes the token in one go.
func consumeContinuation(ctx context.Context, slot Slot, log *slog.Logger, walletKey string) (*Continuation, bool) {
	key := continuationKey(walletKey)
	raw, found, err := slot.Get(ctx, key)
	if err != nil {
		log.Warn("loading continuation", sl.Err(err))
		return nil, false
	}
	if !found {
		return nil, false
	}
	if err := slot.Delete(ctx, key); err != nil {
		log.Warn("deleting continuation", sl.Err(err))
	}

	var c Continuation
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		log.Warn("decoding continuation", sl.Err(err))
		return nil, false
	}
	return &c, true
}
