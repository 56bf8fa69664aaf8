package logger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// MessageSender delivers a plain text message to the ops chat.
type MessageSender interface {
	SendMessage(msg string)
}

// telegramHandler tees records at or above a threshold level to Telegram
// while delegating everything to the wrapped handler.
type telegramHandler struct {
	next   slog.Handler
	sender MessageSender
	level  slog.Level
}

// SetupTelegramHandler wraps the logger so that records at or above level
// are also forwarded to the admin chat.
func SetupTelegramHandler(log *slog.Logger, sender MessageSender, level slog.Level) *slog.Logger {
	return slog.New(&telegramHandler{
		next:   log.Handler(),
		sender: sender,
		level:  level,
	})
}

func (h *telegramHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *telegramHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= h.level && h.sender != nil {
		var b strings.Builder
		b.WriteString(fmt.Sprintf("[%s] %s", r.Level, r.Message))
		r.Attrs(func(a slog.Attr) bool {
			b.WriteString(fmt.Sprintf("\n%s: %s", a.Key, a.Value))
			return true
		})
		h.sender.SendMessage(b.String())
	}
	return h.next.Handle(ctx, r)
}

func (h *telegramHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &telegramHandler{next: h.next.WithAttrs(attrs), sender: h.sender, level: h.level}
}

func (h *telegramHandler) WithGroup(name string) slog.Handler {
	return &telegramHandler{next: h.next.WithGroup(name), sender: h.sender, level: h.level}
}
