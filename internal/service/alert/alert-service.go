package alert

import (
	"fmt"
	"log/slog"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"

	"servihogar/internal/lib/sl"
)

// Service forwards operational alerts (error-level log records, failed
// submissions) to the on-call admin chat in Telegram.
type Service struct {
	log     *slog.Logger
	api     *tgbotapi.Bot
	adminId int64
}

func NewAlertService(apiKey string, adminId int64, log *slog.Logger) (*Service, error) {
	api, err := tgbotapi.NewBot(apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating api instance: %v", err)
	}

	return &Service{
		log:     log.With(sl.Module("alert")),
		api:     api,
		adminId: adminId,
	}, nil
}

// SendMessage delivers a plain-text alert to the admin chat. Failures are
// logged locally and swallowed so alerting can never take the service down.
func (s *Service) SendMessage(msg string) {
	if msg == "" {
		return
	}

	_, err := s.api.SendMessage(s.adminId, msg, &tgbotapi.SendMessageOpts{})
	if err != nil {
		s.log.Warn("sending alert", sl.Err(err))
	}
}
