// Package mailer contains the delivery backends a rendered mail is handed
// to. The dispatch layer only sees the Mailer interface; backend selection
// happens once at startup through New.
package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/automail-service/internal/config"
	"github.com/example/automail-service/internal/models"
)

// Receipt is the backend's acknowledgement of an accepted or rejected
// delivery attempt.
type Receipt struct {
	MessageID string
	Code      int
	Detail    string
	Timestamp time.Time
}

// Mailer delivers fully rendered mail content. Implementations perform at
// most one delivery attempt per call and honour context cancellation.
type Mailer interface {
	Send(ctx context.Context, id string, content *models.MailContent) (*Receipt, error)
}

// New constructs the configured delivery backend, supporting SMTP and mock.
func New(cfg config.MailConfig, logger zerolog.Logger) (Mailer, error) {
	switch cfg.Backend {
	case "smtp":
		m, err := NewSMTPMailer(cfg.SMTP, logger)
		if err != nil {
			return nil, fmt.Errorf("mailer: smtp init: %w", err)
		}
		logger.Info().Str("backend", "smtp").Str("host", cfg.SMTP.Host).Msg("mail backend initialised")
		return m, nil
	case "mock", "":
		m := NewMockMailer(logger)
		logger.Info().Str("backend", "mock").Msg("mail backend initialised")
		return m, nil
	default:
		return nil, fmt.Errorf("mailer: unsupported backend %q", cfg.Backend)
	}
}
