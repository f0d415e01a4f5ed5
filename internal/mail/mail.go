// Package mail delivers transactional email (verification codes and
// workspace invitations) through a configurable transport.
package mail

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"linkdeck/api/internal/config"
)

type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New picks the transport named by cfg.Provider.
func New(cfg config.MailConfig, log zerolog.Logger) (Mailer, error) {
	switch cfg.Provider {
	case config.MailProviderSMTP:
		return NewSMTPMailer(cfg.From, cfg.SMTP), nil
	case config.MailProviderResend:
		return NewResendMailer(cfg.From, cfg.Resend.APIKey), nil
	case config.MailProviderLog:
		return NewLogMailer(log), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.Provider)
	}
}

// LogMailer writes messages to the log instead of delivering them. Local
// development only.
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log.With().Str("component", "mail").Logger()}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Msg(msg.Text)
	return nil
}
