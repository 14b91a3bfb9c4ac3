package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"inventra/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job body stored in QueueEmail.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// MailSender delivers one plain-text message. *infra.Mailer implements it.
type MailSender interface {
	Send(to, subject, body string) error
}

// EmailWorker sends queued emails through a circuit breaker so an unreachable
// SMTP relay fails fast.
type EmailWorker struct {
	mailer  MailSender
	breaker *infra.CircuitBreaker
}

func NewEmailWorker(mailer MailSender, breaker *infra.CircuitBreaker) *EmailWorker {
	return &EmailWorker{mailer: mailer, breaker: breaker}
}

// Process returns nil for malformed payloads so they are not retried.
func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return nil
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email, skipping")
		return nil
	}

	err := w.breaker.Execute(func() error {
		return w.mailer.Send(payload.ToEmail, payload.Subject, payload.Body)
	})
	if err != nil {
		return fmt.Errorf("email_worker: send to %s: %w", payload.ToEmail, err)
	}
	log.Info().Str("to", payload.ToEmail).Str("subject", payload.Subject).Msg("email_worker: email sent")
	return nil
}
