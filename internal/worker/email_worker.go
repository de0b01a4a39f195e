package worker

// email_worker.go
// Processes email jobs from QueueEmail: renders the named template and
// delivers it over SMTP through the circuit breaker.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"carniceria/internal/infra"

	"github.com/rs/zerolog/log"
)

const maxEmailAttempts = 3

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail  string                 `json:"to_email"`
	Subject  string                 `json:"subject"`
	Template string                 `json:"template"`
	Data     map[string]interface{} `json:"data"`
}

// MailSender delivers an already rendered HTML email. *infra.Mailer satisfies it.
type MailSender interface {
	SendHTML(to, subject, html string) error
}

// Renderer turns a template name and its data into HTML.
type Renderer interface {
	Render(name string, data interface{}) (string, error)
}

// EmailWorker processes email jobs from QueueEmail.
type EmailWorker struct {
	mailer     MailSender
	templates  Renderer
	cb         *infra.CircuitBreaker
	retryDelay time.Duration
}

// NewEmailWorker creates an EmailWorker. cb may be nil.
func NewEmailWorker(mailer MailSender, templates Renderer, cb *infra.CircuitBreaker) *EmailWorker {
	return &EmailWorker{mailer: mailer, templates: templates, cb: cb, retryDelay: time.Second}
}

// Process renders and sends one email, retrying delivery with exponential
// backoff. A returned error means the job should go to the DLQ.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return fmt.Errorf("invalid payload: %w", err)
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email — skipping")
		return nil
	}

	body, err := w.templates.Render(payload.Template, payload.Data)
	if err != nil {
		log.Error().Err(err).Str("template", payload.Template).Msg("email_worker: render failed")
		return fmt.Errorf("render %s: %w", payload.Template, err)
	}

	err = withRetry(ctx, maxEmailAttempts, w.retryDelay, func(attempt int) error {
		send := func() error { return w.mailer.SendHTML(payload.ToEmail, payload.Subject, body) }
		var sendErr error
		if w.cb != nil {
			sendErr = w.cb.Execute(send)
		} else {
			sendErr = send()
		}
		if sendErr != nil {
			log.Warn().Err(sendErr).Int("attempt", attempt+1).Str("to", payload.ToEmail).Msg("email_worker: send failed")
		}
		return sendErr
	})
	if err != nil {
		if errors.Is(err, infra.ErrCircuitOpen) {
			log.Error().Str("to", payload.ToEmail).Msg("email_worker: SMTP circuit open, giving up")
		}
		return err
	}

	log.Info().Str("to", payload.ToEmail).Str("template", payload.Template).Msg("email_worker: email sent")
	return nil
}
