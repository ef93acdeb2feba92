// Package dispatch is the top-level entry point of the pipeline: it
// validates the request, generates the mail content, appends the optional
// addendum and hands the content to the delivery backend. Every failure is
// converted into a DispatchResult; nothing escapes the boundary as a fault.
package dispatch

import (
	"context"
	"errors"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/example/automail-service/internal/generator"
	"github.com/example/automail-service/internal/mailer"
	"github.com/example/automail-service/internal/models"
	"github.com/example/automail-service/internal/util"
)

// ErrEmptyCode is returned by Preview when no code is supplied. Dispatch
// reports the same condition through the result message.
var ErrEmptyCode = errors.New("code is required")

// addendumSeparator delimits the caller-supplied addendum from the rendered
// body. The exact literal is part of the output contract.
const addendumSeparator = "\n\nAdditional Message:\n"

// Option customizes dispatcher behaviour.
type Option func(*Dispatcher)

// WithClock replaces the clock used for the sent-at timestamp.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}

// WithIDGenerator swaps the message ID generator, useful for deterministic
// tests.
func WithIDGenerator(next func() string) Option {
	return func(d *Dispatcher) {
		if next != nil {
			d.newID = next
		}
	}
}

// Dispatcher orchestrates generation and delivery. It is stateless per
// request and safe for concurrent use; concurrent identical requests are
// not deduplicated, each performs its own generation and delivery.
type Dispatcher struct {
	logger zerolog.Logger
	gen    *generator.Generator
	mailer mailer.Mailer
	now    func() time.Time
	newID  func() string
}

// New constructs a Dispatcher.
func New(gen *generator.Generator, m mailer.Mailer, logger zerolog.Logger, opts ...Option) (*Dispatcher, error) {
	if gen == nil {
		return nil, errors.New("dispatch: generator is required")
	}
	if m == nil {
		return nil, errors.New("dispatch: mailer is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}

	d := &Dispatcher{
		logger: logger,
		gen:    gen,
		mailer: m,
		now:    time.Now,
		newID:  uuid.NewString,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}

	return d, nil
}

// Dispatch generates, finalizes and delivers the mail for the request. The
// code is validated before any other work; generation and delivery failures
// are reported through the result rather than returned as errors. Delivery
// happens at most once per call; there is no internal retry or timeout, the
// caller bounds the operation through ctx.
func (d *Dispatcher) Dispatch(ctx context.Context, req models.DispatchRequest) models.DispatchResult {
	code := util.NormalizeCode(req.Code)
	if code == "" {
		return models.DispatchResult{
			Success: false,
			Message: "Please provide a valid code",
		}
	}

	content, err := d.gen.Generate(ctx, code, req.Date)
	if err != nil {
		d.logger.Warn().
			Str("code", code).
			Err(err).
			Msg("mail generation failed")
		return models.DispatchResult{
			Success: false,
			Message: "Failed to generate mail content: " + err.Error(),
		}
	}

	if req.AdditionalMessage != "" {
		content.Body += addendumSeparator + req.AdditionalMessage
	}

	id := d.newID()
	if _, err := d.mailer.Send(ctx, id, content); err != nil {
		d.logger.Warn().
			Str("code", code).
			Str("message_id", id).
			Str("recipient", content.RecipientEmail).
			Err(err).
			Msg("mail delivery failed")
		return models.DispatchResult{
			Success:   false,
			Message:   "Error: " + err.Error(),
			MessageID: id,
		}
	}

	d.logger.Info().
		Str("code", code).
		Str("message_id", id).
		Str("recipient", content.RecipientEmail).
		Msg("mail sent")

	return models.DispatchResult{
		Success:        true,
		Message:        "Mail sent successfully",
		MessageID:      id,
		SentAt:         d.now(),
		RecipientEmail: content.RecipientEmail,
	}
}

// Preview runs the exact generation path of Dispatch without delivering,
// so previewed content always matches what a dispatch for the same
// (code, date) would send. Generation errors surface directly.
func (d *Dispatcher) Preview(ctx context.Context, code string, date time.Time) (*models.MailContent, error) {
	normalized := util.NormalizeCode(code)
	if normalized == "" {
		return nil, ErrEmptyCode
	}
	return d.gen.Generate(ctx, normalized, date)
}
