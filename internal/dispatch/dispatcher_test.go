package dispatch_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/automail-service/internal/catalog"
	"github.com/example/automail-service/internal/config"
	"github.com/example/automail-service/internal/data"
	"github.com/example/automail-service/internal/dispatch"
	"github.com/example/automail-service/internal/generator"
	"github.com/example/automail-service/internal/mailer"
	"github.com/example/automail-service/internal/models"
)

var fixedDate = time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

// fakeMailer records sends and optionally fails them.
type fakeMailer struct {
	mu      sync.Mutex
	sends   []sentMail
	sendErr error
}

type sentMail struct {
	id      string
	content models.MailContent
}

func (f *fakeMailer) Send(_ context.Context, id string, content *models.MailContent) (*mailer.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sends = append(f.sends, sentMail{id: id, content: *content})
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	return &mailer.Receipt{MessageID: id, Code: 250, Detail: "ok", Timestamp: time.Now()}, nil
}

func (f *fakeMailer) sent() []sentMail {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMail(nil), f.sends...)
}

// newTestDispatcher builds a dispatcher over the default catalog, a stub PE
// source that counts fetches, and the supplied mailer.
func newTestDispatcher(t *testing.T, m mailer.Mailer, fetches *int) *dispatch.Dispatcher {
	t.Helper()

	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("unexpected error building catalog: %v", err)
	}

	sources := data.NewRegistry(zerolog.New(io.Discard))
	err = sources.Register("PE", data.SourceFunc(func(context.Context, time.Time) (models.DataSet, error) {
		if fetches != nil {
			*fetches++
		}
		return models.DataSet{
			"UnitsProduced":      110,
			"QualityScore":       95,
			"EfficiencyRate":     90,
			"Downtime":           1,
			"Target":             100,
			"PerformanceMessage": "Excellent work! Target achieved.",
		}, nil
	}))
	if err != nil {
		t.Fatalf("unexpected error registering source: %v", err)
	}

	sender := config.SenderConfig{Email: "system@company.com", Name: "System Administrator"}
	gen, err := generator.New(cat, sources, sender, zerolog.New(io.Discard))
	if err != nil {
		t.Fatalf("unexpected error building generator: %v", err)
	}

	d, err := dispatch.New(gen, m, zerolog.New(io.Discard),
		dispatch.WithClock(func() time.Time { return fixedDate.Add(9 * time.Hour) }),
		dispatch.WithIDGenerator(func() string { return "test-id-1" }),
	)
	if err != nil {
		t.Fatalf("unexpected error building dispatcher: %v", err)
	}
	return d
}

func TestDispatchSuccess(t *testing.T) {
	fm := &fakeMailer{}
	d := newTestDispatcher(t, fm, nil)

	result := d.Dispatch(context.Background(), models.DispatchRequest{Code: "pe", Date: fixedDate})

	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if result.Message != "Mail sent successfully" {
		t.Fatalf("unexpected message: %q", result.Message)
	}
	if result.RecipientEmail != "john.smith@company.com" {
		t.Fatalf("unexpected recipient: %q", result.RecipientEmail)
	}
	if result.MessageID != "test-id-1" {
		t.Fatalf("unexpected message id: %q", result.MessageID)
	}
	if !result.SentAt.Equal(fixedDate.Add(9 * time.Hour)) {
		t.Fatalf("unexpected sent at: %v", result.SentAt)
	}

	sends := fm.sent()
	if len(sends) != 1 {
		t.Fatalf("expected one delivery, got %d", len(sends))
	}
	if sends[0].content.Subject != "Production Report - 05 March 2024" {
		t.Fatalf("unexpected subject: %q", sends[0].content.Subject)
	}
}

func TestDispatchEmptyCodeShortCircuits(t *testing.T) {
	fm := &fakeMailer{}
	var fetches int
	d := newTestDispatcher(t, fm, &fetches)

	for _, code := range []string{"", "   "} {
		result := d.Dispatch(context.Background(), models.DispatchRequest{Code: code, Date: fixedDate})
		if result.Success {
			t.Fatalf("expected failure for code %q", code)
		}
		if result.Message != "Please provide a valid code" {
			t.Fatalf("unexpected validation message: %q", result.Message)
		}
	}

	if fetches != 0 {
		t.Fatalf("expected no data fetch for empty code, got %d", fetches)
	}
	if len(fm.sent()) != 0 {
		t.Fatalf("expected no delivery for empty code")
	}
}

func TestDispatchGenerationFailureIsReported(t *testing.T) {
	fm := &fakeMailer{}
	d := newTestDispatcher(t, fm, nil)

	result := d.Dispatch(context.Background(), models.DispatchRequest{Code: "ZZ", Date: fixedDate})
	if result.Success {
		t.Fatalf("expected failure for unknown code")
	}
	if !strings.HasPrefix(result.Message, "Failed to generate mail content") {
		t.Fatalf("unexpected message: %q", result.Message)
	}
	if len(fm.sent()) != 0 {
		t.Fatalf("expected no delivery on generation failure")
	}
}

func TestDispatchDeliveryFailureIsAbsorbed(t *testing.T) {
	fm := &fakeMailer{sendErr: errors.New("connection refused")}
	d := newTestDispatcher(t, fm, nil)

	result := d.Dispatch(context.Background(), models.DispatchRequest{Code: "PE", Date: fixedDate})
	if result.Success {
		t.Fatalf("expected failure when delivery fails")
	}
	if result.Message != "Error: connection refused" {
		t.Fatalf("unexpected message: %q", result.Message)
	}
	if !result.SentAt.IsZero() {
		t.Fatalf("sent at must be zero on failure, got %v", result.SentAt)
	}

	// Exactly one attempt, no retry.
	if len(fm.sent()) != 1 {
		t.Fatalf("expected exactly one delivery attempt, got %d", len(fm.sent()))
	}
}

func TestDispatchAppendsAddendum(t *testing.T) {
	fm := &fakeMailer{}
	d := newTestDispatcher(t, fm, nil)

	result := d.Dispatch(context.Background(), models.DispatchRequest{
		Code:              "PE",
		Date:              fixedDate,
		AdditionalMessage: "X",
	})
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}

	body := fm.sent()[0].content.Body
	if !strings.HasSuffix(body, "\n\nAdditional Message:\nX") {
		t.Fatalf("expected addendum suffix, got %q", body)
	}
}

func TestDispatchOmittedAddendumLeavesBodyUnchanged(t *testing.T) {
	fm := &fakeMailer{}
	d := newTestDispatcher(t, fm, nil)

	first := d.Dispatch(context.Background(), models.DispatchRequest{Code: "PE", Date: fixedDate})
	second := d.Dispatch(context.Background(), models.DispatchRequest{Code: "PE", Date: fixedDate, AdditionalMessage: ""})
	if !first.Success || !second.Success {
		t.Fatalf("expected both dispatches to succeed")
	}

	sends := fm.sent()
	if sends[0].content.Body != sends[1].content.Body {
		t.Fatalf("empty addendum must not change the body")
	}
	if strings.Contains(sends[1].content.Body, "Additional Message:") {
		t.Fatalf("unexpected addendum label in body")
	}
}

func TestPreviewMatchesDispatchContent(t *testing.T) {
	fm := &fakeMailer{}
	d := newTestDispatcher(t, fm, nil)

	content, err := d.Preview(context.Background(), "PE", fixedDate)
	if err != nil {
		t.Fatalf("unexpected preview error: %v", err)
	}

	result := d.Dispatch(context.Background(), models.DispatchRequest{Code: "PE", Date: fixedDate})
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}

	sent := fm.sent()[0].content
	if content.Subject != sent.Subject || content.Body != sent.Body {
		t.Fatalf("preview diverged from dispatched content")
	}
}

func TestPreviewErrors(t *testing.T) {
	d := newTestDispatcher(t, &fakeMailer{}, nil)

	if _, err := d.Preview(context.Background(), "  ", fixedDate); !errors.Is(err, dispatch.ErrEmptyCode) {
		t.Fatalf("expected ErrEmptyCode, got %v", err)
	}

	_, err := d.Preview(context.Background(), "ZZ", fixedDate)
	if err == nil {
		t.Fatalf("expected error for unregistered code")
	}
	if !errors.Is(err, catalog.ErrRecipientNotFound) {
		t.Fatalf("expected ErrRecipientNotFound, got %v", err)
	}
}
