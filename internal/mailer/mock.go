package mailer

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/automail-service/internal/models"
)

// Scenario enumerates the supported mock behaviours. The default scenario
// is success unless overridden via options.
type Scenario string

const (
	ScenarioSuccess   Scenario = "success"
	ScenarioTransient Scenario = "transient"
	ScenarioPermanent Scenario = "permanent"
	ScenarioTimeout   Scenario = "timeout"
)

// MockOption customizes the behaviour of the mock mailer at construction
// time.
type MockOption func(*MockMailer)

// WithMockLatencyRange overrides the latency range the mock sleeps for when
// simulating a delivery. Negative values are clamped to zero and max is
// coerced to min to keep behaviour deterministic.
func WithMockLatencyRange(min, max time.Duration) MockOption {
	return func(m *MockMailer) {
		if min < 0 {
			min = 0
		}
		if max < min {
			max = min
		}
		m.minLatency = min
		m.maxLatency = max
	}
}

// WithMockScenario configures the delivery outcome the mock reports.
func WithMockScenario(s Scenario) MockOption {
	return func(m *MockMailer) {
		m.scenario = s
	}
}

// WithMockClock overrides the clock used for receipt timestamps.
func WithMockClock(now func() time.Time) MockOption {
	return func(m *MockMailer) {
		if now != nil {
			m.now = now
		}
	}
}

// MockMailer simulates a delivery backend without network access. It is the
// default backend for local development and tests.
type MockMailer struct {
	logger     zerolog.Logger
	minLatency time.Duration
	maxLatency time.Duration
	scenario   Scenario
	now        func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewMockMailer constructs a mock mailer. By default it reports success
// with a latency between 25ms and 75ms.
func NewMockMailer(logger zerolog.Logger, opts ...MockOption) *MockMailer {
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}

	m := &MockMailer{
		logger:     logger,
		minLatency: 25 * time.Millisecond,
		maxLatency: 75 * time.Millisecond,
		scenario:   ScenarioSuccess,
		now:        time.Now,
		rnd:        rand.New(rand.NewSource(time.Now().UnixNano())), // #nosec G404
	}

	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	return m
}

// Send simulates delivering the content, honouring the configured scenario.
func (m *MockMailer) Send(ctx context.Context, id string, content *models.MailContent) (*Receipt, error) {
	if content == nil {
		return nil, errors.New("mock mailer: content is required")
	}
	if content.RecipientEmail == "" {
		return nil, errors.New("mock mailer: recipient email is required")
	}

	if latency := m.sampleLatency(); latency > 0 {
		if err := m.sleep(ctx, latency); err != nil {
			return nil, err
		}
	}

	m.logger.Debug().
		Str("backend", "mock").
		Str("scenario", string(m.scenario)).
		Str("message_id", id).
		Str("recipient", content.RecipientEmail).
		Msg("mock mailer invoked")

	switch m.scenario {
	case ScenarioPermanent:
		return nil, fmt.Errorf("smtp 550: mock: mailbox unavailable")
	case ScenarioTransient:
		return nil, fmt.Errorf("smtp 451: mock: requested action aborted, try again later")
	case ScenarioTimeout:
		if err := m.sleep(ctx, m.maxLatency+m.minLatency); err != nil {
			return nil, err
		}
		return nil, context.DeadlineExceeded
	default:
		return &Receipt{
			MessageID: id,
			Code:      250,
			Detail:    "mock: message queued",
			Timestamp: m.now(),
		}, nil
	}
}

func (m *MockMailer) sampleLatency() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.maxLatency <= m.minLatency {
		return m.minLatency
	}
	delta := m.maxLatency - m.minLatency
	return m.minLatency + time.Duration(m.rnd.Int63n(int64(delta)+1))
}

func (m *MockMailer) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
