package data

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/example/automail-service/internal/models"
)

// Option customizes the stock sources at construction time.
type Option func(*sampler)

// WithRandomSeed swaps the RNG seed so tests can pin the generated values.
func WithRandomSeed(seed int64) Option {
	return func(s *sampler) {
		s.rnd = rand.New(rand.NewSource(seed)) // #nosec G404
	}
}

// sampler draws the synthetic metric values the stock sources report. The
// mutex guards the RNG because sources are shared across requests.
type sampler struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func newSampler(opts ...Option) *sampler {
	s := &sampler{
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())), // #nosec G404
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// between returns a value in [min, max).
func (s *sampler) between(min, max int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if max <= min {
		return min
	}
	return min + s.rnd.Intn(max-min)
}

// ProductionEmployeeSource reports per-employee production metrics (code PE).
// Key set: UnitsProduced, QualityScore, EfficiencyRate, Downtime, Target,
// PerformanceMessage.
type ProductionEmployeeSource struct {
	s *sampler
}

// NewProductionEmployeeSource constructs the PE source.
func NewProductionEmployeeSource(opts ...Option) *ProductionEmployeeSource {
	return &ProductionEmployeeSource{s: newSampler(opts...)}
}

// Fetch implements Source.
func (p *ProductionEmployeeSource) Fetch(_ context.Context, _ time.Time) (models.DataSet, error) {
	const target = 100
	produced := p.s.between(80, 120)

	message := "Please focus on meeting production targets."
	if produced >= target {
		message = "Excellent work! Target achieved."
	}

	return models.DataSet{
		"UnitsProduced":      produced,
		"QualityScore":       p.s.between(85, 98),
		"EfficiencyRate":     p.s.between(80, 95),
		"Downtime":           p.s.between(0, 3),
		"Target":             target,
		"PerformanceMessage": message,
	}, nil
}

// ProductionManagerSource reports team-level production metrics (code PM).
// Key set: TotalUnits, TeamPerformance, IssuesCount, ResolvedIssues,
// DepartmentStatus, ActionItems.
type ProductionManagerSource struct {
	s *sampler
}

// NewProductionManagerSource constructs the PM source.
func NewProductionManagerSource(opts ...Option) *ProductionManagerSource {
	return &ProductionManagerSource{s: newSampler(opts...)}
}

// Fetch implements Source.
func (p *ProductionManagerSource) Fetch(_ context.Context, _ time.Time) (models.DataSet, error) {
	return models.DataSet{
		"TotalUnits":       p.s.between(800, 1200),
		"TeamPerformance":  p.s.between(85, 95),
		"IssuesCount":      p.s.between(2, 8),
		"ResolvedIssues":   p.s.between(1, 6),
		"DepartmentStatus": "Operational",
		"ActionItems":      "Review quality metrics, Schedule maintenance for Line 2",
	}, nil
}

// HRSource reports attendance and request counts (code HR). Key set:
// PresentCount, AbsentCount, LateCount, LeaveRequests, TrainingRequests,
// PendingActions.
type HRSource struct {
	s *sampler
}

// NewHRSource constructs the HR source.
func NewHRSource(opts ...Option) *HRSource {
	return &HRSource{s: newSampler(opts...)}
}

// Fetch implements Source.
func (h *HRSource) Fetch(_ context.Context, _ time.Time) (models.DataSet, error) {
	return models.DataSet{
		"PresentCount":     h.s.between(45, 50),
		"AbsentCount":      h.s.between(0, 5),
		"LateCount":        h.s.between(0, 3),
		"LeaveRequests":    h.s.between(1, 5),
		"TrainingRequests": h.s.between(0, 3),
		"PendingActions":   "Performance reviews for Q1, Update employee handbook",
	}, nil
}

// FinanceSource reports daily financial figures (code FN). Key set:
// Revenue, Expenses, NetAmount, BudgetStatus, OutstandingCount,
// ReviewItems. Monetary values are pre-formatted with thousands separators.
type FinanceSource struct {
	s *sampler
}

// NewFinanceSource constructs the FN source.
func NewFinanceSource(opts ...Option) *FinanceSource {
	return &FinanceSource{s: newSampler(opts...)}
}

// Fetch implements Source.
func (f *FinanceSource) Fetch(_ context.Context, _ time.Time) (models.DataSet, error) {
	revenue := f.s.between(50000, 80000)
	expenses := f.s.between(30000, 45000)

	return models.DataSet{
		"Revenue":          formatThousands(revenue),
		"Expenses":         formatThousands(expenses),
		"NetAmount":        formatThousands(revenue - expenses),
		"BudgetStatus":     "On Track",
		"OutstandingCount": f.s.between(5, 15),
		"ReviewItems":      "Monthly reconciliation, Vendor payments approval",
	}, nil
}

// ITSource reports system health and ticket metrics (code IT). Key set:
// ServerUptime, NetworkStatus, BackupStatus, NewTickets, ResolvedTickets,
// PendingTickets, SecurityUpdates.
type ITSource struct {
	s *sampler
}

// NewITSource constructs the IT source.
func NewITSource(opts ...Option) *ITSource {
	return &ITSource{s: newSampler(opts...)}
}

// Fetch implements Source.
func (i *ITSource) Fetch(_ context.Context, _ time.Time) (models.DataSet, error) {
	return models.DataSet{
		"ServerUptime":    i.s.between(95, 100),
		"NetworkStatus":   "Stable",
		"BackupStatus":    "Completed",
		"NewTickets":      i.s.between(3, 10),
		"ResolvedTickets": i.s.between(5, 12),
		"PendingTickets":  i.s.between(2, 8),
		"SecurityUpdates": "All systems updated, No critical vulnerabilities",
	}, nil
}

// formatThousands renders n with comma thousands separators ("65432" ->
// "65,432"), matching the presentation finance templates expect.
func formatThousands(n int) string {
	negative := n < 0
	if negative {
		n = -n
	}

	digits := strconv.Itoa(n)
	if len(digits) <= 3 {
		if negative {
			return "-" + digits
		}
		return digits
	}

	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, d)
	}
	if negative {
		return "-" + string(out)
	}
	return string(out)
}
