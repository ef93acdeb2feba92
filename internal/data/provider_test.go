package data_test

import (
	"context"
	"errors"
	"io"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/automail-service/internal/data"
	"github.com/example/automail-service/internal/models"
)

var testDate = time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

func defaultRegistry(t *testing.T) *data.Registry {
	t.Helper()
	reg, err := data.Default(zerolog.New(io.Discard), data.WithRandomSeed(1))
	if err != nil {
		t.Fatalf("unexpected error building default registry: %v", err)
	}
	return reg
}

func TestFetchUnknownCode(t *testing.T) {
	reg := defaultRegistry(t)

	_, err := reg.Fetch(context.Background(), "ZZ", testDate)
	if !errors.Is(err, data.ErrUnknownCode) {
		t.Fatalf("expected ErrUnknownCode, got %v", err)
	}
}

func TestFetchNormalizesCode(t *testing.T) {
	reg := defaultRegistry(t)

	if _, err := reg.Fetch(context.Background(), " pe ", testDate); err != nil {
		t.Fatalf("expected normalized code to resolve, got %v", err)
	}
}

func TestStockSourceKeySets(t *testing.T) {
	reg := defaultRegistry(t)

	tests := []struct {
		code string
		keys []string
	}{
		{"PE", []string{"Downtime", "EfficiencyRate", "PerformanceMessage", "QualityScore", "Target", "UnitsProduced"}},
		{"PM", []string{"ActionItems", "DepartmentStatus", "IssuesCount", "ResolvedIssues", "TeamPerformance", "TotalUnits"}},
		{"HR", []string{"AbsentCount", "LateCount", "LeaveRequests", "PendingActions", "PresentCount", "TrainingRequests"}},
		{"FN", []string{"BudgetStatus", "Expenses", "NetAmount", "OutstandingCount", "Revenue", "ReviewItems"}},
		{"IT", []string{"BackupStatus", "NetworkStatus", "NewTickets", "PendingTickets", "ResolvedTickets", "SecurityUpdates", "ServerUptime"}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.code, func(t *testing.T) {
			set, err := reg.Fetch(context.Background(), tc.code, testDate)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			got := make([]string, 0, len(set))
			for key := range set {
				got = append(got, key)
			}
			sort.Strings(got)

			if len(got) != len(tc.keys) {
				t.Fatalf("key count mismatch: got %v, want %v", got, tc.keys)
			}
			for i := range got {
				if got[i] != tc.keys[i] {
					t.Fatalf("key set mismatch: got %v, want %v", got, tc.keys)
				}
			}
		})
	}
}

func TestProductionEmployeePerformanceMessage(t *testing.T) {
	// Across seeds, the message must always agree with the produced/target
	// comparison.
	for seed := int64(0); seed < 20; seed++ {
		src := data.NewProductionEmployeeSource(data.WithRandomSeed(seed))
		set, err := src.Fetch(context.Background(), testDate)
		if err != nil {
			t.Fatalf("seed %d: unexpected error: %v", seed, err)
		}

		produced, ok := set["UnitsProduced"].(int)
		if !ok {
			t.Fatalf("seed %d: UnitsProduced is %T, want int", seed, set["UnitsProduced"])
		}
		if produced < 80 || produced >= 120 {
			t.Fatalf("seed %d: UnitsProduced %d out of range", seed, produced)
		}
		if set["Target"] != 100 {
			t.Fatalf("seed %d: Target = %v, want 100", seed, set["Target"])
		}

		want := "Please focus on meeting production targets."
		if produced >= 100 {
			want = "Excellent work! Target achieved."
		}
		if set["PerformanceMessage"] != want {
			t.Fatalf("seed %d: produced %d, message %q, want %q", seed, produced, set["PerformanceMessage"], want)
		}
	}
}

func TestFinanceValuesArePreFormatted(t *testing.T) {
	src := data.NewFinanceSource(data.WithRandomSeed(7))
	set, err := src.Fetch(context.Background(), testDate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, key := range []string{"Revenue", "Expenses", "NetAmount"} {
		value, ok := set[key].(string)
		if !ok {
			t.Fatalf("%s is %T, want string", key, set[key])
		}
		if len(value) == 0 {
			t.Fatalf("%s is empty", key)
		}
	}

	// Revenue is always >= 50000, so it must carry a separator.
	revenue := set["Revenue"].(string)
	if len(revenue) < 6 || revenue[2] != ',' {
		t.Fatalf("expected thousands separator in revenue, got %q", revenue)
	}
}

func TestRegisterRejectsBadBindings(t *testing.T) {
	reg := data.NewRegistry(zerolog.New(io.Discard))
	src := data.SourceFunc(func(context.Context, time.Time) (models.DataSet, error) {
		return models.DataSet{}, nil
	})

	if err := reg.Register("", src); err == nil {
		t.Fatalf("expected error for empty code")
	}
	if err := reg.Register("PE", nil); err == nil {
		t.Fatalf("expected error for nil source")
	}
	if err := reg.Register("PE", src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := reg.Register("pe", src); err == nil {
		t.Fatalf("expected error for duplicate code")
	}
}

func TestFetchHonoursContext(t *testing.T) {
	reg := defaultRegistry(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := reg.Fetch(ctx, "PE", testDate); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSourceErrorsPropagate(t *testing.T) {
	reg := data.NewRegistry(zerolog.New(io.Discard))
	wantErr := errors.New("upstream offline")
	src := data.SourceFunc(func(context.Context, time.Time) (models.DataSet, error) {
		return nil, wantErr
	})
	if err := reg.Register("XX", src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := reg.Fetch(context.Background(), "XX", testDate); !errors.Is(err, wantErr) {
		t.Fatalf("expected source error to propagate, got %v", err)
	}
}
