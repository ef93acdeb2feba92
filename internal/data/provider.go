// Package data produces the named values a code's template is rendered
// with. Each code owns one Source; the Registry routes a fetch to the
// source registered for the code. Adding support for a new code means
// registering one new Source here plus one catalog entry, nothing else.
package data

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/automail-service/internal/models"
	"github.com/example/automail-service/internal/util"
)

// ErrUnknownCode is returned when no source is registered for a code.
var ErrUnknownCode = errors.New("unknown code")

// Source produces the data set for one code. Implementations may perform
// I/O against external systems of record, so fetches are context-aware.
type Source interface {
	Fetch(ctx context.Context, date time.Time) (models.DataSet, error)
}

// SourceFunc adapts a plain function to the Source interface.
type SourceFunc func(ctx context.Context, date time.Time) (models.DataSet, error)

// Fetch implements Source.
func (f SourceFunc) Fetch(ctx context.Context, date time.Time) (models.DataSet, error) {
	return f(ctx, date)
}

// Registry maps normalized codes to their data sources. Registration
// happens at startup; the registry is read-only afterwards.
type Registry struct {
	logger  zerolog.Logger
	sources map[string]Source
}

// NewRegistry constructs an empty registry.
func NewRegistry(logger zerolog.Logger) *Registry {
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	return &Registry{
		logger:  logger,
		sources: make(map[string]Source),
	}
}

// Register binds a source to a code. Codes are normalized; rebinding a code
// is a programming error and rejected.
func (r *Registry) Register(code string, src Source) error {
	normalized := util.NormalizeCode(code)
	if normalized == "" {
		return errors.New("data: cannot register empty code")
	}
	if src == nil {
		return fmt.Errorf("data: nil source for code %q", normalized)
	}
	if _, exists := r.sources[normalized]; exists {
		return fmt.Errorf("data: code %q already registered", normalized)
	}
	r.sources[normalized] = src
	return nil
}

// Fetch produces the data set for (code, date) by delegating to the
// registered source. Unregistered codes fail with ErrUnknownCode.
func (r *Registry) Fetch(ctx context.Context, code string, date time.Time) (models.DataSet, error) {
	normalized := util.NormalizeCode(code)
	src, ok := r.sources[normalized]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCode, normalized)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	set, err := src.Fetch(ctx, date)
	if err != nil {
		r.logger.Warn().
			Str("code", normalized).
			Time("date", date).
			Err(err).
			Msg("data source fetch failed")
		return nil, err
	}

	r.logger.Debug().
		Str("code", normalized).
		Int("keys", len(set)).
		Msg("data source fetch succeeded")
	return set, nil
}

// Default returns a registry populated with the stock sources for the
// built-in codes.
func Default(logger zerolog.Logger, opts ...Option) (*Registry, error) {
	r := NewRegistry(logger)

	sources := map[string]Source{
		"PE": NewProductionEmployeeSource(opts...),
		"PM": NewProductionManagerSource(opts...),
		"HR": NewHRSource(opts...),
		"FN": NewFinanceSource(opts...),
		"IT": NewITSource(opts...),
	}
	for code, src := range sources {
		if err := r.Register(code, src); err != nil {
			return nil, err
		}
	}
	return r, nil
}
