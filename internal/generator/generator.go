// Package generator turns a (code, date) pair into finished mail content:
// it resolves the recipient and template from the catalog, fetches the
// code's data set, and renders the subject and body.
package generator

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/automail-service/internal/catalog"
	"github.com/example/automail-service/internal/config"
	"github.com/example/automail-service/internal/data"
	"github.com/example/automail-service/internal/models"
)

// ErrDataUnavailable wraps any failure from the data provider, including
// unknown codes.
var ErrDataUnavailable = errors.New("data unavailable")

// Generator orchestrates catalog resolution, data fetching and rendering.
// It is stateless per request and safe for concurrent use.
type Generator struct {
	logger  zerolog.Logger
	catalog *catalog.Catalog
	sources *data.Registry
	sender  config.SenderConfig
}

// New constructs a Generator. Catalog and sources are required; the sender
// identity is stamped on every generated mail.
func New(cat *catalog.Catalog, sources *data.Registry, sender config.SenderConfig, logger zerolog.Logger) (*Generator, error) {
	if cat == nil {
		return nil, errors.New("generator: catalog is required")
	}
	if sources == nil {
		return nil, errors.New("generator: data registry is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}

	return &Generator{
		logger:  logger,
		catalog: cat,
		sources: sources,
		sender:  sender,
	}, nil
}

// Generate produces the fully rendered mail content for (code, date).
// Resolution failures short-circuit: the recipient lookup is checked first,
// then the template, then the data fetch. A partially filled MailContent is
// never returned.
func (g *Generator) Generate(ctx context.Context, code string, date time.Time) (*models.MailContent, error) {
	recipient, err := g.catalog.Directory.Resolve(code)
	if err != nil {
		return nil, err
	}

	template, err := g.catalog.Registry.Resolve(code)
	if err != nil {
		return nil, err
	}

	set, err := g.sources.Fetch(ctx, code, date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	content := &models.MailContent{
		Subject:        Render(template.Subject, set, date, recipient),
		Body:           Render(template.Body, set, date, recipient),
		RecipientEmail: recipient.Email,
		RecipientName:  recipient.Name,
		SenderEmail:    g.sender.Email,
		SenderName:     g.sender.Name,
	}

	g.logger.Debug().
		Str("code", recipient.Code).
		Str("recipient", recipient.Email).
		Msg("mail content generated")
	return content, nil
}
