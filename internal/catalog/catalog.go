// Package catalog holds the process-wide recipient directory and template
// registry. Both are populated once at startup and read-only afterwards, so
// they are safe to share across concurrent requests without locking.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/example/automail-service/internal/models"
	"github.com/example/automail-service/internal/util"
)

var (
	// ErrRecipientNotFound is returned when a code has no registered recipient.
	ErrRecipientNotFound = errors.New("recipient not found")
	// ErrTemplateNotFound is returned when a code has no registered template.
	ErrTemplateNotFound = errors.New("template not found")
)

// Directory maps codes to recipients. Lookup is exact-match on the
// normalized code; there is no fuzzy matching.
type Directory struct {
	recipients map[string]models.Recipient
}

// NewDirectory builds a directory from the supplied recipients. Codes are
// normalized; a duplicate or invalid entry is a construction error.
func NewDirectory(recipients []models.Recipient) (*Directory, error) {
	out := make(map[string]models.Recipient, len(recipients))
	for _, r := range recipients {
		code := util.NormalizeCode(r.Code)
		if code == "" {
			return nil, fmt.Errorf("directory: recipient %q has empty code", r.Name)
		}
		if _, exists := out[code]; exists {
			return nil, fmt.Errorf("directory: duplicate code %q", code)
		}
		email, err := util.NormalizeEmail(r.Email)
		if err != nil {
			return nil, fmt.Errorf("directory: recipient %s: %w", code, err)
		}
		r.Code = code
		r.Email = email
		out[code] = r
	}
	return &Directory{recipients: out}, nil
}

// Resolve returns the recipient registered for the code.
func (d *Directory) Resolve(code string) (models.Recipient, error) {
	r, ok := d.recipients[util.NormalizeCode(code)]
	if !ok {
		return models.Recipient{}, fmt.Errorf("%w: code %q", ErrRecipientNotFound, util.NormalizeCode(code))
	}
	return r, nil
}

// Registry maps codes to mail templates, with the same lookup discipline as
// the directory.
type Registry struct {
	templates map[string]models.Template
}

// NewRegistry builds a registry from the supplied templates.
func NewRegistry(templates []models.Template) (*Registry, error) {
	out := make(map[string]models.Template, len(templates))
	for _, t := range templates {
		code := util.NormalizeCode(t.Code)
		if code == "" {
			return nil, errors.New("registry: template has empty code")
		}
		if _, exists := out[code]; exists {
			return nil, fmt.Errorf("registry: duplicate code %q", code)
		}
		if strings.TrimSpace(t.Subject) == "" {
			return nil, fmt.Errorf("registry: template %s has empty subject", code)
		}
		if strings.TrimSpace(t.Body) == "" {
			return nil, fmt.Errorf("registry: template %s has empty body", code)
		}
		t.Code = code
		out[code] = t
	}
	return &Registry{templates: out}, nil
}

// Resolve returns the template registered for the code.
func (r *Registry) Resolve(code string) (models.Template, error) {
	t, ok := r.templates[util.NormalizeCode(code)]
	if !ok {
		return models.Template{}, fmt.Errorf("%w: code %q", ErrTemplateNotFound, util.NormalizeCode(code))
	}
	return t, nil
}

// Catalog pairs a directory and registry built from the same entry set and
// exposes the consumer-facing code listing.
type Catalog struct {
	Directory *Directory
	Registry  *Registry
}

// Codes lists every code registered in both the registry and the directory,
// sorted for stable output. Description comes from the template, the owning
// department from the recipient.
func (c *Catalog) Codes() []models.CodeInfo {
	out := make([]models.CodeInfo, 0, len(c.Registry.templates))
	for code, tmpl := range c.Registry.templates {
		rcpt, ok := c.Directory.recipients[code]
		if !ok {
			continue
		}
		out = append(out, models.CodeInfo{
			Code:        code,
			Description: tmpl.Description,
			Department:  rcpt.Department,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
