package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/example/automail-service/internal/models"
	"github.com/example/automail-service/internal/util"
)

// fileSchema is the YAML shape of a catalog override file.
type fileSchema struct {
	Recipients []recipientEntry `yaml:"recipients"`
	Templates  []templateEntry  `yaml:"templates"`
}

type recipientEntry struct {
	Code       string `yaml:"code"`
	Name       string `yaml:"name"`
	Email      string `yaml:"email"`
	Department string `yaml:"department"`
	Role       string `yaml:"role"`
}

type templateEntry struct {
	Code        string   `yaml:"code"`
	Description string   `yaml:"description"`
	Category    string   `yaml:"category"`
	Subject     string   `yaml:"subject"`
	Body        string   `yaml:"body"`
	DataKeys    []string `yaml:"data_keys"`
}

// LoadFile reads a YAML catalog file and merges it over the built-in
// entries. File entries win on code collisions; codes present only in the
// file extend the catalog.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}

	var file fileSchema
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}

	recipients := mergeRecipients(DefaultRecipients(), file.Recipients)
	templates := mergeTemplates(DefaultTemplates(), file.Templates)

	dir, err := NewDirectory(recipients)
	if err != nil {
		return nil, err
	}
	reg, err := NewRegistry(templates)
	if err != nil {
		return nil, err
	}
	return &Catalog{Directory: dir, Registry: reg}, nil
}

func mergeRecipients(base []models.Recipient, overrides []recipientEntry) []models.Recipient {
	byCode := make(map[string]int, len(base))
	for i, r := range base {
		byCode[util.NormalizeCode(r.Code)] = i
	}
	for _, e := range overrides {
		r := models.Recipient{
			Code:       e.Code,
			Name:       e.Name,
			Email:      e.Email,
			Department: e.Department,
			Role:       e.Role,
		}
		if i, ok := byCode[util.NormalizeCode(e.Code)]; ok {
			base[i] = r
			continue
		}
		base = append(base, r)
	}
	return base
}

func mergeTemplates(base []models.Template, overrides []templateEntry) []models.Template {
	byCode := make(map[string]int, len(base))
	for i, t := range base {
		byCode[util.NormalizeCode(t.Code)] = i
	}
	for _, e := range overrides {
		t := models.Template{
			Code:        e.Code,
			Description: e.Description,
			Category:    e.Category,
			Subject:     e.Subject,
			Body:        e.Body,
			DataKeys:    e.DataKeys,
		}
		if i, ok := byCode[util.NormalizeCode(e.Code)]; ok {
			base[i] = t
			continue
		}
		base = append(base, t)
	}
	return base
}
