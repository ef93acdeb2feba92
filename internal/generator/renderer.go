package generator

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/automail-service/internal/models"
)

// DateLayout is the presentation format for the {Date} placeholder,
// e.g. "05 March 2024".
const DateLayout = "02 January 2006"

// Reserved placeholder names. These are always sourced from the request's
// recipient and date and can never be shadowed by a data set key.
const (
	PlaceholderRecipientName = "RecipientName"
	PlaceholderDate          = "Date"
	PlaceholderDepartment    = "Department"
	PlaceholderRole          = "Role"
)

var reservedOrder = []string{
	PlaceholderRecipientName,
	PlaceholderDate,
	PlaceholderDepartment,
	PlaceholderRole,
}

// Render substitutes placeholders in a template pattern. Reserved
// placeholders are substituted first in fixed order, then each data set
// entry. A nil value renders as an empty string. Placeholders with no
// matching substitution are deliberately left verbatim: the policy is
// best-effort, and a stray {Token} in output points at a catalog/source
// mismatch instead of silently vanishing.
//
// Render is pure and deterministic; identical inputs produce identical
// output.
func Render(pattern string, set models.DataSet, date time.Time, recipient models.Recipient) string {
	reserved := map[string]string{
		PlaceholderRecipientName: recipient.Name,
		PlaceholderDate:          date.Format(DateLayout),
		PlaceholderDepartment:    recipient.Department,
		PlaceholderRole:          recipient.Role,
	}

	result := pattern
	for _, name := range reservedOrder {
		result = strings.ReplaceAll(result, token(name), reserved[name])
	}

	for key, value := range set {
		if _, isReserved := reserved[key]; isReserved {
			continue
		}
		result = strings.ReplaceAll(result, token(key), stringify(value))
	}

	return result
}

func token(name string) string {
	return "{" + name + "}"
}

func stringify(value any) string {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
