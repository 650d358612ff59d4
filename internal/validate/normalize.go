package validate

import (
	"strings"

	"github.com/invoscan/invoscan/internal/extract"
)

// Normalize rewrites a field's processed value according to its category:
// financial values keep digits and the decimal point, dates keep digits and
// separators, phone numbers keep dialable characters, emails are lowercased,
// everything else is trimmed.
func Normalize(f *extract.Field) {
	switch extract.SpecCategory(f.Type) {
	case extract.CategoryFinancial:
		f.Value = keepRunes(f.Value, "0123456789.")
	case extract.CategoryDate:
		f.Value = keepRunes(f.Value, "0123456789/-")
	case extract.CategoryContact:
		if f.Type == extract.FieldEmail {
			f.Value = strings.ToLower(strings.TrimSpace(f.Value))
		} else {
			f.Value = keepRunes(f.Value, "0123456789+()-")
		}
	default:
		f.Value = strings.TrimSpace(f.Value)
	}
}

// NormalizeAll normalizes every field in the map in place.
func NormalizeAll(fields map[string]extract.Field) {
	for name, f := range fields {
		Normalize(&f)
		fields[name] = f
	}
}

func keepRunes(s, allowed string) string {
	var sb strings.Builder
	for _, r := range s {
		if strings.ContainsRune(allowed, r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
