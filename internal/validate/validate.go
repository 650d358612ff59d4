// Package validate applies per-category validation and normalization to
// extracted fields, optionally generating correction suggestions for
// invalid values.
package validate

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/invoscan/invoscan/internal/extract"
)

// Validation confidences for the rule-based checks.
const (
	confValid   = 0.9
	confInvalid = 0.1
)

var (
	dateShapeRe = regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`)
	numericRe   = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// Options controls the post-extraction passes.
type Options struct {
	EnableDataNormalization bool `mapstructure:"enable_data_normalization" yaml:"enable_data_normalization" json:"enable_data_normalization"`
	EnableSuggestions       bool `mapstructure:"enable_suggestions" yaml:"enable_suggestions" json:"enable_suggestions"`
}

// DefaultOptions enables normalization and suggestions.
func DefaultOptions() Options {
	return Options{EnableDataNormalization: true, EnableSuggestions: true}
}

// Field validates a single field according to its declared rule, attaching
// the ValidationResult and, when enabled and invalid, suggestions. Fields
// with no recognized rule keep their prior validation result unchanged.
func Field(f *extract.Field, enableSuggestions bool) {
	switch extract.SpecRule(f.Type) {
	case extract.RuleNumeric:
		valid := parsesAsNumber(f.Value)
		f.Validation = result(valid, string(extract.RuleNumeric), "Invalid number format")
		if !valid && enableSuggestions {
			f.Suggestions = numericRe.FindAllString(f.RawValue, -1)
		}
	case extract.RuleDate:
		valid := dateShapeRe.MatchString(f.Value)
		f.Validation = result(valid, string(extract.RuleDate), "Invalid date format")
		if !valid && enableSuggestions {
			f.Suggestions = dateSuggestions(f.RawValue)
		}
	}
}

// All validates every field in the map in place.
func All(fields map[string]extract.Field, enableSuggestions bool) {
	for name, f := range fields {
		Field(&f, enableSuggestions)
		fields[name] = f
	}
}

func parsesAsNumber(v string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	return err == nil
}

func result(valid bool, rule, invalidMsg string) *extract.ValidationResult {
	r := &extract.ValidationResult{IsValid: valid, ValidationType: rule, Confidence: confValid}
	if !valid {
		r.Message = invalidMsg
		r.Confidence = confInvalid
	}
	return r
}

// dateSuggestions produces separator-swapped variants of the raw value.
func dateSuggestions(raw string) []string {
	return []string{
		strings.ReplaceAll(raw, "-", "/"),
		strings.ReplaceAll(raw, "/", "-"),
		strings.ReplaceAll(raw, ".", "/"),
	}
}
