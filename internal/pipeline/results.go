package pipeline

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ToJSON serializes a single ScanResult to pretty JSON.
func ToJSON(res *ScanResult) (string, error) {
	if res == nil {
		return "", errors.New("nil result")
	}
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ToPlainText renders the extracted fields and product lines as a readable
// summary.
func ToPlainText(res *ScanResult) (string, error) {
	if res == nil {
		return "", errors.New("nil result")
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Scan %s (%s)\n", res.ScanID, res.DocumentType)
	fmt.Fprintf(&sb, "Confidence: %.2f\n", res.Confidence.Overall)
	if res.TemplateID != "" {
		fmt.Fprintf(&sb, "Template: %s\n", res.TemplateID)
	}
	for _, name := range sortedFieldNames(res) {
		f := res.Fields[name]
		status := ""
		if f.Validation != nil && !f.Validation.IsValid {
			status = " (invalid)"
		}
		fmt.Fprintf(&sb, "  %-16s %s%s\n", name+":", f.Value, status)
	}
	for _, pl := range res.ProductLines {
		fmt.Fprintf(&sb, "  product: %s", pl.RawText)
		if pl.Quantity != "" {
			fmt.Fprintf(&sb, " [qty %s]", pl.Quantity)
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// ToCSV exports the field map as CSV with a header row.
func ToCSV(res *ScanResult) (string, error) {
	if res == nil {
		return "", errors.New("nil result")
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"field", "raw_value", "value", "confidence", "valid"})
	for _, name := range sortedFieldNames(res) {
		f := res.Fields[name]
		valid := ""
		if f.Validation != nil {
			valid = fmt.Sprintf("%t", f.Validation.IsValid)
		}
		_ = w.Write([]string{name, f.RawValue, f.Value, fmt.Sprintf("%.2f", f.Confidence), valid})
	}
	w.Flush()
	return buf.String(), nil
}

// FormatResult renders a result in the named format: json, text or csv.
func FormatResult(res *ScanResult, format string) (string, error) {
	switch format {
	case "json":
		return ToJSON(res)
	case "csv":
		return ToCSV(res)
	case "text", "":
		return ToPlainText(res)
	default:
		return "", fmt.Errorf("unknown output format: %s", format)
	}
}

func sortedFieldNames(res *ScanResult) []string {
	names := make([]string, 0, len(res.Fields))
	for name := range res.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
