package extract

import (
	"regexp"
	"strings"

	"github.com/invoscan/invoscan/internal/recognize"
)

// kvPair ties a label keyword to the field it populates. The pairs are
// tried in order against the block-joined text; the first match per field
// wins and never overwrites an existing field.
type kvPair struct {
	field FieldType
	re    *regexp.Regexp
}

func kvRegexp(keyword string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(` + keyword + `)\s*:?\s*([\w\s\-.@/]+)`)
}

var kvPairs = []kvPair{
	{FieldInvoiceNumber, kvRegexp(`invoice\s*(?:no|number|#)`)},
	{FieldInvoiceDate, kvRegexp(`date`)},
	{FieldTotalAmount, kvRegexp(`total`)},
	{FieldTotalAmount, kvRegexp(`amount`)},
	{FieldGSTNumber, kvRegexp(`gstin?`)},
	{FieldCGSTAmount, kvRegexp(`cgst`)},
	{FieldSGSTAmount, kvRegexp(`sgst`)},
	{FieldPhoneNumber, kvRegexp(`(?:phone|mobile)`)},
	{FieldEmail, kvRegexp(`e-?mail`)},
}

// extractKeyValuePairs searches "keyword: value" shapes in the block-joined
// text and records fixed-confidence fields for labels not yet populated.
func extractKeyValuePairs(blocks []recognize.Block, fields map[string]Field) {
	var sb strings.Builder
	for _, b := range blocks {
		sb.WriteString(b.Text)
		sb.WriteString("\n")
	}
	text := sb.String()

	for _, p := range kvPairs {
		name := string(p.field)
		if _, ok := fields[name]; ok {
			continue
		}
		m := p.re.FindStringSubmatch(text)
		if len(m) < 3 {
			continue
		}
		value := strings.TrimSpace(firstToken(m[2]))
		if value == "" {
			continue
		}
		sourceIDs, box := sourceBlocksFor(value, blocks)
		fields[name] = Field{
			Type:         p.field,
			RawValue:     value,
			Value:        value,
			Confidence:   confKeyValue,
			Box:          box,
			SourceBlocks: sourceIDs,
		}
	}
}

// firstToken trims a captured value down to its first line; the permissive
// capture class happily swallows following lines of block text.
func firstToken(v string) string {
	if i := strings.IndexByte(v, '\n'); i >= 0 {
		v = v[:i]
	}
	return v
}
