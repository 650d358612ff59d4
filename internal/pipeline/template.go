package pipeline

import "github.com/invoscan/invoscan/internal/extract"

// TemplateMatcher is the external template-matching boundary: given the
// extracted fields it may identify a known document layout.
type TemplateMatcher interface {
	Match(docType extract.DocumentType, fields map[string]extract.Field) (templateID string, ok bool)
}

// KeywordTemplateMatcher is the default matcher: a handful of field-presence
// rules mapping to coarse template IDs.
type KeywordTemplateMatcher struct{}

// NewKeywordTemplateMatcher returns the default template matcher.
func NewKeywordTemplateMatcher() *KeywordTemplateMatcher {
	return &KeywordTemplateMatcher{}
}

func (m *KeywordTemplateMatcher) Match(docType extract.DocumentType, fields map[string]extract.Field) (string, bool) {
	has := func(ft extract.FieldType) bool {
		_, ok := fields[string(ft)]
		return ok
	}

	switch docType {
	case extract.DocumentReceipt:
		if has(extract.FieldTotalAmount) {
			return "retail-receipt", true
		}
	default:
		if has(extract.FieldGSTNumber) && (has(extract.FieldCGSTAmount) || has(extract.FieldSGSTAmount)) {
			return "gst-tax-invoice", true
		}
		if has(extract.FieldInvoiceNumber) && has(extract.FieldTotalAmount) {
			return "generic-invoice", true
		}
	}
	return "", false
}
