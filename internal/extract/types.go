// Package extract derives named business fields and product lines from
// filtered invoice text using per-field patterns, key-value heuristics and
// positional table-row bucketing.
package extract

import (
	"regexp"

	"github.com/invoscan/invoscan/internal/utils"
)

// FieldType tags the business meaning of an extracted field.
type FieldType string

const (
	FieldInvoiceNumber FieldType = "invoice_number"
	FieldInvoiceDate   FieldType = "invoice_date"
	FieldVendorName    FieldType = "vendor_name"
	FieldGSTNumber     FieldType = "gst_number"
	FieldTotalAmount   FieldType = "total_amount"
	FieldTaxableValue  FieldType = "taxable_value"
	FieldCGSTAmount    FieldType = "cgst_amount"
	FieldSGSTAmount    FieldType = "sgst_amount"
	FieldPhoneNumber   FieldType = "phone_number"
	FieldEmail         FieldType = "email"
	FieldQuantity      FieldType = "quantity"
	FieldMerchantName  FieldType = "merchant_name"
	FieldPaymentMethod FieldType = "payment_method"
)

// Category groups field types for validation and normalization policy.
type Category string

const (
	CategoryFinancial  Category = "financial"
	CategoryDate       Category = "date"
	CategoryContact    Category = "contact"
	CategoryIdentifier Category = "identifier"
	CategoryText       Category = "text"
)

// ValidationRule names the validation applied to a field type.
type ValidationRule string

const (
	RuleNumeric ValidationRule = "numeric"
	RuleDate    ValidationRule = "date"
	RuleNone    ValidationRule = ""
)

// ValidationResult captures the outcome of validating one field.
type ValidationResult struct {
	IsValid        bool    `json:"is_valid"`
	ValidationType string  `json:"validation_type"`
	Message        string  `json:"message,omitempty"`
	Confidence     float64 `json:"confidence"`
}

// Field is one extracted business field. After creation it is mutated
// exactly twice: validation attaches the ValidationResult (and possibly
// suggestions), normalization rewrites Value.
type Field struct {
	Type         FieldType         `json:"type"`
	RawValue     string            `json:"raw_value"`
	Value        string            `json:"value"`
	Confidence   float64           `json:"confidence"`
	Box          *utils.Box        `json:"box,omitempty"`
	SourceBlocks []string          `json:"source_blocks,omitempty"`
	Validation   *ValidationResult `json:"validation,omitempty"`
	Suggestions  []string          `json:"suggestions,omitempty"`
}

// ProductLine is a single product row extracted from the filtered text.
type ProductLine struct {
	RawText  string `json:"raw_text"`
	Quantity string `json:"quantity,omitempty"`
	Rate     string `json:"rate,omitempty"`
	Amount   string `json:"amount,omitempty"`
}

// DocumentType selects the expected field set.
type DocumentType string

const (
	DocumentInvoice DocumentType = "invoice"
	DocumentReceipt DocumentType = "receipt"
)

// ExpectedFields lists the fields a complete document of the given type
// carries.
func ExpectedFields(dt DocumentType) []FieldType {
	switch dt {
	case DocumentReceipt:
		return []FieldType{
			FieldInvoiceNumber, FieldInvoiceDate, FieldMerchantName,
			FieldTotalAmount, FieldPaymentMethod, FieldPhoneNumber,
		}
	default:
		return []FieldType{
			FieldInvoiceNumber, FieldInvoiceDate, FieldVendorName,
			FieldGSTNumber, FieldTotalAmount, FieldTaxableValue,
			FieldCGSTAmount, FieldSGSTAmount, FieldPhoneNumber, FieldEmail,
		}
	}
}

// fieldSpec describes how one field type is found and later validated.
type fieldSpec struct {
	search   *regexp.Regexp // case-insensitive search with one capture group
	full     *regexp.Regexp // canonical shape; nil when no pattern is defined
	category Category
	rule     ValidationRule
}

var fieldSpecs = map[FieldType]fieldSpec{
	FieldInvoiceNumber: {
		search:   regexp.MustCompile(`(?i)invoice\s*(?:no|number|#)\.?\s*[:\-]?\s*([A-Za-z0-9\-/]+)`),
		full:     regexp.MustCompile(`^[A-Za-z0-9\-/]{3,20}$`),
		category: CategoryIdentifier,
	},
	FieldInvoiceDate: {
		search:   regexp.MustCompile(`(?i)date\s*[:\-]?\s*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
		full:     regexp.MustCompile(`^\d{1,2}[/-]\d{1,2}[/-]\d{2,4}$`),
		category: CategoryDate,
		rule:     RuleDate,
	},
	FieldVendorName: {
		search:   regexp.MustCompile(`(?i)(?:sold\s+by|seller|vendor)\s*[:\-]?\s*(\S.*)`),
		category: CategoryText,
	},
	FieldMerchantName: {
		search:   regexp.MustCompile(`(?i)(?:merchant|store|shop)\s*[:\-]?\s*(\S.*)`),
		category: CategoryText,
	},
	FieldGSTNumber: {
		search:   regexp.MustCompile(`(?i)gstin\s*(?:no)?\.?\s*[:\-]?\s*([0-9A-Za-z]{15})`),
		full:     regexp.MustCompile(`^\d{2}[A-Z]{5}\d{4}[A-Z][A-Z0-9]{3}$`),
		category: CategoryIdentifier,
	},
	FieldTotalAmount: {
		search:   regexp.MustCompile(`(?i)(?:grand\s+)?total\s*(?:amount)?\s*[:\-]?\s*(?:₹|rs\.?|inr)?\s*([\d,]+(?:\.\d+)?)`),
		full:     regexp.MustCompile(`^[\d,]+(?:\.\d+)?$`),
		category: CategoryFinancial,
		rule:     RuleNumeric,
	},
	FieldTaxableValue: {
		search:   regexp.MustCompile(`(?i)taxable\s+value\s*[:\-]?\s*(?:₹|rs\.?)?\s*([\d,]+(?:\.\d+)?)`),
		full:     regexp.MustCompile(`^[\d,]+(?:\.\d+)?$`),
		category: CategoryFinancial,
		rule:     RuleNumeric,
	},
	FieldCGSTAmount: {
		search:   regexp.MustCompile(`(?i)cgst\s*(?:@?\s*[\d.]+\s*%)?\s*[:\-]?\s*([\d,]+\.\d+)`),
		full:     regexp.MustCompile(`^[\d,]+\.\d+$`),
		category: CategoryFinancial,
		rule:     RuleNumeric,
	},
	FieldSGSTAmount: {
		search:   regexp.MustCompile(`(?i)sgst\s*(?:@?\s*[\d.]+\s*%)?\s*[:\-]?\s*([\d,]+\.\d+)`),
		full:     regexp.MustCompile(`^[\d,]+\.\d+$`),
		category: CategoryFinancial,
		rule:     RuleNumeric,
	},
	FieldPhoneNumber: {
		search:   regexp.MustCompile(`(?i)(?:mobile|mob|phone|ph|tel|contact)\.?\s*(?:no)?\.?\s*[:\-]?\s*(\+?[\d][\d\s\-()]{7,14})`),
		full:     regexp.MustCompile(`^\+?[\d][\d\s\-()]{7,14}$`),
		category: CategoryContact,
	},
	FieldEmail: {
		search:   regexp.MustCompile(`(?i)e-?mail\s*[:\-]?\s*([\w.+\-]+@[\w\-]+\.\w+)`),
		full:     regexp.MustCompile(`^[\w.+\-]+@[\w\-]+\.\w+$`),
		category: CategoryContact,
	},
	FieldPaymentMethod: {
		search:   regexp.MustCompile(`(?i)(?:paid\s+by|payment\s*(?:mode|method))\s*[:\-]?\s*(\S.*)`),
		category: CategoryText,
	},
	FieldQuantity: {
		full:     regexp.MustCompile(`^\d+$`),
		category: CategoryFinancial,
		rule:     RuleNumeric,
	},
}

// SpecCategory returns the category of a field type, defaulting to text.
func SpecCategory(ft FieldType) Category {
	if s, ok := fieldSpecs[ft]; ok {
		return s.category
	}
	return CategoryText
}

// SpecRule returns the validation rule declared for a field type.
func SpecRule(ft FieldType) ValidationRule {
	if s, ok := fieldSpecs[ft]; ok {
		return s.rule
	}
	return RuleNone
}
