package textfilter

import (
	"regexp"
	"strings"
)

// Removal reasons recorded in the audit trail.
const (
	ReasonOfficeBoilerplate = "office boilerplate"
	ReasonTermsConditions   = "terms and conditions"
	ReasonMarketingCopy     = "marketing copy"
	ReasonBankDetails       = "bank details"
	ReasonPostalCode        = "postal code line"
	ReasonPromotional       = "promotional url or email"
	ReasonSignatory         = "signatory or certification text"
	ReasonPunctuationOnly   = "empty or punctuation only"
	ReasonRepeatedChars     = "repeated character artifact"
	ReasonVendorAddress     = "vendor address"
	ReasonBuyerAddress      = "buyer address"
	ReasonNoPattern         = "no pattern matched"
)

// removePattern ties a boilerplate regexp to its audit reason.
type removePattern struct {
	reason string
	re     *regexp.Regexp
}

// removePatterns drop boilerplate and OCR artifacts regardless of section.
// First match wins over every keep rule.
var removePatterns = []removePattern{
	{ReasonOfficeBoilerplate, regexp.MustCompile(`(?i)\b(registered|regd\.?|corporate|head)\s+office\b`)},
	{ReasonTermsConditions, regexp.MustCompile(`(?i)terms\s*(&|and)\s*conditions|subject\s+to\s+\w+\s+jurisdiction|\be\.?\s*&\s*o\.?\s*e\b`)},
	{ReasonMarketingCopy, regexp.MustCompile(`(?i)\b(thank\s+you|visit\s+(us\s+)?again|happy\s+to\s+serve|best\s+(deals|prices)|lowest\s+price|exchange\s+offer|warranty\s+card)\b`)},
	{ReasonBankDetails, regexp.MustCompile(`(?i)\b(bank\s+(name|details)|ifsc|a/?c\s*no|account\s+n(o|umber)|branch\s+code)\b`)},
	{ReasonPostalCode, regexp.MustCompile(`(?i)^\s*(pin|zip|postal)\s*(code)?\s*[:\-]?\s*\d{5,6}\s*$`)},
	{ReasonPromotional, regexp.MustCompile(`(?i)\b(www\.[a-z0-9.\-]+|https?://\S+|follow\s+us|facebook|instagram|care@[a-z0-9.\-]+|support@[a-z0-9.\-]+)`)},
	{ReasonSignatory, regexp.MustCompile(`(?i)\b(authori[sz]ed\s+signatory|for\s+and\s+on\s+behalf|certified\s+that|this\s+is\s+a\s+computer\s+generated|declaration)\b`)},
}

// Keep-pattern library for product-table rows and the generic keep fallback.
var keepPatterns = []*regexp.Regexp{
	// phone brands commonly seen on electronics invoices
	regexp.MustCompile(`(?i)\b(samsung|redmi|xiaomi|vivo|oppo|realme|apple|iphone|oneplus|nokia|motorola|lava|micromax|infinix|tecno|poco|honor|lenovo)\b`),
	// storage specs
	regexp.MustCompile(`(?i)\b\d+\s*(gb|tb|mb)\b`),
	// color names
	regexp.MustCompile(`(?i)\b(black|white|blue|red|green|gold|silver|gr[ae]y|purple|violet|bronze|graphite|midnight|starlight)\b`),
	// quantity shapes
	regexp.MustCompile(`(?i)\b\d+\s*(pcs|nos|qty|units?)\b`),
	// currency amounts
	regexp.MustCompile(`(?i)(₹|\brs\.?|\binr\b)\s*[\d,]+|\b\d+\.\d{2}\b`),
	// tax-line keywords
	regexp.MustCompile(`(?i)\b(cgst|sgst|igst|gst|cess|tax(able)?)\b`),
	// HSN codes
	regexp.MustCompile(`(?i)\bhsn\b|\b\d{4}(\d{2}(\d{2})?)?\b`),
	// table headers
	regexp.MustCompile(`(?i)\b(description|qty|quantity|rate|amount|total|disc(ount)?|s[il]\.?\s*no)\b`),
}

// Section and line-class patterns used by the classifier.
var (
	tableStartRe = regexp.MustCompile(`(?i)description\s+of\s+goods|^\s*s[il]\b.*desc\w*.*(qty|quantity)`)
	tableEndRe   = regexp.MustCompile(`(?i)\b(total|output|sub\s*total|grand\s*total|taxable\s+value)\b`)

	invoiceHeaderRe = regexp.MustCompile(`(?i)tax\s+invoice|invoice\s*(no|#)`)
	invoiceWordRe   = regexp.MustCompile(`(?i)\binvoice\b`)

	dateWordRe  = regexp.MustCompile(`(?i)\bdate\b`)
	dateShapeRe = regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|\d{1,2}[\s-][A-Za-z]{3,9}[\s-]\d{2,4}`)

	gstinWordRe  = regexp.MustCompile(`(?i)\bgstin\b`)
	gstinShapeRe = regexp.MustCompile(`\b\d{2}[A-Z]{5}\d{4}[A-Z][A-Z0-9]{3}\b`)

	vendorKeywordRe = regexp.MustCompile(`(?i)\b(sold\s+by|seller|vendor|supplier)\b`)
	buyerKeywordRe  = regexp.MustCompile(`(?i)\b(bill(ed)?\s+to|ship(ped)?\s+to|buyer|customer|consignee)\b`)

	addressShapeRe = regexp.MustCompile(`(?i)\b(road|street|nagar|lane|floor|building|complex|dist(rict)?|state|taluk|pin\s*-?\s*\d{6}|mob(ile)?\.?|ph(one)?\.?|tel\.?)\b|\b\d{6}\b|[\w.+\-]+@[\w\-]+\.\w+`)

	taxSummaryRe = regexp.MustCompile(`(?i)\b(cgst|sgst|igst|tax|total)\b`)

	digitRe = regexp.MustCompile(`\d`)
)

// matchesAnyKeep reports whether any keep pattern matches the line.
func matchesAnyKeep(line string) bool {
	for _, re := range keepPatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// isPunctuationOnly reports whether a line carries no letters or digits.
func isPunctuationOnly(line string) bool {
	for _, r := range line {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

// hasRepeatedRun reports whether the line contains n or more identical
// consecutive characters, a common OCR artifact on ruled paper. RE2 has no
// backreferences, so this is a plain scan.
func hasRepeatedRun(line string, n int) bool {
	runes := []rune(line)
	run := 1
	for i := 1; i < len(runes); i++ {
		if runes[i] == runes[i-1] && !isSpace(runes[i]) {
			run++
			if run >= n {
				return true
			}
		} else {
			run = 1
		}
	}
	return false
}

func isSpace(r rune) bool { return r == ' ' || r == '\t' }

// isInvoiceHeader reports whether the line is an invoice-header line.
func isInvoiceHeader(line string) bool {
	if invoiceHeaderRe.MatchString(line) {
		return true
	}
	return invoiceWordRe.MatchString(line) && digitRe.MatchString(line)
}

// isDateLine reports whether the line names a date and carries a
// day-month-year shaped token.
func isDateLine(line string) bool {
	return dateWordRe.MatchString(line) && dateShapeRe.MatchString(line)
}

// isGSTINLine reports whether the line labels a GSTIN and carries a
// 15-character GSTIN-shaped token.
func isGSTINLine(line string) bool {
	return gstinWordRe.MatchString(line) && gstinShapeRe.MatchString(strings.ToUpper(line))
}

// isTaxSummary reports whether the line is a tax/total summary with numbers.
func isTaxSummary(line string) bool {
	return taxSummaryRe.MatchString(line) && digitRe.MatchString(line)
}
