// Package textfilter separates invoice-relevant recognized text from
// boilerplate and OCR noise. It is a section-aware line classifier: the
// vendor block, buyer block, product table and totals each get their own
// keep/remove policy, and every removal is recorded with a tagged reason.
package textfilter

import "strings"

// RemovedLine records one dropped line and why it was dropped.
type RemovedLine struct {
	Reason string `json:"reason"`
	Line   string `json:"line"`
}

// Result holds the outcome of one filtering pass. It is created once per
// recognition pass and read-only afterward.
type Result struct {
	OriginalText         string        `json:"original_text"`
	FilteredText         string        `json:"filtered_text"`
	OriginalLineCount    int           `json:"original_line_count"`
	FilteredLineCount    int           `json:"filtered_line_count"`
	RemovedLines         []RemovedLine `json:"removed_lines,omitempty"`
	ProductTableDetected bool          `json:"product_table_detected"`
}

// scanState tracks the classifier position while walking top to bottom.
type scanState struct {
	inProductTable        bool
	productTableStartLine int
	productTableEndLine   int
	vendorSeen            bool
	buyerSeen             bool
	vendorSectionEnded    bool
}

// Filter classifies each line of the recognized text as keep or remove and
// returns the filtered text together with the removal audit trail.
func Filter(text string) Result {
	lines := strings.Split(text, "\n")

	state := locateProductTable(lines)

	var kept []string
	var removed []RemovedLine
	keep := func(line string) { kept = append(kept, line) }
	drop := func(reason, line string) { removed = append(removed, RemovedLine{Reason: reason, Line: line}) }

	vendorSuppress := false
	buyerSuppress := false

	for i, raw := range lines {
		line := strings.TrimSpace(raw)

		inTable := state.productTableStartLine >= 0 && i >= state.productTableStartLine &&
			(state.productTableEndLine < 0 || i <= state.productTableEndLine)
		if inTable {
			// Suppression never outlives the table.
			vendorSuppress = false
			buyerSuppress = false
		}

		// 1. Boilerplate and OCR artifacts always lose.
		if reason, ok := matchRemove(line); ok {
			drop(reason, raw)
			continue
		}

		// 2-4. Header, date and GSTIN lines always survive.
		if isInvoiceHeader(line) || isDateLine(line) || isGSTINLine(line) {
			keep(raw)
			continue
		}

		// 5. Vendor block: keep the keyword line, then swallow the address.
		if !state.vendorSeen && vendorKeywordRe.MatchString(line) {
			state.vendorSeen = true
			vendorSuppress = true
			keep(raw)
			continue
		}

		// 6. Buyer block: ends the vendor section, behaves analogously.
		if !state.buyerSeen && buyerKeywordRe.MatchString(line) {
			state.buyerSeen = true
			state.vendorSectionEnded = true
			vendorSuppress = false
			buyerSuppress = true
			keep(raw)
			continue
		}

		if vendorSuppress && !state.vendorSectionEnded && addressShapeRe.MatchString(line) {
			drop(ReasonVendorAddress, raw)
			continue
		}
		if buyerSuppress && !inTable && addressShapeRe.MatchString(line) {
			drop(ReasonBuyerAddress, raw)
			continue
		}

		// 7. Product table rows: keep patterns, or any digit as a
		// permissive fallback.
		if inTable {
			if matchesAnyKeep(line) || digitRe.MatchString(line) {
				keep(raw)
				continue
			}
		}

		// 8. Tax summaries below the table.
		if isTaxSummary(line) {
			keep(raw)
			continue
		}

		// 9. Generic keep fallback.
		if matchesAnyKeep(line) {
			keep(raw)
			continue
		}
		drop(ReasonNoPattern, raw)
	}

	return Result{
		OriginalText:         text,
		FilteredText:         strings.Join(kept, "\n"),
		OriginalLineCount:    len(lines),
		FilteredLineCount:    len(kept),
		RemovedLines:         removed,
		ProductTableDetected: state.productTableStartLine >= 0 || state.inProductTable,
	}
}

// matchRemove applies the REMOVE library plus the two artifact checks.
func matchRemove(line string) (string, bool) {
	for _, p := range removePatterns {
		if p.re.MatchString(line) {
			return p.reason, true
		}
	}
	if isPunctuationOnly(line) {
		return ReasonPunctuationOnly, true
	}
	if hasRepeatedRun(line, 6) {
		return ReasonRepeatedChars, true
	}
	return "", false
}

// locateProductTable performs the first scan: find the table heading and
// the totals line ending it.
func locateProductTable(lines []string) *scanState {
	state := &scanState{productTableStartLine: -1, productTableEndLine: -1}
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if state.productTableStartLine < 0 {
			if tableStartRe.MatchString(line) {
				state.productTableStartLine = i
				state.inProductTable = true
			}
			continue
		}
		if tableEndRe.MatchString(line) {
			state.productTableEndLine = i
			state.inProductTable = false
			break
		}
	}
	return state
}
