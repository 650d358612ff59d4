package extract

import (
	"regexp"
	"strings"
)

var (
	productSectionStartRe = regexp.MustCompile(`(?i)\bdescription\b`)
	productSectionEndRe   = regexp.MustCompile(`(?i)\b(total|output|taxable)\b`)

	productBrandRe   = regexp.MustCompile(`(?i)\b(samsung|redmi|xiaomi|vivo|oppo|realme|apple|iphone|oneplus|nokia|motorola|lava|micromax|infinix|tecno|poco|honor|lenovo)\b`)
	productStorageRe = regexp.MustCompile(`(?i)\b\d+\s*(gb|tb|mb)\b`)

	productQtyRe   = regexp.MustCompile(`(?i)\b(\d+)\s*(?:pcs|nos)\b`)
	productMoneyRe = regexp.MustCompile(`\b\d+(?:,\d{3})*\.\d{2}\b`)
)

// ProductLines scans the filtered text for candidate product rows. A line
// qualifies only when a known brand and a storage spec co-occur, which
// keeps stray numeric lines out. When the text carries a description
// heading, only lines between it and the totals are considered; without a
// heading the whole text is scanned.
func ProductLines(filteredText string) []ProductLine {
	var out []ProductLine
	inSection := !productSectionStartRe.MatchString(filteredText)

	for _, raw := range strings.Split(filteredText, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if !inSection && productSectionStartRe.MatchString(line) {
			inSection = true
			continue
		}
		if inSection && productSectionEndRe.MatchString(line) {
			inSection = false
			continue
		}
		if !inSection {
			continue
		}

		if !productBrandRe.MatchString(line) || !productStorageRe.MatchString(line) {
			continue
		}

		pl := ProductLine{RawText: line}
		if m := productQtyRe.FindStringSubmatch(line); len(m) > 1 {
			pl.Quantity = m[1]
		}
		money := productMoneyRe.FindAllString(line, 2)
		if len(money) > 0 {
			pl.Rate = money[0]
		}
		if len(money) > 1 {
			pl.Amount = money[1]
		}
		out = append(out, pl)
	}
	return out
}
