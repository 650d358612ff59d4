package textfilter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleInvoice = `TAX INVOICE
Sold by: Mobile World
2nd Floor, MG Road, Bangalore
Registered Office: Tower A, Corporate Park
Bill to: Ravi Kumar
12 Gandhi Nagar, Chennai 600001
Invoice No: INV-2024-001
Date: 12/05/2024
GSTIN: 27AAPFU0939F1ZV
Description of Goods  Qty  Rate  Amount
Redmi Note 12 128GB Blue  1 pcs  14999.00  14999.00
HSN 85171300
Total  14999.00
Taxable Value 12711.02
CGST 9% 1143.99
SGST 9% 1143.99
Thank you, visit us again!
Terms & Conditions apply
Bank Details: IFSC HDFC0001234
IIIIIIIIII
//////
Authorised Signatory`

func TestFilter_RemovesBoilerplate(t *testing.T) {
	res := Filter(sampleInvoice)

	assert.NotContains(t, res.FilteredText, "Thank you")
	assert.NotContains(t, res.FilteredText, "Terms & Conditions")
	assert.NotContains(t, res.FilteredText, "IFSC")
	assert.NotContains(t, res.FilteredText, "Registered Office")
	assert.NotContains(t, res.FilteredText, "Authorised Signatory")
	assert.NotContains(t, res.FilteredText, "IIIIIIIIII")
}

func TestFilter_KeepsStructuredLines(t *testing.T) {
	res := Filter(sampleInvoice)

	assert.Contains(t, res.FilteredText, "TAX INVOICE")
	assert.Contains(t, res.FilteredText, "Invoice No: INV-2024-001")
	assert.Contains(t, res.FilteredText, "Date: 12/05/2024")
	assert.Contains(t, res.FilteredText, "GSTIN: 27AAPFU0939F1ZV")
	assert.Contains(t, res.FilteredText, "Redmi Note 12 128GB Blue")
	assert.Contains(t, res.FilteredText, "CGST 9% 1143.99")
	assert.Contains(t, res.FilteredText, "Sold by: Mobile World")
	assert.Contains(t, res.FilteredText, "Bill to: Ravi Kumar")
}

func TestFilter_SuppressesAddressBlocks(t *testing.T) {
	res := Filter(sampleInvoice)

	assert.NotContains(t, res.FilteredText, "MG Road")
	assert.NotContains(t, res.FilteredText, "Gandhi Nagar")

	reasons := make(map[string]bool)
	for _, r := range res.RemovedLines {
		reasons[r.Reason] = true
	}
	assert.True(t, reasons[ReasonVendorAddress])
	assert.True(t, reasons[ReasonBuyerAddress])
}

func TestFilter_DetectsProductTable(t *testing.T) {
	res := Filter(sampleInvoice)
	assert.True(t, res.ProductTableDetected)

	none := Filter("Date: 12/05/2024\nTotal 100.00")
	assert.False(t, none.ProductTableDetected)
}

func TestFilter_EveryLineAccountedFor(t *testing.T) {
	res := Filter(sampleInvoice)

	assert.Equal(t, res.OriginalLineCount, res.FilteredLineCount+len(res.RemovedLines))
	assert.Equal(t, sampleInvoice, res.OriginalText)
}

func TestFilter_PreservesLineOrder(t *testing.T) {
	res := Filter(sampleInvoice)

	// Kept lines must be a subsequence of the original lines.
	original := strings.Split(sampleInvoice, "\n")
	kept := strings.Split(res.FilteredText, "\n")
	j := 0
	for _, line := range original {
		if j < len(kept) && line == kept[j] {
			j++
		}
	}
	assert.Equal(t, len(kept), j, "filtered lines are not in original order")
}

func TestFilter_RemovedReasonsRecorded(t *testing.T) {
	res := Filter(sampleInvoice)

	byLine := make(map[string]string)
	for _, r := range res.RemovedLines {
		byLine[strings.TrimSpace(r.Line)] = r.Reason
	}
	assert.Equal(t, ReasonMarketingCopy, byLine["Thank you, visit us again!"])
	assert.Equal(t, ReasonTermsConditions, byLine["Terms & Conditions apply"])
	assert.Equal(t, ReasonBankDetails, byLine["Bank Details: IFSC HDFC0001234"])
	assert.Equal(t, ReasonSignatory, byLine["Authorised Signatory"])
	assert.Equal(t, ReasonPunctuationOnly, byLine["//////"])
	assert.Equal(t, ReasonRepeatedChars, byLine["IIIIIIIIII"])
}

func TestFilter_EmptyInput(t *testing.T) {
	res := Filter("")

	assert.Equal(t, "", res.FilteredText)
	assert.Equal(t, 1, res.OriginalLineCount)
	require.Len(t, res.RemovedLines, 1)
	assert.Equal(t, ReasonPunctuationOnly, res.RemovedLines[0].Reason)
}

func TestHasRepeatedRun(t *testing.T) {
	assert.True(t, hasRepeatedRun("------", 6))
	assert.True(t, hasRepeatedRun("aaaaaaa", 6))
	assert.False(t, hasRepeatedRun("aaaaa", 6))
	assert.False(t, hasRepeatedRun("      ", 6), "whitespace runs are not artifacts")
	assert.False(t, hasRepeatedRun("abcdef", 6))
}

func TestIsGSTINLine(t *testing.T) {
	assert.True(t, isGSTINLine("GSTIN: 27AAPFU0939F1ZV"))
	assert.True(t, isGSTINLine("gstin 27aapfu0939f1zv"))
	assert.False(t, isGSTINLine("GSTIN: not-present"))
	assert.False(t, isGSTINLine("27AAPFU0939F1ZV"), "shape without the label is not enough")
}

func TestIsDateLine(t *testing.T) {
	assert.True(t, isDateLine("Date: 12/05/2024"))
	assert.True(t, isDateLine("Invoice Date 12-05-24"))
	assert.True(t, isDateLine("Date: 12 May 2024"))
	assert.False(t, isDateLine("Date: unknown"))
	assert.False(t, isDateLine("12/05/2024"), "shape without the label is not enough")
}
