package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoscan/invoscan/internal/recognize"
	"github.com/invoscan/invoscan/internal/utils"
)

const sampleText = `TAX INVOICE
Invoice No: INV-2024-001
Date: 12/05/2024
GSTIN: 27AAPFU0939F1ZV
Sold by: Mobile World
Taxable Value: 12711.02
CGST 9% 1143.99
SGST 9% 1143.99
Total Amount: 14999.00
Phone: 9876543210
Email: billing@mobileworld.in`

func extractAll(t *testing.T, text string, blocks []recognize.Block) map[string]Field {
	t.Helper()
	return NewExtractor(nil).Extract(blocks, text, DocumentInvoice, DefaultOptions())
}

func TestExtract_FullInvoice(t *testing.T) {
	fields := extractAll(t, sampleText, nil)

	want := map[string]string{
		string(FieldInvoiceNumber): "INV-2024-001",
		string(FieldInvoiceDate):   "12/05/2024",
		string(FieldGSTNumber):     "27AAPFU0939F1ZV",
		string(FieldVendorName):    "Mobile World",
		string(FieldTaxableValue):  "12711.02",
		string(FieldCGSTAmount):    "1143.99",
		string(FieldSGSTAmount):    "1143.99",
		string(FieldTotalAmount):   "14999.00",
		string(FieldPhoneNumber):   "9876543210",
		string(FieldEmail):         "billing@mobileworld.in",
	}
	for name, value := range want {
		f, ok := fields[name]
		require.True(t, ok, "missing field %s", name)
		assert.Equal(t, value, f.Value, "field %s", name)
	}
}

func TestExtract_FullMatchConfidence(t *testing.T) {
	fields := extractAll(t, sampleText, nil)

	assert.Equal(t, 0.9, fields[string(FieldInvoiceNumber)].Confidence)
	assert.Equal(t, 0.9, fields[string(FieldInvoiceDate)].Confidence)
	assert.Equal(t, 0.9, fields[string(FieldGSTNumber)].Confidence)
	assert.Equal(t, 0.9, fields[string(FieldTotalAmount)].Confidence)
	// Vendor name has no canonical shape to check against.
	assert.Equal(t, 0.7, fields[string(FieldVendorName)].Confidence)
}

func TestExtract_LooseMatchConfidence(t *testing.T) {
	// Lowercase GSTIN value fails the canonical uppercase shape.
	fields := extractAll(t, "GSTIN: 27aapfu0939f1zv", nil)

	f, ok := fields[string(FieldGSTNumber)]
	require.True(t, ok)
	assert.Equal(t, 0.6, f.Confidence)
}

func TestExtract_MissingFieldsAbsent(t *testing.T) {
	fields := extractAll(t, "Date: 12/05/2024", nil)

	_, ok := fields[string(FieldGSTNumber)]
	assert.False(t, ok)
	_, ok = fields[string(FieldTotalAmount)]
	assert.False(t, ok)
}

func TestExtract_SourceBlocks(t *testing.T) {
	blocks := []recognize.Block{
		{ID: "block-0000", Text: "Invoice No: INV-2024-001", Box: utils.NewBoxPtr(10, 10, 210, 30)},
		{ID: "block-0001", Text: "something else", Box: utils.NewBoxPtr(10, 40, 210, 60)},
	}

	fields := extractAll(t, "Invoice No: INV-2024-001", blocks)

	f := fields[string(FieldInvoiceNumber)]
	require.Equal(t, []string{"block-0000"}, f.SourceBlocks)
	require.NotNil(t, f.Box)
	assert.Equal(t, 10.0, f.Box.Left)
	assert.Equal(t, 210.0, f.Box.Right)
}

func TestExtract_KeyValueFallback(t *testing.T) {
	// "CGST 9% 120.00" has no amount the pattern path accepts next to the
	// label, so the key-value pass supplies the value after the colon-less
	// label: the first token is "9" because % stops the capture.
	blocks := []recognize.Block{{ID: "b0", Text: "CGST 9% 120.00"}}

	fields := NewExtractor(nil).Extract(blocks, "", DocumentInvoice, DefaultOptions())

	f, ok := fields[string(FieldCGSTAmount)]
	require.True(t, ok)
	assert.Equal(t, "9", f.Value)
	assert.Equal(t, 0.75, f.Confidence)
}

func TestExtract_KeyValueNeverOverwrites(t *testing.T) {
	blocks := []recognize.Block{{ID: "b0", Text: "Invoice No: OTHER-99"}}

	fields := extractAll(t, "Invoice No: INV-2024-001", blocks)

	assert.Equal(t, "INV-2024-001", fields[string(FieldInvoiceNumber)].Value)
}

func TestExtract_TableRowQuantity(t *testing.T) {
	blocks := []recognize.Block{
		{ID: "b0", Text: "1", Box: utils.NewBoxPtr(10, 100, 40, 120)},
		{ID: "b1", Text: "14999.00", Box: utils.NewBoxPtr(100, 105, 200, 125)},
		{ID: "b2", Text: "14,999.00", Box: utils.NewBoxPtr(300, 110, 400, 130)},
	}

	fields := NewExtractor(nil).Extract(blocks, "", DocumentInvoice, DefaultOptions())

	f, ok := fields[string(FieldQuantity)]
	require.True(t, ok)
	assert.Equal(t, "1", f.Value)
	assert.Equal(t, 0.7, f.Confidence)
	assert.Equal(t, []string{"b0"}, f.SourceBlocks)
}

func TestExtract_TableRowNeedsThreeNumericColumns(t *testing.T) {
	blocks := []recognize.Block{
		{ID: "b0", Text: "1", Box: utils.NewBoxPtr(10, 100, 40, 120)},
		{ID: "b1", Text: "14999.00", Box: utils.NewBoxPtr(100, 105, 200, 125)},
	}

	fields := NewExtractor(nil).Extract(blocks, "", DocumentInvoice, DefaultOptions())

	_, ok := fields[string(FieldQuantity)]
	assert.False(t, ok)
}

func TestExtract_ReceiptFields(t *testing.T) {
	fields := NewExtractor(nil).Extract(nil,
		"Invoice No: 771\nMerchant: QuickMart\nPaid by: UPI\nTotal Amount: 450.00",
		DocumentReceipt, DefaultOptions())

	assert.Equal(t, "QuickMart", fields[string(FieldMerchantName)].Value)
	assert.Equal(t, "UPI", fields[string(FieldPaymentMethod)].Value)
	assert.Equal(t, "450.00", fields[string(FieldTotalAmount)].Value)
	// Vendor name is not part of the receipt field set.
	_, ok := fields[string(FieldVendorName)]
	assert.False(t, ok)
}

type stubDetector struct{ fields map[string]Field }

func (s stubDetector) Detect([]recognize.Block, DocumentType) map[string]Field { return s.fields }

func TestExtract_SmartDetectionTakesPrecedence(t *testing.T) {
	smart := stubDetector{fields: map[string]Field{
		string(FieldInvoiceNumber): {Type: FieldInvoiceNumber, Value: "SMART-1", Confidence: 0.95},
	}}
	opts := DefaultOptions()
	opts.EnableSmartDetection = true

	fields := NewExtractor(smart).Extract(nil, "Invoice No: INV-2024-001", DocumentInvoice, opts)

	assert.Equal(t, "SMART-1", fields[string(FieldInvoiceNumber)].Value)
}

func TestProductLines_BrandAndStorageRequired(t *testing.T) {
	text := `Description of Goods
Redmi Note 12 128GB Blue 1 pcs 14999.00 14999.00
Charger Cable 299.00
Samsung Galaxy M14 6GB
Total 15298.00`

	lines := ProductLines(text)

	require.Len(t, lines, 2)
	assert.Contains(t, lines[0].RawText, "Redmi Note 12")
	assert.Equal(t, "1", lines[0].Quantity)
	assert.Equal(t, "14999.00", lines[0].Rate)
	assert.Equal(t, "14999.00", lines[0].Amount)
	assert.Contains(t, lines[1].RawText, "Samsung Galaxy")
	assert.Empty(t, lines[1].Quantity)
}

func TestProductLines_NoHeadingScansWholeText(t *testing.T) {
	text := "Invoice No: 12345\nDate: 12/05/2024\nRedmi Note 12 128GB\nCGST 9% 120.00"

	lines := ProductLines(text)

	require.Len(t, lines, 1)
	assert.Contains(t, lines[0].RawText, "Redmi")
	assert.Contains(t, lines[0].RawText, "128GB")
}

func TestExtract_ShortInvoiceWithoutHeadings(t *testing.T) {
	text := "Invoice No: 12345\nDate: 12/05/2024\nRedmi Note 12 128GB\nCGST 9% 120.00"

	fields := NewExtractor(nil).Extract(nil, text, DocumentInvoice, DefaultOptions())

	assert.Equal(t, "12345", fields[string(FieldInvoiceNumber)].Value)
	assert.Equal(t, "12/05/2024", fields[string(FieldInvoiceDate)].Value)

	// The CGST pattern skips the percentage and captures the amount, so
	// the key-value fallback never fires for this field.
	cgst := fields[string(FieldCGSTAmount)]
	assert.Equal(t, "120.00", cgst.Value)
	assert.InDelta(t, 0.9, cgst.Confidence, 1e-9)
}

func TestProductLines_OnlyInsideSection(t *testing.T) {
	text := `Redmi Note 12 128GB before the table
Description of Goods
Samsung Galaxy M14 64GB
Total 15298.00
Redmi Note 12 128GB after the table`

	lines := ProductLines(text)

	require.Len(t, lines, 1)
	assert.Contains(t, lines[0].RawText, "Samsung Galaxy")
}

func TestExpectedFields_Counts(t *testing.T) {
	assert.Len(t, ExpectedFields(DocumentInvoice), 10)
	assert.Len(t, ExpectedFields(DocumentReceipt), 6)
}
