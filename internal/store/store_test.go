package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoscan/invoscan/internal/extract"
	"github.com/invoscan/invoscan/internal/pipeline"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "scans.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func sampleResult(id string) *pipeline.ScanResult {
	return &pipeline.ScanResult{
		ScanID:       id,
		DocumentType: extract.DocumentInvoice,
		RawText:      "Invoice No: 1",
		Fields: map[string]extract.Field{
			string(extract.FieldInvoiceNumber): {
				Type:       extract.FieldInvoiceNumber,
				Value:      "1",
				Confidence: 0.9,
			},
		},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestSaveAndGet(t *testing.T) {
	st := openTestStore(t)
	res := sampleResult("scan-1")

	require.NoError(t, st.Save(res))

	got, err := st.Get("scan-1")
	require.NoError(t, err)
	assert.Equal(t, res.ScanID, got.ScanID)
	assert.Equal(t, res.DocumentType, got.DocumentType)
	assert.Equal(t, "1", got.Fields[string(extract.FieldInvoiceNumber)].Value)
}

func TestSave_RequiresScanID(t *testing.T) {
	st := openTestStore(t)
	assert.Error(t, st.Save(&pipeline.ScanResult{}))
	assert.Error(t, st.Save(nil))
}

func TestSave_ReplacesExisting(t *testing.T) {
	st := openTestStore(t)

	first := sampleResult("scan-1")
	require.NoError(t, st.Save(first))

	second := sampleResult("scan-1")
	second.RawText = "updated"
	require.NoError(t, st.Save(second))

	got, err := st.Get("scan-1")
	require.NoError(t, err)
	assert.Equal(t, "updated", got.RawText)

	all, err := st.List()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGet_Unknown(t *testing.T) {
	st := openTestStore(t)
	_, err := st.Get("missing")
	assert.Error(t, err)
}

func TestList(t *testing.T) {
	st := openTestStore(t)
	require.NoError(t, st.Save(sampleResult("scan-b")))
	require.NoError(t, st.Save(sampleResult("scan-a")))

	all, err := st.List()
	require.NoError(t, err)
	require.Len(t, all, 2)
	// bbolt iterates keys in byte order.
	assert.Equal(t, "scan-a", all[0].ScanID)
	assert.Equal(t, "scan-b", all[1].ScanID)
}

func TestDelete(t *testing.T) {
	st := openTestStore(t)
	require.NoError(t, st.Save(sampleResult("scan-1")))

	require.NoError(t, st.Delete("scan-1"))

	_, err := st.Get("scan-1")
	assert.Error(t, err)

	// Deleting an unknown ID is a no-op.
	assert.NoError(t, st.Delete("scan-1"))
}

func TestOpen_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "scans.db")
	st, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Close())
}
