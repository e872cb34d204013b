package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManifest(t *testing.T) {
	ds := testDataset(t)
	tables := Tables(ds)
	runID := NewRunID()
	_, err := uuid.Parse(runID)
	require.NoError(t, err)

	now := time.Date(2026, time.March, 1, 12, 30, 15, 500, time.UTC)
	m := NewManifest(runID, "sql", "out.sql", ds, tables, now)

	assert.Equal(t, uint64(11), m.Seed)
	assert.Equal(t, "2023-01-01", m.StartDate)
	assert.Equal(t, "2025-03-31", m.EndDate)
	assert.Equal(t, now.Truncate(time.Second), m.GeneratedAt)
	require.Len(t, m.Tables, len(tables))
	assert.Equal(t, TableCount{Table: TablePaymentTerms, Rows: len(ds.PaymentTerms)}, m.Tables[0])

	total := 0
	for _, tc := range m.Tables {
		total += tc.Rows
	}
	assert.Equal(t, total, m.TotalRows)
	assert.Equal(t, ds.PayablesCleared.Cleared+ds.ReceivablesCleared.Cleared, m.Cleared)
	assert.Equal(t, len(ds.PostingDocuments()), m.OpenItems+m.Cleared)

	var buf bytes.Buffer
	require.NoError(t, WriteManifest(&buf, m))
	assert.Contains(t, buf.String(), "run_id: "+runID)
	assert.Contains(t, buf.String(), "  - table: T052\n")

	decoded, err := ReadManifest(&buf)
	require.NoError(t, err)
	assert.Equal(t, m, decoded)
}

func TestManifestPath(t *testing.T) {
	assert.Equal(t, "out/data.sql.manifest.yaml", ManifestPath("out/data.sql"))
	assert.Equal(t, "s3://b/k.sql.manifest.yaml", ManifestPath("s3://b/k.sql"))
}
