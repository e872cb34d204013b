package export

import (
	"fmt"
	"io"
	"time"

	"github.com/erp/sapgen/internal/application/generation"
	"github.com/erp/sapgen/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// NewRunID returns a fresh identifier for one generation run
func NewRunID() string {
	return uuid.NewString()
}

// TableCount is the row count of one table
type TableCount struct {
	Table string `yaml:"table"`
	Rows  int    `yaml:"rows"`
}

// Manifest describes one export: how it was produced and what it contains
type Manifest struct {
	RunID       string                   `yaml:"run_id"`
	GeneratedAt time.Time                `yaml:"generated_at"`
	Format      string                   `yaml:"format"`
	Destination string                   `yaml:"destination"`
	Seed        uint64                   `yaml:"seed"`
	StartDate   string                   `yaml:"start_date"`
	EndDate     string                   `yaml:"end_date"`
	FocusYear   int                      `yaml:"focus_year"`
	Tables      []TableCount             `yaml:"tables"`
	TotalRows   int                      `yaml:"total_rows"`
	OpenItems   int                      `yaml:"open_items"`
	Cleared     int                      `yaml:"cleared_items"`
	Payables    generation.ClearingStats `yaml:"payables"`
	Receivables generation.ClearingStats `yaml:"receivables"`
}

// NewManifest summarizes a dataset and its tables
func NewManifest(runID, format, destination string, ds *generation.Dataset, tables []Table, now time.Time) Manifest {
	m := Manifest{
		RunID:       runID,
		GeneratedAt: now.UTC().Truncate(time.Second),
		Format:      format,
		Destination: destination,
		Seed:        ds.Settings.Seed,
		StartDate:   ds.Settings.StartDate.Format(valueobject.DateLayout),
		EndDate:     ds.Settings.EndDate.Format(valueobject.DateLayout),
		FocusYear:   ds.Settings.FocusYear,
		Tables:      make([]TableCount, 0, len(tables)),
		Payables:    ds.PayablesCleared,
		Receivables: ds.ReceivablesCleared,
	}
	for _, t := range tables {
		m.Tables = append(m.Tables, TableCount{Table: t.Name, Rows: len(t.Rows)})
		m.TotalRows += len(t.Rows)
	}
	m.OpenItems, m.Cleared = ds.OpenItemCounts()
	return m
}

// ManifestPath returns the manifest location for an export destination
func ManifestPath(destination string) string {
	return destination + ".manifest.yaml"
}

// WriteManifest encodes the manifest as YAML
func WriteManifest(w io.Writer, m Manifest) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	return enc.Close()
}

// ReadManifest decodes a manifest written by WriteManifest
func ReadManifest(r io.Reader) (Manifest, error) {
	var m Manifest
	if err := yaml.NewDecoder(r).Decode(&m); err != nil {
		return Manifest{}, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return m, nil
}
