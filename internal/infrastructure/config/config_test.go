package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/erp/sapgen/internal/domain/shared"
	"github.com/erp/sapgen/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when nothing is configured", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)

		assert.Equal(t, "sapgen", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "stderr", cfg.Log.Output)
		assert.Equal(t, FormatSQL, cfg.Export.Format)
		assert.Equal(t, "sap_dummy_data.sql", cfg.Export.Destination)
		assert.Equal(t, "us-east-1", cfg.Storage.Region)

		assert.Equal(t, 2024, cfg.Generation.FocusYear)
		assert.Equal(t, 1500, cfg.Generation.Counts.PurchaseOrders)
		assert.Len(t, cfg.Generation.Regions, 5)
	})

	t.Run("loads values from environment variables with SAPGEN prefix", func(t *testing.T) {
		t.Setenv("SAPGEN_GENERATION_SEED", "42")
		t.Setenv("SAPGEN_GENERATION_COUNTS_VENDORS", "7")
		t.Setenv("SAPGEN_GENERATION_START_DATE", "2022-01-01")
		t.Setenv("SAPGEN_EXPORT_FORMAT", "XLSX")
		t.Setenv("SAPGEN_LOG_LEVEL", "debug")

		cfg, err := Load("")
		require.NoError(t, err)

		assert.Equal(t, uint64(42), cfg.Generation.Seed)
		assert.Equal(t, 7, cfg.Generation.Counts.Vendors)
		assert.Equal(t, 150, cfg.Generation.Counts.Customers)
		assert.Equal(t, valueobject.Date(2022, time.January, 1), cfg.Generation.StartDate)
		assert.Equal(t, FormatXLSX, cfg.Export.Format)
		assert.Equal(t, "sap_dummy_data.xlsx", cfg.Export.Destination)
		assert.Equal(t, "debug", cfg.Log.Level)
	})

	t.Run("loads a toml file", func(t *testing.T) {
		path := writeFile(t, "sapgen.toml", `
[generation]
seed = 7
focus_year = 2023
focus_weight = 0.5
currencies = ["EUR", "USD"]

[generation.counts]
vendors = 3

[generation.rates]
sales_released = 0.5

[generation.payment_terms]
Z030 = 30
Z060 = 60

[[generation.regions]]
name = "EU"
countries = ["DE"]
company_codes = ["2000"]
cost_centers = ["2010"]

[export]
destination = "s3://bucket/out.sql"
manifest = true

[storage]
access_key = "key"
secret_key = "secret"
use_path_style = true
`)

		cfg, err := Load(path)
		require.NoError(t, err)

		g := cfg.Generation
		assert.Equal(t, uint64(7), g.Seed)
		assert.Equal(t, 2023, g.FocusYear)
		assert.Equal(t, 0.5, g.FocusWeight)
		assert.Equal(t, 3, g.Counts.Vendors)
		assert.Equal(t, []string{"EUR", "USD"}, g.Currencies)
		assert.Equal(t, map[string]int{"Z030": 30, "Z060": 60}, g.PaymentTerms)
		require.Len(t, g.Regions, 1)
		assert.Equal(t, "EU", g.Regions[0].Name)
		assert.Equal(t, []string{"2000"}, g.Regions[0].CompanyCodes)

		assert.Equal(t, 0.5, g.Rates.SalesReleased)
		assert.Equal(t, 0.05, g.Rates.VendorPostingBlock, "unset rates keep their defaults")

		assert.Equal(t, "s3://bucket/out.sql", cfg.Export.Destination)
		assert.True(t, cfg.Export.Manifest)
		assert.True(t, cfg.Storage.UsePathStyle)
	})

	t.Run("loads a yaml file", func(t *testing.T) {
		path := writeFile(t, "sapgen.yaml", `
generation:
  payables:
    attempt_rate: 0.5
    on_time_weight: 1
    late_weight: 1
    on_time_lead_days: 5
    on_time_grace_days: 10
    late_from_days: 11
    late_to_days: 60
    document_prefix: PAY
export:
  metrics_file: metrics.prom
`)

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 0.5, cfg.Generation.Payables.AttemptRate)
		assert.Equal(t, "metrics.prom", cfg.Export.MetricsFile)
	})

	t.Run("loads unquoted and quoted yaml dates", func(t *testing.T) {
		path := writeFile(t, "sapgen.yaml", `
generation:
  start_date: 2022-02-01
  end_date: "2024-06-30"
  focus_year: 2023
`)

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, valueobject.Date(2022, time.February, 1), cfg.Generation.StartDate)
		assert.Equal(t, valueobject.Date(2024, time.June, 30), cfg.Generation.EndDate)
		assert.Equal(t, time.UTC, cfg.Generation.StartDate.Location())
	})

	t.Run("loads toml dates", func(t *testing.T) {
		path := writeFile(t, "sapgen.toml", `
[generation]
start_date = 2022-02-01
end_date = "2024-06-30"
focus_year = 2023
`)

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, valueobject.Date(2022, time.February, 1), cfg.Generation.StartDate)
		assert.Equal(t, valueobject.Date(2024, time.June, 30), cfg.Generation.EndDate)
	})

	t.Run("rejects a malformed date", func(t *testing.T) {
		path := writeFile(t, "sapgen.yaml", "generation:\n  start_date: first of may\n")

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "generation.start_date")
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
		assert.Error(t, err)
	})
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
		target  error
	}{
		{
			name:    "unknown export format",
			env:     map[string]string{"SAPGEN_EXPORT_FORMAT": "csv"},
			wantErr: "export.format",
		},
		{
			name:    "manifest on stdout",
			env:     map[string]string{"SAPGEN_EXPORT_DESTINATION": "-", "SAPGEN_EXPORT_MANIFEST": "true"},
			wantErr: "export.manifest",
		},
		{
			name:    "half of the s3 credentials",
			env:     map[string]string{"SAPGEN_EXPORT_DESTINATION": "s3://b/k", "SAPGEN_STORAGE_ACCESS_KEY": "k"},
			wantErr: "storage.access_key",
		},
		{
			name:    "bad date",
			env:     map[string]string{"SAPGEN_GENERATION_END_DATE": "31/03/2025"},
			wantErr: "generation.end_date",
		},
		{
			name:   "inconsistent generation settings",
			env:    map[string]string{"SAPGEN_GENERATION_FOCUS_YEAR": "2030"},
			target: shared.ErrConfigInconsistent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			require.Error(t, err)
			if tt.wantErr != "" {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
			if tt.target != nil {
				assert.True(t, errors.Is(err, tt.target))
			}
		})
	}
}
