package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/sapgen/internal/application/generation"
	"github.com/erp/sapgen/internal/domain/shared/valueobject"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig
	Log        LogConfig
	Generation generation.Settings
	Export     ExportConfig
	Storage    StorageConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// Export formats
const (
	FormatSQL  = "sql"
	FormatXLSX = "xlsx"
)

// DefaultDestination is the export file used when none is configured
func DefaultDestination(format string) string {
	return "sap_dummy_data." + format
}

// ExportConfig controls where and how the dataset is written
type ExportConfig struct {
	Format      string // sql, xlsx
	Destination string // file path, "-" for stdout, or s3://bucket/key
	Manifest    bool   // write <destination>.manifest.yaml next to the dump
	MetricsFile string // Prometheus textfile path, empty to skip
}

// StorageConfig holds S3-compatible object storage settings
type StorageConfig struct {
	Endpoint     string // empty uses the AWS endpoint resolution
	Region       string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
}

// Load loads configuration from a TOML or YAML file and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with SAPGEN_ prefix (e.g., SAPGEN_GENERATION_SEED)
// 2. the file given by path, or sapgen.{toml,yaml} in . or ./configs
// 3. Built-in defaults
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("sapgen")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("SAPGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	gen, err := loadGeneration(v)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Generation: gen,
		Export: ExportConfig{
			Format:      strings.ToLower(v.GetString("export.format")),
			Destination: v.GetString("export.destination"),
			Manifest:    v.GetBool("export.manifest"),
			MetricsFile: v.GetString("export.metrics_file"),
		},
		Storage: StorageConfig{
			Endpoint:     v.GetString("storage.endpoint"),
			Region:       v.GetString("storage.region"),
			AccessKey:    v.GetString("storage.access_key"),
			SecretKey:    v.GetString("storage.secret_key"),
			UsePathStyle: v.GetBool("storage.use_path_style"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadGeneration starts from the default profile and overrides what is set.
// Sections are decoded over the defaults field by field, but the region,
// account, currency and payment term tables replace the defaults entirely.
// Payment term codes are upper-cased because viper folds map keys to lower case.
func loadGeneration(v *viper.Viper) (generation.Settings, error) {
	s := generation.DefaultSettings()

	if v.IsSet("generation.seed") {
		s.Seed = v.GetUint64("generation.seed")
	}
	dates := []struct {
		key string
		dst *time.Time
	}{
		{"generation.start_date", &s.StartDate},
		{"generation.end_date", &s.EndDate},
	}
	for _, d := range dates {
		if !v.IsSet(d.key) {
			continue
		}
		t, err := dateSetting(v, d.key)
		if err != nil {
			return s, fmt.Errorf("%s: %w", d.key, err)
		}
		*d.dst = t
	}
	if v.IsSet("generation.focus_year") {
		s.FocusYear = v.GetInt("generation.focus_year")
	}
	if v.IsSet("generation.focus_weight") {
		s.FocusWeight = v.GetFloat64("generation.focus_weight")
	}

	counts := map[string]*int{
		"generation.counts.vendors":         &s.Counts.Vendors,
		"generation.counts.customers":       &s.Counts.Customers,
		"generation.counts.purchase_orders": &s.Counts.PurchaseOrders,
		"generation.counts.vendor_invoices": &s.Counts.VendorInvoices,
		"generation.counts.sales_invoices":  &s.Counts.SalesInvoices,
	}
	for key, dst := range counts {
		if v.IsSet(key) {
			*dst = v.GetInt(key)
		}
	}

	tables := []struct {
		key string
		dst any
	}{
		{"generation.rates", &s.Rates},
		{"generation.payables", &s.Payables},
		{"generation.receivables", &s.Receivables},
	}
	for _, tbl := range tables {
		if !v.IsSet(tbl.key) {
			continue
		}
		if err := v.UnmarshalKey(tbl.key, tbl.dst); err != nil {
			return s, fmt.Errorf("%s: %w", tbl.key, err)
		}
	}

	if v.IsSet("generation.regions") {
		s.Regions = nil
		if err := v.UnmarshalKey("generation.regions", &s.Regions); err != nil {
			return s, fmt.Errorf("generation.regions: %w", err)
		}
	}
	if v.IsSet("generation.accounts") {
		s.Accounts = generation.Accounts{}
		if err := v.UnmarshalKey("generation.accounts", &s.Accounts); err != nil {
			return s, fmt.Errorf("generation.accounts: %w", err)
		}
	}
	if v.IsSet("generation.currencies") {
		s.Currencies = v.GetStringSlice("generation.currencies")
	}
	if v.IsSet("generation.payment_terms") {
		raw := map[string]int{}
		if err := v.UnmarshalKey("generation.payment_terms", &raw); err != nil {
			return s, fmt.Errorf("generation.payment_terms: %w", err)
		}
		s.PaymentTerms = make(map[string]int, len(raw))
		for code, days := range raw {
			s.PaymentTerms[strings.ToUpper(code)] = days
		}
	}

	return s, nil
}

// dateSetting reads a calendar date. YAML decodes an unquoted 2023-01-01 to a
// time.Time, which is kept as the written calendar day; everything else goes
// through its string form.
func dateSetting(v *viper.Viper, key string) (time.Time, error) {
	if t, ok := v.Get(key).(time.Time); ok {
		return valueobject.Date(t.Year(), t.Month(), t.Day()), nil
	}
	return valueobject.ParseDate(v.GetString(key))
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "sapgen"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stderr"
	}
	if cfg.Export.Format == "" {
		cfg.Export.Format = FormatSQL
	}
	if cfg.Export.Destination == "" {
		cfg.Export.Destination = DefaultDestination(cfg.Export.Format)
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "us-east-1"
	}
}

// Validate checks the export and storage sections, then the generation settings
func (c *Config) Validate() error {
	switch c.Export.Format {
	case FormatSQL, FormatXLSX:
	default:
		return fmt.Errorf("export.format must be %q or %q, got %q", FormatSQL, FormatXLSX, c.Export.Format)
	}
	if c.Export.Destination == "-" && c.Export.Manifest {
		return fmt.Errorf("export.manifest requires a file or s3 destination")
	}
	if strings.HasPrefix(c.Export.Destination, "s3://") && (c.Storage.AccessKey == "") != (c.Storage.SecretKey == "") {
		return fmt.Errorf("storage.access_key and storage.secret_key must be set together")
	}
	return c.Generation.Validate()
}
