package main

import (
	"fmt"

	"github.com/erp/sapgen/internal/infrastructure/config"
	"github.com/erp/sapgen/internal/infrastructure/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cli holds what every subcommand needs once the root has loaded configuration
type cli struct {
	cfgFile string
	cfg     *config.Config
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "sapgen",
		Short: "Generate a synthetic SAP-style financial dataset",
		Long: `sapgen generates vendors, customers, payment terms, purchase orders,
vendor invoices, billing documents and balanced accounting postings with
simulated payment clearing, and exports them as a relational SQL script
or an XLSX workbook.

Example Usage:
  sapgen generate                           # write sap_dummy_data.sql
  sapgen generate --seed 42 -o data.sql     # reproducible run
  sapgen generate -f xlsx -o s3://bucket/k  # workbook to a bucket
  sapgen verify data.sql                    # load into SQLite and check`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVarP(&c.cfgFile, "config", "c", "", "config file (default sapgen.{toml,yaml} in . or ./configs)")

	root.AddCommand(
		newGenerateCmd(c),
		newVerifyCmd(c),
		newTermsCmd(c),
		newVersionCmd(),
	)
	return root
}

func (c *cli) init() error {
	cfg, err := config.Load(c.cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: logger.DefaultConfig().TimeFormat,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	c.cfg = cfg
	c.logger = log.With(zap.String("app", cfg.App.Name), zap.String("env", cfg.App.Env))
	return nil
}
