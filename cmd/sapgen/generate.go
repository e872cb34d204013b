package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/erp/sapgen/internal/application/generation"
	"github.com/erp/sapgen/internal/infrastructure/config"
	"github.com/erp/sapgen/internal/infrastructure/export"
	"github.com/erp/sapgen/internal/infrastructure/logger"
	"github.com/erp/sapgen/internal/infrastructure/metrics"
	"github.com/erp/sapgen/internal/infrastructure/persistence"
	"github.com/erp/sapgen/internal/infrastructure/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type generateFlags struct {
	seed        uint64
	output      string
	format      string
	manifest    bool
	metricsFile string
	dryRun      bool
	verify      bool
	quiet       bool
}

func newGenerateCmd(c *cli) *cobra.Command {
	f := &generateFlags{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the dataset and export it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := *c.cfg
			f.apply(cmd, &cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			var sink storage.Sink
			if f.dryRun {
				sink = storage.NewMemorySink()
			}
			summary := cmd.OutOrStdout()
			if f.quiet {
				summary = io.Discard
			} else if cfg.Export.Destination == storage.StdoutKey {
				summary = cmd.ErrOrStderr()
			}

			_, err := runGenerate(cmd.Context(), &cfg, generateOptions{
				sink:    sink,
				verify:  f.verify,
				logger:  c.logger,
				summary: summary,
			})
			return err
		},
	}

	flags := cmd.Flags()
	flags.Uint64Var(&f.seed, "seed", 0, "random seed, 0 draws one (overrides generation.seed)")
	flags.StringVarP(&f.output, "output", "o", "", "destination file, - for stdout or s3://bucket/key")
	flags.StringVarP(&f.format, "format", "f", "", "export format: sql or xlsx")
	flags.BoolVar(&f.manifest, "manifest", false, "write a YAML run manifest next to the export")
	flags.StringVar(&f.metricsFile, "metrics-file", "", "write run metrics to a Prometheus textfile")
	flags.BoolVar(&f.dryRun, "dry-run", false, "generate and render but do not store the export")
	flags.BoolVar(&f.verify, "verify", false, "load the SQL export into SQLite and check it")
	flags.BoolVarP(&f.quiet, "quiet", "q", false, "do not print the summary")
	return cmd
}

// apply copies the flags that were set onto cfg
func (f *generateFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Generation.Seed = f.seed
	}
	if flags.Changed("format") {
		previous := cfg.Export.Format
		cfg.Export.Format = strings.ToLower(f.format)
		if cfg.Export.Destination == config.DefaultDestination(previous) {
			cfg.Export.Destination = config.DefaultDestination(cfg.Export.Format)
		}
	}
	if flags.Changed("output") {
		cfg.Export.Destination = f.output
	}
	if flags.Changed("manifest") {
		cfg.Export.Manifest = f.manifest
	}
	if flags.Changed("metrics-file") {
		cfg.Export.MetricsFile = f.metricsFile
	}
}

type generateOptions struct {
	sink    storage.Sink // nil opens the sink of the destination
	verify  bool
	logger  *zap.Logger
	summary io.Writer
	now     func() time.Time
}

// runGenerate generates, renders and stores one dataset and returns its manifest
func runGenerate(ctx context.Context, cfg *config.Config, opts generateOptions) (*export.Manifest, error) {
	if opts.logger == nil {
		opts.logger = zap.NewNop()
	}
	if opts.summary == nil {
		opts.summary = io.Discard
	}
	if opts.now == nil {
		opts.now = time.Now
	}

	runID := export.NewRunID()
	ctx, log := logger.WithRunID(ctx, opts.logger, runID)

	dest, err := storage.ParseDestination(cfg.Export.Destination)
	if err != nil {
		return nil, err
	}

	recorder := metrics.NewRecorder()
	started := opts.now()
	ds, err := generation.NewPipeline(cfg.Generation,
		generation.WithPipelineLogger(log),
		generation.WithObserver(recorder),
	).Run(ctx)
	if err != nil {
		return nil, err
	}

	tables := export.Tables(ds)
	var buf bytes.Buffer
	contentType := storage.ContentTypeSQL
	switch cfg.Export.Format {
	case config.FormatXLSX:
		contentType = storage.ContentTypeXLSX
		err = export.Workbook(&buf, ds)
	default:
		err = export.NewSQLWriter(export.WithSQLLogger(log)).Write(&buf, ds)
	}
	if err != nil {
		return nil, err
	}

	if opts.verify {
		if err := verifyScript(ctx, cfg.Export.Format, buf.String(), ds.Settings.EndDate); err != nil {
			return nil, err
		}
	}

	sink := opts.sink
	if sink == nil {
		if sink, err = storage.Open(ctx, dest, &cfg.Storage, log); err != nil {
			return nil, err
		}
	}
	if err := sink.Put(ctx, dest.Key, buf.Bytes(), contentType); err != nil {
		return nil, err
	}

	manifest := export.NewManifest(runID, cfg.Export.Format, dest.String(), ds, tables, opts.now())
	if cfg.Export.Manifest {
		var mbuf bytes.Buffer
		if err := export.WriteManifest(&mbuf, manifest); err != nil {
			return nil, err
		}
		if err := sink.Put(ctx, export.ManifestPath(dest.Key), mbuf.Bytes(), storage.ContentTypeManifest); err != nil {
			return nil, err
		}
	}

	recorder.RecordDataset(runID, ds)
	for _, tc := range manifest.Tables {
		recorder.RecordTable(tc.Table, tc.Rows)
	}
	recorder.RecordExport(cfg.Export.Format, buf.Len())
	if cfg.Export.MetricsFile != "" {
		if err := recorder.WriteToTextfile(cfg.Export.MetricsFile); err != nil {
			return nil, err
		}
	}

	log.Info("Dataset exported",
		zap.String("destination", dest.String()),
		zap.String("format", cfg.Export.Format),
		zap.Int("rows", manifest.TotalRows),
		zap.Int("bytes", buf.Len()),
		zap.Uint64("seed", ds.Settings.Seed),
		zap.Duration("elapsed", opts.now().Sub(started)),
	)

	printSummary(opts.summary, dest.String(), manifest, ds)
	return &manifest, nil
}

// verifyScript checks a rendered SQL script against an in-memory SQLite database
func verifyScript(ctx context.Context, format, script string, end time.Time) error {
	if format != config.FormatSQL {
		return fmt.Errorf("--verify needs the %s format, got %s", config.FormatSQL, format)
	}
	db, err := persistence.NewDatabase(persistence.InMemory)
	if err != nil {
		return err
	}
	defer db.Close()

	report, err := persistence.NewVerifier(db, logger.L(ctx)).Verify(ctx, script, end)
	if err != nil {
		return err
	}
	return report.Err()
}
