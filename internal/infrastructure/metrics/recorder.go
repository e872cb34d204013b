// Package metrics records generation runs as Prometheus metrics. Runs are
// short-lived, so metrics are written to a node_exporter textfile instead of
// being scraped.
package metrics

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/erp/sapgen/internal/application/generation"
	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus metric names.
const (
	MetricStageDurationSeconds = "sapgen_stage_duration_seconds"
	MetricStageRecords         = "sapgen_stage_records"
	MetricTableRows            = "sapgen_table_rows"
	MetricClearingItems        = "sapgen_clearing_items"
	MetricExportBytes          = "sapgen_export_bytes"
	MetricRunInfo              = "sapgen_run_info"
)

var _ generation.Observer = (*Recorder)(nil)

// Recorder collects the metrics of one run.
//
// Thread Safety: Safe for concurrent use by multiple goroutines.
type Recorder struct {
	mu       sync.Mutex
	registry *prometheus.Registry

	stageDuration *prometheus.GaugeVec
	stageRecords  *prometheus.GaugeVec
	tableRows     *prometheus.GaugeVec
	clearingItems *prometheus.GaugeVec
	exportBytes   *prometheus.GaugeVec
	runInfo       *prometheus.GaugeVec
}

// NewRecorder creates a recorder with its own registry
func NewRecorder() *Recorder {
	r := &Recorder{registry: prometheus.NewRegistry()}

	r.stageDuration = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: MetricStageDurationSeconds,
		Help: "Wall time of each generation stage",
	}, []string{"stage"})
	r.stageRecords = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: MetricStageRecords,
		Help: "Records produced by each generation stage",
	}, []string{"stage"})
	r.tableRows = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: MetricTableRows,
		Help: "Rows exported per table",
	}, []string{"table"})
	r.clearingItems = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: MetricClearingItems,
		Help: "Open items by ledger side and payment simulation outcome",
	}, []string{"side", "outcome"})
	r.exportBytes = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: MetricExportBytes,
		Help: "Size of the exported file",
	}, []string{"format"})
	r.runInfo = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: MetricRunInfo,
		Help: "Constant 1, labelled with the run parameters",
	}, []string{"run_id", "seed", "focus_year"})

	r.registry.MustRegister(r.stageDuration, r.stageRecords, r.tableRows, r.clearingItems, r.exportBytes, r.runInfo)
	return r
}

// StageCompleted implements generation.Observer
func (r *Recorder) StageCompleted(stage generation.Stage, records int, elapsed time.Duration) {
	r.stageDuration.WithLabelValues(stage.String()).Set(elapsed.Seconds())
	r.stageRecords.WithLabelValues(stage.String()).Set(float64(records))
}

// RecordDataset records the run parameters and the clearing outcomes
func (r *Recorder) RecordDataset(runID string, ds *generation.Dataset) {
	r.runInfo.WithLabelValues(runID, strconv.FormatUint(ds.Settings.Seed, 10), strconv.Itoa(ds.Settings.FocusYear)).Set(1)

	sides := []struct {
		name  string
		stats generation.ClearingStats
	}{
		{"payables", ds.PayablesCleared},
		{"receivables", ds.ReceivablesCleared},
	}
	for _, s := range sides {
		r.clearingItems.WithLabelValues(s.name, "not_attempted").Set(float64(s.stats.NotAttempted))
		r.clearingItems.WithLabelValues(s.name, "cleared").Set(float64(s.stats.Cleared))
		r.clearingItems.WithLabelValues(s.name, "late").Set(float64(s.stats.Late))
		r.clearingItems.WithLabelValues(s.name, "out_of_range").Set(float64(s.stats.OutOfRange))
	}
}

// RecordTable records the row count of an exported table
func (r *Recorder) RecordTable(table string, rows int) {
	r.tableRows.WithLabelValues(table).Set(float64(rows))
}

// RecordExport records the size of the exported file
func (r *Recorder) RecordExport(format string, size int) {
	r.exportBytes.WithLabelValues(format).Set(float64(size))
}

// Registry returns the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteToTextfile writes all metrics in the text exposition format to path,
// atomically replacing any previous file.
func (r *Recorder) WriteToTextfile(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
