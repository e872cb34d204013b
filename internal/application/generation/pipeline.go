package generation

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Stage names a step of the generation run
type Stage string

const (
	StageSettings       Stage = "settings"
	StageVendors        Stage = "vendors"
	StageCustomers      Stage = "customers"
	StagePaymentTerms   Stage = "payment_terms"
	StagePurchaseOrders Stage = "purchase_orders"
	StageVendorInvoices Stage = "vendor_invoices"
	StageSalesInvoices  Stage = "sales_invoices"
)

// Stages lists the stages in execution order
func Stages() []Stage {
	return []Stage{
		StageSettings,
		StageVendors,
		StageCustomers,
		StagePaymentTerms,
		StagePurchaseOrders,
		StageVendorInvoices,
		StageSalesInvoices,
	}
}

// String returns the string representation of the stage
func (s Stage) String() string {
	return string(s)
}

// StageError reports the stage a run failed in
type StageError struct {
	Stage Stage
	Err   error
}

// Error implements the error interface
func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error
func (e *StageError) Unwrap() error {
	return e.Err
}

// Observer is notified after each completed stage
type Observer interface {
	StageCompleted(stage Stage, records int, elapsed time.Duration)
}

// Pipeline runs all stages in order and assembles the dataset
type Pipeline struct {
	settings  Settings
	opts      []Option
	logger    *zap.Logger
	observers []Observer
}

// PipelineOption configures a Pipeline
type PipelineOption func(*Pipeline)

// WithPipelineLogger sets the logger of the pipeline and its generator
func WithPipelineLogger(logger *zap.Logger) PipelineOption {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithObserver registers a stage observer
func WithObserver(o Observer) PipelineOption {
	return func(p *Pipeline) {
		if o != nil {
			p.observers = append(p.observers, o)
		}
	}
}

// WithGeneratorOptions passes options through to the generator
func WithGeneratorOptions(opts ...Option) PipelineOption {
	return func(p *Pipeline) {
		p.opts = append(p.opts, opts...)
	}
}

// NewPipeline creates a pipeline for the given settings
func NewPipeline(settings Settings, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		settings: settings,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes every stage. The context is checked between stages.
func (p *Pipeline) Run(ctx context.Context) (*Dataset, error) {
	var (
		gen *Generator
		ds  = &Dataset{Settings: p.settings}
		vm  VendorMaster
	)

	steps := []struct {
		stage Stage
		run   func() (int, error)
	}{
		{StageSettings, func() (int, error) {
			var err error
			gen, err = NewGenerator(p.settings, append([]Option{WithLogger(p.logger)}, p.opts...)...)
			return 0, err
		}},
		{StageVendors, func() (int, error) {
			var err error
			vm, err = gen.GenerateVendors(p.settings.Counts.Vendors)
			ds.Vendors, ds.VendorBindings, ds.VendorProfiles = vm.Vendors, vm.Bindings, vm.Profiles
			return len(vm.Vendors) + len(vm.Bindings) + len(vm.Profiles), err
		}},
		{StageCustomers, func() (int, error) {
			var err error
			ds.Customers, err = gen.GenerateCustomers(p.settings.Counts.Customers)
			return len(ds.Customers), err
		}},
		{StagePaymentTerms, func() (int, error) {
			ds.PaymentTerms = gen.PaymentTerms().Terms()
			return len(ds.PaymentTerms), nil
		}},
		{StagePurchaseOrders, func() (int, error) {
			var err error
			ds.PurchaseOrders, err = gen.GeneratePurchaseOrders(vm.Vendors, p.settings.Counts.PurchaseOrders)
			return len(ds.PurchaseOrders), err
		}},
		{StageVendorInvoices, func() (int, error) {
			out, err := gen.GenerateVendorInvoices(ds.PurchaseOrders, p.settings.Counts.VendorInvoices)
			ds.VendorInvoices, ds.VendorPostings, ds.PayablesCleared = out.Invoices, out.Postings, out.Clearing
			return len(out.Invoices), err
		}},
		{StageSalesInvoices, func() (int, error) {
			out, err := gen.GenerateSalesInvoices(ds.Customers, p.settings.Counts.SalesInvoices)
			ds.SalesInvoices, ds.SalesPostings, ds.ReceivablesCleared = out.Invoices, out.Postings, out.Clearing
			return len(out.Invoices), err
		}},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, &StageError{Stage: step.stage, Err: err}
		}

		log := p.logger.With(zap.String("stage", step.stage.String()))
		log.Debug("Stage started")
		start := time.Now()

		records, err := step.run()
		if err != nil {
			log.Error("Stage failed", zap.Error(err))
			return nil, &StageError{Stage: step.stage, Err: err}
		}

		elapsed := time.Since(start)
		log.Info("Stage completed",
			zap.Int("records", records),
			zap.Duration("elapsed", elapsed),
		)
		for _, o := range p.observers {
			o.StageCompleted(step.stage, records, elapsed)
		}
	}

	if gen != nil {
		ds.Settings.Seed = gen.src.Seed()
	}
	return ds, nil
}
