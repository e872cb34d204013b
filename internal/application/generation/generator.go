// Package generation derives the synthetic ERP dataset: master data first,
// then purchase orders, vendor invoices and sales invoices with their
// balanced postings. Every stage draws from one seeded Source.
package generation

import (
	"fmt"
	"time"

	"github.com/erp/sapgen/internal/domain/finance"
	"github.com/erp/sapgen/internal/domain/shared"
	"github.com/erp/sapgen/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// Generator runs the individual generation stages
type Generator struct {
	settings   Settings
	src        *Source
	terms      *finance.PaymentTermCatalog
	regions    map[string]Region
	currencies []valueobject.Currency
	logger     *zap.Logger
}

// Option configures a Generator
type Option func(*Generator)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithSource replaces the source derived from Settings.Seed
func WithSource(src *Source) Option {
	return func(g *Generator) {
		if src != nil {
			g.src = src
		}
	}
}

// NewGenerator validates the settings and builds the payment term catalog.
// Invalid settings fail with shared.ErrConfigInconsistent.
func NewGenerator(settings Settings, opts ...Option) (*Generator, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	terms, err := finance.NewPaymentTermCatalog(settings.PaymentTerms)
	if err != nil {
		return nil, err
	}

	g := &Generator{
		settings: settings,
		terms:    terms,
		regions:  make(map[string]Region, len(settings.Regions)),
		logger:   zap.NewNop(),
	}
	for _, r := range settings.Regions {
		g.regions[r.Name] = r
	}
	for _, code := range settings.Currencies {
		c, err := valueobject.ParseCurrency(code)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", shared.ErrConfigInconsistent, err.Error())
		}
		g.currencies = append(g.currencies, c)
	}

	for _, opt := range opts {
		opt(g)
	}
	if g.src == nil {
		g.src = NewSource(settings.Seed)
	}
	return g, nil
}

// Settings returns the settings the generator was built with
func (g *Generator) Settings() Settings {
	return g.settings
}

// PaymentTerms returns the payment term catalog. It involves no randomness.
func (g *Generator) PaymentTerms() *finance.PaymentTermCatalog {
	return g.terms
}

// region resolves a region by name
func (g *Generator) region(name string) (Region, error) {
	r, ok := g.regions[name]
	if !ok {
		return Region{}, fmt.Errorf("%w: unknown region %q", shared.ErrConfigInconsistent, name)
	}
	return r, nil
}

// term resolves a payment term code; an unknown code is a configuration error
func (g *Generator) term(code string) (finance.PaymentTerm, error) {
	t, err := g.terms.Lookup(code)
	if err != nil {
		return finance.PaymentTerm{}, fmt.Errorf("%w: %s", shared.ErrConfigInconsistent, err.Error())
	}
	return t, nil
}

// pickTerm draws a payment term code uniformly from the catalog
func (g *Generator) pickTerm() string {
	return Pick(g.src, g.terms.Codes())
}

// biasedDate draws a date from the focus year with the focus weight and
// otherwise from the part of full outside the focus year, so the share of
// focus-year dates matches the weight. When full lies inside the focus
// year every date is a focus-year date.
func (g *Generator) biasedDate(full valueobject.DateRange) time.Time {
	focus, ok := valueobject.YearRange(g.settings.FocusYear).Intersect(full)
	if !ok {
		return g.src.DateIn(full)
	}
	before, hasBefore := full.ClipEnd(valueobject.AddDays(focus.Start, -1))
	after := valueobject.DateRange{Start: valueobject.AddDays(focus.End, 1), End: full.End}
	hasAfter := !after.IsInverted()
	if (!hasBefore && !hasAfter) || g.src.Chance(g.settings.FocusWeight) {
		return g.src.DateIn(focus)
	}

	outside := 0
	if hasBefore {
		outside += before.Days()
	}
	if hasAfter {
		outside += after.Days()
	}
	k := g.src.Index(outside)
	if hasBefore {
		if k < before.Days() {
			return valueobject.AddDays(before.Start, k)
		}
		k -= before.Days()
	}
	return valueobject.AddDays(after.Start, k)
}

// clear runs the payment simulation on a posting document's open item.
func (g *Generator) clear(doc *finance.PostingDocument, term finance.PaymentTerm, policy finance.ClearingPolicy) (finance.ClearingOutcome, error) {
	if !g.src.Chance(policy.AttemptRate) {
		return finance.ClearingNotAttempted, nil
	}

	behavior := finance.PaymentOnTime
	if g.src.Weighted(policy.OnTimeWeight, policy.LateWeight) == 1 {
		behavior = finance.PaymentLate
	}

	window, ok := finance.ClearingWindow(doc.DocumentDate, term, behavior, policy, g.settings.EndDate)
	if !ok {
		return finance.ClearingOutOfRange, nil
	}

	event := finance.ClearingEvent{
		Date:     g.src.DateIn(window),
		Document: finance.ClearingDocument(policy.DocumentPrefix, g.src.Digits(8)),
	}
	if err := doc.ClearOpenItem(event); err != nil {
		return "", err
	}
	return finance.ClearedOutcome(behavior), nil
}
