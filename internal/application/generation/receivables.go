package generation

import (
	"fmt"

	"github.com/erp/sapgen/internal/domain/finance"
	"github.com/erp/sapgen/internal/domain/partner"
	"github.com/erp/sapgen/internal/domain/shared"
	"github.com/erp/sapgen/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// SalesInvoices is the output of the sales invoice stage
type SalesInvoices struct {
	Invoices []*finance.SalesInvoice
	Postings []*finance.PostingDocument
	Clearing ClearingStats
}

// GenerateSalesInvoices creates n billing documents for the given customers.
// Only documents released to accounting are posted; their receivable runs
// through the payment simulation.
func (g *Generator) GenerateSalesInvoices(customers []partner.Customer, n int) (SalesInvoices, error) {
	if n > 0 && len(customers) == 0 {
		return SalesInvoices{}, fmt.Errorf("%w: no customers to bill", shared.ErrEmptyEligiblePool)
	}

	out := SalesInvoices{
		Invoices: make([]*finance.SalesInvoice, 0, n),
		Postings: make([]*finance.PostingDocument, 0, n),
	}
	for i := 0; i < n; i++ {
		inv, doc, err := g.salesInvoice(i, Pick(g.src, customers), len(out.Postings), &out.Clearing)
		if err != nil {
			return SalesInvoices{}, err
		}
		out.Invoices = append(out.Invoices, inv)
		if doc != nil {
			out.Postings = append(out.Postings, doc)
		}
	}

	g.logger.Debug("sales invoices generated",
		zap.Int("invoices", len(out.Invoices)),
		zap.Int("posted", len(out.Postings)),
		zap.Int("cleared", out.Clearing.Cleared),
		zap.Int("out_of_range", out.Clearing.OutOfRange),
	)
	return out, nil
}

// salesInvoice builds the i-th billing document; posted is the number of
// accounting documents issued so far.
func (g *Generator) salesInvoice(i int, customer partner.Customer, posted int, stats *ClearingStats) (*finance.SalesInvoice, *finance.PostingDocument, error) {
	rates := g.settings.Rates
	id := finance.SalesInvoiceNumber(i)

	region, err := g.region(customer.Region)
	if err != nil {
		return nil, nil, err
	}
	companyCode := Pick(g.src, region.CompanyCodes)
	billingDate := g.biasedDate(g.settings.Horizon())
	currency := Pick(g.src, g.currencies)
	net, err := valueobject.NewMoney(g.src.DecimalIn(rates.SalesInvoiceNetRange, 2), currency)
	if err != nil {
		return nil, nil, err
	}
	taxRate := g.src.Rate(rates.SalesInvoiceTaxRange)
	released := g.src.Chance(rates.SalesReleased)

	inv, err := finance.NewSalesInvoice(id, companyCode, customer.ID, billingDate, net, taxRate, released)
	if err != nil {
		return nil, nil, fmt.Errorf("sales invoice %s: %w", id, err)
	}
	inv.CreatedBy = valueobject.Truncate(g.src.Text(TextUserName), partner.MaxUserNameLength)
	inv.Cancelled = g.src.Chance(rates.SalesCancelled)
	inv.ConditionNumber = fmt.Sprintf("%010d", g.src.Digits(10))

	if !inv.Released {
		return inv, nil, nil
	}

	term, err := g.term(g.pickTerm())
	if err != nil {
		return nil, nil, err
	}
	doc, err := finance.BuildSalesPostings(inv,
		finance.AccountingDocumentNumber(posted),
		term,
		Pick(g.src, g.settings.Accounts.Revenue),
		Pick(g.src, region.CostCenters),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("sales invoice %s: %w", id, err)
	}

	outcome, err := g.clear(doc, term, g.settings.Receivables)
	if err != nil {
		return nil, nil, fmt.Errorf("sales invoice %s: %w", id, err)
	}
	stats.Record(outcome)
	return inv, doc, nil
}
