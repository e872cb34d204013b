package generation

import (
	"fmt"

	"github.com/erp/sapgen/internal/domain/finance"
	"github.com/erp/sapgen/internal/domain/shared"
	"github.com/erp/sapgen/internal/domain/trade"
	"go.uber.org/zap"
)

// VendorInvoices is the output of the vendor invoice stage
type VendorInvoices struct {
	Invoices []*finance.VendorInvoice
	Postings []*finance.PostingDocument
	Clearing ClearingStats
}

// GenerateVendorInvoices creates n invoices against released purchase orders,
// drawn uniformly with replacement, and posts each one. Approved invoices go
// through the payment simulation.
func (g *Generator) GenerateVendorInvoices(orders []*trade.PurchaseOrder, n int) (VendorInvoices, error) {
	pool := releasedOrders(orders)
	if n > 0 && len(pool) == 0 {
		return VendorInvoices{}, fmt.Errorf("%w: none of %d purchase orders is released", shared.ErrEmptyEligiblePool, len(orders))
	}

	out := VendorInvoices{
		Invoices: make([]*finance.VendorInvoice, 0, n),
		Postings: make([]*finance.PostingDocument, 0, n),
	}
	for i := 0; i < n; i++ {
		inv, doc, err := g.vendorInvoice(i, Pick(g.src, pool), &out.Clearing)
		if err != nil {
			return VendorInvoices{}, err
		}
		out.Invoices = append(out.Invoices, inv)
		out.Postings = append(out.Postings, doc)
	}

	g.logger.Debug("vendor invoices generated",
		zap.Int("invoices", len(out.Invoices)),
		zap.Int("eligible_orders", len(pool)),
		zap.Int("cleared", out.Clearing.Cleared),
		zap.Int("out_of_range", out.Clearing.OutOfRange),
	)
	return out, nil
}

func (g *Generator) vendorInvoice(i int, po *trade.PurchaseOrder, stats *ClearingStats) (*finance.VendorInvoice, *finance.PostingDocument, error) {
	rates := g.settings.Rates
	id := finance.VendorInvoiceNumber(i)

	window, err := finance.InvoiceDateWindow(po.OrderDate, g.settings.EndDate)
	if err != nil {
		return nil, nil, err
	}
	invoiceDate := g.src.DateIn(window)
	status := approvalStatus(g.src, rates.VendorInvoiceApproval)
	reference := g.src.Text(TextReference)

	inv, err := finance.NewVendorInvoice(id, po, invoiceDate, g.src.Rate(rates.VendorInvoiceTaxRange), status)
	if err != nil {
		return nil, nil, fmt.Errorf("vendor invoice %s: %w", id, err)
	}
	inv.ExternalRef = reference
	inv.EnteredBy = g.src.Text(TextUserName)
	inv.EntryTime = g.src.Text(TextTime)

	term, err := g.term(po.PaymentTerm)
	if err != nil {
		return nil, nil, err
	}
	accounts := make([]string, po.ItemCount())
	for j := range accounts {
		accounts[j] = Pick(g.src, g.settings.Accounts.Expense)
	}

	doc, err := finance.BuildVendorPostings(inv, po, term, accounts)
	if err != nil {
		return nil, nil, fmt.Errorf("vendor invoice %s: %w", id, err)
	}

	if inv.IsPayable() {
		outcome, err := g.clear(doc, term, g.settings.Payables)
		if err != nil {
			return nil, nil, fmt.Errorf("vendor invoice %s: %w", id, err)
		}
		stats.Record(outcome)
	}
	return inv, doc, nil
}
