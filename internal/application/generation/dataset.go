package generation

import (
	"github.com/erp/sapgen/internal/domain/finance"
	"github.com/erp/sapgen/internal/domain/partner"
	"github.com/erp/sapgen/internal/domain/trade"
)

// ClearingStats counts the outcomes of the payment simulation
type ClearingStats struct {
	NotAttempted int `yaml:"not_attempted"`
	Attempted    int `yaml:"attempted"`
	Cleared      int `yaml:"cleared"`
	Late         int `yaml:"late"`
	OutOfRange   int `yaml:"out_of_range"`
}

// Record counts one outcome of the payment simulation
func (s *ClearingStats) Record(outcome finance.ClearingOutcome) {
	switch outcome {
	case finance.ClearingNotAttempted:
		s.NotAttempted++
		return
	case finance.ClearingOutOfRange:
		s.OutOfRange++
	case finance.ClearingCleared:
		s.Cleared++
	case finance.ClearingClearedLate:
		s.Cleared++
		s.Late++
	}
	s.Attempted++
}

// Dataset is the result of one generation run. It is not modified after
// Pipeline.Run returns.
type Dataset struct {
	Settings Settings

	Vendors            []partner.Vendor
	VendorBindings     []partner.VendorCompanyBinding
	VendorProfiles     []partner.VendorPurchasingProfile
	Customers          []partner.Customer
	PaymentTerms       []finance.PaymentTerm
	PurchaseOrders     []*trade.PurchaseOrder
	VendorInvoices     []*finance.VendorInvoice
	SalesInvoices      []*finance.SalesInvoice
	VendorPostings     []*finance.PostingDocument
	SalesPostings      []*finance.PostingDocument
	PayablesCleared    ClearingStats
	ReceivablesCleared ClearingStats
}

// PurchaseOrderItems flattens the items of all purchase orders
func (d *Dataset) PurchaseOrderItems() []trade.PurchaseOrderItem {
	n := 0
	for _, po := range d.PurchaseOrders {
		n += po.ItemCount()
	}
	items := make([]trade.PurchaseOrderItem, 0, n)
	for _, po := range d.PurchaseOrders {
		items = append(items, po.Items...)
	}
	return items
}

// PostingDocuments returns vendor documents followed by sales documents
func (d *Dataset) PostingDocuments() []*finance.PostingDocument {
	docs := make([]*finance.PostingDocument, 0, len(d.VendorPostings)+len(d.SalesPostings))
	docs = append(docs, d.VendorPostings...)
	return append(docs, d.SalesPostings...)
}

// PostingLines flattens the lines of all posting documents
func (d *Dataset) PostingLines() []finance.PostingLine {
	var lines []finance.PostingLine
	for _, doc := range d.PostingDocuments() {
		lines = append(lines, doc.Lines...)
	}
	return lines
}

// OpenItemCounts returns the number of open and cleared receivable/payable lines
func (d *Dataset) OpenItemCounts() (open, cleared int) {
	for _, doc := range d.PostingDocuments() {
		item := doc.OpenItem()
		if item == nil {
			continue
		}
		if item.IsCleared() {
			cleared++
		} else {
			open++
		}
	}
	return open, cleared
}
