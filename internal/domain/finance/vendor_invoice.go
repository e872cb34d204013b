package finance

import (
	"fmt"
	"time"

	"github.com/erp/sapgen/internal/domain/shared"
	"github.com/erp/sapgen/internal/domain/shared/valueobject"
	"github.com/erp/sapgen/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// VendorInvoiceNumberBase is the first sequence value of vendor invoice numbers.
const VendorInvoiceNumberBase = 50000000

// VendorInvoiceNumber formats the i-th vendor invoice number.
func VendorInvoiceNumber(i int) string {
	return fmt.Sprintf("INV%010d", VendorInvoiceNumberBase+i)
}

const (
	// VendorInvoiceDocumentType is the document type of logistics invoices
	VendorInvoiceDocumentType = "RE"
	// InvoiceVerificationTCode is the transaction that enters vendor invoices
	InvoiceVerificationTCode = "MIRO"
	// MaxInvoiceProcessingDays bounds the invoice date after the order date
	MaxInvoiceProcessingDays = 45
)

// VendorInvoice is a logistics invoice against one released purchase order
type VendorInvoice struct {
	ID               string
	CompanyCode      string
	FiscalYear       int
	DocumentType     string
	InvoiceDate      time.Time
	PostingDate      time.Time
	ExternalRef      string
	VendorID         string
	Currency         valueobject.Currency
	Gross            valueobject.Money
	Tax              valueobject.Money
	PurchaseOrderID  string
	EnteredBy        string
	EntryTime        string
	TransactionCode  string
	Status           shared.ApprovalStatus
	ReversalDocument string
	ReversalYear     int
}

// InvoiceDateWindow returns the admissible invoice dates for an order:
// [order+1, min(order+45, end)]. An inverted window is a fatal
// ErrDegenerateWindow.
func InvoiceDateWindow(orderDate, end time.Time) (valueobject.DateRange, error) {
	w := valueobject.DateRange{
		Start: valueobject.AddDays(orderDate, 1),
		End:   valueobject.MinDate(valueobject.AddDays(orderDate, MaxInvoiceProcessingDays), end),
	}
	if w.IsInverted() {
		return valueobject.DateRange{}, fmt.Errorf("%w: invoice window %s for order dated %s", shared.ErrDegenerateWindow, w, orderDate.Format(valueobject.DateLayout))
	}
	return w, nil
}

// NewVendorInvoice creates an invoice for a released purchase order. Gross is
// the order's net total; tax is gross times taxRate rounded to cents.
// Rejected invoices reverse themselves.
func NewVendorInvoice(id string, po *trade.PurchaseOrder, invoiceDate time.Time, taxRate decimal.Decimal, status shared.ApprovalStatus) (*VendorInvoice, error) {
	if id == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Invoice number cannot be empty")
	}
	if po == nil {
		return nil, fmt.Errorf("%w: invoice %s has no purchase order", shared.ErrUnresolvedReference, id)
	}
	if !po.IsReleased() {
		return nil, shared.NewDomainError("ORDER_NOT_RELEASED", "Purchase order "+po.ID+" is not released for invoicing")
	}
	if po.ItemCount() == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Purchase order "+po.ID+" has no items")
	}
	if !invoiceDate.After(po.OrderDate) {
		return nil, shared.NewDomainError("INVALID_DATE", "Invoice date must follow the order date")
	}
	if taxRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
	}
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Invalid invoice approval status: "+string(status))
	}

	gross := po.NetTotal()
	inv := &VendorInvoice{
		ID:              id,
		CompanyCode:     po.CompanyCode,
		FiscalYear:      invoiceDate.Year(),
		DocumentType:    VendorInvoiceDocumentType,
		InvoiceDate:     invoiceDate,
		PostingDate:     invoiceDate,
		VendorID:        po.VendorID,
		Currency:        po.Currency,
		Gross:           gross,
		Tax:             gross.Multiply(taxRate).RoundCents(),
		PurchaseOrderID: po.ID,
		TransactionCode: InvoiceVerificationTCode,
		Status:          status,
	}
	if status == shared.ApprovalStatusRejected {
		inv.ReversalDocument = id
		inv.ReversalYear = inv.FiscalYear
	}
	return inv, nil
}

// Total returns gross plus tax
func (v *VendorInvoice) Total() valueobject.Money {
	return v.Gross.MustAdd(v.Tax)
}

// IsPayable returns true if the invoice may be cleared by a payment run
func (v *VendorInvoice) IsPayable() bool {
	return v.Status == shared.ApprovalStatusApproved
}

// BuildVendorPostings creates the accounting document of an invoice: one
// vendor credit for -(gross+tax), one expense debit per order item and one
// input tax debit when tax is nonzero. expenseAccounts holds the G/L account
// of each order item.
func BuildVendorPostings(inv *VendorInvoice, po *trade.PurchaseOrder, term PaymentTerm, expenseAccounts []string) (*PostingDocument, error) {
	if po == nil || po.ID != inv.PurchaseOrderID {
		return nil, fmt.Errorf("%w: invoice %s does not belong to the given order", shared.ErrUnresolvedReference, inv.ID)
	}
	if term.Code != po.PaymentTerm {
		return nil, fmt.Errorf("%w: order %s uses %s, got %s", shared.ErrUnknownPaymentTerm, po.ID, po.PaymentTerm, term.Code)
	}
	if len(expenseAccounts) != po.ItemCount() {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Need %d expense accounts, got %d", po.ItemCount(), len(expenseAccounts)))
	}

	doc, err := NewPostingDocument(inv.CompanyCode, inv.ID, inv.Currency, inv.InvoiceDate)
	if err != nil {
		return nil, err
	}

	if _, err := doc.AddLine(AccountTypeVendor, inv.VendorID, inv.Total().Negate(), WithPaymentTerm(term)); err != nil {
		return nil, err
	}
	for i, item := range po.Items {
		if _, err := doc.AddLine(AccountTypeGL, expenseAccounts[i], item.NetValue, WithCostCenter(item.CostCenter)); err != nil {
			return nil, err
		}
	}
	if !inv.Tax.IsZero() {
		if _, err := doc.AddLine(AccountTypeGL, InputTaxAccount, inv.Tax); err != nil {
			return nil, err
		}
	}

	if err := doc.CheckBalanced(); err != nil {
		return nil, err
	}
	return doc, nil
}
