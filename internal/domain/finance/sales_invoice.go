package finance

import (
	"fmt"
	"time"

	"github.com/erp/sapgen/internal/domain/shared"
	"github.com/erp/sapgen/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// SalesInvoiceNumberBase is the first sequence value of billing document numbers.
const SalesInvoiceNumberBase = 10000000

// SalesInvoiceNumber formats the i-th billing document number ("9010000000").
func SalesInvoiceNumber(i int) string {
	return fmt.Sprintf("90%08d", SalesInvoiceNumberBase+i)
}

// AccountingDocumentNumber formats the i-th accounting document number created
// for a released billing document.
func AccountingDocumentNumber(i int) string {
	return fmt.Sprintf("AC%08d", SalesInvoiceNumberBase+i)
}

const (
	// BillingTypeInvoice is the billing type of a standard invoice
	BillingTypeInvoice = "F2"
	// BillingCategoryInvoice is the SD document category of an invoice
	BillingCategoryInvoice = "M"
	// TransferReleased marks a billing document posted to accounting
	TransferReleased = "C"
	// TransferBlocked marks a billing document held back from accounting
	TransferBlocked = "A"
)

// SalesInvoice is a billing document issued to one customer
type SalesInvoice struct {
	ID                 string
	BillingType        string
	BillingDate        time.Time
	CompanyCode        string
	PayerID            string
	SoldToID           string
	Currency           valueobject.Currency
	Net                valueobject.Money
	Tax                valueobject.Money
	Released           bool
	State              shared.DocumentState
	CreatedOn          time.Time
	CreatedBy          string
	Cancelled          bool
	Category           string
	CancellationDoc    string
	ConditionNumber    string
	AccountingDocument string
}

// NewSalesInvoice creates a billing document. Tax is net times taxRate
// rounded to cents; released documents are eligible for posting.
func NewSalesInvoice(id, companyCode, customerID string, billingDate time.Time, net valueobject.Money, taxRate decimal.Decimal, released bool) (*SalesInvoice, error) {
	if id == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Billing document number cannot be empty")
	}
	if companyCode == "" {
		return nil, shared.NewDomainError("INVALID_COMPANY_CODE", "Company code cannot be empty")
	}
	if customerID == "" {
		return nil, fmt.Errorf("%w: billing document %s has no customer", shared.ErrUnresolvedReference, id)
	}
	if billingDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Billing date cannot be empty")
	}
	if !net.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Net amount must be positive")
	}
	if taxRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
	}

	state, err := shared.DocumentStateCreated.Classify(released)
	if err != nil {
		return nil, err
	}

	net = net.RoundCents()
	return &SalesInvoice{
		ID:          id,
		BillingType: BillingTypeInvoice,
		BillingDate: billingDate,
		CompanyCode: companyCode,
		PayerID:     customerID,
		SoldToID:    customerID,
		Currency:    net.Currency(),
		Net:         net,
		Tax:         net.Multiply(taxRate).RoundCents(),
		Released:    released,
		State:       state,
		CreatedOn:   billingDate,
		Category:    BillingCategoryInvoice,
	}, nil
}

// Gross returns net plus tax
func (s *SalesInvoice) Gross() valueobject.Money {
	return s.Net.MustAdd(s.Tax)
}

// TransferStatus returns the accounting transfer status code
func (s *SalesInvoice) TransferStatus() string {
	if s.Released {
		return TransferReleased
	}
	return TransferBlocked
}

// BuildSalesPostings creates the accounting document of a released billing
// document: receivable debit for gross, revenue credit for net and output
// tax credit when tax is nonzero. The document number is recorded on the invoice.
func BuildSalesPostings(inv *SalesInvoice, documentNumber string, term PaymentTerm, revenueAccount, costCenter string) (*PostingDocument, error) {
	if inv.State != shared.DocumentStateEligible {
		return nil, shared.NewDomainError("NOT_RELEASED", "Billing document "+inv.ID+" is not released to accounting")
	}

	doc, err := NewPostingDocument(inv.CompanyCode, documentNumber, inv.Currency, inv.BillingDate)
	if err != nil {
		return nil, err
	}

	if _, err := doc.AddLine(AccountTypeCustomer, inv.PayerID, inv.Gross(), WithPaymentTerm(term)); err != nil {
		return nil, err
	}
	if _, err := doc.AddLine(AccountTypeGL, revenueAccount, inv.Net.Negate(), WithCostCenter(costCenter)); err != nil {
		return nil, err
	}
	if !inv.Tax.IsZero() {
		if _, err := doc.AddLine(AccountTypeGL, OutputTaxAccount, inv.Tax.Negate()); err != nil {
			return nil, err
		}
	}

	if err := doc.CheckBalanced(); err != nil {
		return nil, err
	}
	inv.AccountingDocument = documentNumber
	return doc, nil
}
