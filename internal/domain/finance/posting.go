package finance

import (
	"fmt"
	"time"

	"github.com/erp/sapgen/internal/domain/shared"
	"github.com/erp/sapgen/internal/domain/shared/valueobject"
)

// AccountType classifies the account a posting line is booked to
type AccountType string

const (
	AccountTypeVendor   AccountType = "K"
	AccountTypeCustomer AccountType = "D"
	AccountTypeGL       AccountType = "S"
)

// IsValid checks if the account type is valid
func (a AccountType) IsValid() bool {
	switch a {
	case AccountTypeVendor, AccountTypeCustomer, AccountTypeGL:
		return true
	}
	return false
}

// IsOpenItem returns true for the receivable/payable side of a document
func (a AccountType) IsOpenItem() bool {
	return a == AccountTypeVendor || a == AccountTypeCustomer
}

// DebitCredit is the debit/credit indicator of a posting line
type DebitCredit string

const (
	Debit  DebitCredit = "S"
	Credit DebitCredit = "H"
)

// DebitCreditFor derives the indicator from a signed amount
func DebitCreditFor(amount valueobject.Money) DebitCredit {
	if amount.IsNegative() {
		return Credit
	}
	return Debit
}

// PostingStatus represents the clearing state of a posting line
type PostingStatus string

const (
	PostingStatusOpen    PostingStatus = "OPEN"
	PostingStatusCleared PostingStatus = "CLEARED"
)

// IsValid checks if the status is valid
func (s PostingStatus) IsValid() bool {
	return s == PostingStatusOpen || s == PostingStatusCleared
}

// String returns the string representation of PostingStatus
func (s PostingStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PostingStatus) CanTransitionTo(target PostingStatus) bool {
	switch s {
	case PostingStatusOpen:
		return target == PostingStatusOpen || target == PostingStatusCleared
	case PostingStatusCleared:
		return false // Terminal state
	}
	return false
}

// ClearingEvent is a simulated payment matched against an open item
type ClearingEvent struct {
	Date     time.Time
	Document string
}

// Well-known G/L accounts
const (
	InputTaxAccount  = "1500000"
	OutputTaxAccount = "2300000"
)

// PostingLine is one line of an accounting document
type PostingLine struct {
	CompanyCode    string
	DocumentNumber string
	FiscalYear     int
	LineNumber     int
	AccountType    AccountType
	Account        string
	Amount         valueobject.Money
	DebitCredit    DebitCredit
	PaymentTerm    string
	NetDays        int
	DocumentDate   time.Time
	PostingDate    time.Time
	CostCenter     string
	Status         PostingStatus
	Clearing       *ClearingEvent
}

// LineItem returns the three-digit line item key
func (l PostingLine) LineItem() string {
	return fmt.Sprintf("%03d", l.LineNumber)
}

// IsCleared returns true if a clearing event is attached
func (l PostingLine) IsCleared() bool {
	return l.Status == PostingStatusCleared
}

// Clear attaches a clearing event. Only open receivable/payable lines can be
// cleared, and never on or before the document date.
func (l *PostingLine) Clear(event ClearingEvent) error {
	if !l.AccountType.IsOpenItem() {
		return shared.NewDomainError("INVALID_STATE", "Only vendor or customer lines can be cleared")
	}
	if !l.Status.CanTransitionTo(PostingStatusCleared) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Line %s/%s is already cleared", l.DocumentNumber, l.LineItem()))
	}
	if !event.Date.After(l.DocumentDate) {
		return shared.NewDomainError("INVALID_CLEARING_DATE", "Clearing date must follow the document date")
	}
	if event.Document == "" {
		return shared.NewDomainError("INVALID_CLEARING_DOCUMENT", "Clearing document cannot be empty")
	}
	l.Status = PostingStatusCleared
	l.Clearing = &event
	return nil
}

// PostingDocument is a group of posting lines that must balance to zero
type PostingDocument struct {
	CompanyCode  string
	Number       string
	FiscalYear   int
	Currency     valueobject.Currency
	DocumentDate time.Time
	Lines        []PostingLine
}

// NewPostingDocument starts an empty accounting document dated documentDate.
// The fiscal year is the calendar year of the document date.
func NewPostingDocument(companyCode, number string, currency valueobject.Currency, documentDate time.Time) (*PostingDocument, error) {
	if companyCode == "" {
		return nil, shared.NewDomainError("INVALID_COMPANY_CODE", "Company code cannot be empty")
	}
	if number == "" {
		return nil, shared.NewDomainError("INVALID_DOCUMENT", "Document number cannot be empty")
	}
	if currency == "" {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency cannot be empty")
	}
	return &PostingDocument{
		CompanyCode:  companyCode,
		Number:       number,
		FiscalYear:   documentDate.Year(),
		Currency:     currency,
		DocumentDate: documentDate,
		Lines:        make([]PostingLine, 0, 4),
	}, nil
}

// LineOption sets optional attributes of a posting line
type LineOption func(*PostingLine)

// WithPaymentTerm sets the payment term and its net days
func WithPaymentTerm(term PaymentTerm) LineOption {
	return func(l *PostingLine) {
		l.PaymentTerm = term.Code
		l.NetDays = term.NetDays
	}
}

// WithCostCenter sets the cost center
func WithCostCenter(costCenter string) LineOption {
	return func(l *PostingLine) {
		l.CostCenter = costCenter
	}
}

// AddLine appends a line with the next line number. The debit/credit
// indicator follows the sign of amount.
func (d *PostingDocument) AddLine(accountType AccountType, account string, amount valueobject.Money, opts ...LineOption) (*PostingLine, error) {
	if !accountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_TYPE", "Invalid account type: "+string(accountType))
	}
	if account == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Account cannot be empty")
	}
	if amount.Currency() != d.Currency {
		return nil, fmt.Errorf("%w: line in %s on %s document", shared.ErrCurrencyMismatch, amount.Currency(), d.Currency)
	}

	line := PostingLine{
		CompanyCode:    d.CompanyCode,
		DocumentNumber: d.Number,
		FiscalYear:     d.FiscalYear,
		LineNumber:     len(d.Lines) + 1,
		AccountType:    accountType,
		Account:        account,
		Amount:         amount,
		DebitCredit:    DebitCreditFor(amount),
		DocumentDate:   d.DocumentDate,
		PostingDate:    d.DocumentDate,
		Status:         PostingStatusOpen,
	}
	for _, opt := range opts {
		opt(&line)
	}
	d.Lines = append(d.Lines, line)
	return &d.Lines[len(d.Lines)-1], nil
}

// Balance returns the signed sum of all lines
func (d *PostingDocument) Balance() valueobject.Money {
	total := valueobject.Zero(d.Currency)
	for _, l := range d.Lines {
		total = total.MustAdd(l.Amount)
	}
	return total
}

// CheckBalanced returns ErrUnbalancedPosting unless the lines net to zero at cent precision
func (d *PostingDocument) CheckBalanced() error {
	if b := d.Balance().RoundCents(); !b.IsZero() {
		return fmt.Errorf("%w: document %s is off by %s", shared.ErrUnbalancedPosting, d.Number, b)
	}
	return nil
}

// OpenItem returns the receivable or payable line of the document, if any
func (d *PostingDocument) OpenItem() *PostingLine {
	for i := range d.Lines {
		if d.Lines[i].AccountType.IsOpenItem() {
			return &d.Lines[i]
		}
	}
	return nil
}

// ClearOpenItem clears the receivable or payable line of the document
func (d *PostingDocument) ClearOpenItem(event ClearingEvent) error {
	line := d.OpenItem()
	if line == nil {
		return shared.NewDomainError("INVALID_STATE", "Document "+d.Number+" has no open item")
	}
	return line.Clear(event)
}
