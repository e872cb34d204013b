package finance

import (
	"fmt"
	"sort"
	"time"

	"github.com/erp/sapgen/internal/domain/shared"
	"github.com/erp/sapgen/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// DefaultPaymentTermDays is the standard catalog of payment term codes and
// their net due days.
func DefaultPaymentTermDays() map[string]int {
	return map[string]int{
		"Z001": 0,
		"Z002": 7,
		"Z010": 10,
		"Z014": 14,
		"Z030": 30,
		"Z045": 45,
		"Z060": 60,
		"Z090": 90,
		"Z120": 120,
	}
}

// PaymentTerm is a payment term with its derived cash discount schedule
type PaymentTerm struct {
	Code            string
	Language        string
	Description     string
	NetDays         int
	DiscountDays    int
	DiscountPercent decimal.Decimal
}

// NewPaymentTerm derives the discount schedule from the net due days:
// 30 days and longer get 10 days / 2.0% (up to 60 days) or 14 days / 2.5%,
// 14 to 29 days get 7 days / 1.0%, shorter terms get no discount.
func NewPaymentTerm(code string, netDays int) (PaymentTerm, error) {
	if code == "" {
		return PaymentTerm{}, shared.NewDomainError("INVALID_PAYMENT_TERM", "Payment term code cannot be empty")
	}
	if netDays < 0 {
		return PaymentTerm{}, shared.NewDomainError("INVALID_PAYMENT_TERM", fmt.Sprintf("Payment term %s has negative net days", code))
	}

	term := PaymentTerm{
		Code:            code,
		Language:        "EN",
		NetDays:         netDays,
		DiscountPercent: decimal.Zero,
	}
	if netDays > 0 {
		term.Description = fmt.Sprintf("Net %d days", netDays)
	} else {
		term.Description = "Immediate payment"
	}

	switch {
	case netDays >= 30 && netDays <= 60:
		term.DiscountDays = 10
		term.DiscountPercent = decimal.RequireFromString("2.0")
	case netDays > 60:
		term.DiscountDays = 14
		term.DiscountPercent = decimal.RequireFromString("2.5")
	case netDays >= 14:
		term.DiscountDays = 7
		term.DiscountPercent = decimal.RequireFromString("1.0")
	}
	return term, nil
}

// HasDiscount returns true if the term grants a cash discount
func (t PaymentTerm) HasDiscount() bool {
	return t.DiscountDays > 0
}

// FirstTierDays is the day count of the first schedule tier: the discount
// window when a discount applies, the net days otherwise.
func (t PaymentTerm) FirstTierDays() int {
	if t.HasDiscount() {
		return t.DiscountDays
	}
	return t.NetDays
}

// SecondTierDays is the net day count when a discount tier precedes it, zero otherwise.
func (t PaymentTerm) SecondTierDays() int {
	if t.HasDiscount() {
		return t.NetDays
	}
	return 0
}

// DueDate returns the net due date of a document dated on documentDate
func (t PaymentTerm) DueDate(documentDate time.Time) time.Time {
	return valueobject.AddDays(documentDate, t.NetDays)
}

// PaymentTermCatalog is the closed set of payment terms a dataset may reference
type PaymentTermCatalog struct {
	terms map[string]PaymentTerm
	codes []string
}

// NewPaymentTermCatalog builds the catalog from a code to net-days table.
// Codes are kept in sorted order.
func NewPaymentTermCatalog(days map[string]int) (*PaymentTermCatalog, error) {
	if len(days) == 0 {
		return nil, fmt.Errorf("%w: payment term table is empty", shared.ErrConfigInconsistent)
	}

	c := &PaymentTermCatalog{
		terms: make(map[string]PaymentTerm, len(days)),
		codes: make([]string, 0, len(days)),
	}
	for code, n := range days {
		term, err := NewPaymentTerm(code, n)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", shared.ErrConfigInconsistent, err.Error())
		}
		c.terms[code] = term
		c.codes = append(c.codes, code)
	}
	sort.Strings(c.codes)
	return c, nil
}

// Lookup returns the term for a code
func (c *PaymentTermCatalog) Lookup(code string) (PaymentTerm, error) {
	term, ok := c.terms[code]
	if !ok {
		return PaymentTerm{}, fmt.Errorf("%w: %q", shared.ErrUnknownPaymentTerm, code)
	}
	return term, nil
}

// Contains reports whether the code is in the catalog
func (c *PaymentTermCatalog) Contains(code string) bool {
	_, ok := c.terms[code]
	return ok
}

// Codes returns the sorted term codes
func (c *PaymentTermCatalog) Codes() []string {
	out := make([]string, len(c.codes))
	copy(out, c.codes)
	return out
}

// Terms returns all terms in code order
func (c *PaymentTermCatalog) Terms() []PaymentTerm {
	out := make([]PaymentTerm, 0, len(c.codes))
	for _, code := range c.codes {
		out = append(out, c.terms[code])
	}
	return out
}

// Len returns the number of terms
func (c *PaymentTermCatalog) Len() int {
	return len(c.codes)
}
