package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Generation errors. Callers wrap these with fmt.Errorf("%w: ...") and match
// them with errors.Is.
var (
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrConfigInconsistent  = NewDomainError("CONFIG_INCONSISTENT", "Generation settings are inconsistent")
	ErrDegenerateWindow    = NewDomainError("DEGENERATE_WINDOW", "Date window is inverted")
	ErrEmptyEligiblePool   = NewDomainError("EMPTY_ELIGIBLE_POOL", "No eligible documents to sample from")
	ErrUnbalancedPosting   = NewDomainError("UNBALANCED_POSTING", "Accounting document does not balance to zero")
	ErrUnknownPaymentTerm  = NewDomainError("UNKNOWN_PAYMENT_TERM", "Payment term is not in the catalog")
	ErrCurrencyMismatch    = NewDomainError("CURRENCY_MISMATCH", "Amounts are in different currencies")
	ErrUnresolvedReference = NewDomainError("UNRESOLVED_REFERENCE", "Reference does not resolve to an upstream record")
)
