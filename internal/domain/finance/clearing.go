package finance

import (
	"errors"
	"fmt"
	"time"

	"github.com/erp/sapgen/internal/domain/shared/valueobject"
)

// PaymentBehavior is the simulated timeliness of a payment
type PaymentBehavior string

const (
	PaymentOnTime PaymentBehavior = "ON_TIME"
	PaymentLate   PaymentBehavior = "LATE"
)

// IsValid checks if the behavior is valid
func (b PaymentBehavior) IsValid() bool {
	return b == PaymentOnTime || b == PaymentLate
}

// ClearingOutcome records what the payment simulation did with an open item
type ClearingOutcome string

const (
	ClearingNotAttempted ClearingOutcome = "NOT_ATTEMPTED"
	ClearingCleared      ClearingOutcome = "CLEARED"
	ClearingClearedLate  ClearingOutcome = "CLEARED_LATE"
	ClearingOutOfRange   ClearingOutcome = "OUT_OF_RANGE"
)

// IsValid checks if the outcome is valid
func (o ClearingOutcome) IsValid() bool {
	switch o {
	case ClearingNotAttempted, ClearingCleared, ClearingClearedLate, ClearingOutOfRange:
		return true
	}
	return false
}

// IsCleared returns true if the open item was cleared, on time or late
func (o ClearingOutcome) IsCleared() bool {
	return o == ClearingCleared || o == ClearingClearedLate
}

// ClearedOutcome is the outcome of a successful clearing with the given behavior
func ClearedOutcome(behavior PaymentBehavior) ClearingOutcome {
	if behavior == PaymentLate {
		return ClearingClearedLate
	}
	return ClearingCleared
}

// ClearingPolicy parameterizes the payment simulation of one side of the ledger.
// On-time payments fall in [max(doc+1, due-OnTimeLeadDays), due+OnTimeGraceDays];
// late payments in [due+LateFromDays, due+LateToDays].
type ClearingPolicy struct {
	AttemptRate     float64 `mapstructure:"attempt_rate" yaml:"attempt_rate" validate:"gte=0,lte=1"`
	OnTimeWeight    int     `mapstructure:"on_time_weight" yaml:"on_time_weight" validate:"gte=0"`
	LateWeight      int     `mapstructure:"late_weight" yaml:"late_weight" validate:"gte=0"`
	OnTimeLeadDays  int     `mapstructure:"on_time_lead_days" yaml:"on_time_lead_days" validate:"gte=0"`
	OnTimeGraceDays int     `mapstructure:"on_time_grace_days" yaml:"on_time_grace_days" validate:"gte=0"`
	LateFromDays    int     `mapstructure:"late_from_days" yaml:"late_from_days" validate:"gte=1"`
	LateToDays      int     `mapstructure:"late_to_days" yaml:"late_to_days" validate:"gtefield=LateFromDays"`
	DocumentPrefix  string  `mapstructure:"document_prefix" yaml:"document_prefix" validate:"required,max=3"`
}

// PayablesClearing simulates vendor payments
func PayablesClearing() ClearingPolicy {
	return ClearingPolicy{
		AttemptRate:     0.80,
		OnTimeWeight:    75,
		LateWeight:      25,
		OnTimeLeadDays:  5,
		OnTimeGraceDays: 10,
		LateFromDays:    11,
		LateToDays:      60,
		DocumentPrefix:  "PAY",
	}
}

// ReceivablesClearing simulates customer receipts
func ReceivablesClearing() ClearingPolicy {
	return ClearingPolicy{
		AttemptRate:     0.75,
		OnTimeWeight:    67,
		LateWeight:      33,
		OnTimeLeadDays:  3,
		OnTimeGraceDays: 15,
		LateFromDays:    16,
		LateToDays:      90,
		DocumentPrefix:  "REC",
	}
}

// Check validates cross-field constraints the struct tags cannot express
func (p ClearingPolicy) Check() error {
	if p.OnTimeWeight+p.LateWeight <= 0 {
		return errors.New("on-time and late weights must not both be zero")
	}
	return nil
}

// ClearingWindow returns the inclusive range a clearing date is drawn from,
// relative to the term's due date and clipped to end. ok is false when the
// clipped window is empty.
func ClearingWindow(documentDate time.Time, term PaymentTerm, behavior PaymentBehavior, policy ClearingPolicy, end time.Time) (window valueobject.DateRange, ok bool) {
	due := term.DueDate(documentDate)

	var raw valueobject.DateRange
	switch behavior {
	case PaymentOnTime:
		raw = valueobject.DateRange{
			Start: valueobject.MaxDate(valueobject.AddDays(documentDate, 1), valueobject.AddDays(due, -policy.OnTimeLeadDays)),
			End:   valueobject.AddDays(due, policy.OnTimeGraceDays),
		}
	case PaymentLate:
		raw = valueobject.DateRange{
			Start: valueobject.AddDays(due, policy.LateFromDays),
			End:   valueobject.AddDays(due, policy.LateToDays),
		}
	default:
		return valueobject.DateRange{}, false
	}
	return raw.ClipEnd(end)
}

// ClearingDocument formats a clearing document reference ("PAY12345678").
func ClearingDocument(prefix string, n int) string {
	return fmt.Sprintf("%s%08d", prefix, n)
}
