package finance

import (
	"fmt"
	"testing"
	"time"

	"github.com/erp/sapgen/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func termOf(t *testing.T, netDays int) PaymentTerm {
	t.Helper()
	term, err := NewPaymentTerm(fmt.Sprintf("Z%03d", netDays), netDays)
	require.NoError(t, err)
	return term
}

func TestClearingWindow_Z030OnTime(t *testing.T) {
	d := valueobject.Date(2024, time.June, 3)
	end := valueobject.Date(2025, time.March, 31)

	w, ok := ClearingWindow(d, termOf(t, 30), PaymentOnTime, PayablesClearing(), end)
	require.True(t, ok)
	assert.Equal(t, valueobject.AddDays(d, 25), w.Start)
	assert.Equal(t, valueobject.AddDays(d, 40), w.End)
}

func TestClearingWindow(t *testing.T) {
	end := valueobject.Date(2025, time.March, 31)
	d := valueobject.Date(2024, time.June, 3)

	tests := []struct {
		name      string
		date      time.Time
		netDays   int
		behavior  PaymentBehavior
		policy    ClearingPolicy
		wantOK    bool
		wantStart int
		wantEnd   int
	}{
		{"payables late", d, 30, PaymentLate, PayablesClearing(), true, 41, 90},
		{"receivables on time", d, 30, PaymentOnTime, ReceivablesClearing(), true, 27, 45},
		{"receivables late", d, 60, PaymentLate, ReceivablesClearing(), true, 76, 150},
		{"immediate payment floors at next day", d, 0, PaymentOnTime, PayablesClearing(), true, 1, 10},
		{"short term floors at next day", d, 3, PaymentOnTime, PayablesClearing(), true, 1, 13},
		{"unknown behavior", d, 30, PaymentBehavior("EARLY"), PayablesClearing(), false, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, ok := ClearingWindow(tt.date, termOf(t, tt.netDays), tt.behavior, tt.policy, end)
			assert.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, valueobject.AddDays(tt.date, tt.wantStart), w.Start)
			assert.Equal(t, valueobject.AddDays(tt.date, tt.wantEnd), w.End)
		})
	}
}

func TestClearingWindow_ClippedToEnd(t *testing.T) {
	end := valueobject.Date(2025, time.March, 31)

	t.Run("partially clipped", func(t *testing.T) {
		d := valueobject.Date(2025, time.March, 1)
		w, ok := ClearingWindow(d, termOf(t, 30), PaymentOnTime, PayablesClearing(), end)
		require.True(t, ok)
		assert.Equal(t, valueobject.Date(2025, time.March, 26), w.Start)
		assert.Equal(t, end, w.End)
	})

	t.Run("window past the end is empty", func(t *testing.T) {
		d := valueobject.Date(2025, time.March, 1)
		_, ok := ClearingWindow(d, termOf(t, 120), PaymentLate, ReceivablesClearing(), end)
		assert.False(t, ok)
	})

	t.Run("single day left", func(t *testing.T) {
		d := valueobject.Date(2025, time.March, 30)
		w, ok := ClearingWindow(d, termOf(t, 0), PaymentOnTime, PayablesClearing(), end)
		require.True(t, ok)
		assert.Equal(t, 1, w.Days())
		assert.Equal(t, end, w.Start)
	})

	t.Run("document on the end date", func(t *testing.T) {
		_, ok := ClearingWindow(end, termOf(t, 0), PaymentOnTime, PayablesClearing(), end)
		assert.False(t, ok)
	})
}

func TestClearingPolicy_Check(t *testing.T) {
	assert.NoError(t, PayablesClearing().Check())
	assert.NoError(t, ReceivablesClearing().Check())

	p := PayablesClearing()
	p.OnTimeWeight, p.LateWeight = 0, 0
	assert.Error(t, p.Check())
}

func TestClearingDocument(t *testing.T) {
	assert.Equal(t, "REC00000042", ClearingDocument("REC", 42))
	assert.Equal(t, "PAY99999999", ClearingDocument("PAY", 99999999))
}

func TestClearingOutcome(t *testing.T) {
	tests := []struct {
		outcome ClearingOutcome
		valid   bool
		cleared bool
	}{
		{ClearingNotAttempted, true, false},
		{ClearingCleared, true, true},
		{ClearingClearedLate, true, true},
		{ClearingOutOfRange, true, false},
		{ClearingOutcome("PAID"), false, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.outcome), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.outcome.IsValid())
			assert.Equal(t, tt.cleared, tt.outcome.IsCleared())
		})
	}

	assert.Equal(t, ClearingCleared, ClearedOutcome(PaymentOnTime))
	assert.Equal(t, ClearingClearedLate, ClearedOutcome(PaymentLate))
}

func TestClearingWindow_UsesTermDueDate(t *testing.T) {
	d := valueobject.Date(2024, time.January, 31)
	term := termOf(t, 30)
	end := valueobject.Date(2025, time.March, 31)

	w, ok := ClearingWindow(d, term, PaymentLate, PayablesClearing(), end)
	require.True(t, ok)
	assert.Equal(t, valueobject.AddDays(term.DueDate(d), 11), w.Start)
	assert.Equal(t, valueobject.AddDays(term.DueDate(d), 60), w.End)
}
