package finance

import (
	"errors"
	"testing"
	"time"

	"github.com/erp/sapgen/internal/domain/shared"
	"github.com/erp/sapgen/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDocument(t *testing.T) *PostingDocument {
	doc, err := NewPostingDocument("1000", "INV0050000000", valueobject.USD, valueobject.Date(2024, time.April, 2))
	require.NoError(t, err)
	return doc
}

func TestPostingStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     PostingStatus
		to       PostingStatus
		canTrans bool
	}{
		{PostingStatusOpen, PostingStatusOpen, true},
		{PostingStatusOpen, PostingStatusCleared, true},
		{PostingStatusCleared, PostingStatusOpen, false},
		{PostingStatusCleared, PostingStatusCleared, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
	assert.False(t, PostingStatus("PAID").IsValid())
}

func TestPostingDocument_AddLine(t *testing.T) {
	doc := newTestDocument(t)
	term, err := NewPaymentTerm("Z030", 30)
	require.NoError(t, err)

	vendor, err := doc.AddLine(AccountTypeVendor, "V010000", valueobject.MustMoney("-110.00", valueobject.USD), WithPaymentTerm(term))
	require.NoError(t, err)
	assert.Equal(t, "001", vendor.LineItem())
	assert.Equal(t, Credit, vendor.DebitCredit)
	assert.Equal(t, "Z030", vendor.PaymentTerm)
	assert.Equal(t, 30, vendor.NetDays)
	assert.Equal(t, 2024, vendor.FiscalYear)
	assert.Equal(t, PostingStatusOpen, vendor.Status)

	expense, err := doc.AddLine(AccountTypeGL, "6000000", valueobject.MustMoney("110.00", valueobject.USD), WithCostCenter("1010"))
	require.NoError(t, err)
	assert.Equal(t, "002", expense.LineItem())
	assert.Equal(t, Debit, expense.DebitCredit)
	assert.Equal(t, "1010", expense.CostCenter)
	assert.Empty(t, expense.PaymentTerm)

	assert.NoError(t, doc.CheckBalanced())
	assert.Same(t, &doc.Lines[0], doc.OpenItem())

	t.Run("rejects other currency", func(t *testing.T) {
		_, err := doc.AddLine(AccountTypeGL, "6000000", valueobject.MustMoney("1", valueobject.EUR))
		assert.True(t, errors.Is(err, shared.ErrCurrencyMismatch))
	})

	t.Run("rejects bad account type", func(t *testing.T) {
		_, err := doc.AddLine(AccountType("X"), "6000000", valueobject.MustMoney("1", valueobject.USD))
		assert.Error(t, err)
	})
}

func TestPostingDocument_CheckBalanced(t *testing.T) {
	doc := newTestDocument(t)
	_, err := doc.AddLine(AccountTypeVendor, "V010000", valueobject.MustMoney("-100.00", valueobject.USD))
	require.NoError(t, err)
	_, err = doc.AddLine(AccountTypeGL, "6000000", valueobject.MustMoney("99.99", valueobject.USD))
	require.NoError(t, err)

	err = doc.CheckBalanced()
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrUnbalancedPosting))
	assert.Equal(t, "-0.01", doc.Balance().StringFixed(2))
}

func TestPostingLine_Clear(t *testing.T) {
	setup := func(t *testing.T) *PostingDocument {
		doc := newTestDocument(t)
		_, err := doc.AddLine(AccountTypeVendor, "V010000", valueobject.MustMoney("-50", valueobject.USD))
		require.NoError(t, err)
		_, err = doc.AddLine(AccountTypeGL, "6000000", valueobject.MustMoney("50", valueobject.USD))
		require.NoError(t, err)
		return doc
	}

	t.Run("clears the open item once", func(t *testing.T) {
		doc := setup(t)
		ev := ClearingEvent{Date: valueobject.AddDays(doc.DocumentDate, 20), Document: ClearingDocument("PAY", 12345678)}
		require.NoError(t, doc.ClearOpenItem(ev))

		line := doc.Lines[0]
		assert.True(t, line.IsCleared())
		require.NotNil(t, line.Clearing)
		assert.Equal(t, "PAY12345678", line.Clearing.Document)

		assert.Error(t, doc.ClearOpenItem(ev), "cleared is terminal")
	})

	t.Run("rejects clearing on document date", func(t *testing.T) {
		doc := setup(t)
		err := doc.ClearOpenItem(ClearingEvent{Date: doc.DocumentDate, Document: "PAY00000001"})
		assert.Error(t, err)
		assert.False(t, doc.Lines[0].IsCleared())
	})

	t.Run("rejects clearing a G/L line", func(t *testing.T) {
		doc := setup(t)
		err := doc.Lines[1].Clear(ClearingEvent{Date: valueobject.AddDays(doc.DocumentDate, 1), Document: "PAY00000001"})
		assert.Error(t, err)
	})

	t.Run("document without open item", func(t *testing.T) {
		doc := newTestDocument(t)
		assert.Nil(t, doc.OpenItem())
		assert.Error(t, doc.ClearOpenItem(ClearingEvent{Date: valueobject.AddDays(doc.DocumentDate, 1), Document: "X"}))
	})
}
