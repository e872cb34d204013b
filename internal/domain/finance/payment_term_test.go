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

func TestNewPaymentTerm_DiscountSchedule(t *testing.T) {
	tests := []struct {
		code         string
		netDays      int
		discountDays int
		percent      string
		firstTier    int
		secondTier   int
		description  string
	}{
		{"Z001", 0, 0, "0", 0, 0, "Immediate payment"},
		{"Z002", 7, 0, "0", 7, 0, "Net 7 days"},
		{"Z010", 10, 0, "0", 10, 0, "Net 10 days"},
		{"Z014", 14, 7, "1", 7, 14, "Net 14 days"},
		{"Z030", 30, 10, "2", 10, 30, "Net 30 days"},
		{"Z045", 45, 10, "2", 10, 45, "Net 45 days"},
		{"Z060", 60, 10, "2", 10, 60, "Net 60 days"},
		{"Z090", 90, 14, "2.5", 14, 90, "Net 90 days"},
		{"Z120", 120, 14, "2.5", 14, 120, "Net 120 days"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			term, err := NewPaymentTerm(tt.code, tt.netDays)
			require.NoError(t, err)
			assert.Equal(t, tt.discountDays, term.DiscountDays)
			assert.Equal(t, tt.percent, term.DiscountPercent.String())
			assert.Equal(t, tt.firstTier, term.FirstTierDays())
			assert.Equal(t, tt.secondTier, term.SecondTierDays())
			assert.Equal(t, tt.description, term.Description)
			assert.Equal(t, "EN", term.Language)
		})
	}
}

func TestNewPaymentTerm_Invalid(t *testing.T) {
	_, err := NewPaymentTerm("", 10)
	assert.Error(t, err)
	_, err = NewPaymentTerm("Z999", -1)
	assert.Error(t, err)
}

func TestPaymentTerm_DueDate(t *testing.T) {
	term, err := NewPaymentTerm("Z030", 30)
	require.NoError(t, err)
	assert.Equal(t, valueobject.Date(2024, time.March, 1), term.DueDate(valueobject.Date(2024, time.January, 31)))
}

func TestNewPaymentTermCatalog(t *testing.T) {
	t.Run("default catalog", func(t *testing.T) {
		c, err := NewPaymentTermCatalog(DefaultPaymentTermDays())
		require.NoError(t, err)
		assert.Equal(t, 9, c.Len())
		assert.Equal(t, []string{"Z001", "Z002", "Z010", "Z014", "Z030", "Z045", "Z060", "Z090", "Z120"}, c.Codes())

		term, err := c.Lookup("Z090")
		require.NoError(t, err)
		assert.Equal(t, 90, term.NetDays)
		assert.True(t, c.Contains("Z001"))

		terms := c.Terms()
		require.Len(t, terms, 9)
		assert.Equal(t, "Z001", terms[0].Code)
		for _, term := range terms {
			assert.GreaterOrEqual(t, term.NetDays, 0)
		}
	})

	t.Run("unknown code", func(t *testing.T) {
		c, err := NewPaymentTermCatalog(DefaultPaymentTermDays())
		require.NoError(t, err)
		_, err = c.Lookup("Z999")
		assert.True(t, errors.Is(err, shared.ErrUnknownPaymentTerm))
		assert.False(t, c.Contains("Z999"))
	})

	t.Run("empty table is a configuration error", func(t *testing.T) {
		_, err := NewPaymentTermCatalog(map[string]int{})
		assert.True(t, errors.Is(err, shared.ErrConfigInconsistent))
	})

	t.Run("negative days is a configuration error", func(t *testing.T) {
		_, err := NewPaymentTermCatalog(map[string]int{"Z001": -3})
		assert.True(t, errors.Is(err, shared.ErrConfigInconsistent))
	})

	t.Run("codes are a copy", func(t *testing.T) {
		c, err := NewPaymentTermCatalog(DefaultPaymentTermDays())
		require.NoError(t, err)
		codes := c.Codes()
		codes[0] = "XXXX"
		assert.Equal(t, "Z001", c.Codes()[0])
	})
}
