package generation

import (
	"errors"
	"testing"
	"time"

	"github.com/erp/sapgen/internal/domain/shared"
	"github.com/erp/sapgen/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings_Valid(t *testing.T) {
	s := DefaultSettings()
	require.NoError(t, s.Validate())

	assert.Equal(t, valueobject.Date(2023, time.January, 1), s.StartDate)
	assert.Equal(t, valueobject.Date(2025, time.March, 31), s.EndDate)
	assert.Equal(t, 2024, s.FocusYear)
	assert.Equal(t, []string{"NA", "EU", "APAC", "LATAM", "MEA"}, s.RegionNames())
	assert.Len(t, s.PaymentTerms, 9)
	assert.Equal(t, 100, s.Rates.PurchaseOrderApproval.Total())
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Settings)
	}{
		{"end before start", func(s *Settings) { s.EndDate = valueobject.Date(2022, 1, 1) }},
		{"end equals start", func(s *Settings) { s.EndDate = s.StartDate }},
		{"focus year outside range", func(s *Settings) { s.FocusYear = 2030 }},
		{"focus weight above one", func(s *Settings) { s.FocusWeight = 1.5 }},
		{"negative count", func(s *Settings) { s.Counts.Vendors = -1 }},
		{"rate above one", func(s *Settings) { s.Rates.PaymentBlock = 2 }},
		{"duplicate region", func(s *Settings) { s.Regions = append(s.Regions, s.Regions[0]) }},
		{"region without company codes", func(s *Settings) { s.Regions[0].CompanyCodes = nil }},
		{"region without cost centers", func(s *Settings) { s.Regions[1].CostCenters = nil }},
		{"unknown currency", func(s *Settings) { s.Currencies = []string{"USD", "QQQ"} }},
		{"no payment terms", func(s *Settings) { s.PaymentTerms = map[string]int{} }},
		{"negative net days", func(s *Settings) { s.PaymentTerms["Z999"] = -5 }},
		{"no approval weights", func(s *Settings) { s.Rates.PurchaseOrderApproval = Weights{} }},
		{"parked purchase orders", func(s *Settings) { s.Rates.PurchaseOrderApproval.Parked = 5 }},
		{"inverted net range", func(s *Settings) { s.Rates.SalesInvoiceNetRange = Range{Min: 10, Max: 5} }},
		{"zero net amount", func(s *Settings) { s.Rates.SalesInvoiceNetRange = Range{Min: 0, Max: 5} }},
		{"no expense accounts", func(s *Settings) { s.Accounts.Expense = nil }},
		{"clearing without weights", func(s *Settings) { s.Payables.OnTimeWeight, s.Payables.LateWeight = 0, 0 }},
		{"inverted late window", func(s *Settings) { s.Receivables.LateToDays = 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			err := s.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, shared.ErrConfigInconsistent), "got %v", err)
		})
	}
}

func TestSettings_FocusWindow(t *testing.T) {
	s := DefaultSettings()
	s.StartDate = valueobject.Date(2024, time.June, 1)
	s.EndDate = valueobject.Date(2025, time.January, 1)

	w, ok := s.focusWindow()
	require.True(t, ok)
	assert.Equal(t, valueobject.Date(2024, time.June, 1), w.Start)
	assert.Equal(t, valueobject.Date(2024, time.December, 31), w.End)

	// orders stop one day before the end date
	s.FocusYear = 2025
	assert.Error(t, s.Validate())
}
