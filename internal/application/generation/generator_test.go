package generation

import (
	"errors"
	"testing"
	"time"

	"github.com/erp/sapgen/internal/domain/finance"
	"github.com/erp/sapgen/internal/domain/partner"
	"github.com/erp/sapgen/internal/domain/shared"
	"github.com/erp/sapgen/internal/domain/shared/valueobject"
	"github.com/erp/sapgen/internal/domain/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallSettings(seed uint64) Settings {
	s := DefaultSettings()
	s.Seed = seed
	s.Counts = Counts{Vendors: 20, Customers: 15, PurchaseOrders: 120, VendorInvoices: 150, SalesInvoices: 140}
	return s
}

func createGenerator(t *testing.T, s Settings) *Generator {
	g, err := NewGenerator(s)
	require.NoError(t, err)
	return g
}

func TestNewGenerator_InvalidSettings(t *testing.T) {
	s := DefaultSettings()
	s.Regions = nil

	_, err := NewGenerator(s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrConfigInconsistent))
}

func TestGenerator_PaymentTerms(t *testing.T) {
	g := createGenerator(t, smallSettings(1))

	terms := g.PaymentTerms()
	assert.Equal(t, []string{"Z001", "Z002", "Z010", "Z014", "Z030", "Z045", "Z060", "Z090", "Z120"}, terms.Codes())

	z030, err := terms.Lookup("Z030")
	require.NoError(t, err)
	assert.Equal(t, 30, z030.NetDays)
	assert.Equal(t, 10, z030.DiscountDays)
}

func TestGenerator_GenerateVendors(t *testing.T) {
	s := smallSettings(11)
	g := createGenerator(t, s)

	vm, err := g.GenerateVendors(30)
	require.NoError(t, err)
	require.Len(t, vm.Vendors, 30)
	assert.Len(t, vm.Profiles, 30)

	assert.Equal(t, "V010000", vm.Vendors[0].ID)
	assert.Equal(t, "V010029", vm.Vendors[29].ID)

	regions := map[string]Region{}
	for _, r := range s.Regions {
		regions[r.Name] = r
	}
	vendors := map[string]partner.Vendor{}
	wantBindings := 0
	for _, v := range vm.Vendors {
		vendors[v.ID] = v
		r, ok := regions[v.Region]
		require.True(t, ok, "vendor region %s", v.Region)
		assert.Contains(t, r.Countries, v.Country())
		assert.NotEmpty(t, v.Name)
		assert.LessOrEqual(t, len([]rune(v.Name)), partner.MaxNameLength)
		assert.True(t, s.Horizon().Contains(v.CreatedOn))
		wantBindings += len(r.CompanyCodes)
	}
	assert.Len(t, vm.Bindings, wantBindings)

	for _, b := range vm.Bindings {
		v, ok := vendors[b.VendorID]
		require.True(t, ok)
		assert.Contains(t, regions[v.Region].CompanyCodes, b.CompanyCode)
		assert.Contains(t, s.Accounts.Reconciliation, b.ReconciliationAccount)
		assert.Contains(t, s.PaymentTerms, b.PaymentTerm)
	}
	for _, p := range vm.Profiles {
		v, ok := vendors[p.VendorID]
		require.True(t, ok)
		assert.Equal(t, v.Region+"00", p.PurchasingOrg)
		assert.Contains(t, s.Currencies, p.Currency.String())
		assert.Contains(t, partner.IncotermRules, p.Incoterm.Rule)
	}
}

func TestGenerator_GenerateCustomers(t *testing.T) {
	g := createGenerator(t, smallSettings(12))

	customers, err := g.GenerateCustomers(10)
	require.NoError(t, err)
	require.Len(t, customers, 10)
	assert.Equal(t, "C020000", customers[0].ID)
	for _, c := range customers {
		assert.Equal(t, partner.DefaultLanguage, c.Language)
		assert.False(t, c.Address.IsEmpty())
	}
}

func TestGenerator_GeneratePurchaseOrders(t *testing.T) {
	s := smallSettings(13)
	g := createGenerator(t, s)

	vm, err := g.GenerateVendors(10)
	require.NoError(t, err)
	orders, err := g.GeneratePurchaseOrders(vm.Vendors, 300)
	require.NoError(t, err)
	require.Len(t, orders, 300)
	assert.Equal(t, "P0040000000", orders[0].ID)

	vendors := map[string]partner.Vendor{}
	for _, v := range vm.Vendors {
		vendors[v.ID] = v
	}
	horizon := s.orderHorizon()
	for _, po := range orders {
		v, ok := vendors[po.VendorID]
		require.True(t, ok)
		assert.Equal(t, v.Region, po.Region)
		assert.True(t, horizon.Contains(po.OrderDate), po.OrderDate)

		require.GreaterOrEqual(t, po.ItemCount(), 1)
		require.LessOrEqual(t, po.ItemCount(), trade.MaxItemsPerOrder)

		switch po.Status {
		case shared.ApprovalStatusApproved:
			assert.Equal(t, "X", po.ReleaseIndicator())
			assert.Equal(t, "05", po.ProcessStatus())
		case shared.ApprovalStatusPending:
			assert.Empty(t, po.ReleaseIndicator())
			assert.Equal(t, "03", po.ProcessStatus())
		case shared.ApprovalStatusRejected:
			assert.Empty(t, po.ReleaseIndicator())
			assert.Equal(t, "01", po.ProcessStatus())
		default:
			t.Fatalf("unexpected purchase order status %s", po.Status)
		}

		for _, item := range po.Items {
			assert.Contains(t, regionByName(s, po.Region).CostCenters, item.CostCenter)
			assert.True(t, item.NetValue.Amount().Equal(item.Quantity.Mul(item.NetPrice).Round(2)))
			days := valueobject.DaysBetween(po.OrderDate, item.DeliveryDate)
			assert.GreaterOrEqual(t, days, 7)
			assert.LessOrEqual(t, days, 60)
		}
	}
}

func TestGenerator_GeneratePurchaseOrders_NoVendors(t *testing.T) {
	g := createGenerator(t, smallSettings(14))

	_, err := g.GeneratePurchaseOrders(nil, 5)
	assert.True(t, errors.Is(err, shared.ErrEmptyEligiblePool))

	orders, err := g.GeneratePurchaseOrders(nil, 0)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestGenerator_FocusYearBias(t *testing.T) {
	s := smallSettings(15)
	g := createGenerator(t, s)

	vm, err := g.GenerateVendors(5)
	require.NoError(t, err)
	orders, err := g.GeneratePurchaseOrders(vm.Vendors, 2000)
	require.NoError(t, err)

	inFocus := 0
	for _, po := range orders {
		if po.OrderDate.Year() == s.FocusYear {
			inFocus++
		}
	}
	assert.InDelta(t, 0.70, float64(inFocus)/float64(len(orders)), 0.05)
}

func TestGenerator_GenerateVendorInvoices(t *testing.T) {
	s := smallSettings(16)
	g := createGenerator(t, s)

	vm, err := g.GenerateVendors(10)
	require.NoError(t, err)
	orders, err := g.GeneratePurchaseOrders(vm.Vendors, 100)
	require.NoError(t, err)
	out, err := g.GenerateVendorInvoices(orders, 300)
	require.NoError(t, err)
	require.Len(t, out.Invoices, 300)
	require.Len(t, out.Postings, 300)

	byID := map[string]*trade.PurchaseOrder{}
	for _, po := range orders {
		byID[po.ID] = po
	}
	for i, inv := range out.Invoices {
		po, ok := byID[inv.PurchaseOrderID]
		require.True(t, ok)
		assert.True(t, po.IsReleased(), "invoice %s against unreleased order %s", inv.ID, po.ID)
		assert.True(t, inv.InvoiceDate.After(po.OrderDate))
		assert.LessOrEqual(t, valueobject.DaysBetween(po.OrderDate, inv.InvoiceDate), finance.MaxInvoiceProcessingDays)
		assert.False(t, inv.InvoiceDate.After(s.EndDate))
		assert.True(t, inv.Gross.Equals(po.NetTotal()))
		if inv.Status == shared.ApprovalStatusRejected {
			assert.Equal(t, inv.ID, inv.ReversalDocument)
		}

		doc := out.Postings[i]
		require.NoError(t, doc.CheckBalanced())
		assert.Equal(t, inv.ID, doc.Number)
		vendorLine := doc.OpenItem()
		require.NotNil(t, vendorLine)
		assert.Equal(t, finance.AccountTypeVendor, vendorLine.AccountType)
		assert.Equal(t, po.VendorID, vendorLine.Account)
		assert.Equal(t, po.PaymentTerm, vendorLine.PaymentTerm)
		if !inv.IsPayable() {
			assert.False(t, vendorLine.IsCleared(), "only approved invoices are paid")
		}
	}
	assert.Equal(t, out.Clearing.Attempted, out.Clearing.Cleared+out.Clearing.OutOfRange)
}

func TestGenerator_GenerateVendorInvoices_EmptyPool(t *testing.T) {
	s := smallSettings(17)
	s.Rates.PurchaseOrderApproval = Weights{Pending: 1}
	g := createGenerator(t, s)

	vm, err := g.GenerateVendors(3)
	require.NoError(t, err)
	orders, err := g.GeneratePurchaseOrders(vm.Vendors, 20)
	require.NoError(t, err)

	_, err = g.GenerateVendorInvoices(orders, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrEmptyEligiblePool))
}

func TestGenerator_GenerateSalesInvoices(t *testing.T) {
	s := smallSettings(18)
	g := createGenerator(t, s)

	customers, err := g.GenerateCustomers(10)
	require.NoError(t, err)
	out, err := g.GenerateSalesInvoices(customers, 400)
	require.NoError(t, err)
	require.Len(t, out.Invoices, 400)

	byID := map[string]partner.Customer{}
	for _, c := range customers {
		byID[c.ID] = c
	}
	posted := 0
	for i, inv := range out.Invoices {
		assert.Equal(t, finance.SalesInvoiceNumber(i), inv.ID)
		c, ok := byID[inv.PayerID]
		require.True(t, ok)
		assert.Contains(t, regionByName(s, c.Region).CompanyCodes, inv.CompanyCode)
		assert.True(t, s.Horizon().Contains(inv.BillingDate))

		if inv.Released {
			assert.Equal(t, finance.AccountingDocumentNumber(posted), inv.AccountingDocument)
			posted++
		} else {
			assert.Empty(t, inv.AccountingDocument)
		}
	}
	require.Len(t, out.Postings, posted)
	assert.Greater(t, posted, 300)

	for _, doc := range out.Postings {
		require.NoError(t, doc.CheckBalanced())
		line := doc.OpenItem()
		require.NotNil(t, line)
		assert.Equal(t, finance.AccountTypeCustomer, line.AccountType)
		assert.True(t, g.PaymentTerms().Contains(line.PaymentTerm))
	}
}

func TestGenerator_GenerateSalesInvoices_NoCustomers(t *testing.T) {
	g := createGenerator(t, smallSettings(19))

	_, err := g.GenerateSalesInvoices(nil, 1)
	assert.True(t, errors.Is(err, shared.ErrEmptyEligiblePool))
}

func TestGenerator_ClearingWithinBounds(t *testing.T) {
	s := smallSettings(20)
	s.EndDate = valueobject.Date(2024, time.March, 31)
	s.StartDate = valueobject.Date(2024, time.January, 1)
	g := createGenerator(t, s)

	customers, err := g.GenerateCustomers(5)
	require.NoError(t, err)
	out, err := g.GenerateSalesInvoices(customers, 500)
	require.NoError(t, err)

	for _, doc := range out.Postings {
		line := doc.OpenItem()
		if !line.IsCleared() {
			continue
		}
		assert.True(t, line.Clearing.Date.After(doc.DocumentDate))
		assert.False(t, line.Clearing.Date.After(s.EndDate))
		assert.Regexp(t, `^REC[0-9]{8}$`, line.Clearing.Document)
	}
	assert.Positive(t, out.Clearing.OutOfRange, "short horizons push some late payments past the end date")
}

func TestClearingStats_Record(t *testing.T) {
	var stats ClearingStats
	for _, o := range []finance.ClearingOutcome{
		finance.ClearingNotAttempted,
		finance.ClearingCleared,
		finance.ClearingClearedLate,
		finance.ClearingClearedLate,
		finance.ClearingOutOfRange,
	} {
		stats.Record(o)
	}

	assert.Equal(t, ClearingStats{NotAttempted: 1, Attempted: 4, Cleared: 3, Late: 2, OutOfRange: 1}, stats)
}

func TestGenerator_ClearingStatsMatchPostings(t *testing.T) {
	g := createGenerator(t, smallSettings(31))

	customers, err := g.GenerateCustomers(10)
	require.NoError(t, err)
	out, err := g.GenerateSalesInvoices(customers, 300)
	require.NoError(t, err)

	cleared := 0
	for _, doc := range out.Postings {
		if doc.OpenItem().IsCleared() {
			cleared++
		}
	}
	assert.Equal(t, cleared, out.Clearing.Cleared)
	assert.Equal(t, len(out.Postings), out.Clearing.Attempted+out.Clearing.NotAttempted)
	assert.LessOrEqual(t, out.Clearing.Late, out.Clearing.Cleared)
}

func regionByName(s Settings, name string) Region {
	for _, r := range s.Regions {
		if r.Name == name {
			return r
		}
	}
	return Region{}
}
