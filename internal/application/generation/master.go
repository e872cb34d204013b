package generation

import (
	"fmt"

	"github.com/erp/sapgen/internal/domain/partner"
	"github.com/erp/sapgen/internal/domain/shared"
	"github.com/erp/sapgen/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// VendorMaster is the output of the vendor stage
type VendorMaster struct {
	Vendors  []partner.Vendor
	Bindings []partner.VendorCompanyBinding
	Profiles []partner.VendorPurchasingProfile
}

// GenerateVendors creates n vendors, one company binding per company code of
// each vendor's region and one purchasing profile per vendor.
func (g *Generator) GenerateVendors(n int) (VendorMaster, error) {
	rates := g.settings.Rates
	out := VendorMaster{
		Vendors:  make([]partner.Vendor, 0, n),
		Bindings: make([]partner.VendorCompanyBinding, 0, n*2),
		Profiles: make([]partner.VendorPurchasingProfile, 0, n),
	}

	for i := 0; i < n; i++ {
		region := Pick(g.src, g.settings.Regions)
		id := partner.VendorNumber(i)

		rec, err := g.masterRecord(region)
		if err != nil {
			return VendorMaster{}, fmt.Errorf("vendor %s: %w", id, err)
		}
		vendor := partner.Vendor{ID: id, MasterRecord: rec}
		vendor.PostingBlocked = g.src.Chance(rates.VendorPostingBlock)
		vendor.DeletionFlag = g.src.Chance(rates.VendorDeletion)
		out.Vendors = append(out.Vendors, vendor)

		for _, companyCode := range region.CompanyCodes {
			b, err := partner.NewVendorCompanyBinding(id, companyCode, Pick(g.src, g.settings.Accounts.Reconciliation), g.pickTerm())
			if err != nil {
				return VendorMaster{}, err
			}
			b.DoubleInvoiceCheck = g.src.Chance(rates.DoubleInvoiceCheck)
			b.PaymentMethods = Pick(g.src, []string{partner.PaymentMethodCheck, partner.PaymentMethodTransfer, partner.PaymentMethodUnknown})
			b.PaymentBlock = g.src.Chance(rates.PaymentBlock)
			b.PostingBlocked = g.src.Chance(rates.CompanyPostingBlock)
			out.Bindings = append(out.Bindings, *b)
		}

		incoterm, err := partner.NewIncoterm(Pick(g.src, partner.IncotermRules), g.src.Text(TextCity))
		if err != nil {
			return VendorMaster{}, err
		}
		currency := Pick(g.src, g.currencies)
		p, err := partner.NewVendorPurchasingProfile(id, region.Name, g.pickTerm(), incoterm, currency)
		if err != nil {
			return VendorMaster{}, err
		}
		p.PurchasingBlocked = g.src.Chance(rates.PurchasingBlock)
		p.SubRange = g.src.Text(TextSubRange)
		p.OrderAckRequired = g.src.Chance(rates.OrderAckRequired)
		p.PriceComparison = g.src.Chance(rates.PriceComparison)
		p.ServiceBasedIV = g.src.Chance(rates.ServiceBasedIV)
		out.Profiles = append(out.Profiles, *p)
	}

	g.logger.Debug("vendors generated",
		zap.Int("vendors", len(out.Vendors)),
		zap.Int("company_bindings", len(out.Bindings)),
		zap.Int("purchasing_profiles", len(out.Profiles)),
	)
	return out, nil
}

// GenerateCustomers creates n customers with a uniformly drawn region
func (g *Generator) GenerateCustomers(n int) ([]partner.Customer, error) {
	rates := g.settings.Rates
	customers := make([]partner.Customer, 0, n)

	for i := 0; i < n; i++ {
		region := Pick(g.src, g.settings.Regions)
		id := partner.CustomerNumber(i)

		rec, err := g.masterRecord(region)
		if err != nil {
			return nil, fmt.Errorf("customer %s: %w", id, err)
		}
		customer := partner.Customer{ID: id, MasterRecord: rec}
		customer.PostingBlocked = g.src.Chance(rates.CustomerPostingBlock)
		customer.DeletionFlag = g.src.Chance(rates.CustomerDeletion)
		customers = append(customers, customer)
	}

	g.logger.Debug("customers generated", zap.Int("customers", len(customers)))
	return customers, nil
}

// masterRecord draws the general data shared by vendors and customers
func (g *Generator) masterRecord(region Region) (partner.MasterRecord, error) {
	if len(region.Countries) == 0 {
		return partner.MasterRecord{}, fmt.Errorf("%w: region %s has no countries", shared.ErrConfigInconsistent, region.Name)
	}
	country := Pick(g.src, region.Countries)

	address, err := valueobject.NewAddress(g.src.Text(TextCity), country,
		valueobject.WithStreet(g.src.Text(TextStreet)),
		valueobject.WithPostalCode(g.src.Text(TextPostcode)),
	)
	if err != nil {
		return partner.MasterRecord{}, err
	}

	name := g.src.Text(TextCompany)
	sortKey := g.src.Text(TextSortKey)
	contact := partner.Contact{
		Phone: g.src.Text(TextPhone),
		Fax:   g.src.Text(TextPhone),
		Email: g.src.Text(TextEmail),
	}
	createdOn := g.src.DateIn(g.settings.Horizon())
	contact.CreatedBy = g.src.Text(TextUserName)

	return partner.NewMasterRecord(name, sortKey, region.Name, address, createdOn, contact)
}
