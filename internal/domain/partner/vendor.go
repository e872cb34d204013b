package partner

import (
	"fmt"
	"time"

	"github.com/erp/sapgen/internal/domain/shared"
	"github.com/erp/sapgen/internal/domain/shared/valueobject"
)

// VendorNumberBase is the first sequence value of vendor account numbers.
const VendorNumberBase = 10000

// VendorNumber formats the i-th vendor account number (V010000, V010001, ...).
func VendorNumber(i int) string {
	return fmt.Sprintf("V%06d", VendorNumberBase+i)
}

// Vendor is the general vendor master record
type Vendor struct {
	ID string
	MasterRecord
}

// NewVendor creates a vendor master record
func NewVendor(id, name, sortKey, region string, address valueobject.Address, createdOn time.Time, contact Contact) (*Vendor, error) {
	if id == "" {
		return nil, shared.NewDomainError("INVALID_VENDOR", "Vendor number cannot be empty")
	}
	rec, err := NewMasterRecord(name, sortKey, region, address, createdOn, contact)
	if err != nil {
		return nil, err
	}
	return &Vendor{ID: id, MasterRecord: rec}, nil
}

// Payment methods a vendor company binding may allow.
const (
	PaymentMethodCheck    = "C"
	PaymentMethodTransfer = "T"
	PaymentMethodUnknown  = "U"
)

// VendorCompanyBinding holds the company-code specific data of a vendor
type VendorCompanyBinding struct {
	VendorID              string
	CompanyCode           string
	ReconciliationAccount string
	PaymentTerm           string
	DoubleInvoiceCheck    bool
	PaymentMethods        string
	PaymentBlock          bool
	PlanningGroup         string
	PostingBlocked        bool
}

// NewVendorCompanyBinding binds a vendor to one company code
func NewVendorCompanyBinding(vendorID, companyCode, reconAccount, paymentTerm string) (*VendorCompanyBinding, error) {
	if vendorID == "" {
		return nil, shared.NewDomainError("INVALID_VENDOR", "Vendor number cannot be empty")
	}
	if companyCode == "" {
		return nil, shared.NewDomainError("INVALID_COMPANY_CODE", "Company code cannot be empty")
	}
	if reconAccount == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Reconciliation account cannot be empty")
	}
	if paymentTerm == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT_TERM", "Payment term cannot be empty")
	}
	return &VendorCompanyBinding{
		VendorID:              vendorID,
		CompanyCode:           companyCode,
		ReconciliationAccount: reconAccount,
		PaymentTerm:           paymentTerm,
		PaymentMethods:        PaymentMethodTransfer,
	}, nil
}

// Incoterm is an Incoterms rule plus its named place
type Incoterm struct {
	Rule  string
	Place string
}

// Incoterm rules
var IncotermRules = []string{"EXW", "FCA", "CPT", "CIP", "DAP", "DDP"}

// MaxIncotermPlaceLength is the column width of the named place.
const MaxIncotermPlaceLength = 28

// NewIncoterm validates the rule and truncates the place
func NewIncoterm(rule, place string) (Incoterm, error) {
	for _, r := range IncotermRules {
		if r == rule {
			return Incoterm{Rule: rule, Place: valueobject.Truncate(place, MaxIncotermPlaceLength)}, nil
		}
	}
	return Incoterm{}, shared.NewDomainError("INVALID_INCOTERM", "Unknown incoterm rule: "+rule)
}

// VendorPurchasingProfile holds the purchasing organization data of a vendor
type VendorPurchasingProfile struct {
	VendorID          string
	PurchasingOrg     string
	PurchasingBlocked bool
	SubRange          string
	OrderAckRequired  bool
	PriceComparison   bool
	ServiceBasedIV    bool
	PaymentTerm       string
	Incoterm          Incoterm
	Currency          valueobject.Currency
}

// PurchasingOrgFor returns the purchasing organization key of a region.
func PurchasingOrgFor(region string) string {
	return region + "00"
}

// NewVendorPurchasingProfile creates the purchasing profile of a vendor
func NewVendorPurchasingProfile(vendorID, region, paymentTerm string, incoterm Incoterm, currency valueobject.Currency) (*VendorPurchasingProfile, error) {
	if vendorID == "" {
		return nil, shared.NewDomainError("INVALID_VENDOR", "Vendor number cannot be empty")
	}
	if region == "" {
		return nil, shared.NewDomainError("INVALID_REGION", "Region cannot be empty")
	}
	if paymentTerm == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT_TERM", "Payment term cannot be empty")
	}
	if currency == "" {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency cannot be empty")
	}
	return &VendorPurchasingProfile{
		VendorID:      vendorID,
		PurchasingOrg: PurchasingOrgFor(region),
		PaymentTerm:   paymentTerm,
		Incoterm:      incoterm,
		Currency:      currency,
	}, nil
}
