package trade

import (
	"fmt"
	"time"

	"github.com/erp/sapgen/internal/domain/partner"
	"github.com/erp/sapgen/internal/domain/shared"
	"github.com/erp/sapgen/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PurchaseOrderNumberBase is the first sequence value of purchase order numbers.
const PurchaseOrderNumberBase = 40000000

// PurchaseOrderNumber formats the i-th purchase order number.
func PurchaseOrderNumber(i int) string {
	return fmt.Sprintf("P%010d", PurchaseOrderNumberBase+i)
}

// Purchasing document types
var DocumentTypes = []string{"NB", "UB", "FO"}

const (
	// DocumentCategoryOrder is the purchasing document category of a standard order
	DocumentCategoryOrder = "F"
	// ReleaseIndicator marks a released order
	ReleaseIndicator = "X"
	// DefaultStorageLocation is used for every order item
	DefaultStorageLocation = "0001"
	// MaxItemTextLength is the column width of the item short text
	MaxItemTextLength = 40
	// MaxItemsPerOrder is the upper bound of line items on one order
	MaxItemsPerOrder = 5
)

// PurchaseOrder is the purchase order header
type PurchaseOrder struct {
	ID              string
	CompanyCode     string
	Category        string
	DocumentType    string
	VendorID        string
	Region          string
	PurchasingOrg   string
	PurchasingGroup string
	Currency        valueobject.Currency
	OrderDate       time.Time
	ValidFrom       time.Time
	ValidTo         time.Time
	PaymentTerm     string
	Incoterm        partner.Incoterm
	CreatedBy       string
	ChangedOn       time.Time
	Status          shared.ApprovalStatus
	State           shared.DocumentState
	Incomplete      bool
	Items           []PurchaseOrderItem
}

// PurchasingGroupFor returns the purchasing group key of a region.
func PurchasingGroupFor(region string) string {
	return valueobject.Truncate(region, 2) + "01"
}

// NewPurchaseOrder creates a purchase order header and classifies it as
// eligible for invoicing when approved.
func NewPurchaseOrder(id, companyCode, vendorID, region string, currency valueobject.Currency, orderDate time.Time, paymentTerm string, status shared.ApprovalStatus) (*PurchaseOrder, error) {
	if id == "" {
		return nil, shared.NewDomainError("INVALID_ORDER", "Purchase order number cannot be empty")
	}
	if companyCode == "" {
		return nil, shared.NewDomainError("INVALID_COMPANY_CODE", "Company code cannot be empty")
	}
	if vendorID == "" {
		return nil, shared.NewDomainError("INVALID_VENDOR", "Vendor cannot be empty")
	}
	if region == "" {
		return nil, shared.NewDomainError("INVALID_REGION", "Region cannot be empty")
	}
	if currency == "" {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency cannot be empty")
	}
	if orderDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Order date cannot be empty")
	}
	if paymentTerm == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT_TERM", "Payment term cannot be empty")
	}
	if !status.IsValid() || status == shared.ApprovalStatusParked {
		return nil, shared.NewDomainError("INVALID_STATUS", "Invalid purchase order approval status: "+string(status))
	}

	state, err := shared.DocumentStateCreated.Classify(status == shared.ApprovalStatusApproved)
	if err != nil {
		return nil, err
	}

	return &PurchaseOrder{
		ID:              id,
		CompanyCode:     companyCode,
		Category:        DocumentCategoryOrder,
		DocumentType:    DocumentTypes[0],
		VendorID:        vendorID,
		Region:          region,
		PurchasingOrg:   partner.PurchasingOrgFor(region),
		PurchasingGroup: PurchasingGroupFor(region),
		Currency:        currency,
		OrderDate:       orderDate,
		ValidFrom:       orderDate,
		ValidTo:         orderDate,
		PaymentTerm:     paymentTerm,
		ChangedOn:       orderDate,
		Status:          status,
		State:           state,
		Items:           make([]PurchaseOrderItem, 0, MaxItemsPerOrder),
	}, nil
}

// SetValidity sets the validity window, which must start and end after the order date
func (po *PurchaseOrder) SetValidity(from, to time.Time) error {
	if from.Before(po.OrderDate) || to.Before(from) {
		return shared.NewDomainError("INVALID_VALIDITY", "Validity window must follow the order date")
	}
	po.ValidFrom = from
	po.ValidTo = to
	return nil
}

// IsReleased returns true if the order may be invoiced
func (po *PurchaseOrder) IsReleased() bool {
	return po.State == shared.DocumentStateEligible
}

// ReleaseIndicator returns "X" for released orders and "" otherwise
func (po *PurchaseOrder) ReleaseIndicator() string {
	if po.IsReleased() {
		return ReleaseIndicator
	}
	return ""
}

// ProcessStatus returns the procurement process status code
func (po *PurchaseOrder) ProcessStatus() string {
	return po.Status.ProcessStatusCode()
}

// AddItem appends a line item. Net value is quantity times price rounded to cents.
func (po *PurchaseOrder) AddItem(material, text, unit string, quantity, netPrice decimal.Decimal, costCenter string, deliveryDate time.Time) (*PurchaseOrderItem, error) {
	if len(po.Items) >= MaxItemsPerOrder {
		return nil, shared.NewDomainError("TOO_MANY_ITEMS", fmt.Sprintf("Purchase order cannot have more than %d items", MaxItemsPerOrder))
	}
	if material == "" {
		return nil, shared.NewDomainError("INVALID_MATERIAL", "Material cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if netPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Net price cannot be negative")
	}
	if unit == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if costCenter == "" {
		return nil, shared.NewDomainError("INVALID_COST_CENTER", "Cost center cannot be empty")
	}
	if deliveryDate.Before(po.OrderDate) {
		return nil, shared.NewDomainError("INVALID_DATE", "Delivery date cannot precede the order date")
	}

	netValue, err := valueobject.NewMoney(quantity.Mul(netPrice), po.Currency)
	if err != nil {
		return nil, err
	}

	item := PurchaseOrderItem{
		OrderID:         po.ID,
		ItemNumber:      fmt.Sprintf("%05d", len(po.Items)+1),
		Material:        material,
		Text:            valueobject.Truncate(text, MaxItemTextLength),
		Quantity:        quantity,
		Unit:            unit,
		NetPrice:        netPrice,
		PriceUnit:       1,
		NetValue:        netValue.RoundCents(),
		Plant:           PlantFor(po.CompanyCode),
		StorageLocation: DefaultStorageLocation,
		CostCenter:      costCenter,
		DeliveryDate:    deliveryDate,
		UnderTolerance:  decimal.Zero,
		OverTolerance:   decimal.Zero,
	}
	po.Items = append(po.Items, item)
	return &po.Items[len(po.Items)-1], nil
}

// NetTotal sums the net values of all items
func (po *PurchaseOrder) NetTotal() valueobject.Money {
	total := valueobject.Zero(po.Currency)
	for _, item := range po.Items {
		total = total.MustAdd(item.NetValue)
	}
	return total
}

// ItemCount returns the number of line items
func (po *PurchaseOrder) ItemCount() int {
	return len(po.Items)
}

// PurchaseOrderItem is a line item of a purchase order
type PurchaseOrderItem struct {
	OrderID               string
	ItemNumber            string
	Material              string
	Text                  string
	Quantity              decimal.Decimal
	Unit                  string
	NetPrice              decimal.Decimal
	PriceUnit             int
	NetValue              valueobject.Money
	Plant                 string
	StorageLocation       string
	MaterialGroup         string
	CostCenter            string
	DeliveryDate          time.Time
	UnlimitedOverdelivery bool
	UnderTolerance        decimal.Decimal
	OverTolerance         decimal.Decimal
	FinalInvoice          bool
	InvoiceReceipt        bool
}

// PlantFor derives the plant key from a company code ("2100" -> "2101").
func PlantFor(companyCode string) string {
	return valueobject.Truncate(companyCode, 2) + "01"
}
