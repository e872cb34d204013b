package generation

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/sapgen/internal/domain/finance"
	"github.com/erp/sapgen/internal/domain/shared"
	"github.com/erp/sapgen/internal/domain/shared/valueobject"
	"github.com/go-playground/validator/v10"
)

// Region is one entry of the region table: its countries, company codes and
// cost centers.
type Region struct {
	Name         string   `mapstructure:"name" yaml:"name" validate:"required,alphanum"`
	Countries    []string `mapstructure:"countries" yaml:"countries" validate:"min=1,dive,len=2"`
	CompanyCodes []string `mapstructure:"company_codes" yaml:"company_codes" validate:"min=1,dive,required"`
	CostCenters  []string `mapstructure:"cost_centers" yaml:"cost_centers" validate:"min=1,dive,required"`
}

// Counts are the per-stage record counts
type Counts struct {
	Vendors        int `mapstructure:"vendors" yaml:"vendors" validate:"gte=0"`
	Customers      int `mapstructure:"customers" yaml:"customers" validate:"gte=0"`
	PurchaseOrders int `mapstructure:"purchase_orders" yaml:"purchase_orders" validate:"gte=0"`
	VendorInvoices int `mapstructure:"vendor_invoices" yaml:"vendor_invoices" validate:"gte=0"`
	SalesInvoices  int `mapstructure:"sales_invoices" yaml:"sales_invoices" validate:"gte=0"`
}

// Rates are the probabilities of the independent flag draws
type Rates struct {
	VendorPostingBlock    float64 `mapstructure:"vendor_posting_block" yaml:"vendor_posting_block" validate:"gte=0,lte=1"`
	VendorDeletion        float64 `mapstructure:"vendor_deletion" yaml:"vendor_deletion" validate:"gte=0,lte=1"`
	DoubleInvoiceCheck    float64 `mapstructure:"double_invoice_check" yaml:"double_invoice_check" validate:"gte=0,lte=1"`
	PaymentBlock          float64 `mapstructure:"payment_block" yaml:"payment_block" validate:"gte=0,lte=1"`
	CompanyPostingBlock   float64 `mapstructure:"company_posting_block" yaml:"company_posting_block" validate:"gte=0,lte=1"`
	PurchasingBlock       float64 `mapstructure:"purchasing_block" yaml:"purchasing_block" validate:"gte=0,lte=1"`
	OrderAckRequired      float64 `mapstructure:"order_ack_required" yaml:"order_ack_required" validate:"gte=0,lte=1"`
	PriceComparison       float64 `mapstructure:"price_comparison" yaml:"price_comparison" validate:"gte=0,lte=1"`
	ServiceBasedIV        float64 `mapstructure:"service_based_iv" yaml:"service_based_iv" validate:"gte=0,lte=1"`
	CustomerPostingBlock  float64 `mapstructure:"customer_posting_block" yaml:"customer_posting_block" validate:"gte=0,lte=1"`
	CustomerDeletion      float64 `mapstructure:"customer_deletion" yaml:"customer_deletion" validate:"gte=0,lte=1"`
	OrderIncomplete       float64 `mapstructure:"order_incomplete" yaml:"order_incomplete" validate:"gte=0,lte=1"`
	UnlimitedOverdelivery float64 `mapstructure:"unlimited_overdelivery" yaml:"unlimited_overdelivery" validate:"gte=0,lte=1"`
	FinalInvoice          float64 `mapstructure:"final_invoice" yaml:"final_invoice" validate:"gte=0,lte=1"`
	InvoiceReceipt        float64 `mapstructure:"invoice_receipt" yaml:"invoice_receipt" validate:"gte=0,lte=1"`
	SalesReleased         float64 `mapstructure:"sales_released" yaml:"sales_released" validate:"gte=0,lte=1"`
	SalesCancelled        float64 `mapstructure:"sales_cancelled" yaml:"sales_cancelled" validate:"gte=0,lte=1"`
	PurchaseOrderApproval Weights `mapstructure:"purchase_order_approval" yaml:"purchase_order_approval"`
	VendorInvoiceApproval Weights `mapstructure:"vendor_invoice_approval" yaml:"vendor_invoice_approval"`
	VendorInvoiceTaxRange Range   `mapstructure:"vendor_invoice_tax" yaml:"vendor_invoice_tax"`
	SalesInvoiceTaxRange  Range   `mapstructure:"sales_invoice_tax" yaml:"sales_invoice_tax"`
	SalesInvoiceNetRange  Range   `mapstructure:"sales_invoice_net" yaml:"sales_invoice_net"`
	OrderQuantityRange    Range   `mapstructure:"order_quantity" yaml:"order_quantity"`
	OrderNetPriceRange    Range   `mapstructure:"order_net_price" yaml:"order_net_price"`
	OrderToleranceRange   Range   `mapstructure:"order_tolerance" yaml:"order_tolerance"`
}

// Weights are the approval status weights. Parked only applies to invoices.
type Weights struct {
	Approved int `mapstructure:"approved" yaml:"approved" validate:"gte=0"`
	Pending  int `mapstructure:"pending" yaml:"pending" validate:"gte=0"`
	Rejected int `mapstructure:"rejected" yaml:"rejected" validate:"gte=0"`
	Parked   int `mapstructure:"parked" yaml:"parked" validate:"gte=0"`
}

// Total returns the sum of all weights
func (w Weights) Total() int {
	return w.Approved + w.Pending + w.Rejected + w.Parked
}

// Range is a closed numeric interval
type Range struct {
	Min float64 `mapstructure:"min" yaml:"min" validate:"gte=0"`
	Max float64 `mapstructure:"max" yaml:"max" validate:"gtefield=Min"`
}

// Accounts lists the G/L accounts drawn for postings
type Accounts struct {
	Reconciliation []string `mapstructure:"reconciliation" yaml:"reconciliation" validate:"min=1,dive,required"`
	Expense        []string `mapstructure:"expense" yaml:"expense" validate:"min=1,dive,required"`
	Revenue        []string `mapstructure:"revenue" yaml:"revenue" validate:"min=1,dive,required"`
}

// Settings is the immutable input of a generation run
type Settings struct {
	Seed         uint64                 `mapstructure:"seed" yaml:"seed"`
	StartDate    time.Time              `mapstructure:"start_date" yaml:"start_date" validate:"required"`
	EndDate      time.Time              `mapstructure:"end_date" yaml:"end_date" validate:"required"`
	FocusYear    int                    `mapstructure:"focus_year" yaml:"focus_year" validate:"gte=1900,lte=9999"`
	FocusWeight  float64                `mapstructure:"focus_weight" yaml:"focus_weight" validate:"gte=0,lte=1"`
	Counts       Counts                 `mapstructure:"counts" yaml:"counts"`
	Rates        Rates                  `mapstructure:"rates" yaml:"rates"`
	Payables     finance.ClearingPolicy `mapstructure:"payables" yaml:"payables"`
	Receivables  finance.ClearingPolicy `mapstructure:"receivables" yaml:"receivables"`
	Regions      []Region               `mapstructure:"regions" yaml:"regions" validate:"min=1,dive"`
	Currencies   []string               `mapstructure:"currencies" yaml:"currencies" validate:"min=1,dive,len=3"`
	PaymentTerms map[string]int         `mapstructure:"payment_terms" yaml:"payment_terms" validate:"min=1,dive,gte=0"`
	Accounts     Accounts               `mapstructure:"accounts" yaml:"accounts"`
}

// DefaultSettings returns the standard dataset profile: 2023-01-01 to
// 2025-03-31 with 2024 as focus year.
func DefaultSettings() Settings {
	return Settings{
		StartDate:   valueobject.Date(2023, time.January, 1),
		EndDate:     valueobject.Date(2025, time.March, 31),
		FocusYear:   2024,
		FocusWeight: 0.7,
		Counts: Counts{
			Vendors:        200,
			Customers:      150,
			PurchaseOrders: 1500,
			VendorInvoices: 2000,
			SalesInvoices:  1800,
		},
		Rates: Rates{
			VendorPostingBlock:    0.05,
			VendorDeletion:        0.02,
			DoubleInvoiceCheck:    0.10,
			PaymentBlock:          0.05,
			CompanyPostingBlock:   0.03,
			PurchasingBlock:       0.05,
			OrderAckRequired:      0.10,
			PriceComparison:       0.15,
			ServiceBasedIV:        0.20,
			CustomerPostingBlock:  0.03,
			CustomerDeletion:      0.01,
			OrderIncomplete:       0.10,
			UnlimitedOverdelivery: 0.10,
			FinalInvoice:          0.05,
			InvoiceReceipt:        0.03,
			SalesReleased:         0.95,
			SalesCancelled:        0.02,
			PurchaseOrderApproval: Weights{Approved: 85, Pending: 10, Rejected: 5},
			VendorInvoiceApproval: Weights{Approved: 70, Pending: 15, Rejected: 5, Parked: 10},
			VendorInvoiceTaxRange: Range{Min: 0.05, Max: 0.25},
			SalesInvoiceTaxRange:  Range{Min: 0.05, Max: 0.25},
			SalesInvoiceNetRange:  Range{Min: 1000, Max: 50000},
			OrderQuantityRange:    Range{Min: 1, Max: 1000},
			OrderNetPriceRange:    Range{Min: 10, Max: 5000},
			OrderToleranceRange:   Range{Min: 0, Max: 10},
		},
		Payables:    finance.PayablesClearing(),
		Receivables: finance.ReceivablesClearing(),
		Regions: []Region{
			{Name: "NA", Countries: []string{"US", "CA", "MX"}, CompanyCodes: []string{"1000", "1100"}, CostCenters: []string{"1000", "1010", "1020", "1030", "1040"}},
			{Name: "EU", Countries: []string{"DE", "FR", "GB", "IT", "ES", "NL", "SE"}, CompanyCodes: []string{"2000", "2100", "2200"}, CostCenters: []string{"2000", "2010", "2020", "2030", "2040"}},
			{Name: "APAC", Countries: []string{"JP", "CN", "AU", "SG", "IN"}, CompanyCodes: []string{"3000", "3100"}, CostCenters: []string{"3000", "3010", "3020", "3030", "3040"}},
			{Name: "LATAM", Countries: []string{"BR", "AR", "CL", "CO"}, CompanyCodes: []string{"4000"}, CostCenters: []string{"4000", "4010", "4020", "4030", "4040"}},
			{Name: "MEA", Countries: []string{"AE", "SA", "ZA"}, CompanyCodes: []string{"5000"}, CostCenters: []string{"5000", "5010", "5020", "5030", "5040"}},
		},
		Currencies:   []string{"USD", "EUR", "GBP", "JPY", "CNY", "BRL", "CAD", "AUD", "CHF", "SEK"},
		PaymentTerms: finance.DefaultPaymentTermDays(),
		Accounts: Accounts{
			Reconciliation: []string{"2100000", "2110000", "2120000"},
			Expense:        []string{"6000000", "6100000", "6200000"},
			Revenue:        []string{"4000000", "4100000", "4200000"},
		},
	}
}

var validate = validator.New()

// Validate checks scalar bounds with struct tags, then the cross-field rules.
// Every failure wraps shared.ErrConfigInconsistent.
func (s Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %s", shared.ErrConfigInconsistent, describeValidation(err))
	}

	if !s.EndDate.After(s.StartDate) {
		return fmt.Errorf("%w: end date %s must be after start date %s", shared.ErrConfigInconsistent,
			s.EndDate.Format(valueobject.DateLayout), s.StartDate.Format(valueobject.DateLayout))
	}
	if _, ok := s.focusWindow(); !ok {
		return fmt.Errorf("%w: focus year %d does not overlap %s", shared.ErrConfigInconsistent, s.FocusYear, s.orderHorizon())
	}

	seen := make(map[string]bool, len(s.Regions))
	for _, r := range s.Regions {
		if seen[r.Name] {
			return fmt.Errorf("%w: region %s is defined twice", shared.ErrConfigInconsistent, r.Name)
		}
		seen[r.Name] = true
	}

	for _, code := range s.Currencies {
		if _, err := valueobject.ParseCurrency(code); err != nil {
			return fmt.Errorf("%w: %s", shared.ErrConfigInconsistent, err.Error())
		}
	}

	if s.Rates.PurchaseOrderApproval.Total() <= 0 {
		return fmt.Errorf("%w: purchase order approval weights sum to zero", shared.ErrConfigInconsistent)
	}
	if s.Rates.PurchaseOrderApproval.Parked != 0 {
		return fmt.Errorf("%w: purchase orders cannot be parked", shared.ErrConfigInconsistent)
	}
	if s.Rates.VendorInvoiceApproval.Total() <= 0 {
		return fmt.Errorf("%w: vendor invoice approval weights sum to zero", shared.ErrConfigInconsistent)
	}
	if s.Rates.SalesInvoiceNetRange.Min <= 0 {
		return fmt.Errorf("%w: sales invoice net amounts must be positive", shared.ErrConfigInconsistent)
	}
	if s.Rates.OrderQuantityRange.Min <= 0 {
		return fmt.Errorf("%w: order quantities must be positive", shared.ErrConfigInconsistent)
	}

	if err := s.Payables.Check(); err != nil {
		return fmt.Errorf("%w: payables clearing: %s", shared.ErrConfigInconsistent, err.Error())
	}
	if err := s.Receivables.Check(); err != nil {
		return fmt.Errorf("%w: receivables clearing: %s", shared.ErrConfigInconsistent, err.Error())
	}
	return nil
}

// Horizon is the overall generation date range
func (s Settings) Horizon() valueobject.DateRange {
	return valueobject.DateRange{Start: s.StartDate, End: s.EndDate}
}

// orderHorizon keeps order dates one day short of the end date so that every
// order leaves room for an invoice.
func (s Settings) orderHorizon() valueobject.DateRange {
	return valueobject.DateRange{Start: s.StartDate, End: valueobject.AddDays(s.EndDate, -1)}
}

func (s Settings) focusWindow() (valueobject.DateRange, bool) {
	return valueobject.YearRange(s.FocusYear).Intersect(s.orderHorizon())
}

// RegionNames returns the configured region names in table order
func (s Settings) RegionNames() []string {
	names := make([]string, len(s.Regions))
	for i, r := range s.Regions {
		names[i] = r.Name
	}
	return names
}

func describeValidation(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
