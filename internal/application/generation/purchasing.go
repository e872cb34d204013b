package generation

import (
	"fmt"

	"github.com/erp/sapgen/internal/domain/partner"
	"github.com/erp/sapgen/internal/domain/shared"
	"github.com/erp/sapgen/internal/domain/shared/valueobject"
	"github.com/erp/sapgen/internal/domain/trade"
	"go.uber.org/zap"
)

// Units of measure drawn for order items
var OrderUnits = []string{"EA", "KG", "M", "L", "PC"}

// GeneratePurchaseOrders creates n purchase orders against the given vendors.
// Order dates fall into the focus year with the focus weight and otherwise
// anywhere in the order horizon.
func (g *Generator) GeneratePurchaseOrders(vendors []partner.Vendor, n int) ([]*trade.PurchaseOrder, error) {
	if n > 0 && len(vendors) == 0 {
		return nil, fmt.Errorf("%w: no vendors to order from", shared.ErrEmptyEligiblePool)
	}

	orders := make([]*trade.PurchaseOrder, 0, n)
	released := 0
	for i := 0; i < n; i++ {
		po, err := g.purchaseOrder(i, Pick(g.src, vendors))
		if err != nil {
			return nil, err
		}
		if po.IsReleased() {
			released++
		}
		orders = append(orders, po)
	}

	g.logger.Debug("purchase orders generated",
		zap.Int("orders", len(orders)),
		zap.Int("released", released),
	)
	return orders, nil
}

func (g *Generator) purchaseOrder(i int, vendor partner.Vendor) (*trade.PurchaseOrder, error) {
	rates := g.settings.Rates
	region, err := g.region(vendor.Region)
	if err != nil {
		return nil, err
	}

	id := trade.PurchaseOrderNumber(i)
	companyCode := Pick(g.src, region.CompanyCodes)
	orderDate := g.biasedDate(g.settings.orderHorizon())
	status := approvalStatus(g.src, rates.PurchaseOrderApproval)

	documentType := Pick(g.src, trade.DocumentTypes)
	currency := Pick(g.src, g.currencies)
	validFrom := valueobject.AddDays(orderDate, g.src.IntBetween(1, 30))
	validTo := valueobject.AddDays(orderDate, g.src.IntBetween(60, 365))
	paymentTerm := g.pickTerm()
	incoterm, err := partner.NewIncoterm(Pick(g.src, partner.IncotermRules), g.src.Text(TextCity))
	if err != nil {
		return nil, err
	}

	po, err := trade.NewPurchaseOrder(id, companyCode, vendor.ID, region.Name, currency, orderDate, paymentTerm, status)
	if err != nil {
		return nil, fmt.Errorf("purchase order %s: %w", id, err)
	}
	po.DocumentType = documentType
	if err := po.SetValidity(validFrom, validTo); err != nil {
		return nil, err
	}
	po.Incoterm = incoterm
	po.CreatedBy = valueobject.Truncate(g.src.Text(TextUserName), partner.MaxUserNameLength)
	po.Incomplete = g.src.Chance(rates.OrderIncomplete)

	items := g.src.IntBetween(1, trade.MaxItemsPerOrder)
	for j := 0; j < items; j++ {
		item, err := po.AddItem(
			fmt.Sprintf("M%06d", g.src.Digits(6)),
			g.src.Text(TextProduct),
			Pick(g.src, OrderUnits),
			g.src.DecimalIn(rates.OrderQuantityRange, 2),
			g.src.DecimalIn(rates.OrderNetPriceRange, 2),
			Pick(g.src, region.CostCenters),
			valueobject.AddDays(orderDate, g.src.IntBetween(7, 60)),
		)
		if err != nil {
			return nil, fmt.Errorf("purchase order %s: %w", id, err)
		}
		item.MaterialGroup = fmt.Sprintf("0%04d", g.src.Digits(4))
		item.UnlimitedOverdelivery = g.src.Chance(rates.UnlimitedOverdelivery)
		item.UnderTolerance = g.src.DecimalIn(rates.OrderToleranceRange, 1)
		item.OverTolerance = g.src.DecimalIn(rates.OrderToleranceRange, 1)
		item.FinalInvoice = g.src.Chance(rates.FinalInvoice)
		item.InvoiceReceipt = g.src.Chance(rates.InvoiceReceipt)
	}
	return po, nil
}

// approvalStatus draws an approval status with the given weights
func approvalStatus(src *Source, w Weights) shared.ApprovalStatus {
	statuses := []shared.ApprovalStatus{
		shared.ApprovalStatusApproved,
		shared.ApprovalStatusPending,
		shared.ApprovalStatusRejected,
		shared.ApprovalStatusParked,
	}
	return statuses[src.Weighted(w.Approved, w.Pending, w.Rejected, w.Parked)]
}

// releasedOrders filters the orders eligible for invoicing
func releasedOrders(orders []*trade.PurchaseOrder) []*trade.PurchaseOrder {
	out := make([]*trade.PurchaseOrder, 0, len(orders))
	for _, po := range orders {
		if po.IsReleased() {
			out = append(out, po)
		}
	}
	return out
}
