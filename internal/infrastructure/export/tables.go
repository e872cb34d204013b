package export

import (
	"fmt"
	"time"

	"github.com/erp/sapgen/internal/application/generation"
	"github.com/erp/sapgen/internal/domain/finance"
	"github.com/erp/sapgen/internal/domain/partner"
	"github.com/erp/sapgen/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Table is a template together with its rows. Row values are strings, ints,
// Numeric, time.Time or nil; renderers decide how each is written.
type Table struct {
	TableTemplate
	Rows [][]any
}

// Tables maps a dataset onto the relational tables in schema order
func Tables(ds *generation.Dataset) []Table {
	rows := map[string][][]any{
		TablePaymentTerms:     paymentTermRows(ds.PaymentTerms),
		TableVendors:          vendorRows(ds.Vendors),
		TableVendorCompany:    bindingRows(ds.VendorBindings),
		TableVendorPurchasing: profileRows(ds.VendorProfiles),
		TableCustomers:        customerRows(ds.Customers),
		TableOrderHeaders:     orderRows(ds),
		TableOrderItems:       itemRows(ds),
		TableVendorInvoices:   vendorInvoiceRows(ds.VendorInvoices),
		TableSalesInvoices:    salesInvoiceRows(ds.SalesInvoices),
		TablePostings:         postingRows(ds.PostingLines()),
	}

	schema := Schema()
	out := make([]Table, 0, len(schema))
	for _, tmpl := range schema {
		out = append(out, Table{TableTemplate: tmpl, Rows: rows[tmpl.Name]})
	}
	return out
}

// RowCounts returns the number of rows per table name
func RowCounts(tables []Table) map[string]int {
	counts := make(map[string]int, len(tables))
	for _, t := range tables {
		counts[t.Name] = len(t.Rows)
	}
	return counts
}

// Numeric is a fixed-point value already formatted for output. Unlike a
// string it is written without quotes.
type Numeric string

func flag(set bool) any {
	if set {
		return "X"
	}
	return nil
}

func date(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func money(m valueobject.Money) Numeric {
	return Numeric(m.StringFixed(valueobject.CentPlaces))
}

func fixed(d decimal.Decimal, places int32) Numeric {
	return Numeric(d.StringFixed(places))
}

func paymentTermRows(terms []finance.PaymentTerm) [][]any {
	rows := make([][]any, 0, len(terms))
	for _, t := range terms {
		rows = append(rows, []any{
			t.Code, t.Language, t.Description,
			t.FirstTierDays(), fixed(t.DiscountPercent, 3), 0,
			t.SecondTierDays(), fixed(decimal.Zero, 3), 0, fixed(decimal.Zero, 3),
		})
	}
	return rows
}

func masterRow(id string, m partner.MasterRecord) []any {
	return []any{
		id, m.Name, m.SortKey,
		m.Address.Street(), m.Address.City(), m.Address.PostalCode(), m.Country(),
		m.Language, m.Phone, m.Fax, m.Email, m.AccountGroup,
		date(m.CreatedOn), m.CreatedBy, flag(m.PostingBlocked), flag(m.DeletionFlag),
	}
}

func vendorRows(vendors []partner.Vendor) [][]any {
	rows := make([][]any, 0, len(vendors))
	for _, v := range vendors {
		rows = append(rows, masterRow(v.ID, v.MasterRecord))
	}
	return rows
}

func customerRows(customers []partner.Customer) [][]any {
	rows := make([][]any, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, masterRow(c.ID, c.MasterRecord))
	}
	return rows
}

func bindingRows(bindings []partner.VendorCompanyBinding) [][]any {
	rows := make([][]any, 0, len(bindings))
	for _, b := range bindings {
		var block any
		if b.PaymentBlock {
			block = "B"
		}
		rows = append(rows, []any{
			b.VendorID, b.CompanyCode, b.ReconciliationAccount, b.PaymentTerm,
			flag(b.DoubleInvoiceCheck), b.PaymentMethods, block, b.PlanningGroup,
			flag(b.PostingBlocked),
		})
	}
	return rows
}

func profileRows(profiles []partner.VendorPurchasingProfile) [][]any {
	rows := make([][]any, 0, len(profiles))
	for _, p := range profiles {
		rows = append(rows, []any{
			p.VendorID, p.PurchasingOrg, flag(p.PurchasingBlocked), p.SubRange,
			flag(p.OrderAckRequired), flag(p.PriceComparison), flag(p.ServiceBasedIV),
			p.PaymentTerm, p.Incoterm.Rule, p.Incoterm.Place, p.Currency.String(),
		})
	}
	return rows
}

func orderRows(ds *generation.Dataset) [][]any {
	rows := make([][]any, 0, len(ds.PurchaseOrders))
	for _, po := range ds.PurchaseOrders {
		rows = append(rows, []any{
			po.ID, po.CompanyCode, po.Category, po.DocumentType, po.VendorID,
			po.PurchasingOrg, po.PurchasingGroup, po.Currency.String(),
			date(po.OrderDate), date(po.ValidFrom), date(po.ValidTo),
			po.PaymentTerm, po.Incoterm.Rule, po.Incoterm.Place, po.CreatedBy,
			date(po.ChangedOn), po.ReleaseIndicator(), po.Status.String(),
			po.ProcessStatus(), flag(po.Incomplete),
		})
	}
	return rows
}

func itemRows(ds *generation.Dataset) [][]any {
	items := ds.PurchaseOrderItems()
	rows := make([][]any, 0, len(items))
	for _, it := range items {
		rows = append(rows, []any{
			it.OrderID, it.ItemNumber, it.Material, it.Text,
			fixed(it.Quantity, 3), it.Unit, fixed(it.NetPrice, 2), it.PriceUnit,
			money(it.NetValue), it.Plant, it.StorageLocation, it.MaterialGroup,
			it.CostCenter, date(it.DeliveryDate), flag(it.UnlimitedOverdelivery),
			fixed(it.UnderTolerance, 1), fixed(it.OverTolerance, 1),
			flag(it.FinalInvoice), flag(it.InvoiceReceipt),
		})
	}
	return rows
}

func vendorInvoiceRows(invoices []*finance.VendorInvoice) [][]any {
	rows := make([][]any, 0, len(invoices))
	for _, inv := range invoices {
		var reversalYear any
		if inv.ReversalYear != 0 {
			reversalYear = inv.ReversalYear
		}
		rows = append(rows, []any{
			inv.ID, inv.CompanyCode, inv.FiscalYear, inv.DocumentType,
			date(inv.InvoiceDate), date(inv.PostingDate), inv.ExternalRef,
			inv.VendorID, inv.Currency.String(), money(inv.Gross), money(inv.Tax),
			inv.PurchaseOrderID, inv.EnteredBy, date(inv.InvoiceDate), inv.EntryTime,
			inv.TransactionCode, inv.ReversalDocument, reversalYear,
		})
	}
	return rows
}

func salesInvoiceRows(invoices []*finance.SalesInvoice) [][]any {
	rows := make([][]any, 0, len(invoices))
	for _, inv := range invoices {
		rows = append(rows, []any{
			inv.ID, inv.BillingType, date(inv.BillingDate), inv.CompanyCode,
			inv.PayerID, inv.SoldToID, inv.Currency.String(), money(inv.Net), money(inv.Tax),
			inv.TransferStatus(), date(inv.CreatedOn), inv.CreatedBy, flag(inv.Cancelled),
			inv.Category, inv.CancellationDoc, inv.ConditionNumber, inv.AccountingDocument,
		})
	}
	return rows
}

func postingRows(lines []finance.PostingLine) [][]any {
	rows := make([][]any, 0, len(lines))
	for _, l := range lines {
		var clearedOn, clearingDoc any
		if l.IsCleared() {
			clearedOn, clearingDoc = l.Clearing.Date, l.Clearing.Document
		}
		amount := money(l.Amount)
		rows = append(rows, []any{
			l.CompanyCode, l.DocumentNumber, l.FiscalYear, l.LineItem(),
			string(l.AccountType), l.Account, amount, amount, string(l.DebitCredit),
			l.Amount.Currency().String(), l.PaymentTerm, l.NetDays,
			date(l.DocumentDate), date(l.PostingDate), l.CostCenter, clearedOn, clearingDoc,
		})
	}
	return rows
}

// checkShape reports a row whose width differs from the column list
func checkShape(t Table) error {
	for i, r := range t.Rows {
		if len(r) != len(t.Columns) {
			return fmt.Errorf("table %s row %d has %d values for %d columns", t.Name, i, len(r), len(t.Columns))
		}
	}
	return nil
}
