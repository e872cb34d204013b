// Package export renders a generated dataset as relational tables: a SQL
// script with DDL and chunked INSERTs, an XLSX workbook and a YAML run
// manifest.
package export

import (
	"fmt"
	"strings"
)

// TableTemplate defines a table's schema for DDL generation.
type TableTemplate struct {
	Name        string
	Description string
	Columns     []ColumnDef
	PrimaryKey  []string
	ForeignKeys []FKDef
}

// ColumnDef defines a single column.
type ColumnDef struct {
	Name    string
	Type    string
	Comment string
}

// FKDef defines a foreign key reference.
type FKDef struct {
	Column    string
	RefTable  string
	RefColumn string
}

// ColumnNames returns the column names in declaration order
func (t TableTemplate) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Table names
const (
	TableVendors          = "LFA1"
	TableVendorCompany    = "LFB1"
	TableVendorPurchasing = "LFM1"
	TableCustomers        = "KNA1"
	TablePaymentTerms     = "T052"
	TableOrderHeaders     = "EKKO"
	TableOrderItems       = "EKPO"
	TableVendorInvoices   = "RBKP"
	TableSalesInvoices    = "VBRK"
	TablePostings         = "BSEG"
)

// partnerColumns are the general master data columns shared by LFA1 and KNA1
func partnerColumns(key, keyComment, accountGroup, groupComment string) []ColumnDef {
	return []ColumnDef{
		{key, "VARCHAR(10)", keyComment},
		{"NAME1", "VARCHAR(35)", "Name 1"},
		{"SORTL", "VARCHAR(10)", "Sort field"},
		{"STRAS", "VARCHAR(35)", "Street address"},
		{"ORT01", "VARCHAR(35)", "City"},
		{"PSTLZ", "VARCHAR(10)", "Postal code"},
		{"LAND1", "VARCHAR(3)", "Country key"},
		{"SPRAS", "VARCHAR(2)", "Language key"},
		{"TELF1", "VARCHAR(16)", "Telephone 1"},
		{"TELFX", "VARCHAR(31)", "Fax number"},
		{"SMTP_ADDR", "VARCHAR(241)", "Email address"},
		{accountGroup, "VARCHAR(4)", groupComment},
		{"ERDAT", "DATE", "Created on"},
		{"ERNAM", "VARCHAR(12)", "Created by"},
		{"SPERR", "VARCHAR(1)", "Central posting block"},
		{"LOEVM", "VARCHAR(1)", "Central deletion flag"},
	}
}

// Schema returns the table templates in dependency order: every foreign key
// refers to a table that comes earlier.
func Schema() []TableTemplate {
	return []TableTemplate{
		{
			Name: TablePaymentTerms, Description: "Payment terms",
			Columns: []ColumnDef{
				{"ZTERM", "VARCHAR(4)", "Payment terms key"},
				{"SPRAS", "VARCHAR(2)", "Language"},
				{"TEXT1", "VARCHAR(50)", "Description"},
				{"ZTAG1", "INTEGER", "Days 1"},
				{"ZPRZ1", "DECIMAL(5,3)", "Percentage 1"},
				{"ZMTAG", "INTEGER", "Additional months"},
				{"ZTAG2", "INTEGER", "Days 2"},
				{"ZPRZ2", "DECIMAL(5,3)", "Percentage 2"},
				{"ZTAG3", "INTEGER", "Days 3"},
				{"ZPRZ3", "DECIMAL(5,3)", "Percentage 3"},
			},
			PrimaryKey: []string{"ZTERM"},
		},
		{
			Name: TableVendors, Description: "Vendor master (general)",
			Columns:    partnerColumns("LIFNR", "Vendor account number", "KTOKK", "Vendor account group"),
			PrimaryKey: []string{"LIFNR"},
		},
		{
			Name: TableVendorCompany, Description: "Vendor master (company code)",
			Columns: []ColumnDef{
				{"LIFNR", "VARCHAR(10)", "Vendor account number"},
				{"BUKRS", "VARCHAR(4)", "Company code"},
				{"AKONT", "VARCHAR(10)", "Reconciliation account"},
				{"ZTERM", "VARCHAR(4)", "Payment terms"},
				{"REPRF", "VARCHAR(1)", "Double invoice check"},
				{"ZWELS", "VARCHAR(10)", "Payment methods"},
				{"ZAHLS", "VARCHAR(1)", "Payment block"},
				{"FDGRV", "VARCHAR(10)", "Planning group"},
				{"SPERR", "VARCHAR(1)", "Posting block"},
			},
			PrimaryKey: []string{"LIFNR", "BUKRS"},
			ForeignKeys: []FKDef{
				{"LIFNR", TableVendors, "LIFNR"},
				{"ZTERM", TablePaymentTerms, "ZTERM"},
			},
		},
		{
			Name: TableVendorPurchasing, Description: "Vendor master (purchasing organization)",
			Columns: []ColumnDef{
				{"LIFNR", "VARCHAR(10)", "Vendor account number"},
				{"EKORG", "VARCHAR(8)", "Purchasing organization"},
				{"SPERM", "VARCHAR(1)", "Purchasing block"},
				{"LIFER", "VARCHAR(35)", "Vendor sub-range"},
				{"LIBES", "VARCHAR(1)", "Order confirmation required"},
				{"LIPRE", "VARCHAR(1)", "Price comparison"},
				{"LISER", "VARCHAR(1)", "Service-based invoice verification"},
				{"ZTERM", "VARCHAR(4)", "Payment terms"},
				{"INCO1", "VARCHAR(3)", "Incoterms part 1"},
				{"INCO2", "VARCHAR(28)", "Incoterms part 2"},
				{"WAERS", "VARCHAR(5)", "Currency"},
			},
			PrimaryKey: []string{"LIFNR", "EKORG"},
			ForeignKeys: []FKDef{
				{"LIFNR", TableVendors, "LIFNR"},
				{"ZTERM", TablePaymentTerms, "ZTERM"},
			},
		},
		{
			Name: TableCustomers, Description: "Customer master (general)",
			Columns:    partnerColumns("KUNNR", "Customer number", "KTOKD", "Customer account group"),
			PrimaryKey: []string{"KUNNR"},
		},
		{
			Name: TableOrderHeaders, Description: "Purchase order header",
			Columns: []ColumnDef{
				{"EBELN", "VARCHAR(11)", "Purchase document number"},
				{"BUKRS", "VARCHAR(4)", "Company code"},
				{"BSTYP", "VARCHAR(1)", "Purchasing document category"},
				{"BSART", "VARCHAR(4)", "Purchasing document type"},
				{"LIFNR", "VARCHAR(10)", "Vendor account number"},
				{"EKORG", "VARCHAR(8)", "Purchasing organization"},
				{"EKGRP", "VARCHAR(4)", "Purchasing group"},
				{"WAERS", "VARCHAR(5)", "Currency"},
				{"BEDAT", "DATE", "Purchase document date"},
				{"KDATB", "DATE", "Validity start date"},
				{"KDATE", "DATE", "Validity end date"},
				{"ZTERM", "VARCHAR(4)", "Payment terms"},
				{"INCO1", "VARCHAR(3)", "Incoterms part 1"},
				{"INCO2", "VARCHAR(28)", "Incoterms part 2"},
				{"ERNAM", "VARCHAR(12)", "Created by"},
				{"AEDAT", "DATE", "Changed on"},
				{"FRGKE", "VARCHAR(1)", "Release indicator"},
				{"FRGZU", "VARCHAR(10)", "Release state"},
				{"PROCSTAT", "VARCHAR(2)", "Procurement process status"},
				{"MEMORY", "VARCHAR(1)", "Incomplete indicator"},
			},
			PrimaryKey: []string{"EBELN"},
			ForeignKeys: []FKDef{
				{"LIFNR", TableVendors, "LIFNR"},
				{"ZTERM", TablePaymentTerms, "ZTERM"},
			},
		},
		{
			Name: TableOrderItems, Description: "Purchase order items",
			Columns: []ColumnDef{
				{"EBELN", "VARCHAR(11)", "Purchase document number"},
				{"EBELP", "VARCHAR(5)", "Purchase document item number"},
				{"MATNR", "VARCHAR(18)", "Material number"},
				{"TXZ01", "VARCHAR(40)", "Short text"},
				{"MENGE", "DECIMAL(13,3)", "Purchase order quantity"},
				{"MEINS", "VARCHAR(3)", "Order unit"},
				{"NETPR", "DECIMAL(11,2)", "Net price"},
				{"PEINH", "DECIMAL(5,0)", "Price unit"},
				{"NETWR", "DECIMAL(13,2)", "Net order value"},
				{"WERKS", "VARCHAR(4)", "Plant"},
				{"LGORT", "VARCHAR(4)", "Storage location"},
				{"MATKL", "VARCHAR(9)", "Material group"},
				{"KOSTL", "VARCHAR(10)", "Cost center"},
				{"EINDT", "DATE", "Delivery date"},
				{"UEBTK", "VARCHAR(1)", "Unlimited overdelivery allowed"},
				{"UNTTO", "DECIMAL(3,1)", "Underdelivery tolerance"},
				{"UEBTO", "DECIMAL(3,1)", "Overdelivery tolerance"},
				{"EREKZ", "VARCHAR(1)", "Final invoice indicator"},
				{"REPOS", "VARCHAR(1)", "Invoice receipt indicator"},
			},
			PrimaryKey: []string{"EBELN", "EBELP"},
			ForeignKeys: []FKDef{
				{"EBELN", TableOrderHeaders, "EBELN"},
			},
		},
		{
			Name: TableVendorInvoices, Description: "Vendor invoice header",
			Columns: []ColumnDef{
				{"BELNR", "VARCHAR(13)", "Document number"},
				{"BUKRS", "VARCHAR(4)", "Company code"},
				{"GJAHR", "INTEGER", "Fiscal year"},
				{"BLART", "VARCHAR(2)", "Document type"},
				{"BLDAT", "DATE", "Document date"},
				{"BUDAT", "DATE", "Posting date"},
				{"XBLNR", "VARCHAR(16)", "Reference document number"},
				{"LIFNR", "VARCHAR(10)", "Vendor account number"},
				{"WAERS", "VARCHAR(5)", "Currency"},
				{"RMWWR", "DECIMAL(13,2)", "Gross invoice amount"},
				{"WMWST1", "DECIMAL(13,2)", "Tax amount"},
				{"EBELN", "VARCHAR(11)", "Purchase order number"},
				{"USNAM", "VARCHAR(12)", "User name"},
				{"CPUDT", "DATE", "Entry date"},
				{"CPUTM", "TIME", "Entry time"},
				{"TCODE", "VARCHAR(20)", "Transaction code"},
				{"STBLG", "VARCHAR(13)", "Reversal document number"},
				{"STJAH", "INTEGER", "Reversal fiscal year"},
			},
			PrimaryKey: []string{"BELNR", "BUKRS", "GJAHR"},
			ForeignKeys: []FKDef{
				{"LIFNR", TableVendors, "LIFNR"},
				{"EBELN", TableOrderHeaders, "EBELN"},
			},
		},
		{
			Name: TableSalesInvoices, Description: "Billing document header",
			Columns: []ColumnDef{
				{"VBELN", "VARCHAR(10)", "Billing document"},
				{"FKART", "VARCHAR(4)", "Billing type"},
				{"FKDAT", "DATE", "Billing date"},
				{"BUKRS", "VARCHAR(4)", "Company code"},
				{"KUNRG", "VARCHAR(10)", "Payer"},
				{"KUNAG", "VARCHAR(10)", "Sold-to party"},
				{"WAERK", "VARCHAR(5)", "Currency"},
				{"NETWR", "DECIMAL(15,2)", "Net value"},
				{"MWSBP", "DECIMAL(13,2)", "Tax amount"},
				{"RFBSK", "VARCHAR(1)", "Status for transfer to accounting"},
				{"ERDAT", "DATE", "Created on"},
				{"ERNAM", "VARCHAR(12)", "Created by"},
				{"FKSTO", "VARCHAR(1)", "Billing document is cancelled"},
				{"VBTYP", "VARCHAR(1)", "Document category"},
				{"SFAKN", "VARCHAR(10)", "Cancellation document"},
				{"KNUMV", "VARCHAR(10)", "Document condition"},
				{"BELNR", "VARCHAR(10)", "Accounting document number"},
			},
			PrimaryKey: []string{"VBELN"},
			ForeignKeys: []FKDef{
				{"KUNRG", TableCustomers, "KUNNR"},
				{"KUNAG", TableCustomers, "KUNNR"},
			},
		},
		{
			Name: TablePostings, Description: "Accounting document segment",
			Columns: []ColumnDef{
				{"BUKRS", "VARCHAR(4)", "Company code"},
				{"BELNR", "VARCHAR(13)", "Document number"},
				{"GJAHR", "INTEGER", "Fiscal year"},
				{"BUZEI", "VARCHAR(3)", "Line item number"},
				{"KOART", "VARCHAR(1)", "Account type"},
				{"KONTO", "VARCHAR(10)", "Account number"},
				{"DMBTR", "DECIMAL(13,2)", "Amount in local currency"},
				{"WRBTR", "DECIMAL(13,2)", "Amount in document currency"},
				{"SHKZG", "VARCHAR(1)", "Debit/Credit indicator"},
				{"WAERS", "VARCHAR(5)", "Currency"},
				{"ZTERM", "VARCHAR(4)", "Payment terms"},
				{"ZBD1T", "INTEGER", "Cash discount days 1"},
				{"BLDAT", "DATE", "Document date"},
				{"BUDAT", "DATE", "Posting date"},
				{"KOSTL", "VARCHAR(10)", "Cost center"},
				{"AUGDT", "DATE", "Clearing date"},
				{"AUGBL", "VARCHAR(11)", "Clearing document"},
			},
			PrimaryKey: []string{"BUKRS", "BELNR", "GJAHR", "BUZEI"},
			ForeignKeys: []FKDef{
				{"ZTERM", TablePaymentTerms, "ZTERM"},
			},
		},
	}
}

// generateDDL renders the CREATE TABLE statement of a template
func generateDDL(tmpl TableTemplate) string {
	width := 0
	for _, c := range tmpl.Columns {
		if n := len(c.Name) + len(c.Type) + 2; n > width {
			width = n
		}
	}

	lines := make([]string, 0, len(tmpl.Columns)+1+len(tmpl.ForeignKeys))
	for _, c := range tmpl.Columns {
		lines = append(lines, c.Name+" "+c.Type)
	}
	if len(tmpl.PrimaryKey) > 0 {
		lines = append(lines, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(tmpl.PrimaryKey, ", ")))
	}
	for _, fk := range tmpl.ForeignKeys {
		lines = append(lines, fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s(%s)", fk.Column, fk.RefTable, fk.RefColumn))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "-- %s\nCREATE TABLE %s (\n", tmpl.Description, tmpl.Name)
	for i, line := range lines {
		if i < len(lines)-1 {
			line += ","
		}
		if i < len(tmpl.Columns) && tmpl.Columns[i].Comment != "" {
			fmt.Fprintf(&b, "    %-*s -- %s\n", width, line, tmpl.Columns[i].Comment)
			continue
		}
		b.WriteString("    " + line + "\n")
	}
	b.WriteString(");\n")
	return b.String()
}
