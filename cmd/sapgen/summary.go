package main

import (
	"io"
	"strconv"
	"strings"

	"github.com/erp/sapgen/internal/application/generation"
	"github.com/erp/sapgen/internal/domain/finance"
	"github.com/erp/sapgen/internal/domain/shared/valueobject"
	"github.com/erp/sapgen/internal/infrastructure/export"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// printSummary writes the console report of a generate run
func printSummary(w io.Writer, destination string, m export.Manifest, ds *generation.Dataset) {
	s := ds.Settings
	printer.Fprintf(w, "Dataset written: %s\n", destination)
	printer.Fprintf(w, "\nData Generation Summary:\n%s\n", strings.Repeat("=", 60))
	for _, tc := range m.Tables {
		printer.Fprintf(w, "%s: %d records\n", tc.Table, tc.Rows)
	}
	printer.Fprintf(w, "\nTotal records generated: %d\n", m.TotalRows)
	printer.Fprintf(w, "Open items: %d, cleared: %d\n", m.OpenItems, m.Cleared)

	printer.Fprintf(w, "\nSeed: %s\n", strconv.FormatUint(s.Seed, 10))
	printer.Fprintf(w, "Data Range: %s to %s\n", m.StartDate, m.EndDate)
	printer.Fprintf(w, "Primary Analysis Year: %s\n", strconv.Itoa(s.FocusYear))

	focusStart := valueobject.Date(s.FocusYear, 1, 1).Format(valueobject.DateLayout)
	focusEnd := valueobject.Date(s.FocusYear, 12, 31).Format(valueobject.DateLayout)
	printer.Fprintf(w, "\nRecommended Filters:\n")
	printer.Fprintf(w, "  - Transaction Analysis: %s to %s\n", focusStart, focusEnd)
	printer.Fprintf(w, "  - Payment Analysis: %s to %s\n", focusStart, m.EndDate)
	printer.Fprintf(w, "  - Outstanding Items: filter AUGDT IS NULL for unpaid items\n")

	printer.Fprintf(w, "\nPayment Terms:\n")
	printTerms(w, ds.PaymentTerms)
}

// printTerms lists a payment term catalog, one term per line
func printTerms(w io.Writer, terms []finance.PaymentTerm) {
	for _, t := range terms {
		if t.HasDiscount() {
			printer.Fprintf(w, "  %s: %d days (%s%% within %d days)\n", t.Code, t.NetDays, t.DiscountPercent.StringFixed(1), t.DiscountDays)
			continue
		}
		printer.Fprintf(w, "  %s: %d days\n", t.Code, t.NetDays)
	}
}
