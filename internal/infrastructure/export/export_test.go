package export

import (
	"context"
	"testing"

	"github.com/erp/sapgen/internal/application/generation"
	"github.com/stretchr/testify/require"
)

func testDataset(t *testing.T) *generation.Dataset {
	t.Helper()
	s := generation.DefaultSettings()
	s.Seed = 11
	s.Counts = generation.Counts{Vendors: 12, Customers: 10, PurchaseOrders: 80, VendorInvoices: 90, SalesInvoices: 70}

	ds, err := generation.NewPipeline(s).Run(context.Background())
	require.NoError(t, err)
	return ds
}

func tableByName(t *testing.T, tables []Table, name string) Table {
	t.Helper()
	for _, tbl := range tables {
		if tbl.Name == name {
			return tbl
		}
	}
	t.Fatalf("table %s not found", name)
	return Table{}
}

func column(t *testing.T, tbl Table, row []any, name string) any {
	t.Helper()
	for i, c := range tbl.Columns {
		if c.Name == name {
			return row[i]
		}
	}
	t.Fatalf("column %s.%s not found", tbl.Name, name)
	return nil
}
