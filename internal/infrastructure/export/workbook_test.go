package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWorkbook(t *testing.T) {
	ds := testDataset(t)

	var buf bytes.Buffer
	require.NoError(t, Workbook(&buf, ds))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	tables := Tables(ds)
	names := make([]string, 0, len(tables))
	for _, tbl := range tables {
		names = append(names, tbl.Name)
	}
	assert.Equal(t, names, f.GetSheetList())

	rows, err := f.GetRows(TableVendors)
	require.NoError(t, err)
	require.Len(t, rows, len(ds.Vendors)+1)
	assert.Equal(t, "LIFNR", rows[0][0])
	assert.Equal(t, ds.Vendors[0].ID, rows[1][0])

	rows, err = f.GetRows(TablePostings)
	require.NoError(t, err)
	assert.Len(t, rows, len(ds.PostingLines())+1)
}

func TestCellValue(t *testing.T) {
	assert.Equal(t, 12.5, cellValue(Numeric("12.50")))
	assert.Equal(t, "2024-05-01", cellValue(time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)))
	assert.Nil(t, cellValue(""))
	assert.Nil(t, cellValue(time.Time{}))
	assert.Equal(t, 3, cellValue(3))
}
