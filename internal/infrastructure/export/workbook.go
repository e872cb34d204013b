package export

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/erp/sapgen/internal/application/generation"
	"github.com/erp/sapgen/internal/domain/shared/valueobject"
	"github.com/xuri/excelize/v2"
)

// Workbook writes the dataset as an XLSX workbook with one sheet per table.
// Sheets appear in schema order and start with a header row of column names.
func Workbook(out io.Writer, ds *generation.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	tables := Tables(ds)
	for i, t := range tables {
		if err := checkShape(t); err != nil {
			return err
		}
		if i == 0 {
			if err := f.SetSheetName("Sheet1", t.Name); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(t.Name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", t.Name, err)
		}
		if err := writeSheet(f, t); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, t Table) error {
	sw, err := f.NewStreamWriter(t.Name)
	if err != nil {
		return fmt.Errorf("failed to open sheet %s: %w", t.Name, err)
	}

	header := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c.Name
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("sheet %s header: %w", t.Name, err)
	}

	for i, row := range t.Rows {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = cellValue(v)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, cells); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", t.Name, i+1, err)
		}
	}
	return sw.Flush()
}

// cellValue converts a row value to what the sheet stores: numbers stay
// numeric, dates become ISO strings and NULLs empty cells.
func cellValue(v any) any {
	switch x := v.(type) {
	case Numeric:
		if f, err := strconv.ParseFloat(string(x), 64); err == nil {
			return f
		}
		return string(x)
	case time.Time:
		if x.IsZero() {
			return nil
		}
		return x.Format(valueobject.DateLayout)
	case string:
		if x == "" {
			return nil
		}
		return x
	default:
		return v
	}
}
