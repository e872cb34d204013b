package export

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/erp/sapgen/internal/application/generation"
	"github.com/erp/sapgen/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// DefaultChunkSize is the number of rows per INSERT statement.
const DefaultChunkSize = 100

// SQLWriter renders a dataset as a self-contained SQL script
type SQLWriter struct {
	chunkSize int
	logger    *zap.Logger
}

// SQLOption configures a SQLWriter
type SQLOption func(*SQLWriter)

// WithChunkSize sets the number of rows per INSERT statement
func WithChunkSize(n int) SQLOption {
	return func(w *SQLWriter) {
		if n > 0 {
			w.chunkSize = n
		}
	}
}

// WithSQLLogger sets the logger
func WithSQLLogger(logger *zap.Logger) SQLOption {
	return func(w *SQLWriter) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewSQLWriter creates a SQL script writer
func NewSQLWriter(opts ...SQLOption) *SQLWriter {
	w := &SQLWriter{chunkSize: DefaultChunkSize, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// SQLDump writes the dataset as a SQL script with the default options
func SQLDump(out io.Writer, ds *generation.Dataset) error {
	return NewSQLWriter().Write(out, ds)
}

// Write emits the header, all CREATE TABLE statements and then the INSERT
// statements of every non-empty table, parents before children.
func (w *SQLWriter) Write(out io.Writer, ds *generation.Dataset) error {
	tables := Tables(ds)
	for _, t := range tables {
		if err := checkShape(t); err != nil {
			return err
		}
	}

	bw := bufio.NewWriter(out)
	writeHeader(bw, ds.Settings)
	for _, t := range tables {
		bw.WriteString(generateDDL(t.TableTemplate))
		bw.WriteString("\n")
	}
	for _, t := range tables {
		if len(t.Rows) == 0 {
			continue
		}
		w.writeInserts(bw, t)
		w.logger.Debug("Table written",
			zap.String("table", t.Name),
			zap.Int("rows", len(t.Rows)),
		)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write sql script: %w", err)
	}
	return nil
}

var periodPattern = regexp.MustCompile(`(?m)^-- Seed \d+, documents dated (\d{4}-\d{2}-\d{2}) to (\d{4}-\d{2}-\d{2}),`)

// ScriptPeriod reads the document date range from the header of a script
// written by SQLWriter. ok is false when the header is missing or malformed.
func ScriptPeriod(script string) (period valueobject.DateRange, ok bool) {
	m := periodPattern.FindStringSubmatch(script)
	if m == nil {
		return valueobject.DateRange{}, false
	}
	start, err := valueobject.ParseDate(m[1])
	if err != nil {
		return valueobject.DateRange{}, false
	}
	end, err := valueobject.ParseDate(m[2])
	if err != nil {
		return valueobject.DateRange{}, false
	}
	period, err = valueobject.NewDateRange(start, end)
	return period, err == nil
}

func writeHeader(bw *bufio.Writer, s generation.Settings) {
	fmt.Fprintf(bw, "-- SAP Dummy Data SQL Script\n")
	fmt.Fprintf(bw, "-- Seed %d, documents dated %s to %s, focus year %d\n\n",
		s.Seed, s.StartDate.Format(valueobject.DateLayout), s.EndDate.Format(valueobject.DateLayout), s.FocusYear)
	bw.WriteString("-- Enable foreign key constraints\nPRAGMA foreign_keys = ON;\n\n")
}

func (w *SQLWriter) writeInserts(bw *bufio.Writer, t Table) {
	head := fmt.Sprintf("INSERT INTO %s (%s) VALUES\n", t.Name, strings.Join(t.ColumnNames(), ", "))

	fmt.Fprintf(bw, "-- Insert data into %s\n", t.Name)
	for start := 0; start < len(t.Rows); start += w.chunkSize {
		end := min(start+w.chunkSize, len(t.Rows))
		bw.WriteString(head)
		for i, row := range t.Rows[start:end] {
			if i > 0 {
				bw.WriteString(",\n")
			}
			bw.WriteString(rowLiteral(row))
		}
		bw.WriteString(";\n\n")
	}
}

func rowLiteral(row []any) string {
	values := make([]string, len(row))
	for i, v := range row {
		values[i] = Literal(v)
	}
	return "(" + strings.Join(values, ", ") + ")"
}

// Literal renders one value as a SQL literal. nil and empty strings become
// NULL, strings are single-quoted with embedded quotes doubled, numbers are
// written as is and dates as 'YYYY-MM-DD'.
func Literal(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		if x == "" {
			return "NULL"
		}
		return "'" + strings.ReplaceAll(x, "'", "''") + "'"
	case Numeric:
		if x == "" {
			return "NULL"
		}
		return string(x)
	case int:
		return strconv.Itoa(x)
	case time.Time:
		if x.IsZero() {
			return "NULL"
		}
		return "'" + x.Format(valueobject.DateLayout) + "'"
	default:
		return "'" + strings.ReplaceAll(fmt.Sprint(x), "'", "''") + "'"
	}
}
