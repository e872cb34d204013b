package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/sapgen/internal/domain/shared"
	"github.com/erp/sapgen/internal/domain/shared/valueobject"
	"github.com/erp/sapgen/internal/infrastructure/export"
	"go.uber.org/zap"
)

// ForeignKeyViolation is one row reported by PRAGMA foreign_key_check
type ForeignKeyViolation struct {
	Table  string `gorm:"column:table"`
	RowID  int64  `gorm:"column:rowid"`
	Parent string `gorm:"column:parent"`
	FKID   int64  `gorm:"column:fkid"`
}

// DocumentBalance is the net amount of an accounting document that does not
// balance to zero
type DocumentBalance struct {
	CompanyCode string  `gorm:"column:BUKRS"`
	Document    string  `gorm:"column:BELNR"`
	FiscalYear  int     `gorm:"column:GJAHR"`
	Balance     float64 `gorm:"column:balance"`
}

// Report is the outcome of verifying a loaded script
type Report struct {
	Rows                 []export.TableCount
	ForeignKeyViolations []ForeignKeyViolation
	UnbalancedDocuments  []DocumentBalance
	EarlyClearings       int64
	LateClearings        int64
}

// TotalRows returns the number of rows over all tables
func (r *Report) TotalRows() int {
	n := 0
	for _, c := range r.Rows {
		n += c.Rows
	}
	return n
}

// Err summarizes the violations, nil when the data is consistent
func (r *Report) Err() error {
	var errs []error
	if n := len(r.ForeignKeyViolations); n > 0 {
		v := r.ForeignKeyViolations[0]
		errs = append(errs, fmt.Errorf("%w: %d foreign key violations, first %s row %d -> %s",
			shared.ErrUnresolvedReference, n, v.Table, v.RowID, v.Parent))
	}
	if n := len(r.UnbalancedDocuments); n > 0 {
		d := r.UnbalancedDocuments[0]
		errs = append(errs, fmt.Errorf("%w: %d documents, first %s/%s/%d off by %.2f",
			shared.ErrUnbalancedPosting, n, d.CompanyCode, d.Document, d.FiscalYear, d.Balance))
	}
	if r.EarlyClearings > 0 {
		errs = append(errs, fmt.Errorf("%w: %d lines cleared on or before their document date",
			shared.ErrInvalidState, r.EarlyClearings))
	}
	if r.LateClearings > 0 {
		errs = append(errs, fmt.Errorf("%w: %d lines cleared after the end of the period",
			shared.ErrInvalidState, r.LateClearings))
	}
	return errors.Join(errs...)
}

// Verifier loads a SQL script into SQLite and checks it
type Verifier struct {
	db     *Database
	logger *zap.Logger
}

// NewVerifier creates a verifier on an open database
func NewVerifier(db *Database, logger *zap.Logger) *Verifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Verifier{db: db, logger: logger}
}

// Verify executes the script and inspects the result. Foreign keys are
// enforced while loading, so a dangling reference usually fails the load
// itself; the foreign_key_check afterwards also covers scripts that disable
// enforcement. Clearing dates after end are counted unless end is zero.
func (v *Verifier) Verify(ctx context.Context, script string, end time.Time) (*Report, error) {
	if err := v.db.ExecScript(ctx, script); err != nil {
		return nil, err
	}

	db := v.db.DB.WithContext(ctx)
	report := &Report{}

	for _, tmpl := range export.Schema() {
		var n int64
		if err := db.Table(tmpl.Name).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", tmpl.Name, err)
		}
		report.Rows = append(report.Rows, export.TableCount{Table: tmpl.Name, Rows: int(n)})
	}

	if err := db.Raw("PRAGMA foreign_key_check").Scan(&report.ForeignKeyViolations).Error; err != nil {
		return nil, fmt.Errorf("failed to check foreign keys: %w", err)
	}

	err := db.Raw(`SELECT BUKRS, BELNR, GJAHR, ROUND(SUM(DMBTR), 2) AS balance
		FROM BSEG GROUP BY BUKRS, BELNR, GJAHR
		HAVING ROUND(SUM(DMBTR), 2) <> 0`).Scan(&report.UnbalancedDocuments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check document balances: %w", err)
	}

	if err := db.Table(export.TablePostings).Where("AUGDT IS NOT NULL AND AUGDT <= BLDAT").
		Count(&report.EarlyClearings).Error; err != nil {
		return nil, fmt.Errorf("failed to check clearing dates: %w", err)
	}
	if !end.IsZero() {
		if err := db.Table(export.TablePostings).Where("AUGDT IS NOT NULL AND AUGDT > ?", end.Format(valueobject.DateLayout)).
			Count(&report.LateClearings).Error; err != nil {
			return nil, fmt.Errorf("failed to check clearing dates: %w", err)
		}
	}

	v.logger.Info("Script verified",
		zap.Int("rows", report.TotalRows()),
		zap.Int("fk_violations", len(report.ForeignKeyViolations)),
		zap.Int("unbalanced_documents", len(report.UnbalancedDocuments)),
		zap.Int64("early_clearings", report.EarlyClearings),
		zap.Int64("late_clearings", report.LateClearings),
	)
	return report, nil
}
