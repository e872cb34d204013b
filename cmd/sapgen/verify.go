package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/erp/sapgen/internal/domain/shared/valueobject"
	"github.com/erp/sapgen/internal/infrastructure/export"
	"github.com/erp/sapgen/internal/infrastructure/persistence"
	"github.com/erp/sapgen/internal/infrastructure/storage"
	"github.com/spf13/cobra"
)

func newVerifyCmd(c *cli) *cobra.Command {
	var endDate string

	cmd := &cobra.Command{
		Use:   "verify [file]",
		Short: "Load a SQL export into in-memory SQLite and check its integrity",
		Long: `verify executes a SQL export against an in-memory SQLite database with
foreign keys enforced, then checks foreign keys, document balances and
clearing dates. The file defaults to export.destination; - reads stdin.
Clearing dates must not pass the end date, which is read from the script
header unless --end-date is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.cfg.Export.Destination
			if len(args) == 1 {
				path = args[0]
			}

			script, err := readScript(cmd.InOrStdin(), path)
			if err != nil {
				return err
			}

			end, err := verifyEndDate(endDate, script)
			if err != nil {
				return err
			}
			if end.IsZero() {
				c.logger.Warn("No end date in script header, skipping the upper clearing bound")
			}

			db, err := persistence.NewDatabase(persistence.InMemory)
			if err != nil {
				return err
			}
			defer db.Close()

			report, err := persistence.NewVerifier(db, c.logger).Verify(cmd.Context(), script, end)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, tc := range report.Rows {
				printer.Fprintf(out, "%s: %d rows\n", tc.Table, tc.Rows)
			}
			printer.Fprintf(out, "Total: %d rows\n", report.TotalRows())
			if err := report.Err(); err != nil {
				return err
			}
			fmt.Fprintln(out, "OK")
			return nil
		},
	}
	cmd.Flags().StringVar(&endDate, "end-date", "", "latest allowed clearing date (YYYY-MM-DD), defaults to the script header")
	return cmd
}

// verifyEndDate returns the explicit end date, else the one recorded in the
// script header, else the zero time.
func verifyEndDate(flag, script string) (time.Time, error) {
	if flag != "" {
		end, err := valueobject.ParseDate(flag)
		if err != nil {
			return time.Time{}, fmt.Errorf("--end-date: %w", err)
		}
		return end, nil
	}
	if period, ok := export.ScriptPeriod(script); ok {
		return period.End, nil
	}
	return time.Time{}, nil
}

func readScript(stdin io.Reader, path string) (string, error) {
	if path == storage.StdoutKey {
		data, err := io.ReadAll(stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}
