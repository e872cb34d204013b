// Command sapgen generates a synthetic SAP-style financial dataset and
// exports it as a SQL script or an XLSX workbook.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
