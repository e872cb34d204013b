package main

import (
	"github.com/erp/sapgen/internal/domain/finance"
	"github.com/spf13/cobra"
)

func newTermsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "terms",
		Short: "Print the configured payment term catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := finance.NewPaymentTermCatalog(c.cfg.Generation.PaymentTerms)
			if err != nil {
				return err
			}
			printTerms(cmd.OutOrStdout(), catalog.Terms())
			return nil
		},
	}
}
