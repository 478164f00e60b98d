package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/balagrajendran/purchase-management-sub000/internal/app"
	"github.com/balagrajendran/purchase-management-sub000/internal/application/dto"
	"github.com/balagrajendran/purchase-management-sub000/internal/application/legacy"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/pricing"
	"github.com/balagrajendran/purchase-management-sub000/internal/infrastructure/csvimport"
)

func newImportCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Bulk-load data into the store",
	}

	finance := &cobra.Command{
		Use:     "finance <file.csv>",
		Short:   "Import finance records from a CSV file",
		Example: "  bizctl import finance ledger.csv",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			rows, err := csvimport.Read(f)
			if err != nil {
				return err
			}

			ctx := context.Background()
			container, err := app.Build(ctx, c.cfg, c.log)
			if err != nil {
				return err
			}
			defer container.Close()

			res, err := container.Finance.Import(ctx, rows)
			if err != nil {
				return err
			}
			return report(cmd, res)
		},
	}

	var collection string
	documents := &cobra.Command{
		Use:   "documents <export.json>",
		Short: "Import a legacy document export, keeping ids and timestamps",
		Example: "  bizctl import documents --collection clients clients.json\n" +
			"  bizctl import documents --collection invoices invoices.json",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			docs, err := legacy.Decode(f)
			if err != nil {
				return err
			}

			ctx := context.Background()
			container, err := app.Build(ctx, c.cfg, c.log)
			if err != nil {
				return err
			}
			defer container.Close()

			policy := pricing.Policy{BaseCurrency: c.cfg.Billing.BaseCurrency, TaxRate: c.cfg.Billing.TaxRate}
			res, err := legacy.NewImporter(container.Tx, policy, c.log).Import(ctx, collection, docs)
			if err != nil {
				return err
			}
			return report(cmd, res)
		},
	}
	documents.Flags().StringVar(&collection, "collection", "", "clients | purchases | invoices | finance")
	_ = documents.MarkFlagRequired("collection")

	cmd.AddCommand(finance, documents)
	return cmd
}

// report prints the result as JSON and fails the command when any row was rejected.
func report(cmd *cobra.Command, res dto.ImportResult) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return err
	}
	if res.Fail > 0 {
		return fmt.Errorf("%d of %d rows failed", res.Fail, res.OK+res.Fail)
	}
	return nil
}
