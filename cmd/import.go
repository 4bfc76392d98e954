package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/satheeshds/invoicing/importer"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [customers|products] [file]",
	Short: "Bulk-create customers or products from a .csv or .xlsx file",
	Long: `Import reads a sheet whose first row holds the column headers. Headers may be
English or Chinese, for example "name" or "名称", "tax_rate" or "税率".

The whole file is imported in one transaction: if any row is invalid, nothing is saved.`,
	Example: `  invoicing import customers customers.xlsx
  invoicing import products products.csv`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"customers", "products"},
	RunE:      runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	kind, path := args[0], args[1]
	format, err := importer.FormatFromName(path)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	database, err := openDatabase()
	if err != nil {
		return err
	}
	defer database.Close()
	s, err := newStore(cmd.Context(), database)
	if err != nil {
		return err
	}

	var n int
	switch kind {
	case "customers":
		inputs, err := importer.ParseCustomers(f, format)
		if err != nil {
			return err
		}
		if n, err = s.BulkCreateCustomers(cmd.Context(), inputs); err != nil {
			return err
		}
	case "products":
		inputs, err := importer.ParseProducts(f, format)
		if err != nil {
			return err
		}
		if n, err = s.BulkCreateProducts(cmd.Context(), inputs); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown import kind %q, expected customers or products", kind)
	}

	slog.Info("import finished", "kind", kind, "file", path, "rows", n)
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d %s\n", n, kind)
	return nil
}
