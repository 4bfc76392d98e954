package cmd

import (
	"fmt"
	"os"

	"github.com/satheeshds/invoicing/importer"
	"github.com/satheeshds/invoicing/models"
	"github.com/spf13/cobra"
)

var exportStatus string

var exportCmd = &cobra.Command{
	Use:     "export invoices [file.xlsx]",
	Short:   "Write invoices to an Excel workbook",
	Example: `  invoicing export invoices invoices.xlsx --status paid`,
	Args:    cobra.ExactArgs(2),
	RunE:    runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportStatus, "status", "", "Only export invoices with this status")
}

func runExport(cmd *cobra.Command, args []string) error {
	if args[0] != "invoices" {
		return fmt.Errorf("unknown export kind %q, expected invoices", args[0])
	}
	var filter models.InvoiceFilter
	if exportStatus != "" {
		status, ok := models.ParseInvoiceStatus(exportStatus)
		if !ok {
			return fmt.Errorf("unknown status %q", exportStatus)
		}
		filter.Status = &status
	}

	database, err := openDatabase()
	if err != nil {
		return err
	}
	defer database.Close()
	s, err := newStore(cmd.Context(), database)
	if err != nil {
		return err
	}
	invoices, err := s.ListInvoices(cmd.Context(), filter)
	if err != nil {
		return err
	}

	f, err := os.Create(args[1])
	if err != nil {
		return err
	}
	if err := importer.WriteInvoicesXLSX(f, invoices); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d invoices to %s\n", len(invoices), args[1])
	return nil
}
