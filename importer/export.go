package importer

import (
	"fmt"
	"io"

	"github.com/satheeshds/invoicing/models"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Invoices"

// XLSXContentType is the media type of the workbooks written by this package.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var exportHeaders = []string{
	"发票号码 Number", "状态 Status", "销售方 Company", "购买方 Customer", "开票日期 Issue date",
	"到期日 Due date", "金额 Subtotal", "税额 Tax", "价税合计 Total", "已付 Paid", "付款方式 Payment", "备注 Remark",
}

// WriteInvoicesXLSX writes one row per invoice to w as an .xlsx workbook.
func WriteInvoicesXLSX(w io.Writer, invoices []models.Invoice) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	for i, h := range exportHeaders {
		if err := setCell(f, i+1, 1, h); err != nil {
			return err
		}
	}

	for r, inv := range invoices {
		row := r + 2
		values := []any{
			inv.InvoiceNumber,
			string(inv.Status),
			deref(inv.CompanyName),
			deref(inv.CustomerName),
			inv.IssueDate.Format("2006-01-02"),
			deref(inv.DueDate),
			inv.Subtotal.Decimal().InexactFloat64(),
			inv.TotalTax.Decimal().InexactFloat64(),
			inv.Total.Decimal().InexactFloat64(),
			inv.PaidAmount.Decimal().InexactFloat64(),
			inv.PaymentMethod,
			inv.Remark,
		}
		for c, v := range values {
			if err := setCell(f, c+1, row, v); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(exportSheet, cell, v)
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
