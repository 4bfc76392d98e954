package importer

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/satheeshds/invoicing/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestFormatFromName(t *testing.T) {
	f, err := FormatFromName("客户.CSV")
	require.NoError(t, err)
	assert.Equal(t, CSV, f)
	f, err = FormatFromName("products.xlsx")
	require.NoError(t, err)
	assert.Equal(t, XLSX, f)
	_, err = FormatFromName("products.xls")
	assert.Error(t, err)
}

func TestParseCustomers_BilingualHeaders(t *testing.T) {
	data := "\uFEFF客户名称,税号,邮箱,联系人,标签\n" +
		"Acme,91310000,ap@acme.test,Li Wei,\"VIP，Wholesale\"\n" +
		",,,,\n" +
		"Globex,,,,\n"

	got, err := ParseCustomers(strings.NewReader(data), CSV)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Acme", got[0].Name)
	assert.Equal(t, "91310000", *got[0].TaxID)
	assert.Equal(t, "ap@acme.test", *got[0].Email)
	assert.Equal(t, "Li Wei", *got[0].ContactPerson)
	assert.Equal(t, []string{"VIP", "Wholesale"}, got[0].Tags)
	assert.Nil(t, got[1].Email)
	assert.Empty(t, got[1].Tags)
}

func TestParseCustomers_Errors(t *testing.T) {
	_, err := ParseCustomers(strings.NewReader("foo,bar\n1,2\n"), CSV)
	assert.ErrorIs(t, err, ErrNoHeader)

	_, err = ParseCustomers(strings.NewReader("name,email\nAcme,not-an-email\n"), CSV)
	var rerr *RowError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, 2, rerr.Row)
	assert.Equal(t, "email must be a valid email address", rerr.Message)
}

func TestParseProducts_XLSX(t *testing.T) {
	f := excelize.NewFile()
	rows := [][]any{
		{"商品名称", "单位", "单价", "税率", "分类"},
		{"Consulting", "小时", "1,200.50", "6%", "service"},
		{"Widget", "个", "9.9", "0.13", "goods"},
		{"Hosting", "月", "300", "3", "service"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	got, err := ParseProducts(&buf, XLSX)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.True(t, got[0].UnitPrice.Equal(decimal.RequireFromString("1200.5")))
	assert.True(t, got[0].TaxRate.Equal(decimal.RequireFromString("0.06")))
	assert.Equal(t, "小时", got[0].Unit)
	assert.True(t, got[1].TaxRate.Equal(decimal.RequireFromString("0.13")))
	assert.True(t, got[2].TaxRate.Equal(decimal.RequireFromString("0.03")))
}

func TestParseProducts_RejectsUnsupportedRate(t *testing.T) {
	_, err := ParseProducts(strings.NewReader("name,unit_price,tax_rate\nWidget,10,5%\n"), CSV)
	var rerr *RowError
	require.ErrorAs(t, err, &rerr)
	assert.Contains(t, rerr.Message, "tax_rate must be one of")

	_, err = ParseProducts(strings.NewReader("name,unit_price\nWidget,ten\n"), CSV)
	require.ErrorAs(t, err, &rerr)
	assert.Contains(t, rerr.Message, "unit_price")
}

func TestWriteInvoicesXLSX(t *testing.T) {
	customer := "Acme"
	invoices := []models.Invoice{{
		InvoiceNumber: "SOLL-202610-0001",
		Status:        models.StatusPaid,
		CustomerName:  &customer,
		IssueDate:     time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC),
		Subtotal:      20000,
		TotalTax:      1200,
		Total:         21200,
		PaidAmount:    21200,
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteInvoicesXLSX(&buf, invoices))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "发票号码 Number", rows[0][0])
	assert.Equal(t, "SOLL-202610-0001", rows[1][0])
	assert.Equal(t, "paid", rows[1][1])
	assert.Equal(t, "Acme", rows[1][3])
	assert.Equal(t, "2026-10-19", rows[1][4])
	assert.Equal(t, "212", rows[1][8])
}
