// Package importer reads customer and product sheets and writes invoice exports.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/satheeshds/invoicing/models"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Format is the layout of an import file.
type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
)

// FormatFromName picks the format from a file name's extension.
func FormatFromName(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return CSV, nil
	case ".xlsx":
		return XLSX, nil
	}
	return "", fmt.Errorf("unsupported file type %q: only .csv and .xlsx are allowed", filepath.Ext(name))
}

// RowError reports a problem in one data row. Row is the 1-based sheet row, header included.
type RowError struct {
	Row     int
	Message string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// ErrNoHeader is returned when the sheet has no recognizable header row.
var ErrNoHeader = errors.New("missing header row")

var customerColumns = map[string][]string{
	"name":           {"name", "名称", "客户名称", "客户", "公司名称"},
	"tax_id":         {"tax_id", "tax id", "税号", "纳税人识别号"},
	"address":        {"address", "地址"},
	"phone":          {"phone", "电话", "联系电话"},
	"bank_name":      {"bank_name", "bank", "开户行", "开户银行"},
	"bank_account":   {"bank_account", "account", "银行账号", "账号"},
	"contact_person": {"contact_person", "contact", "联系人"},
	"email":          {"email", "邮箱", "电子邮箱"},
	"tags":           {"tags", "标签"},
}

var productColumns = map[string][]string{
	"name":               {"name", "名称", "产品名称", "商品名称"},
	"category":           {"category", "类别", "分类"},
	"unit":               {"unit", "单位"},
	"unit_price":         {"unit_price", "price", "单价", "价格"},
	"tax_rate":           {"tax_rate", "rate", "税率"},
	"tax_classification": {"tax_classification", "税收分类编码", "税收分类"},
}

// ParseCustomers reads customer rows. Blank rows are skipped.
func ParseCustomers(r io.Reader, format Format) ([]models.CustomerInput, error) {
	rows, err := readRows(r, format)
	if err != nil {
		return nil, err
	}
	t, err := newTable(rows, customerColumns)
	if err != nil {
		return nil, err
	}

	var out []models.CustomerInput
	for i, row := range t.rows {
		rec := t.record(row)
		if rec.blank() {
			continue
		}
		in := models.CustomerInput{
			Name:          rec.get("name"),
			TaxID:         rec.opt("tax_id"),
			Address:       rec.opt("address"),
			Phone:         rec.opt("phone"),
			BankName:      rec.opt("bank_name"),
			BankAccount:   rec.opt("bank_account"),
			ContactPerson: rec.opt("contact_person"),
			Email:         rec.opt("email"),
			Tags:          splitTags(rec.get("tags")),
		}
		if msg := in.Validate(); msg != "" {
			return nil, &RowError{Row: i + 2, Message: msg}
		}
		out = append(out, in)
	}
	return out, nil
}

// ParseProducts reads product rows. Tax rates may be written as 0.06, 6% or 6.
func ParseProducts(r io.Reader, format Format) ([]models.ProductInput, error) {
	rows, err := readRows(r, format)
	if err != nil {
		return nil, err
	}
	t, err := newTable(rows, productColumns)
	if err != nil {
		return nil, err
	}

	var out []models.ProductInput
	for i, row := range t.rows {
		rec := t.record(row)
		if rec.blank() {
			continue
		}
		price, err := parseDecimal(rec.get("unit_price"))
		if err != nil {
			return nil, &RowError{Row: i + 2, Message: "unit_price: " + err.Error()}
		}
		rate, err := parseRate(rec.get("tax_rate"))
		if err != nil {
			return nil, &RowError{Row: i + 2, Message: "tax_rate: " + err.Error()}
		}
		in := models.ProductInput{
			Name:              rec.get("name"),
			Category:          rec.get("category"),
			Unit:              rec.get("unit"),
			UnitPrice:         price,
			TaxRate:           rate,
			TaxClassification: rec.opt("tax_classification"),
		}
		if msg := in.Validate(); msg != "" {
			return nil, &RowError{Row: i + 2, Message: msg}
		}
		out = append(out, in)
	}
	return out, nil
}

func readRows(r io.Reader, format Format) ([][]string, error) {
	switch format {
	case CSV:
		cr := csv.NewReader(r)
		cr.FieldsPerRecord = -1
		cr.TrimLeadingSpace = true
		rows, err := cr.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		return rows, nil
	case XLSX:
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open Excel file: %w", err)
		}
		defer f.Close()
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrNoHeader
		}
		rows, err := f.GetRows(sheets[0])
		if err != nil {
			return nil, fmt.Errorf("unable to read sheet: %w", err)
		}
		return rows, nil
	}
	return nil, fmt.Errorf("unsupported import format %q", format)
}

// table maps canonical column names to positions.
type table struct {
	index map[string]int
	rows  [][]string
}

func newTable(rows [][]string, columns map[string][]string) (*table, error) {
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}
	lookup := make(map[string]string)
	for canonical, aliases := range columns {
		for _, a := range aliases {
			lookup[normalize(a)] = canonical
		}
	}

	t := &table{index: make(map[string]int), rows: rows[1:]}
	for i, h := range rows[0] {
		if canonical, ok := lookup[normalize(h)]; ok {
			if _, dup := t.index[canonical]; !dup {
				t.index[canonical] = i
			}
		}
	}
	if _, ok := t.index["name"]; !ok {
		return nil, fmt.Errorf("%w: no name column", ErrNoHeader)
	}
	return t, nil
}

type record map[string]string

func (t *table) record(row []string) record {
	rec := make(record, len(t.index))
	for col, i := range t.index {
		if i < len(row) {
			rec[col] = strings.TrimSpace(row[i])
		}
	}
	return rec
}

func (r record) get(col string) string {
	return r[col]
}

func (r record) opt(col string) *string {
	v := r[col]
	if v == "" {
		return nil
	}
	return &v
}

func (r record) blank() bool {
	for _, v := range r {
		if v != "" {
			return false
		}
	}
	return true
}

func normalize(h string) string {
	h = strings.TrimPrefix(h, "\uFEFF")
	return strings.ToLower(strings.TrimSpace(h))
}

func splitTags(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '，' || r == ';' || r == '；' || r == '|' || r == '、'
	})
	tags := []string{}
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			tags = append(tags, f)
		}
	}
	return tags
}

func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.NewReplacer(",", "", "¥", "", "￥", "").Replace(strings.TrimSpace(s))
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func parseRate(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	percent := strings.HasSuffix(s, "%")
	d, err := parseDecimal(strings.TrimSuffix(s, "%"))
	if err != nil {
		return d, err
	}
	if percent || d.GreaterThan(decimal.NewFromInt(1)) {
		d = d.Shift(-2)
	}
	return d, nil
}
