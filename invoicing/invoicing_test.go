package invoicing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/satheeshds/invoicing/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSequence struct {
	code    string
	counter int64
	err     error
}

func (f *fakeSequence) Next(_ context.Context, _ string) (string, int64, error) {
	if f.err != nil {
		return "", 0, f.err
	}
	f.counter++
	return f.code, f.counter, nil
}

func item(name, qty string) models.LineItemInput {
	return models.LineItemInput{
		Name:      name,
		Quantity:  decimal.RequireFromString(qty),
		UnitPrice: decimal.NewFromInt(100),
		TaxRate:   decimal.RequireFromString("0.06"),
	}
}

func validInput() models.InvoiceInput {
	return models.InvoiceInput{CompanyID: "co", CustomerID: "cu", Items: []models.LineItemInput{item("Design", "2")}}
}

func TestFormatNumber(t *testing.T) {
	now := time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "SOLL-202603-0001", FormatNumber("SOLL", now, 1))
	assert.Equal(t, "A-202603-0420", FormatNumber("A", now, 420))
	assert.Equal(t, "A-202603-12345", FormatNumber("A", now, 12345))
}

func TestSequential_IncrementsByOne(t *testing.T) {
	now := time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)
	seq := &fakeSequence{code: "SOLL"}
	first, err := Sequential{}.Assign(context.Background(), seq, "co", "id-1", now)
	require.NoError(t, err)
	second, err := Sequential{}.Assign(context.Background(), seq, "co", "id-2", now)
	require.NoError(t, err)

	assert.Equal(t, "SOLL-202610-0001", first)
	assert.Equal(t, "SOLL-202610-0002", second)
}

func TestSequential_PropagatesSequenceError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Sequential{}.Assign(context.Background(), &fakeSequence{err: boom}, "co", "id", time.Now())
	assert.ErrorIs(t, err, boom)
}

func TestOpaque_DerivesFromID(t *testing.T) {
	seq := &fakeSequence{code: "X"}
	got, err := Opaque{}.Assign(context.Background(), seq, "co", "3f2a9c1e-7b44-4d2e-9a1b-1234567890ab", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "INV-3F2A9C1E", got)
	assert.Zero(t, seq.counter, "opaque numbering must not consume the counter")
}

func TestNewNumbering(t *testing.T) {
	n, err := NewNumbering("")
	require.NoError(t, err)
	assert.IsType(t, Sequential{}, n)
	n, err = NewNumbering("opaque")
	require.NoError(t, err)
	assert.IsType(t, Opaque{}, n)
	_, err = NewNumbering("random")
	assert.Error(t, err)
}

func TestCheckSubmit(t *testing.T) {
	cases := []struct {
		name  string
		edit  func(*models.InvoiceInput)
		field string
	}{
		{"no company", func(in *models.InvoiceInput) { in.CompanyID = "" }, "company_id"},
		{"no customer", func(in *models.InvoiceInput) { in.CustomerID = " " }, "customer_id"},
		{"no items", func(in *models.InvoiceInput) { in.Items = nil }, "items"},
		{"blank name", func(in *models.InvoiceInput) { in.Items[0].Name = "  " }, "items[0].name"},
		{"zero quantity", func(in *models.InvoiceInput) {
			in.Items = append(in.Items, item("Build", "0"))
		}, "items[1].quantity"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.edit(&in)
			err := CheckSubmit(in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
	assert.NoError(t, CheckSubmit(validInput()))
}

func TestPrepare(t *testing.T) {
	items, totals, err := Prepare(validInput(), models.StatusIssued)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.Money(20000), items[0].Amount)
	assert.Equal(t, models.Money(1200), items[0].TaxAmount)
	assert.Equal(t, "212", totals.Total.String())

	// Drafts skip the submit guards.
	_, _, err = Prepare(models.InvoiceInput{}, models.StatusDraft)
	assert.NoError(t, err)

	_, _, err = Prepare(models.InvoiceInput{}, models.StatusIssued)
	assert.True(t, IsValidation(err))

	_, _, err = Prepare(validInput(), models.StatusPaid)
	assert.True(t, IsValidation(err))
}

func invoiceWith(status models.InvoiceStatus) models.Invoice {
	items, totals, _ := BuildItems(validInput().Items)
	return models.Invoice{
		CompanyID:  "co",
		CustomerID: "cu",
		Items:      items,
		Status:     status,
		Total:      models.MoneyFromDecimal(totals.Total),
	}
}

func TestTransition_Allowed(t *testing.T) {
	cases := []struct {
		from, to models.InvoiceStatus
		action   models.AuditAction
	}{
		{models.StatusDraft, models.StatusIssued, models.AuditStatusChanged},
		{models.StatusDraft, models.StatusVoid, models.AuditVoided},
		{models.StatusIssued, models.StatusPaid, models.AuditStatusChanged},
		{models.StatusIssued, models.StatusOverdue, models.AuditStatusChanged},
		{models.StatusIssued, models.StatusVoid, models.AuditVoided},
		{models.StatusOverdue, models.StatusPaid, models.AuditStatusChanged},
		{models.StatusOverdue, models.StatusIssued, models.AuditStatusChanged},
		{models.StatusPaid, models.StatusIssued, models.AuditStatusChanged},
		{models.StatusPaid, models.StatusOverdue, models.AuditStatusChanged},
		{models.StatusPaid, models.StatusVoid, models.AuditVoided},
	}
	for _, tc := range cases {
		c, err := Transition(invoiceWith(tc.from), tc.to)
		require.NoError(t, err, "%s -> %s", tc.from, tc.to)
		assert.Equal(t, tc.from, c.From)
		assert.Equal(t, tc.to, c.To)
		assert.Equal(t, tc.action, c.Action)
		assert.Equal(t, tc.from, c.OldValue()["status"])
		assert.Equal(t, tc.to, c.NewValue()["status"])
	}
}

func TestTransition_PaidAmount(t *testing.T) {
	inv := invoiceWith(models.StatusIssued)
	c, err := Transition(inv, models.StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, models.Money(21200), c.PaidAmount)

	inv.Status, inv.PaidAmount = models.StatusPaid, inv.Total
	c, err = Transition(inv, models.StatusIssued)
	require.NoError(t, err)
	assert.Equal(t, models.Money(0), c.PaidAmount)
	assert.Equal(t, models.Money(21200), c.PrevPaid)

	c, err = Transition(inv, models.StatusVoid)
	require.NoError(t, err)
	assert.Equal(t, models.Money(21200), c.PaidAmount, "voiding keeps the payment record")
}

func TestTransition_Rejected(t *testing.T) {
	cases := []struct {
		from, to models.InvoiceStatus
		want     error
	}{
		{models.StatusDraft, models.StatusPaid, ErrInvalidTransition},
		{models.StatusDraft, models.StatusDraft, ErrInvalidTransition},
		{models.StatusIssued, models.StatusDraft, ErrInvalidTransition},
		{models.StatusVoid, models.StatusDraft, ErrInvoiceVoid},
		{models.StatusVoid, models.StatusIssued, ErrInvoiceVoid},
		{models.StatusVoid, models.StatusPaid, ErrInvoiceVoid},
		{models.StatusVoid, models.StatusVoid, ErrInvoiceVoid},
	}
	for _, tc := range cases {
		_, err := Transition(invoiceWith(tc.from), tc.to)
		assert.ErrorIs(t, err, tc.want, "%s -> %s", tc.from, tc.to)
		assert.True(t, IsState(err))
	}
}

func TestTransition_SubmitGuards(t *testing.T) {
	inv := invoiceWith(models.StatusDraft)
	inv.Items = nil
	_, err := Transition(inv, models.StatusIssued)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "items", verr.Field)
}

func TestCheckDelete(t *testing.T) {
	assert.NoError(t, CheckDelete(models.StatusDraft, false))
	assert.ErrorIs(t, CheckDelete(models.StatusPaid, true), ErrPaidInvoiceDelete)
	assert.ErrorIs(t, CheckDelete(models.StatusIssued, false), ErrConfirmationRequired)
	assert.NoError(t, CheckDelete(models.StatusIssued, true))
	assert.ErrorIs(t, CheckDelete(models.StatusVoid, false), ErrConfirmationRequired)
	assert.NoError(t, CheckDelete(models.StatusOverdue, true))
}

func TestCheckEditable(t *testing.T) {
	assert.NoError(t, CheckEditable(models.StatusDraft))
	assert.NoError(t, CheckEditable(models.StatusIssued))
	assert.ErrorIs(t, CheckEditable(models.StatusPaid), ErrInvoiceLocked)
	assert.ErrorIs(t, CheckEditable(models.StatusVoid), ErrInvoiceLocked)
}
