package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/satheeshds/invoicing/db"
	"github.com/satheeshds/invoicing/invoicing"
	"github.com/satheeshds/invoicing/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	database.SetMaxOpenConns(1)
	return New(database, opts...)
}

// tick returns a clock advancing one second per call.
func tick(start time.Time) func() time.Time {
	var mu sync.Mutex
	cur := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		cur = cur.Add(time.Second)
		return cur
	}
}

func strp(s string) *string { return &s }

func mustCompany(t *testing.T, s *Store, name, code string) models.Company {
	t.Helper()
	c, err := s.CreateCompany(context.Background(), models.CompanyInput{Name: name, ShortCode: code})
	require.NoError(t, err)
	return c
}

func mustCustomer(t *testing.T, s *Store, name string) models.Customer {
	t.Helper()
	c, err := s.CreateCustomer(context.Background(), models.CustomerInput{Name: name})
	require.NoError(t, err)
	return c
}

func lineItem(name, qty, price, rate string) models.LineItemInput {
	return models.LineItemInput{
		Name:      name,
		Quantity:  decimal.RequireFromString(qty),
		UnitPrice: decimal.RequireFromString(price),
		TaxRate:   decimal.RequireFromString(rate),
	}
}

func TestCompanies_DefaultAndCap(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, WithClock(tick(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))))

	a := mustCompany(t, s, "Alpha", "A")
	b := mustCompany(t, s, "Beta", "B")
	c := mustCompany(t, s, "Gamma", "C")
	assert.True(t, a.IsDefault, "first company becomes default")
	assert.False(t, b.IsDefault)

	_, err := s.CreateCompany(ctx, models.CompanyInput{Name: "Delta", ShortCode: "D"})
	assert.ErrorIs(t, err, invoicing.ErrCompanyLimit)

	_, err = s.SetDefault(ctx, c.ID)
	require.NoError(t, err)
	def, err := s.DefaultCompany(ctx)
	require.NoError(t, err)
	assert.Equal(t, c.ID, def.ID)

	require.NoError(t, s.DeleteCompany(ctx, c.ID))
	def, err = s.DefaultCompany(ctx)
	require.NoError(t, err)
	assert.Equal(t, a.ID, def.ID, "oldest remaining company is promoted")

	require.NoError(t, s.DeleteCompany(ctx, a.ID))
	require.NoError(t, s.DeleteCompany(ctx, b.ID))
	_, err = s.DefaultCompany(ctx)
	assert.True(t, IsNotFound(err))

	assert.True(t, IsNotFound(s.DeleteCompany(ctx, a.ID)))
}

func TestCompanies_Validation(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateCompany(context.Background(), models.CompanyInput{Name: "Too long", ShortCode: "ABCDEFGHIJK"})
	assert.True(t, invoicing.IsValidation(err))
}

func TestCompanies_Update(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	c := mustCompany(t, s, "Alpha", "A")

	got, err := s.UpdateCompany(ctx, c.ID, models.CompanyPatch{TaxID: strp("91310000"), Name: strp("Alpha Ltd")})
	require.NoError(t, err)
	assert.Equal(t, "Alpha Ltd", got.Name)
	assert.Equal(t, "A", got.ShortCode)
	require.NotNil(t, got.TaxID)
	assert.Equal(t, "91310000", *got.TaxID)

	_, err = s.UpdateCompany(ctx, "missing", models.CompanyPatch{Name: strp("x")})
	assert.True(t, IsNotFound(err))
}

func TestCustomers_CRUDAndSearch(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	c, err := s.CreateCustomer(ctx, models.CustomerInput{Name: "Acme", ContactPerson: strp("Li Wei"), Tags: []string{"VIP", "custom"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"VIP", "custom"}, c.Tags)
	mustCustomer(t, s, "Globex")

	found, err := s.ListCustomers(ctx, "li wei")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, c.ID, found[0].ID)

	tags := []string{}
	got, err := s.UpdateCustomer(ctx, c.ID, models.CustomerPatch{Tags: &tags, Email: strp("ap@acme.test")})
	require.NoError(t, err)
	assert.Empty(t, got.Tags)
	assert.Equal(t, "ap@acme.test", *got.Email)

	require.NoError(t, s.DeleteCustomer(ctx, c.ID))
	_, err = s.GetCustomer(ctx, c.ID)
	assert.True(t, IsNotFound(err))
}

func TestCustomers_BulkCreateIsAtomic(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.BulkCreateCustomers(ctx, []models.CustomerInput{{Name: "A"}, {Name: ""}})
	var verr *invoicing.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "rows[1]", verr.Field)

	all, err := s.ListCustomers(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all)

	n, err := s.BulkCreateCustomers(ctx, []models.CustomerInput{{Name: "A"}, {Name: "B"}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestProducts_CRUD(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	p, err := s.CreateProduct(ctx, models.ProductInput{
		Name: "Consulting", Category: "service", Unit: "hour",
		UnitPrice: decimal.RequireFromString("350.50"), TaxRate: decimal.RequireFromString("0.06"),
	})
	require.NoError(t, err)
	assert.True(t, p.UnitPrice.Equal(decimal.RequireFromString("350.5")))

	_, err = s.CreateProduct(ctx, models.ProductInput{Name: "Bad", TaxRate: decimal.RequireFromString("0.2")})
	assert.True(t, invoicing.IsValidation(err))

	rate := decimal.RequireFromString("0.13")
	got, err := s.UpdateProduct(ctx, p.ID, models.ProductPatch{TaxRate: &rate})
	require.NoError(t, err)
	assert.True(t, got.TaxRate.Equal(rate))

	list, err := s.ListProducts(ctx, "service", "consult")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, s.DeleteProduct(ctx, p.ID))
	assert.True(t, IsNotFound(s.DeleteProduct(ctx, p.ID)))
}

func TestInvoices_ItemsFilledFromProduct(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	co := mustCompany(t, s, "Soll Studio", "SOLL")
	cu := mustCustomer(t, s, "Acme")
	p, err := s.CreateProduct(ctx, models.ProductInput{
		Name: "Consulting", Unit: "hour",
		UnitPrice: decimal.RequireFromString("100"), TaxRate: decimal.RequireFromString("0.06"),
	})
	require.NoError(t, err)

	inv, err := s.CreateInvoice(ctx, models.InvoiceInput{
		CompanyID: co.ID, CustomerID: cu.ID,
		Items: []models.LineItemInput{
			{ProductID: &p.ID, Quantity: decimal.RequireFromString("2")},
			lineItem("Travel", "1", "50", "0"),
		},
	}, models.StatusIssued)
	require.NoError(t, err)
	require.Len(t, inv.Items, 2)
	assert.Equal(t, "Consulting", inv.Items[0].Name)
	assert.Equal(t, "hour", inv.Items[0].Unit)
	assert.True(t, inv.Items[0].UnitPrice.Equal(decimal.RequireFromString("100")))
	require.NotNil(t, inv.Items[0].ProductID)
	assert.Equal(t, p.ID, *inv.Items[0].ProductID)
	assert.Equal(t, models.Money(26200), inv.Total)

	missing := "no-such-product"
	_, err = s.UpdateInvoice(ctx, inv.ID, models.InvoiceInput{
		CompanyID: co.ID, CustomerID: cu.ID,
		Items:     []models.LineItemInput{{ProductID: &missing, Quantity: decimal.RequireFromString("1")}},
	})
	assert.True(t, invoicing.IsValidation(err))
}

func TestStore_LogsDriverFailures(t *testing.T) {
	var logs bytes.Buffer
	s := newTestStore(t, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	require.NoError(t, s.DB().Close())

	_, err := s.BulkCreateCustomers(context.Background(), []models.CustomerInput{{Name: "Acme"}})
	require.Error(t, err)
	assert.Contains(t, logs.String(), "begin transaction failed")
}

func TestInvoices_EndToEnd(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC)
	s := newTestStore(t, WithClock(tick(now)))

	co := mustCompany(t, s, "Soll Studio", "SOLL")
	cu := mustCustomer(t, s, "Acme")

	inv, err := s.CreateInvoice(ctx, models.InvoiceInput{
		CompanyID:  co.ID,
		CustomerID: cu.ID,
		Items:      []models.LineItemInput{lineItem("Design", "2", "100", "0.06")},
	}, models.StatusIssued)
	require.NoError(t, err)

	assert.Equal(t, "200.00", inv.Subtotal.String())
	assert.Equal(t, "12.00", inv.TotalTax.String())
	assert.Equal(t, "212.00", inv.Total.String())
	assert.Regexp(t, regexp.MustCompile(`^SOLL-\d{6}-0001$`), inv.InvoiceNumber)
	assert.Equal(t, "SOLL-202610-0001", inv.InvoiceNumber)
	assert.Equal(t, models.StatusIssued, inv.Status)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, "Acme", *inv.CustomerName)

	paid, err := s.TransitionInvoice(ctx, inv.ID, models.StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, paid.Status)
	assert.Equal(t, paid.Total, paid.PaidAmount)
	assert.Equal(t, inv.IssueDate, paid.IssueDate, "issue date is never re-derived")

	entries, err := s.ListAudit(ctx, inv.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.AuditStatusChanged, entries[0].Action)
	assert.Equal(t, models.AuditCreated, entries[1].Action)

	var oldV, newV map[string]any
	require.NoError(t, json.Unmarshal(entries[0].OldValue, &oldV))
	require.NoError(t, json.Unmarshal(entries[0].NewValue, &newV))
	assert.Equal(t, "issued", oldV["status"])
	assert.Equal(t, "paid", newV["status"])

	company, err := s.GetCompany(ctx, co.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), company.InvoiceCounter)
}

func TestInvoices_NumbersIncrementAndAreNotReused(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, WithClock(tick(time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC))))
	co := mustCompany(t, s, "Soll Studio", "SOLL")

	first, err := s.CreateInvoice(ctx, models.InvoiceInput{CompanyID: co.ID}, models.StatusDraft)
	require.NoError(t, err)
	require.NoError(t, s.DeleteInvoice(ctx, first.ID, false))

	second, err := s.CreateInvoice(ctx, models.InvoiceInput{CompanyID: co.ID}, models.StatusDraft)
	require.NoError(t, err)
	assert.Equal(t, "SOLL-202603-0001", first.InvoiceNumber)
	assert.Equal(t, "SOLL-202603-0002", second.InvoiceNumber)
}

func TestInvoices_FailedCreateRollsBackCounter(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	co := mustCompany(t, s, "Soll Studio", "SOLL")

	_, err := s.CreateInvoice(ctx, models.InvoiceInput{CompanyID: co.ID}, models.StatusIssued)
	var verr *invoicing.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "customer_id", verr.Field)

	company, err := s.GetCompany(ctx, co.ID)
	require.NoError(t, err)
	assert.Zero(t, company.InvoiceCounter)
}

func TestInvoices_DraftUsesDefaultCompany(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	co := mustCompany(t, s, "Soll Studio", "SOLL")

	inv, err := s.CreateInvoice(ctx, models.InvoiceInput{}, models.StatusDraft)
	require.NoError(t, err)
	assert.Equal(t, co.ID, inv.CompanyID)
	assert.Equal(t, models.StatusDraft, inv.Status)
}

func TestInvoices_OpaqueNumbering(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, WithNumbering(invoicing.Opaque{}))
	co := mustCompany(t, s, "Soll Studio", "SOLL")

	inv, err := s.CreateInvoice(ctx, models.InvoiceInput{CompanyID: co.ID}, models.StatusDraft)
	require.NoError(t, err)
	assert.Regexp(t, `^INV-[0-9A-F]{8}$`, inv.InvoiceNumber)

	company, err := s.GetCompany(ctx, co.ID)
	require.NoError(t, err)
	assert.Zero(t, company.InvoiceCounter)
}

func TestInvoices_SubmitGuardLeavesDraft(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	co := mustCompany(t, s, "Soll Studio", "SOLL")
	cu := mustCustomer(t, s, "Acme")

	inv, err := s.CreateInvoice(ctx, models.InvoiceInput{CompanyID: co.ID, CustomerID: cu.ID}, models.StatusDraft)
	require.NoError(t, err)

	_, err = s.TransitionInvoice(ctx, inv.ID, models.StatusIssued)
	assert.True(t, invoicing.IsValidation(err))

	got, err := s.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, got.Status)

	entries, err := s.ListAudit(ctx, inv.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "a failed transition writes no audit entry")
}

func TestInvoices_VoidIsAbsorbing(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	co := mustCompany(t, s, "Soll Studio", "SOLL")
	cu := mustCustomer(t, s, "Acme")

	inv, err := s.CreateInvoice(ctx, models.InvoiceInput{
		CompanyID: co.ID, CustomerID: cu.ID,
		Items: []models.LineItemInput{lineItem("Design", "1", "50", "0")},
	}, models.StatusIssued)
	require.NoError(t, err)
	_, err = s.TransitionInvoice(ctx, inv.ID, models.StatusPaid)
	require.NoError(t, err)

	voided, err := s.VoidInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusVoid, voided.Status)

	for _, to := range []models.InvoiceStatus{models.StatusDraft, models.StatusIssued, models.StatusPaid} {
		_, err := s.TransitionInvoice(ctx, inv.ID, to)
		assert.ErrorIs(t, err, invoicing.ErrInvoiceVoid)
	}

	entries, err := s.ListAudit(ctx, inv.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, models.AuditVoided, entries[0].Action)
}

func TestInvoices_Update(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	co := mustCompany(t, s, "Soll Studio", "SOLL")
	cu := mustCustomer(t, s, "Acme")

	inv, err := s.CreateInvoice(ctx, models.InvoiceInput{CompanyID: co.ID, CustomerID: cu.ID,
		Items: []models.LineItemInput{lineItem("Design", "1", "100", "0.06")}}, models.StatusIssued)
	require.NoError(t, err)

	updated, err := s.UpdateInvoice(ctx, inv.ID, models.InvoiceInput{CompanyID: co.ID, CustomerID: cu.ID,
		Items: []models.LineItemInput{
			lineItem("Design", "1", "6.7", "0.06"),
			lineItem("Build", "1", "6.7", "0.06"),
			lineItem("Run", "1", "6.7", "0.06"),
		}, Remark: "revised"})
	require.NoError(t, err)
	assert.Equal(t, inv.InvoiceNumber, updated.InvoiceNumber)
	assert.Equal(t, "20.10", updated.Subtotal.String())
	assert.Equal(t, "1.20", updated.TotalTax.String(), "tax is rounded per line")
	assert.Equal(t, "21.30", updated.Total.String())
	assert.Len(t, updated.Items, 3)

	_, err = s.UpdateInvoice(ctx, inv.ID, models.InvoiceInput{CompanyID: co.ID, CustomerID: cu.ID})
	assert.True(t, invoicing.IsValidation(err), "issued invoices keep their submit guards")

	_, err = s.TransitionInvoice(ctx, inv.ID, models.StatusPaid)
	require.NoError(t, err)
	_, err = s.UpdateInvoice(ctx, inv.ID, models.InvoiceInput{CompanyID: co.ID, CustomerID: cu.ID,
		Items: []models.LineItemInput{lineItem("Design", "1", "1", "0")}})
	assert.ErrorIs(t, err, invoicing.ErrInvoiceLocked)
}

func TestInvoices_Delete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	co := mustCompany(t, s, "Soll Studio", "SOLL")
	cu := mustCustomer(t, s, "Acme")
	issue := func() models.Invoice {
		inv, err := s.CreateInvoice(ctx, models.InvoiceInput{CompanyID: co.ID, CustomerID: cu.ID,
			Items: []models.LineItemInput{lineItem("Design", "1", "10", "0")}}, models.StatusIssued)
		require.NoError(t, err)
		return inv
	}

	inv := issue()
	assert.ErrorIs(t, s.DeleteInvoice(ctx, inv.ID, false), invoicing.ErrConfirmationRequired)
	require.NoError(t, s.DeleteInvoice(ctx, inv.ID, true))
	_, err := s.GetInvoice(ctx, inv.ID)
	assert.True(t, IsNotFound(err))

	entries, err := s.ListAudit(ctx, inv.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.AuditDeleted, entries[0].Action)
	var oldV map[string]any
	require.NoError(t, json.Unmarshal(entries[0].OldValue, &oldV))
	assert.Equal(t, "issued", oldV["status"])
	assert.Equal(t, inv.InvoiceNumber, oldV["invoice_number"])

	paid := issue()
	_, err = s.TransitionInvoice(ctx, paid.ID, models.StatusPaid)
	require.NoError(t, err)
	assert.ErrorIs(t, s.DeleteInvoice(ctx, paid.ID, true), invoicing.ErrPaidInvoiceDelete)

	assert.True(t, IsNotFound(s.DeleteInvoice(ctx, "missing", true)))
}

func TestInvoices_DuplicateGetsFreshNumber(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	co := mustCompany(t, s, "Soll Studio", "SOLL")
	cu := mustCustomer(t, s, "Acme")

	src, err := s.CreateInvoice(ctx, models.InvoiceInput{CompanyID: co.ID, CustomerID: cu.ID,
		Items: []models.LineItemInput{lineItem("Design", "2", "100", "0.06")}}, models.StatusIssued)
	require.NoError(t, err)

	dup, err := s.DuplicateInvoice(ctx, src.ID)
	require.NoError(t, err)
	assert.NotEqual(t, src.InvoiceNumber, dup.InvoiceNumber)
	assert.Equal(t, models.StatusDraft, dup.Status)
	assert.Equal(t, src.Total, dup.Total)
	assert.Len(t, dup.Items, 1)
}

func TestInvoices_ListFilters(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, WithClock(tick(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))))
	co := mustCompany(t, s, "Soll Studio", "SOLL")
	a := mustCustomer(t, s, "Acme")
	b := mustCustomer(t, s, "Globex")

	for _, cu := range []models.Customer{a, b, a} {
		_, err := s.CreateInvoice(ctx, models.InvoiceInput{CompanyID: co.ID, CustomerID: cu.ID}, models.StatusDraft)
		require.NoError(t, err)
	}

	all, err := s.ListInvoices(ctx, models.InvoiceFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "SOLL-202601-0003", all[0].InvoiceNumber, "newest first")

	mine, err := s.ListInvoices(ctx, models.InvoiceFilter{CustomerID: &a.ID})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	issued := models.StatusIssued
	none, err := s.ListInvoices(ctx, models.InvoiceFilter{Status: &issued})
	require.NoError(t, err)
	assert.Empty(t, none)

	search, err := s.ListInvoices(ctx, models.InvoiceFilter{Search: "globex"})
	require.NoError(t, err)
	assert.Len(t, search, 1)
}

func TestInvoices_ConcurrentCreatesNeverDuplicateNumbers(t *testing.T) {
	ctx := context.Background()
	database, err := db.OpenMemory()
	require.NoError(t, err)
	defer database.Close()
	database.SetMaxOpenConns(4)
	s := New(database)
	co := mustCompany(t, s, "Soll Studio", "SOLL")

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers = map[string]int{}
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inv, err := s.CreateInvoice(ctx, models.InvoiceInput{CompanyID: co.ID}, models.StatusDraft)
			if err != nil {
				// Conflicting transactions may abort; they must not produce a number.
				return
			}
			mu.Lock()
			numbers[inv.InvoiceNumber]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.NotEmpty(t, numbers, "at least one concurrent create must commit")
	for n, count := range numbers {
		assert.Equal(t, 1, count, "number %s issued twice", n)
	}
	company, err := s.GetCompany(ctx, co.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(len(numbers)), company.InvoiceCounter)
}

func TestAudit_SeqComesFromSequence(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	at := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	actions := []models.AuditAction{models.AuditCreated, models.AuditUpdated, models.AuditEmailSent}
	for i, a := range actions {
		require.NoError(t, s.Append(ctx, models.AuditLogEntry{ID: fmt.Sprintf("a%d", i), InvoiceID: "inv", Action: a, CreatedAt: at}))
	}
	entries, err := s.ListAudit(ctx, "inv")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, models.AuditEmailSent, entries[0].Action, "same timestamp orders by write")
	assert.Equal(t, models.AuditCreated, entries[2].Action)

	var seqs []int64
	rows, err := s.DB().QueryContext(ctx, "SELECT seq FROM audit_log ORDER BY seq")
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var n int64
		require.NoError(t, rows.Scan(&n))
		seqs = append(seqs, n)
	}
	require.NoError(t, rows.Err())
	require.Len(t, seqs, 3)
	assert.Less(t, seqs[0], seqs[1])
	assert.Less(t, seqs[1], seqs[2])

	_, err = s.DB().ExecContext(ctx, `INSERT INTO audit_log (id, seq, invoice_id, action, created_at)
		VALUES ('dup', $1, 'inv', 'updated', $2)`, seqs[0], at)
	assert.Error(t, err, "seq is unique")
}

func TestCRM_SoftDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	c, err := s.CreateCreator(ctx, models.CreatorInput{Name: "Mia", Platform: strp("douyin")})
	require.NoError(t, err)
	m, err := s.CreateMerchant(ctx, models.MerchantInput{Name: "Brand Co"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteCreator(ctx, c.ID))
	_, err = s.GetCreator(ctx, c.ID)
	assert.True(t, IsNotFound(err))
	assert.True(t, IsNotFound(s.DeleteCreator(ctx, c.ID)))

	live, err := s.ListCreators(ctx, "", false)
	require.NoError(t, err)
	assert.Empty(t, live)
	withDeleted, err := s.ListCreators(ctx, "", true)
	require.NoError(t, err)
	require.Len(t, withDeleted, 1)
	assert.NotNil(t, withDeleted[0].DeletedAt)

	_, err = s.UpdateCreator(ctx, c.ID, models.CreatorInput{Name: "Mia 2"})
	assert.True(t, IsNotFound(err))

	got, err := s.UpdateMerchant(ctx, m.ID, models.MerchantInput{Name: "Brand Co", Category: strp("beauty")})
	require.NoError(t, err)
	assert.Equal(t, "beauty", *got.Category)
}

func TestSettlements(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	c, err := s.CreateCreator(ctx, models.CreatorInput{Name: "Mia"})
	require.NoError(t, err)

	st, err := s.CreateSettlement(ctx, models.SettlementInput{
		CreatorID: &c.ID, GrossAmount: 100000, CommissionAmount: 15000, SettlementDate: strp("2026-10-01"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.Money(85000), st.NetAmount)
	assert.Equal(t, "pending", st.Status)
	assert.Equal(t, "Mia", *st.CreatorName)

	list, err := s.ListSettlements(ctx, SettlementFilter{CreatorID: c.ID})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = s.CreateSettlement(ctx, models.SettlementInput{GrossAmount: 1})
	assert.True(t, invoicing.IsValidation(err))

	require.NoError(t, s.DeleteSettlement(ctx, st.ID))
	_, err = s.GetSettlement(ctx, st.ID)
	assert.True(t, IsNotFound(err))
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	co := mustCompany(t, s, "Soll Studio", "SOLL")
	cu := mustCustomer(t, s, "Acme")

	for i := 0; i < 6; i++ {
		_, err := s.CreateInvoice(ctx, models.InvoiceInput{CompanyID: co.ID, CustomerID: cu.ID,
			Items: []models.LineItemInput{lineItem(fmt.Sprintf("Line %d", i), "1", "100", "0.06")}}, models.StatusIssued)
		require.NoError(t, err)
	}
	list, err := s.ListInvoices(ctx, models.InvoiceFilter{})
	require.NoError(t, err)
	_, err = s.TransitionInvoice(ctx, list[0].ID, models.StatusOverdue)
	require.NoError(t, err)
	_, err = s.TransitionInvoice(ctx, list[1].ID, models.StatusPaid)
	require.NoError(t, err)

	d, err := s.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, d.TotalInvoices)
	assert.Equal(t, 1, d.OverdueInvoices)
	assert.Equal(t, "530.00", d.Receivable.String())
	assert.Equal(t, "106.00", d.PaidThisMonth.String())
	assert.Len(t, d.RecentInvoices, 5)
}
