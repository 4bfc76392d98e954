// Package invoicing holds the invoice rules that do not touch storage: submit guards, the
// status lifecycle, delete and edit policy, totals and numbering.
package invoicing

import (
	"github.com/satheeshds/invoicing/models"
)

// transitions lists the allowed targets per status. Void has no entry: it is absorbing.
var transitions = map[models.InvoiceStatus][]models.InvoiceStatus{
	models.StatusDraft:   {models.StatusIssued, models.StatusVoid},
	models.StatusIssued:  {models.StatusPaid, models.StatusOverdue, models.StatusVoid},
	models.StatusOverdue: {models.StatusPaid, models.StatusIssued, models.StatusVoid},
	models.StatusPaid:    {models.StatusIssued, models.StatusOverdue, models.StatusVoid},
}

// Change is the outcome of an allowed transition.
type Change struct {
	From       models.InvoiceStatus
	To         models.InvoiceStatus
	PrevPaid   models.Money
	PaidAmount models.Money
	Action     models.AuditAction
}

// OldValue and NewValue are the audit snapshots of the change.
func (c Change) OldValue() map[string]any {
	return map[string]any{"status": c.From, "paid_amount": c.PrevPaid}
}

func (c Change) NewValue() map[string]any {
	return map[string]any{"status": c.To, "paid_amount": c.PaidAmount}
}

// CanTransition reports whether from -> to is allowed, ignoring submit guards.
func CanTransition(from, to models.InvoiceStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Transition decides a status change for inv. Leaving draft for issued re-runs the submit
// guards against the invoice's current contents. Marking paid records the full total as paid;
// moving a paid invoice back to an unpaid status clears it.
func Transition(inv models.Invoice, to models.InvoiceStatus) (Change, error) {
	if inv.Status == models.StatusVoid {
		return Change{}, &StateError{Err: ErrInvoiceVoid, Status: string(inv.Status)}
	}
	if !CanTransition(inv.Status, to) {
		return Change{}, &StateError{Err: ErrInvalidTransition, Status: string(inv.Status) + " -> " + string(to)}
	}
	if inv.Status == models.StatusDraft && to == models.StatusIssued {
		if err := CheckSubmit(inputOf(inv)); err != nil {
			return Change{}, err
		}
	}

	c := Change{From: inv.Status, To: to, PrevPaid: inv.PaidAmount, PaidAmount: inv.PaidAmount, Action: models.AuditStatusChanged}
	switch to {
	case models.StatusPaid:
		c.PaidAmount = inv.Total
	case models.StatusIssued, models.StatusOverdue:
		if inv.Status == models.StatusPaid {
			c.PaidAmount = 0
		}
	case models.StatusVoid:
		c.Action = models.AuditVoided
	}
	return c, nil
}

// CheckEditable rejects content edits of paid and void invoices.
func CheckEditable(status models.InvoiceStatus) error {
	if status == models.StatusPaid || status == models.StatusVoid {
		return &StateError{Err: ErrInvoiceLocked, Status: string(status)}
	}
	return nil
}

// CheckDelete applies the hard-delete policy: drafts go freely, paid invoices never, and
// everything else only with explicit confirmation.
func CheckDelete(status models.InvoiceStatus, confirmed bool) error {
	switch {
	case status == models.StatusPaid:
		return &StateError{Err: ErrPaidInvoiceDelete, Status: string(status)}
	case status == models.StatusDraft:
		return nil
	case !confirmed:
		return &StateError{Err: ErrConfirmationRequired, Status: string(status)}
	}
	return nil
}

func inputOf(inv models.Invoice) models.InvoiceInput {
	in := models.InvoiceInput{CompanyID: inv.CompanyID, CustomerID: inv.CustomerID}
	for _, it := range inv.Items {
		in.Items = append(in.Items, models.LineItemInput{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Unit:      it.Unit,
			UnitPrice: it.UnitPrice,
			TaxRate:   it.TaxRate,
		})
	}
	return in
}
