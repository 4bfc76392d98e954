package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/satheeshds/invoicing/delivery"
	"github.com/satheeshds/invoicing/importer"
	"github.com/satheeshds/invoicing/models"
)

// invoiceFilter reads the listing filters from the query string.
func invoiceFilter(r *http.Request) (models.InvoiceFilter, error) {
	q := r.URL.Query()
	f := models.InvoiceFilter{Search: q.Get("search")}
	if s := q.Get("status"); s != "" {
		status, ok := models.ParseInvoiceStatus(s)
		if !ok {
			return f, fmt.Errorf("unknown status %q", s)
		}
		f.Status = &status
	}
	for key, dst := range map[string]**string{
		"company_id":  &f.CompanyID,
		"customer_id": &f.CustomerID,
		"creator_id":  &f.CreatorID,
		"merchant_id": &f.MerchantID,
	} {
		if v := q.Get(key); v != "" {
			*dst = &v
		}
	}
	return f, nil
}

// ListInvoices lists invoices
// @Summary      List invoices
// @Description  Get invoices newest first. Items are not included; fetch a single invoice for them.
// @Tags         invoices
// @Produce      json
// @Param        status       query     string  false  "Filter by status (draft, issued, paid, overdue, void or an alias)"
// @Param        company_id   query     string  false  "Filter by company"
// @Param        customer_id  query     string  false  "Filter by customer"
// @Param        creator_id   query     string  false  "Filter by creator"
// @Param        merchant_id  query     string  false  "Filter by merchant"
// @Param        search       query     string  false  "Search by invoice number, remark or customer name"
// @Success      200          {object}  Response{data=[]models.Invoice}
// @Failure      400          {object}  Response{error=string}
// @Router       /invoices [get]
// @Security     BasicAuth
func (a *API) ListInvoices(w http.ResponseWriter, r *http.Request) {
	filter, err := invoiceFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	invoices, err := a.store.ListInvoices(r.Context(), filter)
	if err != nil {
		a.fail(w, r, "invoice", err)
		return
	}
	writeJSON(w, http.StatusOK, invoices)
}

// GetInvoice retrieves a single invoice with its items
// @Summary      Get invoice
// @Tags         invoices
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  Response{data=models.Invoice}
// @Failure      404  {object}  Response{error=string}
// @Router       /invoices/{id} [get]
// @Security     BasicAuth
func (a *API) GetInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := a.store.GetInvoice(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, "invoice", err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// CreateInvoice creates a new invoice
// @Summary      Create invoice
// @Description  Create an invoice as a draft, or issue it directly with submit=true. The number is assigned from the company's counter.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        submit   query     bool                 false  "Issue the invoice instead of saving a draft"
// @Param        invoice  body      models.InvoiceInput  true   "Invoice contents"
// @Success      201      {object}  Response{data=models.Invoice}
// @Failure      400      {object}  Response{error=string}
// @Router       /invoices [post]
// @Security     BasicAuth
func (a *API) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var input models.InvoiceInput
	if !decodeJSON(w, r, &input) {
		return
	}
	status := models.StatusDraft
	if submit, _ := strconv.ParseBool(r.URL.Query().Get("submit")); submit {
		status = models.StatusIssued
	}
	inv, err := a.store.CreateInvoice(r.Context(), input, status)
	if err != nil {
		a.fail(w, r, "invoice", err)
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

// UpdateInvoice replaces the contents of an invoice
// @Summary      Update invoice
// @Description  Replace the items and details of a draft or issued invoice. Paid and void invoices are locked.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Invoice ID"
// @Param        invoice  body      models.InvoiceInput  true  "Invoice contents"
// @Success      200      {object}  Response{data=models.Invoice}
// @Failure      400      {object}  Response{error=string}
// @Failure      404      {object}  Response{error=string}
// @Failure      409      {object}  Response{error=string}
// @Router       /invoices/{id} [put]
// @Security     BasicAuth
func (a *API) UpdateInvoice(w http.ResponseWriter, r *http.Request) {
	var input models.InvoiceInput
	if !decodeJSON(w, r, &input) {
		return
	}
	inv, err := a.store.UpdateInvoice(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		a.fail(w, r, "invoice", err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// DeleteInvoice deletes an invoice
// @Summary      Delete invoice
// @Description  Drafts are deleted freely. Other invoices need confirm=true. Paid invoices cannot be deleted.
// @Tags         invoices
// @Produce      json
// @Param        id       path      string  true   "Invoice ID"
// @Param        confirm  query     bool    false  "Confirm deleting a non-draft invoice"
// @Success      200      {object}  Response{data=map[string]string}
// @Failure      404      {object}  Response{error=string}
// @Failure      409      {object}  Response{error=string}
// @Router       /invoices/{id} [delete]
// @Security     BasicAuth
func (a *API) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	if err := a.store.DeleteInvoice(r.Context(), chi.URLParam(r, "id"), confirmed); err != nil {
		a.fail(w, r, "invoice", err)
		return
	}
	writeDeleted(w)
}

// ChangeInvoiceStatus moves an invoice to another status
// @Summary      Change invoice status
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id      path      string              true  "Invoice ID"
// @Param        status  body      models.StatusInput  true  "Target status"
// @Success      200     {object}  Response{data=models.Invoice}
// @Failure      400     {object}  Response{error=string}
// @Failure      404     {object}  Response{error=string}
// @Failure      409     {object}  Response{error=string}
// @Router       /invoices/{id}/status [post]
// @Security     BasicAuth
func (a *API) ChangeInvoiceStatus(w http.ResponseWriter, r *http.Request) {
	var input models.StatusInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	to, ok := models.ParseInvoiceStatus(input.Status)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", input.Status))
		return
	}
	inv, err := a.store.TransitionInvoice(r.Context(), chi.URLParam(r, "id"), to)
	if err != nil {
		a.fail(w, r, "invoice", err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// VoidInvoice voids an invoice
// @Summary      Void invoice
// @Description  Void an invoice. Void is final.
// @Tags         invoices
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  Response{data=models.Invoice}
// @Failure      404  {object}  Response{error=string}
// @Failure      409  {object}  Response{error=string}
// @Router       /invoices/{id}/void [post]
// @Security     BasicAuth
func (a *API) VoidInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := a.store.VoidInvoice(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, "invoice", err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// DuplicateInvoice copies an invoice into a new draft
// @Summary      Duplicate invoice
// @Tags         invoices
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      201  {object}  Response{data=models.Invoice}
// @Failure      404  {object}  Response{error=string}
// @Router       /invoices/{id}/duplicate [post]
// @Security     BasicAuth
func (a *API) DuplicateInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := a.store.DuplicateInvoice(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, "invoice", err)
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

// GetInvoiceAudit returns the history of an invoice
// @Summary      Get invoice audit log
// @Description  Audit entries newest first. Entries of deleted invoices remain readable.
// @Tags         invoices
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  Response{data=[]models.AuditLogEntry}
// @Router       /invoices/{id}/audit [get]
// @Security     BasicAuth
func (a *API) GetInvoiceAudit(w http.ResponseWriter, r *http.Request) {
	entries, err := a.audit.ListFor(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, "invoice", err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// GetInvoiceDocument renders the printable invoice
// @Summary      Get invoice document
// @Tags         invoices
// @Produce      html
// @Param        id        path      string  true   "Invoice ID"
// @Param        download  query     bool    false  "Send as an attachment"
// @Success      200       {string}  string
// @Failure      404       {object}  Response{error=string}
// @Router       /invoices/{id}/document [get]
// @Security     BasicAuth
func (a *API) GetInvoiceDocument(w http.ResponseWriter, r *http.Request) {
	file, err := a.delivery.Render(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, "invoice", err)
		return
	}
	disposition := "inline"
	if download, _ := strconv.ParseBool(r.URL.Query().Get("download")); download {
		disposition = "attachment"
	}
	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, file.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(file.Content)
}

// EmailInvoice sends the invoice document by email
// @Summary      Email invoice
// @Description  Send the rendered invoice as an attachment. The recipient defaults to the customer's email.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id       path      string                  true  "Invoice ID"
// @Param        message  body      delivery.EmailRequest   true  "Recipient and message"
// @Success      200      {object}  Response{data=map[string]string}
// @Failure      400      {object}  Response{error=string}
// @Failure      404      {object}  Response{error=string}
// @Failure      502      {object}  Response{error=string}
// @Failure      503      {object}  Response{error=string}
// @Router       /invoices/{id}/email [post]
// @Security     BasicAuth
func (a *API) EmailInvoice(w http.ResponseWriter, r *http.Request) {
	var req delivery.EmailRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	if err := a.delivery.Email(r.Context(), chi.URLParam(r, "id"), req); err != nil {
		a.fail(w, r, "invoice", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "sent"})
}

// ExportInvoices downloads the filtered invoice list as a spreadsheet
// @Summary      Export invoices
// @Description  Accepts the same filters as the invoice list.
// @Tags         invoices
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        status       query     string  false  "Filter by status"
// @Param        company_id   query     string  false  "Filter by company"
// @Param        customer_id  query     string  false  "Filter by customer"
// @Param        search       query     string  false  "Search by invoice number, remark or customer name"
// @Success      200          {file}    file
// @Failure      400          {object}  Response{error=string}
// @Router       /invoices/export [get]
// @Security     BasicAuth
func (a *API) ExportInvoices(w http.ResponseWriter, r *http.Request) {
	filter, err := invoiceFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	invoices, err := a.store.ListInvoices(r.Context(), filter)
	if err != nil {
		a.fail(w, r, "invoice", err)
		return
	}
	name := fmt.Sprintf("invoices-%s.xlsx", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", importer.XLSXContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if err := importer.WriteInvoicesXLSX(w, invoices); err != nil {
		a.logger.Error("invoice export failed", "error", err)
	}
}
