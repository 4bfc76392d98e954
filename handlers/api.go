// Package handlers exposes the JSON HTTP API.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/satheeshds/invoicing/audit"
	"github.com/satheeshds/invoicing/delivery"
	"github.com/satheeshds/invoicing/invoicing"
	"github.com/satheeshds/invoicing/mail"
	"github.com/satheeshds/invoicing/store"
)

// API holds the dependencies shared by all handlers.
type API struct {
	store    *store.Store
	audit    *audit.Log
	delivery *delivery.Service
	logger   *slog.Logger
}

func NewAPI(s *store.Store, log *audit.Log, d *delivery.Service, logger *slog.Logger) *API {
	if logger == nil {
		logger = slog.Default()
	}
	return &API{store: s, audit: log, delivery: d, logger: logger}
}

// Routes mounts every endpoint on r. r is expected to be the /api/v1 sub-router.
func (a *API) Routes(r chi.Router) {
	// Companies
	r.Get("/companies", a.ListCompanies)
	r.Post("/companies", a.CreateCompany)
	r.Get("/companies/{id}", a.GetCompany)
	r.Put("/companies/{id}", a.UpdateCompany)
	r.Delete("/companies/{id}", a.DeleteCompany)
	r.Post("/companies/{id}/default", a.SetDefaultCompany)

	// Customers
	r.Get("/customers", a.ListCustomers)
	r.Post("/customers", a.CreateCustomer)
	r.Post("/customers/import", a.ImportCustomers)
	r.Get("/customers/{id}", a.GetCustomer)
	r.Put("/customers/{id}", a.UpdateCustomer)
	r.Delete("/customers/{id}", a.DeleteCustomer)

	// Products
	r.Get("/products", a.ListProducts)
	r.Post("/products", a.CreateProduct)
	r.Post("/products/import", a.ImportProducts)
	r.Get("/products/{id}", a.GetProduct)
	r.Put("/products/{id}", a.UpdateProduct)
	r.Delete("/products/{id}", a.DeleteProduct)

	// Invoices
	r.Get("/invoices", a.ListInvoices)
	r.Post("/invoices", a.CreateInvoice)
	r.Get("/invoices/export", a.ExportInvoices)
	r.Get("/invoices/{id}", a.GetInvoice)
	r.Put("/invoices/{id}", a.UpdateInvoice)
	r.Delete("/invoices/{id}", a.DeleteInvoice)
	r.Post("/invoices/{id}/status", a.ChangeInvoiceStatus)
	r.Post("/invoices/{id}/void", a.VoidInvoice)
	r.Post("/invoices/{id}/duplicate", a.DuplicateInvoice)
	r.Get("/invoices/{id}/audit", a.GetInvoiceAudit)
	r.Get("/invoices/{id}/document", a.GetInvoiceDocument)
	r.Post("/invoices/{id}/email", a.EmailInvoice)

	r.Post("/calculate", a.Calculate)
	r.Get("/vocabulary", a.GetVocabulary)

	// Creators
	r.Get("/creators", a.ListCreators)
	r.Post("/creators", a.CreateCreator)
	r.Get("/creators/{id}", a.GetCreator)
	r.Put("/creators/{id}", a.UpdateCreator)
	r.Delete("/creators/{id}", a.DeleteCreator)

	// Merchants
	r.Get("/merchants", a.ListMerchants)
	r.Post("/merchants", a.CreateMerchant)
	r.Get("/merchants/{id}", a.GetMerchant)
	r.Put("/merchants/{id}", a.UpdateMerchant)
	r.Delete("/merchants/{id}", a.DeleteMerchant)

	// Settlements
	r.Get("/settlements", a.ListSettlements)
	r.Post("/settlements", a.CreateSettlement)
	r.Get("/settlements/{id}", a.GetSettlement)
	r.Put("/settlements/{id}", a.UpdateSettlement)
	r.Delete("/settlements/{id}", a.DeleteSettlement)

	// Dashboard
	r.Get("/dashboard", a.GetDashboard)
}

// fail maps a domain or storage error onto a status code. Unexpected errors are logged
// and reported without detail.
func (a *API) fail(w http.ResponseWriter, r *http.Request, entity string, err error) {
	var (
		verr *invoicing.ValidationError
		serr *invoicing.StateError
		rerr *delivery.RecipientError
		merr *delivery.SendError
	)
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, invoicing.ErrCompanyLimit):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &serr):
		writeError(w, http.StatusConflict, serr.Error())
	case store.IsNotFound(err):
		writeError(w, http.StatusNotFound, entity+" not found")
	case errors.As(err, &rerr):
		writeError(w, http.StatusBadRequest, rerr.Error())
	case errors.Is(err, mail.ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, mail.ErrNotConfigured.Error())
	case errors.As(err, &merr):
		a.logger.Error("email delivery failed", "invoice_id", merr.InvoiceID, "error", merr.Err)
		writeError(w, http.StatusBadGateway, "failed to send email")
	default:
		a.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// writeDeleted is the response body of a successful delete.
func writeDeleted(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}
