package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/satheeshds/invoicing/importer"
	"github.com/satheeshds/invoicing/models"
)

// ListCustomers lists all customers
// @Summary      List customers
// @Description  Get all customers ordered by name.
// @Tags         customers
// @Produce      json
// @Param        search  query     string  false  "Search by name, contact person or tax ID"
// @Success      200     {object}  Response{data=[]models.Customer}
// @Router       /customers [get]
// @Security     BasicAuth
func (a *API) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := a.store.ListCustomers(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		a.fail(w, r, "customer", err)
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

// GetCustomer retrieves a single customer by ID
// @Summary      Get customer
// @Tags         customers
// @Produce      json
// @Param        id   path      string  true  "Customer ID"
// @Success      200  {object}  Response{data=models.Customer}
// @Failure      404  {object}  Response{error=string}
// @Router       /customers/{id} [get]
// @Security     BasicAuth
func (a *API) GetCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := a.store.GetCustomer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, "customer", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// CreateCustomer creates a new customer
// @Summary      Create customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        customer  body      models.CustomerInput  true  "Customer contents"
// @Success      201       {object}  Response{data=models.Customer}
// @Failure      400       {object}  Response{error=string}
// @Router       /customers [post]
// @Security     BasicAuth
func (a *API) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var input models.CustomerInput
	if !decodeJSON(w, r, &input) {
		return
	}
	c, err := a.store.CreateCustomer(r.Context(), input)
	if err != nil {
		a.fail(w, r, "customer", err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// UpdateCustomer updates an existing customer
// @Summary      Update customer
// @Description  Partially update a customer. Omitted fields are left unchanged.
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id        path      string                true  "Customer ID"
// @Param        customer  body      models.CustomerPatch  true  "Fields to change"
// @Success      200       {object}  Response{data=models.Customer}
// @Failure      400       {object}  Response{error=string}
// @Failure      404       {object}  Response{error=string}
// @Router       /customers/{id} [put]
// @Security     BasicAuth
func (a *API) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var patch models.CustomerPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	c, err := a.store.UpdateCustomer(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		a.fail(w, r, "customer", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteCustomer deletes a customer
// @Summary      Delete customer
// @Description  Remove a customer. Existing invoices keep the reference and render a blank buyer.
// @Tags         customers
// @Produce      json
// @Param        id   path      string  true  "Customer ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /customers/{id} [delete]
// @Security     BasicAuth
func (a *API) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := a.store.DeleteCustomer(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, "customer", err)
		return
	}
	writeDeleted(w)
}

// ImportCustomers bulk-creates customers from a sheet
// @Summary      Import customers
// @Description  Upload a .csv or .xlsx file. Headers may be English or Chinese (名称, 税号, 邮箱...).
// @Tags         customers
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Customer sheet"
// @Success      201   {object}  Response{data=map[string]int}
// @Failure      400   {object}  Response{error=string}
// @Router       /customers/import [post]
// @Security     BasicAuth
func (a *API) ImportCustomers(w http.ResponseWriter, r *http.Request) {
	file, format, ok := uploadedSheet(w, r)
	if !ok {
		return
	}
	defer file.Close()

	inputs, err := importer.ParseCustomers(file, format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	n, err := a.store.BulkCreateCustomers(r.Context(), inputs)
	if err != nil {
		a.fail(w, r, "customer", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"imported": n})
}
