package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/satheeshds/invoicing/models"
)

// ListCompanies lists all billing companies
// @Summary      List companies
// @Description  Get all billing companies in creation order. At most three exist.
// @Tags         companies
// @Produce      json
// @Success      200  {object}  Response{data=[]models.Company}
// @Router       /companies [get]
// @Security     BasicAuth
func (a *API) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := a.store.ListCompanies(r.Context())
	if err != nil {
		a.fail(w, r, "company", err)
		return
	}
	writeJSON(w, http.StatusOK, companies)
}

// GetCompany retrieves a single company by ID
// @Summary      Get company
// @Tags         companies
// @Produce      json
// @Param        id   path      string  true  "Company ID"
// @Success      200  {object}  Response{data=models.Company}
// @Failure      404  {object}  Response{error=string}
// @Router       /companies/{id} [get]
// @Security     BasicAuth
func (a *API) GetCompany(w http.ResponseWriter, r *http.Request) {
	c, err := a.store.GetCompany(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, "company", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// CreateCompany creates a new company
// @Summary      Create company
// @Description  Create a billing company. The first company becomes the default.
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        company  body      models.CompanyInput  true  "Company contents"
// @Success      201      {object}  Response{data=models.Company}
// @Failure      400      {object}  Response{error=string}
// @Failure      409      {object}  Response{error=string}
// @Router       /companies [post]
// @Security     BasicAuth
func (a *API) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var input models.CompanyInput
	if !decodeJSON(w, r, &input) {
		return
	}
	c, err := a.store.CreateCompany(r.Context(), input)
	if err != nil {
		a.fail(w, r, "company", err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// UpdateCompany updates an existing company
// @Summary      Update company
// @Description  Partially update a company. Omitted fields are left unchanged.
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Company ID"
// @Param        company  body      models.CompanyPatch  true  "Fields to change"
// @Success      200      {object}  Response{data=models.Company}
// @Failure      400      {object}  Response{error=string}
// @Failure      404      {object}  Response{error=string}
// @Router       /companies/{id} [put]
// @Security     BasicAuth
func (a *API) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	var patch models.CompanyPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	c, err := a.store.UpdateCompany(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		a.fail(w, r, "company", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteCompany deletes a company
// @Summary      Delete company
// @Description  Remove a company. If it was the default, the oldest remaining company becomes default.
// @Tags         companies
// @Produce      json
// @Param        id   path      string  true  "Company ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /companies/{id} [delete]
// @Security     BasicAuth
func (a *API) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	if err := a.store.DeleteCompany(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, "company", err)
		return
	}
	writeDeleted(w)
}

// SetDefaultCompany makes a company the default
// @Summary      Set default company
// @Tags         companies
// @Produce      json
// @Param        id   path      string  true  "Company ID"
// @Success      200  {object}  Response{data=models.Company}
// @Failure      404  {object}  Response{error=string}
// @Router       /companies/{id}/default [post]
// @Security     BasicAuth
func (a *API) SetDefaultCompany(w http.ResponseWriter, r *http.Request) {
	c, err := a.store.SetDefault(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, "company", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
