package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/satheeshds/invoicing/models"
)

func includeDeleted(r *http.Request) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get("include_deleted"))
	return v
}

// ListCreators lists creators
// @Summary      List creators
// @Tags         creators
// @Produce      json
// @Param        search           query     string  false  "Search by name, email or platform"
// @Param        include_deleted  query     bool    false  "Include soft-deleted creators"
// @Success      200              {object}  Response{data=[]models.Creator}
// @Router       /creators [get]
// @Security     BasicAuth
func (a *API) ListCreators(w http.ResponseWriter, r *http.Request) {
	creators, err := a.store.ListCreators(r.Context(), r.URL.Query().Get("search"), includeDeleted(r))
	if err != nil {
		a.fail(w, r, "creator", err)
		return
	}
	writeJSON(w, http.StatusOK, creators)
}

// GetCreator retrieves a single creator
// @Summary      Get creator
// @Tags         creators
// @Produce      json
// @Param        id   path      string  true  "Creator ID"
// @Success      200  {object}  Response{data=models.Creator}
// @Failure      404  {object}  Response{error=string}
// @Router       /creators/{id} [get]
// @Security     BasicAuth
func (a *API) GetCreator(w http.ResponseWriter, r *http.Request) {
	c, err := a.store.GetCreator(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, "creator", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// CreateCreator creates a creator
// @Summary      Create creator
// @Tags         creators
// @Accept       json
// @Produce      json
// @Param        creator  body      models.CreatorInput  true  "Creator contents"
// @Success      201      {object}  Response{data=models.Creator}
// @Failure      400      {object}  Response{error=string}
// @Router       /creators [post]
// @Security     BasicAuth
func (a *API) CreateCreator(w http.ResponseWriter, r *http.Request) {
	var input models.CreatorInput
	if !decodeJSON(w, r, &input) {
		return
	}
	c, err := a.store.CreateCreator(r.Context(), input)
	if err != nil {
		a.fail(w, r, "creator", err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// UpdateCreator updates a creator
// @Summary      Update creator
// @Tags         creators
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Creator ID"
// @Param        creator  body      models.CreatorInput  true  "Creator contents"
// @Success      200      {object}  Response{data=models.Creator}
// @Failure      400      {object}  Response{error=string}
// @Failure      404      {object}  Response{error=string}
// @Router       /creators/{id} [put]
// @Security     BasicAuth
func (a *API) UpdateCreator(w http.ResponseWriter, r *http.Request) {
	var input models.CreatorInput
	if !decodeJSON(w, r, &input) {
		return
	}
	c, err := a.store.UpdateCreator(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		a.fail(w, r, "creator", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteCreator soft-deletes a creator
// @Summary      Delete creator
// @Tags         creators
// @Produce      json
// @Param        id   path      string  true  "Creator ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /creators/{id} [delete]
// @Security     BasicAuth
func (a *API) DeleteCreator(w http.ResponseWriter, r *http.Request) {
	if err := a.store.DeleteCreator(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, "creator", err)
		return
	}
	writeDeleted(w)
}

// ListMerchants lists merchants
// @Summary      List merchants
// @Tags         merchants
// @Produce      json
// @Param        search           query     string  false  "Search by name, email or category"
// @Param        include_deleted  query     bool    false  "Include soft-deleted merchants"
// @Success      200              {object}  Response{data=[]models.Merchant}
// @Router       /merchants [get]
// @Security     BasicAuth
func (a *API) ListMerchants(w http.ResponseWriter, r *http.Request) {
	merchants, err := a.store.ListMerchants(r.Context(), r.URL.Query().Get("search"), includeDeleted(r))
	if err != nil {
		a.fail(w, r, "merchant", err)
		return
	}
	writeJSON(w, http.StatusOK, merchants)
}

// GetMerchant retrieves a single merchant
// @Summary      Get merchant
// @Tags         merchants
// @Produce      json
// @Param        id   path      string  true  "Merchant ID"
// @Success      200  {object}  Response{data=models.Merchant}
// @Failure      404  {object}  Response{error=string}
// @Router       /merchants/{id} [get]
// @Security     BasicAuth
func (a *API) GetMerchant(w http.ResponseWriter, r *http.Request) {
	m, err := a.store.GetMerchant(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, "merchant", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// CreateMerchant creates a merchant
// @Summary      Create merchant
// @Tags         merchants
// @Accept       json
// @Produce      json
// @Param        merchant  body      models.MerchantInput  true  "Merchant contents"
// @Success      201       {object}  Response{data=models.Merchant}
// @Failure      400       {object}  Response{error=string}
// @Router       /merchants [post]
// @Security     BasicAuth
func (a *API) CreateMerchant(w http.ResponseWriter, r *http.Request) {
	var input models.MerchantInput
	if !decodeJSON(w, r, &input) {
		return
	}
	m, err := a.store.CreateMerchant(r.Context(), input)
	if err != nil {
		a.fail(w, r, "merchant", err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// UpdateMerchant updates a merchant
// @Summary      Update merchant
// @Tags         merchants
// @Accept       json
// @Produce      json
// @Param        id        path      string                true  "Merchant ID"
// @Param        merchant  body      models.MerchantInput  true  "Merchant contents"
// @Success      200       {object}  Response{data=models.Merchant}
// @Failure      400       {object}  Response{error=string}
// @Failure      404       {object}  Response{error=string}
// @Router       /merchants/{id} [put]
// @Security     BasicAuth
func (a *API) UpdateMerchant(w http.ResponseWriter, r *http.Request) {
	var input models.MerchantInput
	if !decodeJSON(w, r, &input) {
		return
	}
	m, err := a.store.UpdateMerchant(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		a.fail(w, r, "merchant", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// DeleteMerchant soft-deletes a merchant
// @Summary      Delete merchant
// @Tags         merchants
// @Produce      json
// @Param        id   path      string  true  "Merchant ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /merchants/{id} [delete]
// @Security     BasicAuth
func (a *API) DeleteMerchant(w http.ResponseWriter, r *http.Request) {
	if err := a.store.DeleteMerchant(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, "merchant", err)
		return
	}
	writeDeleted(w)
}
