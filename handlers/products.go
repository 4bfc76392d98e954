package handlers

import (
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/satheeshds/invoicing/importer"
	"github.com/satheeshds/invoicing/models"
)

const maxUploadSize = 10 << 20

// ListProducts lists all products
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        category  query     string  false  "Filter by category"
// @Param        search    query     string  false  "Search by name"
// @Success      200       {object}  Response{data=[]models.Product}
// @Router       /products [get]
// @Security     BasicAuth
func (a *API) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	products, err := a.store.ListProducts(r.Context(), q.Get("category"), q.Get("search"))
	if err != nil {
		a.fail(w, r, "product", err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// GetProduct retrieves a single product by ID
// @Summary      Get product
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  Response{data=models.Product}
// @Failure      404  {object}  Response{error=string}
// @Router       /products/{id} [get]
// @Security     BasicAuth
func (a *API) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := a.store.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, "product", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// CreateProduct creates a new product
// @Summary      Create product
// @Description  Create a product template. The tax rate must be one of 0, 0.01, 0.03, 0.06, 0.09, 0.13.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        product  body      models.ProductInput  true  "Product contents"
// @Success      201      {object}  Response{data=models.Product}
// @Failure      400      {object}  Response{error=string}
// @Router       /products [post]
// @Security     BasicAuth
func (a *API) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var input models.ProductInput
	if !decodeJSON(w, r, &input) {
		return
	}
	p, err := a.store.CreateProduct(r.Context(), input)
	if err != nil {
		a.fail(w, r, "product", err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// UpdateProduct updates an existing product
// @Summary      Update product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Product ID"
// @Param        product  body      models.ProductPatch  true  "Fields to change"
// @Success      200      {object}  Response{data=models.Product}
// @Failure      400      {object}  Response{error=string}
// @Failure      404      {object}  Response{error=string}
// @Router       /products/{id} [put]
// @Security     BasicAuth
func (a *API) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var patch models.ProductPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	p, err := a.store.UpdateProduct(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		a.fail(w, r, "product", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeleteProduct deletes a product
// @Summary      Delete product
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /products/{id} [delete]
// @Security     BasicAuth
func (a *API) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := a.store.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, "product", err)
		return
	}
	writeDeleted(w)
}

// ImportProducts bulk-creates products from a sheet
// @Summary      Import products
// @Description  Upload a .csv or .xlsx file. Headers may be English or Chinese (名称, 单价, 税率...).
// @Tags         products
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Product sheet"
// @Success      201   {object}  Response{data=map[string]int}
// @Failure      400   {object}  Response{error=string}
// @Router       /products/import [post]
// @Security     BasicAuth
func (a *API) ImportProducts(w http.ResponseWriter, r *http.Request) {
	file, format, ok := uploadedSheet(w, r)
	if !ok {
		return
	}
	defer file.Close()

	inputs, err := importer.ParseProducts(file, format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	n, err := a.store.BulkCreateProducts(r.Context(), inputs)
	if err != nil {
		a.fail(w, r, "product", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"imported": n})
}

// uploadedSheet returns the "file" part of a multipart upload and its format.
func uploadedSheet(w http.ResponseWriter, r *http.Request) (multipart.File, importer.Format, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return nil, "", false
	}
	format, err := importer.FormatFromName(header.Filename)
	if err != nil {
		file.Close()
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, "", false
	}
	return file, format, true
}
