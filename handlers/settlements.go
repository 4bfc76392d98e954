package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/satheeshds/invoicing/models"
	"github.com/satheeshds/invoicing/store"
)

// ListSettlements lists settlements
// @Summary      List settlements
// @Description  Get settlements, latest settlement date first.
// @Tags         settlements
// @Produce      json
// @Param        creator_id   query     string  false  "Filter by creator"
// @Param        merchant_id  query     string  false  "Filter by merchant"
// @Param        status       query     string  false  "Filter by status (pending, settled)"
// @Param        from         query     string  false  "Settled on or after (YYYY-MM-DD)"
// @Param        to           query     string  false  "Settled on or before (YYYY-MM-DD)"
// @Success      200          {object}  Response{data=[]models.Settlement}
// @Router       /settlements [get]
// @Security     BasicAuth
func (a *API) ListSettlements(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	settlements, err := a.store.ListSettlements(r.Context(), store.SettlementFilter{
		CreatorID:  q.Get("creator_id"),
		MerchantID: q.Get("merchant_id"),
		Status:     q.Get("status"),
		From:       q.Get("from"),
		To:         q.Get("to"),
	})
	if err != nil {
		a.fail(w, r, "settlement", err)
		return
	}
	writeJSON(w, http.StatusOK, settlements)
}

// GetSettlement retrieves a single settlement
// @Summary      Get settlement
// @Tags         settlements
// @Produce      json
// @Param        id   path      string  true  "Settlement ID"
// @Success      200  {object}  Response{data=models.Settlement}
// @Failure      404  {object}  Response{error=string}
// @Router       /settlements/{id} [get]
// @Security     BasicAuth
func (a *API) GetSettlement(w http.ResponseWriter, r *http.Request) {
	st, err := a.store.GetSettlement(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, "settlement", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// CreateSettlement records a settlement
// @Summary      Create settlement
// @Description  The net amount is derived as gross minus commission.
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        settlement  body      models.SettlementInput  true  "Settlement contents"
// @Success      201         {object}  Response{data=models.Settlement}
// @Failure      400         {object}  Response{error=string}
// @Router       /settlements [post]
// @Security     BasicAuth
func (a *API) CreateSettlement(w http.ResponseWriter, r *http.Request) {
	var input models.SettlementInput
	if !decodeJSON(w, r, &input) {
		return
	}
	st, err := a.store.CreateSettlement(r.Context(), input)
	if err != nil {
		a.fail(w, r, "settlement", err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

// UpdateSettlement updates a settlement
// @Summary      Update settlement
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        id          path      string                  true  "Settlement ID"
// @Param        settlement  body      models.SettlementInput  true  "Settlement contents"
// @Success      200         {object}  Response{data=models.Settlement}
// @Failure      400         {object}  Response{error=string}
// @Failure      404         {object}  Response{error=string}
// @Router       /settlements/{id} [put]
// @Security     BasicAuth
func (a *API) UpdateSettlement(w http.ResponseWriter, r *http.Request) {
	var input models.SettlementInput
	if !decodeJSON(w, r, &input) {
		return
	}
	st, err := a.store.UpdateSettlement(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		a.fail(w, r, "settlement", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// DeleteSettlement deletes a settlement
// @Summary      Delete settlement
// @Tags         settlements
// @Produce      json
// @Param        id   path      string  true  "Settlement ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /settlements/{id} [delete]
// @Security     BasicAuth
func (a *API) DeleteSettlement(w http.ResponseWriter, r *http.Request) {
	if err := a.store.DeleteSettlement(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, "settlement", err)
		return
	}
	writeDeleted(w)
}
