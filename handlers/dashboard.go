package handlers

import (
	"net/http"
)

// GetDashboard retrieves dashboard summary statistics
// @Summary      Get dashboard
// @Description  Get totals for companies, customers, products, invoices and settlements, plus the five most recent invoices.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  Response{data=store.Dashboard}
// @Router       /dashboard [get]
// @Security     BasicAuth
func (a *API) GetDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := a.store.Dashboard(r.Context())
	if err != nil {
		a.fail(w, r, "dashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
