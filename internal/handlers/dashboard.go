package handlers

import (
	"net/http"

	"github.com/luminabooks/bookadmin/internal/controller"
	"github.com/luminabooks/bookadmin/internal/dashboard"
)

func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	st := h.controller.State()
	if !st.Authenticated {
		h.writeFailure(w, controller.ErrNotAuthenticated, nil)
		return
	}
	h.writeJSON(w, dashboard.Build(st.Orders))
}

func (h *Handler) HandleOrders(w http.ResponseWriter, r *http.Request) {
	st := h.controller.State()
	if !st.Authenticated {
		h.writeFailure(w, controller.ErrNotAuthenticated, nil)
		return
	}
	h.writeJSON(w, st.Orders)
}
