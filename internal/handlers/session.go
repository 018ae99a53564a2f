package handlers

import (
	"net/http"

	"github.com/luminabooks/bookadmin/internal/auth"
	"github.com/luminabooks/bookadmin/internal/controller"
	"github.com/luminabooks/bookadmin/internal/models"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type viewRequest struct {
	View string `json:"view"`
}

// stateResponse is a state snapshot plus the screen it resolves to
type stateResponse struct {
	controller.State
	Screen controller.Screen `json:"screen"`
}

func (h *Handler) respondState(w http.ResponseWriter, st controller.State, err error) {
	if err != nil {
		h.writeFailure(w, err, &st)
		return
	}
	h.writeJSON(w, stateResponse{State: st, Screen: st.Screen()})
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	st, err := h.controller.Login(r.Context(), auth.Credentials{Email: req.Email, Password: req.Password})
	h.respondState(w, st, err)
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	st, err := h.controller.Logout()
	h.respondState(w, st, err)
}

// HandleReload retries the initial load after a failure
func (h *Handler) HandleReload(w http.ResponseWriter, r *http.Request) {
	st, err := h.controller.LoadInitialData(r.Context())
	h.respondState(w, st, err)
}

func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	h.respondState(w, h.controller.State(), nil)
}

func (h *Handler) HandleNavigate(w http.ResponseWriter, r *http.Request) {
	var req viewRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	st, err := h.controller.Navigate(models.View(req.View))
	h.respondState(w, st, err)
}

func (h *Handler) HandleToggleTheme(w http.ResponseWriter, r *http.Request) {
	st, err := h.controller.ToggleTheme()
	h.respondState(w, st, err)
}
