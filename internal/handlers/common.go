package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/luminabooks/bookadmin/internal/auth"
	"github.com/luminabooks/bookadmin/internal/controller"
	"github.com/luminabooks/bookadmin/internal/form"
	"github.com/luminabooks/bookadmin/internal/storage"
)

// Handler serves the session API driven by the controller and the catalog
// API backed directly by the store.
type Handler struct {
	controller *controller.Controller
	store      storage.Catalog
	describer  form.Describer
	staticDir  string
	catalogKey string
}

// Option configures a Handler
type Option func(*Handler)

// WithCatalogKey sets the bearer key the catalog API requires. Without one
// the catalog API rejects every request.
func WithCatalogKey(key string) Option {
	return func(h *Handler) {
		h.catalogKey = key
	}
}

// New wires a Handler. staticDir may be empty to disable static files.
func New(c *controller.Controller, store storage.Catalog, describer form.Describer, staticDir string, opts ...Option) *Handler {
	h := &Handler{
		controller: c,
		store:      store,
		describer:  describer,
		staticDir:  staticDir,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type errorResponse struct {
	Error  string                `json:"error"`
	Fields form.ValidationErrors `json:"fields,omitempty"`
	State  *controller.State     `json:"state,omitempty"`
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data any) {
	h.writeStatus(w, http.StatusOK, data)
}

func (h *Handler) writeStatus(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	if code >= http.StatusInternalServerError {
		slog.Error(message)
	} else {
		slog.Debug(message, "status", code)
	}
	h.writeStatus(w, code, errorResponse{Error: message})
}

// writeFailure maps err to a status and includes the session state the
// operation left behind, when there is one.
func (h *Handler) writeFailure(w http.ResponseWriter, err error, st *controller.State) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		slog.Error("Request failed", "status", code, "err", err)
	}
	resp := errorResponse{Error: err.Error(), State: st}
	var verrs form.ValidationErrors
	if errors.As(err, &verrs) {
		resp.Fields = verrs
	}
	h.writeStatus(w, code, resp)
}

func statusFor(err error) int {
	var verrs form.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return http.StatusUnprocessableEntity
	case errors.Is(err, controller.ErrNotAuthenticated),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrMissingCredentials),
		errors.Is(err, controller.ErrFormNotOpen),
		errors.Is(err, controller.ErrUnknownView),
		errors.Is(err, controller.ErrMissingID),
		errors.Is(err, controller.ErrIdentityChanged),
		errors.Is(err, form.ErrTitleAuthorRequired):
		return http.StatusBadRequest
	case errors.Is(err, controller.ErrBusy),
		errors.Is(err, controller.ErrSessionChanged),
		errors.Is(err, storage.ErrBookExists):
		return http.StatusConflict
	case errors.Is(err, storage.ErrBookNotFound):
		return http.StatusNotFound
	case errors.Is(err, controller.ErrLoadFailed),
		errors.Is(err, controller.ErrSaveFailed):
		return http.StatusBadGateway
	case errors.Is(err, controller.ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
