package handlers

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/luminabooks/bookadmin/internal/form"
	"github.com/luminabooks/bookadmin/internal/models"
)

// requireCatalogKey admits requests carrying the configured bearer key
func (h *Handler) requireCatalogKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.catalogKey == "" {
			h.writeError(w, "Catalog API is disabled: no API key configured", http.StatusUnauthorized)
			return
		}
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(h.catalogKey)) != 1 {
			w.Header().Set("WWW-Authenticate", `Bearer realm="catalog"`)
			h.writeError(w, "Invalid or missing catalog API key", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) HandleCatalogBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.store.FetchBooks(r.Context())
	if err != nil {
		h.writeFailure(w, err, nil)
		return
	}
	h.writeJSON(w, books)
}

func (h *Handler) HandleCatalogOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.store.FetchOrders(r.Context())
	if err != nil {
		h.writeFailure(w, err, nil)
		return
	}
	h.writeJSON(w, orders)
}

func (h *Handler) HandleCatalogCreate(w http.ResponseWriter, r *http.Request) {
	var book models.Book
	if err := decodeJSON(r, &book); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if book.CoverURL == "" {
		book.CoverURL = models.DefaultCoverURL()
	}
	if err := form.Validate(book); err != nil {
		h.writeFailure(w, err, nil)
		return
	}
	saved, err := h.store.CreateBook(r.Context(), book)
	if err != nil {
		h.writeFailure(w, err, nil)
		return
	}
	h.writeStatus(w, http.StatusCreated, saved)
}

func (h *Handler) HandleCatalogUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var book models.Book
	if err := decodeJSON(r, &book); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if book.ID == "" {
		book.ID = id
	}
	if book.ID != id {
		h.writeError(w, fmt.Sprintf("Book id %q does not match path %q", book.ID, id), http.StatusBadRequest)
		return
	}
	if book.CoverURL == "" {
		book.CoverURL = models.DefaultCoverURL()
	}
	if err := form.Validate(book); err != nil {
		h.writeFailure(w, err, nil)
		return
	}
	saved, err := h.store.UpdateBook(r.Context(), book)
	if err != nil {
		h.writeFailure(w, err, nil)
		return
	}
	h.writeJSON(w, saved)
}
