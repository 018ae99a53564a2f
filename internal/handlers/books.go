package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/luminabooks/bookadmin/internal/controller"
	"github.com/luminabooks/bookadmin/internal/form"
	"github.com/luminabooks/bookadmin/internal/models"
)

type describeRequest struct {
	Title    string          `json:"title"`
	Author   string          `json:"author"`
	Category models.Category `json:"category"`
}

type describeResponse struct {
	Description string `json:"description"`
}

func (h *Handler) HandleBeginAdd(w http.ResponseWriter, r *http.Request) {
	st, err := h.controller.BeginAddBook()
	h.respondState(w, st, err)
}

// HandleBeginEdit opens the form on a loaded book
func (h *Handler) HandleBeginEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	current := h.controller.State()
	if !current.Authenticated {
		h.writeFailure(w, controller.ErrNotAuthenticated, &current)
		return
	}
	book, ok := current.Book(id)
	if !ok {
		h.writeError(w, "Book not found: "+id, http.StatusNotFound)
		return
	}
	st, err := h.controller.BeginEditBook(book)
	h.respondState(w, st, err)
}

// HandleDeleteBook answers the inventory's delete control. Deleting is not
// part of the catalog contract.
func (h *Handler) HandleDeleteBook(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, "Deleting books is not supported", http.StatusNotImplemented)
}

func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	var book models.Book
	if err := decodeJSON(r, &book); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	st, err := h.controller.SaveBook(r.Context(), book)
	h.respondState(w, st, err)
}

func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	st, err := h.controller.CancelForm()
	h.respondState(w, st, err)
}

// HandleDescribe generates marketing copy for the form's current fields. The
// session state is not touched.
func (h *Handler) HandleDescribe(w http.ResponseWriter, r *http.Request) {
	if st := h.controller.State(); !st.Authenticated {
		h.writeFailure(w, controller.ErrNotAuthenticated, nil)
		return
	}

	var req describeRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	f := form.New(nil)
	f.Title = req.Title
	f.Author = req.Author
	if req.Category != "" {
		f.Category = req.Category
	}
	if err := f.GenerateDescription(r.Context(), h.describer); err != nil {
		h.writeFailure(w, err, nil)
		return
	}
	h.writeJSON(w, describeResponse{Description: f.Description})
}
