// Package form models the book create/edit form.
package form

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/luminabooks/bookadmin/internal/models"
)

// ErrTitleAuthorRequired is returned when description generation is requested
// before the title and author are filled in
var ErrTitleAuthorRequired = errors.New("Please enter Title and Author first.")

// Describer produces display text for a book. It never fails.
type Describer interface {
	Generate(ctx context.Context, title, author, category string) string
}

// Form holds the editable fields of one book. A Form is owned by a single
// surface and is not safe for concurrent use.
type Form struct {
	initial *models.Book
	editing bool

	Title       string
	Author      string
	Price       float64
	Stock       int
	Category    models.Category
	Description string

	// Generating is set while a description request is in flight.
	Generating bool
}

// New returns a form prefilled from initial, or an empty create form when
// initial is nil.
func New(initial *models.Book) *Form {
	f := &Form{Category: models.CategoryFiction}
	if initial == nil {
		return f
	}
	b := *initial
	f.initial = &b
	f.editing = b.ID != ""
	f.Title = b.Title
	f.Author = b.Author
	f.Price = b.Price
	f.Stock = b.Stock
	if b.Category != "" {
		f.Category = b.Category
	}
	f.Description = b.Description
	return f
}

// Resume rebuilds a form from the draft of a failed save. editing is the
// book being edited, or nil when the draft was a new book.
func Resume(editing *models.Book, draft models.Book) *Form {
	f := New(&draft)
	f.editing = editing != nil
	return f
}

// Editing reports whether the form edits an existing book
func (f *Form) Editing() bool {
	return f.editing
}

// Heading is the form title shown to the user
func (f *Form) Heading() string {
	if f.Editing() {
		return "Edit Book"
	}
	return "Add New Book"
}

// Book builds the record to submit. Edits keep the prior identity and cover;
// new books get a fresh identity and a default cover.
func (f *Form) Book() models.Book {
	b := models.Book{
		Title:       strings.TrimSpace(f.Title),
		Author:      strings.TrimSpace(f.Author),
		Price:       f.Price,
		Stock:       f.Stock,
		Category:    f.Category,
		Description: f.Description,
	}
	if f.initial != nil {
		b.ID = f.initial.ID
		b.CoverURL = f.initial.CoverURL
	}
	if b.ID == "" {
		b.ID = models.NewBookID()
	}
	if b.CoverURL == "" {
		b.CoverURL = models.DefaultCoverURL()
	}
	return b
}

// Validate checks the current field values
func (f *Form) Validate() error {
	b := f.Book()
	return Validate(b)
}

// GenerateDescription fills Description from d. Title and author must be set.
func (f *Form) GenerateDescription(ctx context.Context, d Describer) error {
	if strings.TrimSpace(f.Title) == "" || strings.TrimSpace(f.Author) == "" {
		return ErrTitleAuthorRequired
	}
	f.Generating = true
	defer func() { f.Generating = false }()

	f.Description = d.Generate(ctx, f.Title, f.Author, string(f.Category))
	return nil
}

// FieldError describes one invalid field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors lists every invalid field of a book
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fmt.Sprintf("%s %s", fe.Field, fe.Message))
	}
	return "invalid book: " + strings.Join(parts, "; ")
}

// Validate checks a book record against the inventory rules
func Validate(b models.Book) error {
	var errs ValidationErrors
	if strings.TrimSpace(b.Title) == "" {
		errs = append(errs, FieldError{Field: "title", Message: "is required"})
	}
	if strings.TrimSpace(b.Author) == "" {
		errs = append(errs, FieldError{Field: "author", Message: "is required"})
	}
	switch {
	case math.IsNaN(b.Price) || math.IsInf(b.Price, 0):
		errs = append(errs, FieldError{Field: "price", Message: "must be a finite number"})
	case b.Price < 0:
		errs = append(errs, FieldError{Field: "price", Message: "must not be negative"})
	}
	if b.Stock < 0 {
		errs = append(errs, FieldError{Field: "stock", Message: "must not be negative"})
	}
	if !b.Category.Valid() {
		errs = append(errs, FieldError{Field: "category", Message: fmt.Sprintf("%q is not a known category", b.Category)})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
