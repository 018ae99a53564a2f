package controller

import (
	"github.com/luminabooks/bookadmin/internal/models"
)

// Account is the read-only administrator identity shown on the settings screen
type Account struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// State is an immutable snapshot of the session. Snapshots are deep copies;
// changing one never affects the controller.
type State struct {
	Authenticated bool           `json:"isAuthenticated"`
	ActiveView    models.View    `json:"activeView"`
	EditingBook   *models.Book   `json:"editingBook"`
	Loading       bool           `json:"loading"`
	DarkMode      bool           `json:"darkMode"`
	Books         []models.Book  `json:"books"`
	Orders        []models.Order `json:"orders"`

	// LoadError is set when the last initial load failed.
	LoadError string `json:"loadError,omitempty"`
	// FormError and Draft describe the last failed save: the message to show
	// and the record the user attempted, so the form keeps their edits.
	FormError string       `json:"formError,omitempty"`
	Draft     *models.Book `json:"draft,omitempty"`

	Account Account `json:"account"`
}

// Screen is what the presentation layer must render for a state
type Screen string

const (
	ScreenLogin      Screen = "login"
	ScreenLoading    Screen = "loading"
	ScreenLoadFailed Screen = "load-failed"
	ScreenDashboard  Screen = "dashboard"
	ScreenBooks      Screen = "books"
	ScreenAddBook    Screen = "add-book"
	ScreenOrders     Screen = "orders"
	ScreenSettings   Screen = "settings"
)

// Screen resolves the state to exactly one screen. Loading blocks every
// data view.
func (s State) Screen() Screen {
	if !s.Authenticated {
		return ScreenLogin
	}
	if s.Loading {
		return ScreenLoading
	}
	if s.LoadError != "" {
		return ScreenLoadFailed
	}
	switch s.ActiveView {
	case models.ViewDashboard:
		return ScreenDashboard
	case models.ViewBooks:
		return ScreenBooks
	case models.ViewAddBook:
		return ScreenAddBook
	case models.ViewOrders:
		return ScreenOrders
	case models.ViewSettings:
		return ScreenSettings
	default:
		return ScreenDashboard
	}
}

// FormBook is the record the book form should be prefilled from: the draft of
// a failed save when present, otherwise the book being edited.
func (s State) FormBook() *models.Book {
	if s.Draft != nil {
		return s.Draft
	}
	return s.EditingBook
}

// Book looks up a loaded book by id
func (s State) Book(id string) (models.Book, bool) {
	for _, b := range s.Books {
		if b.ID == id {
			return b, true
		}
	}
	return models.Book{}, false
}

// Clone returns a deep copy of s
func (s State) Clone() State {
	c := s
	c.EditingBook = cloneBook(s.EditingBook)
	c.Draft = cloneBook(s.Draft)
	if s.Books != nil {
		c.Books = append([]models.Book(nil), s.Books...)
	}
	if s.Orders != nil {
		c.Orders = append([]models.Order(nil), s.Orders...)
	}
	return c
}

func cloneBook(b *models.Book) *models.Book {
	if b == nil {
		return nil
	}
	c := *b
	return &c
}
