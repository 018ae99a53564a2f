package controller

import (
	"fmt"

	"github.com/luminabooks/bookadmin/internal/form"
	"github.com/luminabooks/bookadmin/internal/models"
)

// session is the state owned by the controller goroutine. Nothing outside
// run touches it.
type session struct {
	State
	// epoch changes on every login and logout so results of requests started
	// in an earlier session are discarded.
	epoch uint64
}

// action is one state transition. apply runs on the controller goroutine and
// may record outputs on the action for the dispatching caller.
type action interface {
	apply(s *session) error
}

func (s *session) requireAuth() error {
	if !s.Authenticated {
		return ErrNotAuthenticated
	}
	return nil
}

// requireIdle rejects view changes while a load or save is in flight; its
// completion decides the next view.
func (s *session) requireIdle() error {
	if s.Loading {
		return ErrBusy
	}
	return nil
}

func (s *session) clearForm() {
	s.EditingBook = nil
	s.Draft = nil
	s.FormError = ""
}

type loginAction struct {
	email string
}

func (a *loginAction) apply(s *session) error {
	if s.Authenticated {
		return errAlreadyAuthenticated
	}
	s.epoch++
	s.Authenticated = true
	s.ActiveView = models.ViewDashboard
	s.LoadError = ""
	s.clearForm()
	if a.email != "" {
		s.Account.Email = a.email
	}
	return nil
}

type logoutAction struct{}

func (logoutAction) apply(s *session) error {
	if err := s.requireAuth(); err != nil {
		return err
	}
	s.epoch++
	s.Authenticated = false
	s.ActiveView = models.ViewDashboard
	s.Loading = false
	s.LoadError = ""
	s.clearForm()
	return nil
}

type loadStarted struct {
	epoch uint64
}

func (a *loadStarted) apply(s *session) error {
	if err := s.requireAuth(); err != nil {
		return err
	}
	if s.Loading {
		return ErrBusy
	}
	s.Loading = true
	s.LoadError = ""
	a.epoch = s.epoch
	return nil
}

type loadFinished struct {
	epoch  uint64
	books  []models.Book
	orders []models.Order
	err    error
}

func (a *loadFinished) apply(s *session) error {
	if a.epoch != s.epoch {
		return ErrSessionChanged
	}
	s.Loading = false
	if a.err != nil {
		s.LoadError = fmt.Sprintf("Failed to load catalog: %v", a.err)
		return nil
	}
	s.Books = append([]models.Book{}, a.books...)
	s.Orders = append([]models.Order{}, a.orders...)
	return nil
}

type beginAddAction struct{}

func (beginAddAction) apply(s *session) error {
	if err := s.requireAuth(); err != nil {
		return err
	}
	if err := s.requireIdle(); err != nil {
		return err
	}
	s.clearForm()
	s.ActiveView = models.ViewAddBook
	return nil
}

type beginEditAction struct {
	book models.Book
}

func (a *beginEditAction) apply(s *session) error {
	if err := s.requireAuth(); err != nil {
		return err
	}
	if err := s.requireIdle(); err != nil {
		return err
	}
	if a.book.ID == "" {
		return ErrMissingID
	}
	s.clearForm()
	b := a.book
	s.EditingBook = &b
	s.ActiveView = models.ViewAddBook
	return nil
}

type navigateAction struct {
	view models.View
}

func (a *navigateAction) apply(s *session) error {
	if err := s.requireAuth(); err != nil {
		return err
	}
	if err := s.requireIdle(); err != nil {
		return err
	}
	if _, err := models.ParseView(string(a.view)); err != nil {
		return fmt.Errorf("%w: %v", ErrUnknownView, err)
	}
	if a.view == s.ActiveView {
		return nil
	}
	// Reaching the form from the sidebar always starts a new book.
	s.clearForm()
	s.ActiveView = a.view
	return nil
}

type cancelFormAction struct{}

func (cancelFormAction) apply(s *session) error {
	if err := s.requireAuth(); err != nil {
		return err
	}
	if err := s.requireIdle(); err != nil {
		return err
	}
	s.clearForm()
	s.ActiveView = models.ViewBooks
	return nil
}

type toggleThemeAction struct{}

func (toggleThemeAction) apply(s *session) error {
	if err := s.requireAuth(); err != nil {
		return err
	}
	s.DarkMode = !s.DarkMode
	return nil
}

type saveStarted struct {
	book models.Book

	// outputs
	epoch uint64
	edit  bool
}

func (a *saveStarted) apply(s *session) error {
	if err := s.requireAuth(); err != nil {
		return err
	}
	if s.ActiveView != models.ViewAddBook {
		return ErrFormNotOpen
	}
	if s.Loading {
		return ErrBusy
	}

	b := a.book
	if s.EditingBook != nil {
		switch b.ID {
		case "":
			b.ID = s.EditingBook.ID
		case s.EditingBook.ID:
		default:
			return fmt.Errorf("%w: editing %s, got %s", ErrIdentityChanged, s.EditingBook.ID, b.ID)
		}
		a.edit = true
	} else if b.ID == "" {
		b.ID = models.NewBookID()
	}
	if b.CoverURL == "" {
		b.CoverURL = models.DefaultCoverURL()
	}
	if err := form.Validate(b); err != nil {
		return err
	}

	s.Loading = true
	s.FormError = ""
	a.book = b
	a.epoch = s.epoch
	return nil
}

type saveFinished struct {
	epoch     uint64
	edit      bool
	attempted models.Book
	saved     models.Book
	err       error
}

func (a *saveFinished) apply(s *session) error {
	if a.epoch != s.epoch {
		return ErrSessionChanged
	}
	s.Loading = false

	if a.err != nil {
		// Collections and the editing slot stay as they were.
		if s.ActiveView == models.ViewAddBook {
			b := a.attempted
			s.Draft = &b
			s.FormError = fmt.Sprintf("Failed to save book: %v", a.err)
		}
		return nil
	}

	if a.edit {
		books := make([]models.Book, len(s.Books))
		for i, b := range s.Books {
			if b.ID == a.saved.ID {
				b = a.saved
			}
			books[i] = b
		}
		s.Books = books
	} else {
		books := make([]models.Book, 0, len(s.Books)+1)
		books = append(books, s.Books...)
		s.Books = append(books, a.saved)
	}
	s.clearForm()
	s.ActiveView = models.ViewBooks
	return nil
}
