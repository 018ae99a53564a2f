// Package controller owns the dashboard session: authentication, the active
// view, the loading flag, the book and order collections and the editing slot.
//
// All state lives on one goroutine. Operations are dispatched to it as typed
// actions; store calls run on the caller's goroutine between a started and a
// finished action, so the collections change only after the store confirms.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/luminabooks/bookadmin/internal/auth"
	"github.com/luminabooks/bookadmin/internal/metrics"
	"github.com/luminabooks/bookadmin/internal/models"
	"github.com/luminabooks/bookadmin/internal/storage"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrBusy             = errors.New("another catalog request is in progress")
	ErrFormNotOpen      = errors.New("book form is not open")
	ErrMissingID        = errors.New("book has no id")
	ErrIdentityChanged  = errors.New("book id cannot change while editing")
	ErrUnknownView      = errors.New("unknown view")
	ErrLoadFailed       = errors.New("failed to load catalog")
	ErrSaveFailed       = errors.New("failed to save book")
	// ErrSessionChanged is returned when a logout or new login happened while
	// a request was in flight; its result was discarded.
	ErrSessionChanged = errors.New("session changed while request was in flight")
	ErrClosed         = errors.New("controller closed")

	errAlreadyAuthenticated = errors.New("already authenticated")
)

// Options tunes store access
type Options struct {
	// LoadAttempts is how many times each initial fetch is tried.
	LoadAttempts int
	// LoadBackoff is the delay before the first retry; it doubles each time.
	LoadBackoff time.Duration
	// StoreTimeout bounds a single store call. Zero means no extra bound.
	StoreTimeout time.Duration
	// AccountName is shown on the settings screen.
	AccountName string
}

// DefaultOptions returns the options used when none are given
func DefaultOptions() Options {
	return Options{
		LoadAttempts: 3,
		LoadBackoff:  250 * time.Millisecond,
		StoreTimeout: 10 * time.Second,
		AccountName:  "Admin User",
	}
}

// Controller is the single writer of session state
type Controller struct {
	store    storage.Catalog
	verifier auth.Verifier
	opts     Options

	inbox     chan envelope
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

type envelope struct {
	act   action
	reply chan reply
}

type reply struct {
	state State
	err   error
}

// New starts a controller. A nil verifier accepts any complete credentials.
func New(store storage.Catalog, verifier auth.Verifier, opts Options) *Controller {
	if verifier == nil {
		verifier = auth.AcceptAll{}
	}
	if opts.LoadAttempts < 1 {
		opts.LoadAttempts = 1
	}
	c := &Controller{
		store:    store,
		verifier: verifier,
		opts:     opts,
		inbox:    make(chan envelope),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	s := &session{State: State{
		ActiveView: models.ViewDashboard,
		Books:      []models.Book{},
		Orders:     []models.Order{},
		Account:    Account{Name: opts.AccountName, Email: "admin@luminabooks.com"},
	}}
	go c.run(s)
	return c
}

// Close stops the controller goroutine
func (c *Controller) Close() {
	c.closeOnce.Do(func() { close(c.quit) })
	<-c.done
}

func (c *Controller) run(s *session) {
	defer close(c.done)
	for {
		select {
		case env := <-c.inbox:
			err := env.act.apply(s)
			env.reply <- reply{state: s.State.Clone(), err: err}
		case <-c.quit:
			return
		}
	}
}

func (c *Controller) dispatch(a action) (State, error) {
	env := envelope{act: a, reply: make(chan reply, 1)}
	select {
	case c.inbox <- env:
	case <-c.quit:
		return State{}, ErrClosed
	}
	r := <-env.reply
	return r.state, r.err
}

// State returns a snapshot of the current session
func (c *Controller) State() State {
	st, _ := c.dispatch(stateAction{})
	return st
}

type stateAction struct{}

func (stateAction) apply(*session) error { return nil }

// Login authenticates and loads the catalog. Login while already
// authenticated changes nothing. A failed load does not fail the login; the
// returned state carries LoadError instead.
func (c *Controller) Login(ctx context.Context, creds auth.Credentials) (State, error) {
	if !creds.Complete() {
		return c.State(), auth.ErrMissingCredentials
	}
	if err := c.verifier.Verify(ctx, creds); err != nil {
		slog.Warn("Login rejected", "email", creds.Email, "err", err)
		return c.State(), err
	}

	st, err := c.dispatch(&loginAction{email: creds.Email})
	if errors.Is(err, errAlreadyAuthenticated) {
		return st, nil
	}
	if err != nil {
		return st, err
	}
	slog.Info("Administrator logged in", "email", creds.Email)

	st, err = c.LoadInitialData(ctx)
	if err != nil && !errors.Is(err, ErrLoadFailed) {
		return st, err
	}
	return st, nil
}

// Logout leaves the authenticated state. Cached collections are kept until
// the next login refetches them.
func (c *Controller) Logout() (State, error) {
	st, err := c.dispatch(logoutAction{})
	if err == nil {
		slog.Info("Administrator logged out")
	}
	return st, err
}

// LoadInitialData fetches books and orders concurrently and stores both once
// both succeed. It can be called again to retry after a failure.
func (c *Controller) LoadInitialData(ctx context.Context) (State, error) {
	start := &loadStarted{}
	if st, err := c.dispatch(start); err != nil {
		return st, err
	}

	var books []models.Book
	var orders []models.Order
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		books, err = retry(gctx, c.opts, "fetch_books", withTimeoutFn(c, c.store.FetchBooks))
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = retry(gctx, c.opts, "fetch_orders", withTimeoutFn(c, c.store.FetchOrders))
		return err
	})
	fetchErr := g.Wait()

	st, err := c.dispatch(&loadFinished{epoch: start.epoch, books: books, orders: orders, err: fetchErr})
	if err != nil {
		slog.Info("Discarding catalog load from an earlier session")
		return st, err
	}
	if fetchErr != nil {
		slog.Error("Catalog load failed", "err", fetchErr)
		return st, fmt.Errorf("%w: %w", ErrLoadFailed, fetchErr)
	}
	slog.Info("Catalog loaded", "books", len(st.Books), "orders", len(st.Orders))
	return st, nil
}

// BeginAddBook opens an empty form
func (c *Controller) BeginAddBook() (State, error) {
	return c.dispatch(beginAddAction{})
}

// BeginEditBook opens the form on a copy of book
func (c *Controller) BeginEditBook(book models.Book) (State, error) {
	return c.dispatch(&beginEditAction{book: book})
}

// Navigate switches to view from the sidebar
func (c *Controller) Navigate(view models.View) (State, error) {
	return c.dispatch(&navigateAction{view: view})
}

// CancelForm discards the form and returns to the inventory
func (c *Controller) CancelForm() (State, error) {
	return c.dispatch(cancelFormAction{})
}

// ToggleTheme flips dark mode
func (c *Controller) ToggleTheme() (State, error) {
	return c.dispatch(toggleThemeAction{})
}

// SaveBook persists the form's book. With a book in the editing slot the
// store record is updated and replaced by id; otherwise it is created and
// appended. On store failure the form stays open with the attempted record
// in Draft and nothing else changes.
func (c *Controller) SaveBook(ctx context.Context, book models.Book) (State, error) {
	start := &saveStarted{book: book}
	if st, err := c.dispatch(start); err != nil {
		return st, err
	}

	ctx, cancel := c.storeContext(ctx)
	defer cancel()

	var saved models.Book
	var saveErr error
	began := time.Now()
	if start.edit {
		saved, saveErr = c.store.UpdateBook(ctx, start.book)
		metrics.ObserveStore("update_book", began, saveErr)
	} else {
		saved, saveErr = c.store.CreateBook(ctx, start.book)
		metrics.ObserveStore("create_book", began, saveErr)
	}

	st, err := c.dispatch(&saveFinished{
		epoch:     start.epoch,
		edit:      start.edit,
		attempted: start.book,
		saved:     saved,
		err:       saveErr,
	})
	if err != nil {
		slog.Info("Discarding book save from an earlier session", "id", start.book.ID)
		return st, err
	}
	if saveErr != nil {
		slog.Error("Failed to save book", "id", start.book.ID, "edit", start.edit, "err", saveErr)
		return st, fmt.Errorf("%w: %w", ErrSaveFailed, saveErr)
	}
	slog.Info("Book saved", "id", saved.ID, "edit", start.edit)
	return st, nil
}

func (c *Controller) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.opts.StoreTimeout > 0 {
		return context.WithTimeout(ctx, c.opts.StoreTimeout)
	}
	return context.WithCancel(ctx)
}

func withTimeoutFn[T any](c *Controller, fn func(context.Context) (T, error)) func(context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		ctx, cancel := c.storeContext(ctx)
		defer cancel()
		return fn(ctx)
	}
}
