package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/luminabooks/bookadmin/internal/models"
)

var _ Catalog = (*Memory)(nil)

// Memory is an in-process Catalog with artificial latency
type Memory struct {
	books  []models.Book
	orders []models.Order
	mu     sync.RWMutex

	readDelay  time.Duration
	writeDelay time.Duration
}

// MemoryOption configures a Memory store
type MemoryOption func(*Memory)

// WithLatency sets the simulated delay for reads and writes
func WithLatency(read, write time.Duration) MemoryOption {
	return func(m *Memory) {
		m.readDelay = read
		m.writeDelay = write
	}
}

// WithData replaces the demo seed data
func WithData(books []models.Book, orders []models.Order) MemoryOption {
	return func(m *Memory) {
		m.books = append([]models.Book(nil), books...)
		m.orders = append([]models.Order(nil), orders...)
	}
}

// NewMemory returns a store seeded with the demo catalog
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		books:      DemoBooks(),
		orders:     DemoOrders(),
		readDelay:  500 * time.Millisecond,
		writeDelay: 800 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) FetchBooks(ctx context.Context) ([]models.Book, error) {
	if err := sleep(ctx, m.readDelay); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Book(nil), m.books...), nil
}

func (m *Memory) FetchOrders(ctx context.Context) ([]models.Order, error) {
	if err := sleep(ctx, m.readDelay); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Order(nil), m.orders...), nil
}

func (m *Memory) CreateBook(ctx context.Context, book models.Book) (models.Book, error) {
	if err := sleep(ctx, m.writeDelay); err != nil {
		return models.Book{}, err
	}
	if book.ID == "" {
		book.ID = models.NewBookID()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.indexOf(book.ID) >= 0 {
		return models.Book{}, fmt.Errorf("memorydb: create %s: %w", book.ID, ErrBookExists)
	}
	m.books = append(m.books, book)
	return book, nil
}

func (m *Memory) UpdateBook(ctx context.Context, book models.Book) (models.Book, error) {
	if err := sleep(ctx, m.writeDelay); err != nil {
		return models.Book{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(book.ID)
	if i < 0 {
		return models.Book{}, fmt.Errorf("memorydb: update %s: %w", book.ID, ErrBookNotFound)
	}
	m.books[i] = book
	return book, nil
}

func (m *Memory) indexOf(id string) int {
	for i, b := range m.books {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
