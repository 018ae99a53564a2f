package storage

import (
	"context"
	"errors"

	"github.com/luminabooks/bookadmin/internal/models"
)

var (
	// ErrBookNotFound is returned when an update references an unknown identity
	ErrBookNotFound = errors.New("book not found")
	// ErrBookExists is returned when a create reuses an existing identity
	ErrBookExists = errors.New("book already exists")
)

// Catalog is the authoritative store of books and orders.
//
// Reads return full snapshots owned by the caller. Writes return the persisted
// record, which may differ from the input (for example an assigned id).
type Catalog interface {
	FetchBooks(ctx context.Context) ([]models.Book, error)
	FetchOrders(ctx context.Context) ([]models.Order, error)
	CreateBook(ctx context.Context, book models.Book) (models.Book, error)
	UpdateBook(ctx context.Context, book models.Book) (models.Book, error)
}

// DemoBooks returns the inventory the mock store starts with
func DemoBooks() []models.Book {
	return []models.Book{
		{
			ID:          "1",
			Title:       "The Midnight Library",
			Author:      "Matt Haig",
			Price:       24.99,
			Stock:       45,
			Category:    models.CategoryFiction,
			Description: "Between life and death there is a library, and within that library, the shelves go on forever.",
			CoverURL:    "https://picsum.photos/200/300?random=1",
		},
		{
			ID:          "2",
			Title:       "Atomic Habits",
			Author:      "James Clear",
			Price:       19.99,
			Stock:       120,
			Category:    models.CategoryNonFiction,
			Description: "No matter your goals, Atomic Habits offers a proven framework for improving--every day.",
			CoverURL:    "https://picsum.photos/200/300?random=2",
		},
		{
			ID:          "3",
			Title:       "Project Hail Mary",
			Author:      "Andy Weir",
			Price:       29.99,
			Stock:       15,
			Category:    models.CategorySciFi,
			Description: "Ryland Grace is the sole survivor on a desperate, last-chance mission.",
			CoverURL:    "https://picsum.photos/200/300?random=3",
		},
	}
}

// DemoOrders returns the order history the mock store starts with
func DemoOrders() []models.Order {
	return []models.Order{
		{ID: "ord-001", CustomerName: "Alice Johnson", BookTitle: "Atomic Habits", Amount: 19.99, Status: models.OrderCompleted, Date: "2023-10-25"},
		{ID: "ord-002", CustomerName: "Bob Smith", BookTitle: "The Midnight Library", Amount: 24.99, Status: models.OrderPending, Date: "2023-10-26"},
		{ID: "ord-003", CustomerName: "Charlie Brown", BookTitle: "Project Hail Mary", Amount: 29.99, Status: models.OrderCompleted, Date: "2023-10-26"},
		{ID: "ord-004", CustomerName: "Dana White", BookTitle: "Atomic Habits", Amount: 19.99, Status: models.OrderCancelled, Date: "2023-10-24"},
	}
}
