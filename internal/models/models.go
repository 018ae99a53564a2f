package models

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
)

// Category is the fixed genre enumeration a book belongs to
type Category string

const (
	CategoryFiction    Category = "Fiction"
	CategoryNonFiction Category = "Non-Fiction"
	CategorySciFi      Category = "Sci-Fi"
	CategoryMystery    Category = "Mystery"
	CategoryTechnology Category = "Technology"
	CategoryHistory    Category = "History"
)

// Categories lists every category in display order
var Categories = []Category{
	CategoryFiction,
	CategoryNonFiction,
	CategorySciFi,
	CategoryMystery,
	CategoryTechnology,
	CategoryHistory,
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Book represents an inventory item
type Book struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Author      string   `json:"author" yaml:"author"`
	Price       float64  `json:"price" yaml:"price"`
	Stock       int      `json:"stock" yaml:"stock"`
	Category    Category `json:"category" yaml:"category"`
	Description string   `json:"description" yaml:"description"`
	CoverURL    string   `json:"coverUrl" yaml:"cover_url"`
}

// NewBookID returns a fresh random identity for a book created client-side
func NewBookID() string {
	return uuid.NewString()
}

// DefaultCoverURL returns a placeholder cover image URL
func DefaultCoverURL() string {
	return fmt.Sprintf("https://picsum.photos/200/300?random=%d", rand.IntN(100))
}

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	OrderCompleted OrderStatus = "Completed"
	OrderPending   OrderStatus = "Pending"
	OrderCancelled OrderStatus = "Cancelled"
)

// Order is a read-only sales record
type Order struct {
	ID           string      `json:"id" yaml:"id"`
	CustomerName string      `json:"customerName" yaml:"customer_name"`
	BookTitle    string      `json:"bookTitle" yaml:"book_title"`
	Amount       float64     `json:"amount" yaml:"amount"`
	Status       OrderStatus `json:"status" yaml:"status"`
	Date         string      `json:"date" yaml:"date"` // YYYY-MM-DD
}

// SalesPoint is one month of the dashboard sales chart
type SalesPoint struct {
	Name    string  `json:"name"`
	Sales   int     `json:"sales"`
	Revenue float64 `json:"revenue"`
}
