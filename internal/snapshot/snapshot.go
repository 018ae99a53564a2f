// Package snapshot reads and writes catalog snapshots. A snapshot is either a
// single YAML file or a directory holding books.parquet and orders.parquet.
package snapshot

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/luminabooks/bookadmin/internal/models"
	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

const (
	booksFile  = "books.parquet"
	ordersFile = "orders.parquet"
)

// Snapshot is a point-in-time copy of the catalog
type Snapshot struct {
	ExportedAt string         `yaml:"exported_at,omitempty"`
	Books      []models.Book  `yaml:"books"`
	Orders     []models.Order `yaml:"orders"`
}

// New stamps a snapshot of books and orders with the current time
func New(books []models.Book, orders []models.Order) Snapshot {
	return Snapshot{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Books:      books,
		Orders:     orders,
	}
}

// Load reads a snapshot from a YAML file or a Parquet directory
func Load(path string) (Snapshot, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to stat snapshot: %w", err)
	}
	if info.IsDir() {
		return LoadParquet(path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(path)
	default:
		return Snapshot{}, fmt.Errorf("unsupported snapshot format: %s", path)
	}
}

// LoadYAML reads a YAML snapshot
func LoadYAML(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	slog.Debug("Loaded YAML snapshot", "path", path, "books", len(snap.Books), "orders", len(snap.Orders))
	return snap, nil
}

// SaveYAML writes snap as YAML
func SaveYAML(path string, snap Snapshot) error {
	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// bookRow and orderRow are the Parquet column layouts
type bookRow struct {
	ID          string  `parquet:"id"`
	Title       string  `parquet:"title"`
	Author      string  `parquet:"author"`
	Price       float64 `parquet:"price"`
	Stock       int64   `parquet:"stock"`
	Category    string  `parquet:"category"`
	Description string  `parquet:"description"`
	CoverURL    string  `parquet:"cover_url"`
}

type orderRow struct {
	ID           string  `parquet:"id"`
	CustomerName string  `parquet:"customer_name"`
	BookTitle    string  `parquet:"book_title"`
	Amount       float64 `parquet:"amount"`
	Status       string  `parquet:"status"`
	Date         string  `parquet:"date"`
}

// SaveParquet writes snap into dir as one Parquet file per collection
func SaveParquet(dir string, snap Snapshot) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	books := make([]bookRow, 0, len(snap.Books))
	for _, b := range snap.Books {
		books = append(books, bookRow{
			ID:          b.ID,
			Title:       b.Title,
			Author:      b.Author,
			Price:       b.Price,
			Stock:       int64(b.Stock),
			Category:    string(b.Category),
			Description: b.Description,
			CoverURL:    b.CoverURL,
		})
	}
	if err := writeParquet(filepath.Join(dir, booksFile), books); err != nil {
		return err
	}

	orders := make([]orderRow, 0, len(snap.Orders))
	for _, o := range snap.Orders {
		orders = append(orders, orderRow{
			ID:           o.ID,
			CustomerName: o.CustomerName,
			BookTitle:    o.BookTitle,
			Amount:       o.Amount,
			Status:       string(o.Status),
			Date:         o.Date,
		})
	}
	return writeParquet(filepath.Join(dir, ordersFile), orders)
}

// LoadParquet reads a snapshot directory written by SaveParquet
func LoadParquet(dir string) (Snapshot, error) {
	books, err := readParquet[bookRow](filepath.Join(dir, booksFile))
	if err != nil {
		return Snapshot{}, err
	}
	orders, err := readParquet[orderRow](filepath.Join(dir, ordersFile))
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{
		Books:  make([]models.Book, 0, len(books)),
		Orders: make([]models.Order, 0, len(orders)),
	}
	for _, r := range books {
		snap.Books = append(snap.Books, models.Book{
			ID:          r.ID,
			Title:       r.Title,
			Author:      r.Author,
			Price:       r.Price,
			Stock:       int(r.Stock),
			Category:    models.Category(r.Category),
			Description: r.Description,
			CoverURL:    r.CoverURL,
		})
	}
	for _, r := range orders {
		snap.Orders = append(snap.Orders, models.Order{
			ID:           r.ID,
			CustomerName: r.CustomerName,
			BookTitle:    r.BookTitle,
			Amount:       r.Amount,
			Status:       models.OrderStatus(r.Status),
			Date:         r.Date,
		})
	}
	return snap, nil
}

func writeParquet[T any](path string, rows []T) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	defer file.Close()

	w := parquet.NewGenericWriter[T](file)
	if _, err := w.Write(rows); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	slog.Debug("Wrote Parquet file", "path", path, "rows", len(rows))
	return nil
}

func readParquet[T any](path string) ([]T, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[T](pf)
	defer reader.Close()

	records := make([]T, 0, pf.NumRows())
	rows := make([]T, 128)
	for {
		n, err := reader.Read(rows)
		records = append(records, rows[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}
	slog.Debug("Read Parquet file", "path", path, "rows", len(records))
	return records, nil
}
