// Package sqlite provides a durable Catalog backed by a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/luminabooks/bookadmin/internal/models"
	"github.com/luminabooks/bookadmin/internal/storage"
	"github.com/mattn/go-sqlite3"
)

var _ storage.Catalog = (*Store)(nil)

// Store implements storage.Catalog on top of a SQLite connection.
type Store struct {
	db *sql.DB

	insertBookStmt *sql.Stmt
	updateBookStmt *sql.Stmt
}

// Open opens (or creates) the database at dbPath, applies schema migrations,
// and prepares common statements.
func Open(dbPath string) (*Store, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db}
	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases prepared statements and closes the DB.
func (s *Store) Close() error {
	if s.insertBookStmt != nil {
		s.insertBookStmt.Close()
	}
	if s.updateBookStmt != nil {
		s.updateBookStmt.Close()
	}
	return s.db.Close()
}

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

const schemaVersion = 1

func applyMigrations(db *sql.DB) error {
	// WAL improves write concurrency.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return err
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS books (
            seq INTEGER PRIMARY KEY AUTOINCREMENT,
            id TEXT NOT NULL UNIQUE,
            title TEXT NOT NULL,
            author TEXT NOT NULL,
            price REAL NOT NULL DEFAULT 0,
            stock INTEGER NOT NULL DEFAULT 0,
            category TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            cover_url TEXT NOT NULL DEFAULT ''
        );`,
		`CREATE TABLE IF NOT EXISTS orders (
            seq INTEGER PRIMARY KEY AUTOINCREMENT,
            id TEXT NOT NULL UNIQUE,
            customer_name TEXT NOT NULL,
            book_title TEXT NOT NULL,
            amount REAL NOT NULL DEFAULT 0,
            status TEXT NOT NULL,
            order_date TEXT NOT NULL
        );`,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	if _, err := tx.Exec(`INSERT INTO meta(key,value) VALUES('schema_version',?)
            ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	return tx.Commit()
}

func (s *Store) prepareStatements() error {
	var err error
	if s.insertBookStmt, err = s.db.Prepare(`INSERT INTO books(id,title,author,price,stock,category,description,cover_url)
        VALUES(?,?,?,?,?,?,?,?)`); err != nil {
		return err
	}
	if s.updateBookStmt, err = s.db.Prepare(`UPDATE books
        SET title=?, author=?, price=?, stock=?, category=?, description=?, cover_url=?
        WHERE id=?`); err != nil {
		return err
	}
	return nil
}

// ---------------------------------------------------------------------------
// Catalog
// ---------------------------------------------------------------------------

func (s *Store) FetchBooks(ctx context.Context) ([]models.Book, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,title,author,price,stock,category,description,cover_url FROM books ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	books := []models.Book{}
	for rows.Next() {
		var b models.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Price, &b.Stock, &b.Category, &b.Description, &b.CoverURL); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (s *Store) FetchOrders(ctx context.Context) ([]models.Order, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,customer_name,book_title,amount,status,order_date FROM orders ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.CustomerName, &o.BookTitle, &o.Amount, &o.Status, &o.Date); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (s *Store) CreateBook(ctx context.Context, book models.Book) (models.Book, error) {
	if book.ID == "" {
		book.ID = models.NewBookID()
	}
	_, err := s.insertBookStmt.ExecContext(ctx, book.ID, book.Title, book.Author, book.Price, book.Stock,
		string(book.Category), book.Description, book.CoverURL)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return models.Book{}, fmt.Errorf("create %s: %w", book.ID, storage.ErrBookExists)
		}
		return models.Book{}, fmt.Errorf("insert book: %w", err)
	}
	return book, nil
}

func (s *Store) UpdateBook(ctx context.Context, book models.Book) (models.Book, error) {
	res, err := s.updateBookStmt.ExecContext(ctx, book.Title, book.Author, book.Price, book.Stock,
		string(book.Category), book.Description, book.CoverURL, book.ID)
	if err != nil {
		return models.Book{}, fmt.Errorf("update book: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.Book{}, fmt.Errorf("update book: %w", err)
	}
	if n == 0 {
		return models.Book{}, fmt.Errorf("update %s: %w", book.ID, storage.ErrBookNotFound)
	}
	return book, nil
}

// Seed inserts books and orders into an empty database. It is a no-op when
// any book is already present.
func (s *Store) Seed(ctx context.Context, books []models.Book, orders []models.Order) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&count); err != nil {
		return fmt.Errorf("count books: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, b := range books {
		if _, err := tx.StmtContext(ctx, s.insertBookStmt).ExecContext(ctx, b.ID, b.Title, b.Author, b.Price, b.Stock,
			string(b.Category), b.Description, b.CoverURL); err != nil {
			return fmt.Errorf("seed book %s: %w", b.ID, err)
		}
	}
	for _, o := range orders {
		if _, err := tx.ExecContext(ctx, `INSERT INTO orders(id,customer_name,book_title,amount,status,order_date) VALUES(?,?,?,?,?,?)`,
			o.ID, o.CustomerName, o.BookTitle, o.Amount, string(o.Status), o.Date); err != nil {
			return fmt.Errorf("seed order %s: %w", o.ID, err)
		}
	}
	return tx.Commit()
}
