// Package catalog is an HTTP client for a remote catalog service exposing the
// /api/catalog routes served by bookadmin itself.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/luminabooks/bookadmin/internal/models"
	"github.com/luminabooks/bookadmin/internal/storage"
)

// Client implements storage.Catalog over HTTP
type Client struct {
	BaseURL    string
	APIKey     string
	httpClient *http.Client
}

var _ storage.Catalog = (*Client)(nil)

// NewClient creates a new catalog client. apiKey may be empty.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchBooks fetches the whole inventory
func (c *Client) FetchBooks(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	if err := c.do(ctx, http.MethodGet, "/api/catalog/books", nil, &books); err != nil {
		return nil, fmt.Errorf("failed to fetch books: %w", err)
	}
	if books == nil {
		books = []models.Book{}
	}
	return books, nil
}

// FetchOrders fetches the order history
func (c *Client) FetchOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, http.MethodGet, "/api/catalog/orders", nil, &orders); err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// CreateBook creates book and returns the stored record
func (c *Client) CreateBook(ctx context.Context, book models.Book) (models.Book, error) {
	var saved models.Book
	if err := c.do(ctx, http.MethodPost, "/api/catalog/books", book, &saved); err != nil {
		return models.Book{}, fmt.Errorf("failed to create book: %w", err)
	}
	return saved, nil
}

// UpdateBook replaces the record with book's id
func (c *Client) UpdateBook(ctx context.Context, book models.Book) (models.Book, error) {
	var saved models.Book
	path := "/api/catalog/books/" + url.PathEscape(book.ID)
	if err := c.do(ctx, http.MethodPut, path, book, &saved); err != nil {
		return models.Book{}, fmt.Errorf("failed to update book %s: %w", book.ID, err)
	}
	return saved, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	case http.StatusNotFound:
		return storage.ErrBookNotFound
	case http.StatusConflict:
		return storage.ErrBookExists
	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("catalog API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
