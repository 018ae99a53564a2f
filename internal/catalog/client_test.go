package catalog_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/luminabooks/bookadmin/internal/catalog"
	"github.com/luminabooks/bookadmin/internal/controller"
	"github.com/luminabooks/bookadmin/internal/handlers"
	"github.com/luminabooks/bookadmin/internal/models"
	"github.com/luminabooks/bookadmin/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "catalog-secret"

func newCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := storage.NewMemory(storage.WithLatency(0, 0))
	c := controller.New(store, nil, controller.DefaultOptions())
	t.Cleanup(c.Close)

	srv := httptest.NewServer(handlers.New(c, store, nil, "", handlers.WithCatalogKey(testKey)).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func TestClientRoundTrip(t *testing.T) {
	srv := newCatalogServer(t)
	client := catalog.NewClient(srv.URL+"/", testKey)
	ctx := context.Background()

	books, err := client.FetchBooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, storage.DemoBooks(), books)

	orders, err := client.FetchOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, storage.DemoOrders(), orders)

	// Reads are idempotent.
	again, err := client.FetchBooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, books, again)

	created, err := client.CreateBook(ctx, models.Book{
		ID:       "42",
		Title:    "Dune",
		Author:   "Frank Herbert",
		Category: models.CategorySciFi,
		CoverURL: "https://example.com/dune.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, "42", created.ID)

	created.Stock = 7
	updated, err := client.UpdateBook(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, created, updated)

	books, err = client.FetchBooks(ctx)
	require.NoError(t, err)
	require.Len(t, books, 4)
	assert.Equal(t, updated, books[3])
}

func TestClientErrors(t *testing.T) {
	srv := newCatalogServer(t)
	client := catalog.NewClient(srv.URL, testKey)
	ctx := context.Background()

	_, err := client.UpdateBook(ctx, models.Book{ID: "missing", Title: "X", Author: "Y", Category: models.CategoryFiction})
	assert.ErrorIs(t, err, storage.ErrBookNotFound)

	_, err = client.CreateBook(ctx, models.Book{ID: "1", Title: "X", Author: "Y", Category: models.CategoryFiction})
	assert.ErrorIs(t, err, storage.ErrBookExists)

	_, err = client.CreateBook(ctx, models.Book{Title: "X"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 422")
}

func TestClientSendsAPIKey(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	orders, err := catalog.NewClient(srv.URL, "secret").FetchOrders(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.NotNil(t, orders)
	assert.Equal(t, "Bearer secret", got)
}

func TestClientServerFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "database down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := catalog.NewClient(srv.URL, "").FetchBooks(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500: database down")
}

func TestClientRejectedKey(t *testing.T) {
	srv := newCatalogServer(t)

	for _, key := range []string{"", "wrong"} {
		_, err := catalog.NewClient(srv.URL, key).FetchBooks(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 401")
	}
}
