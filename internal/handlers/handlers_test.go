package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/luminabooks/bookadmin/internal/controller"
	"github.com/luminabooks/bookadmin/internal/dashboard"
	"github.com/luminabooks/bookadmin/internal/models"
	"github.com/luminabooks/bookadmin/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedDescriber string

func (d fixedDescriber) Generate(_ context.Context, title, _, _ string) string {
	return string(d) + " " + title
}

type stateBody struct {
	controller.State
	Screen controller.Screen `json:"screen"`
}

type errorBody struct {
	Error  string            `json:"error"`
	Fields []map[string]any  `json:"fields"`
	State  *controller.State `json:"state"`
}

const testCatalogKey = "catalog-secret"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return newTestServerWith(t, WithCatalogKey(testCatalogKey))
}

func newTestServerWith(t *testing.T, opts ...Option) *httptest.Server {
	t.Helper()
	store := storage.NewMemory(storage.WithLatency(0, 0))
	copts := controller.DefaultOptions()
	copts.LoadBackoff = time.Millisecond
	c := controller.New(store, nil, copts)
	t.Cleanup(c.Close)

	srv := httptest.NewServer(New(c, store, fixedDescriber("Copy for"), "", opts...).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path, body string) *http.Response {
	t.Helper()
	return callWithAuth(t, srv, method, path, body, "Bearer "+testCatalogKey)
}

func callWithAuth(t *testing.T, srv *httptest.Server, method, path, body, authorization string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, r)
	require.NoError(t, err)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func login(t *testing.T, srv *httptest.Server) stateBody {
	t.Helper()
	resp := call(t, srv, http.MethodPost, "/api/session/login", `{"email":"a@b.com","password":"x"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decode[stateBody](t, resp)
}

func TestLogin(t *testing.T) {
	srv := newTestServer(t)

	resp := call(t, srv, http.MethodGet, "/api/state", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, controller.ScreenLogin, decode[stateBody](t, resp).Screen)

	resp = call(t, srv, http.MethodPost, "/api/session/login", `{"email":"a@b.com"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	st := login(t, srv)
	assert.True(t, st.Authenticated)
	assert.False(t, st.Loading)
	assert.Equal(t, controller.ScreenDashboard, st.Screen)
	assert.Len(t, st.Books, 3)
	assert.Len(t, st.Orders, 4)

	resp = call(t, srv, http.MethodPost, "/api/session/logout", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, controller.ScreenLogin, decode[stateBody](t, resp).Screen)
}

func TestRequiresLogin(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodPost, "/api/books/new", ""},
		{http.MethodPost, "/api/books/1/edit", ""},
		{http.MethodPut, "/api/view", `{"view":"books"}`},
		{http.MethodPost, "/api/theme/toggle", ""},
		{http.MethodGet, "/api/dashboard", ""},
		{http.MethodGet, "/api/orders", ""},
		{http.MethodPost, "/api/form/describe", `{"title":"Foo","author":"Bar"}`},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			resp := call(t, srv, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestAddBookFlow(t *testing.T) {
	srv := newTestServer(t)
	login(t, srv)

	resp := call(t, srv, http.MethodPost, "/api/books/new", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	st := decode[stateBody](t, resp)
	assert.Equal(t, controller.ScreenAddBook, st.Screen)
	assert.Nil(t, st.EditingBook)

	resp = call(t, srv, http.MethodPost, "/api/form/save", `{"title":"Foo","author":"Bar","price":-1,"stock":3,"category":"Fiction"}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	failed := decode[errorBody](t, resp)
	require.Len(t, failed.Fields, 1)
	assert.Equal(t, "price", failed.Fields[0]["field"])

	resp = call(t, srv, http.MethodPost, "/api/form/save", `{"title":"Foo","author":"Bar","price":9.99,"stock":3,"category":"Fiction"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	st = decode[stateBody](t, resp)
	assert.Equal(t, models.ViewBooks, st.ActiveView)
	require.Len(t, st.Books, 4)
	assert.Equal(t, "Foo", st.Books[3].Title)
	assert.NotEmpty(t, st.Books[3].ID)
	assert.NotEmpty(t, st.Books[3].CoverURL)

	resp = call(t, srv, http.MethodPost, "/api/form/save", `{"title":"Foo","author":"Bar","category":"Fiction"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEditBookFlow(t *testing.T) {
	srv := newTestServer(t)
	login(t, srv)

	resp := call(t, srv, http.MethodPost, "/api/books/missing/edit", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = call(t, srv, http.MethodPost, "/api/books/1/edit", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	st := decode[stateBody](t, resp)
	require.NotNil(t, st.EditingBook)

	book := *st.EditingBook
	book.Price = 14.99
	body, err := json.Marshal(book)
	require.NoError(t, err)

	resp = call(t, srv, http.MethodPost, "/api/form/save", string(body))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	st = decode[stateBody](t, resp)
	require.Len(t, st.Books, 3)
	assert.Equal(t, 14.99, st.Books[0].Price)
	assert.Nil(t, st.EditingBook)
}

func TestDeleteIsNotImplemented(t *testing.T) {
	srv := newTestServer(t)
	login(t, srv)

	resp := call(t, srv, http.MethodDelete, "/api/books/1", "")
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)

	st := decode[stateBody](t, call(t, srv, http.MethodGet, "/api/state", ""))
	assert.Len(t, st.Books, 3)
}

func TestNavigateAndTheme(t *testing.T) {
	srv := newTestServer(t)
	login(t, srv)

	resp := call(t, srv, http.MethodPut, "/api/view", `{"view":"reports"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = call(t, srv, http.MethodPut, "/api/view", `{"view":"settings"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	st := decode[stateBody](t, resp)
	assert.Equal(t, controller.ScreenSettings, st.Screen)
	assert.Equal(t, "a@b.com", st.Account.Email)

	resp = call(t, srv, http.MethodPost, "/api/theme/toggle", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[stateBody](t, resp).DarkMode)
}

func TestDescribe(t *testing.T) {
	srv := newTestServer(t)
	login(t, srv)

	resp := call(t, srv, http.MethodPost, "/api/form/describe", `{"title":"Foo"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Please enter Title and Author first.", decode[errorBody](t, resp).Error)

	resp = call(t, srv, http.MethodPost, "/api/form/describe", `{"title":"Foo","author":"Bar","category":"Mystery"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Copy for Foo", decode[describeResponse](t, resp).Description)

	st := decode[stateBody](t, call(t, srv, http.MethodGet, "/api/state", ""))
	assert.False(t, st.Loading)
}

func TestDashboardAndOrders(t *testing.T) {
	srv := newTestServer(t)
	login(t, srv)

	resp := call(t, srv, http.MethodGet, "/api/dashboard", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	overview := decode[dashboard.Overview](t, resp)
	assert.Len(t, overview.Stats, 4)
	assert.Len(t, overview.Sales, 7)
	assert.Len(t, overview.RecentOrders, 4)

	resp = call(t, srv, http.MethodGet, "/api/orders", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, storage.DemoOrders(), decode[[]models.Order](t, resp))
}

func TestCatalogAPI(t *testing.T) {
	srv := newTestServer(t)

	resp := call(t, srv, http.MethodGet, "/api/catalog/books", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]models.Book](t, resp), 3)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"create", http.MethodPost, "/api/catalog/books", `{"id":"9","title":"Dune","author":"Frank Herbert","category":"Sci-Fi"}`, http.StatusCreated},
		{"create duplicate", http.MethodPost, "/api/catalog/books", `{"id":"9","title":"Dune","author":"Frank Herbert","category":"Sci-Fi"}`, http.StatusConflict},
		{"create invalid", http.MethodPost, "/api/catalog/books", `{"title":"Dune","category":"Poetry"}`, http.StatusUnprocessableEntity},
		{"update", http.MethodPut, "/api/catalog/books/9", `{"title":"Dune Messiah","author":"Frank Herbert","category":"Sci-Fi"}`, http.StatusOK},
		{"update unknown", http.MethodPut, "/api/catalog/books/404", `{"title":"X","author":"Y","category":"Fiction"}`, http.StatusNotFound},
		{"update id mismatch", http.MethodPut, "/api/catalog/books/9", `{"id":"1","title":"X","author":"Y","category":"Fiction"}`, http.StatusBadRequest},
		{"bad json", http.MethodPost, "/api/catalog/books", `{"title":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := call(t, srv, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}

	resp = call(t, srv, http.MethodGet, "/api/catalog/orders", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]models.Order](t, resp), 4)
}

func TestCatalogAPIRequiresKey(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name          string
		method        string
		path          string
		body          string
		authorization string
	}{
		{"list without key", http.MethodGet, "/api/catalog/books", "", ""},
		{"create without key", http.MethodPost, "/api/catalog/books", `{"id":"x1","title":"Injected","author":"Y","category":"Fiction"}`, ""},
		{"update with wrong key", http.MethodPut, "/api/catalog/books/1", `{"title":"Defaced","author":"Y","category":"Fiction"}`, "Bearer wrong"},
		{"key without bearer scheme", http.MethodGet, "/api/catalog/orders", "", testCatalogKey},
		{"key prefix", http.MethodGet, "/api/catalog/books", "", "Bearer catalog-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callWithAuth(t, srv, tt.method, tt.path, tt.body, tt.authorization)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}

	// Nothing was written.
	resp := call(t, srv, http.MethodGet, "/api/catalog/books", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	books := decode[[]models.Book](t, resp)
	assert.Len(t, books, 3)
	for _, b := range books {
		assert.NotEqual(t, "Defaced", b.Title)
	}
}

func TestCatalogAPIDisabledWithoutKey(t *testing.T) {
	srv := newTestServerWith(t)

	resp := call(t, srv, http.MethodGet, "/api/catalog/books", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp = callWithAuth(t, srv, http.MethodPost, "/api/catalog/books", `{"title":"X","author":"Y","category":"Fiction"}`, "Bearer ")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// The session API is unaffected.
	login(t, srv)
}

func TestCatalogUpdateAssignsCover(t *testing.T) {
	srv := newTestServer(t)

	resp := call(t, srv, http.MethodPut, "/api/catalog/books/1", `{"title":"The Midnight Library","author":"Matt Haig","category":"Fiction"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	saved := decode[models.Book](t, resp)
	assert.Equal(t, "1", saved.ID)
	assert.NotEmpty(t, saved.CoverURL)
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	resp := call(t, srv, http.MethodGet, "/healthcheck", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "OK", string(body))

	resp = call(t, srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.Contains(body, []byte("bookadmin_http_requests_total")))
}
