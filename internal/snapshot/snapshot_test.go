package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/luminabooks/bookadmin/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYAMLSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	snap := New(storage.DemoBooks(), storage.DemoOrders())

	require.NoError(t, SaveYAML(path, snap))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "cover_url: https://picsum.photos/200/300?random=1")
	assert.Contains(t, string(data), "customer_name: Alice Johnson")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, snap, loaded)
}

func TestParquetSnapshot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "export")
	snap := New(storage.DemoBooks(), storage.DemoOrders())

	require.NoError(t, SaveParquet(dir, snap))
	assert.FileExists(t, filepath.Join(dir, "books.parquet"))
	assert.FileExists(t, filepath.Join(dir, "orders.parquet"))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, snap.Books, loaded.Books)
	assert.Equal(t, snap.Orders, loaded.Orders)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "catalog.txt")
	require.NoError(t, os.WriteFile(txt, []byte("books: []"), 0644))

	tests := []struct {
		name string
		path string
	}{
		{name: "missing file", path: filepath.Join(dir, "nope.yaml")},
		{name: "unknown extension", path: txt},
		{name: "directory without parquet files", path: dir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			assert.Error(t, err)
		})
	}
}
