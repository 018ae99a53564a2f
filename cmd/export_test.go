package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/luminabooks/bookadmin/internal/auth"
	"github.com/luminabooks/bookadmin/internal/snapshot"
	"github.com/luminabooks/bookadmin/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportSnapshots(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("STORE_READ_LATENCY", "0s")
	t.Setenv("SEED_FILE", "")

	tests := []struct {
		format string
		out    string
	}{
		{format: "yaml", out: filepath.Join(dir, "catalog.yaml")},
		{format: "parquet", out: filepath.Join(dir, "parquet")},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			root := NewRootCmd()
			root.SetArgs([]string{"export", "--format", tt.format, "--out", tt.out})
			root.SetOut(&bytes.Buffer{})
			root.SetErr(&bytes.Buffer{})
			require.NoError(t, root.Execute())

			snap, err := snapshot.Load(tt.out)
			require.NoError(t, err)
			assert.Equal(t, storage.DemoBooks(), snap.Books)
			assert.Equal(t, storage.DemoOrders(), snap.Orders)
		})
	}
}

func TestSeedFromExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	books := storage.DemoBooks()[:1]
	require.NoError(t, snapshot.SaveYAML(path, snapshot.New(books, nil)))

	got, orders, err := seedData(path)
	require.NoError(t, err)
	assert.Equal(t, books, got)
	assert.Empty(t, orders)
}

func TestHashPassword(t *testing.T) {
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetArgs([]string{"hash-password"})
	root.SetIn(strings.NewReader("s3cret\n"))
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	require.NoError(t, root.Execute())

	hash := strings.TrimSpace(out.String())
	v, err := auth.NewBcrypt("admin@luminabooks.com", hash)
	require.NoError(t, err)
	assert.NoError(t, v.Verify(t.Context(), auth.Credentials{Email: "admin@luminabooks.com", Password: "s3cret"}))
}
