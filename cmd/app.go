package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/luminabooks/bookadmin/internal/auth"
	"github.com/luminabooks/bookadmin/internal/catalog"
	"github.com/luminabooks/bookadmin/internal/config"
	"github.com/luminabooks/bookadmin/internal/controller"
	"github.com/luminabooks/bookadmin/internal/describe"
	"github.com/luminabooks/bookadmin/internal/models"
	"github.com/luminabooks/bookadmin/internal/snapshot"
	"github.com/luminabooks/bookadmin/internal/storage"
	"github.com/luminabooks/bookadmin/internal/storage/sqlite"
)

// app holds the collaborators shared by the serve and console commands
type app struct {
	cfg        config.Config
	store      storage.Catalog
	generator  *describe.Generator
	controller *controller.Controller
	closers    []func() error
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	a := &app{cfg: cfg}

	store, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	a.store = store
	if closeStore != nil {
		a.closers = append(a.closers, closeStore)
	}

	a.generator, err = newGenerator(cfg.Describe)
	if err != nil {
		a.Close()
		return nil, err
	}

	verifier, err := newVerifier(cfg.Auth)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.controller = controller.New(store, verifier, controller.Options{
		LoadAttempts: cfg.Controller.LoadAttempts,
		LoadBackoff:  cfg.Controller.LoadBackoff,
		StoreTimeout: cfg.Controller.StoreTimeout,
		AccountName:  cfg.Controller.AccountName,
	})
	a.closers = append(a.closers, func() error {
		a.controller.Close()
		return nil
	})
	return a, nil
}

// Close releases resources in reverse order of acquisition
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			slog.Error("Failed to close resource", "err", err)
		}
	}
	a.closers = nil
}

// openStore builds the configured catalog backend. The returned close
// function may be nil.
func openStore(ctx context.Context, cfg config.Store) (storage.Catalog, func() error, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		books, orders, err := seedData(cfg.SeedFile)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("Using in-memory catalog", "read_latency", cfg.ReadLatency, "write_latency", cfg.WriteLatency, "books", len(books))
		return storage.NewMemory(
			storage.WithLatency(cfg.ReadLatency, cfg.WriteLatency),
			storage.WithData(books, orders),
		), nil, nil

	case config.BackendSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		books, orders, err := seedData(cfg.SeedFile)
		if err != nil {
			store.Close()
			return nil, nil, err
		}
		if err := store.Seed(ctx, books, orders); err != nil {
			store.Close()
			return nil, nil, err
		}
		slog.Info("Using SQLite catalog", "path", cfg.SQLitePath)
		return store, store.Close, nil

	case config.BackendRemote:
		slog.Info("Using remote catalog", "url", cfg.CatalogURL)
		return catalog.NewClient(cfg.CatalogURL, cfg.CatalogAPIKey), nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// seedData returns the snapshot at path, or the demo catalog when path is empty
func seedData(path string) ([]models.Book, []models.Order, error) {
	if path == "" {
		return storage.DemoBooks(), storage.DemoOrders(), nil
	}
	snap, err := snapshot.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load seed file: %w", err)
	}
	return snap.Books, snap.Orders, nil
}

func newGenerator(cfg config.Describe) (*describe.Generator, error) {
	provider, err := describe.NewProvider(describe.ProviderConfig{
		Name:         cfg.Provider,
		GeminiAPIKey: cfg.GeminiAPIKey,
		OpenAIAPIKey: cfg.OpenAIAPIKey,
		OpenAIURL:    cfg.OpenAIURL,
		OllamaURL:    cfg.OllamaURL,
	})
	if err != nil {
		return nil, err
	}
	return describe.New(provider, describe.Options{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		Timeout:     cfg.Timeout,
		PerMinute:   cfg.PerMinute,
	}), nil
}

func newVerifier(cfg config.Auth) (auth.Verifier, error) {
	if cfg.AdminEmail == "" {
		slog.Warn("No administrator configured; any email and password will be accepted")
		return auth.AcceptAll{}, nil
	}
	v, err := auth.NewBcrypt(cfg.AdminEmail, cfg.AdminPasswordHash)
	if err != nil {
		return nil, err
	}
	return v, nil
}
