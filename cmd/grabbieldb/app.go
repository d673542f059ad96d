package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/grabbiel/grabbieldb"
	"github.com/grabbiel/grabbieldb/config"
	"github.com/grabbiel/grabbieldb/database"
	"github.com/grabbiel/grabbieldb/filesystem"
	grabbielhttp "github.com/grabbiel/grabbieldb/http"
	"github.com/grabbiel/grabbieldb/objectstore"
	"github.com/grabbiel/grabbieldb/render"
)

func openDatabase(ctx context.Context, cfg *config.Config) (database.Database, error) {
	db, err := database.Open(ctx, cfg.Database.Config, cfg.Database.AutoMigrate)
	if err != nil {
		return nil, err
	}

	slog.Info("connected to database", "type", cfg.Database.Type, "migrated", cfg.Database.AutoMigrate)
	return db, nil
}

func handlerConfig(cfg *config.Config) *grabbielhttp.HandlerConfig {
	return &grabbielhttp.HandlerConfig{
		CORS:   cfg.CORS,
		Logger: slog.Default(),
	}
}

func newAdminHandler(cfg *config.Config, db database.Database, pages *render.Renderer) *grabbielhttp.AdminHandler {
	browser := grabbieldb.NewTableBrowser(db.SchemaRepo(), cfg.Admin.PageSize)
	return grabbielhttp.NewAdminHandler(handlerConfig(cfg), browser, pages)
}

// openSpool creates the spool directory and drops files older than
// spool.max_age left behind by interrupted uploads.
func openSpool(ctx context.Context, cfg *config.Config) (*filesystem.Store, error) {
	spool, err := filesystem.Open(cfg.Spool.Path, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("open spool: %w", err)
	}

	if cfg.Spool.MaxAge > 0 {
		removed, err := spool.Prune(ctx, time.Now().Add(-cfg.Spool.MaxAge))
		if err != nil {
			slog.Warn("spool prune failed", "path", spool.Dir(), "err", err)
		} else if removed > 0 {
			slog.Info("pruned spool", "path", spool.Dir(), "removed", removed)
		}
	}

	return spool, nil
}

func newMediaHandler(cfg *config.Config, db database.Database, spool *filesystem.Store, pages *render.Renderer) (*grabbielhttp.MediaHandler, error) {
	store := &objectstore.CLI{
		Command: cfg.ObjectStore.Command,
		Timeout: cfg.ObjectStore.Timeout,
		Logger:  slog.Default(),
	}

	service, err := grabbieldb.NewMediaService(db.MediaRepo(), spool, store, grabbieldb.MediaConfig{
		PublicBucket:  cfg.ObjectStore.PublicBucket,
		PrivateBucket: cfg.ObjectStore.PrivateBucket,
		PublicURLBase: cfg.ObjectStore.PublicURLBase,
		RecentLimit:   cfg.Media.RecentLimit,
		Logger:        slog.Default(),
	})
	if err != nil {
		return nil, fmt.Errorf("create media service: %w", err)
	}

	return grabbielhttp.NewMediaHandler(handlerConfig(cfg), service, pages), nil
}
