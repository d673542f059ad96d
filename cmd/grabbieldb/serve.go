package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/grabbiel/grabbieldb/config"
	"github.com/grabbiel/grabbieldb/render"
	"github.com/grabbiel/grabbieldb/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve [admin|media|all]",
	Short: "Start the admin and/or media servers",
	Long: `Start the table browser (admin), the media manager (media), or both (all,
the default). Both servers share the database connection and stop on
SIGINT or SIGTERM after in-flight requests finish.`,
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"admin", "media", "all"},
	RunE:      runServe,
}

func init() {
	serveCmd.Flags().String("admin-addr", "", "admin listen address (default: 127.0.0.1:8888)")
	serveCmd.Flags().String("media-addr", "", "media listen address (default: 127.0.0.1:8889)")
	serveCmd.Flags().Bool("auto-migrate", false, "create missing media tables before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	which := "all"
	if len(args) == 1 {
		which = args[0]
	}
	runAdmin := which == "admin" || which == "all"
	runMedia := which == "media" || which == "all"

	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(cmd.Context())

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	pages, err := render.New()
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}

	var servers []*server.Server

	if runAdmin {
		h := newAdminHandler(cfg, db, pages)
		servers = append(servers, server.New(cfg.Server.Listener(cfg.Admin.Addr), h.Router(), slog.Default().With("app", "admin")))
	}

	if runMedia {
		spool, err := openSpool(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() { _ = spool.Close() }()

		h, err := newMediaHandler(cfg, db, spool, pages)
		if err != nil {
			return err
		}
		servers = append(servers, server.New(cfg.Server.Listener(cfg.Media.Addr), h.Router(), slog.Default().With("app", "media")))
	}

	for _, srv := range servers {
		g.Go(func() error { return srv.ListenAndServe(ctx) })
	}

	slog.Info("serving", "apps", which)
	if err := g.Wait(); err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	slog.Info("shut down")
	return nil
}
