package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	v1 "github.com/vmunix/arrfill/internal/api/v1"
	"github.com/vmunix/arrfill/internal/config"
	"github.com/vmunix/arrfill/internal/download"
	"github.com/vmunix/arrfill/internal/library"
	"github.com/vmunix/arrfill/internal/logging"
	"github.com/vmunix/arrfill/internal/metadata"
	"github.com/vmunix/arrfill/internal/metrics"
	"github.com/vmunix/arrfill/internal/pipeline"
	"github.com/vmunix/arrfill/internal/search"
	"github.com/vmunix/arrfill/internal/server"
	"github.com/vmunix/arrfill/pkg/sonarr"
	"github.com/vmunix/arrfill/pkg/tvdb"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the server and the periodic sync",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		if configPath == "" {
			var err error
			configPath, err = config.Discover()
			if errors.Is(err, config.ErrNotFound) {
				return fmt.Errorf("%w\nrun 'arrfill init' to create %s", err, config.DefaultPath())
			}
			if err != nil {
				return err
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runServe(ctx, configPath)
	},
}

func init() {
	serveCmd.Flags().StringP("config", "c", "", "Path to config file (default: discovered)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context, configPath string) error {
	// Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// Create logger
	logger, logCloser, err := logging.New(logging.Options{
		Level:      cfg.Server.LogLevel,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	}, os.Stdout)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	defer func() { _ = logCloser.Close() }()

	// Ensure database directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}

	// Open database (migrations run on open)
	db, err := library.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() { _ = db.Close() }()
	store := library.NewStore(db)

	// === Clients ===
	cache := metadata.NewCache(db)
	catalog := metadata.NewTVDBService(
		tvdb.New(cfg.TVDB.APIKey, tvdb.WithLanguage(cfg.TVDB.Language), tvdb.WithLogger(logger)),
		cache,
		logger,
	)
	sonarrClient := sonarr.New(cfg.Sonarr.URL, cfg.Sonarr.APIKey, sonarr.WithLogger(logger))
	prowlarr := search.NewProwlarrClient(cfg.Prowlarr.URL, cfg.Prowlarr.APIKey, logger)
	qbit := download.NewQBittorrent(download.QBittorrentConfig{
		URL:      cfg.QBittorrent.URL,
		Username: cfg.QBittorrent.Username,
		Password: cfg.QBittorrent.Password,
		SavePath: cfg.QBittorrent.SavePath,
	}, logger)

	// === Background pass ===
	m := metrics.New()
	sched := server.NewScheduler()
	pass := server.NewPass(server.PassDeps{
		Syncer:    pipeline.NewMissingSyncer(store, catalog, sonarrClient, logger),
		Stats:     pipeline.NewStatsImporter(store, qbit, logger),
		Exporter:  pipeline.NewExporter(store, sonarrClient, logger),
		ReGrabber: pipeline.NewReGrabber(store, prowlarr, qbit, logger),
		Pruner:    cache,
		Metrics:   m,
	}, sched, cfg.Scheduler.RetryDelay, logger)

	// === HTTP API ===
	api, err := v1.New(v1.ServerDeps{
		Library:   store,
		Searcher:  pipeline.NewSearcher(store, prowlarr, logger),
		Grabber:   pipeline.NewGrabber(store, prowlarr, qbit, logger),
		Releases:  pipeline.NewReleaseEditor(store, logger),
		Scheduler: sched,
		Metrics:   m,
		LogFile:   cfg.Log.File,
		Version:   version,
	}, logger)
	if err != nil {
		return fmt.Errorf("api: %w", err)
	}

	runnerCfg := server.Config{
		Addr:     fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		LockPath: cfg.Database.Path + ".lock",
	}
	if cfg.Scheduler.Enabled {
		runnerCfg.Interval = cfg.Scheduler.Interval
		runnerCfg.SyncOnStart = true
	}

	logger.Info("arrfill starting",
		"version", version,
		"config", configPath,
		"database", cfg.Database.Path,
		"scheduler", cfg.Scheduler.Enabled,
		"interval", cfg.Scheduler.Interval.String(),
		"log_level", cfg.Server.LogLevel,
	)

	return server.NewRunner(runnerCfg, sched, pass, api.Handler(), logger).Run(ctx)
}
