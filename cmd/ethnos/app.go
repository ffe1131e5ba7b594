package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/ethnosapp/ethnos/internal/api"
	"github.com/ethnosapp/ethnos/internal/cache"
	"github.com/ethnosapp/ethnos/internal/config"
	"github.com/ethnosapp/ethnos/internal/docgen"
	"github.com/ethnosapp/ethnos/internal/download"
	"github.com/ethnosapp/ethnos/internal/export"
	"github.com/ethnosapp/ethnos/internal/list"
	"github.com/ethnosapp/ethnos/internal/logging"
	"github.com/ethnosapp/ethnos/internal/notify"
	"github.com/ethnosapp/ethnos/internal/storage"
)

// responseCacheKey is the KV key the API response cache persists under.
const responseCacheKey = "ethnos_response_cache"

// app wires the subsystems together once per invocation. Every command
// builds one instead of reaching for package-level singletons.
type app struct {
	cfg      *config.Config
	log      logging.Logger
	notifier notify.Notifier
	kv       *storage.SQLiteKV
	client   *api.Client
	list     *list.Store
	exporter *export.Exporter
}

// newApp loads configuration and opens the local database. Callers must
// Close the returned app.
func newApp() (*app, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logging.New(os.Stderr, parseLogLevel(cfg.LogLevel))
	notifier := &notify.Writer{Out: os.Stderr}

	kv, err := storage.OpenSQLite(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	respCache := cache.NewDurable[json.RawMessage](
		kv, responseCacheKey, cache.DefaultTTL, cache.DefaultMaxEntries, log)

	clientOpts := []api.ClientOption{
		api.WithCache(respCache),
		api.WithLogger(log),
	}
	if cfg.APIBaseURL != "" {
		clientOpts = append(clientOpts, api.WithBaseURL(cfg.APIBaseURL))
	}
	if cfg.APIKey != "" {
		clientOpts = append(clientOpts, api.WithAPIKey(cfg.APIKey))
	}
	client := api.NewClient(clientOpts...)

	store := list.NewStore(kv,
		list.WithLogger(log),
		list.WithNotifier(notifier),
		list.WithCountCallback(func(count int) {
			log.Debug(context.Background(), "personal list changed", "count", count)
		}),
	)

	exporter := export.New(client,
		&download.DirSaver{Dir: cfg.ExportDir},
		export.WithGenerator(docgen.TextGenerator{}),
		export.WithNotifier(notifier),
		export.WithLogger(log),
	)

	return &app{
		cfg:      cfg,
		log:      log,
		notifier: notifier,
		kv:       kv,
		client:   client,
		list:     store,
		exporter: exporter,
	}, nil
}

// mustApp builds the app or exits with a config error.
func mustApp() *app {
	a, err := newApp()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return a
}

func (a *app) Close() {
	if err := a.kv.Close(); err != nil {
		a.log.Warn(context.Background(), "closing database", "error", err)
	}
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
