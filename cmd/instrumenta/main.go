package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/mmcdole/instrumenta/internal/adapter"
	"github.com/mmcdole/instrumenta/internal/adapter/api"
	"github.com/mmcdole/instrumenta/internal/discovery"
	"github.com/mmcdole/instrumenta/internal/domain"
	"github.com/mmcdole/instrumenta/internal/entities"
	"github.com/mmcdole/instrumenta/internal/instruments"
	"github.com/mmcdole/instrumenta/internal/notify"
	"github.com/mmcdole/instrumenta/internal/observability/metrics"
	"github.com/mmcdole/instrumenta/internal/prefs"
	"github.com/mmcdole/instrumenta/internal/query"
	"github.com/mmcdole/instrumenta/internal/relations"
	"github.com/mmcdole/instrumenta/internal/store"
	"github.com/mmcdole/instrumenta/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

type flags struct {
	configPath  string
	check       bool
	near        bool
	writeConfig bool
	clearCache  bool
	version     bool
}

func main() {
	var f flags
	flag.StringVar(&f.configPath, "config", "", "path to config file")
	flag.BoolVar(&f.check, "check", false, "check server and database health, then exit")
	flag.BoolVar(&f.near, "near", false, "list localities around the configured map center, then exit")
	flag.BoolVar(&f.writeConfig, "write-config", false, "write the effective configuration, then exit")
	flag.BoolVar(&f.clearCache, "clear-cache", false, "remove persisted query results, then exit")
	flag.BoolVar(&f.version, "v", false, "print version")
	flag.BoolVar(&f.version, "version", false, "print version")
	flag.Parse()

	if f.version {
		fmt.Printf("instrumenta %s\n", Version)
		return
	}

	if err := run(f); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(f flags) error {
	cfg, err := adapter.LoadConfig(f.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := adapter.SetupLogger(&cfg.Logging, cfg.Debug)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)
	logger.Info("starting instrumenta", "version", Version, "api", cfg.API.BaseURL)

	switch {
	case f.writeConfig:
		path, err := adapter.SaveConfig(cfg, f.configPath)
		if err != nil {
			return err
		}
		fmt.Printf("Configuration written to %s\n", path)
		return nil
	case f.clearCache:
		if err := adapter.ClearCache(cfg.Cache.Dir); err != nil {
			return err
		}
		fmt.Println("Cache cleared")
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	interactive := term.IsTerminal(int(os.Stdout.Fd())) && !f.check && !f.near

	toasts := notify.NewQueue(notify.DefaultQueueSize)
	var notifier domain.Notifier = notify.NewLogNotifier(logger)
	if interactive {
		notifier = notify.NewMulti(notifier, toasts)
	}

	client, err := api.NewClient(api.Options{
		BaseURL:  cfg.API.BaseURL,
		Timeout:  cfg.API.Timeout,
		Debug:    cfg.Debug,
		Notifier: notifier,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create api client: %w", err)
	}

	if f.check {
		return printHealth(ctx, os.Stdout, client)
	}

	metrics.Init()
	if cfg.Metrics.Listen != "" {
		go serveMetrics(ctx, cfg.Metrics.Listen, logger)
	}

	queryStore, err := store.NewQueryStore(cfg.Cache.Dir, client.BaseURL())
	if err != nil {
		logger.Warn("persistent cache unavailable, using memory only", "error", err)
		queryStore, _ = store.NewQueryStore("", "")
	}
	defer queryStore.Close()

	cache := query.New(query.Config{
		GCTime:    cfg.Cache.GCTime,
		Persister: queryStore,
		Logger:    logger,
	})
	go cache.Run(ctx)

	instrumentSvc := instruments.NewService(client, cache, logger)
	entitySvc := entities.NewService(client, cache, logger)
	relationSvc := relations.NewService(client, cache, logger)

	if f.near {
		discoverySvc := discovery.NewService(client, cache, logger)
		return printNearby(ctx, os.Stdout, discoverySvc, cfg.Map)
	}

	if !interactive {
		return printOverview(ctx, os.Stdout, instrumentSvc, entitySvc, relationSvc)
	}

	p, err := prefs.Load(prefs.DefaultPath())
	if err != nil {
		logger.Warn("failed to load preferences", "error", err)
	}

	model := tui.NewModel(tui.Options{
		Instruments: instrumentSvc,
		Entities:    entitySvc,
		Cache:       cache,
		Toasts:      toasts,
		Prefs:       p,
		PrefsPath:   prefs.DefaultPath(),
		DevTools:    cfg.DevTools,
		Title:       cfg.App.Name,
		Logger:      logger,
	})

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	logger.Info("starting TUI")
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

func serveMetrics(ctx context.Context, addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics listener failed", "error", err)
	}
}
