package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/akngest/internal/api"
	"github.com/dgallion1/akngest/internal/config"
	"github.com/dgallion1/akngest/internal/convert"
	"github.com/dgallion1/akngest/internal/pathstore"
	"github.com/dgallion1/akngest/internal/pipeline"
	"github.com/dgallion1/akngest/internal/store"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.ValidateServer(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	opts, err := convert.FromConfig(cfg)
	if err != nil {
		log.Error("invalid conversion settings", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Optional publishing and run history.
	var (
		ps        *pathstore.Client
		publisher pipeline.Publisher
		catalog   api.Catalog
	)
	if cfg.PublishEnabled {
		ps = pathstore.NewClient(cfg.PathstoreURL, cfg.PathstoreAPIKey)
		publisher, catalog = ps, ps
	}
	var history store.History
	if cfg.HistoryDB != "" {
		db, err := store.NewSQLiteStore(cfg.HistoryDB)
		if err != nil {
			log.Error("open history database", "path", cfg.HistoryDB, "error", err)
			os.Exit(1)
		}
		history = db
	}

	orch := pipeline.NewOrchestrator(cfg, opts, publisher, history, log)
	orch.Start(ctx)

	srv := api.NewServer(orch, catalog, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if ps != nil {
			ps.Close()
		}
		if history != nil {
			history.Close()
		}
	}()

	log.Info("starting akngest",
		"port", cfg.Port,
		"publish", cfg.PublishEnabled,
		"history", cfg.HistoryDB,
		"conference", cfg.Conference.Actor+"/"+cfg.Conference.Date,
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
