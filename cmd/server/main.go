// Command server runs the lokal completion gateway.
//
// Configuration is loaded from a YAML file with environment overrides:
//
//	LOKAL_CONFIG     - Path to the config file (optional)
//	LOKAL_PORT       - Listen port (default: 8080)
//	LOKAL_ENGINE     - Engine binding (default: "echo")
//	LOKAL_MODEL      - Default model name (optional)
//	LOKAL_AUTH       - Auth type: "none" or "apikey"
//	LOKAL_DEBUG      - Debug categories (e.g. "providers,engine")
//	LOKAL_LOG_LEVEL  - Log level (ERROR, WARN, INFO, DEBUG, TRACE)
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rhuss/lokal/pkg/auth"
	"github.com/rhuss/lokal/pkg/config"
	"github.com/rhuss/lokal/pkg/debug"
	_ "github.com/rhuss/lokal/pkg/inference/echo"
	"github.com/rhuss/lokal/pkg/provider/local"
	"github.com/rhuss/lokal/pkg/storage/memory"
	"github.com/rhuss/lokal/pkg/transport"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	debug.Init(cfg.Debug.Categories, cfg.Debug.Level)

	// Create the provider over the configured engine binding.
	prov, err := local.New(local.Config{
		Engine:    cfg.Engine.Type,
		Options:   cfg.Engine.Options,
		Templates: cfg.Engine.Templates,
	})
	if err != nil {
		return fmt.Errorf("creating provider: %w", err)
	}
	defer prov.Close()

	// Create optional store.
	var store *memory.Store
	if cfg.Storage.Enabled {
		store = memory.New(cfg.Storage.MaxSize)
		slog.Info("storage enabled", "type", "memory", "max_size", cfg.Storage.MaxSize)
	} else {
		slog.Info("storage disabled")
	}

	// Create optional authenticator.
	var authenticator auth.Authenticator
	if cfg.Auth.Type == "apikey" {
		entries := make([]auth.RawKeyEntry, 0, len(cfg.Auth.APIKeys))
		for _, k := range cfg.Auth.APIKeys {
			entries = append(entries, auth.RawKeyEntry{Key: k.Key, Subject: k.Subject})
		}
		authenticator = auth.NewAPIKeyAuthenticator(entries)
		slog.Info("authentication enabled", "type", "apikey", "keys", len(entries))
	}

	handler := &transport.Handler{
		Provider:     prov,
		DefaultModel: cfg.Engine.DefaultModel,
	}
	if store != nil {
		handler.Store = store
	}

	metricsPath := ""
	if cfg.Observability.Metrics.Enabled {
		metricsPath = cfg.Observability.Metrics.Path
	}

	srv := transport.NewServer(handler, transport.ServerConfig{
		Addr:            fmt.Sprintf(":%d", cfg.Server.Port),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Authenticator:   authenticator,
		MetricsPath:     metricsPath,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("server starting",
		"port", cfg.Server.Port,
		"engine", cfg.Engine.Type,
		"model", cfg.Engine.DefaultModel,
	)
	return srv.Run(ctx)
}
