package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kestrel-systems/kestrel-collector/internal/artifacts"
	"github.com/kestrel-systems/kestrel-collector/internal/auth"
	"github.com/kestrel-systems/kestrel-collector/internal/catcher"
	"github.com/kestrel-systems/kestrel-collector/internal/config"
	"github.com/kestrel-systems/kestrel-collector/internal/handlers"
	"github.com/kestrel-systems/kestrel-collector/internal/limits"
	"github.com/kestrel-systems/kestrel-collector/internal/pipeline"
	"github.com/kestrel-systems/kestrel-collector/internal/registry"
	"github.com/kestrel-systems/kestrel-collector/internal/server"
	"github.com/kestrel-systems/kestrel-collector/internal/service"
	"github.com/kestrel-systems/kestrel-collector/internal/sink"
	"github.com/kestrel-systems/kestrel-collector/internal/sourcemap"
	"github.com/kestrel-systems/kestrel-collector/pkg/logging"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize structured logging
	logger := logging.New(
		logging.ParseLevel(cfg.Logging.Level),
		cfg.Logging.Format,
	).With(logging.Service("collector"))
	logging.SetDefault(logger)

	slog.Info("Starting collector service",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Logging.Level),
		slog.String("log_format", cfg.Logging.Format),
	)
	if *configPath != "" {
		slog.Info("Loaded configuration", slog.String("config_path", *configPath))
	}

	// Initialize project registry
	var projectRegistry registry.Registry
	switch cfg.Registry.Backend {
	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		pg, err := registry.NewPostgresRegistry(ctx, cfg.Registry.DSN)
		if err != nil {
			cancel()
			log.Fatalf("Failed to connect to project registry: %v", err)
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Printf("WARNING: Failed to ensure registry schema: %v", err)
		}
		cancel()
		defer pg.Close()
		projectRegistry = pg
		log.Println("Project registry backend: postgres")
	case "memory", "":
		projectRegistry = registry.NewInMemoryRegistry(cfg.Registry.Projects...)
		log.Printf("Project registry backend: memory (%d seeded projects)", len(cfg.Registry.Projects))
	default:
		log.Fatalf("Unknown registry backend: %s (supported: memory, postgres)", cfg.Registry.Backend)
	}

	// Optional read-through secret cache
	if cfg.Registry.Cache.Enabled {
		cached, err := registry.NewCachedRegistry(projectRegistry, cfg.Registry.Cache.RedisURL, cfg.Registry.Cache.TTL)
		if err != nil {
			log.Printf("WARNING: Failed to initialize registry cache: %v", err)
			log.Println("Continuing with uncached secret lookups")
		} else {
			projectRegistry = cached
			defer cached.Close()
			log.Printf("Registry secret cache enabled (TTL: %s)", cfg.Registry.Cache.TTL)
		}
	}

	// Initialize authenticator
	var authOpts []auth.Option
	if cfg.Auth.EnforceExpiry {
		authOpts = append(authOpts, auth.WithExpiryEnforcement())
		log.Println("Token expiry enforcement enabled")
	}
	authenticator := auth.New(projectRegistry, authOpts...)

	// Initialize event sink
	var eventSink sink.Sink
	switch cfg.Sink.Backend {
	case "jetstream":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		js, err := sink.NewJetStreamSink(ctx, cfg.Sink.NatsURL)
		cancel()
		if err != nil {
			log.Fatalf("Failed to initialize JetStream sink: %v", err)
		}
		eventSink = js
		log.Printf("Event sink enabled (backend: jetstream, nats: %s)", cfg.Sink.NatsURL)
	case "none", "":
		eventSink = sink.Noop{}
		log.Println("Event sink disabled - accepted events are not forwarded")
	default:
		log.Fatalf("Unknown sink backend: %s (supported: jetstream, none)", cfg.Sink.Backend)
	}
	defer eventSink.Close()

	// Initialize artifact storage
	artifactStore, err := artifacts.NewFilesystemStore(cfg.Artifacts.Path)
	if err != nil {
		log.Fatalf("Failed to initialize artifact storage: %v", err)
	}
	log.Printf("Artifact storage path: %s", cfg.Artifacts.Path)

	// Assemble the ingestion pipeline
	eventGovernor := limits.NewGovernor(cfg.Limits.MaxEventBytes)
	sourcemapGovernor := limits.NewGovernor(cfg.Limits.MaxSourcemapBytes)

	validationPipeline := pipeline.New(authenticator, eventGovernor)
	dispatcher := catcher.NewDispatcher(eventSink, cfg.Catchers.Strict, catcher.DefaultDecoders()...)
	intake := sourcemap.NewIntake(sourcemapGovernor)

	collectorService := service.NewCollectorService(
		validationPipeline,
		dispatcher,
		authenticator,
		intake,
		artifactStore,
		logger,
	)

	// Initialize HTTP handlers
	handler := handlers.NewCollectorHandler(collectorService, cfg.Limits.MaxBodyRead, logger)
	router := server.NewRouter(handler)

	// Create server with config values
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Collector service listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
