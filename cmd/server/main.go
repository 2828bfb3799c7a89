package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"gemini-proxy-go/internal/config"
	"gemini-proxy-go/internal/constants"
	"gemini-proxy-go/internal/identity"
	"gemini-proxy-go/internal/logging"
	"gemini-proxy-go/internal/monitoring/tracing"
	srv "gemini-proxy-go/internal/server"
	"gemini-proxy-go/internal/service"
	"gemini-proxy-go/internal/stats"
	"gemini-proxy-go/internal/storage"
	"gemini-proxy-go/internal/upstream/gemini"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	debug := flag.Bool("debug", false, "Enable debug mode")
	flag.Parse()

	cfg, err := config.LoadWithFile(*configPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	if *debug {
		cfg.Debug = true
	}

	if err := logging.Setup(cfg); err != nil {
		log.WithError(err).Fatal("failed to configure logging")
	}

	traceShutdown, err := tracing.Init(context.Background())
	if err != nil {
		log.WithError(err).Warn("failed to initialize tracing")
	}
	if traceShutdown != nil {
		defer func() {
			if err := traceShutdown(context.Background()); err != nil {
				log.WithError(err).Warn("failed to shutdown tracing")
			}
		}()
	}

	log.Infof("Starting %s %s (config: %s, mode: %s)",
		constants.ServiceName, constants.ServiceVersion, *configPath, cfg.CredentialMode)

	backend := buildStorageBackend(cfg)
	defer func() { _ = backend.Close() }()
	usage := stats.NewUsageStats(backend)

	resolver := buildResolver(cfg)
	svc := service.New(resolver, gemini.New(cfg))

	engine := srv.BuildEngine(cfg, srv.Dependencies{
		Service: svc,
		Usage:   usage,
		Storage: backend,
	})

	addr := ":" + strconv.Itoa(cfg.Port)
	httpSrv := &http.Server{Addr: addr, Handler: engine}
	go func() {
		log.Infof("Proxy listening on %s", addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("http server: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("Shutdown signal received")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), constants.ServerShutdownTimeout)
	defer cancelShutdown()
	_ = httpSrv.Shutdown(shutdownCtx)

	time.Sleep(constants.ServerGracefulWait)
	log.Info("Server stopped")
}

// buildStorageBackend prefers Redis when an address is configured and falls
// back to in-memory counters when Redis cannot be reached at startup.
func buildStorageBackend(cfg *config.Config) storage.Backend {
	if cfg.RedisAddr == "" {
		log.Info("Usage stats: in-memory backend")
		return storage.NewMemoryBackend()
	}

	rb := storage.NewRedisBackend(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisPrefix)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rb.Initialize(ctx); err != nil {
		log.WithError(err).Warn("Redis unreachable, falling back to in-memory usage stats")
		_ = rb.Close()
		return storage.NewMemoryBackend()
	}
	log.Infof("Usage stats: redis backend at %s", cfg.RedisAddr)
	return rb
}

// buildResolver selects the credential strategy for the process lifetime.
// Service identity bootstraps once here; a failure degrades to per-request
// configuration errors instead of crashing.
func buildResolver(cfg *config.Config) service.Resolver {
	if !cfg.IsServiceIdentity() {
		return service.NewCallerKeyResolver(cfg)
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.IdentityBootstrapTimeout)
	defer cancel()
	state := identity.Bootstrap(ctx, cfg)
	if err := state.Err(); err != nil {
		log.WithError(err).Error("service identity bootstrap failed; requests will be rejected until restart")
	} else {
		log.Infof("Service identity ready (project: %s)", state.ProjectID())
	}
	return service.NewServiceIdentityResolver(cfg, state)
}
