package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Shourya125/dashboard/internal/config"
	dbRedis "github.com/Shourya125/dashboard/internal/db/redis"
	"github.com/Shourya125/dashboard/internal/domain/search/request"
	"github.com/Shourya125/dashboard/internal/domain/source"
	logpkg "github.com/Shourya125/dashboard/internal/logger"
	"github.com/Shourya125/dashboard/internal/metrics"
	documentrepo "github.com/Shourya125/dashboard/internal/repository/document"
	indexrepo "github.com/Shourya125/dashboard/internal/repository/index"
	searchrepo "github.com/Shourya125/dashboard/internal/repository/search"
	chiTransport "github.com/Shourya125/dashboard/internal/transport/chi"
	collectionuc "github.com/Shourya125/dashboard/internal/usecase/collection"
	documentuc "github.com/Shourya125/dashboard/internal/usecase/document"
	healthuc "github.com/Shourya125/dashboard/internal/usecase/health"
	searchuc "github.com/Shourya125/dashboard/internal/usecase/search"
	"github.com/Shourya125/dashboard/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting dashboard API server",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	registry, err := cfg.Registry()
	if err != nil {
		logger.Fatal("Invalid source configuration", zap.Error(err))
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	if cfg.Index.Bootstrap {
		if err := bootstrapIndexes(ctx, indexrepo.New(store), registry, logger); err != nil {
			logger.Fatal("Index bootstrap failed", zap.Error(err))
		}
	}

	// Registered explicitly, no init().
	metrics.RegisterHTTPMetrics()
	metrics.RegisterSearchMetrics()

	searchRepo := searchrepo.New(store, searchrepo.Options{
		Typos:  cfg.TypoTolerance(),
		Scorer: cfg.Search.Scorer,
	})
	docRepo := documentrepo.New(store)

	searchSvc := searchuc.New(searchRepo, registry, searchuc.Config{
		SourceTimeout: cfg.SourceTimeout(),
		SummarySize:   cfg.Search.SummarySize,
	})
	collSvc := collectionuc.New(searchRepo, registry)
	docSvc := documentuc.New(docRepo)
	healthSvc := healthuc.New(store, store, registry)

	server := chiTransport.NewServer(searchSvc, collSvc, docSvc, healthSvc, registry, request.Limits{
		DefaultLimit: cfg.Search.DefaultLimit,
		MaxLimit:     cfg.Search.MaxLimit,
		Location:     cfg.Location(),
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      chiTransport.NewRouter(server, logger, cfg.Auth.APIKeys),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// bootstrapIndexes creates every missing source index.
func bootstrapIndexes(ctx context.Context, repo *indexrepo.Repo, registry *source.Registry, logger *zap.Logger) error {
	for _, src := range registry.All() {
		created, err := repo.Ensure(ctx, src)
		if err != nil {
			return fmt.Errorf("ensure %s: %w", src.Type(), err)
		}
		if created {
			logger.Info("Created search index",
				zap.String("source", string(src.Type())),
				zap.String("index", src.Index()),
			)
		}
	}
	return nil
}
