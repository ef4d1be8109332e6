package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"time"

	"dentops/internal/cases"
	"dentops/internal/catalog"
	"dentops/internal/platform/config"
	"dentops/internal/platform/httpserver"
	"dentops/internal/platform/logger"
	"dentops/internal/platform/metrics"
	platformredis "dentops/internal/platform/redis"
	"dentops/internal/platform/token"
	"dentops/internal/rules"
	httptransport "dentops/internal/transport/http"
	"dentops/internal/validation"
	validationmetrics "dentops/internal/validation/metrics"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps
// the server lifecycle small. Business logic lives in the internal
// packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	sessionCache := catalog.NewInMemoryCache(cfg.CatalogCacheTTL)
	sources := []catalog.Source{
		catalog.ByID("session-cache", sessionCache),
		catalog.ByBaseID("base-product-cache", sessionCache),
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis unavailable, continuing without it", "error", err)
	}
	if redisClient != nil {
		redisCache := catalog.NewRedisCache(redisClient.Client, cfg.CatalogCacheTTL)
		sources = append(sources,
			catalog.ByID("redis-cache", redisCache),
			catalog.ByBaseID("redis-base-cache", redisCache),
		)
		defer redisClient.Close()
	}

	if cfg.PostgresURL != "" {
		db, err := sql.Open("postgres", cfg.PostgresURL)
		if err != nil {
			log.Error("postgres unavailable, continuing without it", "error", err)
		} else {
			sources = append(sources, catalog.NewPostgresStore(db))
			defer db.Close()
		}
	}
	sources = append(sources, catalog.FirstAvailable(sessionCache))

	chain := catalog.NewChain(log, sources...)
	resolver := catalog.NewResolver(chain, log)
	engine := validation.New(rules.DefaultCatalog(), log, validationmetrics.New())

	caseStore := cases.NewInMemoryStore()
	audit := cases.NewPublisher(cases.NewInMemoryAuditStore())
	service := cases.NewService(caseStore, audit, resolver, engine, log)

	httpMetrics := metrics.New()
	validator := token.NewService(cfg.JWTSigningKey, "dentops")
	handler := httptransport.NewHandler(service, log, httpMetrics)
	router := httptransport.NewRouter(handler, validator, log, httpMetrics)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting dentops console", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
