// Package app builds the client's shared infrastructure from configuration.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/triviago/internal/auth"
	"github.com/gokatarajesh/triviago/internal/config"
	"github.com/gokatarajesh/triviago/internal/httpclient"
	"github.com/gokatarajesh/triviago/internal/logging"
	"github.com/gokatarajesh/triviago/internal/metrics"
	"github.com/gokatarajesh/triviago/internal/question"
	"github.com/gokatarajesh/triviago/internal/question/external"
	"github.com/gokatarajesh/triviago/internal/quiz"
	"github.com/gokatarajesh/triviago/internal/server"
	"github.com/gokatarajesh/triviago/internal/storage"
)

// Application aggregates the store, API clients and quiz engine.
type Application struct {
	Config *config.App
	Logger zerolog.Logger

	Store    storage.Store
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics

	Sessions  *auth.SessionStore
	Auth      *auth.Service
	Questions *question.Service
	Engine    *quiz.Engine

	redis *redis.Client
}

// New bootstraps the logger (writing to logOut), storage backend, metrics,
// HTTP clients and quiz engine.
func New(ctx context.Context, cfg *config.App, logOut io.Writer) (*Application, error) {
	logger := logging.New(logOut, cfg.Name, cfg.Env, cfg.LogLevel)
	logger.Debug().Str("storage", cfg.Storage.Backend).Msg("starting application bootstrap")

	a := &Application{
		Config:   cfg,
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
	}
	a.Registry.MustRegister(collectors.NewGoCollector())
	a.Metrics = metrics.New(a.Registry)

	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	a.Store = store

	a.Sessions = auth.NewSessionStore(store, logger)
	api := httpclient.New(httpclient.Options{
		Timeout: cfg.API.HTTPTimeout,
		Tokens:  a.Sessions,
		Metrics: a.Metrics,
	}, logger)

	a.Auth = auth.NewService(api, cfg.API.AuthRoot, cfg.API.AuthVersion, a.Sessions, logger)
	a.Questions = question.NewService(
		external.NewOpenTDBClient(cfg.API.OpenTDBRoot, api),
		question.NewCategoryCache(store, cfg.API.CategoryTTL),
		logger,
	)
	a.Engine = quiz.NewEngine(quiz.Options{
		Store:    store,
		Identity: a.Sessions,
		Metrics:  a.Metrics,
	}, logger)

	return a, nil
}

func (a *Application) openStore(ctx context.Context) (storage.Store, error) {
	switch a.Config.Storage.Backend {
	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     a.Config.Redis.Addr,
			DB:       a.Config.Redis.DB,
			PoolSize: a.Config.Redis.PoolSize,
		})
		store := storage.NewRedis(client, a.Config.Redis.KeyPrefix)
		if err := store.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.redis = client
		return store, nil
	case config.StorageMemory:
		return storage.NewMemory(), nil
	default:
		store, err := storage.NewFile(a.Config.Storage.FilePath)
		if err != nil {
			return nil, fmt.Errorf("open state file: %w", err)
		}
		return store, nil
	}
}

// MetricsServer returns the /healthz + /metrics server, or nil when
// METRICS_ADDR is unset.
func (a *Application) MetricsServer() *http.Server {
	if a.Config.MetricsAddr == "" {
		return nil
	}
	var pinger server.Pinger
	if p, ok := a.Store.(server.Pinger); ok {
		pinger = p
	}
	return server.NewHTTPServer(a.Config.MetricsAddr, a.Registry, pinger, a.Logger)
}

// Close releases the redis connection, if any.
func (a *Application) Close() error {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			return fmt.Errorf("close redis: %w", err)
		}
	}
	return nil
}
