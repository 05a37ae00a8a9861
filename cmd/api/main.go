package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inventorio/inventory-api/internal/api"
	"github.com/inventorio/inventory-api/internal/api/handler"
	"github.com/inventorio/inventory-api/internal/infrastructure/config"
	"github.com/inventorio/inventory-api/internal/infrastructure/db/mongo"
	"github.com/inventorio/inventory-api/internal/infrastructure/db/redis"
	"github.com/inventorio/inventory-api/internal/infrastructure/identity"
	"github.com/inventorio/inventory-api/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx := context.Background()

	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := mongo.EnsureUserIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("user index bootstrap failed")
	}

	rdb, err := redis.Connect(ctx, cfg.Redis.Addr, cfg.Redis.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	provider := identity.NewGoogleProvider(identity.GoogleConfig{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		RedirectURL:  cfg.Google.RedirectURL,
		AuthURL:      cfg.Google.AuthURL,
		TokenURL:     cfg.Google.TokenURL,
		UserInfoURL:  cfg.Google.UserInfoURL,
		Scopes:       cfg.Google.Scopes,
		Timeout:      cfg.Google.Timeout,
	})

	e := api.NewRouter(db, rdb, provider, api.RouterConfig{
		Cookie: handler.CookieConfig{
			Name:   cfg.Session.CookieName,
			TTL:    cfg.Session.TTL,
			Secure: cfg.CookieSecure(),
		},
		StateTTL: cfg.Session.StateTTL,
	}, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("inventory api listening")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
