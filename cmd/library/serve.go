package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/bookshelf/library-system/internal/api"
	"github.com/bookshelf/library-system/internal/api/handler"
	"github.com/bookshelf/library-system/internal/core/service"
	"github.com/bookshelf/library-system/internal/infrastructure/db/redis"
	"github.com/bookshelf/library-system/pkg/logger"
)

func newServeCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "create the schema before serving")
	return cmd
}

func serve(ctx context.Context, migrate bool) error {
	cfg, log, err := bootstrap(ctx)
	if err != nil {
		return err
	}

	store, err := openStorage(ctx, cfg, log, migrate)
	if err != nil {
		log.Error().Err(err).Msg("storage unavailable")
		return err
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("close storage")
		}
	}()

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		log.Error().Err(err).Msg("redis unavailable")
		return err
	}
	defer rdb.Close()

	tokens := redis.NewTokenStore(rdb, cfg.Auth.TokenTTL)

	e := api.NewRouter(api.Dependencies{
		Logger:   log,
		Resolver: service.NewIdentityResolver(tokens, store.Users),
		Auth:     service.NewAuthService(store.Users, tokens, logger.Component("auth")),
		Users:    service.NewUserService(store.Users, logger.Component("users")),
		Books:    service.NewBookService(store.Books, logger.Component("books")),
		Checkouts: service.NewCheckoutService(store.Checkouts, logger.Component("checkouts"),
			service.WithReturnRequiresBorrower(cfg.Auth.ReturnRequiresBorrower)),
		Readiness: map[string]handler.PingFunc{
			store.Driver: store.Ping,
			"redis":      tokens.Ping,
		},
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http server failed")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}
	return nil
}
