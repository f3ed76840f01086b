package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bookshelf/library-system/internal/infrastructure/config"
	"github.com/bookshelf/library-system/internal/infrastructure/storage"
	"github.com/bookshelf/library-system/pkg/logger"
)

const serviceName = "library-api"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "library",
		Short:        "Library lending backend",
		Version:      version,
		SilenceUsage: true,
	}

	root.AddCommand(newServeCmd(), newMigrateCmd(), newCreateAdminCmd())
	return root
}

// bootstrap loads configuration and initialises the process logger.
func bootstrap(ctx context.Context) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
		Version: version,
	})
	return cfg, log, nil
}

// openStorage connects the configured backend and, when asked, creates its
// schema.
func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger, migrate bool) (*storage.Storage, error) {
	store, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	log.Info().Str("driver", store.Driver).Msg("storage connected")

	if migrate {
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close(ctx)
			return nil, fmt.Errorf("migrate: %w", err)
		}
		log.Info().Str("driver", store.Driver).Msg("schema up to date")
	}
	return store, nil
}
