package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/genricoloni/lyra/internal/config"
	"github.com/genricoloni/lyra/internal/domain"
	"github.com/genricoloni/lyra/internal/engine"
	"github.com/genricoloni/lyra/internal/fetcher"
	"github.com/genricoloni/lyra/internal/logging"
	"github.com/genricoloni/lyra/internal/metadata"
	"github.com/genricoloni/lyra/internal/navigation"
	"github.com/genricoloni/lyra/internal/nowplaying"
	"github.com/genricoloni/lyra/internal/scanner"
	"github.com/genricoloni/lyra/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// AppOptions is the dependency graph of the daemon
var AppOptions = fx.Options(
	fx.Provide(
		fx.Annotate(config.Load, fx.As(fx.Self()), fx.As(new(domain.Config))),
		newLogger,
		fx.Annotate(engine.NewQueue, fx.As(fx.Self()), fx.As(new(domain.Dispatcher))),
		fx.Annotate(scanner.NewCoverWriter, fx.As(fx.Self()), fx.As(new(fetcher.CoverStore))),
		fx.Annotate(newArtworkFetcher, fx.As(new(engine.ArtworkResolver))),
		fx.Annotate(scanner.NewTagScanner, fx.As(new(domain.MediaScanner))),
		newLibrary,
		func(l *storage.Library) domain.DataLoader { return l },
		newModel,
		navigation.NewCatalog,
		newMonitor,
		engine.NewEngine,
	),
	fx.Invoke(registerHooks),
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the daemon until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(cmd.Context())
		},
	}
}

func runDaemon(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}

	app := fx.New(
		AppOptions,
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
	)

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	return app.Stop(context.Background())
}

// newLogger creates the zap logger from the loaded configuration
func newLogger(cfg *config.AppConfig) (*zap.Logger, error) {
	return logging.New(logging.DefaultConfig(cfg.GetLogLevel(), cfg.GetLogFile()))
}

// newLibrary opens the database and closes it when the app stops
func newLibrary(
	lc fx.Lifecycle,
	logger *zap.Logger,
	cfg domain.Config,
	scanner domain.MediaScanner,
	dispatcher domain.Dispatcher,
) (*storage.Library, error) {
	lib, err := storage.Open(context.Background(), logger.Named("storage"), cfg.GetDatabasePath(), scanner, dispatcher)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return lib.Close()
		},
	})
	return lib, nil
}

func newModel(
	logger *zap.Logger,
	loader domain.DataLoader,
	scanner domain.MediaScanner,
	dispatcher domain.Dispatcher,
) *metadata.Editable {
	return metadata.NewEditable(logger.Named("metadata"), loader, scanner, dispatcher)
}

func newArtworkFetcher(logger *zap.Logger, covers fetcher.CoverStore) *fetcher.ArtworkFetcher {
	return fetcher.NewArtworkFetcher(logger.Named("fetcher"), covers)
}

func newMonitor(logger *zap.Logger) domain.Monitor {
	return nowplaying.NewFollower(logger.Named("nowplaying"))
}

// registerHooks sets up application lifecycle hooks
func registerHooks(lc fx.Lifecycle, logger *zap.Logger, cfg *config.AppConfig, e *engine.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			cfg.Log(logger)
			logger.Info("Lyra Daemon Started")
			return e.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down")
			return e.Stop(ctx)
		},
	})
}
