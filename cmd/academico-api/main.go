// main is the entry point of the Academico API.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file
//  2. Initialise the logger
//  3. Open (and set up) the SQLite database
//  4. Build the fixed credential store
//  5. Register all HTTP routes
//  6. Serve until SIGINT/SIGTERM, then shut down gracefully
//
// RUNNING THE SERVER:
//
//	go run ./cmd/academico-api --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/academico-api
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aanand-mishra/academico-api/internal/auth"
	"github.com/aanand-mishra/academico-api/internal/config"
	"github.com/aanand-mishra/academico-api/internal/http/router"
	"github.com/aanand-mishra/academico-api/internal/logger"
	"github.com/aanand-mishra/academico-api/internal/service"
	"github.com/aanand-mishra/academico-api/internal/storage/sqlite"
)

const version = "1.0.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "academico-api",
		Short:         "Students and courses records API",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// MustLoad exits on failure: if it returns, config is valid.
			cfg := config.MustLoad(configPath)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to the configuration YAML file")
	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	log, err := logger.New(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync(log)

	log.Info("starting academico-api",
		zap.String("env", cfg.Env),
		zap.String("version", version),
	)

	store, err := sqlite.New(cfg)
	if err != nil {
		log.Error("failed to initialise storage", zap.Error(err))
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("failed to close storage", zap.Error(err))
		}
	}()
	log.Info("storage initialised", zap.String("path", cfg.StoragePath))

	credentials, err := auth.NewDefaultStore()
	if err != nil {
		return errors.Wrap(err, "build credential store")
	}

	handler := router.New(router.Deps{
		Students:      service.NewStudentService(store, log),
		Courses:       service.NewCourseService(store),
		DB:            store,
		Authenticator: credentials,
		Logger:        log,
	})

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server started", zap.String("address", cfg.Addr))

		// ListenAndServe returns http.ErrServerClosed after Shutdown; that
		// is the normal way out.
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server encountered an error")
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, stopping server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		// Stops accepting connections and waits for in-flight requests.
		return errors.Wrap(server.Shutdown(shutdownCtx), "failed to shutdown server gracefully")
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", zap.Error(err))
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}
