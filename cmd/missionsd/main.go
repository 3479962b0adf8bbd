package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cdrpl/missions/internal/server"
)

func main() {
	envFile, dropTables := parseFlags()

	if err := server.LoadEnv(envFile, server.VERSION); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := createLogger(os.Getenv("ENV"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	if err := run(log, dropTables); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}

func parseFlags() (envFile string, dropTables bool) {
	flag.StringVar(&envFile, "e", server.ENV_FILE, "path to the .env file. use -e nil to prevent .env file from being loaded")
	flag.BoolVar(&dropTables, "d", false, "this will cause all tables to be dropped then recreated during startup")
	flag.Parse()
	return
}

// Production logs at info level, every other environment at debug.
func createLogger(env string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if env != "production" {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	log, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return log, nil
}

// Postgres tables are managed here; the SQLite store creates its schema on open.
type tableManager interface {
	CreateTables(ctx context.Context) error
	DropTables(ctx context.Context) error
}

func run(log *zap.Logger, dropTables bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting server", zap.String("version", server.VERSION), zap.String("store", os.Getenv("STORE")))

	store, err := server.CreateStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	if tables, ok := store.(tableManager); ok {
		if dropTables {
			log.Info("dropping database tables")

			if err := tables.DropTables(ctx); err != nil {
				return fmt.Errorf("fail to drop tables: %w", err)
			}
		}

		if err := tables.CreateTables(ctx); err != nil {
			return fmt.Errorf("fail to create tables: %w", err)
		}
	}

	log.Info("creating session store", zap.String("sessions", os.Getenv("SESSIONS")))
	tokens, closeTokens, err := server.CreateTokenStore(ctx)
	if err != nil {
		return err
	}
	defer closeTokens()

	wsHub := server.CreateWsHub(os.Getenv("ALLOW_ORIGIN"), log.Named("ws"))
	go wsHub.Run()
	defer wsHub.Shutdown()

	if os.Getenv("RESET_ENABLED") != "false" {
		resetter := server.CreateMissionResetter(store, wsHub, log.Named("reset"))
		go resetter.Run(ctx)
	}

	controller := server.CreateController(store, tokens, wsHub, log)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%v", os.Getenv("PORT")),
		Handler:           server.CreateHandler(&controller, os.Getenv("ALLOW_ORIGIN")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		log.Info("binding HTTP server", zap.String("addr", "0.0.0.0"+httpServer.Addr))

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errs <- err
		}
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		log.Info("receive shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Info("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info("shutdown complete")
	return nil
}
