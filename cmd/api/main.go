package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"

	"github.com/zhouzirui/misinfo-check/backend/internal/app"
	"github.com/zhouzirui/misinfo-check/backend/internal/config"
	"github.com/zhouzirui/misinfo-check/backend/internal/handler"
	"github.com/zhouzirui/misinfo-check/backend/internal/metrics"
	"github.com/zhouzirui/misinfo-check/backend/internal/store/chatlog"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if loadErr := godotenv.Load(); loadErr != nil {
		slog.Warn("failed to load .env file, continuing with system environment variables only", "error", loadErr)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, closeLog := config.SetupLogger(cfg.Log)
	slog.SetDefault(logger)
	defer func() {
		if closeErr := closeLog(); closeErr != nil {
			err = multierror.Append(err, closeErr).ErrorOrNil()
		}
	}()

	store, err := chatlog.Open(cfg.Store.ChatLogPath)
	if err != nil {
		return err
	}
	logger.Info("chat log loaded", "path", store.Path(), "messages", store.Len())

	collector := metrics.NewCollector()
	pipeline, err := app.NewPipeline(ctx, cfg, collector, logger)
	if err != nil {
		return err
	}
	logger.Info("check pipeline initialized",
		"provider", cfg.AI.Provider,
		"model", cfg.AI.Model,
		"search_engine", cfg.Search.Engine,
	)
	if cfg.AI.Provider == config.ProviderGroq && cfg.AI.APIKey == "" {
		logger.Warn("GROQ_API_KEY is not set, completions will fail")
	}

	router := handler.NewRouter(pipeline.Check, collector.Handler(), logger)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("misinformation check backend listening", "addr", cfg.Server.Addr)
	return runServer(ctx, srv)
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var result *multierror.Error
		if err := srv.Shutdown(shutdownCtx); err != nil {
			result = multierror.Append(result, err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			result = multierror.Append(result, err)
		}
		return result.ErrorOrNil()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
