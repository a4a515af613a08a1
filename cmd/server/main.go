package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/atang-sp/flying-chess/internal/game"
	"github.com/atang-sp/flying-chess/internal/session"
	"github.com/atang-sp/flying-chess/internal/settings"
	"github.com/atang-sp/flying-chess/internal/transfer"
	"github.com/atang-sp/flying-chess/internal/web"

	"go.uber.org/zap"
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func newLogger() (*zap.Logger, error) {
	if os.Getenv("FLYINGCHESS_DEBUG") != "" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	logger, err := newLogger()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	setup := game.DefaultSetup()
	if path := os.Getenv("FLYINGCHESS_SETUP"); path != "" {
		s, err := game.LoadSetup(path)
		if err != nil {
			return err
		}
		setup = *s
	}

	db, err := session.OpenSQLite(getenv("FLYINGCHESS_DB", "flyingchess.db"))
	if err != nil {
		return err
	}
	defer db.Close()

	cache, err := settings.NewSQLite(ctx, db, logger)
	if err != nil {
		return err
	}

	srv := &web.Server{
		Store:    session.NewMemoryStore[game.Game](),
		Settings: cache,
		Transfer: transfer.New(cache, logger),
		Setup:    setup,
		Rand:     game.CryptoSource(),
		Logger:   logger,
	}

	addr := ":" + getenv("PORT", "8080")
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr))
		errc <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return httpSrv.Shutdown(shutdownCtx)
}
