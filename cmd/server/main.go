package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dotchase/dot-chase-backend/internal/arena"
	"github.com/dotchase/dot-chase-backend/internal/config"
	"github.com/dotchase/dot-chase-backend/internal/game"
	"github.com/dotchase/dot-chase-backend/internal/httpapi"
	"github.com/dotchase/dot-chase-backend/internal/spawner"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	world := game.NewWorld(cfg.GameDuration, cfg.MaxPowerUps)
	a := arena.New(ctx, world, logger)
	sp := spawner.New(a, cfg.PowerUpInterval, cfg.FieldWidth, cfg.FieldHeight, logger)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: httpapi.SetupRoutes(a, logger),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return sp.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		a.Inbox() <- arena.Shutdown{}
		return srv.Shutdown(context.Background())
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("server exited", zap.Error(err))
	}
}
