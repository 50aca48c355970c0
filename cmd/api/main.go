package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"otcrates-service/internal/bootstrap"
	"otcrates-service/internal/infrastructure/logx"

	"go.uber.org/zap"
)

func main() {
	logger := logx.L()
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, cleanup, err := bootstrap.InitApp(ctx)
	if err != nil {
		logger.Fatal("bootstrap", zap.Error(err))
	}
	defer cleanup()

	refresherDone := make(chan struct{})
	go func() {
		defer close(refresherDone)
		app.Refresher.Start(ctx)
	}()

	go func() {
		logger.Info("server started", zap.String("addr", app.HTTP.Addr))
		if err := app.HTTP.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shCancel := context.WithTimeout(context.Background(), app.Config.ShutdownTimeout)
	defer shCancel()
	_ = app.HTTP.Shutdown(shutdownCtx)

	cancel()
	<-refresherDone
	logger.Info("server stopped")
}
