package main

import (
	"context"
	"errors"
	nethttp "net/http"

	"golang.org/x/sync/errgroup"

	"github.com/SharathHarish/KExpenseTracker/internal/amqp"
	"github.com/SharathHarish/KExpenseTracker/internal/cli"
	"github.com/SharathHarish/KExpenseTracker/internal/engine"
	"github.com/SharathHarish/KExpenseTracker/internal/http"
	applog "github.com/SharathHarish/KExpenseTracker/internal/log"
	"github.com/SharathHarish/KExpenseTracker/internal/services"
)

func main() {
	logger := cli.SetupLogger()
	cli.LoadEnvFile()

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)

	var publisher services.EventPublisher
	if cfg.EventsEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			// Events are a side channel. The tracker stays usable without them.
			logger.Warn("AMQP unavailable, ledger events disabled", "error", err)
		} else {
			publisher = client
		}
	}

	ledger := services.NewLedgerService(repo, publisher)
	defer ledger.Close()

	reports := engine.New(repo)

	httpLogger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentHTTP)
	server := http.NewServer(":"+cfg.Port, ledger, reports, httpLogger)
	server.ReadTimeout = cfg.ReadTimeout
	server.WriteTimeout = cfg.WriteTimeout

	ctx, stop := cli.NotifyShutdown(logger)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting HTTP server",
			applog.FieldOperation, applog.OpStartup,
			"port", cfg.Port,
			"db", cfg.SQLiteDBPath)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := cli.ShutdownContext(cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Server exited with error", "error", err)
	}
	logger.Info("Shutdown complete", applog.FieldOperation, applog.OpShutdown)
}
