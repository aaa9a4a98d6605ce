// kexpense-events tails the ledger event queue and logs each mutation,
// acknowledging as it goes. It is the consuming end of the events the
// server publishes on insert and delete.
package main

import (
	"os"

	"github.com/SharathHarish/KExpenseTracker/internal/amqp"
	"github.com/SharathHarish/KExpenseTracker/internal/cli"
	applog "github.com/SharathHarish/KExpenseTracker/internal/log"
)

func main() {
	logger := cli.SetupLogger()
	cli.LoadEnvFile()

	cfg := cli.LoadAndValidateConfig(logger)
	if !cfg.EventsEnabled() {
		logger.Error("AMQP_URL must be set to consume ledger events")
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to broker", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := cli.NotifyShutdown(logger)
	defer stop()

	logger.Info("Consuming ledger events",
		applog.FieldOperation, applog.OpStartup,
		"queue", cfg.AMQPQueue)

	err = client.ConsumeLedgerEvents(ctx, func(msg *amqp.LedgerEventMessage) error {
		logger.Info("Ledger event received",
			applog.FieldTxID, msg.ID,
			"action", msg.Action,
			"timestamp", msg.Timestamp)
		return nil
	})
	if err != nil && ctx.Err() == nil {
		logger.Error("Consumer stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("Shutdown complete", applog.FieldOperation, applog.OpShutdown)
}
