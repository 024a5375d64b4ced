package main

import (
	"context"
	"errors"
	"os"

	"ledgerbook/internal/amqp"
	"ledgerbook/internal/cli"
	"ledgerbook/internal/log"
	"ledgerbook/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	cfg := cli.LoadAndValidateConfig(true)
	logger := cli.SetupLogger(cfg, log.ComponentWorker)

	logger.Info("Starting ledgerbook-worker",
		"source", cfg.Source,
		"queue", cfg.AMQPQueue,
		"archive", cfg.SQLiteDBPath != "")

	svc, err := cli.NewReportService(context.Background(), logger, cfg)
	if err != nil {
		logger.Error("Failed to initialize report service", log.FieldError, err)
		os.Exit(1)
	}

	// Initialize AMQP client for consuming requests and publishing completions
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		svc.Close()
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func() {
		if err := amqpClient.Close(); err != nil {
			logger.Warn("AMQP close failed", log.FieldError, err)
		}
		if err := svc.Close(); err != nil {
			logger.Warn("Report service close failed", log.FieldError, err)
		}
	})
	ctx = log.WithContext(ctx, logger)

	reportWorker := worker.NewReportWorker(svc, amqpClient)

	go func() {
		err := amqpClient.ConsumeReportRequests(ctx, reportWorker.HandleReportRequest)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", log.FieldError, err)
		}
	}()

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped", log.FieldOperation, log.OpShutdown)
}
