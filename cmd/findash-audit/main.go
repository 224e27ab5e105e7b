package main

import (
	"context"
	"errors"
	"os"

	"golang.org/x/sync/errgroup"

	"findash/internal/amqp"
	"findash/internal/cli"
	"findash/internal/core"
	"findash/internal/log"
	"findash/internal/services"
	"findash/internal/worker"
)

func main() {
	cfg, logger := cli.LoadAndValidateConfig(log.ComponentWorker)
	logger.Info("Starting findash-audit")

	if !cfg.EventsEnabled() {
		logger.Error("AMQP_URL is required for the audit worker")
		os.Exit(1)
	}

	// Change events come from other processes, so the medium is read
	// without a cache.
	backend := cli.OpenDirectBackend(context.Background(), logger, cfg)
	defer backend.Close()

	// Audits only peek at the medium and never publish change events.
	stores, err := cli.BuildStores(backend.Medium, cfg, logger, nil)
	if err != nil {
		logger.Error("Failed to build snapshot stores", log.FieldError, err)
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	auditor := worker.NewAuditWorker(map[string]worker.ViolationReporter{
		core.FinanceKey: services.NewDashboardService(stores.Finance),
	}, 100, logger)

	g, ctx := errgroup.WithContext(cli.ShutdownContext(logger))

	// Report violations that appeared while the worker was down.
	if err := auditor.StartupCheck(ctx); err != nil {
		logger.Error("Startup audit failed", log.FieldError, err)
	}

	g.Go(func() error {
		err := client.ConsumeSnapshotChanged(ctx, auditor.HandleSnapshotChanged)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Error("Message consumption failed", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("findash-audit stopped", "audited", len(auditor.History()))
}
