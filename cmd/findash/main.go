package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"findash/internal/amqp"
	"findash/internal/cache"
	"findash/internal/cli"
	apphttp "findash/internal/http"
	"findash/internal/log"
	"findash/internal/services"
	"findash/internal/snapshot"
)

func main() {
	cfg, logger := cli.LoadAndValidateConfig(log.ComponentApp)

	backend := cli.OpenBackend(context.Background(), logger, cfg)
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Error("Backend close error", log.FieldError, err)
		}
	}()

	cacheManager := cache.NewManager(logger)
	defer cacheManager.Stop()
	if backend.Cache != nil {
		cacheManager.Register(backend.Cache)
		cacheManager.StartCleanup(cfg.CacheTTL)
	}

	var (
		notifier   *amqp.Notifier
		storeNotif snapshot.Notifier
	)
	if cfg.EventsEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
		defer client.Close()
		notifier = amqp.NewNotifier(client, cfg.EventBufferSize, logger)
		storeNotif = notifier
	} else {
		logger.Info("Change events disabled - no AMQP_URL provided")
	}

	stores, err := cli.BuildStores(backend.Medium, cfg, logger, storeNotif)
	if err != nil {
		logger.Error("Failed to build snapshot stores", log.FieldError, err)
		os.Exit(1)
	}

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Finance:            stores.Finance,
		Dashboard:          stores.Dashboard,
		Settings:           services.NewSettingsService(stores.Finance, logger),
		Views:              services.NewDashboardService(stores.Finance),
		Ready:              backend.Ready,
		Logger:             logger,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, ctx := errgroup.WithContext(cli.ShutdownContext(logger))

	g.Go(func() error {
		logger.Info("Starting findash server",
			"port", cfg.Port,
			log.FieldBackend, cfg.DataBackend,
			log.FieldPolicy, stores.Finance.Policy().String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if notifier != nil {
		g.Go(func() error { return notifier.Run(ctx) })
	}

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
