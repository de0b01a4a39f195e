package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carniceria/internal/config"
	"carniceria/internal/event"
	"carniceria/internal/infra"
	"carniceria/internal/repository"
	"carniceria/internal/router"
	"carniceria/internal/service"
	"carniceria/internal/worker"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	infra.SetupLogger(cfg.Env)

	db, err := infra.NewDatabase(cfg.DatabaseURL, infra.GormLogLevel(cfg.Env))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Warn().Err(err).Str("tz", cfg.Timezone).Msg("unknown TIMEZONE, using local time")
		loc = time.Local
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Email pipeline ───────────────────────────────────────────────────────
	templates, err := infra.NewMailTemplates()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load mail templates")
	}
	mailCB := infra.NewCircuitBreaker("smtp", infra.DefaultCBConfig())
	mailer := infra.NewMailer(cfg)
	dispatcher := worker.NewDispatcher(rdb)

	pool := worker.NewPool(rdb, map[string]worker.JobHandler{
		worker.JobTypeEmail: worker.NewEmailWorker(mailer, templates, mailCB),
	})
	pool.Start(ctx, cfg.WorkerPoolSize)

	// ── Stock monitor ────────────────────────────────────────────────────────
	// Reacts to committed stock changes and runs on the configured schedule.
	bus := event.NewBus()
	monitor := service.NewStockMonitor(repository.NewProductRepository(db), dispatcher, cfg.AlertRecipient)
	if err := bus.SubscribeStockChangedAsync(monitor.Handle); err != nil {
		log.Fatal().Err(err).Msg("failed to subscribe stock monitor")
	}
	if cfg.AlertRecipient == "" {
		log.Warn().Msg("ALERT_RECIPIENT not set, low stock alerts will be dropped")
	}

	scheduler, err := worker.StartScheduler(ctx, cfg.StockScanSchedule, loc, monitor)
	if err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.StockScanSchedule).Msg("invalid STOCK_SCAN_SCHEDULE")
	}

	r := router.New(cfg, db, rdb, router.Deps{Events: bus, Monitor: monitor, MailCB: mailCB})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("carniceria backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	if scheduler != nil {
		<-scheduler.Stop().Done()
	}
	bus.WaitAsync()
	cancel()
	_ = rdb.Close()
	log.Info().Msg("server exited")
}
