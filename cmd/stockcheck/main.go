// Command stockcheck runs one low-stock scan and exits. The notification is
// queued for the server's worker pool to deliver.
//
//	stockcheck              scan and queue one bundled alert
//	stockcheck -replay-dlq  also push failed email jobs back onto the queue
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"carniceria/internal/config"
	"carniceria/internal/infra"
	"carniceria/internal/repository"
	"carniceria/internal/service"
	"carniceria/internal/worker"

	"github.com/rs/zerolog/log"
)

func main() {
	replay := flag.Bool("replay-dlq", false, "requeue failed email jobs before scanning")
	flag.Parse()

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
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if *replay {
		n, err := worker.ReplayDLQ(ctx, rdb, worker.QueueEmail, 1000)
		if err != nil {
			log.Error().Err(err).Int("replayed", n).Msg("dlq replay failed")
		}
	}

	monitor := service.NewStockMonitor(repository.NewProductRepository(db), worker.NewDispatcher(rdb), cfg.AlertRecipient)
	n, err := monitor.Scan(ctx)
	if err != nil {
		log.Error().Err(err).Msg("stock check failed")
		os.Exit(1)
	}
	if n == 0 {
		log.Info().Msg("No hay productos con bajo stock.")
		return
	}
	log.Info().Int("products", n).Msg("Notificación de bajo stock enviada.")
}
