package infra

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm/logger"
)

// SetupLogger configures the global zerolog logger: pretty console output in
// development, JSON with RFC3339 timestamps in production.
func SetupLogger(env string) {
	zerolog.TimeFieldFormat = time.RFC3339
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
		return
	}
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

// GormLogLevel picks how chatty the SQL log is for env.
func GormLogLevel(env string) logger.LogLevel {
	if env == "production" {
		return logger.Error
	}
	return logger.Warn
}
