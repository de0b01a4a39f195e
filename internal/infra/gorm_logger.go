package infra

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormLogger routes GORM's query log into the global zerolog logger.
type GormLogger struct {
	level         logger.LogLevel
	slowThreshold time.Duration
}

// NewGormLogger returns a logger emitting at level; queries slower than
// slowThreshold are logged as warnings.
func NewGormLogger(level logger.LogLevel, slowThreshold time.Duration) *GormLogger {
	return &GormLogger{level: level, slowThreshold: slowThreshold}
}

func (l *GormLogger) LogMode(level logger.LogLevel) logger.Interface {
	cp := *l
	cp.level = level
	return &cp
}

func (l *GormLogger) Info(_ context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Info {
		log.Info().Msgf(msg, args...)
	}
}

func (l *GormLogger) Warn(_ context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Warn {
		log.Warn().Msgf(msg, args...)
	}
}

func (l *GormLogger) Error(_ context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Error {
		log.Error().Msgf(msg, args...)
	}
}

// Trace logs one executed statement. Record-not-found is expected control flow
// in the repositories and is not reported as an error.
func (l *GormLogger) Trace(_ context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)

	switch {
	case err != nil && l.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		log.Error().Err(err).Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("gorm query failed")
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= logger.Warn:
		sql, rows := fc()
		log.Warn().Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("gorm slow query")
	case l.level >= logger.Info:
		sql, rows := fc()
		log.Debug().Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("gorm query")
	}
}
