package handler

import (
	"context"
	"net/http"
	"time"

	"carniceria/internal/infra"
	"carniceria/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// Checks DB and Redis connectivity and reports the SMTP circuit state and
// the email DLQ size; never exposes credentials or internals.
func Health(db *gorm.DB, rdb *redis.Client, mailCB *infra.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		var dlq int64
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		} else if n, err := worker.DLQLength(ctx, rdb, worker.QueueEmail); err == nil {
			dlq = n
		}

		mailStatus, mailFailures := "unknown", 0
		if mailCB != nil {
			mailStatus = mailCB.State().String()
			mailFailures = mailCB.Failures()
		}

		// The mail circuit only degrades notifications, not sales.
		status := http.StatusOK
		if dbStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":            status == http.StatusOK,
			"db":            dbStatus,
			"redis":         redisStatus,
			"mail":          mailStatus,
			"mail_failures": mailFailures,
			"email_dlq":     dlq,
		})
	}
}
