package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"carniceria/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ── General API rate limiter ──────────────────────────────────────────────────

// rateEntry tracks request counts per IP for the general API limiter.
type rateEntry struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

var (
	apiRateMap   = make(map[string]*rateEntry)
	apiRateMapMu sync.Mutex
)

// RateLimiter returns a fixed-window limiter allowing limit requests per
// window per client IP. The counter map is purged in the background.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		apiRateMapMu.Lock()
		entry, exists := apiRateMap[ip]
		if !exists {
			entry = &rateEntry{}
			apiRateMap[ip] = entry
		}
		apiRateMapMu.Unlock()

		entry.mu.Lock()
		now := time.Now()
		if now.After(entry.windowEnd) {
			entry.count = 0
			entry.windowEnd = now.Add(window)
		}
		entry.count++
		exceeded := entry.count > limit
		retryAfter := int(entry.windowEnd.Sub(now).Seconds()) + 1
		entry.mu.Unlock()

		if exceeded {
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}

// ── Purge goroutine ───────────────────────────────────────────────────────────
// Periodically drops expired entries so IPs that never return do not pile up.

const purgeInterval = 5 * time.Minute

func init() {
	go purgeExpiredEntries()
}

func purgeExpiredEntries() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for now := range ticker.C {
		purged, remaining := purgeBefore(now)
		if purged > 0 {
			log.Debug().
				Int("entries_purged", purged).
				Int("entries_remaining", remaining).
				Msg("rate limiter map purged")
		}
	}
}

// purgeBefore removes every entry whose window ended before now.
func purgeBefore(now time.Time) (purged, remaining int) {
	apiRateMapMu.Lock()
	defer apiRateMapMu.Unlock()
	for ip, entry := range apiRateMap {
		entry.mu.Lock()
		if now.After(entry.windowEnd) {
			delete(apiRateMap, ip)
			purged++
		}
		entry.mu.Unlock()
	}
	return purged, len(apiRateMap)
}
