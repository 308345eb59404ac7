package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/sfoudy/golf-sweepstakes/pkg/utils"
)

// RateLimit caps requests per client IP with a token bucket. The field
// endpoint is polled by every open dashboard; the limiter keeps one
// misbehaving client from starving the rest.
func RateLimit(rps, burst int) gin.HandlerFunc {
	type clientLimiter struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}

	var (
		mu      sync.Mutex
		clients = make(map[string]*clientLimiter)
	)

	// Drop limiters for clients idle longer than 10 minutes.
	go func() {
		for range time.Tick(time.Minute) {
			mu.Lock()
			for ip, client := range clients {
				if time.Since(client.lastSeen) > 10*time.Minute {
					delete(clients, ip)
				}
			}
			mu.Unlock()
		}
	}()

	return func(c *gin.Context) {
		ip := c.ClientIP()

		mu.Lock()
		client, ok := clients[ip]
		if !ok {
			client = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
			clients[ip] = client
		}
		client.lastSeen = time.Now()
		allowed := client.limiter.Allow()
		mu.Unlock()

		if !allowed {
			utils.SendError(c, http.StatusTooManyRequests,
				utils.NewAppError(utils.ErrCodeRateLimited, "Too many requests"))
			c.Abort()
			return
		}

		c.Next()
	}
}
