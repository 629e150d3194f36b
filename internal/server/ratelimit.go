package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	// requestsPerMinute caps how fast one client may hit the API. Matches
	// the per-client chat budget of the web dashboard.
	requestsPerMinute = 30
	// limiterIdleTTL is how long an idle client keeps its bucket before it
	// is pruned.
	limiterIdleTTL = 10 * time.Minute
)

// clientLimiters hands out one token bucket per client IP. Buckets idle
// past the TTL are dropped so the map does not grow with every visitor
// that ever connected.
type clientLimiters struct {
	mu      sync.Mutex
	clients map[string]*clientBucket
	limit   rate.Limit
	burst   int
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newClientLimiters(perMinute int) *clientLimiters {
	return &clientLimiters{
		clients: make(map[string]*clientBucket),
		limit:   rate.Limit(float64(perMinute) / 60.0),
		burst:   perMinute,
	}
}

// allow consumes one token for the client, creating its bucket on first
// sight.
func (cl *clientLimiters) allow(ip string) bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	b, ok := cl.clients[ip]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(cl.limit, cl.burst)}
		cl.clients[ip] = b
	}
	b.lastSeen = time.Now()
	cl.prune()
	return b.limiter.Allow()
}

func (cl *clientLimiters) prune() {
	for ip, b := range cl.clients {
		if time.Since(b.lastSeen) > limiterIdleTTL {
			delete(cl.clients, ip)
		}
	}
}

// rateLimit rejects clients over their per-minute budget with 429 before
// any handler runs.
func rateLimit(cl *clientLimiters) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cl.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, slow down"})
			return
		}
		c.Next()
	}
}
