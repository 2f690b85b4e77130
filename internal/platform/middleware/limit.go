// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/toikana/marketplace/internal/platform/apperr"
	"github.com/toikana/marketplace/internal/platform/i18n"
	"github.com/toikana/marketplace/internal/platform/respond"
)

// Limiter gives every client IP its own token bucket.
type Limiter struct {
	rps   rate.Limit
	burst int
	idle  time.Duration

	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLimiter admits rps requests per second per IP with the given burst.
// Buckets idle longer than idle are dropped by [Limiter.Sweep].
func NewLimiter(rps float64, burst int, idle time.Duration) *Limiter {
	return &Limiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		idle:    idle,
		buckets: make(map[string]*bucket),
	}
}

// Allow takes one token from ip's bucket.
func (limiter *Limiter) Allow(ip string, now time.Time) bool {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	entry, ok := limiter.buckets[ip]
	if !ok {
		entry = &bucket{limiter: rate.NewLimiter(limiter.rps, limiter.burst)}
		limiter.buckets[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

// Sweep drops idle buckets and reports how many remain.
func (limiter *Limiter) Sweep(now time.Time) int {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	for ip, entry := range limiter.buckets {
		if now.Sub(entry.lastSeen) > limiter.idle {
			delete(limiter.buckets, ip)
		}
	}
	return len(limiter.buckets)
}

// Run sweeps every interval until context is cancelled.
func (limiter *Limiter) Run(context context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-context.Done():
			return
		case now := <-ticker.C:
			limiter.Sweep(now)
		}
	}
}

// Middleware answers 429 once the caller's bucket is empty.
func (limiter *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if !limiter.Allow(ClientIP(request), time.Now()) {
			respond.Error(writer, request, apperr.New(apperr.CodeRateLimited, "Rate limit exceeded").WithKey(i18n.KeyErrRateLimited))
			return
		}
		next.ServeHTTP(writer, request)
	})
}
