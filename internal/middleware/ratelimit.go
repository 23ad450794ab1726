package middleware

import (
	"net"
	"net/http"
	"strings"
	"time"

	"proofmeet-backend/internal/cache"
)

const (
	loginLimit  = 5
	loginWindow = time.Minute
)

// RateLimitLogin caps login attempts per client IP. Redis errors fail open;
// an unavailable cache must not take logins down with it.
func RateLimitLogin(cacheClient cache.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			key := "rl:login:" + ip
			count, err := cacheClient.IncrWithTTL(key, loginWindow)
			if err == nil && count > loginLimit {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
