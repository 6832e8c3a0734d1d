package middleware

import (
	"log"
	"net/http"
	"strings"

	"Chirp/internal/core/ratelimit"
)

// RequestLimiter applies a per-client rate limit to every request it wraps.
// This is coarse abuse protection for the whole HTTP surface; the
// per-author posting limit lives in the post service, not here.
type RequestLimiter struct {
	limiter ratelimit.Limiter
}

// NewRequestLimiter wraps a core limiter as HTTP middleware
func NewRequestLimiter(limiter ratelimit.Limiter) *RequestLimiter {
	return &RequestLimiter{limiter: limiter}
}

// Middleware returns the rate limiting middleware
func (rl *RequestLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Authenticated principal if present, client IP otherwise
		clientID := GetUserID(r)
		if clientID == "" {
			clientID = "ip:" + clientIP(r)
		}

		res, err := rl.limiter.Allow(r.Context(), clientID)
		if err != nil {
			// Transient limiter failure must not take the read surface down
			log.Printf("Request limiter check failed for %s: %v", clientID, err)
			next.ServeHTTP(w, r)
			return
		}

		if !res.Allowed {
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the client IP from the request
func clientIP(r *http.Request) string {
	// X-Forwarded-For when behind a proxy; first hop is the client
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if idx := strings.IndexByte(forwarded, ','); idx >= 0 {
			return strings.TrimSpace(forwarded[:idx])
		}
		return forwarded
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	return r.RemoteAddr
}
