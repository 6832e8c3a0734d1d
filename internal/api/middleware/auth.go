package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"Chirp/internal/auth"
)

// Context keys for storing principal information
type contextKey string

const (
	// UserIDKey holds the authenticated principal's identity provider user id
	UserIDKey contextKey = "user_id"
	// SessionClaimsKey holds the verified session token claims
	SessionClaimsKey contextKey = "session_claims"
)

// AuthMiddleware enforces identity-provider session authentication.
// Validates bearer session tokens against the provider's JWKS.
type AuthMiddleware struct {
	keyFetcher auth.KeyFetcher
}

// NewAuthMiddleware creates a new session auth middleware
func NewAuthMiddleware(keyFetcher auth.KeyFetcher) *AuthMiddleware {
	return &AuthMiddleware{
		keyFetcher: keyFetcher,
	}
}

// RequireAuth ensures the request carries a valid session token.
// If not authenticated, returns 401; otherwise injects the principal's
// user id and claims into the request context.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeAuthError(w, "Missing or malformed Authorization header")
			return
		}

		claims, err := auth.VerifyToken(r.Context(), token, m.keyFetcher)
		if err != nil {
			log.Printf("[AUTH_FAILURE] ip=%s method=%s path=%s error=%v",
				r.RemoteAddr, r.Method, r.URL.Path, err)
			writeAuthError(w, "Invalid or expired session token")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, claims.Subject)
		ctx = context.WithValue(ctx, SessionClaimsKey, claims)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth loads the principal if a valid token is present, but lets
// anonymous requests through. Useful for endpoints that personalize output
// without requiring login.
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := auth.VerifyToken(r.Context(), token, m.keyFetcher)
		if err != nil {
			// Invalid token - continue anonymously
			log.Printf("Optional auth failed: %v", err)
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, claims.Subject)
		ctx = context.WithValue(ctx, SessionClaimsKey, claims)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the bearer token from the Authorization header
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}

	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return "", false
	}

	return token, true
}

// GetUserID extracts the principal's user id from the request context.
// Returns empty string if not authenticated.
func GetUserID(r *http.Request) string {
	id, _ := r.Context().Value(UserIDKey).(string)
	return id
}

// GetAuthenticatedUserID extracts the principal's user id from a context.
// Used by service layers for defense-in-depth validation.
func GetAuthenticatedUserID(ctx context.Context) string {
	id, _ := ctx.Value(UserIDKey).(string)
	return id
}

// GetSessionClaims extracts the verified session claims from the request
// context. Returns nil if not authenticated.
func GetSessionClaims(r *http.Request) *auth.Claims {
	claims, _ := r.Context().Value(SessionClaimsKey).(*auth.Claims)
	return claims
}

// SetTestUserID sets the principal in the context for tests only
func SetTestUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// writeAuthError writes a JSON error response for authentication failures
func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	response := map[string]string{
		"error":   "AuthenticationRequired",
		"message": message,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to write auth error response: %v", err)
	}
}
