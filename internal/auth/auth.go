// Package auth extracts bearer tokens from incoming requests and makes
// them available to tool handlers via the context. Presence is the only
// check performed here; token verification belongs to the upstream API.
package auth

import (
	"context"
	"encoding/hex"
	"net/http"
	"strings"

	"golang.org/x/crypto/blake2b"
)

type contextKey string

const tokenKey contextKey = "bearer_token"

// HeaderName is the request header carrying the bearer token
const HeaderName = "Authorization"

const bearerPrefix = "Bearer "

// ExtractBearer pulls the bearer token from an Authorization header
// value. A bare token without the Bearer prefix is accepted too, which
// matches how DEX API keys are commonly sent.
func ExtractBearer(headerValue string) string {
	headerValue = strings.TrimSpace(headerValue)
	if headerValue == "" {
		return ""
	}
	if len(headerValue) > len(bearerPrefix) && strings.EqualFold(headerValue[:len(bearerPrefix)], bearerPrefix) {
		return strings.TrimSpace(headerValue[len(bearerPrefix):])
	}
	return headerValue
}

// WithToken attaches a bearer token to the context
func WithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey, token)
}

// TokenFromContext returns the bearer token carried by the context
func TokenFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok && token != ""
}

// Fingerprint returns a short stable digest of a token, safe for use in
// log fields, rate-limit keys, and audit rows. Raw tokens must never be
// persisted or logged.
func Fingerprint(token string) string {
	if token == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}

// Middleware rejects requests without a bearer token and stores the
// token on the request context for downstream handlers. When required
// is false the token is still extracted but absence is tolerated, which
// is how read-only deployments run.
func Middleware(required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractBearer(r.Header.Get(HeaderName))
			if token == "" && required {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"missing bearer token"}`))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithToken(r.Context(), token)))
		})
	}
}
