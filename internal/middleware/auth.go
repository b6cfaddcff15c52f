package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go-movie-api/internal/model"
)

type tokenVerifier interface {
	Verify(tokenString string) (string, error)
}

type contextKey string

const authEmailContextKey contextKey = "auth_email"

const (
	msgHeaderNotFound  = "Authorization header ('Bearer token') not found"
	msgHeaderMalformed = "Authorization header is malformed"
	msgTokenExpired    = "JWT token has expired"
	msgTokenInvalid    = "Invalid JWT token"
)

// AuthMiddleware derives the per-request identity from the bearer token.
// Three policies exist because the endpoints disagree on how much they tell an
// unauthenticated caller; they are kept separate rather than unified.
type AuthMiddleware struct {
	verifier tokenVerifier
}

func NewAuthMiddleware(verifier tokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// RequireAuth rejects unauthenticated requests, distinguishing a missing
// header from a malformed one and an expired token from an invalid one.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeUnauthorized(w, msgHeaderNotFound)
			return
		}
		if !strings.HasPrefix(header, "Bearer ") {
			writeUnauthorized(w, msgHeaderMalformed)
			return
		}

		email, err := m.verifier.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			writeUnauthorized(w, tokenFailureMessage(err))
			return
		}

		next.ServeHTTP(w, r.WithContext(withAuthEmail(r.Context(), email)))
	})
}

// RequireAuthCollapsed rejects unauthenticated requests but reports a missing
// header and a malformed one identically.
func (m *AuthMiddleware) RequireAuthCollapsed(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			writeUnauthorized(w, msgHeaderNotFound)
			return
		}

		email, err := m.verifier.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			writeUnauthorized(w, tokenFailureMessage(err))
			return
		}

		next.ServeHTTP(w, r.WithContext(withAuthEmail(r.Context(), email)))
	})
}

// OptionalAuth lets a request with no Authorization header through
// anonymously, but still rejects a header that is present and unusable.
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}
		if !strings.HasPrefix(header, "Bearer ") {
			writeUnauthorized(w, msgHeaderMalformed)
			return
		}

		email, err := m.verifier.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			writeUnauthorized(w, tokenFailureMessage(err))
			return
		}

		next.ServeHTTP(w, r.WithContext(withAuthEmail(r.Context(), email)))
	})
}

func withAuthEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, authEmailContextKey, email)
}

// EmailFromContext returns the verified email for the request, or false for
// an anonymous request.
func EmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(authEmailContextKey).(string)
	return email, ok
}

func tokenFailureMessage(err error) string {
	if errors.Is(err, model.ErrTokenExpired) {
		return msgTokenExpired
	}
	return msgTokenInvalid
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error":   true,
		"message": message,
	})
}
