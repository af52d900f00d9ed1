package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/msomdec/bis-arena/internal/service"
)

type contextKey string

const identityContextKey contextKey = "identity"

var errNoToken = errors.New("no token")

// IdentityFromContext extracts the authenticated identity from the request
// context. Returns nil if no identity is attached.
func IdentityFromContext(ctx context.Context) *service.Claims {
	claims, _ := ctx.Value(identityContextKey).(*service.Claims)
	return claims
}

// RequireAuth protects API routes. It reads the bearer token from the
// Authorization header (falling back to the auth_token cookie for
// same-origin page scripts), validates it, and injects the decoded identity
// into the request context. A missing token yields 401, an invalid or
// expired one 403.
func RequireAuth(auth *service.AuthService, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := tokenFromRequest(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Authentication token required")
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			writeError(w, http.StatusForbidden, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), identityContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequirePage protects server-rendered pages. Unauthenticated requests are
// redirected to the login page instead of receiving a JSON error.
func RequirePage(auth *service.AuthService, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := authenticateRequest(r, auth)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), identityContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth attempts to authenticate but does not block unauthenticated
// requests. If a valid token is present the identity is injected into
// context; otherwise the request proceeds without one.
func OptionalAuth(auth *service.AuthService, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, err := authenticateRequest(r, auth); err == nil {
			ctx := context.WithValue(r.Context(), identityContextKey, claims)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

func authenticateRequest(r *http.Request, auth *service.AuthService) (*service.Claims, error) {
	token, err := tokenFromRequest(r)
	if err != nil {
		return nil, err
	}
	return auth.ValidateToken(token)
}

func tokenFromRequest(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return "", errNoToken
		}
		return token, nil
	}
	cookie, err := r.Cookie("auth_token")
	if err != nil || cookie.Value == "" {
		return "", errNoToken
	}
	return cookie.Value, nil
}
