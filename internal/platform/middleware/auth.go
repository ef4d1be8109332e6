package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"dentops/internal/platform/token"
)

// JWTValidator defines the interface for validating access tokens.
type JWTValidator interface {
	ValidateToken(tokenString string) (*token.Claims, error)
}

type contextKeyTechnicianID struct{}
type contextKeyLabID struct{}

// GetTechnicianID retrieves the authenticated technician id from the
// context.
func GetTechnicianID(ctx context.Context) string {
	id, _ := ctx.Value(contextKeyTechnicianID{}).(string)
	return id
}

// GetLabID retrieves the authenticated lab id from the context.
func GetLabID(ctx context.Context) string {
	id, _ := ctx.Value(contextKeyLabID{}).(string)
	return id
}

// RequireAuth rejects requests without a valid bearer token and stashes the
// claims in the request context.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const bearerPrefix = "Bearer "
			authHeader := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok {
				unauthorized(w, r, logger, "missing token")
				return
			}
			claims, err := validator.ValidateToken(raw)
			if err != nil {
				unauthorized(w, r, logger, "invalid token")
				return
			}
			ctx := r.Context()
			ctx = context.WithValue(ctx, contextKeyTechnicianID{}, claims.TechnicianID)
			ctx = context.WithValue(ctx, contextKeyLabID{}, claims.LabID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request, logger *slog.Logger, reason string) {
	ctx := r.Context()
	if logger != nil {
		logger.WarnContext(ctx, "unauthorized access - "+reason,
			"request_id", GetRequestID(ctx),
			"path", r.URL.Path,
		)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"Missing or invalid Authorization header"}`))
}
