package middleware

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/invoicer/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// UserIDKey is the context key for the authenticated user ID.
const UserIDKey contextKey = "user_id"

// GetUserID extracts the user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// bearerToken returns the token of an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

// RequireAuth returns an interceptor that rejects calls without a valid bearer
// token and stores the token's user ID in the request context.
// Rejections are logged here; the logging interceptor runs inside it.
func RequireAuth(verifier *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			claims, err := authenticate(verifier, req.Header().Get("Authorization"))
			if err != nil {
				slog.Warn("RPC unauthenticated", "procedure", req.Spec().Procedure, "error", err)
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}
			return next(WithUserID(ctx, claims.Subject), req)
		}
	}
}

func authenticate(verifier *auth.JWTManager, authHeader string) (*auth.Claims, error) {
	if authHeader == "" {
		return nil, auth.ErrMissingToken
	}
	token, ok := bearerToken(authHeader)
	if !ok {
		return nil, auth.ErrInvalidToken
	}
	return verifier.Validate(token)
}

// OptionalAuth records the user ID when a valid token is present and lets
// anonymous calls through. Used when no signing secret is configured and
// invoices are saved without an author.
func OptionalAuth(verifier *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if verifier != nil {
				if token, ok := bearerToken(req.Header().Get("Authorization")); ok {
					if claims, err := verifier.Validate(token); err == nil {
						ctx = WithUserID(ctx, claims.Subject)
					}
				}
			}
			return next(ctx, req)
		}
	}
}
