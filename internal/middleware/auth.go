package middleware

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"github.com/mmynk/circles/internal/auth"
	"github.com/mmynk/circles/internal/models"
	"github.com/mmynk/circles/internal/storage"
)

// UserResolver maps the external id carried in a token to a stored user.
type UserResolver interface {
	GetUserByUID(ctx context.Context, uid string) (*models.User, error)
}

var errInternal = errors.New("internal error")

// RequireAuth returns an interceptor that validates the bearer token, resolves
// its subject to a stored user, and places the resulting auth.Identity in the
// request context. Tokens for users that no longer resolve are rejected.
// Rejections are logged to logger, since LoggingInterceptor runs inside this
// interceptor and never sees them.
func RequireAuth(logger *slog.Logger, jwtManager *auth.JWTManager, users UserResolver) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			procedure := req.Spec().Procedure

			tokenString, err := bearerToken(req.Header().Get("Authorization"))
			if err != nil {
				logger.Warn("Auth rejected", "procedure", procedure, "error", err)
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			claims, err := jwtManager.Validate(tokenString)
			if err != nil {
				logger.Warn("Auth rejected", "procedure", procedure, "error", err)
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}

			user, err := users.GetUserByUID(ctx, claims.UserID)
			if errors.Is(err, storage.ErrNotFound) {
				logger.Warn("Auth rejected", "procedure", procedure, "user_id", claims.UserID, "error", err)
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}
			if err != nil {
				logger.Error("Failed to resolve token subject", "procedure", procedure, "error", err)
				return nil, connect.NewError(connect.CodeInternal, errInternal)
			}

			ctx = auth.WithIdentity(ctx, auth.Identity{
				UserID: user.ID,
				UID:    user.UID,
				Email:  user.Email,
			})
			return next(ctx, req)
		}
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" value.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", auth.ErrMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", auth.ErrInvalidToken
	}
	return strings.TrimSpace(token), nil
}
