package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"github.com/mmynk/circles/internal/auth"
	"github.com/mmynk/circles/internal/models"
	"google.golang.org/protobuf/types/known/emptypb"
)

// UserLookup resolves the authenticated caller to a full user record.
type UserLookup interface {
	GetUserByUID(ctx context.Context, uid string) (*models.User, error)
}

// AuthService implements the AuthService procedures.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	users         UserLookup
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, users UserLookup, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		users:         users,
		logger:        logger,
	}
}

// Register creates a new user account and signs them in.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[AuthResponse], error) {
	msg := req.Msg
	msg.Email = normalizeEmail(msg.Email)
	msg.FirstName = strings.TrimSpace(msg.FirstName)
	msg.LastName = strings.TrimSpace(msg.LastName)
	if err := validateRequest(msg); err != nil {
		return nil, err
	}

	user, err := s.authenticator.Register(ctx, auth.Registration{
		Email:     msg.Email,
		FirstName: msg.FirstName,
		LastName:  msg.LastName,
	}, msg.Password)
	if err != nil {
		s.logger.Warn("Registration failed", "email", msg.Email, "error", err)
		return nil, toConnectError(s.logger, AuthServiceRegisterProcedure, err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, toConnectError(s.logger, AuthServiceRegisterProcedure, err)
	}

	s.logger.Info("User registered", "user_id", user.UID)
	return connect.NewResponse(&AuthResponse{User: toUser(user), Token: token}), nil
}

// Login authenticates a user and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[AuthResponse], error) {
	msg := req.Msg
	msg.Email = normalizeEmail(msg.Email)
	if err := validateRequest(msg); err != nil {
		return nil, err
	}

	user, err := s.authenticator.Authenticate(ctx, msg.Email, msg.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.logger.Warn("Login failed", "email", msg.Email)
		}
		return nil, toConnectError(s.logger, AuthServiceLoginProcedure, err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, toConnectError(s.logger, AuthServiceLoginProcedure, err)
	}

	s.logger.Info("User logged in", "user_id", user.UID)
	return connect.NewResponse(&AuthResponse{User: toUser(user), Token: token}), nil
}

// GetCurrentUser returns the authenticated user's profile.
func (s *AuthService) GetCurrentUser(ctx context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[GetCurrentUserResponse], error) {
	who, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByUID(ctx, who.UID)
	if err != nil {
		return nil, toConnectError(s.logger, AuthServiceGetCurrentUserProcedure, err)
	}
	return connect.NewResponse(&GetCurrentUserResponse{User: toUser(user)}), nil
}

// caller returns the identity placed in ctx by the auth interceptor.
func caller(ctx context.Context) (auth.Identity, error) {
	who, ok := auth.IdentityFrom(ctx)
	if !ok {
		return auth.Identity{}, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return who, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
