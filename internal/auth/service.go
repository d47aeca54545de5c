package auth

import (
	"context"
	stderr "errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/nexobuy/nexobuy-backend/internal/users"
	"github.com/nexobuy/nexobuy-backend/pkg/auth"
	"github.com/nexobuy/nexobuy-backend/pkg/auth/session"
	"github.com/nexobuy/nexobuy-backend/pkg/config"
	"github.com/nexobuy/nexobuy-backend/pkg/db/models"
	"github.com/nexobuy/nexobuy-backend/pkg/errors"
	"github.com/nexobuy/nexobuy-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error)
	Logout(ctx context.Context, accessID string) error
}

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type service struct {
	users   userRepository
	session sessionManager
	jwtCfg  config.JWTConfig
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &service{
		users:   params.UserRepo,
		session: params.SessionManager,
		jwtCfg:  params.JWTConfig,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	if user.Organization == nil {
		return nil, errors.New(errors.CodeInternal, "user organization not loaded")
	}

	accessID := session.NewAccessID()
	accessToken, err := auth.MintAccessToken(s.jwtCfg, time.Now(), auth.AccessTokenPayload{
		UserID:  user.ID,
		OrgID:   user.OrganizationID,
		OrgType: user.Organization.OrgType,
		Role:    user.Role,
		JTI:     accessID,
	})
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "mint jwt")
	}
	refreshToken, err := s.session.Generate(ctx, accessID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "store refresh token")
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         users.FromModel(user),
	}, nil
}

// Refresh accepts an expired access token, verifies the refresh token against
// the live session, and issues a replacement pair under a new access ID.
func (s *service) Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error) {
	claims, err := auth.ParseAccessTokenAllowExpired(s.jwtCfg, req.AccessToken)
	if err != nil {
		return nil, errors.New(errors.CodeUnauthorized, "invalid access token")
	}

	newAccessID, newRefresh, err := s.session.Rotate(ctx, claims.ID, req.RefreshToken)
	if err != nil {
		if stderr.Is(err, session.ErrInvalidRefreshToken) {
			return nil, errors.New(errors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "rotate session")
	}

	accessToken, err := auth.MintAccessToken(s.jwtCfg, time.Now(), auth.AccessTokenPayload{
		UserID:  claims.UserID,
		OrgID:   claims.OrgID,
		OrgType: claims.OrgType,
		Role:    claims.Role,
		JTI:     newAccessID,
	})
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "mint jwt")
	}

	return &RefreshResponse{AccessToken: accessToken, RefreshToken: newRefresh}, nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if err := s.session.Revoke(ctx, accessID); err != nil {
		return errors.Wrap(errors.CodeInternal, err, "revoke session")
	}
	return nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if stderr.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "lookup user")
	}
	if !user.IsActive {
		return nil, errors.New(errors.CodeUnauthorized, invalidCredentialsMessage)
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, errors.New(errors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}
