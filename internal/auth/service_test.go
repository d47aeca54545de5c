package auth

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/nexobuy/nexobuy-backend/pkg/auth"
	"github.com/nexobuy/nexobuy-backend/pkg/auth/session"
	"github.com/nexobuy/nexobuy-backend/pkg/config"
	"github.com/nexobuy/nexobuy-backend/pkg/db/models"
	"github.com/nexobuy/nexobuy-backend/pkg/enums"
	pkgerrors "github.com/nexobuy/nexobuy-backend/pkg/errors"
	"github.com/nexobuy/nexobuy-backend/pkg/security"
)

type stubUserRepo struct {
	user *models.User
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

type stubSessionManager struct {
	sessions map[string]string
	rotated  bool
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	if s.sessions == nil {
		s.sessions = make(map[string]string)
	}
	token := "refresh-" + accessID
	s.sessions[accessID] = token
	return token, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := s.sessions[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(s.sessions, oldAccessID)
	s.rotated = true
	newID := session.NewAccessID()
	token, _ := s.Generate(ctx, newID)
	return newID, token, nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	delete(s.sessions, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret",
		Issuer:                 "nexobuy-test",
		ExpirationMinutes:      15,
		RefreshTokenTTLMinutes: 60,
	}
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newTestService(t *testing.T) (Service, *stubUserRepo, *stubSessionManager) {
	t.Helper()

	hash, err := security.HashPassword("correct horse", testPasswordConfig())
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	repo := &stubUserRepo{user: &models.User{
		ID:             1,
		Email:          "admin@vendor.test",
		PasswordHash:   hash,
		FullName:       "Vendor Admin",
		Role:           enums.MemberRoleAdmin,
		OrganizationID: 10,
		IsActive:       true,
		Organization:   &models.Organization{ID: 10, Name: "Vendor", OrgType: enums.OrgTypeVendor},
	}}
	sessions := &stubSessionManager{}
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	return svc, repo, sessions
}

func TestLoginIssuesTokenPair(t *testing.T) {
	svc, _, _ := newTestService(t)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "admin@vendor.test",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected token pair")
	}

	claims, err := auth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != 1 || claims.OrgID != 10 || claims.OrgType != enums.OrgTypeVendor {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if resp.User.Email != "admin@vendor.test" {
		t.Fatalf("unexpected user %+v", resp.User)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "admin@vendor.test",
		Password: "wrong",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@vendor.test",
		Password: "correct horse",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized got %v", err)
	}
}

func TestLoginInactiveUser(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.user.IsActive = false

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "admin@vendor.test",
		Password: "correct horse",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized got %v", err)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	svc, _, sessions := newTestService(t)

	login, err := svc.Login(context.Background(), LoginRequest{
		Email:    "admin@vendor.test",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	resp, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if !sessions.rotated {
		t.Fatal("expected session rotation")
	}
	if resp.RefreshToken == login.RefreshToken {
		t.Fatal("expected a new refresh token")
	}

	// The old pair is dead after rotation.
	_, err = svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized got %v", err)
	}
}

func TestRefreshRejectsBogusToken(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  "not-a-jwt",
		RefreshToken: "whatever",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized got %v", err)
	}
}
