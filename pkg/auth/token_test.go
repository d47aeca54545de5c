package auth

import (
	"testing"
	"time"

	"github.com/nexobuy/nexobuy-backend/pkg/config"
	"github.com/nexobuy/nexobuy-backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "token-test-secret",
		Issuer:            "nexobuy-test",
		ExpirationMinutes: 15,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	payload := AccessTokenPayload{
		UserID:  42,
		OrgID:   7,
		OrgType: enums.OrgTypeVendor,
		Role:    enums.MemberRoleAdmin,
		JTI:     "jti-1",
	}

	token, err := MintAccessToken(cfg, time.Now(), payload)
	if err != nil {
		t.Fatalf("MintAccessToken failed: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("ParseAccessToken failed: %v", err)
	}
	if claims.UserID != 42 || claims.OrgID != 7 {
		t.Fatalf("unexpected identity claims: %+v", claims)
	}
	if claims.OrgType != enums.OrgTypeVendor || claims.Role != enums.MemberRoleAdmin {
		t.Fatalf("unexpected org claims: %+v", claims)
	}
	if claims.ID != "jti-1" {
		t.Fatalf("expected jti to round-trip, got %q", claims.ID)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("unexpected issuer %q", claims.Issuer)
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID:  1,
		OrgID:   1,
		OrgType: enums.OrgTypeCompany,
		Role:    enums.MemberRoleUser,
		JTI:     "jti-2",
	})
	if err != nil {
		t.Fatalf("MintAccessToken failed: %v", err)
	}

	other := cfg
	other.Secret = "different-secret"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("expected parse to fail with wrong secret")
	}
}

func TestParseAccessTokenAllowExpired(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), AccessTokenPayload{
		UserID:  1,
		OrgID:   1,
		OrgType: enums.OrgTypeCompany,
		Role:    enums.MemberRoleUser,
		JTI:     "jti-3",
	})
	if err != nil {
		t.Fatalf("MintAccessToken failed: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}

	claims, err := ParseAccessTokenAllowExpired(cfg, token)
	if err != nil {
		t.Fatalf("ParseAccessTokenAllowExpired failed: %v", err)
	}
	if claims.ID != "jti-3" {
		t.Fatalf("expected jti from expired token, got %q", claims.ID)
	}
}

func TestMintAccessTokenRejectsBadOrgType(t *testing.T) {
	cfg := testJWTConfig()
	if _, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID:  1,
		OrgID:   1,
		OrgType: enums.OrgType("martian"),
		Role:    enums.MemberRoleUser,
		JTI:     "jti-4",
	}); err == nil {
		t.Fatal("expected mint to fail for unknown org type")
	}
}
