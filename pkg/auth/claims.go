package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/nexobuy/nexobuy-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID  int64
	OrgID   int64
	OrgType enums.OrgType
	Role    enums.MemberRole
	JTI     string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID  int64            `json:"user_id"`
	OrgID   int64            `json:"org_id"`
	OrgType enums.OrgType    `json:"org_type"`
	Role    enums.MemberRole `json:"role"`
	jwt.RegisteredClaims
}
