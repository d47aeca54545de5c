package middleware

import (
	"context"

	"github.com/nexobuy/nexobuy-backend/pkg/enums"
)

type contextKey string

const ctxIdentity contextKey = "identity"

// Identity carries the authenticated caller through the request context.
type Identity struct {
	UserID   int64
	OrgID    int64
	OrgType  enums.OrgType
	Role     enums.MemberRole
	AccessID string
}

// WithIdentity injects the caller identity into the context.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxIdentity, identity)
}

// IdentityFromContext returns the caller identity seeded by the auth middleware.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	identity, ok := ctx.Value(ctxIdentity).(Identity)
	return identity, ok
}
