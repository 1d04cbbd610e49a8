package shared

import (
	"context"
	"time"
)

// Account is the local account resolved from an external identity.
type Account struct {
	ID        int64
	Email     string
	FullName  *string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Claims are the attributes the identity provider vouches for after verifying a token.
type Claims struct {
	UID           string
	Email         string
	EmailVerified bool
	Name          string
}

// TokenVerifier verifies a bearer credential with the external identity provider.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*Claims, error)
}

// IdentityResolver maps verified claims onto local accounts.
type IdentityResolver interface {
	ResolveOrCreate(ctx context.Context, claims *Claims, displayName string) (account *Account, isNew bool, err error)
	ResolveExisting(ctx context.Context, claims *Claims) (*Account, error)
	GetAccountByID(ctx context.Context, id int64) (*Account, error)
}
