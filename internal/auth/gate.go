package auth

import (
	"context"
	"strings"

	"voluntr_backend/internal/common"
	"voluntr_backend/internal/shared"
)

// Gate resolves the caller behind an Authorization header value.
type Gate struct {
	service *Service
}

// NewGate creates a gate that verifies credentials through service.
func NewGate(service *Service) *Gate {
	return &Gate{service: service}
}

// Authenticate returns the active account identified by header, which must be
// of the form "Bearer <token>".
func (g *Gate) Authenticate(ctx context.Context, header string) (*shared.Account, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return nil, common.ErrMissingCredential
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, common.AuthorizationTypeBearer) {
		return nil, common.ErrMalformedCredential
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, common.ErrMalformedCredential
	}

	claims, err := g.service.verify(ctx, token)
	if err != nil {
		return nil, err
	}
	account, err := g.service.resolver.ResolveExisting(ctx, claims)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, common.ErrAccountInactive
	}
	return account, nil
}
