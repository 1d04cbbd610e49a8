// File: internal/auth/service.go
package auth

import (
	"context"

	"voluntr_backend/internal/common"
	"voluntr_backend/internal/shared"

	"go.uber.org/zap"
)

// Service exchanges identity provider tokens for local accounts.
type Service struct {
	verifier shared.TokenVerifier
	resolver shared.IdentityResolver
	logger   *zap.Logger
}

// NewService creates a new auth service.
func NewService(verifier shared.TokenVerifier, resolver shared.IdentityResolver, logger *zap.Logger) *Service {
	return &Service{
		verifier: verifier,
		resolver: resolver,
		logger:   logger.Named("auth"),
	}
}

// SignUp verifies idToken and resolves or creates the matching account.
func (s *Service) SignUp(ctx context.Context, idToken, fullName string) (*shared.Account, bool, error) {
	claims, err := s.verify(ctx, idToken)
	if err != nil {
		return nil, false, err
	}
	return s.resolver.ResolveOrCreate(ctx, claims, fullName)
}

// SignIn verifies idToken and returns the existing account. It never creates one.
func (s *Service) SignIn(ctx context.Context, idToken string) (*shared.Account, error) {
	claims, err := s.verify(ctx, idToken)
	if err != nil {
		return nil, err
	}
	account, err := s.resolver.ResolveExisting(ctx, claims)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, common.ErrAccountInactive
	}
	return account, nil
}

// verify maps every verifier failure to ErrInvalidCredential.
func (s *Service) verify(ctx context.Context, idToken string) (*shared.Claims, error) {
	claims, err := s.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		s.logger.Debug("Identity token rejected", zap.Error(err))
		return nil, common.ErrInvalidCredential
	}
	return claims, nil
}
