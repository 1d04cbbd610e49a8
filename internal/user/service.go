package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"voluntr_backend/internal/common"
	"voluntr_backend/internal/shared"

	"go.uber.org/zap"
)

// ServiceImplementation resolves verified identity claims onto local accounts.
type ServiceImplementation struct {
	repo   Repository
	logger *zap.Logger
}

var _ shared.IdentityResolver = (*ServiceImplementation)(nil)

// NewService creates a new user service.
func NewService(repo Repository, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{
		repo:   repo,
		logger: logger.Named("user"),
	}
}

// ResolveOrCreate returns the account for the claims' email, creating it on first
// sign-up. An existing account has its display name refreshed when a different
// non-empty one is supplied.
func (s *ServiceImplementation) ResolveOrCreate(ctx context.Context, claims *shared.Claims, displayName string) (*shared.Account, bool, error) {
	email, err := emailFromClaims(claims)
	if err != nil {
		return nil, false, err
	}
	name := strings.TrimSpace(displayName)

	account, isNew, err := s.resolveOrCreate(ctx, email, name, claims.Name)
	if errors.Is(err, common.ErrConflict) {
		// Another sign-up for the same email committed first; its row is visible now.
		s.logger.Info("Concurrent sign-up detected, resolving existing account", zap.String("email", email))
		account, isNew, err = s.resolveOrCreate(ctx, email, name, claims.Name)
	}
	if err != nil {
		if _, ok := common.IsAPIError(err); ok {
			return nil, false, err
		}
		s.logger.Error("Failed to resolve account", zap.Error(err), zap.String("email", email))
		return nil, false, fmt.Errorf("resolving account: %w", err)
	}

	if isNew {
		s.logger.Info("Account created", zap.Int64("userID", account.ID), zap.String("email", email))
	}
	return account, isNew, nil
}

func (s *ServiceImplementation) resolveOrCreate(ctx context.Context, email, name, claimName string) (*shared.Account, bool, error) {
	var (
		account *shared.Account
		isNew   bool
	)
	err := s.repo.Transaction(ctx, func(repo Repository) error {
		existing, err := repo.FindByEmail(ctx, email)
		switch {
		case err == nil:
			if name != "" && (existing.FullName == nil || *existing.FullName != name) {
				if err := repo.UpdateFullName(ctx, existing.ID, name); err != nil {
					return err
				}
				existing.FullName = &name
			}
			account, isNew = DBToShared(existing), false
			return nil
		case !errors.Is(err, common.ErrAccountNotFound):
			return err
		}

		newUser := &User{Email: email, IsActive: true}
		if name == "" {
			name = strings.TrimSpace(claimName)
		}
		if name != "" {
			newUser.FullName = &name
		}
		if err := repo.Create(ctx, newUser); err != nil {
			return err
		}
		account, isNew = DBToShared(newUser), true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return account, isNew, nil
}

// ResolveExisting returns the account for the claims' email without creating one.
func (s *ServiceImplementation) ResolveExisting(ctx context.Context, claims *shared.Claims) (*shared.Account, error) {
	email, err := emailFromClaims(claims)
	if err != nil {
		return nil, err
	}
	dbUser, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrAccountNotFound) {
			s.logger.Info("No account for verified identity", zap.String("email", email))
			return nil, err
		}
		s.logger.Error("Error finding account by email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("finding account by email: %w", err)
	}
	return DBToShared(dbUser), nil
}

// GetAccountByID returns the account with the given ID.
func (s *ServiceImplementation) GetAccountByID(ctx context.Context, id int64) (*shared.Account, error) {
	dbUser, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrAccountNotFound) {
			return nil, err
		}
		s.logger.Error("Error finding account by ID", zap.Error(err), zap.Int64("userID", id))
		return nil, fmt.Errorf("finding account by id: %w", err)
	}
	return DBToShared(dbUser), nil
}

func emailFromClaims(claims *shared.Claims) (string, error) {
	if claims == nil {
		return "", common.ErrMissingIdentityClaim
	}
	email := NormalizeEmail(claims.Email)
	if email == "" {
		return "", common.ErrMissingIdentityClaim
	}
	return email, nil
}
