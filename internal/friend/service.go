// File: internal/friend/service.go
package friend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"voluntr_backend/internal/common"
	"voluntr_backend/internal/shared"
	"voluntr_backend/internal/user"

	"go.uber.org/zap"
)

// Service defines the friend request lifecycle and friendship queries.
type Service interface {
	SendRequest(ctx context.Context, senderID int64, receiverEmail string) (*FriendRequest, error)
	// DecideRequest accepts or rejects a pending request addressed to receiverID.
	DecideRequest(ctx context.Context, receiverID, requestID int64, accept bool) (*FriendRequest, error)
	ListPendingRequests(ctx context.Context, receiverID int64) ([]PendingRequest, error)
	ListFriends(ctx context.Context, accountID int64) ([]shared.Account, error)
	AreFriends(ctx context.Context, a, b int64) (bool, error)
	// PruneDecidedRequests deletes accepted and rejected requests decided before cutoff.
	PruneDecidedRequests(ctx context.Context, cutoff time.Time) (int64, error)
}

// ServiceImplementation implements the friend Service interface.
type ServiceImplementation struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new friend service.
func NewService(repo Repository, logger *zap.Logger) Service {
	return &ServiceImplementation{
		repo:   repo,
		logger: logger.Named("friend"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// SendRequest creates a pending request from senderID to the account owning
// receiverEmail. Every check and the insert share one transaction.
func (s *ServiceImplementation) SendRequest(ctx context.Context, senderID int64, receiverEmail string) (*FriendRequest, error) {
	email := user.NormalizeEmail(receiverEmail)
	var created *FriendRequest

	err := s.repo.WithinTransaction(ctx, func(store Store) error {
		sender, err := store.FindAccountByID(ctx, senderID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return common.ErrAccountNotFound
			}
			return err
		}
		if email == sender.Email {
			return common.ErrSelfRequest
		}

		receiver, err := store.FindAccountByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return common.ErrTargetNotFound
			}
			return err
		}
		if receiver.ID == sender.ID {
			return common.ErrSelfRequest
		}

		if _, err := store.FindFriendship(ctx, sender.ID, receiver.ID); err == nil {
			return common.ErrAlreadyFriends
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}

		if _, err := store.FindRequestByPair(ctx, sender.ID, receiver.ID); err == nil {
			return common.ErrDuplicateRequest
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}

		req := &FriendRequest{SenderID: sender.ID, ReceiverID: receiver.ID, Status: StatusPending}
		if err := store.CreateRequest(ctx, req); err != nil {
			if errors.Is(err, ErrPairConflict) {
				// A concurrent request for the same pair committed between the check and the insert.
				return common.ErrDuplicateRequest
			}
			return err
		}
		created = req
		return nil
	})
	if err != nil {
		return nil, s.wrap(err, "sending friend request", zap.Int64("senderID", senderID))
	}

	s.logger.Info("Friend request sent",
		zap.Int64("requestID", created.ID),
		zap.Int64("senderID", created.SenderID),
		zap.Int64("receiverID", created.ReceiverID),
	)
	return created, nil
}

// DecideRequest moves a pending request to accepted or rejected. Accepting also
// records the friendship in the same transaction.
func (s *ServiceImplementation) DecideRequest(ctx context.Context, receiverID, requestID int64, accept bool) (*FriendRequest, error) {
	status := StatusRejected
	if accept {
		status = StatusAccepted
	}
	var decided *FriendRequest

	err := s.repo.WithinTransaction(ctx, func(store Store) error {
		req, err := store.FindPendingRequest(ctx, requestID, receiverID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return common.ErrRequestNotFound
			}
			return err
		}

		decidedAt := s.now()
		if err := store.UpdateRequestStatus(ctx, req.ID, status, decidedAt); err != nil {
			if errors.Is(err, ErrNotFound) {
				// Decided by a concurrent call after our read.
				return common.ErrRequestNotFound
			}
			return err
		}
		req.Status = status
		req.DecidedAt = &decidedAt

		if accept {
			if err := store.CreateFriendship(ctx, NewFriendship(req.SenderID, req.ReceiverID)); err != nil {
				if errors.Is(err, ErrPairConflict) {
					return common.ErrAlreadyFriends
				}
				return err
			}
		}
		decided = req
		return nil
	})
	if err != nil {
		return nil, s.wrap(err, "deciding friend request", zap.Int64("requestID", requestID), zap.Int64("receiverID", receiverID))
	}

	s.logger.Info("Friend request decided",
		zap.Int64("requestID", decided.ID),
		zap.String("status", string(decided.Status)),
	)
	return decided, nil
}

// ListPendingRequests returns requests awaiting receiverID's decision, oldest first.
func (s *ServiceImplementation) ListPendingRequests(ctx context.Context, receiverID int64) ([]PendingRequest, error) {
	pending, err := s.repo.ListPendingByReceiver(ctx, receiverID)
	if err != nil {
		return nil, s.wrap(err, "listing pending requests", zap.Int64("receiverID", receiverID))
	}
	return pending, nil
}

// ListFriends returns the accounts accountID is friends with, in the order the friendships were made.
func (s *ServiceImplementation) ListFriends(ctx context.Context, accountID int64) ([]shared.Account, error) {
	accounts, err := s.repo.ListFriendAccounts(ctx, accountID)
	if err != nil {
		return nil, s.wrap(err, "listing friends", zap.Int64("accountID", accountID))
	}
	friends := make([]shared.Account, 0, len(accounts))
	for i := range accounts {
		friends = append(friends, *user.DBToShared(&accounts[i]))
	}
	return friends, nil
}

// AreFriends reports whether a and b are friends, in either order.
func (s *ServiceImplementation) AreFriends(ctx context.Context, a, b int64) (bool, error) {
	_, err := s.repo.FindFriendship(ctx, a, b)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, s.wrap(err, "checking friendship", zap.Int64("a", a), zap.Int64("b", b))
	}
}

func (s *ServiceImplementation) PruneDecidedRequests(ctx context.Context, cutoff time.Time) (int64, error) {
	deleted, err := s.repo.DeleteDecidedBefore(ctx, cutoff)
	if err != nil {
		return 0, s.wrap(err, "pruning decided requests", zap.Time("cutoff", cutoff))
	}
	return deleted, nil
}

// wrap passes APIErrors through and logs anything else as an internal failure.
func (s *ServiceImplementation) wrap(err error, op string, fields ...zap.Field) error {
	if _, ok := common.IsAPIError(err); ok {
		return err
	}
	s.logger.Error("Relationship store failure", append(fields, zap.String("op", op), zap.Error(err))...)
	return fmt.Errorf("%s: %w", op, err)
}
