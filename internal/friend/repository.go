// File: internal/friend/repository.go
package friend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"voluntr_backend/internal/platform/database"
	"voluntr_backend/internal/shared"
	"voluntr_backend/internal/user"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned by Store lookups that match no row.
	ErrNotFound = errors.New("friend: record not found")
	// ErrPairConflict is returned when an insert collides with an existing row for the same pair.
	ErrPairConflict = errors.New("friend: row already exists for pair")
)

// Store is the set of relationship reads and writes available inside a transaction.
type Store interface {
	FindAccountByID(ctx context.Context, id int64) (*user.User, error)
	FindAccountByEmail(ctx context.Context, email string) (*user.User, error)
	// FindRequestByPair finds the request between a and b in either direction, whatever its status.
	FindRequestByPair(ctx context.Context, a, b int64) (*FriendRequest, error)
	FindPendingRequest(ctx context.Context, requestID, receiverID int64) (*FriendRequest, error)
	CreateRequest(ctx context.Context, req *FriendRequest) error
	// UpdateRequestStatus moves a pending request to a terminal status. A request
	// that is no longer pending yields ErrNotFound.
	UpdateRequestStatus(ctx context.Context, requestID int64, status Status, decidedAt time.Time) error
	FindFriendship(ctx context.Context, a, b int64) (*Friendship, error)
	CreateFriendship(ctx context.Context, f *Friendship) error
	ListPendingByReceiver(ctx context.Context, receiverID int64) ([]PendingRequest, error)
	ListFriendAccounts(ctx context.Context, accountID int64) ([]user.User, error)
	DeleteDecidedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Repository is a Store that can also open transactions.
type Repository interface {
	Store
	// WithinTransaction runs fn against a Store bound to one transaction, rolled back if fn fails.
	WithinTransaction(ctx context.Context, fn func(store Store) error) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM relationship repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) WithinTransaction(ctx context.Context, fn func(store Store) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx})
	})
}

func (r *gormRepository) FindAccountByID(ctx context.Context, id int64) (*user.User, error) {
	var account user.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error; err != nil {
		return nil, notFound(err)
	}
	return &account, nil
}

func (r *gormRepository) FindAccountByEmail(ctx context.Context, email string) (*user.User, error) {
	var account user.User
	if err := r.db.WithContext(ctx).Where("email = ?", user.NormalizeEmail(email)).First(&account).Error; err != nil {
		return nil, notFound(err)
	}
	return &account, nil
}

func (r *gormRepository) FindRequestByPair(ctx context.Context, a, b int64) (*FriendRequest, error) {
	low, high := CanonicalPair(a, b)
	var req FriendRequest
	err := r.db.WithContext(ctx).
		Where("pair_low_id = ? AND pair_high_id = ?", low, high).
		First(&req).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &req, nil
}

func (r *gormRepository) FindPendingRequest(ctx context.Context, requestID, receiverID int64) (*FriendRequest, error) {
	var req FriendRequest
	err := r.db.WithContext(ctx).
		Where("id = ? AND receiver_id = ? AND status = ?", requestID, receiverID, StatusPending).
		First(&req).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &req, nil
}

func (r *gormRepository) CreateRequest(ctx context.Context, req *FriendRequest) error {
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return ErrPairConflict
		}
		return fmt.Errorf("inserting friend request: %w", err)
	}
	return nil
}

func (r *gormRepository) UpdateRequestStatus(ctx context.Context, requestID int64, status Status, decidedAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&FriendRequest{}).
		Where("id = ? AND status = ?", requestID, StatusPending).
		Updates(map[string]interface{}{
			"status":     status,
			"decided_at": decidedAt,
			"updated_at": decidedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("updating friend request %d: %w", requestID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormRepository) FindFriendship(ctx context.Context, a, b int64) (*Friendship, error) {
	low, high := CanonicalPair(a, b)
	var f Friendship
	err := r.db.WithContext(ctx).
		Where("user_id1 = ? AND user_id2 = ?", low, high).
		First(&f).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &f, nil
}

func (r *gormRepository) CreateFriendship(ctx context.Context, f *Friendship) error {
	if err := r.db.WithContext(ctx).Create(f).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return ErrPairConflict
		}
		return fmt.Errorf("inserting friendship: %w", err)
	}
	return nil
}

type pendingRow struct {
	ID             int64
	Status         Status
	CreatedAt      time.Time
	SenderID       int64
	SenderEmail    string
	SenderFullName *string
}

func (r *gormRepository) ListPendingByReceiver(ctx context.Context, receiverID int64) ([]PendingRequest, error) {
	var rows []pendingRow
	err := r.db.WithContext(ctx).
		Table("friend_requests AS fr").
		Select("fr.id, fr.status, fr.created_at, u.id AS sender_id, u.email AS sender_email, u.full_name AS sender_full_name").
		Joins("JOIN users AS u ON u.id = fr.sender_id").
		Where("fr.receiver_id = ? AND fr.status = ?", receiverID, StatusPending).
		Order("fr.created_at ASC, fr.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing pending requests for %d: %w", receiverID, err)
	}

	pending := make([]PendingRequest, 0, len(rows))
	for _, row := range rows {
		pending = append(pending, PendingRequest{
			ID:        row.ID,
			Status:    row.Status,
			CreatedAt: row.CreatedAt,
			Sender: shared.PublicProfile{
				ID:       row.SenderID,
				Email:    row.SenderEmail,
				FullName: row.SenderFullName,
			},
		})
	}
	return pending, nil
}

func (r *gormRepository) ListFriendAccounts(ctx context.Context, accountID int64) ([]user.User, error) {
	var accounts []user.User
	err := r.db.WithContext(ctx).
		Model(&user.User{}).
		Select("users.*").
		Joins("JOIN friendships AS f ON (f.user_id1 = ? AND f.user_id2 = users.id) OR (f.user_id2 = ? AND f.user_id1 = users.id)", accountID, accountID).
		Order("f.created_at ASC, f.id ASC").
		Find(&accounts).Error
	if err != nil {
		return nil, fmt.Errorf("listing friends of %d: %w", accountID, err)
	}
	return accounts, nil
}

func (r *gormRepository) DeleteDecidedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status <> ? AND decided_at IS NOT NULL AND decided_at < ?", StatusPending, cutoff).
		Delete(&FriendRequest{})
	if result.Error != nil {
		return 0, fmt.Errorf("pruning decided friend requests: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
