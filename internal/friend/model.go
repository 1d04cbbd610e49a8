// File: internal/friend/model.go
package friend

import (
	"time"

	"voluntr_backend/internal/common"
	"voluntr_backend/internal/shared"

	"gorm.io/gorm"
)

// Status is the lifecycle state of a friend request. Pending is the only
// non-terminal state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// CanonicalPair orders two account IDs so an unordered pair has exactly one representation.
func CanonicalPair(a, b int64) (low, high int64) {
	if a <= b {
		return a, b
	}
	return b, a
}

// FriendRequest is a directed invitation from sender to receiver. At most one
// request exists per unordered pair, enforced by the unique index on the
// canonical pair columns.
type FriendRequest struct {
	common.BaseModel
	SenderID   int64      `gorm:"not null;index;check:chk_friend_requests_not_self,sender_id <> receiver_id"`
	ReceiverID int64      `gorm:"not null;index:idx_friend_requests_receiver_status,priority:1"`
	Status     Status     `gorm:"type:varchar(16);not null;default:'pending';index:idx_friend_requests_receiver_status,priority:2"`
	PairLowID  int64      `gorm:"not null;uniqueIndex:idx_friend_requests_pair,priority:1;check:chk_friend_requests_pair_order,pair_low_id < pair_high_id"`
	PairHighID int64      `gorm:"not null;uniqueIndex:idx_friend_requests_pair,priority:2"`
	DecidedAt  *time.Time
}

// TableName specifies the table name for the FriendRequest model.
func (FriendRequest) TableName() string {
	return "friend_requests"
}

// BeforeCreate derives the canonical pair columns from sender and receiver.
func (r *FriendRequest) BeforeCreate(tx *gorm.DB) error {
	r.PairLowID, r.PairHighID = CanonicalPair(r.SenderID, r.ReceiverID)
	if r.Status == "" {
		r.Status = StatusPending
	}
	return nil
}

// Friendship is a confirmed, undirected link stored with UserID1 < UserID2.
type Friendship struct {
	common.BaseModel
	UserID1 int64 `gorm:"column:user_id1;not null;uniqueIndex:idx_friendships_pair,priority:1;check:chk_friendships_pair_order,user_id1 < user_id2"`
	UserID2 int64 `gorm:"column:user_id2;not null;uniqueIndex:idx_friendships_pair,priority:2;index:idx_friendships_user_id2"`
}

// TableName specifies the table name for the Friendship model.
func (Friendship) TableName() string {
	return "friendships"
}

// NewFriendship builds the canonical friendship row for a and b.
func NewFriendship(a, b int64) *Friendship {
	low, high := CanonicalPair(a, b)
	return &Friendship{UserID1: low, UserID2: high}
}

// BeforeCreate keeps the stored pair ordered whatever the caller passed.
func (f *Friendship) BeforeCreate(tx *gorm.DB) error {
	f.UserID1, f.UserID2 = CanonicalPair(f.UserID1, f.UserID2)
	return nil
}

// Other returns the member of the friendship that is not accountID.
func (f *Friendship) Other(accountID int64) int64 {
	if f.UserID1 == accountID {
		return f.UserID2
	}
	return f.UserID1
}

// PendingRequest is a request awaiting the receiver's decision, with the sender's public profile.
type PendingRequest struct {
	ID        int64                `json:"id"`
	Sender    shared.PublicProfile `json:"sender"`
	Status    Status               `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
}

// --- DTOs for API requests/responses ---

// SendRequestBody is the payload for creating a friend request.
type SendRequestBody struct {
	FriendEmail string `json:"friend_email" binding:"required,email,max=255"`
}

// RequestResponse is the API shape of a friend request.
type RequestResponse struct {
	ID         int64      `json:"id"`
	SenderID   int64      `json:"sender_id"`
	ReceiverID int64      `json:"receiver_id"`
	Status     Status     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	DecidedAt  *time.Time `json:"decided_at,omitempty"`
}

// ToRequestResponse converts a FriendRequest model to its API shape.
func ToRequestResponse(r *FriendRequest) RequestResponse {
	return RequestResponse{
		ID:         r.ID,
		SenderID:   r.SenderID,
		ReceiverID: r.ReceiverID,
		Status:     r.Status,
		CreatedAt:  r.CreatedAt,
		DecidedAt:  r.DecidedAt,
	}
}
