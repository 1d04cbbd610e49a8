package friend

import (
	"context"
	"testing"
	"time"

	"voluntr_backend/internal/common"
	"voluntr_backend/internal/testutil"
	"voluntr_backend/internal/user"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// staleReadRepository hides existing requests from the duplicate check, the
// way a concurrent transaction that has not committed yet would.
type staleReadRepository struct {
	Repository
}

type staleReadStore struct {
	Store
}

func (staleReadStore) FindRequestByPair(context.Context, int64, int64) (*FriendRequest, error) {
	return nil, ErrNotFound
}

func (r staleReadRepository) WithinTransaction(ctx context.Context, fn func(store Store) error) error {
	return r.Repository.WithinTransaction(ctx, func(store Store) error {
		return fn(staleReadStore{store})
	})
}

type StoreSuite struct {
	suite.Suite
	db   *gorm.DB
	repo Repository
	svc  *ServiceImplementation
	ctx  context.Context

	alice, bob, carol *user.User
}

func (s *StoreSuite) SetupTest() {
	s.db = testutil.NewSQLiteDB(s.T(), &user.User{}, &FriendRequest{}, &Friendship{})
	s.repo = NewGORMRepository(s.db)
	s.svc = NewService(s.repo, zap.NewNop()).(*ServiceImplementation)
	s.ctx = context.Background()

	s.alice = s.seedAccount("a@x.com")
	s.bob = s.seedAccount("b@x.com")
	s.carol = s.seedAccount("c@x.com")
}

func (s *StoreSuite) seedAccount(email string) *user.User {
	u := &user.User{Email: email, IsActive: true}
	s.Require().NoError(s.db.Create(u).Error)
	return u
}

func (s *StoreSuite) friendshipRows() []Friendship {
	var rows []Friendship
	s.Require().NoError(s.db.Order("id").Find(&rows).Error)
	return rows
}

func (s *StoreSuite) TestAcceptScenario() {
	req, err := s.svc.SendRequest(s.ctx, s.alice.ID, "B@X.COM")
	s.Require().NoError(err)
	s.Equal(StatusPending, req.Status)

	pending, err := s.svc.ListPendingRequests(s.ctx, s.bob.ID)
	s.Require().NoError(err)
	s.Require().Len(pending, 1)
	s.Equal(req.ID, pending[0].ID)
	s.Equal(s.alice.ID, pending[0].Sender.ID)
	s.Equal("a@x.com", pending[0].Sender.Email)

	decided, err := s.svc.DecideRequest(s.ctx, s.bob.ID, req.ID, true)
	s.Require().NoError(err)
	s.Equal(StatusAccepted, decided.Status)

	rows := s.friendshipRows()
	s.Require().Len(rows, 1)
	s.Less(rows[0].UserID1, rows[0].UserID2)

	for _, pair := range [][2]int64{{s.alice.ID, s.bob.ID}, {s.bob.ID, s.alice.ID}} {
		ok, err := s.svc.AreFriends(s.ctx, pair[0], pair[1])
		s.Require().NoError(err)
		s.True(ok)
	}
	ok, err := s.svc.AreFriends(s.ctx, s.alice.ID, s.carol.ID)
	s.Require().NoError(err)
	s.False(ok)

	friends, err := s.svc.ListFriends(s.ctx, s.bob.ID)
	s.Require().NoError(err)
	s.Require().Len(friends, 1)
	s.Equal(s.alice.ID, friends[0].ID)

	pending, err = s.svc.ListPendingRequests(s.ctx, s.bob.ID)
	s.Require().NoError(err)
	s.Empty(pending)

	_, err = s.svc.SendRequest(s.ctx, s.alice.ID, "b@x.com")
	s.ErrorIs(err, common.ErrAlreadyFriends)
	_, err = s.svc.SendRequest(s.ctx, s.bob.ID, "a@x.com")
	s.ErrorIs(err, common.ErrAlreadyFriends)

	_, err = s.svc.DecideRequest(s.ctx, s.bob.ID, req.ID, true)
	s.ErrorIs(err, common.ErrRequestNotFound)
	_, err = s.svc.DecideRequest(s.ctx, s.bob.ID, req.ID, false)
	s.ErrorIs(err, common.ErrRequestNotFound)
	s.Len(s.friendshipRows(), 1)
}

func (s *StoreSuite) TestDuplicateInEitherDirection() {
	_, err := s.svc.SendRequest(s.ctx, s.alice.ID, "b@x.com")
	s.Require().NoError(err)

	_, err = s.svc.SendRequest(s.ctx, s.alice.ID, "b@x.com")
	s.ErrorIs(err, common.ErrDuplicateRequest)
	_, err = s.svc.SendRequest(s.ctx, s.bob.ID, "a@x.com")
	s.ErrorIs(err, common.ErrDuplicateRequest)

	var count int64
	s.Require().NoError(s.db.Model(&FriendRequest{}).Count(&count).Error)
	s.Equal(int64(1), count)
}

func (s *StoreSuite) TestLostRaceBecomesDuplicate() {
	_, err := s.svc.SendRequest(s.ctx, s.bob.ID, "a@x.com")
	s.Require().NoError(err)

	racing := NewService(staleReadRepository{s.repo}, zap.NewNop())
	_, err = racing.SendRequest(s.ctx, s.alice.ID, "b@x.com")
	s.ErrorIs(err, common.ErrDuplicateRequest)

	var count int64
	s.Require().NoError(s.db.Model(&FriendRequest{}).Count(&count).Error)
	s.Equal(int64(1), count)
}

func (s *StoreSuite) TestSelfAndUnknownTargets() {
	_, err := s.svc.SendRequest(s.ctx, s.alice.ID, " A@x.com")
	s.ErrorIs(err, common.ErrSelfRequest)
	_, err = s.svc.SendRequest(s.ctx, s.alice.ID, "nobody@x.com")
	s.ErrorIs(err, common.ErrTargetNotFound)
}

func (s *StoreSuite) TestOnlyReceiverCanDecide() {
	req, err := s.svc.SendRequest(s.ctx, s.alice.ID, "b@x.com")
	s.Require().NoError(err)

	_, err = s.svc.DecideRequest(s.ctx, s.carol.ID, req.ID, true)
	s.ErrorIs(err, common.ErrRequestNotFound)
	_, err = s.svc.DecideRequest(s.ctx, s.alice.ID, req.ID, true)
	s.ErrorIs(err, common.ErrRequestNotFound)
	_, err = s.svc.DecideRequest(s.ctx, s.bob.ID, req.ID+100, true)
	s.ErrorIs(err, common.ErrRequestNotFound)

	s.Empty(s.friendshipRows())
}

func (s *StoreSuite) TestRejectKeepsHistoryUntilPruned() {
	decidedAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.svc.now = func() time.Time { return decidedAt }

	req, err := s.svc.SendRequest(s.ctx, s.alice.ID, "b@x.com")
	s.Require().NoError(err)
	_, err = s.svc.DecideRequest(s.ctx, s.bob.ID, req.ID, false)
	s.Require().NoError(err)
	s.Empty(s.friendshipRows())

	_, err = s.svc.SendRequest(s.ctx, s.alice.ID, "b@x.com")
	s.ErrorIs(err, common.ErrDuplicateRequest)

	deleted, err := s.svc.PruneDecidedRequests(s.ctx, decidedAt.Add(-time.Hour))
	s.Require().NoError(err)
	s.Zero(deleted)

	deleted, err = s.svc.PruneDecidedRequests(s.ctx, decidedAt.Add(time.Hour))
	s.Require().NoError(err)
	s.Equal(int64(1), deleted)

	_, err = s.svc.SendRequest(s.ctx, s.alice.ID, "b@x.com")
	s.NoError(err)
}

func (s *StoreSuite) TestPruneLeavesPending() {
	_, err := s.svc.SendRequest(s.ctx, s.alice.ID, "b@x.com")
	s.Require().NoError(err)

	deleted, err := s.repo.DeleteDecidedBefore(s.ctx, time.Now().Add(24*time.Hour))
	s.Require().NoError(err)
	s.Zero(deleted)
}

func (s *StoreSuite) TestPendingOrderedOldestFirst() {
	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	dave := s.seedAccount("d@x.com")

	// Inserted newest first so ordering cannot fall out of insertion order.
	for i, sender := range []*user.User{s.alice, s.carol, dave} {
		req := &FriendRequest{SenderID: sender.ID, ReceiverID: s.bob.ID, Status: StatusPending}
		req.CreatedAt = base.Add(time.Duration(3-i) * time.Minute)
		s.Require().NoError(s.repo.CreateRequest(s.ctx, req))
	}

	pending, err := s.svc.ListPendingRequests(s.ctx, s.bob.ID)
	s.Require().NoError(err)
	s.Require().Len(pending, 3)
	s.Equal([]int64{dave.ID, s.carol.ID, s.alice.ID},
		[]int64{pending[0].Sender.ID, pending[1].Sender.ID, pending[2].Sender.ID})
	s.True(pending[0].CreatedAt.Before(pending[2].CreatedAt))
}

func (s *StoreSuite) TestStoreRejectsInvalidRows() {
	err := s.repo.CreateRequest(s.ctx, &FriendRequest{SenderID: s.alice.ID, ReceiverID: s.alice.ID})
	s.Error(err)

	s.Require().NoError(s.repo.CreateFriendship(s.ctx, &Friendship{UserID1: s.bob.ID, UserID2: s.alice.ID}))
	s.ErrorIs(s.repo.CreateFriendship(s.ctx, NewFriendship(s.alice.ID, s.bob.ID)), ErrPairConflict)

	f, err := s.repo.FindFriendship(s.ctx, s.bob.ID, s.alice.ID)
	s.Require().NoError(err)
	s.Equal(s.alice.ID, f.UserID1)
}

func (s *StoreSuite) TestTransactionRollsBackOnError() {
	err := s.repo.WithinTransaction(s.ctx, func(store Store) error {
		if err := store.CreateRequest(s.ctx, &FriendRequest{SenderID: s.alice.ID, ReceiverID: s.carol.ID}); err != nil {
			return err
		}
		return common.ErrAlreadyFriends
	})
	s.ErrorIs(err, common.ErrAlreadyFriends)

	_, err = s.repo.FindRequestByPair(s.ctx, s.carol.ID, s.alice.ID)
	s.ErrorIs(err, ErrNotFound)
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}
