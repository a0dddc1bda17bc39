package repositories

import (
	"context"
	"testing"
	"time"

	"wallet-dashboard/internal/database"
	"wallet-dashboard/internal/models"

	"github.com/stretchr/testify/suite"
)

func TestSnapshotRepository(t *testing.T) {
	suite.Run(t, new(SnapshotRepositorySuite))
}

type SnapshotRepositorySuite struct {
	suite.Suite
	db   *database.DB
	repo SnapshotRepositoryInterface
	ctx  context.Context
}

func (s *SnapshotRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewSnapshotRepository(s.db.DB)
	s.ctx = context.Background()
}

func (s *SnapshotRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *SnapshotRepositorySuite) TestGet_NotFound() {
	snapshot, err := s.repo.Get(s.ctx, "wallet")

	s.Nil(snapshot)
	s.ErrorIs(err, ErrSnapshotNotFound)
}

func (s *SnapshotRepositorySuite) TestSave_InsertsThenReplaces() {
	first := time.Date(2022, time.March, 1, 9, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	s.Require().NoError(s.repo.Save(s.ctx, &models.ResourceSnapshot{
		Key:       "transactions",
		Payload:   []byte(`[{"amount":1}]`),
		FetchedAt: first,
	}))
	s.Require().NoError(s.repo.Save(s.ctx, &models.ResourceSnapshot{
		Key:       "transactions",
		Payload:   []byte(`[{"amount":2}]`),
		FetchedAt: second,
	}))

	snapshot, err := s.repo.Get(s.ctx, "transactions")
	s.Require().NoError(err)
	s.Equal(`[{"amount":2}]`, string(snapshot.Payload))
	s.True(snapshot.FetchedAt.Equal(second))

	var count int64
	s.Require().NoError(s.db.Model(&models.ResourceSnapshot{}).Count(&count).Error)
	s.Equal(int64(1), count)
}

func (s *SnapshotRepositorySuite) TestSave_RejectsInvalidInput() {
	s.Error(s.repo.Save(s.ctx, nil))
	s.Error(s.repo.Save(s.ctx, &models.ResourceSnapshot{Payload: []byte(`{}`)}))
}

func (s *SnapshotRepositorySuite) TestDeleteOlderThan() {
	now := time.Now().UTC()
	s.Require().NoError(s.repo.Save(s.ctx, &models.ResourceSnapshot{Key: "user", Payload: []byte(`{}`), FetchedAt: now.Add(-2 * time.Hour)}))
	s.Require().NoError(s.repo.Save(s.ctx, &models.ResourceSnapshot{Key: "wallet", Payload: []byte(`{}`), FetchedAt: now}))

	removed, err := s.repo.DeleteOlderThan(s.ctx, now.Add(-time.Hour))

	s.Require().NoError(err)
	s.Equal(int64(1), removed)
	_, err = s.repo.Get(s.ctx, "user")
	s.ErrorIs(err, ErrSnapshotNotFound)
	_, err = s.repo.Get(s.ctx, "wallet")
	s.NoError(err)
}
