package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hassam391/stead-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestMemoryStore_CreateLogRejectsSameDay(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	first := &models.ActivityLog{OwnerID: 1, Date: "2026-10-16", JourneyType: models.JourneyExercise}
	require.NoError(t, s.CreateLog(ctx, first))
	assert.NotZero(t, first.ID)

	second := &models.ActivityLog{OwnerID: 1, Date: "2026-10-16", JourneyType: models.JourneyExercise, IsCheckIn: true}
	err := s.CreateLog(ctx, second)
	assert.ErrorIs(t, err, ErrDuplicate)

	other := &models.ActivityLog{OwnerID: 2, Date: "2026-10-16", JourneyType: models.JourneyExercise}
	assert.NoError(t, s.CreateLog(ctx, other))
}

func TestMemoryStore_UserUniqueness(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.CreateUser(ctx, &models.User{Email: "a@example.com", Username: strPtr("alice")}))
	assert.ErrorIs(t, s.CreateUser(ctx, &models.User{Email: "a@example.com"}), ErrDuplicate)
	assert.ErrorIs(t, s.CreateUser(ctx, &models.User{Email: "b@example.com", Username: strPtr("alice")}), ErrDuplicate)

	// Users without a username do not collide with each other.
	require.NoError(t, s.CreateUser(ctx, &models.User{Email: "c@example.com"}))
	require.NoError(t, s.CreateUser(ctx, &models.User{Email: "d@example.com"}))

	u, err := s.FindUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", u.Email)

	_, err = s.FindUserByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_TransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	u := &models.User{Email: "a@example.com"}
	require.NoError(t, s.CreateUser(ctx, u))
	require.NoError(t, s.CreateMetric(ctx, models.NewMetric(u)))

	boom := errors.New("boom")
	err := s.Transaction(ctx, func(tx Store) error {
		m, err := tx.FindMetric(ctx, u.ID)
		require.NoError(t, err)
		m.Streak = 9
		require.NoError(t, tx.SaveMetric(ctx, m))
		require.NoError(t, tx.CreateLog(ctx, &models.ActivityLog{OwnerID: u.ID, Date: "2026-10-16"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	m, err := s.FindMetric(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, m.Streak)
	_, err = s.FindLog(ctx, u.ID, "2026-10-16")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_RollbackKeepsConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	attempting := make(chan struct{})
	written := make(chan error, 1)
	boom := errors.New("boom")

	err := s.Transaction(ctx, func(tx Store) error {
		go func() {
			close(attempting)
			written <- s.CreateUser(ctx, &models.User{Email: "outside@example.com"})
		}()
		<-attempting
		// give the outside writer time to reach the store
		time.Sleep(20 * time.Millisecond)
		require.NoError(t, tx.CreateFeedback(ctx, &models.Feedback{Message: "hi"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	require.NoError(t, <-written)

	u, err := s.FindUserByEmail(ctx, "outside@example.com")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Empty(t, s.Feedback(), "the transaction's own write is rolled back")
}

func TestMemoryStore_NestedTransactionJoinsOuter(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	boom := errors.New("boom")

	err := s.Transaction(ctx, func(tx Store) error {
		require.NoError(t, tx.Transaction(ctx, func(inner Store) error {
			return inner.CreateUser(ctx, &models.User{Email: "a@example.com"})
		}))
		m, err := tx.LockMetric(ctx, 1)
		assert.Nil(t, m)
		assert.ErrorIs(t, err, ErrNotFound)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.FindUserByEmail(ctx, "a@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_MetricCopiesAreIndependent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	m := &models.Metric{UserID: 7}
	require.NoError(t, s.CreateMetric(ctx, m))

	got, err := s.FindMetric(ctx, 7)
	require.NoError(t, err)
	got.TitlesUnlocked = append(got.TitlesUnlocked, "Day 1: Beginner")

	again, err := s.FindMetric(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, again.TitlesUnlocked)
	assert.ErrorIs(t, s.CreateMetric(ctx, &models.Metric{UserID: 7}), ErrDuplicate)
}

func TestMemoryStore_RecentLogsAndCount(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	for _, d := range []string{"2026-10-10", "2026-10-11", "2026-10-12", "2026-10-13", "2026-10-14", "2026-10-15"} {
		require.NoError(t, s.CreateLog(ctx, &models.ActivityLog{OwnerID: 1, Date: d, JourneyType: models.JourneyExercise}))
	}
	require.NoError(t, s.CreateLog(ctx, &models.ActivityLog{OwnerID: 1, Date: "2026-10-16", JourneyType: models.JourneyExercise, IsCheckIn: true}))

	recent, err := s.RecentLogs(ctx, 1, 5)
	require.NoError(t, err)
	require.Len(t, recent, 5)
	assert.Equal(t, "2026-10-16", recent[0].Date)
	assert.Equal(t, "2026-10-12", recent[4].Date)

	n, err := s.CountLogsSince(ctx, 1, models.JourneyExercise, "2026-10-11")
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
}
