package services

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/hassam391/stead-backend/models"
	"github.com/hassam391/stead-backend/store"
)

// Friday; the week started on Sunday 2026-10-11.
var fixedNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testOptions(now time.Time, extra ...Option) []Option {
	return append([]Option{WithClock(func() time.Time { return now }), WithLogger(quietLogger())}, extra...)
}

func seedUser(t *testing.T, st store.Store, email, username string, mutate func(*models.User)) *models.User {
	t.Helper()
	u := &models.User{Email: email}
	if username != "" {
		u.Username = &username
	}
	if mutate != nil {
		mutate(u)
	}
	require.NoError(t, st.CreateUser(context.Background(), u))
	return u
}

func seedMetric(t *testing.T, st store.Store, u *models.User, mutate func(*models.Metric)) *models.Metric {
	t.Helper()
	m := models.NewMetric(u)
	if mutate != nil {
		mutate(m)
	}
	require.NoError(t, st.CreateMetric(context.Background(), m))
	return m
}

func seedLog(t *testing.T, st store.Store, u *models.User, date string, checkIn bool) {
	t.Helper()
	require.NoError(t, st.CreateLog(context.Background(), &models.ActivityLog{
		OwnerID:     u.ID,
		JourneyType: u.JourneyType(),
		Date:        date,
		IsCheckIn:   checkIn,
		Data:        models.NewLogData(30, ""),
	}))
}

func exerciseJourney(freq int) func(*models.User) {
	return func(u *models.User) {
		j := models.JourneyExercise
		u.Journey = &j
		u.Frequency = freq
	}
}

func calorieJourney(goal models.GoalType, calories int) func(*models.User) {
	return func(u *models.User) {
		j := models.JourneyCalorieTracking
		u.Journey = &j
		u.Goal = &goal
		u.CalorieGoal = &calories
		u.Frequency = 7
	}
}

func strPtr(s string) *string { return &s }

type fakeCache struct {
	mu          sync.Mutex
	entries     []LeaderboardEntry
	cached      bool
	sets        int
	invalidated int
}

func (c *fakeCache) Get(context.Context) ([]LeaderboardEntry, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries, c.cached, nil
}

func (c *fakeCache) Set(_ context.Context, entries []LeaderboardEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries, c.cached = entries, true
	c.sets++
	return nil
}

func (c *fakeCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries, c.cached = nil, false
	c.invalidated++
	return nil
}
