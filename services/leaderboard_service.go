package services

import (
	"context"
	"sort"

	"github.com/hassam391/stead-backend/store"
	"github.com/hassam391/stead-backend/telemetry"
)

type LeaderboardEntry struct {
	Rank          int     `json:"rank"`
	Username      string  `json:"username"`
	Streak        int     `json:"streak"`
	LatestTitle   string  `json:"latestTitle"`
	HighestReward *string `json:"highestReward"`
}

// LeaderboardService ranks every metric by streak.
type LeaderboardService struct {
	store store.Store
	options
}

func NewLeaderboardService(st store.Store, opts ...Option) *LeaderboardService {
	return &LeaderboardService{store: st, options: buildOptions(opts)}
}

// Build returns one entry per metric ordered by streak descending, then
// username ascending.
func (s *LeaderboardService) Build(ctx context.Context) ([]LeaderboardEntry, error) {
	if s.cache != nil {
		entries, ok, err := s.cache.Get(ctx)
		switch {
		case err != nil:
			telemetry.LeaderboardCache.WithLabelValues("error").Inc()
			s.log.WithError(err).Warn("leaderboard cache read failed")
		case ok:
			telemetry.LeaderboardCache.WithLabelValues("hit").Inc()
			return entries, nil
		default:
			telemetry.LeaderboardCache.WithLabelValues("miss").Inc()
		}
	}

	metrics, err := s.store.ListMetrics(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(users))
	for i := range users {
		names[users[i].ID] = users[i].DisplayName()
	}

	entries := make([]LeaderboardEntry, 0, len(metrics))
	for _, m := range metrics {
		name, ok := names[m.UserID]
		if !ok {
			name = "Unknown"
		}
		e := LeaderboardEntry{
			Username:    name,
			Streak:      m.Streak,
			LatestTitle: LatestTitle(m.TitlesUnlocked),
		}
		if r := HighestDay(m.RewardsUnlocked); r != "" {
			e.HighestReward = &r
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Streak != entries[j].Streak {
			return entries[i].Streak > entries[j].Streak
		}
		return entries[i].Username < entries[j].Username
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, entries); err != nil {
			s.log.WithError(err).Warn("leaderboard cache write failed")
		}
	}
	return entries, nil
}
