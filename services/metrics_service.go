package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hassam391/stead-backend/models"
	"github.com/hassam391/stead-backend/store"
	"github.com/hassam391/stead-backend/telemetry"
	"github.com/hassam391/stead-backend/utils"
)

const recentLogsLimit = 5

var ErrInvalidValue = validation("Invalid value logged")

// MetricsService computes streaks, missed-day penalties and unlocks.
type MetricsService struct {
	store store.Store
	options
}

func NewMetricsService(st store.Store, opts ...Option) *MetricsService {
	return &MetricsService{store: st, options: buildOptions(opts)}
}

// MetricsView is the metric merged with today's status.
type MetricsView struct {
	models.Metric
	LoggedToday    bool `json:"loggedToday"`
	CheckedInToday bool `json:"checkedInToday"`
}

// ActivityInput is the body of a log-activity submission. caloriesLogged is
// an older name for valueLogged.
type ActivityInput struct {
	ValueLogged    LoggedValue `json:"valueLogged"`
	CaloriesLogged LoggedValue `json:"caloriesLogged"`
	Details        string      `json:"details"`
	IsCheckIn      bool        `json:"isCheckIn"`
}

func (in ActivityInput) value() LoggedValue {
	if in.ValueLogged.Set {
		return in.ValueLogged
	}
	return in.CaloriesLogged
}

type ActivityResult struct {
	Message        string `json:"message"`
	Streak         int    `json:"streak"`
	NewRewardAlert bool   `json:"newRewardAlert"`
}

type TitleView struct {
	Username       string   `json:"username"`
	LatestTitle    string   `json:"latestTitle"`
	TitlesUnlocked []string `json:"titlesUnlocked"`
}

// Read applies any pending missed-day penalty and returns the user's metric
// with this week's target and today's status filled in.
func (s *MetricsService) Read(ctx context.Context, email string) (*MetricsView, error) {
	user, err := findUser(ctx, s.store, email)
	if err != nil {
		return nil, err
	}
	if _, err := loadOrCreateMetric(ctx, s.store, user); err != nil {
		return nil, err
	}

	now := s.now()
	today := utils.DateKey(now)
	var (
		m     *models.Metric
		dirty bool
	)
	err = s.store.Transaction(ctx, func(tx store.Store) error {
		var err error
		if m, err = tx.LockMetric(ctx, user.ID); err != nil {
			return err
		}
		if dirty, err = s.refresh(ctx, tx, user, m, now); err != nil {
			return err
		}
		if !dirty {
			return nil
		}
		return tx.SaveMetric(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	if dirty {
		s.invalidateLeaderboard(ctx)
	}

	view := &MetricsView{Metric: *m}
	entry, err := s.store.FindLog(ctx, user.ID, today)
	switch {
	case err == nil:
		view.CheckedInToday = entry.IsCheckIn
		view.LoggedToday = !entry.IsCheckIn
	case !errors.Is(err, store.ErrNotFound):
		return nil, err
	}
	return view, nil
}

// refresh applies a pending missed-day penalty and recomputes the weekly
// target flag on a locked metric. Reports whether m changed.
func (s *MetricsService) refresh(ctx context.Context, tx store.Store, user *models.User, m *models.Metric, now time.Time) (bool, error) {
	today := utils.DateKey(now)
	dirty := false

	if m.LastLoggedDate != nil && *m.LastLoggedDate != today {
		yesterday := utils.Yesterday(now)
		_, err := tx.FindLog(ctx, user.ID, yesterday)
		switch {
		case errors.Is(err, store.ErrNotFound):
			before := m.Streak
			if ApplyMissedDay(m, yesterday) {
				dirty = true
				outcome := "decrement"
				if len(m.MissedDays) == 0 {
					outcome = "reset"
				}
				telemetry.StreakPenalties.WithLabelValues(outcome).Inc()
				s.log.WithFields(logrus.Fields{
					"user_id": user.ID,
					"date":    today,
					"missed":  yesterday,
					"from":    before,
					"to":      m.Streak,
				}).Info("missed-day penalty applied")
			}
		case err != nil:
			return false, err
		}
	}

	weekly := false
	if journey := user.JourneyType(); journey.CountsTowardsWeeklyTarget() {
		from := utils.DateKey(utils.StartOfWeek(now))
		n, err := tx.CountLogsSince(ctx, user.ID, journey, from)
		if err != nil {
			return false, err
		}
		weekly = n >= int64(user.Frequency)
	}
	if weekly != m.HasMetWeeklyLogTarget {
		m.HasMetWeeklyLogTarget = weekly
		dirty = true
	}
	return dirty, nil
}

// LogActivity records today's log or check-in and advances the streak when
// the submission qualifies. A second submission on the same day is rejected
// with ErrAlreadyLogged.
func (s *MetricsService) LogActivity(ctx context.Context, email string, in ActivityInput) (*ActivityResult, error) {
	logged := 0
	if !in.IsCheckIn {
		v := in.value()
		if !v.Valid {
			return nil, ErrInvalidValue
		}
		logged = v.Value
	}

	user, err := findUser(ctx, s.store, email)
	if err != nil {
		return nil, err
	}
	journey := user.JourneyType()
	if !journey.Valid() {
		return nil, validation("Select a journey before logging")
	}
	if in.IsCheckIn && journey == models.JourneyCalorieTracking {
		return nil, validation("Check-ins are not available for calorie tracking")
	}
	if _, err := loadOrCreateMetric(ctx, s.store, user); err != nil {
		return nil, err
	}

	today := utils.DateKey(s.now())
	incremented := QualifiesForStreak(user, logged)
	var (
		metric   *models.Metric
		unlocked []string
	)
	err = s.store.Transaction(ctx, func(tx store.Store) error {
		entry := &models.ActivityLog{
			OwnerID:     user.ID,
			Username:    stringValue(user.Username),
			JourneyType: journey,
			Date:        today,
			IsCheckIn:   in.IsCheckIn,
		}
		entry.Data = models.NewLogData(logged, in.Details)
		if err := tx.CreateLog(ctx, entry); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return ErrAlreadyLogged
			}
			return err
		}

		m, err := tx.LockMetric(ctx, user.ID)
		if err != nil {
			return err
		}
		if incremented {
			m.Streak++
			unlocked = UnlockRewards(m)
		}
		m.LastLoggedDate = &today
		m.Username = user.DisplayName()
		metric = m
		return tx.SaveMetric(ctx, m)
	})
	if err != nil {
		return nil, err
	}

	telemetry.LogsSubmitted.WithLabelValues(string(journey), strconv.FormatBool(incremented)).Inc()
	telemetry.RewardsUnlocked.Add(float64(len(unlocked)))
	s.invalidateLeaderboard(ctx)

	fields := logrus.Fields{"user_id": user.ID, "journey": journey, "check_in": in.IsCheckIn, "streak": metric.Streak}
	if len(unlocked) > 0 {
		fields["unlocked"] = unlocked
	}
	s.log.WithFields(fields).Info("activity logged")

	msg := "Log saved"
	if in.IsCheckIn {
		msg = "Check-in saved"
	}
	return &ActivityResult{Message: msg, Streak: metric.Streak, NewRewardAlert: metric.NewRewardAlert}, nil
}

// ClearRewardAlert marks pending unlocks as seen.
func (s *MetricsService) ClearRewardAlert(ctx context.Context, email string) error {
	user, err := findUser(ctx, s.store, email)
	if err != nil {
		return err
	}
	return s.store.Transaction(ctx, func(tx store.Store) error {
		m, err := tx.LockMetric(ctx, user.ID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrMetricsNotFound
		}
		if err != nil {
			return err
		}
		if !m.NewRewardAlert {
			return nil
		}
		m.NewRewardAlert = false
		return tx.SaveMetric(ctx, m)
	})
}

func (s *MetricsService) TitleDisplay(ctx context.Context, email string) (*TitleView, error) {
	user, m, err := s.metricFor(ctx, email)
	if err != nil {
		return nil, err
	}
	return &TitleView{
		Username:       user.DisplayName(),
		LatestTitle:    LatestTitle(m.TitlesUnlocked),
		TitlesUnlocked: m.TitlesUnlocked,
	}, nil
}

// RecentLogs returns the latest logs, newest first.
func (s *MetricsService) RecentLogs(ctx context.Context, email string) ([]models.ActivityLog, error) {
	user, err := findUser(ctx, s.store, email)
	if err != nil {
		return nil, err
	}
	logs, err := s.store.RecentLogs(ctx, user.ID, recentLogsLimit)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []models.ActivityLog{}
	}
	return logs, nil
}

// metricFor loads an existing metric without creating one.
func (s *MetricsService) metricFor(ctx context.Context, email string) (*models.User, *models.Metric, error) {
	user, err := findUser(ctx, s.store, email)
	if err != nil {
		return nil, nil, err
	}
	m, err := s.store.FindMetric(ctx, user.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, ErrMetricsNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	m.Normalize()
	return user, m, nil
}
