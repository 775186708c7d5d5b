package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/hassam391/stead-backend/models"
	"github.com/hassam391/stead-backend/store"
)

type RegisterInput struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// JourneyInput is the journey-selection body. Numeric fields are pointers so
// that a missing value can be told apart from zero.
type JourneyInput struct {
	Journey     string   `json:"journey"`
	Frequency   *float64 `json:"frequency"`
	Goal        string   `json:"goal"`
	Activity    string   `json:"activity"`
	CalorieGoal *float64 `json:"calorieGoal"`
}

type UserInfo struct {
	Email         string              `json:"email"`
	Journey       *models.JourneyType `json:"journey"`
	Username      *string             `json:"username"`
	Frequency     int                 `json:"frequency"`
	Goal          *models.GoalType    `json:"goal"`
	Activity      *string             `json:"activity"`
	CalorieGoal   *int                `json:"calorieGoal"`
	CurrentStreak int                 `json:"currentStreak"`
}

type UserService struct {
	store store.Store
	options
}

func NewUserService(st store.Store, opts ...Option) *UserService {
	return &UserService{store: st, options: buildOptions(opts)}
}

// Protected confirms a profile exists for the verified email.
func (s *UserService) Protected(ctx context.Context, email string) (string, error) {
	if _, err := findUser(ctx, s.store, email); err != nil {
		return "", err
	}
	return fmt.Sprintf("Hello %s, you are authenticated!", email), nil
}

// Info returns the profile with the current streak, 0 when no metric exists yet.
func (s *UserService) Info(ctx context.Context, email string) (*UserInfo, error) {
	u, err := findUser(ctx, s.store, email)
	if err != nil {
		return nil, err
	}
	info := &UserInfo{
		Email:       u.Email,
		Journey:     u.Journey,
		Username:    u.Username,
		Frequency:   u.Frequency,
		Goal:        u.Goal,
		Activity:    u.Activity,
		CalorieGoal: u.CalorieGoal,
	}
	m, err := s.store.FindMetric(ctx, u.ID)
	switch {
	case err == nil:
		info.CurrentStreak = m.Streak
	case !errors.Is(err, store.ErrNotFound):
		return nil, err
	}
	return info, nil
}

// Register creates the profile and its metric for tokenEmail.
func (s *UserService) Register(ctx context.Context, tokenEmail string, in RegisterInput) error {
	email := strings.TrimSpace(in.Email)
	username := strings.TrimSpace(in.Username)
	if email == "" || username == "" {
		return validation("Missing required fields")
	}
	if !strings.EqualFold(email, tokenEmail) {
		return validation("Email does not match the signed-in account")
	}
	email = tokenEmail

	if _, err := s.store.FindUserByUsername(ctx, username); err == nil {
		return ErrUsernameTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}
	if _, err := s.store.FindUserByEmail(ctx, email); err == nil {
		return ErrAccountExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	err := s.store.Transaction(ctx, func(tx store.Store) error {
		u := &models.User{Email: email, Username: &username}
		if err := tx.CreateUser(ctx, u); err != nil {
			return err
		}
		return tx.CreateMetric(ctx, models.NewMetric(u))
	})
	if errors.Is(err, store.ErrDuplicate) {
		// Lost a race with a concurrent registration.
		if _, ferr := s.store.FindUserByEmail(ctx, email); ferr == nil {
			return ErrAccountExists
		}
		return ErrUsernameTaken
	}
	if err != nil {
		return err
	}

	s.invalidateLeaderboard(ctx)
	s.log.WithFields(logrus.Fields{"email": email, "username": username}).Info("user registered")
	return nil
}

// SaveJourney replaces the journey settings for email, creating the profile
// when none exists.
func (s *UserService) SaveJourney(ctx context.Context, email string, in JourneyInput) error {
	journey := models.JourneyType(in.Journey)
	goal := models.GoalType(in.Goal)
	activity := strings.TrimSpace(in.Activity)

	u, err := s.store.FindUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		u = &models.User{Email: email}
	} else if err != nil {
		return err
	}

	u.Journey = &journey
	u.Frequency = 0
	u.Goal = nil
	u.Activity = nil
	u.CalorieGoal = nil

	switch journey {
	case models.JourneyCalorieTracking:
		calories, ok := wholeNumber(in.CalorieGoal, 1, maxCalorieGoal)
		if !goal.Valid() || !ok {
			return validation("Goal and calorieGoal are required for calorie tracking.")
		}
		u.Goal = &goal
		u.CalorieGoal = &calories
		u.Frequency = 7
	case models.JourneyExercise:
		freq, ok := wholeNumber(in.Frequency, 0, maxFrequency)
		if !ok {
			return validation("Frequency is required for exercise journey.")
		}
		u.Frequency = freq
	case models.JourneyOther:
		freq, ok := wholeNumber(in.Frequency, 0, maxFrequency)
		if activity == "" || !ok {
			return validation("Activity name and frequency are required for 'other' journey.")
		}
		u.Activity = &activity
		u.Frequency = freq
	default:
		return validation("Invalid journey type.")
	}

	if err := s.store.SaveUser(ctx, u); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"user_id": u.ID, "journey": journey}).Info("journey saved")
	return nil
}

const (
	// one log per day caps the weekly target
	maxFrequency   = 7
	maxCalorieGoal = 20000
)

// wholeNumber converts f to an int when it is a whole number in [lo, hi].
func wholeNumber(f *float64, lo, hi int) (int, bool) {
	if f == nil || math.Trunc(*f) != *f || *f < float64(lo) || *f > float64(hi) {
		return 0, false
	}
	return int(*f), true
}
