package services

import (
	"context"
	"errors"

	"github.com/hassam391/stead-backend/models"
	"github.com/hassam391/stead-backend/store"
	"github.com/hassam391/stead-backend/utils"
)

var ErrDuplicateLog = conflict("You've already logged today!")

// PlainLogInput is a day's log recorded without streak evaluation.
type PlainLogInput struct {
	JourneyType string         `json:"journeyType"`
	Data        models.LogData `json:"data"`
}

// LogService records plain logs. Streak-aware submissions go through
// MetricsService.LogActivity.
type LogService struct {
	store store.Store
	options
}

func NewLogService(st store.Store, opts ...Option) *LogService {
	return &LogService{store: st, options: buildOptions(opts)}
}

func (s *LogService) Create(ctx context.Context, email string, in PlainLogInput) error {
	u, err := findUser(ctx, s.store, email)
	if err != nil {
		return err
	}
	journey := models.JourneyType(in.JourneyType)
	if journey == "" {
		journey = u.JourneyType()
	}
	if !journey.Valid() {
		return validation("Invalid journey type.")
	}

	entry := &models.ActivityLog{
		OwnerID:     u.ID,
		Username:    stringValue(u.Username),
		JourneyType: journey,
		Date:        utils.DateKey(s.now()),
		Data:        models.NewLogData(in.Data.ValueLogged, in.Data.Details),
	}
	if err := s.store.CreateLog(ctx, entry); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return ErrDuplicateLog
		}
		return err
	}
	return nil
}

// CheckToday reports whether email already has a log for today.
func (s *LogService) CheckToday(ctx context.Context, email string) (bool, error) {
	u, err := findUser(ctx, s.store, email)
	if err != nil {
		return false, err
	}
	_, err = s.store.FindLog(ctx, u.ID, utils.DateKey(s.now()))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, store.ErrNotFound):
		return false, nil
	}
	return false, err
}
