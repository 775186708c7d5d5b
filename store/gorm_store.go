package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/hassam391/stead-backend/models"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const pgUniqueViolation = "23505"

type GormStore struct{ db *gorm.DB }

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{db: db} }

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}

func (s *GormStore) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *GormStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *GormStore) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *GormStore) CreateUser(ctx context.Context, u *models.User) error {
	return translate(s.db.WithContext(ctx).Create(u).Error)
}

func (s *GormStore) SaveUser(ctx context.Context, u *models.User) error {
	return translate(s.db.WithContext(ctx).Save(u).Error)
}

func (s *GormStore) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Find(&users).Error
	return users, translate(err)
}

func (s *GormStore) FindMetric(ctx context.Context, userID uint) (*models.Metric, error) {
	var m models.Metric
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	m.Normalize()
	return &m, nil
}

func (s *GormStore) LockMetric(ctx context.Context, userID uint) (*models.Metric, error) {
	var m models.Metric
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	m.Normalize()
	return &m, nil
}

func (s *GormStore) CreateMetric(ctx context.Context, m *models.Metric) error {
	m.Normalize()
	return translate(s.db.WithContext(ctx).Create(m).Error)
}

func (s *GormStore) SaveMetric(ctx context.Context, m *models.Metric) error {
	m.Normalize()
	return translate(s.db.WithContext(ctx).Save(m).Error)
}

func (s *GormStore) ListMetrics(ctx context.Context) ([]models.Metric, error) {
	var metrics []models.Metric
	if err := s.db.WithContext(ctx).Find(&metrics).Error; err != nil {
		return nil, translate(err)
	}
	for i := range metrics {
		metrics[i].Normalize()
	}
	return metrics, nil
}

func (s *GormStore) CreateLog(ctx context.Context, l *models.ActivityLog) error {
	return translate(s.db.WithContext(ctx).Create(l).Error)
}

func (s *GormStore) FindLog(ctx context.Context, ownerID uint, date string) (*models.ActivityLog, error) {
	var l models.ActivityLog
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND date = ?", ownerID, date).
		First(&l).Error
	if err != nil {
		return nil, translate(err)
	}
	return &l, nil
}

func (s *GormStore) CountLogsSince(ctx context.Context, ownerID uint, journey models.JourneyType, from string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&models.ActivityLog{}).
		Where("owner_id = ? AND journey_type = ? AND is_check_in = ? AND date >= ?", ownerID, journey, false, from).
		Count(&n).Error
	return n, translate(err)
}

func (s *GormStore) RecentLogs(ctx context.Context, ownerID uint, limit int) ([]models.ActivityLog, error) {
	var logs []models.ActivityLog
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("date desc").
		Limit(limit).
		Find(&logs).Error
	return logs, translate(err)
}

func (s *GormStore) CreateFeedback(ctx context.Context, f *models.Feedback) error {
	return translate(s.db.WithContext(ctx).Create(f).Error)
}

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// Ping checks that the database answers.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
