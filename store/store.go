// Package store is the persistence boundary. Services only see the Store
// interface; GormStore backs it with PostgreSQL and MemoryStore keeps
// everything in process for local runs and tests.
package store

import (
	"context"
	"errors"

	"github.com/hassam391/stead-backend/models"
)

var (
	ErrNotFound  = errors.New("store: record not found")
	ErrDuplicate = errors.New("store: duplicate key")
)

type Store interface {
	FindUserByID(ctx context.Context, id uint) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	SaveUser(ctx context.Context, u *models.User) error
	ListUsers(ctx context.Context) ([]models.User, error)

	FindMetric(ctx context.Context, userID uint) (*models.Metric, error)
	// LockMetric reads the metric and holds a row lock until the enclosing
	// transaction ends. Call it through the tx handed to Transaction.
	LockMetric(ctx context.Context, userID uint) (*models.Metric, error)
	CreateMetric(ctx context.Context, m *models.Metric) error
	SaveMetric(ctx context.Context, m *models.Metric) error
	ListMetrics(ctx context.Context) ([]models.Metric, error)

	CreateLog(ctx context.Context, l *models.ActivityLog) error
	FindLog(ctx context.Context, ownerID uint, date string) (*models.ActivityLog, error)
	// CountLogsSince counts non check-in logs of the given journey dated on or after from.
	CountLogsSince(ctx context.Context, ownerID uint, journey models.JourneyType, from string) (int64, error)
	RecentLogs(ctx context.Context, ownerID uint, limit int) ([]models.ActivityLog, error)

	CreateFeedback(ctx context.Context, f *models.Feedback) error

	// Transaction runs fn against a Store bound to one transaction. Any error
	// returned by fn rolls every write back.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
