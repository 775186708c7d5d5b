package services

import (
	"context"
	"errors"

	"github.com/hassam391/stead-backend/models"
	"github.com/hassam391/stead-backend/store"
)

func findUser(ctx context.Context, st store.Store, email string) (*models.User, error) {
	u, err := st.FindUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// loadOrCreateMetric returns the user's metric, creating the default row on
// first use. Losing a concurrent create re-reads the winner's row.
func loadOrCreateMetric(ctx context.Context, st store.Store, u *models.User) (*models.Metric, error) {
	m, err := st.FindMetric(ctx, u.ID)
	if err == nil {
		m.Normalize()
		return m, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	m = models.NewMetric(u)
	if err := st.CreateMetric(ctx, m); err != nil {
		if !errors.Is(err, store.ErrDuplicate) {
			return nil, err
		}
		if m, err = st.FindMetric(ctx, u.ID); err != nil {
			return nil, err
		}
		m.Normalize()
	}
	return m, nil
}
