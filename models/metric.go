package models

import (
	"time"

	"github.com/lib/pq"
)

// Metric holds the streak state for one user.
type Metric struct {
	ID                    uint           `gorm:"primaryKey" json:"id"`
	UserID                uint           `gorm:"uniqueIndex;not null" json:"userId"`
	Username              string         `json:"username"`
	Streak                int            `gorm:"not null" json:"streak"`
	LastLoggedDate        *string        `gorm:"size:10" json:"lastLoggedDate"`
	MissedDays            pq.StringArray `gorm:"type:text[]" json:"missedDays"`
	HasMetWeeklyLogTarget bool           `gorm:"not null" json:"hasMetWeeklyLogTarget"`
	RewardsUnlocked       pq.StringArray `gorm:"type:text[]" json:"rewardsUnlocked"`
	TitlesUnlocked        pq.StringArray `gorm:"type:text[]" json:"titlesUnlocked"`
	NewRewardAlert        bool           `gorm:"not null" json:"newRewardAlert"`
	CreatedAt             time.Time      `json:"createdAt"`
	UpdatedAt             time.Time      `json:"updatedAt"`
}

// NewMetric returns the defaults for a user that has never been scored.
func NewMetric(u *User) *Metric {
	return &Metric{
		UserID:          u.ID,
		Username:        u.DisplayName(),
		MissedDays:      pq.StringArray{},
		RewardsUnlocked: pq.StringArray{},
		TitlesUnlocked:  pq.StringArray{},
	}
}

// Normalize replaces nil sets with empty ones so they encode as [].
func (m *Metric) Normalize() {
	if m.MissedDays == nil {
		m.MissedDays = pq.StringArray{}
	}
	if m.RewardsUnlocked == nil {
		m.RewardsUnlocked = pq.StringArray{}
	}
	if m.TitlesUnlocked == nil {
		m.TitlesUnlocked = pq.StringArray{}
	}
}
