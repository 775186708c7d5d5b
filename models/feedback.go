package models

import "time"

const MaxFeedbackLength = 500

type Feedback struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Message     string    `gorm:"size:500;not null" json:"message"`
	SubmittedAt time.Time `gorm:"not null" json:"submittedAt"`
}
