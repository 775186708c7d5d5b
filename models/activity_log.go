package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityLog is an immutable per-day record. The (owner_id, date) unique
// index is what rejects a second submission for the same day.
type ActivityLog struct {
	ID          uint                        `gorm:"primaryKey" json:"id"`
	OwnerID     uint                        `gorm:"not null;uniqueIndex:idx_activity_logs_owner_date,priority:1" json:"userId"`
	Username    string                      `json:"username"`
	JourneyType JourneyType                 `gorm:"size:32;not null;index" json:"journeyType"`
	Date        string                      `gorm:"size:10;not null;uniqueIndex:idx_activity_logs_owner_date,priority:2" json:"date"` // YYYY-MM-DD (UTC)
	IsCheckIn   bool                        `gorm:"not null" json:"isCheckIn"`
	Data        datatypes.JSONType[LogData] `json:"data"`
	CreatedAt   time.Time                   `json:"createdAt"`
}

// LogData is the payload of a log: the numeric value (calories, minutes, ...)
// and a free-text note. Check-ins carry a zero value.
type LogData struct {
	ValueLogged int    `json:"valueLogged"`
	Details     string `json:"details,omitempty"`
}

func NewLogData(value int, details string) datatypes.JSONType[LogData] {
	return datatypes.NewJSONType(LogData{ValueLogged: value, Details: details})
}
