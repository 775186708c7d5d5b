package models

import (
	"gorm.io/gorm"
)

// User is one profile per verified identity. Journey fields are nil until a
// journey has been selected.
type User struct {
	gorm.Model
	Email       string       `gorm:"uniqueIndex;not null" json:"email"`
	Username    *string      `gorm:"uniqueIndex" json:"username"`
	Journey     *JourneyType `gorm:"size:32" json:"journey"`
	Frequency   int          `gorm:"not null" json:"frequency"`
	Goal        *GoalType    `gorm:"size:32" json:"goal"`
	Activity    *string      `json:"activity"`
	CalorieGoal *int         `json:"calorieGoal"`
}

// DisplayName returns the username or "Unknown" when none was registered.
func (u *User) DisplayName() string {
	if u == nil || u.Username == nil || *u.Username == "" {
		return "Unknown"
	}
	return *u.Username
}

// JourneyType returns the selected journey or the empty string.
func (u *User) JourneyType() JourneyType {
	if u.Journey == nil {
		return ""
	}
	return *u.Journey
}
