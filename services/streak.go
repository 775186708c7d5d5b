package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/hassam391/stead-backend/models"
)

// DefaultTitle is shown when no title has been unlocked yet.
const DefaultTitle = "Beginner"

const rewardInterval = 7

var dailyTitles = map[int]string{
	1: "Day 1: Beginner",
	2: "Day 2: Fresh Starter",
	3: "Day 3: Gaining Momentum",
	4: "Day 4: Turning Point",
	5: "Day 5: Getting there",
	6: "Day 6: Hang of it",
	7: "Day 7: Consistency King",
}

var dayNumber = regexp.MustCompile(`\d+`)

// CalorieTargetMet reports whether logged falls in the band for goal.
func CalorieTargetMet(goal models.GoalType, calorieGoal, logged int) bool {
	switch goal {
	case models.GoalLoseWeight:
		return logged <= calorieGoal+100
	case models.GoalGainWeight:
		return logged >= calorieGoal-200
	case models.GoalMaintainWeight:
		return logged >= calorieGoal-200 && logged <= calorieGoal+200
	}
	return false
}

// QualifiesForStreak decides whether a submission increments the streak.
func QualifiesForStreak(u *models.User, logged int) bool {
	switch u.JourneyType() {
	case models.JourneyCalorieTracking:
		if u.Goal == nil || u.CalorieGoal == nil {
			return false
		}
		return CalorieTargetMet(*u.Goal, *u.CalorieGoal, logged)
	case models.JourneyExercise, models.JourneyOther:
		return true
	}
	return false
}

// ApplyMissedDay records day as missed. The second accumulated miss resets
// the streak and starts the count over; a single miss costs one day.
// Returns false when day was already recorded.
func ApplyMissedDay(m *models.Metric, day string) bool {
	if slices.Contains(m.MissedDays, day) {
		return false
	}
	m.MissedDays = append(m.MissedDays, day)
	if len(m.MissedDays) >= 2 {
		m.Streak = 0
		m.MissedDays = m.MissedDays[:0]
		return true
	}
	m.Streak = max(0, m.Streak-1)
	return true
}

// UnlockRewards adds the title and reward earned at the current streak and
// returns what was newly unlocked. NewRewardAlert is raised on any unlock.
func UnlockRewards(m *models.Metric) (unlocked []string) {
	if title, ok := dailyTitles[m.Streak]; ok && !slices.Contains(m.TitlesUnlocked, title) {
		m.TitlesUnlocked = append(m.TitlesUnlocked, title)
		unlocked = append(unlocked, title)
	}
	if m.Streak > 0 && m.Streak%rewardInterval == 0 {
		reward := fmt.Sprintf("day%d", m.Streak)
		if !slices.Contains(m.RewardsUnlocked, reward) {
			m.RewardsUnlocked = append(m.RewardsUnlocked, reward)
			unlocked = append(unlocked, reward)
		}
	}
	if len(unlocked) > 0 {
		m.NewRewardAlert = true
	}
	return unlocked
}

// HighestDay returns the entry with the largest day number, or "" when none
// of the entries carries one.
func HighestDay(entries []string) string {
	best, bestDay := "", -1
	for _, e := range entries {
		n, err := strconv.Atoi(dayNumber.FindString(e))
		if err != nil {
			continue
		}
		if n > bestDay {
			best, bestDay = e, n
		}
	}
	return best
}

// LatestTitle is the highest-day unlocked title or DefaultTitle.
func LatestTitle(titles []string) string {
	if t := HighestDay(titles); t != "" {
		return t
	}
	return DefaultTitle
}

// LoggedValue accepts a JSON number or string and keeps its integer part the
// way a lenient form parser would: numbers are truncated, strings use their
// leading integer prefix ("2090kcal" is 2090).
type LoggedValue struct {
	Value int
	Valid bool
	Set   bool
}

var leadingInt = regexp.MustCompile(`^[+-]?\d+`)

func (v *LoggedValue) UnmarshalJSON(b []byte) error {
	v.Set = true
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		v.Set = false
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		m := leadingInt.FindString(strings.TrimSpace(s))
		if m == "" {
			return nil
		}
		n, err := strconv.Atoi(m)
		if err != nil {
			return nil
		}
		v.Value, v.Valid = n, true
		return nil
	}

	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		// booleans, objects and arrays are simply not numeric
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return nil
	}
	v.Value, v.Valid = int(math.Trunc(f)), true
	return nil
}

func (v LoggedValue) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(v.Value)), nil
}
