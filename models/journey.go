package models

type JourneyType string

const (
	JourneyCalorieTracking JourneyType = "calorie tracking"
	JourneyExercise        JourneyType = "exercise"
	JourneyOther           JourneyType = "other"
)

// Valid reports whether j is one of the known journeys.
func (j JourneyType) Valid() bool {
	switch j {
	case JourneyCalorieTracking, JourneyExercise, JourneyOther:
		return true
	}
	return false
}

// CountsTowardsWeeklyTarget is true for the journeys that carry a logs-per-week frequency.
func (j JourneyType) CountsTowardsWeeklyTarget() bool {
	return j == JourneyExercise || j == JourneyOther
}

type GoalType string

const (
	GoalLoseWeight     GoalType = "lose weight"
	GoalGainWeight     GoalType = "gain weight"
	GoalMaintainWeight GoalType = "maintain weight"
)

func (g GoalType) Valid() bool {
	switch g {
	case GoalLoseWeight, GoalGainWeight, GoalMaintainWeight:
		return true
	}
	return false
}
