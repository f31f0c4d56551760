package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Workout is one concrete, time-bounded session, optionally instantiated
// from a routine. A workout is active while EndTime is nil; the service
// layer keeps at most one active workout per user.
type Workout struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"userId" json:"userId"`

	// Snapshot of the originating routine, if any. The name is copied so
	// history stays readable after the routine is deleted.
	RoutineID   *primitive.ObjectID `bson:"routineId,omitempty" json:"routineId,omitempty"`
	RoutineName string              `bson:"routineName,omitempty" json:"routineName,omitempty"`

	StartTime time.Time  `bson:"startTime" json:"startTime"`
	EndTime   *time.Time `bson:"endTime,omitempty" json:"endTime,omitempty"` // nil = in progress
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
}

// Active reports whether the workout is still in progress.
func (w *Workout) Active() bool {
	return w.EndTime == nil
}

// SetRow is one recorded attempt at an exercise within a workout. All set
// rows of the same exercise share one Position value; together they form
// the exercise's block in the session display. Only the value fields
// matching Category are meaningful, the others stay nil.
type SetRow struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkoutID  primitive.ObjectID `bson:"workoutId" json:"workoutId"`
	ExerciseID primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`

	Category Category `bson:"category" json:"category"`
	Position int      `bson:"position" json:"position"`

	// strength / free_weight
	Reps   *int     `bson:"reps,omitempty" json:"reps,omitempty"`
	Weight *float64 `bson:"weight,omitempty" json:"weight,omitempty"`

	// cardio
	TimeHours   *int     `bson:"timeHours,omitempty" json:"timeHours,omitempty"`
	TimeMinutes *int     `bson:"timeMinutes,omitempty" json:"timeMinutes,omitempty"`
	Distance    *float64 `bson:"distance,omitempty" json:"distance,omitempty"`

	// duration
	DurationMinutes *int `bson:"durationMinutes,omitempty" json:"durationMinutes,omitempty"`
	DurationSeconds *int `bson:"durationSeconds,omitempty" json:"durationSeconds,omitempty"`

	Completed bool      `bson:"completed" json:"completed"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// SetRowWithExercise is a set row enriched with the joined exercise row,
// as loaded for session display and history detail.
type SetRowWithExercise struct {
	SetRow `bson:",inline"`

	ExerciseName      string `bson:"exerciseName" json:"exerciseName"`
	ExerciseEquipment string `bson:"exerciseEquipment,omitempty" json:"exerciseEquipment,omitempty"`
	ExerciseNotes     string `bson:"exerciseNotes,omitempty" json:"exerciseNotes,omitempty"`
}
