// internal/domain/routine.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Routine is a reusable, user-authored template of exercises with target
// values and ordering. Routines are soft-deleted via DeletedAt so that
// workouts started from them keep a valid reference.
type Routine struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Name      string             `bson:"name" json:"name"`
	LastUsed  *time.Time         `bson:"lastUsed,omitempty" json:"lastUsed,omitempty"` // Stamped when a session starts from this routine
	DeletedAt *time.Time         `bson:"deletedAt,omitempty" json:"-"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// RoutineExercise is one planned entry of a routine: which exercise, where
// it sits in the routine (Position, zero-based), how many sets to expand
// into a session, and the category-specific target values. Only the field
// group matching the exercise's category is populated; the rest stay nil.
type RoutineExercise struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RoutineID  primitive.ObjectID `bson:"routineId" json:"routineId"`
	ExerciseID primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`

	Position int  `bson:"position" json:"position"`
	Sets     *int `bson:"sets,omitempty" json:"sets,omitempty"` // nil or <=0 means one set

	// strength / free_weight
	TargetReps   *int     `bson:"targetReps,omitempty" json:"targetReps,omitempty"`
	TargetWeight *float64 `bson:"targetWeight,omitempty" json:"targetWeight,omitempty"`

	// cardio
	TargetHours    *int     `bson:"targetHours,omitempty" json:"targetHours,omitempty"`
	TargetMinutes  *int     `bson:"targetMinutes,omitempty" json:"targetMinutes,omitempty"`
	TargetDistance *float64 `bson:"targetDistance,omitempty" json:"targetDistance,omitempty"`

	// duration (TargetMinutes doubles for the duration category)
	TargetSeconds *int `bson:"targetSeconds,omitempty" json:"targetSeconds,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// RoutineExerciseWithMeta is a routine entry enriched with the joined
// exercise row, as loaded for display and session expansion.
type RoutineExerciseWithMeta struct {
	RoutineExercise `bson:",inline"`

	ExerciseName      string   `bson:"exerciseName" json:"exerciseName"`
	ExerciseCategory  Category `bson:"exerciseCategory" json:"exerciseCategory"`
	ExerciseEquipment string   `bson:"exerciseEquipment,omitempty" json:"exerciseEquipment,omitempty"`
	ExerciseNotes     string   `bson:"exerciseNotes,omitempty" json:"exerciseNotes,omitempty"`
}
