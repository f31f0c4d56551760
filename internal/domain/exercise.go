// internal/domain/exercise.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category discriminates which value fields of a routine entry or set row
// are active. Exactly one group of fields is meaningful per category:
// reps/weight for strength and free_weight, hours/minutes/distance for
// cardio, minutes/seconds for duration.
type Category string

const (
	CategoryStrength   Category = "strength"
	CategoryCardio     Category = "cardio"
	CategoryDuration   Category = "duration"
	CategoryFreeWeight Category = "free_weight"
)

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	switch c {
	case CategoryStrength, CategoryCardio, CategoryDuration, CategoryFreeWeight:
		return true
	}
	return false
}

// UsesRepsWeight reports whether the category records reps and weight.
func (c Category) UsesRepsWeight() bool {
	return c == CategoryStrength || c == CategoryFreeWeight
}

// Exercise represents a single exercise definition in the user's library.
// Exercises are soft-deleted: Archived exercises stay referenced by past
// workouts but disappear from pickers and listings.
type Exercise struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"` // Owner of this exercise
	Name      string             `bson:"name" json:"name"`
	Category  Category           `bson:"category" json:"category"`
	Equipment string             `bson:"equipment,omitempty" json:"equipment,omitempty"` // e.g., "Barbell", "Treadmill"
	Notes     string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Archived  bool               `bson:"archived" json:"archived"`

	// Optional demo media (photo or short video) stored in object storage.
	MediaObjectKey   string `bson:"mediaObjectKey,omitempty" json:"-"`
	MediaContentType string `bson:"mediaContentType,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
