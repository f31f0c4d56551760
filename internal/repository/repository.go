package repository

import (
	"alcyxob/workout-tracker/internal/domain" // Import our defined domain models
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive" // For using ObjectIDs
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// ExerciseRepository defines the interface for interacting with exercise data.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	// GetByUserID returns the user's non-archived exercises, newest first.
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	// Archive soft-deletes an exercise, ensuring the user owns it.
	Archive(ctx context.Context, id, userID primitive.ObjectID) error
	// SetMedia records the object-storage key of the exercise's demo media.
	SetMedia(ctx context.Context, id, userID primitive.ObjectID, objectKey, contentType string) error
}

// RoutineRepository defines the interface for interacting with routine data.
type RoutineRepository interface {
	Create(ctx context.Context, routine *domain.Routine) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Routine, error)
	// GetByUserID returns the user's non-deleted routines, newest first.
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Routine, error)
	// SoftDelete stamps DeletedAt, ensuring the user owns the routine.
	SoftDelete(ctx context.Context, id, userID primitive.ObjectID) error
	// SetLastUsed stamps LastUsed when a session starts from the routine.
	SetLastUsed(ctx context.Context, id primitive.ObjectID, at time.Time) error
}

// RoutineExerciseRepository defines the interface for a routine's planned entries.
type RoutineExerciseRepository interface {
	Create(ctx context.Context, entry *domain.RoutineExercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.RoutineExercise, error)
	// GetByRoutineID returns entries ordered by position ascending, with the
	// owning exercise row embedded.
	GetByRoutineID(ctx context.Context, routineID primitive.ObjectID) ([]domain.RoutineExerciseWithMeta, error)
	CountByRoutineID(ctx context.Context, routineID primitive.ObjectID) (int64, error)
	Update(ctx context.Context, entry *domain.RoutineExercise) error
	// SetPosition updates only the ordering key of one entry.
	SetPosition(ctx context.Context, id primitive.ObjectID, position int) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByRoutineID(ctx context.Context, routineID primitive.ObjectID) error
}

// WorkoutRepository defines the interface for interacting with workout sessions.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	// GetActiveByUserID returns the user's newest workout with a nil EndTime,
	// or ErrNotFound when no session is in progress.
	GetActiveByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Workout, error)
	// GetRecentFinished returns finished workouts, startTime descending.
	GetRecentFinished(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.Workout, error)
	SetEndTime(ctx context.Context, id primitive.ObjectID, endTime time.Time) error
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}

// SetRowRepository defines the interface for a workout's recorded set rows.
type SetRowRepository interface {
	Create(ctx context.Context, row *domain.SetRow) (primitive.ObjectID, error)
	// CreateMany bulk-inserts expanded set rows. A no-op on an empty slice.
	CreateMany(ctx context.Context, rows []domain.SetRow) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SetRow, error)
	// GetByWorkoutID returns rows ordered by (position asc, _id asc) with the
	// owning exercise row embedded, giving every group a stable sub-order.
	GetByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) ([]domain.SetRowWithExercise, error)
	Update(ctx context.Context, row *domain.SetRow) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// DeleteGroup removes every row of one exercise within one workout.
	DeleteGroup(ctx context.Context, workoutID, exerciseID primitive.ObjectID) error
	DeleteByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) error
}
