package service

import (
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// defaultRecentLimit is the last-resort recent-workouts cap when neither
// the request nor the configuration supplies one.
const defaultRecentLimit = 3

// --- Error Definitions ---
var (
	ErrWorkoutNotFound     = errors.New("workout not found")
	ErrWorkoutAccessDenied = errors.New("access denied to this workout")
	ErrWorkoutFinished     = errors.New("workout is already finished")
	ErrSetRowNotFound      = errors.New("set row not found")
	ErrNoActiveWorkout     = errors.New("no active workout")
)

// Session is a started workout plus its loaded, grouped set rows.
type Session struct {
	Workout domain.Workout  `json:"workout"`
	Groups  []ExerciseGroup `json:"groups"`
	// Reused is true when an already-active workout was returned instead of
	// a new one being created. Not user-visible; it only prevents duplicate
	// active sessions.
	Reused bool `json:"-"`
}

// WorkoutDetail is a finished-or-active workout with its grouped rows and
// the summary metrics of the history detail screen.
type WorkoutDetail struct {
	Workout    domain.Workout  `json:"workout"`
	Groups     []ExerciseGroup `json:"groups"`
	EntryCount int             `json:"entryCount"`
	// DurationMinutes is nil while the workout is still in progress.
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
	TotalVolume     float64 `json:"totalVolume"`
}

// SetRowPatch is a field-level patch for a set row; nil leaves a field
// unchanged.
type SetRowPatch struct {
	Reps   *int
	Weight *float64

	TimeHours   *int
	TimeMinutes *int
	Distance    *float64

	DurationMinutes *int
	DurationSeconds *int

	Completed *bool
}

// WorkoutService runs live sessions and serves workout history.
type WorkoutService interface {
	// Start creates a session, or returns the user's already-active one.
	// With a routine, the routine's planned entries are expanded into set
	// rows (sets count each, default 1) before the ordered reload.
	Start(ctx context.Context, userID primitive.ObjectID, routineID *primitive.ObjectID) (*Session, error)
	GetSession(ctx context.Context, userID, workoutID primitive.ObjectID) (*Session, error)
	Finish(ctx context.Context, userID, workoutID primitive.ObjectID) error
	// Cancel discards the session: set rows first, then the workout.
	Cancel(ctx context.Context, userID, workoutID primitive.ObjectID) error

	// Live-session row operations.
	AddSet(ctx context.Context, userID, workoutID, exerciseID primitive.ObjectID) (*domain.SetRow, error)
	PatchSetRow(ctx context.Context, userID, rowID primitive.ObjectID, patch SetRowPatch) (*domain.SetRow, error)
	DeleteSetRow(ctx context.Context, userID, rowID primitive.ObjectID) error
	DeleteExerciseGroup(ctx context.Context, userID, workoutID, exerciseID primitive.ObjectID) error

	// History.
	ActiveWorkout(ctx context.Context, userID primitive.ObjectID) (*domain.Workout, error)
	RecentWorkouts(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.Workout, error)
	Detail(ctx context.Context, userID, workoutID primitive.ObjectID) (*WorkoutDetail, error)
}

// workoutService implements the WorkoutService interface.
type workoutService struct {
	workoutRepo  repository.WorkoutRepository
	setRowRepo   repository.SetRowRepository
	routineRepo  repository.RoutineRepository
	entryRepo    repository.RoutineExerciseRepository
	exerciseRepo repository.ExerciseRepository
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(
	workoutRepo repository.WorkoutRepository,
	setRowRepo repository.SetRowRepository,
	routineRepo repository.RoutineRepository,
	entryRepo repository.RoutineExerciseRepository,
	exerciseRepo repository.ExerciseRepository,
) WorkoutService {
	return &workoutService{
		workoutRepo:  workoutRepo,
		setRowRepo:   setRowRepo,
		routineRepo:  routineRepo,
		entryRepo:    entryRepo,
		exerciseRepo: exerciseRepo,
	}
}

// === Session lifecycle ===

// Start resolves or creates the session. One active workout per user: an
// existing endTime-null workout is reused as-is (no re-expansion, so
// reusing never duplicates rows). Any failure aborts initialization and is
// returned to the caller; nothing half-initialized is served.
func (s *workoutService) Start(ctx context.Context, userID primitive.ObjectID, routineID *primitive.ObjectID) (*Session, error) {
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID is required to start a workout")
	}

	// 1. Reuse the active session if one exists.
	active, err := s.workoutRepo.GetActiveByUserID(ctx, userID)
	if err == nil {
		rows, err := s.setRowRepo.GetByWorkoutID(ctx, active.ID)
		if err != nil {
			return nil, err
		}
		return &Session{Workout: *active, Groups: GroupSetRows(rows), Reused: true}, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	// 2. Resolve the routine snapshot, if any.
	workout := &domain.Workout{
		UserID:    userID,
		StartTime: time.Now().UTC(),
	}
	var planned []domain.RoutineExerciseWithMeta
	if routineID != nil && *routineID != primitive.NilObjectID {
		routine, err := s.routineRepo.GetByID(ctx, *routineID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrRoutineNotFound
			}
			return nil, err
		}
		// A soft-deleted routine still resolves for history, but cannot
		// seed a new session.
		if routine.DeletedAt != nil {
			return nil, ErrRoutineNotFound
		}
		if routine.UserID != userID {
			return nil, ErrRoutineAccessDenied
		}

		planned, err = s.entryRepo.GetByRoutineID(ctx, routine.ID)
		if err != nil {
			return nil, err
		}
		workout.RoutineID = routineID
		workout.RoutineName = routine.Name
	}

	// 3. Create the workout record.
	workoutID, err := s.workoutRepo.Create(ctx, workout)
	if err != nil {
		return nil, err
	}
	workout.ID = workoutID

	if workout.RoutineID != nil {
		// Best effort; the session does not depend on the marker.
		_ = s.routineRepo.SetLastUsed(ctx, *workout.RoutineID, workout.StartTime)
	}

	// 4. Expand planned entries into set rows and bulk-insert them.
	var rows []domain.SetRow
	for _, entry := range planned {
		rows = append(rows, expandRoutineEntry(entry, workoutID)...)
	}
	if err := s.setRowRepo.CreateMany(ctx, rows); err != nil {
		s.discardPartial(ctx, userID, workoutID)
		return nil, err
	}

	// 5. Reload ordered (position asc, then id asc) for a stable sub-order.
	loaded, err := s.setRowRepo.GetByWorkoutID(ctx, workoutID)
	if err != nil {
		s.discardPartial(ctx, userID, workoutID)
		return nil, err
	}

	return &Session{Workout: *workout, Groups: GroupSetRows(loaded)}, nil
}

// discardPartial best-effort removes a workout whose initialization failed
// after the record was created. Without it the empty workout would stay
// active and the next Start would reuse it without the routine's rows.
func (s *workoutService) discardPartial(ctx context.Context, userID, workoutID primitive.ObjectID) {
	_ = s.setRowRepo.DeleteByWorkoutID(ctx, workoutID)
	_ = s.workoutRepo.Delete(ctx, workoutID, userID)
}

// expandRoutineEntry turns one planned routine entry into its concrete set
// rows: Sets count rows (default 1 when nil or <=0), each carrying the
// category-appropriate targets as initial actual values and the entry's
// position, so all sets of one exercise share one group.
func expandRoutineEntry(entry domain.RoutineExerciseWithMeta, workoutID primitive.ObjectID) []domain.SetRow {
	setsCount := 1
	if entry.Sets != nil && *entry.Sets > 0 {
		setsCount = *entry.Sets
	}

	rows := make([]domain.SetRow, 0, setsCount)
	for i := 0; i < setsCount; i++ {
		row := domain.SetRow{
			WorkoutID:  workoutID,
			ExerciseID: entry.ExerciseID,
			Category:   entry.ExerciseCategory,
			Position:   entry.Position,
			Completed:  false,
		}
		switch {
		case entry.ExerciseCategory.UsesRepsWeight():
			row.Reps = entry.TargetReps
			row.Weight = entry.TargetWeight
		case entry.ExerciseCategory == domain.CategoryCardio:
			row.TimeHours = entry.TargetHours
			row.TimeMinutes = entry.TargetMinutes
			row.Distance = entry.TargetDistance
		case entry.ExerciseCategory == domain.CategoryDuration:
			row.DurationMinutes = entry.TargetMinutes
			row.DurationSeconds = entry.TargetSeconds
		}
		rows = append(rows, row)
	}
	return rows
}

// GetSession reloads the session's grouped rows (live-session refresh).
func (s *workoutService) GetSession(ctx context.Context, userID, workoutID primitive.ObjectID) (*Session, error) {
	workout, err := s.ownedWorkout(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}
	rows, err := s.setRowRepo.GetByWorkoutID(ctx, workoutID)
	if err != nil {
		return nil, err
	}
	return &Session{Workout: *workout, Groups: GroupSetRows(rows)}, nil
}

// Finish stamps the end of the session.
func (s *workoutService) Finish(ctx context.Context, userID, workoutID primitive.ObjectID) error {
	workout, err := s.ownedWorkout(ctx, userID, workoutID)
	if err != nil {
		return err
	}
	if !workout.Active() {
		return ErrWorkoutFinished
	}
	return s.workoutRepo.SetEndTime(ctx, workoutID, time.Now().UTC())
}

// Cancel discards the session and its rows. Rows are deleted first so an
// interrupted cancel never leaves orphaned rows behind a missing workout.
func (s *workoutService) Cancel(ctx context.Context, userID, workoutID primitive.ObjectID) error {
	if _, err := s.ownedWorkout(ctx, userID, workoutID); err != nil {
		return err
	}
	if err := s.setRowRepo.DeleteByWorkoutID(ctx, workoutID); err != nil {
		return err
	}
	err := s.workoutRepo.Delete(ctx, workoutID, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

// === Live-session row operations ===

// AddSet appends one empty set row for an exercise. An exercise already in
// the session inherits its block's position; a new exercise is appended
// after the existing blocks.
func (s *workoutService) AddSet(ctx context.Context, userID, workoutID, exerciseID primitive.ObjectID) (*domain.SetRow, error) {
	workout, err := s.ownedWorkout(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}
	if !workout.Active() {
		return nil, ErrWorkoutFinished
	}

	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	existing, err := s.setRowRepo.GetByWorkoutID(ctx, workoutID)
	if err != nil {
		return nil, err
	}
	position, _ := GroupPositionFor(existing, exerciseID)

	row := &domain.SetRow{
		WorkoutID:  workoutID,
		ExerciseID: exerciseID,
		Category:   exercise.Category,
		Position:   position,
		Completed:  false,
	}
	rowID, err := s.setRowRepo.Create(ctx, row)
	if err != nil {
		return nil, err
	}
	row.ID = rowID
	return row, nil
}

// PatchSetRow applies the non-nil fields of the patch (value entry or
// completion toggle) to an owned row.
func (s *workoutService) PatchSetRow(ctx context.Context, userID, rowID primitive.ObjectID, patch SetRowPatch) (*domain.SetRow, error) {
	row, err := s.ownedSetRow(ctx, userID, rowID)
	if err != nil {
		return nil, err
	}

	if patch.Reps != nil {
		row.Reps = patch.Reps
	}
	if patch.Weight != nil {
		row.Weight = patch.Weight
	}
	if patch.TimeHours != nil {
		row.TimeHours = patch.TimeHours
	}
	if patch.TimeMinutes != nil {
		row.TimeMinutes = patch.TimeMinutes
	}
	if patch.Distance != nil {
		row.Distance = patch.Distance
	}
	if patch.DurationMinutes != nil {
		row.DurationMinutes = patch.DurationMinutes
	}
	if patch.DurationSeconds != nil {
		row.DurationSeconds = patch.DurationSeconds
	}
	if patch.Completed != nil {
		row.Completed = *patch.Completed
	}

	if err := s.setRowRepo.Update(ctx, row); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSetRowNotFound
		}
		return nil, err
	}
	return row, nil
}

// DeleteSetRow removes one set row.
func (s *workoutService) DeleteSetRow(ctx context.Context, userID, rowID primitive.ObjectID) error {
	if _, err := s.ownedSetRow(ctx, userID, rowID); err != nil {
		return err
	}
	err := s.setRowRepo.Delete(ctx, rowID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSetRowNotFound
		}
		return err
	}
	return nil
}

// DeleteExerciseGroup removes every set row of one exercise within the
// workout; rows of other exercises are untouched.
func (s *workoutService) DeleteExerciseGroup(ctx context.Context, userID, workoutID, exerciseID primitive.ObjectID) error {
	if _, err := s.ownedWorkout(ctx, userID, workoutID); err != nil {
		return err
	}
	return s.setRowRepo.DeleteGroup(ctx, workoutID, exerciseID)
}

// === History ===

// ActiveWorkout returns the in-progress session, or ErrNoActiveWorkout.
func (s *workoutService) ActiveWorkout(ctx context.Context, userID primitive.ObjectID) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetActiveByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoActiveWorkout
		}
		return nil, err
	}
	return workout, nil
}

// RecentWorkouts lists finished sessions, newest first.
func (s *workoutService) RecentWorkouts(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.Workout, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	return s.workoutRepo.GetRecentFinished(ctx, userID, limit)
}

// Detail serves the history detail screen: grouped rows plus summary
// metrics. A missing workout maps to ErrWorkoutNotFound so the caller can
// render a not-found state instead of failing.
func (s *workoutService) Detail(ctx context.Context, userID, workoutID primitive.ObjectID) (*WorkoutDetail, error) {
	workout, err := s.ownedWorkout(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}
	rows, err := s.setRowRepo.GetByWorkoutID(ctx, workoutID)
	if err != nil {
		return nil, err
	}

	return &WorkoutDetail{
		Workout:         *workout,
		Groups:          GroupSetRows(rows),
		EntryCount:      len(rows),
		DurationMinutes: durationMinutes(workout),
		TotalVolume:     totalVolume(rows),
	}, nil
}

// durationMinutes is the whole-minute length of a finished workout, nil
// while in progress or when the timestamps are inverted.
func durationMinutes(workout *domain.Workout) *int {
	if workout.EndTime == nil {
		return nil
	}
	diff := workout.EndTime.Sub(workout.StartTime)
	if diff < 0 {
		return nil
	}
	minutes := int(diff / time.Minute)
	return &minutes
}

// totalVolume sums reps*weight across rows; rows missing either value do
// not contribute.
func totalVolume(rows []domain.SetRowWithExercise) float64 {
	var volume float64
	for _, row := range rows {
		if row.Reps != nil && row.Weight != nil {
			volume += float64(*row.Reps) * *row.Weight
		}
	}
	return volume
}

// --- ownership helpers ---

func (s *workoutService) ownedWorkout(ctx context.Context, userID, workoutID primitive.ObjectID) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	if workout.UserID != userID {
		return nil, ErrWorkoutAccessDenied
	}
	return workout, nil
}

func (s *workoutService) ownedSetRow(ctx context.Context, userID, rowID primitive.ObjectID) (*domain.SetRow, error) {
	row, err := s.setRowRepo.GetByID(ctx, rowID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSetRowNotFound
		}
		return nil, err
	}
	if _, err := s.ownedWorkout(ctx, userID, row.WorkoutID); err != nil {
		return nil, err
	}
	return row, nil
}
