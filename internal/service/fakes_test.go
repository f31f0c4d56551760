package service

import (
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. Slices keep insertion order, which stands in
// for the _id ascending tie-break of the real queries.

type fakeUserRepo struct {
	users []*domain.User
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	u := *user
	u.ID = primitive.NewObjectID()
	f.users = append(f.users, &u)
	return u.ID, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeExerciseRepo struct {
	items []*domain.Exercise
}

func (f *fakeExerciseRepo) add(userID primitive.ObjectID, name string, category domain.Category) *domain.Exercise {
	e := &domain.Exercise{
		ID:       primitive.NewObjectID(),
		UserID:   userID,
		Name:     name,
		Category: category,
	}
	f.items = append(f.items, e)
	return e
}

func (f *fakeExerciseRepo) Create(_ context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	e := *exercise
	e.ID = primitive.NewObjectID()
	f.items = append(f.items, &e)
	return e.ID, nil
}

func (f *fakeExerciseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	for _, e := range f.items {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeExerciseRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) ([]domain.Exercise, error) {
	var out []domain.Exercise
	for _, e := range f.items {
		if e.UserID == userID && !e.Archived {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeExerciseRepo) Update(_ context.Context, exercise *domain.Exercise) error {
	for i, e := range f.items {
		if e.ID == exercise.ID {
			cp := *exercise
			f.items[i] = &cp
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeExerciseRepo) Archive(_ context.Context, id, userID primitive.ObjectID) error {
	for _, e := range f.items {
		if e.ID == id && e.UserID == userID {
			e.Archived = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeExerciseRepo) SetMedia(_ context.Context, id, userID primitive.ObjectID, objectKey, contentType string) error {
	for _, e := range f.items {
		if e.ID == id && e.UserID == userID {
			e.MediaObjectKey = objectKey
			e.MediaContentType = contentType
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeRoutineRepo struct {
	items        []*domain.Routine
	lastUsedSets int
}

func (f *fakeRoutineRepo) add(userID primitive.ObjectID, name string) *domain.Routine {
	r := &domain.Routine{
		ID:     primitive.NewObjectID(),
		UserID: userID,
		Name:   name,
	}
	f.items = append(f.items, r)
	return r
}

func (f *fakeRoutineRepo) Create(_ context.Context, routine *domain.Routine) (primitive.ObjectID, error) {
	r := *routine
	r.ID = primitive.NewObjectID()
	f.items = append(f.items, &r)
	return r.ID, nil
}

// GetByID serves soft-deleted routines too, matching the mongo lookup that
// lets workout history resolve its snapshot.
func (f *fakeRoutineRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Routine, error) {
	for _, r := range f.items {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeRoutineRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) ([]domain.Routine, error) {
	var out []domain.Routine
	for _, r := range f.items {
		if r.UserID == userID && r.DeletedAt == nil {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRoutineRepo) SoftDelete(_ context.Context, id, userID primitive.ObjectID) error {
	for _, r := range f.items {
		if r.ID == id && r.UserID == userID {
			now := time.Now()
			r.DeletedAt = &now
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeRoutineRepo) SetLastUsed(_ context.Context, id primitive.ObjectID, at time.Time) error {
	for _, r := range f.items {
		if r.ID == id {
			stamp := at
			r.LastUsed = &stamp
			f.lastUsedSets++
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeEntryRepo struct {
	entries   []*domain.RoutineExercise
	exercises *fakeExerciseRepo

	// setPositionErr, when set, can fail individual SetPosition calls.
	setPositionErr   func(id primitive.ObjectID, position int) error
	setPositionCalls []struct {
		ID       primitive.ObjectID
		Position int
	}
}

func (f *fakeEntryRepo) add(routineID primitive.ObjectID, exercise *domain.Exercise, position int, sets *int) *domain.RoutineExercise {
	e := &domain.RoutineExercise{
		ID:         primitive.NewObjectID(),
		RoutineID:  routineID,
		ExerciseID: exercise.ID,
		Position:   position,
		Sets:       sets,
	}
	f.entries = append(f.entries, e)
	return e
}

func (f *fakeEntryRepo) Create(_ context.Context, entry *domain.RoutineExercise) (primitive.ObjectID, error) {
	e := *entry
	e.ID = primitive.NewObjectID()
	f.entries = append(f.entries, &e)
	return e.ID, nil
}

func (f *fakeEntryRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.RoutineExercise, error) {
	for _, e := range f.entries {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeEntryRepo) GetByRoutineID(ctx context.Context, routineID primitive.ObjectID) ([]domain.RoutineExerciseWithMeta, error) {
	var out []domain.RoutineExerciseWithMeta
	for _, e := range f.entries {
		if e.RoutineID != routineID {
			continue
		}
		meta := domain.RoutineExerciseWithMeta{RoutineExercise: *e}
		if ex, err := f.exercises.GetByID(ctx, e.ExerciseID); err == nil {
			meta.ExerciseName = ex.Name
			meta.ExerciseCategory = ex.Category
			meta.ExerciseEquipment = ex.Equipment
			meta.ExerciseNotes = ex.Notes
		}
		out = append(out, meta)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})
	return out, nil
}

func (f *fakeEntryRepo) CountByRoutineID(_ context.Context, routineID primitive.ObjectID) (int64, error) {
	var n int64
	for _, e := range f.entries {
		if e.RoutineID == routineID {
			n++
		}
	}
	return n, nil
}

func (f *fakeEntryRepo) Update(_ context.Context, entry *domain.RoutineExercise) error {
	for i, e := range f.entries {
		if e.ID == entry.ID {
			cp := *entry
			f.entries[i] = &cp
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeEntryRepo) SetPosition(_ context.Context, id primitive.ObjectID, position int) error {
	f.setPositionCalls = append(f.setPositionCalls, struct {
		ID       primitive.ObjectID
		Position int
	}{id, position})

	if f.setPositionErr != nil {
		if err := f.setPositionErr(id, position); err != nil {
			return err
		}
	}
	for _, e := range f.entries {
		if e.ID == id {
			e.Position = position
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeEntryRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	for i, e := range f.entries {
		if e.ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeEntryRepo) DeleteByRoutineID(_ context.Context, routineID primitive.ObjectID) error {
	kept := f.entries[:0]
	for _, e := range f.entries {
		if e.RoutineID != routineID {
			kept = append(kept, e)
		}
	}
	f.entries = kept
	return nil
}

type fakeWorkoutRepo struct {
	items []*domain.Workout
}

func (f *fakeWorkoutRepo) Create(_ context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	w := *workout
	w.ID = primitive.NewObjectID()
	f.items = append(f.items, &w)
	return w.ID, nil
}

func (f *fakeWorkoutRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	for _, w := range f.items {
		if w.ID == id {
			cp := *w
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeWorkoutRepo) GetActiveByUserID(_ context.Context, userID primitive.ObjectID) (*domain.Workout, error) {
	for i := len(f.items) - 1; i >= 0; i-- {
		w := f.items[i]
		if w.UserID == userID && w.EndTime == nil {
			cp := *w
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeWorkoutRepo) GetRecentFinished(_ context.Context, userID primitive.ObjectID, limit int64) ([]domain.Workout, error) {
	var out []domain.Workout
	for i := len(f.items) - 1; i >= 0; i-- {
		w := f.items[i]
		if w.UserID == userID && w.EndTime != nil {
			out = append(out, *w)
		}
		if int64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeWorkoutRepo) SetEndTime(_ context.Context, id primitive.ObjectID, endTime time.Time) error {
	for _, w := range f.items {
		if w.ID == id {
			stamp := endTime
			w.EndTime = &stamp
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeWorkoutRepo) Delete(_ context.Context, id, userID primitive.ObjectID) error {
	for i, w := range f.items {
		if w.ID == id && w.UserID == userID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeSetRowRepo struct {
	rows      []*domain.SetRow
	exercises *fakeExerciseRepo

	// createManyErr, when set, fails the next CreateMany call.
	createManyErr error
}

func (f *fakeSetRowRepo) Create(_ context.Context, row *domain.SetRow) (primitive.ObjectID, error) {
	r := *row
	r.ID = primitive.NewObjectID()
	f.rows = append(f.rows, &r)
	return r.ID, nil
}

func (f *fakeSetRowRepo) CreateMany(_ context.Context, rows []domain.SetRow) error {
	if f.createManyErr != nil {
		err := f.createManyErr
		f.createManyErr = nil
		return err
	}
	for i := range rows {
		r := rows[i]
		r.ID = primitive.NewObjectID()
		f.rows = append(f.rows, &r)
	}
	return nil
}

func (f *fakeSetRowRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.SetRow, error) {
	for _, r := range f.rows {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeSetRowRepo) GetByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) ([]domain.SetRowWithExercise, error) {
	var out []domain.SetRowWithExercise
	for _, r := range f.rows {
		if r.WorkoutID != workoutID {
			continue
		}
		row := domain.SetRowWithExercise{SetRow: *r}
		if ex, err := f.exercises.GetByID(ctx, r.ExerciseID); err == nil {
			row.ExerciseName = ex.Name
			row.ExerciseEquipment = ex.Equipment
			row.ExerciseNotes = ex.Notes
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})
	return out, nil
}

func (f *fakeSetRowRepo) Update(_ context.Context, row *domain.SetRow) error {
	for i, r := range f.rows {
		if r.ID == row.ID {
			cp := *row
			f.rows[i] = &cp
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeSetRowRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	for i, r := range f.rows {
		if r.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeSetRowRepo) DeleteGroup(_ context.Context, workoutID, exerciseID primitive.ObjectID) error {
	kept := f.rows[:0]
	for _, r := range f.rows {
		if r.WorkoutID == workoutID && r.ExerciseID == exerciseID {
			continue
		}
		kept = append(kept, r)
	}
	f.rows = kept
	return nil
}

func (f *fakeSetRowRepo) DeleteByWorkoutID(_ context.Context, workoutID primitive.ObjectID) error {
	kept := f.rows[:0]
	for _, r := range f.rows {
		if r.WorkoutID != workoutID {
			kept = append(kept, r)
		}
	}
	f.rows = kept
	return nil
}

// Interface compliance.
var (
	_ repository.UserRepository            = (*fakeUserRepo)(nil)
	_ repository.ExerciseRepository        = (*fakeExerciseRepo)(nil)
	_ repository.RoutineRepository         = (*fakeRoutineRepo)(nil)
	_ repository.RoutineExerciseRepository = (*fakeEntryRepo)(nil)
	_ repository.WorkoutRepository         = (*fakeWorkoutRepo)(nil)
	_ repository.SetRowRepository          = (*fakeSetRowRepo)(nil)
)
