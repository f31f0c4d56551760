package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"alcyxob/workout-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

type workoutFixture struct {
	userID    primitive.ObjectID
	exercises *fakeExerciseRepo
	routines  *fakeRoutineRepo
	entries   *fakeEntryRepo
	workouts  *fakeWorkoutRepo
	setRows   *fakeSetRowRepo
	svc       WorkoutService
}

func newWorkoutFixture() *workoutFixture {
	exercises := &fakeExerciseRepo{}
	routines := &fakeRoutineRepo{}
	entries := &fakeEntryRepo{exercises: exercises}
	workouts := &fakeWorkoutRepo{}
	setRows := &fakeSetRowRepo{exercises: exercises}

	return &workoutFixture{
		userID:    primitive.NewObjectID(),
		exercises: exercises,
		routines:  routines,
		entries:   entries,
		workouts:  workouts,
		setRows:   setRows,
		svc:       NewWorkoutService(workouts, setRows, routines, entries, exercises),
	}
}

func TestStart_FreeSession(t *testing.T) {
	f := newWorkoutFixture()

	session, err := f.svc.Start(context.Background(), f.userID, nil)
	require.NoError(t, err)

	assert.False(t, session.Reused)
	assert.Nil(t, session.Workout.RoutineID)
	assert.Empty(t, session.Workout.RoutineName)
	assert.True(t, session.Workout.Active())
	assert.Empty(t, session.Groups)
}

func TestStart_ExpandsRoutineEntries(t *testing.T) {
	f := newWorkoutFixture()

	squat := f.exercises.add(f.userID, "Squat", domain.CategoryStrength)
	run := f.exercises.add(f.userID, "Treadmill Run", domain.CategoryCardio)

	routine := f.routines.add(f.userID, "Leg Day")
	squatEntry := f.entries.add(routine.ID, squat, 0, intPtr(2))
	squatEntry.TargetReps = intPtr(10)
	squatEntry.TargetWeight = floatPtr(50)
	runEntry := f.entries.add(routine.ID, run, 1, intPtr(1))
	runEntry.TargetMinutes = intPtr(20)

	session, err := f.svc.Start(context.Background(), f.userID, &routine.ID)
	require.NoError(t, err)

	assert.Equal(t, "Leg Day", session.Workout.RoutineName)
	require.NotNil(t, session.Workout.RoutineID)
	assert.Equal(t, routine.ID, *session.Workout.RoutineID)
	assert.Equal(t, 1, f.routines.lastUsedSets)

	require.Len(t, session.Groups, 2)

	squats := session.Groups[0]
	assert.Equal(t, "Squat", squats.Name)
	assert.Equal(t, 0, squats.Position)
	require.Len(t, squats.Sets, 2)
	for _, row := range squats.Sets {
		assert.Equal(t, domain.CategoryStrength, row.Category)
		require.NotNil(t, row.Reps)
		assert.Equal(t, 10, *row.Reps)
		require.NotNil(t, row.Weight)
		assert.Equal(t, 50.0, *row.Weight)
		assert.False(t, row.Completed)
	}

	runs := session.Groups[1]
	assert.Equal(t, "Treadmill Run", runs.Name)
	assert.Equal(t, 1, runs.Position)
	require.Len(t, runs.Sets, 1)
	require.NotNil(t, runs.Sets[0].TimeMinutes)
	assert.Equal(t, 20, *runs.Sets[0].TimeMinutes)
	assert.Nil(t, runs.Sets[0].Reps)
}

func TestStart_ReusesActiveSession(t *testing.T) {
	f := newWorkoutFixture()

	squat := f.exercises.add(f.userID, "Squat", domain.CategoryStrength)
	routine := f.routines.add(f.userID, "Leg Day")
	f.entries.add(routine.ID, squat, 0, intPtr(3))

	first, err := f.svc.Start(context.Background(), f.userID, &routine.ID)
	require.NoError(t, err)

	// Starting again must return the same session without re-expanding.
	second, err := f.svc.Start(context.Background(), f.userID, &routine.ID)
	require.NoError(t, err)

	assert.True(t, second.Reused)
	assert.Equal(t, first.Workout.ID, second.Workout.ID)
	assert.Len(t, f.setRows.rows, 3)
}

func TestStart_RejectsForeignRoutine(t *testing.T) {
	f := newWorkoutFixture()

	other := primitive.NewObjectID()
	routine := f.routines.add(other, "Not Yours")

	_, err := f.svc.Start(context.Background(), f.userID, &routine.ID)
	assert.ErrorIs(t, err, ErrRoutineAccessDenied)
}

func TestStart_RejectsDeletedRoutine(t *testing.T) {
	f := newWorkoutFixture()

	squat := f.exercises.add(f.userID, "Squat", domain.CategoryStrength)
	routine := f.routines.add(f.userID, "Leg Day")
	f.entries.add(routine.ID, squat, 0, intPtr(3))
	require.NoError(t, f.routines.SoftDelete(context.Background(), routine.ID, f.userID))

	_, err := f.svc.Start(context.Background(), f.userID, &routine.ID)
	assert.ErrorIs(t, err, ErrRoutineNotFound)

	// No half-started session was left behind.
	_, err = f.svc.ActiveWorkout(context.Background(), f.userID)
	assert.ErrorIs(t, err, ErrNoActiveWorkout)
	assert.Empty(t, f.setRows.rows)
}

func TestStart_DiscardsSessionWhenExpansionFails(t *testing.T) {
	f := newWorkoutFixture()

	squat := f.exercises.add(f.userID, "Squat", domain.CategoryStrength)
	routine := f.routines.add(f.userID, "Leg Day")
	f.entries.add(routine.ID, squat, 0, intPtr(2))

	f.setRows.createManyErr = errors.New("bulk insert failed")
	_, err := f.svc.Start(context.Background(), f.userID, &routine.ID)
	require.Error(t, err)

	// The empty workout must not linger as the active session.
	_, err = f.svc.ActiveWorkout(context.Background(), f.userID)
	assert.ErrorIs(t, err, ErrNoActiveWorkout)

	// The next start expands the routine fresh instead of reusing a husk.
	session, err := f.svc.Start(context.Background(), f.userID, &routine.ID)
	require.NoError(t, err)
	assert.False(t, session.Reused)
	require.Len(t, session.Groups, 1)
	assert.Len(t, session.Groups[0].Sets, 2)
}

func TestExpandRoutineEntry_DefaultsSetsToOne(t *testing.T) {
	workoutID := primitive.NewObjectID()

	tests := []struct {
		name string
		sets *int
		want int
	}{
		{"nil sets", nil, 1},
		{"zero sets", intPtr(0), 1},
		{"negative sets", intPtr(-2), 1},
		{"three sets", intPtr(3), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := domain.RoutineExerciseWithMeta{
				RoutineExercise: domain.RoutineExercise{
					ExerciseID: primitive.NewObjectID(),
					Sets:       tt.sets,
				},
				ExerciseCategory: domain.CategoryStrength,
			}
			rows := expandRoutineEntry(entry, workoutID)
			assert.Len(t, rows, tt.want)
		})
	}
}

func TestExpandRoutineEntry_DurationTargets(t *testing.T) {
	entry := domain.RoutineExerciseWithMeta{
		RoutineExercise: domain.RoutineExercise{
			ExerciseID:    primitive.NewObjectID(),
			Position:      2,
			TargetMinutes: intPtr(1),
			TargetSeconds: intPtr(30),
		},
		ExerciseCategory: domain.CategoryDuration,
	}

	rows := expandRoutineEntry(entry, primitive.NewObjectID())
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].Position)
	require.NotNil(t, rows[0].DurationMinutes)
	assert.Equal(t, 1, *rows[0].DurationMinutes)
	require.NotNil(t, rows[0].DurationSeconds)
	assert.Equal(t, 30, *rows[0].DurationSeconds)
	assert.Nil(t, rows[0].Reps)
}

func TestAddSet_InheritsExistingGroupPosition(t *testing.T) {
	f := newWorkoutFixture()

	squat := f.exercises.add(f.userID, "Squat", domain.CategoryStrength)
	bench := f.exercises.add(f.userID, "Bench Press", domain.CategoryFreeWeight)

	session, err := f.svc.Start(context.Background(), f.userID, nil)
	require.NoError(t, err)
	workoutID := session.Workout.ID

	first, err := f.svc.AddSet(context.Background(), f.userID, workoutID, squat.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, first.Position)
	assert.Equal(t, domain.CategoryStrength, first.Category)

	// A second exercise appends a new block.
	second, err := f.svc.AddSet(context.Background(), f.userID, workoutID, bench.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Position)

	// Another squat set joins the existing squat block.
	third, err := f.svc.AddSet(context.Background(), f.userID, workoutID, squat.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, third.Position)

	refreshed, err := f.svc.GetSession(context.Background(), f.userID, workoutID)
	require.NoError(t, err)
	require.Len(t, refreshed.Groups, 2)
	assert.Len(t, refreshed.Groups[0].Sets, 2)
	assert.Len(t, refreshed.Groups[1].Sets, 1)
}

func TestAddSet_RejectsFinishedWorkout(t *testing.T) {
	f := newWorkoutFixture()
	squat := f.exercises.add(f.userID, "Squat", domain.CategoryStrength)

	session, err := f.svc.Start(context.Background(), f.userID, nil)
	require.NoError(t, err)
	require.NoError(t, f.svc.Finish(context.Background(), f.userID, session.Workout.ID))

	_, err = f.svc.AddSet(context.Background(), f.userID, session.Workout.ID, squat.ID)
	assert.ErrorIs(t, err, ErrWorkoutFinished)
}

func TestPatchSetRow_AppliesOnlyProvidedFields(t *testing.T) {
	f := newWorkoutFixture()
	squat := f.exercises.add(f.userID, "Squat", domain.CategoryStrength)

	session, err := f.svc.Start(context.Background(), f.userID, nil)
	require.NoError(t, err)
	row, err := f.svc.AddSet(context.Background(), f.userID, session.Workout.ID, squat.ID)
	require.NoError(t, err)

	updated, err := f.svc.PatchSetRow(context.Background(), f.userID, row.ID, SetRowPatch{
		Reps:   intPtr(8),
		Weight: floatPtr(70),
	})
	require.NoError(t, err)
	assert.Equal(t, 8, *updated.Reps)
	assert.Equal(t, 70.0, *updated.Weight)
	assert.False(t, updated.Completed)

	// Completion toggle leaves values alone.
	done := true
	updated, err = f.svc.PatchSetRow(context.Background(), f.userID, row.ID, SetRowPatch{Completed: &done})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, 8, *updated.Reps)
}

func TestPatchSetRow_DeniesForeignRow(t *testing.T) {
	f := newWorkoutFixture()
	squat := f.exercises.add(f.userID, "Squat", domain.CategoryStrength)

	session, err := f.svc.Start(context.Background(), f.userID, nil)
	require.NoError(t, err)
	row, err := f.svc.AddSet(context.Background(), f.userID, session.Workout.ID, squat.ID)
	require.NoError(t, err)

	stranger := primitive.NewObjectID()
	_, err = f.svc.PatchSetRow(context.Background(), stranger, row.ID, SetRowPatch{Reps: intPtr(1)})
	assert.ErrorIs(t, err, ErrWorkoutAccessDenied)
}

func TestFinish_IsNotRepeatable(t *testing.T) {
	f := newWorkoutFixture()

	session, err := f.svc.Start(context.Background(), f.userID, nil)
	require.NoError(t, err)

	require.NoError(t, f.svc.Finish(context.Background(), f.userID, session.Workout.ID))
	err = f.svc.Finish(context.Background(), f.userID, session.Workout.ID)
	assert.ErrorIs(t, err, ErrWorkoutFinished)
}

func TestCancel_RemovesWorkoutAndRows(t *testing.T) {
	f := newWorkoutFixture()
	squat := f.exercises.add(f.userID, "Squat", domain.CategoryStrength)

	session, err := f.svc.Start(context.Background(), f.userID, nil)
	require.NoError(t, err)
	_, err = f.svc.AddSet(context.Background(), f.userID, session.Workout.ID, squat.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Cancel(context.Background(), f.userID, session.Workout.ID))

	assert.Empty(t, f.setRows.rows)
	_, err = f.svc.ActiveWorkout(context.Background(), f.userID)
	assert.ErrorIs(t, err, ErrNoActiveWorkout)
}

func TestDeleteExerciseGroup_ScopedToOneExercise(t *testing.T) {
	f := newWorkoutFixture()
	squat := f.exercises.add(f.userID, "Squat", domain.CategoryStrength)
	bench := f.exercises.add(f.userID, "Bench Press", domain.CategoryStrength)

	session, err := f.svc.Start(context.Background(), f.userID, nil)
	require.NoError(t, err)
	workoutID := session.Workout.ID

	for i := 0; i < 2; i++ {
		_, err = f.svc.AddSet(context.Background(), f.userID, workoutID, squat.ID)
		require.NoError(t, err)
	}
	_, err = f.svc.AddSet(context.Background(), f.userID, workoutID, bench.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteExerciseGroup(context.Background(), f.userID, workoutID, squat.ID))

	refreshed, err := f.svc.GetSession(context.Background(), f.userID, workoutID)
	require.NoError(t, err)
	require.Len(t, refreshed.Groups, 1)
	assert.Equal(t, bench.ID, refreshed.Groups[0].ExerciseID)
}

func TestRecentWorkouts_DefaultsLimit(t *testing.T) {
	f := newWorkoutFixture()

	for i := 0; i < 5; i++ {
		session, err := f.svc.Start(context.Background(), f.userID, nil)
		require.NoError(t, err)
		require.NoError(t, f.svc.Finish(context.Background(), f.userID, session.Workout.ID))
	}

	workouts, err := f.svc.RecentWorkouts(context.Background(), f.userID, 0)
	require.NoError(t, err)
	assert.Len(t, workouts, 3)

	workouts, err = f.svc.RecentWorkouts(context.Background(), f.userID, 5)
	require.NoError(t, err)
	assert.Len(t, workouts, 5)
}

func TestDetail_Metrics(t *testing.T) {
	f := newWorkoutFixture()
	squat := f.exercises.add(f.userID, "Squat", domain.CategoryStrength)

	session, err := f.svc.Start(context.Background(), f.userID, nil)
	require.NoError(t, err)
	workoutID := session.Workout.ID

	row1, err := f.svc.AddSet(context.Background(), f.userID, workoutID, squat.ID)
	require.NoError(t, err)
	_, err = f.svc.PatchSetRow(context.Background(), f.userID, row1.ID, SetRowPatch{
		Reps:   intPtr(10),
		Weight: floatPtr(60),
	})
	require.NoError(t, err)

	// A row with no values recorded contributes nothing to volume.
	_, err = f.svc.AddSet(context.Background(), f.userID, workoutID, squat.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Finish(context.Background(), f.userID, workoutID))

	detail, err := f.svc.Detail(context.Background(), f.userID, workoutID)
	require.NoError(t, err)
	assert.Equal(t, 2, detail.EntryCount)
	assert.Equal(t, 600.0, detail.TotalVolume)
	require.NotNil(t, detail.DurationMinutes)
	assert.Equal(t, 0, *detail.DurationMinutes)
}

func TestDetail_NotFound(t *testing.T) {
	f := newWorkoutFixture()

	_, err := f.svc.Detail(context.Background(), f.userID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrWorkoutNotFound)
}

func TestDurationMinutes(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	w := &domain.Workout{StartTime: start}
	assert.Nil(t, durationMinutes(w))

	end := start.Add(47*time.Minute + 30*time.Second)
	w.EndTime = &end
	require.NotNil(t, durationMinutes(w))
	assert.Equal(t, 47, *durationMinutes(w))
}
