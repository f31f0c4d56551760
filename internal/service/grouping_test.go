package service

import (
	"testing"

	"alcyxob/workout-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func setRow(exerciseID primitive.ObjectID, name string, position int, reps int) domain.SetRowWithExercise {
	r := reps
	return domain.SetRowWithExercise{
		SetRow: domain.SetRow{
			ID:         primitive.NewObjectID(),
			ExerciseID: exerciseID,
			Category:   domain.CategoryStrength,
			Position:   position,
			Reps:       &r,
		},
		ExerciseName: name,
	}
}

func TestGroupSetRows_Empty(t *testing.T) {
	assert.Empty(t, GroupSetRows(nil))
	assert.Empty(t, GroupSetRows([]domain.SetRowWithExercise{}))
}

func TestGroupSetRows_GroupsByExerciseInPositionOrder(t *testing.T) {
	squat := primitive.NewObjectID()
	bench := primitive.NewObjectID()

	rows := []domain.SetRowWithExercise{
		setRow(squat, "Squat", 0, 5),
		setRow(squat, "Squat", 0, 8),
		setRow(bench, "Bench Press", 1, 10),
	}

	groups := GroupSetRows(rows)
	require.Len(t, groups, 2)

	assert.Equal(t, squat, groups[0].ExerciseID)
	assert.Equal(t, "Squat", groups[0].Name)
	assert.Equal(t, 0, groups[0].Position)
	require.Len(t, groups[0].Sets, 2)
	assert.Equal(t, 5, *groups[0].Sets[0].Reps)
	assert.Equal(t, 8, *groups[0].Sets[1].Reps)

	assert.Equal(t, bench, groups[1].ExerciseID)
	assert.Equal(t, 1, groups[1].Position)
	require.Len(t, groups[1].Sets, 1)
}

func TestGroupSetRows_InterleavedRowsStillFormOneGroup(t *testing.T) {
	squat := primitive.NewObjectID()
	bench := primitive.NewObjectID()

	// Rows of the two exercises arrive interleaved; grouping must still
	// produce exactly one block per exercise.
	rows := []domain.SetRowWithExercise{
		setRow(squat, "Squat", 0, 5),
		setRow(bench, "Bench Press", 1, 10),
		setRow(squat, "Squat", 0, 8),
		setRow(bench, "Bench Press", 1, 12),
	}

	groups := GroupSetRows(rows)
	require.Len(t, groups, 2)
	assert.Len(t, groups[0].Sets, 2)
	assert.Len(t, groups[1].Sets, 2)
	// Sub-order within each group preserves the input order.
	assert.Equal(t, 5, *groups[0].Sets[0].Reps)
	assert.Equal(t, 8, *groups[0].Sets[1].Reps)
}

func TestGroupSetRows_SortsGroupsByPosition(t *testing.T) {
	squat := primitive.NewObjectID()
	bench := primitive.NewObjectID()

	// Bench (position 1) seen first; the output must still order by
	// position.
	rows := []domain.SetRowWithExercise{
		setRow(bench, "Bench Press", 1, 10),
		setRow(squat, "Squat", 0, 5),
	}

	groups := GroupSetRows(rows)
	require.Len(t, groups, 2)
	assert.Equal(t, "Squat", groups[0].Name)
	assert.Equal(t, "Bench Press", groups[1].Name)
}

func TestNextGroupPosition(t *testing.T) {
	squat := primitive.NewObjectID()
	bench := primitive.NewObjectID()

	assert.Equal(t, 0, NextGroupPosition(nil))

	rows := []domain.SetRowWithExercise{
		setRow(squat, "Squat", 0, 5),
		setRow(squat, "Squat", 0, 8),
		setRow(bench, "Bench Press", 1, 10),
	}
	// Two distinct exercises, regardless of row count.
	assert.Equal(t, 2, NextGroupPosition(rows))
}

func TestGroupPositionFor(t *testing.T) {
	squat := primitive.NewObjectID()
	bench := primitive.NewObjectID()
	deadlift := primitive.NewObjectID()

	rows := []domain.SetRowWithExercise{
		setRow(squat, "Squat", 0, 5),
		setRow(bench, "Bench Press", 1, 10),
	}

	pos, existing := GroupPositionFor(rows, bench)
	assert.True(t, existing)
	assert.Equal(t, 1, pos)

	pos, existing = GroupPositionFor(rows, deadlift)
	assert.False(t, existing)
	assert.Equal(t, 2, pos)
}
