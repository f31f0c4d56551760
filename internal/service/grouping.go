package service

import (
	"sort"

	"alcyxob/workout-tracker/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseGroup is one exercise block of a session: all set rows of one
// exercise, plus the display metadata shared by the block.
type ExerciseGroup struct {
	ExerciseID primitive.ObjectID          `json:"exerciseId"`
	Position   int                         `json:"position"`
	Name       string                      `json:"name"`
	Category   domain.Category             `json:"category"`
	Equipment  string                      `json:"equipment,omitempty"`
	Notes      string                      `json:"notes,omitempty"`
	Sets       []domain.SetRowWithExercise `json:"sets"`
}

// GroupSetRows folds a flat, ordered list of set rows into exercise groups.
//
// Rows are accumulated by exerciseId in first-seen order; the first row of
// each group supplies the group's name, category, equipment, notes and
// position (all rows of a group are expected to share these — not
// re-validated). Groups are then sorted by position ascending, ties broken
// by first-seen order. The function is pure and idempotent: permuting rows
// within one exercise only permutes that group's Sets sub-order.
func GroupSetRows(rows []domain.SetRowWithExercise) []ExerciseGroup {
	byExercise := make(map[primitive.ObjectID]int, len(rows))
	groups := make([]ExerciseGroup, 0, len(rows))

	for _, row := range rows {
		idx, ok := byExercise[row.ExerciseID]
		if !ok {
			idx = len(groups)
			byExercise[row.ExerciseID] = idx
			groups = append(groups, ExerciseGroup{
				ExerciseID: row.ExerciseID,
				Position:   row.Position,
				Name:       row.ExerciseName,
				Category:   row.Category,
				Equipment:  row.ExerciseEquipment,
				Notes:      row.ExerciseNotes,
			})
		}
		groups[idx].Sets = append(groups[idx].Sets, row)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Position < groups[j].Position
	})
	return groups
}

// NextGroupPosition returns the position a brand-new exercise block takes
// when added to a live session: appended after the existing groups.
func NextGroupPosition(rows []domain.SetRowWithExercise) int {
	seen := make(map[primitive.ObjectID]struct{}, len(rows))
	for _, row := range rows {
		seen[row.ExerciseID] = struct{}{}
	}
	return len(seen)
}

// GroupPositionFor returns the position of the existing block for
// exerciseID, or (NextGroupPosition, false) when the exercise is new to
// the session.
func GroupPositionFor(rows []domain.SetRowWithExercise, exerciseID primitive.ObjectID) (int, bool) {
	for _, row := range rows {
		if row.ExerciseID == exerciseID {
			return row.Position, true
		}
	}
	return NextGroupPosition(rows), false
}
