// internal/repository/mongo/set_row_repo.go
package mongo

import (
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const setRowCollectionName = "workout_exercises"

// mongoSetRowRepository implements repository.SetRowRepository
type mongoSetRowRepository struct {
	collection *mongo.Collection
}

// NewMongoSetRowRepository creates a new SetRow repository.
func NewMongoSetRowRepository(db *mongo.Database) repository.SetRowRepository {
	return &mongoSetRowRepository{
		collection: db.Collection(setRowCollectionName),
	}
}

// Create inserts a single set row (live-session add).
func (r *mongoSetRowRepository) Create(ctx context.Context, row *domain.SetRow) (primitive.ObjectID, error) {
	if row.WorkoutID == primitive.NilObjectID || row.ExerciseID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("set row requires workoutId and exerciseId")
	}
	if !row.Category.IsValid() {
		return primitive.NilObjectID, errors.New("set row category is invalid")
	}

	row.ID = primitive.NewObjectID()
	row.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, row)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted set row ID")
	}
	return insertedID, nil
}

// CreateMany bulk-inserts expanded set rows, in order. A no-op on empty input.
// ObjectIDs are generated client-side so the (position, _id) read order
// matches the insert order within each exercise block.
func (r *mongoSetRowRepository) CreateMany(ctx context.Context, rows []domain.SetRow) error {
	if len(rows) == 0 {
		return nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, len(rows))
	for i := range rows {
		rows[i].ID = primitive.NewObjectID()
		rows[i].CreatedAt = now
		docs[i] = rows[i]
	}

	_, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	return err
}

// GetByID retrieves a single set row.
func (r *mongoSetRowRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SetRow, error) {
	var row domain.SetRow
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&row)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// GetByWorkoutID retrieves a workout's set rows ordered by (position asc,
// _id asc) so every exercise block keeps a stable sub-order, with the
// exercise row embedded via $lookup.
func (r *mongoSetRowRepository) GetByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) ([]domain.SetRowWithExercise, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"workoutId": workoutID}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "position", Value: 1}, {Key: "_id", Value: 1}}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         exerciseCollectionName,
			"localField":   "exerciseId",
			"foreignField": "_id",
			"as":           "exercise",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{"path": "$exercise", "preserveNullAndEmptyArrays": true}}},
		bson.D{{Key: "$addFields", Value: bson.M{
			"exerciseName":      "$exercise.name",
			"exerciseEquipment": "$exercise.equipment",
			"exerciseNotes":     "$exercise.notes",
		}}},
		bson.D{{Key: "$project", Value: bson.M{"exercise": 0}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []domain.SetRowWithExercise
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

// Update overwrites the value fields and completion flag of one row.
// Identity fields (workoutId, exerciseId, category, position) are fixed.
func (r *mongoSetRowRepository) Update(ctx context.Context, row *domain.SetRow) error {
	if row.ID == primitive.NilObjectID {
		return errors.New("set row ID is required for update")
	}

	filter := bson.M{"_id": row.ID}
	update := bson.M{
		"$set": bson.M{
			"reps":            row.Reps,
			"weight":          row.Weight,
			"timeHours":       row.TimeHours,
			"timeMinutes":     row.TimeMinutes,
			"distance":        row.Distance,
			"durationMinutes": row.DurationMinutes,
			"durationSeconds": row.DurationSeconds,
			"completed":       row.Completed,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a single set row.
func (r *mongoSetRowRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteGroup removes every set row of one exercise within one workout.
// Rows of other exercises in the same workout are untouched.
func (r *mongoSetRowRepository) DeleteGroup(ctx context.Context, workoutID, exerciseID primitive.ObjectID) error {
	filter := bson.M{
		"workoutId":  workoutID,
		"exerciseId": exerciseID,
	}
	_, err := r.collection.DeleteMany(ctx, filter)
	return err
}

// DeleteByWorkoutID removes all set rows of a workout (session cancel).
func (r *mongoSetRowRepository) DeleteByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"workoutId": workoutID})
	return err
}

// EnsureSetRowIndexes creates necessary indexes. Call during startup.
func EnsureSetRowIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Ordered fetch of a session's rows
			Keys:    bson.D{{Key: "workoutId", Value: 1}, {Key: "position", Value: 1}},
			Options: options.Index(),
		},
		{
			// Group delete by (workoutId, exerciseId)
			Keys:    bson.D{{Key: "workoutId", Value: 1}, {Key: "exerciseId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
