// internal/repository/mongo/routine_exercise_repo.go
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

const routineExerciseCollectionName = "routine_exercises"

// mongoRoutineExerciseRepository implements repository.RoutineExerciseRepository
type mongoRoutineExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoRoutineExerciseRepository creates a new RoutineExercise repository.
func NewMongoRoutineExerciseRepository(db *mongo.Database) repository.RoutineExerciseRepository {
	return &mongoRoutineExerciseRepository{
		collection: db.Collection(routineExerciseCollectionName),
	}
}

// Create inserts a new routine entry.
func (r *mongoRoutineExerciseRepository) Create(ctx context.Context, entry *domain.RoutineExercise) (primitive.ObjectID, error) {
	if entry.RoutineID == primitive.NilObjectID || entry.ExerciseID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("routine entry requires routineId and exerciseId")
	}

	entry.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted routine entry ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single routine entry.
func (r *mongoRoutineExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.RoutineExercise, error) {
	var entry domain.RoutineExercise
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// GetByRoutineID retrieves a routine's entries ordered by position, each
// enriched with its exercise row via $lookup (the one "join" this module
// relies on, mirroring the embedded-row reads of the persistence boundary).
func (r *mongoRoutineExerciseRepository) GetByRoutineID(ctx context.Context, routineID primitive.ObjectID) ([]domain.RoutineExerciseWithMeta, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"routineId": routineID}}},
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
			"exerciseCategory":  "$exercise.category",
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

	var entries []domain.RoutineExerciseWithMeta
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// CountByRoutineID counts the entries of a routine (used for appending).
func (r *mongoRoutineExerciseRepository) CountByRoutineID(ctx context.Context, routineID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"routineId": routineID})
}

// Update overwrites the target values and sets count of one entry. Identity
// fields (routineId, exerciseId) and position are not changed here.
func (r *mongoRoutineExerciseRepository) Update(ctx context.Context, entry *domain.RoutineExercise) error {
	if entry.ID == primitive.NilObjectID {
		return errors.New("routine entry ID is required for update")
	}

	filter := bson.M{"_id": entry.ID}
	update := bson.M{
		"$set": bson.M{
			"sets":           entry.Sets,
			"targetReps":     entry.TargetReps,
			"targetWeight":   entry.TargetWeight,
			"targetHours":    entry.TargetHours,
			"targetMinutes":  entry.TargetMinutes,
			"targetDistance": entry.TargetDistance,
			"targetSeconds":  entry.TargetSeconds,
			"updatedAt":      time.Now().UTC(),
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

// SetPosition updates only the ordering key of one entry.
func (r *mongoRoutineExerciseRepository) SetPosition(ctx context.Context, id primitive.ObjectID, position int) error {
	filter := bson.M{"_id": id}
	update := bson.M{
		"$set": bson.M{
			"position":  position,
			"updatedAt": time.Now().UTC(),
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

// Delete removes a single routine entry.
func (r *mongoRoutineExerciseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByRoutineID removes every entry of a routine (routine deletion).
func (r *mongoRoutineExerciseRepository) DeleteByRoutineID(ctx context.Context, routineID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"routineId": routineID})
	return err
}

// EnsureRoutineExerciseIndexes creates necessary indexes. Call during startup.
func EnsureRoutineExerciseIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Ordered fetch of a routine's entries
			Keys:    bson.D{{Key: "routineId", Value: 1}, {Key: "position", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
