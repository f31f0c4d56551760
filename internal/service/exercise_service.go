package service

import (
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/storage"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound     = errors.New("exercise not found")
	ErrExerciseAccessDenied = errors.New("access denied to modify or delete this exercise")
	ErrValidationFailed     = errors.New("exercise validation failed")
	ErrMediaMissing         = errors.New("exercise has no media attached")
	ErrMediaURLError        = errors.New("failed to generate media URL")
)

// ExerciseInput carries the user-editable fields of an exercise.
type ExerciseInput struct {
	Name      string
	Category  domain.Category
	Equipment string
	Notes     string
}

// MediaUploadTicket is returned when a client asks to attach demo media:
// a pre-signed PUT URL plus the object key to report back on confirm.
type MediaUploadTicket struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// ExerciseService manages the user's exercise library.
type ExerciseService interface {
	CreateExercise(ctx context.Context, userID primitive.ObjectID, input ExerciseInput) (*domain.Exercise, error)
	GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error)
	GetExercisesByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Exercise, error)
	UpdateExercise(ctx context.Context, userID, exerciseID primitive.ObjectID, input ExerciseInput) (*domain.Exercise, error)
	// ArchiveExercise soft-deletes; past workouts keep their reference.
	ArchiveExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) error

	// Demo media attachment (photo or short video).
	RequestMediaUploadURL(ctx context.Context, userID, exerciseID primitive.ObjectID, contentType string) (*MediaUploadTicket, error)
	ConfirmMediaUpload(ctx context.Context, userID, exerciseID primitive.ObjectID, objectKey, contentType string) error
	GetMediaDownloadURL(ctx context.Context, userID, exerciseID primitive.ObjectID) (string, error)
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	mediaStorage storage.FileStorage
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, mediaStorage storage.FileStorage) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		mediaStorage: mediaStorage,
	}
}

// CreateExercise handles the creation of a new library exercise.
func (s *exerciseService) CreateExercise(ctx context.Context, userID primitive.ObjectID, input ExerciseInput) (*domain.Exercise, error) {
	if input.Name == "" || !input.Category.IsValid() {
		return nil, ErrValidationFailed
	}
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID is required to create an exercise")
	}

	exercise := &domain.Exercise{
		UserID:    userID,
		Name:      input.Name,
		Category:  input.Category,
		Equipment: input.Equipment,
		Notes:     input.Notes,
	}

	exerciseID, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	// Fetch again so CreatedAt/UpdatedAt come back populated
	return s.exerciseRepo.GetByID(ctx, exerciseID)
}

// GetExerciseByID retrieves a single exercise.
func (s *exerciseService) GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

// GetExercisesByUser retrieves the user's non-archived exercises.
func (s *exerciseService) GetExercisesByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Exercise, error) {
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID cannot be nil")
	}
	exercises, err := s.exerciseRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return exercises, nil
}

// UpdateExercise handles updating an existing exercise, ensuring ownership.
func (s *exerciseService) UpdateExercise(ctx context.Context, userID, exerciseID primitive.ObjectID, input ExerciseInput) (*domain.Exercise, error) {
	if input.Name == "" || !input.Category.IsValid() {
		return nil, ErrValidationFailed
	}

	existing, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	if existing.UserID != userID {
		return nil, ErrExerciseAccessDenied
	}

	existing.Name = input.Name
	existing.Category = input.Category
	existing.Equipment = input.Equipment
	existing.Notes = input.Notes

	if err := s.exerciseRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return existing, nil
}

// ArchiveExercise soft-deletes an exercise. The repository filter enforces
// ownership at the DB level, so a mismatch surfaces as not-found.
func (s *exerciseService) ArchiveExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) error {
	if userID == primitive.NilObjectID || exerciseID == primitive.NilObjectID {
		return errors.New("user ID and exercise ID are required")
	}

	err := s.exerciseRepo.Archive(ctx, exerciseID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}
	return nil
}

// === Demo media ===

// RequestMediaUploadURL generates a pre-signed URL for attaching demo media
// to an owned exercise.
func (s *exerciseService) RequestMediaUploadURL(ctx context.Context, userID, exerciseID primitive.ObjectID, contentType string) (*MediaUploadTicket, error) {
	lowered := strings.ToLower(contentType)
	if !strings.HasPrefix(lowered, "image/") && !strings.HasPrefix(lowered, "video/") {
		return nil, fmt.Errorf("%w: media content type must be image/* or video/*", ErrValidationFailed)
	}

	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	if exercise.UserID != userID {
		return nil, ErrExerciseAccessDenied
	}

	// Unique object key per upload so a re-upload never clobbers a key a
	// client is still reading through an older presigned URL.
	uniqueID := uuid.NewString()
	fileExtension := ""
	parts := strings.Split(contentType, "/")
	if len(parts) == 2 {
		fileExtension = parts[1]
	}
	objectKey := path.Join("exercise-media", userID.Hex(), exerciseID.Hex(), fmt.Sprintf("%s.%s", uniqueID, fileExtension))

	uploadURL, err := s.mediaStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrMediaURLError
	}

	return &MediaUploadTicket{
		UploadURL: uploadURL,
		ObjectKey: objectKey,
	}, nil
}

// ConfirmMediaUpload records the uploaded object on the exercise. Called
// after the client has PUT the file to the presigned URL.
func (s *exerciseService) ConfirmMediaUpload(ctx context.Context, userID, exerciseID primitive.ObjectID, objectKey, contentType string) error {
	if objectKey == "" {
		return errors.New("object key is required")
	}

	err := s.exerciseRepo.SetMedia(ctx, exerciseID, userID, objectKey, contentType)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}
	return nil
}

// GetMediaDownloadURL generates a temporary URL for viewing the exercise's media.
func (s *exerciseService) GetMediaDownloadURL(ctx context.Context, userID, exerciseID primitive.ObjectID) (string, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrExerciseNotFound
		}
		return "", err
	}
	if exercise.UserID != userID {
		return "", ErrExerciseAccessDenied
	}
	if exercise.MediaObjectKey == "" {
		return "", ErrMediaMissing
	}

	downloadURL, err := s.mediaStorage.GeneratePresignedDownloadURL(ctx, exercise.MediaObjectKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", ErrMediaURLError
	}
	return downloadURL, nil
}
