package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeFileStorage records presign calls and serves canned URLs.
type fakeFileStorage struct {
	uploadKeys   []string
	downloadKeys []string
	deletedKeys  []string
}

func (f *fakeFileStorage) GeneratePresignedUploadURL(_ context.Context, objectKey, contentType string, _ time.Duration) (string, error) {
	f.uploadKeys = append(f.uploadKeys, objectKey)
	return "https://storage.test/upload/" + objectKey, nil
}

func (f *fakeFileStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	f.downloadKeys = append(f.downloadKeys, objectKey)
	return "https://storage.test/download/" + objectKey, nil
}

func (f *fakeFileStorage) DeleteObject(_ context.Context, objectKey string) error {
	f.deletedKeys = append(f.deletedKeys, objectKey)
	return nil
}

var _ storage.FileStorage = (*fakeFileStorage)(nil)

type exerciseFixture struct {
	userID primitive.ObjectID
	repo   *fakeExerciseRepo
	media  *fakeFileStorage
	svc    ExerciseService
}

func newExerciseFixture() *exerciseFixture {
	repo := &fakeExerciseRepo{}
	media := &fakeFileStorage{}
	return &exerciseFixture{
		userID: primitive.NewObjectID(),
		repo:   repo,
		media:  media,
		svc:    NewExerciseService(repo, media),
	}
}

func TestCreateExercise_Validation(t *testing.T) {
	f := newExerciseFixture()

	_, err := f.svc.CreateExercise(context.Background(), f.userID, ExerciseInput{
		Category: domain.CategoryStrength,
	})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = f.svc.CreateExercise(context.Background(), f.userID, ExerciseInput{
		Name:     "Squat",
		Category: domain.Category("yoga"),
	})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestArchiveExercise_HidesFromList(t *testing.T) {
	f := newExerciseFixture()

	created, err := f.svc.CreateExercise(context.Background(), f.userID, ExerciseInput{
		Name:     "Squat",
		Category: domain.CategoryStrength,
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.ArchiveExercise(context.Background(), f.userID, created.ID))

	listed, err := f.svc.GetExercisesByUser(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Empty(t, listed)

	// The record itself survives for workout history.
	kept, err := f.svc.GetExerciseByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, kept.Archived)
}

func TestArchiveExercise_DeniesForeignExercise(t *testing.T) {
	f := newExerciseFixture()
	other := f.repo.add(primitive.NewObjectID(), "Squat", domain.CategoryStrength)

	err := f.svc.ArchiveExercise(context.Background(), f.userID, other.ID)
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}

func TestRequestMediaUploadURL(t *testing.T) {
	f := newExerciseFixture()
	squat := f.repo.add(f.userID, "Squat", domain.CategoryStrength)

	// A non-media content type is a caller mistake, not a server failure.
	_, err := f.svc.RequestMediaUploadURL(context.Background(), f.userID, squat.ID, "application/pdf")
	assert.ErrorIs(t, err, ErrValidationFailed)

	ticket, err := f.svc.RequestMediaUploadURL(context.Background(), f.userID, squat.ID, "video/mp4")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ticket.ObjectKey, "exercise-media/"+f.userID.Hex()+"/"+squat.ID.Hex()+"/"))
	assert.True(t, strings.HasSuffix(ticket.ObjectKey, ".mp4"))
	assert.Contains(t, ticket.UploadURL, ticket.ObjectKey)

	stranger := primitive.NewObjectID()
	_, err = f.svc.RequestMediaUploadURL(context.Background(), stranger, squat.ID, "image/png")
	assert.ErrorIs(t, err, ErrExerciseAccessDenied)
}

func TestMediaConfirmAndDownload(t *testing.T) {
	f := newExerciseFixture()
	squat := f.repo.add(f.userID, "Squat", domain.CategoryStrength)

	// No media attached yet.
	_, err := f.svc.GetMediaDownloadURL(context.Background(), f.userID, squat.ID)
	assert.ErrorIs(t, err, ErrMediaMissing)

	require.NoError(t, f.svc.ConfirmMediaUpload(context.Background(), f.userID, squat.ID, "exercise-media/key.mp4", "video/mp4"))

	url, err := f.svc.GetMediaDownloadURL(context.Background(), f.userID, squat.ID)
	require.NoError(t, err)
	assert.Contains(t, url, "exercise-media/key.mp4")
}
