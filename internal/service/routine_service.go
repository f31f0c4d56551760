package service

import (
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrRoutineNotFound      = errors.New("routine not found")
	ErrRoutineAccessDenied  = errors.New("access denied to modify or delete this routine")
	ErrRoutineEntryNotFound = errors.New("routine entry not found")
	// ErrSwapInconsistent signals that a position swap failed half-way AND
	// the compensating rollback failed too: the two entries may now share a
	// position. Callers must report this, not retry silently.
	ErrSwapInconsistent = errors.New("position swap left entries inconsistent")
)

// RoutineEntryInput carries the plannable fields of a routine entry.
// Nil pointers mean "not set" for the category groups that do not apply.
type RoutineEntryInput struct {
	ExerciseID primitive.ObjectID

	Sets *int

	TargetReps   *int
	TargetWeight *float64

	TargetHours    *int
	TargetMinutes  *int
	TargetDistance *float64

	TargetSeconds *int
}

// SwapRef identifies one side of a position swap: the entry and the
// position the caller last observed for it.
type SwapRef struct {
	ID       primitive.ObjectID
	Position int
}

// RoutineService manages routines and their ordered exercise entries.
type RoutineService interface {
	CreateRoutine(ctx context.Context, userID primitive.ObjectID, name string) (*domain.Routine, error)
	GetRoutineByID(ctx context.Context, userID, routineID primitive.ObjectID) (*domain.Routine, error)
	GetRoutinesByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Routine, error)
	// DeleteRoutine soft-deletes the routine and removes its entries.
	DeleteRoutine(ctx context.Context, userID, routineID primitive.ObjectID) error

	GetRoutineEntries(ctx context.Context, userID, routineID primitive.ObjectID) ([]domain.RoutineExerciseWithMeta, error)
	// AddEntry appends an exercise to the routine (position = current count).
	AddEntry(ctx context.Context, userID, routineID primitive.ObjectID, input RoutineEntryInput) (*domain.RoutineExercise, error)
	// PatchEntry applies the non-nil fields of the patch to the entry.
	PatchEntry(ctx context.Context, userID, entryID primitive.ObjectID, patch RoutineEntryPatch) (*domain.RoutineExercise, error)
	RemoveEntry(ctx context.Context, userID, entryID primitive.ObjectID) error
	// SwapPositions exchanges the ordering keys of two entries.
	SwapPositions(ctx context.Context, userID, routineID primitive.ObjectID, a, b SwapRef) error
}

// RoutineEntryPatch is a field-level patch; nil leaves a field unchanged.
type RoutineEntryPatch struct {
	Sets *int

	TargetReps   *int
	TargetWeight *float64

	TargetHours    *int
	TargetMinutes  *int
	TargetDistance *float64

	TargetSeconds *int
}

// routineService implements the RoutineService interface.
type routineService struct {
	routineRepo repository.RoutineRepository
	entryRepo   repository.RoutineExerciseRepository
}

// NewRoutineService creates a new instance of routineService.
func NewRoutineService(routineRepo repository.RoutineRepository, entryRepo repository.RoutineExerciseRepository) RoutineService {
	return &routineService{
		routineRepo: routineRepo,
		entryRepo:   entryRepo,
	}
}

// CreateRoutine creates an empty routine.
func (s *routineService) CreateRoutine(ctx context.Context, userID primitive.ObjectID, name string) (*domain.Routine, error) {
	if name == "" {
		return nil, errors.New("routine name cannot be empty")
	}
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID is required to create a routine")
	}

	routine := &domain.Routine{
		UserID: userID,
		Name:   name,
	}
	routineID, err := s.routineRepo.Create(ctx, routine)
	if err != nil {
		return nil, err
	}
	return s.routineRepo.GetByID(ctx, routineID)
}

// GetRoutineByID retrieves a routine, enforcing ownership.
func (s *routineService) GetRoutineByID(ctx context.Context, userID, routineID primitive.ObjectID) (*domain.Routine, error) {
	return s.ownedRoutine(ctx, userID, routineID)
}

// GetRoutinesByUser retrieves the user's active routines.
func (s *routineService) GetRoutinesByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Routine, error) {
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID cannot be nil")
	}
	return s.routineRepo.GetByUserID(ctx, userID)
}

// DeleteRoutine soft-deletes the routine and removes its planned entries.
// The routine document survives so workout snapshots stay resolvable.
func (s *routineService) DeleteRoutine(ctx context.Context, userID, routineID primitive.ObjectID) error {
	err := s.routineRepo.SoftDelete(ctx, routineID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRoutineNotFound
		}
		return err
	}
	return s.entryRepo.DeleteByRoutineID(ctx, routineID)
}

// GetRoutineEntries retrieves the routine's entries ordered by position.
func (s *routineService) GetRoutineEntries(ctx context.Context, userID, routineID primitive.ObjectID) ([]domain.RoutineExerciseWithMeta, error) {
	if _, err := s.ownedRoutine(ctx, userID, routineID); err != nil {
		return nil, err
	}
	return s.entryRepo.GetByRoutineID(ctx, routineID)
}

// AddEntry appends an exercise to the end of the routine's ordering.
func (s *routineService) AddEntry(ctx context.Context, userID, routineID primitive.ObjectID, input RoutineEntryInput) (*domain.RoutineExercise, error) {
	if input.ExerciseID == primitive.NilObjectID {
		return nil, errors.New("exercise ID is required")
	}
	if _, err := s.ownedRoutine(ctx, userID, routineID); err != nil {
		return nil, err
	}

	count, err := s.entryRepo.CountByRoutineID(ctx, routineID)
	if err != nil {
		return nil, err
	}

	entry := &domain.RoutineExercise{
		RoutineID:      routineID,
		ExerciseID:     input.ExerciseID,
		Position:       int(count), // append to end
		Sets:           input.Sets,
		TargetReps:     input.TargetReps,
		TargetWeight:   input.TargetWeight,
		TargetHours:    input.TargetHours,
		TargetMinutes:  input.TargetMinutes,
		TargetDistance: input.TargetDistance,
		TargetSeconds:  input.TargetSeconds,
	}

	entryID, err := s.entryRepo.Create(ctx, entry)
	if err != nil {
		return nil, err
	}
	entry.ID = entryID
	return entry, nil
}

// PatchEntry applies the non-nil fields of the patch to an owned entry.
func (s *routineService) PatchEntry(ctx context.Context, userID, entryID primitive.ObjectID, patch RoutineEntryPatch) (*domain.RoutineExercise, error) {
	entry, err := s.ownedEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	if patch.Sets != nil {
		entry.Sets = patch.Sets
	}
	if patch.TargetReps != nil {
		entry.TargetReps = patch.TargetReps
	}
	if patch.TargetWeight != nil {
		entry.TargetWeight = patch.TargetWeight
	}
	if patch.TargetHours != nil {
		entry.TargetHours = patch.TargetHours
	}
	if patch.TargetMinutes != nil {
		entry.TargetMinutes = patch.TargetMinutes
	}
	if patch.TargetDistance != nil {
		entry.TargetDistance = patch.TargetDistance
	}
	if patch.TargetSeconds != nil {
		entry.TargetSeconds = patch.TargetSeconds
	}

	if err := s.entryRepo.Update(ctx, entry); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoutineEntryNotFound
		}
		return nil, err
	}
	return entry, nil
}

// RemoveEntry deletes one entry from an owned routine.
func (s *routineService) RemoveEntry(ctx context.Context, userID, entryID primitive.ObjectID) error {
	if _, err := s.ownedEntry(ctx, userID, entryID); err != nil {
		return err
	}
	err := s.entryRepo.Delete(ctx, entryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRoutineEntryNotFound
		}
		return err
	}
	return nil
}

// SwapPositions exchanges the ordering keys of two entries as two
// sequential updates. If the second update fails, the first is rolled back
// so the routine never silently keeps a duplicated position; if that
// rollback fails too, ErrSwapInconsistent is returned for the caller to
// surface.
func (s *routineService) SwapPositions(ctx context.Context, userID, routineID primitive.ObjectID, a, b SwapRef) error {
	if a.ID == b.ID {
		return errors.New("cannot swap an entry with itself")
	}
	if _, err := s.ownedRoutine(ctx, userID, routineID); err != nil {
		return err
	}

	if err := s.entryRepo.SetPosition(ctx, a.ID, b.Position); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRoutineEntryNotFound
		}
		return err
	}

	if err := s.entryRepo.SetPosition(ctx, b.ID, a.Position); err != nil {
		// Compensate: restore A's original position.
		if rbErr := s.entryRepo.SetPosition(ctx, a.ID, a.Position); rbErr != nil {
			return fmt.Errorf("%w: %v (rollback: %v)", ErrSwapInconsistent, err, rbErr)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRoutineEntryNotFound
		}
		return err
	}
	return nil
}

// --- ownership helpers ---

func (s *routineService) ownedRoutine(ctx context.Context, userID, routineID primitive.ObjectID) (*domain.Routine, error) {
	routine, err := s.routineRepo.GetByID(ctx, routineID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoutineNotFound
		}
		return nil, err
	}
	// The repository still serves soft-deleted routines so workout history
	// can resolve its snapshot; to everyone else a deleted routine is gone.
	if routine.DeletedAt != nil {
		return nil, ErrRoutineNotFound
	}
	if routine.UserID != userID {
		return nil, ErrRoutineAccessDenied
	}
	return routine, nil
}

func (s *routineService) ownedEntry(ctx context.Context, userID, entryID primitive.ObjectID) (*domain.RoutineExercise, error) {
	entry, err := s.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoutineEntryNotFound
		}
		return nil, err
	}
	if _, err := s.ownedRoutine(ctx, userID, entry.RoutineID); err != nil {
		return nil, err
	}
	return entry, nil
}
