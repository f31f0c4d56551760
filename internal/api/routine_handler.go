package api

import (
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/service"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoutineHandler handles routine and routine-entry endpoints.
type RoutineHandler struct {
	routineService service.RoutineService
}

// NewRoutineHandler creates a new RoutineHandler.
func NewRoutineHandler(routineService service.RoutineService) *RoutineHandler {
	return &RoutineHandler{routineService: routineService}
}

// --- Request/Response Structs ---

type RoutineRequest struct {
	Name string `json:"name" binding:"required"`
}

type RoutineResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	LastUsed  *time.Time `json:"lastUsed,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// RoutineEntryRequest adds one exercise to a routine. Target fields are
// optional; only the group matching the exercise's category is used.
type RoutineEntryRequest struct {
	ExerciseID string `json:"exerciseId" binding:"required"`

	Sets *int `json:"sets"`

	TargetReps   *int     `json:"targetReps"`
	TargetWeight *float64 `json:"targetWeight"`

	TargetHours    *int     `json:"targetHours"`
	TargetMinutes  *int     `json:"targetMinutes"`
	TargetDistance *float64 `json:"targetDistance"`

	TargetSeconds *int `json:"targetSeconds"`
}

// RoutineEntryPatchRequest updates an entry; absent fields stay unchanged.
type RoutineEntryPatchRequest struct {
	Sets *int `json:"sets"`

	TargetReps   *int     `json:"targetReps"`
	TargetWeight *float64 `json:"targetWeight"`

	TargetHours    *int     `json:"targetHours"`
	TargetMinutes  *int     `json:"targetMinutes"`
	TargetDistance *float64 `json:"targetDistance"`

	TargetSeconds *int `json:"targetSeconds"`
}

// SwapPositionsRequest names the two entries to exchange, each with the
// position the client last rendered for it.
type SwapPositionsRequest struct {
	A SwapSideRequest `json:"a" binding:"required"`
	B SwapSideRequest `json:"b" binding:"required"`
}

type SwapSideRequest struct {
	ID       string `json:"id" binding:"required"`
	Position *int   `json:"position" binding:"required"`
}

// --- Handler Methods ---

// CreateRoutine godoc
// @Summary Create a routine
// @Tags Routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param routine body RoutineRequest true "Routine details"
// @Success 201 {object} RoutineResponse
// @Router /routines [post]
func (h *RoutineHandler) CreateRoutine(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}

	var req RoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	routine, err := h.routineService.CreateRoutine(c.Request.Context(), userID, req.Name)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create routine")
		return
	}

	c.JSON(http.StatusCreated, MapRoutineToResponse(routine))
}

// GetRoutines godoc
// @Summary List the user's routines
// @Tags Routines
// @Produce json
// @Security BearerAuth
// @Success 200 {array} RoutineResponse
// @Router /routines [get]
func (h *RoutineHandler) GetRoutines(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}

	routines, err := h.routineService.GetRoutinesByUser(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list routines")
		return
	}

	resp := make([]RoutineResponse, len(routines))
	for i := range routines {
		resp[i] = MapRoutineToResponse(&routines[i])
	}
	c.JSON(http.StatusOK, resp)
}

// GetRoutine godoc
// @Summary Get one routine
// @Tags Routines
// @Produce json
// @Security BearerAuth
// @Param routineId path string true "Routine ID"
// @Success 200 {object} RoutineResponse
// @Failure 404 {object} gin.H "Not found"
// @Router /routines/{routineId} [get]
func (h *RoutineHandler) GetRoutine(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	routineID, ok := parseObjectIDParam(c, "routineId")
	if !ok {
		return
	}

	routine, err := h.routineService.GetRoutineByID(c.Request.Context(), userID, routineID)
	if err != nil {
		h.respondRoutineError(c, err, "Failed to load routine")
		return
	}

	c.JSON(http.StatusOK, MapRoutineToResponse(routine))
}

// DeleteRoutine godoc
// @Summary Delete a routine
// @Description Soft-deletes the routine; workout history keeps its name.
// @Tags Routines
// @Security BearerAuth
// @Param routineId path string true "Routine ID"
// @Success 204 "Deleted"
// @Failure 404 {object} gin.H "Not found"
// @Router /routines/{routineId} [delete]
func (h *RoutineHandler) DeleteRoutine(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	routineID, ok := parseObjectIDParam(c, "routineId")
	if !ok {
		return
	}

	if err := h.routineService.DeleteRoutine(c.Request.Context(), userID, routineID); err != nil {
		h.respondRoutineError(c, err, "Failed to delete routine")
		return
	}

	c.Status(http.StatusNoContent)
}

// GetRoutineEntries godoc
// @Summary List a routine's entries in display order
// @Tags Routines
// @Produce json
// @Security BearerAuth
// @Param routineId path string true "Routine ID"
// @Success 200 {array} domain.RoutineExerciseWithMeta
// @Router /routines/{routineId}/entries [get]
func (h *RoutineHandler) GetRoutineEntries(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	routineID, ok := parseObjectIDParam(c, "routineId")
	if !ok {
		return
	}

	entries, err := h.routineService.GetRoutineEntries(c.Request.Context(), userID, routineID)
	if err != nil {
		h.respondRoutineError(c, err, "Failed to list routine entries")
		return
	}
	if entries == nil {
		entries = []domain.RoutineExerciseWithMeta{}
	}

	c.JSON(http.StatusOK, entries)
}

// AddRoutineEntry godoc
// @Summary Append an exercise to a routine
// @Tags Routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param routineId path string true "Routine ID"
// @Param entry body RoutineEntryRequest true "Entry details"
// @Success 201 {object} domain.RoutineExercise
// @Router /routines/{routineId}/entries [post]
func (h *RoutineHandler) AddRoutineEntry(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	routineID, ok := parseObjectIDParam(c, "routineId")
	if !ok {
		return
	}

	var req RoutineEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	exerciseID, err := primitive.ObjectIDFromHex(req.ExerciseID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exerciseId format")
		return
	}

	entry, err := h.routineService.AddEntry(c.Request.Context(), userID, routineID, service.RoutineEntryInput{
		ExerciseID:     exerciseID,
		Sets:           req.Sets,
		TargetReps:     req.TargetReps,
		TargetWeight:   req.TargetWeight,
		TargetHours:    req.TargetHours,
		TargetMinutes:  req.TargetMinutes,
		TargetDistance: req.TargetDistance,
		TargetSeconds:  req.TargetSeconds,
	})
	if err != nil {
		h.respondRoutineError(c, err, "Failed to add entry")
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// PatchRoutineEntry godoc
// @Summary Update an entry's sets and targets
// @Tags Routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param entryId path string true "Entry ID"
// @Param entry body RoutineEntryPatchRequest true "Fields to change"
// @Success 200 {object} domain.RoutineExercise
// @Router /routine-entries/{entryId} [patch]
func (h *RoutineHandler) PatchRoutineEntry(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	entryID, ok := parseObjectIDParam(c, "entryId")
	if !ok {
		return
	}

	var req RoutineEntryPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	entry, err := h.routineService.PatchEntry(c.Request.Context(), userID, entryID, service.RoutineEntryPatch{
		Sets:           req.Sets,
		TargetReps:     req.TargetReps,
		TargetWeight:   req.TargetWeight,
		TargetHours:    req.TargetHours,
		TargetMinutes:  req.TargetMinutes,
		TargetDistance: req.TargetDistance,
		TargetSeconds:  req.TargetSeconds,
	})
	if err != nil {
		h.respondRoutineError(c, err, "Failed to update entry")
		return
	}

	c.JSON(http.StatusOK, entry)
}

// RemoveRoutineEntry godoc
// @Summary Remove an entry from its routine
// @Tags Routines
// @Security BearerAuth
// @Param entryId path string true "Entry ID"
// @Success 204 "Removed"
// @Router /routine-entries/{entryId} [delete]
func (h *RoutineHandler) RemoveRoutineEntry(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	entryID, ok := parseObjectIDParam(c, "entryId")
	if !ok {
		return
	}

	if err := h.routineService.RemoveEntry(c.Request.Context(), userID, entryID); err != nil {
		h.respondRoutineError(c, err, "Failed to remove entry")
		return
	}

	c.Status(http.StatusNoContent)
}

// SwapRoutineEntries godoc
// @Summary Swap the positions of two entries
// @Tags Routines
// @Accept json
// @Security BearerAuth
// @Param routineId path string true "Routine ID"
// @Param swap body SwapPositionsRequest true "The two entries to exchange"
// @Success 204 "Swapped"
// @Failure 409 {object} gin.H "Swap left entries inconsistent; reload the routine"
// @Router /routines/{routineId}/entries/swap [post]
func (h *RoutineHandler) SwapRoutineEntries(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	routineID, ok := parseObjectIDParam(c, "routineId")
	if !ok {
		return
	}

	var req SwapPositionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	a, err := req.A.toSwapRef()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid swap entry: "+err.Error())
		return
	}
	b, err := req.B.toSwapRef()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid swap entry: "+err.Error())
		return
	}

	if err := h.routineService.SwapPositions(c.Request.Context(), userID, routineID, a, b); err != nil {
		if errors.Is(err, service.ErrSwapInconsistent) {
			abortWithError(c, http.StatusConflict, err.Error())
			return
		}
		h.respondRoutineError(c, err, "Failed to swap entries")
		return
	}

	c.Status(http.StatusNoContent)
}

func (r SwapSideRequest) toSwapRef() (service.SwapRef, error) {
	id, err := primitive.ObjectIDFromHex(r.ID)
	if err != nil {
		return service.SwapRef{}, err
	}
	return service.SwapRef{ID: id, Position: *r.Position}, nil
}

// respondRoutineError maps shared routine service errors to HTTP codes.
func (h *RoutineHandler) respondRoutineError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrRoutineNotFound), errors.Is(err, service.ErrRoutineEntryNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrRoutineAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}

// MapRoutineToResponse converts a domain Routine to its DTO.
func MapRoutineToResponse(routine *domain.Routine) RoutineResponse {
	if routine == nil {
		return RoutineResponse{}
	}
	return RoutineResponse{
		ID:        routine.ID.Hex(),
		Name:      routine.Name,
		LastUsed:  routine.LastUsed,
		CreatedAt: routine.CreatedAt,
		UpdatedAt: routine.UpdatedAt,
	}
}
