package api

import (
	"alcyxob/workout-tracker/internal/service"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutHandler handles live-session and history endpoints.
type WorkoutHandler struct {
	workoutService service.WorkoutService
	// recentLimit is the configured result cap used when the recent-workouts
	// request carries no limit parameter.
	recentLimit int64
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService, recentLimit int64) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService, recentLimit: recentLimit}
}

// --- Request Structs ---

type StartWorkoutRequest struct {
	// RoutineID is optional; absent means a free session.
	RoutineID *string `json:"routineId"`
}

type AddSetRequest struct {
	ExerciseID string `json:"exerciseId" binding:"required"`
}

// SetRowPatchRequest updates one set row; absent fields stay unchanged.
type SetRowPatchRequest struct {
	Reps   *int     `json:"reps"`
	Weight *float64 `json:"weight"`

	TimeHours   *int     `json:"timeHours"`
	TimeMinutes *int     `json:"timeMinutes"`
	Distance    *float64 `json:"distance"`

	DurationMinutes *int `json:"durationMinutes"`
	DurationSeconds *int `json:"durationSeconds"`

	Completed *bool `json:"completed"`
}

// --- Handler Methods ---

// StartWorkout godoc
// @Summary Start a workout session
// @Description Creates a session, expanding the routine's entries into set
// @Description rows. Returns the existing session (200) if one is active.
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workout body StartWorkoutRequest true "Optional routine to start from"
// @Success 200 {object} service.Session "Existing active session"
// @Success 201 {object} service.Session "New session"
// @Failure 404 {object} gin.H "Routine not found"
// @Router /workouts/start [post]
func (h *WorkoutHandler) StartWorkout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}

	var req StartWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	var routineID *primitive.ObjectID
	if req.RoutineID != nil && *req.RoutineID != "" {
		id, err := primitive.ObjectIDFromHex(*req.RoutineID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid routineId format")
			return
		}
		routineID = &id
	}

	session, err := h.workoutService.Start(c.Request.Context(), userID, routineID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoutineNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrRoutineAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to start workout")
		}
		return
	}

	status := http.StatusCreated
	if session.Reused {
		status = http.StatusOK
	}
	c.JSON(status, session)
}

// GetActiveWorkout godoc
// @Summary Get the in-progress workout, if any
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.Workout
// @Failure 404 {object} gin.H "No active workout"
// @Router /workouts/active [get]
func (h *WorkoutHandler) GetActiveWorkout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}

	workout, err := h.workoutService.ActiveWorkout(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveWorkout) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to load active workout")
		return
	}

	c.JSON(http.StatusOK, workout)
}

// GetRecentWorkouts godoc
// @Summary List finished workouts, newest first
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max results (defaults to the configured recent limit)"
// @Success 200 {array} domain.Workout
// @Router /workouts/recent [get]
func (h *WorkoutHandler) GetRecentWorkouts(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}

	limit := h.recentLimit
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid limit value")
			return
		}
	}

	workouts, err := h.workoutService.RecentWorkouts(c.Request.Context(), userID, limit)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list workouts")
		return
	}

	c.JSON(http.StatusOK, workouts)
}

// GetWorkoutDetail godoc
// @Summary Get a workout with grouped rows and summary metrics
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param workoutId path string true "Workout ID"
// @Success 200 {object} service.WorkoutDetail
// @Failure 404 {object} gin.H "Not found"
// @Router /workouts/{workoutId} [get]
func (h *WorkoutHandler) GetWorkoutDetail(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	workoutID, ok := parseObjectIDParam(c, "workoutId")
	if !ok {
		return
	}

	detail, err := h.workoutService.Detail(c.Request.Context(), userID, workoutID)
	if err != nil {
		h.respondWorkoutError(c, err, "Failed to load workout")
		return
	}

	c.JSON(http.StatusOK, detail)
}

// GetSession godoc
// @Summary Reload the live session's grouped rows
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param workoutId path string true "Workout ID"
// @Success 200 {object} service.Session
// @Router /workouts/{workoutId}/session [get]
func (h *WorkoutHandler) GetSession(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	workoutID, ok := parseObjectIDParam(c, "workoutId")
	if !ok {
		return
	}

	session, err := h.workoutService.GetSession(c.Request.Context(), userID, workoutID)
	if err != nil {
		h.respondWorkoutError(c, err, "Failed to load session")
		return
	}

	c.JSON(http.StatusOK, session)
}

// FinishWorkout godoc
// @Summary Finish the session
// @Tags Workouts
// @Security BearerAuth
// @Param workoutId path string true "Workout ID"
// @Success 204 "Finished"
// @Failure 409 {object} gin.H "Already finished"
// @Router /workouts/{workoutId}/finish [post]
func (h *WorkoutHandler) FinishWorkout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	workoutID, ok := parseObjectIDParam(c, "workoutId")
	if !ok {
		return
	}

	if err := h.workoutService.Finish(c.Request.Context(), userID, workoutID); err != nil {
		if errors.Is(err, service.ErrWorkoutFinished) {
			abortWithError(c, http.StatusConflict, err.Error())
			return
		}
		h.respondWorkoutError(c, err, "Failed to finish workout")
		return
	}

	c.Status(http.StatusNoContent)
}

// CancelWorkout godoc
// @Summary Discard the session and its set rows
// @Tags Workouts
// @Security BearerAuth
// @Param workoutId path string true "Workout ID"
// @Success 204 "Discarded"
// @Router /workouts/{workoutId} [delete]
func (h *WorkoutHandler) CancelWorkout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	workoutID, ok := parseObjectIDParam(c, "workoutId")
	if !ok {
		return
	}

	if err := h.workoutService.Cancel(c.Request.Context(), userID, workoutID); err != nil {
		h.respondWorkoutError(c, err, "Failed to cancel workout")
		return
	}

	c.Status(http.StatusNoContent)
}

// AddSet godoc
// @Summary Add one set row for an exercise to the live session
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workoutId path string true "Workout ID"
// @Param set body AddSetRequest true "Exercise to add a set for"
// @Success 201 {object} domain.SetRow
// @Failure 409 {object} gin.H "Workout already finished"
// @Router /workouts/{workoutId}/sets [post]
func (h *WorkoutHandler) AddSet(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	workoutID, ok := parseObjectIDParam(c, "workoutId")
	if !ok {
		return
	}

	var req AddSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	exerciseID, err := primitive.ObjectIDFromHex(req.ExerciseID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exerciseId format")
		return
	}

	row, err := h.workoutService.AddSet(c.Request.Context(), userID, workoutID, exerciseID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWorkoutFinished):
			abortWithError(c, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrExerciseNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			h.respondWorkoutError(c, err, "Failed to add set")
		}
		return
	}

	c.JSON(http.StatusCreated, row)
}

// PatchSet godoc
// @Summary Update a set row's values or completion state
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param setId path string true "Set row ID"
// @Param set body SetRowPatchRequest true "Fields to change"
// @Success 200 {object} domain.SetRow
// @Router /sets/{setId} [patch]
func (h *WorkoutHandler) PatchSet(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	setID, ok := parseObjectIDParam(c, "setId")
	if !ok {
		return
	}

	var req SetRowPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	row, err := h.workoutService.PatchSetRow(c.Request.Context(), userID, setID, service.SetRowPatch{
		Reps:            req.Reps,
		Weight:          req.Weight,
		TimeHours:       req.TimeHours,
		TimeMinutes:     req.TimeMinutes,
		Distance:        req.Distance,
		DurationMinutes: req.DurationMinutes,
		DurationSeconds: req.DurationSeconds,
		Completed:       req.Completed,
	})
	if err != nil {
		h.respondWorkoutError(c, err, "Failed to update set")
		return
	}

	c.JSON(http.StatusOK, row)
}

// DeleteSet godoc
// @Summary Delete one set row
// @Tags Workouts
// @Security BearerAuth
// @Param setId path string true "Set row ID"
// @Success 204 "Deleted"
// @Router /sets/{setId} [delete]
func (h *WorkoutHandler) DeleteSet(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	setID, ok := parseObjectIDParam(c, "setId")
	if !ok {
		return
	}

	if err := h.workoutService.DeleteSetRow(c.Request.Context(), userID, setID); err != nil {
		h.respondWorkoutError(c, err, "Failed to delete set")
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteExerciseGroup godoc
// @Summary Delete every set row of one exercise in the workout
// @Tags Workouts
// @Security BearerAuth
// @Param workoutId path string true "Workout ID"
// @Param exerciseId path string true "Exercise ID"
// @Success 204 "Deleted"
// @Router /workouts/{workoutId}/exercises/{exerciseId}/sets [delete]
func (h *WorkoutHandler) DeleteExerciseGroup(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	workoutID, ok := parseObjectIDParam(c, "workoutId")
	if !ok {
		return
	}
	exerciseID, ok := parseObjectIDParam(c, "exerciseId")
	if !ok {
		return
	}

	if err := h.workoutService.DeleteExerciseGroup(c.Request.Context(), userID, workoutID, exerciseID); err != nil {
		h.respondWorkoutError(c, err, "Failed to delete exercise sets")
		return
	}

	c.Status(http.StatusNoContent)
}

// respondWorkoutError maps shared workout service errors to HTTP codes.
func (h *WorkoutHandler) respondWorkoutError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrWorkoutNotFound), errors.Is(err, service.ErrSetRowNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrWorkoutAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrWorkoutFinished):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}
