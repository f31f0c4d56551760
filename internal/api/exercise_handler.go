package api

import (
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/service"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler handles the user's exercise library endpoints.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- Request/Response Structs ---

type ExerciseRequest struct {
	Name      string `json:"name" binding:"required"`
	Category  string `json:"category" binding:"required,oneof=strength cardio duration free_weight"`
	Equipment string `json:"equipment"`
	Notes     string `json:"notes"`
}

type ExerciseResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Equipment string    `json:"equipment,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	HasMedia  bool      `json:"hasMedia"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type MediaUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type MediaConfirmRequest struct {
	ObjectKey   string `json:"objectKey" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

// --- Handler Methods ---

// CreateExercise godoc
// @Summary Create a library exercise
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exercise body ExerciseRequest true "Exercise details"
// @Success 201 {object} ExerciseResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Router /exercises [post]
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}

	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	exercise, err := h.exerciseService.CreateExercise(c.Request.Context(), userID, service.ExerciseInput{
		Name:      req.Name,
		Category:  domain.Category(req.Category),
		Equipment: req.Equipment,
		Notes:     req.Notes,
	})
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create exercise")
		}
		return
	}

	c.JSON(http.StatusCreated, MapExerciseToResponse(exercise))
}

// GetExercises godoc
// @Summary List the user's non-archived exercises
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ExerciseResponse
// @Router /exercises [get]
func (h *ExerciseHandler) GetExercises(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}

	exercises, err := h.exerciseService.GetExercisesByUser(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list exercises")
		return
	}

	resp := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		resp[i] = MapExerciseToResponse(&exercises[i])
	}
	c.JSON(http.StatusOK, resp)
}

// GetExercise godoc
// @Summary Get one exercise by ID
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param exerciseId path string true "Exercise ID"
// @Success 200 {object} ExerciseResponse
// @Failure 404 {object} gin.H "Not found"
// @Router /exercises/{exerciseId} [get]
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	exerciseID, ok := parseObjectIDParam(c, "exerciseId")
	if !ok {
		return
	}

	exercise, err := h.exerciseService.GetExerciseByID(c.Request.Context(), exerciseID)
	if err != nil || exercise.UserID != userID {
		abortWithError(c, http.StatusNotFound, "Exercise not found")
		return
	}

	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// UpdateExercise godoc
// @Summary Update an exercise's editable fields
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exerciseId path string true "Exercise ID"
// @Param exercise body ExerciseRequest true "Updated details"
// @Success 200 {object} ExerciseResponse
// @Failure 404 {object} gin.H "Not found"
// @Router /exercises/{exerciseId} [put]
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	exerciseID, ok := parseObjectIDParam(c, "exerciseId")
	if !ok {
		return
	}

	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	exercise, err := h.exerciseService.UpdateExercise(c.Request.Context(), userID, exerciseID, service.ExerciseInput{
		Name:      req.Name,
		Category:  domain.Category(req.Category),
		Equipment: req.Equipment,
		Notes:     req.Notes,
	})
	if err != nil {
		h.respondExerciseError(c, err, "Failed to update exercise")
		return
	}

	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// ArchiveExercise godoc
// @Summary Archive an exercise
// @Description Hides the exercise from pickers; past workouts keep it.
// @Tags Exercises
// @Security BearerAuth
// @Param exerciseId path string true "Exercise ID"
// @Success 204 "Archived"
// @Failure 404 {object} gin.H "Not found"
// @Router /exercises/{exerciseId} [delete]
func (h *ExerciseHandler) ArchiveExercise(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	exerciseID, ok := parseObjectIDParam(c, "exerciseId")
	if !ok {
		return
	}

	if err := h.exerciseService.ArchiveExercise(c.Request.Context(), userID, exerciseID); err != nil {
		h.respondExerciseError(c, err, "Failed to archive exercise")
		return
	}

	c.Status(http.StatusNoContent)
}

// RequestMediaUpload godoc
// @Summary Request a presigned URL to upload demo media
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exerciseId path string true "Exercise ID"
// @Param media body MediaUploadRequest true "Media content type (image/* or video/*)"
// @Success 200 {object} service.MediaUploadTicket
// @Failure 400 {object} gin.H "Unsupported content type"
// @Router /exercises/{exerciseId}/media/upload-url [post]
func (h *ExerciseHandler) RequestMediaUpload(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	exerciseID, ok := parseObjectIDParam(c, "exerciseId")
	if !ok {
		return
	}

	var req MediaUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	ticket, err := h.exerciseService.RequestMediaUploadURL(c.Request.Context(), userID, exerciseID, req.ContentType)
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		h.respondExerciseError(c, err, "Failed to generate upload URL")
		return
	}

	c.JSON(http.StatusOK, ticket)
}

// ConfirmMediaUpload godoc
// @Summary Confirm a completed media upload
// @Tags Exercises
// @Accept json
// @Security BearerAuth
// @Param exerciseId path string true "Exercise ID"
// @Param media body MediaConfirmRequest true "Uploaded object details"
// @Success 204 "Attached"
// @Router /exercises/{exerciseId}/media/confirm [post]
func (h *ExerciseHandler) ConfirmMediaUpload(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	exerciseID, ok := parseObjectIDParam(c, "exerciseId")
	if !ok {
		return
	}

	var req MediaConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if err := h.exerciseService.ConfirmMediaUpload(c.Request.Context(), userID, exerciseID, req.ObjectKey, req.ContentType); err != nil {
		h.respondExerciseError(c, err, "Failed to attach media")
		return
	}

	c.Status(http.StatusNoContent)
}

// GetMediaDownloadURL godoc
// @Summary Get a presigned URL to view demo media
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param exerciseId path string true "Exercise ID"
// @Success 200 {object} gin.H "downloadUrl"
// @Failure 404 {object} gin.H "No media attached"
// @Router /exercises/{exerciseId}/media/download-url [get]
func (h *ExerciseHandler) GetMediaDownloadURL(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	exerciseID, ok := parseObjectIDParam(c, "exerciseId")
	if !ok {
		return
	}

	url, err := h.exerciseService.GetMediaDownloadURL(c.Request.Context(), userID, exerciseID)
	if err != nil {
		if errors.Is(err, service.ErrMediaMissing) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		h.respondExerciseError(c, err, "Failed to generate download URL")
		return
	}

	c.JSON(http.StatusOK, gin.H{"downloadUrl": url})
}

// respondExerciseError maps shared exercise service errors to HTTP codes.
func (h *ExerciseHandler) respondExerciseError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrExerciseNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrExerciseAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}

// MapExerciseToResponse converts a domain Exercise to its DTO.
func MapExerciseToResponse(exercise *domain.Exercise) ExerciseResponse {
	if exercise == nil {
		return ExerciseResponse{}
	}
	return ExerciseResponse{
		ID:        exercise.ID.Hex(),
		Name:      exercise.Name,
		Category:  string(exercise.Category),
		Equipment: exercise.Equipment,
		Notes:     exercise.Notes,
		HasMedia:  exercise.MediaObjectKey != "",
		CreatedAt: exercise.CreatedAt,
		UpdatedAt: exercise.UpdatedAt,
	}
}
