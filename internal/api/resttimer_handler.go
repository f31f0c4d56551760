package api

import (
	"alcyxob/workout-tracker/internal/resttimer"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RestTimerHandler exposes the between-sets rest countdown. Each user has
// one timer; arming it again restarts the countdown.
type RestTimerHandler struct {
	timers *resttimer.Manager
	// defaultSeconds is the configured rest length used when a request
	// carries no override.
	defaultSeconds int
}

// NewRestTimerHandler creates a new RestTimerHandler.
func NewRestTimerHandler(timers *resttimer.Manager, defaultSeconds int) *RestTimerHandler {
	return &RestTimerHandler{timers: timers, defaultSeconds: defaultSeconds}
}

type StartRestTimerRequest struct {
	// Seconds overrides the default rest length; nil or <=0 uses it.
	Seconds *int `json:"seconds"`
}

type RestTimerResponse struct {
	State            resttimer.State `json:"state"`
	RemainingSeconds int             `json:"remainingSeconds"`
}

// StartRestTimer godoc
// @Summary Arm (or restart) the rest countdown
// @Tags RestTimer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param timer body StartRestTimerRequest true "Optional rest length override"
// @Success 200 {object} RestTimerResponse
// @Router /rest-timer/start [post]
func (h *RestTimerHandler) StartRestTimer(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}

	var req StartRestTimerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	timer := h.timers.For(userID.Hex())
	timer.Arm(resttimer.RestSeconds(req.Seconds, h.defaultSeconds))

	c.JSON(http.StatusOK, RestTimerResponse{
		State:            timer.State(),
		RemainingSeconds: timer.Remaining(),
	})
}

// GetRestTimer godoc
// @Summary Read the rest countdown state
// @Tags RestTimer
// @Produce json
// @Security BearerAuth
// @Success 200 {object} RestTimerResponse
// @Router /rest-timer [get]
func (h *RestTimerHandler) GetRestTimer(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}

	timer := h.timers.For(userID.Hex())
	c.JSON(http.StatusOK, RestTimerResponse{
		State:            timer.State(),
		RemainingSeconds: timer.Remaining(),
	})
}

// SkipRestTimer godoc
// @Summary End the rest countdown early
// @Tags RestTimer
// @Produce json
// @Security BearerAuth
// @Success 200 {object} RestTimerResponse
// @Router /rest-timer/skip [post]
func (h *RestTimerHandler) SkipRestTimer(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}

	timer := h.timers.For(userID.Hex())
	timer.Skip()

	c.JSON(http.StatusOK, RestTimerResponse{
		State:            timer.State(),
		RemainingSeconds: timer.Remaining(),
	})
}
