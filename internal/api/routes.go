package api

import (
	"alcyxob/workout-tracker/internal/config"
	"alcyxob/workout-tracker/internal/resttimer"
	"alcyxob/workout-tracker/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	workoutCfg config.WorkoutConfig,
	authService service.AuthService,
	exerciseService service.ExerciseService,
	routineService service.RoutineService,
	workoutService service.WorkoutService,
) {
	authHandler := NewAuthHandler(authService)
	exerciseHandler := NewExerciseHandler(exerciseService)
	routineHandler := NewRoutineHandler(routineService)
	workoutHandler := NewWorkoutHandler(workoutService, workoutCfg.RecentLimit)
	restTimerHandler := NewRestTimerHandler(resttimer.NewManager(), workoutCfg.RestSeconds)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userID, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			c.JSON(http.StatusOK, gin.H{"userId": userID.Hex()})
		})

		// --- Exercise Library ---
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.POST("", exerciseHandler.CreateExercise)
			exerciseGroup.GET("", exerciseHandler.GetExercises)
			exerciseGroup.GET("/:exerciseId", exerciseHandler.GetExercise)
			exerciseGroup.PUT("/:exerciseId", exerciseHandler.UpdateExercise)
			exerciseGroup.DELETE("/:exerciseId", exerciseHandler.ArchiveExercise)

			// Demo media upload/view via presigned URLs.
			exerciseGroup.POST("/:exerciseId/media/upload-url", exerciseHandler.RequestMediaUpload)
			exerciseGroup.POST("/:exerciseId/media/confirm", exerciseHandler.ConfirmMediaUpload)
			exerciseGroup.GET("/:exerciseId/media/download-url", exerciseHandler.GetMediaDownloadURL)
		}

		// --- Routines ---
		routineGroup := protected.Group("/routines")
		{
			routineGroup.POST("", routineHandler.CreateRoutine)
			routineGroup.GET("", routineHandler.GetRoutines)
			routineGroup.GET("/:routineId", routineHandler.GetRoutine)
			routineGroup.DELETE("/:routineId", routineHandler.DeleteRoutine)

			routineGroup.GET("/:routineId/entries", routineHandler.GetRoutineEntries)
			routineGroup.POST("/:routineId/entries", routineHandler.AddRoutineEntry)
			routineGroup.POST("/:routineId/entries/swap", routineHandler.SwapRoutineEntries)
		}

		// Entry mutations address the entry directly; ownership is checked
		// through its routine.
		entryGroup := protected.Group("/routine-entries")
		{
			entryGroup.PATCH("/:entryId", routineHandler.PatchRoutineEntry)
			entryGroup.DELETE("/:entryId", routineHandler.RemoveRoutineEntry)
		}

		// --- Workouts ---
		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.POST("/start", workoutHandler.StartWorkout)
			workoutGroup.GET("/active", workoutHandler.GetActiveWorkout)
			workoutGroup.GET("/recent", workoutHandler.GetRecentWorkouts)
			workoutGroup.GET("/:workoutId", workoutHandler.GetWorkoutDetail)
			workoutGroup.GET("/:workoutId/session", workoutHandler.GetSession)
			workoutGroup.POST("/:workoutId/finish", workoutHandler.FinishWorkout)
			workoutGroup.DELETE("/:workoutId", workoutHandler.CancelWorkout)

			workoutGroup.POST("/:workoutId/sets", workoutHandler.AddSet)
			workoutGroup.DELETE("/:workoutId/exercises/:exerciseId/sets", workoutHandler.DeleteExerciseGroup)
		}

		// Set row mutations address the row directly.
		setGroup := protected.Group("/sets")
		{
			setGroup.PATCH("/:setId", workoutHandler.PatchSet)
			setGroup.DELETE("/:setId", workoutHandler.DeleteSet)
		}

		// --- Rest Timer ---
		restGroup := protected.Group("/rest-timer")
		{
			restGroup.GET("", restTimerHandler.GetRestTimer)
			restGroup.POST("/start", restTimerHandler.StartRestTimer)
			restGroup.POST("/skip", restTimerHandler.SkipRestTimer)
		}
	}
}
