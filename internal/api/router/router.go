package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cvlab-ar/cvgen-service/internal/api/handler"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		if deps.DB != nil {
			if err := deps.DB.HealthCheck(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unhealthy",
					"service": "cvgen-service",
					"error":   err.Error(),
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "cvgen-service",
		})
	})

	aiQueueHandler := handler.NewAIQueueHandler(deps)
	submissionHandler := handler.NewSubmissionHandler(deps)

	// API v1 routes
	v1 := r.Group("/api/v1")
	admin := v1.Group("/admin")
	{
		aiQueue := admin.Group("/ai-queue")
		{
			// POST /api/v1/admin/ai-queue/submissions/:id - Queue AI generation for a submission
			aiQueue.POST("/submissions/:id", aiQueueHandler.EnqueueAIJob)

			// GET /api/v1/admin/ai-queue/jobs/:job_id - Poll a job's status and queue position
			aiQueue.GET("/jobs/:job_id", aiQueueHandler.GetAIJobStatus)

			// GET /api/v1/admin/ai-queue - Inspect the whole queue
			aiQueue.GET("", aiQueueHandler.ListAIQueue)
		}

		submissions := admin.Group("/cv-submissions")
		{
			// GET /api/v1/admin/cv-submissions - List submissions with pagination
			submissions.GET("", submissionHandler.ListSubmissions)

			// GET /api/v1/admin/cv-submissions/:id - Get submission details
			submissions.GET("/:id", submissionHandler.GetSubmission)

			// PUT /api/v1/admin/cv-submissions/:id/status - Update review status
			submissions.PUT("/:id/status", submissionHandler.UpdateSubmissionStatus)
		}
	}

	return r
}
