package handler

import (
	"errors"
	"log/slog"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cvlab-ar/cvgen-service/internal/api/dto"
	"github.com/cvlab-ar/cvgen-service/internal/queue"
	"github.com/cvlab-ar/cvgen-service/internal/submission"
)

// EnqueueAIJob handles POST /api/v1/admin/ai-queue/submissions/:id
// Queues AI content generation for an existing CV submission.
func (h *AIQueueHandler) EnqueueAIJob(c *gin.Context) {
	submissionID := c.Param("id")

	// Body is optional; an empty or absent body requests the full document
	var req dto.EnqueueAIJobRequest
	_ = c.ShouldBindJSON(&req)

	section, known := queue.ParseSection(req.Section)
	if !known {
		h.logger.Warn("Unknown section requested, falling back to full document",
			slog.String("section", req.Section),
			slog.String("submission_id", submissionID),
		)
	}

	if _, err := h.submissions.GetByID(c.Request.Context(), submissionID); err != nil {
		if errors.Is(err, submission.ErrSubmissionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "Submission not found",
			})
			return
		}
		h.logger.Error("Failed to load submission", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to load submission",
		})
		return
	}

	if !h.generator.Configured() {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Groq API is not configured",
		})
		return
	}

	job := h.queue.Enqueue(submissionID, section)

	c.JSON(http.StatusOK, dto.EnqueueAIJobResponse{
		Success: true,
		JobID:   job.ID,
		Status:  job.Status,
		Message: "Request queued; processing will start shortly",
	})
}

// GetAIJobStatus handles GET /api/v1/admin/ai-queue/jobs/:job_id
// Returns job state plus queue position and a wait estimate; clients poll
// this until the status is terminal.
func (h *AIQueueHandler) GetAIJobStatus(c *gin.Context) {
	jobID := c.Param("job_id")

	job, ok := h.queue.GetJob(jobID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Job not found",
		})
		return
	}

	position, isPending := h.queue.GetQueuePosition(jobID)
	pendingCount := h.queue.Stats().Pending

	waitMinutes := 0
	if isPending {
		waitMinutes = int(math.Ceil(float64(position) * h.estimatedWaitPerSlot.Minutes()))
	}

	c.JSON(http.StatusOK, dto.JobStatusResponse{
		Success: true,
		Job:     toJobDTO(job),
		Queue: dto.QueueInfoDTO{
			Position:             position,
			PendingCount:         pendingCount,
			EstimatedWaitMinutes: waitMinutes,
		},
	})
}

// ListAIQueue handles GET /api/v1/admin/ai-queue
// Returns every job with aggregate counts, for monitoring and debugging.
func (h *AIQueueHandler) ListAIQueue(c *gin.Context) {
	jobs := h.queue.GetAllJobs()
	stats := h.queue.Stats()

	jobDTOs := make([]dto.JobDTO, len(jobs))
	for i, job := range jobs {
		jobDTOs[i] = toJobDTO(job)
	}

	c.JSON(http.StatusOK, dto.ListQueueResponse{
		Success: true,
		Queue:   jobDTOs,
		Stats: dto.QueueStatsDTO{
			Total:      stats.Total,
			Pending:    stats.Pending,
			Processing: stats.Processing,
			Completed:  stats.Completed,
			Failed:     stats.Failed,
		},
	})
}

func toJobDTO(job queue.Job) dto.JobDTO {
	return dto.JobDTO{
		ID:           job.ID,
		SubmissionID: job.SubmissionID,
		Section:      string(job.Section),
		Status:       job.Status,
		Result:       job.Result,
		Error:        job.Error,
		CreatedAt:    job.CreatedAt,
		ProcessedAt:  job.ProcessedAt,
	}
}
