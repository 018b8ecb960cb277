package handler

import (
	"log/slog"
	"time"

	"github.com/cvlab-ar/cvgen-service/internal/generator"
	"github.com/cvlab-ar/cvgen-service/internal/queue"
	"github.com/cvlab-ar/cvgen-service/internal/submission"
	"github.com/cvlab-ar/cvgen-service/shared/postgresql"
)

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger               *slog.Logger
	Queue                *queue.Manager
	Submissions          submission.Store
	Generator            *generator.Client
	DB                   *postgresql.Client
	EstimatedWaitPerSlot time.Duration
}

// AIQueueHandler handles the admin AI generation queue endpoints
type AIQueueHandler struct {
	logger               *slog.Logger
	queue                *queue.Manager
	submissions          submission.Store
	generator            *generator.Client
	estimatedWaitPerSlot time.Duration
}

// NewAIQueueHandler creates a new AIQueueHandler instance
func NewAIQueueHandler(deps *Dependencies) *AIQueueHandler {
	return &AIQueueHandler{
		logger:               deps.Logger,
		queue:                deps.Queue,
		submissions:          deps.Submissions,
		generator:            deps.Generator,
		estimatedWaitPerSlot: deps.EstimatedWaitPerSlot,
	}
}

// SubmissionHandler handles the admin CV submission endpoints
type SubmissionHandler struct {
	logger      *slog.Logger
	submissions submission.Store
}

// NewSubmissionHandler creates a new SubmissionHandler instance
func NewSubmissionHandler(deps *Dependencies) *SubmissionHandler {
	return &SubmissionHandler{
		logger:      deps.Logger,
		submissions: deps.Submissions,
	}
}
