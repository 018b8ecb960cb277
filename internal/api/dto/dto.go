package dto

import "time"

// EnqueueAIJobRequest is the optional body of the enqueue endpoint.
// An empty body requests the full-document section.
type EnqueueAIJobRequest struct {
	Section string `json:"section"`
}

type EnqueueAIJobResponse struct {
	Success bool   `json:"success"`
	JobID   string `json:"jobId"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type JobDTO struct {
	ID           string     `json:"id"`
	SubmissionID string     `json:"submissionId"`
	Section      string     `json:"section"`
	Status       string     `json:"status"`
	Result       *string    `json:"result"`
	Error        *string    `json:"error"`
	CreatedAt    time.Time  `json:"createdAt"`
	ProcessedAt  *time.Time `json:"processedAt"`
}

// QueueInfoDTO carries the derived position data polled by the admin UI.
// EstimatedWaitMinutes is a heuristic (position times the configured
// per-slot wait), not a measured average.
type QueueInfoDTO struct {
	Position             int `json:"position"`
	PendingCount         int `json:"pendingCount"`
	EstimatedWaitMinutes int `json:"estimatedWaitMinutes"`
}

type JobStatusResponse struct {
	Success bool         `json:"success"`
	Job     JobDTO       `json:"job"`
	Queue   QueueInfoDTO `json:"queue"`
}

type QueueStatsDTO struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
}

type ListQueueResponse struct {
	Success bool          `json:"success"`
	Queue   []JobDTO      `json:"queue"`
	Stats   QueueStatsDTO `json:"stats"`
}

type ListSubmissionsRequest struct {
	Status   string `form:"status"`
	PageSize int    `form:"page_size"`
	Cursor   string `form:"cursor"`
}

type SubmissionDTO struct {
	ID         string   `json:"id"`
	FullName   string   `json:"fullName"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	City       string   `json:"city"`
	LinkedIn   string   `json:"linkedin"`
	Experience string   `json:"experience"`
	Education  string   `json:"education"`
	HardSkills []string `json:"hardSkills"`
	SoftSkills []string `json:"softSkills"`
	Languages  string   `json:"languages"`
	Status     string   `json:"status"`
	CreatedAt  string   `json:"createdAt"`
	UpdatedAt  string   `json:"updatedAt"`
}

type ListSubmissionsResponse struct {
	Success     bool            `json:"success"`
	Submissions []SubmissionDTO `json:"submissions"`
	NextCursor  string          `json:"nextCursor,omitempty"`
}

type UpdateSubmissionStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
