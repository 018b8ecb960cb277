package queue

import "time"

// Job status constants
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Section identifies which part of the CV a generation job targets.
type Section string

const (
	SectionResumen     Section = "resumen"
	SectionExperiencia Section = "experiencia"
	SectionEducacion   Section = "educacion"
	SectionHabilidades Section = "habilidades"
	SectionAll         Section = "all"
)

// ParseSection maps a raw string to a known Section. Unknown values fall
// back to SectionAll; the second return value tells the caller whether the
// input was recognized so the fallback can be logged.
func ParseSection(s string) (Section, bool) {
	switch Section(s) {
	case SectionResumen, SectionExperiencia, SectionEducacion, SectionHabilidades, SectionAll:
		return Section(s), true
	case "":
		return SectionAll, true
	default:
		return SectionAll, false
	}
}

// Job represents a single AI content generation request
type Job struct {
	ID           string     `json:"id"`
	SubmissionID string     `json:"submissionId"`
	Section      Section    `json:"section"`
	Status       string     `json:"status"`
	Result       *string    `json:"result"`
	Error        *string    `json:"error"`
	CreatedAt    time.Time  `json:"createdAt"`
	ProcessedAt  *time.Time `json:"processedAt"`
}

// Terminal reports whether the job has reached a final state.
func (j *Job) Terminal() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed
}

// Stats holds aggregate job counts by status.
type Stats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
}
