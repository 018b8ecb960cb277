package submission

// Review status constants for CV submissions
const (
	StatusPending   = "PENDING"
	StatusInReview  = "IN_REVIEW"
	StatusCompleted = "COMPLETED"
	StatusDelivered = "DELIVERED"
)

// ValidStatus reports whether s is an allowed review status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInReview, StatusCompleted, StatusDelivered:
		return true
	}
	return false
}
