package submission

import (
	"time"

	"github.com/lib/pq"
)

// Submission is a CV intake record filled in by a customer. Experience,
// education and languages are stored as JSON text the way the intake form
// submits them; the generator interpolates them into prompts verbatim.
type Submission struct {
	ID         string         `db:"id" json:"id"`
	FullName   string         `db:"full_name" json:"fullName"`
	Email      string         `db:"email" json:"email"`
	Phone      string         `db:"phone" json:"phone"`
	City       string         `db:"city" json:"city"`
	LinkedIn   string         `db:"linkedin" json:"linkedin"`
	Experience string         `db:"experience" json:"experience"`
	Education  string         `db:"education" json:"education"`
	HardSkills pq.StringArray `db:"hard_skills" json:"hardSkills"`
	SoftSkills pq.StringArray `db:"soft_skills" json:"softSkills"`
	Languages  string         `db:"languages" json:"languages"`
	Status     string         `db:"status" json:"status"`
	CreatedAt  time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updatedAt"`
}
