package submission

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrSubmissionNotFound is returned when a submission id has no record
var ErrSubmissionNotFound = errors.New("submission not found")

// Store is the read/update surface over persisted CV submissions.
type Store interface {
	GetByID(ctx context.Context, id string) (*Submission, error)
	List(ctx context.Context, filter Filter) ([]Submission, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// Filter narrows and paginates submission listings.
type Filter struct {
	Status   string
	PageSize int
	Cursor   *Cursor
}

// Cursor marks a position in the created_at/id ordering for pagination.
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

// PostgresStore implements Store over PostgreSQL.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a submission store backed by the given database.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetByID(ctx context.Context, id string) (*Submission, error) {
	query := `
		SELECT
			id, full_name, email, phone, city, linkedin,
			experience, education, hard_skills, soft_skills, languages,
			status, created_at, updated_at
		FROM cv_submissions
		WHERE id = $1
	`

	var sub Submission
	if err := s.db.GetContext(ctx, &sub, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	return &sub, nil
}

func (s *PostgresStore) List(ctx context.Context, filter Filter) ([]Submission, error) {
	query := `
		SELECT
			id, full_name, email, phone, city, linkedin,
			experience, education, hard_skills, soft_skills, languages,
			status, created_at, updated_at
		FROM cv_submissions
		WHERE 1=1
	`
	args := []interface{}{}
	argIdx := 1

	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}

	if filter.Cursor != nil {
		query += fmt.Sprintf(" AND (created_at, id) < ($%d, $%d)", argIdx, argIdx+1)
		args = append(args, filter.Cursor.CreatedAt, filter.Cursor.ID)
		argIdx += 2
	}

	query += " ORDER BY created_at DESC, id DESC"

	// Fetch one extra to determine if there are more results
	query += fmt.Sprintf(" LIMIT $%d", argIdx)
	args = append(args, filter.PageSize+1)

	var subs []Submission
	if err := s.db.SelectContext(ctx, &subs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	return subs, nil
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id, status string) error {
	query := `
		UPDATE cv_submissions
		SET status = $1,
		    updated_at = NOW()
		WHERE id = $2
	`

	result, err := s.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update submission status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrSubmissionNotFound
	}

	return nil
}
