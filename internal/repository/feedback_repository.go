package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/svec-cse/efacilities-api/internal/models"
	appErrors "github.com/svec-cse/efacilities-api/pkg/errors"
)

const submissionColumns = `roll, name, branch, accyear, contact, email,
        q1, q2, q3, q4, q5, q6, q7, q8, q9, q10,
        q11, q12, q13, q14, q15, q16, q17, q18, q19, q20, q21`

// FeedbackRepository manages persistence for survey submissions. The
// efacilities table enforces roll uniqueness; the repository surfaces a
// duplicate-key violation as a typed error so callers can classify it.
type FeedbackRepository struct {
	db *sqlx.DB
}

// NewFeedbackRepository constructs a FeedbackRepository.
func NewFeedbackRepository(db *sqlx.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Insert stores a new submission. A unique violation on roll is returned as
// ErrDuplicateKey regardless of any pre-check the caller performed.
func (r *FeedbackRepository) Insert(ctx context.Context, fb *models.FeedbackSubmission) error {
	const query = `INSERT INTO efacilities (` + submissionColumns + `)
        VALUES (:roll, :name, :branch, :accyear, :contact, :email,
        :q1, :q2, :q3, :q4, :q5, :q6, :q7, :q8, :q9, :q10,
        :q11, :q12, :q13, :q14, :q15, :q16, :q17, :q18, :q19, :q20, :q21)`
	if _, err := r.db.NamedExecContext(ctx, query, fb); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return appErrors.Wrap(err, appErrors.ErrDuplicateKey.Code, appErrors.ErrDuplicateKey.Status, "roll already exists")
		}
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// CountByRoll returns the number of stored submissions for a roll number.
func (r *FeedbackRepository) CountByRoll(ctx context.Context, roll string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM efacilities WHERE roll = $1", roll); err != nil {
		return 0, fmt.Errorf("count submissions for roll: %w", err)
	}
	return count, nil
}

// FindByRoll fetches a single submission. sql.ErrNoRows passes through when
// the roll has not submitted.
func (r *FeedbackRepository) FindByRoll(ctx context.Context, roll string) (*models.FeedbackSubmission, error) {
	query := fmt.Sprintf("SELECT %s FROM efacilities WHERE roll = $1", submissionColumns)
	var fb models.FeedbackSubmission
	if err := r.db.GetContext(ctx, &fb, query, roll); err != nil {
		return nil, err
	}
	return &fb, nil
}

// List returns submissions ordered most recent roll first. The limit applies
// only when positive; branch filtering uses an IN clause.
func (r *FeedbackRepository) List(ctx context.Context, filter models.SubmissionFilter) ([]models.FeedbackSubmission, error) {
	query := fmt.Sprintf("SELECT %s FROM efacilities", submissionColumns)
	args := []interface{}{}

	if len(filter.Branches) > 0 {
		in, inArgs, err := sqlx.In(" WHERE branch IN (?)", filter.Branches)
		if err != nil {
			return nil, fmt.Errorf("build branch filter: %w", err)
		}
		query += in
		args = inArgs
	}

	query += " ORDER BY roll DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	query = r.db.Rebind(query)
	var rows []models.FeedbackSubmission
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return rows, nil
}

// FindAll returns every submission matching the branch set, unordered and
// uncapped, for aggregation.
func (r *FeedbackRepository) FindAll(ctx context.Context, branches []string) ([]models.FeedbackSubmission, error) {
	query := fmt.Sprintf("SELECT %s FROM efacilities", submissionColumns)
	args := []interface{}{}

	if len(branches) > 0 {
		in, inArgs, err := sqlx.In(" WHERE branch IN (?)", branches)
		if err != nil {
			return nil, fmt.Errorf("build branch filter: %w", err)
		}
		query += in
		args = inArgs
	}

	query = r.db.Rebind(query)
	var rows []models.FeedbackSubmission
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("fetch submissions: %w", err)
	}
	return rows, nil
}
