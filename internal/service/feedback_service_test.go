package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svec-cse/efacilities-api/internal/models"
	appErrors "github.com/svec-cse/efacilities-api/pkg/errors"
)

type mockFeedbackRepo struct {
	rows       map[string]models.FeedbackSubmission
	countErr   error
	insertErr  error
	lastFilter models.SubmissionFilter
	listErr    error
}

func (m *mockFeedbackRepo) Insert(_ context.Context, fb *models.FeedbackSubmission) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	if m.rows == nil {
		m.rows = make(map[string]models.FeedbackSubmission)
	}
	if _, ok := m.rows[fb.Roll]; ok {
		return appErrors.Clone(appErrors.ErrDuplicateKey, "")
	}
	m.rows[fb.Roll] = *fb
	return nil
}

func (m *mockFeedbackRepo) CountByRoll(_ context.Context, roll string) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	if _, ok := m.rows[roll]; ok {
		return 1, nil
	}
	return 0, nil
}

func (m *mockFeedbackRepo) FindByRoll(_ context.Context, roll string) (*models.FeedbackSubmission, error) {
	if fb, ok := m.rows[roll]; ok {
		return &fb, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockFeedbackRepo) List(_ context.Context, filter models.SubmissionFilter) ([]models.FeedbackSubmission, error) {
	m.lastFilter = filter
	if m.listErr != nil {
		return nil, m.listErr
	}
	rows := make([]models.FeedbackSubmission, 0, len(m.rows))
	for _, fb := range m.rows {
		rows = append(rows, fb)
	}
	return rows, nil
}

func ratingPtr(v int16) *int16 { return &v }

func validSubmission(roll string) SubmitFeedbackRequest {
	return SubmitFeedbackRequest{
		Roll:         roll,
		Name:         "Test Student",
		Branch:       "CSE",
		AcademicYear: "2024-2025",
		Q1:           ratingPtr(4),
		Q2:           ratingPtr(5),
		Q15:          "more benches in the stadium",
	}
}

func TestFeedbackServiceSubmit(t *testing.T) {
	repo := &mockFeedbackRepo{}
	svc := NewFeedbackService(repo, nil, nil, nil, 100)

	require.NoError(t, svc.Submit(context.Background(), validSubmission("24A81A0501")))

	fb, ok := repo.rows["24A81A0501"]
	require.True(t, ok)
	assert.Equal(t, "CSE", fb.Branch)
	assert.Equal(t, int16(4), *fb.Q1)
	assert.Equal(t, "more benches in the stadium", fb.Q15)
	assert.Nil(t, fb.Q3)
}

func TestFeedbackServiceSubmitMissingRoll(t *testing.T) {
	svc := NewFeedbackService(&mockFeedbackRepo{}, nil, nil, nil, 100)

	err := svc.Submit(context.Background(), SubmitFeedbackRequest{})
	assert.True(t, appErrors.Is(err, appErrors.ErrMissingRoll))
}

func TestFeedbackServiceSubmitBadRollFormat(t *testing.T) {
	repo := &mockFeedbackRepo{}
	svc := NewFeedbackService(repo, nil, nil, nil, 100)

	for _, roll := range []string{"24B81A0501", "24A81A050", "24A81A05012", "ABCDEFGHIJ"} {
		err := svc.Submit(context.Background(), validSubmission(roll))
		assert.True(t, appErrors.Is(err, appErrors.ErrValidation), "roll %q", roll)
	}
	assert.Empty(t, repo.rows)

	// Case-insensitive match, like the intake form produces.
	assert.NoError(t, svc.Submit(context.Background(), validSubmission("24a81a0501")))
}

func TestFeedbackServiceSubmitDuplicate(t *testing.T) {
	repo := &mockFeedbackRepo{}
	svc := NewFeedbackService(repo, nil, nil, nil, 100)

	require.NoError(t, svc.Submit(context.Background(), validSubmission("24A81A0501")))
	err := svc.Submit(context.Background(), validSubmission("24A81A0501"))
	assert.True(t, appErrors.Is(err, appErrors.ErrAlreadySubmitted))
}

func TestFeedbackServiceSubmitPrecheckFailureFallsThrough(t *testing.T) {
	// When the existence pre-check errors the insert still happens and the
	// unique constraint decides.
	repo := &mockFeedbackRepo{countErr: errors.New("connection reset")}
	svc := NewFeedbackService(repo, nil, nil, nil, 100)

	require.NoError(t, svc.Submit(context.Background(), validSubmission("24A81A0501")))
	assert.Len(t, repo.rows, 1)

	err := svc.Submit(context.Background(), validSubmission("24A81A0501"))
	assert.True(t, appErrors.Is(err, appErrors.ErrAlreadySubmitted))
	assert.Len(t, repo.rows, 1)
}

func TestFeedbackServiceSubmitInsertFailure(t *testing.T) {
	repo := &mockFeedbackRepo{insertErr: errors.New("disk full")}
	svc := NewFeedbackService(repo, nil, nil, nil, 100)

	err := svc.Submit(context.Background(), validSubmission("24A81A0501"))
	assert.True(t, appErrors.Is(err, appErrors.ErrInsertFailed))
}

func TestFeedbackServiceGetByRoll(t *testing.T) {
	repo := &mockFeedbackRepo{}
	svc := NewFeedbackService(repo, nil, nil, nil, 100)
	require.NoError(t, svc.Submit(context.Background(), validSubmission("24A81A0501")))

	fb, err := svc.GetByRoll(context.Background(), "24A81A0501")
	require.NoError(t, err)
	assert.Equal(t, "24A81A0501", fb.Roll)

	_, err = svc.GetByRoll(context.Background(), "24A81A0599")
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestFeedbackServiceListCapsOnlyUnfiltered(t *testing.T) {
	repo := &mockFeedbackRepo{}
	svc := NewFeedbackService(repo, nil, nil, nil, 100)

	_, err := svc.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 100, repo.lastFilter.Limit)
	assert.Empty(t, repo.lastFilter.Branches)

	_, err = svc.List(context.Background(), []string{"CSE", "ECE"})
	require.NoError(t, err)
	assert.Zero(t, repo.lastFilter.Limit)
	assert.Equal(t, []string{"CSE", "ECE"}, repo.lastFilter.Branches)
}
