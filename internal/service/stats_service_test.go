package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svec-cse/efacilities-api/internal/models"
	appErrors "github.com/svec-cse/efacilities-api/pkg/errors"
)

type mockStatsRepo struct {
	rows         []models.FeedbackSubmission
	lastBranches []string
	err          error
}

func (m *mockStatsRepo) FindAll(_ context.Context, branches []string) ([]models.FeedbackSubmission, error) {
	m.lastBranches = branches
	if m.err != nil {
		return nil, m.err
	}
	return m.rows, nil
}

func submissionWithQ1(branch string, q1 *int16) models.FeedbackSubmission {
	return models.FeedbackSubmission{Branch: branch, Q1: q1}
}

func TestStatsServiceAggregateShape(t *testing.T) {
	svc := NewStatsService(&mockStatsRepo{}, nil, nil)

	report, err := svc.Aggregate(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, report.Stats, 21)
	assert.Zero(t, report.TotalUsers)
	for i, entry := range report.Stats {
		assert.Equal(t, i+1, entry.QNo)
		assert.NotEmpty(t, entry.Question)
		assert.Nil(t, entry.WeightedAvg)
	}
}

func TestStatsServiceAggregateCounts(t *testing.T) {
	five := int16(5)
	four := int16(4)
	three := int16(3)
	repo := &mockStatsRepo{rows: []models.FeedbackSubmission{
		submissionWithQ1("CSE", &five),
		submissionWithQ1("CSE", &four),
		submissionWithQ1("CSE", &four),
		submissionWithQ1("CSE", &three),
	}}
	svc := NewStatsService(repo, nil, nil)

	report, err := svc.Aggregate(context.Background(), nil)
	require.NoError(t, err)

	q1 := report.Stats[0]
	assert.Zero(t, q1.Poor)
	assert.Zero(t, q1.Average)
	assert.Equal(t, 1, q1.AboveAverage)
	assert.Equal(t, 2, q1.Good)
	assert.Equal(t, 1, q1.Excellent)
	// (5+4+4+3)/4 = 4.0
	require.NotNil(t, q1.WeightedAvg)
	assert.Equal(t, 4.0, *q1.WeightedAvg)
	assert.Equal(t, 4, q1.TotalUsers)
	assert.Equal(t, 4, report.TotalUsers)
}

func TestStatsServiceAggregateRounding(t *testing.T) {
	five := int16(5)
	four := int16(4)
	repo := &mockStatsRepo{rows: []models.FeedbackSubmission{
		submissionWithQ1("CSE", &five),
		submissionWithQ1("CSE", &four),
		submissionWithQ1("CSE", &four),
	}}
	svc := NewStatsService(repo, nil, nil)

	report, err := svc.Aggregate(context.Background(), nil)
	require.NoError(t, err)

	// 13/3 = 4.333... rounds to one decimal.
	require.NotNil(t, report.Stats[0].WeightedAvg)
	assert.Equal(t, 4.3, *report.Stats[0].WeightedAvg)
}

func TestStatsServiceAggregateSkipsInvalidRatings(t *testing.T) {
	zero := int16(0)
	six := int16(6)
	negative := int16(-2)
	five := int16(5)
	repo := &mockStatsRepo{rows: []models.FeedbackSubmission{
		submissionWithQ1("CSE", &zero),
		submissionWithQ1("CSE", &six),
		submissionWithQ1("CSE", &negative),
		submissionWithQ1("CSE", nil),
		submissionWithQ1("CSE", &five),
	}}
	svc := NewStatsService(repo, nil, nil)

	report, err := svc.Aggregate(context.Background(), nil)
	require.NoError(t, err)

	q1 := report.Stats[0]
	// Only the single valid rating lands in a bucket or the average.
	assert.Equal(t, 1, q1.Excellent)
	assert.Zero(t, q1.Poor+q1.Average+q1.AboveAverage+q1.Good)
	require.NotNil(t, q1.WeightedAvg)
	assert.Equal(t, 5.0, *q1.WeightedAvg)
	// All five rows still count as participants.
	assert.Equal(t, 5, q1.TotalUsers)
}

func TestStatsServiceAggregateSuggestionSlot(t *testing.T) {
	repo := &mockStatsRepo{rows: []models.FeedbackSubmission{
		{Branch: "CSE", Q15: "more water coolers"},
		{Branch: "CSE", Q15: "   "},
		{Branch: "CSE"},
	}}
	svc := NewStatsService(repo, nil, nil)

	report, err := svc.Aggregate(context.Background(), nil)
	require.NoError(t, err)

	q15 := report.Stats[14]
	assert.Equal(t, 15, q15.QNo)
	assert.Zero(t, q15.Poor+q15.Average+q15.AboveAverage+q15.Good+q15.Excellent)
	assert.Nil(t, q15.WeightedAvg)
	assert.Equal(t, 3, q15.TotalUsers)
}

func TestStatsServiceAggregatePassesBranchFilter(t *testing.T) {
	repo := &mockStatsRepo{}
	svc := NewStatsService(repo, nil, nil)

	_, err := svc.Aggregate(context.Background(), []string{"CSE", "ECE"})
	require.NoError(t, err)
	assert.Equal(t, []string{"CSE", "ECE"}, repo.lastBranches)
}

func TestStatsServiceAggregateRepoFailure(t *testing.T) {
	repo := &mockStatsRepo{err: errors.New("timeout")}
	svc := NewStatsService(repo, nil, nil)

	_, err := svc.Aggregate(context.Background(), nil)
	assert.True(t, appErrors.Is(err, appErrors.ErrInternal))
}
