package service

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	m.RecordOTPIssued()
	m.RecordOTPVerification("verified")
	m.RecordSubmission("accepted")
	m.ObserveDBQuery("noop", 0)
	assert.NotNil(t, m.Handler())
}

func TestDBQueryHistogramObservedByAggregate(t *testing.T) {
	m := NewMetricsService()
	svc := NewStatsService(&mockStatsRepo{}, m, nil)

	_, err := svc.Aggregate(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, testutil.CollectAndCount(m.dbQueryDuration))
}

func TestDBQueryHistogramObservedBySubmit(t *testing.T) {
	m := NewMetricsService()
	svc := NewFeedbackService(&mockFeedbackRepo{}, nil, m, nil, 100)

	require.NoError(t, svc.Submit(context.Background(), validSubmission("24A81A0501")))

	// One series per query label: the duplicate pre-check and the insert.
	assert.Equal(t, 2, testutil.CollectAndCount(m.dbQueryDuration))

	_, err := svc.GetByRoll(context.Background(), "24A81A0501")
	require.NoError(t, err)
	assert.Equal(t, 3, testutil.CollectAndCount(m.dbQueryDuration))
}
