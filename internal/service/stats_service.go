package service

import (
	"context"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/svec-cse/efacilities-api/internal/models"
	appErrors "github.com/svec-cse/efacilities-api/pkg/errors"
)

type statsRepository interface {
	FindAll(ctx context.Context, branches []string) ([]models.FeedbackSubmission, error)
}

// questionTexts labels the 21 survey slots. A missing label falls back to the
// raw column key.
var questionTexts = [models.QuestionCount]string{
	"Digital Library Facility",
	"The timings of the Library",
	"Services of the Library staff",
	"Coverage of buses to various routes",
	"The condition of the buses",
	"Maintenance of Canteen",
	"Quality of the food",
	"Maintenance of Labs",
	"Cooperation of Lab In-charges",
	"Internet facility",
	"Maintenance of Hostels",
	"Tidiness of Hostels",
	"Maintenance of Toilets",
	"Sports & Games facilities in the college",
	"Utility of indoor stadium",
	"College ambience",
	"Drinking water facility",
	"Power back up facility",
	"Department library",
	"Departmental store in the campus",
	"Banking facility in the college",
}

// StatsService computes per-question histograms and weighted averages over a
// filtered set of submissions. Results are derived fresh on every call.
type StatsService struct {
	repo    statsRepository
	metrics *MetricsService
	logger  *zap.Logger
}

// NewStatsService constructs the stats service.
func NewStatsService(repo statsRepository, metrics *MetricsService, logger *zap.Logger) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{repo: repo, metrics: metrics, logger: logger}
}

// Aggregate tallies all submissions matching the branch set. An empty branch
// set matches every row. The output always contains exactly 21 entries in
// question order; answers outside [1,5] are excluded from buckets, sum and
// the per-question response count alike.
func (s *StatsService) Aggregate(ctx context.Context, branches []string) (*models.StatsReport, error) {
	start := time.Now()
	rows, err := s.repo.FindAll(ctx, branches)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch submissions")
	}
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("feedback_find_all", time.Since(start))
	}

	totalUsers := len(rows)
	stats := make([]models.StatEntry, 0, models.QuestionCount)

	for q := 1; q <= models.QuestionCount; q++ {
		entry := models.StatEntry{
			QNo:        q,
			Question:   questionLabel(q),
			TotalUsers: totalUsers,
		}

		if q == models.SuggestionSlot {
			// Free-text slot: never aggregated numerically. The count of
			// non-empty suggestions is not part of the response.
			suggestions := 0
			for i := range rows {
				if strings.TrimSpace(rows[i].Q15) != "" {
					suggestions++
				}
			}
			s.logger.Debug("suggestions tallied", zap.Int("count", suggestions))
			stats = append(stats, entry)
			continue
		}

		var counts [5]int
		sum := 0
		for i := range rows {
			v := rows[i].Rating(q)
			if v == nil || *v < 1 || *v > 5 {
				continue
			}
			counts[*v-1]++
			sum += int(*v)
		}

		entry.Poor = counts[0]
		entry.Average = counts[1]
		entry.AboveAverage = counts[2]
		entry.Good = counts[3]
		entry.Excellent = counts[4]

		totalResponses := counts[0] + counts[1] + counts[2] + counts[3] + counts[4]
		if totalResponses > 0 {
			avg := math.Round(float64(sum)/float64(totalResponses)*10) / 10
			entry.WeightedAvg = &avg
		}

		stats = append(stats, entry)
	}

	return &models.StatsReport{TotalUsers: totalUsers, Stats: stats}, nil
}

func questionLabel(q int) string {
	if q >= 1 && q <= models.QuestionCount && questionTexts[q-1] != "" {
		return questionTexts[q-1]
	}
	return models.QuestionKey(q)
}
