package service

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/svec-cse/efacilities-api/internal/models"
	appErrors "github.com/svec-cse/efacilities-api/pkg/errors"
)

type feedbackRepository interface {
	Insert(ctx context.Context, fb *models.FeedbackSubmission) error
	CountByRoll(ctx context.Context, roll string) (int, error)
	FindByRoll(ctx context.Context, roll string) (*models.FeedbackSubmission, error)
	List(ctx context.Context, filter models.SubmissionFilter) ([]models.FeedbackSubmission, error)
}

// rollPattern: two digits, the fixed institution code, one digit, one branch
// letter, four digits, e.g. 24A81A0501.
var rollPattern = regexp.MustCompile(`^(?i)\d{2}A8\d[A-Z]\d{4}$`)

// SubmitFeedbackRequest is the full survey payload.
type SubmitFeedbackRequest struct {
	Roll         string `json:"roll" validate:"required"`
	Name         string `json:"name"`
	Branch       string `json:"branch"`
	AcademicYear string `json:"accyear"`
	Contact      string `json:"contact"`
	Email        string `json:"email"`

	Q1  *int16 `json:"q1"`
	Q2  *int16 `json:"q2"`
	Q3  *int16 `json:"q3"`
	Q4  *int16 `json:"q4"`
	Q5  *int16 `json:"q5"`
	Q6  *int16 `json:"q6"`
	Q7  *int16 `json:"q7"`
	Q8  *int16 `json:"q8"`
	Q9  *int16 `json:"q9"`
	Q10 *int16 `json:"q10"`
	Q11 *int16 `json:"q11"`
	Q12 *int16 `json:"q12"`
	Q13 *int16 `json:"q13"`
	Q14 *int16 `json:"q14"`
	Q15 string `json:"q15"`
	Q16 *int16 `json:"q16"`
	Q17 *int16 `json:"q17"`
	Q18 *int16 `json:"q18"`
	Q19 *int16 `json:"q19"`
	Q20 *int16 `json:"q20"`
	Q21 *int16 `json:"q21"`
}

// FeedbackService admits at most one submission per roll number.
type FeedbackService struct {
	repo      feedbackRepository
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	listLimit int
	locks     keyedMutex
}

// NewFeedbackService constructs the feedback service.
func NewFeedbackService(repo feedbackRepository, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, listLimit int) *FeedbackService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if listLimit <= 0 {
		listLimit = 100
	}
	return &FeedbackService{repo: repo, validator: validate, metrics: metrics, logger: logger, listLimit: listLimit}
}

// Submit validates and stores one submission. The pre-insert existence check
// is a fast path only: when it errors the submission falls through to the
// insert, and the storage-level uniqueness constraint remains the
// authoritative guard against duplicate rolls.
func (s *FeedbackService) Submit(ctx context.Context, req SubmitFeedbackRequest) error {
	if req.Roll == "" {
		s.recordSubmission("missing_roll")
		return appErrors.Clone(appErrors.ErrMissingRoll, "")
	}
	if err := s.validator.Struct(req); err != nil {
		s.recordSubmission("invalid")
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid feedback payload")
	}
	if !rollPattern.MatchString(req.Roll) {
		s.recordSubmission("invalid")
		return appErrors.Clone(appErrors.ErrValidation, "invalid roll number format")
	}

	unlock := s.locks.lock(req.Roll)
	defer unlock()

	start := time.Now()
	count, err := s.repo.CountByRoll(ctx, req.Roll)
	if err != nil {
		// Pre-check is best effort: fall through and let the unique
		// constraint decide.
		s.logger.Warn("duplicate pre-check failed", zap.String("roll", req.Roll), zap.Error(err))
	} else {
		s.observeQuery("feedback_count_by_roll", start)
		if count > 0 {
			s.recordSubmission("already_submitted")
			return appErrors.Clone(appErrors.ErrAlreadySubmitted, "")
		}
	}

	fb := s.toSubmission(req)
	start = time.Now()
	if err := s.repo.Insert(ctx, fb); err != nil {
		if appErrors.Is(err, appErrors.ErrDuplicateKey) {
			s.recordSubmission("already_submitted")
			return appErrors.Clone(appErrors.ErrAlreadySubmitted, "")
		}
		s.recordSubmission("insert_failed")
		return appErrors.Wrap(err, appErrors.ErrInsertFailed.Code, appErrors.ErrInsertFailed.Status, appErrors.ErrInsertFailed.Message)
	}
	s.observeQuery("feedback_insert", start)

	s.recordSubmission("accepted")
	s.logger.Info("feedback stored", zap.String("roll", fb.Roll), zap.String("branch", fb.Branch))
	return nil
}

// GetByRoll fetches one submission.
func (s *FeedbackService) GetByRoll(ctx context.Context, roll string) (*models.FeedbackSubmission, error) {
	start := time.Now()
	fb, err := s.repo.FindByRoll(ctx, roll)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no feedback found for roll number "+roll)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load submission")
	}
	s.observeQuery("feedback_find_by_roll", start)
	return fb, nil
}

// List returns submissions ordered most recent roll first. The unfiltered
// listing is capped; a branch-filtered listing returns every match.
func (s *FeedbackService) List(ctx context.Context, branches []string) ([]models.FeedbackSubmission, error) {
	filter := models.SubmissionFilter{Branches: branches}
	if len(branches) == 0 {
		filter.Limit = s.listLimit
	}
	start := time.Now()
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list submissions")
	}
	s.observeQuery("feedback_list", start)
	return rows, nil
}

func (s *FeedbackService) recordSubmission(result string) {
	if s.metrics != nil {
		s.metrics.RecordSubmission(result)
	}
}

func (s *FeedbackService) observeQuery(label string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveDBQuery(label, time.Since(start))
	}
}

func (s *FeedbackService) toSubmission(req SubmitFeedbackRequest) *models.FeedbackSubmission {
	return &models.FeedbackSubmission{
		Roll:         req.Roll,
		Name:         req.Name,
		Branch:       req.Branch,
		AcademicYear: req.AcademicYear,
		Contact:      req.Contact,
		Email:        req.Email,
		Q1:           req.Q1,
		Q2:           req.Q2,
		Q3:           req.Q3,
		Q4:           req.Q4,
		Q5:           req.Q5,
		Q6:           req.Q6,
		Q7:           req.Q7,
		Q8:           req.Q8,
		Q9:           req.Q9,
		Q10:          req.Q10,
		Q11:          req.Q11,
		Q12:          req.Q12,
		Q13:          req.Q13,
		Q14:          req.Q14,
		Q15:          req.Q15,
		Q16:          req.Q16,
		Q17:          req.Q17,
		Q18:          req.Q18,
		Q19:          req.Q19,
		Q20:          req.Q20,
		Q21:          req.Q21,
	}
}
