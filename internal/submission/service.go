package submission

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/codeclash/codeclash/internal/domain"
	"github.com/codeclash/codeclash/internal/errors"
)

type Config struct {
	DB *pgxpool.Pool
}

type Service struct {
	db *pgxpool.Pool
}

func NewService(c Config) *Service {
	return &Service{db: c.DB}
}

type CreateRequest struct {
	UserID    string
	ProblemID string
	Result    string
	Language  string
	Code      string
}

// Create records a practice submission. Submissions are append-only.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*domain.Submission, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate submission ID: %w", err)
	}

	sub := &domain.Submission{
		SubmissionID: id.String(),
		UserID:       req.UserID,
		ProblemID:    req.ProblemID,
		Result:       req.Result,
		Language:     req.Language,
		Code:         req.Code,
		SubmitTime:   time.Now(),
	}

	const stmt = `
INSERT INTO submissions (submission_id, user_id, problem_id, result, language, code, submit_time)
VALUES ($1, $2, $3, $4, $5, $6, $7);`

	_, err = s.db.Exec(ctx, stmt,
		sub.SubmissionID, sub.UserID, sub.ProblemID, sub.Result, sub.Language, sub.Code, sub.SubmitTime)
	if err != nil {
		return nil, fmt.Errorf("insert submission: %w", err)
	}

	return sub, nil
}

func (s *Service) Get(ctx context.Context, submissionID string) (*domain.Submission, error) {
	const stmt = `
SELECT submission_id, user_id, problem_id, result, language, code, submit_time
FROM submissions WHERE submission_id = $1;`

	var sub domain.Submission
	err := s.db.QueryRow(ctx, stmt, submissionID).
		Scan(&sub.SubmissionID, &sub.UserID, &sub.ProblemID, &sub.Result, &sub.Language, &sub.Code, &sub.SubmitTime)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, errors.New(errors.CodeNotFound,
			errors.WithMessagef("submission not found: %s", submissionID))
	}
	if err != nil {
		return nil, fmt.Errorf("query submission: %w", err)
	}

	return &sub, nil
}

type ListRequest struct {
	UserID    string
	ProblemID string
}

// List returns submissions filtered by user and/or problem, newest first.
func (s *Service) List(ctx context.Context, req ListRequest) ([]domain.Submission, error) {
	const stmt = `
SELECT submission_id, user_id, problem_id, result, language, code, submit_time
FROM submissions
WHERE ($1 = '' OR user_id = $1) AND ($2 = '' OR problem_id = $2)
ORDER BY submit_time DESC;`

	rows, err := s.db.Query(ctx, stmt, req.UserID, req.ProblemID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}

	return pgx.CollectRows(rows, func(r pgx.CollectableRow) (domain.Submission, error) {
		var sub domain.Submission
		err := r.Scan(&sub.SubmissionID, &sub.UserID, &sub.ProblemID, &sub.Result, &sub.Language, &sub.Code, &sub.SubmitTime)
		return sub, err
	})
}

// Stats aggregates a user's practice record.
func (s *Service) Stats(ctx context.Context, userID string) (*domain.SubmissionStats, error) {
	const stmt = `
SELECT COUNT(*), COUNT(*) FILTER (WHERE result = 'accepted')
FROM submissions WHERE user_id = $1;`

	st := &domain.SubmissionStats{UserID: userID}
	if err := s.db.QueryRow(ctx, stmt, userID).Scan(&st.Total, &st.Accepted); err != nil {
		return nil, fmt.Errorf("query submission stats: %w", err)
	}

	if st.Total > 0 {
		st.AcceptanceRate = decimal.NewFromInt(st.Accepted).
			Div(decimal.NewFromInt(st.Total)).
			Round(4)
	}

	return st, nil
}

type UpdateRequest struct {
	SubmissionID string
	Result       string
	Language     string
	Code         string
}

// Update amends a recorded submission. Empty fields keep their stored value.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*domain.Submission, error) {
	sub, err := s.Get(ctx, req.SubmissionID)
	if err != nil {
		return nil, err
	}

	if req.Result != "" {
		sub.Result = req.Result
	}
	if req.Language != "" {
		sub.Language = req.Language
	}
	if req.Code != "" {
		sub.Code = req.Code
	}

	const stmt = `
UPDATE submissions SET result = $2, language = $3, code = $4
WHERE submission_id = $1;`

	_, err = s.db.Exec(ctx, stmt, sub.SubmissionID, sub.Result, sub.Language, sub.Code)
	if err != nil {
		return nil, fmt.Errorf("update submission: %w", err)
	}

	return sub, nil
}

func (s *Service) Delete(ctx context.Context, submissionID string) error {
	const stmt = `DELETE FROM submissions WHERE submission_id = $1;`

	ct, err := s.db.Exec(ctx, stmt, submissionID)
	if err != nil {
		return fmt.Errorf("delete submission: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return errors.New(errors.CodeNotFound,
			errors.WithMessagef("submission not found: %s", submissionID))
	}

	return nil
}
