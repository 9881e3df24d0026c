package problem

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codeclash/codeclash/internal/domain"
	"github.com/codeclash/codeclash/internal/errors"
)

const codeUniqueViolation = "23505"

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
	Title       string
	Slug        string
	Difficulty  domain.Difficulty
	Topic       string
	Tags        []string
	Description string
	Function    domain.FunctionSignature
	Constraints []string
	Examples    []domain.Example
	TestCases   []domain.TestCase
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*domain.Problem, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate problem ID: %w", err)
	}

	p := &domain.Problem{
		ProblemID:   id.String(),
		Title:       req.Title,
		Slug:        req.Slug,
		Difficulty:  req.Difficulty,
		Topic:       req.Topic,
		Tags:        req.Tags,
		Description: req.Description,
		Function:    req.Function,
		Constraints: req.Constraints,
		Examples:    req.Examples,
		TestCases:   req.TestCases,
		CreateTime:  time.Now(),
	}
	p.UpdateTime = p.CreateTime

	// function, examples and test_cases are JSONB columns.
	const stmt = `
INSERT INTO problems (problem_id, title, slug, difficulty, topic, tags, description,
                      function, constraints, examples, test_cases, create_time, update_time)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);`

	_, err = s.db.Exec(ctx, stmt,
		p.ProblemID, p.Title, p.Slug, p.Difficulty, p.Topic, p.Tags, p.Description,
		p.Function, p.Constraints, p.Examples, p.TestCases, p.CreateTime, p.UpdateTime)

	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation {
		return nil, errors.New(errors.CodeAlreadyExists,
			errors.WithMessagef("problem slug already exists: %s", req.Slug),
			errors.WithCause(err))
	}
	if err != nil {
		return nil, fmt.Errorf("insert problem: %w", err)
	}

	return p, nil
}

func (s *Service) Get(ctx context.Context, problemID string) (*domain.Problem, error) {
	const stmt = `
SELECT problem_id, title, slug, difficulty, topic, tags, description,
       function, constraints, examples, test_cases, create_time, update_time
FROM problems WHERE problem_id = $1;`

	var p domain.Problem
	err := s.db.QueryRow(ctx, stmt, problemID).
		Scan(&p.ProblemID, &p.Title, &p.Slug, &p.Difficulty, &p.Topic, &p.Tags, &p.Description,
			&p.Function, &p.Constraints, &p.Examples, &p.TestCases, &p.CreateTime, &p.UpdateTime)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, errors.New(errors.CodeNotFound,
			errors.WithMessagef("problem not found: %s", problemID))
	}
	if err != nil {
		return nil, fmt.Errorf("query problem: %w", err)
	}

	return &p, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Problem, error) {
	const stmt = `
SELECT problem_id, title, slug, difficulty, topic, tags, description,
       function, constraints, examples, test_cases, create_time, update_time
FROM problems ORDER BY create_time;`

	rows, err := s.db.Query(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("list problems: %w", err)
	}

	return pgx.CollectRows(rows, func(r pgx.CollectableRow) (domain.Problem, error) {
		var p domain.Problem
		err := r.Scan(&p.ProblemID, &p.Title, &p.Slug, &p.Difficulty, &p.Topic, &p.Tags, &p.Description,
			&p.Function, &p.Constraints, &p.Examples, &p.TestCases, &p.CreateTime, &p.UpdateTime)
		return p, err
	})
}

// ListProblemIDs returns the IDs of every published problem. The match
// engine binds new battle rooms to one of these.
func (s *Service) ListProblemIDs(ctx context.Context) ([]string, error) {
	const stmt = `SELECT problem_id FROM problems;`

	rows, err := s.db.Query(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("list problem IDs: %w", err)
	}

	return pgx.CollectRows(rows, func(r pgx.CollectableRow) (string, error) {
		var id string
		err := r.Scan(&id)
		return id, err
	})
}

type UpdateRequest struct {
	ProblemID   string
	Title       string
	Difficulty  domain.Difficulty
	Topic       string
	Tags        []string
	Description string
	Function    *domain.FunctionSignature
	Constraints []string
	Examples    []domain.Example
	TestCases   []domain.TestCase
}

func (s *Service) Update(ctx context.Context, req UpdateRequest) (*domain.Problem, error) {
	p, err := s.Get(ctx, req.ProblemID)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		p.Title = req.Title
	}
	if req.Difficulty != "" {
		p.Difficulty = req.Difficulty
	}
	if req.Topic != "" {
		p.Topic = req.Topic
	}
	if req.Tags != nil {
		p.Tags = req.Tags
	}
	if req.Description != "" {
		p.Description = req.Description
	}
	if req.Function != nil {
		p.Function = *req.Function
	}
	if req.Constraints != nil {
		p.Constraints = req.Constraints
	}
	if req.Examples != nil {
		p.Examples = req.Examples
	}
	if req.TestCases != nil {
		p.TestCases = req.TestCases
	}
	p.UpdateTime = time.Now()

	const stmt = `
UPDATE problems SET title = $2, difficulty = $3, topic = $4, tags = $5, description = $6,
                    function = $7, constraints = $8, examples = $9, test_cases = $10, update_time = $11
WHERE problem_id = $1;`

	_, err = s.db.Exec(ctx, stmt,
		p.ProblemID, p.Title, p.Difficulty, p.Topic, p.Tags, p.Description,
		p.Function, p.Constraints, p.Examples, p.TestCases, p.UpdateTime)
	if err != nil {
		return nil, fmt.Errorf("update problem: %w", err)
	}

	return p, nil
}

func (s *Service) Delete(ctx context.Context, problemID string) error {
	const stmt = `DELETE FROM problems WHERE problem_id = $1;`

	ct, err := s.db.Exec(ctx, stmt, problemID)
	if err != nil {
		return fmt.Errorf("delete problem: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return errors.New(errors.CodeNotFound,
			errors.WithMessagef("problem not found: %s", problemID))
	}

	return nil
}
