package company

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

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
	Name      string
	ManagedBy string
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*domain.Company, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate company ID: %w", err)
	}

	c := &domain.Company{
		CompanyID:  id.String(),
		Name:       req.Name,
		ManagedBy:  req.ManagedBy,
		CreateTime: time.Now(),
	}
	c.UpdateTime = c.CreateTime

	const stmt = `
INSERT INTO companies (company_id, name, managed_by, create_time, update_time)
VALUES ($1, $2, $3, $4, $5);`

	if _, err := s.db.Exec(ctx, stmt, c.CompanyID, c.Name, c.ManagedBy, c.CreateTime, c.UpdateTime); err != nil {
		return nil, fmt.Errorf("insert company: %w", err)
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, companyID string) (*domain.Company, error) {
	const stmt = `
SELECT company_id, name, managed_by, create_time, update_time
FROM companies WHERE company_id = $1;`

	var c domain.Company
	err := s.db.QueryRow(ctx, stmt, companyID).
		Scan(&c.CompanyID, &c.Name, &c.ManagedBy, &c.CreateTime, &c.UpdateTime)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, errors.New(errors.CodeNotFound,
			errors.WithMessagef("company not found: %s", companyID))
	}
	if err != nil {
		return nil, fmt.Errorf("query company: %w", err)
	}

	return &c, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Company, error) {
	const stmt = `
SELECT company_id, name, managed_by, create_time, update_time
FROM companies ORDER BY name;`

	rows, err := s.db.Query(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}

	return pgx.CollectRows(rows, func(r pgx.CollectableRow) (domain.Company, error) {
		var c domain.Company
		err := r.Scan(&c.CompanyID, &c.Name, &c.ManagedBy, &c.CreateTime, &c.UpdateTime)
		return c, err
	})
}

type UpdateRequest struct {
	CompanyID string
	Name      string
	ManagedBy string
}

func (s *Service) Update(ctx context.Context, req UpdateRequest) (*domain.Company, error) {
	c, err := s.Get(ctx, req.CompanyID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		c.Name = req.Name
	}
	if req.ManagedBy != "" {
		c.ManagedBy = req.ManagedBy
	}
	c.UpdateTime = time.Now()

	const stmt = `
UPDATE companies SET name = $2, managed_by = $3, update_time = $4
WHERE company_id = $1;`

	if _, err := s.db.Exec(ctx, stmt, c.CompanyID, c.Name, c.ManagedBy, c.UpdateTime); err != nil {
		return nil, fmt.Errorf("update company: %w", err)
	}

	return c, nil
}

func (s *Service) Delete(ctx context.Context, companyID string) error {
	const stmt = `DELETE FROM companies WHERE company_id = $1;`

	ct, err := s.db.Exec(ctx, stmt, companyID)
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return errors.New(errors.CodeNotFound,
			errors.WithMessagef("company not found: %s", companyID))
	}

	return nil
}
