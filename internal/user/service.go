package user

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/codeclash/codeclash/internal/auth"
	"github.com/codeclash/codeclash/internal/domain"
	"github.com/codeclash/codeclash/internal/errors"
)

const bcryptCost = 10

const codeUniqueViolation = "23505"

type Config struct {
	DB   *pgxpool.Pool
	Auth *auth.Manager
}

type Service struct {
	db   *pgxpool.Pool
	auth *auth.Manager
}

func NewService(c Config) *Service {
	return &Service{
		db:   c.DB,
		auth: c.Auth,
	}
}

type RegisterRequest struct {
	Username string
	Email    string
	Password string
}

// Register creates a new user with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	u := &domain.User{
		UserID:       id.String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		CreateTime:   time.Now(),
	}
	u.UpdateTime = u.CreateTime

	const stmt = `
INSERT INTO users (user_id, username, email, password_hash, is_admin, create_time, update_time)
VALUES ($1, $2, $3, $4, $5, $6, $7);`

	_, err = s.db.Exec(ctx, stmt, u.UserID, u.Username, u.Email, u.PasswordHash, u.IsAdmin, u.CreateTime, u.UpdateTime)

	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation {
		return nil, errors.New(errors.CodeAlreadyExists,
			errors.WithMessagef("email already registered: %s", req.Email),
			errors.WithCause(err))
	}
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return u, nil
}

type LoginRequest struct {
	Email    string
	Password string
}

type LoginResponse struct {
	Token string
	User  *domain.User
}

// Login verifies the credentials and returns a signed session token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	u, err := s.getByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New(errors.CodeUnauthenticated,
			errors.WithMessagef("invalid credentials"))
	}

	token, err := s.auth.Issue(u.UserID, u.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &LoginResponse{Token: token, User: u}, nil
}

func (s *Service) Get(ctx context.Context, userID string) (*domain.User, error) {
	const stmt = `
SELECT user_id, username, email, password_hash, is_admin, create_time, update_time
FROM users WHERE user_id = $1;`

	return s.scanOne(s.db.QueryRow(ctx, stmt, userID), userID)
}

func (s *Service) getByEmail(ctx context.Context, email string) (*domain.User, error) {
	const stmt = `
SELECT user_id, username, email, password_hash, is_admin, create_time, update_time
FROM users WHERE email = $1;`

	return s.scanOne(s.db.QueryRow(ctx, stmt, email), email)
}

func (s *Service) scanOne(row pgx.Row, key string) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.UserID, &u.Username, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreateTime, &u.UpdateTime)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, errors.New(errors.CodeNotFound,
			errors.WithMessagef("user not found: %s", key))
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}

	return &u, nil
}

func (s *Service) List(ctx context.Context) ([]domain.User, error) {
	const stmt = `
SELECT user_id, username, email, is_admin, create_time, update_time
FROM users ORDER BY create_time;`

	rows, err := s.db.Query(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return pgx.CollectRows(rows, func(r pgx.CollectableRow) (domain.User, error) {
		var u domain.User
		err := r.Scan(&u.UserID, &u.Username, &u.Email, &u.IsAdmin, &u.CreateTime, &u.UpdateTime)
		return u, err
	})
}

type UpdateRequest struct {
	UserID   string
	Username string
	Password string
}

// Update changes the user's name and, when set, rehashes the password.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*domain.User, error) {
	u, err := s.Get(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	if req.Username != "" {
		u.Username = req.Username
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = string(hash)
	}
	u.UpdateTime = time.Now()

	const stmt = `
UPDATE users SET username = $2, password_hash = $3, update_time = $4
WHERE user_id = $1;`

	if _, err := s.db.Exec(ctx, stmt, u.UserID, u.Username, u.PasswordHash, u.UpdateTime); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	return u, nil
}

func (s *Service) Delete(ctx context.Context, userID string) error {
	const stmt = `DELETE FROM users WHERE user_id = $1;`

	ct, err := s.db.Exec(ctx, stmt, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return errors.New(errors.CodeNotFound,
			errors.WithMessagef("user not found: %s", userID))
	}

	return nil
}
