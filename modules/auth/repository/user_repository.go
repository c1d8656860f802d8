package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"today-scheduler/core/database"
	"today-scheduler/core/logger"
	"today-scheduler/modules/auth/entity"
)

// UserRepository handles user database operations
type UserRepository struct {
	db database.Database
}

// UserRepositoryInterface defines the repository contract
type UserRepositoryInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByTid(ctx context.Context, tid string) (*entity.User, error)
	Upsert(ctx context.Context, user *entity.User) (*entity.User, error)
	UpdateTokens(ctx context.Context, id uuid.UUID, accessToken string, expiresAt time.Time) error
}

func NewUserRepository(db database.Database) UserRepositoryInterface {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `
		SELECT id, tid, email, access_token, refresh_token, token_expires_at, created_at, updated_at
		FROM users WHERE id = $1
	`

	var user entity.User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("UserRepository:GetByID", "error", err)
		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) GetByTid(ctx context.Context, tid string) (*entity.User, error) {
	query := `
		SELECT id, tid, email, access_token, refresh_token, token_expires_at, created_at, updated_at
		FROM users WHERE tid = $1
	`

	var user entity.User
	err := r.db.GetContext(ctx, &user, query, tid)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("UserRepository:GetByTid", "error", err)
		return nil, err
	}

	return &user, nil
}

// Upsert creates the user on first signin and refreshes identity and tokens
// on every later one.
func (r *UserRepository) Upsert(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `
		INSERT INTO users (tid, email, access_token, refresh_token, token_expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (tid) DO UPDATE
		SET email = EXCLUDED.email,
		    access_token = EXCLUDED.access_token,
		    refresh_token = EXCLUDED.refresh_token,
		    token_expires_at = EXCLUDED.token_expires_at,
		    updated_at = NOW()
		RETURNING id, tid, email, access_token, refresh_token, token_expires_at, created_at, updated_at
	`

	var saved entity.User
	err := r.db.GetContext(ctx, &saved, query,
		user.Tid, user.Email, user.AccessToken, user.RefreshToken, user.TokenExpiresAt)
	if err != nil {
		logger.Error("UserRepository:Upsert", "error", err)
		return nil, err
	}

	return &saved, nil
}

func (r *UserRepository) UpdateTokens(ctx context.Context, id uuid.UUID, accessToken string, expiresAt time.Time) error {
	query := `UPDATE users SET access_token = $2, token_expires_at = $3, updated_at = NOW() WHERE id = $1`
	err := r.db.ExecContext(ctx, query, id, accessToken, expiresAt)
	if err != nil {
		logger.Error("UserRepository:UpdateTokens", "error", err)
		return err
	}
	return nil
}
