package repository

import (
	"context"
	"database/sql"

	"groupcal/core/database"
	"groupcal/core/logger"
	"groupcal/modules/auth/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// AuthRepository handles user database operations
type AuthRepository struct {
	DB database.Database
}

// NewAuthRepository creates a new repository instance
func NewAuthRepository(db database.Database) *AuthRepository {
	return &AuthRepository{DB: db}
}

// AuthRepositoryInterface defines the repository contract
type AuthRepositoryInterface interface {
	CreateUser(ctx context.Context, user *entity.User) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetUsersByEmails(ctx context.Context, emails []string) ([]entity.User, error)
}

func (r *AuthRepository) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `
		INSERT INTO users (username, email, password)
		VALUES ($1, $2, $3)
		RETURNING id, username, email, password, created_at, updated_at
	`

	var created entity.User
	err := r.DB.GetContext(ctx, &created, query, user.Username, user.Email, user.Password)
	if err != nil {
		logger.Error("AuthRepository:CreateUser", err)
		return nil, err
	}

	return &created, nil
}

func (r *AuthRepository) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `
		SELECT id, username, email, password, created_at, updated_at
		FROM users WHERE email = $1
	`

	var user entity.User
	err := r.DB.GetContext(ctx, &user, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AuthRepository:GetUserByEmail", err)
		return nil, err
	}

	return &user, nil
}

func (r *AuthRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `
		SELECT id, username, email, password, created_at, updated_at
		FROM users WHERE id = $1
	`

	var user entity.User
	err := r.DB.GetContext(ctx, &user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AuthRepository:GetUserByID", err)
		return nil, err
	}

	return &user, nil
}

func (r *AuthRepository) GetUsersByEmails(ctx context.Context, emails []string) ([]entity.User, error) {
	if len(emails) == 0 {
		return []entity.User{}, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, username, email, password, created_at, updated_at
		FROM users WHERE email IN (?)
	`, emails)
	if err != nil {
		logger.Error("AuthRepository:GetUsersByEmails:In", err)
		return nil, err
	}

	var users []entity.User
	err = r.DB.SelectContext(ctx, &users, r.DB.SQLx().Rebind(query), args...)
	if err != nil {
		logger.Error("AuthRepository:GetUsersByEmails", err)
		return nil, err
	}

	return users, nil
}
