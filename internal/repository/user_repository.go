package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/voxpoll/voxpoll-backend/internal/apperrors"
	"github.com/voxpoll/voxpoll-backend/internal/models"
)

// UserRepository manages the relational account rows.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// UsernameTaken reports whether a normalized username already exists.
func (r *UserRepository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var existing string
	err := r.db.QueryRowContext(ctx,
		`SELECT username FROM users WHERE LOWER(username) = $1`, username,
	).Scan(&existing)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check username: %v: %w", err, apperrors.ErrDataStore)
	}
	return true, nil
}

// Create inserts the account row and its empty profile row in one
// transaction, and returns the stored user.
func (r *UserRepository) Create(ctx context.Context, username, passwordHash string) (models.User, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.User{}, fmt.Errorf("begin tx: %v: %w", err, apperrors.ErrDataStore)
	}
	defer tx.Rollback()

	var user models.User
	user.Username = username
	user.IsActive = true

	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, username, passwordHash).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return models.User{}, fmt.Errorf("insert user: %v: %w", err, apperrors.ErrDataStore)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO user_profiles (user_id, name) VALUES ($1, $2)`, user.ID, username)
	if err != nil {
		return models.User{}, fmt.Errorf("insert profile: %v: %w", err, apperrors.ErrDataStore)
	}

	if err := tx.Commit(); err != nil {
		return models.User{}, fmt.Errorf("commit signup: %v: %w", err, apperrors.ErrDataStore)
	}
	return user, nil
}

// GetByUsername returns the active account with the given normalized username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, created_at, is_active
		FROM users
		WHERE LOWER(username) = $1 AND is_active = TRUE
	`, username).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt, &user.IsActive)

	if err == sql.ErrNoRows {
		return models.User{}, fmt.Errorf("user %q: %w", username, apperrors.ErrNotFound)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("query user %q: %v: %w", username, err, apperrors.ErrDataStore)
	}
	return user, nil
}

// GetByID returns the active account with the given id.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (models.User, error) {
	var user models.User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, created_at, is_active
		FROM users
		WHERE id = $1 AND is_active = TRUE
	`, id).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt, &user.IsActive)

	if err == sql.ErrNoRows {
		return models.User{}, fmt.Errorf("user %d: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("query user %d: %v: %w", id, err, apperrors.ErrDataStore)
	}
	return user, nil
}
