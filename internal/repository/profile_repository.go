package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/voxpoll/voxpoll-backend/internal/apperrors"
	"github.com/voxpoll/voxpoll-backend/internal/models"
)

// ProfileRepository reads the public profile projections out of PostgreSQL.
type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetOwner returns the public projection for one user.
func (r *ProfileRepository) GetOwner(ctx context.Context, userID int64) (models.OwnerProfile, error) {
	var owner models.OwnerProfile
	err := r.db.QueryRowContext(ctx, `
		SELECT u.username, COALESCE(p.name, ''), COALESCE(p.profile_picture, '')
		FROM users u
		LEFT JOIN user_profiles p ON p.user_id = u.id
		WHERE u.id = $1 AND u.is_active = TRUE
	`, userID).Scan(&owner.Username, &owner.Name, &owner.ProfilePicture)

	if err == sql.ErrNoRows {
		return models.OwnerProfile{}, fmt.Errorf("owner %d: %w", userID, apperrors.ErrNotFound)
	}
	if err != nil {
		return models.OwnerProfile{}, fmt.Errorf("query owner %d: %v: %w", userID, err, apperrors.ErrDataStore)
	}
	return owner, nil
}

// GetOwners batch-loads the public projections for a set of users in one
// query. Missing or inactive users are simply absent from the result map.
func (r *ProfileRepository) GetOwners(ctx context.Context, userIDs []int64) (map[int64]models.OwnerProfile, error) {
	owners := make(map[int64]models.OwnerProfile, len(userIDs))
	if len(userIDs) == 0 {
		return owners, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT u.id, u.username, COALESCE(p.name, ''), COALESCE(p.profile_picture, '')
		FROM users u
		LEFT JOIN user_profiles p ON p.user_id = u.id
		WHERE u.id = ANY($1) AND u.is_active = TRUE
	`, pq.Array(userIDs))
	if err != nil {
		return nil, fmt.Errorf("query owners: %v: %w", err, apperrors.ErrDataStore)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var owner models.OwnerProfile
		if err := rows.Scan(&id, &owner.Username, &owner.Name, &owner.ProfilePicture); err != nil {
			return nil, fmt.Errorf("scan owner: %v: %w", err, apperrors.ErrDataStore)
		}
		owners[id] = owner
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate owners: %v: %w", err, apperrors.ErrDataStore)
	}
	return owners, nil
}

// GetByUsername returns the full profile for a username (public profile page).
func (r *ProfileRepository) GetByUsername(ctx context.Context, username string) (models.User, models.UserProfile, error) {
	var user models.User
	var profile models.UserProfile

	err := r.db.QueryRowContext(ctx, `
		SELECT u.id, u.username, u.created_at,
		       COALESCE(p.name, ''), COALESCE(p.bio, ''), COALESCE(p.profile_picture, '')
		FROM users u
		LEFT JOIN user_profiles p ON p.user_id = u.id
		WHERE LOWER(u.username) = $1 AND u.is_active = TRUE
	`, username).Scan(&user.ID, &user.Username, &user.CreatedAt,
		&profile.Name, &profile.Bio, &profile.ProfilePicture)

	if err == sql.ErrNoRows {
		return models.User{}, models.UserProfile{}, fmt.Errorf("profile %q: %w", username, apperrors.ErrNotFound)
	}
	if err != nil {
		return models.User{}, models.UserProfile{}, fmt.Errorf("query profile %q: %v: %w", username, err, apperrors.ErrDataStore)
	}

	profile.UserID = user.ID
	user.IsActive = true
	return user, profile, nil
}

// Update writes the mutable profile fields for a user.
func (r *ProfileRepository) Update(ctx context.Context, userID int64, name, bio string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE user_profiles
		SET name = $2, bio = $3, updated_at = NOW()
		WHERE user_id = $1
	`, userID, name, bio)
	if err != nil {
		return fmt.Errorf("update profile %d: %v: %w", userID, err, apperrors.ErrDataStore)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update profile %d: %v: %w", userID, err, apperrors.ErrDataStore)
	}
	if affected == 0 {
		return fmt.Errorf("profile %d: %w", userID, apperrors.ErrNotFound)
	}
	return nil
}

// UpdatePicture writes only the profile picture URL.
func (r *ProfileRepository) UpdatePicture(ctx context.Context, userID int64, profilePicture string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE user_profiles
		SET profile_picture = $2, updated_at = NOW()
		WHERE user_id = $1
	`, userID, profilePicture)
	if err != nil {
		return fmt.Errorf("update picture %d: %v: %w", userID, err, apperrors.ErrDataStore)
	}
	return nil
}
