package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/voxpoll/voxpoll-backend/internal/apperrors"
	"github.com/voxpoll/voxpoll-backend/internal/models"
	"github.com/voxpoll/voxpoll-backend/internal/repository"
)

const (
	ownerCacheKeyPrefix = "owner:"
	ownerCacheTTL       = 10 * time.Minute
)

// ProfileService fronts the profile repository with a Redis cache for the
// owner projections the list pipeline reads on every page.
type ProfileService struct {
	repo  *repository.ProfileRepository
	cache *CacheService
}

func NewProfileService(repo *repository.ProfileRepository, cache *CacheService) *ProfileService {
	return &ProfileService{repo: repo, cache: cache}
}

// GetOwner returns the public projection for one user.
func (s *ProfileService) GetOwner(ctx context.Context, userID int64) (models.OwnerProfile, error) {
	owners, err := s.GetOwners(ctx, []int64{userID})
	if err != nil {
		return models.OwnerProfile{}, err
	}
	owner, ok := owners[userID]
	if !ok {
		return models.OwnerProfile{}, fmt.Errorf("owner %d: %w", userID, apperrors.ErrNotFound)
	}
	return owner, nil
}

// GetOwners resolves owner projections for a page. Cached entries are served
// from Redis; the rest are batch-loaded in one query and cached for next
// time. Missing users are absent from the result map, not an error.
func (s *ProfileService) GetOwners(ctx context.Context, userIDs []int64) (map[int64]models.OwnerProfile, error) {
	owners := make(map[int64]models.OwnerProfile, len(userIDs))

	missing := make([]int64, 0, len(userIDs))
	for _, id := range userIDs {
		var cached models.OwnerProfile
		hit, err := s.cache.Get(ctx, ownerCacheKey(id), &cached)
		if err == nil && hit {
			owners[id] = cached
			continue
		}
		missing = append(missing, id)
	}

	if len(missing) > 0 {
		fetched, err := s.repo.GetOwners(ctx, missing)
		if err != nil {
			return nil, err
		}
		for id, owner := range fetched {
			owners[id] = owner
			s.cache.SetWithTTL(ctx, ownerCacheKey(id), owner, ownerCacheTTL)
		}
	}

	return owners, nil
}

// GetByUsername returns the public profile page data for a username.
func (s *ProfileService) GetByUsername(ctx context.Context, username string) (models.User, models.UserProfile, error) {
	return s.repo.GetByUsername(ctx, username)
}

// Update writes the mutable profile fields and drops the stale cache entry.
func (s *ProfileService) Update(ctx context.Context, userID int64, name, bio string) error {
	if err := s.repo.Update(ctx, userID, name, bio); err != nil {
		return err
	}
	s.cache.Delete(ctx, ownerCacheKey(userID))
	return nil
}

// UpdatePicture writes the profile picture URL and drops the cache entry.
func (s *ProfileService) UpdatePicture(ctx context.Context, userID int64, profilePicture string) error {
	if err := s.repo.UpdatePicture(ctx, userID, profilePicture); err != nil {
		return err
	}
	s.cache.Delete(ctx, ownerCacheKey(userID))
	return nil
}

func ownerCacheKey(userID int64) string {
	return ownerCacheKeyPrefix + strconv.FormatInt(userID, 10)
}
