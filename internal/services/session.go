package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// SessionDuration is 7 days
	SessionDuration = 7 * 24 * time.Hour
	// SessionKeyPrefix is the Redis key prefix for sessions
	SessionKeyPrefix = "session:"
	// UserSessionKeyPrefix is the Redis key prefix for user->session mapping
	UserSessionKeyPrefix = "user_session:"
)

// SessionService stores opaque session tokens in Redis. One live session per
// user: a new sign-in replaces the previous session so the 7-day timer
// resets from the current login.
type SessionService struct {
	redis *redis.Client
}

func NewSessionService(client *redis.Client) *SessionService {
	return &SessionService{redis: client}
}

// Create creates a new session for a user and returns the session token.
func (s *SessionService) Create(ctx context.Context, userID int64) (string, error) {
	// Invalidate any existing session for this user (so 7-day timer resets)
	s.InvalidateUserSessions(ctx, userID)

	// Generate secure session token
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	sessionToken := base64.URLEncoding.EncodeToString(tokenBytes)

	sessionKey := SessionKeyPrefix + sessionToken
	userSessionKey := UserSessionKeyPrefix + strconv.FormatInt(userID, 10)

	// Store session with 7-day expiration
	if err := s.redis.Set(ctx, sessionKey, strconv.FormatInt(userID, 10), SessionDuration).Err(); err != nil {
		return "", err
	}

	// Store user->session mapping
	if err := s.redis.Set(ctx, userSessionKey, sessionToken, SessionDuration).Err(); err != nil {
		return "", err
	}

	return sessionToken, nil
}

// Validate checks if a session token is valid and returns the user ID.
func (s *SessionService) Validate(ctx context.Context, sessionToken string) (int64, bool, error) {
	if sessionToken == "" {
		return 0, false, nil
	}

	sessionKey := SessionKeyPrefix + sessionToken

	userIDStr, err := s.redis.Get(ctx, sessionKey).Result()
	if err != nil {
		return 0, false, nil
	}

	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		return 0, false, err
	}

	return userID, true, nil
}

// Refresh extends the session expiration by 7 days from now.
func (s *SessionService) Refresh(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return fmt.Errorf("session token is empty")
	}

	sessionKey := SessionKeyPrefix + sessionToken

	userIDStr, err := s.redis.Get(ctx, sessionKey).Result()
	if err != nil {
		return err
	}
	userSessionKey := UserSessionKeyPrefix + userIDStr

	// Extend both keys by 7 days from now
	if err := s.redis.Expire(ctx, sessionKey, SessionDuration).Err(); err != nil {
		return err
	}
	return s.redis.Expire(ctx, userSessionKey, SessionDuration).Err()
}

// Invalidate removes a session from Redis.
func (s *SessionService) Invalidate(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return nil
	}

	sessionKey := SessionKeyPrefix + sessionToken

	// Get user ID before deleting
	userIDStr, err := s.redis.Get(ctx, sessionKey).Result()
	if err == nil && userIDStr != "" {
		s.redis.Del(ctx, UserSessionKeyPrefix+userIDStr)
	}

	return s.redis.Del(ctx, sessionKey).Err()
}

// InvalidateUserSessions invalidates the live session for a user (useful
// when the password changes).
func (s *SessionService) InvalidateUserSessions(ctx context.Context, userID int64) error {
	userSessionKey := UserSessionKeyPrefix + strconv.FormatInt(userID, 10)

	sessionToken, err := s.redis.Get(ctx, userSessionKey).Result()
	if err == nil && sessionToken != "" {
		s.redis.Del(ctx, SessionKeyPrefix+sessionToken)
	}

	return s.redis.Del(ctx, userSessionKey).Err()
}
