package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/voxpoll/voxpoll-backend/internal/middleware"
	"github.com/voxpoll/voxpoll-backend/internal/repository"
	"github.com/voxpoll/voxpoll-backend/internal/services"
	"github.com/voxpoll/voxpoll-backend/pkg/utils"
)

type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SigninRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse returns the account and a session token on success.
type AuthResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	User    map[string]interface{} `json:"user,omitempty"`
	Token   string                 `json:"token,omitempty"`
}

type AuthHandler struct {
	users    *repository.UserRepository
	profiles *services.ProfileService
	sessions *services.SessionService
}

func NewAuthHandler(users *repository.UserRepository, profiles *services.ProfileService, sessions *services.SessionService) *AuthHandler {
	return &AuthHandler{users: users, profiles: profiles, sessions: sessions}
}

// Signup handles user registration
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Validate username
	if err := utils.ValidateUsername(req.Username); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	// Validate password
	if len(req.Password) < 8 {
		writeMessage(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	username := utils.NormalizeUsername(req.Username)

	taken, err := h.users.UsernameTaken(r.Context(), username)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if taken {
		writeMessage(w, http.StatusConflict, "Username is already taken")
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Printf("⚠️ Failed to hash password: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	user, err := h.users.Create(r.Context(), username, hashedPassword)
	if err != nil {
		writeError(w, r, err)
		return
	}

	token, err := h.sessions.Create(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{
		Success: true,
		Message: "Account created successfully",
		User: map[string]interface{}{
			"id":         user.ID,
			"username":   user.Username,
			"created_at": user.CreatedAt.Format(time.RFC3339),
		},
		Token: token,
	})
}

// Signin handles user login
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, err := h.users.GetByUsername(r.Context(), utils.NormalizeUsername(req.Username))
	if err != nil {
		// Same message for unknown username and wrong password
		writeMessage(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	valid, err := utils.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !valid {
		writeMessage(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	if !user.IsActive {
		writeMessage(w, http.StatusForbidden, "Account is deactivated")
		return
	}

	token, err := h.sessions.Create(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "Login successful",
		User: map[string]interface{}{
			"id":         user.ID,
			"username":   user.Username,
			"created_at": user.CreatedAt.Format(time.RFC3339),
		},
		Token: token,
	})
}

// Me returns the authenticated user's account and profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	_, profile, err := h.profiles.GetByUsername(r.Context(), user.Username)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user": map[string]interface{}{
			"id":         user.ID,
			"username":   user.Username,
			"created_at": user.CreatedAt.Format(time.RFC3339),
		},
		"profile": map[string]interface{}{
			"name":            profile.Name,
			"bio":             profile.Bio,
			"profile_picture": profile.ProfilePicture,
		},
	})
}

// Signout invalidates the current session token.
func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	auth := r.Header.Get("Authorization")
	token := strings.TrimPrefix(auth, "Bearer ")
	if token == "" || token == auth {
		writeMessage(w, http.StatusBadRequest, "No session token provided")
		return
	}

	if err := h.sessions.Invalidate(r.Context(), token); err != nil {
		writeError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "Signed out successfully")
}
