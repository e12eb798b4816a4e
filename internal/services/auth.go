package services

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"intellirev/internal/domain"
	"intellirev/internal/metrics"
	"intellirev/internal/util"
	apperrors "intellirev/pkg/errors"
)

// AuthService implements operator login for the admin dashboard
type AuthService struct {
	db *gorm.DB
}

// NewAuthService creates a new auth service
func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/v1/auth/login
func (s *AuthService) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	// Trim whitespace from credentials
	username := strings.TrimSpace(req.Username)
	password := strings.TrimSpace(req.Password)

	log.Printf("[AUTH] Login attempt for user: %s", username)

	var user domain.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[AUTH] Login failed: user '%s' not found", username)
			metrics.RecordAuthAttempt(false)
			writeError(w, apperrors.New(apperrors.ErrCodeUnauthorized, "incorrect username or password"))
			return
		}
		log.Printf("[AUTH] Login failed: database error for user '%s': %v", username, err)
		metrics.RecordAuthAttempt(false)
		writeError(w, err)
		return
	}

	if !util.CheckPasswordHash(password, user.HashedPassword) {
		log.Printf("[AUTH] Login failed: invalid password for user '%s'", username)
		metrics.RecordAuthAttempt(false)
		writeError(w, apperrors.New(apperrors.ErrCodeUnauthorized, "incorrect username or password"))
		return
	}

	if !user.IsActive {
		log.Printf("[AUTH] Login failed: user '%s' is inactive", username)
		metrics.RecordAuthAttempt(false)
		writeError(w, apperrors.New(apperrors.ErrCodeUnauthorized, "user account is inactive"))
		return
	}

	// Update last login
	now := time.Now()
	user.LastLogin = &now
	s.db.Save(&user)

	// Generate token
	token, err := util.GenerateToken(&user)
	if err != nil {
		log.Printf("[AUTH] Login failed: token generation error for user '%s': %v", username, err)
		writeError(w, err)
		return
	}

	log.Printf("[AUTH] Login successful for user '%s' (id=%d, admin=%v, staff=%v)", username, user.ID, user.IsAdmin, user.IsStaff)
	metrics.RecordAuthAttempt(true)

	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

// Me handles GET /api/v1/auth/me
func (s *AuthService) Me(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		writeError(w, apperrors.New(apperrors.ErrCodeUnauthorized, "not authenticated"))
		return
	}
	log.Printf("[AUTH] Me request for user: %s (id=%d)", user.Username, user.ID)
	writeJSON(w, http.StatusOK, user)
}
