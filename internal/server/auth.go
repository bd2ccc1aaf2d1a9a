package server

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode"

	"sketch-stars/internal/db"

	"gorm.io/gorm"
)

const maxUsernameLength = 20

var errNoSession = errors.New("authentication required")

// authenticateRequest resolves the caller from a bearer session token.
// Session issuance and lifetime live outside the game core; this is the
// whole boundary.
func (s *Server) authenticateRequest(r *http.Request) (*db.User, error) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return nil, errNoSession
	}
	var session db.Session
	if err := s.db.Where("token = ?", strings.TrimSpace(token)).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNoSession
		}
		return nil, err
	}
	var user db.User
	if err := s.db.First(&user, session.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNoSession
		}
		return nil, err
	}
	return &user, nil
}

type loginRequest struct {
	Username string `json:"username"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name, err := validateUsername(req.Username)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user := db.User{Username: name}
	if err := s.db.FirstOrCreate(&user, db.User{Username: name}).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	session := db.Session{
		Token:  newSessionToken(),
		UserID: user.ID,
	}
	if err := s.db.Create(&session).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token":    session.Token,
		"userId":   user.ID,
		"username": user.Username,
	})
}

func validateUsername(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", errors.New("username is required")
	}
	if len(trimmed) > maxUsernameLength {
		return "", fmt.Errorf("username must be %d characters or fewer", maxUsernameLength)
	}
	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return "", errors.New("username contains unsupported characters")
		}
	}
	return trimmed, nil
}

func newSessionToken() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("sess-%d", time.Now().UnixNano())
	}
	return fmt.Sprintf("%x", buf)
}
