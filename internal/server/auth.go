package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// AuthHandler verifies the dashboard password and issues session tokens.
// There is one user; the password hash comes from configuration.
type AuthHandler struct {
	passwordHash string
	jwtService   *JWTService
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(passwordHash string, jwtService *JWTService) *AuthHandler {
	return &AuthHandler{passwordHash: passwordHash, jwtService: jwtService}
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login checks the password against the configured bcrypt hash and returns
// a session token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.passwordHash == "" {
		errorResponse(w, http.StatusServiceUnavailable, "dashboard password not configured")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Password == "" {
		errorResponse(w, http.StatusBadRequest, "password is required")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(h.passwordHash), []byte(req.Password)); err != nil {
		errorResponse(w, http.StatusUnauthorized, "invalid password")
		return
	}

	token, err := h.jwtService.GenerateToken()
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	jsonResponse(w, http.StatusOK, loginResponse{Token: token})
}

// HashPassword produces a bcrypt hash for storing in configuration.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
