package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"task-tracker-api/internal/auth"
)

// LoginRequest represents the login request payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

// AuthHandler issues tokens against the single configured credential pair.
type AuthHandler struct {
	tokens       *auth.Tokens
	username     string
	passwordHash []byte
}

// NewAuthHandler hashes the configured password once at startup.
func NewAuthHandler(tokens *auth.Tokens, username, password string) (*AuthHandler, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return &AuthHandler{
		tokens:       tokens,
		username:     username,
		passwordHash: hash,
	}, nil
}

// Login handles POST /login
func (a *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request. Username and password are required.",
		})
		return
	}

	if req.Username != a.username || !auth.CheckPassword(a.passwordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := a.tokens.Generate(req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:    token,
		Username: req.Username,
		Message:  "Login successful",
	})
}
