package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"algotix/internal/logging"
	"algotix/internal/users"
)

type AuthController struct {
	users *users.Service
	log   logging.Logger
}

func NewAuthController(svc *users.Service, log logging.Logger) *AuthController {
	return &AuthController{users: svc, log: log}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthController) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			validationFailed(c, err)
			return
		}
		token, prof, err := h.users.Login(req.Email, req.Password)
		if err != nil {
			h.authError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "user": prof})
	}
}

func (h *AuthController) Signup() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			validationFailed(c, err)
			return
		}
		token, prof, err := h.users.Signup(req.Name, req.Email, req.Password)
		if err != nil {
			h.authError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "user": prof})
	}
}

func (h *AuthController) Verify() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			validationFailed(c, errors.New("query parameter token is required"))
			return
		}
		prof, err := h.users.Verify(token)
		if err != nil {
			fail(c, http.StatusUnauthorized, "Invalid token")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "user": prof})
	}
}

func (h *AuthController) authError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, users.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, users.ErrUserExists):
		fail(c, http.StatusBadRequest, "User already exists")
	case errors.Is(err, users.ErrPasswordTooShort):
		fail(c, http.StatusBadRequest, "Password must be at least 6 characters")
	default:
		h.log.Error(c.Request.Context(), "auth request failed", "path", c.FullPath(), "error", err)
		fail(c, http.StatusInternalServerError, "Server error: "+err.Error())
	}
}
