package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ukuvago/themeboard/internal/middleware"
	"github.com/ukuvago/themeboard/internal/models"
	"github.com/ukuvago/themeboard/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest represents login input
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResult is returned by every login and signup endpoint.
type AuthResult struct {
	User  models.UserResponse `json:"user"`
	Token string              `json:"token"`
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondWithToken(c, http.StatusCreated, user, "Registration successful")
}

// Login handles user authentication
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, AuthResult{User: user.ToResponse(), Token: token}, "")
}

// GetCurrentUser returns the current authenticated user
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	principal := middleware.GetPrincipal(c)

	user, err := h.authService.GetUserByID(c.Request.Context(), principal.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, user.ToResponse(), "")
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, user *models.User, message string) {
	token, err := h.authService.GenerateToken(user)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, status, AuthResult{User: user.ToResponse(), Token: token}, message)
}
