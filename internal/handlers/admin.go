package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ukuvago/themeboard/internal/middleware"
	"github.com/ukuvago/themeboard/internal/services"
)

type AdminHandler struct {
	authService  *services.AuthService
	statsService *services.StatsService
}

func NewAdminHandler(authService *services.AuthService, statsService *services.StatsService) *AdminHandler {
	return &AdminHandler{
		authService:  authService,
		statsService: statsService,
	}
}

// AdminSignupRequest is a registration that may carry the admin secret key.
type AdminSignupRequest struct {
	services.RegisterInput
	AdminKey string `json:"admin_key"`
}

// Signup creates an admin account. Callers need an admin token or the
// admin secret key.
func (h *AdminHandler) Signup(c *gin.Context) {
	var req AdminSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	user, err := h.authService.RegisterAdmin(c.Request.Context(), req.RegisterInput, middleware.GetPrincipal(c), req.AdminKey)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, AuthResult{User: user.ToResponse(), Token: token}, "Admin account created successfully")
}

// Login authenticates admins only
func (h *AdminHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	user, token, err := h.authService.LoginAdmin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, AuthResult{User: user.ToResponse(), Token: token}, "")
}

func (h *AdminHandler) Me(c *gin.Context) {
	user, err := h.authService.GetUserByID(c.Request.Context(), middleware.GetPrincipal(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, user.ToResponse(), "")
}

// GetDashboardStats returns entity counts for the admin dashboard
func (h *AdminHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.statsService.GetStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, stats, "")
}
