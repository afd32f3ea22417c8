package handler

import (
	"context"
	"net/http"
	"time"

	"hospital-or-scheduling/internal/middleware"
	"hospital-or-scheduling/internal/service"
	"hospital-or-scheduling/pkg/utils"

	"github.com/gin-gonic/gin"
)

const refreshCookie = "refresh_token"

type AuthService interface {
	Login(ctx context.Context, email, password string) (*service.LoginResponse, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, doctorID uint) error
	Register(ctx context.Context, req service.RegisterRequest) (*service.LoginResponse, error)
	Me(ctx context.Context, doctorID uint) (*service.DoctorResponse, error)
	UpdateProfile(ctx context.Context, doctorID uint, u service.ProfileUpdate) (*service.DoctorResponse, error)
	RefreshTokenExpiry() time.Duration
}

type AuthHandler struct {
	authService  AuthService
	secureCookie bool
}

func NewAuthHandler(authService AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		secureCookie: secureCookie,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=8"`
	FirstName      string `json:"first_name" binding:"required,max=100"`
	LastName       string `json:"last_name" binding:"required,max=100"`
	Phone          string `json:"phone" binding:"max=20"`
	Specialization string `json:"specialization" binding:"max=100"`
	LicenseNumber  string `json:"license_number" binding:"max=50"`
}

type UpdateProfileRequest struct {
	FirstName      *string `json:"first_name" binding:"omitempty,max=100"`
	LastName       *string `json:"last_name" binding:"omitempty,max=100"`
	Email          *string `json:"email" binding:"omitempty,email"`
	Phone          *string `json:"phone" binding:"omitempty,max=20"`
	Specialization *string `json:"specialization" binding:"omitempty,max=100"`
	Password       *string `json:"password" binding:"omitempty,min=8"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Login handles doctor authentication
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	response, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	h.setRefreshCookie(c, response.RefreshToken)
	utils.SuccessResponse(c, response)
}

// Refresh generates a new access token. The refresh token comes from the
// cookie, or from the JSON body for non-browser clients.
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookie)
	if err != nil || refreshToken == "" {
		var req RefreshRequest
		_ = c.ShouldBindJSON(&req)
		refreshToken = req.RefreshToken
	}
	if refreshToken == "" {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Refresh token not found")
		return
	}

	accessToken, err := h.authService.RefreshAccessToken(c.Request.Context(), refreshToken)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"access_token": accessToken,
	})
}

// Logout revokes the doctor's refresh tokens and clears the cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.DoctorID(c)); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	c.SetCookie(refreshCookie, "", -1, "/", "", h.secureCookie, true)
	utils.MessageResponse(c, "Logged out successfully")
}

// Register handles doctor registration
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	response, err := h.authService.Register(c.Request.Context(), service.RegisterRequest{
		Email:          req.Email,
		Password:       req.Password,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Phone:          req.Phone,
		Specialization: req.Specialization,
		LicenseNumber:  req.LicenseNumber,
	})
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	h.setRefreshCookie(c, response.RefreshToken)
	utils.CreatedResponse(c, response)
}

func (h *AuthHandler) Me(c *gin.Context) {
	doctor, err := h.authService.Me(c.Request.Context(), middleware.DoctorID(c))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, doctor)
}

// UpdateProfile changes the logged-in doctor's own profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	doctor, err := h.authService.UpdateProfile(c.Request.Context(), middleware.DoctorID(c), service.ProfileUpdate{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		Specialization: req.Specialization,
		Password:       req.Password,
	})
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, doctor)
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(
		refreshCookie,
		token,
		int(h.authService.RefreshTokenExpiry().Seconds()),
		"/",
		"",
		h.secureCookie,
		true, // httpOnly
	)
}
