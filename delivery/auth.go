package delivery

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/kundanmehta01/UniNotes-sub001/config"
	"github.com/kundanmehta01/UniNotes-sub001/domain"
	"github.com/kundanmehta01/UniNotes-sub001/middleware"
	"github.com/kundanmehta01/UniNotes-sub001/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC domain.AuthUseCase
}

func NewAuthHandler(r *gin.Engine, authUC domain.AuthUseCase, authLimiter middleware.RateLimiter) {
	handler := &AuthHandler{authUC: authUC}

	// Ping Route (no rate limiting)
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Public routes with stricter rate limiting for auth
	public := r.Group("/auth")
	if authLimiter != nil {
		authConfig := middleware.RateLimiterConfig{
			RequestsPerWindow: 10,
			WindowDuration:    1 * time.Minute,
			KeyPrefix:         "ratelimit:auth",
		}
		public.Use(middleware.EndpointRateLimitMiddleware(authLimiter, authConfig, "auth"))
	}
	{
		public.POST("/check-exists", handler.CheckExists)
		public.POST("/otp/login", handler.SendLoginOTP)
		public.POST("/otp/register", handler.SendRegisterOTP)
		public.POST("/otp/verify", handler.VerifyOTP)
		public.POST("/refresh-token", handler.RefreshToken)
		public.POST("/logout", handler.Logout)
	}

	// Protected routes
	protected := r.Group("/auth")
	protected.Use(config.AuthMiddleware(authUC.GetAccessTokenManager()))
	{
		protected.GET("/me", handler.Me)
	}
}

type CheckExistsRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *AuthHandler) CheckExists(c *gin.Context) {
	var req CheckExistsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.PrintLogInfo(nil, 400, "CheckExists", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request",
			"error":   utils.TranslateValidationError(err),
		})
		return
	}

	exists, err := h.authUC.CheckExists(c.Request.Context(), strings.ToLower(req.Email))
	if err != nil {
		utils.PrintLogInfo(&req.Email, 500, "CheckExists", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to check email",
			"error":   utils.TranslateDBError(err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"exists":  exists,
	})
}

type SendLoginOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *AuthHandler) SendLoginOTP(c *gin.Context) {
	var req SendLoginOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.PrintLogInfo(nil, 400, "SendLoginOTP", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request",
			"error":   utils.TranslateValidationError(err),
		})
		return
	}

	email := strings.ToLower(req.Email)
	if err := h.authUC.SendLoginOTP(c.Request.Context(), email); err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrEmailNotFound):
			status = http.StatusNotFound
		case errors.Is(err, domain.ErrUserInactive):
			status = http.StatusForbidden
		case errors.Is(err, domain.ErrResendCooldown):
			status = http.StatusTooManyRequests
		}
		utils.PrintLogInfo(&email, status, "SendLoginOTP", err)
		c.JSON(status, gin.H{
			"success": false,
			"message": "Failed to send OTP",
			"error":   err.Error(),
		})
		return
	}

	utils.PrintLogInfo(&email, 200, "SendLoginOTP", nil)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OTP sent to your email",
	})
}

type SendRegisterOTPRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"first_name" binding:"required,min=2,max=100"`
	LastName  string `json:"last_name" binding:"required,min=2,max=100"`
}

func (h *AuthHandler) SendRegisterOTP(c *gin.Context) {
	var req SendRegisterOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.PrintLogInfo(nil, 400, "SendRegisterOTP", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request",
			"error":   utils.TranslateValidationError(err),
		})
		return
	}

	email := strings.ToLower(req.Email)
	if err := h.authUC.SendRegisterOTP(c.Request.Context(), email, req.FirstName, req.LastName); err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrEmailTaken):
			status = http.StatusConflict
		case errors.Is(err, domain.ErrResendCooldown):
			status = http.StatusTooManyRequests
		}
		utils.PrintLogInfo(&email, status, "SendRegisterOTP", err)
		c.JSON(status, gin.H{
			"success": false,
			"message": "Failed to send OTP",
			"error":   err.Error(),
		})
		return
	}

	utils.PrintLogInfo(&email, 200, "SendRegisterOTP", nil)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OTP sent to your email",
	})
}

type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,otpcode"`
}

func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.PrintLogInfo(nil, 400, "VerifyOTP", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request",
			"error":   utils.TranslateValidationError(err),
		})
		return
	}

	email := strings.ToLower(req.Email)
	tokens, user, err := h.authUC.VerifyOTP(c.Request.Context(), email, req.Code)
	if err != nil {
		// The error message wording matters here: clients classify failures
		// by the "expired" / "invalid" substrings.
		utils.PrintLogInfo(&email, 401, "VerifyOTP", err)
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": err.Error(),
			"error":   err.Error(),
		})
		return
	}

	// HttpOnly cookie for web clients; mobile clients use the JSON body
	c.SetCookie(
		"refresh_token",
		tokens.RefreshToken,
		60*60*24*7, // 7 days
		"/",
		"",
		false,
		true,
	)

	utils.PrintLogInfo(&email, 200, "VerifyOTP", nil)
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Login successful",
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"user":          user,
	})
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	// Try the cookie first (web), then the JSON body (mobile)
	refreshToken, err := c.Cookie("refresh_token")
	if err != nil || refreshToken == "" {
		var req struct {
			RefreshToken string `json:"refresh_token"`
		}
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil || req.RefreshToken == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "No refresh token provided",
			})
			return
		}
		refreshToken = req.RefreshToken
	}

	tokens, err := h.authUC.RefreshTokens(c.Request.Context(), refreshToken)
	if err != nil {
		c.SetCookie("refresh_token", "", -1, "/", "", false, true)
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Invalid or expired refresh token",
		})
		return
	}

	c.SetCookie("refresh_token", tokens.RefreshToken, 60*60*24*7, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Token refreshed successfully",
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(
		"refresh_token",
		"",
		-1, // Expire immediately
		"/",
		"",
		false,
		true,
	)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logout successful",
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetString("userID")
	role := c.GetString("role")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Unauthorized: missing user context",
		})
		return
	}

	user, err := h.authUC.Me(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   utils.TranslateDBError(err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"role":    role,
		"data":    user,
	})
}
