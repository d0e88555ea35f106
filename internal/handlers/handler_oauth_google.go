package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/paperdesk/doc_tracking_app/internal/core/domain"
	portssvc "github.com/paperdesk/doc_tracking_app/internal/core/ports/services"
	"github.com/paperdesk/doc_tracking_app/internal/dto"
	"github.com/paperdesk/doc_tracking_app/internal/middleware"
	"github.com/paperdesk/doc_tracking_app/internal/platform/config"
)

// GoogleOAuthHandler handles Google sign-in. Accounts are provisioned by a
// superuser; Google only authenticates an existing user by verified email.
type GoogleOAuthHandler struct {
	googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade
	userService        portssvc.UserSvcFacade
	tokenService       portssvc.TokenSvcFacade
	activity           portssvc.ActivityRecorderSvc
	cfg                *config.Config
}

// NewGoogleOAuthHandler creates a new GoogleOAuthHandler.
func NewGoogleOAuthHandler(cfg *config.Config, services *portssvc.ServiceContainer) *GoogleOAuthHandler {
	return &GoogleOAuthHandler{
		googleOAuthService: services.GoogleOAuthHandler,
		userService:        services.User,
		tokenService:       services.TokenService,
		activity:           services.Activity,
		cfg:                cfg,
	}
}

// registerGoogleOAuthRoutes mounts the Google sign-in routes under the public
// auth group.
func registerGoogleOAuthRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := NewGoogleOAuthHandler(cfg, services)

	google := r.Group("/api/v1/auth/google")
	{
		google.GET("/login-url", h.GetLoginURL)
		google.POST("/exchange-code", h.ExchangeCodeGoogle)
	}
}

// LoginURLResponse carries the Google authorization URL and the CSRF state
// the frontend must echo back.
type LoginURLResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

// ExchangeCodeRequest is the authorization code posted back by the frontend.
type ExchangeCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// GetLoginURL godoc
// @Summary Get the Google sign-in URL
// @Description Returns the URL to redirect the user to for Google login, plus a CSRF state token.
// @Tags oauth
// @Produce json
// @Success 200 {object} LoginURLResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/google/login-url [get]
func (h *GoogleOAuthHandler) GetLoginURL(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	state, err := h.googleOAuthService.GenerateStateString(ctx)
	if err != nil {
		logger.Error("Failed to generate OAuth state", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to start Google sign-in"})
		return
	}

	c.JSON(http.StatusOK, LoginURLResponse{
		URL:   h.googleOAuthService.GetGoogleLoginURL(ctx, state),
		State: state,
	})
}

// ExchangeCodeGoogle godoc
// @Summary Exchange a Google authorization code for an access token
// @Description Exchanges the authorization code for Google tokens, validates the ID token, matches the verified email to a provisioned account and returns an application JWT.
// @Tags oauth
// @Accept json
// @Produce json
// @Param code body ExchangeCodeRequest true "Authorization code"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse "Invalid or expired authorization code"
// @Failure 403 {object} ErrorResponse "No account provisioned for this email"
// @Failure 502 {object} ErrorResponse "Google unreachable"
// @Router /auth/google/exchange-code [post]
func (h *GoogleOAuthHandler) ExchangeCodeGoogle(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	var req ExchangeCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	oauth2Token, err := h.googleOAuthService.ExchangeCodeForToken(ctx, req.Code)
	if err != nil {
		logger.Error("Failed to exchange authorization code with Google", slog.String("error", err.Error()))
		if strings.Contains(strings.ToLower(err.Error()), "invalid_grant") {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid or expired authorization code"})
			return
		}
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to reach Google OAuth service"})
		return
	}

	var email string
	var emailVerified bool
	if idTokenString, ok := oauth2Token.Extra("id_token").(string); ok && idTokenString != "" {
		payload, err := h.googleOAuthService.ValidateGoogleIDToken(ctx, idTokenString)
		if err != nil {
			logger.Error("Google ID token validation failed", slog.String("error", err.Error()))
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid Google ID token"})
			return
		}
		email, _ = payload.Claims["email"].(string)
		emailVerified, _ = payload.Claims["email_verified"].(bool)
	} else {
		// Some grant types omit the ID token; fall back to the userinfo endpoint.
		info, err := h.googleOAuthService.GetUserInfo(ctx, oauth2Token)
		if err != nil {
			logger.Error("Failed to fetch Google user info", slog.String("error", err.Error()))
			c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to retrieve user info from Google"})
			return
		}
		email = info.Email
		emailVerified = info.VerifiedEmail
	}

	if email == "" || !emailVerified {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Google account email is not verified"})
		return
	}

	user, err := h.userService.GetUserByEmail(ctx, email)
	if err != nil {
		logger.Warn("Google sign-in for unprovisioned email", slog.String("email", email))
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "No account exists for this Google email"})
		return
	}
	if !user.IsActive {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Account is deactivated"})
		return
	}

	auth := &AuthHandler{
		userService:  h.userService,
		tokenService: h.tokenService,
		activity:     h.activity,
		cfg:          h.cfg,
	}
	accessToken, expiresAt, sessionID, err := auth.issueTokens(c, user)
	if err != nil {
		logger.Error("Failed to issue tokens after Google sign-in", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	h.activity.Record(ctx, domain.ActivityLog{
		UserID:      &user.UserID,
		Type:        domain.ActivityLogin,
		EntityType:  "user",
		EntityID:    user.UserID,
		Description: "user logged in via Google",
		SessionID:   sessionID,
	})

	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:     accessToken,
		ExpiresAt: expiresAt,
		User:      dto.ToUserResponse(user),
	})
}
