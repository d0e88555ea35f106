package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/paperdesk/doc_tracking_app/internal/core/domain"
	portssvc "github.com/paperdesk/doc_tracking_app/internal/core/ports/services"
	"github.com/paperdesk/doc_tracking_app/internal/dto"
	"github.com/paperdesk/doc_tracking_app/internal/middleware"
	"github.com/paperdesk/doc_tracking_app/internal/platform/config"
	"github.com/paperdesk/doc_tracking_app/internal/utils"
)

// AuthHandler handles login, token refresh and logout.
type AuthHandler struct {
	userService  portssvc.UserSvcFacade
	tokenService portssvc.TokenSvcFacade
	activity     portssvc.ActivityRecorderSvc
	cfg          *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(cfg *config.Config, services *portssvc.ServiceContainer) *AuthHandler {
	return &AuthHandler{
		userService:  services.User,
		tokenService: services.TokenService,
		activity:     services.Activity,
		cfg:          cfg,
	}
}

// registerAuthRoutes sets up the authentication routes. Login is rate limited
// per client IP; logout runs behind the auth middleware so the acting session
// is known.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := NewAuthHandler(cfg, services)

	rate, _ := limiter.NewRateFromFormatted("5-M")
	loginLimiter := limiter.New(memory.NewStore(), rate)

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/login", middleware.RateLimit(loginLimiter), h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", middleware.AuthMiddleware(cfg.JWTSecret), h.Logout)
	}
}

// setRefreshCookie writes the raw refresh token into the HttpOnly cookie.
func (h *AuthHandler) setRefreshCookie(c *gin.Context, rawToken string, maxAgeSeconds int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(
		h.cfg.RefreshTokenCookieName,
		rawToken,
		maxAgeSeconds,
		h.cfg.RefreshTokenCookiePath,
		"",
		h.cfg.IsProduction,
		true,
	)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	h.setRefreshCookie(c, "", -1)
}

// issueTokens mints an access token and a rotated refresh token for the user,
// persists the refresh hash, and sets the cookie. Returns the login response.
func (h *AuthHandler) issueTokens(c *gin.Context, user *domain.User) (string, int64, string, error) {
	ctx := c.Request.Context()

	accessToken, expiresAt, sessionID, err := h.tokenService.GenerateAccessToken(ctx, user)
	if err != nil {
		return "", 0, "", err
	}

	rawRefresh, refreshExpiry, err := h.tokenService.GenerateRefreshToken(ctx, user)
	if err != nil {
		return "", 0, "", err
	}
	if err := h.userService.UpdateRefreshToken(ctx, user.UserID, utils.HashRefreshToken(rawRefresh), refreshExpiry); err != nil {
		return "", 0, "", err
	}

	h.setRefreshCookie(c, rawRefresh, int(h.cfg.RefreshTokenExpiryDuration.Seconds()))
	return accessToken, expiresAt.Unix(), sessionID, nil
}

// Login godoc
// @Summary User login
// @Description Authenticates a user and returns a JWT access token. The refresh token is set as an HttpOnly cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse "Rate limit exceeded"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	user, err := h.userService.AuthenticateUser(ctx, req.Username, req.Password)
	if err != nil {
		logger.Warn("Login failed", slog.String("username", req.Username))
		h.activity.Record(ctx, domain.ActivityLog{
			Type:        domain.ActivityLoginFailed,
			EntityType:  "user",
			Description: "failed login for username " + req.Username,
		})
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid username or password"})
		return
	}

	accessToken, expiresAt, sessionID, err := h.issueTokens(c, user)
	if err != nil {
		logger.Error("Failed to issue tokens", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	h.activity.Record(ctx, domain.ActivityLog{
		UserID:      &user.UserID,
		Type:        domain.ActivityLogin,
		EntityType:  "user",
		EntityID:    user.UserID,
		Description: "user logged in",
		SessionID:   sessionID,
	})

	logger.Info("User logged in", slog.String("user_id", user.UserID))
	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:     accessToken,
		ExpiresAt: expiresAt,
		User:      dto.ToUserResponse(user),
	})
}

// Refresh godoc
// @Summary Refresh the access token
// @Description Exchanges the refresh cookie for a new access token. The refresh token is rotated on every use.
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body dto.RefreshRequest true "User whose refresh cookie is presented"
// @Success 200 {object} dto.RefreshResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse "Missing, invalid or expired refresh token"
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	rawRefresh, err := c.Cookie(h.cfg.RefreshTokenCookieName)
	if err != nil || rawRefresh == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Refresh token missing"})
		return
	}

	user, err := h.tokenService.ValidateAndParseRefreshToken(ctx, req.UserID, rawRefresh)
	if err != nil {
		h.clearRefreshCookie(c)
		respondWithError(c, logger, err, "Failed to refresh token")
		return
	}

	accessToken, expiresAt, _, err := h.issueTokens(c, user)
	if err != nil {
		logger.Error("Failed to rotate tokens", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to refresh token"})
		return
	}

	c.JSON(http.StatusOK, dto.RefreshResponse{Token: accessToken, ExpiresAt: expiresAt})
}

// Logout godoc
// @Summary User logout
// @Description Invalidates the stored refresh token and clears the cookie.
// @Tags auth
// @Success 204 "Logged out"
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.userService.ClearRefreshToken(ctx, userID); err != nil {
		logger.Error("Failed to clear refresh token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to log out"})
		return
	}
	h.clearRefreshCookie(c)

	h.activity.Record(ctx, domain.ActivityLog{
		UserID:      &userID,
		Type:        domain.ActivityLogout,
		EntityType:  "user",
		EntityID:    userID,
		Description: "user logged out",
	})

	c.Status(http.StatusNoContent)
}
