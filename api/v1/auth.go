package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/staffhub-api/dto"
	"github.com/staffhub-api/services"
)

// RefreshCookie is the httpOnly cookie holding the refresh token
const RefreshCookie = "refresh_token"

// AuthController handles login, token refresh and password endpoints
type AuthController struct {
	auth         *services.AuthService
	refreshTTL   time.Duration
	secureCookie bool
	log          *logrus.Logger
}

// NewAuthController creates a new auth controller
func NewAuthController(auth *services.AuthService, refreshTTL time.Duration, secureCookie bool, log *logrus.Logger) *AuthController {
	return &AuthController{auth: auth, refreshTTL: refreshTTL, secureCookie: secureCookie, log: log}
}

// RegisterPublicRoutes registers the endpoints reachable without a token
func (ac *AuthController) RegisterPublicRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/login", ac.Login)
		auth.POST("/refresh", ac.Refresh)
		auth.POST("/request-forget-password", ac.RequestForgetPassword)
		auth.POST("/reset-password", ac.ResetPassword)
	}
}

// RegisterRoutes registers the endpoints that need an authenticated caller
func (ac *AuthController) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/logout", ac.Logout)
		auth.GET("/account", ac.Account)
		auth.PATCH("/change-password", ac.ChangePassword)
	}
}

// Login handles user authentication
func (ac *AuthController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := bind(c, &req); err != nil {
		respondError(c, ac.log, err)
		return
	}

	resp, err := ac.auth.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, ac.log, err)
		return
	}

	ac.setRefreshCookie(c, resp.RefreshToken)
	respondSuccess(c, http.StatusOK, "Login successfully", resp)
}

// Refresh rotates the token pair using the refresh cookie
func (ac *AuthController) Refresh(c *gin.Context) {
	token, _ := c.Cookie(RefreshCookie)

	resp, err := ac.auth.Refresh(c.Request.Context(), token)
	if err != nil {
		ac.clearRefreshCookie(c)
		respondError(c, ac.log, err)
		return
	}

	ac.setRefreshCookie(c, resp.RefreshToken)
	respondSuccess(c, http.StatusOK, "Refresh token successfully", resp)
}

func (ac *AuthController) Logout(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, ac.log, err)
		return
	}
	if err := ac.auth.Logout(c.Request.Context(), actor); err != nil {
		respondError(c, ac.log, err)
		return
	}
	ac.clearRefreshCookie(c)
	respondSuccess(c, http.StatusOK, "Logout successfully", nil)
}

// Account returns the caller with the permissions the gate resolved
func (ac *AuthController) Account(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, ac.log, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Get account successfully", gin.H{"user": ac.auth.Account(actor)})
}

func (ac *AuthController) ChangePassword(c *gin.Context) {
	actor, err := actorOf(c)
	if err != nil {
		respondError(c, ac.log, err)
		return
	}
	var req dto.ChangePasswordRequest
	if err := bind(c, &req); err != nil {
		respondError(c, ac.log, err)
		return
	}
	if err := ac.auth.ChangePassword(c.Request.Context(), actor, req); err != nil {
		respondError(c, ac.log, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Change password successfully", nil)
}

func (ac *AuthController) RequestForgetPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := bind(c, &req); err != nil {
		respondError(c, ac.log, err)
		return
	}
	if err := ac.auth.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		respondError(c, ac.log, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Reset password email sent", nil)
}

func (ac *AuthController) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := bind(c, &req); err != nil {
		respondError(c, ac.log, err)
		return
	}
	if err := ac.auth.ResetPassword(c.Request.Context(), req); err != nil {
		respondError(c, ac.log, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Reset password successfully", nil)
}

func (ac *AuthController) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(RefreshCookie, token, int(ac.refreshTTL.Seconds()), "/", "", ac.secureCookie, true)
}

func (ac *AuthController) clearRefreshCookie(c *gin.Context) {
	c.SetCookie(RefreshCookie, "", -1, "/", "", ac.secureCookie, true)
}
