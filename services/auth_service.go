package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/staffhub-api/access"
	"github.com/staffhub-api/common"
	"github.com/staffhub-api/config"
	"github.com/staffhub-api/dto"
	"github.com/staffhub-api/mailer"
	"github.com/staffhub-api/models"
	"github.com/staffhub-api/utils"
)

// AuthService handles login, token refresh and password flows
type AuthService struct {
	cfg         *config.Config
	users       userStore
	roles       roleStore
	permissions permissionStore
	tokens      *TokenService
	mail        mailer.Sender
	log         *logrus.Logger
}

// NewAuthService creates a new auth service instance
func NewAuthService(cfg *config.Config, users userStore, roles roleStore, permissions permissionStore,
	tokens *TokenService, mail mailer.Sender, log *logrus.Logger) *AuthService {
	return &AuthService{
		cfg:         cfg,
		users:       users,
		roles:       roles,
		permissions: permissions,
		tokens:      tokens,
		mail:        mail,
		log:         log,
	}
}

// Login authenticates a user and issues an access/refresh token pair
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrRecordNotFound) {
			return nil, common.Unauthorized("Invalid email or password")
		}
		return nil, common.Internal(err)
	}
	if !utils.CheckPassword(user.Password, req.Password) {
		return nil, common.Unauthorized("Invalid email or password")
	}
	return s.issue(ctx, user)
}

// Refresh exchanges a stored refresh token for a new token pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	invalid := common.Unauthorized("Refresh token is invalid, please login")
	if refreshToken == "" {
		return nil, invalid
	}
	var claims dto.TokenClaims
	if err := s.tokens.Verify(refreshToken, s.cfg.JWTRefreshSecret, &claims); err != nil {
		return nil, invalid
	}
	user, err := s.users.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrRecordNotFound) {
			return nil, invalid
		}
		return nil, common.Internal(err)
	}
	return s.issue(ctx, user)
}

// Logout forgets the caller's refresh token
func (s *AuthService) Logout(ctx context.Context, actor access.Actor) error {
	if err := s.users.SetRefreshToken(ctx, actor.ID, ""); err != nil {
		return storeError(err, "Not found user")
	}
	return nil
}

// Account describes the caller as seen by the auth gate
func (s *AuthService) Account(actor access.Actor) dto.AccountView {
	return dto.AccountView{
		ID:          actor.ID,
		Name:        actor.Name,
		Email:       actor.Email,
		RoleID:      actor.RoleID,
		RoleName:    actor.Role.String(),
		Permissions: actor.Permissions,
	}
}

// ValidateAccessToken verifies a bearer token and returns its claims
func (s *AuthService) ValidateAccessToken(token string) (*dto.TokenClaims, error) {
	var claims dto.TokenClaims
	if err := s.tokens.Verify(token, s.cfg.JWTAccessSecret, &claims); err != nil {
		return nil, common.Unauthorized("Token is invalid or expired")
	}
	if claims.UserID == "" {
		return nil, common.Unauthorized("Token is invalid or expired")
	}
	return &claims, nil
}

// ResolveActor reloads the user's current role and permissions
func (s *AuthService) ResolveActor(ctx context.Context, userID string) (access.Actor, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrRecordNotFound) {
			return access.Actor{}, common.Unauthorized("User no longer exists")
		}
		return access.Actor{}, common.Internal(err)
	}
	role, permissions, err := s.roleOf(ctx, user)
	if err != nil {
		return access.Actor{}, err
	}
	parsed, err := access.ParseRole(role.Name)
	if err != nil {
		return access.Actor{}, err
	}
	return access.Actor{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		RoleID:      role.ID,
		Role:        parsed,
		Permissions: permissions,
	}, nil
}

// ChangePassword replaces the caller's password after checking the old one
func (s *AuthService) ChangePassword(ctx context.Context, actor access.Actor, req dto.ChangePasswordRequest) error {
	user, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return storeError(err, "Not found user")
	}
	if !utils.CheckPassword(user.Password, req.OldPassword) {
		return common.Validation("Old password is not correct")
	}
	if req.NewPassword != req.ReNewPassword {
		return common.Validation("New password and re-new password does not match")
	}
	return s.setPassword(ctx, user.ID, req.NewPassword)
}

// RequestPasswordReset emails a short-lived reset link
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return storeError(err, "Not found user")
	}
	claims := dto.TokenClaims{
		UserID:           user.ID,
		Email:            user.Email,
		RegisteredClaims: s.tokens.Registered(user.ID, s.cfg.JWTForgotTTL),
	}
	token, err := s.tokens.Sign(claims, s.cfg.JWTForgotSecret)
	if err != nil {
		return common.Internal(err)
	}
	link := strings.TrimRight(s.cfg.FrontendURL, "/") + "/reset-password?token=" + token
	msg, err := mailer.ResetPassword(user.Email, user.Name, link)
	if err != nil {
		return common.Internal(err)
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		return common.Internal(err)
	}
	return nil
}

// ResetPassword sets a new password using a reset token
func (s *AuthService) ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) error {
	if req.NewPassword != req.ReNewPassword {
		return common.Validation("New password and re-new password does not match")
	}
	var claims dto.TokenClaims
	if err := s.tokens.Verify(stripTokenPrefix(req.Token), s.cfg.JWTForgotSecret, &claims); err != nil {
		return common.Unauthorized("Reset token is invalid or expired")
	}
	if _, err := s.users.FindByID(ctx, claims.UserID); err != nil {
		return storeError(err, "Not found user")
	}
	return s.setPassword(ctx, claims.UserID, req.NewPassword)
}

func (s *AuthService) setPassword(ctx context.Context, userID, plain string) error {
	hash, err := utils.HashPassword(plain)
	if err != nil {
		return common.Internal(err)
	}
	if err := s.users.SetPassword(ctx, userID, hash); err != nil {
		return storeError(err, "Not found user")
	}
	return nil
}

// issue signs a new token pair and stores the refresh token on the user
func (s *AuthService) issue(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	role, permissions, err := s.roleOf(ctx, user)
	if err != nil {
		return nil, err
	}

	claims := dto.TokenClaims{
		UserID:   user.ID,
		Name:     user.Name,
		Email:    user.Email,
		RoleID:   role.ID,
		RoleName: role.Name,
	}

	claims.RegisteredClaims = s.tokens.Registered(user.ID, s.cfg.JWTAccessTTL)
	accessToken, err := s.tokens.Sign(claims, s.cfg.JWTAccessSecret)
	if err != nil {
		return nil, common.Internal(err)
	}

	claims.RegisteredClaims = s.tokens.Registered(user.ID, s.cfg.JWTRefreshTTL)
	refreshToken, err := s.tokens.Sign(claims, s.cfg.JWTRefreshSecret)
	if err != nil {
		return nil, common.Internal(err)
	}
	if err := s.users.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, common.Internal(err)
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "role": role.Name}).Info("🔑 Token issued")

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: dto.AccountView{
			ID:          user.ID,
			Name:        user.Name,
			Email:       user.Email,
			RoleID:      role.ID,
			RoleName:    role.Name,
			Permissions: permissions,
		},
	}, nil
}

func (s *AuthService) roleOf(ctx context.Context, user *models.User) (*models.Role, []models.Permission, error) {
	role, err := s.roles.FindByID(ctx, user.RoleID)
	if err != nil {
		if errors.Is(err, common.ErrRecordNotFound) {
			return nil, nil, common.InvalidRole(user.RoleID)
		}
		return nil, nil, common.Internal(err)
	}
	permissions, err := s.permissions.FindByIDs(ctx, role.PermissionIDs)
	if err != nil {
		return nil, nil, common.Internal(err)
	}
	return role, permissions, nil
}

// stripTokenPrefix removes a "Bearer ", "Token " or "JWT " scheme prefix
func stripTokenPrefix(token string) string {
	token = strings.TrimSpace(token)
	for _, prefix := range []string{"Bearer ", "Token ", "JWT "} {
		if len(token) >= len(prefix) && strings.EqualFold(token[:len(prefix)], prefix) {
			return strings.TrimSpace(token[len(prefix):])
		}
	}
	return token
}
