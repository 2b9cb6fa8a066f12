// Package auth signs users in and keeps their sessions revocable through a
// per-user token version.
package auth

import (
	"context"
	"errors"
	"strings"

	apperrors "campusrent/internal/errors"
	"campusrent/internal/logger"
	"campusrent/internal/models"
	"campusrent/internal/repositories"
	"campusrent/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = apperrors.New(apperrors.KindUnauthenticated, "INVALID_CREDENTIALS", "invalid credentials")
	ErrSessionExpired     = apperrors.New(apperrors.KindUnauthenticated, "SESSION_EXPIRED", "session expired")
	ErrAccountDisabled    = apperrors.New(apperrors.KindForbidden, "ACCOUNT_DISABLED", "account is disabled")
)

// dummyHash keeps the cost of a login for an unknown email equal to one
// with a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("campusrent-dummy-password"), bcrypt.DefaultCost)

type Service interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*LoginResult, error)
	Logout(ctx context.Context, userID uint) error
	Authenticate(ctx context.Context, accessToken string) (*models.UserClaims, error)
}

type LoginResult struct {
	User         *models.User `json:"-"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

// UserStore is the subset of repositories.UserRepository auth needs.
type UserStore interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	IncrementTokenVersion(ctx context.Context, userID uint) error
}

type service struct {
	users  UserStore
	tokens *utils.TokenManager
}

func NewService(users UserStore, tokens *utils.TokenManager) Service {
	if users == nil || tokens == nil {
		panic("auth service requires a user store and a token manager")
	}
	return &service{users: users, tokens: tokens}
}

func (s *service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		if errors.Is(err, repositories.ErrUserNotFound) {
			logger.InfoContext(ctx, "login failed: unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		logger.InfoContext(ctx, "login failed: wrong password", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}
	if user.Status != "" && user.Status != "active" {
		return nil, ErrAccountDisabled
	}

	return s.issue(user)
}

func (s *service) RefreshTokens(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrSessionExpired
	}

	user, err := s.currentUser(ctx, claims)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// Logout revokes every token issued so far for the user.
func (s *service) Logout(ctx context.Context, userID uint) error {
	return s.users.IncrementTokenVersion(ctx, userID)
}

// Authenticate verifies an access token and that it has not been revoked.
func (s *service) Authenticate(ctx context.Context, accessToken string) (*models.UserClaims, error) {
	claims, err := s.tokens.ParseAccessToken(accessToken)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}
	if _, err := s.currentUser(ctx, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *service) currentUser(ctx context.Context, claims *models.UserClaims) (*models.User, error) {
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, ErrSessionExpired
	}
	return user, nil
}

func (s *service) issue(user *models.User) (*LoginResult, error) {
	access, refresh, err := s.tokens.GenerateTokens(models.UserClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		Permissions:  models.GetDefaultPermissions(user.Role),
		TokenVersion: user.TokenVersion,
	})
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}
