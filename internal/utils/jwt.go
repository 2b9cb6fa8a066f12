package utils

import (
	"errors"
	"strconv"
	"time"

	"campusrent/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenIssuer     = "campusrent-api"
	audienceAccess  = "access"
	audienceRefresh = "refresh"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenManager signs and verifies HS256 access and refresh tokens. The two
// kinds are told apart by audience so a refresh token is never accepted as
// an access token.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	nowFn      func() time.Time
}

func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) (*TokenManager, error) {
	if len(secret) < 16 {
		return nil, errors.New("JWT_SECRET must be at least 16 characters")
	}
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		nowFn:      time.Now,
	}, nil
}

// GenerateTokens returns an access and a refresh token for claims.
func (m *TokenManager) GenerateTokens(claims models.UserClaims) (accessToken, refreshToken string, err error) {
	accessToken, err = m.sign(claims, audienceAccess, m.accessTTL)
	if err != nil {
		return "", "", err
	}

	claims.Permissions = nil
	refreshToken, err = m.sign(claims, audienceRefresh, m.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (m *TokenManager) ParseAccessToken(token string) (*models.UserClaims, error) {
	return m.parse(token, audienceAccess)
}

func (m *TokenManager) ParseRefreshToken(token string) (*models.UserClaims, error) {
	return m.parse(token, audienceRefresh)
}

func (m *TokenManager) sign(claims models.UserClaims, audience string, ttl time.Duration) (string, error) {
	now := m.nowFn()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    tokenIssuer,
		Subject:   strconv.FormatUint(uint64(claims.UserID), 10),
		Audience:  jwt.ClaimStrings{audience},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *TokenManager) parse(tokenStr, audience string) (*models.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &models.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(audience),
		jwt.WithTimeFunc(m.nowFn),
	)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*models.UserClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
