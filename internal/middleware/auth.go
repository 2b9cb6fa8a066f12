// Package middleware provides the fiber middleware that authenticates
// requests and checks permissions.
package middleware

import (
	"strings"

	"campusrent/internal/logger"
	"campusrent/internal/models"
	"campusrent/internal/services/auth"
	"campusrent/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware validates the bearer token and stores its claims in
// c.Locals("claims").
type AuthMiddleware struct {
	authService auth.Service
}

func NewAuthMiddleware(authService auth.Service) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return response.Error(c, fiber.StatusUnauthorized, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return response.Error(c, fiber.StatusUnauthorized, "invalid authorization format")
	}

	claims, err := m.authService.Authenticate(c.UserContext(), strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		logger.Debug("token rejected", "path", c.Path(), "error", err)
		return response.FromError(c, err)
	}

	c.Locals("claims", claims)
	c.Locals("userID", claims.UserID)
	return c.Next()
}

// AdminOnly requires the admin role.
func AdminOnly(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return response.Unauthorized(c)
	}
	if claims.Role != models.RoleAdmin {
		logger.Warn("admin access denied", "user_id", claims.UserID, "role", claims.Role, "path", c.Path())
		return response.Forbidden(c)
	}
	return c.Next()
}

// HasPermission requires permission in the token; admins pass every check.
func HasPermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("claims").(*models.UserClaims)
		if !ok {
			return response.Unauthorized(c)
		}
		if claims.Role == models.RoleAdmin || claims.HasPermission(permission) {
			return c.Next()
		}
		return response.Forbidden(c)
	}
}
