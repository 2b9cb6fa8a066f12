package handlers

import (
	"strings"

	"campusrent/internal/logger"
	"campusrent/internal/services/auth"
	"campusrent/internal/utils"
	"campusrent/internal/utils/response"
	"campusrent/internal/utils/validation"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login exchanges email and password for an access and refresh token pair.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	v := validation.New()
	v.Check(validation.IsEmail(input.Email), "email", "must be a valid email address")
	v.Check(input.Password != "", "password", "is required")
	if !v.Valid() {
		return response.BadRequest(c, v.Error())
	}

	result, err := h.authService.Login(c.UserContext(), input.Email, input.Password)
	if err != nil {
		logger.Info("login failed", "email", input.Email, "ip", c.IP(), "error", err)
		return response.FromError(c, err)
	}

	return response.Success(c, "Login successful", fiber.Map{
		"accessToken":  result.AccessToken,
		"refreshToken": result.RefreshToken,
		"user": fiber.Map{
			"id":    result.User.ID,
			"email": result.User.Email,
			"name":  result.User.Name,
			"role":  result.User.Role,
		},
	})
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var input struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.BodyParser(&input); err != nil || input.RefreshToken == "" {
		return response.BadRequest(c, "refreshToken is required")
	}

	result, err := h.authService.RefreshTokens(c.UserContext(), input.RefreshToken)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Tokens refreshed", result)
}

// Logout revokes every token issued to the caller.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	if err := h.authService.Logout(c.UserContext(), claims.UserID); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Logged out", nil)
}
