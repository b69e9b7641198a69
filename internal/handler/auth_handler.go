package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/ssp-go-api/internal/dto"
	"github.com/noah-isme/ssp-go-api/internal/service"
	"github.com/noah-isme/ssp-go-api/internal/utils"
)

// AuthHandler exposes the student and staff login paths and token rotation.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register wires auth routes. The login routes are expected to sit behind a rate limiter.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/student/login", h.studentLogin)
	router.Post("/staff/login", h.staffLogin)
	router.Post("/refresh", h.refresh)
	router.Post("/logout", h.logout)
}

func (h *AuthHandler) studentLogin(c *fiber.Ctx) error {
	var payload dto.StudentLoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidPayload(c)
	}

	result, err := h.service.StudentLogin(c.UserContext(), payload)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "login successful", result)
}

func (h *AuthHandler) staffLogin(c *fiber.Ctx) error {
	var payload dto.StaffLoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidPayload(c)
	}

	result, err := h.service.StaffLogin(c.UserContext(), payload)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "login successful", result)
}

func (h *AuthHandler) refresh(c *fiber.Ctx) error {
	var payload dto.RefreshRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidPayload(c)
	}

	result, err := h.service.Refresh(c.UserContext(), payload)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "token refreshed", result)
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	var payload dto.RefreshRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidPayload(c)
	}

	if err := h.service.Logout(c.UserContext(), payload); err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "logged out", nil)
}
