package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/piiquante/sauce-service/internal/api/dto"
	"github.com/piiquante/sauce-service/internal/auth"
	"github.com/piiquante/sauce-service/internal/domain"
	"github.com/piiquante/sauce-service/internal/service"
)

// UsersHandler exposes signup, login and the current account.
type UsersHandler struct {
	auth *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService}
}

// Signup handles POST /api/auth/signup.
func (h *UsersHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	res, err := h.auth.Signup(c.UserContext(), service.SignupInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewAuthResponse(res))
}

// Login handles POST /api/auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	res, err := h.auth.Login(c.UserContext(), service.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		ClientKey: c.IP(),
	})
	var throttled *service.LoginThrottledError
	if errors.As(err, &throttled) {
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(throttled.RetryAfter.Seconds()))))
		return err
	}
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAuthResponse(res))
}

// Me handles GET /api/auth/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	accountID, ok := auth.AccountIDFromContext(c)
	if !ok {
		return domain.ErrUnauthorized
	}
	account, err := h.auth.Account(c.UserContext(), accountID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAccountResponse(account))
}
