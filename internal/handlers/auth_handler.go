package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/salesboard/salesboard/internal/apperr"
	"github.com/salesboard/salesboard/internal/httpx"
	"github.com/salesboard/salesboard/internal/middleware"
	"github.com/salesboard/salesboard/internal/services"
)

var validate = validator.New()

// AuthHandler exposes registration, login and profile endpoints.
type AuthHandler struct {
	auth *services.AuthService
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return apperr.Validation(err.Error())
	}

	result, err := h.auth.Register(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	return httpx.Success(c, fiber.StatusCreated, "User registered successfully", result)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return apperr.Validation(err.Error())
	}

	result, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return httpx.Success(c, fiber.StatusOK, "Login successful", result)
}

func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	userID, ok := c.Locals(middleware.LocalUserID).(primitive.ObjectID)
	if !ok {
		return apperr.Authentication("Authentication required")
	}

	user, err := h.auth.FindByID(c.Context(), userID)
	if err != nil {
		return err
	}

	return httpx.Success(c, fiber.StatusOK, "Profile retrieved", user)
}
