package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/garage-scheduler/internal/api/dto"
	"github.com/spec-kit/garage-scheduler/internal/domain"
	"github.com/spec-kit/garage-scheduler/internal/service"
	"github.com/spec-kit/garage-scheduler/internal/storage"
	apperrors "github.com/spec-kit/garage-scheduler/pkg/util"
)

const profileImageField = "profile_image"

// AuthHandler exposes registration, login and logout.
type AuthHandler struct {
	auth       *service.AuthService
	uploads    *storage.UploadStore
	cookieName string
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, uploads *storage.UploadStore, cookieName string) *AuthHandler {
	return &AuthHandler{auth: authService, uploads: uploads, cookieName: cookieName}
}

// RegisterForm handles GET /register. Rendering happens client-side; the
// endpoint only anchors the route.
func (h *AuthHandler) RegisterForm(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"page": "register"})
}

// Register handles POST /register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	profileImage := ""
	if file, err := c.FormFile(profileImageField); err == nil && file != nil {
		name, err := h.uploads.SaveProfileImage(file)
		if err != nil {
			return apperrors.MapError(err)
		}
		profileImage = name
	}

	user, err := h.auth.Register(c.Context(), req.Name, req.Email, req.Password, profileImage)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data":        dto.NewUserResponse(user),
		"redirect_to": "/login",
	})
}

// LoginForm handles GET /login.
func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"page": "login", "next": c.Query("next")})
}

// Login handles POST /login: verifies credentials, sets the http-only
// session cookie and reports the role-dependent landing page.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	user, token, exp, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Expires:  exp,
		HTTPOnly: true,
		Path:     "/",
	})

	redirect := c.Query("next")
	if redirect == "" {
		redirect = landingPage(user.Role)
	}
	return c.JSON(fiber.Map{"data": dto.SessionResponse{
		User:       dto.NewUserResponse(user),
		ExpiresAt:  exp,
		RedirectTo: redirect,
	}})
}

// Logout handles GET /logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Path:     "/",
	})
	return c.Redirect("/login", http.StatusFound)
}

func landingPage(role domain.Role) string {
	switch role {
	case domain.RoleAdmin:
		return "/appointments/list"
	case domain.RoleMechanic:
		return "/appointments/mechanic/appointments"
	default:
		return "/dashboard"
	}
}
