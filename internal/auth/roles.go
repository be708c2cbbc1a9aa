package auth

import (
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/garage-scheduler/internal/domain"
	apperrors "github.com/spec-kit/garage-scheduler/pkg/util"
)

// RequireAuthenticated redirects anonymous callers to the login page,
// preserving the originally requested path for post-login redirect.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return redirectToLogin(c)
		}
		return c.Next()
	}
}

// RequireRole ensures the caller holds one of the allowed roles. Membership
// is exact equality per role: listing mechanic does not admit admin unless
// admin is listed too.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.User == nil {
			return redirectToLogin(c)
		}
		if _, exists := allowedSet[principal.User.Role]; !exists {
			return apperrors.NewForbidden("access denied")
		}
		return c.Next()
	}
}

func redirectToLogin(c *fiber.Ctx) error {
	return c.Redirect("/login?next="+url.QueryEscape(c.OriginalURL()), http.StatusFound)
}
