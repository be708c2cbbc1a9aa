package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/garage-scheduler/internal/domain"
	"github.com/spec-kit/garage-scheduler/internal/repository"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller, re-derived from the session
// token on every request. Nothing is cached across requests.
type Principal struct {
	User *domain.User
}

// SessionMiddleware resolves identities from the session cookie.
type SessionMiddleware struct {
	tokens     *TokenManager
	users      repository.UserRepository
	cookieName string
}

// NewSessionMiddleware constructs middleware.
func NewSessionMiddleware(tokens *TokenManager, users repository.UserRepository, cookieName string) *SessionMiddleware {
	return &SessionMiddleware{tokens: tokens, users: users, cookieName: cookieName}
}

// CookieName returns the session cookie name handlers should set and clear.
func (m *SessionMiddleware) CookieName() string {
	return m.cookieName
}

// Resolve loads the principal when a valid session cookie is present. Any
// failure (missing cookie, bad signature, expired token, deleted account)
// leaves the request anonymous rather than erroring, so that public routes
// keep working and a deleted account invalidates outstanding tokens.
func (m *SessionMiddleware) Resolve(c *fiber.Ctx) error {
	tokenStr := c.Cookies(m.cookieName)
	if tokenStr == "" {
		return c.Next()
	}

	claims, err := m.tokens.ParseToken(tokenStr)
	if err != nil {
		return c.Next()
	}

	user, err := m.users.GetByID(c.Context(), claims.UserID)
	if err != nil {
		return c.Next()
	}

	c.Locals(principalKey, &Principal{User: user})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
