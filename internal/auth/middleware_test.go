package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/garage-scheduler/internal/domain"
	apperrors "github.com/spec-kit/garage-scheduler/pkg/util"
)

// stubUserRepo serves exactly one user by ID.
type stubUserRepo struct {
	user *domain.User
}

func (r *stubUserRepo) Create(context.Context, *domain.User) error { return nil }
func (r *stubUserRepo) Update(context.Context, *domain.User) error { return nil }
func (r *stubUserRepo) Delete(context.Context, string) error       { return nil }

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if r.user != nil && r.user.ID == id {
		return r.user, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *stubUserRepo) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, pgx.ErrNoRows
}

func (r *stubUserRepo) FindAdmin(context.Context) (*domain.User, error) {
	return nil, pgx.ErrNoRows
}

func (r *stubUserRepo) ListByRole(context.Context, domain.Role) ([]domain.User, error) {
	return nil, nil
}

func sessionTestApp(repo *stubUserRepo, tokens *TokenManager, guards ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var domainErr *apperrors.DomainError
			if errors.As(err, &domainErr) {
				return c.Status(domainErr.HTTPStatus).SendString(domainErr.Code)
			}
			return fiber.DefaultErrorHandler(c, err)
		},
	})
	mw := NewSessionMiddleware(tokens, repo, "garage_session")
	app.Use(mw.Resolve)

	handlers := append(guards, func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return c.SendString("anonymous")
		}
		return c.SendString(principal.User.Name)
	})
	app.Get("/probe", handlers...)
	return app
}

func sessionRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "garage_session", Value: token})
	}
	return req
}

func TestResolveLoadsPrincipalFromCookie(t *testing.T) {
	tokens := NewTokenManager("secret", time.Hour)
	user := &domain.User{ID: "u-1", Name: "Alice", Role: domain.RoleCustomer}
	repo := &stubUserRepo{user: user}

	token, _, err := tokens.GenerateToken(user)
	require.NoError(t, err)

	app := sessionTestApp(repo, tokens)
	resp, err := app.Test(sessionRequest(token))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := make([]byte, 64)
	n, _ := resp.Body.Read(body)
	assert.Equal(t, "Alice", string(body[:n]))
}

func TestResolveAnonymousWithoutCookie(t *testing.T) {
	tokens := NewTokenManager("secret", time.Hour)
	app := sessionTestApp(&stubUserRepo{}, tokens)

	resp, err := app.Test(sessionRequest(""))
	require.NoError(t, err)
	defer resp.Body.Close()

	body := make([]byte, 64)
	n, _ := resp.Body.Read(body)
	assert.Equal(t, "anonymous", string(body[:n]))
}

func TestResolveAnonymousWhenAccountDeleted(t *testing.T) {
	tokens := NewTokenManager("secret", time.Hour)
	user := &domain.User{ID: "u-1", Name: "Alice", Role: domain.RoleCustomer}

	token, _, err := tokens.GenerateToken(user)
	require.NoError(t, err)

	// Repo no longer has the user: a live token dies on re-fetch.
	app := sessionTestApp(&stubUserRepo{}, tokens)
	resp, err := app.Test(sessionRequest(token))
	require.NoError(t, err)
	defer resp.Body.Close()

	body := make([]byte, 64)
	n, _ := resp.Body.Read(body)
	assert.Equal(t, "anonymous", string(body[:n]))
}

func TestResolveAnonymousWithBadToken(t *testing.T) {
	tokens := NewTokenManager("secret", time.Hour)
	forged := NewTokenManager("other-secret", time.Hour)
	user := &domain.User{ID: "u-1", Name: "Alice", Role: domain.RoleCustomer}
	repo := &stubUserRepo{user: user}

	token, _, err := forged.GenerateToken(user)
	require.NoError(t, err)

	app := sessionTestApp(repo, tokens)
	resp, err := app.Test(sessionRequest(token))
	require.NoError(t, err)
	defer resp.Body.Close()

	body := make([]byte, 64)
	n, _ := resp.Body.Read(body)
	assert.Equal(t, "anonymous", string(body[:n]))
}

func TestRequireAuthenticatedRedirectsAnonymous(t *testing.T) {
	tokens := NewTokenManager("secret", time.Hour)
	app := sessionTestApp(&stubUserRepo{}, tokens, RequireAuthenticated())

	req := httptest.NewRequest(http.MethodGet, "/probe?tab=active", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login?next=%2Fprobe%3Ftab%3Dactive", resp.Header.Get("Location"))
}

func TestRequireRoleExactMembership(t *testing.T) {
	tokens := NewTokenManager("secret", time.Hour)
	admin := &domain.User{ID: "u-1", Name: "Root", Role: domain.RoleAdmin}
	repo := &stubUserRepo{user: admin}

	token, _, err := tokens.GenerateToken(admin)
	require.NoError(t, err)

	// Admin is not admitted by a mechanic-only guard.
	app := sessionTestApp(repo, tokens, RequireRole(domain.RoleMechanic))
	resp, err := app.Test(sessionRequest(token))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Listing the role explicitly admits it.
	app = sessionTestApp(repo, tokens, RequireRole(domain.RoleMechanic, domain.RoleAdmin))
	resp, err = app.Test(sessionRequest(token))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRoleRedirectsAnonymous(t *testing.T) {
	tokens := NewTokenManager("secret", time.Hour)
	app := sessionTestApp(&stubUserRepo{}, tokens, RequireRole(domain.RoleAdmin))

	resp, err := app.Test(sessionRequest(""))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}
