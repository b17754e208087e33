// Package auth implements the request-time authorization gate: bearer extraction, token
// validation, identity resolution from the store and role enforcement.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/userauth/internal/apperr"
	"github.com/Skotchmaster/userauth/internal/logging"
	"github.com/Skotchmaster/userauth/internal/models"
	"github.com/Skotchmaster/userauth/internal/tokens"
)

const userKey = "auth_user"

const (
	msgInvalidToken = "Invalid token"
	msgForbidden    = "Forbidden"
)

type TokenValidator interface {
	Validate(token string) (*tokens.Claims, error)
}

type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type Gate struct {
	Tokens TokenValidator
	Users  UserFinder
}

func NewGate(tokens TokenValidator, users UserFinder) *Gate {
	return &Gate{Tokens: tokens, Users: users}
}

// RequireAuth admits any authenticated user.
func (g *Gate) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return g.require(next, nil)
}

// RequireRole admits only users whose current stored role equals role.
func (g *Gate) RequireRole(role models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return g.require(next, &role)
	}
}

func (g *Gate) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return g.RequireRole(models.RoleAdmin)(next)
}

func (g *Gate) require(next echo.HandlerFunc, role *models.Role) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("mw", "auth_gate")

		raw, ok := BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			l.Debug("auth_rejected", "status", 401, "reason", "missing bearer token")
			return echo.NewHTTPError(http.StatusUnauthorized, msgInvalidToken)
		}

		claims, err := g.Tokens.Validate(raw)
		if err != nil {
			l.Info("auth_rejected", "status", 401, "reason", "invalid token")
			return echo.NewHTTPError(http.StatusUnauthorized, msgInvalidToken)
		}

		user, err := g.Users.FindByEmail(ctx, claims.Subject)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				l.Info("auth_rejected", "status", 401, "reason", "subject not found")
				return echo.NewHTTPError(http.StatusUnauthorized, msgInvalidToken)
			}
			l.Error("auth_error", "status", 500, "reason", "cannot resolve user", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)).SetInternal(err)
		}

		if role != nil && user.Role != *role {
			l.Info("auth_rejected", "status", 403, "reason", "role mismatch", "user_id", user.ID, "required", role.String())
			return echo.NewHTTPError(http.StatusForbidden, msgForbidden)
		}

		setUserContext(c, user)
		return next(c)
	}
}

// BearerToken extracts the credential from an Authorization header value.
// The scheme is matched case-insensitively and the token must be non-empty.
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

func setUserContext(c echo.Context, user *models.User) {
	c.Set(userKey, user)

	req := c.Request()
	l := logging.FromContext(req.Context()).With("user_id", user.ID)
	c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))
}

// UserFrom returns the user admitted by the gate, or nil outside a gated route.
func UserFrom(c echo.Context) *models.User {
	u, _ := c.Get(userKey).(*models.User)
	return u
}
