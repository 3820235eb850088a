package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	jwthelp "github.com/Skotchmaster/hr_records/pkg/jwt"
	"github.com/Skotchmaster/hr_records/pkg/logging"
	"github.com/Skotchmaster/hr_records/pkg/tokens"
)

const (
	claimsKey     = "access_claims"
	tokenErrorKey = "access_token_error"
)

var ErrUnknownUser = errors.New("unknown user")

type Identity struct {
	UserID string
	Email  string
	Role   string
}

// IdentityLookup resolves the subject of a valid access token to its current
// account. It returns ErrUnknownUser when the account is gone.
type IdentityLookup func(ctx context.Context, userID string) (Identity, error)

type Gate struct {
	Tokens       *tokens.Manager
	Lookup       IdentityLookup
	CookieSecure bool
}

// RequireAuth accepts the access token from the accessToken cookie or an
// Authorization: Bearer header and loads the caller into the context.
func (g *Gate) RequireAuth() echo.MiddlewareFunc {
	jwtMW := echojwt.WithConfig(echojwt.Config{
		ContextKey:  claimsKey,
		TokenLookup: "cookie:" + jwthelp.AccessCookie + ",header:Authorization:Bearer ",
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			claims, err := g.Tokens.ParseAccess(auth)
			if err != nil {
				c.Set(tokenErrorKey, err)
				return nil, err
			}
			return claims, nil
		},
		ErrorHandler: g.tokenError,
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return jwtMW(g.loadIdentity(next))
	}
}

func (g *Gate) tokenError(c echo.Context, _ error) error {
	l := logging.FromContext(c.Request().Context()).With("middleware", "auth")

	parseErr, _ := c.Get(tokenErrorKey).(error)
	switch {
	case parseErr == nil:
		l.Warn("auth_failed", "status", 401, "reason", "missing access token")
		return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
	case errors.Is(parseErr, tokens.ErrTokenExpired):
		l.Warn("auth_failed", "status", 401, "reason", "access token expired")
		return echo.NewHTTPError(http.StatusUnauthorized, "access token expired")
	default:
		c.SetCookie(jwthelp.DeleteCookie(jwthelp.AccessCookie, "/", g.CookieSecure))
		l.Warn("auth_failed", "status", 401, "reason", "invalid access token")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
	}
}

func (g *Gate) loadIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("middleware", "auth")

		claims, ok := c.Get(claimsKey).(*tokens.AccessClaims)
		if !ok || claims == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}

		id, err := g.Lookup(ctx, claims.Subject)
		if err != nil {
			if errors.Is(err, ErrUnknownUser) {
				l.Warn("auth_failed", "status", 401, "reason", "user no longer exists", "user_id", claims.Subject)
				return echo.NewHTTPError(http.StatusUnauthorized, "user no longer exists")
			}
			l.Error("auth_failed", "status", 500, "reason", "cannot load user", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot load user")
		}

		SetIdentity(c, id)
		c.SetRequest(c.Request().WithContext(logging.With(ctx, "user_id", id.UserID, "role", id.Role)))
		return next(c)
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("role").(string)
			if !ok || role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}
			if !slices.Contains(roles, role) {
				logging.FromContext(c.Request().Context()).Warn("access_denied", "status", 403, "role", role, "required", roles)
				return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")
			}
			return next(c)
		}
	}
}

func RequireAdmin() echo.MiddlewareFunc {
	return RequireRole("admin")
}

func SetIdentity(c echo.Context, id Identity) {
	c.Set("user", id)
	c.Set("user_id", id.UserID)
	c.Set("role", id.Role)
}

func IdentityFrom(c echo.Context) (Identity, bool) {
	id, ok := c.Get("user").(Identity)
	return id, ok
}
