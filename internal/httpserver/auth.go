package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/hr_records/internal/service"
	"github.com/Skotchmaster/hr_records/internal/transport"
	jwthelp "github.com/Skotchmaster/hr_records/pkg/jwt"
	"github.com/Skotchmaster/hr_records/pkg/logging"
	middleware "github.com/Skotchmaster/hr_records/pkg/middleware/auth"
)

type AuthHTTP struct {
	Svc          *service.AuthService
	CookieSecure bool
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return err
	}

	user, err := h.Svc.Register(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		return fromService(l, "register_error", err)
	}

	l.Info("register_successful", "user_id", user.ID)
	return respond(c, http.StatusCreated, user, "User registered successfully")
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return err
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return fromService(l, "login_failed", err)
	}

	h.setTokenCookies(c, res.AccessToken, res.AccessExp, res.RefreshToken, res.RefreshExp)
	l.Info("login_successful", "user_id", res.User.ID)

	return respond(c, http.StatusOK, transport.LoginData{
		User:         res.User,
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
	}, "User logged in successfully")
}

func (h *AuthHTTP) LogOut(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	err := h.Svc.LogOut(ctx, id.UserID)
	h.clearTokenCookies(c)
	if err != nil {
		return fromService(l, "logout_failed", err)
	}

	l.Info("successful_logout", "user_id", id.UserID)
	return respond(c, http.StatusOK, echo.Map{}, "User logged out")
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	var raw string
	if ck, err := c.Cookie(jwthelp.RefreshCookie); err == nil && ck.Value != "" {
		raw = ck.Value
	} else {
		var req transport.RefreshRequest
		if err := c.Bind(&req); err != nil {
			l.Warn("refresh_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
		}
		raw = req.RefreshToken
	}

	pair, err := h.Svc.Refresh(ctx, raw)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			h.clearTokenCookies(c)
		}
		return fromService(l, "refresh_failed", err)
	}

	h.setTokenCookies(c, pair.AccessToken, pair.AccessExp, pair.RefreshToken, pair.RefreshExp)
	l.Info("refresh_successful")

	return respond(c, http.StatusOK, transport.TokenData{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "Access token refreshed")
}

func (h *AuthHTTP) setTokenCookies(c echo.Context, access string, accessExp time.Time, refresh string, refreshExp time.Time) {
	c.SetCookie(jwthelp.CreateCookie(jwthelp.AccessCookie, access, "/", accessExp, h.CookieSecure))
	c.SetCookie(jwthelp.CreateCookie(jwthelp.RefreshCookie, refresh, "/", refreshExp, h.CookieSecure))
}

func (h *AuthHTTP) clearTokenCookies(c echo.Context) {
	c.SetCookie(jwthelp.DeleteCookie(jwthelp.AccessCookie, "/", h.CookieSecure))
	c.SetCookie(jwthelp.DeleteCookie(jwthelp.RefreshCookie, "/", h.CookieSecure))
}
