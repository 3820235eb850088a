package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwthelp "github.com/Skotchmaster/hr_records/pkg/jwt"
	"github.com/Skotchmaster/hr_records/pkg/tokens"
)

type gateEnv struct {
	e     *echo.Echo
	tm    *tokens.Manager
	now   time.Time
	users map[string]Identity
}

func newGateEnv(t *testing.T) *gateEnv {
	t.Helper()

	env := &gateEnv{
		e:   echo.New(),
		now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		users: map[string]Identity{
			"u-admin": {UserID: "u-admin", Email: "admin@example.com", Role: "admin"},
			"u-emp":   {UserID: "u-emp", Email: "emp@example.com", Role: "employee"},
		},
	}
	env.tm = &tokens.Manager{
		AccessSecret:  []byte("access"),
		RefreshSecret: []byte("refresh"),
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
		Now:           func() time.Time { return env.now },
	}

	gate := &Gate{
		Tokens: env.tm,
		Lookup: func(_ context.Context, id string) (Identity, error) {
			if id == "u-broken" {
				return Identity{}, errors.New("db down")
			}
			u, ok := env.users[id]
			if !ok {
				return Identity{}, ErrUnknownUser
			}
			return u, nil
		},
	}

	ok := func(c echo.Context) error {
		id, _ := IdentityFrom(c)
		return c.String(http.StatusOK, id.UserID)
	}
	env.e.GET("/me", ok, gate.RequireAuth())
	env.e.GET("/admin", ok, gate.RequireAuth(), RequireAdmin())
	return env
}

func (env *gateEnv) token(t *testing.T, userID string) string {
	t.Helper()
	tok, err := env.tm.IssueAccessToken(userID, userID+"@example.com")
	require.NoError(t, err)
	return tok.Value
}

func (env *gateEnv) do(path string, decorate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if decorate != nil {
		decorate(req)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func bearer(tok string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tok) }
}

func cookie(tok string) func(*http.Request) {
	return func(r *http.Request) { r.AddCookie(&http.Cookie{Name: jwthelp.AccessCookie, Value: tok}) }
}

func TestGate_RequireAuth(t *testing.T) {
	env := newGateEnv(t)

	rec := env.do("/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing access token")

	rec = env.do("/me", cookie(env.token(t, "u-emp")))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-emp", rec.Body.String())

	rec = env.do("/me", bearer(env.token(t, "u-emp")))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do("/me", bearer("garbage"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid access token")

	rec = env.do("/me", bearer(env.token(t, "u-gone")))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do("/me", bearer(env.token(t, "u-broken")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGate_ExpiredAccessToken(t *testing.T) {
	env := newGateEnv(t)
	tok := env.token(t, "u-emp")

	env.now = env.now.Add(2 * time.Minute)
	rec := env.do("/me", bearer(tok))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "access token expired")
}

func TestGate_RefreshTokenIsNotAnAccessToken(t *testing.T) {
	env := newGateEnv(t)
	refresh, err := env.tm.IssueRefreshToken("u-emp")
	require.NoError(t, err)

	rec := env.do("/me", bearer(refresh.Value))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	env := newGateEnv(t)

	rec := env.do("/admin", bearer(env.token(t, "u-emp")))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do("/admin", bearer(env.token(t, "u-admin")))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do("/admin", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole_WithoutIdentity(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	err := RequireRole("admin")(func(c echo.Context) error { return nil })(c)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}
