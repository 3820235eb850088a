package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestManager() (*Manager, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	return &Manager{
		AccessSecret:  []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
		Now:           clock.Now,
	}, clock
}

func TestManager_IssueAccessToken_SetsExpectedClaims(t *testing.T) {
	t.Parallel()

	m, clock := newTestManager()
	userID := uuid.NewString()

	tok, err := m.IssueAccessToken(userID, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, clock.t.Add(15*time.Minute), tok.ExpiresAt)

	claims, err := m.ParseAccess(tok.Value)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.Subject)
	assert.Equal(t, "ann@example.com", claims.Email)
	assert.Equal(t, clock.t, claims.IssuedAt.Time.UTC())
	assert.Equal(t, tok.ExpiresAt, claims.ExpiresAt.Time.UTC())
}

func TestManager_IssueRefreshToken_DistinctWithinSameSecond(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager()
	userID := uuid.NewString()

	a, err := m.IssueRefreshToken(userID)
	require.NoError(t, err)
	b, err := m.IssueRefreshToken(userID)
	require.NoError(t, err)

	assert.NotEqual(t, a.Value, b.Value)

	claims, err := m.ParseRefresh(a.Value)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestManager_Expiry(t *testing.T) {
	t.Parallel()

	m, clock := newTestManager()
	access, err := m.IssueAccessToken("u1", "u1@example.com")
	require.NoError(t, err)
	refresh, err := m.IssueRefreshToken("u1")
	require.NoError(t, err)

	clock.Advance(15*time.Minute - time.Second)
	_, err = m.ParseAccess(access.Value)
	require.NoError(t, err)

	clock.Advance(2 * time.Second)
	_, err = m.ParseAccess(access.Value)
	require.ErrorIs(t, err, ErrTokenExpired)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.ParseRefresh(refresh.Value)
	require.NoError(t, err)

	clock.Advance(7 * 24 * time.Hour)
	_, err = m.ParseRefresh(refresh.Value)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestManager_RejectsForeignTokens(t *testing.T) {
	t.Parallel()

	m, clock := newTestManager()
	access, err := m.IssueAccessToken("u1", "u1@example.com")
	require.NoError(t, err)
	refresh, err := m.IssueRefreshToken("u1")
	require.NoError(t, err)

	other := &Manager{
		AccessSecret:  []byte("other-access"),
		RefreshSecret: []byte("other-refresh"),
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
		Now:           clock.Now,
	}
	forged, err := other.IssueAccessToken("u1", "u1@example.com")
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, AccessClaims{
		Type: typeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(clock.t.Add(time.Hour)),
		},
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		parse func(string) error
		raw   string
	}{
		{name: "empty", parse: parseAccess(m), raw: ""},
		{name: "garbage", parse: parseAccess(m), raw: "not-a-jwt"},
		{name: "wrong secret", parse: parseAccess(m), raw: forged.Value},
		{name: "alg none", parse: parseAccess(m), raw: unsigned},
		{name: "refresh as access", parse: parseAccess(m), raw: refresh.Value},
		{name: "access as refresh", parse: parseRefresh(m), raw: access.Value},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.parse(tt.raw)
			require.ErrorIs(t, err, ErrInvalidSignature)
			require.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func parseAccess(m *Manager) func(string) error {
	return func(raw string) error {
		_, err := m.ParseAccess(raw)
		return err
	}
}

func parseRefresh(m *Manager) func(string) error {
	return func(raw string) error {
		_, err := m.ParseRefresh(raw)
		return err
	}
}
