package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	jwthelp "github.com/Skotchmaster/hr_records/pkg/jwt"
)

// Manager issues and parses HS256 access and refresh tokens.
// Access and refresh tokens are signed with different secrets.
type Manager struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Now           func() time.Time
}

type Token struct {
	Value     string
	ExpiresAt time.Time
}

func (m *Manager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *Manager) IssueAccessToken(userID, email string) (Token, error) {
	now := m.now()
	exp := now.Add(m.AccessTTL)
	claims := AccessClaims{
		Email: email,
		Type:  typeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        jwthelp.NewJTI(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.AccessSecret)
	if err != nil {
		return Token{}, err
	}
	return Token{Value: signed, ExpiresAt: exp}, nil
}

func (m *Manager) IssueRefreshToken(userID string) (Token, error) {
	now := m.now()
	exp := now.Add(m.RefreshTTL)
	claims := RefreshClaims{
		Type: typeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        jwthelp.NewJTI(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.RefreshSecret)
	if err != nil {
		return Token{}, err
	}
	return Token{Value: signed, ExpiresAt: exp}, nil
}

func (m *Manager) ParseAccess(raw string) (*AccessClaims, error) {
	var claims AccessClaims
	if err := m.parse(raw, &claims, m.AccessSecret); err != nil {
		return nil, err
	}
	if claims.Type != typeAccess || claims.Subject == "" {
		return nil, ErrInvalidSignature
	}
	return &claims, nil
}

func (m *Manager) ParseRefresh(raw string) (*RefreshClaims, error) {
	var claims RefreshClaims
	if err := m.parse(raw, &claims, m.RefreshSecret); err != nil {
		return nil, err
	}
	if claims.Type != typeRefresh || claims.Subject == "" {
		return nil, ErrInvalidSignature
	}
	return &claims, nil
}

func (m *Manager) parse(raw string, claims jwt.Claims, secret []byte) error {
	if raw == "" {
		return ErrInvalidSignature
	}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrInvalidSignature
	}
	if !tkn.Valid {
		return ErrInvalidSignature
	}
	return nil
}
