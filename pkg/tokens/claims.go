package tokens

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

const (
	typeAccess  = "access"
	typeRefresh = "refresh"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = fmt.Errorf("%w: token expired", ErrInvalidToken)
	ErrInvalidSignature = fmt.Errorf("%w: invalid signature", ErrInvalidToken)
)

type AccessClaims struct {
	Email string `json:"email"`
	Type  string `json:"typ"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	Type string `json:"typ"`
	jwt.RegisteredClaims
}
