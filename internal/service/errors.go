package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation   = errors.New("validation")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrRateLimited  = errors.New("rate limited")
	ErrUnavailable  = errors.New("unavailable")
	ErrInternal     = errors.New("internal")

	ErrInvalidRefreshToken = fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
)

var kinds = []error{
	ErrValidation,
	ErrUnauthorized,
	ErrForbidden,
	ErrNotFound,
	ErrConflict,
	ErrRateLimited,
	ErrUnavailable,
	ErrInternal,
}

// Kind returns the sentinel err belongs to, or ErrInternal.
func Kind(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return ErrInternal
}

// Reason is the client-facing part of err, without the sentinel prefix.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	k := Kind(err)
	msg := err.Error()
	if r, ok := strings.CutPrefix(msg, k.Error()+": "); ok {
		return r
	}
	if k == ErrInternal {
		return "internal server error"
	}
	return msg
}

func fail(kind error, reason string) error {
	return fmt.Errorf("%w: %s", kind, reason)
}
