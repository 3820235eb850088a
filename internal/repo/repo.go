package repo

import (
	"errors"

	"gorm.io/gorm"

	pkgdb "github.com/Skotchmaster/hr_records/pkg/db"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
	// ErrStaleToken means the stored refresh token no longer matches.
	ErrStaleToken = errors.New("stale refresh token")
)

type GormRepo struct {
	DB *gorm.DB
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case pkgdb.IsUniqueViolation(err):
		return ErrDuplicate
	default:
		return err
	}
}
