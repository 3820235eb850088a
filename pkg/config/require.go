package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
)

// Validate reports every setting that keeps the service from starting.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.DatabaseURL) == "" {
		errs = append(errs, missing("DATABASE_URL"))
	}
	if len(c.JWTAccessSecret) == 0 {
		errs = append(errs, missing("JWT_ACCESS_SECRET"))
	}
	if len(c.JWTRefreshSecret) == 0 {
		errs = append(errs, missing("JWT_REFRESH_SECRET"))
	}
	if len(c.JWTAccessSecret) > 0 && string(c.JWTAccessSecret) == string(c.JWTRefreshSecret) {
		errs = append(errs, errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ"))
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		errs = append(errs, fmt.Errorf("SERVER_PORT %d is out of range", c.ServerPort))
	}
	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		errs = append(errs, errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set together"))
	}
	return errors.Join(errs...)
}

// MustValid stops the process when Validate fails.
func (c Config) MustValid() {
	if err := c.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
}

func missing(env string) error {
	return fmt.Errorf("missing required env %s", env)
}
