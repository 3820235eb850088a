package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Skotchmaster/hr_records/internal/limiter"
	"github.com/Skotchmaster/hr_records/internal/models"
	"github.com/Skotchmaster/hr_records/internal/repo"
	"github.com/Skotchmaster/hr_records/pkg/events"
	pkg_hash "github.com/Skotchmaster/hr_records/pkg/hash"
	"github.com/Skotchmaster/hr_records/pkg/logging"
	"github.com/Skotchmaster/hr_records/pkg/tokens"
)

const msgBadCredentials = "invalid email or password"

type AuthService struct {
	Repo    *repo.GormRepo
	Hasher  *pkg_hash.Hasher
	Tokens  *tokens.Manager
	Limiter *limiter.LoginLimiter
	Events  events.Publisher
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

type LoginResult struct {
	User *models.User
	TokenPair
}

func (s *AuthService) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	email = models.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, fail(ErrValidation, "email and password are required")
	}

	pwHash, err := s.Hasher.Hash(password)
	if err != nil {
		if errors.Is(err, pkg_hash.ErrPasswordTooLong) {
			return nil, fail(ErrValidation, "password is too long")
		}
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, fail(ErrInternal, "cannot register user")
	}

	user := &models.User{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: pwHash,
		Role:         models.RoleEmployee,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			l.Warn("register_error", "status", 409, "reason", "user already exist")
			return nil, fail(ErrConflict, "user with this email already exists")
		}
		l.Error("register_error", "status", 500, "reason", "cannot create user", "error", err)
		return nil, fail(ErrInternal, "cannot register user")
	}

	s.publish(ctx, user.ID, events.UserEvent{Type: events.UserRegistered, UserID: user.ID, Email: user.Email, Role: user.Role})
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = models.NormalizeEmail(email)
	l := logging.FromContext(ctx).With("svc", "auth.login", "email", email)

	if email == "" || password == "" {
		return nil, fail(ErrValidation, "email and password are required")
	}

	if err := s.Limiter.Check(ctx, email); err != nil {
		if errors.Is(err, limiter.ErrLoginRateLimited) {
			l.Warn("login_failed", "status", 429, "reason", "too many failed attempts")
			return nil, fail(ErrRateLimited, "too many failed login attempts, try again later")
		}
		l.Warn("login_limiter_unavailable", "error", err)
	}

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, fail(ErrInternal, "cannot log in")
	}
	if user == nil || !s.Hasher.Verify(user.PasswordHash, password) {
		if ferr := s.Limiter.Fail(ctx, email); ferr != nil {
			l.Warn("login_limiter_unavailable", "error", ferr)
		}
		l.Warn("login_failed", "status", 401, "reason", msgBadCredentials)
		return nil, fail(ErrUnauthorized, msgBadCredentials)
	}

	pair, err := s.issuePair(user)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot sign tokens", "error", err)
		return nil, fail(ErrInternal, "cannot generate tokens")
	}

	if err := s.Repo.SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot store refresh token", "error", err)
		return nil, fail(ErrInternal, "cannot generate tokens")
	}

	if err := s.Limiter.Reset(ctx, email); err != nil {
		l.Warn("login_limiter_unavailable", "error", err)
	}

	s.publish(ctx, user.ID, events.UserEvent{Type: events.UserLoggedIn, UserID: user.ID, Email: user.Email})
	return &LoginResult{User: user, TokenPair: *pair}, nil
}

// LogOut drops the stored refresh token. Repeated calls succeed.
func (s *AuthService) LogOut(ctx context.Context, userID string) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout")

	if err := s.Repo.ClearRefreshToken(ctx, userID); err != nil {
		l.Error("logout_failed", "status", 500, "reason", "cannot revoke refreshToken", "error", err)
		return fail(ErrInternal, "cannot log out")
	}

	s.publish(ctx, userID, events.UserEvent{Type: events.UserLoggedOut, UserID: userID})
	return nil
}

// Refresh exchanges the stored refresh token for a new pair. The old token
// stops working as soon as the new one is stored.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, fail(ErrUnauthorized, "unauthorized request")
	}

	claims, err := s.Tokens.ParseRefresh(refreshToken)
	if err != nil {
		if errors.Is(err, tokens.ErrTokenExpired) {
			l.Warn("refresh_failed", "status", 401, "reason", "refresh token expired")
			return nil, fail(ErrUnauthorized, "refresh token expired")
		}
		l.Warn("refresh_failed", "status", 401, "reason", "invalid refresh token", "error", err)
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.Repo.GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("refresh_failed", "status", 401, "reason", "user not found")
			return nil, ErrInvalidRefreshToken
		}
		l.Error("refresh_failed", "status", 500, "error", err)
		return nil, fail(ErrInternal, "cannot refresh tokens")
	}

	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		l.Warn("refresh_failed", "status", 401, "reason", "refresh token is expired or used")
		return nil, ErrInvalidRefreshToken
	}

	pair, err := s.issuePair(user)
	if err != nil {
		l.Error("refresh_failed", "status", 500, "reason", "cannot sign tokens", "error", err)
		return nil, fail(ErrInternal, "cannot generate tokens")
	}

	if err := s.Repo.RotateRefreshToken(ctx, user.ID, refreshToken, pair.RefreshToken); err != nil {
		if errors.Is(err, repo.ErrStaleToken) {
			l.Warn("refresh_failed", "status", 401, "reason", "refresh token rotated concurrently")
			return nil, ErrInvalidRefreshToken
		}
		l.Error("refresh_failed", "status", 500, "reason", "cannot store refresh token", "error", err)
		return nil, fail(ErrInternal, "cannot generate tokens")
	}

	return pair, nil
}

func (s *AuthService) issuePair(user *models.User) (*TokenPair, error) {
	access, err := s.Tokens.IssueAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	refresh, err := s.Tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access.Value,
		RefreshToken: refresh.Value,
		AccessExp:    access.ExpiresAt,
		RefreshExp:   refresh.ExpiresAt,
	}, nil
}

func (s *AuthService) publish(ctx context.Context, key string, ev events.UserEvent) {
	publish(ctx, s.Events, events.TopicUser, key, ev.Type, func() any {
		ev.At = time.Now().UTC()
		return ev
	})
}

// EnsureAdmin creates the bootstrap administrator, or promotes an existing
// account with that email.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	l := logging.FromContext(ctx).With("svc", "auth.ensure_admin")

	existing, err := s.Repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role == models.RoleAdmin {
			return nil
		}
		_, err = s.Repo.UpdateUserRole(ctx, existing.ID, models.RoleAdmin)
		if err == nil {
			l.Info("admin_promoted", "user_id", existing.ID)
		}
		return err
	case !errors.Is(err, repo.ErrNotFound):
		return err
	}

	pwHash, err := s.Hasher.Hash(password)
	if err != nil {
		return err
	}
	admin := &models.User{Email: email, Name: "admin", PasswordHash: pwHash, Role: models.RoleAdmin}
	if err := s.Repo.CreateUser(ctx, admin); err != nil {
		return err
	}
	l.Info("admin_created", "user_id", admin.ID)
	return nil
}
