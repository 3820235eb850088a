package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Skotchmaster/hr_records/internal/models"
	"github.com/Skotchmaster/hr_records/internal/repo"
	"github.com/Skotchmaster/hr_records/pkg/events"
	"github.com/Skotchmaster/hr_records/pkg/logging"
)

type UserService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fail(ErrNotFound, "user not found")
		}
		logging.FromContext(ctx).Error("get_user_failed", "status", 500, "error", err)
		return nil, fail(ErrInternal, "cannot load user")
	}
	return user, nil
}

// UpdateUser changes name and email. Non-admins may only update themselves.
// An empty targetID means the actor.
func (s *UserService) UpdateUser(ctx context.Context, actor *models.User, targetID, name, email string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "users.update")

	name = strings.TrimSpace(name)
	email = models.NormalizeEmail(email)
	if name == "" || email == "" {
		return nil, fail(ErrValidation, "name and email are required")
	}

	targetID = strings.TrimSpace(targetID)
	if targetID == "" {
		targetID = actor.ID
	}
	if actor.Role != models.RoleAdmin && actor.ID != targetID {
		l.Warn("update_user_failed", "status", 403, "actor", actor.ID, "target", targetID)
		return nil, fail(ErrForbidden, "cannot update another user")
	}

	user, err := s.Repo.UpdateUserProfile(ctx, targetID, name, email)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return nil, fail(ErrNotFound, "user not found")
		case errors.Is(err, repo.ErrDuplicate):
			return nil, fail(ErrConflict, "email already in use")
		}
		l.Error("update_user_failed", "status", 500, "error", err)
		return nil, fail(ErrInternal, "cannot update user")
	}

	s.publish(ctx, events.UserEvent{Type: events.UserUpdated, UserID: user.ID, Email: user.Email})
	return user, nil
}

// UpdateUserRole sets the role of targetID, or of the actor when targetID is empty.
func (s *UserService) UpdateUserRole(ctx context.Context, actor *models.User, targetID, role string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "users.update_role")

	role = strings.TrimSpace(role)
	if role == "" {
		return nil, fail(ErrValidation, "role is required")
	}
	if !models.ValidRole(role) {
		return nil, fail(ErrValidation, "role must be one of admin, employee")
	}
	if actor.Role != models.RoleAdmin {
		return nil, fail(ErrForbidden, "admin access required")
	}

	targetID = strings.TrimSpace(targetID)
	if targetID == "" {
		targetID = actor.ID
	}

	user, err := s.Repo.UpdateUserRole(ctx, targetID, role)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fail(ErrNotFound, "user not found")
		}
		l.Error("update_role_failed", "status", 500, "error", err)
		return nil, fail(ErrInternal, "cannot update role")
	}

	l.Info("role_updated", "actor", actor.ID, "target", user.ID, "role", role)
	s.publish(ctx, events.UserEvent{Type: events.UserRoleUpdated, UserID: user.ID, Role: user.Role})
	return user, nil
}

func (s *UserService) publish(ctx context.Context, ev events.UserEvent) {
	publish(ctx, s.Events, events.TopicUser, ev.UserID, ev.Type, func() any {
		ev.At = time.Now().UTC()
		return ev
	})
}
