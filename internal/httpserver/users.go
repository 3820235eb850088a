package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/hr_records/internal/models"
	"github.com/Skotchmaster/hr_records/internal/service"
	"github.com/Skotchmaster/hr_records/internal/transport"
	"github.com/Skotchmaster/hr_records/pkg/logging"
	middleware "github.com/Skotchmaster/hr_records/pkg/middleware/auth"
)

type UsersHTTP struct {
	Svc *service.UserService
}

func actorFrom(c echo.Context) (*models.User, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return &models.User{ID: id.UserID, Email: id.Email, Role: id.Role}, nil
}

func (h *UsersHTTP) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.update_user")

	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var req transport.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_user_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("update_user_error", "status", 400, "error", err)
		return err
	}

	user, err := h.Svc.UpdateUser(ctx, actor, c.Param("userId"), req.Name, req.Email)
	if err != nil {
		return fromService(l, "update_user_error", err)
	}

	l.Info("update_user_success", "target", user.ID)
	return respond(c, http.StatusOK, user, "User updated successfully")
}

func (h *UsersHTTP) UpdateUserRole(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.update_role")

	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var req transport.UpdateRoleRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_role_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("update_role_error", "status", 400, "error", err)
		return err
	}

	user, err := h.Svc.UpdateUserRole(ctx, actor, c.Param("userId"), req.Role)
	if err != nil {
		return fromService(l, "update_role_error", err)
	}

	l.Info("update_role_success", "target", user.ID, "role", user.Role)
	return respond(c, http.StatusOK, user, "User role updated successfully")
}

// IdentityLookup adapts the user service to the auth gate.
func IdentityLookup(svc *service.UserService) middleware.IdentityLookup {
	return func(ctx context.Context, userID string) (middleware.Identity, error) {
		user, err := svc.GetUser(ctx, userID)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return middleware.Identity{}, middleware.ErrUnknownUser
			}
			return middleware.Identity{}, err
		}
		return middleware.Identity{UserID: user.ID, Email: user.Email, Role: user.Role}, nil
	}
}
