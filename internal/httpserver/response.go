package httpserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/hr_records/internal/service"
	"github.com/Skotchmaster/hr_records/internal/transport"
	"github.com/Skotchmaster/hr_records/pkg/logging"
)

type envelope struct {
	Status     int                   `json:"status"`
	Data       any                   `json:"data"`
	Message    string                `json:"message"`
	Success    bool                  `json:"success"`
	Pagination *transport.Pagination `json:"pagination,omitempty"`
}

type errorEnvelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Success bool   `json:"success"`
}

func respond(c echo.Context, status int, data any, message string) error {
	return c.JSON(status, envelope{Status: status, Data: data, Message: message, Success: true})
}

func respondPage(c echo.Context, data any, p transport.Pagination, message string) error {
	return c.JSON(http.StatusOK, envelope{
		Status:     http.StatusOK,
		Data:       data,
		Message:    message,
		Success:    true,
		Pagination: &p,
	})
}

var statusByKind = map[error]int{
	service.ErrValidation:   http.StatusBadRequest,
	service.ErrUnauthorized: http.StatusUnauthorized,
	service.ErrForbidden:    http.StatusForbidden,
	service.ErrNotFound:     http.StatusNotFound,
	service.ErrConflict:     http.StatusConflict,
	service.ErrRateLimited:  http.StatusTooManyRequests,
	service.ErrUnavailable:  http.StatusServiceUnavailable,
	service.ErrInternal:     http.StatusInternalServerError,
}

// fromService converts a service error into an HTTP error and logs it.
func fromService(l *slog.Logger, event string, err error) *echo.HTTPError {
	code := statusByKind[service.Kind(err)]
	reason := service.Reason(err)
	if code >= http.StatusInternalServerError {
		l.Error(event, "status", code, "reason", reason, "error", err)
	} else {
		l.Warn(event, "status", code, "reason", reason)
	}
	return echo.NewHTTPError(code, reason).SetInternal(err)
}

// ErrorHandler renders every failure in the error envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := "internal server error"

	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		code = he.Code
		switch m := he.Message.(type) {
		case string:
			msg = m
		case error:
			msg = m.Error()
		case nil:
			msg = http.StatusText(code)
		default:
			msg = fmt.Sprint(m)
		}
	default:
		code = statusByKind[service.Kind(err)]
		msg = service.Reason(err)
		if code >= http.StatusInternalServerError {
			logging.FromContext(c.Request().Context()).Error("unhandled_error", "error", err)
		}
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(code)
	} else {
		werr = c.JSON(code, errorEnvelope{Status: code, Message: msg, Success: false})
	}
	if werr != nil {
		logging.FromContext(c.Request().Context()).Error("write_error_response_failed", "error", werr)
	}
}
