package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	middleware "github.com/Skotchmaster/hr_records/pkg/middleware/auth"
	loggingmw "github.com/Skotchmaster/hr_records/pkg/middleware/logging"
)

type Deps struct {
	AuthHandler     *AuthHTTP
	UsersHandler    *UsersHTTP
	EmployeeHandler *EmployeeHTTP
	Gate            *middleware.Gate
	Ready           func(ctx context.Context) error
}

// New builds an echo instance with the shared middleware stack.
func New(logger *slog.Logger, corsOrigin string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler
	e.Validator = newValidator()

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Secure())
	e.Use(loggingmw.RequestLogger(logger, "/health"))

	cors := echomw.DefaultCORSConfig
	if corsOrigin != "" {
		cors.AllowOrigins = []string{corsOrigin}
		cors.AllowCredentials = true
	}
	e.Use(echomw.CORSWithConfig(cors))
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "not ready").SetInternal(err)
			}
		}
		return c.NoContent(http.StatusOK)
	})

	authMW := d.Gate.RequireAuth()
	adminMW := middleware.RequireAdmin()

	api := e.Group("/api/v1")

	api.POST("/registerUser", d.AuthHandler.Register)
	api.POST("/loginUser", d.AuthHandler.Login)
	api.POST("/refresh-token", d.AuthHandler.Refresh)

	private := api.Group("", authMW)
	private.POST("/logoutUser", d.AuthHandler.LogOut)
	private.PUT("/updateUser/:userId", d.UsersHandler.UpdateUser)
	private.PUT("/updateUser", d.UsersHandler.UpdateUser)

	admin := private.Group("", adminMW)
	admin.PUT("/updateUserRole/:userId", d.UsersHandler.UpdateUserRole)
	admin.PUT("/updateUserRole", d.UsersHandler.UpdateUserRole)

	employees := api.Group("/employees")
	employees.GET("", d.EmployeeHandler.ListEmployees)
	employees.GET("/search", d.EmployeeHandler.SearchEmployees, authMW)
	employees.GET("/:employeeId", d.EmployeeHandler.GetEmployee, authMW)
	employees.POST("", d.EmployeeHandler.CreateEmployee, authMW, adminMW)
	employees.PUT("/:employeeId", d.EmployeeHandler.UpdateEmployee, authMW, adminMW)
	employees.DELETE("/:employeeId", d.EmployeeHandler.DeleteEmployee, authMW, adminMW)
}
