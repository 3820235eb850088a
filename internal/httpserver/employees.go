package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/hr_records/internal/service"
	"github.com/Skotchmaster/hr_records/internal/transport"
	"github.com/Skotchmaster/hr_records/internal/util"
	"github.com/Skotchmaster/hr_records/pkg/logging"
)

type EmployeeHTTP struct {
	Svc *service.EmployeeService
}

func (h *EmployeeHTTP) CreateEmployee(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "employee.create")

	var req transport.EmployeeRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("employee_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("employee_create_error", "status", 400, "error", err)
		return err
	}

	emp, err := h.Svc.Create(ctx, req.Model())
	if err != nil {
		return fromService(l, "employee_create_error", err)
	}

	l.Info("create_employee_success", "employee_id", emp.EmployeeID)
	return respond(c, http.StatusCreated, emp, "Employee created successfully")
}

func (h *EmployeeHTTP) GetEmployee(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "employee.get")

	emp, err := h.Svc.Get(ctx, c.Param("employeeId"))
	if err != nil {
		return fromService(l, "get_employee_failed", err)
	}
	return respond(c, http.StatusOK, emp, "Employee fetched successfully")
}

func (h *EmployeeHTTP) UpdateEmployee(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "employee.update")

	id := c.Param("employeeId")
	var req transport.EmployeeUpdateRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("employee_update_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("employee_update_error", "status", 400, "error", err)
		return err
	}

	emp, err := h.Svc.Update(ctx, id, req.Model(id))
	if err != nil {
		return fromService(l, "employee_update_error", err)
	}

	l.Info("update_employee_success", "employee_id", emp.EmployeeID)
	return respond(c, http.StatusOK, emp, "Employee updated successfully")
}

func (h *EmployeeHTTP) DeleteEmployee(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "employee.delete")

	id := c.Param("employeeId")
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fromService(l, "employee_delete_error", err)
	}

	l.Info("delete_employee_success", "employee_id", id)
	return respond(c, http.StatusOK, echo.Map{"employeeId": id}, "Employee deleted successfully")
}

func (h *EmployeeHTTP) ListEmployees(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "employee.list")

	res, err := h.Svc.List(ctx, service.ListQuery{
		SortBy:     c.QueryParam("sortBy"),
		SortOrder:  c.QueryParam("sortOrder"),
		Department: c.QueryParam("departmentFilter"),
		Position:   c.QueryParam("positionFilter"),
		Page:       util.ParseIntDefault(c.QueryParam("page"), 1),
		Limit:      util.ParseIntDefault(c.QueryParam("limit"), 0),
	})
	if err != nil {
		return fromService(l, "list_employees_error", err)
	}

	return respondPage(c, res.Items, transport.Pagination{
		Page:  res.Page,
		Limit: res.Limit,
		Total: res.Total,
	}, "Employees fetched successfully")
}

func (h *EmployeeHTTP) SearchEmployees(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "employee.search")

	res, err := h.Svc.Search(ctx,
		c.QueryParam("q"),
		util.ParseIntDefault(c.QueryParam("page"), 1),
		util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize),
	)
	if err != nil {
		return fromService(l, "search_employees_error", err)
	}

	return respondPage(c, res.Items, transport.Pagination{
		Page:  res.Page,
		Limit: res.Limit,
		Total: res.Total,
	}, "Employees fetched successfully")
}
