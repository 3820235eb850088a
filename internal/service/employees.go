package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Skotchmaster/hr_records/internal/models"
	"github.com/Skotchmaster/hr_records/internal/repo"
	"github.com/Skotchmaster/hr_records/internal/util"
	"github.com/Skotchmaster/hr_records/pkg/events"
	"github.com/Skotchmaster/hr_records/pkg/logging"
)

// EmployeeIndex mirrors employee records into a search backend.
type EmployeeIndex interface {
	IndexEmployee(ctx context.Context, e *models.Employee) error
	DeleteEmployee(ctx context.Context, employeeID string) error
	Search(ctx context.Context, query string, from, size int) (int64, []models.Employee, error)
}

type EmployeeService struct {
	Repo   *repo.GormRepo
	Index  EmployeeIndex
	Events events.Publisher
}

var sortColumns = map[string]string{
	"employeeId":  "employee_id",
	"firstName":   "first_name",
	"lastName":    "last_name",
	"email":       "email",
	"dateOfBirth": "date_of_birth",
	"department":  "department",
	"position":    "position",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
}

type ListQuery struct {
	SortBy     string
	SortOrder  string
	Department string
	Position   string
	Page       int
	// Limit <= 0 means no paging.
	Limit int
}

type ListResult struct {
	Items []models.Employee
	Total int64
	Page  int
	Limit int
}

// Employee ids that would collide with static routes under /employees.
var reservedEmployeeIDs = map[string]struct{}{
	"search": {},
}

func requireEmployeeFields(e models.Employee) error {
	if strings.TrimSpace(e.EmployeeID) == "" {
		return fail(ErrValidation, "all fields are required")
	}
	return requireProfileFields(e)
}

// requireProfileFields checks every field an update may change.
func requireProfileFields(e models.Employee) error {
	for _, v := range []string{e.FirstName, e.LastName, e.Email, e.DateOfBirth, e.Department, e.Position} {
		if strings.TrimSpace(v) == "" {
			return fail(ErrValidation, "all fields are required")
		}
	}
	return nil
}

func (s *EmployeeService) Create(ctx context.Context, in models.Employee) (*models.Employee, error) {
	l := logging.FromContext(ctx).With("svc", "employees.create")

	if err := requireEmployeeFields(in); err != nil {
		return nil, err
	}
	emp := in
	emp.ID = ""
	emp.Normalize()
	if _, ok := reservedEmployeeIDs[emp.EmployeeID]; ok {
		return nil, fail(ErrValidation, "employeeId "+emp.EmployeeID+" is reserved")
	}

	if err := s.Repo.CreateEmployee(ctx, &emp); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			l.Warn("create_employee_failed", "status", 409, "employee_id", emp.EmployeeID)
			return nil, fail(ErrConflict, "employee with this employeeId or email already exists")
		}
		l.Error("create_employee_failed", "status", 500, "error", err)
		return nil, fail(ErrInternal, "cannot create employee")
	}

	s.index(ctx, &emp)
	s.publish(ctx, events.EmployeeCreated, &emp)
	return &emp, nil
}

func (s *EmployeeService) Get(ctx context.Context, employeeID string) (*models.Employee, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return nil, fail(ErrValidation, "employeeId is required")
	}

	emp, err := s.Repo.GetEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fail(ErrNotFound, "employee not found")
		}
		logging.FromContext(ctx).Error("get_employee_failed", "status", 500, "error", err)
		return nil, fail(ErrInternal, "cannot load employee")
	}
	return emp, nil
}

func (s *EmployeeService) Update(ctx context.Context, employeeID string, in models.Employee) (*models.Employee, error) {
	l := logging.FromContext(ctx).With("svc", "employees.update")

	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return nil, fail(ErrValidation, "employeeId is required")
	}
	if err := requireProfileFields(in); err != nil {
		return nil, err
	}
	in.EmployeeID = employeeID

	emp, err := s.Repo.UpdateEmployee(ctx, employeeID, in)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return nil, fail(ErrNotFound, "employee not found")
		case errors.Is(err, repo.ErrDuplicate):
			return nil, fail(ErrConflict, "employee with this email already exists")
		}
		l.Error("update_employee_failed", "status", 500, "error", err)
		return nil, fail(ErrInternal, "cannot update employee")
	}

	s.index(ctx, emp)
	s.publish(ctx, events.EmployeeUpdated, emp)
	return emp, nil
}

func (s *EmployeeService) Delete(ctx context.Context, employeeID string) error {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return fail(ErrValidation, "employeeId is required")
	}

	if err := s.Repo.DeleteEmployee(ctx, employeeID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fail(ErrNotFound, "employee not found")
		}
		logging.FromContext(ctx).Error("delete_employee_failed", "status", 500, "error", err)
		return fail(ErrInternal, "cannot delete employee")
	}

	s.unindex(ctx, employeeID)
	s.publish(ctx, events.EmployeeDeleted, &models.Employee{EmployeeID: employeeID})
	return nil
}

func (s *EmployeeService) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	f := repo.EmployeeFilter{
		Department: strings.ToLower(strings.TrimSpace(q.Department)),
		Position:   strings.ToLower(strings.TrimSpace(q.Position)),
	}

	if q.SortBy != "" {
		col, ok := sortColumns[q.SortBy]
		if !ok {
			return nil, fail(ErrValidation, "unsupported sortBy "+q.SortBy)
		}
		f.SortColumn = col
	}

	switch strings.ToLower(strings.TrimSpace(q.SortOrder)) {
	case "", "asc", "1":
	case "desc", "-1":
		f.Desc = true
	default:
		return nil, fail(ErrValidation, "sortOrder must be asc or desc")
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	if q.Limit > 0 {
		if page > util.MaxPage(q.Limit) {
			return nil, fail(ErrValidation, "page is out of range")
		}
		f.Offset, f.Limit = util.Calculate(page, q.Limit)
	}

	total, items, err := s.Repo.ListEmployees(ctx, f)
	if err != nil {
		logging.FromContext(ctx).Error("list_employees_failed", "status", 500, "error", err)
		return nil, fail(ErrInternal, "cannot list employees")
	}

	limit := f.Limit
	if limit == 0 {
		limit = len(items)
	}
	return &ListResult{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *EmployeeService) Search(ctx context.Context, query string, page, size int) (*ListResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fail(ErrValidation, "q is required")
	}
	if s.Index == nil {
		return nil, fail(ErrUnavailable, "search is not configured")
	}

	if page > util.MaxPage(size) {
		return nil, fail(ErrValidation, "page is out of range")
	}

	offset, limit := util.Calculate(page, size)
	total, items, err := s.Index.Search(ctx, query, offset, limit)
	if err != nil {
		logging.FromContext(ctx).Error("search_employees_failed", "status", 503, "error", err)
		return nil, fail(ErrUnavailable, "search is unavailable")
	}
	if page < 1 {
		page = 1
	}
	return &ListResult{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *EmployeeService) index(ctx context.Context, emp *models.Employee) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexEmployee(context.WithoutCancel(ctx), emp); err != nil {
		logging.FromContext(ctx).Warn("index_employee_failed", "employee_id", emp.EmployeeID, "error", err)
	}
}

func (s *EmployeeService) unindex(ctx context.Context, employeeID string) {
	if s.Index == nil {
		return
	}
	if err := s.Index.DeleteEmployee(context.WithoutCancel(ctx), employeeID); err != nil {
		logging.FromContext(ctx).Warn("unindex_employee_failed", "employee_id", employeeID, "error", err)
	}
}

func (s *EmployeeService) publish(ctx context.Context, typ string, emp *models.Employee) {
	publish(ctx, s.Events, events.TopicEmployee, emp.EmployeeID, typ, func() any {
		return events.EmployeeEvent{
			Type:       typ,
			EmployeeID: emp.EmployeeID,
			Email:      emp.Email,
			Department: emp.Department,
			At:         time.Now().UTC(),
		}
	})
}
