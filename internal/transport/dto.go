package transport

import "github.com/Skotchmaster/hr_records/internal/models"

type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=72"`
	Name     string `json:"name"     validate:"max=120"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type UpdateUserRequest struct {
	Name  string `json:"name"  validate:"required,max=120"`
	Email string `json:"email" validate:"required,email,max=254"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type EmployeeRequest struct {
	EmployeeID  string `json:"employeeId"  validate:"required"`
	FirstName   string `json:"firstName"   validate:"required"`
	LastName    string `json:"lastName"    validate:"required"`
	Email       string `json:"email"       validate:"required,email"`
	DateOfBirth string `json:"dateOfBirth" validate:"required"`
	Department  string `json:"department"  validate:"required"`
	Position    string `json:"position"    validate:"required"`
}

func (r EmployeeRequest) Model() models.Employee {
	return models.Employee{
		EmployeeID:  r.EmployeeID,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		DateOfBirth: r.DateOfBirth,
		Department:  r.Department,
		Position:    r.Position,
	}
}

// EmployeeUpdateRequest carries the editable fields; the key comes from the path.
type EmployeeUpdateRequest struct {
	FirstName   string `json:"firstName"   validate:"required"`
	LastName    string `json:"lastName"    validate:"required"`
	Email       string `json:"email"       validate:"required,email"`
	DateOfBirth string `json:"dateOfBirth" validate:"required"`
	Department  string `json:"department"  validate:"required"`
	Position    string `json:"position"    validate:"required"`
}

func (r EmployeeUpdateRequest) Model(employeeID string) models.Employee {
	return models.Employee{
		EmployeeID:  employeeID,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		DateOfBirth: r.DateOfBirth,
		Department:  r.Department,
		Position:    r.Position,
	}
}

type LoginData struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

type TokenData struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}
