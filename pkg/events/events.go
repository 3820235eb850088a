package events

import "time"

const (
	UserRegistered  = "user_registered"
	UserLoggedIn    = "user_logged_in"
	UserLoggedOut   = "user_logged_out"
	UserRoleUpdated = "user_role_updated"
	UserUpdated     = "user_updated"

	EmployeeCreated = "employee_created"
	EmployeeUpdated = "employee_updated"
	EmployeeDeleted = "employee_deleted"
)

type UserEvent struct {
	Type   string    `json:"type"`
	UserID string    `json:"userID"`
	Email  string    `json:"email,omitempty"`
	Role   string    `json:"role,omitempty"`
	At     time.Time `json:"at"`
}

type EmployeeEvent struct {
	Type       string    `json:"type"`
	EmployeeID string    `json:"employeeID"`
	Email      string    `json:"email,omitempty"`
	Department string    `json:"department,omitempty"`
	At         time.Time `json:"at"`
}
