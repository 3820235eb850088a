package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleEmployee
}

type User struct {
	ID           string    `gorm:"primaryKey;size:36"                 json:"id"`
	Name         string    `                                          json:"name"`
	Email        string    `gorm:"uniqueIndex;not null"               json:"email"`
	PasswordHash string    `gorm:"not null"                           json:"-"`
	Role         string    `gorm:"not null;default:employee"          json:"role"`
	RefreshToken *string   `                                          json:"-"`
	CreatedAt    time.Time `                                          json:"createdAt"`
	UpdatedAt    time.Time `                                          json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Email = NormalizeEmail(u.Email)
	if u.Role == "" {
		u.Role = RoleEmployee
	}
	return nil
}

type Employee struct {
	ID          string    `gorm:"primaryKey;size:36"     json:"id"`
	EmployeeID  string    `gorm:"uniqueIndex;not null"   json:"employeeId"`
	FirstName   string    `gorm:"not null"               json:"firstName"`
	LastName    string    `gorm:"not null"               json:"lastName"`
	Email       string    `gorm:"uniqueIndex;not null"   json:"email"`
	DateOfBirth string    `gorm:"not null"               json:"dateOfBirth"`
	Department  string    `gorm:"index;not null"         json:"department"`
	Position    string    `gorm:"index;not null"         json:"position"`
	CreatedAt   time.Time `                              json:"createdAt"`
	UpdatedAt   time.Time `                              json:"updatedAt"`
}

func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.Normalize()
	return nil
}

// Normalize lower-cases the fields that are stored case-insensitively.
func (e *Employee) Normalize() {
	e.EmployeeID = strings.TrimSpace(e.EmployeeID)
	e.FirstName = strings.ToLower(strings.TrimSpace(e.FirstName))
	e.LastName = strings.ToLower(strings.TrimSpace(e.LastName))
	e.Email = NormalizeEmail(e.Email)
	e.DateOfBirth = strings.TrimSpace(e.DateOfBirth)
	e.Department = strings.ToLower(strings.TrimSpace(e.Department))
	e.Position = strings.ToLower(strings.TrimSpace(e.Position))
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &Employee{})
}
