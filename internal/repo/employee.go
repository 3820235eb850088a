package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/hr_records/internal/models"
)

type EmployeeFilter struct {
	Department string
	Position   string
	SortColumn string
	Desc       bool
	Offset     int
	// Limit <= 0 returns every matching row and ignores Offset.
	Limit int
}

func (r *GormRepo) CreateEmployee(ctx context.Context, e *models.Employee) error {
	return translate(r.DB.WithContext(ctx).Create(e).Error)
}

func (r *GormRepo) GetEmployee(ctx context.Context, employeeID string) (*models.Employee, error) {
	var emp models.Employee
	if err := r.DB.WithContext(ctx).Where("employee_id = ?", employeeID).First(&emp).Error; err != nil {
		return nil, translate(err)
	}
	return &emp, nil
}

func (r *GormRepo) UpdateEmployee(ctx context.Context, employeeID string, upd models.Employee) (*models.Employee, error) {
	upd.Normalize()
	res := r.DB.WithContext(ctx).Model(&models.Employee{}).
		Where("employee_id = ?", employeeID).
		Updates(map[string]any{
			"first_name":    upd.FirstName,
			"last_name":     upd.LastName,
			"email":         upd.Email,
			"date_of_birth": upd.DateOfBirth,
			"department":    upd.Department,
			"position":      upd.Position,
		})
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetEmployee(ctx, employeeID)
}

func (r *GormRepo) DeleteEmployee(ctx context.Context, employeeID string) error {
	res := r.DB.WithContext(ctx).Where("employee_id = ?", employeeID).Delete(&models.Employee{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) ListEmployees(ctx context.Context, f EmployeeFilter) (int64, []models.Employee, error) {
	filtered := func(db *gorm.DB) *gorm.DB {
		if f.Department != "" {
			db = db.Where("department = ?", f.Department)
		}
		if f.Position != "" {
			db = db.Where("position = ?", f.Position)
		}
		return db
	}

	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Employee{}).Scopes(filtered).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	col := f.SortColumn
	if col == "" {
		col = "created_at"
	}
	q := r.DB.WithContext(ctx).Model(&models.Employee{}).Scopes(filtered).
		Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: f.Desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})
	if f.Limit > 0 {
		q = q.Offset(f.Offset).Limit(f.Limit)
	}

	items := make([]models.Employee, 0)
	if err := q.Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}
