package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/genzspace/genzflow/internal/auth"
	"github.com/genzspace/genzflow/internal/employee"
)

// Repository is the gorm-backed account store for the auth service.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByEmail(email string) (*employee.Employee, error) {
	var emp employee.Employee
	err := r.db.Where("email = ?", email).First(&emp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employee.ErrNotFound
		}
		return nil, err
	}
	return &emp, nil
}

func (r *Repository) GetActiveByID(id int64) (*employee.Employee, error) {
	var emp employee.Employee
	err := r.db.Where("id = ? AND is_active = ?", id, true).First(&emp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employee.ErrNotFound
		}
		return nil, err
	}
	return &emp, nil
}

func (r *Repository) EmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Model(&employee.Employee{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) Create(emp *employee.Employee) error {
	return r.db.Create(emp).Error
}

// GetProfile loads the account joined with department and manager names.
func (r *Repository) GetProfile(id int64) (*auth.Profile, error) {
	var profile auth.Profile
	err := r.db.Table("employees AS e").
		Select(`e.id, e.name, e.email, e.role, e.department_id, d.name AS department_name,
			e.manager_id, m.name AS manager_name, e.profile_picture, e.bio, e.join_date, e.created_at`).
		Joins("LEFT JOIN departments AS d ON d.id = e.department_id").
		Joins("LEFT JOIN employees AS m ON m.id = e.manager_id").
		Where("e.id = ?", id).
		Take(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employee.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *Repository) UpdateProfile(id int64, updates map[string]interface{}) error {
	result := r.db.Model(&employee.Employee{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return employee.ErrNotFound
	}
	return nil
}

func (r *Repository) UpdatePassword(id int64, passwordHash string) error {
	result := r.db.Model(&employee.Employee{}).Where("id = ?", id).Update("password_hash", passwordHash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return employee.ErrNotFound
	}
	return nil
}
