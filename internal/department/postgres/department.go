package postgres

import (
	"gorm.io/gorm"

	"github.com/genzspace/genzflow/internal/department"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List() ([]*department.Department, error) {
	departments := []*department.Department{}
	err := r.db.Order("name ASC").Find(&departments).Error
	if err != nil {
		return nil, err
	}
	return departments, nil
}
