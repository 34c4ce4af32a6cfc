package postgres

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/genzspace/genzflow/internal/project"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// COALESCE keeps the rollups zero-valued for projects with no tasks instead
// of NULL.
const detailColumns = `p.id, p.name, p.description, p.status, p.start_date, p.deadline, p.budget,
	p.created_by, c.name AS created_by_name, p.created_at, p.updated_at,
	COUNT(t.id) AS task_count,
	COALESCE(SUM(CASE WHEN t.status = 'Completed' THEN 1 ELSE 0 END), 0) AS completed_tasks,
	COALESCE(AVG(t.progress), 0) AS average_progress`

const detailGroup = `p.id, p.name, p.description, p.status, p.start_date, p.deadline, p.budget,
	p.created_by, c.name, p.created_at, p.updated_at`

func (r *Repository) detailQuery() *gorm.DB {
	return r.db.Table("projects AS p").
		Select(detailColumns).
		Joins("LEFT JOIN employees AS c ON c.id = p.created_by").
		Joins("LEFT JOIN tasks AS t ON t.project_id = p.id").
		Group(detailGroup)
}

func applyFilters(query *gorm.DB, filters project.ListFilters) *gorm.DB {
	if filters.Status != "" {
		query = query.Where("p.status = ?", string(filters.Status))
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where("LOWER(p.name) LIKE LOWER(?) OR LOWER(p.description) LIKE LOWER(?)", pattern, pattern)
	}
	return query
}

func (r *Repository) List(filters project.ListFilters) ([]*project.Detail, int64, error) {
	var total int64
	countQuery := applyFilters(r.db.Table("projects AS p"), filters)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := []*project.Detail{}
	query := applyFilters(r.detailQuery(), filters).
		Order("p.created_at DESC").
		Limit(filters.Limit).
		Offset(filters.Offset())
	if err := query.Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

func (r *Repository) GetDetail(id int64) (*project.Detail, error) {
	var detail project.Detail
	err := r.detailQuery().Where("p.id = ?", id).Take(&detail).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, project.ErrNotFound
		}
		return nil, err
	}
	return &detail, nil
}

func (r *Repository) GetByID(id int64) (*project.Project, error) {
	var p project.Project
	err := r.db.First(&p, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, project.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repository) Exists(id int64) (bool, error) {
	var count int64
	err := r.db.Model(&project.Project{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) TaskCount(id int64) (int64, error) {
	var count int64
	err := r.db.Table("tasks").Where("project_id = ?", id).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *Repository) Create(p *project.Project) error {
	return r.db.Create(p).Error
}

func (r *Repository) Update(id int64, updates map[string]interface{}) error {
	result := r.db.Model(&project.Project{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return project.ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(id int64) error {
	result := r.db.Delete(&project.Project{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return project.ErrNotFound
	}
	return nil
}

func (r *Repository) StatsOverview() (*project.Stats, error) {
	stats := &project.Stats{
		ByStatus: make(map[string]int64),
	}

	if err := r.db.Model(&project.Project{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	type bucket struct {
		Key   string
		Count int64
	}
	rows := []bucket{}
	err := r.db.Model(&project.Project{}).
		Select("status AS key, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.ByStatus[row.Key] = row.Count
	}

	var totalBudget decimal.NullDecimal
	if err := r.db.Model(&project.Project{}).Select("SUM(budget)").Scan(&totalBudget).Error; err != nil {
		return nil, err
	}
	if totalBudget.Valid {
		stats.TotalBudget = totalBudget.Decimal
	}

	return stats, nil
}
