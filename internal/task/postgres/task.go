package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/genzspace/genzflow/internal/task"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

const detailColumns = `t.id, t.title, t.description, t.status, t.priority, t.progress,
	t.assigned_to, a.name AS assigned_to_name, a.email AS assigned_to_email,
	t.assigned_by, b.name AS assigned_by_name,
	t.project_id, p.name AS project_name,
	t.start_date, t.deadline, t.estimated_hours, t.created_at, t.updated_at`

func (r *Repository) detailQuery() *gorm.DB {
	return r.db.Table("tasks AS t").
		Select(detailColumns).
		Joins("LEFT JOIN employees AS a ON a.id = t.assigned_to").
		Joins("LEFT JOIN employees AS b ON b.id = t.assigned_by").
		Joins("LEFT JOIN projects AS p ON p.id = t.project_id")
}

func applyFilters(query *gorm.DB, filters task.ListFilters) *gorm.DB {
	if filters.Status != "" {
		query = query.Where("t.status = ?", string(filters.Status))
	}
	if filters.Priority != "" {
		query = query.Where("t.priority = ?", string(filters.Priority))
	}
	if filters.AssignedTo != nil {
		query = query.Where("t.assigned_to = ?", *filters.AssignedTo)
	}
	if filters.ProjectID != nil {
		query = query.Where("t.project_id = ?", *filters.ProjectID)
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where("LOWER(t.title) LIKE LOWER(?) OR LOWER(t.description) LIKE LOWER(?)", pattern, pattern)
	}
	if filters.ViewerID != nil {
		query = query.Where("t.assigned_to = ? OR t.assigned_by = ?", *filters.ViewerID, *filters.ViewerID)
	}
	return query
}

func (r *Repository) List(filters task.ListFilters) ([]*task.Detail, int64, error) {
	var total int64
	countQuery := applyFilters(r.db.Table("tasks AS t"), filters)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := []*task.Detail{}
	query := applyFilters(r.detailQuery(), filters).
		Order("t.created_at DESC").
		Limit(filters.Limit).
		Offset(filters.Offset())
	if err := query.Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

func (r *Repository) GetDetail(id int64) (*task.Detail, error) {
	var detail task.Detail
	err := r.detailQuery().Where("t.id = ?", id).Take(&detail).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, task.ErrNotFound
		}
		return nil, err
	}
	return &detail, nil
}

func (r *Repository) GetByID(id int64) (*task.Task, error) {
	var t task.Task
	err := r.db.First(&t, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, task.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *Repository) Create(t *task.Task) error {
	return r.db.Create(t).Error
}

func (r *Repository) Update(id int64, updates map[string]interface{}) error {
	result := r.db.Model(&task.Task{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return task.ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(id int64) error {
	result := r.db.Delete(&task.Task{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return task.ErrNotFound
	}
	return nil
}

// StatsOverview aggregates the caller-visible slice of the tasks table.
func (r *Repository) StatsOverview(viewerID *int64) (*task.Stats, error) {
	base := func() *gorm.DB {
		query := r.db.Table("tasks AS t")
		if viewerID != nil {
			query = query.Where("t.assigned_to = ? OR t.assigned_by = ?", *viewerID, *viewerID)
		}
		return query
	}

	stats := &task.Stats{
		ByStatus:   make(map[string]int64),
		ByPriority: make(map[string]int64),
	}

	if err := base().Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	type bucket struct {
		Key   string
		Count int64
	}

	statusRows := []bucket{}
	if err := base().Select("t.status AS key, COUNT(*) AS count").Group("t.status").Scan(&statusRows).Error; err != nil {
		return nil, err
	}
	for _, row := range statusRows {
		stats.ByStatus[row.Key] = row.Count
	}

	priorityRows := []bucket{}
	if err := base().Select("t.priority AS key, COUNT(*) AS count").Group("t.priority").Scan(&priorityRows).Error; err != nil {
		return nil, err
	}
	for _, row := range priorityRows {
		stats.ByPriority[row.Key] = row.Count
	}

	var avg *float64
	if err := base().Select("AVG(t.progress)").Scan(&avg).Error; err != nil {
		return nil, err
	}
	if avg != nil {
		stats.AverageProgress = *avg
	}

	return stats, nil
}
