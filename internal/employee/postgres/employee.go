package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/genzspace/genzflow/internal"
	"github.com/genzspace/genzflow/internal/employee"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

const detailColumns = `e.id, e.name, e.email, e.role, e.department_id, e.manager_id,
	e.profile_picture, e.bio, e.join_date, e.created_at,
	d.name AS department_name, m.name AS manager_name`

func (r *Repository) detailQuery() *gorm.DB {
	return r.db.Table("employees AS e").
		Select(detailColumns).
		Joins("LEFT JOIN departments AS d ON d.id = e.department_id").
		Joins("LEFT JOIN employees AS m ON m.id = e.manager_id")
}

// applyFilters narrows a query to active rows matching the listing filters.
// LOWER + LIKE instead of ILIKE keeps the query portable across postgres
// and the sqlite test database.
func applyFilters(query *gorm.DB, filters employee.ListFilters) *gorm.DB {
	query = query.Where("e.is_active = ?", true)

	if filters.Role != "" {
		query = query.Where("e.role = ?", string(filters.Role))
	}
	if filters.DepartmentID != nil {
		query = query.Where("e.department_id = ?", *filters.DepartmentID)
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where("LOWER(e.name) LIKE LOWER(?) OR LOWER(e.email) LIKE LOWER(?)", pattern, pattern)
	}

	return query
}

func (r *Repository) List(filters employee.ListFilters) ([]*employee.Detail, int64, error) {
	var total int64
	countQuery := applyFilters(r.db.Table("employees AS e"), filters)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := []*employee.Detail{}
	query := applyFilters(r.detailQuery(), filters).
		Order("e.created_at DESC").
		Limit(filters.Limit).
		Offset(filters.Offset())
	if err := query.Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

func (r *Repository) GetDetail(id int64) (*employee.Detail, error) {
	var detail employee.Detail
	err := r.detailQuery().Where("e.id = ? AND e.is_active = ?", id, true).Take(&detail).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employee.ErrNotFound
		}
		return nil, err
	}
	return &detail, nil
}

func (r *Repository) GetByID(id int64) (*employee.Employee, error) {
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

func (r *Repository) Update(id int64, updates map[string]interface{}) error {
	result := r.db.Model(&employee.Employee{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return employee.ErrNotFound
	}
	return nil
}

func (r *Repository) Deactivate(id int64) error {
	result := r.db.Model(&employee.Employee{}).Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return employee.ErrNotFound
	}
	return nil
}

func (r *Repository) ListActiveNodes() ([]*employee.OrgNode, error) {
	nodes := []*employee.OrgNode{}
	err := r.db.Table("employees AS e").
		Select("e.id, e.name, e.role, e.department_id, e.manager_id, d.name AS department_name").
		Joins("LEFT JOIN departments AS d ON d.id = e.department_id").
		Where("e.is_active = ?", true).
		Order("e.name ASC").
		Scan(&nodes).Error
	if err != nil {
		return nil, err
	}
	return nodes, nil
}

func (r *Repository) CountByRole() (*employee.RoleCounts, error) {
	type roleRow struct {
		Role  string
		Count int64
	}
	rows := []roleRow{}
	err := r.db.Model(&employee.Employee{}).
		Select("role, COUNT(*) AS count").
		Where("is_active = ?", true).
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := &employee.RoleCounts{}
	for _, row := range rows {
		counts.TotalEmployees += row.Count
		switch internal.Role(row.Role) {
		case internal.RoleCEO:
			counts.CEOCount = row.Count
		case internal.RoleDirector:
			counts.DirectorCount = row.Count
		case internal.RoleHR:
			counts.HRCount = row.Count
		case internal.RoleManager:
			counts.ManagerCount = row.Count
		case internal.RoleTeamLead:
			counts.TeamLeadCount = row.Count
		case internal.RoleDeveloper:
			counts.DeveloperCount = row.Count
		}
	}
	return counts, nil
}

func (r *Repository) HeadcountByDepartment() ([]*employee.DepartmentHeadcount, error) {
	rows := []*employee.DepartmentHeadcount{}
	err := r.db.Table("departments AS d").
		Select("d.name AS department_name, COUNT(e.id) AS employee_count").
		Joins("LEFT JOIN employees AS e ON e.department_id = d.id AND e.is_active = ?", true).
		Group("d.id, d.name").
		Order("d.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
