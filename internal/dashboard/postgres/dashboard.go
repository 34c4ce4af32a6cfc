package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/genzspace/genzflow/internal/dashboard"
)

// Repository runs the dashboard aggregates as raw SQL over sqlx. These
// queries are postgres-specific (intervals, UNION feeds) and read-only.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CompanyStats() (*dashboard.CompanyStats, error) {
	const query = `
		SELECT
			(SELECT COUNT(*) FROM employees WHERE is_active = TRUE) AS total_employees,
			(SELECT COUNT(*) FROM projects) AS total_projects,
			(SELECT COUNT(*) FROM tasks) AS total_tasks,
			(SELECT COUNT(*) FROM tasks WHERE status = 'Completed') AS completed_tasks`

	var stats dashboard.CompanyStats
	if err := r.db.Get(&stats, query); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *Repository) DepartmentCompletion() ([]*dashboard.DepartmentCompletion, error) {
	const query = `
		SELECT
			d.name AS department_name,
			COUNT(t.id) AS total_tasks,
			COALESCE(SUM(CASE WHEN t.status = 'Completed' THEN 1 ELSE 0 END), 0) AS completed_tasks,
			CASE WHEN COUNT(t.id) = 0 THEN 0
				ELSE ROUND(100.0 * SUM(CASE WHEN t.status = 'Completed' THEN 1 ELSE 0 END) / COUNT(t.id), 1)
			END AS completion_rate
		FROM departments d
		LEFT JOIN employees e ON e.department_id = d.id AND e.is_active = TRUE
		LEFT JOIN tasks t ON t.assigned_to = e.id
		GROUP BY d.id, d.name
		ORDER BY d.name`

	rows := []*dashboard.DepartmentCompletion{}
	if err := r.db.Select(&rows, query); err != nil {
		return nil, err
	}
	return rows, nil
}

// RecentActivity unions completed tasks and created projects into one feed.
func (r *Repository) RecentActivity(days, limit int) ([]*dashboard.ActivityItem, error) {
	const query = `
		SELECT 'task_completed' AS type, t.title AS title, e.name AS actor_name, t.updated_at AS occurred_at
		FROM tasks t
		LEFT JOIN employees e ON e.id = t.assigned_to
		WHERE t.status = 'Completed' AND t.updated_at >= NOW() - ($1 * INTERVAL '1 day')
		UNION ALL
		SELECT 'project_created' AS type, p.name AS title, c.name AS actor_name, p.created_at AS occurred_at
		FROM projects p
		LEFT JOIN employees c ON c.id = p.created_by
		WHERE p.created_at >= NOW() - ($1 * INTERVAL '1 day')
		ORDER BY occurred_at DESC
		LIMIT $2`

	rows := []*dashboard.ActivityItem{}
	if err := r.db.Select(&rows, query, days, limit); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) ProjectStatusRollup() ([]*dashboard.StatusCount, error) {
	const query = `
		SELECT status, COUNT(*) AS count
		FROM projects
		GROUP BY status
		ORDER BY count DESC`

	rows := []*dashboard.StatusCount{}
	if err := r.db.Select(&rows, query); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) TeamStats(managerID int64) (*dashboard.TeamStats, error) {
	const query = `
		SELECT
			(SELECT COUNT(*) FROM employees WHERE manager_id = $1 AND is_active = TRUE) AS team_size,
			COALESCE(SUM(CASE WHEN t.status IN ('Not Started', 'In Progress', 'Review') THEN 1 ELSE 0 END), 0) AS active_tasks,
			COALESCE(SUM(CASE WHEN t.status = 'Completed' THEN 1 ELSE 0 END), 0) AS completed_tasks,
			COALESCE(SUM(CASE WHEN t.status = 'Overdue' THEN 1 ELSE 0 END), 0) AS overdue_tasks
		FROM tasks t
		JOIN employees e ON e.id = t.assigned_to
		WHERE e.manager_id = $1 AND e.is_active = TRUE`

	var stats dashboard.TeamStats
	if err := r.db.Get(&stats, query, managerID); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *Repository) MemberPerformance(managerID int64) ([]*dashboard.MemberPerformance, error) {
	const query = `
		SELECT
			e.id AS employee_id,
			e.name AS name,
			COUNT(t.id) AS total_tasks,
			COALESCE(SUM(CASE WHEN t.status = 'Completed' THEN 1 ELSE 0 END), 0) AS completed_tasks,
			COALESCE(AVG(t.progress), 0) AS average_progress
		FROM employees e
		LEFT JOIN tasks t ON t.assigned_to = e.id
		WHERE e.manager_id = $1 AND e.is_active = TRUE
		GROUP BY e.id, e.name
		ORDER BY e.name`

	rows := []*dashboard.MemberPerformance{}
	if err := r.db.Select(&rows, query, managerID); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) UpcomingDeadlines(managerID int64, limit int) ([]*dashboard.DeadlineItem, error) {
	const query = `
		SELECT t.id AS task_id, t.title, e.name AS assigned_to_name, t.priority, t.deadline
		FROM tasks t
		JOIN employees e ON e.id = t.assigned_to
		WHERE e.manager_id = $1 AND e.is_active = TRUE
			AND t.deadline IS NOT NULL AND t.deadline >= CURRENT_DATE
			AND t.status <> 'Completed'
		ORDER BY t.deadline ASC
		LIMIT $2`

	rows := []*dashboard.DeadlineItem{}
	if err := r.db.Select(&rows, query, managerID, limit); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) WorkloadDistribution(managerID int64) ([]*dashboard.WorkloadItem, error) {
	const query = `
		SELECT
			e.id AS employee_id,
			e.name AS name,
			COALESCE(SUM(CASE WHEN t.status <> 'Completed' THEN 1 ELSE 0 END), 0) AS open_tasks
		FROM employees e
		LEFT JOIN tasks t ON t.assigned_to = e.id
		WHERE e.manager_id = $1 AND e.is_active = TRUE
		GROUP BY e.id, e.name
		ORDER BY open_tasks DESC`

	rows := []*dashboard.WorkloadItem{}
	if err := r.db.Select(&rows, query, managerID); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) PersonalStats(employeeID int64) (*dashboard.PersonalStats, error) {
	const query = `
		SELECT
			COUNT(*) AS total_tasks,
			COALESCE(SUM(CASE WHEN status = 'Completed' THEN 1 ELSE 0 END), 0) AS completed_tasks,
			COALESCE(SUM(CASE WHEN status = 'In Progress' THEN 1 ELSE 0 END), 0) AS in_progress_tasks,
			COALESCE(SUM(CASE WHEN status = 'Overdue' THEN 1 ELSE 0 END), 0) AS overdue_tasks,
			COALESCE(AVG(progress), 0) AS average_progress
		FROM tasks
		WHERE assigned_to = $1`

	var stats dashboard.PersonalStats
	if err := r.db.Get(&stats, query, employeeID); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *Repository) MyTasks(employeeID int64, limit int) ([]*dashboard.TaskSummary, error) {
	const query = `
		SELECT id, title, status, priority, progress, deadline
		FROM tasks
		WHERE assigned_to = $1 AND status <> 'Completed'
		ORDER BY CASE priority
			WHEN 'Urgent' THEN 0
			WHEN 'High' THEN 1
			WHEN 'Medium' THEN 2
			ELSE 3
		END, deadline ASC NULLS LAST
		LIMIT $2`

	rows := []*dashboard.TaskSummary{}
	if err := r.db.Select(&rows, query, employeeID, limit); err != nil {
		return nil, err
	}
	return rows, nil
}

// PerformanceMetrics unions three scalar metrics into one result set so the
// client renders them uniformly.
func (r *Repository) PerformanceMetrics(employeeID int64) ([]*dashboard.MetricItem, error) {
	const query = `
		SELECT 'completion_rate' AS metric,
			CASE WHEN COUNT(*) = 0 THEN 0
				ELSE ROUND(100.0 * SUM(CASE WHEN status = 'Completed' THEN 1 ELSE 0 END) / COUNT(*), 1)
			END AS value
		FROM tasks WHERE assigned_to = $1
		UNION ALL
		SELECT 'average_progress' AS metric, COALESCE(AVG(progress), 0) AS value
		FROM tasks WHERE assigned_to = $1 AND status <> 'Completed'
		UNION ALL
		SELECT 'on_time_rate' AS metric,
			CASE WHEN COUNT(*) = 0 THEN 0
				ELSE ROUND(100.0 * SUM(CASE WHEN deadline IS NULL OR updated_at::date <= deadline THEN 1 ELSE 0 END) / COUNT(*), 1)
			END AS value
		FROM tasks WHERE assigned_to = $1 AND status = 'Completed'`

	rows := []*dashboard.MetricItem{}
	if err := r.db.Select(&rows, query, employeeID); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) EmployeeActivity(employeeID int64, limit int) ([]*dashboard.ActivityItem, error) {
	const query = `
		SELECT 'task_completed' AS type, title, NULL AS actor_name, updated_at AS occurred_at
		FROM tasks
		WHERE assigned_to = $1 AND status = 'Completed'
		UNION ALL
		SELECT 'task_assigned' AS type, title, NULL AS actor_name, created_at AS occurred_at
		FROM tasks
		WHERE assigned_to = $1
		ORDER BY occurred_at DESC
		LIMIT $2`

	rows := []*dashboard.ActivityItem{}
	if err := r.db.Select(&rows, query, employeeID, limit); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) RecentTasks(limit int) ([]*dashboard.TaskSummary, error) {
	const query = `
		SELECT id, title, status, priority, progress, deadline
		FROM tasks
		ORDER BY created_at DESC
		LIMIT $1`

	rows := []*dashboard.TaskSummary{}
	if err := r.db.Select(&rows, query, limit); err != nil {
		return nil, err
	}
	return rows, nil
}
