package task

import (
	"log/slog"
	"time"

	"github.com/genzspace/genzflow/internal"
	"github.com/genzspace/genzflow/internal/auth"
	"github.com/genzspace/genzflow/internal/employee"
)

// ServiceAPI is the task tracking contract consumed by the handler. Every
// operation takes the resolved caller because visibility is role-scoped.
type ServiceAPI interface {
	List(caller *internal.Identity, filters ListFilters) ([]*Detail, int64, error)
	Get(caller *internal.Identity, id int64) (*Detail, error)
	Create(caller *internal.Identity, dto CreateDTO) (*Detail, error)
	Update(caller *internal.Identity, id int64, dto UpdateDTO) (*Detail, error)
	Delete(id int64) error
	StatsOverview(caller *internal.Identity) (*Stats, error)
}

// EmployeeDirectory is the slice of the employee store the task service
// needs: active-assignee lookups.
type EmployeeDirectory interface {
	GetByID(id int64) (*employee.Employee, error)
}

// ProjectCatalog answers existence checks for optional project references.
type ProjectCatalog interface {
	Exists(id int64) (bool, error)
}

type Service struct {
	repo      Repository
	employees EmployeeDirectory
	projects  ProjectCatalog
	logger    *slog.Logger
}

func NewService(repo Repository, employees EmployeeDirectory, projects ProjectCatalog, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		employees: employees,
		projects:  projects,
		logger:    logger,
	}
}

// List returns tasks visible to the caller. Developer and Team Lead callers
// only ever see rows where they are assignee or assigner, regardless of the
// filters they send.
func (s *Service) List(caller *internal.Identity, filters ListFilters) ([]*Detail, int64, error) {
	filters.Normalize()

	if filters.Status != "" && !ValidStatus(filters.Status) {
		return nil, 0, internal.NewValidationError("Invalid status", internal.ErrCodeInvalidStatus)
	}
	if filters.Priority != "" && !ValidPriority(filters.Priority) {
		return nil, 0, internal.NewValidationError("Invalid priority", internal.ErrCodeInvalidPriority)
	}

	if caller.Role.ScopedToOwnTasks() {
		filters.ViewerID = &caller.ID
	}

	rows, total, err := s.repo.List(filters)
	if err != nil {
		s.logger.Error("failed to list tasks", "error", err)
		return nil, 0, internal.NewDataError("Failed to fetch tasks", err)
	}

	return rows, total, nil
}

func (s *Service) Get(caller *internal.Identity, id int64) (*Detail, error) {
	detail, err := s.repo.GetDetail(id)
	if err != nil {
		return nil, ErrNotFound
	}

	if caller.Role.ScopedToOwnTasks() && detail.AssignedTo != caller.ID && detail.AssignedBy != caller.ID {
		return nil, ErrAccessDenied
	}

	return detail, nil
}

// Create inserts a task assigned by the caller. The assignee must be an
// active employee and a referenced project must exist; both are reported as
// 400s, not 404s, because the body is what is wrong.
func (s *Service) Create(caller *internal.Identity, dto CreateDTO) (*Detail, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.employees.GetByID(dto.AssignedTo); err != nil {
		return nil, ErrAssigneeInvalid
	}
	if dto.ProjectID != nil {
		exists, err := s.projects.Exists(*dto.ProjectID)
		if err != nil {
			return nil, internal.NewDataError("Failed to create task", err)
		}
		if !exists {
			return nil, ErrProjectInvalid
		}
	}

	progress := 0
	if dto.Progress != nil {
		progress = *dto.Progress
	}

	t := &Task{
		Title:          dto.Title,
		Description:    dto.Description,
		Status:         dto.Status,
		Priority:       dto.Priority,
		Progress:       progress,
		AssignedTo:     dto.AssignedTo,
		AssignedBy:     caller.ID,
		ProjectID:      dto.ProjectID,
		StartDate:      time.Now().Truncate(24 * time.Hour),
		EstimatedHours: dto.EstimatedHours,
	}
	if dto.Deadline != nil {
		deadline, err := parseDate(*dto.Deadline)
		if err != nil {
			return nil, internal.NewValidationError("Deadline must be an ISO date (YYYY-MM-DD)", internal.ErrCodeInvalidDate)
		}
		t.Deadline = &deadline
	}

	if err := s.repo.Create(t); err != nil {
		s.logger.Error("failed to create task", "error", err, "assigned_by", caller.ID)
		return nil, internal.NewDataError("Failed to create task", err)
	}

	s.logger.Info("task created", "task_id", t.ID, "assigned_to", t.AssignedTo, "assigned_by", t.AssignedBy)

	detail, err := s.repo.GetDetail(t.ID)
	if err != nil {
		return nil, internal.NewDataError("Failed to create task", err)
	}
	return detail, nil
}

// Update applies an allow-listed partial update. Privileged roles may touch
// any task; everyone else must be its assignee or assigner.
func (s *Service) Update(caller *internal.Identity, id int64, dto UpdateDTO) (*Detail, error) {
	updates, err := dto.Updates()
	if err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrNotFound
	}

	privileged := auth.Allowed(caller.Role, auth.ResourceTasks, auth.ActionUpdate)
	if !privileged && current.AssignedTo != caller.ID && current.AssignedBy != caller.ID {
		return nil, ErrAccessDenied
	}

	if assignedTo, ok := updates["assigned_to"].(int64); ok && assignedTo != current.AssignedTo {
		if _, err := s.employees.GetByID(assignedTo); err != nil {
			return nil, ErrAssigneeInvalid
		}
	}
	if projectID, ok := updates["project_id"].(int64); ok {
		exists, err := s.projects.Exists(projectID)
		if err != nil {
			return nil, internal.NewDataError("Failed to update task", err)
		}
		if !exists {
			return nil, ErrProjectInvalid
		}
	}

	if err := s.repo.Update(id, updates); err != nil {
		s.logger.Error("failed to update task", "error", err, "task_id", id)
		return nil, internal.NewDataError("Failed to update task", err)
	}

	detail, err := s.repo.GetDetail(id)
	if err != nil {
		return nil, internal.NewDataError("Failed to update task", err)
	}
	return detail, nil
}

// Delete hard-deletes a task. Role gating happens at the route; tasks are
// referenced by nothing, so no further checks are needed.
func (s *Service) Delete(id int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return ErrNotFound
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete task", "error", err, "task_id", id)
		return internal.NewDataError("Failed to delete task", err)
	}

	s.logger.Info("task deleted", "task_id", id)

	return nil
}

// StatsOverview aggregates status/priority counts and average progress,
// scoped the same way listings are.
func (s *Service) StatsOverview(caller *internal.Identity) (*Stats, error) {
	var viewerID *int64
	if caller.Role.ScopedToOwnTasks() {
		viewerID = &caller.ID
	}

	stats, err := s.repo.StatsOverview(viewerID)
	if err != nil {
		s.logger.Error("failed to compute task stats", "error", err)
		return nil, internal.NewDataError("Failed to fetch task statistics", err)
	}
	return stats, nil
}
