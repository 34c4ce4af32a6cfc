package project

import (
	"log/slog"

	"github.com/genzspace/genzflow/internal"
	"github.com/genzspace/genzflow/internal/task"
)

// ServiceAPI is the project tracking contract consumed by the handler.
type ServiceAPI interface {
	List(filters ListFilters) ([]*Detail, int64, error)
	Get(id int64) (*Detail, []*task.Detail, error)
	Create(caller *internal.Identity, dto CreateDTO) (*Detail, error)
	Update(id int64, dto UpdateDTO) (*Detail, error)
	Delete(id int64) error
	StatsOverview() (*Stats, error)
}

// TaskLister is the slice of the task store the project read path needs.
type TaskLister interface {
	List(filters task.ListFilters) ([]*task.Detail, int64, error)
}

type Service struct {
	repo   Repository
	tasks  TaskLister
	logger *slog.Logger
}

func NewService(repo Repository, tasks TaskLister, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		tasks:  tasks,
		logger: logger,
	}
}

func (s *Service) List(filters ListFilters) ([]*Detail, int64, error) {
	filters.Normalize()

	if filters.Status != "" && !ValidStatus(filters.Status) {
		return nil, 0, internal.NewValidationError("Invalid status", internal.ErrCodeInvalidStatus)
	}

	rows, total, err := s.repo.List(filters)
	if err != nil {
		s.logger.Error("failed to list projects", "error", err)
		return nil, 0, internal.NewDataError("Failed to fetch projects", err)
	}

	return rows, total, nil
}

// taskPageSize bounds each round-trip to the task store; Get keeps
// requesting pages until the project's tasks are exhausted.
const taskPageSize = 100

// Get returns the project detail plus every task in the project.
func (s *Service) Get(id int64) (*Detail, []*task.Detail, error) {
	detail, err := s.repo.GetDetail(id)
	if err != nil {
		return nil, nil, ErrNotFound
	}

	tasks := []*task.Detail{}
	for page := 1; ; page++ {
		batch, total, err := s.tasks.List(task.ListFilters{ProjectID: &id, Page: page, Limit: taskPageSize})
		if err != nil {
			s.logger.Error("failed to load project tasks", "error", err, "project_id", id)
			return nil, nil, internal.NewDataError("Failed to fetch project", err)
		}
		tasks = append(tasks, batch...)
		if len(batch) == 0 || int64(len(tasks)) >= total {
			break
		}
	}

	return detail, tasks, nil
}

func (s *Service) Create(caller *internal.Identity, dto CreateDTO) (*Detail, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	p := &Project{
		Name:        dto.Name,
		Description: dto.Description,
		Status:      dto.Status,
		Budget:      dto.Budget,
		CreatedBy:   caller.ID,
	}
	if dto.StartDate != nil {
		startDate, err := parseDate(*dto.StartDate)
		if err != nil {
			return nil, internal.NewValidationError("Start date must be an ISO date (YYYY-MM-DD)", internal.ErrCodeInvalidDate)
		}
		p.StartDate = &startDate
	}
	if dto.Deadline != nil {
		deadline, err := parseDate(*dto.Deadline)
		if err != nil {
			return nil, internal.NewValidationError("Deadline must be an ISO date (YYYY-MM-DD)", internal.ErrCodeInvalidDate)
		}
		p.Deadline = &deadline
	}

	if err := s.repo.Create(p); err != nil {
		s.logger.Error("failed to create project", "error", err, "created_by", caller.ID)
		return nil, internal.NewDataError("Failed to create project", err)
	}

	s.logger.Info("project created", "project_id", p.ID, "created_by", p.CreatedBy)

	detail, err := s.repo.GetDetail(p.ID)
	if err != nil {
		return nil, internal.NewDataError("Failed to create project", err)
	}
	return detail, nil
}

func (s *Service) Update(id int64, dto UpdateDTO) (*Detail, error) {
	updates, err := dto.Updates()
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByID(id); err != nil {
		return nil, ErrNotFound
	}

	if err := s.repo.Update(id, updates); err != nil {
		s.logger.Error("failed to update project", "error", err, "project_id", id)
		return nil, internal.NewDataError("Failed to update project", err)
	}

	detail, err := s.repo.GetDetail(id)
	if err != nil {
		return nil, internal.NewDataError("Failed to update project", err)
	}
	return detail, nil
}

// Delete hard-deletes a project with no tasks. The count check and the
// delete are separate statements; the race between them is accepted.
func (s *Service) Delete(id int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return ErrNotFound
	}

	taskCount, err := s.repo.TaskCount(id)
	if err != nil {
		return internal.NewDataError("Failed to delete project", err)
	}
	if taskCount > 0 {
		return ErrHasTasks
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete project", "error", err, "project_id", id)
		return internal.NewDataError("Failed to delete project", err)
	}

	s.logger.Info("project deleted", "project_id", id)

	return nil
}

func (s *Service) StatsOverview() (*Stats, error) {
	stats, err := s.repo.StatsOverview()
	if err != nil {
		s.logger.Error("failed to compute project stats", "error", err)
		return nil, internal.NewDataError("Failed to fetch project statistics", err)
	}
	return stats, nil
}
