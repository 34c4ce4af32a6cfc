package employee

import (
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/genzspace/genzflow/internal"
)

// ServiceAPI is the employee directory contract consumed by the handler.
type ServiceAPI interface {
	List(filters ListFilters) ([]*Detail, int64, error)
	Get(id int64) (*Detail, error)
	Create(dto CreateDTO) (*Detail, error)
	Update(id int64, dto UpdateDTO) (*Detail, error)
	Deactivate(callerID, id int64) error
	OrgChart() ([]*OrgUnit, error)
	StatsOverview() (*Stats, error)
}

// Stats is the admin overview payload.
type Stats struct {
	Roles       *RoleCounts            `json:"roles"`
	Departments []*DepartmentHeadcount `json:"departments"`
}

type Service struct {
	repo       Repository
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// List returns active employees matching the filters plus the total row
// count for pagination. Page and limit are clamped here so every caller
// gets the same bounds.
func (s *Service) List(filters ListFilters) ([]*Detail, int64, error) {
	filters.Normalize()

	if filters.Role != "" && !internal.ValidRole(filters.Role) {
		return nil, 0, internal.NewValidationError("Invalid role", internal.ErrCodeInvalidRole)
	}

	rows, total, err := s.repo.List(filters)
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, 0, internal.NewDataError("Failed to fetch employees", err)
	}

	return rows, total, nil
}

func (s *Service) Get(id int64) (*Detail, error) {
	detail, err := s.repo.GetDetail(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return detail, nil
}

// Create registers an employee on behalf of an admin.
func (s *Service) Create(dto CreateDTO) (*Detail, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	taken, err := s.repo.EmailExists(dto.Email)
	if err != nil {
		return nil, internal.NewDataError("Failed to create employee", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("Failed to create employee", err)
	}

	emp := &Employee{
		Name:         dto.Name,
		Email:        dto.Email,
		PasswordHash: string(hash),
		Role:         dto.Role,
		DepartmentID: dto.DepartmentID,
		ManagerID:    dto.ManagerID,
		IsActive:     true,
		JoinDate:     time.Now().Truncate(24 * time.Hour),
	}

	if err := s.repo.Create(emp); err != nil {
		s.logger.Error("failed to create employee", "error", err, "email", dto.Email)
		return nil, internal.NewDataError("Failed to create employee", err)
	}

	s.logger.Info("employee created", "employee_id", emp.ID, "role", emp.Role)

	return s.Get(emp.ID)
}

// Update applies an allow-listed sparse update. A changed email re-runs the
// uniqueness check; a changed manager may not point the employee at itself.
func (s *Service) Update(id int64, dto UpdateDTO) (*Detail, error) {
	updates, err := dto.Updates()
	if err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrNotFound
	}

	if email, ok := updates["email"].(string); ok && email != current.Email {
		taken, err := s.repo.EmailExists(email)
		if err != nil {
			return nil, internal.NewDataError("Failed to update employee", err)
		}
		if taken {
			return nil, ErrEmailTaken
		}
	}

	if managerID, ok := updates["manager_id"].(int64); ok && managerID == id {
		return nil, internal.NewValidationError("Employee cannot be their own manager", internal.ErrCodeManagerCycle)
	}

	if err := s.repo.Update(id, updates); err != nil {
		s.logger.Error("failed to update employee", "error", err, "employee_id", id)
		return nil, internal.NewDataError("Failed to update employee", err)
	}

	return s.Get(id)
}

// Deactivate soft-deletes an account. Admins cannot lock themselves out by
// deactivating their own account.
func (s *Service) Deactivate(callerID, id int64) error {
	if callerID == id {
		return ErrSelfDeactivation
	}

	if _, err := s.repo.GetByID(id); err != nil {
		return ErrNotFound
	}

	if err := s.repo.Deactivate(id); err != nil {
		s.logger.Error("failed to deactivate employee", "error", err, "employee_id", id)
		return internal.NewDataError("Failed to deactivate employee", err)
	}

	s.logger.Info("employee deactivated", "employee_id", id, "by", callerID)

	return nil
}

// OrgChart renders the active employees as a manager hierarchy.
func (s *Service) OrgChart() ([]*OrgUnit, error) {
	nodes, err := s.repo.ListActiveNodes()
	if err != nil {
		s.logger.Error("failed to load org chart nodes", "error", err)
		return nil, internal.NewDataError("Failed to fetch organization chart", err)
	}

	forest, err := BuildOrgChart(nodes)
	if err != nil {
		s.logger.Error("org chart build failed", "error", err)
		return nil, err
	}

	return forest, nil
}

func (s *Service) StatsOverview() (*Stats, error) {
	roles, err := s.repo.CountByRole()
	if err != nil {
		return nil, internal.NewDataError("Failed to fetch employee statistics", err)
	}

	departments, err := s.repo.HeadcountByDepartment()
	if err != nil {
		return nil, internal.NewDataError("Failed to fetch employee statistics", err)
	}

	return &Stats{Roles: roles, Departments: departments}, nil
}
