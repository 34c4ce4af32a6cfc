package dashboard

import (
	"log/slog"
	"time"

	"github.com/genzspace/genzflow/internal"
)

// Row types for the aggregate queries. Every dashboard is read-only; the
// repository returns plain projections and the service only assembles them.

type CompanyStats struct {
	TotalEmployees int64 `db:"total_employees" json:"total_employees"`
	TotalProjects  int64 `db:"total_projects" json:"total_projects"`
	TotalTasks     int64 `db:"total_tasks" json:"total_tasks"`
	CompletedTasks int64 `db:"completed_tasks" json:"completed_tasks"`
}

type DepartmentCompletion struct {
	DepartmentName string  `db:"department_name" json:"department_name"`
	TotalTasks     int64   `db:"total_tasks" json:"total_tasks"`
	CompletedTasks int64   `db:"completed_tasks" json:"completed_tasks"`
	CompletionRate float64 `db:"completion_rate" json:"completion_rate"`
}

// ActivityItem is one row of the recent-activity feed, a UNION of
// heterogeneous events ordered by timestamp.
type ActivityItem struct {
	Type       string    `db:"type" json:"type"`
	Title      string    `db:"title" json:"title"`
	ActorName  *string   `db:"actor_name" json:"actor_name"`
	OccurredAt time.Time `db:"occurred_at" json:"occurred_at"`
}

type StatusCount struct {
	Status string `db:"status" json:"status"`
	Count  int64  `db:"count" json:"count"`
}

type TeamStats struct {
	TeamSize       int64 `db:"team_size" json:"team_size"`
	ActiveTasks    int64 `db:"active_tasks" json:"active_tasks"`
	CompletedTasks int64 `db:"completed_tasks" json:"completed_tasks"`
	OverdueTasks   int64 `db:"overdue_tasks" json:"overdue_tasks"`
}

type MemberPerformance struct {
	EmployeeID      int64   `db:"employee_id" json:"employee_id"`
	Name            string  `db:"name" json:"name"`
	TotalTasks      int64   `db:"total_tasks" json:"total_tasks"`
	CompletedTasks  int64   `db:"completed_tasks" json:"completed_tasks"`
	AverageProgress float64 `db:"average_progress" json:"average_progress"`
}

type DeadlineItem struct {
	TaskID         int64     `db:"task_id" json:"task_id"`
	Title          string    `db:"title" json:"title"`
	AssignedToName *string   `db:"assigned_to_name" json:"assigned_to_name"`
	Priority       string    `db:"priority" json:"priority"`
	Deadline       time.Time `db:"deadline" json:"deadline"`
}

type WorkloadItem struct {
	EmployeeID int64  `db:"employee_id" json:"employee_id"`
	Name       string `db:"name" json:"name"`
	OpenTasks  int64  `db:"open_tasks" json:"open_tasks"`
}

type PersonalStats struct {
	TotalTasks      int64   `db:"total_tasks" json:"total_tasks"`
	CompletedTasks  int64   `db:"completed_tasks" json:"completed_tasks"`
	InProgressTasks int64   `db:"in_progress_tasks" json:"in_progress_tasks"`
	OverdueTasks    int64   `db:"overdue_tasks" json:"overdue_tasks"`
	AverageProgress float64 `db:"average_progress" json:"average_progress"`
}

type MetricItem struct {
	Metric string  `db:"metric" json:"metric"`
	Value  float64 `db:"value" json:"value"`
}

type TaskSummary struct {
	ID       int64      `db:"id" json:"id"`
	Title    string     `db:"title" json:"title"`
	Status   string     `db:"status" json:"status"`
	Priority string     `db:"priority" json:"priority"`
	Progress int        `db:"progress" json:"progress"`
	Deadline *time.Time `db:"deadline" json:"deadline"`
}

// Assembled dashboard payloads.

type CEODashboard struct {
	CompanyStats   *CompanyStats           `json:"company_stats"`
	Departments    []*DepartmentCompletion `json:"department_completion"`
	RecentActivity []*ActivityItem         `json:"recent_activity"`
	ProjectStatus  []*StatusCount          `json:"project_status"`
}

type ManagerDashboard struct {
	TeamStats         *TeamStats           `json:"team_stats"`
	MemberPerformance []*MemberPerformance `json:"member_performance"`
	UpcomingDeadlines []*DeadlineItem      `json:"upcoming_deadlines"`
	Workload          []*WorkloadItem      `json:"workload_distribution"`
}

type EmployeeDashboard struct {
	PersonalStats  *PersonalStats  `json:"personal_stats"`
	MyTasks        []*TaskSummary  `json:"my_tasks"`
	Performance    []*MetricItem   `json:"performance_metrics"`
	RecentActivity []*ActivityItem `json:"recent_activity"`
}

type GeneralDashboard struct {
	BasicStats    *CompanyStats  `json:"basic_stats"`
	RecentTasks   []*TaskSummary `json:"recent_tasks"`
	ProjectStatus []*StatusCount `json:"project_status"`
}

// Repository is the aggregate query contract. Implementations issue raw SQL
// against the read path; nothing here mutates.
type Repository interface {
	CompanyStats() (*CompanyStats, error)
	DepartmentCompletion() ([]*DepartmentCompletion, error)
	RecentActivity(days, limit int) ([]*ActivityItem, error)
	ProjectStatusRollup() ([]*StatusCount, error)

	TeamStats(managerID int64) (*TeamStats, error)
	MemberPerformance(managerID int64) ([]*MemberPerformance, error)
	UpcomingDeadlines(managerID int64, limit int) ([]*DeadlineItem, error)
	WorkloadDistribution(managerID int64) ([]*WorkloadItem, error)

	PersonalStats(employeeID int64) (*PersonalStats, error)
	MyTasks(employeeID int64, limit int) ([]*TaskSummary, error)
	PerformanceMetrics(employeeID int64) ([]*MetricItem, error)
	EmployeeActivity(employeeID int64, limit int) ([]*ActivityItem, error)

	RecentTasks(limit int) ([]*TaskSummary, error)
}

type ServiceAPI interface {
	CEO() (*CEODashboard, error)
	Manager(caller *internal.Identity) (*ManagerDashboard, error)
	Employee(caller *internal.Identity) (*EmployeeDashboard, error)
	General() (*GeneralDashboard, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) CEO() (*CEODashboard, error) {
	stats, err := s.repo.CompanyStats()
	if err != nil {
		return nil, s.dataError("ceo", err)
	}
	departments, err := s.repo.DepartmentCompletion()
	if err != nil {
		return nil, s.dataError("ceo", err)
	}
	activity, err := s.repo.RecentActivity(7, 10)
	if err != nil {
		return nil, s.dataError("ceo", err)
	}
	projectStatus, err := s.repo.ProjectStatusRollup()
	if err != nil {
		return nil, s.dataError("ceo", err)
	}

	return &CEODashboard{
		CompanyStats:   stats,
		Departments:    departments,
		RecentActivity: activity,
		ProjectStatus:  projectStatus,
	}, nil
}

func (s *Service) Manager(caller *internal.Identity) (*ManagerDashboard, error) {
	stats, err := s.repo.TeamStats(caller.ID)
	if err != nil {
		return nil, s.dataError("manager", err)
	}
	performance, err := s.repo.MemberPerformance(caller.ID)
	if err != nil {
		return nil, s.dataError("manager", err)
	}
	deadlines, err := s.repo.UpcomingDeadlines(caller.ID, 10)
	if err != nil {
		return nil, s.dataError("manager", err)
	}
	workload, err := s.repo.WorkloadDistribution(caller.ID)
	if err != nil {
		return nil, s.dataError("manager", err)
	}

	return &ManagerDashboard{
		TeamStats:         stats,
		MemberPerformance: performance,
		UpcomingDeadlines: deadlines,
		Workload:          workload,
	}, nil
}

func (s *Service) Employee(caller *internal.Identity) (*EmployeeDashboard, error) {
	stats, err := s.repo.PersonalStats(caller.ID)
	if err != nil {
		return nil, s.dataError("employee", err)
	}
	myTasks, err := s.repo.MyTasks(caller.ID, 10)
	if err != nil {
		return nil, s.dataError("employee", err)
	}
	performance, err := s.repo.PerformanceMetrics(caller.ID)
	if err != nil {
		return nil, s.dataError("employee", err)
	}
	activity, err := s.repo.EmployeeActivity(caller.ID, 10)
	if err != nil {
		return nil, s.dataError("employee", err)
	}

	return &EmployeeDashboard{
		PersonalStats:  stats,
		MyTasks:        myTasks,
		Performance:    performance,
		RecentActivity: activity,
	}, nil
}

func (s *Service) General() (*GeneralDashboard, error) {
	stats, err := s.repo.CompanyStats()
	if err != nil {
		return nil, s.dataError("general", err)
	}
	recentTasks, err := s.repo.RecentTasks(5)
	if err != nil {
		return nil, s.dataError("general", err)
	}
	projectStatus, err := s.repo.ProjectStatusRollup()
	if err != nil {
		return nil, s.dataError("general", err)
	}

	return &GeneralDashboard{
		BasicStats:    stats,
		RecentTasks:   recentTasks,
		ProjectStatus: projectStatus,
	}, nil
}

func (s *Service) dataError(board string, err error) error {
	s.logger.Error("dashboard query failed", "dashboard", board, "error", err)
	return internal.NewDataError("Failed to fetch dashboard data", err)
}
