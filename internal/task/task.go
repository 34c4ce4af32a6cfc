package task

import (
	"time"

	"github.com/genzspace/genzflow/internal"
)

// Status is the task status enum. Progress and status are independently
// settable; the API never derives one from the other.
type Status string

const (
	StatusNotStarted Status = "Not Started"
	StatusInProgress Status = "In Progress"
	StatusReview     Status = "Review"
	StatusCompleted  Status = "Completed"
	StatusOverdue    Status = "Overdue"
)

var AllStatuses = []Status{StatusNotStarted, StatusInProgress, StatusReview, StatusCompleted, StatusOverdue}

func ValidStatus(s Status) bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
	PriorityUrgent Priority = "Urgent"
)

var AllPriorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

func ValidPriority(p Priority) bool {
	for _, known := range AllPriorities {
		if p == known {
			return true
		}
	}
	return false
}

// Task is a row in the tasks table. Tasks are leaves: deleting one needs no
// referential checks.
type Task struct {
	ID             int64      `json:"id" gorm:"primaryKey"`
	Title          string     `json:"title" gorm:"column:title;not null"`
	Description    *string    `json:"description,omitempty" gorm:"column:description"`
	Status         Status     `json:"status" gorm:"column:status;type:varchar(20);not null"`
	Priority       Priority   `json:"priority" gorm:"column:priority;type:varchar(10);not null"`
	Progress       int        `json:"progress" gorm:"column:progress;default:0"`
	AssignedTo     int64      `json:"assigned_to" gorm:"column:assigned_to;not null"`
	AssignedBy     int64      `json:"assigned_by" gorm:"column:assigned_by;not null"`
	ProjectID      *int64     `json:"project_id" gorm:"column:project_id"`
	StartDate      time.Time  `json:"start_date" gorm:"column:start_date;type:date"`
	Deadline       *time.Time `json:"deadline" gorm:"column:deadline;type:date"`
	EstimatedHours *float64   `json:"estimated_hours" gorm:"column:estimated_hours"`
	CreatedAt      time.Time  `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt      time.Time  `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Task) TableName() string {
	return "tasks"
}

// Detail is the listing/read shape with the joined display names.
type Detail struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Description     *string    `json:"description,omitempty"`
	Status          Status     `json:"status"`
	Priority        Priority   `json:"priority"`
	Progress        int        `json:"progress"`
	AssignedTo      int64      `json:"assigned_to"`
	AssignedToName  *string    `json:"assigned_to_name"`
	AssignedToEmail *string    `json:"assigned_to_email"`
	AssignedBy      int64      `json:"assigned_by"`
	AssignedByName  *string    `json:"assigned_by_name"`
	ProjectID       *int64     `json:"project_id"`
	ProjectName     *string    `json:"project_name"`
	StartDate       time.Time  `json:"start_date"`
	Deadline        *time.Time `json:"deadline"`
	EstimatedHours  *float64   `json:"estimated_hours"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ListFilters is the normalized filter set for task listings. ViewerID is
// set for roles scoped to their own tasks; the repository then restricts
// rows to assignee-or-assigner matches.
type ListFilters struct {
	Status     Status
	Priority   Priority
	AssignedTo *int64
	ProjectID  *int64
	Search     string
	ViewerID   *int64
	Page       int
	Limit      int
}

func (f *ListFilters) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
}

func (f ListFilters) Offset() int {
	return (f.Page - 1) * f.Limit
}

// Stats is the /tasks/stats/overview payload.
type Stats struct {
	Total           int64            `json:"total"`
	ByStatus        map[string]int64 `json:"by_status"`
	ByPriority      map[string]int64 `json:"by_priority"`
	AverageProgress float64          `json:"average_progress"`
}

// Repository is the data access contract for tasks.
type Repository interface {
	List(filters ListFilters) ([]*Detail, int64, error)
	GetDetail(id int64) (*Detail, error)
	GetByID(id int64) (*Task, error)
	Create(t *Task) error
	Update(id int64, updates map[string]interface{}) error
	Delete(id int64) error
	StatsOverview(viewerID *int64) (*Stats, error)
}

// UpdatableColumns is the explicit allow-list of columns a PUT /tasks/:id
// may touch.
var UpdatableColumns = map[string]bool{
	"title":           true,
	"description":     true,
	"status":          true,
	"priority":        true,
	"progress":        true,
	"deadline":        true,
	"estimated_hours": true,
	"project_id":      true,
	"assigned_to":     true,
}

var (
	ErrNotFound        = internal.NewNotFoundError("Task not found", internal.ErrCodeTaskNotFound)
	ErrAssigneeInvalid = internal.NewValidationError("Assigned employee not found or inactive", internal.ErrCodeEmployeeNotFound)
	ErrProjectInvalid  = internal.NewValidationError("Project not found", internal.ErrCodeProjectNotFound)
	ErrAccessDenied    = internal.NewForbiddenError("Insufficient permissions", internal.ErrCodeAccessDenied)
)
