package project

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/genzspace/genzflow/internal"
)

type Status string

const (
	StatusPlanning  Status = "Planning"
	StatusActive    Status = "Active"
	StatusOnHold    Status = "On Hold"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

var AllStatuses = []Status{StatusPlanning, StatusActive, StatusOnHold, StatusCompleted, StatusCancelled}

func ValidStatus(s Status) bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Project is a row in the projects table. Budget is exact decimal money,
// never a float.
type Project struct {
	ID          int64               `json:"id" gorm:"primaryKey"`
	Name        string              `json:"name" gorm:"column:name;not null"`
	Description *string             `json:"description,omitempty" gorm:"column:description"`
	Status      Status              `json:"status" gorm:"column:status;type:varchar(20);not null"`
	StartDate   *time.Time          `json:"start_date" gorm:"column:start_date;type:date"`
	Deadline    *time.Time          `json:"deadline" gorm:"column:deadline;type:date"`
	Budget      decimal.NullDecimal `json:"budget" gorm:"column:budget;type:decimal(15,2)"`
	CreatedBy   int64               `json:"created_by" gorm:"column:created_by;not null"`
	CreatedAt   time.Time           `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time           `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Project) TableName() string {
	return "projects"
}

// Detail is the listing/read shape: the project plus creator name and task
// rollups.
type Detail struct {
	ID              int64               `json:"id"`
	Name            string              `json:"name"`
	Description     *string             `json:"description,omitempty"`
	Status          Status              `json:"status"`
	StartDate       *time.Time          `json:"start_date"`
	Deadline        *time.Time          `json:"deadline"`
	Budget          decimal.NullDecimal `json:"budget"`
	CreatedBy       int64               `json:"created_by"`
	CreatedByName   *string             `json:"created_by_name"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	TaskCount       int64               `json:"task_count"`
	CompletedTasks  int64               `json:"completed_tasks"`
	AverageProgress float64             `json:"average_progress"`
}

type ListFilters struct {
	Status Status
	Search string
	Page   int
	Limit  int
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

// Stats is the /projects/stats/overview payload.
type Stats struct {
	Total       int64            `json:"total"`
	ByStatus    map[string]int64 `json:"by_status"`
	TotalBudget decimal.Decimal  `json:"total_budget"`
}

// Repository is the data access contract for projects.
type Repository interface {
	List(filters ListFilters) ([]*Detail, int64, error)
	GetDetail(id int64) (*Detail, error)
	GetByID(id int64) (*Project, error)
	Exists(id int64) (bool, error)
	TaskCount(id int64) (int64, error)
	Create(p *Project) error
	Update(id int64, updates map[string]interface{}) error
	Delete(id int64) error
	StatsOverview() (*Stats, error)
}

// UpdatableColumns is the explicit allow-list of columns a PUT /projects/:id
// may touch. Creator and timestamps are never client-settable.
var UpdatableColumns = map[string]bool{
	"name":        true,
	"description": true,
	"status":      true,
	"start_date":  true,
	"deadline":    true,
	"budget":      true,
}

var (
	ErrNotFound = internal.NewNotFoundError("Project not found", internal.ErrCodeProjectNotFound)
	ErrHasTasks = internal.NewValidationError(
		"Cannot delete project with existing tasks. Please reassign or delete tasks first.",
		internal.ErrCodeProjectHasTasks,
	)
)
