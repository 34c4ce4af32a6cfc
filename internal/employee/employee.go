package employee

import (
	"time"

	"github.com/genzspace/genzflow/internal"
)

// Employee is a row in the employees table. The password hash never
// serializes to JSON.
type Employee struct {
	ID             int64         `json:"id" gorm:"primaryKey"`
	Name           string        `json:"name" gorm:"column:name;not null"`
	Email          string        `json:"email" gorm:"column:email;uniqueIndex;not null"`
	PasswordHash   string        `json:"-" gorm:"column:password_hash;not null"`
	Role           internal.Role `json:"role" gorm:"column:role;type:varchar(20);not null"`
	DepartmentID   *int64        `json:"department_id" gorm:"column:department_id"`
	ManagerID      *int64        `json:"manager_id" gorm:"column:manager_id"`
	IsActive       bool          `json:"is_active" gorm:"column:is_active;default:true"`
	ProfilePicture *string       `json:"profile_picture,omitempty" gorm:"column:profile_picture"`
	Bio            *string       `json:"bio,omitempty" gorm:"column:bio"`
	JoinDate       time.Time     `json:"join_date" gorm:"column:join_date;type:date"`
	CreatedAt      time.Time     `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt      time.Time     `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Employee) TableName() string {
	return "employees"
}

// Detail is the listing/read shape: an employee joined with its department
// and manager names.
type Detail struct {
	ID             int64         `json:"id"`
	Name           string        `json:"name"`
	Email          string        `json:"email"`
	Role           internal.Role `json:"role"`
	DepartmentID   *int64        `json:"department_id"`
	ManagerID      *int64        `json:"manager_id"`
	ProfilePicture *string       `json:"profile_picture,omitempty"`
	Bio            *string       `json:"bio,omitempty"`
	JoinDate       time.Time     `json:"join_date"`
	CreatedAt      time.Time     `json:"created_at"`
	DepartmentName *string       `json:"department_name"`
	ManagerName    *string       `json:"manager_name"`
}

// OrgNode is the slim projection the org chart is built from.
type OrgNode struct {
	ID             int64         `json:"id"`
	Name           string        `json:"name"`
	Role           internal.Role `json:"role"`
	DepartmentID   *int64        `json:"department_id"`
	ManagerID      *int64        `json:"manager_id"`
	DepartmentName *string       `json:"department_name"`
}

// OrgUnit is a node of the rendered hierarchy.
type OrgUnit struct {
	OrgNode
	Children []*OrgUnit `json:"children"`
}

// RoleCounts mirrors the admin stats overview rollup.
type RoleCounts struct {
	TotalEmployees int64 `json:"total_employees"`
	CEOCount       int64 `json:"ceo_count"`
	DirectorCount  int64 `json:"director_count"`
	HRCount        int64 `json:"hr_count"`
	ManagerCount   int64 `json:"manager_count"`
	TeamLeadCount  int64 `json:"team_lead_count"`
	DeveloperCount int64 `json:"developer_count"`
}

type DepartmentHeadcount struct {
	DepartmentName string `json:"department_name"`
	EmployeeCount  int64  `json:"employee_count"`
}

// ListFilters is the normalized filter set for the employee listing.
type ListFilters struct {
	Role         internal.Role
	DepartmentID *int64
	Search       string
	Page         int
	Limit        int
}

// Normalize clamps page and limit to the pagination contract: page >= 1
// (default 1), limit 1-100 (default 20).
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

// Repository is the data access contract for employees.
type Repository interface {
	List(filters ListFilters) ([]*Detail, int64, error)
	GetDetail(id int64) (*Detail, error)
	GetByID(id int64) (*Employee, error)
	EmailExists(email string) (bool, error)
	Create(emp *Employee) error
	Update(id int64, updates map[string]interface{}) error
	Deactivate(id int64) error
	ListActiveNodes() ([]*OrgNode, error)
	CountByRole() (*RoleCounts, error)
	HeadcountByDepartment() ([]*DepartmentHeadcount, error)
}

// UpdatableColumns is the explicit allow-list of columns a PUT /employees/:id
// may touch. Anything else in the payload is rejected, never forwarded to SQL.
var UpdatableColumns = map[string]bool{
	"name":            true,
	"email":           true,
	"role":            true,
	"department_id":   true,
	"manager_id":      true,
	"bio":             true,
	"profile_picture": true,
}

var (
	ErrNotFound         = internal.NewNotFoundError("Employee not found", internal.ErrCodeEmployeeNotFound)
	ErrEmailTaken       = internal.NewConflictError("Email already registered", internal.ErrCodeEmailTaken)
	ErrSelfDeactivation = internal.NewValidationError("Cannot deactivate your own account", internal.ErrCodeSelfDeactivation)
	ErrManagerCycle     = internal.NewIntegrityError("Manager hierarchy contains a cycle", internal.ErrCodeManagerCycle)
)
