package department

import (
	"time"

	"github.com/genzspace/genzflow/internal"
)

// Department is a row in the departments table. The API only reads them;
// department management happens out of band.
type Department struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"column:name;uniqueIndex;not null"`
	Description *string   `json:"description,omitempty" gorm:"column:description"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
}

func (Department) TableName() string {
	return "departments"
}

type Repository interface {
	List() ([]*Department, error)
}

type ServiceAPI interface {
	List() ([]*Department, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List() ([]*Department, error) {
	departments, err := s.repo.List()
	if err != nil {
		return nil, internal.NewDataError("Failed to fetch departments", err)
	}
	return departments, nil
}
