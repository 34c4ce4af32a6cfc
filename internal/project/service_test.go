package project

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/genzspace/genzflow/internal"
	"github.com/genzspace/genzflow/internal/task"
)

func TestProject(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Project Module Suite")
}

type mockProjectRepository struct {
	byID       map[int64]*Project
	details    map[int64]*Detail
	taskCounts map[int64]int64
	updates    map[int64]map[string]interface{}
	deleted    []int64
}

func newMockProjectRepository() *mockProjectRepository {
	return &mockProjectRepository{
		byID: map[int64]*Project{
			1: {ID: 1, Name: "Platform Rewrite", Status: StatusActive, CreatedBy: 1},
			2: {ID: 2, Name: "Empty Shell", Status: StatusPlanning, CreatedBy: 1},
		},
		details: map[int64]*Detail{
			1: {ID: 1, Name: "Platform Rewrite", Status: StatusActive, TaskCount: 3},
			2: {ID: 2, Name: "Empty Shell", Status: StatusPlanning},
		},
		taskCounts: map[int64]int64{1: 3, 2: 0},
		updates:    map[int64]map[string]interface{}{},
	}
}

func (m *mockProjectRepository) List(filters ListFilters) ([]*Detail, int64, error) {
	return []*Detail{m.details[1], m.details[2]}, 2, nil
}

func (m *mockProjectRepository) GetDetail(id int64) (*Detail, error) {
	if detail, ok := m.details[id]; ok {
		return detail, nil
	}
	return nil, errors.New("not found")
}

func (m *mockProjectRepository) GetByID(id int64) (*Project, error) {
	if p, ok := m.byID[id]; ok {
		return p, nil
	}
	return nil, errors.New("not found")
}

func (m *mockProjectRepository) Exists(id int64) (bool, error) {
	_, ok := m.byID[id]
	return ok, nil
}

func (m *mockProjectRepository) Create(p *Project) error {
	p.ID = int64(len(m.byID) + 1)
	m.byID[p.ID] = p
	m.details[p.ID] = &Detail{ID: p.ID, Name: p.Name, Status: p.Status, Budget: p.Budget}
	return nil
}

func (m *mockProjectRepository) Update(id int64, updates map[string]interface{}) error {
	m.updates[id] = updates
	return nil
}

func (m *mockProjectRepository) Delete(id int64) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockProjectRepository) TaskCount(id int64) (int64, error) {
	return m.taskCounts[id], nil
}

func (m *mockProjectRepository) StatsOverview() (*Stats, error) {
	return &Stats{Total: 2, TotalBudget: decimal.NewFromInt(50000)}, nil
}

type mockTaskLister struct {
	rows        []*task.Detail
	calls       int
	lastFilters task.ListFilters
}

func (m *mockTaskLister) List(filters task.ListFilters) ([]*task.Detail, int64, error) {
	m.calls++
	m.lastFilters = filters

	start := filters.Offset()
	if start > len(m.rows) {
		start = len(m.rows)
	}
	end := start + filters.Limit
	if end > len(m.rows) {
		end = len(m.rows)
	}
	return m.rows[start:end], int64(len(m.rows)), nil
}

var _ = ginkgo.Describe("ProjectService", func() {
	var (
		service  *Service
		mockRepo *mockProjectRepository
		lister   *mockTaskLister
		creator  *internal.Identity
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockProjectRepository()
		lister = &mockTaskLister{rows: []*task.Detail{{ID: 11, Title: "Subtask"}}}
		service = NewService(mockRepo, lister, slog.Default())
		creator = &internal.Identity{ID: 1, Role: internal.RoleManager, IsActive: true}
	})

	ginkgo.Describe("Get", func() {
		ginkgo.It("should return the detail together with the project's tasks", func() {
			detail, tasks, err := service.Get(1)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(detail.Name).To(gomega.Equal("Platform Rewrite"))
			gomega.Expect(tasks).To(gomega.HaveLen(1))
			gomega.Expect(lister.lastFilters.ProjectID).ToNot(gomega.BeNil())
			gomega.Expect(*lister.lastFilters.ProjectID).To(gomega.Equal(int64(1)))
		})

		ginkgo.It("should return every task even when they span multiple pages", func() {
			lister.rows = nil
			for i := 0; i < 250; i++ {
				lister.rows = append(lister.rows, &task.Detail{ID: int64(i + 1), Title: "Bulk task"})
			}

			_, tasks, err := service.Get(1)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(tasks).To(gomega.HaveLen(250))
			gomega.Expect(lister.calls).To(gomega.Equal(3))
		})

		ginkgo.It("should return not found for an unknown id", func() {
			_, _, err := service.Get(99)

			gomega.Expect(err).To(gomega.Equal(ErrNotFound))
		})
	})

	ginkgo.Describe("Create", func() {
		ginkgo.It("should record the caller as creator and default to Planning", func() {
			detail, err := service.Create(creator, CreateDTO{Name: "New Initiative"})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(detail).ToNot(gomega.BeNil())
			gomega.Expect(mockRepo.byID[detail.ID].CreatedBy).To(gomega.Equal(int64(1)))
			gomega.Expect(mockRepo.byID[detail.ID].Status).To(gomega.Equal(StatusPlanning))
		})

		ginkgo.It("should reject a negative budget", func() {
			budget := decimal.NullDecimal{Decimal: decimal.NewFromInt(-100), Valid: true}
			_, err := service.Create(creator, CreateDTO{Name: "Bad Budget", Budget: budget})

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeValidation))
		})

		ginkgo.It("should reject a malformed date before anything persists", func() {
			startDate := "01-01-2025"
			_, err := service.Create(creator, CreateDTO{Name: "Bad Date", StartDate: &startDate})

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeValidation))
			gomega.Expect(mockRepo.byID).To(gomega.HaveLen(2))
		})
	})

	ginkgo.Describe("Update", func() {
		ginkgo.It("should reject fields outside the allow-list", func() {
			_, err := service.Update(1, UpdateDTO{"created_by": float64(2)})

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeValidation))
			gomega.Expect(mockRepo.updates).To(gomega.BeEmpty())
		})

		ginkgo.It("should accept a budget sent as a string", func() {
			_, err := service.Update(1, UpdateDTO{"budget": "12345.67"})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			budget, ok := mockRepo.updates[1]["budget"].(decimal.Decimal)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(budget.String()).To(gomega.Equal("12345.67"))
		})

		ginkgo.It("should allow clearing the deadline", func() {
			_, err := service.Update(1, UpdateDTO{"deadline": nil})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(mockRepo.updates[1]).To(gomega.HaveKeyWithValue("deadline", gomega.BeNil()))
		})

		ginkgo.It("should return not found for an unknown id", func() {
			_, err := service.Update(99, UpdateDTO{"name": "Ghost"})

			gomega.Expect(err).To(gomega.Equal(ErrNotFound))
		})
	})

	ginkgo.Describe("Delete", func() {
		ginkgo.It("should refuse to delete a project that still has tasks", func() {
			err := service.Delete(1)

			gomega.Expect(err).To(gomega.Equal(ErrHasTasks))
			gomega.Expect(err.Error()).To(gomega.ContainSubstring("Cannot delete project with existing tasks"))
			gomega.Expect(mockRepo.deleted).To(gomega.BeEmpty())
		})

		ginkgo.It("should delete a project with no tasks", func() {
			err := service.Delete(2)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(mockRepo.deleted).To(gomega.ContainElement(int64(2)))
		})

		ginkgo.It("should return not found for an unknown id", func() {
			err := service.Delete(99)

			gomega.Expect(err).To(gomega.Equal(ErrNotFound))
		})
	})
})
