package task

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/genzspace/genzflow/internal"
	"github.com/genzspace/genzflow/internal/employee"
)

func TestTask(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Task Module Suite")
}

type mockTaskRepository struct {
	byID        map[int64]*Task
	details     map[int64]*Detail
	updates     map[int64]map[string]interface{}
	deleted     []int64
	lastFilters ListFilters
}

func newMockTaskRepository() *mockTaskRepository {
	return &mockTaskRepository{
		byID: map[int64]*Task{
			1: {ID: 1, Title: "Own task", Status: StatusInProgress, Priority: PriorityMedium, Progress: 40, AssignedTo: 10, AssignedBy: 20},
			2: {ID: 2, Title: "Someone else's task", Status: StatusNotStarted, Priority: PriorityLow, AssignedTo: 30, AssignedBy: 40},
		},
		details: map[int64]*Detail{
			1: {ID: 1, Title: "Own task", Status: StatusInProgress, Priority: PriorityMedium, Progress: 40, AssignedTo: 10, AssignedBy: 20},
			2: {ID: 2, Title: "Someone else's task", Status: StatusNotStarted, Priority: PriorityLow, AssignedTo: 30, AssignedBy: 40},
		},
		updates: map[int64]map[string]interface{}{},
	}
}

func (m *mockTaskRepository) List(filters ListFilters) ([]*Detail, int64, error) {
	m.lastFilters = filters
	return nil, 0, nil
}

func (m *mockTaskRepository) GetDetail(id int64) (*Detail, error) {
	if detail, ok := m.details[id]; ok {
		return detail, nil
	}
	return nil, errors.New("not found")
}

func (m *mockTaskRepository) GetByID(id int64) (*Task, error) {
	if t, ok := m.byID[id]; ok {
		return t, nil
	}
	return nil, errors.New("not found")
}

func (m *mockTaskRepository) Create(t *Task) error {
	t.ID = int64(len(m.byID) + 1)
	m.byID[t.ID] = t
	m.details[t.ID] = &Detail{ID: t.ID, Title: t.Title, Status: t.Status, Priority: t.Priority, Progress: t.Progress, AssignedTo: t.AssignedTo, AssignedBy: t.AssignedBy}
	return nil
}

func (m *mockTaskRepository) Update(id int64, updates map[string]interface{}) error {
	m.updates[id] = updates
	return nil
}

func (m *mockTaskRepository) Delete(id int64) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockTaskRepository) StatsOverview(viewerID *int64) (*Stats, error) {
	return &Stats{Total: 2}, nil
}

type mockDirectory struct {
	active map[int64]bool
}

func (m *mockDirectory) GetByID(id int64) (*employee.Employee, error) {
	if m.active[id] {
		return &employee.Employee{ID: id, IsActive: true}, nil
	}
	return nil, errors.New("not found")
}

type mockCatalog struct {
	existing map[int64]bool
}

func (m *mockCatalog) Exists(id int64) (bool, error) {
	return m.existing[id], nil
}

func caller(id int64, role internal.Role) *internal.Identity {
	return &internal.Identity{ID: id, Role: role, IsActive: true}
}

var _ = ginkgo.Describe("TaskService", func() {
	var (
		service   *Service
		mockRepo  *mockTaskRepository
		directory *mockDirectory
		catalog   *mockCatalog
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockTaskRepository()
		directory = &mockDirectory{active: map[int64]bool{10: true, 30: true}}
		catalog = &mockCatalog{existing: map[int64]bool{7: true}}
		service = NewService(mockRepo, directory, catalog, slog.Default())
	})

	ginkgo.Describe("List", func() {
		ginkgo.It("should scope Developer callers to their own tasks", func() {
			_, _, err := service.List(caller(10, internal.RoleDeveloper), ListFilters{})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(mockRepo.lastFilters.ViewerID).ToNot(gomega.BeNil())
			gomega.Expect(*mockRepo.lastFilters.ViewerID).To(gomega.Equal(int64(10)))
		})

		ginkgo.It("should scope Team Lead callers the same way", func() {
			_, _, err := service.List(caller(20, internal.RoleTeamLead), ListFilters{})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(mockRepo.lastFilters.ViewerID).ToNot(gomega.BeNil())
		})

		ginkgo.It("should not scope privileged callers", func() {
			_, _, err := service.List(caller(1, internal.RoleManager), ListFilters{})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(mockRepo.lastFilters.ViewerID).To(gomega.BeNil())
		})

		ginkgo.It("should reject an unknown status filter", func() {
			_, _, err := service.List(caller(1, internal.RoleManager), ListFilters{Status: "Imagined"})

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeInvalidStatus))
		})
	})

	ginkgo.Describe("Get", func() {
		ginkgo.It("should deny a Developer a task they are not on", func() {
			_, err := service.Get(caller(10, internal.RoleDeveloper), 2)

			gomega.Expect(err).To(gomega.Equal(ErrAccessDenied))
		})

		ginkgo.It("should let a Developer read a task they are assigned", func() {
			detail, err := service.Get(caller(10, internal.RoleDeveloper), 1)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(detail.ID).To(gomega.Equal(int64(1)))
		})

		ginkgo.It("should let the assigner read it too", func() {
			_, err := service.Get(caller(20, internal.RoleDeveloper), 1)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})

		ginkgo.It("should let admins read any task", func() {
			_, err := service.Get(caller(99, internal.RoleHR), 2)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("Create", func() {
		ginkgo.It("should record the caller as assigner", func() {
			detail, err := service.Create(caller(20, internal.RoleManager), CreateDTO{
				Title:      "New task",
				AssignedTo: 10,
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(detail.AssignedBy).To(gomega.Equal(int64(20)))
		})

		ginkgo.It("should reject an inactive assignee with a validation error", func() {
			_, err := service.Create(caller(20, internal.RoleManager), CreateDTO{
				Title:      "New task",
				AssignedTo: 99,
			})

			gomega.Expect(err).To(gomega.Equal(ErrAssigneeInvalid))
			appErr, _ := internal.IsAppError(err)
			gomega.Expect(appErr.StatusCode).To(gomega.Equal(400))
		})

		ginkgo.It("should reject a malformed deadline before anything persists", func() {
			deadline := "31/12/2026"
			_, err := service.Create(caller(20, internal.RoleManager), CreateDTO{
				Title:      "New task",
				AssignedTo: 10,
				Deadline:   &deadline,
			})

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeValidation))
			gomega.Expect(mockRepo.byID).To(gomega.HaveLen(2))
		})

		ginkgo.It("should reject an unknown project reference", func() {
			projectID := int64(999)
			_, err := service.Create(caller(20, internal.RoleManager), CreateDTO{
				Title:      "New task",
				AssignedTo: 10,
				ProjectID:  &projectID,
			})

			gomega.Expect(err).To(gomega.Equal(ErrProjectInvalid))
		})

		ginkgo.It("should default status and priority", func() {
			detail, err := service.Create(caller(20, internal.RoleManager), CreateDTO{
				Title:      "New task",
				AssignedTo: 10,
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(detail.Status).To(gomega.Equal(StatusNotStarted))
			gomega.Expect(detail.Priority).To(gomega.Equal(PriorityMedium))
		})
	})

	ginkgo.Describe("Update", func() {
		ginkgo.It("should let the assignee update their own task", func() {
			_, err := service.Update(caller(10, internal.RoleDeveloper), 1, UpdateDTO{"progress": float64(80)})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(mockRepo.updates[1]).To(gomega.HaveKeyWithValue("progress", 80))
		})

		ginkgo.It("should deny a Developer updating an unrelated task", func() {
			_, err := service.Update(caller(10, internal.RoleDeveloper), 2, UpdateDTO{"progress": float64(80)})

			gomega.Expect(err).To(gomega.Equal(ErrAccessDenied))
		})

		ginkgo.It("should not derive status from progress", func() {
			_, err := service.Update(caller(10, internal.RoleDeveloper), 1, UpdateDTO{"progress": float64(100)})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(mockRepo.updates[1]).To(gomega.HaveKey("progress"))
			gomega.Expect(mockRepo.updates[1]).ToNot(gomega.HaveKey("status"))
		})

		ginkgo.It("should reject an out-of-range progress", func() {
			_, err := service.Update(caller(10, internal.RoleDeveloper), 1, UpdateDTO{"progress": float64(150)})

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(mockRepo.updates).To(gomega.BeEmpty())
		})

		ginkgo.It("should reject fields outside the allow-list", func() {
			_, err := service.Update(caller(10, internal.RoleDeveloper), 1, UpdateDTO{"assigned_by": float64(10)})

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeValidation))
		})

		ginkgo.It("should verify a new assignee is active", func() {
			_, err := service.Update(caller(20, internal.RoleManager), 1, UpdateDTO{"assigned_to": float64(99)})

			gomega.Expect(err).To(gomega.Equal(ErrAssigneeInvalid))
		})
	})

	ginkgo.Describe("Delete", func() {
		ginkgo.It("should hard-delete an existing task", func() {
			err := service.Delete(1)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(mockRepo.deleted).To(gomega.ContainElement(int64(1)))
		})

		ginkgo.It("should return not found for an unknown id", func() {
			err := service.Delete(99)

			gomega.Expect(err).To(gomega.Equal(ErrNotFound))
		})
	})

	ginkgo.Describe("StatsOverview", func() {
		ginkgo.It("should pass the viewer scope for scoped roles", func() {
			stats, err := service.StatsOverview(caller(10, internal.RoleDeveloper))

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(stats.Total).To(gomega.Equal(int64(2)))
		})
	})
})
