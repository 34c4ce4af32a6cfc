package postgres_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/genzspace/genzflow/internal"
	"github.com/genzspace/genzflow/internal/employee"
	employeePostgres "github.com/genzspace/genzflow/internal/employee/postgres"
)

func TestEmployeePostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Employee Postgres Suite")
}

// SQLite-compatible models for testing; the postgres defaults do not
// translate.
type SQLiteDepartment struct {
	ID        int64  `gorm:"primaryKey"`
	Name      string `gorm:"column:name;uniqueIndex;not null"`
	CreatedAt time.Time
}

func (SQLiteDepartment) TableName() string { return "departments" }

type SQLiteEmployee struct {
	ID             int64   `gorm:"primaryKey"`
	Name           string  `gorm:"column:name;not null"`
	Email          string  `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash   string  `gorm:"column:password_hash"`
	Role           string  `gorm:"column:role"`
	DepartmentID   *int64  `gorm:"column:department_id"`
	ManagerID      *int64  `gorm:"column:manager_id"`
	IsActive       bool    `gorm:"column:is_active"`
	ProfilePicture *string `gorm:"column:profile_picture"`
	Bio            *string `gorm:"column:bio"`
	JoinDate       time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (SQLiteEmployee) TableName() string { return "employees" }

var _ = Describe("Employee PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo employee.Repository
	)

	seedEmployee := func(name, email, role string, departmentID, managerID *int64, active bool) int64 {
		emp := &SQLiteEmployee{
			Name:         name,
			Email:        email,
			PasswordHash: "x",
			Role:         role,
			DepartmentID: departmentID,
			ManagerID:    managerID,
			IsActive:     active,
			JoinDate:     time.Now(),
		}
		Expect(db.Create(emp).Error).NotTo(HaveOccurred())
		return emp.ID
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteDepartment{}, &SQLiteEmployee{})
		Expect(err).NotTo(HaveOccurred())

		repo = employeePostgres.NewRepository(db)
	})

	Describe("List", func() {
		It("should exclude deactivated employees", func() {
			seedEmployee("Active Dev", "active@example.com", "Developer", nil, nil, true)
			seedEmployee("Gone Dev", "gone@example.com", "Developer", nil, nil, false)

			rows, total, err := repo.List(employee.ListFilters{Page: 1, Limit: 20})

			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].Name).To(Equal("Active Dev"))
		})

		It("should match search case-insensitively over name and email", func() {
			seedEmployee("Alice Johnson", "alice@example.com", "Developer", nil, nil, true)
			seedEmployee("Bob Smith", "bob@example.com", "Developer", nil, nil, true)

			rows, total, err := repo.List(employee.ListFilters{Search: "ALICE", Page: 1, Limit: 20})

			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
			Expect(rows[0].Email).To(Equal("alice@example.com"))
		})

		It("should filter by role and department", func() {
			dept := &SQLiteDepartment{Name: "Engineering"}
			Expect(db.Create(dept).Error).NotTo(HaveOccurred())

			seedEmployee("Eng Dev", "eng@example.com", "Developer", &dept.ID, nil, true)
			seedEmployee("Floating HR", "hr@example.com", "HR", nil, nil, true)

			rows, total, err := repo.List(employee.ListFilters{
				Role:         internal.RoleDeveloper,
				DepartmentID: &dept.ID,
				Page:         1,
				Limit:        20,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
			Expect(rows[0].Name).To(Equal("Eng Dev"))
			Expect(rows[0].DepartmentName).NotTo(BeNil())
			Expect(*rows[0].DepartmentName).To(Equal("Engineering"))
		})

		It("should paginate with a stable total", func() {
			for i := 0; i < 5; i++ {
				seedEmployee("Dev", string(rune('a'+i))+"@example.com", "Developer", nil, nil, true)
			}

			rows, total, err := repo.List(employee.ListFilters{Page: 2, Limit: 2})

			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(5)))
			Expect(rows).To(HaveLen(2))
		})
	})

	Describe("GetDetail", func() {
		It("should join the manager name", func() {
			managerID := seedEmployee("Morgan Lead", "morgan@example.com", "Manager", nil, nil, true)
			id := seedEmployee("Dev One", "dev@example.com", "Developer", nil, &managerID, true)

			detail, err := repo.GetDetail(id)

			Expect(err).NotTo(HaveOccurred())
			Expect(detail.ManagerName).NotTo(BeNil())
			Expect(*detail.ManagerName).To(Equal("Morgan Lead"))
		})

		It("should not find a deactivated employee", func() {
			id := seedEmployee("Gone", "gone@example.com", "Developer", nil, nil, false)

			_, err := repo.GetDetail(id)

			Expect(err).To(Equal(employee.ErrNotFound))
		})
	})

	Describe("Deactivate", func() {
		It("should flip is_active off exactly once", func() {
			id := seedEmployee("Dev One", "dev@example.com", "Developer", nil, nil, true)

			Expect(repo.Deactivate(id)).To(Succeed())

			var emp SQLiteEmployee
			Expect(db.First(&emp, id).Error).NotTo(HaveOccurred())
			Expect(emp.IsActive).To(BeFalse())

			Expect(repo.Deactivate(id)).To(Equal(employee.ErrNotFound))
		})
	})

	Describe("EmailExists", func() {
		It("should see emails of deactivated employees too", func() {
			seedEmployee("Gone", "gone@example.com", "Developer", nil, nil, false)

			exists, err := repo.EmailExists("gone@example.com")

			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeTrue())
		})
	})

	Describe("ListActiveNodes", func() {
		It("should return only active employees with department names", func() {
			dept := &SQLiteDepartment{Name: "Engineering"}
			Expect(db.Create(dept).Error).NotTo(HaveOccurred())

			seedEmployee("Active Dev", "active@example.com", "Developer", &dept.ID, nil, true)
			seedEmployee("Gone Dev", "gone@example.com", "Developer", &dept.ID, nil, false)

			nodes, err := repo.ListActiveNodes()

			Expect(err).NotTo(HaveOccurred())
			Expect(nodes).To(HaveLen(1))
			Expect(nodes[0].Name).To(Equal("Active Dev"))
			Expect(*nodes[0].DepartmentName).To(Equal("Engineering"))
		})
	})

	Describe("CountByRole", func() {
		It("should roll up active employees per role", func() {
			seedEmployee("Ava", "ava@example.com", "CEO", nil, nil, true)
			seedEmployee("Dev A", "deva@example.com", "Developer", nil, nil, true)
			seedEmployee("Dev B", "devb@example.com", "Developer", nil, nil, true)
			seedEmployee("Gone Dev", "gone@example.com", "Developer", nil, nil, false)

			counts, err := repo.CountByRole()

			Expect(err).NotTo(HaveOccurred())
			Expect(counts.TotalEmployees).To(Equal(int64(3)))
			Expect(counts.CEOCount).To(Equal(int64(1)))
			Expect(counts.DeveloperCount).To(Equal(int64(2)))
		})
	})
})
