package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/genzspace/genzflow/internal"
	"github.com/genzspace/genzflow/internal/employee"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

// Mock account repository for testing
type mockAuthRepository struct {
	byEmail       map[string]*employee.Employee
	byID          map[int64]*employee.Employee
	profiles      map[int64]*Profile
	created       []*employee.Employee
	passwordSets  map[int64]string
	returnError   bool
	errorToReturn error
}

func newMockAuthRepository() *mockAuthRepository {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.DefaultCost)

	active := &employee.Employee{
		ID:           1,
		Name:         "Dev One",
		Email:        "dev@example.com",
		PasswordHash: string(hash),
		Role:         internal.RoleDeveloper,
		IsActive:     true,
	}
	inactive := &employee.Employee{
		ID:           2,
		Name:         "Gone Person",
		Email:        "gone@example.com",
		PasswordHash: string(hash),
		Role:         internal.RoleManager,
		IsActive:     false,
	}

	return &mockAuthRepository{
		byEmail: map[string]*employee.Employee{
			active.Email:   active,
			inactive.Email: inactive,
		},
		byID: map[int64]*employee.Employee{
			active.ID: active,
		},
		profiles: map[int64]*Profile{
			active.ID: {ID: active.ID, Name: active.Name, Email: active.Email, Role: active.Role},
		},
		passwordSets: map[int64]string{},
	}
}

func (m *mockAuthRepository) GetByEmail(email string) (*employee.Employee, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if emp, ok := m.byEmail[email]; ok {
		return emp, nil
	}
	return nil, errors.New("not found")
}

func (m *mockAuthRepository) GetActiveByID(id int64) (*employee.Employee, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if emp, ok := m.byID[id]; ok && emp.IsActive {
		return emp, nil
	}
	return nil, errors.New("not found")
}

func (m *mockAuthRepository) EmailExists(email string) (bool, error) {
	if m.returnError {
		return false, m.errorToReturn
	}
	_, ok := m.byEmail[email]
	return ok, nil
}

func (m *mockAuthRepository) Create(emp *employee.Employee) error {
	if m.returnError {
		return m.errorToReturn
	}
	emp.ID = int64(len(m.byEmail) + 1)
	m.byEmail[emp.Email] = emp
	m.byID[emp.ID] = emp
	m.created = append(m.created, emp)
	return nil
}

func (m *mockAuthRepository) GetProfile(id int64) (*Profile, error) {
	if profile, ok := m.profiles[id]; ok {
		return profile, nil
	}
	return nil, errors.New("not found")
}

func (m *mockAuthRepository) UpdateProfile(id int64, updates map[string]interface{}) error {
	if m.returnError {
		return m.errorToReturn
	}
	profile, ok := m.profiles[id]
	if !ok {
		return errors.New("not found")
	}
	if name, ok := updates["name"].(string); ok {
		profile.Name = name
	}
	return nil
}

func (m *mockAuthRepository) UpdatePassword(id int64, passwordHash string) error {
	if m.returnError {
		return m.errorToReturn
	}
	m.passwordSets[id] = passwordHash
	return nil
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		service  *Service
		mockRepo *mockAuthRepository
		tokenGen *JWTTokenGenerator
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockAuthRepository()
		tokenGen = NewJWTTokenGenerator("test-secret-key-at-least-32-chars!!", time.Hour)
		service = NewService(mockRepo, tokenGen, bcrypt.DefaultCost, slog.Default())
	})

	ginkgo.Describe("Login", func() {
		ginkgo.Context("when credentials are valid", func() {
			ginkgo.It("should return the employee and a token", func() {
				emp, token, err := service.Login(LoginDTO{
					Email:    "dev@example.com",
					Password: "correct_password",
				})

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(token).ToNot(gomega.BeEmpty())
				gomega.Expect(emp.ID).To(gomega.Equal(int64(1)))
			})

			ginkgo.It("should embed id, email and role in the token claims", func() {
				_, token, err := service.Login(LoginDTO{
					Email:    "dev@example.com",
					Password: "correct_password",
				})
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				claims, err := service.ValidateAccessToken(token)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(claims.UserID).To(gomega.Equal(int64(1)))
				gomega.Expect(claims.Email).To(gomega.Equal("dev@example.com"))
				gomega.Expect(claims.Role).To(gomega.Equal(internal.RoleDeveloper))
			})

			ginkgo.It("should keep the password hash out of the serialized user", func() {
				emp, _, err := service.Login(LoginDTO{
					Email:    "dev@example.com",
					Password: "correct_password",
				})
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				payload, err := json.Marshal(emp)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(string(payload)).ToNot(gomega.ContainSubstring("password"))
				gomega.Expect(string(payload)).ToNot(gomega.ContainSubstring(emp.PasswordHash))
			})

			ginkgo.It("should normalize the email before lookup", func() {
				_, token, err := service.Login(LoginDTO{
					Email:    "  DEV@example.com ",
					Password: "correct_password",
				})

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(token).ToNot(gomega.BeEmpty())
			})
		})

		ginkgo.Context("when credentials are invalid", func() {
			ginkgo.It("should return the generic error for an unknown email", func() {
				_, _, err := service.Login(LoginDTO{
					Email:    "nobody@example.com",
					Password: "any_password",
				})

				gomega.Expect(err).To(gomega.Equal(ErrInvalidCredentials))
			})

			ginkgo.It("should return the same generic error for a wrong password", func() {
				_, _, err := service.Login(LoginDTO{
					Email:    "dev@example.com",
					Password: "wrong_password",
				})

				gomega.Expect(err).To(gomega.Equal(ErrInvalidCredentials))
			})

			ginkgo.It("should use one indistinguishable message for both failure modes", func() {
				_, _, unknownErr := service.Login(LoginDTO{Email: "nobody@example.com", Password: "x_password"})
				_, _, wrongErr := service.Login(LoginDTO{Email: "dev@example.com", Password: "x_password"})

				gomega.Expect(unknownErr.Error()).To(gomega.Equal(wrongErr.Error()))
			})
		})

		ginkgo.Context("when the account is deactivated", func() {
			ginkgo.It("should return the distinct deactivation error", func() {
				_, _, err := service.Login(LoginDTO{
					Email:    "gone@example.com",
					Password: "correct_password",
				})

				gomega.Expect(err).To(gomega.Equal(ErrAccountDeactivated))
				gomega.Expect(err.Error()).To(gomega.Equal("Account is deactivated"))
			})
		})
	})

	ginkgo.Describe("Register", func() {
		ginkgo.It("should create the account and issue a token", func() {
			emp, token, err := service.Register(RegisterDTO{
				Name:     "New Person",
				Email:    "new@example.com",
				Password: "secret123",
				Role:     internal.RoleDeveloper,
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(token).ToNot(gomega.BeEmpty())
			gomega.Expect(emp.IsActive).To(gomega.BeTrue())
			gomega.Expect(emp.PasswordHash).ToNot(gomega.Equal("secret123"))
		})

		ginkgo.It("should keep the password hash out of the serialized user", func() {
			emp, _, err := service.Register(RegisterDTO{
				Name:     "New Person",
				Email:    "serialized@example.com",
				Password: "secret123",
				Role:     internal.RoleDeveloper,
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(emp.PasswordHash).ToNot(gomega.BeEmpty())

			payload, err := json.Marshal(emp)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(string(payload)).ToNot(gomega.ContainSubstring("password"))
			gomega.Expect(string(payload)).ToNot(gomega.ContainSubstring(emp.PasswordHash))
		})

		ginkgo.It("should reject a duplicate email with a conflict", func() {
			_, _, err := service.Register(RegisterDTO{
				Name:     "Dup Person",
				Email:    "dev@example.com",
				Password: "secret123",
				Role:     internal.RoleDeveloper,
			})

			gomega.Expect(err).To(gomega.Equal(employee.ErrEmailTaken))
		})

		ginkgo.It("should reject an unknown role", func() {
			_, _, err := service.Register(RegisterDTO{
				Name:     "Odd Role",
				Email:    "odd@example.com",
				Password: "secret123",
				Role:     "Wizard",
			})

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeValidation))
		})

		ginkgo.It("should reject a short password", func() {
			_, _, err := service.Register(RegisterDTO{
				Name:     "Short Pass",
				Email:    "short@example.com",
				Password: "abc",
				Role:     internal.RoleDeveloper,
			})

			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("ResolveIdentity", func() {
		ginkgo.It("should map an active account to a caller identity", func() {
			caller, err := service.ResolveIdentity(1)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(caller.ID).To(gomega.Equal(int64(1)))
			gomega.Expect(caller.Role).To(gomega.Equal(internal.RoleDeveloper))
		})

		ginkgo.It("should fail for an unknown or inactive subject", func() {
			_, err := service.ResolveIdentity(2)

			gomega.Expect(err).To(gomega.Equal(ErrUserNotFound))
			gomega.Expect(err.Error()).To(gomega.Equal("User not found or inactive"))
		})
	})

	ginkgo.Describe("ChangePassword", func() {
		ginkgo.It("should require the current password to match", func() {
			err := service.ChangePassword(1, ChangePasswordDTO{
				CurrentPassword: "wrong_password",
				NewPassword:     "brand_new_pass",
			})

			gomega.Expect(err).To(gomega.Equal(ErrWrongPassword))
			gomega.Expect(mockRepo.passwordSets).To(gomega.BeEmpty())
		})

		ginkgo.It("should store a new hash when the current password matches", func() {
			err := service.ChangePassword(1, ChangePasswordDTO{
				CurrentPassword: "correct_password",
				NewPassword:     "brand_new_pass",
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(mockRepo.passwordSets).To(gomega.HaveKey(int64(1)))
			gomega.Expect(mockRepo.passwordSets[1]).ToNot(gomega.Equal("brand_new_pass"))
		})
	})

	ginkgo.Describe("UpdateProfile", func() {
		ginkgo.It("should reject an empty update set", func() {
			_, err := service.UpdateProfile(1, UpdateProfileDTO{})

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Message).To(gomega.Equal("No fields to update"))
		})

		ginkgo.It("should apply a sparse name update", func() {
			name := "Renamed Dev"
			profile, err := service.UpdateProfile(1, UpdateProfileDTO{Name: &name})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(profile.Name).To(gomega.Equal("Renamed Dev"))
		})
	})
})

var _ = ginkgo.Describe("JWTTokenGenerator", func() {
	ginkgo.It("should distinguish an expired token from an invalid one", func() {
		expiredGen := &JWTTokenGenerator{Secret: []byte("test-secret-key-at-least-32-chars!!"), TokenTTL: -time.Hour}
		token, err := expiredGen.GenerateAccessToken(1, "dev@example.com", internal.RoleDeveloper)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		_, err = expiredGen.ValidateToken(token)
		gomega.Expect(err).To(gomega.Equal(ErrTokenExpired))

		_, err = expiredGen.ValidateToken("not.a.token")
		gomega.Expect(err).To(gomega.Equal(ErrInvalidToken))
	})

	ginkgo.It("should reject a token signed with a different secret", func() {
		genA := NewJWTTokenGenerator("test-secret-key-at-least-32-chars!!", time.Hour)
		genB := NewJWTTokenGenerator("another-secret-key-32-characters!!!", time.Hour)

		token, err := genA.GenerateAccessToken(1, "dev@example.com", internal.RoleDeveloper)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		_, err = genB.ValidateToken(token)
		gomega.Expect(err).To(gomega.Equal(ErrInvalidToken))
	})
})

var _ = ginkgo.Describe("Policy", func() {
	ginkgo.It("should grant admin roles employee creation", func() {
		gomega.Expect(Allowed(internal.RoleHR, ResourceEmployees, ActionCreate)).To(gomega.BeTrue())
		gomega.Expect(Allowed(internal.RoleDeveloper, ResourceEmployees, ActionCreate)).To(gomega.BeFalse())
	})

	ginkgo.It("should restrict project deletion to CEO and Director", func() {
		gomega.Expect(Allowed(internal.RoleCEO, ResourceProjects, ActionDelete)).To(gomega.BeTrue())
		gomega.Expect(Allowed(internal.RoleDirector, ResourceProjects, ActionDelete)).To(gomega.BeTrue())
		gomega.Expect(Allowed(internal.RoleManager, ResourceProjects, ActionDelete)).To(gomega.BeFalse())
	})

	ginkgo.It("should deny permissions missing from the table", func() {
		gomega.Expect(Allowed(internal.RoleCEO, "unknown", "unknown")).To(gomega.BeFalse())
	})

	ginkgo.It("should scope the CEO dashboard to the CEO role only", func() {
		gomega.Expect(Allowed(internal.RoleCEO, ResourceDashboard, ActionViewCEO)).To(gomega.BeTrue())
		gomega.Expect(Allowed(internal.RoleDirector, ResourceDashboard, ActionViewCEO)).To(gomega.BeFalse())
		gomega.Expect(Allowed(internal.RoleDirector, ResourceDashboard, ActionViewManager)).To(gomega.BeTrue())
	})
})
