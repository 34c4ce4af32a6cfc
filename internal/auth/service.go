package auth

import (
	"log/slog"
	"time"

	"github.com/genzspace/genzflow/internal"
	"github.com/genzspace/genzflow/internal/employee"
)

// Service is the auth business logic: registration, credential checks,
// token issuance and self-service profile operations.
type Service struct {
	repo           RepositoryAPI
	tokenGenerator TokenGeneratorAPI
	bcryptCost     int
	logger         *slog.Logger
}

func NewService(repo RepositoryAPI, tokenGen TokenGeneratorAPI, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		repo:           repo,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
		logger:         logger,
	}
}

// Register creates a new employee account and signs a token for it. The
// returned employee never carries the password hash on the wire.
func (s *Service) Register(dto RegisterDTO) (*employee.Employee, string, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, "", err
	}

	taken, err := s.repo.EmailExists(dto.Email)
	if err != nil {
		return nil, "", internal.NewDataError("Registration failed", err)
	}
	if taken {
		return nil, "", employee.ErrEmailTaken
	}

	hash, err := HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, "", internal.NewInternalError("Registration failed", err)
	}

	emp := &employee.Employee{
		Name:         dto.Name,
		Email:        dto.Email,
		PasswordHash: hash,
		Role:         dto.Role,
		DepartmentID: dto.DepartmentID,
		ManagerID:    dto.ManagerID,
		IsActive:     true,
		JoinDate:     time.Now().Truncate(24 * time.Hour),
	}

	if err := s.repo.Create(emp); err != nil {
		s.logger.Error("failed to create employee account", "error", err, "email", dto.Email)
		return nil, "", internal.NewDataError("Registration failed", err)
	}

	token, err := s.tokenGenerator.GenerateAccessToken(emp.ID, emp.Email, emp.Role)
	if err != nil {
		return nil, "", internal.NewInternalError("Registration failed", err)
	}

	s.logger.Info("employee registered", "employee_id", emp.ID, "role", emp.Role)

	return emp, token, nil
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password produce the identical generic error; a deactivated account gets
// its own message.
func (s *Service) Login(dto LoginDTO) (*employee.Employee, string, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, "", err
	}

	emp, err := s.repo.GetByEmail(dto.Email)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if !emp.IsActive {
		return nil, "", ErrAccountDeactivated
	}

	if err := VerifyPassword(emp.PasswordHash, dto.Password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokenGenerator.GenerateAccessToken(emp.ID, emp.Email, emp.Role)
	if err != nil {
		return nil, "", internal.NewInternalError("Login failed", err)
	}

	s.logger.Info("employee logged in", "employee_id", emp.ID)

	return emp, token, nil
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateToken(tokenString)
}

// ResolveIdentity loads the active employee behind a token subject and
// converts it to the request-scoped caller identity.
func (s *Service) ResolveIdentity(userID int64) (*internal.Identity, error) {
	emp, err := s.repo.GetActiveByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	return &internal.Identity{
		ID:           emp.ID,
		Name:         emp.Name,
		Email:        emp.Email,
		Role:         emp.Role,
		DepartmentID: emp.DepartmentID,
		ManagerID:    emp.ManagerID,
		IsActive:     emp.IsActive,
	}, nil
}

func (s *Service) GetProfile(userID int64) (*Profile, error) {
	profile, err := s.repo.GetProfile(userID)
	if err != nil {
		return nil, employee.ErrNotFound
	}
	return profile, nil
}

// UpdateProfile applies a sparse update to the caller's own mutable fields.
func (s *Service) UpdateProfile(userID int64, dto UpdateProfileDTO) (*Profile, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	updates, err := dto.Updates()
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateProfile(userID, updates); err != nil {
		s.logger.Error("failed to update profile", "error", err, "employee_id", userID)
		return nil, internal.NewDataError("Failed to update profile", err)
	}

	return s.GetProfile(userID)
}

// ChangePassword verifies the current password before re-hashing the new one.
func (s *Service) ChangePassword(userID int64, dto ChangePasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	emp, err := s.repo.GetActiveByID(userID)
	if err != nil {
		return employee.ErrNotFound
	}

	if err := VerifyPassword(emp.PasswordHash, dto.CurrentPassword); err != nil {
		return ErrWrongPassword
	}

	hash, err := HashPassword(dto.NewPassword, s.bcryptCost)
	if err != nil {
		return internal.NewInternalError("Failed to change password", err)
	}

	if err := s.repo.UpdatePassword(userID, hash); err != nil {
		s.logger.Error("failed to persist new password", "error", err, "employee_id", userID)
		return internal.NewDataError("Failed to change password", err)
	}

	s.logger.Info("password changed", "employee_id", userID)

	return nil
}
