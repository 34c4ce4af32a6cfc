package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/genzspace/genzflow/internal"
	"github.com/genzspace/genzflow/internal/employee"
)

// ServiceAPI is the contract the HTTP handler and middleware consume.
type ServiceAPI interface {
	Register(dto RegisterDTO) (*employee.Employee, string, error)
	Login(dto LoginDTO) (*employee.Employee, string, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ResolveIdentity(userID int64) (*internal.Identity, error)
	GetProfile(userID int64) (*Profile, error)
	UpdateProfile(userID int64, dto UpdateProfileDTO) (*Profile, error)
	ChangePassword(userID int64, dto ChangePasswordDTO) error
}

// RepositoryAPI is the account store the auth service talks to.
type RepositoryAPI interface {
	GetByEmail(email string) (*employee.Employee, error)
	GetActiveByID(id int64) (*employee.Employee, error)
	EmailExists(email string) (bool, error)
	Create(emp *employee.Employee) error
	GetProfile(id int64) (*Profile, error)
	UpdateProfile(id int64, updates map[string]interface{}) error
	UpdatePassword(id int64, passwordHash string) error
}

// TokenGeneratorAPI signs and verifies access tokens.
type TokenGeneratorAPI interface {
	GenerateAccessToken(userID int64, email string, role internal.Role) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Claims is the signed token payload: user id, email and role, plus the
// registered expiry/issued-at set.
type Claims struct {
	UserID int64         `json:"user_id"`
	Email  string        `json:"email"`
	Role   internal.Role `json:"role"`
	jwt.RegisteredClaims
}

// Profile is the self-service view of an account, joined with department
// and manager names.
type Profile struct {
	ID             int64         `json:"id"`
	Name           string        `json:"name"`
	Email          string        `json:"email"`
	Role           internal.Role `json:"role"`
	DepartmentID   *int64        `json:"department_id"`
	DepartmentName *string       `json:"department_name"`
	ManagerID      *int64        `json:"manager_id"`
	ManagerName    *string       `json:"manager_name"`
	ProfilePicture *string       `json:"profile_picture,omitempty"`
	Bio            *string       `json:"bio,omitempty"`
	JoinDate       time.Time     `json:"join_date"`
	CreatedAt      time.Time     `json:"created_at"`
}

// Credentials holds a minted token and its expiry.
type Credentials struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

var (
	// Unknown email and wrong password intentionally share this message so
	// responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = internal.NewUnauthorizedError("Invalid credentials", internal.ErrCodeInvalidCredentials)
	// Deactivated accounts get a distinct message. This leaks account
	// existence and is a known inconsistency carried over from the
	// product's behavior; do not silently merge it with the generic one.
	ErrAccountDeactivated = internal.NewUnauthorizedError("Account is deactivated", internal.ErrCodeAccountDeactivated)
	ErrTokenRequired      = internal.NewUnauthorizedError("Access token required", internal.ErrCodeTokenRequired)
	ErrInvalidToken       = internal.NewForbiddenError("Invalid token", internal.ErrCodeInvalidToken)
	ErrTokenExpired       = internal.NewForbiddenError("Token expired", internal.ErrCodeTokenExpired)
	ErrUserNotFound       = internal.NewUnauthorizedError("User not found or inactive", internal.ErrCodeEmployeeNotFound)
	ErrWrongPassword      = internal.NewUnauthorizedError("Current password is incorrect", internal.ErrCodeInvalidCredentials)
)

// VerifyPassword compares a bcrypt hash against a candidate in constant time.
func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
