package auth

import (
	"net/mail"
	"strings"

	"github.com/genzspace/genzflow/internal"
)

type RegisterDTO struct {
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Password     string        `json:"password"`
	Role         internal.Role `json:"role"`
	DepartmentID *int64        `json:"department_id"`
	ManagerID    *int64        `json:"manager_id"`
}

// Normalize trims the name and lowercases the email before validation, so
// the uniqueness check and the stored row agree.
func (d *RegisterDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
}

func (d RegisterDTO) Validate() error {
	var fieldErrors []internal.ValidationError

	if len(d.Name) < 2 || len(d.Name) > 100 {
		fieldErrors = append(fieldErrors, internal.ValidationError{
			Field: "name", Message: "Name must be 2-100 characters", Code: string(internal.ErrCodeValidationFailed),
		})
	}
	if _, err := mail.ParseAddress(d.Email); err != nil {
		fieldErrors = append(fieldErrors, internal.ValidationError{
			Field: "email", Message: "Valid email required", Code: string(internal.ErrCodeValidationFailed),
		})
	}
	if len(d.Password) < 6 {
		fieldErrors = append(fieldErrors, internal.ValidationError{
			Field: "password", Message: "Password must be at least 6 characters", Code: string(internal.ErrCodeValidationFailed),
		})
	}
	if !internal.ValidRole(d.Role) {
		fieldErrors = append(fieldErrors, internal.ValidationError{
			Field: "role", Message: "Invalid role", Code: string(internal.ErrCodeInvalidRole),
		})
	}

	if len(fieldErrors) > 0 {
		return internal.NewValidationFieldErrors(fieldErrors)
	}
	return nil
}

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d *LoginDTO) Normalize() {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
}

func (d LoginDTO) Validate() error {
	var fieldErrors []internal.ValidationError

	if _, err := mail.ParseAddress(d.Email); err != nil {
		fieldErrors = append(fieldErrors, internal.ValidationError{
			Field: "email", Message: "Valid email required", Code: string(internal.ErrCodeValidationFailed),
		})
	}
	if d.Password == "" {
		fieldErrors = append(fieldErrors, internal.ValidationError{
			Field: "password", Message: "Password required", Code: string(internal.ErrCodeValidationFailed),
		})
	}

	if len(fieldErrors) > 0 {
		return internal.NewValidationFieldErrors(fieldErrors)
	}
	return nil
}

// UpdateProfileDTO carries the sparse self-service profile update. Only
// fields present in the JSON (non-nil pointers) are written.
type UpdateProfileDTO struct {
	Name           *string `json:"name"`
	Bio            *string `json:"bio"`
	ProfilePicture *string `json:"profile_picture"`
}

func (d UpdateProfileDTO) Validate() error {
	var fieldErrors []internal.ValidationError

	if d.Name != nil {
		trimmed := strings.TrimSpace(*d.Name)
		if len(trimmed) < 2 || len(trimmed) > 100 {
			fieldErrors = append(fieldErrors, internal.ValidationError{
				Field: "name", Message: "Name must be 2-100 characters", Code: string(internal.ErrCodeValidationFailed),
			})
		}
	}
	if d.Bio != nil && len(*d.Bio) > 500 {
		fieldErrors = append(fieldErrors, internal.ValidationError{
			Field: "bio", Message: "Bio must be less than 500 characters", Code: string(internal.ErrCodeValidationFailed),
		})
	}

	if len(fieldErrors) > 0 {
		return internal.NewValidationFieldErrors(fieldErrors)
	}
	return nil
}

// Updates returns the column map for the fields that are present, or an
// empty-update error when none are.
func (d UpdateProfileDTO) Updates() (map[string]interface{}, error) {
	updates := make(map[string]interface{})
	if d.Name != nil {
		updates["name"] = strings.TrimSpace(*d.Name)
	}
	if d.Bio != nil {
		updates["bio"] = *d.Bio
	}
	if d.ProfilePicture != nil {
		updates["profile_picture"] = *d.ProfilePicture
	}
	if len(updates) == 0 {
		return nil, internal.NewValidationError("No fields to update", internal.ErrCodeEmptyUpdate)
	}
	return updates, nil
}

type ChangePasswordDTO struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (d ChangePasswordDTO) Validate() error {
	var fieldErrors []internal.ValidationError

	if d.CurrentPassword == "" {
		fieldErrors = append(fieldErrors, internal.ValidationError{
			Field: "current_password", Message: "Current password required", Code: string(internal.ErrCodeValidationFailed),
		})
	}
	if len(d.NewPassword) < 6 {
		fieldErrors = append(fieldErrors, internal.ValidationError{
			Field: "new_password", Message: "New password must be at least 6 characters", Code: string(internal.ErrCodeValidationFailed),
		})
	}

	if len(fieldErrors) > 0 {
		return internal.NewValidationFieldErrors(fieldErrors)
	}
	return nil
}
