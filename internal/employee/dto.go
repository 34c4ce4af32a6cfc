package employee

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/genzspace/genzflow/internal"
)

// CreateDTO is the admin-side account creation payload.
type CreateDTO struct {
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Password     string        `json:"password"`
	Role         internal.Role `json:"role"`
	DepartmentID *int64        `json:"department_id"`
	ManagerID    *int64        `json:"manager_id"`
}

func (d *CreateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
}

func (d CreateDTO) Validate() error {
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

// UpdateDTO is the raw update payload. Keys are checked against the
// UpdatableColumns allow-list before anything reaches the database.
type UpdateDTO map[string]interface{}

// Updates validates the payload and converts it to a column map. Unknown
// keys are rejected outright rather than silently dropped, so a client
// typo'ing a field name learns about it.
func (d UpdateDTO) Updates() (map[string]interface{}, error) {
	var fieldErrors []internal.ValidationError
	updates := make(map[string]interface{}, len(d))

	for key, value := range d {
		if !UpdatableColumns[key] {
			fieldErrors = append(fieldErrors, internal.ValidationError{
				Field: key, Message: fmt.Sprintf("Field %q cannot be updated", key), Code: string(internal.ErrCodeValidationFailed),
			})
			continue
		}

		switch key {
		case "name":
			name, ok := value.(string)
			name = strings.TrimSpace(name)
			if !ok || len(name) < 2 || len(name) > 100 {
				fieldErrors = append(fieldErrors, internal.ValidationError{
					Field: "name", Message: "Name must be 2-100 characters", Code: string(internal.ErrCodeValidationFailed),
				})
				continue
			}
			updates["name"] = name
		case "email":
			email, ok := value.(string)
			email = strings.ToLower(strings.TrimSpace(email))
			if !ok {
				fieldErrors = append(fieldErrors, internal.ValidationError{
					Field: "email", Message: "Valid email required", Code: string(internal.ErrCodeValidationFailed),
				})
				continue
			}
			if _, err := mail.ParseAddress(email); err != nil {
				fieldErrors = append(fieldErrors, internal.ValidationError{
					Field: "email", Message: "Valid email required", Code: string(internal.ErrCodeValidationFailed),
				})
				continue
			}
			updates["email"] = email
		case "role":
			role, ok := value.(string)
			if !ok || !internal.ValidRole(internal.Role(role)) {
				fieldErrors = append(fieldErrors, internal.ValidationError{
					Field: "role", Message: "Invalid role", Code: string(internal.ErrCodeInvalidRole),
				})
				continue
			}
			updates["role"] = role
		case "department_id", "manager_id":
			id, err := toNullableID(value)
			if err != nil {
				fieldErrors = append(fieldErrors, internal.ValidationError{
					Field: key, Message: fmt.Sprintf("%s must be a positive integer or null", key), Code: string(internal.ErrCodeValidationFailed),
				})
				continue
			}
			updates[key] = id
		case "bio":
			bio, ok := value.(string)
			if value == nil {
				updates["bio"] = nil
				continue
			}
			if !ok || len(bio) > 500 {
				fieldErrors = append(fieldErrors, internal.ValidationError{
					Field: "bio", Message: "Bio must be less than 500 characters", Code: string(internal.ErrCodeValidationFailed),
				})
				continue
			}
			updates["bio"] = bio
		case "profile_picture":
			if value == nil {
				updates["profile_picture"] = nil
				continue
			}
			picture, ok := value.(string)
			if !ok {
				fieldErrors = append(fieldErrors, internal.ValidationError{
					Field: "profile_picture", Message: "profile_picture must be a string", Code: string(internal.ErrCodeValidationFailed),
				})
				continue
			}
			updates["profile_picture"] = picture
		}
	}

	if len(fieldErrors) > 0 {
		return nil, internal.NewValidationFieldErrors(fieldErrors)
	}
	if len(updates) == 0 {
		return nil, internal.NewValidationError("No fields to update", internal.ErrCodeEmptyUpdate)
	}
	return updates, nil
}

// toNullableID accepts the JSON encodings of an optional foreign key: null,
// or a whole positive number.
func toNullableID(value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}
	num, ok := value.(float64)
	if !ok || num != float64(int64(num)) || num <= 0 {
		return nil, fmt.Errorf("not a positive integer: %v", value)
	}
	return int64(num), nil
}
