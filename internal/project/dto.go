package project

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/genzspace/genzflow/internal"
)

// CreateDTO is the project creation payload. Budget arrives as a JSON
// string or number; decimal.NullDecimal handles both without float loss.
type CreateDTO struct {
	Name        string              `json:"name"`
	Description *string             `json:"description"`
	Status      Status              `json:"status"`
	StartDate   *string             `json:"start_date"`
	Deadline    *string             `json:"deadline"`
	Budget      decimal.NullDecimal `json:"budget"`
}

func (d *CreateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	if d.Status == "" {
		d.Status = StatusPlanning
	}
}

func (d CreateDTO) Validate() error {
	var fieldErrors []internal.ValidationError

	if len(d.Name) < 1 || len(d.Name) > 200 {
		fieldErrors = append(fieldErrors, internal.ValidationError{
			Field: "name", Message: "Name must be 1-200 characters", Code: string(internal.ErrCodeValidationFailed),
		})
	}
	if d.Description != nil && len(*d.Description) > 1000 {
		fieldErrors = append(fieldErrors, internal.ValidationError{
			Field: "description", Message: "Description must be less than 1000 characters", Code: string(internal.ErrCodeValidationFailed),
		})
	}
	if !ValidStatus(d.Status) {
		fieldErrors = append(fieldErrors, internal.ValidationError{
			Field: "status", Message: "Invalid status", Code: string(internal.ErrCodeInvalidStatus),
		})
	}
	if d.StartDate != nil {
		if _, err := parseDate(*d.StartDate); err != nil {
			fieldErrors = append(fieldErrors, internal.ValidationError{
				Field: "start_date", Message: "Start date must be an ISO date (YYYY-MM-DD)", Code: string(internal.ErrCodeInvalidDate),
			})
		}
	}
	if d.Deadline != nil {
		if _, err := parseDate(*d.Deadline); err != nil {
			fieldErrors = append(fieldErrors, internal.ValidationError{
				Field: "deadline", Message: "Deadline must be an ISO date (YYYY-MM-DD)", Code: string(internal.ErrCodeInvalidDate),
			})
		}
	}
	if d.Budget.Valid && d.Budget.Decimal.IsNegative() {
		fieldErrors = append(fieldErrors, internal.ValidationError{
			Field: "budget", Message: "Budget must not be negative", Code: string(internal.ErrCodeInvalidBudget),
		})
	}

	if len(fieldErrors) > 0 {
		return internal.NewValidationFieldErrors(fieldErrors)
	}
	return nil
}

// UpdateDTO is the raw partial-update payload, checked against the
// UpdatableColumns allow-list key by key.
type UpdateDTO map[string]interface{}

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
			if !ok || len(name) < 1 || len(name) > 200 {
				fieldErrors = append(fieldErrors, invalidField("name", "Name must be 1-200 characters", internal.ErrCodeValidationFailed))
				continue
			}
			updates["name"] = name
		case "description":
			if value == nil {
				updates["description"] = nil
				continue
			}
			description, ok := value.(string)
			if !ok || len(description) > 1000 {
				fieldErrors = append(fieldErrors, invalidField("description", "Description must be less than 1000 characters", internal.ErrCodeValidationFailed))
				continue
			}
			updates["description"] = description
		case "status":
			status, ok := value.(string)
			if !ok || !ValidStatus(Status(status)) {
				fieldErrors = append(fieldErrors, invalidField("status", "Invalid status", internal.ErrCodeInvalidStatus))
				continue
			}
			updates["status"] = status
		case "start_date", "deadline":
			if value == nil {
				updates[key] = nil
				continue
			}
			raw, ok := value.(string)
			if !ok {
				fieldErrors = append(fieldErrors, invalidField(key, "Must be an ISO date (YYYY-MM-DD)", internal.ErrCodeInvalidDate))
				continue
			}
			date, err := parseDate(raw)
			if err != nil {
				fieldErrors = append(fieldErrors, invalidField(key, "Must be an ISO date (YYYY-MM-DD)", internal.ErrCodeInvalidDate))
				continue
			}
			updates[key] = date
		case "budget":
			if value == nil {
				updates["budget"] = nil
				continue
			}
			budget, err := toDecimal(value)
			if err != nil || budget.IsNegative() {
				fieldErrors = append(fieldErrors, invalidField("budget", "Budget must be a non-negative decimal", internal.ErrCodeInvalidBudget))
				continue
			}
			updates["budget"] = budget
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

func invalidField(field, message string, code internal.ErrorCode) internal.ValidationError {
	return internal.ValidationError{Field: field, Message: message, Code: string(code)}
}

func parseDate(raw string) (time.Time, error) {
	return time.Parse("2006-01-02", raw)
}

// toDecimal accepts the JSON encodings a budget may arrive in: a number or
// a numeric string.
func toDecimal(value interface{}) (decimal.Decimal, error) {
	switch v := value.(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		return decimal.NewFromString(v)
	default:
		return decimal.Decimal{}, fmt.Errorf("not a decimal: %v", value)
	}
}
