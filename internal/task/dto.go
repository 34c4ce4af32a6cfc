package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/genzspace/genzflow/internal"
)

// CreateDTO is the task creation payload. The assigner is never taken from
// the body; it is always the authenticated caller.
type CreateDTO struct {
	Title          string   `json:"title"`
	Description    *string  `json:"description"`
	Status         Status   `json:"status"`
	Priority       Priority `json:"priority"`
	Progress       *int     `json:"progress"`
	AssignedTo     int64    `json:"assigned_to"`
	ProjectID      *int64   `json:"project_id"`
	Deadline       *string  `json:"deadline"`
	EstimatedHours *float64 `json:"estimated_hours"`
}

func (d *CreateDTO) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	if d.Status == "" {
		d.Status = StatusNotStarted
	}
	if d.Priority == "" {
		d.Priority = PriorityMedium
	}
}

func (d CreateDTO) Validate() error {
	var fieldErrors []internal.ValidationError

	if len(d.Title) < 1 || len(d.Title) > 200 {
		fieldErrors = append(fieldErrors, internal.ValidationError{
			Field: "title", Message: "Title must be 1-200 characters", Code: string(internal.ErrCodeValidationFailed),
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
	if !ValidPriority(d.Priority) {
		fieldErrors = append(fieldErrors, internal.ValidationError{
			Field: "priority", Message: "Invalid priority", Code: string(internal.ErrCodeInvalidPriority),
		})
	}
	if d.Progress != nil && (*d.Progress < 0 || *d.Progress > 100) {
		fieldErrors = append(fieldErrors, internal.ValidationError{
			Field: "progress", Message: "Progress must be between 0 and 100", Code: string(internal.ErrCodeInvalidProgress),
		})
	}
	if d.AssignedTo <= 0 {
		fieldErrors = append(fieldErrors, internal.ValidationError{
			Field: "assigned_to", Message: "Assignee required", Code: string(internal.ErrCodeValidationFailed),
		})
	}
	if d.Deadline != nil {
		if _, err := parseDate(*d.Deadline); err != nil {
			fieldErrors = append(fieldErrors, internal.ValidationError{
				Field: "deadline", Message: "Deadline must be an ISO date (YYYY-MM-DD)", Code: string(internal.ErrCodeInvalidDate),
			})
		}
	}
	if d.EstimatedHours != nil && *d.EstimatedHours < 0 {
		fieldErrors = append(fieldErrors, internal.ValidationError{
			Field: "estimated_hours", Message: "Estimated hours must not be negative", Code: string(internal.ErrCodeValidationFailed),
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
		case "title":
			title, ok := value.(string)
			title = strings.TrimSpace(title)
			if !ok || len(title) < 1 || len(title) > 200 {
				fieldErrors = append(fieldErrors, invalidField("title", "Title must be 1-200 characters", internal.ErrCodeValidationFailed))
				continue
			}
			updates["title"] = title
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
		case "priority":
			priority, ok := value.(string)
			if !ok || !ValidPriority(Priority(priority)) {
				fieldErrors = append(fieldErrors, invalidField("priority", "Invalid priority", internal.ErrCodeInvalidPriority))
				continue
			}
			updates["priority"] = priority
		case "progress":
			num, ok := value.(float64)
			if !ok || num != float64(int(num)) || num < 0 || num > 100 {
				fieldErrors = append(fieldErrors, invalidField("progress", "Progress must be between 0 and 100", internal.ErrCodeInvalidProgress))
				continue
			}
			updates["progress"] = int(num)
		case "deadline":
			if value == nil {
				updates["deadline"] = nil
				continue
			}
			raw, ok := value.(string)
			if !ok {
				fieldErrors = append(fieldErrors, invalidField("deadline", "Deadline must be an ISO date (YYYY-MM-DD)", internal.ErrCodeInvalidDate))
				continue
			}
			deadline, err := parseDate(raw)
			if err != nil {
				fieldErrors = append(fieldErrors, invalidField("deadline", "Deadline must be an ISO date (YYYY-MM-DD)", internal.ErrCodeInvalidDate))
				continue
			}
			updates["deadline"] = deadline
		case "estimated_hours":
			if value == nil {
				updates["estimated_hours"] = nil
				continue
			}
			hours, ok := value.(float64)
			if !ok || hours < 0 {
				fieldErrors = append(fieldErrors, invalidField("estimated_hours", "Estimated hours must not be negative", internal.ErrCodeValidationFailed))
				continue
			}
			updates["estimated_hours"] = hours
		case "project_id":
			if value == nil {
				updates["project_id"] = nil
				continue
			}
			num, ok := value.(float64)
			if !ok || num != float64(int64(num)) || num <= 0 {
				fieldErrors = append(fieldErrors, invalidField("project_id", "project_id must be a positive integer or null", internal.ErrCodeValidationFailed))
				continue
			}
			updates["project_id"] = int64(num)
		case "assigned_to":
			num, ok := value.(float64)
			if !ok || num != float64(int64(num)) || num <= 0 {
				fieldErrors = append(fieldErrors, invalidField("assigned_to", "assigned_to must be a positive integer", internal.ErrCodeValidationFailed))
				continue
			}
			updates["assigned_to"] = int64(num)
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
