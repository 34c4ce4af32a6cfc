package internal

import (
	"context"
	"time"
)

type ctxKey string

const contextIdentityKey ctxKey = "identity"

// Identity is the resolved caller attached to the request context after
// token verification. It carries exactly the columns the middleware loads.
type Identity struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	DepartmentID *int64 `json:"department_id"`
	ManagerID    *int64 `json:"manager_id"`
	IsActive     bool   `json:"is_active"`
}

func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	if ctx == nil {
		return nil, false
	}
	caller, ok := ctx.Value(contextIdentityKey).(*Identity)
	return caller, ok && caller != nil
}

func ContextWithIdentity(ctx context.Context, caller *Identity) context.Context {
	return context.WithValue(ctx, contextIdentityKey, caller)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
