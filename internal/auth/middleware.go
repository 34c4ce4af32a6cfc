package auth

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/genzspace/genzflow/internal"
)

// RequireAuth verifies the bearer token and loads the caller's account.
// Failure modes keep their distinct messages: a missing token is 401,
// a malformed or expired token is 403, and a token whose subject no longer
// maps to an active employee is 401 again.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.HandleServiceError(w, ErrTokenRequired)
			return
		}

		claims, err := h.service.ValidateAccessToken(token)
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}

		caller, err := h.service.ResolveIdentity(claims.UserID)
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}

		ctx := internal.ContextWithIdentity(r.Context(), caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth attaches the caller identity when a valid token is present
// and lets the request through anonymously otherwise.
func (h *Handler) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := h.service.ValidateAccessToken(token)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		caller, err := h.service.ResolveIdentity(claims.UserID)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := internal.ContextWithIdentity(r.Context(), caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequirePermission gates a route on the policy table. Must run after
// RequireAuth. Denials include the required and actual roles so a client
// can explain the 403 without a round trip.
func (h *Handler) RequirePermission(resource, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := internal.IdentityFromContext(r.Context())
			if !ok {
				h.HandleServiceError(w, ErrTokenRequired)
				return
			}

			required, known := RolesFor(resource, action)
			if !known || !caller.Role.In(required) {
				h.writeInsufficientPermissions(w, required, caller.Role)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireSelfOrAdmin allows the request when the path id parameter matches
// the caller, or when the caller holds an admin role.
func (h *Handler) RequireSelfOrAdmin(idParam string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := internal.IdentityFromContext(r.Context())
			if !ok {
				h.HandleServiceError(w, ErrTokenRequired)
				return
			}

			id, err := strconv.ParseInt(chi.URLParam(r, idParam), 10, 64)
			if err != nil {
				h.WriteError(w, http.StatusBadRequest, "Invalid employee ID")
				return
			}

			if caller.ID != id && !caller.Role.IsAdmin() {
				h.writeInsufficientPermissions(w, internal.AdminRoles, caller.Role)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (h *Handler) writeInsufficientPermissions(w http.ResponseWriter, required []internal.Role, current internal.Role) {
	err := internal.NewForbiddenError("Insufficient permissions", internal.ErrCodeAccessDenied).
		WithDetails(map[string]interface{}{
			"required": required,
			"current":  current,
		})
	h.HandleServiceError(w, err)
}
