package auth

import (
	"encoding/json"
	"net/http"

	"github.com/genzspace/genzflow/internal"
	"github.com/genzspace/genzflow/internal/transport"
)

// Handler serves the /auth endpoints and owns the middleware gates the
// router mounts on protected routes.
type Handler struct {
	*transport.BaseHandler
	service ServiceAPI
}

func NewHandler(base *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: base,
		service:     service,
	}
}

// Register creates an account and returns the sanitized user plus a signed
// token.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	emp, token, err := h.service.Register(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteMessage(w, http.StatusCreated, "User registered successfully", map[string]interface{}{
		"user":  emp,
		"token": token,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	emp, token, err := h.service.Login(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteMessage(w, http.StatusOK, "Login successful", map[string]interface{}{
		"user":  emp,
		"token": token,
	})
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	caller, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, ErrTokenRequired)
		return
	}

	profile, err := h.service.GetProfile(caller.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, profile)
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	caller, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, ErrTokenRequired)
		return
	}

	var dto UpdateProfileDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile, err := h.service.UpdateProfile(caller.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteMessage(w, http.StatusOK, "Profile updated successfully", profile)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	caller, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, ErrTokenRequired)
		return
	}

	var dto ChangePasswordDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.ChangePassword(caller.ID, dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteMessage(w, http.StatusOK, "Password changed successfully", nil)
}

// Logout is stateless: tokens are not revocable, the endpoint exists so
// clients have a uniform sign-out call.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
