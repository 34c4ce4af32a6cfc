package task

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/genzspace/genzflow/internal"
	"github.com/genzspace/genzflow/internal/transport"
)

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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "Access token required")
		return
	}

	filters := parseListFilters(r)

	rows, total, err := h.service.List(caller, filters)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, map[string]interface{}{
		"tasks":      rows,
		"pagination": transport.NewPagination(filters.Page, filters.Limit, total),
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "Access token required")
		return
	}

	id, err := h.pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "Invalid task ID")
		return
	}

	detail, err := h.service.Get(caller, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, detail)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "Access token required")
		return
	}

	var dto CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	detail, err := h.service.Create(caller, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteMessage(w, http.StatusCreated, "Task created successfully", detail)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "Access token required")
		return
	}

	id, err := h.pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "Invalid task ID")
		return
	}

	var dto UpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	detail, err := h.service.Update(caller, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteMessage(w, http.StatusOK, "Task updated successfully", detail)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "Invalid task ID")
		return
	}

	if err := h.service.Delete(id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteMessage(w, http.StatusOK, "Task deleted successfully", nil)
}

func (h *Handler) StatsOverview(w http.ResponseWriter, r *http.Request) {
	caller, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "Access token required")
		return
	}

	stats, err := h.service.StatsOverview(caller)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, stats)
}

func (h *Handler) pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func parseListFilters(r *http.Request) ListFilters {
	q := r.URL.Query()

	filters := ListFilters{
		Status:   Status(q.Get("status")),
		Priority: Priority(q.Get("priority")),
		Search:   q.Get("search"),
	}
	if raw := q.Get("assigned_to"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filters.AssignedTo = &id
		}
	}
	if raw := q.Get("project_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filters.ProjectID = &id
		}
	}
	filters.Page, _ = strconv.Atoi(q.Get("page"))
	filters.Limit, _ = strconv.Atoi(q.Get("limit"))
	filters.Normalize()

	return filters
}
