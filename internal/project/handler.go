package project

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
	filters := parseListFilters(r)

	rows, total, err := h.service.List(filters)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, map[string]interface{}{
		"projects":   rows,
		"pagination": transport.NewPagination(filters.Page, filters.Limit, total),
	})
}

// Get returns the project plus the tasks inside it.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	detail, tasks, err := h.service.Get(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, map[string]interface{}{
		"project": detail,
		"tasks":   tasks,
	})
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

	h.WriteMessage(w, http.StatusCreated, "Project created successfully", detail)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	var dto UpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	detail, err := h.service.Update(id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteMessage(w, http.StatusOK, "Project updated successfully", detail)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	if err := h.service.Delete(id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteMessage(w, http.StatusOK, "Project deleted successfully", nil)
}

func (h *Handler) StatsOverview(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.StatsOverview()
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
		Status: Status(q.Get("status")),
		Search: q.Get("search"),
	}
	filters.Page, _ = strconv.Atoi(q.Get("page"))
	filters.Limit, _ = strconv.Atoi(q.Get("limit"))
	filters.Normalize()

	return filters
}
