package department

import (
	"net/http"

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
	departments, err := h.service.List()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, departments)
}
