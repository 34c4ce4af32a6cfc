package dashboard

import (
	"net/http"

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

func (h *Handler) CEO(w http.ResponseWriter, r *http.Request) {
	board, err := h.service.CEO()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, board)
}

func (h *Handler) Manager(w http.ResponseWriter, r *http.Request) {
	caller, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "Access token required")
		return
	}

	board, err := h.service.Manager(caller)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, board)
}

func (h *Handler) Employee(w http.ResponseWriter, r *http.Request) {
	caller, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "Access token required")
		return
	}

	board, err := h.service.Employee(caller)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, board)
}

func (h *Handler) General(w http.ResponseWriter, r *http.Request) {
	board, err := h.service.General()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, board)
}
