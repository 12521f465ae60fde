package adaptor

import (
	"net/http"

	"storefront/internal/dto/request"
	"storefront/internal/usecase"
)

type ContactHandler struct {
	responder
	service usecase.ContactService
}

func NewContactHandler(service usecase.ContactService, rs responder) *ContactHandler {
	return &ContactHandler{responder: rs, service: service}
}

// Form handles GET /contact
func (h *ContactHandler) Form(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "contact", "Contact", nil)
}

// Send handles POST /contact
func (h *ContactHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req request.ContactRequest
	if !h.decodeForm(w, r, &req, "/contact") {
		return
	}

	if err := h.service.Send(r.Context(), &req); err != nil {
		h.handleServiceError(w, r, err, "send contact message", "/contact", "/")
		return
	}

	h.redirectWithFlash(w, r, "Message sent successfully.", "/")
}
