package adaptor

import (
	"net/http"

	"storefront/internal/dto/request"
	"storefront/internal/dto/response"
	"storefront/internal/usecase"

	"github.com/go-chi/chi/v5"
)

type FeedbackHandler struct {
	responder
	service  usecase.FeedbackService
	products usecase.ProductService
}

func NewFeedbackHandler(service usecase.FeedbackService, products usecase.ProductService, rs responder) *FeedbackHandler {
	return &FeedbackHandler{responder: rs, service: service, products: products}
}

// Form handles GET /feedback
func (h *FeedbackHandler) Form(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err, "list products", "/", "/")
		return
	}

	h.render(w, r, "feedback", "Feedback", response.ProductsToResponse(products))
}

// Submit handles POST /feedback
func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req request.FeedbackRequest
	if !h.decodeForm(w, r, &req, "/feedback") {
		return
	}

	if _, err := h.service.Submit(r.Context(), &req); err != nil {
		h.handleServiceError(w, r, err, "submit feedback", "/feedback", "/feedback")
		return
	}

	h.redirectWithFlash(w, r, "Feedback submitted successfully.", userHome)
}

// Delete handles POST /delete_feedback/{id}
func (h *FeedbackHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(w, r, err, "delete feedback", adminHome, adminHome)
		return
	}

	h.redirectWithFlash(w, r, "Feedback deleted successfully.", adminHome)
}
