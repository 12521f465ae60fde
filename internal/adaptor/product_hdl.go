package adaptor

import (
	"errors"
	"mime/multipart"
	"net/http"

	"storefront/internal/dto/request"
	"storefront/internal/dto/response"
	"storefront/internal/usecase"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const adminHome = "/admin_dashboard"

type ProductHandler struct {
	responder
	service        usecase.ProductService
	feedback       usecase.FeedbackService
	maxUploadBytes int64
}

func NewProductHandler(
	service usecase.ProductService,
	feedback usecase.FeedbackService,
	maxUploadBytes int64,
	rs responder,
) *ProductHandler {
	return &ProductHandler{
		responder:      rs,
		service:        service,
		feedback:       feedback,
		maxUploadBytes: maxUploadBytes,
	}
}

type adminDashboard struct {
	Products  []response.ProductResponse
	Feedbacks []response.FeedbackResponse
}

// Dashboard handles GET /admin_dashboard
func (h *ProductHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err, "list products", "/", "/")
		return
	}

	feedbacks, err := h.feedback.List(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err, "list feedback", "/", "/")
		return
	}

	h.render(w, r, "admin_dashboard", "Admin Dashboard", adminDashboard{
		Products:  response.ProductsToResponse(products),
		Feedbacks: response.FeedbacksToResponse(feedbacks),
	})
}

// AddForm handles GET /add_product
func (h *ProductHandler) AddForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "add_product", "Add Product", nil)
}

// Add handles POST /add_product
func (h *ProductHandler) Add(w http.ResponseWriter, r *http.Request) {
	image, ok := h.parseProductForm(w, r, "/add_product")
	if !ok {
		return
	}

	var req request.ProductRequest
	if !h.decodeForm(w, r, &req, "/add_product") {
		return
	}

	if _, err := h.service.Create(r.Context(), &req, image); err != nil {
		h.handleServiceError(w, r, err, "create product", "/add_product", adminHome)
		return
	}

	h.redirectWithFlash(w, r, "Product added successfully!", adminHome)
}

// EditForm handles GET /edit_product/{id}
func (h *ProductHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err, "get product", adminHome, adminHome)
		return
	}

	h.render(w, r, "edit_product", "Edit Product", response.ProductToResponse(product))
}

// Edit handles POST /edit_product/{id}
func (h *ProductHandler) Edit(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")
	formPath := "/edit_product/" + productID

	image, ok := h.parseProductForm(w, r, formPath)
	if !ok {
		return
	}

	var req request.ProductUpdateRequest
	if !h.decodeForm(w, r, &req, formPath) {
		return
	}

	if _, err := h.service.Update(r.Context(), productID, &req, image); err != nil {
		h.handleServiceError(w, r, err, "update product", formPath, adminHome)
		return
	}

	h.redirectWithFlash(w, r, "Product updated successfully.", adminHome)
}

// Delete handles POST /delete_product/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(w, r, err, "delete product", adminHome, adminHome)
		return
	}

	h.redirectWithFlash(w, r, "Product deleted successfully.", adminHome)
}

// parseProductForm accepts both multipart and url-encoded posts and returns the
// optional image part
func (h *ProductHandler) parseProductForm(w http.ResponseWriter, r *http.Request, formPath string) (*multipart.FileHeader, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	err := r.ParseMultipartForm(h.maxUploadBytes)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		h.log.Warn("Failed to parse product form", zap.Error(err), zap.String("path", r.URL.Path))
		h.redirectWithFlash(w, r, "Upload too large or malformed.", formPath)
		return nil, false
	}

	if r.MultipartForm == nil {
		return nil, true
	}

	files := r.MultipartForm.File["image"]
	if len(files) == 0 {
		return nil, true
	}
	return files[0], true
}
