package adaptor

import (
	"net/http"

	"storefront/internal/dto/request"
	"storefront/internal/dto/response"
	"storefront/internal/usecase"

	"github.com/go-chi/chi/v5"
)

const userHome = "/user_dashboard"

type ShopHandler struct {
	responder
	products usecase.ProductService
	orders   usecase.OrderService
}

func NewShopHandler(products usecase.ProductService, orders usecase.OrderService, rs responder) *ShopHandler {
	return &ShopHandler{responder: rs, products: products, orders: orders}
}

// Dashboard handles GET /user_dashboard
func (h *ShopHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err, "list products", "/", "/")
		return
	}

	h.render(w, r, "user_dashboard", "Products", response.ProductsToResponse(products))
}

// ViewProduct handles GET /product/{id}
func (h *ShopHandler) ViewProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err, "view product", userHome, userHome)
		return
	}

	h.render(w, r, "view_product", product.ProductName, response.ProductToResponse(product))
}

// OrderForm handles GET /order/{id}
func (h *ShopHandler) OrderForm(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err, "order form", userHome, userHome)
		return
	}

	h.render(w, r, "order_form", "Order", response.ProductToResponse(product))
}

// PlaceOrder handles POST /order/{id}. The product id is recorded as given.
func (h *ShopHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")
	formPath := "/order/" + productID

	var req request.OrderRequest
	if !h.decodeForm(w, r, &req, formPath) {
		return
	}

	if _, err := h.orders.PlaceOrder(r.Context(), productID, &req); err != nil {
		h.handleServiceError(w, r, err, "place order", formPath, userHome)
		return
	}

	h.redirectWithFlash(w, r, "Order placed successfully!", userHome)
}
