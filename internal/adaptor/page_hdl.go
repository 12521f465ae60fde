package adaptor

import "net/http"

type PageHandler struct {
	responder
}

func NewPageHandler(rs responder) *PageHandler {
	return &PageHandler{responder: rs}
}

// Home handles GET /
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "home", "Home", nil)
}

// About handles GET /about
func (h *PageHandler) About(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "about", "About", nil)
}

// Services handles GET /services
func (h *PageHandler) Services(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "services", "Services", nil)
}
