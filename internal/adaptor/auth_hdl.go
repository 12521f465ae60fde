package adaptor

import (
	"net/http"

	"storefront/internal/data/entity"
	"storefront/internal/dto/request"
	"storefront/internal/usecase"

	"go.uber.org/zap"
)

type AuthHandler struct {
	responder
	service usecase.AuthService
}

func NewAuthHandler(service usecase.AuthService, rs responder) *AuthHandler {
	return &AuthHandler{responder: rs, service: service}
}

// RegisterForm handles GET /register
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "register", "Register", nil)
}

// Register handles POST /register. It does not sign the user in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if !h.decodeForm(w, r, &req, "/register") {
		return
	}

	if err := h.service.Register(r.Context(), &req); err != nil {
		h.handleServiceError(w, r, err, "register", "/register", "/register")
		return
	}

	h.redirectWithFlash(w, r, "Registration successful! Please log in.", "/login")
}

// LoginForm handles GET /login
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login", "Login", nil)
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !h.decodeForm(w, r, &req, "/login") {
		return
	}

	auth, err := h.service.Login(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, r, err, "login", "/login", "/login")
		return
	}

	if err := h.sessions.Establish(w, auth.Username, string(auth.Role)); err != nil {
		h.log.Error("Failed to establish session", zap.Error(err), zap.String("username", auth.Username))
		h.redirectWithFlash(w, r, "Something went wrong.", "/login")
		return
	}

	target := "/user_dashboard"
	if auth.Role == entity.RoleAdmin {
		target = "/admin_dashboard"
	}
	h.redirectWithFlash(w, r, "Login successful!", target)
}

// Logout handles GET and POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	h.redirectWithFlash(w, r, "You have been logged out.", "/login")
}
