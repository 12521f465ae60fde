package adaptor

import (
	"errors"
	"net/http"

	"storefront/internal/usecase"
	"storefront/pkg/session"
	"storefront/pkg/utils"
	"storefront/pkg/view"

	"go.uber.org/zap"
)

type Handler struct {
	Page     *PageHandler
	Auth     *AuthHandler
	Product  *ProductHandler
	Shop     *ShopHandler
	Feedback *FeedbackHandler
	Contact  *ContactHandler
}

func NewHandler(
	service *usecase.Service,
	renderer *view.Renderer,
	sessions *session.Manager,
	maxUploadBytes int64,
	log *zap.Logger,
) *Handler {
	base := responder{renderer: renderer, sessions: sessions}

	return &Handler{
		Page:     NewPageHandler(base.named("page", log)),
		Auth:     NewAuthHandler(service.Auth, base.named("auth", log)),
		Product:  NewProductHandler(service.Product, service.Feedback, maxUploadBytes, base.named("product", log)),
		Shop:     NewShopHandler(service.Product, service.Order, base.named("shop", log)),
		Feedback: NewFeedbackHandler(service.Feedback, service.Product, base.named("feedback", log)),
		Contact:  NewContactHandler(service.Contact, base.named("contact", log)),
	}
}

// responder renders pages and turns service errors into flash + redirect
type responder struct {
	renderer *view.Renderer
	sessions *session.Manager
	log      *zap.Logger
}

func (rs responder) named(name string, log *zap.Logger) responder {
	rs.log = log.With(zap.String("handler", name))
	return rs
}

func (rs responder) render(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	page := view.Page{
		Title:   title,
		Flashes: rs.sessions.Flashes(w, r),
		Data:    data,
	}
	page.Username, _ = utils.GetUsernameFromContext(r.Context())
	page.Role, _ = utils.GetRoleFromContext(r.Context())

	if err := rs.renderer.Render(w, http.StatusOK, name, page); err != nil {
		rs.log.Error("Failed to render page", zap.Error(err), zap.String("page", name))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (rs responder) redirectWithFlash(w http.ResponseWriter, r *http.Request, message, path string) {
	rs.sessions.AddFlash(w, r, message)
	utils.Redirect(w, r, path)
}

// decodeForm binds posted fields onto req; a field of the wrong type sends the user back to the form
func (rs responder) decodeForm(w http.ResponseWriter, r *http.Request, req any, formPath string) bool {
	if r.PostForm == nil {
		if err := r.ParseForm(); err != nil {
			rs.log.Warn("Failed to parse form", zap.Error(err), zap.String("path", r.URL.Path))
			rs.redirectWithFlash(w, r, "Invalid form submission.", formPath)
			return false
		}
	}

	if err := utils.DecodeForm(req, r.PostForm); err != nil {
		rs.log.Warn("Failed to decode form", zap.Error(err), zap.String("path", r.URL.Path))
		rs.redirectWithFlash(w, r, "Invalid form submission.", formPath)
		return false
	}

	return true
}

// handleServiceError maps service errors to a flash and a redirect.
// Validation problems go back to formPath, everything else to homePath.
func (rs responder) handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation, formPath, homePath string) {
	var validationErr *usecase.ValidationError

	switch {
	case errors.As(err, &validationErr):
		rs.log.Warn(operation+" validation failed", zap.Error(err))
		rs.redirectWithFlash(w, r, "Please correct the form: "+utils.FormatValidationErrors(validationErr.Fields), formPath)

	case errors.Is(err, usecase.ErrInvalidCredentials):
		rs.redirectWithFlash(w, r, "Invalid username or password.", "/login")

	case errors.Is(err, usecase.ErrUsernameTaken):
		rs.redirectWithFlash(w, r, "Username already taken.", formPath)

	case errors.Is(err, usecase.ErrProductNotFound):
		rs.log.Warn(operation+" failed - not found", zap.Error(err), zap.String("path", r.URL.Path))
		rs.redirectWithFlash(w, r, "Product not found.", homePath)

	case errors.Is(err, usecase.ErrFeedbackNotFound):
		rs.log.Warn(operation+" failed - not found", zap.Error(err), zap.String("path", r.URL.Path))
		rs.redirectWithFlash(w, r, "Feedback not found.", homePath)

	default:
		rs.log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		rs.redirectWithFlash(w, r, "Something went wrong.", homePath)
	}
}
