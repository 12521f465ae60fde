package wire

import (
	"storefront/internal/adaptor"
	"storefront/internal/data/entity"
	"storefront/pkg/middleware"
	"storefront/pkg/session"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAdmin(
	r chi.Router,
	productHandler *adaptor.ProductHandler,
	feedbackHandler *adaptor.FeedbackHandler,
	sessions *session.Manager,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(string(entity.RoleAdmin), sessions, log))

		r.Get("/admin_dashboard", productHandler.Dashboard)

		r.Get("/add_product", productHandler.AddForm)
		r.Post("/add_product", productHandler.Add)
		r.Get("/edit_product/{id}", productHandler.EditForm)
		r.Post("/edit_product/{id}", productHandler.Edit)
		r.Post("/delete_product/{id}", productHandler.Delete)

		r.Post("/delete_feedback/{id}", feedbackHandler.Delete)
	})
}
