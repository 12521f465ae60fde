package wire

import (
	"storefront/internal/adaptor"
	"storefront/internal/data/entity"
	"storefront/pkg/middleware"
	"storefront/pkg/session"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireShop(
	r chi.Router,
	shopHandler *adaptor.ShopHandler,
	sessions *session.Manager,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(string(entity.RoleUser), sessions, log))

		r.Get("/user_dashboard", shopHandler.Dashboard)
		r.Get("/product/{id}", shopHandler.ViewProduct)
		r.Get("/order/{id}", shopHandler.OrderForm)
		r.Post("/order/{id}", shopHandler.PlaceOrder)
	})
}
