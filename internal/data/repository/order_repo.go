package repository

import (
	"context"
	"fmt"

	"storefront/internal/data/entity"
	"storefront/pkg/database"

	"go.uber.org/zap"
)

type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
}

type orderRepository struct {
	coll database.Collection
	log  *zap.Logger
}

func NewOrderRepository(coll database.Collection, log *zap.Logger) OrderRepository {
	return &orderRepository{
		coll: coll,
		log:  log.With(zap.String("repository", "order")),
	}
}

// Create stores decimals as canonical strings so no driver rounds them
func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	doc := database.Document{
		database.IDKey: order.ID.String(),
		"product_id":   order.ProductID,
		"name":         order.Name,
		"contact":      order.Contact,
		"address":      order.Address,
		"quantity":     order.Quantity,
		"quality":      order.Quality,
		"price":        order.Price.String(),
		"total_price":  order.TotalPrice.String(),
		"created_at":   order.CreatedAt,
	}

	if err := r.coll.InsertOne(ctx, doc); err != nil {
		r.log.Error("Failed to create order",
			zap.Error(err),
			zap.String("product_id", order.ProductID),
		)
		return fmt.Errorf("create order for product %s: %w", order.ProductID, err)
	}

	return nil
}
