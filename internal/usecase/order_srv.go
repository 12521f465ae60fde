package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"storefront/internal/data/entity"
	"storefront/internal/data/repository"
	"storefront/internal/dto/request"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, productID string, req *request.OrderRequest) (*entity.Order, error)
}

type orderService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewOrderService(repo *repository.Repository, log *zap.Logger) OrderService {
	return &orderService{
		repo: repo,
		log:  log.With(zap.String("service", "order")),
	}
}

// PlaceOrder records an order for productID. The product is not looked up;
// total_price is always derived here and never taken from the form.
func (s *orderService) PlaceOrder(ctx context.Context, productID string, req *request.OrderRequest) (*entity.Order, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	quantity, err := strconv.Atoi(strings.TrimSpace(req.Quantity))
	if err != nil || quantity <= 0 {
		return nil, fieldError("Quantity", "Must be a whole number greater than 0")
	}

	price, err := ParsePrice(req.Price)
	if err != nil {
		return nil, fieldError("Price", "Must be a price such as $10.00")
	}

	order := &entity.Order{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now().UTC(),
		},
		ProductID:  productID,
		Name:       req.Name,
		Contact:    req.Contact,
		Address:    req.Address,
		Quantity:   quantity,
		Quality:    req.Quality,
		Price:      price,
		TotalPrice: price.Mul(decimal.NewFromInt(int64(quantity))),
	}

	if err := s.repo.Order.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.log.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("product_id", productID),
		zap.Int("quantity", quantity),
		zap.String("total_price", order.TotalPrice.String()))

	return order, nil
}

// ParsePrice accepts catalog-style prices like "$10.00" or " 4.5 "
func ParsePrice(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(raw, "$", ""))
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty price")
	}

	price, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse price %q: %w", raw, err)
	}
	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative price %q", raw)
	}

	return price, nil
}
