package usecase

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"storefront/internal/data/cache"
	"storefront/internal/data/entity"
	"storefront/internal/data/repository"
	"storefront/internal/dto/request"
	"storefront/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProductService interface {
	List(ctx context.Context) ([]*entity.Product, error)
	Get(ctx context.Context, productID string) (*entity.Product, error)
	Create(ctx context.Context, req *request.ProductRequest, image *multipart.FileHeader) (*entity.Product, error)
	Update(ctx context.Context, productID string, req *request.ProductUpdateRequest, image *multipart.FileHeader) (*entity.Product, error)
	Delete(ctx context.Context, productID string) error
}

type productService struct {
	repo   *repository.Repository
	cache  cache.ProductCache
	images ImageStore
	log    *zap.Logger
}

func NewProductService(
	repo *repository.Repository,
	products cache.ProductCache,
	images ImageStore,
	log *zap.Logger,
) ProductService {
	return &productService{
		repo:   repo,
		cache:  products,
		images: images,
		log:    log.With(zap.String("service", "product")),
	}
}

func (s *productService) List(ctx context.Context) ([]*entity.Product, error) {
	products, gen, ok := s.cache.GetProducts(ctx)
	if ok {
		return products, nil
	}

	products, err := s.repo.Product.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	s.cache.SetProducts(ctx, gen, products)
	return products, nil
}

func (s *productService) Get(ctx context.Context, productID string) (*entity.Product, error) {
	id, err := uuid.Parse(productID)
	if err != nil {
		s.log.Warn("Malformed product id", zap.String("product_id", productID))
		return nil, ErrProductNotFound
	}

	product, err := s.repo.Product.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	return product, nil
}

func (s *productService) Create(ctx context.Context, req *request.ProductRequest, image *multipart.FileHeader) (*entity.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	imageURL, err := s.images.Save(image)
	if err != nil {
		return nil, fmt.Errorf("save product image: %w", err)
	}

	now := time.Now().UTC()
	product := &entity.Product{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Category:    req.Category,
		ProductName: req.ProductName,
		Quantity:    req.Quantity,
		Quality:     req.Quality,
		Price:       req.Price,
		ImageURL:    imageURL,
	}

	if err := s.repo.Product.Create(ctx, product); err != nil {
		s.discardImage(imageURL)
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.cache.Invalidate(ctx)

	s.log.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("product_name", product.ProductName),
		zap.Bool("has_image", imageURL != nil))

	return product, nil
}

func (s *productService) Update(ctx context.Context, productID string, req *request.ProductUpdateRequest, image *multipart.FileHeader) (*entity.Product, error) {
	product, err := s.Get(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := validate(req); err != nil {
		return nil, err
	}

	imageURL, err := s.images.Save(image)
	if err != nil {
		return nil, fmt.Errorf("save product image: %w", err)
	}

	if req.Category != nil && *req.Category != "" {
		product.Category = *req.Category
	}
	product.ProductName = req.ProductName
	product.Quantity = req.Quantity
	product.Quality = req.Quality
	product.Price = req.Price
	if imageURL != nil {
		product.ImageURL = imageURL
	}
	product.UpdatedAt = time.Now().UTC()

	// not transactional: a concurrent delete surfaces here as not found
	if err := s.repo.Product.Update(ctx, product); err != nil {
		s.discardImage(imageURL)
		if errors.Is(err, database.ErrNoDocument) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	s.cache.Invalidate(ctx)

	s.log.Info("Product updated", zap.String("product_id", product.ID.String()))
	return product, nil
}

func (s *productService) Delete(ctx context.Context, productID string) error {
	id, err := uuid.Parse(productID)
	if err != nil {
		return ErrProductNotFound
	}

	if err := s.repo.Product.Delete(ctx, id); err != nil {
		if errors.Is(err, database.ErrNoDocument) {
			return ErrProductNotFound
		}
		return fmt.Errorf("delete product: %w", err)
	}
	s.cache.Invalidate(ctx)

	s.log.Info("Product deleted", zap.String("product_id", productID))
	return nil
}

// discardImage removes an image saved for a write that did not go through
func (s *productService) discardImage(ref *string) {
	if ref == nil {
		return
	}
	if err := s.images.Remove(*ref); err != nil {
		s.log.Warn("Failed to remove orphaned image", zap.String("image", *ref), zap.Error(err))
	}
}
