package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/data/entity"
	"storefront/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	FindAll(ctx context.Context) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type productRepository struct {
	coll database.Collection
	log  *zap.Logger
}

func NewProductRepository(coll database.Collection, log *zap.Logger) ProductRepository {
	return &productRepository{
		coll: coll,
		log:  log.With(zap.String("repository", "product")),
	}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	doc := productFields(product)
	doc[database.IDKey] = product.ID.String()
	doc["created_at"] = product.CreatedAt

	if err := r.coll.InsertOne(ctx, doc); err != nil {
		r.log.Error("Failed to create product",
			zap.Error(err),
			zap.String("product_name", product.ProductName),
		)
		return fmt.Errorf("create product %s: %w", product.ProductName, err)
	}

	return nil
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	doc, err := r.coll.FindOne(ctx, database.ByID(id.String()))
	if errors.Is(err, database.ErrNoDocument) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find product by ID",
			zap.Error(err),
			zap.String("product_id", id.String()),
		)
		return nil, fmt.Errorf("find product by ID %s: %w", id.String(), err)
	}

	return documentToProduct(doc)
}

// FindAll returns every product in insertion order
func (r *productRepository) FindAll(ctx context.Context) ([]*entity.Product, error) {
	docs, err := r.coll.Find(ctx, nil)
	if err != nil {
		r.log.Error("Failed to get all products", zap.Error(err))
		return nil, fmt.Errorf("find all products: %w", err)
	}

	products := make([]*entity.Product, 0, len(docs))
	for _, doc := range docs {
		product, err := documentToProduct(doc)
		if err != nil {
			r.log.Error("Failed to decode product document", zap.Error(err))
			return nil, err
		}
		products = append(products, product)
	}

	return products, nil
}

// Update rewrites the mutable fields; the id is never part of the update
func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	err := r.coll.UpdateOne(ctx, database.ByID(product.ID.String()), productFields(product))
	if err != nil {
		if !errors.Is(err, database.ErrNoDocument) {
			r.log.Error("Failed to update product",
				zap.Error(err),
				zap.String("product_id", product.ID.String()),
			)
		}
		return fmt.Errorf("update product %s: %w", product.ID.String(), err)
	}

	return nil
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.coll.DeleteOne(ctx, database.ByID(id.String())); err != nil {
		if !errors.Is(err, database.ErrNoDocument) {
			r.log.Error("Failed to delete product",
				zap.Error(err),
				zap.String("product_id", id.String()),
			)
		}
		return fmt.Errorf("delete product %s: %w", id.String(), err)
	}

	r.log.Info("Product deleted", zap.String("product_id", id.String()))
	return nil
}

func productFields(product *entity.Product) database.Document {
	doc := database.Document{
		"category":     product.Category,
		"product_name": product.ProductName,
		"quantity":     product.Quantity,
		"quality":      product.Quality,
		"price":        product.Price,
		"image_url":    nil,
		"updated_at":   product.UpdatedAt,
	}
	if product.ImageURL != nil {
		doc["image_url"] = *product.ImageURL
	}
	return doc
}

func documentToProduct(doc database.Document) (*entity.Product, error) {
	id, err := uuid.Parse(doc.ID())
	if err != nil {
		return nil, fmt.Errorf("product has malformed id %q: %w", doc.ID(), err)
	}

	return &entity.Product{
		Base: entity.Base{
			ID:        id,
			CreatedAt: doc.Time("created_at"),
			UpdatedAt: doc.Time("updated_at"),
		},
		Category:    doc.String("category"),
		ProductName: doc.String("product_name"),
		Quantity:    doc.String("quantity"),
		Quality:     doc.String("quality"),
		Price:       doc.String("price"),
		ImageURL:    doc.OptionalString("image_url"),
	}, nil
}
