package usecase

import (
	"mime/multipart"

	"storefront/internal/data/cache"
	"storefront/internal/data/repository"

	"go.uber.org/zap"
)

// ImageStore persists an uploaded product image and returns its public reference,
// or nil when the upload is absent or not acceptable. Remove takes back a
// reference returned by Save.
type ImageStore interface {
	Save(header *multipart.FileHeader) (*string, error)
	Remove(ref string) error
}

type Service struct {
	Auth     AuthService
	Product  ProductService
	Order    OrderService
	Feedback FeedbackService
	Contact  ContactService
}

func NewService(repo *repository.Repository, products cache.ProductCache, images ImageStore, log *zap.Logger) *Service {
	return &Service{
		Auth:     NewAuthService(repo, log),
		Product:  NewProductService(repo, products, images, log),
		Order:    NewOrderService(repo, log),
		Feedback: NewFeedbackService(repo, log),
		Contact:  NewContactService(repo, log),
	}
}
