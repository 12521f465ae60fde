package usecase

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/data/entity"
	"storefront/internal/data/repository"
	"storefront/internal/dto/request"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ContactService interface {
	Send(ctx context.Context, req *request.ContactRequest) error
}

type contactService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewContactService(repo *repository.Repository, log *zap.Logger) ContactService {
	return &contactService{
		repo: repo,
		log:  log.With(zap.String("service", "contact")),
	}
}

func (s *contactService) Send(ctx context.Context, req *request.ContactRequest) error {
	if err := validate(req); err != nil {
		return err
	}

	message := &entity.ContactMessage{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now().UTC(),
		},
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	}

	if err := s.repo.Contact.Create(ctx, message); err != nil {
		return fmt.Errorf("create contact message: %w", err)
	}

	s.log.Info("Contact message received", zap.String("message_id", message.ID.String()))
	return nil
}
