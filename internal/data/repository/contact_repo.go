package repository

import (
	"context"
	"fmt"

	"storefront/internal/data/entity"
	"storefront/pkg/database"

	"go.uber.org/zap"
)

type ContactRepository interface {
	Create(ctx context.Context, message *entity.ContactMessage) error
}

type contactRepository struct {
	coll database.Collection
	log  *zap.Logger
}

func NewContactRepository(coll database.Collection, log *zap.Logger) ContactRepository {
	return &contactRepository{
		coll: coll,
		log:  log.With(zap.String("repository", "contact")),
	}
}

func (r *contactRepository) Create(ctx context.Context, message *entity.ContactMessage) error {
	doc := database.Document{
		database.IDKey: message.ID.String(),
		"name":         message.Name,
		"email":        message.Email,
		"message":      message.Message,
		"created_at":   message.CreatedAt,
	}

	if err := r.coll.InsertOne(ctx, doc); err != nil {
		r.log.Error("Failed to create contact message",
			zap.Error(err),
			zap.String("email", message.Email),
		)
		return fmt.Errorf("create contact message from %s: %w", message.Email, err)
	}

	return nil
}
