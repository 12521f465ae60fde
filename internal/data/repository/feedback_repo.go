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

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *entity.Feedback) error
	FindAll(ctx context.Context) ([]*entity.Feedback, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type feedbackRepository struct {
	coll database.Collection
	log  *zap.Logger
}

func NewFeedbackRepository(coll database.Collection, log *zap.Logger) FeedbackRepository {
	return &feedbackRepository{
		coll: coll,
		log:  log.With(zap.String("repository", "feedback")),
	}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *entity.Feedback) error {
	doc := database.Document{
		database.IDKey: feedback.ID.String(),
		"product_id":   feedback.ProductID,
		"feedback":     feedback.Feedback,
		"rating":       feedback.Rating,
		"name":         feedback.Name,
		"contact":      feedback.Contact,
		"address":      feedback.Address,
		"created_at":   feedback.CreatedAt,
	}

	if err := r.coll.InsertOne(ctx, doc); err != nil {
		r.log.Error("Failed to create feedback",
			zap.Error(err),
			zap.String("product_id", feedback.ProductID),
		)
		return fmt.Errorf("create feedback for product %s: %w", feedback.ProductID, err)
	}

	return nil
}

func (r *feedbackRepository) FindAll(ctx context.Context) ([]*entity.Feedback, error) {
	docs, err := r.coll.Find(ctx, nil)
	if err != nil {
		r.log.Error("Failed to get all feedbacks", zap.Error(err))
		return nil, fmt.Errorf("find all feedbacks: %w", err)
	}

	feedbacks := make([]*entity.Feedback, 0, len(docs))
	for _, doc := range docs {
		id, err := uuid.Parse(doc.ID())
		if err != nil {
			r.log.Error("Feedback has malformed id", zap.String("id", doc.ID()))
			return nil, fmt.Errorf("feedback has malformed id %q: %w", doc.ID(), err)
		}

		feedbacks = append(feedbacks, &entity.Feedback{
			BaseSimple: entity.BaseSimple{
				ID:        id,
				CreatedAt: doc.Time("created_at"),
			},
			ProductID: doc.String("product_id"),
			Feedback:  doc.String("feedback"),
			Rating:    doc.Int("rating"),
			Name:      doc.String("name"),
			Contact:   doc.String("contact"),
			Address:   doc.String("address"),
		})
	}

	return feedbacks, nil
}

func (r *feedbackRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.coll.DeleteOne(ctx, database.ByID(id.String())); err != nil {
		if !errors.Is(err, database.ErrNoDocument) {
			r.log.Error("Failed to delete feedback",
				zap.Error(err),
				zap.String("feedback_id", id.String()),
			)
		}
		return fmt.Errorf("delete feedback %s: %w", id.String(), err)
	}

	r.log.Info("Feedback deleted", zap.String("feedback_id", id.String()))
	return nil
}
