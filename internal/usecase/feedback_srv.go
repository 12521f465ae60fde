package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/data/entity"
	"storefront/internal/data/repository"
	"storefront/internal/dto/request"
	"storefront/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type FeedbackService interface {
	Submit(ctx context.Context, req *request.FeedbackRequest) (*entity.Feedback, error)
	List(ctx context.Context) ([]*entity.Feedback, error)
	Delete(ctx context.Context, feedbackID string) error
}

type feedbackService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewFeedbackService(repo *repository.Repository, log *zap.Logger) FeedbackService {
	return &feedbackService{
		repo: repo,
		log:  log.With(zap.String("service", "feedback")),
	}
}

func (s *feedbackService) Submit(ctx context.Context, req *request.FeedbackRequest) (*entity.Feedback, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	feedback := &entity.Feedback{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now().UTC(),
		},
		ProductID: req.ProductID,
		Feedback:  req.Feedback,
		Rating:    req.Rating,
		Name:      req.Name,
		Contact:   req.Contact,
		Address:   req.Address,
	}

	if err := s.repo.Feedback.Create(ctx, feedback); err != nil {
		return nil, fmt.Errorf("create feedback: %w", err)
	}

	s.log.Info("Feedback submitted",
		zap.String("feedback_id", feedback.ID.String()),
		zap.String("product_id", feedback.ProductID),
		zap.Int("rating", feedback.Rating))

	return feedback, nil
}

func (s *feedbackService) List(ctx context.Context) ([]*entity.Feedback, error) {
	feedbacks, err := s.repo.Feedback.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return feedbacks, nil
}

func (s *feedbackService) Delete(ctx context.Context, feedbackID string) error {
	id, err := uuid.Parse(feedbackID)
	if err != nil {
		return ErrFeedbackNotFound
	}

	if err := s.repo.Feedback.Delete(ctx, id); err != nil {
		if errors.Is(err, database.ErrNoDocument) {
			return ErrFeedbackNotFound
		}
		return fmt.Errorf("delete feedback: %w", err)
	}

	s.log.Info("Feedback deleted", zap.String("feedback_id", feedbackID))
	return nil
}
