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

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
}

type userRepository struct {
	coll database.Collection
	log  *zap.Logger
}

func NewUserRepository(coll database.Collection, log *zap.Logger) UserRepository {
	return &userRepository{
		coll: coll,
		log:  log.With(zap.String("repository", "user")),
	}
}

// Create inserts a new user record
func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	doc := database.Document{
		database.IDKey: user.ID.String(),
		"username":     user.Username,
		"password":     user.PasswordHash,
		"role":         string(user.Role),
		"created_at":   user.CreatedAt,
	}

	if err := ur.coll.InsertOne(ctx, doc); err != nil {
		ur.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("username", user.Username),
		)
		return fmt.Errorf("create user %s: %w", user.Username, err)
	}

	return nil
}

// FindByUsername returns nil when no user has that name
func (ur *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	doc, err := ur.coll.FindOne(ctx, database.Filter{"username": username})
	if errors.Is(err, database.ErrNoDocument) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by username",
			zap.Error(err),
			zap.String("username", username),
		)
		return nil, fmt.Errorf("find user by username %s: %w", username, err)
	}

	id, err := uuid.Parse(doc.ID())
	if err != nil {
		return nil, fmt.Errorf("user %s has malformed id %q: %w", username, doc.ID(), err)
	}

	return &entity.User{
		BaseSimple: entity.BaseSimple{
			ID:        id,
			CreatedAt: doc.Time("created_at"),
		},
		Username:     doc.String("username"),
		PasswordHash: doc.String("password"),
		Role:         entity.UserRole(doc.String("role")),
	}, nil
}
