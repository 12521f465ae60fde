package repository

import (
	"storefront/pkg/database"

	"go.uber.org/zap"
)

// Collection names
const (
	UsersCollection           = "users"
	ProductsCollection        = "products"
	OrdersCollection          = "orders"
	FeedbacksCollection       = "feedbacks"
	ContactMessagesCollection = "contact_messages"
)

type Repository struct {
	User     UserRepository
	Product  ProductRepository
	Order    OrderRepository
	Feedback FeedbackRepository
	Contact  ContactRepository
}

func NewRepository(store database.Store, log *zap.Logger) *Repository {
	return &Repository{
		User:     NewUserRepository(store.Collection(UsersCollection), log),
		Product:  NewProductRepository(store.Collection(ProductsCollection), log),
		Order:    NewOrderRepository(store.Collection(OrdersCollection), log),
		Feedback: NewFeedbackRepository(store.Collection(FeedbacksCollection), log),
		Contact:  NewContactRepository(store.Collection(ContactMessagesCollection), log),
	}
}
