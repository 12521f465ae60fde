package response

import (
	"storefront/internal/data/entity"
)

type FeedbackResponse struct {
	ID        string
	ProductID string
	Feedback  string
	Rating    int
	Name      string
	Contact   string
	Address   string
}

func FeedbacksToResponse(feedbacks []*entity.Feedback) []FeedbackResponse {
	result := make([]FeedbackResponse, 0, len(feedbacks))
	for _, f := range feedbacks {
		result = append(result, FeedbackResponse{
			ID:        f.ID.String(),
			ProductID: f.ProductID,
			Feedback:  f.Feedback,
			Rating:    f.Rating,
			Name:      f.Name,
			Contact:   f.Contact,
			Address:   f.Address,
		})
	}
	return result
}
