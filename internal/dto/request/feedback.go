package request

type FeedbackRequest struct {
	ProductID string `form:"product_id" validate:"required"`
	Feedback  string `form:"feedback" validate:"required,max=2000"`
	Rating    int    `form:"rating" validate:"required,gte=1,lte=5"`
	Name      string `form:"name" validate:"required,max=100"`
	Contact   string `form:"contact" validate:"required,max=100"`
	Address   string `form:"address" validate:"required,max=300"`
}
