package request

// Quantity and price arrive as text; the order service parses them
type OrderRequest struct {
	Name     string `form:"name" validate:"required,max=100"`
	Contact  string `form:"contact" validate:"required,max=100"`
	Address  string `form:"address" validate:"required,max=300"`
	Quantity string `form:"quantity" validate:"required"`
	Quality  string `form:"quality" validate:"required,max=50"`
	Price    string `form:"price" validate:"required"`
}
