package request

// Catalog fields are kept as submitted, quantity and price included
type ProductRequest struct {
	Category    string `form:"category" validate:"required,max=100"`
	ProductName string `form:"product_name" validate:"required,max=200"`
	Quantity    string `form:"quantity" validate:"required,max=50"`
	Quality     string `form:"quality" validate:"required,max=50"`
	Price       string `form:"price" validate:"required,max=50"`
}

type ProductUpdateRequest struct {
	Category    *string `form:"category" validate:"omitempty,max=100"`
	ProductName string  `form:"product_name" validate:"required,max=200"`
	Quantity    string  `form:"quantity" validate:"required,max=50"`
	Quality     string  `form:"quality" validate:"required,max=50"`
	Price       string  `form:"price" validate:"required,max=50"`
}
