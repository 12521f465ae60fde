package response

import (
	"storefront/internal/data/entity"
)

type ProductResponse struct {
	ID          string
	Category    string
	ProductName string
	Quantity    string
	Quality     string
	Price       string
	ImageURL    string
}

func ProductToResponse(product *entity.Product) ProductResponse {
	resp := ProductResponse{
		ID:          product.ID.String(),
		Category:    product.Category,
		ProductName: product.ProductName,
		Quantity:    product.Quantity,
		Quality:     product.Quality,
		Price:       product.Price,
	}
	if product.ImageURL != nil {
		resp.ImageURL = *product.ImageURL
	}
	return resp
}

func ProductsToResponse(products []*entity.Product) []ProductResponse {
	result := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		result = append(result, ProductToResponse(p))
	}
	return result
}
