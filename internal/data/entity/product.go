package entity

// Product keeps catalog fields exactly as the admin submitted them
type Product struct {
	Base
	Category    string  `json:"category"`
	ProductName string  `json:"product_name"`
	Quantity    string  `json:"quantity"`
	Quality     string  `json:"quality"`
	Price       string  `json:"price"`
	ImageURL    *string `json:"image_url"`
}
