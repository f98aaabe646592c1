package models

type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       string  `json:"price"`
	Description *string `json:"description,omitempty"`
	Image       *string `json:"image,omitempty"`
	Category    string  `json:"category"`
}

type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Price       string  `json:"price" validate:"required"`
	Description *string `json:"description,omitempty"`
	Image       *string `json:"image,omitempty"`
	Category    string  `json:"category" validate:"required"`
}
