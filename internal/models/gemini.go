package models

type GenerateIdeaRequest struct {
	Query string `json:"query" validate:"required"`
}

type EnhanceDescriptionRequest struct {
	ProductName string  `json:"product_name" validate:"required"`
	Price       string  `json:"price" validate:"required"`
	Details     *string `json:"details,omitempty"`
}

type GeneratedTextResponse struct {
	GeneratedText string `json:"generated_text"`
}
