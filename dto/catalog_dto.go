package dto

// CatalogRequest creates a customer, status, technology or project type.
// Email and Phone only apply to customers.
type CatalogRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Email       string `json:"email" binding:"omitempty,email"`
	Phone       string `json:"phone" binding:"omitempty,phone"`
}

type UpdateCatalogRequest struct {
	ID          string  `json:"id" binding:"required,uuid"`
	Name        *string `json:"name" binding:"omitempty,min=1"`
	Description *string `json:"description"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Phone       *string `json:"phone" binding:"omitempty,phone"`
}
