package catalog

import "time"

// Product is the persisted catalog row.
type Product struct {
	ProductID   string    `dynamodbav:"product_id" json:"product_id"`
	Name        string    `dynamodbav:"name" json:"name"`
	Description string    `dynamodbav:"description" json:"description"`
	Category    string    `dynamodbav:"category" json:"category"`
	Price       float64   `dynamodbav:"price" json:"price"`
	Stock       int       `dynamodbav:"stock" json:"stock"`
	ImageURL    string    `dynamodbav:"image_url,omitempty" json:"image_url,omitempty"`
	CreatedAt   time.Time `dynamodbav:"created_at" json:"created_at"`
	UpdatedAt   time.Time `dynamodbav:"updated_at" json:"updated_at"`
}

// CreateProductRequest is the payload for POST /api/catalog/products.
type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Description string  `json:"description" validate:"max=2000"`
	Category    string  `json:"category" validate:"required,min=1,max=100"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
}

// UpdateProductRequest is the payload for PUT /api/catalog/products/:id.
// All fields are required; partial updates are not supported.
type UpdateProductRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Description string  `json:"description" validate:"max=2000"`
	Category    string  `json:"category" validate:"required,min=1,max=100"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
}

// ImageUploadRequest is the payload for the presigned image URL endpoint.
type ImageUploadRequest struct {
	ContentType string `json:"content_type" validate:"required,oneof=image/jpeg image/png image/webp"`
}

// ImageUploadResponse carries the presigned PUT URL and the object URL the
// product will reference after upload.
type ImageUploadResponse struct {
	UploadURL string `json:"upload_url"`
	ImageURL  string `json:"image_url"`
}
