package model

import "time"

// Product represents a product in the store catalogue.
type Product struct {
	ID          string    `json:"id" db:"id"`
	SKU         string    `json:"sku" db:"sku"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Category    string    `json:"category" db:"category"`
	Price       float64   `json:"price" db:"price"`
	Currency    string    `json:"currency" db:"currency"`
	Rating      float64   `json:"rating" db:"rating"`
	ImagePath   string    `json:"imagePath" db:"image_path"`
	AmazonLink  string    `json:"amazonLink,omitempty" db:"amazon_link"`
	Discount    int       `json:"discount" db:"discount"`
	Benefits    []string  `json:"benefits,omitempty" db:"benefits"`
	Stock       int       `json:"stock" db:"stock"`
	Weight      string    `json:"weight,omitempty" db:"weight"`
	Tags        []string  `json:"tags,omitempty" db:"tags"`
	GSTRate     float64   `json:"gstRate" db:"gst_rate"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	IsFeatured  bool      `json:"isFeatured" db:"is_featured"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}
