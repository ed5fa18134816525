package domain

import (
	"errors"
	"time"
)

var (
	ErrVehicleNotFound        = errors.New("vehicle not found")
	ErrClassificationNotFound = errors.New("classification not found")
	ErrClassificationExists   = errors.New("classification already exists")
)

const (
	NoImage          = "/images/vehicles/no-image.png"
	NoImageThumbnail = "/images/vehicles/no-image-tn.png"
)

// Classification groups vehicles for browsing (SUV, Truck, Sedan, ...).
type Classification struct {
	ID   int64  `json:"classification_id"`
	Name string `json:"classification_name"`
}

// Vehicle is a single inventory item.
type Vehicle struct {
	ID                 int64   `json:"inv_id"`
	ClassificationID   int64   `json:"classification_id"`
	ClassificationName string  `json:"classification_name,omitempty"`
	Make               string  `json:"inv_make"`
	Model              string  `json:"inv_model"`
	Year               int     `json:"inv_year"`
	Description        string  `json:"inv_description"`
	Image              string  `json:"inv_image"`
	Thumbnail          string  `json:"inv_thumbnail"`
	Price              float64 `json:"inv_price"`
	Miles              int     `json:"inv_miles"`
	Color              string  `json:"inv_color"`
}

// Name is the display name used in page titles.
func (v *Vehicle) Name() string {
	return v.Make + " " + v.Model
}

// Favorite is a vehicle saved by an account.
type Favorite struct {
	VehicleID int64     `json:"inv_id"`
	Make      string    `json:"inv_make"`
	Model     string    `json:"inv_model"`
	Price     float64   `json:"inv_price"`
	CreatedAt time.Time `json:"created_at"`
}
