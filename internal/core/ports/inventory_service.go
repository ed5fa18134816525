package ports

import (
	"context"

	"github.com/csemotors/dealership/internal/core/domain"
)

// VehicleInput is the add/edit vehicle form after shape validation.
type VehicleInput struct {
	ID               int64
	ClassificationID int64
	Make             string
	Model            string
	Year             int
	Description      string
	Image            string
	Thumbnail        string
	Price            float64
	Miles            int
	Color            string
}

// InventoryService defines catalog browsing and management.
type InventoryService interface {
	Classifications(ctx context.Context) ([]domain.Classification, error)
	ByClassification(ctx context.Context, classificationID int64) ([]domain.Vehicle, error)
	Vehicle(ctx context.Context, id int64) (*domain.Vehicle, error)
	AddClassification(ctx context.Context, name string) (*domain.Classification, error)
	AddVehicle(ctx context.Context, in VehicleInput) (*domain.Vehicle, error)
	UpdateVehicle(ctx context.Context, in VehicleInput) (*domain.Vehicle, error)
	DeleteVehicle(ctx context.Context, id int64) error
}

// FavoritesService manages an account's saved vehicles.
type FavoritesService interface {
	// Toggle adds the vehicle when absent and removes it when present. It
	// reports whether the vehicle is a favorite afterwards.
	Toggle(ctx context.Context, accountID, vehicleID int64) (bool, error)
	IsFavorite(ctx context.Context, accountID, vehicleID int64) (bool, error)
	List(ctx context.Context, accountID int64) ([]domain.Favorite, error)
}
