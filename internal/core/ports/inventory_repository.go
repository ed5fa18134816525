package ports

import (
	"context"

	"github.com/csemotors/dealership/internal/core/domain"
)

// InventoryRepository defines persistence for classifications and vehicles.
type InventoryRepository interface {
	Classifications(ctx context.Context) ([]domain.Classification, error)
	AddClassification(ctx context.Context, name string) (*domain.Classification, error)
	VehiclesByClassification(ctx context.Context, classificationID int64) ([]domain.Vehicle, error)
	VehicleByID(ctx context.Context, id int64) (*domain.Vehicle, error)
	AddVehicle(ctx context.Context, v *domain.Vehicle) (*domain.Vehicle, error)
	UpdateVehicle(ctx context.Context, v *domain.Vehicle) error
	DeleteVehicle(ctx context.Context, id int64) error
}

// FavoritesRepository stores the vehicles an account has saved.
type FavoritesRepository interface {
	IDs(ctx context.Context, accountID int64) ([]int64, error)
	// Add is a no-op returning false when the favorite already exists.
	Add(ctx context.Context, accountID, vehicleID int64) (bool, error)
	Remove(ctx context.Context, accountID, vehicleID int64) (bool, error)
	List(ctx context.Context, accountID int64) ([]domain.Favorite, error)
}
