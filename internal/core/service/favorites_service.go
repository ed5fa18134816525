package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
)

type favoritesService struct {
	favorites ports.FavoritesRepository
	inventory ports.InventoryRepository
}

// NewFavoritesService returns a FavoritesService implementation.
func NewFavoritesService(favorites ports.FavoritesRepository, inventory ports.InventoryRepository) ports.FavoritesService {
	return &favoritesService{favorites: favorites, inventory: inventory}
}

func (s *favoritesService) Toggle(ctx context.Context, accountID, vehicleID int64) (bool, error) {
	if accountID <= 0 {
		return false, domain.ErrInvalidAccountID
	}
	if _, err := s.inventory.VehicleByID(ctx, vehicleID); err != nil {
		return false, fmt.Errorf("toggle favorite: %w", err)
	}

	ids, err := s.favorites.IDs(ctx, accountID)
	if err != nil {
		return false, fmt.Errorf("toggle favorite: %w", err)
	}

	if slices.Contains(ids, vehicleID) {
		if _, err := s.favorites.Remove(ctx, accountID, vehicleID); err != nil {
			return true, fmt.Errorf("remove favorite: %w", err)
		}
		return false, nil
	}
	if _, err := s.favorites.Add(ctx, accountID, vehicleID); err != nil {
		return false, fmt.Errorf("add favorite: %w", err)
	}
	return true, nil
}

func (s *favoritesService) IsFavorite(ctx context.Context, accountID, vehicleID int64) (bool, error) {
	ids, err := s.favorites.IDs(ctx, accountID)
	if err != nil {
		return false, err
	}
	return slices.Contains(ids, vehicleID), nil
}

func (s *favoritesService) List(ctx context.Context, accountID int64) ([]domain.Favorite, error) {
	return s.favorites.List(ctx, accountID)
}
