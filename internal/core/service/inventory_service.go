package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
)

type inventoryService struct {
	repo ports.InventoryRepository
	log  zerolog.Logger
}

// NewInventoryService returns an InventoryService implementation.
func NewInventoryService(repo ports.InventoryRepository, log zerolog.Logger) ports.InventoryService {
	return &inventoryService{repo: repo, log: log}
}

func (s *inventoryService) Classifications(ctx context.Context) ([]domain.Classification, error) {
	return s.repo.Classifications(ctx)
}

// ByClassification returns domain.ErrClassificationNotFound when nothing is
// listed under the id, so the caller can render a 404.
func (s *inventoryService) ByClassification(ctx context.Context, classificationID int64) ([]domain.Vehicle, error) {
	vehicles, err := s.repo.VehiclesByClassification(ctx, classificationID)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	if len(vehicles) == 0 {
		return nil, domain.ErrClassificationNotFound
	}
	return vehicles, nil
}

func (s *inventoryService) Vehicle(ctx context.Context, id int64) (*domain.Vehicle, error) {
	if id <= 0 {
		return nil, domain.ErrVehicleNotFound
	}
	return s.repo.VehicleByID(ctx, id)
}

func (s *inventoryService) AddClassification(ctx context.Context, name string) (*domain.Classification, error) {
	c, err := s.repo.AddClassification(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("add classification: %w", err)
	}
	s.log.Info().Int64("classification_id", c.ID).Str("name", c.Name).Msg("classification added")
	return c, nil
}

func (s *inventoryService) AddVehicle(ctx context.Context, in ports.VehicleInput) (*domain.Vehicle, error) {
	v, err := s.repo.AddVehicle(ctx, vehicleFromInput(in))
	if err != nil {
		return nil, fmt.Errorf("add vehicle: %w", err)
	}
	s.log.Info().Int64("inv_id", v.ID).Msg("vehicle added")
	return v, nil
}

func (s *inventoryService) UpdateVehicle(ctx context.Context, in ports.VehicleInput) (*domain.Vehicle, error) {
	if in.ID <= 0 {
		return nil, domain.ErrVehicleNotFound
	}
	v := vehicleFromInput(in)
	if err := s.repo.UpdateVehicle(ctx, v); err != nil {
		return nil, fmt.Errorf("update vehicle: %w", err)
	}
	return v, nil
}

func (s *inventoryService) DeleteVehicle(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ErrVehicleNotFound
	}
	if err := s.repo.DeleteVehicle(ctx, id); err != nil {
		return fmt.Errorf("delete vehicle: %w", err)
	}
	s.log.Info().Int64("inv_id", id).Msg("vehicle deleted")
	return nil
}

func vehicleFromInput(in ports.VehicleInput) *domain.Vehicle {
	image := strings.TrimSpace(in.Image)
	if image == "" {
		image = domain.NoImage
	}
	thumb := strings.TrimSpace(in.Thumbnail)
	if thumb == "" {
		thumb = domain.NoImageThumbnail
	}
	return &domain.Vehicle{
		ID:               in.ID,
		ClassificationID: in.ClassificationID,
		Make:             strings.TrimSpace(in.Make),
		Model:            strings.TrimSpace(in.Model),
		Year:             in.Year,
		Description:      strings.TrimSpace(in.Description),
		Image:            image,
		Thumbnail:        thumb,
		Price:            in.Price,
		Miles:            in.Miles,
		Color:            strings.TrimSpace(in.Color),
	}
}
