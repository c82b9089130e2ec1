package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
)

// InventoryService manages classifications and vehicles.
type InventoryService struct {
	repo   ports.InventoryRepository
	logger zerolog.Logger
}

func NewInventoryService(repo ports.InventoryRepository, logger zerolog.Logger) *InventoryService {
	return &InventoryService{repo: repo, logger: logger}
}

func (s *InventoryService) Classifications(ctx context.Context) ([]domain.Classification, error) {
	list, err := s.repo.Classifications(ctx)
	if err != nil {
		return nil, fmt.Errorf("classifications: %w", err)
	}
	return list, nil
}

// AddClassification stores a new classification. Duplicate names yield
// domain.ErrClassificationExists.
func (s *InventoryService) AddClassification(ctx context.Context, name string) (*domain.Classification, error) {
	c, err := s.repo.AddClassification(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("add classification: %w", err)
	}
	s.logger.Info().Int64("classification_id", c.ID).Str("name", c.Name).Msg("classification added")
	return c, nil
}

// AddVehicle stores a vehicle under an existing classification.
func (s *InventoryService) AddVehicle(ctx context.Context, v domain.Vehicle) (*domain.Vehicle, error) {
	if _, err := s.repo.ClassificationByID(ctx, v.ClassificationID); err != nil {
		return nil, fmt.Errorf("add vehicle: %w", err)
	}
	created, err := s.repo.AddVehicle(ctx, &v)
	if err != nil {
		return nil, fmt.Errorf("add vehicle: %w", err)
	}
	s.logger.Info().Int64("inv_id", created.ID).Str("vehicle", created.Name()).Msg("vehicle added")
	return created, nil
}

func (s *InventoryService) Vehicle(ctx context.Context, id int64) (*domain.Vehicle, error) {
	v, err := s.repo.VehicleByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("vehicle %d: %w", id, err)
	}
	return v, nil
}

// ByClassification returns the classification and its vehicles. An unknown
// classification is an error; an empty one is not.
func (s *InventoryService) ByClassification(ctx context.Context, classificationID int64) (*domain.Classification, []domain.Vehicle, error) {
	c, err := s.repo.ClassificationByID(ctx, classificationID)
	if err != nil {
		return nil, nil, fmt.Errorf("classification %d: %w", classificationID, err)
	}
	list, err := s.repo.VehiclesByClassification(ctx, classificationID)
	if err != nil {
		return nil, nil, fmt.Errorf("vehicles for classification %d: %w", classificationID, err)
	}
	return c, list, nil
}

func (s *InventoryService) UpdateVehicle(ctx context.Context, v domain.Vehicle) (*domain.Vehicle, error) {
	if _, err := s.repo.ClassificationByID(ctx, v.ClassificationID); err != nil {
		return nil, fmt.Errorf("update vehicle: %w", err)
	}
	rows, err := s.repo.UpdateVehicle(ctx, &v)
	if err != nil {
		return nil, fmt.Errorf("update vehicle: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("update vehicle %d: %w", v.ID, domain.ErrVehicleNotFound)
	}
	s.logger.Info().Int64("inv_id", v.ID).Msg("vehicle updated")
	return &v, nil
}

// DeleteVehicle removes a vehicle along with its comments and returns the
// removed row.
func (s *InventoryService) DeleteVehicle(ctx context.Context, id int64) (*domain.Vehicle, error) {
	v, err := s.Vehicle(ctx, id)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.DeleteVehicle(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete vehicle: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("delete vehicle %d: %w", id, domain.ErrVehicleNotFound)
	}
	s.logger.Info().Int64("inv_id", id).Msg("vehicle deleted")
	return v, nil
}
