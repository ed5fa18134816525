package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/csemotors/dealership/internal/core/domain"
)

const vehicleColumns = `i.inv_id, i.classification_id, c.classification_name, i.inv_make, i.inv_model,
	i.inv_year, i.inv_description, i.inv_image, i.inv_thumbnail, i.inv_price::float8, i.inv_miles, i.inv_color`

// InventoryRepository implements ports.InventoryRepository on PostgreSQL.
type InventoryRepository struct {
	pool *pgxpool.Pool
}

func NewInventoryRepository(pool *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{pool: pool}
}

func (r *InventoryRepository) Classifications(ctx context.Context) ([]domain.Classification, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `SELECT classification_id, classification_name FROM classification ORDER BY classification_name`)
	if err != nil {
		return nil, fmt.Errorf("list classifications: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Classification, error) {
		var c domain.Classification
		err := row.Scan(&c.ID, &c.Name)
		return c, err
	})
}

func (r *InventoryRepository) AddClassification(ctx context.Context, name string) (*domain.Classification, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	c := domain.Classification{Name: name}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO classification (classification_name) VALUES ($1) RETURNING classification_id`, name,
	).Scan(&c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrClassificationExists
		}
		return nil, fmt.Errorf("insert classification: %w", err)
	}
	return &c, nil
}

func (r *InventoryRepository) VehiclesByClassification(ctx context.Context, classificationID int64) ([]domain.Vehicle, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `
		SELECT `+vehicleColumns+`
		FROM inventory i
		JOIN classification c ON c.classification_id = i.classification_id
		WHERE i.classification_id = $1
		ORDER BY i.inv_make, i.inv_model`, classificationID)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Vehicle, error) {
		v, err := scanVehicle(row)
		if err != nil {
			return domain.Vehicle{}, err
		}
		return *v, nil
	})
}

func (r *InventoryRepository) VehicleByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		SELECT `+vehicleColumns+`
		FROM inventory i
		JOIN classification c ON c.classification_id = i.classification_id
		WHERE i.inv_id = $1`, id)
	v, err := scanVehicle(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, fmt.Errorf("find vehicle: %w", err)
	}
	return v, nil
}

func (r *InventoryRepository) AddVehicle(ctx context.Context, v *domain.Vehicle) (*domain.Vehicle, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	created := *v
	err := r.pool.QueryRow(ctx, `
		INSERT INTO inventory (classification_id, inv_make, inv_model, inv_year, inv_description,
			inv_image, inv_thumbnail, inv_price, inv_miles, inv_color)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING inv_id`,
		v.ClassificationID, v.Make, v.Model, v.Year, v.Description,
		v.Image, v.Thumbnail, v.Price, v.Miles, v.Color,
	).Scan(&created.ID)
	if err != nil {
		return nil, fmt.Errorf("insert vehicle: %w", err)
	}
	return &created, nil
}

func (r *InventoryRepository) UpdateVehicle(ctx context.Context, v *domain.Vehicle) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `
		UPDATE inventory
		SET classification_id = $1, inv_make = $2, inv_model = $3, inv_year = $4, inv_description = $5,
			inv_image = $6, inv_thumbnail = $7, inv_price = $8, inv_miles = $9, inv_color = $10
		WHERE inv_id = $11`,
		v.ClassificationID, v.Make, v.Model, v.Year, v.Description,
		v.Image, v.Thumbnail, v.Price, v.Miles, v.Color, v.ID,
	)
	if err != nil {
		return fmt.Errorf("update vehicle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVehicleNotFound
	}
	return nil
}

func (r *InventoryRepository) DeleteVehicle(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `DELETE FROM inventory WHERE inv_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete vehicle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVehicleNotFound
	}
	return nil
}

func scanVehicle(row pgx.Row) (*domain.Vehicle, error) {
	var v domain.Vehicle
	err := row.Scan(&v.ID, &v.ClassificationID, &v.ClassificationName, &v.Make, &v.Model,
		&v.Year, &v.Description, &v.Image, &v.Thumbnail, &v.Price, &v.Miles, &v.Color)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
