package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/csemotors/dealership/internal/core/domain"
)

// FavoritesRepository implements ports.FavoritesRepository on PostgreSQL.
type FavoritesRepository struct {
	pool *pgxpool.Pool
}

func NewFavoritesRepository(pool *pgxpool.Pool) *FavoritesRepository {
	return &FavoritesRepository{pool: pool}
}

func (r *FavoritesRepository) IDs(ctx context.Context, accountID int64) ([]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `SELECT inv_id FROM favorites WHERE account_id = $1`, accountID)
	if err != nil {
		return nil, fmt.Errorf("favorite ids: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[int64])
}

func (r *FavoritesRepository) Add(ctx context.Context, accountID, vehicleID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `
		INSERT INTO favorites (account_id, inv_id)
		VALUES ($1, $2)
		ON CONFLICT (account_id, inv_id) DO NOTHING`, accountID, vehicleID)
	if err != nil {
		return false, fmt.Errorf("add favorite: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *FavoritesRepository) Remove(ctx context.Context, accountID, vehicleID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `DELETE FROM favorites WHERE account_id = $1 AND inv_id = $2`, accountID, vehicleID)
	if err != nil {
		return false, fmt.Errorf("remove favorite: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *FavoritesRepository) List(ctx context.Context, accountID int64) ([]domain.Favorite, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `
		SELECT f.inv_id, i.inv_make, i.inv_model, i.inv_price::float8, f.created_at
		FROM favorites f
		JOIN inventory i ON f.inv_id = i.inv_id
		WHERE f.account_id = $1
		ORDER BY f.created_at DESC`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Favorite, error) {
		var f domain.Favorite
		err := row.Scan(&f.VehicleID, &f.Make, &f.Model, &f.Price, &f.CreatedAt)
		return f, err
	})
}
