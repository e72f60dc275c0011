package postgres

import (
	"context"
	"database/sql"

	"github.com/ybenkirane/autopart_inventory_system/internal/core/domain"
	"github.com/ybenkirane/autopart_inventory_system/internal/core/ports"
)

type VehicleRepository struct {
	db *sql.DB
}

func NewVehicleRepository(db *sql.DB) *VehicleRepository {
	return &VehicleRepository{db}
}

func (r *VehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	query := `INSERT INTO vehicles (brand_id, model, start_year, end_year)
	VALUES ($1, $2, $3, $4)
	RETURNING id`

	var endYear sql.NullInt64
	if vehicle.EndYear != nil {
		endYear = sql.NullInt64{Int64: int64(*vehicle.EndYear), Valid: true}
	}

	return r.db.QueryRowContext(ctx, query,
		vehicle.BrandID, vehicle.Model, vehicle.StartYear, endYear,
	).Scan(&vehicle.ID)
}

// FindExisting matches the exact tuple; IS NOT DISTINCT FROM makes a nil
// end year match only rows where end_year is NULL.
func (r *VehicleRepository) FindExisting(ctx context.Context, brandID int64, model string, startYear int, endYear *int) (*domain.Vehicle, error) {
	query := `SELECT id, brand_id, model, start_year, end_year
	FROM vehicles
	WHERE brand_id = $1 AND model = $2 AND start_year = $3 AND end_year IS NOT DISTINCT FROM $4
	ORDER BY id
	LIMIT 1`

	var arg sql.NullInt64
	if endYear != nil {
		arg = sql.NullInt64{Int64: int64(*endYear), Valid: true}
	}

	vehicle := &domain.Vehicle{}
	var stored sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, brandID, model, startYear, arg).Scan(
		&vehicle.ID, &vehicle.BrandID, &vehicle.Model, &vehicle.StartYear, &stored,
	)
	if err == sql.ErrNoRows {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if stored.Valid {
		year := int(stored.Int64)
		vehicle.EndYear = &year
	}

	return vehicle, nil
}
