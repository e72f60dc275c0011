package ports

import (
	"context"

	"github.com/ybenkirane/autopart_inventory_system/internal/core/domain"
)

type AutoPartRepository interface {
	// Create inserts the part row and its brand junction rows in one
	// transaction.
	Create(ctx context.Context, part *domain.AutoPart) error
	// GetByID loads the part with its category, brands and vehicle links.
	GetByID(ctx context.Context, id int64) (*domain.AutoPart, error)
	List(ctx context.Context, query domain.AutoPartQuery) (*domain.PagedResult[domain.AutoPart], error)
	// Update persists the scalar columns and replaces the brand set.
	Update(ctx context.Context, part *domain.AutoPart) error
	// LinkVehicle inserts a single part-vehicle junction row. It is a
	// separate commit from the vehicle insert that may precede it.
	LinkVehicle(ctx context.Context, partID, vehicleID int64) error
	Delete(ctx context.Context, id int64) error
}

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *domain.Vehicle) error
	// FindExisting matches the exact (brandID, model, startYear, endYear)
	// tuple; endYear nil only matches rows where end_year IS NULL.
	FindExisting(ctx context.Context, brandID int64, model string, startYear int, endYear *int) (*domain.Vehicle, error)
}
