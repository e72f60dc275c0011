package ports

import (
	"context"

	"github.com/ybenkirane/autopart_inventory_system/internal/core/domain"
)

type BrandRepository interface {
	Create(ctx context.Context, brand *domain.Brand) error
	GetByID(ctx context.Context, id int64) (*domain.Brand, error)
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Brand, error)
	GetByName(ctx context.Context, name string) (*domain.Brand, error)
	GetAll(ctx context.Context) ([]domain.Brand, error)
	Update(ctx context.Context, brand *domain.Brand) error
	Delete(ctx context.Context, id int64) error
}

type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	GetByName(ctx context.Context, name string) (*domain.Category, error)
	GetAll(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id int64) error
}
