package ports

import (
	"context"

	"github.com/ybenkirane/autopart_inventory_system/internal/core/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, pageNumber, pageSize int) (*domain.PagedResult[domain.User], error)
	Update(ctx context.Context, user *domain.User) error
	AssignRole(ctx context.Context, userID, roleID int64) error
	Delete(ctx context.Context, id int64) error
}

type RoleRepository interface {
	GetByName(ctx context.Context, name string) (*domain.Role, error)
}
