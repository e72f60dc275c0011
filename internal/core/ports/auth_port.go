package ports

import "github.com/ybenkirane/autopart_inventory_system/internal/core/domain"

type TokenService interface {
	CreateToken(user *domain.User) (string, error)
	VerifyToken(token string) (*domain.TokenPayload, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, storedHash string) bool
}
