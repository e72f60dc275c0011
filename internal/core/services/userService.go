package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ybenkirane/autopart_inventory_system/internal/core/domain"
	"github.com/ybenkirane/autopart_inventory_system/internal/core/ports"

	"github.com/go-playground/validator/v10"
)

type UserService struct {
	userRepo     ports.UserRepository
	roleRepo     ports.RoleRepository
	hasher       ports.PasswordHasher
	tokenService ports.TokenService
	auditLog     ports.AuditLogPort
	logger       ports.LoggerPort
	validate     *validator.Validate
}

func NewUserService(
	userRepo ports.UserRepository,
	roleRepo ports.RoleRepository,
	hasher ports.PasswordHasher,
	tokenService ports.TokenService,
	auditLog ports.AuditLogPort,
	logger ports.LoggerPort,
	validate *validator.Validate,
) *UserService {
	return &UserService{
		userRepo:     userRepo,
		roleRepo:     roleRepo,
		hasher:       hasher,
		tokenService: tokenService,
		auditLog:     auditLog,
		logger:       logger,
		validate:     validate,
	}
}

type SignupInput struct {
	Email     string `validate:"required,email"`
	Password  string `validate:"required,min=8"`
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
}

type UpdateUserInput struct {
	ID        int64  `validate:"required"`
	Email     string `validate:"required,email"`
	Password  string `validate:"required,min=8"`
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
}

// Signup registers a new account. It returns false when the email is already
// taken. The default staff role is assigned when the reference row exists;
// a missing staff role is tolerated and the user is created without roles.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (bool, error) {
	if err := s.validate.Struct(in); err != nil {
		return false, fmt.Errorf("validation error: %w", err)
	}

	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, ports.ErrNotFound) {
		return false, err
	}
	if existing != nil {
		s.logger.Warn("Signup rejected, email already registered", map[string]interface{}{
			"email": in.Email,
		})
		return false, nil
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		CreatedAt:    time.Now().UTC(),
	}

	staffRole, err := s.roleRepo.GetByName(ctx, domain.RoleStaff)
	if err != nil && !errors.Is(err, ports.ErrNotFound) {
		return false, err
	}
	if staffRole != nil {
		user.Roles = append(user.Roles, *staffRole)
	} else {
		s.logger.Warn("Staff role missing, creating user without roles", map[string]interface{}{
			"email": in.Email,
		})
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create user", map[string]interface{}{
			"error": err.Error(),
			"email": in.Email,
		})
		return false, err
	}

	s.appendAudit(ctx, &domain.AuditEntry{
		EntityType: domain.EntityUser,
		EntityID:   user.ID,
		Username:   user.Email,
		Action:     domain.ActionCreated,
		Timestamp:  time.Now().UTC(),
		Metadata:   map[string]interface{}{"email": user.Email},
	})

	s.logger.Info("User created", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})

	return true, nil
}

// Login returns a signed session token, or "" when the email is unknown or
// the password does not verify. The two failures are indistinguishable here.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return "", nil
		}
		return "", err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", nil
	}

	token, err := s.tokenService.CreateToken(user)
	if err != nil {
		s.logger.Error("Failed to sign token", map[string]interface{}{
			"error":   err.Error(),
			"user_id": user.ID,
		})
		return "", err
	}

	return token, nil
}

// PromoteToAdmin adds the admin role to the user. A missing user yields
// (false, nil); a missing admin reference role is a configuration error and
// surfaces as a non-nil error.
func (s *UserService) PromoteToAdmin(ctx context.Context, id int64) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	adminRole, err := s.roleRepo.GetByName(ctx, domain.RoleAdmin)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return false, fmt.Errorf("admin role does not exist in the database")
		}
		return false, err
	}

	if user.HasRole(domain.RoleAdmin) {
		return true, nil
	}

	if err := s.userRepo.AssignRole(ctx, user.ID, adminRole.ID); err != nil {
		s.logger.Error("Failed to assign admin role", map[string]interface{}{
			"error":   err.Error(),
			"user_id": user.ID,
		})
		return false, err
	}

	s.appendAudit(ctx, &domain.AuditEntry{
		EntityType: domain.EntityUser,
		EntityID:   user.ID,
		Username:   user.Email,
		Action:     domain.ActionPromoted,
		Timestamp:  time.Now().UTC(),
		Metadata:   map[string]interface{}{"role": domain.RoleAdmin},
	})

	s.logger.Info("User promoted to admin", map[string]interface{}{
		"user_id": user.ID,
	})

	return true, nil
}

// Update re-validates email uniqueness against all other users and always
// re-hashes the supplied password.
func (s *UserService) Update(ctx context.Context, in UpdateUserInput) (domain.UpdateUserResult, error) {
	if err := s.validate.Struct(in); err != nil {
		return 0, fmt.Errorf("validation error: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, in.ID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return domain.UpdateUserNotFound, nil
		}
		return 0, err
	}

	other, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, ports.ErrNotFound) {
		return 0, err
	}
	if other != nil && other.ID != user.ID {
		return domain.UpdateUserEmailExists, nil
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	before := map[string]interface{}{
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
	}

	user.Email = in.Email
	user.PasswordHash = hash
	user.FirstName = in.FirstName
	user.LastName = in.LastName

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user", map[string]interface{}{
			"error":   err.Error(),
			"user_id": user.ID,
		})
		return 0, err
	}

	s.appendAudit(ctx, &domain.AuditEntry{
		EntityType: domain.EntityUser,
		EntityID:   user.ID,
		Username:   user.Email,
		Action:     domain.ActionUpdated,
		Timestamp:  time.Now().UTC(),
		Metadata: map[string]interface{}{
			"before": before,
			"after": map[string]interface{}{
				"email":      user.Email,
				"first_name": user.FirstName,
				"last_name":  user.LastName,
			},
		},
	})

	return domain.UpdateUserSuccess, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		return false, err
	}

	s.appendAudit(ctx, &domain.AuditEntry{
		EntityType: domain.EntityUser,
		EntityID:   user.ID,
		Username:   user.Email,
		Action:     domain.ActionDeleted,
		Timestamp:  time.Now().UTC(),
	})

	return true, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, pageNumber, pageSize int) (*domain.PagedResult[domain.User], error) {
	if pageNumber <= 0 {
		pageNumber = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	return s.userRepo.List(ctx, pageNumber, pageSize)
}

// appendAudit is fire-and-forget: a sink failure is logged and never fails
// the operation that produced the entry.
func (s *UserService) appendAudit(ctx context.Context, entry *domain.AuditEntry) {
	if err := s.auditLog.Append(ctx, entry); err != nil {
		s.logger.Warn("Failed to append audit entry", map[string]interface{}{
			"error":       err.Error(),
			"entity_type": entry.EntityType,
			"entity_id":   entry.EntityID,
			"action":      entry.Action,
		})
	}
}
