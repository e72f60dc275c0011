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

const categoryKeyPrefix = "categories"

type CategoryService struct {
	categoryRepo ports.CategoryRepository
	storage      ports.StoragePort
	auditLog     ports.AuditLogPort
	logger       ports.LoggerPort
	validate     *validator.Validate
	bucket       string
	storageHost  string
}

func NewCategoryService(
	categoryRepo ports.CategoryRepository,
	storage ports.StoragePort,
	auditLog ports.AuditLogPort,
	logger ports.LoggerPort,
	validate *validator.Validate,
	bucket string,
	storageHost string,
) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		storage:      storage,
		auditLog:     auditLog,
		logger:       logger,
		validate:     validate,
		bucket:       bucket,
		storageHost:  storageHost,
	}
}

type AddCategoryInput struct {
	Name      string `validate:"required,max=100"`
	Image     []byte `validate:"required"`
	ImageName string `validate:"required"`
}

type UpdateCategoryInput struct {
	CategoryID int64  `validate:"required"`
	Name       string `validate:"required,max=100"`
	Image      []byte
	ImageName  string
}

func (s *CategoryService) Add(ctx context.Context, actor string, in AddCategoryInput) (bool, error) {
	if err := s.validate.Struct(in); err != nil {
		return false, fmt.Errorf("validation error: %w", err)
	}

	existing, err := s.categoryRepo.GetByName(ctx, in.Name)
	if err != nil && !errors.Is(err, ports.ErrNotFound) {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	key := objectKey(categoryKeyPrefix, in.ImageName)
	if err := s.storage.Put(ctx, s.bucket, key, in.Image); err != nil {
		s.logger.Error("Category image upload failed", map[string]interface{}{
			"error": err.Error(),
			"key":   key,
		})
		return false, nil
	}

	category := &domain.Category{
		Name:     in.Name,
		ImageURL: publicURL(s.bucket, s.storageHost, key),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return false, err
	}

	s.appendAudit(ctx, &domain.AuditEntry{
		EntityType: domain.EntityCategory,
		EntityID:   category.ID,
		Username:   actor,
		Action:     domain.ActionCreated,
		Timestamp:  time.Now().UTC(),
		Metadata:   map[string]interface{}{"image_url": category.ImageURL},
	})

	return true, nil
}

func (s *CategoryService) GetAll(ctx context.Context) ([]domain.Category, error) {
	return s.categoryRepo.GetAll(ctx)
}

func (s *CategoryService) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}

func (s *CategoryService) Update(ctx context.Context, actor string, in UpdateCategoryInput) (bool, error) {
	if err := s.validate.Struct(in); err != nil {
		return false, fmt.Errorf("validation error: %w", err)
	}

	category, err := s.categoryRepo.GetByID(ctx, in.CategoryID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	before := map[string]interface{}{"name": category.Name, "image_url": category.ImageURL}

	category.Name = in.Name

	if in.Image != nil {
		if !s.swapImage(ctx, category, in.Image, in.ImageName) {
			return false, nil
		}
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return false, err
	}

	s.appendAudit(ctx, &domain.AuditEntry{
		EntityType: domain.EntityCategory,
		EntityID:   category.ID,
		Username:   actor,
		Action:     domain.ActionUpdated,
		Timestamp:  time.Now().UTC(),
		Metadata: map[string]interface{}{
			"before": before,
			"after":  map[string]interface{}{"name": category.Name, "image_url": category.ImageURL},
		},
	})

	return true, nil
}

func (s *CategoryService) UpdateImage(ctx context.Context, actor string, categoryID int64, image []byte, imageName string) (bool, error) {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	before := category.ImageURL

	if !s.swapImage(ctx, category, image, imageName) {
		return false, nil
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return false, err
	}

	s.appendAudit(ctx, &domain.AuditEntry{
		EntityType: domain.EntityCategory,
		EntityID:   category.ID,
		Username:   actor,
		Action:     domain.ActionUpdated,
		Timestamp:  time.Now().UTC(),
		Metadata: map[string]interface{}{
			"before": map[string]interface{}{"image_url": before},
			"after":  map[string]interface{}{"image_url": category.ImageURL},
		},
	})

	return true, nil
}

func (s *CategoryService) Delete(ctx context.Context, actor string, id int64) (bool, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if category.ImageURL != "" {
		key := objectKeyFromURL(category.ImageURL)
		if err := s.storage.Delete(ctx, s.bucket, key); err != nil {
			s.logger.Warn("Failed to delete category image", map[string]interface{}{
				"error": err.Error(),
				"key":   key,
			})
		}
	}

	if err := s.categoryRepo.Delete(ctx, category.ID); err != nil {
		return false, err
	}

	s.appendAudit(ctx, &domain.AuditEntry{
		EntityType: domain.EntityCategory,
		EntityID:   category.ID,
		Username:   actor,
		Action:     domain.ActionDeleted,
		Timestamp:  time.Now().UTC(),
		Metadata:   map[string]interface{}{"image_url": category.ImageURL},
	})

	return true, nil
}

func (s *CategoryService) swapImage(ctx context.Context, category *domain.Category, image []byte, imageName string) bool {
	if category.ImageURL != "" {
		oldKey := objectKeyFromURL(category.ImageURL)
		if err := s.storage.Delete(ctx, s.bucket, oldKey); err != nil {
			s.logger.Warn("Failed to delete old category image", map[string]interface{}{
				"error": err.Error(),
				"key":   oldKey,
			})
		}
	}

	newKey := objectKey(categoryKeyPrefix, imageName)
	if err := s.storage.Put(ctx, s.bucket, newKey, image); err != nil {
		s.logger.Error("Category image upload failed", map[string]interface{}{
			"error": err.Error(),
			"key":   newKey,
		})
		return false
	}

	category.ImageURL = publicURL(s.bucket, s.storageHost, newKey)
	return true
}

func (s *CategoryService) appendAudit(ctx context.Context, entry *domain.AuditEntry) {
	if err := s.auditLog.Append(ctx, entry); err != nil {
		s.logger.Warn("Failed to append audit entry", map[string]interface{}{
			"error":       err.Error(),
			"entity_type": entry.EntityType,
			"entity_id":   entry.EntityID,
			"action":      entry.Action,
		})
	}
}
