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

const brandKeyPrefix = "brands"

type BrandService struct {
	brandRepo   ports.BrandRepository
	storage     ports.StoragePort
	auditLog    ports.AuditLogPort
	logger      ports.LoggerPort
	validate    *validator.Validate
	bucket      string
	storageHost string
}

func NewBrandService(
	brandRepo ports.BrandRepository,
	storage ports.StoragePort,
	auditLog ports.AuditLogPort,
	logger ports.LoggerPort,
	validate *validator.Validate,
	bucket string,
	storageHost string,
) *BrandService {
	return &BrandService{
		brandRepo:   brandRepo,
		storage:     storage,
		auditLog:    auditLog,
		logger:      logger,
		validate:    validate,
		bucket:      bucket,
		storageHost: storageHost,
	}
}

type AddBrandInput struct {
	Name      string `validate:"required,max=100"`
	Image     []byte `validate:"required"`
	ImageName string `validate:"required"`
}

type UpdateBrandInput struct {
	BrandID int64  `validate:"required"`
	Name    string `validate:"required,max=100"`
	// Image nil keeps the current one.
	Image     []byte
	ImageName string
}

func (s *BrandService) Add(ctx context.Context, actor string, in AddBrandInput) (bool, error) {
	if err := s.validate.Struct(in); err != nil {
		return false, fmt.Errorf("validation error: %w", err)
	}

	existing, err := s.brandRepo.GetByName(ctx, in.Name)
	if err != nil && !errors.Is(err, ports.ErrNotFound) {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	key := objectKey(brandKeyPrefix, in.ImageName)
	if err := s.storage.Put(ctx, s.bucket, key, in.Image); err != nil {
		s.logger.Error("Brand image upload failed", map[string]interface{}{
			"error": err.Error(),
			"key":   key,
		})
		return false, nil
	}

	brand := &domain.Brand{
		Name:     in.Name,
		ImageURL: publicURL(s.bucket, s.storageHost, key),
	}

	if err := s.brandRepo.Create(ctx, brand); err != nil {
		return false, err
	}

	s.appendAudit(ctx, &domain.AuditEntry{
		EntityType: domain.EntityBrand,
		EntityID:   brand.ID,
		Username:   actor,
		Action:     domain.ActionCreated,
		Timestamp:  time.Now().UTC(),
		Metadata:   map[string]interface{}{"image_url": brand.ImageURL},
	})

	return true, nil
}

func (s *BrandService) GetAll(ctx context.Context) ([]domain.Brand, error) {
	return s.brandRepo.GetAll(ctx)
}

func (s *BrandService) GetByID(ctx context.Context, id int64) (*domain.Brand, error) {
	return s.brandRepo.GetByID(ctx, id)
}

func (s *BrandService) Update(ctx context.Context, actor string, in UpdateBrandInput) (bool, error) {
	if err := s.validate.Struct(in); err != nil {
		return false, fmt.Errorf("validation error: %w", err)
	}

	brand, err := s.brandRepo.GetByID(ctx, in.BrandID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	before := map[string]interface{}{"name": brand.Name, "image_url": brand.ImageURL}

	brand.Name = in.Name

	if in.Image != nil {
		if !s.swapImage(ctx, brand, in.Image, in.ImageName) {
			return false, nil
		}
	}

	if err := s.brandRepo.Update(ctx, brand); err != nil {
		return false, err
	}

	s.appendAudit(ctx, &domain.AuditEntry{
		EntityType: domain.EntityBrand,
		EntityID:   brand.ID,
		Username:   actor,
		Action:     domain.ActionUpdated,
		Timestamp:  time.Now().UTC(),
		Metadata: map[string]interface{}{
			"before": before,
			"after":  map[string]interface{}{"name": brand.Name, "image_url": brand.ImageURL},
		},
	})

	return true, nil
}

// UpdateImage replaces only the brand image.
func (s *BrandService) UpdateImage(ctx context.Context, actor string, brandID int64, image []byte, imageName string) (bool, error) {
	brand, err := s.brandRepo.GetByID(ctx, brandID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	before := brand.ImageURL

	if !s.swapImage(ctx, brand, image, imageName) {
		return false, nil
	}

	if err := s.brandRepo.Update(ctx, brand); err != nil {
		return false, err
	}

	s.appendAudit(ctx, &domain.AuditEntry{
		EntityType: domain.EntityBrand,
		EntityID:   brand.ID,
		Username:   actor,
		Action:     domain.ActionUpdated,
		Timestamp:  time.Now().UTC(),
		Metadata: map[string]interface{}{
			"before": map[string]interface{}{"image_url": before},
			"after":  map[string]interface{}{"image_url": brand.ImageURL},
		},
	})

	return true, nil
}

func (s *BrandService) Delete(ctx context.Context, actor string, id int64) (bool, error) {
	brand, err := s.brandRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if brand.ImageURL != "" {
		key := objectKeyFromURL(brand.ImageURL)
		if err := s.storage.Delete(ctx, s.bucket, key); err != nil {
			s.logger.Warn("Failed to delete brand image", map[string]interface{}{
				"error": err.Error(),
				"key":   key,
			})
		}
	}

	if err := s.brandRepo.Delete(ctx, brand.ID); err != nil {
		return false, err
	}

	s.appendAudit(ctx, &domain.AuditEntry{
		EntityType: domain.EntityBrand,
		EntityID:   brand.ID,
		Username:   actor,
		Action:     domain.ActionDeleted,
		Timestamp:  time.Now().UTC(),
		Metadata:   map[string]interface{}{"image_url": brand.ImageURL},
	})

	return true, nil
}

// swapImage deletes the old blob best-effort, uploads the new one and
// rewrites brand.ImageURL. Returns false when the upload fails; the old
// image is already gone at that point.
func (s *BrandService) swapImage(ctx context.Context, brand *domain.Brand, image []byte, imageName string) bool {
	if brand.ImageURL != "" {
		oldKey := objectKeyFromURL(brand.ImageURL)
		if err := s.storage.Delete(ctx, s.bucket, oldKey); err != nil {
			s.logger.Warn("Failed to delete old brand image", map[string]interface{}{
				"error": err.Error(),
				"key":   oldKey,
			})
		}
	}

	newKey := objectKey(brandKeyPrefix, imageName)
	if err := s.storage.Put(ctx, s.bucket, newKey, image); err != nil {
		s.logger.Error("Brand image upload failed", map[string]interface{}{
			"error": err.Error(),
			"key":   newKey,
		})
		return false
	}

	brand.ImageURL = publicURL(s.bucket, s.storageHost, newKey)
	return true
}

func (s *BrandService) appendAudit(ctx context.Context, entry *domain.AuditEntry) {
	if err := s.auditLog.Append(ctx, entry); err != nil {
		s.logger.Warn("Failed to append audit entry", map[string]interface{}{
			"error":       err.Error(),
			"entity_type": entry.EntityType,
			"entity_id":   entry.EntityID,
			"action":      entry.Action,
		})
	}
}
