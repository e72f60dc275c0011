package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ybenkirane/autopart_inventory_system/internal/core/domain"
	"github.com/ybenkirane/autopart_inventory_system/internal/core/ports"

	"github.com/go-playground/validator/v10"
)

const autoPartKeyPrefix = "auto-parts"

const autoPartCacheTTL = 15 * time.Minute

type AutoPartService struct {
	autoPartRepo ports.AutoPartRepository
	categoryRepo ports.CategoryRepository
	brandRepo    ports.BrandRepository
	vehicleRepo  ports.VehicleRepository
	storage      ports.StoragePort
	auditLog     ports.AuditLogPort
	cache        ports.CachePort
	logger       ports.LoggerPort
	validate     *validator.Validate
	bucket       string
	storageHost  string
}

func NewAutoPartService(
	autoPartRepo ports.AutoPartRepository,
	categoryRepo ports.CategoryRepository,
	brandRepo ports.BrandRepository,
	vehicleRepo ports.VehicleRepository,
	storage ports.StoragePort,
	auditLog ports.AuditLogPort,
	cache ports.CachePort,
	logger ports.LoggerPort,
	validate *validator.Validate,
	bucket string,
	storageHost string,
) *AutoPartService {
	return &AutoPartService{
		autoPartRepo: autoPartRepo,
		categoryRepo: categoryRepo,
		brandRepo:    brandRepo,
		vehicleRepo:  vehicleRepo,
		storage:      storage,
		auditLog:     auditLog,
		cache:        cache,
		logger:       logger,
		validate:     validate,
		bucket:       bucket,
		storageHost:  storageHost,
	}
}

type AddAutoPartInput struct {
	Name        string  `validate:"required,max=200"`
	Description string  `validate:"max=2000"`
	CategoryID  int64   `validate:"required"`
	Cost        float64 `validate:"gte=0"`
	Price       float64 `validate:"gte=0"`
	Location    string  `validate:"max=100"`
	BrandIDs    []int64 `validate:"dive,gt=0"`
	Image       []byte  `validate:"required"`
	ImageName   string  `validate:"required"`
}

type UpdateAutoPartInput struct {
	AutoPartID  int64   `validate:"required"`
	Name        string  `validate:"required,max=200"`
	Description string  `validate:"max=2000"`
	CategoryID  int64   `validate:"required"`
	Cost        float64 `validate:"gte=0"`
	Price       float64 `validate:"gte=0"`
	Location    string  `validate:"max=100"`
	BrandIDs    []int64 `validate:"dive,gt=0"`
	// Image nil means keep the current one.
	Image     []byte
	ImageName string
}

type LinkVehicleInput struct {
	AutoPartID int64  `validate:"required"`
	BrandID    int64  `validate:"required"`
	Model      string `validate:"required,max=100"`
	StartYear  int    `validate:"required"`
	EndYear    *int
}

// Add validates the category and the full brand set, uploads the image, and
// only then inserts the row. An upload failure aborts with no database write.
func (s *AutoPartService) Add(ctx context.Context, actor string, in AddAutoPartInput) (bool, error) {
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

	brands, err := s.brandRepo.GetByIDs(ctx, in.BrandIDs)
	if err != nil {
		return false, err
	}
	// Every supplied id must resolve; a single bad id fails the whole add.
	if len(brands) != len(in.BrandIDs) {
		s.logger.Warn("AutoPart add rejected, unknown brand ids", map[string]interface{}{
			"requested": len(in.BrandIDs),
			"resolved":  len(brands),
		})
		return false, nil
	}

	key := objectKey(autoPartKeyPrefix, in.ImageName)
	if err := s.storage.Put(ctx, s.bucket, key, in.Image); err != nil {
		s.logger.Error("Image upload failed", map[string]interface{}{
			"error": err.Error(),
			"key":   key,
		})
		return false, nil
	}

	part := &domain.AutoPart{
		Name:        in.Name,
		Description: in.Description,
		ImageURL:    publicURL(s.bucket, s.storageHost, key),
		CategoryID:  category.ID,
		Category:    *category,
		Cost:        in.Cost,
		Price:       in.Price,
		Location:    in.Location,
		UpdatedAt:   time.Now().UTC(),
		Brands:      brands,
	}

	if err := s.autoPartRepo.Create(ctx, part); err != nil {
		s.logger.Error("Failed to create auto part", map[string]interface{}{
			"error": err.Error(),
			"name":  in.Name,
		})
		return false, err
	}

	s.appendAudit(ctx, &domain.AuditEntry{
		EntityType: domain.EntityAutoPart,
		EntityID:   part.ID,
		Username:   actor,
		Action:     domain.ActionCreated,
		Timestamp:  time.Now().UTC(),
		Metadata: map[string]interface{}{
			"brand_ids":   in.BrandIDs,
			"category_id": category.ID,
			"image_url":   part.ImageURL,
		},
	})

	s.logger.Info("AutoPart created", map[string]interface{}{
		"part_id": part.ID,
		"name":    part.Name,
	})

	return true, nil
}

// Update replaces the scalar fields and the full brand set. When a new image
// is supplied the old blob is deleted best-effort before the new upload; an
// upload failure then aborts the update with the old image already gone.
func (s *AutoPartService) Update(ctx context.Context, actor string, in UpdateAutoPartInput) (bool, error) {
	if err := s.validate.Struct(in); err != nil {
		return false, fmt.Errorf("validation error: %w", err)
	}

	part, err := s.autoPartRepo.GetByID(ctx, in.AutoPartID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	category, err := s.categoryRepo.GetByID(ctx, in.CategoryID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	brands, err := s.brandRepo.GetByIDs(ctx, in.BrandIDs)
	if err != nil {
		return false, err
	}
	if len(brands) != len(in.BrandIDs) {
		return false, nil
	}

	before := s.snapshot(part)

	part.Name = in.Name
	part.Description = in.Description
	part.CategoryID = category.ID
	part.Category = *category
	part.Cost = in.Cost
	part.Price = in.Price
	part.Location = in.Location
	part.UpdatedAt = time.Now().UTC()
	part.Brands = brands

	if in.Image != nil {
		if part.ImageURL != "" {
			oldKey := objectKeyFromURL(part.ImageURL)
			if err := s.storage.Delete(ctx, s.bucket, oldKey); err != nil {
				s.logger.Warn("Failed to delete old image", map[string]interface{}{
					"error": err.Error(),
					"key":   oldKey,
				})
			}
		}

		newKey := objectKey(autoPartKeyPrefix, in.ImageName)
		if err := s.storage.Put(ctx, s.bucket, newKey, in.Image); err != nil {
			s.logger.Error("Image upload failed", map[string]interface{}{
				"error": err.Error(),
				"key":   newKey,
			})
			return false, nil
		}

		part.ImageURL = publicURL(s.bucket, s.storageHost, newKey)
	}

	if err := s.autoPartRepo.Update(ctx, part); err != nil {
		s.logger.Error("Failed to update auto part", map[string]interface{}{
			"error":   err.Error(),
			"part_id": part.ID,
		})
		return false, err
	}

	s.invalidateCache(part.ID)

	s.appendAudit(ctx, &domain.AuditEntry{
		EntityType: domain.EntityAutoPart,
		EntityID:   part.ID,
		Username:   actor,
		Action:     domain.ActionUpdated,
		Timestamp:  time.Now().UTC(),
		Metadata: map[string]interface{}{
			"before": before,
			"after":  s.snapshot(part),
		},
	})

	return true, nil
}

// Delete removes the blob best-effort, then the row. A blob store failure is
// logged and never blocks the row delete.
func (s *AutoPartService) Delete(ctx context.Context, actor string, id int64) (bool, error) {
	part, err := s.autoPartRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if part.ImageURL != "" {
		key := objectKeyFromURL(part.ImageURL)
		if err := s.storage.Delete(ctx, s.bucket, key); err != nil {
			s.logger.Warn("Failed to delete image, proceeding with row delete", map[string]interface{}{
				"error": err.Error(),
				"key":   key,
			})
		}
	}

	if err := s.autoPartRepo.Delete(ctx, part.ID); err != nil {
		return false, err
	}

	s.invalidateCache(part.ID)

	s.appendAudit(ctx, &domain.AuditEntry{
		EntityType: domain.EntityAutoPart,
		EntityID:   part.ID,
		Username:   actor,
		Action:     domain.ActionDeleted,
		Timestamp:  time.Now().UTC(),
		Metadata:   map[string]interface{}{"image_url": part.ImageURL},
	})

	return true, nil
}

// LinkVehicle reconciles a (brand, model, year range) tuple against the
// vehicles table and links the resulting row to the part.
//
// The vehicle insert and the link insert are two separate commits: a vehicle
// created here stays persisted even when no link follows. Concurrent
// identical requests may create duplicate vehicle rows; the dedup is a
// lookup-then-insert, deliberately left without a uniqueness constraint.
func (s *AutoPartService) LinkVehicle(ctx context.Context, actor string, in LinkVehicleInput) (domain.LinkVehicleResult, error) {
	if in.EndYear != nil && in.StartYear > *in.EndYear {
		return domain.LinkInvalidYearRange, nil
	}

	part, err := s.autoPartRepo.GetByID(ctx, in.AutoPartID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return domain.LinkAutoPartNotFound, nil
		}
		return 0, err
	}

	brand, err := s.brandRepo.GetByID(ctx, in.BrandID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return domain.LinkBrandNotFound, nil
		}
		return 0, err
	}

	vehicle, err := s.vehicleRepo.FindExisting(ctx, brand.ID, in.Model, in.StartYear, in.EndYear)
	if err != nil && !errors.Is(err, ports.ErrNotFound) {
		return 0, err
	}

	if vehicle == nil {
		vehicle = &domain.Vehicle{
			BrandID:   brand.ID,
			Model:     in.Model,
			StartYear: in.StartYear,
			EndYear:   in.EndYear,
		}
		if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
			s.logger.Error("Failed to create vehicle", map[string]interface{}{
				"error":    err.Error(),
				"brand_id": brand.ID,
				"model":    in.Model,
			})
			return 0, err
		}
	}

	if part.HasVehicle(vehicle.ID) {
		return domain.LinkAlreadyLinked, nil
	}

	if err := s.autoPartRepo.LinkVehicle(ctx, part.ID, vehicle.ID); err != nil {
		s.logger.Error("Failed to link vehicle", map[string]interface{}{
			"error":      err.Error(),
			"part_id":    part.ID,
			"vehicle_id": vehicle.ID,
		})
		return 0, err
	}

	s.invalidateCache(part.ID)

	s.appendAudit(ctx, &domain.AuditEntry{
		EntityType: domain.EntityAutoPart,
		EntityID:   part.ID,
		Username:   actor,
		Action:     domain.ActionLinkedVehicle,
		Timestamp:  time.Now().UTC(),
		Metadata: map[string]interface{}{
			"vehicle_id": vehicle.ID,
			"brand_id":   brand.ID,
			"model":      in.Model,
			"start_year": in.StartYear,
			"end_year":   in.EndYear,
		},
	})

	s.logger.Info("Vehicle linked to auto part", map[string]interface{}{
		"part_id":    part.ID,
		"vehicle_id": vehicle.ID,
	})

	return domain.LinkSuccess, nil
}

func (s *AutoPartService) GetByID(ctx context.Context, id int64) (*domain.AutoPart, error) {
	cacheKey := fmt.Sprintf("autopart:%d", id)
	if cached, err := s.cache.Get(cacheKey); err == nil {
		var part domain.AutoPart
		if err := json.Unmarshal(cached, &part); err == nil {
			return &part, nil
		}
	}

	part, err := s.autoPartRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(part); err == nil {
		if err := s.cache.Set(cacheKey, data, autoPartCacheTTL); err != nil {
			s.logger.Warn("Failed to cache auto part", map[string]interface{}{
				"error":   err.Error(),
				"part_id": id,
			})
		}
	}

	return part, nil
}

func (s *AutoPartService) List(ctx context.Context, query domain.AutoPartQuery) (*domain.PagedResult[domain.AutoPart], error) {
	return s.autoPartRepo.List(ctx, query)
}

func (s *AutoPartService) snapshot(part *domain.AutoPart) map[string]interface{} {
	brandIDs := make([]int64, len(part.Brands))
	for i, b := range part.Brands {
		brandIDs[i] = b.ID
	}
	return map[string]interface{}{
		"name":        part.Name,
		"description": part.Description,
		"category_id": part.CategoryID,
		"cost":        part.Cost,
		"price":       part.Price,
		"location":    part.Location,
		"image_url":   part.ImageURL,
		"brand_ids":   brandIDs,
	}
}

func (s *AutoPartService) invalidateCache(id int64) {
	cacheKey := fmt.Sprintf("autopart:%d", id)
	if err := s.cache.Delete(cacheKey); err != nil {
		s.logger.Warn("Failed to invalidate auto part cache", map[string]interface{}{
			"error":   err.Error(),
			"part_id": id,
		})
	}
}

func (s *AutoPartService) appendAudit(ctx context.Context, entry *domain.AuditEntry) {
	if err := s.auditLog.Append(ctx, entry); err != nil {
		s.logger.Warn("Failed to append audit entry", map[string]interface{}{
			"error":       err.Error(),
			"entity_type": entry.EntityType,
			"entity_id":   entry.EntityID,
			"action":      entry.Action,
		})
	}
}
