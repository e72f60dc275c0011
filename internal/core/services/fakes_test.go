package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ybenkirane/autopart_inventory_system/internal/core/domain"
	"github.com/ybenkirane/autopart_inventory_system/internal/core/ports"
)

// In-memory collaborators shared by the service tests.

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

type memAudit struct {
	entries    []domain.AuditEntry
	failAppend bool
}

func (m *memAudit) Append(_ context.Context, entry *domain.AuditEntry) error {
	if m.failAppend {
		return errors.New("audit sink unavailable")
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memAudit) ListByEntity(_ context.Context, entityType string, entityID int64) ([]domain.AuditEntry, error) {
	var out []domain.AuditEntry
	for _, e := range m.entries {
		if e.EntityType == entityType && e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, nil
}

type memCache struct {
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (m *memCache) Get(key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, errors.New("cache miss")
	}
	return v, nil
}

func (m *memCache) Set(key string, value []byte, _ time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *memCache) Delete(key string) error {
	delete(m.data, key)
	return nil
}

type memStorage struct {
	objects    map[string][]byte
	failPut    bool
	failDelete bool
	deletes    []string
}

func newMemStorage() *memStorage {
	return &memStorage{objects: make(map[string][]byte)}
}

func (m *memStorage) Put(_ context.Context, _, key string, data []byte) error {
	if m.failPut {
		return errors.New("storage unavailable")
	}
	m.objects[key] = data
	return nil
}

func (m *memStorage) Get(_ context.Context, _, key string) ([]byte, error) {
	v, ok := m.objects[key]
	if !ok {
		return nil, errors.New("object not found")
	}
	return v, nil
}

func (m *memStorage) Delete(_ context.Context, _, key string) error {
	m.deletes = append(m.deletes, key)
	if m.failDelete {
		return errors.New("storage unavailable")
	}
	delete(m.objects, key)
	return nil
}

type memUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[int64]*domain.User)}
}

func (m *memUserRepo) Create(_ context.Context, user *domain.User) error {
	m.nextID++
	user.ID = m.nextID
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (m *memUserRepo) List(_ context.Context, pageNumber, pageSize int) (*domain.PagedResult[domain.User], error) {
	items := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		items = append(items, *u)
	}
	return &domain.PagedResult[domain.User]{
		Items:      items,
		TotalCount: len(items),
		PageNumber: pageNumber,
		PageSize:   pageSize,
	}, nil
}

func (m *memUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return ports.ErrNotFound
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memUserRepo) AssignRole(_ context.Context, userID, roleID int64) error {
	u, ok := m.users[userID]
	if !ok {
		return ports.ErrNotFound
	}
	u.Roles = append(u.Roles, domain.Role{ID: roleID, Name: fmt.Sprintf("role-%d", roleID)})
	return nil
}

func (m *memUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.users[id]; !ok {
		return ports.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

type memRoleRepo struct {
	roles map[string]domain.Role
}

func (m *memRoleRepo) GetByName(_ context.Context, name string) (*domain.Role, error) {
	r, ok := m.roles[name]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &r, nil
}

type stubTokenService struct{}

func (stubTokenService) CreateToken(user *domain.User) (string, error) {
	return fmt.Sprintf("token-for-%d", user.ID), nil
}

func (stubTokenService) VerifyToken(string) (*domain.TokenPayload, error) {
	return nil, errors.New("not implemented")
}

type memBrandRepo struct {
	brands map[int64]domain.Brand
}

func (m *memBrandRepo) Create(_ context.Context, brand *domain.Brand) error {
	brand.ID = int64(len(m.brands) + 1)
	m.brands[brand.ID] = *brand
	return nil
}

func (m *memBrandRepo) GetByID(_ context.Context, id int64) (*domain.Brand, error) {
	b, ok := m.brands[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &b, nil
}

func (m *memBrandRepo) GetByIDs(_ context.Context, ids []int64) ([]domain.Brand, error) {
	var out []domain.Brand
	for _, id := range ids {
		if b, ok := m.brands[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBrandRepo) GetByName(_ context.Context, name string) (*domain.Brand, error) {
	for _, b := range m.brands {
		if b.Name == name {
			return &b, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (m *memBrandRepo) GetAll(_ context.Context) ([]domain.Brand, error) {
	out := make([]domain.Brand, 0, len(m.brands))
	for _, b := range m.brands {
		out = append(out, b)
	}
	return out, nil
}

func (m *memBrandRepo) Update(_ context.Context, brand *domain.Brand) error {
	if _, ok := m.brands[brand.ID]; !ok {
		return ports.ErrNotFound
	}
	m.brands[brand.ID] = *brand
	return nil
}

func (m *memBrandRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.brands[id]; !ok {
		return ports.ErrNotFound
	}
	delete(m.brands, id)
	return nil
}

type memCategoryRepo struct {
	categories map[int64]domain.Category
}

func (m *memCategoryRepo) Create(_ context.Context, category *domain.Category) error {
	category.ID = int64(len(m.categories) + 1)
	m.categories[category.ID] = *category
	return nil
}

func (m *memCategoryRepo) GetByID(_ context.Context, id int64) (*domain.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &c, nil
}

func (m *memCategoryRepo) GetByName(_ context.Context, name string) (*domain.Category, error) {
	for _, c := range m.categories {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (m *memCategoryRepo) GetAll(_ context.Context) ([]domain.Category, error) {
	out := make([]domain.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	return out, nil
}

func (m *memCategoryRepo) Update(_ context.Context, category *domain.Category) error {
	if _, ok := m.categories[category.ID]; !ok {
		return ports.ErrNotFound
	}
	m.categories[category.ID] = *category
	return nil
}

func (m *memCategoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.categories[id]; !ok {
		return ports.ErrNotFound
	}
	delete(m.categories, id)
	return nil
}

type memAutoPartRepo struct {
	parts  map[int64]*domain.AutoPart
	nextID int64
}

func newMemAutoPartRepo() *memAutoPartRepo {
	return &memAutoPartRepo{parts: make(map[int64]*domain.AutoPart)}
}

func (m *memAutoPartRepo) Create(_ context.Context, part *domain.AutoPart) error {
	m.nextID++
	part.ID = m.nextID
	cp := *part
	m.parts[part.ID] = &cp
	return nil
}

func (m *memAutoPartRepo) GetByID(_ context.Context, id int64) (*domain.AutoPart, error) {
	p, ok := m.parts[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memAutoPartRepo) List(_ context.Context, query domain.AutoPartQuery) (*domain.PagedResult[domain.AutoPart], error) {
	items := make([]domain.AutoPart, 0, len(m.parts))
	for _, p := range m.parts {
		items = append(items, *p)
	}
	return &domain.PagedResult[domain.AutoPart]{
		Items:      items,
		TotalCount: len(items),
		PageNumber: query.PageNumber,
		PageSize:   query.PageSize,
	}, nil
}

func (m *memAutoPartRepo) Update(_ context.Context, part *domain.AutoPart) error {
	existing, ok := m.parts[part.ID]
	if !ok {
		return ports.ErrNotFound
	}
	cp := *part
	cp.Vehicles = existing.Vehicles
	m.parts[part.ID] = &cp
	return nil
}

func (m *memAutoPartRepo) LinkVehicle(_ context.Context, partID, vehicleID int64) error {
	p, ok := m.parts[partID]
	if !ok {
		return ports.ErrNotFound
	}
	p.Vehicles = append(p.Vehicles, domain.Vehicle{ID: vehicleID})
	return nil
}

func (m *memAutoPartRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.parts[id]; !ok {
		return ports.ErrNotFound
	}
	delete(m.parts, id)
	return nil
}

type memVehicleRepo struct {
	vehicles map[int64]domain.Vehicle
	nextID   int64
}

func newMemVehicleRepo() *memVehicleRepo {
	return &memVehicleRepo{vehicles: make(map[int64]domain.Vehicle)}
}

func (m *memVehicleRepo) Create(_ context.Context, vehicle *domain.Vehicle) error {
	m.nextID++
	vehicle.ID = m.nextID
	m.vehicles[vehicle.ID] = *vehicle
	return nil
}

func (m *memVehicleRepo) FindExisting(_ context.Context, brandID int64, model string, startYear int, endYear *int) (*domain.Vehicle, error) {
	for _, v := range m.vehicles {
		if v.BrandID != brandID || v.Model != model || v.StartYear != startYear {
			continue
		}
		if (v.EndYear == nil) != (endYear == nil) {
			continue
		}
		if v.EndYear != nil && *v.EndYear != *endYear {
			continue
		}
		cp := v
		return &cp, nil
	}
	return nil, ports.ErrNotFound
}
