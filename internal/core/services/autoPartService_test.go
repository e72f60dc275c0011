package services

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ybenkirane/autopart_inventory_system/internal/core/domain"
)

type autoPartFixture struct {
	svc      *AutoPartService
	parts    *memAutoPartRepo
	brands   *memBrandRepo
	vehicles *memVehicleRepo
	storage  *memStorage
	cache    *memCache
	audit    *memAudit
}

func newAutoPartFixture() *autoPartFixture {
	f := &autoPartFixture{
		parts: newMemAutoPartRepo(),
		brands: &memBrandRepo{brands: map[int64]domain.Brand{
			1: {ID: 1, Name: "Toyota"},
			2: {ID: 2, Name: "Bosch"},
		}},
		vehicles: newMemVehicleRepo(),
		storage:  newMemStorage(),
		cache:    newMemCache(),
		audit:    &memAudit{},
	}
	categories := &memCategoryRepo{categories: map[int64]domain.Category{
		1: {ID: 1, Name: "Brakes"},
	}}
	f.svc = NewAutoPartService(f.parts, categories, f.brands, f.vehicles,
		f.storage, f.audit, f.cache, nopLogger{}, validator.New(), "parts-bucket", "storage.example.com")
	return f
}

func (f *autoPartFixture) addPart(t *testing.T) *domain.AutoPart {
	t.Helper()
	ok, err := f.svc.Add(context.Background(), "admin@example.com", AddAutoPartInput{
		Name:       "Brake pad",
		CategoryID: 1,
		Cost:       10,
		Price:      25,
		BrandIDs:   []int64{2},
		Image:      []byte("png-bytes"),
		ImageName:  "pad.png",
	})
	require.NoError(t, err)
	require.True(t, ok)
	part, err := f.parts.GetByID(context.Background(), 1)
	require.NoError(t, err)
	return part
}

func TestAddAutoPartUploadsImageBeforeInsert(t *testing.T) {
	f := newAutoPartFixture()
	part := f.addPart(t)

	assert.Len(t, f.storage.objects, 1)
	assert.Contains(t, part.ImageURL, "https://parts-bucket.storage.example.com/auto-parts/")
	assert.Contains(t, part.ImageURL, "pad.png")

	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, domain.ActionCreated, f.audit.entries[0].Action)
	assert.Equal(t, domain.EntityAutoPart, f.audit.entries[0].EntityType)
}

func TestAddAutoPartUnknownCategory(t *testing.T) {
	f := newAutoPartFixture()

	ok, err := f.svc.Add(context.Background(), "admin@example.com", AddAutoPartInput{
		Name:       "Brake pad",
		CategoryID: 99,
		BrandIDs:   []int64{2},
		Image:      []byte("png-bytes"),
		ImageName:  "pad.png",
	})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, f.storage.objects)
}

func TestAddAutoPartUnknownBrandRejectsWholeSet(t *testing.T) {
	f := newAutoPartFixture()

	ok, err := f.svc.Add(context.Background(), "admin@example.com", AddAutoPartInput{
		Name:       "Brake pad",
		CategoryID: 1,
		BrandIDs:   []int64{2, 99},
		Image:      []byte("png-bytes"),
		ImageName:  "pad.png",
	})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, f.storage.objects)
}

func TestAddAutoPartUploadFailureSkipsInsert(t *testing.T) {
	f := newAutoPartFixture()
	f.storage.failPut = true

	ok, err := f.svc.Add(context.Background(), "admin@example.com", AddAutoPartInput{
		Name:       "Brake pad",
		CategoryID: 1,
		BrandIDs:   []int64{2},
		Image:      []byte("png-bytes"),
		ImageName:  "pad.png",
	})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, f.parts.parts)
	assert.Empty(t, f.audit.entries)
}

func TestDeleteAutoPartSurvivesBlobFailure(t *testing.T) {
	f := newAutoPartFixture()
	part := f.addPart(t)
	f.storage.failDelete = true

	ok, err := f.svc.Delete(context.Background(), "admin@example.com", part.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// The blob delete was attempted, failed, and the row still went away.
	assert.NotEmpty(t, f.storage.deletes)
	assert.Empty(t, f.parts.parts)
}

func TestLinkVehicleInvalidYearRangeWritesNothing(t *testing.T) {
	f := newAutoPartFixture()
	part := f.addPart(t)
	end := 2010

	result, err := f.svc.LinkVehicle(context.Background(), "anonymous", LinkVehicleInput{
		AutoPartID: part.ID,
		BrandID:    1,
		Model:      "Corolla",
		StartYear:  2015,
		EndYear:    &end,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.LinkInvalidYearRange, result)
	assert.Empty(t, f.vehicles.vehicles)

	linked, err := f.parts.GetByID(context.Background(), part.ID)
	require.NoError(t, err)
	assert.Empty(t, linked.Vehicles)
}

func TestLinkVehicleUnknownPartAndBrand(t *testing.T) {
	f := newAutoPartFixture()
	part := f.addPart(t)

	result, err := f.svc.LinkVehicle(context.Background(), "anonymous", LinkVehicleInput{
		AutoPartID: 999, BrandID: 1, Model: "Corolla", StartYear: 2015,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.LinkAutoPartNotFound, result)

	result, err = f.svc.LinkVehicle(context.Background(), "anonymous", LinkVehicleInput{
		AutoPartID: part.ID, BrandID: 999, Model: "Corolla", StartYear: 2015,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.LinkBrandNotFound, result)
	assert.Empty(t, f.vehicles.vehicles)
}

func TestLinkVehicleCreatesAndLinks(t *testing.T) {
	f := newAutoPartFixture()
	part := f.addPart(t)

	result, err := f.svc.LinkVehicle(context.Background(), "anonymous", LinkVehicleInput{
		AutoPartID: part.ID, BrandID: 1, Model: "Corolla", StartYear: 2015,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.LinkSuccess, result)
	assert.Len(t, f.vehicles.vehicles, 1)

	linked, err := f.parts.GetByID(context.Background(), part.ID)
	require.NoError(t, err)
	require.Len(t, linked.Vehicles, 1)

	last := f.audit.entries[len(f.audit.entries)-1]
	assert.Equal(t, domain.ActionLinkedVehicle, last.Action)
}

func TestLinkVehicleReusesExactTuple(t *testing.T) {
	f := newAutoPartFixture()
	first := f.addPart(t)

	ok, err := f.svc.Add(context.Background(), "admin@example.com", AddAutoPartInput{
		Name:       "Brake disc",
		CategoryID: 1,
		BrandIDs:   []int64{2},
		Image:      []byte("png-bytes"),
		ImageName:  "disc.png",
	})
	require.NoError(t, err)
	require.True(t, ok)

	in := LinkVehicleInput{AutoPartID: first.ID, BrandID: 1, Model: "Corolla", StartYear: 2015}
	result, err := f.svc.LinkVehicle(context.Background(), "anonymous", in)
	require.NoError(t, err)
	require.Equal(t, domain.LinkSuccess, result)

	in.AutoPartID = 2
	result, err = f.svc.LinkVehicle(context.Background(), "anonymous", in)
	require.NoError(t, err)
	require.Equal(t, domain.LinkSuccess, result)

	// Both parts share the one vehicle row.
	assert.Len(t, f.vehicles.vehicles, 1)
}

func TestLinkVehicleNilAndSetEndYearAreDistinctTuples(t *testing.T) {
	f := newAutoPartFixture()
	part := f.addPart(t)
	end := 2019

	result, err := f.svc.LinkVehicle(context.Background(), "anonymous", LinkVehicleInput{
		AutoPartID: part.ID, BrandID: 1, Model: "Corolla", StartYear: 2015,
	})
	require.NoError(t, err)
	require.Equal(t, domain.LinkSuccess, result)

	result, err = f.svc.LinkVehicle(context.Background(), "anonymous", LinkVehicleInput{
		AutoPartID: part.ID, BrandID: 1, Model: "Corolla", StartYear: 2015, EndYear: &end,
	})
	require.NoError(t, err)
	require.Equal(t, domain.LinkSuccess, result)

	assert.Len(t, f.vehicles.vehicles, 2)
}

func TestLinkVehicleAlreadyLinked(t *testing.T) {
	f := newAutoPartFixture()
	part := f.addPart(t)

	in := LinkVehicleInput{AutoPartID: part.ID, BrandID: 1, Model: "Corolla", StartYear: 2015}
	result, err := f.svc.LinkVehicle(context.Background(), "anonymous", in)
	require.NoError(t, err)
	require.Equal(t, domain.LinkSuccess, result)
	auditsAfterFirst := len(f.audit.entries)

	result, err = f.svc.LinkVehicle(context.Background(), "anonymous", in)
	require.NoError(t, err)
	assert.Equal(t, domain.LinkAlreadyLinked, result)

	// The repeat neither creates a vehicle nor audits.
	assert.Len(t, f.vehicles.vehicles, 1)
	assert.Len(t, f.audit.entries, auditsAfterFirst)
}

func TestGetByIDCachesAndMutationsInvalidate(t *testing.T) {
	f := newAutoPartFixture()
	part := f.addPart(t)

	got, err := f.svc.GetByID(context.Background(), part.ID)
	require.NoError(t, err)
	assert.Equal(t, part.Name, got.Name)
	assert.Len(t, f.cache.data, 1)

	ok, err := f.svc.Update(context.Background(), "admin@example.com", UpdateAutoPartInput{
		AutoPartID: part.ID,
		Name:       "Brake pad v2",
		CategoryID: 1,
		BrandIDs:   []int64{2},
	})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, f.cache.data)

	got, err = f.svc.GetByID(context.Background(), part.ID)
	require.NoError(t, err)
	assert.Equal(t, "Brake pad v2", got.Name)
}

func TestUpdateAutoPartKeepsImageWhenNotSupplied(t *testing.T) {
	f := newAutoPartFixture()
	part := f.addPart(t)

	ok, err := f.svc.Update(context.Background(), "admin@example.com", UpdateAutoPartInput{
		AutoPartID: part.ID,
		Name:       "Brake pad v2",
		CategoryID: 1,
		BrandIDs:   []int64{2},
	})
	require.NoError(t, err)
	require.True(t, ok)

	updated, err := f.parts.GetByID(context.Background(), part.ID)
	require.NoError(t, err)
	assert.Equal(t, part.ImageURL, updated.ImageURL)
	assert.Empty(t, f.storage.deletes)
}

func TestUpdateAutoPartReplacesImage(t *testing.T) {
	f := newAutoPartFixture()
	part := f.addPart(t)

	ok, err := f.svc.Update(context.Background(), "admin@example.com", UpdateAutoPartInput{
		AutoPartID: part.ID,
		Name:       "Brake pad",
		CategoryID: 1,
		BrandIDs:   []int64{2},
		Image:      []byte("new-bytes"),
		ImageName:  "pad-v2.png",
	})
	require.NoError(t, err)
	require.True(t, ok)

	updated, err := f.parts.GetByID(context.Background(), part.ID)
	require.NoError(t, err)
	assert.NotEqual(t, part.ImageURL, updated.ImageURL)
	assert.Len(t, f.storage.deletes, 1)
	assert.Len(t, f.storage.objects, 1)
}
