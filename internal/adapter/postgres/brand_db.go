package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ybenkirane/autopart_inventory_system/internal/core/domain"
	"github.com/ybenkirane/autopart_inventory_system/internal/core/ports"

	"github.com/lib/pq"
)

type BrandRepository struct {
	db *sql.DB
}

func NewBrandRepository(db *sql.DB) *BrandRepository {
	return &BrandRepository{db}
}

func (r *BrandRepository) Create(ctx context.Context, brand *domain.Brand) error {
	query := `INSERT INTO brands (name, image_url) VALUES ($1, $2) RETURNING id`

	err := r.db.QueryRowContext(ctx, query, brand.Name, brand.ImageURL).Scan(&brand.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return fmt.Errorf("brand name already exists")
		}
		return err
	}
	return nil
}

func (r *BrandRepository) GetByID(ctx context.Context, id int64) (*domain.Brand, error) {
	return r.getBy(ctx, `WHERE id = $1`, id)
}

func (r *BrandRepository) GetByName(ctx context.Context, name string) (*domain.Brand, error) {
	return r.getBy(ctx, `WHERE name = $1`, name)
}

func (r *BrandRepository) getBy(ctx context.Context, where string, arg interface{}) (*domain.Brand, error) {
	brand := &domain.Brand{}
	var imageURL sql.NullString

	query := `SELECT id, name, image_url FROM brands ` + where
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&brand.ID, &brand.Name, &imageURL)
	if err == sql.ErrNoRows {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	brand.ImageURL = imageURL.String
	return brand, nil
}

func (r *BrandRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Brand, error) {
	if len(ids) == 0 {
		return []domain.Brand{}, nil
	}

	query := `SELECT id, name, image_url FROM brands WHERE id = ANY($1) ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBrands(rows)
}

func (r *BrandRepository) GetAll(ctx context.Context) ([]domain.Brand, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, image_url FROM brands ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBrands(rows)
}

func (r *BrandRepository) Update(ctx context.Context, brand *domain.Brand) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE brands SET name = $1, image_url = $2 WHERE id = $3`,
		brand.Name, brand.ImageURL, brand.ID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *BrandRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func scanBrands(rows *sql.Rows) ([]domain.Brand, error) {
	var brands []domain.Brand
	for rows.Next() {
		var brand domain.Brand
		var imageURL sql.NullString
		if err := rows.Scan(&brand.ID, &brand.Name, &imageURL); err != nil {
			return nil, err
		}
		brand.ImageURL = imageURL.String
		brands = append(brands, brand)
	}
	return brands, rows.Err()
}
