package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ybenkirane/autopart_inventory_system/internal/core/domain"
	"github.com/ybenkirane/autopart_inventory_system/internal/core/ports"

	"github.com/lib/pq"
)

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db}
}

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	query := `INSERT INTO categories (name, image_url) VALUES ($1, $2) RETURNING id`

	err := r.db.QueryRowContext(ctx, query, category.Name, category.ImageURL).Scan(&category.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return fmt.Errorf("category name already exists")
		}
		return err
	}
	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	return r.getBy(ctx, `WHERE id = $1`, id)
}

func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	return r.getBy(ctx, `WHERE name = $1`, name)
}

func (r *CategoryRepository) getBy(ctx context.Context, where string, arg interface{}) (*domain.Category, error) {
	category := &domain.Category{}
	var imageURL sql.NullString

	query := `SELECT id, name, image_url FROM categories ` + where
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&category.ID, &category.Name, &imageURL)
	if err == sql.ErrNoRows {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	category.ImageURL = imageURL.String
	return category, nil
}

func (r *CategoryRepository) GetAll(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, image_url FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var category domain.Category
		var imageURL sql.NullString
		if err := rows.Scan(&category.ID, &category.Name, &imageURL); err != nil {
			return nil, err
		}
		category.ImageURL = imageURL.String
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = $1, image_url = $2 WHERE id = $3`,
		category.Name, category.ImageURL, category.ID,
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

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
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
