package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ybenkirane/autopart_inventory_system/internal/core/domain"
	"github.com/ybenkirane/autopart_inventory_system/internal/core/ports"

	"github.com/lib/pq"
)

type AutoPartRepository struct {
	db *sql.DB
}

func NewAutoPartRepository(db *sql.DB) *AutoPartRepository {
	return &AutoPartRepository{db}
}

func (r *AutoPartRepository) Create(ctx context.Context, part *domain.AutoPart) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO auto_parts (name, description, image_url, category_id, cost, price, location, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id`

	err = tx.QueryRowContext(ctx, query,
		part.Name, part.Description, part.ImageURL, part.CategoryID,
		part.Cost, part.Price, part.Location, part.UpdatedAt,
	).Scan(&part.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return fmt.Errorf("category does not exist")
		}
		return err
	}

	for _, brand := range part.Brands {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO auto_part_brands (auto_part_id, brand_id) VALUES ($1, $2)`,
			part.ID, brand.ID,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *AutoPartRepository) GetByID(ctx context.Context, id int64) (*domain.AutoPart, error) {
	query := `SELECT p.id, p.name, p.description, p.image_url, p.category_id, p.cost, p.price, p.location, p.updated_at,
	c.name
	FROM auto_parts p
	JOIN categories c ON c.id = p.category_id
	WHERE p.id = $1`

	part := &domain.AutoPart{}
	var description, imageURL, location sql.NullString

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&part.ID,
		&part.Name,
		&description,
		&imageURL,
		&part.CategoryID,
		&part.Cost,
		&part.Price,
		&location,
		&part.UpdatedAt,
		&part.Category.Name,
	)
	if err == sql.ErrNoRows {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	part.Description = description.String
	part.ImageURL = imageURL.String
	part.Location = location.String
	part.Category.ID = part.CategoryID

	if err := r.loadRelations(ctx, part); err != nil {
		return nil, err
	}

	return part, nil
}

func (r *AutoPartRepository) List(ctx context.Context, query domain.AutoPartQuery) (*domain.PagedResult[domain.AutoPart], error) {
	where := ` WHERE 1=1`
	args := []interface{}{}

	if query.Name != "" {
		args = append(args, "%"+query.Name+"%")
		where += fmt.Sprintf(" AND p.name ILIKE $%d", len(args))
	}
	if query.Description != "" {
		args = append(args, "%"+query.Description+"%")
		where += fmt.Sprintf(" AND p.description ILIKE $%d", len(args))
	}
	if query.CategoryID != nil {
		args = append(args, *query.CategoryID)
		where += fmt.Sprintf(" AND p.category_id = $%d", len(args))
	}
	if query.BrandID != nil {
		args = append(args, *query.BrandID)
		where += fmt.Sprintf(" AND EXISTS (SELECT 1 FROM auto_part_brands pb WHERE pb.auto_part_id = p.id AND pb.brand_id = $%d)", len(args))
	}

	pageNumber := query.PageNumber
	if pageNumber <= 0 {
		pageNumber = 1
	}
	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM auto_parts p`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	args = append(args, (pageNumber-1)*pageSize, pageSize)
	listQuery := `SELECT p.id, p.name, p.description, p.image_url, p.category_id, p.cost, p.price, p.location, p.updated_at, c.name
	FROM auto_parts p
	JOIN categories c ON c.id = p.category_id` + where +
		fmt.Sprintf(` ORDER BY p.name OFFSET $%d LIMIT $%d`, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parts []domain.AutoPart
	for rows.Next() {
		var part domain.AutoPart
		var description, imageURL, location sql.NullString
		if err := rows.Scan(
			&part.ID,
			&part.Name,
			&description,
			&imageURL,
			&part.CategoryID,
			&part.Cost,
			&part.Price,
			&location,
			&part.UpdatedAt,
			&part.Category.Name,
		); err != nil {
			return nil, err
		}
		part.Description = description.String
		part.ImageURL = imageURL.String
		part.Location = location.String
		part.Category.ID = part.CategoryID
		parts = append(parts, part)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range parts {
		if err := r.loadRelations(ctx, &parts[i]); err != nil {
			return nil, err
		}
	}

	return &domain.PagedResult[domain.AutoPart]{
		Items:      parts,
		PageNumber: pageNumber,
		PageSize:   pageSize,
		TotalCount: total,
	}, nil
}

func (r *AutoPartRepository) Update(ctx context.Context, part *domain.AutoPart) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `UPDATE auto_parts
	SET name = $1, description = $2, image_url = $3, category_id = $4,
	    cost = $5, price = $6, location = $7, updated_at = $8
	WHERE id = $9`

	result, err := tx.ExecContext(ctx, query,
		part.Name, part.Description, part.ImageURL, part.CategoryID,
		part.Cost, part.Price, part.Location, part.UpdatedAt, part.ID,
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

	// Full brand set replacement: clear then re-add.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM auto_part_brands WHERE auto_part_id = $1`, part.ID,
	); err != nil {
		return err
	}
	for _, brand := range part.Brands {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO auto_part_brands (auto_part_id, brand_id) VALUES ($1, $2)`,
			part.ID, brand.ID,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *AutoPartRepository) LinkVehicle(ctx context.Context, partID, vehicleID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO auto_part_vehicles (auto_part_id, vehicle_id) VALUES ($1, $2)`,
		partID, vehicleID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ports.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *AutoPartRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM auto_parts WHERE id = $1`, id)
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

func (r *AutoPartRepository) loadRelations(ctx context.Context, part *domain.AutoPart) error {
	brandRows, err := r.db.QueryContext(ctx,
		`SELECT b.id, b.name, b.image_url FROM brands b
		JOIN auto_part_brands pb ON pb.brand_id = b.id
		WHERE pb.auto_part_id = $1
		ORDER BY b.id`, part.ID)
	if err != nil {
		return err
	}
	defer brandRows.Close()

	if part.Brands, err = scanBrands(brandRows); err != nil {
		return err
	}

	vehicleRows, err := r.db.QueryContext(ctx,
		`SELECT v.id, v.brand_id, v.model, v.start_year, v.end_year FROM vehicles v
		JOIN auto_part_vehicles pv ON pv.vehicle_id = v.id
		WHERE pv.auto_part_id = $1
		ORDER BY v.id`, part.ID)
	if err != nil {
		return err
	}
	defer vehicleRows.Close()

	for vehicleRows.Next() {
		var vehicle domain.Vehicle
		var endYear sql.NullInt64
		if err := vehicleRows.Scan(
			&vehicle.ID, &vehicle.BrandID, &vehicle.Model, &vehicle.StartYear, &endYear,
		); err != nil {
			return err
		}
		if endYear.Valid {
			year := int(endYear.Int64)
			vehicle.EndYear = &year
		}
		part.Vehicles = append(part.Vehicles, vehicle)
	}
	return vehicleRows.Err()
}
