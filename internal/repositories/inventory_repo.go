package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lgarzadev/dealercat/internal/models"
)

type PostgresInventoryRepository struct {
	db DB
}

func NewPostgresInventoryRepository(db DB) *PostgresInventoryRepository {
	return &PostgresInventoryRepository{db: db}
}

func (r *PostgresInventoryRepository) ListByClassificationID(ctx context.Context, classificationID int) ([]*models.InventoryItem, error) {
	query := `SELECT i.inv_id, i.inv_make, i.inv_model, i.inv_year, i.inv_description,
                     i.inv_image, i.inv_thumbnail, i.inv_price, i.inv_miles, i.inv_color,
                     i.classification_id, c.classification_name
              FROM inventory AS i
              JOIN classification AS c ON i.classification_id = c.classification_id
              WHERE i.classification_id = $1
              ORDER BY i.inv_make, i.inv_model`

	rows, err := r.db.Query(ctx, query, classificationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	defer rows.Close()

	var items []*models.InventoryItem
	for rows.Next() {
		var it models.InventoryItem
		if err := rows.Scan(&it.ID, &it.Make, &it.Model, &it.Year, &it.Description,
			&it.Image, &it.Thumbnail, &it.Price, &it.Miles, &it.Color,
			&it.ClassificationID, &it.ClassificationName); err != nil {
			return nil, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read inventory: %w", err)
	}
	return items, nil
}

func (r *PostgresInventoryRepository) GetByID(ctx context.Context, id int) (*models.InventoryItem, error) {
	query := `SELECT i.inv_id, i.inv_make, i.inv_model, i.inv_year, i.inv_description,
                     i.inv_image, i.inv_thumbnail, i.inv_price, i.inv_miles, i.inv_color,
                     i.classification_id, c.classification_name
              FROM inventory AS i
              JOIN classification AS c ON i.classification_id = c.classification_id
              WHERE i.inv_id = $1`

	row := r.db.QueryRow(ctx, query, id)

	var it models.InventoryItem
	err := row.Scan(&it.ID, &it.Make, &it.Model, &it.Year, &it.Description,
		&it.Image, &it.Thumbnail, &it.Price, &it.Miles, &it.Color,
		&it.ClassificationID, &it.ClassificationName)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}
	return &it, nil
}

func (r *PostgresInventoryRepository) Create(ctx context.Context, item *models.InventoryItem) error {
	query := `INSERT INTO inventory (inv_make, inv_model, inv_year, inv_description,
                                     inv_image, inv_thumbnail, inv_price, inv_miles, inv_color, classification_id)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
              RETURNING inv_id`

	err := r.db.QueryRow(ctx, query,
		item.Make, item.Model, item.Year, item.Description,
		item.Image, item.Thumbnail, item.Price, item.Miles, item.Color, item.ClassificationID).
		Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("failed to create inventory item: %w", err)
	}
	return nil
}

func (r *PostgresInventoryRepository) Update(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	query := `UPDATE inventory
              SET inv_make = $1, inv_model = $2, inv_year = $3, inv_description = $4,
                  inv_image = $5, inv_thumbnail = $6, inv_price = $7, inv_miles = $8,
                  inv_color = $9, classification_id = $10
              WHERE inv_id = $11
              RETURNING inv_id, inv_make, inv_model, inv_year, inv_description,
                        inv_image, inv_thumbnail, inv_price, inv_miles, inv_color, classification_id`

	row := r.db.QueryRow(ctx, query,
		item.Make, item.Model, item.Year, item.Description,
		item.Image, item.Thumbnail, item.Price, item.Miles, item.Color,
		item.ClassificationID, item.ID)

	var updated models.InventoryItem
	err := row.Scan(&updated.ID, &updated.Make, &updated.Model, &updated.Year, &updated.Description,
		&updated.Image, &updated.Thumbnail, &updated.Price, &updated.Miles, &updated.Color,
		&updated.ClassificationID)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update inventory item: %w", err)
	}
	return &updated, nil
}

func (r *PostgresInventoryRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM inventory WHERE inv_id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
