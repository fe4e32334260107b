package repositories

import (
	"context"
	"fmt"

	"github.com/lgarzadev/dealercat/internal/models"
)

type PostgresClassificationRepository struct {
	db DB
}

func NewPostgresClassificationRepository(db DB) *PostgresClassificationRepository {
	return &PostgresClassificationRepository{db: db}
}

// List returns all classifications ordered by name; every page's navigation
// is built from this.
func (r *PostgresClassificationRepository) List(ctx context.Context) ([]*models.Classification, error) {
	query := `SELECT classification_id, classification_name
              FROM classification ORDER BY classification_name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list classifications: %w", err)
	}
	defer rows.Close()

	var classifications []*models.Classification
	for rows.Next() {
		var c models.Classification
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan classification: %w", err)
		}
		classifications = append(classifications, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read classifications: %w", err)
	}
	return classifications, nil
}

func (r *PostgresClassificationRepository) Create(ctx context.Context, name string) (*models.Classification, error) {
	query := `INSERT INTO classification (classification_name)
              VALUES ($1)
              RETURNING classification_id, classification_name`

	var c models.Classification
	if err := r.db.QueryRow(ctx, query, name).Scan(&c.ID, &c.Name); err != nil {
		return nil, fmt.Errorf("failed to create classification: %w", err)
	}
	return &c, nil
}
