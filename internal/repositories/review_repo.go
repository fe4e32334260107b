package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lgarzadev/dealercat/internal/models"
)

type PostgresReviewRepository struct {
	db DB
}

func NewPostgresReviewRepository(db DB) *PostgresReviewRepository {
	return &PostgresReviewRepository{db: db}
}

func (r *PostgresReviewRepository) ListByInventoryID(ctx context.Context, inventoryID int) ([]*models.Review, error) {
	query := `SELECT r.review_id, r.inv_id, r.account_id, r.rating, r.comment, r.created_at,
                     a.account_firstname, a.account_lastname
              FROM review AS r
              JOIN account AS a ON r.account_id = a.account_id
              WHERE r.inv_id = $1
              ORDER BY r.created_at DESC`

	rows, err := r.db.Query(ctx, query, inventoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*models.Review
	for rows.Next() {
		var rev models.Review
		if err := rows.Scan(&rev.ID, &rev.InventoryID, &rev.AccountID, &rev.Rating, &rev.Comment,
			&rev.CreatedAt, &rev.ReviewerFirstName, &rev.ReviewerLastName); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, &rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reviews: %w", err)
	}
	return reviews, nil
}

func (r *PostgresReviewRepository) Create(ctx context.Context, review *models.Review) error {
	query := `INSERT INTO review (inv_id, account_id, rating, comment)
              VALUES ($1, $2, $3, $4)
              RETURNING review_id, created_at`

	err := r.db.QueryRow(ctx, query,
		review.InventoryID, review.AccountID, review.Rating, review.Comment).
		Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// AverageRating reports the mean rating and whether any reviews exist.
func (r *PostgresReviewRepository) AverageRating(ctx context.Context, inventoryID int) (float64, bool, error) {
	query := `SELECT AVG(rating)::numeric(10, 2) FROM review WHERE inv_id = $1`

	var avg *float64
	err := r.db.QueryRow(ctx, query, inventoryID).Scan(&avg)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get average rating: %w", err)
	}
	if avg == nil {
		return 0, false, nil
	}
	return *avg, true, nil
}
