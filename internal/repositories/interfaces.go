package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lgarzadev/dealercat/internal/models"
)

// DB is the subset of *pgxpool.Pool the repositories use. pgxmock satisfies
// the same surface in tests.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id int) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, id int, firstName, lastName, email string) (*models.Account, error)
	UpdatePassword(ctx context.Context, id int, passwordHash string) (*models.Account, error)
}

type ClassificationRepository interface {
	List(ctx context.Context) ([]*models.Classification, error)
	Create(ctx context.Context, name string) (*models.Classification, error)
}

type InventoryRepository interface {
	ListByClassificationID(ctx context.Context, classificationID int) ([]*models.InventoryItem, error)
	GetByID(ctx context.Context, id int) (*models.InventoryItem, error)
	Create(ctx context.Context, item *models.InventoryItem) error
	Update(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error)
	Delete(ctx context.Context, id int) error
}

type ReviewRepository interface {
	ListByInventoryID(ctx context.Context, inventoryID int) ([]*models.Review, error)
	Create(ctx context.Context, review *models.Review) error
	AverageRating(ctx context.Context, inventoryID int) (float64, bool, error)
}

// FlashStore holds one-shot notices across a redirect.
type FlashStore interface {
	Put(ctx context.Context, id, notice string) error
	Take(ctx context.Context, id string) (string, error)
}
