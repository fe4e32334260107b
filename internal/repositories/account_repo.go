package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lgarzadev/dealercat/internal/models"
)

var ErrNotFound = errors.New("not found")

type PostgresAccountRepository struct {
	db DB
}

func NewPostgresAccountRepository(db DB) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

func (r *PostgresAccountRepository) Create(ctx context.Context, account *models.Account) error {
	query := `INSERT INTO account (account_firstname, account_lastname, account_email, account_password, account_type)
              VALUES ($1, $2, $3, $4, $5)
              RETURNING account_id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		account.FirstName, account.LastName, account.Email, account.PasswordHash, account.Role).
		Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *PostgresAccountRepository) GetByID(ctx context.Context, id int) (*models.Account, error) {
	query := `SELECT account_id, account_firstname, account_lastname, account_email, account_password, account_type, created_at, updated_at
              FROM account WHERE account_id = $1`

	row := r.db.QueryRow(ctx, query, id)

	var account models.Account
	err := row.Scan(&account.ID, &account.FirstName, &account.LastName, &account.Email,
		&account.PasswordHash, &account.Role, &account.CreatedAt, &account.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

// GetByEmail matches case-insensitively; email uniqueness is enforced the
// same way.
func (r *PostgresAccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT account_id, account_firstname, account_lastname, account_email, account_password, account_type, created_at, updated_at
              FROM account WHERE LOWER(account_email) = LOWER($1)`

	row := r.db.QueryRow(ctx, query, email)

	var account models.Account
	err := row.Scan(&account.ID, &account.FirstName, &account.LastName, &account.Email,
		&account.PasswordHash, &account.Role, &account.CreatedAt, &account.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func (r *PostgresAccountRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT COUNT(*) FROM account WHERE LOWER(account_email) = LOWER($1)`

	var count int
	if err := r.db.QueryRow(ctx, query, email).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return count > 0, nil
}

// Update replaces the mutable profile fields and returns the freshly
// persisted row so callers can re-issue the session from it.
func (r *PostgresAccountRepository) Update(ctx context.Context, id int, firstName, lastName, email string) (*models.Account, error) {
	query := `UPDATE account
              SET account_firstname = $1, account_lastname = $2, account_email = $3, updated_at = NOW()
              WHERE account_id = $4
              RETURNING account_id, account_firstname, account_lastname, account_email, account_password, account_type, created_at, updated_at`

	row := r.db.QueryRow(ctx, query, firstName, lastName, email, id)

	var account models.Account
	err := row.Scan(&account.ID, &account.FirstName, &account.LastName, &account.Email,
		&account.PasswordHash, &account.Role, &account.CreatedAt, &account.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return &account, nil
}

// UpdatePassword replaces the stored hash wholesale.
func (r *PostgresAccountRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) (*models.Account, error) {
	query := `UPDATE account
              SET account_password = $1, updated_at = NOW()
              WHERE account_id = $2
              RETURNING account_id, account_firstname, account_lastname, account_email, account_password, account_type, created_at, updated_at`

	row := r.db.QueryRow(ctx, query, passwordHash, id)

	var account models.Account
	err := row.Scan(&account.ID, &account.FirstName, &account.LastName, &account.Email,
		&account.PasswordHash, &account.Role, &account.CreatedAt, &account.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update account password: %w", err)
	}
	return &account, nil
}
