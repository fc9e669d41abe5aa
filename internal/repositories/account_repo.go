package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ipetrenko/storefront/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `id, name, email, role, password_hash, is_active, activation_token, is_deleted, created_at, updated_at`

type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

func (r *PostgresAccountRepository) Create(ctx context.Context, account *models.Account, onCreated func(context.Context, *models.Account) error) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		query := `INSERT INTO accounts (name, email, role, password_hash, is_active, activation_token)
	              VALUES ($1, $2, $3, $4, $5, $6)
	              RETURNING id, created_at, updated_at`

		err := tx.QueryRow(ctx, query,
			account.Name, strings.ToLower(account.Email), account.Role,
			account.PasswordHash, account.IsActive, account.ActivationToken).
			Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
		if err != nil {
			return err
		}

		if onCreated != nil {
			return onCreated(ctx, account)
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *PostgresAccountRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 AND NOT is_deleted`
	return r.scanAccount(r.pool.QueryRow(ctx, query, id))
}

func (r *PostgresAccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1 AND NOT is_deleted`
	return r.scanAccount(r.pool.QueryRow(ctx, query, strings.ToLower(email)))
}

func (r *PostgresAccountRepository) ConsumeActivationToken(ctx context.Context, token string) (bool, error) {
	query := `UPDATE accounts
	          SET is_active = TRUE, activation_token = NULL, updated_at = NOW()
	          WHERE activation_token = $1 AND NOT is_active AND NOT is_deleted`

	result, err := r.pool.Exec(ctx, query, token)
	if err != nil {
		return false, fmt.Errorf("failed to consume activation token: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *PostgresAccountRepository) Update(ctx context.Context, account *models.Account) error {
	query := `UPDATE accounts
	          SET name = $1, email = $2, password_hash = $3, updated_at = NOW()
	          WHERE id = $4 AND NOT is_deleted`

	result, err := r.pool.Exec(ctx, query,
		account.Name, strings.ToLower(account.Email), account.PasswordHash, account.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to update account: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete marks the account deleted. Repeated deletes succeed silently;
// only an id that never existed reports ErrNotFound.
func (r *PostgresAccountRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE accounts SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresAccountRepository) scanAccount(row pgx.Row) (*models.Account, error) {
	var account models.Account
	err := row.Scan(&account.ID, &account.Name, &account.Email, &account.Role,
		&account.PasswordHash, &account.IsActive, &account.ActivationToken,
		&account.IsDeleted, &account.CreatedAt, &account.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
