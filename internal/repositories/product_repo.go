package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/ipetrenko/storefront/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const productColumns = `id, name, description, price, is_available, creator_id, is_deleted, created_at`

type PostgresProductRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresProductRepository(pool *pgxpool.Pool) *PostgresProductRepository {
	return &PostgresProductRepository{pool: pool}
}

func (r *PostgresProductRepository) Create(ctx context.Context, product *models.Product) error {
	query := `INSERT INTO products (name, description, price, is_available, creator_id)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		product.Name, product.Description, product.Price, product.IsAvailable, product.CreatorID).
		Scan(&product.ID, &product.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *PostgresProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND NOT is_deleted`

	var product models.Product
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&product.ID, &product.Name, &product.Description, &product.Price,
		&product.IsAvailable, &product.CreatorID, &product.IsDeleted, &product.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

func (r *PostgresProductRepository) ListByCreator(ctx context.Context, creatorID int64) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
	          WHERE creator_id = $1 AND NOT is_deleted
	          ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

func (r *PostgresProductRepository) Search(ctx context.Context, creatorID int64, filter ProductFilter) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
	          WHERE creator_id = $1 AND NOT is_deleted`
	args := []any{creatorID}

	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		query += fmt.Sprintf(` AND (name ILIKE $%d OR description ILIKE $%d)`, len(args), len(args))
	}
	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		query += fmt.Sprintf(` AND price >= $%d`, len(args))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		query += fmt.Sprintf(` AND price <= $%d`, len(args))
	}
	if filter.IsAvailable != nil {
		args = append(args, *filter.IsAvailable)
		query += fmt.Sprintf(` AND is_available = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

func (r *PostgresProductRepository) Update(ctx context.Context, product *models.Product) error {
	query := `UPDATE products
	          SET name = $1, description = $2, price = $3, is_available = $4
	          WHERE id = $5 AND NOT is_deleted`

	result, err := r.pool.Exec(ctx, query,
		product.Name, product.Description, product.Price, product.IsAvailable, product.ID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresProductRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE products SET is_deleted = TRUE WHERE id = $1 AND NOT is_deleted`
	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func collectProducts(rows pgx.Rows) ([]*models.Product, error) {
	products := []*models.Product{}
	for rows.Next() {
		var product models.Product
		err := rows.Scan(&product.ID, &product.Name, &product.Description, &product.Price,
			&product.IsAvailable, &product.CreatorID, &product.IsDeleted, &product.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, &product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}
	return products, nil
}
