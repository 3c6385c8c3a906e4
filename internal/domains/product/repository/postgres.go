package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"smallbiz-backend/internal/domains/product/model"
)

// RepositoryInterface defines product data access.
type RepositoryInterface interface {
	Create(ctx context.Context, product *model.Product) error
	ListByBusiness(ctx context.Context, businessID uuid.UUID, limit, offset int) ([]model.Product, error)
}

type productRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &productRepository{pool: pool}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	query := `
        INSERT INTO products (
            id, business_id, name, price, category,
            stock_quantity, min_stock_level, sku, brand, description,
            created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    `

	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	_, err := r.pool.Exec(ctx, query,
		product.ID,
		product.BusinessID,
		product.Name,
		product.Price,
		product.Category,
		product.StockQuantity,
		product.MinStockLevel,
		product.SKU,
		product.Brand,
		product.Description,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

func (r *productRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID, limit, offset int) ([]model.Product, error) {
	query := `
        SELECT id, business_id, name, price, category,
               stock_quantity, min_stock_level, sku, brand, description,
               created_at, updated_at
        FROM products
        WHERE business_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3
    `

	rows, err := r.pool.Query(ctx, query, businessID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		err := rows.Scan(
			&p.ID,
			&p.BusinessID,
			&p.Name,
			&p.Price,
			&p.Category,
			&p.StockQuantity,
			&p.MinStockLevel,
			&p.SKU,
			&p.Brand,
			&p.Description,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	return products, nil
}
