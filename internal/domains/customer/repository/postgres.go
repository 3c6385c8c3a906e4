package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"smallbiz-backend/internal/domains/customer/model"
)

// RepositoryInterface defines customer data access.
type RepositoryInterface interface {
	Create(ctx context.Context, customer *model.Customer) error
	ListByBusiness(ctx context.Context, businessID uuid.UUID, limit, offset int) ([]model.Customer, error)
}

type customerRepository struct {
	pool *pgxpool.Pool
}

func NewCustomerRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &customerRepository{pool: pool}
}

func (r *customerRepository) Create(ctx context.Context, customer *model.Customer) error {
	query := `
        INSERT INTO customers (
            id, business_id, name, email, phone, address, company,
            created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `

	now := time.Now()
	customer.CreatedAt = now
	customer.UpdatedAt = now

	_, err := r.pool.Exec(ctx, query,
		customer.ID,
		customer.BusinessID,
		customer.Name,
		customer.Email,
		customer.Phone,
		customer.Address,
		customer.Company,
		customer.CreatedAt,
		customer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

func (r *customerRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID, limit, offset int) ([]model.Customer, error) {
	query := `
        SELECT id, business_id, name, email, phone, address, company,
               created_at, updated_at
        FROM customers
        WHERE business_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3
    `

	rows, err := r.pool.Query(ctx, query, businessID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []model.Customer
	for rows.Next() {
		var c model.Customer
		err := rows.Scan(
			&c.ID,
			&c.BusinessID,
			&c.Name,
			&c.Email,
			&c.Phone,
			&c.Address,
			&c.Company,
			&c.CreatedAt,
			&c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}

	return customers, nil
}
