package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"smallbiz-backend/internal/domains/bill/model"
)

// RepositoryInterface defines bill data access.
type RepositoryInterface interface {
	Create(ctx context.Context, bill *model.Bill) error
	ListByBusiness(ctx context.Context, businessID uuid.UUID, limit, offset int) ([]model.Bill, error)
}

type billRepository struct {
	pool *pgxpool.Pool
}

func NewBillRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &billRepository{pool: pool}
}

func (r *billRepository) Create(ctx context.Context, bill *model.Bill) error {
	query := `
        INSERT INTO bills (
            id, business_id, customer_name, total_amount, status,
            due_date, notes, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `

	now := time.Now()
	bill.CreatedAt = now
	bill.UpdatedAt = now

	_, err := r.pool.Exec(ctx, query,
		bill.ID,
		bill.BusinessID,
		bill.CustomerName,
		bill.TotalAmount,
		bill.Status,
		bill.DueDate,
		bill.Notes,
		bill.CreatedAt,
		bill.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create bill: %w", err)
	}

	return nil
}

func (r *billRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID, limit, offset int) ([]model.Bill, error) {
	query := `
        SELECT id, business_id, customer_name, total_amount, status,
               due_date, notes, created_at, updated_at
        FROM bills
        WHERE business_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3
    `

	rows, err := r.pool.Query(ctx, query, businessID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	var bills []model.Bill
	for rows.Next() {
		var b model.Bill
		err := rows.Scan(
			&b.ID,
			&b.BusinessID,
			&b.CustomerName,
			&b.TotalAmount,
			&b.Status,
			&b.DueDate,
			&b.Notes,
			&b.CreatedAt,
			&b.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, b)
	}

	return bills, nil
}
