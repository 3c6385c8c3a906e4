package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"smallbiz-backend/internal/domains/business/model"
)

// RepositoryInterface resolves business scope for an acting user.
type RepositoryInterface interface {
	// ResolveActiveBusiness returns the active business the user belongs
	// to. model.ErrNoBusinessFound when the user has no active
	// membership.
	ResolveActiveBusiness(ctx context.Context, userID uuid.UUID) (*model.Business, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Business, error)
}

type businessRepository struct {
	pool *pgxpool.Pool
}

func NewBusinessRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &businessRepository{pool: pool}
}

func (r *businessRepository) ResolveActiveBusiness(ctx context.Context, userID uuid.UUID) (*model.Business, error) {
	query := `
        SELECT b.id, b.name, b.owner_id, b.is_active, b.created_at
        FROM businesses b
        JOIN business_members m ON m.business_id = b.id
        WHERE m.user_id = $1 AND m.status = 'active' AND b.is_active = true
        ORDER BY m.created_at
        LIMIT 1
    `

	var biz model.Business
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&biz.ID,
		&biz.Name,
		&biz.OwnerID,
		&biz.IsActive,
		&biz.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNoBusinessFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve active business: %w", err)
	}

	return &biz, nil
}

func (r *businessRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Business, error) {
	query := `
        SELECT id, name, owner_id, is_active, created_at
        FROM businesses
        WHERE id = $1
    `

	var biz model.Business
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&biz.ID,
		&biz.Name,
		&biz.OwnerID,
		&biz.IsActive,
		&biz.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNoBusinessFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get business: %w", err)
	}

	return &biz, nil
}
