package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"smallbiz-backend/internal/domains/discount/model"
)

// RepositoryInterface defines discount rule data access. Every query is
// scoped by business id.
type RepositoryInterface interface {
	Create(ctx context.Context, rule *model.DiscountRule) error
	Update(ctx context.Context, rule *model.DiscountRule) error
	Delete(ctx context.Context, businessID, ruleID uuid.UUID) error
	GetByID(ctx context.Context, businessID, ruleID uuid.UUID) (*model.DiscountRule, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]model.DiscountRule, error)
	ListActiveByBusiness(ctx context.Context, businessID uuid.UUID) ([]model.DiscountRule, error)
}

type discountRepository struct {
	pool *pgxpool.Pool
}

func NewDiscountRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &discountRepository{pool: pool}
}

func (r *discountRepository) Create(ctx context.Context, rule *model.DiscountRule) error {
	query := `
        INSERT INTO discount_rules (
            id, business_id, name, type, discount_value, conditions,
            is_active, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `

	conditions, err := json.Marshal(rule.Conditions)
	if err != nil {
		return fmt.Errorf("failed to marshal rule conditions: %w", err)
	}

	rule.CreatedAt = time.Now()

	_, err = r.pool.Exec(ctx, query,
		rule.ID,
		rule.BusinessID,
		rule.Name,
		rule.Type,
		rule.DiscountValue,
		conditions,
		rule.IsActive,
		rule.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create discount rule: %w", err)
	}

	return nil
}

func (r *discountRepository) Update(ctx context.Context, rule *model.DiscountRule) error {
	query := `
        UPDATE discount_rules
        SET name = $1, type = $2, discount_value = $3, conditions = $4, is_active = $5
        WHERE id = $6 AND business_id = $7
    `

	conditions, err := json.Marshal(rule.Conditions)
	if err != nil {
		return fmt.Errorf("failed to marshal rule conditions: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query,
		rule.Name,
		rule.Type,
		rule.DiscountValue,
		conditions,
		rule.IsActive,
		rule.ID,
		rule.BusinessID,
	)
	if err != nil {
		return fmt.Errorf("failed to update discount rule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrRuleNotFound
	}

	return nil
}

func (r *discountRepository) Delete(ctx context.Context, businessID, ruleID uuid.UUID) error {
	query := `DELETE FROM discount_rules WHERE id = $1 AND business_id = $2`

	tag, err := r.pool.Exec(ctx, query, ruleID, businessID)
	if err != nil {
		return fmt.Errorf("failed to delete discount rule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrRuleNotFound
	}

	return nil
}

func (r *discountRepository) GetByID(ctx context.Context, businessID, ruleID uuid.UUID) (*model.DiscountRule, error) {
	query := `
        SELECT id, business_id, name, type, discount_value, conditions,
               is_active, created_at
        FROM discount_rules
        WHERE id = $1 AND business_id = $2
    `

	rule, err := scanRule(r.pool.QueryRow(ctx, query, ruleID, businessID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get discount rule: %w", err)
	}

	return rule, nil
}

func (r *discountRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]model.DiscountRule, error) {
	query := `
        SELECT id, business_id, name, type, discount_value, conditions,
               is_active, created_at
        FROM discount_rules
        WHERE business_id = $1
        ORDER BY created_at DESC
    `
	return r.queryRules(ctx, query, businessID)
}

func (r *discountRepository) ListActiveByBusiness(ctx context.Context, businessID uuid.UUID) ([]model.DiscountRule, error) {
	query := `
        SELECT id, business_id, name, type, discount_value, conditions,
               is_active, created_at
        FROM discount_rules
        WHERE business_id = $1 AND is_active = true
        ORDER BY created_at DESC
    `
	return r.queryRules(ctx, query, businessID)
}

func (r *discountRepository) queryRules(ctx context.Context, query string, businessID uuid.UUID) ([]model.DiscountRule, error) {
	rows, err := r.pool.Query(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to list discount rules: %w", err)
	}
	defer rows.Close()

	var rules []model.DiscountRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan discount rule: %w", err)
		}
		rules = append(rules, *rule)
	}

	return rules, nil
}

func scanRule(row pgx.Row) (*model.DiscountRule, error) {
	var rule model.DiscountRule
	var conditions []byte
	err := row.Scan(
		&rule.ID,
		&rule.BusinessID,
		&rule.Name,
		&rule.Type,
		&rule.DiscountValue,
		&conditions,
		&rule.IsActive,
		&rule.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(conditions) > 0 {
		if err := json.Unmarshal(conditions, &rule.Conditions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal rule conditions: %w", err)
		}
	}
	return &rule, nil
}
