package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Rule types. The unit of DiscountValue depends on the type: percentage
// and bulk are percent of the bill total, fixed is a currency amount.
const (
	RuleTypePercentage = "percentage"
	RuleTypeFixed      = "fixed"
	RuleTypeBulk       = "bulk"
)

// BulkMinQuantity is the quantity threshold a bill must reach before a
// bulk rule discounts anything.
const BulkMinQuantity = 10

// DiscountRule is one configured rule (table: discount_rules).
type DiscountRule struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	BusinessID    uuid.UUID       `json:"business_id" db:"business_id"`
	Name          string          `json:"name" db:"name"`
	Type          string          `json:"type" db:"type"`
	DiscountValue decimal.Decimal `json:"discount_value" db:"discount_value"`
	Conditions    RuleConditions  `json:"conditions" db:"conditions"` // JSONB
	IsActive      bool            `json:"is_active" db:"is_active"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// RuleConditions gate when a rule applies. Every field is optional; an
// unset condition always matches.
type RuleConditions struct {
	MinAmount   *decimal.Decimal `json:"min_amount,omitempty"`
	MinQuantity *int             `json:"min_quantity,omitempty"`
	Categories  []string         `json:"categories,omitempty"`
	StartDate   *time.Time       `json:"start_date,omitempty"`
	EndDate     *time.Time       `json:"end_date,omitempty"`
}

// BillSnapshot is the read-only view of a candidate bill that rules are
// evaluated against. Evaluation never mutates the bill.
type BillSnapshot struct {
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TotalQuantity int             `json:"total_quantity"`
	Categories    []string        `json:"categories"`
	BillDate      time.Time       `json:"bill_date"`
}

// AppliedRule pairs an applicable rule with its computed discount.
type AppliedRule struct {
	Rule           DiscountRule    `json:"rule"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}

// PreviewResult is returned by rule evaluation at bill-creation time.
type PreviewResult struct {
	Applicable   []AppliedRule   `json:"applicable"`
	BestDiscount decimal.Decimal `json:"best_discount"`
}
