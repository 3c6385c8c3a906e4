package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Bill statuses. Imported bills default to draft unless the source file
// says otherwise.
const (
	StatusDraft = "draft"
	StatusPaid  = "paid"
)

// Bill is one customer invoice (table: bills).
type Bill struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	BusinessID   uuid.UUID       `json:"business_id" db:"business_id"`
	CustomerName string          `json:"customer_name" db:"customer_name"`
	TotalAmount  decimal.Decimal `json:"total_amount" db:"total_amount"`
	Status       string          `json:"status" db:"status"`
	DueDate      *time.Time      `json:"due_date,omitempty" db:"due_date"`
	Notes        string          `json:"notes" db:"notes"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}
