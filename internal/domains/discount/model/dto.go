package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// ConditionsRequest mirrors RuleConditions for create/update payloads.
type ConditionsRequest struct {
	MinAmount   *float64 `json:"min_amount"`
	MinQuantity *int     `json:"min_quantity"`
	Categories  []string `json:"categories"`
	StartDate   *string  `json:"start_date"` // YYYY-MM-DD
	EndDate     *string  `json:"end_date"`
}

// CreateRuleRequest is the payload for creating a discount rule.
type CreateRuleRequest struct {
	Name          string            `json:"name"`
	Type          string            `json:"type"`
	DiscountValue float64           `json:"discount_value"`
	Conditions    ConditionsRequest `json:"conditions"`
	IsActive      bool              `json:"is_active"`
}

func (r CreateRuleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("rule name is required"),
			validation.Length(2, 100).Error("rule name must be 2-100 characters"),
		),
		validation.Field(&r.Type,
			validation.Required.Error("rule type is required"),
			validation.In(RuleTypePercentage, RuleTypeFixed, RuleTypeBulk).
				Error("type must be percentage, fixed or bulk"),
		),
		validation.Field(&r.DiscountValue,
			validation.Required.Error("discount value is required"),
			validation.Min(0.01).Error("discount value must be greater than 0"),
		),
		validation.Field(&r.Conditions),
	)
}

func (c ConditionsRequest) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.MinAmount,
			validation.When(c.MinAmount != nil, validation.Min(0.0).Error("min_amount must be >= 0")),
		),
		validation.Field(&c.MinQuantity,
			validation.When(c.MinQuantity != nil, validation.Min(1).Error("min_quantity must be >= 1")),
		),
		validation.Field(&c.StartDate, validation.By(optionalDate)),
		validation.Field(&c.EndDate, validation.By(optionalDate)),
	)
}

func optionalDate(value interface{}) error {
	s, _ := value.(*string)
	if s == nil || *s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", *s); err != nil {
		return validation.NewError("validation_date", "must be a date in YYYY-MM-DD format")
	}
	return nil
}

// ToConditions converts the request payload to persisted conditions.
func (c ConditionsRequest) ToConditions() RuleConditions {
	cond := RuleConditions{
		MinQuantity: c.MinQuantity,
		Categories:  c.Categories,
	}
	if c.MinAmount != nil {
		amount := decimal.NewFromFloat(*c.MinAmount)
		cond.MinAmount = &amount
	}
	if c.StartDate != nil && *c.StartDate != "" {
		if t, err := time.Parse("2006-01-02", *c.StartDate); err == nil {
			cond.StartDate = &t
		}
	}
	if c.EndDate != nil && *c.EndDate != "" {
		if t, err := time.Parse("2006-01-02", *c.EndDate); err == nil {
			cond.EndDate = &t
		}
	}
	return cond
}

// UpdateRuleRequest shares the create payload shape.
type UpdateRuleRequest = CreateRuleRequest

// PreviewRequest is the candidate bill submitted for rule evaluation.
type PreviewRequest struct {
	TotalAmount   float64  `json:"total_amount"`
	TotalQuantity int      `json:"total_quantity"`
	Categories    []string `json:"categories"`
	BillDate      *string  `json:"bill_date"` // YYYY-MM-DD, defaults to today
}

func (r PreviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.TotalAmount,
			validation.Required.Error("total_amount is required"),
			validation.Min(0.01).Error("total_amount must be greater than 0"),
		),
		validation.Field(&r.TotalQuantity,
			validation.Min(0).Error("total_quantity must be >= 0"),
		),
		validation.Field(&r.BillDate, validation.By(optionalDate)),
	)
}

// ToSnapshot converts the request into an evaluation snapshot.
func (r PreviewRequest) ToSnapshot() BillSnapshot {
	snapshot := BillSnapshot{
		TotalAmount:   decimal.NewFromFloat(r.TotalAmount),
		TotalQuantity: r.TotalQuantity,
		Categories:    r.Categories,
		BillDate:      time.Now(),
	}
	if r.BillDate != nil && *r.BillDate != "" {
		if t, err := time.Parse("2006-01-02", *r.BillDate); err == nil {
			snapshot.BillDate = t
		}
	}
	return snapshot
}
