package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smallbiz-backend/internal/domains/discount/model"
)

func rule(ruleType string, value float64, conditions model.RuleConditions) model.DiscountRule {
	return model.DiscountRule{
		ID:            uuid.New(),
		Type:          ruleType,
		DiscountValue: decimal.NewFromFloat(value),
		Conditions:    conditions,
		IsActive:      true,
	}
}

func bill(total float64, quantity int, categories ...string) model.BillSnapshot {
	return model.BillSnapshot{
		TotalAmount:   decimal.NewFromFloat(total),
		TotalQuantity: quantity,
		Categories:    categories,
		BillDate:      time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestComputeDiscountPercentage(t *testing.T) {
	e := NewEvaluator()

	amount := e.ComputeDiscount(rule(model.RuleTypePercentage, 10, model.RuleConditions{}), bill(200, 1))
	assert.True(t, amount.Equal(decimal.NewFromInt(20)), "got %s", amount)
}

func TestComputeDiscountFixedCappedAtTotal(t *testing.T) {
	e := NewEvaluator()

	amount := e.ComputeDiscount(rule(model.RuleTypeFixed, 50, model.RuleConditions{}), bill(200, 1))
	assert.True(t, amount.Equal(decimal.NewFromInt(50)), "got %s", amount)

	// a fixed discount never exceeds the bill total
	amount = e.ComputeDiscount(rule(model.RuleTypeFixed, 50, model.RuleConditions{}), bill(30, 1))
	assert.True(t, amount.Equal(decimal.NewFromInt(30)), "got %s", amount)
}

func TestComputeDiscountBulkThreshold(t *testing.T) {
	e := NewEvaluator()
	r := rule(model.RuleTypeBulk, 5, model.RuleConditions{})

	amount := e.ComputeDiscount(r, bill(1000, 9))
	assert.True(t, amount.IsZero(), "below the quantity threshold: got %s", amount)

	amount = e.ComputeDiscount(r, bill(1000, 10))
	assert.True(t, amount.Equal(decimal.NewFromInt(50)), "got %s", amount)
}

func TestComputeDiscountUnknownTypeIsZero(t *testing.T) {
	e := NewEvaluator()

	amount := e.ComputeDiscount(rule("loyalty", 10, model.RuleConditions{}), bill(200, 1))
	assert.True(t, amount.IsZero())
}

func TestEvaluateFiltersInactiveRules(t *testing.T) {
	e := NewEvaluator()

	inactive := rule(model.RuleTypePercentage, 10, model.RuleConditions{})
	inactive.IsActive = false

	applicable := e.Evaluate([]model.DiscountRule{inactive}, bill(200, 1))
	assert.Empty(t, applicable)
}

func TestEvaluateConditions(t *testing.T) {
	e := NewEvaluator()

	minAmount := decimal.NewFromInt(500)
	minQty := 5

	tests := []struct {
		name    string
		rule    model.DiscountRule
		bill    model.BillSnapshot
		matches bool
	}{
		{
			"min amount met",
			rule(model.RuleTypePercentage, 10, model.RuleConditions{MinAmount: &minAmount}),
			bill(600, 1),
			true,
		},
		{
			"min amount not met",
			rule(model.RuleTypePercentage, 10, model.RuleConditions{MinAmount: &minAmount}),
			bill(400, 1),
			false,
		},
		{
			"min quantity not met",
			rule(model.RuleTypePercentage, 10, model.RuleConditions{MinQuantity: &minQty}),
			bill(600, 4),
			false,
		},
		{
			"category intersects",
			rule(model.RuleTypePercentage, 10, model.RuleConditions{Categories: []string{"Beverages"}}),
			bill(600, 1, "Beverages", "Snacks"),
			true,
		},
		{
			"category disjoint",
			rule(model.RuleTypePercentage, 10, model.RuleConditions{Categories: []string{"Electronics"}}),
			bill(600, 1, "Beverages"),
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			applicable := e.Evaluate([]model.DiscountRule{tt.rule}, tt.bill)
			if tt.matches {
				assert.Len(t, applicable, 1)
			} else {
				assert.Empty(t, applicable)
			}
		})
	}
}

func TestEvaluateDateWindow(t *testing.T) {
	e := NewEvaluator()

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	r := rule(model.RuleTypePercentage, 10, model.RuleConditions{StartDate: &start, EndDate: &end})

	inWindow := bill(200, 1)
	assert.Len(t, e.Evaluate([]model.DiscountRule{r}, inWindow), 1)

	before := inWindow
	before.BillDate = time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)
	assert.Empty(t, e.Evaluate([]model.DiscountRule{r}, before))

	after := inWindow
	after.BillDate = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	assert.Empty(t, e.Evaluate([]model.DiscountRule{r}, after))
}

func TestEvaluateSortsByRawDiscountValue(t *testing.T) {
	e := NewEvaluator()

	// A fixed rule worth 40 currency units sorts above a 15% rule because
	// the ordering compares raw values regardless of unit.
	percentage := rule(model.RuleTypePercentage, 15, model.RuleConditions{})
	fixed := rule(model.RuleTypeFixed, 40, model.RuleConditions{})

	applicable := e.Evaluate([]model.DiscountRule{percentage, fixed}, bill(1000, 1))
	require.Len(t, applicable, 2)
	assert.Equal(t, fixed.ID, applicable[0].ID)
	assert.Equal(t, percentage.ID, applicable[1].ID)
}
