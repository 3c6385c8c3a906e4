package service

import (
	"sort"

	"github.com/shopspring/decimal"

	"smallbiz-backend/internal/domains/discount/model"
)

var oneHundred = decimal.NewFromInt(100)

// Evaluator filters a business's rule set against a candidate bill and
// computes discount amounts. Pure; it never mutates the bill snapshot.
type Evaluator struct{}

func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate returns the active rules whose conditions the bill satisfies,
// sorted descending by raw discount value. The ordering compares
// percentage and fixed-currency magnitudes without normalization; that
// quirk is intentional and relied on by existing callers.
func (e *Evaluator) Evaluate(rules []model.DiscountRule, bill model.BillSnapshot) []model.DiscountRule {
	var applicable []model.DiscountRule
	for _, rule := range rules {
		if rule.IsActive && e.matches(rule, bill) {
			applicable = append(applicable, rule)
		}
	}

	sort.SliceStable(applicable, func(i, j int) bool {
		return applicable[i].DiscountValue.GreaterThan(applicable[j].DiscountValue)
	})
	return applicable
}

func (e *Evaluator) matches(rule model.DiscountRule, bill model.BillSnapshot) bool {
	cond := rule.Conditions

	if cond.MinAmount != nil && bill.TotalAmount.LessThan(*cond.MinAmount) {
		return false
	}
	if cond.MinQuantity != nil && bill.TotalQuantity < *cond.MinQuantity {
		return false
	}
	if len(cond.Categories) > 0 && !intersects(cond.Categories, bill.Categories) {
		return false
	}
	if cond.StartDate != nil && bill.BillDate.Before(*cond.StartDate) {
		return false
	}
	if cond.EndDate != nil && bill.BillDate.After(*cond.EndDate) {
		return false
	}
	return true
}

// ComputeDiscount returns the discount amount for one rule against the
// bill total. Percentage and bulk rules discount a share of the total;
// fixed rules never discount more than the total itself.
func (e *Evaluator) ComputeDiscount(rule model.DiscountRule, bill model.BillSnapshot) decimal.Decimal {
	switch rule.Type {
	case model.RuleTypePercentage:
		return bill.TotalAmount.Mul(rule.DiscountValue).Div(oneHundred)

	case model.RuleTypeFixed:
		if rule.DiscountValue.GreaterThan(bill.TotalAmount) {
			return bill.TotalAmount
		}
		return rule.DiscountValue

	case model.RuleTypeBulk:
		if bill.TotalQuantity < model.BulkMinQuantity {
			return decimal.Zero
		}
		return bill.TotalAmount.Mul(rule.DiscountValue).Div(oneHundred)
	}

	return decimal.Zero
}

func intersects(a, b []string) bool {
	set := make(map[string]bool, len(a))
	for _, s := range a {
		set[s] = true
	}
	for _, s := range b {
		if set[s] {
			return true
		}
	}
	return false
}
