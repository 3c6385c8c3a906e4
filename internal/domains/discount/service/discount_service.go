package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	businessRepo "smallbiz-backend/internal/domains/business/repository"
	"smallbiz-backend/internal/domains/discount/model"
	"smallbiz-backend/internal/domains/discount/repository"
	"smallbiz-backend/pkg/cache"
)

// activeRulesTTL bounds how stale the cached active rule set can get.
const activeRulesTTL = 5 * time.Minute

// ServiceInterface defines discount rule operations for the acting user.
type ServiceInterface interface {
	Create(ctx context.Context, userID uuid.UUID, req model.CreateRuleRequest) (*model.DiscountRule, error)
	Update(ctx context.Context, userID, ruleID uuid.UUID, req model.UpdateRuleRequest) (*model.DiscountRule, error)
	Delete(ctx context.Context, userID, ruleID uuid.UUID) error
	Get(ctx context.Context, userID, ruleID uuid.UUID) (*model.DiscountRule, error)
	List(ctx context.Context, userID uuid.UUID) ([]model.DiscountRule, error)

	// Preview evaluates the business's active rule set against a
	// candidate bill, as done at bill-creation time.
	Preview(ctx context.Context, userID uuid.UUID, req model.PreviewRequest) (*model.PreviewResult, error)
}

type discountService struct {
	rules      repository.RepositoryInterface
	businesses businessRepo.RepositoryInterface
	evaluator  *Evaluator
	cache      cache.Cache
}

func NewDiscountService(
	rules repository.RepositoryInterface,
	businesses businessRepo.RepositoryInterface,
	evaluator *Evaluator,
	c cache.Cache,
) ServiceInterface {
	return &discountService{
		rules:      rules,
		businesses: businesses,
		evaluator:  evaluator,
		cache:      c,
	}
}

func activeRulesKey(businessID uuid.UUID) string {
	return fmt.Sprintf("discount:active:%s", businessID)
}

func (s *discountService) Create(ctx context.Context, userID uuid.UUID, req model.CreateRuleRequest) (*model.DiscountRule, error) {
	biz, err := s.businesses.ResolveActiveBusiness(ctx, userID)
	if err != nil {
		return nil, err
	}

	rule := &model.DiscountRule{
		ID:            uuid.New(),
		BusinessID:    biz.ID,
		Name:          req.Name,
		Type:          req.Type,
		DiscountValue: decimal.NewFromFloat(req.DiscountValue),
		Conditions:    req.Conditions.ToConditions(),
		IsActive:      req.IsActive,
	}

	if err := s.rules.Create(ctx, rule); err != nil {
		return nil, err
	}
	s.invalidate(ctx, biz.ID)

	log.Info().
		Str("business_id", biz.ID.String()).
		Str("rule_id", rule.ID.String()).
		Str("type", rule.Type).
		Msg("Discount rule created")

	return rule, nil
}

func (s *discountService) Update(ctx context.Context, userID, ruleID uuid.UUID, req model.UpdateRuleRequest) (*model.DiscountRule, error) {
	biz, err := s.businesses.ResolveActiveBusiness(ctx, userID)
	if err != nil {
		return nil, err
	}

	rule := &model.DiscountRule{
		ID:            ruleID,
		BusinessID:    biz.ID,
		Name:          req.Name,
		Type:          req.Type,
		DiscountValue: decimal.NewFromFloat(req.DiscountValue),
		Conditions:    req.Conditions.ToConditions(),
		IsActive:      req.IsActive,
	}

	if err := s.rules.Update(ctx, rule); err != nil {
		return nil, err
	}
	s.invalidate(ctx, biz.ID)

	return s.rules.GetByID(ctx, biz.ID, ruleID)
}

func (s *discountService) Delete(ctx context.Context, userID, ruleID uuid.UUID) error {
	biz, err := s.businesses.ResolveActiveBusiness(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.rules.Delete(ctx, biz.ID, ruleID); err != nil {
		return err
	}
	s.invalidate(ctx, biz.ID)
	return nil
}

func (s *discountService) Get(ctx context.Context, userID, ruleID uuid.UUID) (*model.DiscountRule, error) {
	biz, err := s.businesses.ResolveActiveBusiness(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.rules.GetByID(ctx, biz.ID, ruleID)
}

func (s *discountService) List(ctx context.Context, userID uuid.UUID) ([]model.DiscountRule, error) {
	biz, err := s.businesses.ResolveActiveBusiness(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.rules.ListByBusiness(ctx, biz.ID)
}

func (s *discountService) Preview(ctx context.Context, userID uuid.UUID, req model.PreviewRequest) (*model.PreviewResult, error) {
	biz, err := s.businesses.ResolveActiveBusiness(ctx, userID)
	if err != nil {
		return nil, err
	}

	rules, err := s.activeRules(ctx, biz.ID)
	if err != nil {
		return nil, err
	}

	snapshot := req.ToSnapshot()
	applicable := s.evaluator.Evaluate(rules, snapshot)

	result := &model.PreviewResult{BestDiscount: decimal.Zero}
	for _, rule := range applicable {
		amount := s.evaluator.ComputeDiscount(rule, snapshot)
		result.Applicable = append(result.Applicable, model.AppliedRule{
			Rule:           rule,
			DiscountAmount: amount,
		})
		if amount.GreaterThan(result.BestDiscount) {
			result.BestDiscount = amount
		}
	}

	return result, nil
}

// activeRules serves the active rule set from cache, falling back to the
// repository on a miss. Cache failures degrade to a direct read.
func (s *discountService) activeRules(ctx context.Context, businessID uuid.UUID) ([]model.DiscountRule, error) {
	key := activeRulesKey(businessID)

	var cached []model.DiscountRule
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Rule cache read failed")
	}
	if found {
		return cached, nil
	}

	rules, err := s.rules.ListActiveByBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, rules, activeRulesTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Rule cache write failed")
	}
	return rules, nil
}

func (s *discountService) invalidate(ctx context.Context, businessID uuid.UUID) {
	if err := s.cache.Delete(ctx, activeRulesKey(businessID)); err != nil {
		log.Warn().Err(err).Msg("Rule cache invalidation failed")
	}
}
