package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	businessModel "smallbiz-backend/internal/domains/business/model"
	"smallbiz-backend/internal/domains/discount/model"
)

type fakeBusinessRepo struct {
	business *businessModel.Business
	err      error
}

func (f *fakeBusinessRepo) ResolveActiveBusiness(ctx context.Context, userID uuid.UUID) (*businessModel.Business, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.business, nil
}

func (f *fakeBusinessRepo) GetByID(ctx context.Context, id uuid.UUID) (*businessModel.Business, error) {
	return f.business, nil
}

type fakeRuleRepo struct {
	rules       map[uuid.UUID]model.DiscountRule
	activeReads int
}

func newFakeRuleRepo() *fakeRuleRepo {
	return &fakeRuleRepo{rules: make(map[uuid.UUID]model.DiscountRule)}
}

func (f *fakeRuleRepo) Create(ctx context.Context, rule *model.DiscountRule) error {
	f.rules[rule.ID] = *rule
	return nil
}

func (f *fakeRuleRepo) Update(ctx context.Context, rule *model.DiscountRule) error {
	if _, ok := f.rules[rule.ID]; !ok {
		return model.ErrRuleNotFound
	}
	f.rules[rule.ID] = *rule
	return nil
}

func (f *fakeRuleRepo) Delete(ctx context.Context, businessID, ruleID uuid.UUID) error {
	if _, ok := f.rules[ruleID]; !ok {
		return model.ErrRuleNotFound
	}
	delete(f.rules, ruleID)
	return nil
}

func (f *fakeRuleRepo) GetByID(ctx context.Context, businessID, ruleID uuid.UUID) (*model.DiscountRule, error) {
	rule, ok := f.rules[ruleID]
	if !ok {
		return nil, model.ErrRuleNotFound
	}
	return &rule, nil
}

func (f *fakeRuleRepo) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]model.DiscountRule, error) {
	var out []model.DiscountRule
	for _, rule := range f.rules {
		out = append(out, rule)
	}
	return out, nil
}

func (f *fakeRuleRepo) ListActiveByBusiness(ctx context.Context, businessID uuid.UUID) ([]model.DiscountRule, error) {
	f.activeReads++
	var out []model.DiscountRule
	for _, rule := range f.rules {
		if rule.IsActive {
			out = append(out, rule)
		}
	}
	return out, nil
}

// fakeCache is an in-memory JSON cache.
type fakeCache struct {
	entries map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (f *fakeCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, ok := f.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = data
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.entries, key)
	}
	return nil
}

func (f *fakeCache) Ping(ctx context.Context) error { return nil }

type serviceFixture struct {
	service ServiceInterface
	repo    *fakeRuleRepo
	cache   *fakeCache
	userID  uuid.UUID
	bizID   uuid.UUID
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	f := &serviceFixture{
		repo:   newFakeRuleRepo(),
		cache:  newFakeCache(),
		userID: uuid.New(),
		bizID:  uuid.New(),
	}
	businesses := &fakeBusinessRepo{
		business: &businessModel.Business{ID: f.bizID, Name: "Asha Traders", IsActive: true},
	}
	f.service = NewDiscountService(f.repo, businesses, NewEvaluator(), f.cache)
	return f
}

func createReq(name string) model.CreateRuleRequest {
	return model.CreateRuleRequest{
		Name:          name,
		Type:          model.RuleTypePercentage,
		DiscountValue: 10,
		IsActive:      true,
	}
}

func TestCreateScopesRuleToActiveBusiness(t *testing.T) {
	f := newServiceFixture(t)

	rule, err := f.service.Create(context.Background(), f.userID, createReq("Summer sale"))
	require.NoError(t, err)
	assert.Equal(t, f.bizID, rule.BusinessID)
	assert.Equal(t, "Summer sale", rule.Name)
}

func TestCreateWithoutBusinessFails(t *testing.T) {
	f := newServiceFixture(t)
	f.service = NewDiscountService(f.repo, &fakeBusinessRepo{err: businessModel.ErrNoBusinessFound}, NewEvaluator(), f.cache)

	_, err := f.service.Create(context.Background(), f.userID, createReq("Summer sale"))
	assert.ErrorIs(t, err, businessModel.ErrNoBusinessFound)
}

func TestPreviewPicksBestDiscount(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.Create(context.Background(), f.userID, createReq("Ten percent"))
	require.NoError(t, err)

	fixed := createReq("Flat fifty")
	fixed.Type = model.RuleTypeFixed
	fixed.DiscountValue = 50
	_, err = f.service.Create(context.Background(), f.userID, fixed)
	require.NoError(t, err)

	result, err := f.service.Preview(context.Background(), f.userID, model.PreviewRequest{
		TotalAmount:   200,
		TotalQuantity: 1,
	})
	require.NoError(t, err)

	// 10% of 200 = 20, flat 50 wins
	require.Len(t, result.Applicable, 2)
	assert.Equal(t, "50", result.BestDiscount.String())
}

func TestPreviewServesFromCache(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.Create(context.Background(), f.userID, createReq("Ten percent"))
	require.NoError(t, err)

	req := model.PreviewRequest{TotalAmount: 200, TotalQuantity: 1}

	_, err = f.service.Preview(context.Background(), f.userID, req)
	require.NoError(t, err)
	assert.Equal(t, 1, f.repo.activeReads)

	_, err = f.service.Preview(context.Background(), f.userID, req)
	require.NoError(t, err)
	assert.Equal(t, 1, f.repo.activeReads, "second preview must hit the cache")
}

func TestMutationsInvalidateCache(t *testing.T) {
	f := newServiceFixture(t)

	rule, err := f.service.Create(context.Background(), f.userID, createReq("Ten percent"))
	require.NoError(t, err)

	req := model.PreviewRequest{TotalAmount: 200, TotalQuantity: 1}
	_, err = f.service.Preview(context.Background(), f.userID, req)
	require.NoError(t, err)
	assert.Len(t, f.cache.entries, 1)

	update := createReq("Twenty percent")
	update.DiscountValue = 20
	_, err = f.service.Update(context.Background(), f.userID, rule.ID, update)
	require.NoError(t, err)
	assert.Empty(t, f.cache.entries, "update must drop the cached rule set")

	result, err := f.service.Preview(context.Background(), f.userID, req)
	require.NoError(t, err)
	assert.Equal(t, "40", result.BestDiscount.String())

	require.NoError(t, f.service.Delete(context.Background(), f.userID, rule.ID))
	assert.Empty(t, f.cache.entries)

	result, err = f.service.Preview(context.Background(), f.userID, req)
	require.NoError(t, err)
	assert.Empty(t, result.Applicable)
	assert.True(t, result.BestDiscount.IsZero())
}

func TestUpdateMissingRule(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.Update(context.Background(), f.userID, uuid.New(), createReq("Nope"))
	assert.ErrorIs(t, err, model.ErrRuleNotFound)
}
