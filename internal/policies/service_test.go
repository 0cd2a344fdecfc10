package policies

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryRepository is an in-memory Repository for service tests. failNext
// makes the next call fail with a StoreError, simulating an outage.
type memoryRepository struct {
	mu       sync.Mutex
	policies map[uuid.UUID]CancellationPolicy
	failNext bool
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{policies: make(map[uuid.UUID]CancellationPolicy)}
}

func (m *memoryRepository) fail(op string) error {
	if m.failNext {
		m.failNext = false
		return &StoreError{Op: op, Err: errors.New("connection refused")}
	}
	return nil
}

func (m *memoryRepository) ListByBusiness(_ context.Context, businessID uuid.UUID) ([]CancellationPolicy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("list policies"); err != nil {
		return nil, err
	}
	var out []CancellationPolicy
	for _, p := range m.policies {
		if p.BusinessID == businessID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memoryRepository) GetByID(_ context.Context, id uuid.UUID) (*CancellationPolicy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("get policy"); err != nil {
		return nil, err
	}
	p, ok := m.policies[id]
	if !ok {
		return nil, ErrPolicyNotFound
	}
	return &p, nil
}

func (m *memoryRepository) Create(_ context.Context, policy *CancellationPolicy) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("create policy"); err != nil {
		return err
	}
	m.policies[policy.ID] = *policy
	return nil
}

func (m *memoryRepository) Update(_ context.Context, policy *CancellationPolicy) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("update policy"); err != nil {
		return err
	}
	m.policies[policy.ID] = *policy
	return nil
}

func (m *memoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("delete policy"); err != nil {
		return err
	}
	if _, ok := m.policies[id]; !ok {
		return ErrPolicyNotFound
	}
	delete(m.policies, id)
	return nil
}

type stubDirectory struct {
	info BusinessInfo
}

func (d *stubDirectory) GetBusinessInfo(_ context.Context, businessID uuid.UUID) (BusinessInfo, error) {
	info := d.info
	info.ID = businessID
	return info, nil
}

func newTestService(repo Repository) Service {
	return NewService(repo, NewSetCache(), &stubDirectory{
		info: BusinessInfo{Name: "Harborview Hotel", Currency: "USD", CurrencyPrecision: 2},
	})
}

func TestCreatePolicy_PersistsAndAssignsID(t *testing.T) {
	repo := newMemoryRepository()
	svc := newTestService(repo)
	businessID := uuid.New()

	created, err := svc.CreatePolicy(context.Background(), businessID, PolicyRequest{
		DaysBefore:       7,
		RefundPercentage: 50,
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, businessID, created.BusinessID)
	assert.Equal(t, 7, created.DaysBefore)

	stored, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, stored.ID)
}

func TestCreatePolicy_RejectsInvalidPercentageWithoutSideEffects(t *testing.T) {
	// GIVEN a business with one existing rule
	repo := newMemoryRepository()
	svc := newTestService(repo)
	businessID := uuid.New()
	_, err := svc.CreatePolicy(context.Background(), businessID, PolicyRequest{DaysBefore: 30, RefundPercentage: 100})
	require.NoError(t, err)

	// WHEN creating a rule with an out-of-range percentage
	_, err = svc.CreatePolicy(context.Background(), businessID, PolicyRequest{
		DaysBefore:       7,
		RefundPercentage: 150,
	})

	// THEN the caller gets a validation failure and the rule set is unchanged
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	listed, err := svc.ListPolicies(context.Background(), businessID)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestCreatePolicy_RejectsNegativeDaysBefore(t *testing.T) {
	repo := newMemoryRepository()
	svc := newTestService(repo)

	_, err := svc.CreatePolicy(context.Background(), uuid.New(), PolicyRequest{
		DaysBefore:       -1,
		RefundPercentage: 50,
	})

	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestUpdatePolicy_UnknownIDReturnsNotFound(t *testing.T) {
	repo := newMemoryRepository()
	svc := newTestService(repo)

	_, err := svc.UpdatePolicy(context.Background(), uuid.New(), PolicyRequest{
		DaysBefore:       7,
		RefundPercentage: 50,
	})

	assert.ErrorIs(t, err, ErrPolicyNotFound)
}

func TestDeletePolicy_UnknownIDReturnsNotFound(t *testing.T) {
	repo := newMemoryRepository()
	svc := newTestService(repo)

	err := svc.DeletePolicy(context.Background(), uuid.New())

	assert.ErrorIs(t, err, ErrPolicyNotFound)
}

func TestResolveCancellation_SeesWritesImmediately(t *testing.T) {
	// GIVEN a resolution has already warmed the snapshot cache
	repo := newMemoryRepository()
	svc := newTestService(repo)
	businessID := uuid.New()
	total := decimal.RequireFromString("200")

	_, err := svc.CreatePolicy(context.Background(), businessID, PolicyRequest{DaysBefore: 0, RefundPercentage: 0})
	require.NoError(t, err)

	res, err := svc.ResolveCancellation(context.Background(), businessID, total, 10, 2)
	require.NoError(t, err)
	assert.True(t, res.RefundAmount.IsZero())

	// WHEN a more generous rule is added
	created, err := svc.CreatePolicy(context.Background(), businessID, PolicyRequest{DaysBefore: 7, RefundPercentage: 50})
	require.NoError(t, err)

	// THEN the very next resolution observes it
	res, err = svc.ResolveCancellation(context.Background(), businessID, total, 10, 2)
	require.NoError(t, err)
	require.True(t, res.Matched)
	assert.Equal(t, created.ID, res.Policy.ID)
	assert.True(t, res.RefundAmount.Equal(decimal.RequireFromString("100")))

	// AND after updating the rule the new percentage applies
	_, err = svc.UpdatePolicy(context.Background(), created.ID, PolicyRequest{DaysBefore: 7, RefundPercentage: 25})
	require.NoError(t, err)

	res, err = svc.ResolveCancellation(context.Background(), businessID, total, 10, 2)
	require.NoError(t, err)
	assert.True(t, res.RefundAmount.Equal(decimal.RequireFromString("50")))

	// AND after deleting it only the catch-all remains
	require.NoError(t, svc.DeletePolicy(context.Background(), created.ID))

	res, err = svc.ResolveCancellation(context.Background(), businessID, total, 10, 2)
	require.NoError(t, err)
	require.True(t, res.Matched)
	assert.Equal(t, 0, res.Policy.DaysBefore)
	assert.True(t, res.RefundAmount.IsZero())
}

func TestResolveCancellation_StoreFailureSurfacesAsError(t *testing.T) {
	// GIVEN a cold cache and a store that is down
	repo := newMemoryRepository()
	svc := newTestService(repo)
	businessID := uuid.New()
	repo.failNext = true

	// WHEN resolving
	_, err := svc.ResolveCancellation(context.Background(), businessID, decimal.RequireFromString("100"), 10, 2)

	// THEN the failure surfaces instead of being reported as no-match
	require.Error(t, err)
	assert.True(t, IsStore(err))
}

func TestResolveCancellation_EmptySetIsNoMatch(t *testing.T) {
	repo := newMemoryRepository()
	svc := newTestService(repo)

	res, err := svc.ResolveCancellation(context.Background(), uuid.New(), decimal.RequireFromString("100"), 10, 2)

	require.NoError(t, err)
	assert.False(t, res.Matched)
	assert.True(t, res.RefundAmount.IsZero())
}

func TestResolveCancellation_RejectsNegativeTotal(t *testing.T) {
	repo := newMemoryRepository()
	svc := newTestService(repo)

	_, err := svc.ResolveCancellation(context.Background(), uuid.New(), decimal.RequireFromString("-5"), 10, 2)

	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestResolveForBusiness_UsesDirectoryPrecision(t *testing.T) {
	// GIVEN a tenant whose currency has no minor units
	repo := newMemoryRepository()
	svc := NewService(repo, NewSetCache(), &stubDirectory{
		info: BusinessInfo{Name: "Sakura Omakase", Currency: "JPY", CurrencyPrecision: 0},
	})
	businessID := uuid.New()
	_, err := svc.CreatePolicy(context.Background(), businessID, PolicyRequest{DaysBefore: 0, RefundPercentage: 33})
	require.NoError(t, err)

	// WHEN resolving through the directory
	res, err := svc.ResolveForBusiness(context.Background(), businessID, decimal.RequireFromString("1000"), 10)

	// THEN the refund is rounded to whole units
	require.NoError(t, err)
	assert.True(t, res.RefundAmount.Equal(decimal.RequireFromString("330")))
}

func TestListPolicies_ReturnsResolutionOrder(t *testing.T) {
	repo := newMemoryRepository()
	svc := newTestService(repo)
	businessID := uuid.New()

	for _, req := range []PolicyRequest{
		{DaysBefore: 0, RefundPercentage: 0},
		{DaysBefore: 30, RefundPercentage: 100},
		{DaysBefore: 7, RefundPercentage: 50},
	} {
		_, err := svc.CreatePolicy(context.Background(), businessID, req)
		require.NoError(t, err)
	}

	listed, err := svc.ListPolicies(context.Background(), businessID)

	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, 30, listed[0].DaysBefore)
	assert.Equal(t, 7, listed[1].DaysBefore)
	assert.Equal(t, 0, listed[2].DaysBefore)
}

func TestResolveCancellation_ConcurrentResolutionsAreConsistent(t *testing.T) {
	// GIVEN a warmed rule set and many concurrent cancellations
	repo := newMemoryRepository()
	svc := newTestService(repo)
	businessID := uuid.New()
	for _, req := range []PolicyRequest{
		{DaysBefore: 30, RefundPercentage: 100},
		{DaysBefore: 7, RefundPercentage: 50},
		{DaysBefore: 0, RefundPercentage: 0},
	} {
		_, err := svc.CreatePolicy(context.Background(), businessID, req)
		require.NoError(t, err)
	}
	total := decimal.RequireFromString("200")

	// WHEN 50 goroutines resolve the same context
	var wg sync.WaitGroup
	results := make([]decimal.Decimal, 50)
	errs := make([]error, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := svc.ResolveCancellation(context.Background(), businessID, total, 10, 2)
			errs[i] = err
			results[i] = res.RefundAmount
		}(i)
	}
	wg.Wait()

	// THEN every resolution succeeded with the identical refund
	want := decimal.RequireFromString("100")
	for i := 0; i < 50; i++ {
		require.NoError(t, errs[i])
		assert.True(t, results[i].Equal(want), "goroutine %d got %s", i, results[i])
	}
}
