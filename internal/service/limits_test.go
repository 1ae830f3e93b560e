package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/actuallystonmai/upsell-service/internal/domain"
)

func TestCheckLimit_ResetAfterFullPeriod(t *testing.T) {
	store := managedStore("s1", domain.PlanFree, 8, testNow.Add(-31*24*time.Hour))
	store.Limits.PagesPerMonth = 10
	repo := newFakeRepo(store)
	svc, _, _, _ := newTestService(repo, nil)

	decision, err := svc.CheckLimit(context.Background(), "s1", domain.ActionGeneratePages, 5)
	require.NoError(t, err)

	assert.True(t, decision.Allowed)
	assert.Equal(t, 0, *decision.Current)
	assert.Equal(t, 10, *decision.Limit)
	assert.Equal(t, 0, repo.stores["s1"].Usage.PagesGenerated)
	assert.True(t, repo.stores["s1"].Usage.LastResetDate.Equal(testNow))
	assert.True(t, repo.stores["s1"].Usage.CurrentPeriodEnd.Equal(testNow.Add(domain.UsagePeriod)))
}

func TestCheckLimit_ResetIsIdempotentWithinPeriod(t *testing.T) {
	repo := newFakeRepo(managedStore("s1", domain.PlanStarter, 12, testNow.Add(-40*24*time.Hour)))
	svc, _, _, _ := newTestService(repo, nil)
	ctx := context.Background()

	_, err := svc.CheckLimit(ctx, "s1", domain.ActionGeneratePages, 1)
	require.NoError(t, err)
	after := *repo.stores["s1"].Usage

	svc.now = func() time.Time { return testNow.Add(time.Hour) }
	_, err = svc.CheckLimit(ctx, "s1", domain.ActionGeneratePages, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.resets)
	assert.Equal(t, after, *repo.stores["s1"].Usage)
}

func TestCheckLimit_NoResetInsidePeriod(t *testing.T) {
	repo := newFakeRepo(managedStore("s1", domain.PlanFree, 3, testNow.Add(-29*24*time.Hour)))
	svc, _, _, _ := newTestService(repo, nil)

	decision, err := svc.CheckLimit(context.Background(), "s1", domain.ActionGeneratePages, 2)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, 3, *decision.Current)
	assert.Zero(t, repo.resets)
}

func TestCheckLimit_PageDenial(t *testing.T) {
	repo := newFakeRepo(managedStore("s1", domain.PlanFree, 4, testNow.Add(-time.Hour)))
	svc, _, _, _ := newTestService(repo, nil)

	decision, err := svc.CheckLimit(context.Background(), "s1", domain.ActionGeneratePages, 2)
	require.NoError(t, err)

	assert.False(t, decision.Allowed)
	assert.Equal(t, 4, *decision.Current)
	assert.Equal(t, 5, *decision.Limit)
	require.NotNil(t, decision.UpgradeHint)
	assert.Equal(t, domain.PlanStarter, decision.UpgradeHint.NextPlan)
}

func TestCheckLimit_ExactRemainingIsAllowed(t *testing.T) {
	repo := newFakeRepo(managedStore("s1", domain.PlanFree, 4, testNow.Add(-time.Hour)))
	svc, _, _, _ := newTestService(repo, nil)

	decision, err := svc.CheckLimit(context.Background(), "s1", domain.ActionGeneratePages, 1)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Nil(t, decision.UpgradeHint)
}

func TestCheckLimit_SyncUsesFreshCount(t *testing.T) {
	repo := newFakeRepo(managedStore("s1", domain.PlanFree, 0, testNow))
	for i := 0; i < 51; i++ {
		repo.products["s1"] = append(repo.products["s1"], product(fmt.Sprintf("p%d", i), "c", 1))
	}
	svc, _, _, _ := newTestService(repo, nil)

	decision, err := svc.CheckLimit(context.Background(), "s1", domain.ActionSyncProducts, 1)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, 51, *decision.Current)
	assert.Equal(t, 50, *decision.Limit)

	repo.products["s1"] = repo.products["s1"][:50]
	decision, err = svc.CheckLimit(context.Background(), "s1", domain.ActionSyncProducts, 1)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
}

func TestCheckLimit_LegacyStoreAllowed(t *testing.T) {
	svc, _, _, _ := newTestService(newFakeRepo(legacyStore("old")), nil)

	decision, err := svc.CheckLimit(context.Background(), "old", domain.ActionGeneratePages, 1000)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Nil(t, decision.Limit)
}

func TestCheckLimit_UnknownStore(t *testing.T) {
	svc, _, _, _ := newTestService(newFakeRepo(), nil)

	decision, err := svc.CheckLimit(context.Background(), "missing", domain.ActionGeneratePages, 1)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, "store not found", decision.Reason)
}

func TestCheckLimit_Errors(t *testing.T) {
	repo := newFakeRepo(managedStore("s1", domain.PlanFree, 0, testNow))
	svc, _, _, _ := newTestService(repo, nil)

	_, err := svc.CheckLimit(context.Background(), "s1", domain.ActionGeneratePages, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	repo.getStoreErr = errDB
	_, err = svc.CheckLimit(context.Background(), "s1", domain.ActionGeneratePages, 1)
	assert.ErrorIs(t, err, errDB)
}

func TestIncrementPages(t *testing.T) {
	repo := newFakeRepo(managedStore("s1", domain.PlanFree, 1, testNow))
	svc, _, _, _ := newTestService(repo, nil)

	require.NoError(t, svc.IncrementPages(context.Background(), "s1", 2))
	assert.Equal(t, 3, repo.stores["s1"].Usage.PagesGenerated)

	assert.ErrorIs(t, svc.IncrementPages(context.Background(), "s1", 0), domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.IncrementPages(context.Background(), "nope", 1), domain.ErrStoreNotFound)
}

func TestLimitError(t *testing.T) {
	var err error = &LimitError{Decision: domain.LimitDecision{Reason: "monthly page limit reached (5/5)"}}
	assert.True(t, errors.Is(err, domain.ErrLimitExceeded))
	assert.Contains(t, err.Error(), "5/5")
}
