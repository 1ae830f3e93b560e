package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPlanLimitsFor_UnknownDefaultsToFree(t *testing.T) {
	assert.Equal(t, PlanLimitsFor(PlanFree), PlanLimitsFor("enterprise"))
	assert.Equal(t, PlanFree, ParsePlanTier("enterprise"))
	assert.Equal(t, PlanAgency, ParsePlanTier("agency"))
}

func TestPlanUsage_NeedsReset(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, PlanUsage{LastResetDate: now.AddDate(0, 0, -31)}.NeedsReset(now))
	assert.True(t, PlanUsage{LastResetDate: now.Add(-UsagePeriod)}.NeedsReset(now))
	assert.False(t, PlanUsage{LastResetDate: now.AddDate(0, 0, -29)}.NeedsReset(now))
}

func TestPlanUsage_ResetAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	u := PlanUsage{PagesGenerated: 8, LastResetDate: now.AddDate(0, 0, -31)}.ResetAt(now)

	assert.Equal(t, 0, u.PagesGenerated)
	assert.Equal(t, now, u.LastResetDate)
	assert.Equal(t, now, u.CurrentPeriodStart)
	assert.Equal(t, now.Add(UsagePeriod), u.CurrentPeriodEnd)
}

func TestUpgradeHintFor(t *testing.T) {
	hint := UpgradeHintFor(PlanFree, ActionGeneratePages)
	assert.Equal(t, PlanStarter, hint.NextPlan)
	assert.Contains(t, hint.Message, "25 pages")

	hint = UpgradeHintFor(PlanStarter, ActionSyncProducts)
	assert.Equal(t, PlanProfessional, hint.NextPlan)
	assert.Contains(t, hint.Message, "1000 products")

	hint = UpgradeHintFor(PlanProfessional, ActionGeneratePages)
	assert.Equal(t, PlanAgency, hint.NextPlan)

	hint = UpgradeHintFor(PlanAgency, ActionGeneratePages)
	assert.Empty(t, hint.NextPlan)
	assert.Contains(t, hint.Message, "Contact sales")
}

func TestParseLimitAction(t *testing.T) {
	a, err := ParseLimitAction("sync_products")
	assert.NoError(t, err)
	assert.Equal(t, ActionSyncProducts, a)

	_, err = ParseLimitAction("delete_everything")
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestClassify(t *testing.T) {
	legacy := &Store{ID: "s1", Plan: PlanFree}
	_, ok := Classify(legacy).(LegacyStore)
	assert.True(t, ok)

	partial := &Store{ID: "s2", Limits: &PlanLimits{PagesPerMonth: 5}}
	_, ok = Classify(partial).(LegacyStore)
	assert.True(t, ok)

	managed := &Store{ID: "s3", Limits: &PlanLimits{PagesPerMonth: 5}, Usage: &PlanUsage{PagesGenerated: 2}}
	m, ok := Classify(managed).(ManagedStore)
	assert.True(t, ok)
	assert.Equal(t, 2, m.Usage.PagesGenerated)
}

func TestStore_PopupsPerMonth(t *testing.T) {
	s := &Store{Plan: PlanStarter}
	assert.Equal(t, 1000, s.PopupsPerMonth())

	s.Limits = &PlanLimits{PopupsPerMonth: 30}
	assert.Equal(t, 30, s.PopupsPerMonth())
}
