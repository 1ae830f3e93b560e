package domain

import (
	"fmt"
	"time"
)

// UsagePeriod is the length of a rolling usage window.
const UsagePeriod = 30 * 24 * time.Hour

type PlanTier string

const (
	PlanFree         PlanTier = "free"
	PlanStarter      PlanTier = "starter"
	PlanProfessional PlanTier = "professional"
	PlanAgency       PlanTier = "agency"
)

// PlanLimits are the ceilings of a plan tier.
type PlanLimits struct {
	PagesPerMonth  int `json:"pagesPerMonth"`
	MaxProducts    int `json:"maxProducts"`
	MaxStores      int `json:"maxStores"`
	PopupsPerMonth int `json:"popupsPerMonth"`
}

var planLimits = map[PlanTier]PlanLimits{
	PlanFree:         {PagesPerMonth: 5, MaxProducts: 50, MaxStores: 1, PopupsPerMonth: 30},
	PlanStarter:      {PagesPerMonth: 25, MaxProducts: 200, MaxStores: 1, PopupsPerMonth: 1000},
	PlanProfessional: {PagesPerMonth: 100, MaxProducts: 1000, MaxStores: 3, PopupsPerMonth: 5000},
	PlanAgency:       {PagesPerMonth: 500, MaxProducts: 10000, MaxStores: 10, PopupsPerMonth: 50000},
}

// PlanLimitsFor returns the reference limits of a tier, defaulting to free for unknown tiers.
func PlanLimitsFor(tier PlanTier) PlanLimits {
	if l, ok := planLimits[tier]; ok {
		return l
	}
	return planLimits[PlanFree]
}

// ParsePlanTier maps a stored plan name to a tier; unknown names become free.
func ParsePlanTier(s string) PlanTier {
	tier := PlanTier(s)
	if _, ok := planLimits[tier]; ok {
		return tier
	}
	return PlanFree
}

var nextPlan = map[PlanTier]PlanTier{
	PlanFree:         PlanStarter,
	PlanStarter:      PlanProfessional,
	PlanProfessional: PlanAgency,
}

// UpgradeHint is purely informational guidance attached to a denial.
type UpgradeHint struct {
	NextPlan PlanTier `json:"nextPlan,omitempty"`
	Message  string   `json:"message"`
}

// UpgradeHintFor suggests the next tier for the given action.
func UpgradeHintFor(tier PlanTier, action LimitAction) UpgradeHint {
	next, ok := nextPlan[tier]
	if !ok {
		return UpgradeHint{Message: "You are on the highest plan. Contact sales for custom limits."}
	}
	limits := PlanLimitsFor(next)
	switch action {
	case ActionSyncProducts:
		return UpgradeHint{
			NextPlan: next,
			Message:  fmt.Sprintf("Upgrade to %s to sync up to %d products.", next, limits.MaxProducts),
		}
	default:
		return UpgradeHint{
			NextPlan: next,
			Message:  fmt.Sprintf("Upgrade to %s for %d pages per month.", next, limits.PagesPerMonth),
		}
	}
}

// PlanUsage tracks consumption within the current rolling period.
type PlanUsage struct {
	PagesGenerated     int       `json:"pagesGenerated"`
	LastResetDate      time.Time `json:"lastResetDate"`
	CurrentPeriodStart time.Time `json:"currentPeriodStart"`
	CurrentPeriodEnd   time.Time `json:"currentPeriodEnd"`
}

// NeedsReset reports whether a full period has elapsed since the last reset.
func (u PlanUsage) NeedsReset(now time.Time) bool {
	return now.Sub(u.LastResetDate) >= UsagePeriod
}

// ResetAt returns usage for a fresh period starting at now.
func (u PlanUsage) ResetAt(now time.Time) PlanUsage {
	return PlanUsage{
		PagesGenerated:     0,
		LastResetDate:      now,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now.Add(UsagePeriod),
	}
}

// NewUsage starts usage tracking for a new store.
func NewUsage(now time.Time) PlanUsage {
	return PlanUsage{}.ResetAt(now)
}

type LimitAction string

const (
	ActionGeneratePages LimitAction = "generate_pages"
	ActionSyncProducts  LimitAction = "sync_products"
)

// ParseLimitAction validates an action name.
func ParseLimitAction(s string) (LimitAction, error) {
	switch LimitAction(s) {
	case ActionGeneratePages, ActionSyncProducts:
		return LimitAction(s), nil
	default:
		return "", fmt.Errorf("%w: unknown action %q", ErrInvalidInput, s)
	}
}

// LimitDecision is the outcome of a plan limit check.
type LimitDecision struct {
	Allowed     bool         `json:"allowed"`
	Reason      string       `json:"reason,omitempty"`
	Current     *int         `json:"current,omitempty"`
	Limit       *int         `json:"limit,omitempty"`
	UpgradeHint *UpgradeHint `json:"upgradeHint,omitempty"`
}
