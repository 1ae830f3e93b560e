package domain

import "fmt"

// Defaults for numeric popup settings. SessionLimit has no constant default:
// it follows the plan's popupsPerMonth.
const (
	DefaultMaxRecommendations   = 3
	DefaultInitialDelay         = 5
	DefaultCooldownTime         = 300
	DefaultScrollTriggerPercent = 50
	DefaultTimeTriggerDelay     = 30

	MinRecommendations = 1
	MaxRecommendations = 5
)

// StoreSettings is the fully populated popup configuration sent to the storefront.
// Durations are in seconds.
type StoreSettings struct {
	PopupEnabled         bool `json:"popupEnabled"`
	MaxRecommendations   int  `json:"maxRecommendations"`
	InitialDelay         int  `json:"initialDelay"`
	CooldownTime         int  `json:"cooldownTime"`
	SessionLimit         int  `json:"sessionLimit"`
	ExitIntentEnabled    bool `json:"exitIntentEnabled"`
	ScrollTriggerEnabled bool `json:"scrollTriggerEnabled"`
	ScrollTriggerPercent int  `json:"scrollTriggerPercent"`
	PostCartEnabled      bool `json:"postCartEnabled"`
	TimeTriggerEnabled   bool `json:"timeTriggerEnabled"`
	TimeTriggerDelay     int  `json:"timeTriggerDelay"`
}

// SettingsOverrides is the persisted, possibly partial, store configuration.
// A nil field means "not set".
type SettingsOverrides struct {
	PopupEnabled         *bool `json:"popupEnabled,omitempty"`
	MaxRecommendations   *int  `json:"maxRecommendations,omitempty"`
	InitialDelay         *int  `json:"initialDelay,omitempty"`
	CooldownTime         *int  `json:"cooldownTime,omitempty"`
	SessionLimit         *int  `json:"sessionLimit,omitempty"`
	ExitIntentEnabled    *bool `json:"exitIntentEnabled,omitempty"`
	ScrollTriggerEnabled *bool `json:"scrollTriggerEnabled,omitempty"`
	ScrollTriggerPercent *int  `json:"scrollTriggerPercent,omitempty"`
	PostCartEnabled      *bool `json:"postCartEnabled,omitempty"`
	TimeTriggerEnabled   *bool `json:"timeTriggerEnabled,omitempty"`
	TimeTriggerDelay     *int  `json:"timeTriggerDelay,omitempty"`
}

// ResolveSettings merges persisted overrides with defaults. Booleans are
// enabled unless explicitly false. sessionLimit defaults to popupsPerMonth.
func ResolveSettings(o *SettingsOverrides, popupsPerMonth int) StoreSettings {
	if o == nil {
		o = &SettingsOverrides{}
	}
	return StoreSettings{
		PopupEnabled:         enabled(o.PopupEnabled),
		MaxRecommendations:   clamp(intOr(o.MaxRecommendations, DefaultMaxRecommendations), MinRecommendations, MaxRecommendations),
		InitialDelay:         intOr(o.InitialDelay, DefaultInitialDelay),
		CooldownTime:         intOr(o.CooldownTime, DefaultCooldownTime),
		SessionLimit:         intOr(o.SessionLimit, popupsPerMonth),
		ExitIntentEnabled:    enabled(o.ExitIntentEnabled),
		ScrollTriggerEnabled: enabled(o.ScrollTriggerEnabled),
		ScrollTriggerPercent: clamp(intOr(o.ScrollTriggerPercent, DefaultScrollTriggerPercent), 0, 100),
		PostCartEnabled:      enabled(o.PostCartEnabled),
		TimeTriggerEnabled:   enabled(o.TimeTriggerEnabled),
		TimeTriggerDelay:     intOr(o.TimeTriggerDelay, DefaultTimeTriggerDelay),
	}
}

// Validate rejects out-of-range values in an update.
func (o *SettingsOverrides) Validate() error {
	if v := o.MaxRecommendations; v != nil && (*v < MinRecommendations || *v > MaxRecommendations) {
		return fmt.Errorf("%w: maxRecommendations must be between %d and %d", ErrInvalidInput, MinRecommendations, MaxRecommendations)
	}
	if v := o.ScrollTriggerPercent; v != nil && (*v < 0 || *v > 100) {
		return fmt.Errorf("%w: scrollTriggerPercent must be between 0 and 100", ErrInvalidInput)
	}
	nonNegative := map[string]*int{
		"initialDelay":     o.InitialDelay,
		"cooldownTime":     o.CooldownTime,
		"sessionLimit":     o.SessionLimit,
		"timeTriggerDelay": o.TimeTriggerDelay,
	}
	for name, v := range nonNegative {
		if v != nil && *v < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidInput, name)
		}
	}
	return nil
}

// Merge returns a copy of o with every field set in update applied on top.
func (o *SettingsOverrides) Merge(update SettingsOverrides) SettingsOverrides {
	var out SettingsOverrides
	if o != nil {
		out = *o
	}
	if update.PopupEnabled != nil {
		out.PopupEnabled = update.PopupEnabled
	}
	if update.MaxRecommendations != nil {
		out.MaxRecommendations = update.MaxRecommendations
	}
	if update.InitialDelay != nil {
		out.InitialDelay = update.InitialDelay
	}
	if update.CooldownTime != nil {
		out.CooldownTime = update.CooldownTime
	}
	if update.SessionLimit != nil {
		out.SessionLimit = update.SessionLimit
	}
	if update.ExitIntentEnabled != nil {
		out.ExitIntentEnabled = update.ExitIntentEnabled
	}
	if update.ScrollTriggerEnabled != nil {
		out.ScrollTriggerEnabled = update.ScrollTriggerEnabled
	}
	if update.ScrollTriggerPercent != nil {
		out.ScrollTriggerPercent = update.ScrollTriggerPercent
	}
	if update.PostCartEnabled != nil {
		out.PostCartEnabled = update.PostCartEnabled
	}
	if update.TimeTriggerEnabled != nil {
		out.TimeTriggerEnabled = update.TimeTriggerEnabled
	}
	if update.TimeTriggerDelay != nil {
		out.TimeTriggerDelay = update.TimeTriggerDelay
	}
	return out
}

func enabled(v *bool) bool {
	return v == nil || *v
}

func intOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
