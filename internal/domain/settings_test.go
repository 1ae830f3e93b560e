package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestResolveSettings_NoPersistedSettings(t *testing.T) {
	got := ResolveSettings(nil, 30)

	assert.Equal(t, 30, got.SessionLimit)
	assert.True(t, got.PopupEnabled)
	assert.True(t, got.ExitIntentEnabled)
	assert.True(t, got.ScrollTriggerEnabled)
	assert.True(t, got.PostCartEnabled)
	assert.True(t, got.TimeTriggerEnabled)
	assert.Equal(t, DefaultMaxRecommendations, got.MaxRecommendations)
	assert.Equal(t, DefaultInitialDelay, got.InitialDelay)
	assert.Equal(t, DefaultCooldownTime, got.CooldownTime)
	assert.Equal(t, DefaultScrollTriggerPercent, got.ScrollTriggerPercent)
	assert.Equal(t, DefaultTimeTriggerDelay, got.TimeTriggerDelay)
}

func TestResolveSettings_PartialOverrides(t *testing.T) {
	o := &SettingsOverrides{
		PopupEnabled:       boolPtr(false),
		ExitIntentEnabled:  boolPtr(true),
		MaxRecommendations: intPtr(5),
		CooldownTime:       intPtr(0),
	}
	got := ResolveSettings(o, 1000)

	assert.False(t, got.PopupEnabled)
	assert.True(t, got.ExitIntentEnabled)
	assert.Equal(t, 5, got.MaxRecommendations)
	assert.Equal(t, 0, got.CooldownTime)
	// sessionLimit unset: plan value wins
	assert.Equal(t, 1000, got.SessionLimit)
}

func TestResolveSettings_ExplicitSessionLimit(t *testing.T) {
	got := ResolveSettings(&SettingsOverrides{SessionLimit: intPtr(3)}, 30)
	assert.Equal(t, 3, got.SessionLimit)
}

func TestResolveSettings_ClampsStoredValues(t *testing.T) {
	got := ResolveSettings(&SettingsOverrides{
		MaxRecommendations:   intPtr(12),
		ScrollTriggerPercent: intPtr(150),
	}, 30)
	assert.Equal(t, MaxRecommendations, got.MaxRecommendations)
	assert.Equal(t, 100, got.ScrollTriggerPercent)
}

func TestSettingsOverrides_Validate(t *testing.T) {
	assert.NoError(t, (&SettingsOverrides{MaxRecommendations: intPtr(1)}).Validate())

	bad := []SettingsOverrides{
		{MaxRecommendations: intPtr(0)},
		{MaxRecommendations: intPtr(6)},
		{ScrollTriggerPercent: intPtr(-1)},
		{CooldownTime: intPtr(-5)},
	}
	for _, o := range bad {
		err := o.Validate()
		assert.True(t, errors.Is(err, ErrInvalidInput), "%+v", o)
	}
}

func TestSettingsOverrides_Merge(t *testing.T) {
	base := &SettingsOverrides{PopupEnabled: boolPtr(false), InitialDelay: intPtr(10)}
	merged := base.Merge(SettingsOverrides{InitialDelay: intPtr(2), SessionLimit: intPtr(4)})

	assert.Equal(t, false, *merged.PopupEnabled)
	assert.Equal(t, 2, *merged.InitialDelay)
	assert.Equal(t, 4, *merged.SessionLimit)
	// base untouched
	assert.Equal(t, 10, *base.InitialDelay)

	var none *SettingsOverrides
	fromNil := none.Merge(SettingsOverrides{CooldownTime: intPtr(1)})
	assert.Equal(t, 1, *fromNil.CooldownTime)
}
