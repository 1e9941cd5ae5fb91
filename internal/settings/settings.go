// Package settings persists user preferences in the local cache and owns
// measurement-unit conversion for display.
package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/kostromin/fittrack/internal/localcache"
)

// Conversion factor between pounds and kilograms.
const lbToKg = 0.45359237

// Settings holds user preferences. Weights are always stored in kilograms;
// IsMetric only affects values materialized for display.
type Settings struct {
	IsMetric      bool   `json:"isMetric"`
	Notifications bool   `json:"notifications"`
	EnableTips    bool   `json:"enableTips"`
	Language      string `json:"language"`
}

// Defaults returns the settings used when nothing has been saved yet.
func Defaults() Settings {
	return Settings{
		IsMetric:      true,
		Notifications: true,
		EnableTips:    false,
		Language:      "English",
	}
}

// WeightUnit returns the display unit for the current setting.
func (s Settings) WeightUnit() string {
	if s.IsMetric {
		return "kg"
	}
	return "lbs"
}

// DisplayWeight converts a canonical (kg) weight into the display unit.
func (s Settings) DisplayWeight(kg float64) float64 {
	if s.IsMetric {
		return kg
	}
	return LbFromKg(kg)
}

// LbFromKg converts kilograms to pounds, rounded to 2 decimals.
func LbFromKg(kg float64) float64 {
	return round2(kg / lbToKg)
}

// KgFromLb converts pounds to kilograms, rounded to 2 decimals.
func KgFromLb(lb float64) float64 {
	return round2(lb * lbToKg)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Store loads and saves settings through the local cache.
type Store struct {
	cache *localcache.Cache
}

// NewStore creates a settings store over the given cache.
func NewStore(cache *localcache.Cache) *Store {
	return &Store{cache: cache}
}

// Load returns the persisted settings, applying defaults for any field the
// stored payload is missing. A missing or unreadable payload yields defaults.
func (s *Store) Load(ctx context.Context) (Settings, error) {
	raw, ok, err := s.cache.Get(ctx, localcache.KeySettings)
	if err != nil {
		return Defaults(), fmt.Errorf("load settings: %w", err)
	}
	if !ok {
		return Defaults(), nil
	}

	// Pointer fields distinguish "absent" from explicit false/empty.
	var stored struct {
		IsMetric      *bool   `json:"isMetric"`
		Notifications *bool   `json:"notifications"`
		EnableTips    *bool   `json:"enableTips"`
		Language      *string `json:"language"`
	}
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return Defaults(), nil
	}

	out := Defaults()
	if stored.IsMetric != nil {
		out.IsMetric = *stored.IsMetric
	}
	if stored.Notifications != nil {
		out.Notifications = *stored.Notifications
	}
	if stored.EnableTips != nil {
		out.EnableTips = *stored.EnableTips
	}
	if stored.Language != nil && *stored.Language != "" {
		out.Language = *stored.Language
	}
	return out, nil
}

// Save persists the full settings payload, replacing the previous one.
func (s *Store) Save(ctx context.Context, settings Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := s.cache.Set(ctx, localcache.KeySettings, string(data)); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
