package settings

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/kostromin/fittrack/internal/localcache"
)

func openTestStore(t *testing.T) (*Store, *localcache.Cache) {
	t.Helper()
	cache, err := localcache.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open cache failed: %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })
	return NewStore(cache), cache
}

func TestLoadDefaultsWhenAbsent(t *testing.T) {
	store, _ := openTestStore(t)

	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != Defaults() {
		t.Errorf("Expected defaults, got %+v", got)
	}
}

func TestLoadMergesMissingFields(t *testing.T) {
	store, cache := openTestStore(t)
	ctx := context.Background()

	// An older payload with only some fields present.
	if err := cache.Set(ctx, localcache.KeySettings, `{"isMetric":false}`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.IsMetric {
		t.Error("Expected stored isMetric=false to survive")
	}
	if !got.Notifications || got.Language != "English" {
		t.Errorf("Expected defaults for missing fields, got %+v", got)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	want := Settings{IsMetric: false, Notifications: false, EnableTips: true, Language: "Spanish"}
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != want {
		t.Errorf("Round trip mismatch: got %+v want %+v", got, want)
	}
}

func TestLoadInvalidPayloadFallsBackToDefaults(t *testing.T) {
	store, cache := openTestStore(t)
	ctx := context.Background()

	if err := cache.Set(ctx, localcache.KeySettings, `not json`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != Defaults() {
		t.Errorf("Expected defaults on invalid payload, got %+v", got)
	}
}

func TestWeightConversionRoundTrip(t *testing.T) {
	for _, kg := range []float64{0, 2.5, 60, 102.27, 227.5} {
		back := KgFromLb(LbFromKg(kg))
		if math.Abs(back-kg) > 0.01 {
			t.Errorf("Round trip for %v kg drifted to %v", kg, back)
		}
	}
}

func TestDisplayWeight(t *testing.T) {
	metric := Settings{IsMetric: true}
	imperial := Settings{IsMetric: false}

	if got := metric.DisplayWeight(100); got != 100 {
		t.Errorf("Metric display should be unchanged, got %v", got)
	}
	if got := imperial.DisplayWeight(100); math.Abs(got-220.46) > 0.01 {
		t.Errorf("Expected ~220.46 lbs for 100 kg, got %v", got)
	}
	if metric.WeightUnit() != "kg" || imperial.WeightUnit() != "lbs" {
		t.Error("Unexpected weight units")
	}
}
