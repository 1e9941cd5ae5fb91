package localcache

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		if err := cache.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	})
	return cache
}

func TestGetAbsentKey(t *testing.T) {
	cache := openTestCache(t)

	value, ok, err := cache.Get(context.Background(), KeyExercises)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("Expected absent key")
	}
	if value != "" {
		t.Errorf("Expected empty value, got %q", value)
	}
}

func TestSetGetOverwrite(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, KeyFoodEntries, `[{"id":"1"}]`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	value, ok, err := cache.Get(ctx, KeyFoodEntries)
	if err != nil || !ok {
		t.Fatalf("Get failed: ok=%v err=%v", ok, err)
	}
	if value != `[{"id":"1"}]` {
		t.Errorf("Unexpected value %q", value)
	}

	if err := cache.Set(ctx, KeyFoodEntries, `[]`); err != nil {
		t.Fatalf("Overwrite failed: %v", err)
	}
	value, _, err = cache.Get(ctx, KeyFoodEntries)
	if err != nil {
		t.Fatalf("Get after overwrite failed: %v", err)
	}
	if value != `[]` {
		t.Errorf("Expected overwritten value, got %q", value)
	}
}

func TestDelete(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, KeySettings, `{}`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := cache.Delete(ctx, KeySettings); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, _ := cache.Get(ctx, KeySettings); ok {
		t.Error("Expected key gone after delete")
	}

	// Deleting an absent key is a no-op.
	if err := cache.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete of absent key failed: %v", err)
	}
}
