package collections

import (
	"context"
	"errors"
	"testing"

	"github.com/kostromin/fittrack/internal/domain"
	"github.com/kostromin/fittrack/internal/localcache"
)

func TestFetchAllOfflineSeedsEmptyCache(t *testing.T) {
	local, cache := newLocalBackend(t)
	exs := NewExercises(offlineSession(t), local, nil)
	ctx := context.Background()

	items, err := exs.FetchAll(ctx)
	if err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}
	if len(items) != 15 {
		t.Fatalf("Expected 15 seeded exercises, got %d", len(items))
	}

	categories := make(map[string]bool)
	for _, ex := range items {
		categories[ex.Category] = true
	}
	if len(categories) != 5 {
		t.Errorf("Expected 5 categories, got %d", len(categories))
	}

	raw, ok, err := cache.Get(ctx, localcache.KeyExercises)
	if err != nil || !ok {
		t.Fatalf("Expected persisted snapshot: ok=%v err=%v", ok, err)
	}
	if raw == "" || raw == "[]" {
		t.Errorf("Expected non-empty snapshot, got %q", raw)
	}

	// A second fetch reads the snapshot instead of reseeding.
	again, err := exs.FetchAll(ctx)
	if err != nil {
		t.Fatalf("Second FetchAll failed: %v", err)
	}
	if len(again) != 15 {
		t.Errorf("Expected 15 exercises on refetch, got %d", len(again))
	}
}

func TestFetchAllCopiesCatalogOnFirstAuthenticatedRead(t *testing.T) {
	remote := &fakeRemote{}
	exs := NewExercises(onlineSession(t, "user-1"), nil, remote)
	ctx := context.Background()

	items, err := exs.FetchAll(ctx)
	if err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}
	if len(items) != 15 {
		t.Fatalf("Expected catalog cloned into 15 owned rows, got %d", len(items))
	}
	for _, ex := range items {
		if ex.OwnerID != "user-1" {
			t.Errorf("Expected owned row, got owner %q", ex.OwnerID)
		}
		if ex.IsCustom {
			t.Errorf("Cloned catalog row %s must not be custom", ex.Name)
		}
	}

	// The clone happens once; later fetches see the same rows.
	again, err := exs.FetchAll(ctx)
	if err != nil {
		t.Fatalf("Second FetchAll failed: %v", err)
	}
	if len(again) != 15 || len(remote.exercises) != 15 {
		t.Errorf("Expected no re-clone: fetched %d, stored %d", len(again), len(remote.exercises))
	}
}

func TestFetchAllUnauthenticatedReadsSharedDefaults(t *testing.T) {
	remote := &fakeRemote{}
	// Shared defaults live as ownerless rows.
	if _, err := remote.InsertExercises(context.Background(), "", domain.BuiltinCatalog()); err != nil {
		t.Fatalf("seed shared defaults: %v", err)
	}

	exs := NewExercises(unauthenticatedSession(t), nil, remote)
	items, err := exs.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}
	if len(items) != 15 {
		t.Errorf("Expected shared defaults, got %d", len(items))
	}
	for _, ex := range items {
		if ex.OwnerID != "" {
			t.Errorf("Shared default must be ownerless, got %q", ex.OwnerID)
		}
	}
}

func TestCreateCustomRequiresSessionOnline(t *testing.T) {
	exs := NewExercises(unauthenticatedSession(t), nil, &fakeRemote{})

	_, err := exs.CreateCustom(context.Background(), CustomExerciseInput{Name: "Dips"})
	if !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("Expected ErrNotAuthenticated, got %v", err)
	}
	if exs.LastError() == "" {
		t.Error("Expected error recorded on collection")
	}
}

func TestCreateCustomAlwaysMarksCustom(t *testing.T) {
	local, _ := newLocalBackend(t)
	exs := NewExercises(offlineSession(t), local, nil)
	ctx := context.Background()

	created, err := exs.CreateCustom(ctx, CustomExerciseInput{
		Name: "Dips", Category: "Chest", MuscleGroups: []string{"Pectorals", "Triceps"},
	})
	if err != nil {
		t.Fatalf("CreateCustom failed: %v", err)
	}
	if !created.IsCustom {
		t.Error("Expected IsCustom set")
	}
	if created.OwnerID != domain.OfflineUserID {
		t.Errorf("Expected guest owner, got %q", created.OwnerID)
	}
	if len(exs.Items()) != 1 {
		t.Errorf("Expected materialized append, got %d items", len(exs.Items()))
	}
}

func TestDeleteCustomGuardsBuiltins(t *testing.T) {
	local, _ := newLocalBackend(t)
	exs := NewExercises(offlineSession(t), local, nil)
	ctx := context.Background()

	items, err := exs.FetchAll(ctx)
	if err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}

	deleted, err := exs.DeleteCustom(ctx, items[0].ID)
	if err != nil {
		t.Fatalf("DeleteCustom errored: %v", err)
	}
	if deleted {
		t.Error("Builtin exercise must not be deletable")
	}
	if len(exs.Items()) != 15 {
		t.Errorf("Collection changed by guarded delete: %d items", len(exs.Items()))
	}

	deleted, err = exs.DeleteCustom(ctx, "missing-id")
	if err != nil || deleted {
		t.Errorf("Expected silent false for missing id: deleted=%v err=%v", deleted, err)
	}
}

func TestDeleteCustomRemovesOwnRow(t *testing.T) {
	remote := &fakeRemote{}
	exs := NewExercises(onlineSession(t, "user-1"), nil, remote)
	ctx := context.Background()

	if _, err := exs.FetchAll(ctx); err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}
	created, err := exs.CreateCustom(ctx, CustomExerciseInput{Name: "Dips", Category: "Chest"})
	if err != nil {
		t.Fatalf("CreateCustom failed: %v", err)
	}

	deleted, err := exs.DeleteCustom(ctx, created.ID)
	if err != nil || !deleted {
		t.Fatalf("DeleteCustom failed: deleted=%v err=%v", deleted, err)
	}
	if len(exs.Items()) != 15 {
		t.Errorf("Expected catalog only after delete, got %d", len(exs.Items()))
	}
}

func TestByCategoryRecomputesFromState(t *testing.T) {
	local, _ := newLocalBackend(t)
	exs := NewExercises(offlineSession(t), local, nil)

	if groups := exs.ByCategory(); len(groups) != 0 {
		t.Errorf("Expected no groups before fetch, got %d", len(groups))
	}
	if _, err := exs.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}
	if groups := exs.ByCategory(); len(groups) != 5 {
		t.Errorf("Expected 5 groups after fetch, got %d", len(groups))
	}
}
