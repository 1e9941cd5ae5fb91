package domain

import "testing"

func TestBuiltinCatalogShape(t *testing.T) {
	catalog := BuiltinCatalog()
	if len(catalog) != 15 {
		t.Fatalf("Expected 15 catalog entries, got %d", len(catalog))
	}

	categories := make(map[string]int)
	for _, ex := range catalog {
		if ex.IsCustom {
			t.Errorf("Catalog entry %s must not be custom", ex.Name)
		}
		if len(ex.MuscleGroups) == 0 {
			t.Errorf("Catalog entry %s has no muscle groups", ex.Name)
		}
		categories[ex.Category]++
	}
	if len(categories) != 5 {
		t.Errorf("Expected 5 categories, got %d: %v", len(categories), categories)
	}
}

func TestGroupByCategory(t *testing.T) {
	exercises := []Exercise{
		{Name: "Squats", Category: "Legs"},
		{Name: "Bench Press", Category: "Chest"},
		{Name: "Lunges", Category: "Legs"},
	}

	groups := GroupByCategory(exercises)
	if len(groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(groups))
	}
	// Categories come back sorted.
	if groups[0].Category != "Chest" || groups[1].Category != "Legs" {
		t.Errorf("Unexpected category order: %s, %s", groups[0].Category, groups[1].Category)
	}
	if len(groups[1].Exercises) != 2 {
		t.Errorf("Expected 2 leg exercises, got %d", len(groups[1].Exercises))
	}
}

func TestGroupByCategoryEmpty(t *testing.T) {
	if groups := GroupByCategory(nil); len(groups) != 0 {
		t.Errorf("Expected no groups, got %d", len(groups))
	}
}

func TestSearchExercisesCaseInsensitive(t *testing.T) {
	exercises := []Exercise{
		{Name: "Bench Press"},
		{Name: "Leg Press"},
		{Name: "Squats"},
	}

	got := SearchExercises(exercises, "press")
	if len(got) != 2 {
		t.Errorf("Expected 2 matches for 'press', got %d", len(got))
	}
	if got := SearchExercises(exercises, "deadlift"); len(got) != 0 {
		t.Errorf("Expected no matches, got %d", len(got))
	}
}
