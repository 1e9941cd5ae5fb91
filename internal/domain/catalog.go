package domain

// BuiltinCatalog returns the default exercise catalog: 15 entries across the
// 5 base categories. IDs, owner and timestamps are assigned by the storage
// backend when the catalog is seeded or cloned for a user.
func BuiltinCatalog() []Exercise {
	entries := []struct {
		name     string
		category string
		muscles  []string
	}{
		{"Bench Press", "Chest", []string{"Pectorals", "Triceps", "Front Delts"}},
		{"Push-ups", "Chest", []string{"Pectorals", "Triceps", "Core"}},
		{"Chest Fly", "Chest", []string{"Pectorals", "Front Delts"}},
		{"Deadlift", "Back", []string{"Erectors", "Lats", "Hamstrings"}},
		{"Pull-ups", "Back", []string{"Lats", "Biceps", "Rear Delts"}},
		{"Lat Pulldown", "Back", []string{"Lats", "Biceps"}},
		{"Squats", "Legs", []string{"Quads", "Glutes", "Hamstrings"}},
		{"Lunges", "Legs", []string{"Quads", "Glutes"}},
		{"Leg Press", "Legs", []string{"Quads", "Glutes"}},
		{"Shoulder Press", "Shoulders", []string{"Front Delts", "Side Delts", "Triceps"}},
		{"Lateral Raises", "Shoulders", []string{"Side Delts"}},
		{"Front Raises", "Shoulders", []string{"Front Delts"}},
		{"Bicep Curls", "Arms", []string{"Biceps", "Forearms"}},
		{"Tricep Extensions", "Arms", []string{"Triceps"}},
		{"Hammer Curls", "Arms", []string{"Biceps", "Brachialis", "Forearms"}},
	}

	catalog := make([]Exercise, 0, len(entries))
	for _, e := range entries {
		catalog = append(catalog, Exercise{
			Name:         e.name,
			Category:     e.category,
			MuscleGroups: e.muscles,
			IsCustom:     false,
		})
	}
	return catalog
}
