package domain

import (
	"sort"
	"strings"
	"time"
)

// Exercise is a single exercise definition in the catalog. Builtin entries
// have IsCustom=false; user-created entries always carry a non-empty OwnerID.
type Exercise struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	MuscleGroups []string  `json:"muscle_groups"`
	Description  string    `json:"description,omitempty"`
	IsCustom     bool      `json:"is_custom"`
	OwnerID      string    `json:"owner_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CategoryGroup is one named bucket of a by-category view.
type CategoryGroup struct {
	Category  string     `json:"category"`
	Exercises []Exercise `json:"exercises"`
}

// GroupByCategory buckets exercises by category, categories sorted by name.
// Pure function over the input slice; callers recompute on every read.
func GroupByCategory(exercises []Exercise) []CategoryGroup {
	buckets := make(map[string][]Exercise)
	for _, ex := range exercises {
		buckets[ex.Category] = append(buckets[ex.Category], ex)
	}

	names := make([]string, 0, len(buckets))
	for name := range buckets {
		names = append(names, name)
	}
	sort.Strings(names)

	groups := make([]CategoryGroup, 0, len(names))
	for _, name := range names {
		groups = append(groups, CategoryGroup{Category: name, Exercises: buckets[name]})
	}
	return groups
}

// SearchExercises returns exercises whose name contains term, case-insensitive.
func SearchExercises(exercises []Exercise, term string) []Exercise {
	lower := strings.ToLower(term)
	var out []Exercise
	for _, ex := range exercises {
		if strings.Contains(strings.ToLower(ex.Name), lower) {
			out = append(out, ex)
		}
	}
	return out
}
