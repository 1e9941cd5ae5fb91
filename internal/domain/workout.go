package domain

import (
	"sort"
	"time"
)

// WorkoutExercise is one logged exercise line inside a workout. It is owned
// exclusively by its parent workout and is deleted with it.
type WorkoutExercise struct {
	ID           string   `json:"id"`
	ExerciseRef  string   `json:"exercise_ref,omitempty"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	MuscleGroups []string `json:"muscle_groups,omitempty"`
	Sets         int      `json:"sets"`
	Reps         int      `json:"reps"`
	Weight       *float64 `json:"weight,omitempty"`
	Notes        string   `json:"notes,omitempty"`
}

// Workout is one day's training session. At most one workout exists per
// (owner, calendar day) pair.
type Workout struct {
	ID        string            `json:"id"`
	OwnerID   string            `json:"owner_id,omitempty"`
	Date      time.Time         `json:"date"`
	Exercises []WorkoutExercise `json:"exercises"`
}

// FindExercise returns a pointer into the workout's exercise slice, or nil.
func (w *Workout) FindExercise(id string) *WorkoutExercise {
	for i := range w.Exercises {
		if w.Exercises[i].ID == id {
			return &w.Exercises[i]
		}
	}
	return nil
}

// ExerciseNameGroup collects a single exercise's set entries for one day.
type ExerciseNameGroup struct {
	Name    string            `json:"name"`
	Entries []WorkoutExercise `json:"entries"`
}

// WorkoutCategoryGroup is the top level of the two-level day view.
type WorkoutCategoryGroup struct {
	Category  string              `json:"category"`
	Exercises []ExerciseNameGroup `json:"exercises"`
}

// GroupExercisesByCategoryThenName groups one workout's exercises first by
// category, then by exercise name. Pure and recomputed per call.
func GroupExercisesByCategoryThenName(exercises []WorkoutExercise) []WorkoutCategoryGroup {
	byCategory := make(map[string]map[string][]WorkoutExercise)
	for _, ex := range exercises {
		if byCategory[ex.Category] == nil {
			byCategory[ex.Category] = make(map[string][]WorkoutExercise)
		}
		byCategory[ex.Category][ex.Name] = append(byCategory[ex.Category][ex.Name], ex)
	}

	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	groups := make([]WorkoutCategoryGroup, 0, len(categories))
	for _, category := range categories {
		byName := byCategory[category]
		names := make([]string, 0, len(byName))
		for n := range byName {
			names = append(names, n)
		}
		sort.Strings(names)

		nameGroups := make([]ExerciseNameGroup, 0, len(names))
		for _, name := range names {
			nameGroups = append(nameGroups, ExerciseNameGroup{Name: name, Entries: byName[name]})
		}
		groups = append(groups, WorkoutCategoryGroup{Category: category, Exercises: nameGroups})
	}
	return groups
}
