// Package store provides the storage-strategy contracts shared by offline
// and online modes, with one implementation per mode. Collections program
// against these interfaces only; the mode branch lives in a single place.
package store

import (
	"context"
	"time"

	"github.com/kostromin/fittrack/internal/domain"
)

// ExerciseStore persists the exercise catalog for one owner.
type ExerciseStore interface {
	// ListExercises returns the owner's exercises ordered by name ascending.
	// An empty ownerID selects the shared default rows (remote mode only).
	ListExercises(ctx context.Context, ownerID string) ([]domain.Exercise, error)

	// InsertExercises inserts a batch and returns the stored rows with IDs
	// and timestamps assigned. Used both for single custom inserts and for
	// seeding/cloning the builtin catalog.
	InsertExercises(ctx context.Context, ownerID string, exercises []domain.Exercise) ([]domain.Exercise, error)

	// DeleteExercise removes one exercise scoped to the owner. Returns false
	// without error when no matching row exists.
	DeleteExercise(ctx context.Context, ownerID, id string) (bool, error)
}

// WorkoutStore persists workouts and their exercise lines.
type WorkoutStore interface {
	// ListWorkouts returns the owner's workouts, newest date first, with
	// their exercise lines attached.
	ListWorkouts(ctx context.Context, ownerID string) ([]domain.Workout, error)

	// InsertWorkout creates an empty workout for the given day.
	InsertWorkout(ctx context.Context, ownerID string, date time.Time) (domain.Workout, error)

	// InsertWorkoutExercise appends one exercise line to a workout.
	InsertWorkoutExercise(ctx context.Context, ownerID, workoutID string, ex domain.WorkoutExercise) (domain.WorkoutExercise, error)

	// UpdateWorkoutExercise merges changed fields into an existing line.
	// Updating a missing line is a silent no-op.
	UpdateWorkoutExercise(ctx context.Context, ownerID, workoutID string, ex domain.WorkoutExercise) error

	// DeleteWorkoutExercise removes one line. Missing targets are a no-op.
	DeleteWorkoutExercise(ctx context.Context, ownerID, workoutID, exerciseID string) error
}

// FoodEntryStore persists food-diary entries.
type FoodEntryStore interface {
	// ListFoodEntries returns entries newest date first. The offline
	// implementation ignores the bounds; the remote one applies them
	// inclusively when non-nil.
	ListFoodEntries(ctx context.Context, ownerID string, start, end *time.Time) ([]domain.FoodEntry, error)

	// InsertFoodEntry stores one entry and returns it with an ID assigned.
	InsertFoodEntry(ctx context.Context, ownerID string, entry domain.FoodEntry) (domain.FoodEntry, error)

	// UpdateFoodEntry replaces the stored entry's mutable fields. Returns
	// nil without error when the entry no longer exists.
	UpdateFoodEntry(ctx context.Context, ownerID string, entry domain.FoodEntry) (*domain.FoodEntry, error)

	// DeleteFoodEntry removes one entry. Missing targets are a no-op.
	DeleteFoodEntry(ctx context.Context, ownerID, id string) error
}

// Backend bundles the per-entity stores of one mode.
type Backend interface {
	ExerciseStore
	WorkoutStore
	FoodEntryStore

	// Ping verifies the backing storage is reachable.
	Ping(ctx context.Context) error

	// Close releases the backing storage.
	Close() error
}
