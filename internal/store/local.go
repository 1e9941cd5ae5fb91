package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/kostromin/fittrack/internal/domain"
	"github.com/kostromin/fittrack/internal/localcache"
)

// LocalStore implements Backend over full-collection JSON snapshots in the
// local cache. Every write rewrites one whole snapshot, so there is no
// partially written state to observe. Owner scoping is a no-op here: the
// cache belongs to the single guest identity.
type LocalStore struct {
	cache *localcache.Cache
}

// NewLocal creates the offline backend over the given cache.
func NewLocal(cache *localcache.Cache) *LocalStore {
	return &LocalStore{cache: cache}
}

func localID() string {
	return "local-" + uuid.NewString()
}

func loadSnapshot[T any](ctx context.Context, cache *localcache.Cache, key string) ([]T, error) {
	raw, ok, err := cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode %s snapshot: %w", key, err)
	}
	return items, nil
}

func saveSnapshot[T any](ctx context.Context, cache *localcache.Cache, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s snapshot: %w", key, err)
	}
	return cache.Set(ctx, key, string(data))
}

// ListExercises returns the cached exercises ordered by name.
func (s *LocalStore) ListExercises(ctx context.Context, _ string) ([]domain.Exercise, error) {
	items, err := loadSnapshot[domain.Exercise](ctx, s.cache, localcache.KeyExercises)
	if err != nil {
		return nil, domain.WrapStorage("list exercises", err)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

// InsertExercises appends the batch to the snapshot and rewrites it.
func (s *LocalStore) InsertExercises(ctx context.Context, ownerID string, exercises []domain.Exercise) ([]domain.Exercise, error) {
	items, err := loadSnapshot[domain.Exercise](ctx, s.cache, localcache.KeyExercises)
	if err != nil {
		return nil, domain.WrapStorage("insert exercises", err)
	}

	now := time.Now().UTC()
	inserted := make([]domain.Exercise, 0, len(exercises))
	for _, ex := range exercises {
		ex.ID = localID()
		ex.OwnerID = ownerID
		ex.CreatedAt = now
		ex.UpdatedAt = now
		inserted = append(inserted, ex)
	}

	if err := saveSnapshot(ctx, s.cache, localcache.KeyExercises, append(items, inserted...)); err != nil {
		return nil, domain.WrapStorage("insert exercises", err)
	}
	return inserted, nil
}

// DeleteExercise filters the exercise out and rewrites the snapshot.
func (s *LocalStore) DeleteExercise(ctx context.Context, _ string, id string) (bool, error) {
	items, err := loadSnapshot[domain.Exercise](ctx, s.cache, localcache.KeyExercises)
	if err != nil {
		return false, domain.WrapStorage("delete exercise", err)
	}

	kept := items[:0]
	found := false
	for _, ex := range items {
		if ex.ID == id {
			found = true
			continue
		}
		kept = append(kept, ex)
	}
	if !found {
		return false, nil
	}

	if err := saveSnapshot(ctx, s.cache, localcache.KeyExercises, kept); err != nil {
		return false, domain.WrapStorage("delete exercise", err)
	}
	return true, nil
}

// ListWorkouts returns cached workouts, newest date first.
func (s *LocalStore) ListWorkouts(ctx context.Context, _ string) ([]domain.Workout, error) {
	items, err := loadSnapshot[domain.Workout](ctx, s.cache, localcache.KeyWorkouts)
	if err != nil {
		return nil, domain.WrapStorage("list workouts", err)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Date.After(items[j].Date) })
	return items, nil
}

// InsertWorkout appends an empty workout for the given day. The snapshot is
// checked for an existing same-day workout so the one-per-day invariant holds
// even when the caller has not materialized the collection yet.
func (s *LocalStore) InsertWorkout(ctx context.Context, ownerID string, date time.Time) (domain.Workout, error) {
	items, err := loadSnapshot[domain.Workout](ctx, s.cache, localcache.KeyWorkouts)
	if err != nil {
		return domain.Workout{}, domain.WrapStorage("insert workout", err)
	}

	for i := range items {
		if domain.SameDay(items[i].Date, date) {
			return domain.Workout{}, domain.WrapStorage("insert workout",
				fmt.Errorf("workout already exists for %s", domain.DayString(date)))
		}
	}

	workout := domain.Workout{
		ID:        localID(),
		OwnerID:   ownerID,
		Date:      domain.Day(date),
		Exercises: []domain.WorkoutExercise{},
	}

	if err := saveSnapshot(ctx, s.cache, localcache.KeyWorkouts, append(items, workout)); err != nil {
		return domain.Workout{}, domain.WrapStorage("insert workout", err)
	}
	return workout, nil
}

func (s *LocalStore) mutateWorkout(ctx context.Context, op, workoutID string, fn func(*domain.Workout)) error {
	items, err := loadSnapshot[domain.Workout](ctx, s.cache, localcache.KeyWorkouts)
	if err != nil {
		return domain.WrapStorage(op, err)
	}

	for i := range items {
		if items[i].ID == workoutID {
			fn(&items[i])
			if err := saveSnapshot(ctx, s.cache, localcache.KeyWorkouts, items); err != nil {
				return domain.WrapStorage(op, err)
			}
			return nil
		}
	}
	// Missing parent workouts are tolerated, matching the silent-miss rule.
	return nil
}

// InsertWorkoutExercise appends a denormalized exercise line. Offline mode
// has no catalog foreign key; the line is self-contained.
func (s *LocalStore) InsertWorkoutExercise(ctx context.Context, _ string, workoutID string, ex domain.WorkoutExercise) (domain.WorkoutExercise, error) {
	ex.ID = localID()
	err := s.mutateWorkout(ctx, "insert workout exercise", workoutID, func(w *domain.Workout) {
		w.Exercises = append(w.Exercises, ex)
	})
	if err != nil {
		return domain.WorkoutExercise{}, err
	}
	return ex, nil
}

// UpdateWorkoutExercise merges the line in place; missing targets no-op.
func (s *LocalStore) UpdateWorkoutExercise(ctx context.Context, _ string, workoutID string, ex domain.WorkoutExercise) error {
	return s.mutateWorkout(ctx, "update workout exercise", workoutID, func(w *domain.Workout) {
		if line := w.FindExercise(ex.ID); line != nil {
			line.Sets = ex.Sets
			line.Reps = ex.Reps
			line.Weight = ex.Weight
			line.Notes = ex.Notes
		}
	})
}

// DeleteWorkoutExercise removes the line; missing targets no-op.
func (s *LocalStore) DeleteWorkoutExercise(ctx context.Context, _ string, workoutID, exerciseID string) error {
	return s.mutateWorkout(ctx, "delete workout exercise", workoutID, func(w *domain.Workout) {
		kept := w.Exercises[:0]
		for _, line := range w.Exercises {
			if line.ID != exerciseID {
				kept = append(kept, line)
			}
		}
		w.Exercises = kept
	})
}

// ListFoodEntries loads the entire snapshot, newest date first. The date
// bounds are deliberately ignored in offline mode.
func (s *LocalStore) ListFoodEntries(ctx context.Context, _ string, _, _ *time.Time) ([]domain.FoodEntry, error) {
	items, err := loadSnapshot[domain.FoodEntry](ctx, s.cache, localcache.KeyFoodEntries)
	if err != nil {
		return nil, domain.WrapStorage("list food entries", err)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Date.After(items[j].Date) })
	return items, nil
}

// InsertFoodEntry appends the entry and rewrites the snapshot.
func (s *LocalStore) InsertFoodEntry(ctx context.Context, ownerID string, entry domain.FoodEntry) (domain.FoodEntry, error) {
	items, err := loadSnapshot[domain.FoodEntry](ctx, s.cache, localcache.KeyFoodEntries)
	if err != nil {
		return domain.FoodEntry{}, domain.WrapStorage("insert food entry", err)
	}

	entry.ID = localID()
	entry.OwnerID = ownerID
	entry.Date = domain.Day(entry.Date)

	if err := saveSnapshot(ctx, s.cache, localcache.KeyFoodEntries, append(items, entry)); err != nil {
		return domain.FoodEntry{}, domain.WrapStorage("insert food entry", err)
	}
	return entry, nil
}

// UpdateFoodEntry replaces mutable fields; returns nil on a missing target.
func (s *LocalStore) UpdateFoodEntry(ctx context.Context, _ string, entry domain.FoodEntry) (*domain.FoodEntry, error) {
	items, err := loadSnapshot[domain.FoodEntry](ctx, s.cache, localcache.KeyFoodEntries)
	if err != nil {
		return nil, domain.WrapStorage("update food entry", err)
	}

	for i := range items {
		if items[i].ID != entry.ID {
			continue
		}
		items[i].MealType = entry.MealType
		items[i].FoodName = entry.FoodName
		items[i].Calories = entry.Calories
		items[i].Protein = entry.Protein
		items[i].Carbs = entry.Carbs
		items[i].Fats = entry.Fats
		items[i].Notes = entry.Notes
		if err := saveSnapshot(ctx, s.cache, localcache.KeyFoodEntries, items); err != nil {
			return nil, domain.WrapStorage("update food entry", err)
		}
		updated := items[i]
		return &updated, nil
	}
	return nil, nil
}

// DeleteFoodEntry filters the entry out; missing targets no-op.
func (s *LocalStore) DeleteFoodEntry(ctx context.Context, _ string, id string) error {
	items, err := loadSnapshot[domain.FoodEntry](ctx, s.cache, localcache.KeyFoodEntries)
	if err != nil {
		return domain.WrapStorage("delete food entry", err)
	}

	kept := items[:0]
	for _, e := range items {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if err := saveSnapshot(ctx, s.cache, localcache.KeyFoodEntries, kept); err != nil {
		return domain.WrapStorage("delete food entry", err)
	}
	return nil
}

// Ping verifies the cache is reachable.
func (s *LocalStore) Ping(ctx context.Context) error {
	return s.cache.Ping(ctx)
}

// Close is a no-op; the cache is owned by the composition root.
func (s *LocalStore) Close() error { return nil }
