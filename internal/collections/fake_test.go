package collections

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kostromin/fittrack/internal/domain"
	"github.com/kostromin/fittrack/internal/localcache"
	"github.com/kostromin/fittrack/internal/session"
	"github.com/kostromin/fittrack/internal/store"
)

// stubAuth satisfies session.AuthService with a fixed user.
type stubAuth struct {
	user *domain.User
}

func (s stubAuth) Register(ctx context.Context, email, password, username string) (*domain.User, error) {
	return s.user, nil
}

func (s stubAuth) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	return s.user, nil
}

func (s stubAuth) CurrentSession(ctx context.Context) (*domain.User, error) {
	return s.user, nil
}

func (s stubAuth) SignOut(ctx context.Context) error { return nil }

func offlineSession(t *testing.T) *session.Manager {
	t.Helper()
	m := session.NewManager(nil)
	m.EnterOfflineMode()
	return m
}

func onlineSession(t *testing.T, userID string) *session.Manager {
	t.Helper()
	m := session.NewManager(stubAuth{user: &domain.User{ID: userID, Username: "tester"}})
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	return m
}

func unauthenticatedSession(t *testing.T) *session.Manager {
	t.Helper()
	m := session.NewManager(stubAuth{})
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	return m
}

func newLocalBackend(t *testing.T) (*store.LocalStore, *localcache.Cache) {
	t.Helper()
	cache, err := localcache.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open cache failed: %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })
	return store.NewLocal(cache), cache
}

// fakeRemote is an in-memory stand-in for the Postgres backend with the
// same observable semantics: owner scoping, name/date ordering, one workout
// per (owner, day), inclusive range bounds.
type fakeRemote struct {
	exercises []domain.Exercise
	workouts  []domain.Workout
	food      []domain.FoodEntry
}

func (f *fakeRemote) ListExercises(_ context.Context, ownerID string) ([]domain.Exercise, error) {
	var out []domain.Exercise
	for _, ex := range f.exercises {
		if ex.OwnerID == ownerID {
			out = append(out, ex)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeRemote) InsertExercises(_ context.Context, ownerID string, exercises []domain.Exercise) ([]domain.Exercise, error) {
	now := time.Now().UTC()
	inserted := make([]domain.Exercise, 0, len(exercises))
	for _, ex := range exercises {
		ex.ID = uuid.NewString()
		ex.OwnerID = ownerID
		ex.CreatedAt = now
		ex.UpdatedAt = now
		f.exercises = append(f.exercises, ex)
		inserted = append(inserted, ex)
	}
	return inserted, nil
}

func (f *fakeRemote) DeleteExercise(_ context.Context, ownerID, id string) (bool, error) {
	for i, ex := range f.exercises {
		if ex.ID == id && ex.OwnerID == ownerID {
			f.exercises = append(f.exercises[:i], f.exercises[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRemote) ListWorkouts(_ context.Context, ownerID string) ([]domain.Workout, error) {
	var out []domain.Workout
	for _, w := range f.workouts {
		if w.OwnerID == ownerID {
			copied := w
			copied.Exercises = append([]domain.WorkoutExercise{}, w.Exercises...)
			out = append(out, copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (f *fakeRemote) InsertWorkout(_ context.Context, ownerID string, date time.Time) (domain.Workout, error) {
	day := domain.Day(date)
	for _, w := range f.workouts {
		if w.OwnerID == ownerID && w.Date.Equal(day) {
			return domain.Workout{}, domain.WrapStorage("insert workout",
				fmt.Errorf("duplicate workout for %s", domain.DayString(day)))
		}
	}
	w := domain.Workout{ID: uuid.NewString(), OwnerID: ownerID, Date: day, Exercises: []domain.WorkoutExercise{}}
	f.workouts = append(f.workouts, w)
	return w, nil
}

func (f *fakeRemote) findWorkout(ownerID, workoutID string) *domain.Workout {
	for i := range f.workouts {
		if f.workouts[i].ID == workoutID && f.workouts[i].OwnerID == ownerID {
			return &f.workouts[i]
		}
	}
	return nil
}

func (f *fakeRemote) InsertWorkoutExercise(_ context.Context, ownerID, workoutID string, ex domain.WorkoutExercise) (domain.WorkoutExercise, error) {
	w := f.findWorkout(ownerID, workoutID)
	if w == nil {
		return domain.WorkoutExercise{}, domain.WrapStorage("insert workout exercise",
			fmt.Errorf("workout %s not found for owner", workoutID))
	}
	ex.ID = uuid.NewString()
	w.Exercises = append(w.Exercises, ex)
	return ex, nil
}

func (f *fakeRemote) UpdateWorkoutExercise(_ context.Context, ownerID, workoutID string, ex domain.WorkoutExercise) error {
	w := f.findWorkout(ownerID, workoutID)
	if w == nil {
		return nil
	}
	if line := w.FindExercise(ex.ID); line != nil {
		line.Sets = ex.Sets
		line.Reps = ex.Reps
		line.Weight = ex.Weight
		line.Notes = ex.Notes
	}
	return nil
}

func (f *fakeRemote) DeleteWorkoutExercise(_ context.Context, ownerID, workoutID, exerciseID string) error {
	w := f.findWorkout(ownerID, workoutID)
	if w == nil {
		return nil
	}
	kept := w.Exercises[:0]
	for _, line := range w.Exercises {
		if line.ID != exerciseID {
			kept = append(kept, line)
		}
	}
	w.Exercises = kept
	return nil
}

func (f *fakeRemote) ListFoodEntries(_ context.Context, ownerID string, start, end *time.Time) ([]domain.FoodEntry, error) {
	var out []domain.FoodEntry
	for _, e := range f.food {
		if e.OwnerID != ownerID {
			continue
		}
		if start != nil && e.Date.Before(domain.Day(*start)) {
			continue
		}
		if end != nil && e.Date.After(domain.Day(*end)) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (f *fakeRemote) InsertFoodEntry(_ context.Context, ownerID string, entry domain.FoodEntry) (domain.FoodEntry, error) {
	entry.ID = uuid.NewString()
	entry.OwnerID = ownerID
	entry.Date = domain.Day(entry.Date)
	f.food = append(f.food, entry)
	return entry, nil
}

func (f *fakeRemote) UpdateFoodEntry(_ context.Context, ownerID string, entry domain.FoodEntry) (*domain.FoodEntry, error) {
	for i := range f.food {
		if f.food[i].ID != entry.ID || f.food[i].OwnerID != ownerID {
			continue
		}
		f.food[i].MealType = entry.MealType
		f.food[i].FoodName = entry.FoodName
		f.food[i].Calories = entry.Calories
		f.food[i].Protein = entry.Protein
		f.food[i].Carbs = entry.Carbs
		f.food[i].Fats = entry.Fats
		f.food[i].Notes = entry.Notes
		updated := f.food[i]
		return &updated, nil
	}
	return nil, nil
}

func (f *fakeRemote) DeleteFoodEntry(_ context.Context, ownerID, id string) error {
	for i := range f.food {
		if f.food[i].ID == id && f.food[i].OwnerID == ownerID {
			f.food = append(f.food[:i], f.food[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeRemote) Ping(context.Context) error { return nil }
func (f *fakeRemote) Close() error               { return nil }

var _ store.Backend = (*fakeRemote)(nil)
