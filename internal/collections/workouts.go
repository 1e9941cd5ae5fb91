package collections

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kostromin/fittrack/internal/domain"
	"github.com/kostromin/fittrack/internal/session"
	"github.com/kostromin/fittrack/internal/settings"
	"github.com/kostromin/fittrack/internal/store"
)

// Workouts is the workout-log collection. Weights are stored canonically in
// kilograms; imperial display copies are materialized at read time from the
// measurement setting.
type Workouts struct {
	session  *session.Manager
	local    store.WorkoutStore
	remote   store.WorkoutStore
	settings *settings.Store

	items []domain.Workout
	status
}

// NewWorkouts builds the collection. settingsStore may be nil when no unit
// conversion is wanted (tests mostly pass nil).
func NewWorkouts(sess *session.Manager, local, remote store.WorkoutStore, settingsStore *settings.Store) *Workouts {
	return &Workouts{session: sess, local: local, remote: remote, settings: settingsStore}
}

// WorkoutExerciseInput carries one exercise line to add or update.
type WorkoutExerciseInput struct {
	// ExerciseRef links to a catalog exercise. Online mode requires a valid
	// identifier (the remote schema enforces the foreign key); offline
	// records are denormalized and self-contained.
	ExerciseRef  string
	Name         string
	Category     string
	MuscleGroups []string
	Sets         int
	Reps         int
	Weight       *float64
	Notes        string
}

func (c *Workouts) backend(sess session.Session) (store.WorkoutStore, error) {
	if sess.Offline {
		return c.local, nil
	}
	if c.remote == nil {
		return nil, &domain.StorageError{Op: "select backend", Err: errRemoteDisabled}
	}
	return c.remote, nil
}

func (c *Workouts) currentSettings(ctx context.Context) settings.Settings {
	if c.settings == nil {
		return settings.Defaults()
	}
	loaded, err := c.settings.Load(ctx)
	if err != nil {
		return settings.Defaults()
	}
	return loaded
}

// displayCopy converts a workout's weights into the display unit without
// touching the canonical in-memory state.
func displayCopy(w domain.Workout, prefs settings.Settings) domain.Workout {
	if prefs.IsMetric {
		return w
	}
	out := w
	out.Exercises = make([]domain.WorkoutExercise, len(w.Exercises))
	copy(out.Exercises, w.Exercises)
	for i := range out.Exercises {
		if out.Exercises[i].Weight != nil {
			converted := prefs.DisplayWeight(*out.Exercises[i].Weight)
			out.Exercises[i].Weight = &converted
		}
	}
	return out
}

// FetchAll materializes the workout log, newest date first, with weights
// converted to the configured display unit.
func (c *Workouts) FetchAll(ctx context.Context) ([]domain.Workout, error) {
	c.begin()
	if err := c.session.WaitReady(ctx); err != nil {
		return nil, c.fail(err)
	}
	sess := c.session.Current()

	if !sess.Offline && !sess.Authenticated() {
		return nil, c.fail(domain.ErrNotAuthenticated)
	}
	backend, err := c.backend(sess)
	if err != nil {
		return nil, c.fail(err)
	}

	items, err := backend.ListWorkouts(ctx, sess.UserID())
	if err != nil {
		return nil, c.fail(err)
	}
	c.items = items

	prefs := c.currentSettings(ctx)
	out := make([]domain.Workout, len(items))
	for i, w := range items {
		out[i] = displayCopy(w, prefs)
	}
	c.done()
	return out, nil
}

// GetByDate returns the in-memory workout for the given calendar day, or
// nil. A miss is silent, never an error.
func (c *Workouts) GetByDate(date time.Time) *domain.Workout {
	for i := range c.items {
		if domain.SameDay(c.items[i].Date, date) {
			return &c.items[i]
		}
	}
	return nil
}

// AddWorkout returns the existing workout for the day when present, making
// repeated adds for one day idempotent; otherwise it creates, persists and
// materializes a new one.
func (c *Workouts) AddWorkout(ctx context.Context, date time.Time) (domain.Workout, error) {
	c.begin()
	if err := c.session.WaitReady(ctx); err != nil {
		return domain.Workout{}, c.fail(err)
	}
	sess := c.session.Current()

	if existing := c.GetByDate(date); existing != nil {
		c.done()
		return *existing, nil
	}

	if !sess.Offline && !sess.Authenticated() {
		return domain.Workout{}, c.fail(domain.ErrNotAuthenticated)
	}
	backend, err := c.backend(sess)
	if err != nil {
		return domain.Workout{}, c.fail(err)
	}

	workout, err := backend.InsertWorkout(ctx, sess.UserID(), date)
	if err != nil {
		return domain.Workout{}, c.fail(err)
	}
	c.items = append(c.items, workout)
	c.done()
	return workout, nil
}

// AddExercise appends one exercise line to the day's workout, creating the
// workout first when needed. Online mode rejects a missing or malformed
// catalog reference before touching storage.
func (c *Workouts) AddExercise(ctx context.Context, date time.Time, input WorkoutExerciseInput) (domain.WorkoutExercise, error) {
	c.begin()
	if err := c.session.WaitReady(ctx); err != nil {
		return domain.WorkoutExercise{}, c.fail(err)
	}
	sess := c.session.Current()

	if !sess.Offline {
		if input.ExerciseRef == "" {
			return domain.WorkoutExercise{}, c.fail(&domain.ValidationError{
				Field: "exercise_ref", Msg: "missing catalog reference"})
		}
		if err := uuid.Validate(input.ExerciseRef); err != nil {
			return domain.WorkoutExercise{}, c.fail(&domain.ValidationError{
				Field: "exercise_ref", Msg: "malformed catalog reference"})
		}
	}

	workout, err := c.AddWorkout(ctx, date)
	if err != nil {
		return domain.WorkoutExercise{}, err
	}
	c.begin()

	backend, err := c.backend(sess)
	if err != nil {
		return domain.WorkoutExercise{}, c.fail(err)
	}

	line, err := backend.InsertWorkoutExercise(ctx, sess.UserID(), workout.ID, domain.WorkoutExercise{
		ExerciseRef:  input.ExerciseRef,
		Name:         input.Name,
		Category:     input.Category,
		MuscleGroups: input.MuscleGroups,
		Sets:         input.Sets,
		Reps:         input.Reps,
		Weight:       input.Weight,
		Notes:        input.Notes,
	})
	if err != nil {
		return domain.WorkoutExercise{}, c.fail(err)
	}

	if parent := c.GetByDate(date); parent != nil {
		parent.Exercises = append(parent.Exercises, line)
	}
	c.done()
	return line, nil
}

// RemoveExercise deletes one line from the day's workout. A missing
// workout or line is a silent no-op; re-fetch races are expected.
func (c *Workouts) RemoveExercise(ctx context.Context, date time.Time, exerciseID string) error {
	c.begin()
	if err := c.session.WaitReady(ctx); err != nil {
		return c.fail(err)
	}
	sess := c.session.Current()

	workout := c.GetByDate(date)
	if workout == nil {
		c.done()
		return nil
	}

	backend, err := c.backend(sess)
	if err != nil {
		return c.fail(err)
	}
	if err := backend.DeleteWorkoutExercise(ctx, sess.UserID(), workout.ID, exerciseID); err != nil {
		return c.fail(err)
	}

	kept := workout.Exercises[:0]
	for _, line := range workout.Exercises {
		if line.ID != exerciseID {
			kept = append(kept, line)
		}
	}
	workout.Exercises = kept
	c.done()
	return nil
}

// UpdateExercise merges set/rep/weight/notes changes into one line. Missing
// targets are a silent no-op.
func (c *Workouts) UpdateExercise(ctx context.Context, date time.Time, exerciseID string, input WorkoutExerciseInput) error {
	c.begin()
	if err := c.session.WaitReady(ctx); err != nil {
		return c.fail(err)
	}
	sess := c.session.Current()

	workout := c.GetByDate(date)
	if workout == nil {
		c.done()
		return nil
	}
	line := workout.FindExercise(exerciseID)
	if line == nil {
		c.done()
		return nil
	}

	updated := *line
	updated.Sets = input.Sets
	updated.Reps = input.Reps
	updated.Weight = input.Weight
	updated.Notes = input.Notes

	backend, err := c.backend(sess)
	if err != nil {
		return c.fail(err)
	}
	if err := backend.UpdateWorkoutExercise(ctx, sess.UserID(), workout.ID, updated); err != nil {
		return c.fail(err)
	}

	*line = updated
	c.done()
	return nil
}

// Items returns the materialized workouts in canonical units.
func (c *Workouts) Items() []domain.Workout {
	return c.items
}

// GroupedByCategoryThenName returns one day's exercises grouped by category
// then exercise name, weights in the display unit. Pure recompute per call.
func (c *Workouts) GroupedByCategoryThenName(ctx context.Context, date time.Time) []domain.WorkoutCategoryGroup {
	workout := c.GetByDate(date)
	if workout == nil {
		return nil
	}
	view := displayCopy(*workout, c.currentSettings(ctx))
	return domain.GroupExercisesByCategoryThenName(view.Exercises)
}
