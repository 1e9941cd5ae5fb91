package collections

import (
	"context"
	"sort"

	"github.com/kostromin/fittrack/internal/domain"
	"github.com/kostromin/fittrack/internal/session"
	"github.com/kostromin/fittrack/internal/store"
)

// Exercises is the exercise-catalog collection.
type Exercises struct {
	session *session.Manager
	local   store.ExerciseStore
	remote  store.ExerciseStore

	items []domain.Exercise
	status
}

// NewExercises builds the collection. remote may be nil for offline-only
// builds; online operations then fail with a storage error.
func NewExercises(sess *session.Manager, local, remote store.ExerciseStore) *Exercises {
	return &Exercises{session: sess, local: local, remote: remote}
}

// CustomExerciseInput carries the fields of a user-created exercise.
type CustomExerciseInput struct {
	Name         string
	Category     string
	MuscleGroups []string
	Description  string
}

func (c *Exercises) backend(sess session.Session) (store.ExerciseStore, error) {
	if sess.Offline {
		return c.local, nil
	}
	if c.remote == nil {
		return nil, &domain.StorageError{Op: "select backend", Err: errRemoteDisabled}
	}
	return c.remote, nil
}

// FetchAll materializes the catalog for the current session.
//
// Offline: the cached snapshot, seeded with the builtin catalog when the
// cache is empty. Authenticated: the user's own rows; a first login clones
// the builtin catalog into user-owned rows (copy-on-first-read) so every
// account gets a private, independently mutable copy. Unauthenticated: the
// shared default rows, read-only.
func (c *Exercises) FetchAll(ctx context.Context) ([]domain.Exercise, error) {
	c.begin()
	if err := c.session.WaitReady(ctx); err != nil {
		return nil, c.fail(err)
	}
	sess := c.session.Current()

	backend, err := c.backend(sess)
	if err != nil {
		return nil, c.fail(err)
	}

	ownerID := sess.UserID()
	if !sess.Offline && !sess.Authenticated() {
		ownerID = "" // shared defaults
	}

	items, err := backend.ListExercises(ctx, ownerID)
	if err != nil {
		return nil, c.fail(err)
	}

	if len(items) == 0 && (sess.Offline || sess.Authenticated()) {
		items, err = backend.InsertExercises(ctx, ownerID, domain.BuiltinCatalog())
		if err != nil {
			return nil, c.fail(err)
		}
		sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	}

	c.items = items
	c.done()
	return items, nil
}

// CreateCustom adds a user-defined exercise. The result always has
// IsCustom set regardless of input.
func (c *Exercises) CreateCustom(ctx context.Context, input CustomExerciseInput) (*domain.Exercise, error) {
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

	inserted, err := backend.InsertExercises(ctx, sess.UserID(), []domain.Exercise{{
		Name:         input.Name,
		Category:     input.Category,
		MuscleGroups: input.MuscleGroups,
		Description:  input.Description,
		IsCustom:     true,
	}})
	if err != nil {
		return nil, c.fail(err)
	}

	c.items = append(c.items, inserted[0])
	c.done()
	return &inserted[0], nil
}

// DeleteCustom removes a custom exercise. Missing or builtin entries are a
// silent no-op returning false; defaults are never deletable.
func (c *Exercises) DeleteCustom(ctx context.Context, id string) (bool, error) {
	c.begin()
	if err := c.session.WaitReady(ctx); err != nil {
		return false, c.fail(err)
	}
	sess := c.session.Current()

	var target *domain.Exercise
	for i := range c.items {
		if c.items[i].ID == id {
			target = &c.items[i]
			break
		}
	}
	if target == nil || !target.IsCustom {
		c.done()
		return false, nil
	}

	backend, err := c.backend(sess)
	if err != nil {
		return false, c.fail(err)
	}

	deleted, err := backend.DeleteExercise(ctx, sess.UserID(), id)
	if err != nil {
		return false, c.fail(err)
	}
	if deleted {
		kept := c.items[:0]
		for _, ex := range c.items {
			if ex.ID != id {
				kept = append(kept, ex)
			}
		}
		c.items = kept
	}
	c.done()
	return deleted, nil
}

// Items returns the materialized collection.
func (c *Exercises) Items() []domain.Exercise {
	return c.items
}

// ByCategory groups the materialized collection into named category
// buckets. Recomputed from scratch on every read.
func (c *Exercises) ByCategory() []domain.CategoryGroup {
	return domain.GroupByCategory(c.items)
}

// Search filters the materialized collection by a case-insensitive
// substring of the exercise name.
func (c *Exercises) Search(term string) []domain.Exercise {
	return domain.SearchExercises(c.items, term)
}
