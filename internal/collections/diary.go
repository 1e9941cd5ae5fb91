package collections

import (
	"context"
	"time"

	"github.com/kostromin/fittrack/internal/domain"
	"github.com/kostromin/fittrack/internal/session"
	"github.com/kostromin/fittrack/internal/store"
)

// FoodDiary is the food-log collection.
type FoodDiary struct {
	session *session.Manager
	local   store.FoodEntryStore
	remote  store.FoodEntryStore

	entries []domain.FoodEntry
	status
}

// NewFoodDiary builds the collection; remote may be nil for offline-only builds.
func NewFoodDiary(sess *session.Manager, local, remote store.FoodEntryStore) *FoodDiary {
	return &FoodDiary{session: sess, local: local, remote: remote}
}

// FoodEntryInput carries one entry's fields. Nutrition values are loosely
// typed: strings, ints and floats are all accepted and coerced, with
// missing or malformed values collapsing to 0.
type FoodEntryInput struct {
	MealType string
	FoodName string
	Calories any
	Protein  any
	Carbs    any
	Fats     any
	Notes    string
}

func (in FoodEntryInput) entry(date time.Time) domain.FoodEntry {
	return domain.FoodEntry{
		Date:     domain.Day(date),
		MealType: in.MealType,
		FoodName: in.FoodName,
		Calories: domain.CoerceNumber(in.Calories),
		Protein:  domain.CoerceNumber(in.Protein),
		Carbs:    domain.CoerceNumber(in.Carbs),
		Fats:     domain.CoerceNumber(in.Fats),
		Notes:    in.Notes,
	}
}

func (c *FoodDiary) backend(sess session.Session) (store.FoodEntryStore, error) {
	if sess.Offline {
		return c.local, nil
	}
	if c.remote == nil {
		return nil, &domain.StorageError{Op: "select backend", Err: errRemoteDisabled}
	}
	return c.remote, nil
}

// FetchEntries materializes the diary. Offline mode loads the entire
// snapshot and ignores the range; online mode applies the bounds
// inclusively. The asymmetry is a documented property of the system, not a
// bug to fix here.
func (c *FoodDiary) FetchEntries(ctx context.Context, start, end *time.Time) ([]domain.FoodEntry, error) {
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

	entries, err := backend.ListFoodEntries(ctx, sess.UserID(), start, end)
	if err != nil {
		return nil, c.fail(err)
	}
	c.entries = entries
	c.done()
	return entries, nil
}

// AddEntry logs one food item for the given day.
func (c *FoodDiary) AddEntry(ctx context.Context, date time.Time, input FoodEntryInput) (domain.FoodEntry, error) {
	c.begin()
	if err := c.session.WaitReady(ctx); err != nil {
		return domain.FoodEntry{}, c.fail(err)
	}
	sess := c.session.Current()

	if !sess.Offline && !sess.Authenticated() {
		return domain.FoodEntry{}, c.fail(domain.ErrNotAuthenticated)
	}
	backend, err := c.backend(sess)
	if err != nil {
		return domain.FoodEntry{}, c.fail(err)
	}

	entry, err := backend.InsertFoodEntry(ctx, sess.UserID(), input.entry(date))
	if err != nil {
		return domain.FoodEntry{}, c.fail(err)
	}
	c.entries = append(c.entries, entry)
	c.done()
	return entry, nil
}

// UpdateEntry replaces an entry's fields. A missing target is a silent
// no-op returning nil.
func (c *FoodDiary) UpdateEntry(ctx context.Context, id string, input FoodEntryInput) (*domain.FoodEntry, error) {
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

	// Updates never move an entry between days; the backend keeps the stored
	// date and returns it with the row.
	entry := input.entry(time.Time{})
	entry.ID = id
	updated, err := backend.UpdateFoodEntry(ctx, sess.UserID(), entry)
	if err != nil {
		return nil, c.fail(err)
	}
	if updated == nil {
		c.done()
		return nil, nil
	}

	for i := range c.entries {
		if c.entries[i].ID == id {
			c.entries[i] = *updated
			break
		}
	}
	c.done()
	return updated, nil
}

// DeleteEntry removes one entry; missing targets are a silent no-op.
func (c *FoodDiary) DeleteEntry(ctx context.Context, id string) error {
	c.begin()
	if err := c.session.WaitReady(ctx); err != nil {
		return c.fail(err)
	}
	sess := c.session.Current()

	if !sess.Offline && !sess.Authenticated() {
		return c.fail(domain.ErrNotAuthenticated)
	}
	backend, err := c.backend(sess)
	if err != nil {
		return c.fail(err)
	}

	if err := backend.DeleteFoodEntry(ctx, sess.UserID(), id); err != nil {
		return c.fail(err)
	}
	kept := c.entries[:0]
	for _, e := range c.entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	c.entries = kept
	c.done()
	return nil
}

// Entries returns the materialized diary.
func (c *FoodDiary) Entries() []domain.FoodEntry {
	return c.entries
}

// EntriesByDate filters the materialized diary to one calendar day.
func (c *FoodDiary) EntriesByDate(date time.Time) []domain.FoodEntry {
	return domain.EntriesByDate(c.entries, date)
}

// DailyNutritionTotals sums the four nutrition fields over one day.
func (c *FoodDiary) DailyNutritionTotals(date time.Time) domain.NutritionTotals {
	return domain.DailyNutrition(c.entries, date)
}

// EntriesByMealType filters one day's entries to a meal type.
func (c *FoodDiary) EntriesByMealType(date time.Time, mealType string) []domain.FoodEntry {
	return domain.EntriesByMealType(c.entries, date, mealType)
}
