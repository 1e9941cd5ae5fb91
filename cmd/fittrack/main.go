// fittrack - dual-mode fitness tracking core
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/kostromin/fittrack/internal/authapi"
	"github.com/kostromin/fittrack/internal/collections"
	"github.com/kostromin/fittrack/internal/config"
	"github.com/kostromin/fittrack/internal/localcache"
	"github.com/kostromin/fittrack/internal/session"
	"github.com/kostromin/fittrack/internal/settings"
	"github.com/kostromin/fittrack/internal/store"
)

type app struct {
	session  *session.Manager
	exs      *collections.Exercises
	workouts *collections.Workouts
	diary    *collections.FoodDiary
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	cache, err := localcache.Open(cfg.CachePath)
	if err != nil {
		slog.Error("Failed to open local cache", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := cache.Close(); closeErr != nil {
			slog.Error("Failed to close local cache", "error", closeErr)
		}
	}()

	local := store.NewLocal(cache)

	var remote *store.RemoteStore
	if cfg.RemoteEnabled() {
		remote, err = store.NewRemote(cfg.DatabaseURL)
		if err != nil {
			slog.Error("Failed to connect to remote store", "error", err)
			os.Exit(1)
		}
		defer func() {
			if closeErr := remote.Close(); closeErr != nil {
				slog.Error("Failed to close remote store", "error", closeErr)
			}
		}()
		slog.Info("Remote store connected")
	}

	var auth session.AuthService
	if !cfg.OfflineOnly {
		auth = authapi.New(cfg.AuthBaseURL)
	}

	sess := session.NewManager(auth)
	ctx := context.Background()
	if err := sess.Start(ctx); err != nil {
		slog.Warn("Session probe failed, continuing unauthenticated", "error", err)
	}
	if cfg.OfflineOnly || !sess.Current().Authenticated() {
		sess.EnterOfflineMode()
	}

	settingsStore := settings.NewStore(cache)

	// RemoteStore satisfies all three store interfaces; a nil *RemoteStore
	// must not be wrapped into a non-nil interface value.
	var exRemote store.ExerciseStore
	var woRemote store.WorkoutStore
	var fdRemote store.FoodEntryStore
	if remote != nil {
		exRemote, woRemote, fdRemote = remote, remote, remote
	}

	a := &app{
		session:  sess,
		exs:      collections.NewExercises(sess, local, exRemote),
		workouts: collections.NewWorkouts(sess, local, woRemote, settingsStore),
		diary:    collections.NewFoodDiary(sess, local, fdRemote),
	}

	cmd := "catalog"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "catalog":
		err = a.printCatalog(ctx)
	case "totals":
		err = a.printTotals(ctx, os.Args[2:])
	case "workouts":
		err = a.printWorkouts(ctx)
	default:
		fmt.Fprintf(os.Stderr, "usage: fittrack [catalog|totals [YYYY-MM-DD]|workouts]\n")
		os.Exit(2)
	}
	if err != nil {
		slog.Error("Command failed", "command", cmd, "error", err)
		os.Exit(1)
	}
}

func (a *app) printCatalog(ctx context.Context) error {
	if _, err := a.exs.FetchAll(ctx); err != nil {
		return err
	}
	for _, group := range a.exs.ByCategory() {
		fmt.Printf("%s\n", group.Category)
		for _, ex := range group.Exercises {
			fmt.Printf("  %s\n", ex.Name)
		}
	}
	return nil
}

func (a *app) printTotals(ctx context.Context, args []string) error {
	date := time.Now()
	if len(args) > 0 {
		parsed, err := time.Parse("2006-01-02", args[0])
		if err != nil {
			return fmt.Errorf("parse date %q: %w", args[0], err)
		}
		date = parsed
	}

	if _, err := a.diary.FetchEntries(ctx, nil, nil); err != nil {
		return err
	}
	totals := a.diary.DailyNutritionTotals(date)
	fmt.Printf("%s: %.0f kcal, %.1fg protein, %.1fg carbs, %.1fg fats\n",
		date.Format("2006-01-02"), totals.Calories, totals.Protein, totals.Carbs, totals.Fats)
	return nil
}

func (a *app) printWorkouts(ctx context.Context) error {
	workouts, err := a.workouts.FetchAll(ctx)
	if err != nil {
		return err
	}
	for _, w := range workouts {
		fmt.Printf("%s (%d exercises)\n", w.Date.Format("2006-01-02"), len(w.Exercises))
		for _, ex := range w.Exercises {
			if ex.Weight != nil {
				fmt.Printf("  %s: %dx%d @ %.2f\n", ex.Name, ex.Sets, ex.Reps, *ex.Weight)
			} else {
				fmt.Printf("  %s: %dx%d\n", ex.Name, ex.Sets, ex.Reps)
			}
		}
	}
	return nil
}
