package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"github.com/kostromin/fittrack/internal/domain"
)

// RemoteStore implements Backend against the hosted Postgres tables. Every
// query carries an owner_id predicate so one user can never read or mutate
// another user's rows, even with a guessed ID.
type RemoteStore struct {
	db *sql.DB
}

// NewRemote opens the remote backend, pings it and applies the schema.
func NewRemote(dsn string) (*RemoteStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &RemoteStore{db: db}
	if err := s.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *RemoteStore) initSchema(ctx context.Context) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS exercises (
		id TEXT PRIMARY KEY,
		owner_id TEXT,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		muscle_groups TEXT NOT NULL DEFAULT '[]',
		description TEXT NOT NULL DEFAULT '',
		is_custom BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_exercises_owner ON exercises(owner_id);

	CREATE TABLE IF NOT EXISTS workouts (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		date DATE NOT NULL,
		UNIQUE (owner_id, date)
	);

	CREATE TABLE IF NOT EXISTS workout_exercises (
		id TEXT PRIMARY KEY,
		workout_id TEXT NOT NULL REFERENCES workouts(id) ON DELETE CASCADE,
		exercise_id TEXT NOT NULL REFERENCES exercises(id),
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		muscle_groups TEXT NOT NULL DEFAULT '[]',
		sets INTEGER NOT NULL DEFAULT 0,
		reps INTEGER NOT NULL DEFAULT 0,
		weight DOUBLE PRECISION,
		notes TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_workout_exercises_workout ON workout_exercises(workout_id);

	CREATE TABLE IF NOT EXISTS food_entries (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		date DATE NOT NULL,
		meal_type TEXT NOT NULL,
		food_name TEXT NOT NULL,
		calories DOUBLE PRECISION NOT NULL DEFAULT 0,
		protein DOUBLE PRECISION NOT NULL DEFAULT 0,
		carbs DOUBLE PRECISION NOT NULL DEFAULT 0,
		fats DOUBLE PRECISION NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_food_entries_owner_date ON food_entries(owner_id, date);
	`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func marshalMuscles(groups []string) string {
	if groups == nil {
		groups = []string{}
	}
	data, _ := json.Marshal(groups)
	return string(data)
}

func unmarshalMuscles(raw string) []string {
	var groups []string
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), &groups); err != nil {
		return nil
	}
	return groups
}

// ListExercises returns exercises ordered by name. An empty ownerID selects
// the shared default rows (owner IS NULL).
func (s *RemoteStore) ListExercises(ctx context.Context, ownerID string) ([]domain.Exercise, error) {
	query := `
		SELECT id, COALESCE(owner_id, ''), name, category, muscle_groups,
		       description, is_custom, created_at, updated_at
		FROM exercises WHERE `
	var rows *sql.Rows
	var err error
	if ownerID == "" {
		rows, err = s.db.QueryContext(ctx, query+`owner_id IS NULL ORDER BY name ASC`)
	} else {
		rows, err = s.db.QueryContext(ctx, query+`owner_id = $1 ORDER BY name ASC`, ownerID)
	}
	if err != nil {
		return nil, domain.WrapStorage("list exercises", err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.Exercise
	for rows.Next() {
		var ex domain.Exercise
		var muscles string
		if err := rows.Scan(&ex.ID, &ex.OwnerID, &ex.Name, &ex.Category, &muscles,
			&ex.Description, &ex.IsCustom, &ex.CreatedAt, &ex.UpdatedAt); err != nil {
			return nil, domain.WrapStorage("scan exercise row", err)
		}
		ex.MuscleGroups = unmarshalMuscles(muscles)
		out = append(out, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapStorage("iterate exercises", err)
	}
	return out, nil
}

// InsertExercises inserts a batch in one transaction and returns the stored
// rows. A batch is how the builtin catalog is cloned for a first login.
func (s *RemoteStore) InsertExercises(ctx context.Context, ownerID string, exercises []domain.Exercise) ([]domain.Exercise, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, domain.WrapStorage("insert exercises", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO exercises (id, owner_id, name, category, muscle_groups,
			description, is_custom, created_at, updated_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9)`

	now := time.Now().UTC()
	inserted := make([]domain.Exercise, 0, len(exercises))
	for _, ex := range exercises {
		ex.ID = uuid.NewString()
		ex.OwnerID = ownerID
		ex.CreatedAt = now
		ex.UpdatedAt = now
		if _, err := tx.ExecContext(ctx, query, ex.ID, ex.OwnerID, ex.Name, ex.Category,
			marshalMuscles(ex.MuscleGroups), ex.Description, ex.IsCustom, ex.CreatedAt, ex.UpdatedAt); err != nil {
			return nil, domain.WrapStorage("insert exercise", err)
		}
		inserted = append(inserted, ex)
	}

	if err := tx.Commit(); err != nil {
		return nil, domain.WrapStorage("insert exercises", err)
	}
	return inserted, nil
}

// DeleteExercise removes one owner-scoped row; false when nothing matched.
func (s *RemoteStore) DeleteExercise(ctx context.Context, ownerID, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM exercises WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return false, domain.WrapStorage("delete exercise", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, domain.WrapStorage("delete exercise", err)
	}
	return rows > 0, nil
}

// ListWorkouts returns the owner's workouts newest first with their lines.
func (s *RemoteStore) ListWorkouts(ctx context.Context, ownerID string) ([]domain.Workout, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, date FROM workouts WHERE owner_id = $1 ORDER BY date DESC`, ownerID)
	if err != nil {
		return nil, domain.WrapStorage("list workouts", err)
	}
	defer func() { _ = rows.Close() }()

	var workouts []domain.Workout
	index := make(map[string]int)
	for rows.Next() {
		var w domain.Workout
		if err := rows.Scan(&w.ID, &w.OwnerID, &w.Date); err != nil {
			return nil, domain.WrapStorage("scan workout row", err)
		}
		w.Date = domain.Day(w.Date)
		w.Exercises = []domain.WorkoutExercise{}
		index[w.ID] = len(workouts)
		workouts = append(workouts, w)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapStorage("iterate workouts", err)
	}
	if len(workouts) == 0 {
		return workouts, nil
	}

	lineRows, err := s.db.QueryContext(ctx, `
		SELECT we.id, we.workout_id, we.exercise_id, we.name, we.category,
		       we.muscle_groups, we.sets, we.reps, we.weight, we.notes
		FROM workout_exercises we
		JOIN workouts w ON w.id = we.workout_id
		WHERE w.owner_id = $1`, ownerID)
	if err != nil {
		return nil, domain.WrapStorage("list workout exercises", err)
	}
	defer func() { _ = lineRows.Close() }()

	for lineRows.Next() {
		var line domain.WorkoutExercise
		var workoutID, muscles string
		var weight sql.NullFloat64
		if err := lineRows.Scan(&line.ID, &workoutID, &line.ExerciseRef, &line.Name,
			&line.Category, &muscles, &line.Sets, &line.Reps, &weight, &line.Notes); err != nil {
			return nil, domain.WrapStorage("scan workout exercise row", err)
		}
		line.MuscleGroups = unmarshalMuscles(muscles)
		if weight.Valid {
			v := weight.Float64
			line.Weight = &v
		}
		if i, ok := index[workoutID]; ok {
			workouts[i].Exercises = append(workouts[i].Exercises, line)
		}
	}
	if err := lineRows.Err(); err != nil {
		return nil, domain.WrapStorage("iterate workout exercises", err)
	}
	return workouts, nil
}

// InsertWorkout creates an empty workout row for the day. The UNIQUE
// (owner_id, date) constraint backs the one-workout-per-day invariant.
func (s *RemoteStore) InsertWorkout(ctx context.Context, ownerID string, date time.Time) (domain.Workout, error) {
	w := domain.Workout{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Date:      domain.Day(date),
		Exercises: []domain.WorkoutExercise{},
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO workouts (id, owner_id, date) VALUES ($1, $2, $3)`,
		w.ID, w.OwnerID, w.Date)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Workout{}, domain.WrapStorage("insert workout",
				fmt.Errorf("workout already exists for %s: %w", domain.DayString(w.Date), err))
		}
		return domain.Workout{}, domain.WrapStorage("insert workout", err)
	}
	return w, nil
}

// InsertWorkoutExercise appends one line, verifying the parent is owned by
// the caller. The exercise_id FK is enforced by the schema.
func (s *RemoteStore) InsertWorkoutExercise(ctx context.Context, ownerID, workoutID string, ex domain.WorkoutExercise) (domain.WorkoutExercise, error) {
	ex.ID = uuid.NewString()
	var weight sql.NullFloat64
	if ex.Weight != nil {
		weight = sql.NullFloat64{Float64: *ex.Weight, Valid: true}
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO workout_exercises (id, workout_id, exercise_id, name, category,
			muscle_groups, sets, reps, weight, notes)
		SELECT $1, w.id, $3, $4, $5, $6, $7, $8, $9, $10
		FROM workouts w WHERE w.id = $2 AND w.owner_id = $11`,
		ex.ID, workoutID, ex.ExerciseRef, ex.Name, ex.Category,
		marshalMuscles(ex.MuscleGroups), ex.Sets, ex.Reps, weight, ex.Notes, ownerID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.WorkoutExercise{}, &domain.ValidationError{
				Field: "exercise_ref", Msg: "unknown catalog exercise " + ex.ExerciseRef,
			}
		}
		return domain.WorkoutExercise{}, domain.WrapStorage("insert workout exercise", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return domain.WorkoutExercise{}, domain.WrapStorage("insert workout exercise", err)
	}
	if rows == 0 {
		return domain.WorkoutExercise{}, domain.WrapStorage("insert workout exercise",
			fmt.Errorf("workout %s not found for owner", workoutID))
	}
	return ex, nil
}

// UpdateWorkoutExercise merges set/rep/weight/notes; missing targets no-op.
func (s *RemoteStore) UpdateWorkoutExercise(ctx context.Context, ownerID, workoutID string, ex domain.WorkoutExercise) error {
	var weight sql.NullFloat64
	if ex.Weight != nil {
		weight = sql.NullFloat64{Float64: *ex.Weight, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE workout_exercises we SET sets = $1, reps = $2, weight = $3, notes = $4
		FROM workouts w
		WHERE we.id = $5 AND we.workout_id = $6 AND w.id = we.workout_id AND w.owner_id = $7`,
		ex.Sets, ex.Reps, weight, ex.Notes, ex.ID, workoutID, ownerID)
	if err != nil {
		return domain.WrapStorage("update workout exercise", err)
	}
	return nil
}

// DeleteWorkoutExercise removes one line; missing targets no-op.
func (s *RemoteStore) DeleteWorkoutExercise(ctx context.Context, ownerID, workoutID, exerciseID string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM workout_exercises we
		USING workouts w
		WHERE we.id = $1 AND we.workout_id = $2 AND w.id = we.workout_id AND w.owner_id = $3`,
		exerciseID, workoutID, ownerID)
	if err != nil {
		return domain.WrapStorage("delete workout exercise", err)
	}
	return nil
}

// ListFoodEntries applies inclusive bounds when given, newest date first.
func (s *RemoteStore) ListFoodEntries(ctx context.Context, ownerID string, start, end *time.Time) ([]domain.FoodEntry, error) {
	query := `
		SELECT id, owner_id, date, meal_type, food_name,
		       calories, protein, carbs, fats, notes
		FROM food_entries WHERE owner_id = $1`
	args := []any{ownerID}
	if start != nil {
		args = append(args, domain.Day(*start))
		query += fmt.Sprintf(` AND date >= $%d`, len(args))
	}
	if end != nil {
		args = append(args, domain.Day(*end))
		query += fmt.Sprintf(` AND date <= $%d`, len(args))
	}
	query += ` ORDER BY date DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.WrapStorage("list food entries", err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.FoodEntry
	for rows.Next() {
		var e domain.FoodEntry
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.Date, &e.MealType, &e.FoodName,
			&e.Calories, &e.Protein, &e.Carbs, &e.Fats, &e.Notes); err != nil {
			return nil, domain.WrapStorage("scan food entry row", err)
		}
		e.Date = domain.Day(e.Date)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapStorage("iterate food entries", err)
	}
	return out, nil
}

// InsertFoodEntry stores one entry.
func (s *RemoteStore) InsertFoodEntry(ctx context.Context, ownerID string, entry domain.FoodEntry) (domain.FoodEntry, error) {
	entry.ID = uuid.NewString()
	entry.OwnerID = ownerID
	entry.Date = domain.Day(entry.Date)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO food_entries (id, owner_id, date, meal_type, food_name,
			calories, protein, carbs, fats, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		entry.ID, entry.OwnerID, entry.Date, entry.MealType, entry.FoodName,
		entry.Calories, entry.Protein, entry.Carbs, entry.Fats, entry.Notes)
	if err != nil {
		return domain.FoodEntry{}, domain.WrapStorage("insert food entry", err)
	}
	return entry, nil
}

// UpdateFoodEntry replaces mutable fields; nil result on a missing target.
// The stored date is returned with the row; updates never move an entry
// between days.
func (s *RemoteStore) UpdateFoodEntry(ctx context.Context, ownerID string, entry domain.FoodEntry) (*domain.FoodEntry, error) {
	var date time.Time
	err := s.db.QueryRowContext(ctx, `
		UPDATE food_entries SET meal_type = $1, food_name = $2, calories = $3,
			protein = $4, carbs = $5, fats = $6, notes = $7
		WHERE id = $8 AND owner_id = $9
		RETURNING date`,
		entry.MealType, entry.FoodName, entry.Calories, entry.Protein,
		entry.Carbs, entry.Fats, entry.Notes, entry.ID, ownerID).Scan(&date)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, domain.WrapStorage("update food entry", err)
	}
	entry.OwnerID = ownerID
	entry.Date = domain.Day(date)
	return &entry, nil
}

// DeleteFoodEntry removes one owner-scoped entry; missing targets no-op.
func (s *RemoteStore) DeleteFoodEntry(ctx context.Context, ownerID, id string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM food_entries WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return domain.WrapStorage("delete food entry", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *RemoteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *RemoteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close postgres: %w", err)
	}
	return nil
}
