package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// FoodEntry is one logged food item. Multiple entries per day and meal are
// expected; there is no uniqueness constraint.
type FoodEntry struct {
	ID       string    `json:"id"`
	OwnerID  string    `json:"owner_id,omitempty"`
	Date     time.Time `json:"date"`
	MealType string    `json:"meal_type"`
	FoodName string    `json:"food_name"`
	Calories float64   `json:"calories"`
	Protein  float64   `json:"protein"`
	Carbs    float64   `json:"carbs"`
	Fats     float64   `json:"fats"`
	Notes    string    `json:"notes,omitempty"`
}

// NutritionTotals holds field-wise sums for one day.
type NutritionTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// EntriesByDate filters entries to the given calendar day.
func EntriesByDate(entries []FoodEntry, date time.Time) []FoodEntry {
	var out []FoodEntry
	for _, e := range entries {
		if SameDay(e.Date, date) {
			out = append(out, e)
		}
	}
	return out
}

// EntriesByMealType filters entries to the given day and meal type.
func EntriesByMealType(entries []FoodEntry, date time.Time, mealType string) []FoodEntry {
	var out []FoodEntry
	for _, e := range entries {
		if SameDay(e.Date, date) && e.MealType == mealType {
			out = append(out, e)
		}
	}
	return out
}

// DailyNutrition sums nutrition fields over one day's entries. A day with no
// entries yields all-zero totals.
func DailyNutrition(entries []FoodEntry, date time.Time) NutritionTotals {
	var totals NutritionTotals
	for _, e := range EntriesByDate(entries, date) {
		totals.Calories += e.Calories
		totals.Protein += e.Protein
		totals.Carbs += e.Carbs
		totals.Fats += e.Fats
	}
	return totals
}

// CoerceNumber converts loosely typed numeric input to a float64. Missing,
// malformed, NaN and infinite values all collapse to 0 so invalid input can
// never reach stored state.
func CoerceNumber(v any) float64 {
	var n float64
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		n = t
	case float32:
		n = float64(t)
	case int:
		n = float64(t)
	case int64:
		n = float64(t)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		n = parsed
	default:
		return 0
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}
