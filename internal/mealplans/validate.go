package mealplans

import (
	"fmt"
	"strings"

	"github.com/fdg312/diet-planner/internal/weekplan"
)

const defaultMealType = "Meal"

// ValidationError blocks a save. Day is empty for plan-level problems.
type ValidationError struct {
	Day     string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Day == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Day, e.Message)
}

// ValidateForSave checks that the plan covers Monday..Sunday in order with at
// least one meal per day, and returns a sanitized copy: blank meal types
// become "Meal", negative numbers become 0, and item lists are trimmed.
func ValidateForSave(plan weekplan.WeekPlan) (weekplan.WeekPlan, error) {
	if !plan.Complete() {
		return nil, &ValidationError{
			Message: fmt.Sprintf("plan must have %d days, got %d", weekplan.DaysPerWeek, len(plan)),
		}
	}

	out := make(weekplan.WeekPlan, 0, len(plan))
	for i, d := range plan {
		want := weekplan.Weekdays[i]
		name := strings.TrimSpace(d.Day)
		switch {
		case name == "" || strings.EqualFold(name, want):
			name = want
		default:
			return nil, &ValidationError{Day: name, Message: fmt.Sprintf("expected %s at position %d", want, i+1)}
		}

		if len(d.Meals) == 0 {
			return nil, &ValidationError{Day: name, Message: "must have at least one meal"}
		}

		meals := make([]weekplan.Meal, 0, len(d.Meals))
		for _, m := range d.Meals {
			meals = append(meals, sanitizeMeal(m))
		}
		out = append(out, weekplan.DayPlan{Day: name, Meals: meals})
	}

	return out, nil
}

func sanitizeMeal(m weekplan.Meal) weekplan.Meal {
	mealType := strings.TrimSpace(m.MealType)
	if mealType == "" {
		mealType = defaultMealType
	}

	items := make([]string, 0, len(m.Items))
	for _, it := range m.Items {
		if s := strings.TrimSpace(it); s != "" {
			items = append(items, s)
		}
	}

	return weekplan.Meal{
		MealType: mealType,
		Calories: max(m.Calories, 0),
		Protein:  max(m.Protein, 0),
		Fats:     max(m.Fats, 0),
		Carbs:    max(m.Carbs, 0),
		Items:    items,
	}
}
