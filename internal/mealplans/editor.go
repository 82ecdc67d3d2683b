package mealplans

import (
	"github.com/fdg312/diet-planner/internal/nutrition"
	"github.com/fdg312/diet-planner/internal/weekplan"
)

const newMealType = "Snack"

// Editor is an editing session over one client's week plan. It is a value:
// every mutation returns a new Editor holding a fresh copy of the plan and
// leaves the receiver untouched.
type Editor struct {
	Targets nutrition.Targets
	Plan    weekplan.WeekPlan
	Dirty   bool

	snapshot weekplan.WeekPlan
}

// DayStatus is the advisory comparison of a day against the targets.
type DayStatus struct {
	Day          string          `json:"day"`
	Totals       weekplan.Totals `json:"totals"`
	OverCalories bool            `json:"over_calories"`
	OverProtein  bool            `json:"over_protein"`
}

// NewEditor starts a session from a stored plan, or from the template when
// the stored plan is missing or does not cover the whole week.
func NewEditor(t nutrition.Targets, existing weekplan.WeekPlan) Editor {
	plan := existing
	if !plan.Complete() {
		plan = BuildWeeklyTemplate(t)
	}
	return Editor{
		Targets:  t,
		Plan:     plan.Clone(),
		snapshot: plan.Clone(),
	}
}

// Snapshot returns a copy of the plan the session was loaded with.
func (e Editor) Snapshot() weekplan.WeekPlan {
	return e.snapshot.Clone()
}

// WithPlan swaps in a working copy that was edited elsewhere. The loaded
// snapshot is kept, so Discard still goes back to it.
func (e Editor) WithPlan(plan weekplan.WeekPlan) Editor {
	e.Plan = plan.Clone()
	e.Dirty = true
	return e
}

// mutate clones the plan, lets fn change one day, and marks the session
// dirty. fn returns false for a no-op, in which case e comes back as is.
func (e Editor) mutate(day int, fn func(d *weekplan.DayPlan) bool) Editor {
	if day < 0 || day >= len(e.Plan) {
		return e
	}
	next := e.Plan.Clone()
	if !fn(&next[day]) {
		return e
	}
	e.Plan = next
	e.Dirty = true
	return e
}

func (e Editor) UpdateMealField(day, mealIndex int, field Field, raw string) Editor {
	if field == nil {
		return e
	}
	return e.mutate(day, func(d *weekplan.DayPlan) bool {
		if mealIndex < 0 || mealIndex >= len(d.Meals) {
			return false
		}
		field.apply(&d.Meals[mealIndex], raw)
		return true
	})
}

// AddMeal appends an empty "Snack" to the day.
func (e Editor) AddMeal(day int) Editor {
	return e.mutate(day, func(d *weekplan.DayPlan) bool {
		d.Meals = append(d.Meals, weekplan.Meal{MealType: newMealType, Items: []string{}})
		return true
	})
}

// RemoveMeal ignores out-of-range indexes. Removing the last meal of a day
// is allowed here; ValidateForSave rejects it later.
func (e Editor) RemoveMeal(day, mealIndex int) Editor {
	return e.mutate(day, func(d *weekplan.DayPlan) bool {
		if mealIndex < 0 || mealIndex >= len(d.Meals) {
			return false
		}
		meals := make([]weekplan.Meal, 0, len(d.Meals)-1)
		meals = append(meals, d.Meals[:mealIndex]...)
		d.Meals = append(meals, d.Meals[mealIndex+1:]...)
		return true
	})
}

// Prefill throws away the working plan and rebuilds it from the targets.
func (e Editor) Prefill() Editor {
	e.Plan = BuildWeeklyTemplate(e.Targets)
	e.Dirty = true
	return e
}

// Discard returns to the plan the session was loaded with.
func (e Editor) Discard() Editor {
	e.Plan = e.snapshot.Clone()
	e.Dirty = false
	return e
}

func (e Editor) DayTotals(day int) weekplan.Totals {
	if day < 0 || day >= len(e.Plan) {
		return weekplan.Totals{}
	}
	return e.Plan[day].Totals()
}

func (e Editor) WeekTotals() weekplan.Totals {
	return e.Plan.Totals()
}

func (e Editor) DayStatus(day int) DayStatus {
	if day < 0 || day >= len(e.Plan) {
		return DayStatus{}
	}
	return StatusOf(e.Plan[day], e.Targets)
}

// Statuses returns one DayStatus per day in plan order.
func (e Editor) Statuses() []DayStatus {
	return statuses(e.Plan, e.Targets)
}

// Validate runs the save checks against the working plan.
func (e Editor) Validate() (weekplan.WeekPlan, error) {
	return ValidateForSave(e.Plan)
}

// StatusOf flags a day whose calories or protein exceed a non-zero target.
func StatusOf(d weekplan.DayPlan, t nutrition.Targets) DayStatus {
	totals := d.Totals()
	return DayStatus{
		Day:          d.Day,
		Totals:       totals,
		OverCalories: t.DailyCalories > 0 && totals.Calories > t.DailyCalories,
		OverProtein:  t.Proteins > 0 && totals.Protein > t.Proteins,
	}
}

func statuses(plan weekplan.WeekPlan, t nutrition.Targets) []DayStatus {
	out := make([]DayStatus, 0, len(plan))
	for _, d := range plan {
		out = append(out, StatusOf(d, t))
	}
	return out
}
