package mealplans

import (
	"github.com/fdg312/diet-planner/internal/nutrition"
	"github.com/fdg312/diet-planner/internal/weekplan"
)

// MealShare is the fraction of daily calories a template meal receives.
type MealShare struct {
	MealType string
	Share    float64
}

// MealDistribution sums to 1.0.
var MealDistribution = []MealShare{
	{MealType: "Breakfast", Share: 0.30},
	{MealType: "Lunch", Share: 0.30},
	{MealType: "Dinner", Share: 0.30},
	{MealType: "Snack 1", Share: 0.05},
	{MealType: "Snack 2", Share: 0.05},
}

// BuildDay splits the daily targets across MealDistribution. Each meal keeps
// the day's macro energy ratios. Per-meal rounding means the meals may not
// add up exactly to the targets; that drift is left alone.
func BuildDay(day string, t nutrition.Targets) weekplan.DayPlan {
	proteinKcal := float64(t.Proteins * nutrition.KcalPerGramProtein)
	fatKcal := float64(t.Fats * nutrition.KcalPerGramFat)
	carbKcal := float64(t.Carbs * nutrition.KcalPerGramCarbs)

	total := proteinKcal + fatKcal + carbKcal
	if total < 1 {
		total = 1
	}

	meals := make([]weekplan.Meal, 0, len(MealDistribution))
	for _, share := range MealDistribution {
		kcal := nutrition.Round(float64(t.DailyCalories) * share.Share)
		meals = append(meals, weekplan.Meal{
			MealType: share.MealType,
			Calories: kcal,
			Protein:  nutrition.Round(float64(kcal) * (proteinKcal / total) / nutrition.KcalPerGramProtein),
			Fats:     nutrition.Round(float64(kcal) * (fatKcal / total) / nutrition.KcalPerGramFat),
			Carbs:    nutrition.Round(float64(kcal) * (carbKcal / total) / nutrition.KcalPerGramCarbs),
			Items:    []string{},
		})
	}

	return weekplan.DayPlan{Day: day, Meals: meals}
}

// BuildWeeklyTemplate returns seven identical days, Monday first.
func BuildWeeklyTemplate(t nutrition.Targets) weekplan.WeekPlan {
	plan := make(weekplan.WeekPlan, 0, weekplan.DaysPerWeek)
	for _, day := range weekplan.Weekdays {
		plan = append(plan, BuildDay(day, t))
	}
	return plan
}
