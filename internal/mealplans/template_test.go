package mealplans

import (
	"testing"

	"github.com/fdg312/diet-planner/internal/nutrition"
	"github.com/fdg312/diet-planner/internal/weekplan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleTargets = nutrition.Targets{
	BMR:           1654,
	TDEE:          1985,
	DailyCalories: 1588,
	Proteins:      126,
	Fats:          56,
	Carbs:         145,
}

func TestMealDistributionSumsToOne(t *testing.T) {
	sum := 0.0
	for _, s := range MealDistribution {
		sum += s.Share
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestBuildDay(t *testing.T) {
	day := BuildDay("Monday", sampleTargets)

	require.Len(t, day.Meals, 5)
	assert.Equal(t, "Monday", day.Day)

	assert.Equal(t, weekplan.Meal{MealType: "Breakfast", Calories: 476, Protein: 38, Fats: 17, Carbs: 43, Items: []string{}}, day.Meals[0])
	assert.Equal(t, "Lunch", day.Meals[1].MealType)
	assert.Equal(t, "Dinner", day.Meals[2].MealType)
	assert.Equal(t, weekplan.Meal{MealType: "Snack 1", Calories: 79, Protein: 6, Fats: 3, Carbs: 7, Items: []string{}}, day.Meals[3])
	assert.Equal(t, "Snack 2", day.Meals[4].MealType)

	assert.Equal(t, 1586, day.Totals().Calories)
}

func TestBuildDayZeroTargets(t *testing.T) {
	day := BuildDay("Sunday", nutrition.Targets{})
	for _, m := range day.Meals {
		assert.Equal(t, 0, m.Calories)
		assert.Equal(t, 0, m.Protein)
		assert.Equal(t, 0, m.Fats)
		assert.Equal(t, 0, m.Carbs)
		assert.NotNil(t, m.Items)
	}
}

func TestBuildDayCalorieDriftIsBounded(t *testing.T) {
	for daily := 0; daily <= 6000; daily += 37 {
		tg := nutrition.Targets{DailyCalories: daily, Proteins: daily / 20, Fats: daily / 40, Carbs: daily / 9}
		day := BuildDay("Monday", tg)

		diff := day.Totals().Calories - daily
		if diff < 0 {
			diff = -diff
		}
		assert.LessOrEqual(t, diff, len(day.Meals), "daily=%d", daily)
	}
}

func TestBuildWeeklyTemplate(t *testing.T) {
	plan := BuildWeeklyTemplate(sampleTargets)

	require.Len(t, plan, 7)
	for i, d := range plan {
		assert.Equal(t, weekplan.Weekdays[i], d.Day)
		assert.Equal(t, plan[0].Meals, d.Meals)
	}
}

func TestBuildWeeklyTemplateIsIdempotent(t *testing.T) {
	assert.Equal(t, BuildWeeklyTemplate(sampleTargets), BuildWeeklyTemplate(sampleTargets))
}

func TestBuildWeeklyTemplateDaysDoNotShareSlices(t *testing.T) {
	plan := BuildWeeklyTemplate(sampleTargets)
	plan[0].Meals[0].Calories = 1
	assert.Equal(t, 476, plan[1].Meals[0].Calories)
}
