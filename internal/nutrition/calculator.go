package nutrition

import "math"

const (
	proteinPerKg = 1.8
	fatPerKg     = 0.8

	KcalPerGramProtein = 4
	KcalPerGramFat     = 9
	KcalPerGramCarbs   = 4
)

var activityMultipliers = map[ActivityLevel]float64{
	Sedentary:        1.2,
	LightlyActive:    1.375,
	ModeratelyActive: 1.55,
	VeryActive:       1.725,
}

var goalFactors = map[GoalType]float64{
	FatLoss:  0.80,
	Maintain: 1.0,
	LeanGain: 1.10,
}

// Multiplier returns the TDEE multiplier. Unknown levels count as Sedentary.
func (a ActivityLevel) Multiplier() float64 {
	if m, ok := activityMultipliers[a]; ok {
		return m
	}
	return activityMultipliers[Sedentary]
}

// Factor returns the calorie adjustment for the goal. Unknown goals keep TDEE.
func (g GoalType) Factor() float64 {
	if f, ok := goalFactors[g]; ok {
		return f
	}
	return 1.0
}

// Round rounds to the nearest integer with halves going up (2.5 -> 3,
// -2.5 -> -2). Every derived number in a plan goes through it.
func Round(x float64) int {
	return int(math.Floor(x + 0.5))
}

// CalcBMR is the Mifflin-St Jeor resting energy estimate. Any gender other
// than Male uses the female constant.
func CalcBMR(gender Gender, weightKg, heightCm float64, age int) int {
	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if gender == Male {
		return Round(base + 5)
	}
	return Round(base - 161)
}

func CalcTDEE(bmr int, level ActivityLevel) int {
	return Round(float64(bmr) * level.Multiplier())
}

func CalcDailyCalories(tdee int, goal GoalType) int {
	return Round(float64(tdee) * goal.Factor())
}

// CalcMacros splits daily calories into grams. Protein and fat scale with body
// weight; carbs take whatever energy is left and never go below zero.
func CalcMacros(weightKg float64, dailyCalories int) (proteins, fats, carbs int) {
	proteins = Round(weightKg * proteinPerKg)
	fats = Round(weightKg * fatPerKg)
	remaining := dailyCalories - (proteins*KcalPerGramProtein + fats*KcalPerGramFat)
	if remaining < 0 {
		remaining = 0
	}
	carbs = Round(float64(remaining) / KcalPerGramCarbs)
	return proteins, fats, carbs
}

// TargetsFor runs the full chain without validating the profile.
func TargetsFor(p Profile) Targets {
	bmr := CalcBMR(p.Gender, p.WeightKg, p.HeightCm, p.Age)
	tdee := CalcTDEE(bmr, p.ActivityLevel)
	daily := CalcDailyCalories(tdee, p.GoalType)
	proteins, fats, carbs := CalcMacros(p.WeightKg, daily)
	return Targets{
		BMR:           bmr,
		TDEE:          tdee,
		DailyCalories: daily,
		Proteins:      proteins,
		Fats:          fats,
		Carbs:         carbs,
	}
}

// Compute validates the profile and derives its targets.
func Compute(p Profile) (Targets, error) {
	if err := ValidateProfile(p); err != nil {
		return Targets{}, err
	}
	return TargetsFor(p), nil
}
