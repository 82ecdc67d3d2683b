package nutrition

import "strings"

type Gender string

const (
	Male   Gender = "Male"
	Female Gender = "Female"
)

type GoalType string

const (
	FatLoss  GoalType = "Fat Loss"
	Maintain GoalType = "Maintain"
	LeanGain GoalType = "Lean Gain"
)

type ActivityLevel string

const (
	Sedentary        ActivityLevel = "Sedentary"
	LightlyActive    ActivityLevel = "Lightly Active"
	ModeratelyActive ActivityLevel = "Moderately Active"
	VeryActive       ActivityLevel = "Very Active"
)

// Profile is the biometric input of the calculator.
type Profile struct {
	Name          string        `json:"name" bson:"name" toml:"name"`
	Age           int           `json:"age" bson:"age" toml:"age"`
	Gender        Gender        `json:"gender" bson:"gender" toml:"gender"`
	HeightCm      float64       `json:"height" bson:"height_cm" toml:"height"`
	WeightKg      float64       `json:"weight" bson:"weight_kg" toml:"weight"`
	GoalWeightKg  float64       `json:"goal_weight" bson:"goal_weight_kg" toml:"goal_weight"`
	TimeframeDays int           `json:"timeframe" bson:"timeframe_days" toml:"timeframe"`
	GoalType      GoalType      `json:"goal_type" bson:"goal_type" toml:"goal_type"`
	DietType      string        `json:"diet_type" bson:"diet_type" toml:"diet_type"`
	ActivityLevel ActivityLevel `json:"activity_level" bson:"activity_level" toml:"activity_level"`
}

// Targets are derived from a Profile and never edited directly.
type Targets struct {
	BMR           int `json:"bmr" bson:"bmr"`
	TDEE          int `json:"tdee" bson:"tdee"`
	DailyCalories int `json:"daily_calories" bson:"daily_calories"`
	Proteins      int `json:"proteins" bson:"proteins"`
	Fats          int `json:"fats" bson:"fats"`
	Carbs         int `json:"carbs" bson:"carbs"`
}

// Normalized trims text fields and maps loosely spelled enum values
// ("fat_loss", "lightly-active", "male") onto their canonical names.
// Values that match nothing are kept as given.
func (p Profile) Normalized() Profile {
	p.Name = strings.TrimSpace(p.Name)
	p.DietType = strings.TrimSpace(p.DietType)
	p.Gender = Gender(canonical(string(p.Gender), string(Male), string(Female)))
	p.GoalType = GoalType(canonical(string(p.GoalType), string(FatLoss), string(Maintain), string(LeanGain)))
	p.ActivityLevel = ActivityLevel(canonical(string(p.ActivityLevel),
		string(Sedentary), string(LightlyActive), string(ModeratelyActive), string(VeryActive)))
	return p
}

func canonical(raw string, known ...string) string {
	key := strings.NewReplacer("_", " ", "-", " ").Replace(strings.TrimSpace(raw))
	for _, k := range known {
		if strings.EqualFold(key, k) {
			return k
		}
	}
	return strings.TrimSpace(raw)
}

// CalculateResponse is returned by POST /v1/nutrition/calculate.
type CalculateResponse struct {
	Profile Profile `json:"profile"`
	Targets Targets `json:"targets"`
}
