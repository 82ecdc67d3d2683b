package nutrition

import (
	"fmt"
	"math"
	"strings"
)

// ValidationError reports the first profile field that cannot be used.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// ValidateProfile checks the inputs the calculator cannot default.
// Unknown activity levels and goal types are accepted; they fall back to
// Sedentary and Maintain.
func ValidateProfile(p Profile) error {
	if strings.TrimSpace(p.Name) == "" {
		return invalid("name", "is required")
	}
	if p.Age < 1 {
		return invalid("age", "must be a positive integer")
	}
	if p.Gender != Male && p.Gender != Female {
		return invalid("gender", "must be Male or Female")
	}
	if !positive(p.HeightCm) {
		return invalid("height", "must be positive")
	}
	if !positive(p.WeightKg) {
		return invalid("weight", "must be positive")
	}
	if !positive(p.GoalWeightKg) {
		return invalid("goal_weight", "must be positive")
	}
	if p.TimeframeDays <= 0 {
		return invalid("timeframe", "must be a positive number of days")
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
