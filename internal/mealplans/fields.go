package mealplans

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/fdg312/diet-planner/internal/weekplan"
)

// Field is one editable meal attribute. The set of implementations is closed:
// NumericField, MealTypeField and ItemsField.
type Field interface {
	apply(m *weekplan.Meal, raw string)
	Name() string
}

type NumericKind int

const (
	Calories NumericKind = iota
	Protein
	Fats
	Carbs
)

// NumericField coerces its input with CoerceNumber.
type NumericField struct {
	Kind NumericKind
}

func (f NumericField) Name() string {
	switch f.Kind {
	case Protein:
		return "protein"
	case Fats:
		return "fats"
	case Carbs:
		return "carbs"
	default:
		return "calories"
	}
}

func (f NumericField) apply(m *weekplan.Meal, raw string) {
	v := CoerceNumber(raw)
	switch f.Kind {
	case Calories:
		m.Calories = v
	case Protein:
		m.Protein = v
	case Fats:
		m.Fats = v
	case Carbs:
		m.Carbs = v
	}
}

// MealTypeField stores the label verbatim.
type MealTypeField struct{}

func (MealTypeField) Name() string { return "mealType" }

func (MealTypeField) apply(m *weekplan.Meal, raw string) {
	m.MealType = raw
}

// ItemsField takes a comma separated list.
type ItemsField struct{}

func (ItemsField) Name() string { return "items" }

func (ItemsField) apply(m *weekplan.Meal, raw string) {
	m.Items = ParseItems(raw)
}

// ParseField maps a wire name to its Field.
func ParseField(name string) (Field, error) {
	switch strings.TrimSpace(name) {
	case "calories":
		return NumericField{Kind: Calories}, nil
	case "protein":
		return NumericField{Kind: Protein}, nil
	case "fats":
		return NumericField{Kind: Fats}, nil
	case "carbs":
		return NumericField{Kind: Carbs}, nil
	case "mealType", "meal_type":
		return MealTypeField{}, nil
	case "items":
		return ItemsField{}, nil
	default:
		return nil, fmt.Errorf("unknown meal field %q", name)
	}
}

// CoerceNumber parses a decimal number and truncates it to a non-negative
// int. Anything unparseable becomes 0.
func CoerceNumber(raw string) int {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(v)
}

// ParseItems splits on commas and drops blank entries.
func ParseItems(raw string) []string {
	items := []string{}
	for _, part := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(part); s != "" {
			items = append(items, s)
		}
	}
	return items
}
