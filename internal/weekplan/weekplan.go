// Package weekplan holds the 7-day meal plan model shared by the editor,
// the stores and the report renderer.
package weekplan

// Weekdays lists day names in plan order.
var Weekdays = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

const DaysPerWeek = len(Weekdays)

type Meal struct {
	MealType string   `json:"mealType" bson:"meal_type"`
	Calories int      `json:"calories" bson:"calories"`
	Protein  int      `json:"protein" bson:"protein"`
	Fats     int      `json:"fats" bson:"fats"`
	Carbs    int      `json:"carbs" bson:"carbs"`
	Items    []string `json:"items" bson:"items"`
}

type DayPlan struct {
	Day   string `json:"day" bson:"day"`
	Meals []Meal `json:"meals" bson:"meals"`
}

// WeekPlan is replaced as a whole on save; days are never merged.
type WeekPlan []DayPlan

// Complete reports whether the plan has one entry per weekday.
func (w WeekPlan) Complete() bool {
	return len(w) == DaysPerWeek
}

// Clone returns a deep copy. Meals and Items slices are never shared
// with the receiver.
func (w WeekPlan) Clone() WeekPlan {
	if w == nil {
		return nil
	}
	out := make(WeekPlan, len(w))
	for i, d := range w {
		out[i] = d.Clone()
	}
	return out
}

func (d DayPlan) Clone() DayPlan {
	out := DayPlan{Day: d.Day}
	if d.Meals != nil {
		out.Meals = make([]Meal, len(d.Meals))
		for i, m := range d.Meals {
			out.Meals[i] = m.Clone()
		}
	}
	return out
}

func (m Meal) Clone() Meal {
	if m.Items != nil {
		m.Items = append(make([]string, 0, len(m.Items)), m.Items...)
	}
	return m
}

// Totals is the sum of calories and macros over a set of meals.
type Totals struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Fats     int `json:"fats"`
	Carbs    int `json:"carbs"`
}

func (t Totals) add(m Meal) Totals {
	t.Calories += m.Calories
	t.Protein += m.Protein
	t.Fats += m.Fats
	t.Carbs += m.Carbs
	return t
}

func (d DayPlan) Totals() Totals {
	var t Totals
	for _, m := range d.Meals {
		t = t.add(m)
	}
	return t
}

func (w WeekPlan) Totals() Totals {
	var t Totals
	for _, d := range w {
		for _, m := range d.Meals {
			t = t.add(m)
		}
	}
	return t
}

// MealCount counts meals across all days.
func (w WeekPlan) MealCount() int {
	n := 0
	for _, d := range w {
		n += len(d.Meals)
	}
	return n
}
