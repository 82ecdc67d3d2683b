package reports

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fdg312/diet-planner/internal/nutrition"
	"github.com/fdg312/diet-planner/internal/weekplan"
)

const (
	topY     = 780.0
	minY     = 100.0
	footerY  = 30.0
	leftX    = 40.0
	rightX   = 320.0
	boxX     = leftX - 10
	boxWidth = 515.0

	infoRowHeight   = 20.0
	dayHeaderHeight = 20.0
	mealRowHeight   = 18.0
	itemLineHeight  = 12.0
	dayGap          = 8.0
)

// Table columns.
const (
	colMeal    = leftX + 5
	colKcal    = 170.0
	colProtein = 220.0
	colFats    = 270.0
	colCarbs   = 315.0
	colItems   = 360.0
	itemsWidth = boxX + boxWidth - colItems
)

var (
	labelFont  = font{Size: 11}
	valueFont  = font{Size: 11, Bold: true}
	boxTitle   = font{Size: 14, Bold: true}
	dayFont    = font{Size: 12, Bold: true}
	mealFont   = font{Size: 10}
	itemFont   = font{Size: 9}
	footerFont = font{Size: 9}
)

// Input is everything a report shows.
type Input struct {
	Profile nutrition.Profile
	Targets nutrition.Targets
	Plan    weekplan.WeekPlan
}

// Renderer lays out a diet plan report. It does no I/O.
type Renderer struct {
	provider  string
	now       func() time.Time
	newCanvas func() canvas
}

func NewRenderer(provider string) *Renderer {
	if strings.TrimSpace(provider) == "" {
		provider = "Diet Planner"
	}
	return &Renderer{provider: provider, now: time.Now, newCanvas: newPDFCanvas}
}

// Render returns the PDF bytes for in. Absent meals or items render as
// empty sections rather than failing.
func (r *Renderer) Render(in Input) ([]byte, error) {
	l := &layout{c: r.newCanvas()}
	l.newPage()

	l.header(r.provider)
	l.clientInfo(in.Profile)
	l.targets(in.Targets)
	l.weekPlan(in.Plan)

	l.c.Text(leftX, footerY, footerFont, gray,
		fmt.Sprintf("Generated by %s — %s", r.provider, r.now().Format("2006-01-02 15:04")))

	data, err := l.c.Output()
	if err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return data, nil
}

type layout struct {
	c     canvas
	y     float64
	pages int
	// inTable repeats the column header on every page the week table spans.
	inTable bool
}

func (l *layout) newPage() {
	l.c.AddPage()
	l.pages++
	l.y = topY
	if l.inTable {
		l.columnHeader()
	}
}

// reserve starts a new page when a row of height h would cross minY.
func (l *layout) reserve(h float64) {
	if l.y-h < minY {
		l.newPage()
	}
}

func (l *layout) header(provider string) {
	l.c.FillRect(0, topY, pageWidth, pageHeight-topY, brandBlue)
	l.c.Text(leftX, 800, font{Size: 24, Bold: true}, white, "Diet Plan")
	l.c.Text(rightX, 800, font{Size: 12}, white, provider)
	l.y -= 40
}

func (l *layout) clientInfo(p nutrition.Profile) {
	rows := [][2]string{
		{"Name: " + dash(p.Name), "Age: " + dashInt(p.Age)},
		{"Gender: " + dash(string(p.Gender)), "Height: " + dashFloat(p.HeightCm) + " cm"},
		{"Weight: " + dashFloat(p.WeightKg) + " kg", "Goal Weight: " + dashFloat(p.GoalWeightKg) + " kg"},
		{"Goal: " + dash(string(p.GoalType)), "Diet Type: " + dash(p.DietType)},
		{"Activity: " + dash(string(p.ActivityLevel)), "Timeframe: " + dashInt(p.TimeframeDays) + " days"},
	}
	l.box("Client Information", rgb{0.95, 0.95, 0.95}, rows, rightX)
}

func (l *layout) targets(t nutrition.Targets) {
	rows := [][2]string{
		{fmt.Sprintf("BMR: %d kcal", t.BMR), fmt.Sprintf("TDEE: %d kcal", t.TDEE)},
		{fmt.Sprintf("Daily Calories: %d kcal", t.DailyCalories), fmt.Sprintf("Protein: %d g", t.Proteins)},
		{fmt.Sprintf("Fats: %d g", t.Fats), fmt.Sprintf("Carbs: %d g", t.Carbs)},
	}
	l.box("Targets", rgb{0.9, 0.95, 1}, rows, rightX)
}

// box draws a shaded two-column block with one title row.
func (l *layout) box(title string, shade rgb, rows [][2]string, secondX float64) {
	height := float64(len(rows)+1) * infoRowHeight
	l.c.FillRect(boxX, l.y-height+infoRowHeight-6, boxWidth, height+4, shade)
	l.c.Text(leftX, l.y, boxTitle, navy, title)
	l.y -= infoRowHeight
	for _, row := range rows {
		l.c.Text(leftX, l.y, labelFont, black, row[0])
		l.c.Text(secondX, l.y, labelFont, black, row[1])
		l.y -= infoRowHeight
	}
	l.y -= 10
}

func (l *layout) weekPlan(plan weekplan.WeekPlan) {
	l.c.Text(leftX, l.y, font{Size: 16, Bold: true}, brandBlue, "Weekly Meal Plan")
	l.y -= 25

	if len(plan) == 0 {
		l.c.Text(leftX, l.y, labelFont, black, "No meal plan available.")
		return
	}

	l.reserve(mealRowHeight)
	l.columnHeader()
	l.inTable = true
	defer func() { l.inTable = false }()

	for d, day := range plan {
		label := strings.TrimSpace(day.Day)
		if label == "" {
			label = "Day " + strconv.Itoa(d+1)
		}

		l.reserve(dayHeaderHeight)
		l.c.FillRect(leftX-5, l.y-5, boxWidth, 15, rgb{0.8, 0.9, 1})
		l.c.Text(leftX, l.y, dayFont, black, label)
		l.y -= dayHeaderHeight

		for i, m := range day.Meals {
			l.meal(i, m)
		}
		l.y -= dayGap
	}
}

func (l *layout) columnHeader() {
	for _, col := range []struct {
		x     float64
		label string
	}{
		{colMeal, "Meal"}, {colKcal, "kcal"}, {colProtein, "Protein"},
		{colFats, "Fats"}, {colCarbs, "Carbs"}, {colItems, "Items"},
	} {
		l.c.Text(col.x, l.y, valueFont, navy, col.label)
	}
	l.y -= mealRowHeight
}

func (l *layout) meal(i int, m weekplan.Meal) {
	name := strings.TrimSpace(m.MealType)
	if name == "" {
		name = "Meal"
	}
	lines := l.c.SplitText(strings.Join(m.Items, ", "), itemFont, itemsWidth)

	l.reserve(mealRowHeight)
	if i%2 == 0 {
		l.c.FillRect(leftX-5, l.y-5, boxWidth, 15, rgb{0.95, 0.95, 1})
	}
	l.c.Text(colMeal, l.y, mealFont, black, name)
	l.c.Text(colKcal, l.y, mealFont, black, strconv.Itoa(m.Calories))
	l.c.Text(colProtein, l.y, mealFont, black, strconv.Itoa(m.Protein)+" g")
	l.c.Text(colFats, l.y, mealFont, black, strconv.Itoa(m.Fats)+" g")
	l.c.Text(colCarbs, l.y, mealFont, black, strconv.Itoa(m.Carbs)+" g")
	if len(lines) > 0 {
		l.c.Text(colItems, l.y, itemFont, black, lines[0])
	}
	l.y -= mealRowHeight

	for _, line := range lines[min(1, len(lines)):] {
		l.reserve(itemLineHeight)
		l.c.Text(colItems, l.y, itemFont, black, line)
		l.y -= itemLineHeight
	}
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func dashInt(v int) string {
	if v <= 0 {
		return "-"
	}
	return strconv.Itoa(v)
}

func dashFloat(v float64) string {
	if v <= 0 {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
