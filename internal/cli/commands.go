package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/fdg312/diet-planner/internal/mealplans"
	"github.com/fdg312/diet-planner/internal/nutrition"
	"github.com/fdg312/diet-planner/internal/reports"
	"github.com/fdg312/diet-planner/internal/weekplan"
	"github.com/spf13/cobra"
)

var (
	forceInit    bool
	asJSON       bool
	outputPath   string
	providerName string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a sample profile file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := createSample(profilePath, forceInit); err != nil {
			return fmt.Errorf("failed to write %s: %w", profilePath, err)
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", green("created"), profilePath)
		return nil
	},
}

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "Print BMR, TDEE, daily calories and macros for the profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		pf, err := loadProfile(profilePath)
		if err != nil {
			return err
		}
		targets, err := nutrition.Compute(pf.Profile)
		if err != nil {
			return err
		}

		if asJSON {
			return writeJSON(cmd.OutOrStdout(), nutrition.CalculateResponse{Profile: pf.Profile, Targets: targets})
		}
		printTargets(cmd.OutOrStdout(), pf.Profile, targets)
		return nil
	},
}

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Print the week plan (the profile's own plan, or the template)",
	RunE: func(cmd *cobra.Command, args []string) error {
		pf, err := loadProfile(profilePath)
		if err != nil {
			return err
		}
		targets, plan, templated, err := pf.resolve()
		if err != nil {
			return err
		}

		if asJSON {
			return writeJSON(cmd.OutOrStdout(), plan)
		}
		printTargets(cmd.OutOrStdout(), pf.Profile, targets)
		printPlan(cmd.OutOrStdout(), plan, targets, templated)
		return nil
	},
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the PDF report for the profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		pf, err := loadProfile(profilePath)
		if err != nil {
			return err
		}
		targets, plan, _, err := pf.resolve()
		if err != nil {
			return err
		}

		data, err := reports.NewRenderer(providerName).Render(reports.Input{
			Profile: pf.Profile,
			Targets: targets,
			Plan:    plan,
		})
		if err != nil {
			return err
		}

		out := outputPath
		if out == "" {
			out = reports.Filename(pf.Name)
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d bytes)\n", green("wrote"), out, len(data))
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "overwrite an existing file")
	targetsCmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	templateCmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	renderCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default <name>_diet_plan.pdf)")
	renderCmd.Flags().StringVar(&providerName, "provider", "Diet Planner", "provider name on the report")
}

func printTargets(w io.Writer, p nutrition.Profile, t nutrition.Targets) {
	green := color.New(color.FgGreen).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Fprintf(w, "\n%s\n", green(strings.ToUpper(p.Name)))
	fmt.Fprintf(w, "%s: %s, %s: %s\n", cyan("Goal"), p.GoalType, cyan("Activity"), p.ActivityLevel)
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "%s %d kcal   %s %d kcal   %s %d kcal\n",
		cyan("BMR"), t.BMR, cyan("TDEE"), t.TDEE, cyan("Daily"), t.DailyCalories)
	fmt.Fprintf(w, "%s %d g   %s %d g   %s %d g\n",
		cyan("Protein"), t.Proteins, cyan("Fats"), t.Fats, cyan("Carbs"), t.Carbs)
}

func printPlan(w io.Writer, plan weekplan.WeekPlan, t nutrition.Targets, templated bool) {
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	if templated {
		fmt.Fprintf(w, "\n%s\n", cyan("(template plan)"))
	}
	for _, day := range plan {
		status := mealplans.StatusOf(day, t)
		fmt.Fprintf(w, "\n%s  %d/%d kcal\n", yellow(day.Day), status.Totals.Calories, t.DailyCalories)
		fmt.Fprintln(w, strings.Repeat("-", 60))
		for i, m := range day.Meals {
			fmt.Fprintf(w, "%d. %-10s %5d kcal  P:%d F:%d C:%d\n", i+1, m.MealType, m.Calories, m.Protein, m.Fats, m.Carbs)
			if len(m.Items) > 0 {
				fmt.Fprintf(w, "   %s: %s\n", cyan("Items"), strings.Join(m.Items, ", "))
			}
		}
		if status.OverCalories {
			fmt.Fprintf(w, "   %s\n", red("over calorie target"))
		}
		if status.OverProtein {
			fmt.Fprintf(w, "   %s\n", red("over protein target"))
		}
	}
	week := plan.Totals()
	fmt.Fprintf(w, "\n%s %d kcal  P:%d F:%d C:%d\n", yellow("Week"), week.Calories, week.Protein, week.Fats, week.Carbs)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
