package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/fdg312/diet-planner/internal/mealplans"
	"github.com/fdg312/diet-planner/internal/nutrition"
	"github.com/fdg312/diet-planner/internal/weekplan"
)

// profileFile is the on-disk client description. Plan is optional; when
// absent or incomplete the template is used.
type profileFile struct {
	nutrition.Profile
	Plan weekplan.WeekPlan `toml:"plan"`
}

func loadProfile(path string) (*profileFile, error) {
	var pf profileFile
	md, err := toml.DecodeFile(path, &pf)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown keys in %s: %v", path, undecoded)
	}
	pf.Profile = pf.Profile.Normalized()
	return &pf, nil
}

// resolve computes targets and picks the plan to show.
func (pf *profileFile) resolve() (nutrition.Targets, weekplan.WeekPlan, bool, error) {
	targets, err := nutrition.Compute(pf.Profile)
	if err != nil {
		return nutrition.Targets{}, nil, false, err
	}

	if !pf.Plan.Complete() {
		return targets, mealplans.BuildWeeklyTemplate(targets), true, nil
	}
	plan, err := mealplans.ValidateForSave(pf.Plan)
	if err != nil {
		return nutrition.Targets{}, nil, false, err
	}
	return targets, plan, false, nil
}

func sampleProfile() profileFile {
	return profileFile{Profile: nutrition.Profile{
		Name:          "Jane Doe",
		Age:           30,
		Gender:        nutrition.Female,
		HeightCm:      165,
		WeightKg:      68,
		GoalWeightKg:  62,
		TimeframeDays: 90,
		GoalType:      nutrition.FatLoss,
		DietType:      "Balanced",
		ActivityLevel: nutrition.LightlyActive,
	}}
}

func writeSample(w io.Writer) error {
	return toml.NewEncoder(w).Encode(sampleProfile())
}

func createSample(path string, force bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	return writeSample(f)
}
