package mealplans

import (
	"fmt"
	"time"

	"github.com/fdg312/diet-planner/internal/nutrition"
	"github.com/fdg312/diet-planner/internal/weekplan"
	"github.com/google/uuid"
)

// PlanView is a plan plus everything a client needs to render it.
type PlanView struct {
	ClientID  uuid.UUID         `json:"client_id"`
	Plan      weekplan.WeekPlan `json:"plan"`
	Version   int               `json:"version"`
	Templated bool              `json:"templated"`
	Targets   nutrition.Targets `json:"targets"`
	Days      []DayStatus       `json:"days"`
	Week      weekplan.Totals   `json:"week"`
	UpdatedAt *time.Time        `json:"updated_at,omitempty"`
}

type SavePlanRequest struct {
	Days    weekplan.WeekPlan `json:"days"`
	Version *int              `json:"version,omitempty"`
}

const (
	OpUpdateField = "update_field"
	OpAddMeal     = "add_meal"
	OpRemoveMeal  = "remove_meal"
	OpPrefill     = "prefill"
	OpDiscard     = "discard"
)

// EditOp is one editor call. Day is 0 for Monday.
type EditOp struct {
	Op        string `json:"op"`
	Day       int    `json:"day"`
	MealIndex int    `json:"meal_index"`
	Field     string `json:"field,omitempty"`
	Value     string `json:"value,omitempty"`
}

// EditRequest replays ops over the stored plan, or over Plan when the
// caller already holds unsaved edits.
type EditRequest struct {
	Plan weekplan.WeekPlan `json:"plan,omitempty"`
	Ops  []EditOp          `json:"ops"`
}

type EditResponse struct {
	PlanView
	Dirty bool `json:"dirty"`
}

func (r *EditRequest) Validate() error {
	if len(r.Ops) > 500 {
		return fmt.Errorf("ops cannot exceed 500")
	}
	for i, op := range r.Ops {
		switch op.Op {
		case OpAddMeal, OpRemoveMeal, OpPrefill, OpDiscard:
		case OpUpdateField:
			if _, err := ParseField(op.Field); err != nil {
				return fmt.Errorf("ops[%d]: %w", i, err)
			}
		default:
			return fmt.Errorf("ops[%d]: unknown op %q", i, op.Op)
		}
	}
	return nil
}
