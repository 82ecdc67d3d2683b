package mealplans

import (
	"context"
	"errors"
	"fmt"

	"github.com/fdg312/diet-planner/internal/nutrition"
	"github.com/fdg312/diet-planner/internal/storage"
	"github.com/fdg312/diet-planner/internal/weekplan"
	"github.com/google/uuid"
)

var ErrClientNotFound = errors.New("client not found")

// Service loads, edits and saves week plans.
type Service struct {
	clients storage.ClientStore
	plans   storage.PlanStore
}

func NewService(clients storage.ClientStore, plans storage.PlanStore) *Service {
	return &Service{clients: clients, plans: plans}
}

// Template builds a plan from targets without touching storage.
func (s *Service) Template(t nutrition.Targets) PlanView {
	plan := BuildWeeklyTemplate(t)
	return newView(uuid.Nil, t, plan, 0, true)
}

// Load returns the stored plan, or the template if the stored one is missing
// or incomplete.
func (s *Service) Load(ctx context.Context, clientID uuid.UUID) (*PlanView, error) {
	client, stored, err := s.load(ctx, clientID)
	if err != nil {
		return nil, err
	}

	var existing weekplan.WeekPlan
	version := 0
	if stored != nil {
		existing = stored.Plan
		version = stored.Version
	}

	ed := NewEditor(client.Targets, existing)
	view := newView(clientID, client.Targets, ed.Plan, version, !existing.Complete())
	if stored != nil {
		view.UpdatedAt = &stored.UpdatedAt
	}
	return &view, nil
}

// Save validates and replaces the whole plan. A nil expectedVersion skips the
// concurrency check.
func (s *Service) Save(ctx context.Context, clientID uuid.UUID, plan weekplan.WeekPlan, expectedVersion *int) (*PlanView, error) {
	client, err := s.client(ctx, clientID)
	if err != nil {
		return nil, err
	}

	clean, err := ValidateForSave(plan)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	stored, err := s.plans.ReplacePlan(ctx, clientID, clean, expectedVersion)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	view := newView(clientID, client.Targets, stored.Plan, stored.Version, false)
	view.UpdatedAt = &stored.UpdatedAt
	return &view, nil
}

// ApplyEdits replays ops through an Editor and returns the result unsaved.
func (s *Service) ApplyEdits(ctx context.Context, clientID uuid.UUID, req EditRequest) (*EditResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	client, stored, err := s.load(ctx, clientID)
	if err != nil {
		return nil, err
	}

	var existing weekplan.WeekPlan
	version := 0
	if stored != nil {
		existing = stored.Plan
		version = stored.Version
	}

	ed := NewEditor(client.Targets, existing)
	templated := !existing.Complete() && req.Plan == nil
	if req.Plan != nil {
		ed = ed.WithPlan(req.Plan)
	}
	for _, op := range req.Ops {
		ed = applyOp(ed, op)
	}

	return &EditResponse{
		PlanView: newView(clientID, client.Targets, ed.Plan, version, templated),
		Dirty:    ed.Dirty,
	}, nil
}

func applyOp(ed Editor, op EditOp) Editor {
	switch op.Op {
	case OpUpdateField:
		field, err := ParseField(op.Field)
		if err != nil {
			return ed
		}
		return ed.UpdateMealField(op.Day, op.MealIndex, field, op.Value)
	case OpAddMeal:
		return ed.AddMeal(op.Day)
	case OpRemoveMeal:
		return ed.RemoveMeal(op.Day, op.MealIndex)
	case OpPrefill:
		return ed.Prefill()
	case OpDiscard:
		return ed.Discard()
	}
	return ed
}

func (s *Service) client(ctx context.Context, clientID uuid.UUID) (*storage.Client, error) {
	client, err := s.clients.GetClient(ctx, clientID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return client, nil
}

func (s *Service) load(ctx context.Context, clientID uuid.UUID) (*storage.Client, *storage.StoredPlan, error) {
	client, err := s.client(ctx, clientID)
	if err != nil {
		return nil, nil, err
	}
	stored, err := s.plans.GetPlan(ctx, clientID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get week plan: %w", err)
	}
	return client, stored, nil
}

func newView(clientID uuid.UUID, t nutrition.Targets, plan weekplan.WeekPlan, version int, templated bool) PlanView {
	return PlanView{
		ClientID:  clientID,
		Plan:      plan,
		Version:   version,
		Templated: templated,
		Targets:   t,
		Days:      statuses(plan, t),
		Week:      plan.Totals(),
	}
}
