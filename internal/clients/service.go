package clients

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/fdg312/diet-planner/internal/mealplans"
	"github.com/fdg312/diet-planner/internal/nutrition"
	"github.com/fdg312/diet-planner/internal/storage"
	"github.com/fdg312/diet-planner/internal/userctx"
	"github.com/google/uuid"
)

var ErrClientNotFound = errors.New("client not found")

// Service содержит бизнес-логику клиентов
type Service struct {
	clients storage.ClientStore
	plans   storage.PlanStore
}

func NewService(clients storage.ClientStore, plans storage.PlanStore) *Service {
	return &Service{clients: clients, plans: plans}
}

// List returns one page of the caller's clients, newest first.
func (s *Service) List(ctx context.Context, params ListParams) (*ClientsResponse, error) {
	params = params.normalized()

	rows, total, err := s.clients.ListClients(ctx, storage.ClientFilter{
		OwnerUserID: userctx.OwnerID(ctx),
		Query:       strings.TrimSpace(params.Query),
		Limit:       params.Limit,
		Offset:      (params.Page - 1) * params.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	dtos := make([]ClientDTO, 0, len(rows))
	for _, c := range rows {
		dtos = append(dtos, toDTO(c))
	}
	return &ClientsResponse{Clients: dtos, Total: total, Page: params.Page, Limit: params.Limit}, nil
}

// Get returns a client owned by the caller.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ClientDTO, error) {
	c, err := s.owned(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toDTO(*c)
	return &dto, nil
}

// Create validates the profile, derives targets and seeds the client's
// week plan from the template.
func (s *Service) Create(ctx context.Context, p nutrition.Profile) (*ClientDTO, error) {
	p = p.Normalized()
	targets, err := nutrition.Compute(p)
	if err != nil {
		return nil, err
	}

	c := &storage.Client{
		OwnerUserID: userctx.OwnerID(ctx),
		Profile:     p,
		Targets:     targets,
	}
	if err := s.clients.CreateClient(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	if _, err := s.plans.ReplacePlan(ctx, c.ID, mealplans.BuildWeeklyTemplate(targets), nil); err != nil {
		if delErr := s.clients.DeleteClient(ctx, c.ID); delErr != nil {
			log.Printf("WARN clients: rollback client=%s failed: %v", c.ID, delErr)
		}
		return nil, fmt.Errorf("failed to seed week plan: %w", err)
	}

	dto := toDTO(*c)
	return &dto, nil
}

// Update patches profile fields and recomputes targets. The stored plan
// is left alone.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateClientRequest) (*ClientDTO, error) {
	c, err := s.owned(ctx, id)
	if err != nil {
		return nil, err
	}

	p := req.applyTo(c.Profile).Normalized()
	targets, err := nutrition.Compute(p)
	if err != nil {
		return nil, err
	}
	c.Profile = p
	c.Targets = targets

	if err := s.clients.UpdateClient(ctx, c); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to update client: %w", err)
	}

	dto := toDTO(*c)
	return &dto, nil
}

// Delete removes the client and its plan.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.owned(ctx, id); err != nil {
		return err
	}
	if err := s.clients.DeleteClient(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrClientNotFound
		}
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}

// owned hides clients of other owners behind ErrClientNotFound.
func (s *Service) owned(ctx context.Context, id uuid.UUID) (*storage.Client, error) {
	c, err := s.clients.GetClient(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	if c.OwnerUserID != userctx.OwnerID(ctx) {
		return nil, ErrClientNotFound
	}
	return c, nil
}

func toDTO(c storage.Client) ClientDTO {
	return ClientDTO{
		ID:          c.ID,
		OwnerUserID: c.OwnerUserID,
		Profile:     c.Profile,
		Targets:     c.Targets,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
