package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fdg312/diet-planner/internal/nutrition"
	"github.com/fdg312/diet-planner/internal/weekplan"
	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrVersionConflict = errors.New("plan version conflict")
	ErrInvalidPlan     = errors.New("invalid week plan")
)

// Client — запись клиента: профиль и рассчитанные цели
type Client struct {
	ID          uuid.UUID
	OwnerUserID string // userctx.DefaultOwner when auth is off
	Profile     nutrition.Profile
	Targets     nutrition.Targets
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ClientFilter narrows ListClients. Query matches names case-insensitively.
type ClientFilter struct {
	OwnerUserID string
	Query       string
	Limit       int
	Offset      int
}

// StoredPlan — сохранённый недельный план клиента
type StoredPlan struct {
	ClientID  uuid.UUID
	Plan      weekplan.WeekPlan
	Version   int
	UpdatedAt time.Time
}

// ClientStore — интерфейс для работы с клиентами
type ClientStore interface {
	// CreateClient сохраняет нового клиента
	CreateClient(ctx context.Context, c *Client) error

	// GetClient возвращает клиента по ID или ErrNotFound
	GetClient(ctx context.Context, id uuid.UUID) (*Client, error)

	// UpdateClient перезаписывает профиль и цели
	UpdateClient(ctx context.Context, c *Client) error

	// DeleteClient удаляет клиента вместе с планом
	DeleteClient(ctx context.Context, id uuid.UUID) error

	// ListClients returns one page, newest first, and the total match count.
	ListClients(ctx context.Context, f ClientFilter) ([]Client, int, error)
}

// PlanStore keeps exactly one week plan per client.
type PlanStore interface {
	// GetPlan returns nil, nil when the client has no plan yet.
	GetPlan(ctx context.Context, clientID uuid.UUID) (*StoredPlan, error)

	// ReplacePlan overwrites the whole plan and bumps its version.
	// A nil expectedVersion means last writer wins; otherwise a stored
	// version that differs yields ErrVersionConflict.
	ReplacePlan(ctx context.Context, clientID uuid.UUID, plan weekplan.WeekPlan, expectedVersion *int) (*StoredPlan, error)
}

// Storage is what the server runs on.
type Storage interface {
	ClientStore
	PlanStore

	// Close закрывает соединение (для Postgres/Mongo)
	Close() error
}

// CheckPlan enforces the store's input contract: seven days, each with at
// least one meal.
func CheckPlan(plan weekplan.WeekPlan) error {
	if !plan.Complete() {
		return fmt.Errorf("%w: expected %d days, got %d", ErrInvalidPlan, weekplan.DaysPerWeek, len(plan))
	}
	for _, d := range plan {
		if len(d.Meals) == 0 {
			return fmt.Errorf("%w: %s has no meals", ErrInvalidPlan, d.Day)
		}
	}
	return nil
}

// CheckVersion compares the caller's expected version with the stored one.
// current is 0 when no plan exists.
func CheckVersion(current int, expected *int) error {
	if expected != nil && *expected != current {
		return fmt.Errorf("%w: expected %d, current %d", ErrVersionConflict, *expected, current)
	}
	return nil
}
