package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fdg312/diet-planner/internal/storage"
	"github.com/fdg312/diet-planner/internal/weekplan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type plansStorage struct {
	pool *pgxpool.Pool
}

func newPlansStorage(pool *pgxpool.Pool) *plansStorage {
	return &plansStorage{pool: pool}
}

func (p *PostgresStorage) GetPlan(ctx context.Context, clientID uuid.UUID) (*storage.StoredPlan, error) {
	return p.plans.get(ctx, clientID)
}

func (p *PostgresStorage) ReplacePlan(ctx context.Context, clientID uuid.UUID, plan weekplan.WeekPlan, expectedVersion *int) (*storage.StoredPlan, error) {
	return p.plans.replace(ctx, clientID, plan, expectedVersion)
}

func (s *plansStorage) get(ctx context.Context, clientID uuid.UUID) (*storage.StoredPlan, error) {
	query := `
		SELECT client_id, days, version, updated_at
		FROM week_plans
		WHERE client_id = $1
	`

	var (
		sp   storage.StoredPlan
		days []byte
	)
	err := s.pool.QueryRow(ctx, query, clientID).Scan(&sp.ClientID, &days, &sp.Version, &sp.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get week plan: %w", err)
	}

	if err := json.Unmarshal(days, &sp.Plan); err != nil {
		return nil, fmt.Errorf("failed to decode week plan: %w", err)
	}

	return &sp, nil
}

// replace runs in one transaction: the client row and any existing plan row
// are locked so concurrent saves serialize on the version check.
func (s *plansStorage) replace(ctx context.Context, clientID uuid.UUID, plan weekplan.WeekPlan, expectedVersion *int) (*storage.StoredPlan, error) {
	if err := storage.CheckPlan(plan); err != nil {
		return nil, err
	}

	days, err := json.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("failed to encode week plan: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx, `SELECT TRUE FROM clients WHERE id = $1 FOR UPDATE`, clientID).Scan(&exists)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock client: %w", err)
	}

	current := 0
	err = tx.QueryRow(ctx, `SELECT version FROM week_plans WHERE client_id = $1 FOR UPDATE`, clientID).Scan(&current)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to read plan version: %w", err)
	}

	if err := storage.CheckVersion(current, expectedVersion); err != nil {
		return nil, err
	}

	upsert := `
		INSERT INTO week_plans (client_id, days, version, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (client_id) DO UPDATE
		SET days = EXCLUDED.days, version = EXCLUDED.version, updated_at = EXCLUDED.updated_at
		RETURNING updated_at
	`

	sp := storage.StoredPlan{
		ClientID: clientID,
		Plan:     plan.Clone(),
		Version:  current + 1,
	}
	if err := tx.QueryRow(ctx, upsert, clientID, days, sp.Version).Scan(&sp.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to save week plan: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &sp, nil
}
