package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fdg312/diet-planner/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage — Postgres реализация storage.Storage
type PostgresStorage struct {
	pool  *pgxpool.Pool
	plans *plansStorage
}

// New подключается к базе и проверяет соединение
func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStorage{
		pool:  pool,
		plans: newPlansStorage(pool),
	}, nil
}

const clientColumns = `
	id, owner_user_id, name, age, gender, height_cm, weight_kg, goal_weight_kg,
	timeframe_days, goal_type, diet_type, activity_level,
	bmr, tdee, daily_calories, proteins_g, fats_g, carbs_g,
	created_at, updated_at`

func scanClient(row pgx.Row) (*storage.Client, error) {
	var c storage.Client
	err := row.Scan(
		&c.ID,
		&c.OwnerUserID,
		&c.Profile.Name,
		&c.Profile.Age,
		&c.Profile.Gender,
		&c.Profile.HeightCm,
		&c.Profile.WeightKg,
		&c.Profile.GoalWeightKg,
		&c.Profile.TimeframeDays,
		&c.Profile.GoalType,
		&c.Profile.DietType,
		&c.Profile.ActivityLevel,
		&c.Targets.BMR,
		&c.Targets.TDEE,
		&c.Targets.DailyCalories,
		&c.Targets.Proteins,
		&c.Targets.Fats,
		&c.Targets.Carbs,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (p *PostgresStorage) CreateClient(ctx context.Context, c *storage.Client) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	query := `
		INSERT INTO clients (
			id, owner_user_id, name, age, gender, height_cm, weight_kg, goal_weight_kg,
			timeframe_days, goal_type, diet_type, activity_level,
			bmr, tdee, daily_calories, proteins_g, fats_g, carbs_g
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING created_at, updated_at
	`

	pr, t := c.Profile, c.Targets
	err := p.pool.QueryRow(ctx, query,
		c.ID, c.OwnerUserID, pr.Name, pr.Age, pr.Gender, pr.HeightCm, pr.WeightKg, pr.GoalWeightKg,
		pr.TimeframeDays, pr.GoalType, pr.DietType, pr.ActivityLevel,
		t.BMR, t.TDEE, t.DailyCalories, t.Proteins, t.Fats, t.Carbs,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert client: %w", err)
	}

	return nil
}

func (p *PostgresStorage) GetClient(ctx context.Context, id uuid.UUID) (*storage.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`

	c, err := scanClient(p.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	return c, nil
}

func (p *PostgresStorage) UpdateClient(ctx context.Context, c *storage.Client) error {
	query := `
		UPDATE clients SET
			name = $2, age = $3, gender = $4, height_cm = $5, weight_kg = $6, goal_weight_kg = $7,
			timeframe_days = $8, goal_type = $9, diet_type = $10, activity_level = $11,
			bmr = $12, tdee = $13, daily_calories = $14, proteins_g = $15, fats_g = $16, carbs_g = $17,
			updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`

	pr, t := c.Profile, c.Targets
	err := p.pool.QueryRow(ctx, query,
		c.ID, pr.Name, pr.Age, pr.Gender, pr.HeightCm, pr.WeightKg, pr.GoalWeightKg,
		pr.TimeframeDays, pr.GoalType, pr.DietType, pr.ActivityLevel,
		t.BMR, t.TDEE, t.DailyCalories, t.Proteins, t.Fats, t.Carbs,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}

	return nil
}

// DeleteClient удаляет клиента; план удаляется каскадом
func (p *PostgresStorage) DeleteClient(ctx context.Context, id uuid.UUID) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (p *PostgresStorage) ListClients(ctx context.Context, f storage.ClientFilter) ([]storage.Client, int, error) {
	where := []string{"TRUE"}
	args := []any{}
	if f.OwnerUserID != "" {
		args = append(args, f.OwnerUserID)
		where = append(where, fmt.Sprintf("owner_user_id = $%d", len(args)))
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		args = append(args, "%"+strings.ToLower(q)+"%")
		where = append(where, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM clients WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count clients: %w", err)
	}

	query := `SELECT ` + clientColumns + ` FROM clients WHERE ` + cond + ` ORDER BY created_at DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := []storage.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, *c)
	}

	return clients, total, rows.Err()
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}
