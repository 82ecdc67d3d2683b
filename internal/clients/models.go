package clients

import (
	"time"

	"github.com/fdg312/diet-planner/internal/nutrition"
	"github.com/google/uuid"
)

// ClientDTO — DTO для API
type ClientDTO struct {
	ID          uuid.UUID         `json:"id"`
	OwnerUserID string            `json:"owner_user_id"`
	Profile     nutrition.Profile `json:"profile"`
	Targets     nutrition.Targets `json:"targets"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ClientsResponse — ответ для GET /v1/clients
type ClientsResponse struct {
	Clients []ClientDTO `json:"clients"`
	Total   int         `json:"total"`
	Page    int         `json:"page"`
	Limit   int         `json:"limit"`
}

// UpdateClientRequest — запрос для PATCH /v1/clients/{id}. Absent fields
// keep their stored values.
type UpdateClientRequest struct {
	Name          *string  `json:"name"`
	Age           *int     `json:"age"`
	Gender        *string  `json:"gender"`
	HeightCm      *float64 `json:"height"`
	WeightKg      *float64 `json:"weight"`
	GoalWeightKg  *float64 `json:"goal_weight"`
	TimeframeDays *int     `json:"timeframe"`
	GoalType      *string  `json:"goal_type"`
	DietType      *string  `json:"diet_type"`
	ActivityLevel *string  `json:"activity_level"`
}

func (r UpdateClientRequest) applyTo(p nutrition.Profile) nutrition.Profile {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Age != nil {
		p.Age = *r.Age
	}
	if r.Gender != nil {
		p.Gender = nutrition.Gender(*r.Gender)
	}
	if r.HeightCm != nil {
		p.HeightCm = *r.HeightCm
	}
	if r.WeightKg != nil {
		p.WeightKg = *r.WeightKg
	}
	if r.GoalWeightKg != nil {
		p.GoalWeightKg = *r.GoalWeightKg
	}
	if r.TimeframeDays != nil {
		p.TimeframeDays = *r.TimeframeDays
	}
	if r.GoalType != nil {
		p.GoalType = nutrition.GoalType(*r.GoalType)
	}
	if r.DietType != nil {
		p.DietType = *r.DietType
	}
	if r.ActivityLevel != nil {
		p.ActivityLevel = nutrition.ActivityLevel(*r.ActivityLevel)
	}
	return p
}

// ListParams — параметры GET /v1/clients
type ListParams struct {
	Query string
	Page  int
	Limit int
}

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
	maxPage      = 1_000_000
)

func (p ListParams) normalized() ListParams {
	if p.Page < 1 {
		p.Page = defaultPage
	}
	if p.Page > maxPage {
		p.Page = maxPage
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}

// ErrorResponse — формат ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
