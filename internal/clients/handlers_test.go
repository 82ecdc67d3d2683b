package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fdg312/diet-planner/internal/storage/memory"
	"github.com/fdg312/diet-planner/internal/userctx"
	"github.com/fdg312/diet-planner/internal/weekplan"
	"github.com/google/uuid"
)

const validProfile = `{
	"name": "John Smith",
	"age": 30,
	"gender": "male",
	"height": 175,
	"weight": 70,
	"goal_weight": 65,
	"timeframe": 90,
	"goal_type": "fat_loss",
	"diet_type": "Balanced",
	"activity_level": "Sedentary"
}`

func setup() (*Handler, *memory.MemoryStorage) {
	store := memory.New()
	return NewHandler(NewService(store, store)), store
}

func createClient(t *testing.T, h *Handler, ctx context.Context, body string) ClientDTO {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/clients", bytes.NewBufferString(body)).WithContext(ctx)
	w := httptest.NewRecorder()
	h.HandleCreate(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	var dto ClientDTO
	if err := json.NewDecoder(w.Body).Decode(&dto); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return dto
}

func TestHandleCreateComputesTargetsAndSeedsPlan(t *testing.T) {
	h, store := setup()
	dto := createClient(t, h, context.Background(), validProfile)

	if dto.OwnerUserID != "default" {
		t.Errorf("expected default owner, got %s", dto.OwnerUserID)
	}
	if dto.Profile.GoalType != "Fat Loss" || dto.Profile.Gender != "Male" {
		t.Errorf("expected normalized enums, got %+v", dto.Profile)
	}
	if dto.Targets.BMR != 1649 || dto.Targets.DailyCalories != 1583 {
		t.Errorf("unexpected targets: %+v", dto.Targets)
	}

	sp, err := store.GetPlan(context.Background(), dto.ID)
	if err != nil || sp == nil {
		t.Fatalf("expected seeded plan, got %v, %v", sp, err)
	}
	if sp.Version != 1 {
		t.Errorf("expected version 1, got %d", sp.Version)
	}
	if len(sp.Plan) != weekplan.DaysPerWeek {
		t.Errorf("expected 7 days, got %d", len(sp.Plan))
	}
}

func TestHandleCreateInvalidProfile(t *testing.T) {
	h, _ := setup()

	req := httptest.NewRequest(http.MethodPost, "/v1/clients", bytes.NewBufferString(`{"name":"X","age":0}`))
	w := httptest.NewRecorder()
	h.HandleCreate(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	var resp ErrorResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Error.Code != "invalid_profile" {
		t.Errorf("expected invalid_profile, got %s", resp.Error.Code)
	}
}

func TestHandleListSearchAndPaging(t *testing.T) {
	h, _ := setup()
	ctx := context.Background()
	for i := 0; i < 12; i++ {
		body := fmt.Sprintf(`{"name":"Client %d","age":30,"gender":"Female","height":165,"weight":60,"goal_weight":55,"timeframe":60}`, i)
		createClient(t, h, ctx, body)
	}
	createClient(t, h, ctx, validProfile)

	tests := []struct {
		name      string
		query     string
		wantLen   int
		wantTotal int
		wantLimit int
	}{
		{"defaults", "", 10, 13, 10},
		{"second page", "?page=2", 3, 13, 10},
		{"search", "?q=smith", 1, 1, 10},
		{"search is case-insensitive", "?q=CLIENT&limit=5", 5, 12, 5},
		{"page past int range is capped", "?page=9223372036854775807", 0, 13, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/clients"+tt.query, nil)
			w := httptest.NewRecorder()
			h.HandleList(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", w.Code)
			}
			var resp ClientsResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if len(resp.Clients) != tt.wantLen || resp.Total != tt.wantTotal || resp.Limit != tt.wantLimit {
				t.Errorf("got len=%d total=%d limit=%d", len(resp.Clients), resp.Total, resp.Limit)
			}
		})
	}
}

func TestListParamsNormalized(t *testing.T) {
	got := ListParams{Page: math.MaxInt, Limit: math.MaxInt}.normalized()
	if got.Page != maxPage || got.Limit != maxLimit {
		t.Fatalf("expected page=%d limit=%d, got %+v", maxPage, maxLimit, got)
	}
	if offset := (got.Page - 1) * got.Limit; offset < 0 {
		t.Fatalf("offset overflowed: %d", offset)
	}
}

func TestHandleUpdateRecomputesTargets(t *testing.T) {
	h, store := setup()
	dto := createClient(t, h, context.Background(), validProfile)

	req := httptest.NewRequest(http.MethodPatch, "/v1/clients/"+dto.ID.String(), bytes.NewBufferString(`{"goal_type":"Maintain"}`))
	req.SetPathValue("id", dto.ID.String())
	w := httptest.NewRecorder()
	h.HandleUpdate(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var updated ClientDTO
	json.NewDecoder(w.Body).Decode(&updated)
	if updated.Profile.Name != "John Smith" {
		t.Errorf("absent fields must be kept, got name %q", updated.Profile.Name)
	}
	if updated.Targets.DailyCalories != updated.Targets.TDEE {
		t.Errorf("maintain should equal TDEE, got %+v", updated.Targets)
	}

	sp, _ := store.GetPlan(context.Background(), dto.ID)
	if sp.Version != 1 {
		t.Errorf("update must not touch the plan, version=%d", sp.Version)
	}
}

func TestHandleDelete(t *testing.T) {
	h, store := setup()
	dto := createClient(t, h, context.Background(), validProfile)

	req := httptest.NewRequest(http.MethodDelete, "/v1/clients/"+dto.ID.String(), nil)
	req.SetPathValue("id", dto.ID.String())
	w := httptest.NewRecorder()
	h.HandleDelete(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", w.Code)
	}
	if sp, _ := store.GetPlan(context.Background(), dto.ID); sp != nil {
		t.Error("plan must be removed with the client")
	}

	w = httptest.NewRecorder()
	h.HandleDelete(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 on second delete, got %d", w.Code)
	}
}

func TestOtherOwnersClientsAreHidden(t *testing.T) {
	h, _ := setup()
	alice := userctx.WithUserID(context.Background(), "alice")
	bob := userctx.WithUserID(context.Background(), "bob")
	dto := createClient(t, h, alice, validProfile)

	req := httptest.NewRequest(http.MethodGet, "/v1/clients/"+dto.ID.String(), nil).WithContext(bob)
	req.SetPathValue("id", dto.ID.String())
	w := httptest.NewRecorder()
	h.HandleGet(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for foreign client, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/clients", nil).WithContext(bob)
	w = httptest.NewRecorder()
	h.HandleList(w, req)
	var resp ClientsResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Total != 0 {
		t.Errorf("expected no clients for bob, got %d", resp.Total)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/clients/"+dto.ID.String(), nil).WithContext(alice)
	req.SetPathValue("id", dto.ID.String())
	w = httptest.NewRecorder()
	h.HandleGet(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 for owner, got %d", w.Code)
	}
}

func TestHandleGetInvalidID(t *testing.T) {
	h, _ := setup()

	req := httptest.NewRequest(http.MethodGet, "/v1/clients/nope", nil)
	req.SetPathValue("id", "nope")
	w := httptest.NewRecorder()
	h.HandleGet(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/clients/x", nil)
	req.SetPathValue("id", uuid.New().String())
	w = httptest.NewRecorder()
	h.HandleGet(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}
