package mealplans

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fdg312/diet-planner/internal/nutrition"
	"github.com/fdg312/diet-planner/internal/storage"
	"github.com/fdg312/diet-planner/internal/weekplan"
	"github.com/google/uuid"
)

type mockClientStore struct {
	clients map[uuid.UUID]storage.Client
}

func (m *mockClientStore) CreateClient(ctx context.Context, c *storage.Client) error {
	m.clients[c.ID] = *c
	return nil
}

func (m *mockClientStore) GetClient(ctx context.Context, id uuid.UUID) (*storage.Client, error) {
	c, ok := m.clients[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &c, nil
}

func (m *mockClientStore) UpdateClient(ctx context.Context, c *storage.Client) error {
	m.clients[c.ID] = *c
	return nil
}

func (m *mockClientStore) DeleteClient(ctx context.Context, id uuid.UUID) error {
	delete(m.clients, id)
	return nil
}

func (m *mockClientStore) ListClients(ctx context.Context, f storage.ClientFilter) ([]storage.Client, int, error) {
	return nil, 0, nil
}

type mockPlanStore struct {
	plans map[uuid.UUID]storage.StoredPlan
}

func (m *mockPlanStore) GetPlan(ctx context.Context, clientID uuid.UUID) (*storage.StoredPlan, error) {
	sp, ok := m.plans[clientID]
	if !ok {
		return nil, nil
	}
	return &sp, nil
}

func (m *mockPlanStore) ReplacePlan(ctx context.Context, clientID uuid.UUID, plan weekplan.WeekPlan, expectedVersion *int) (*storage.StoredPlan, error) {
	current := m.plans[clientID].Version
	if err := storage.CheckVersion(current, expectedVersion); err != nil {
		return nil, err
	}
	sp := storage.StoredPlan{ClientID: clientID, Plan: plan, Version: current + 1, UpdatedAt: time.Now()}
	m.plans[clientID] = sp
	return &sp, nil
}

func setupHandler(t *testing.T) (*Handler, *mockPlanStore, uuid.UUID) {
	t.Helper()
	clientID := uuid.New()
	clients := &mockClientStore{clients: map[uuid.UUID]storage.Client{
		clientID: {ID: clientID, OwnerUserID: "default", Profile: nutrition.Profile{Name: "Test"}, Targets: sampleTargets},
	}}
	plans := &mockPlanStore{plans: map[uuid.UUID]storage.StoredPlan{}}
	return NewHandler(NewService(clients, plans)), plans, clientID
}

func newRequest(method, path, id string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.SetPathValue("id", id)
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error: %v", err)
	}
	return resp["error"]["code"]
}

func TestHandleGetReturnsTemplateWhenNoPlan(t *testing.T) {
	h, _, clientID := setupHandler(t)

	rec := httptest.NewRecorder()
	h.HandleGet(rec, newRequest(http.MethodGet, "/v1/clients/x/plan", clientID.String(), nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var view PlanView
	json.NewDecoder(rec.Body).Decode(&view)
	if !view.Templated || view.Version != 0 {
		t.Errorf("expected templated plan at version 0, got templated=%v version=%d", view.Templated, view.Version)
	}
	if len(view.Plan) != 7 || len(view.Days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(view.Plan))
	}
	if view.Plan[0].Meals[0].Calories != 476 {
		t.Errorf("expected breakfast 476 kcal, got %d", view.Plan[0].Meals[0].Calories)
	}
}

func TestHandleGetIncompleteStoredPlanFallsBack(t *testing.T) {
	h, plans, clientID := setupHandler(t)
	plans.plans[clientID] = storage.StoredPlan{ClientID: clientID, Plan: customPlan()[:3], Version: 4}

	rec := httptest.NewRecorder()
	h.HandleGet(rec, newRequest(http.MethodGet, "/", clientID.String(), nil))

	var view PlanView
	json.NewDecoder(rec.Body).Decode(&view)
	if !view.Templated || len(view.Plan) != 7 {
		t.Errorf("expected template fallback, got templated=%v days=%d", view.Templated, len(view.Plan))
	}
}

func TestHandleGetUnknownClient(t *testing.T) {
	h, _, _ := setupHandler(t)

	rec := httptest.NewRecorder()
	h.HandleGet(rec, newRequest(http.MethodGet, "/", uuid.NewString(), nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	if code := decodeError(t, rec); code != "client_not_found" {
		t.Errorf("expected client_not_found, got %s", code)
	}
}

func TestHandleGetBadID(t *testing.T) {
	h, _, _ := setupHandler(t)

	rec := httptest.NewRecorder()
	h.HandleGet(rec, newRequest(http.MethodGet, "/", "not-a-uuid", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestHandleSave(t *testing.T) {
	h, plans, clientID := setupHandler(t)

	plan := customPlan()
	plan[0].Meals[0].MealType = ""

	rec := httptest.NewRecorder()
	h.HandleSave(rec, newRequest(http.MethodPut, "/", clientID.String(), SavePlanRequest{Days: plan}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	stored := plans.plans[clientID]
	if stored.Version != 1 {
		t.Errorf("expected version 1, got %d", stored.Version)
	}
	if stored.Plan[0].Meals[0].MealType != "Meal" {
		t.Errorf("expected sanitized meal type, got %q", stored.Plan[0].Meals[0].MealType)
	}
}

func TestHandleSaveRejectsEmptyDay(t *testing.T) {
	h, plans, clientID := setupHandler(t)

	plan := customPlan()
	plan[1].Meals = nil

	rec := httptest.NewRecorder()
	h.HandleSave(rec, newRequest(http.MethodPut, "/", clientID.String(), SavePlanRequest{Days: plan}))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if code := decodeError(t, rec); code != "invalid_plan" {
		t.Errorf("expected invalid_plan, got %s", code)
	}
	if _, ok := plans.plans[clientID]; ok {
		t.Error("expected nothing to be stored")
	}
}

func TestHandleSaveVersionConflict(t *testing.T) {
	h, plans, clientID := setupHandler(t)
	plans.plans[clientID] = storage.StoredPlan{ClientID: clientID, Plan: customPlan(), Version: 3}

	stale := 2
	rec := httptest.NewRecorder()
	h.HandleSave(rec, newRequest(http.MethodPut, "/", clientID.String(), SavePlanRequest{Days: customPlan(), Version: &stale}))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rec.Code)
	}
	if code := decodeError(t, rec); code != "version_conflict" {
		t.Errorf("expected version_conflict, got %s", code)
	}
}

func TestHandleEdit(t *testing.T) {
	h, plans, clientID := setupHandler(t)
	plans.plans[clientID] = storage.StoredPlan{ClientID: clientID, Plan: customPlan(), Version: 2}

	req := EditRequest{Ops: []EditOp{
		{Op: OpUpdateField, Day: 0, MealIndex: 0, Field: "calories", Value: "1500"},
		{Op: OpAddMeal, Day: 6},
		{Op: OpUpdateField, Day: 6, MealIndex: 2, Field: "items", Value: "nuts, yogurt"},
	}}

	rec := httptest.NewRecorder()
	h.HandleEdit(rec, newRequest(http.MethodPost, "/", clientID.String(), req))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp EditResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if !resp.Dirty {
		t.Error("expected dirty session")
	}
	if resp.Version != 2 {
		t.Errorf("expected version 2 to be echoed, got %d", resp.Version)
	}
	if resp.Templated {
		t.Error("expected stored plan not to be reported as templated")
	}
	if !resp.Days[0].OverCalories {
		t.Error("expected Monday over calorie target")
	}
	sunday := resp.Plan[6].Meals
	if len(sunday) != 3 || sunday[2].MealType != "Snack" || len(sunday[2].Items) != 2 {
		t.Errorf("unexpected sunday meals: %+v", sunday)
	}
	if plans.plans[clientID].Plan[0].Meals[0].Calories != 500 {
		t.Error("edit must not persist")
	}
}

func TestHandleEditReportsTemplateFallback(t *testing.T) {
	h, _, clientID := setupHandler(t)
	ops := []EditOp{{Op: OpUpdateField, Day: 1, MealIndex: 0, Field: "calories", Value: "420"}}

	rec := httptest.NewRecorder()
	h.HandleEdit(rec, newRequest(http.MethodPost, "/", clientID.String(), EditRequest{Ops: ops}))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp EditResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if !resp.Templated {
		t.Error("expected templated plan when nothing is stored")
	}
	if resp.Version != 0 {
		t.Errorf("expected version 0, got %d", resp.Version)
	}

	rec = httptest.NewRecorder()
	h.HandleEdit(rec, newRequest(http.MethodPost, "/", clientID.String(), EditRequest{Plan: customPlan(), Ops: ops}))
	resp = EditResponse{}
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Templated {
		t.Error("expected caller plan not to be reported as templated")
	}
}

func TestHandleEditDiscard(t *testing.T) {
	h, plans, clientID := setupHandler(t)
	plans.plans[clientID] = storage.StoredPlan{ClientID: clientID, Plan: customPlan(), Version: 1}

	req := EditRequest{
		Plan: BuildWeeklyTemplate(sampleTargets),
		Ops:  []EditOp{{Op: OpDiscard}},
	}

	rec := httptest.NewRecorder()
	h.HandleEdit(rec, newRequest(http.MethodPost, "/", clientID.String(), req))

	var resp EditResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Dirty {
		t.Error("expected clean session after discard")
	}
	if resp.Plan[0].Meals[0].MealType != "Breakfast" || resp.Plan[0].Meals[0].Calories != 500 {
		t.Errorf("expected stored plan back, got %+v", resp.Plan[0].Meals[0])
	}
}

func TestHandleEditUnknownField(t *testing.T) {
	h, _, clientID := setupHandler(t)

	req := EditRequest{Ops: []EditOp{{Op: OpUpdateField, Field: "sodium", Value: "1"}}}
	rec := httptest.NewRecorder()
	h.HandleEdit(rec, newRequest(http.MethodPost, "/", clientID.String(), req))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if code := decodeError(t, rec); code != "invalid_request" {
		t.Errorf("expected invalid_request, got %s", code)
	}
}

func TestHandleTemplate(t *testing.T) {
	h, _, _ := setupHandler(t)

	rec := httptest.NewRecorder()
	h.HandleTemplate(rec, newRequest(http.MethodPost, "/v1/meal/template", "", sampleTargets))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var view PlanView
	json.NewDecoder(rec.Body).Decode(&view)
	if len(view.Plan) != 7 || view.Week.Calories != 7*1586 {
		t.Errorf("unexpected template: days=%d week=%d", len(view.Plan), view.Week.Calories)
	}
}
