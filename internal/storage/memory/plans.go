package memory

import (
	"sync"
	"time"

	"github.com/fdg312/diet-planner/internal/storage"
	"github.com/fdg312/diet-planner/internal/weekplan"
	"github.com/google/uuid"
)

type plansStorage struct {
	mu    sync.RWMutex
	plans map[uuid.UUID]storage.StoredPlan
}

func newPlansStorage() *plansStorage {
	return &plansStorage{
		plans: make(map[uuid.UUID]storage.StoredPlan),
	}
}

func (s *plansStorage) get(clientID uuid.UUID) *storage.StoredPlan {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sp, ok := s.plans[clientID]
	if !ok {
		return nil
	}
	sp.Plan = sp.Plan.Clone()
	return &sp
}

func (s *plansStorage) replace(clientID uuid.UUID, plan weekplan.WeekPlan, expectedVersion *int) (*storage.StoredPlan, error) {
	if err := storage.CheckPlan(plan); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.plans[clientID]
	if err := storage.CheckVersion(current.Version, expectedVersion); err != nil {
		return nil, err
	}

	sp := storage.StoredPlan{
		ClientID:  clientID,
		Plan:      plan.Clone(),
		Version:   current.Version + 1,
		UpdatedAt: time.Now().UTC(),
	}
	s.plans[clientID] = sp

	out := sp
	out.Plan = sp.Plan.Clone()
	return &out, nil
}

func (s *plansStorage) delete(clientID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.plans, clientID)
}
