package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/viralforge/rental-service/internal/domain"
	"github.com/viralforge/rental-service/internal/ports"
)

// HouseStore keeps houses in process. One mutex serializes every write, which
// makes the version guard and the residency uniqueness check atomic.
type HouseStore struct {
	mu    sync.Mutex
	rows  map[string]domain.House
	nowFn func() time.Time
}

func NewHouseStore() *HouseStore {
	return &HouseStore{
		rows:  map[string]domain.House{},
		nowFn: func() time.Time { return time.Now().UTC() },
	}
}

func (s *HouseStore) Get(_ context.Context, id string) (domain.House, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	house, ok := s.rows[strings.TrimSpace(id)]
	if !ok {
		return domain.House{}, domain.ErrHouseNotFound
	}
	return house.Clone(), nil
}

func (s *HouseStore) Create(_ context.Context, house domain.House) (domain.House, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if house.CurrentTenant != nil && s.seatedElsewhere(house.CurrentTenant.RenterID, "") {
		return domain.House{}, domain.ErrAlreadyResident
	}
	now := s.nowFn()
	house = house.Clone()
	house.ID = uuid.NewString()
	house.Version = 1
	house.CreatedAt = now
	house.UpdatedAt = now
	if house.Requests == nil {
		house.Requests = []domain.BookingRequest{}
	}
	s.rows[house.ID] = house
	return house.Clone(), nil
}

func (s *HouseStore) FindMatching(_ context.Context, filter ports.HouseFilter) ([]domain.House, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text := strings.ToLower(strings.TrimSpace(filter.Text))
	out := make([]domain.House, 0)
	for _, h := range s.rows {
		if filter.OwnerID != "" && h.OwnerID != filter.OwnerID {
			continue
		}
		if filter.TenantRenterID != "" && (h.CurrentTenant == nil || h.CurrentTenant.RenterID != filter.TenantRenterID) {
			continue
		}
		if text != "" &&
			!strings.Contains(strings.ToLower(h.Title), text) &&
			!strings.Contains(strings.ToLower(h.Location), text) {
			continue
		}
		out = append(out, h.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *HouseStore) UpdateFields(_ context.Context, id string, expectedVersion int64, update domain.Update) (domain.House, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.rows[id]
	if !ok {
		return domain.House{}, domain.ErrHouseNotFound
	}
	if current.Version != expectedVersion {
		return domain.House{}, domain.ErrStaleWrite
	}
	if tenant, seats := update.SeatedTenant(); seats && s.seatedElsewhere(tenant.RenterID, id) {
		return domain.House{}, domain.ErrAlreadyResident
	}

	next := current.Clone()
	if err := next.Apply(update); err != nil {
		return domain.House{}, err
	}
	next.Version++
	next.UpdatedAt = s.nowFn()
	s.rows[id] = next
	return next.Clone(), nil
}

func (s *HouseStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return domain.ErrHouseNotFound
	}
	delete(s.rows, id)
	return nil
}

func (s *HouseStore) seatedElsewhere(renterID, houseID string) bool {
	if renterID == "" {
		return false
	}
	for id, h := range s.rows {
		if id != houseID && h.CurrentTenant != nil && h.CurrentTenant.RenterID == renterID {
			return true
		}
	}
	return false
}
