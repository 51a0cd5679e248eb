package repository

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/FACorreiaa/go-city-info-api/internal/types"
)

var (
	_ Repository = (*MemoryRepository)(nil)
	_ Provider   = (*MemoryProvider)(nil)
)

// MemoryStore keeps cities and their points of interest in process. It is
// constructed explicitly and injected; every read hands out copies.
type MemoryStore struct {
	mu     sync.RWMutex
	cities []types.City
	nextID int
}

// NewMemoryStore returns a store holding a deep copy of seed.
func NewMemoryStore(seed []types.City) *MemoryStore {
	s := &MemoryStore{nextID: 1}
	s.EnsureSeedData(seed)
	return s
}

// EnsureSeedData loads cities when the store is empty. City ids of zero are
// assigned from the store's sequence.
func (s *MemoryStore) EnsureSeedData(cities []types.City) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.cities) != 0 {
		return false
	}
	for _, c := range cities {
		if c.ID == 0 {
			c.ID = s.nextID
		}
		if c.ID >= s.nextID {
			s.nextID = c.ID + 1
		}
		pois := make([]types.PointOfInterest, 0, len(c.PointsOfInterest))
		for _, p := range c.PointsOfInterest {
			p.CityID = c.ID
			pois = append(pois, p)
		}
		c.PointsOfInterest = pois
		s.cities = append(s.cities, c)
	}
	return len(cities) != 0
}

func (s *MemoryStore) cityIndex(cityID int) int {
	for i := range s.cities {
		if s.cities[i].ID == cityID {
			return i
		}
	}
	return -1
}

func poiIndex(pois []types.PointOfInterest, poiID int) int {
	for i := range pois {
		if pois[i].ID == poiID {
			return i
		}
	}
	return -1
}

func clonePointsOfInterest(pois []types.PointOfInterest) []types.PointOfInterest {
	out := make([]types.PointOfInterest, len(pois))
	copy(out, pois)
	return out
}

// commit applies changes all-or-nothing, enforcing the same (city, id)
// uniqueness the Postgres schema does.
func (s *MemoryStore) commit(changes []change) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Work on copies of the affected collections so a failing change leaves
	// the store untouched.
	staged := make(map[int][]types.PointOfInterest)
	collection := func(cityID int) ([]types.PointOfInterest, error) {
		if pois, ok := staged[cityID]; ok {
			return pois, nil
		}
		i := s.cityIndex(cityID)
		if i < 0 {
			return nil, fmt.Errorf("%w: city %d does not exist", types.ErrConflict, cityID)
		}
		return clonePointsOfInterest(s.cities[i].PointsOfInterest), nil
	}

	for _, ch := range changes {
		pois, err := collection(ch.poi.CityID)
		if err != nil {
			return err
		}
		idx := poiIndex(pois, ch.poi.ID)

		switch ch.kind {
		case changeInsert:
			if idx >= 0 {
				return fmt.Errorf("%w: point of interest %d already exists in city %d", types.ErrConflict, ch.poi.ID, ch.poi.CityID)
			}
			pois = append(pois, ch.poi)
		case changeUpdate:
			if idx < 0 {
				return fmt.Errorf("update point of interest %d: %w", ch.poi.ID, errNoRowsAffected)
			}
			pois[idx].Name = ch.poi.Name
			pois[idx].Description = ch.poi.Description
		case changeDelete:
			if idx < 0 {
				return fmt.Errorf("delete point of interest %d: %w", ch.poi.ID, errNoRowsAffected)
			}
			pois = append(pois[:idx], pois[idx+1:]...)
		}
		staged[ch.poi.CityID] = pois
	}

	for cityID, pois := range staged {
		s.cities[s.cityIndex(cityID)].PointsOfInterest = pois
	}
	return nil
}

type MemoryProvider struct {
	store  *MemoryStore
	logger *slog.Logger
}

func NewMemoryProvider(store *MemoryStore, logger *slog.Logger) *MemoryProvider {
	return &MemoryProvider{store: store, logger: logger}
}

func (p *MemoryProvider) Open() Repository {
	return &MemoryRepository{store: p.store, logger: p.logger}
}

// MemoryRepository is one unit of work over a MemoryStore.
type MemoryRepository struct {
	store   *MemoryStore
	logger  *slog.Logger
	changes changeSet
}

func (r *MemoryRepository) ListCities(_ context.Context) ([]types.City, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	cities := make([]types.City, 0, len(r.store.cities))
	for _, c := range r.store.cities {
		cities = append(cities, types.City{ID: c.ID, Name: c.Name, Description: c.Description})
	}
	sort.SliceStable(cities, func(i, j int) bool { return cities[i].Name < cities[j].Name })
	return cities, nil
}

func (r *MemoryRepository) GetCity(_ context.Context, cityID int, includePointsOfInterest bool) (*types.City, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	i := r.store.cityIndex(cityID)
	if i < 0 {
		return nil, fmt.Errorf("city %d: %w", cityID, types.ErrNotFound)
	}
	c := r.store.cities[i]
	city := &types.City{ID: c.ID, Name: c.Name, Description: c.Description}
	if includePointsOfInterest {
		city.PointsOfInterest = clonePointsOfInterest(c.PointsOfInterest)
	}
	return city, nil
}

func (r *MemoryRepository) CityExists(_ context.Context, cityID int) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.cityIndex(cityID) >= 0, nil
}

func (r *MemoryRepository) GetPointOfInterest(_ context.Context, cityID, poiID int) (*types.PointOfInterest, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	i := r.store.cityIndex(cityID)
	if i >= 0 {
		pois := r.store.cities[i].PointsOfInterest
		if j := poiIndex(pois, poiID); j >= 0 {
			poi := pois[j]
			return &poi, nil
		}
	}
	return nil, fmt.Errorf("point of interest %d in city %d: %w", poiID, cityID, types.ErrNotFound)
}

func (r *MemoryRepository) ListPointsOfInterest(_ context.Context, cityID int) ([]types.PointOfInterest, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	i := r.store.cityIndex(cityID)
	if i < 0 {
		return []types.PointOfInterest{}, nil
	}
	return clonePointsOfInterest(r.store.cities[i].PointsOfInterest), nil
}

func (r *MemoryRepository) NextPointOfInterestID(_ context.Context) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	maxID := 0
	for _, c := range r.store.cities {
		for _, p := range c.PointsOfInterest {
			if p.ID > maxID {
				maxID = p.ID
			}
		}
	}
	return maxID + 1, nil
}

func (r *MemoryRepository) AddPointOfInterest(ctx context.Context, cityID int, poi *types.PointOfInterest) error {
	exists, _ := r.CityExists(ctx, cityID)
	if !exists {
		return fmt.Errorf("city %d: %w", cityID, types.ErrNotFound)
	}
	poi.CityID = cityID
	r.changes.stage(changeInsert, poi)
	return nil
}

func (r *MemoryRepository) AttachPointOfInterest(city *types.City, poi *types.PointOfInterest) {
	poi.CityID = city.ID
	if city.PointsLoaded() {
		city.PointsOfInterest = append(city.PointsOfInterest, *poi)
	}
	r.changes.stage(changeInsert, poi)
}

func (r *MemoryRepository) UpdatePointOfInterest(poi *types.PointOfInterest) {
	r.changes.stage(changeUpdate, poi)
}

func (r *MemoryRepository) DeletePointOfInterest(poi *types.PointOfInterest) {
	r.changes.stage(changeDelete, poi)
}

func (r *MemoryRepository) Save(ctx context.Context) error {
	pending := r.changes.drain()
	if len(pending) == 0 {
		return nil
	}
	if err := r.store.commit(pending); err != nil {
		r.logger.ErrorContext(ctx, "Failed to commit changes", slog.String("method", "Save"), slog.Any("error", err))
		return fmt.Errorf("%w: %w", types.ErrPersistence, err)
	}
	return nil
}
