package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/i474232898/weather-radial-chart/internal/chart"
)

var (
	// ErrNotFound is returned when no chart has been loaded for a dataset.
	ErrNotFound = errors.New("no chart loaded for dataset")
)

// Generations holds the time-ordered chart contexts loaded for one dataset.
type Generations struct {
	Contexts []*chart.Context
}

// MemoryStore is a concurrency-safe in-memory store of initialised charts.
type MemoryStore struct {
	mu sync.RWMutex

	// key: dataset name
	data map[string]*Generations

	maxHistory int           // max number of generations per dataset
	maxAge     time.Duration // optional max age for generations
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*Generations),
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}
}

// Save appends a new generation for its dataset and enforces retention. The
// newest generation is always kept.
func (s *MemoryStore) Save(c *chart.Context) {
	key := c.Dataset.Name()

	s.mu.Lock()
	defer s.mu.Unlock()

	gens, ok := s.data[key]
	if !ok {
		gens = &Generations{}
		s.data[key] = gens
	}

	gens.Contexts = append(gens.Contexts, c)

	if s.maxHistory > 0 && len(gens.Contexts) > s.maxHistory {
		over := len(gens.Contexts) - s.maxHistory
		gens.Contexts = gens.Contexts[over:]
	}

	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(gens.Contexts)-1; i++ {
			if !gens.Contexts[i].LoadedAt.Before(cutoff) {
				break
			}
		}
		gens.Contexts = gens.Contexts[i:]
	}
}

// GetLatest returns the most recent chart for a dataset.
func (s *MemoryStore) GetLatest(name string) (*chart.Context, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	gens, ok := s.data[name]
	if !ok || len(gens.Contexts) == 0 {
		return nil, ErrNotFound
	}
	return gens.Contexts[len(gens.Contexts)-1], nil
}

// GetRange returns the generations of a dataset loaded between from and to
// (inclusive), oldest first.
func (s *MemoryStore) GetRange(name string, from, to time.Time) ([]*chart.Context, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	gens, ok := s.data[name]
	if !ok || len(gens.Contexts) == 0 {
		return nil, ErrNotFound
	}

	var result []*chart.Context
	for _, c := range gens.Contexts {
		if !c.LoadedAt.Before(from) && !c.LoadedAt.After(to) {
			result = append(result, c)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}

// History returns every retained generation of a dataset, oldest first.
func (s *MemoryStore) History(name string) ([]*chart.Context, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	gens, ok := s.data[name]
	if !ok || len(gens.Contexts) == 0 {
		return nil, ErrNotFound
	}
	out := make([]*chart.Context, len(gens.Contexts))
	copy(out, gens.Contexts)
	return out, nil
}

// Names lists the datasets with at least one generation, sorted.
func (s *MemoryStore) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name, gens := range s.data {
		if len(gens.Contexts) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
