package strategy

import (
	"fmt"
	"sort"
	"sync"

	"github.com/wonny/edgelab/internal/contracts"
)

// Registry resolves strategies by name
// ⭐ SSOT: 전략 등록/조회는 여기서만. 동적 코드 실행 없음 — 등록된 구현만 허용.
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]contracts.Strategy
}

// NewRegistry creates an empty strategy registry
func NewRegistry() *Registry {
	return &Registry{
		strategies: make(map[string]contracts.Strategy),
	}
}

// Register adds a strategy under its Name(). Duplicate names are rejected.
func (r *Registry) Register(s contracts.Strategy) error {
	name := s.Name()
	if name == "" {
		return fmt.Errorf("%w: strategy with empty name", contracts.ErrStrategyContract)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.strategies[name]; exists {
		return fmt.Errorf("%w: duplicate strategy %q", contracts.ErrStrategyContract, name)
	}
	r.strategies[name] = s
	return nil
}

// Get resolves a strategy by name
func (r *Registry) Get(name string) (contracts.Strategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.strategies[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown strategy %q", contracts.ErrStrategyContract, name)
	}
	return s, nil
}

// Names returns the registered strategy names, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
