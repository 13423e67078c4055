package cache

import (
	"context"
	"sort"
	"sync"
)

type Memory struct {
	mu          sync.RWMutex
	generations map[string]map[string]Entry
}

func NewMemory() *Memory {
	return &Memory{generations: make(map[string]map[string]Entry)}
}

func (m *Memory) Open(ctx context.Context, generation string) error {
	if err := validGeneration(generation); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.generations[generation]; !ok {
		m.generations[generation] = make(map[string]Entry)
	}
	return nil
}

func (m *Memory) Generations(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.generations))
	for name := range m.generations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *Memory) Delete(ctx context.Context, generation string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.generations[generation]
	delete(m.generations, generation)
	return ok, nil
}

func (m *Memory) Put(ctx context.Context, generation string, e Entry) error {
	if err := validGeneration(generation); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.generations[generation]
	if !ok {
		g = make(map[string]Entry)
		m.generations[generation] = g
	}
	e.Header = e.Header.Clone()
	e.Body = append([]byte(nil), e.Body...)
	g[Key(e.Method, e.URL)] = e
	return nil
}

func (m *Memory) Match(ctx context.Context, generation, method, url string) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.generations[generation][Key(method, url)]
	if !ok {
		return nil, nil
	}
	e.Header = e.Header.Clone()
	e.Body = append([]byte(nil), e.Body...)
	return &e, nil
}

func (m *Memory) Close() error { return nil }
