// Copyright 2020, Square, Inc.

package runner

import (
	"errors"

	"github.com/orcaman/concurrent-map"
)

var (
	ErrNotFound = errors.New("result not found in repo")
	ErrConflict = errors.New("result already exists in repo")
)

// A Repo stores run results keyed by run id. Implementations must be safe
// for concurrent use; the API serves many runs at once.
type Repo interface {
	Get(runID string) (Result, error)
	GetAll() ([]Result, error)
	Add(Result) error
	Remove(runID string) error
	Count() int
}

type memoryRepo struct {
	cmap.ConcurrentMap
}

// NewMemoryRepo returns a repo that is backed by a thread-safe map in memory.
func NewMemoryRepo() Repo {
	return &memoryRepo{
		cmap.New(),
	}
}

func (m *memoryRepo) Get(runID string) (Result, error) {
	val, exists := m.ConcurrentMap.Get(runID)
	if !exists {
		return Result{}, ErrNotFound
	}

	result, ok := val.(Result)
	if !ok {
		return Result{}, ErrNotFound
	}

	return result, nil
}

func (m *memoryRepo) GetAll() ([]Result, error) {
	results := []Result{}
	for _, v := range m.ConcurrentMap.Items() {
		results = append(results, v.(Result))
	}
	return results, nil
}

func (m *memoryRepo) Add(r Result) error {
	wasAbsent := m.ConcurrentMap.SetIfAbsent(r.RunID, r)
	if !wasAbsent {
		return ErrConflict
	}
	return nil
}

func (m *memoryRepo) Remove(runID string) error {
	m.ConcurrentMap.Remove(runID)
	return nil
}

func (m *memoryRepo) Count() int {
	return m.ConcurrentMap.Count()
}
