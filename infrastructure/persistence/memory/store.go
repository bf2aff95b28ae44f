// Package memory holds in-memory implementations of the repository ports.
// The store mirrors the single-table layout - items keyed by PK and SK,
// values holding the same record shapes the DynamoDB layer marshals - so the
// mapping layer is exercised identically in tests and local runs.
package memory

import (
	"sort"
	"strings"
	"sync"
)

// Store is a mutex-guarded in-memory table
type Store struct {
	mu    sync.RWMutex
	items map[string]map[string]interface{}
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		items: make(map[string]map[string]interface{}),
	}
}

// put writes an item unconditionally
func (s *Store) put(pk, sk string, value interface{}) {
	partition, ok := s.items[pk]
	if !ok {
		partition = make(map[string]interface{})
		s.items[pk] = partition
	}
	partition[sk] = value
}

// putIfAbsent writes an item only when its slot is empty, reporting whether
// the write happened
func (s *Store) putIfAbsent(pk, sk string, value interface{}) bool {
	if _, exists := s.get(pk, sk); exists {
		return false
	}
	s.put(pk, sk, value)
	return true
}

func (s *Store) get(pk, sk string) (interface{}, bool) {
	partition, ok := s.items[pk]
	if !ok {
		return nil, false
	}
	value, ok := partition[sk]
	return value, ok
}

func (s *Store) delete(pk, sk string) bool {
	partition, ok := s.items[pk]
	if !ok {
		return false
	}
	if _, ok := partition[sk]; !ok {
		return false
	}
	delete(partition, sk)
	return true
}

// queryPrefix returns a partition's items whose sort key starts with the
// prefix, in ascending sort-key order
func (s *Store) queryPrefix(pk, skPrefix string) []interface{} {
	partition, ok := s.items[pk]
	if !ok {
		return nil
	}

	keys := make([]string, 0, len(partition))
	for sk := range partition {
		if strings.HasPrefix(sk, skPrefix) {
			keys = append(keys, sk)
		}
	}
	sort.Strings(keys)

	values := make([]interface{}, 0, len(keys))
	for _, sk := range keys {
		values = append(values, partition[sk])
	}
	return values
}

// scanPartitions visits every partition key. Used for cross-owner lookups
// that DynamoDB serves from GSI1.
func (s *Store) scanPartitions(visit func(pk string, partition map[string]interface{}) bool) {
	for pk, partition := range s.items {
		if !visit(pk, partition) {
			return
		}
	}
}
