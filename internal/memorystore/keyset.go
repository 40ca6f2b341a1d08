package memorystore

import (
	"sort"
	"sync"
)

// KeySet is the set of keys a service is currently subscribed to.
// Only the owning service handler mutates it.
type KeySet struct {
	mu   sync.RWMutex
	keys map[string]struct{}
}

func NewKeySet() *KeySet {
	return &KeySet{
		keys: make(map[string]struct{}),
	}
}

// Set replaces the whole set.
func (s *KeySet) Set(keys []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = make(map[string]struct{}, len(keys))
	for _, k := range keys {
		s.keys[k] = struct{}{}
	}
}

// Add unions keys into the set and returns the ones that were not present, in input order.
func (s *KeySet) Add(keys ...string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var added []string
	for _, k := range keys {
		if _, ok := s.keys[k]; ok {
			continue
		}
		s.keys[k] = struct{}{}
		added = append(added, k)
	}
	return added
}

// Remove deletes keys and returns the ones that were present, in input order.
func (s *KeySet) Remove(keys ...string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed []string
	for _, k := range keys {
		if _, ok := s.keys[k]; !ok {
			continue
		}
		delete(s.keys, k)
		removed = append(removed, k)
	}
	return removed
}

func (s *KeySet) Contains(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.keys[key]
	return ok
}

func (s *KeySet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.keys)
}

// GetAll returns the keys in sorted order.
func (s *KeySet) GetAll() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.keys))
	for k := range s.keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
