// Package state holds application data views read from. Stores belong to the
// loop goroutine: background producers reach them only through work items.
package state

import "sort"

type Store interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	Del(key string)
	Int(key string) int
	Text(key string) string
	Keys() []string
	// Version increases on every mutation.
	Version() uint64
}

type store struct {
	values  map[string]any
	version uint64
}

func NewStore() Store {
	return &store{values: make(map[string]any)}
}

func (s *store) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *store) Set(key string, value any) {
	s.values[key] = value
	s.version++
}

func (s *store) Del(key string) {
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	s.version++
}

func (s *store) Int(key string) int {
	if v, ok := s.values[key].(int); ok {
		return v
	}
	return 0
}

func (s *store) Text(key string) string {
	if v, ok := s.values[key].(string); ok {
		return v
	}
	return ""
}

func (s *store) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *store) Version() uint64 {
	return s.version
}
