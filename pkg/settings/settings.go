package settings

import (
	"fmt"
	"io"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"
)

// Store is a flattened, dot-notation view over an opaque settings map.
// It holds application defaults plus, for the duration of one tenant's
// unit of work, that tenant's overrides merged on top. Reset restores
// the defaults snapshot.
type Store struct {
	mu       sync.RWMutex
	defaults map[string]any
	values   map[string]any
}

// New creates a store with the given defaults. The defaults map is
// flattened once and kept as the snapshot Reset restores.
func New(defaults map[string]any) *Store {
	flat := Flatten(defaults)
	return &Store{
		defaults: flat,
		values:   clone(flat),
	}
}

// FromYAML creates a store whose defaults are read from YAML.
func FromYAML(r io.Reader) (*Store, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("settings: read defaults: %w", err)
	}
	var m map[string]any
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("settings: parse defaults: %w", err)
	}
	return New(m), nil
}

// Merge flattens blob and layers it over the current values. Tenant
// overrides win over defaults; nested maps merge key by key because
// flattening happens before the merge.
func (s *Store) Merge(blob map[string]any) {
	flat := Flatten(blob)

	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range flat {
		s.values[k] = v
	}
}

// Reset drops every override and restores the defaults snapshot.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = clone(s.defaults)
}

// Get returns the raw value at a dot-notation key.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// GetString returns the value at key as a string, or fallback.
func (s *Store) GetString(key, fallback string) string {
	v, ok := s.Get(key)
	if !ok {
		return fallback
	}
	switch t := v.(type) {
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// GetBool returns the value at key as a bool, or fallback.
func (s *Store) GetBool(key string, fallback bool) bool {
	v, ok := s.Get(key)
	if !ok {
		return fallback
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		if b, err := strconv.ParseBool(t); err == nil {
			return b
		}
	}
	return fallback
}

// GetInt returns the value at key as an int, or fallback. JSON-decoded
// numbers arrive as float64 and are accepted when integral.
func (s *Store) GetInt(key string, fallback int) int {
	v, ok := s.Get(key)
	if !ok {
		return fallback
	}
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		if t == float64(int(t)) {
			return int(t)
		}
	case string:
		if n, err := strconv.Atoi(t); err == nil {
			return n
		}
	}
	return fallback
}

// GetFloat returns the value at key as a float64, or fallback.
func (s *Store) GetFloat(key string, fallback float64) float64 {
	v, ok := s.Get(key)
	if !ok {
		return fallback
	}
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return f
		}
	}
	return fallback
}

// Keys returns every key currently set.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	return keys
}

// Flatten converts a nested map into dot-notation keys. Non-map values
// are kept as-is, including slices.
func Flatten(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	flattenInto(out, "", m)
	return out
}

func flattenInto(out map[string]any, prefix string, m map[string]any) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch nested := v.(type) {
		case map[string]any:
			flattenInto(out, key, nested)
		default:
			out[key] = v
		}
	}
}

func clone(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
