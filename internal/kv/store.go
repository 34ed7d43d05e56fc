package kv

// Store holds committed entries and the derived value-count index.
type Store struct {
	entries map[string]string
	counts  map[string]int
}

// New creates an empty store.
func New() *Store {
	return &Store{
		entries: make(map[string]string),
		counts:  make(map[string]int),
	}
}

// Set maps key to value, replacing any previous value.
func (s *Store) Set(key, value string) {
	if old, ok := s.entries[key]; ok {
		s.decrement(old)
	}
	s.entries[key] = value
	s.counts[value]++
}

// Unset removes key. Unsetting an absent key is a no-op.
func (s *Store) Unset(key string) {
	old, ok := s.entries[key]
	if !ok {
		return
	}
	delete(s.entries, key)
	s.decrement(old)
}

// Get returns the value for key and whether it is set.
func (s *Store) Get(key string) (string, bool) {
	v, ok := s.entries[key]
	return v, ok
}

// CountEqualTo returns the number of keys currently mapped to value.
func (s *Store) CountEqualTo(value string) int {
	return s.counts[value]
}

// Len returns the number of keys set.
func (s *Store) Len() int {
	return len(s.entries)
}

// Snapshot returns a copy of all entries.
func (s *Store) Snapshot() map[string]string {
	out := make(map[string]string, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

// Current implements txn.State.
func (s *Store) Current(key string) (string, bool) {
	return s.Get(key)
}

// Apply implements txn.State: present=false unsets key.
func (s *Store) Apply(key, value string, present bool) {
	if !present {
		s.Unset(key)
		return
	}
	s.Set(key, value)
}

// decrement lowers the count for value, dropping it at zero.
func (s *Store) decrement(value string) {
	n := s.counts[value] - 1
	if n <= 0 {
		delete(s.counts, value)
		return
	}
	s.counts[value] = n
}
