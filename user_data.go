package shapeplan

import "sync"

// userDataStore is the key/value attachment facility on a plan. Ancillary
// to the plan itself: guarded by a mutex rather than the plan's
// immutability rules, since attachments may come and go during a plan's
// lifetime. Destructors run when the owning plan is destroyed.
type userDataStore struct {
	mu      sync.Mutex
	entries map[any]userDataEntry
}

type userDataEntry struct {
	data    any
	destroy func()
}

func (s *userDataStore) set(key, data any, destroy func(), replace bool) bool {
	if key == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries == nil {
		s.entries = make(map[any]userDataEntry)
	}
	if prev, exists := s.entries[key]; exists {
		if !replace {
			return false
		}
		if prev.destroy != nil {
			prev.destroy()
		}
	}
	s.entries[key] = userDataEntry{data: data, destroy: destroy}
	return true
}

func (s *userDataStore) get(key any) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[key].data
}

// purge runs all destructors and drops all entries.
func (s *userDataStore) purge() {
	s.mu.Lock()
	entries := s.entries
	s.entries = nil
	s.mu.Unlock()
	for _, e := range entries {
		if e.destroy != nil {
			e.destroy()
		}
	}
}
